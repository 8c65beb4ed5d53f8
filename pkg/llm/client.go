package llm

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/openai/openai-go"
)

// CompletionClient is the generative-text boundary. Implementations return the
// raw model text; callers own prompt construction and response parsing.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Name() string
}

// EmbeddingBackend is a single upstream embedding call, one batch in, one
// vector per text out. The Embedder wraps it with batching and retry policy.
type EmbeddingBackend interface {
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float64, error)
}

var waitHintRe = regexp.MustCompile(`try again in (\d+(?:\.\d+)?)s`)

// IsRateLimit reports whether err looks like a provider rate-limit rejection.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}

	var apierr *openai.Error
	if errors.As(err, &apierr) && apierr.StatusCode == 429 {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate_limit") || strings.Contains(msg, "rate limit")
}

// RetryAfter extracts the provider's suggested wait from a rate-limit error
// message ("try again in 12.34s"), padded by a second. Returns fallback when
// the message carries no hint.
func RetryAfter(err error, fallback time.Duration) time.Duration {
	if err == nil {
		return fallback
	}

	m := waitHintRe.FindStringSubmatch(err.Error())
	if len(m) != 2 {
		return fallback
	}

	secs, parseErr := strconv.ParseFloat(m[1], 64)
	if parseErr != nil {
		return fallback
	}

	return time.Duration((secs + 1) * float64(time.Second))
}

// CleanJSONResponse strips markdown fences and surrounding prose so the
// remaining text can be unmarshalled directly.
func CleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
