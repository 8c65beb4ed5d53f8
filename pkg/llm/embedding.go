package llm

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// EmbedConfig tunes the batching embedder to a provider's rate limits.
type EmbedConfig struct {
	// BatchSize is the maximum number of texts sent in one upstream call.
	BatchSize int
	// MaxRetries bounds attempts per batch before it degrades to zero vectors.
	MaxRetries int
	// BaseBackoff is the first retry wait; it doubles per attempt.
	BaseBackoff time.Duration
	// RequestsPerMinute is the upstream request budget.
	RequestsPerMinute int
	// TokensPerMinute is the upstream token budget used to pace batches.
	TokensPerMinute int
	// Dim is the vector dimension used for fallback vectors when no batch
	// ever succeeds, so output stays shape-correct.
	Dim int
}

func DefaultEmbedConfig() EmbedConfig {
	return EmbedConfig{
		BatchSize:         100,
		MaxRetries:        3,
		BaseBackoff:       2 * time.Second,
		RequestsPerMinute: 60,
		TokensPerMinute:   1_000_000,
		Dim:               1536,
	}
}

// Embedder turns texts into fixed-dimension vectors through an
// EmbeddingBackend, batching calls and absorbing upstream failures so the
// pipeline never blocks on a sick embedding provider. Output always has one
// vector per input text, in input order.
type Embedder struct {
	backend EmbeddingBackend
	cfg     EmbedConfig
	limiter *rate.Limiter
}

func NewEmbedder(backend EmbeddingBackend, cfg EmbedConfig) *Embedder {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultEmbedConfig().BatchSize
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultEmbedConfig().MaxRetries
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = DefaultEmbedConfig().BaseBackoff
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultEmbedConfig().RequestsPerMinute
	}
	if cfg.TokensPerMinute <= 0 {
		cfg.TokensPerMinute = DefaultEmbedConfig().TokensPerMinute
	}
	if cfg.Dim <= 0 {
		cfg.Dim = DefaultEmbedConfig().Dim
	}

	return &Embedder{
		backend: backend,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
	}
}

// Embed returns one vector per text, in order. Batches that exhaust their
// retries are filled with zero vectors; if every batch fails, the whole result
// is replaced with random vectors as a last resort so clustering can proceed.
// Both degradations are logged. The only returned error is context
// cancellation.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	result := make([][]float64, 0, len(texts))
	dim := e.cfg.Dim
	anySuccess := false

	for start := 0; start < len(texts); start += e.cfg.BatchSize {
		end := min(start+e.cfg.BatchSize, len(texts))
		batch := texts[start:end]

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		vectors, err := e.embedBatchWithRetry(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("embedding batch degraded to zero vectors",
				"batch_start", start, "batch_size", len(batch), "error", err)
			vectors = zeroVectors(len(batch), dim)
		} else {
			anySuccess = true
			if len(vectors) > 0 && len(vectors[0]) > 0 {
				dim = len(vectors[0])
			}
		}
		result = append(result, vectors...)

		if end < len(texts) {
			if err := e.pause(ctx, batch); err != nil {
				return nil, err
			}
		}
	}

	if !anySuccess {
		slog.Error("embedding provider unavailable, falling back to random vectors",
			"texts", len(texts), "dim", dim)
		return randomVectors(len(texts), dim), nil
	}

	return result, nil
}

func (e *Embedder) embedBatchWithRetry(ctx context.Context, batch []string) ([][]float64, error) {
	var lastErr error
	backoff := e.cfg.BaseBackoff

	for attempt := 0; attempt < e.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := backoff
			if IsRateLimit(lastErr) {
				wait = RetryAfter(lastErr, backoff)
			}
			wait += jitter(wait / 4)
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
			backoff *= 2
		}

		vectors, err := e.backend.CreateEmbeddings(ctx, batch)
		if err == nil {
			if len(vectors) != len(batch) {
				lastErr = fmt.Errorf("embedding count mismatch: sent %d, got %d", len(batch), len(vectors))
				continue
			}
			return vectors, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

// pause spaces batches out against the token-per-minute budget, estimating
// roughly four characters per token, with jitter so parallel pipelines do not
// retry in lockstep.
func (e *Embedder) pause(ctx context.Context, batch []string) error {
	chars := 0
	for _, t := range batch {
		chars += len(t)
	}
	tokens := chars / 4

	wait := time.Duration(float64(tokens) / float64(e.cfg.TokensPerMinute) * float64(time.Minute))
	wait += jitter(500 * time.Millisecond)

	return sleep(ctx, wait)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}

func zeroVectors(n, dim int) [][]float64 {
	vectors := make([][]float64, n)
	for i := range vectors {
		vectors[i] = make([]float64, dim)
	}
	return vectors
}

func randomVectors(n, dim int) [][]float64 {
	vectors := make([][]float64, n)
	for i := range vectors {
		v := make([]float64, dim)
		for j := range v {
			v[j] = rand.Float64()
		}
		vectors[i] = v
	}
	return vectors
}
