package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LiSiruiRay/hacktech/internal/model"
	"github.com/LiSiruiRay/hacktech/pkg/llm"
)

const topicSystemPrompt = `You are a data-driven financial analyst. Given a summary of clustered financial news, produce:
- topic: a 1 to 3 word topic label
- risk: integer 1-10, where 10 = highest risk
- opportunity: integer 1-10, where 10 = highest upside
- rationale: one sentence explaining the scores

Output as JSON only, no other text:
{"topic": "...", "risk": 5, "opportunity": 5, "rationale": "..."}`

// Summarizer populates each event with a bounded-length summary, a short
// topic, and risk/opportunity scores, tolerating an unreliable completion
// provider. A pass over an event map always terminates with every event fully
// populated, falling back to sentinel values when the provider stays down.
type Summarizer struct {
	client      llm.CompletionClient
	maxRetries  int
	defaultWait time.Duration
	maxWords    int
}

func NewSummarizer(client llm.CompletionClient, maxWords int) *Summarizer {
	if maxWords <= 0 {
		maxWords = 150
	}
	return &Summarizer{
		client:      client,
		maxRetries:  3,
		defaultWait: 30 * time.Second,
		maxWords:    maxWords,
	}
}

// SummarizeAll runs the summarize step to completion for every event. Events
// are processed one at a time; a single event is never left half-updated.
func (s *Summarizer) SummarizeAll(ctx context.Context, events map[int]*model.Event) {
	for label, ev := range events {
		s.summarizeEvent(ctx, label, ev)
	}
}

func (s *Summarizer) summarizeEvent(ctx context.Context, label int, ev *model.Event) {
	summaries := make([]string, 0, len(ev.Articles))
	for _, a := range ev.Articles {
		summaries = append(summaries, a.Summary)
	}
	combined := strings.Join(summaries, "\n")

	system := fmt.Sprintf("Provide a concise summary of the following news summaries in no more than %d words.", s.maxWords)

	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		text, err := s.client.Complete(ctx, system, combined)
		if err == nil {
			text = strings.TrimSpace(text)
			if text == "" || text == model.FallbackSummary {
				err = fmt.Errorf("generated empty or fallback summary")
			}
		}

		if err == nil {
			ev.Summary = text
			s.tagEvent(ctx, label, ev)
			return
		}

		slog.Error("summary generation failed",
			"event", label, "attempt", attempt, "max_retries", s.maxRetries, "error", err)

		if llm.IsRateLimit(err) && attempt < s.maxRetries {
			wait := llm.RetryAfter(err, s.defaultWait)
			slog.Warn("rate limited, waiting before retry", "event", label, "wait", wait)
			select {
			case <-ctx.Done():
			case <-time.After(wait):
				continue
			}
		}

		// Non-rate-limit error, cancelled context, or retries exhausted.
		break
	}

	ev.Summary = model.FallbackSummary
	ev.Topic = model.FallbackTopic
	slog.Warn("using fallback summary and topic", "event", label)
}

// tagEvent generates topic and risk/opportunity scores from an event summary
// that already succeeded. Its failure never undoes the summary; the event
// just keeps the fallback topic and no scores.
func (s *Summarizer) tagEvent(ctx context.Context, label int, ev *model.Event) {
	ev.Topic = model.FallbackTopic

	text, err := s.client.Complete(ctx, topicSystemPrompt, "This is the summary: "+ev.Summary)
	if err != nil {
		slog.Error("topic generation failed", "event", label, "error", err)
		return
	}

	var parsed struct {
		Topic       string `json:"topic"`
		Risk        *int   `json:"risk"`
		Opportunity *int   `json:"opportunity"`
		Rationale   string `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(llm.CleanJSONResponse(text)), &parsed); err != nil {
		slog.Error("topic response parse failed", "event", label, "error", err)
		return
	}

	if parsed.Topic != "" {
		ev.Topic = parsed.Topic
	}
	ev.Risk = parsed.Risk
	ev.Opportunity = parsed.Opportunity
	ev.Rationale = parsed.Rationale
}
