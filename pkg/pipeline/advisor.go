package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/LiSiruiRay/hacktech/internal/model"
	"github.com/LiSiruiRay/hacktech/pkg/llm"
)

const advisorSystemPrompt = "You are a smart portfolio advisor.  " +
	"The user holds AAPL, MSFT, AMZN, GOOGL, TSLA, META.  " +
	"Based on the following news cluster topics+summaries, give 3 tactical signals " +
	"like 'Buy more X', 'Take profits on Y', or 'Consider sector Z', each with a one-sentence rationale."

// TacticalSignals turns tagged events into three tactical portfolio signals
// as a plain-text block.
func TacticalSignals(ctx context.Context, client llm.CompletionClient, events []model.Event) (string, error) {
	blocks := make([]string, 0, len(events))
	for _, ev := range events {
		blocks = append(blocks, fmt.Sprintf("Topic: %s\nSummary: %s", ev.Topic, ev.Summary))
	}

	text, err := client.Complete(ctx, advisorSystemPrompt, strings.Join(blocks, "\n\n"))
	if err != nil {
		return "", fmt.Errorf("tactical signals: %w", err)
	}

	return strings.TrimSpace(text), nil
}
