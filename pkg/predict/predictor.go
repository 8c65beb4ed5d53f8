package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LiSiruiRay/hacktech/internal/model"
	"github.com/LiSiruiRay/hacktech/pkg/llm"
)

// Profile selects the prediction backend. Both profiles must honor the same
// output schema; they differ only in where the model runs.
type Profile string

const (
	// ProfileMarket uses the hosted provider.
	ProfileMarket Profile = "market"
	// ProfilePrivate uses a self-hosted OpenAI-compatible endpoint.
	ProfilePrivate Profile = "private"
)

// PastEvent is a predictor input: a bare event reference, optionally carrying
// its article list. Articles only enrich the prompt context; the attribution
// mechanics and output schema are the same either way.
type PastEvent struct {
	model.EventRef
	Articles []model.Article
}

const predictionSchemaPrompt = `
For each predicted event, you need to:
- Determine which past events caused it
- Assign weights to each cause (must sum to 100)
- Provide a confidence score (0-100)
- Give a detailed reason for the prediction

Output as JSON only, no other text, exactly this shape:
{
  "predictions": [
    {
      "content": "what is the predicted event that's going to happen",
      "confidence_score": 80,
      "reason": "reason why we are predicting this event to be happening",
      "cause": [
        {"weight": 60, "event": {"event_id": "id of a past event", "event_content": "content of that past event"}}
      ]
    }
  ]
}`

// Predictor asks a generative backend for future-event predictions with
// weighted causal attribution over past events, and strictly validates what
// comes back.
type Predictor struct {
	client  llm.CompletionClient
	profile Profile
}

// New builds a predictor for the given profile. The market profile needs a
// provider API key; the private profile needs the endpoint base URL and model
// name. Missing configuration is a ConfigError.
func New(profile Profile, apiKey, privateBaseURL, privateModel string) (*Predictor, error) {
	switch profile {
	case ProfileMarket:
		if apiKey == "" {
			return nil, &ConfigError{Reason: "missing API key for market profile"}
		}
		return &Predictor{client: llm.NewOpenAIClient(apiKey), profile: profile}, nil
	case ProfilePrivate:
		if privateBaseURL == "" {
			return nil, &ConfigError{Reason: "missing base URL for private profile"}
		}
		if privateModel == "" {
			privateModel = "qwq-32b"
		}
		// The wire protocol wants a key even when the server ignores it.
		if apiKey == "" {
			apiKey = "lm-studio"
		}
		return &Predictor{client: llm.NewOpenAIClientWithBaseURL(apiKey, privateBaseURL, privateModel), profile: profile}, nil
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown profile %q", profile)}
	}
}

// NewWithClient wires an explicit completion client, mainly for tests.
func NewWithClient(client llm.CompletionClient, profile Profile) *Predictor {
	return &Predictor{client: client, profile: profile}
}

func (p *Predictor) Profile() Profile {
	return p.profile
}

// buildPrompt serializes past events into the system prompt. Events carrying
// articles get their titles and text inlined for richer causal context.
func buildPrompt(events []PastEvent) string {
	var sb strings.Builder
	sb.WriteString("Based on the given past events and their associated news, predict future events that might happen.\n\n")
	sb.WriteString("Consider the following:\n")
	sb.WriteString("1. Identify patterns and relationships between past events\n")
	sb.WriteString("2. Evaluate how one event might lead to another\n")
	sb.WriteString("3. Assess the probability of each predicted event\n")
	sb.WriteString("4. Provide a clear reasoning for each prediction\n")
	sb.WriteString(predictionSchemaPrompt)
	sb.WriteString("\n\n<past_events>\n")

	for _, ev := range events {
		sb.WriteString(fmt.Sprintf("\nEvent %s: %s\n", ev.EventID, ev.Content))
		if len(ev.Articles) > 0 {
			sb.WriteString("Related News:\n")
			for _, a := range ev.Articles {
				sb.WriteString(fmt.Sprintf("- %s: %s\n", a.Title, a.Summary))
			}
		}
	}

	sb.WriteString("</past_events>")
	return sb.String()
}

// Predict requests numPredictions future events attributed to the given past
// events. Structural non-conformance in the model output surfaces as a
// SchemaError; weight sums that deviate from 100 are logged and passed
// through as received.
func (p *Predictor) Predict(ctx context.Context, events []PastEvent, numPredictions int) (*model.PredictionBatch, error) {
	if numPredictions <= 0 {
		numPredictions = 3
	}

	system := buildPrompt(events)
	user := fmt.Sprintf("Predict %d future events based on the provided past events.", numPredictions)

	raw, err := p.client.Complete(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("prediction call: %w", err)
	}

	batch, err := parseBatch(raw)
	if err != nil {
		return nil, err
	}

	for i, pred := range batch.Predictions {
		if sum := pred.WeightSum(); sum != 100 {
			slog.Warn("prediction cause weights do not sum to 100",
				"prediction", i, "sum", sum, "profile", string(p.profile))
		}
	}

	return batch, nil
}

// PredictFromJSON accepts a JSON array of bare events ({event_id,
// event_content}) and predicts from them. Malformed input is an InputError,
// distinguishable from provider and schema failures.
func (p *Predictor) PredictFromJSON(ctx context.Context, jsonStr string, numPredictions int) (*model.PredictionBatch, error) {
	var refs []model.EventRef
	if err := json.Unmarshal([]byte(jsonStr), &refs); err != nil {
		return nil, &InputError{Err: fmt.Errorf("parsing events JSON: %w", err)}
	}
	if len(refs) == 0 {
		return nil, &InputError{Err: fmt.Errorf("no events in input")}
	}

	events := make([]PastEvent, len(refs))
	for i, r := range refs {
		if r.EventID == "" {
			return nil, &InputError{Err: fmt.Errorf("event %d missing event_id", i)}
		}
		events[i] = PastEvent{EventRef: r}
	}

	return p.Predict(ctx, events, numPredictions)
}

func parseBatch(raw string) (*model.PredictionBatch, error) {
	var batch model.PredictionBatch
	if err := json.Unmarshal([]byte(llm.CleanJSONResponse(raw)), &batch); err != nil {
		return nil, &SchemaError{Reason: "response is not valid prediction JSON", Err: err}
	}

	if len(batch.Predictions) == 0 {
		return nil, &SchemaError{Reason: "response contains no predictions"}
	}

	for i, pred := range batch.Predictions {
		if pred.Content == "" {
			return nil, &SchemaError{Reason: fmt.Sprintf("prediction %d has empty content", i)}
		}
		if pred.ConfidenceScore < 0 || pred.ConfidenceScore > 100 {
			return nil, &SchemaError{Reason: fmt.Sprintf("prediction %d confidence_score %d out of range", i, pred.ConfidenceScore)}
		}
		if len(pred.Cause) == 0 {
			return nil, &SchemaError{Reason: fmt.Sprintf("prediction %d has no causes", i)}
		}
		for j, cause := range pred.Cause {
			if cause.Weight < 0 || cause.Weight > 100 {
				return nil, &SchemaError{Reason: fmt.Sprintf("prediction %d cause %d weight %d out of range", i, j, cause.Weight)}
			}
			if cause.Event.EventID == "" {
				return nil, &SchemaError{Reason: fmt.Sprintf("prediction %d cause %d missing event_id", i, j)}
			}
		}
	}

	return &batch, nil
}
