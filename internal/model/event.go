package model

const (
	// FallbackSummary is the sentinel summary used when generation fails.
	FallbackSummary = "Summary not available."
	// FallbackTopic is the sentinel topic used when tagging fails.
	FallbackTopic = "General"
)

// Event is a cluster of topically related articles. The aggregator creates it
// with an empty summary and topic, the summarizer populates it exactly once,
// and it is read-only afterward.
type Event struct {
	EventID     string    `json:"event_id"`
	Summary     string    `json:"summary"`
	Topic       string    `json:"topic"`
	Risk        *int      `json:"risk,omitempty"`
	Opportunity *int      `json:"opportunity,omitempty"`
	Rationale   string    `json:"rationale,omitempty"`
	Articles    []Article `json:"news_list"`
}

// EventRef is the lightweight event shape used inside prediction causes and
// as caller-supplied predictor input: id and content only, no articles.
type EventRef struct {
	EventID string `json:"event_id"`
	Content string `json:"event_content"`
}

// Ref snapshots the event by value so later mutation of the source event
// cannot reach a prediction that references it.
func (e Event) Ref() EventRef {
	return EventRef{EventID: e.EventID, Content: e.Summary}
}

// EventShare pairs an event with its share of the run's total article count.
type EventShare struct {
	Percentage int   `json:"Percentage"`
	Event      Event `json:"Event"`
}
