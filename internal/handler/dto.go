package handler

// NewsItemResponse is the trimmed article shape exposed to clients.
type NewsItemResponse struct {
	Title       string `json:"title"`
	NewsContent string `json:"news_content"`
}

type EventResponse struct {
	EventID      string             `json:"event_id"`
	EventContent string             `json:"event_content"`
	Topic        string             `json:"topic"`
	Risk         *int               `json:"risk,omitempty"`
	Opportunity  *int               `json:"opportunity,omitempty"`
	Percentage   int                `json:"percentage"`
	NewsList     []NewsItemResponse `json:"news_list"`
}

type NewsResponse struct {
	Events []EventResponse `json:"events"`
}

type CauseResponse struct {
	Weight int `json:"weight"`
	Event  struct {
		EventID      string `json:"event_id"`
		EventContent string `json:"event_content"`
	} `json:"event"`
}

type PredictionResponse struct {
	Content         string          `json:"content"`
	ConfidenceScore int             `json:"confidence_score"`
	Reason          string          `json:"reason"`
	Cause           []CauseResponse `json:"cause"`
}

type PredictFromNewsResponse struct {
	Events      []EventResponse      `json:"events"`
	Predictions []PredictionResponse `json:"predictions"`
}
