package model

// WeightedCause attributes part of a prediction to one past event.
// Weights within a prediction are requested to sum to 100.
type WeightedCause struct {
	Weight int      `json:"weight"`
	Event  EventRef `json:"event"`
}

// Prediction is one predicted future event with its causal attribution.
type Prediction struct {
	Content         string          `json:"content"`
	ConfidenceScore int             `json:"confidence_score"`
	Reason          string          `json:"reason"`
	Cause           []WeightedCause `json:"cause"`
}

// PredictionBatch is the atomic unit returned by one predictor invocation.
type PredictionBatch struct {
	Predictions []Prediction `json:"predictions"`
}

// WeightSum returns the total causal weight of the prediction. The contract
// asks the model for 100; callers use this to detect deviation.
func (p Prediction) WeightSum() int {
	sum := 0
	for _, c := range p.Cause {
		sum += c.Weight
	}
	return sum
}
