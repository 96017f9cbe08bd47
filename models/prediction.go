package models

const (
	CategoryExcellent    = "Excellent"
	CategoryGood         = "Good"
	CategoryAverage      = "Average"
	CategoryBelowAverage = "Below Average"
)

type PredictionResult struct {
	Engagement  int    `json:"engagement"`
	Confidence  int    `json:"confidence"`
	Category    string `json:"category"`
	Explanation string `json:"explanation"`
}

// Factor is one deterministic multiplier applied to the base engagement.
type Factor struct {
	Name       string  `json:"name"`
	Label      string  `json:"label"`
	Multiplier float64 `json:"multiplier"`
}
