package services

import (
	"fmt"
	"math"
	"strings"

	"engagement-prediction-api/models"

	"gonum.org/v1/gonum/floats"
)

const (
	baseEngagement = 2500.0

	jitterMin       = 0.8
	jitterSpan      = 0.4
	confidenceFloor = 60.0
	confidenceSpan  = 30.0
	confidenceCap   = 95.0

	weekendMultiplier = 1.15

	fallbackExplanation = "Prediction based on historical performance patterns."
)

var platformMultipliers = map[string]float64{
	"Instagram": 1.25,
	"Facebook":  1.14,
	"Twitter":   0.58,
}

var postTypeMultipliers = map[string]float64{
	"poll":     1.50,
	"video":    1.42,
	"carousel": 1.21,
	"image":    1.04,
	"text":     0.89,
}

var trendingMultipliers = map[string]float64{
	"yes":   1.3,
	"maybe": 1.1,
	"no":    0.9,
}

// Predictor estimates engagement with a fixed multiplicative heuristic.
// It is not a trained model. The only non-determinism comes from src.
type Predictor struct {
	src RandomSource
}

func NewPredictor(src RandomSource) *Predictor {
	return &Predictor{src: src}
}

// Predict never fails: unknown enum values contribute a multiplier of 1.0.
func (p *Predictor) Predict(attrs models.PostAttributes) models.PredictionResult {
	factors := Breakdown(attrs)

	chain := make([]float64, 0, len(factors)+2)
	chain = append(chain, baseEngagement)
	for _, f := range factors {
		chain = append(chain, f.Multiplier)
	}
	chain = append(chain, jitterMin+p.src.Float64()*jitterSpan)

	engagement := int(math.Round(floats.Prod(chain)))
	confidence := int(math.Round(math.Min(confidenceCap, confidenceFloor+p.src.Float64()*confidenceSpan)))

	return models.PredictionResult{
		Engagement:  engagement,
		Confidence:  confidence,
		Category:    Category(engagement),
		Explanation: Explain(attrs),
	}
}

// Breakdown lists the deterministic multipliers in application order.
func Breakdown(attrs models.PostAttributes) []models.Factor {
	tod := TimeOfDay(attrs.Hour)
	weekend := 1.0
	weekendLabel := "weekday"
	if IsWeekend(attrs.Weekday) {
		weekend = weekendMultiplier
		weekendLabel = "weekend"
	}

	return []models.Factor{
		{Name: "platform", Label: attrs.Platform, Multiplier: lookup(platformMultipliers, attrs.Platform)},
		{Name: "post_type", Label: attrs.PostType, Multiplier: lookup(postTypeMultipliers, attrs.PostType)},
		{Name: "trending", Label: attrs.Trending, Multiplier: lookup(trendingMultipliers, attrs.Trending)},
		{Name: "time_of_day", Label: tod, Multiplier: timeOfDayMultipliers[tod]},
		{Name: "weekend", Label: weekendLabel, Multiplier: weekend},
	}
}

func lookup(table map[string]float64, key string) float64 {
	if m, ok := table[key]; ok {
		return m
	}
	return 1.0
}

var timeOfDayMultipliers = map[string]float64{
	"morning":   1.1,
	"afternoon": 1.2,
	"evening":   1.3,
	"night":     0.8,
}

// TimeOfDay buckets an hour: [6,12) morning, [12,18) afternoon,
// [18,22) evening, anything else night.
func TimeOfDay(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 18:
		return "afternoon"
	case hour >= 18 && hour < 22:
		return "evening"
	default:
		return "night"
	}
}

func IsWeekend(weekday int) bool {
	return weekday == 5 || weekday == 6
}

// Category is evaluated top-down; first threshold met wins.
func Category(engagement int) string {
	switch {
	case engagement >= 5000:
		return models.CategoryExcellent
	case engagement >= 3500:
		return models.CategoryGood
	case engagement >= 2000:
		return models.CategoryAverage
	default:
		return models.CategoryBelowAverage
	}
}

func Explain(attrs models.PostAttributes) string {
	var clauses []string

	switch attrs.Platform {
	case "Instagram":
		clauses = append(clauses, "Instagram typically generates higher engagement")
	case "Twitter":
		clauses = append(clauses, "Twitter posts tend to have lower engagement rates")
	}

	if attrs.PostType == "video" || attrs.PostType == "poll" {
		clauses = append(clauses, fmt.Sprintf("%s content performs well with audiences", attrs.PostType))
	}

	if attrs.Hour >= 18 && attrs.Hour < 22 {
		clauses = append(clauses, "Evening posts catch users during peak activity hours")
	} else if attrs.Hour >= 6 && attrs.Hour < 12 {
		clauses = append(clauses, "Morning posts benefit from commute-time browsing")
	}

	if attrs.Trending == "yes" {
		clauses = append(clauses, "Trending content receives algorithm boost")
	}

	if len(clauses) == 0 {
		return fallbackExplanation
	}
	return strings.Join(clauses, ". ") + "."
}
