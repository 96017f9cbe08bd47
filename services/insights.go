package services

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"sort"

	"engagement-prediction-api/models"

	"gopkg.in/yaml.v3"
)

//go:embed data/insights.yaml
var insightsYAML []byte

var ErrInvalidPreset = errors.New("invalid preset index")

// Insights holds the immutable display tables. Accessors return copies.
type Insights struct {
	data models.DatasetInsights
}

func LoadInsights() (*Insights, error) {
	return ParseInsights(insightsYAML)
}

func ParseInsights(raw []byte) (*Insights, error) {
	var data models.DatasetInsights
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse insights: %w", err)
	}
	if len(data.PlatformPerformance) == 0 || len(data.PostTypePerformance) == 0 {
		return nil, errors.New("parse insights: performance tables are empty")
	}
	if len(data.FeatureImportance) == 0 {
		return nil, errors.New("parse insights: feature importance table is empty")
	}
	return &Insights{data: data}, nil
}

func (i *Insights) Dataset() models.DatasetInsights {
	d := i.data
	d.PlatformPerformance = append([]models.GroupPerformance(nil), i.data.PlatformPerformance...)
	d.PostTypePerformance = append([]models.GroupPerformance(nil), i.data.PostTypePerformance...)
	d.FeatureImportance = append([]models.FeatureWeight(nil), i.data.FeatureImportance...)
	d.Presets = i.Presets()
	return d
}

func (i *Insights) PlatformPerformance() []models.GroupPerformance {
	return append([]models.GroupPerformance(nil), i.data.PlatformPerformance...)
}

func (i *Insights) PostTypePerformance() []models.GroupPerformance {
	return append([]models.GroupPerformance(nil), i.data.PostTypePerformance...)
}

// SortedFeatureImportance orders features by descending absolute weight.
// Ties keep their table order.
func (i *Insights) SortedFeatureImportance() []models.FeatureWeight {
	out := append([]models.FeatureWeight(nil), i.data.FeatureImportance...)
	sort.SliceStable(out, func(a, b int) bool {
		return math.Abs(out[a].Weight) > math.Abs(out[b].Weight)
	})
	return out
}

func (i *Insights) Presets() []models.Preset {
	return append([]models.Preset(nil), i.data.Presets...)
}

func (i *Insights) Preset(index int) (models.Preset, error) {
	if index < 0 || index >= len(i.data.Presets) {
		return models.Preset{}, fmt.Errorf("%w: %d", ErrInvalidPreset, index)
	}
	return i.data.Presets[index], nil
}
