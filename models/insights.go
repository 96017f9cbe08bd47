package models

type EngagementStats struct {
	Min    float64 `yaml:"min" json:"min"`
	Max    float64 `yaml:"max" json:"max"`
	Mean   float64 `yaml:"mean" json:"mean"`
	Median float64 `yaml:"median" json:"median"`
}

// GroupPerformance is the mean engagement and sample size of one category.
type GroupPerformance struct {
	Name  string  `yaml:"name" json:"name"`
	Mean  float64 `yaml:"mean" json:"mean"`
	Count int     `yaml:"count" json:"count"`
}

type FeatureWeight struct {
	Feature     string  `yaml:"feature" json:"feature"`
	DisplayName string  `yaml:"display_name" json:"display_name"`
	Weight      float64 `yaml:"weight" json:"weight"`
}

type DatasetInsights struct {
	EngagementStats     EngagementStats    `yaml:"engagement_stats" json:"engagement_stats"`
	PlatformPerformance []GroupPerformance `yaml:"platform_performance" json:"platform_performance"`
	PostTypePerformance []GroupPerformance `yaml:"post_type_performance" json:"post_type_performance"`
	FeatureImportance   []FeatureWeight    `yaml:"feature_importance" json:"feature_importance"`
	Presets             []Preset           `yaml:"presets" json:"presets"`
}
