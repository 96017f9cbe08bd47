package models

// PostAttributes are the user-chosen properties of a hypothetical post.
// Enum fields are free strings; unknown values are tolerated downstream.
type PostAttributes struct {
	Platform string `json:"platform"`
	PostType string `json:"post_type"`
	Trending string `json:"trending"`
	Month    int    `json:"month"`
	Day      int    `json:"day"`
	Weekday  int    `json:"weekday"`
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute"`
}

// Preset is one of the canned example posts the form can be filled from.
type Preset struct {
	Name             string `yaml:"name" json:"name"`
	Platform         string `yaml:"platform" json:"platform"`
	PostType         string `yaml:"post_type" json:"post_type"`
	Trending         string `yaml:"trending" json:"trending"`
	Hour             int    `yaml:"hour" json:"hour"`
	Minute           int    `yaml:"minute" json:"minute"`
	Month            int    `yaml:"month" json:"month"`
	Day              int    `yaml:"day" json:"day"`
	Weekday          int    `yaml:"weekday" json:"weekday"`
	ActualEngagement int    `yaml:"actual_engagement" json:"actual_engagement"`
}

func (p Preset) Attributes() PostAttributes {
	return PostAttributes{
		Platform: p.Platform,
		PostType: p.PostType,
		Trending: p.Trending,
		Month:    p.Month,
		Day:      p.Day,
		Weekday:  p.Weekday,
		Hour:     p.Hour,
		Minute:   p.Minute,
	}
}
