// Package ui holds the page state that decides what is visible, so handlers
// never have to guess which section a visitor is looking at.
package ui

import (
	"fmt"

	"engagement-prediction-api/services"
)

type Section string

const (
	SectionPrediction Section = "prediction"
	SectionExplorer   Section = "explorer"
	SectionInsights   Section = "insights"
)

// Sections in navigation order.
var Sections = []Section{SectionPrediction, SectionExplorer, SectionInsights}

func ParseSection(s string) Section {
	for _, sec := range Sections {
		if string(sec) == s {
			return sec
		}
	}
	return SectionPrediction
}

func (s Section) Title() string {
	switch s {
	case SectionExplorer:
		return "Data Explorer"
	case SectionInsights:
		return "Model Insights"
	default:
		return "Predict"
	}
}

// View is the state of one rendered page.
type View struct {
	Section Section
	Theme   services.Theme
}

func NewView(section, theme string) View {
	return View{Section: ParseSection(section), Theme: services.ParseTheme(theme)}
}

func (v View) Active(s Section) bool {
	return v.Section == s
}

// Charts lists the charts to render for the active section. Charts of
// hidden sections are never rendered.
func (v View) Charts() []services.ChartID {
	switch v.Section {
	case SectionExplorer:
		return []services.ChartID{services.ChartPlatform, services.ChartPostType}
	case SectionInsights:
		return []services.ChartID{services.ChartFeatureImportance}
	}
	return nil
}

// ShowsChart reports whether id belongs to the active section.
func (v View) ShowsChart(id services.ChartID) bool {
	for _, c := range v.Charts() {
		if c == id {
			return true
		}
	}
	return false
}

// Slider readouts.

func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

func FormatPlain(v int) string {
	return fmt.Sprintf("%d", v)
}
