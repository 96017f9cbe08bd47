package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
	"time"

	"engagement-prediction-api/models"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

var ErrUnknownChart = errors.New("unknown chart")

type ChartID string

const (
	ChartPlatform          ChartID = "platform-chart"
	ChartPostType          ChartID = "post-type-chart"
	ChartFeatureImportance ChartID = "feature-importance-chart"
)

func (id ChartID) Valid() bool {
	switch id {
	case ChartPlatform, ChartPostType, ChartFeatureImportance:
		return true
	}
	return false
}

type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func ParseTheme(s string) Theme {
	if strings.EqualFold(s, string(ThemeDark)) {
		return ThemeDark
	}
	return ThemeLight
}

// FontColor is the only thing a theme swap changes.
func (t Theme) FontColor() string {
	if t == ThemeDark {
		return "#f5f5f5"
	}
	return "#134252"
}

const (
	DefaultChartWidth  = 640
	DefaultChartHeight = 400
	minChartSize       = 200
	maxChartSize       = 2000

	positiveWeightColor = "#32808D"
	negativeWeightColor = "#C0152F"
)

var (
	platformColors = []string{"#1FB8CD", "#FFC185", "#B4413C"}
	postTypeColors = []string{"#ECEBD5", "#5D878F", "#DB4545", "#D2BA4C", "#964325"}
)

type ChartOptions struct {
	Theme  Theme
	Width  int
	Height int
}

// Normalize fills defaults and clamps the canvas size.
func (o ChartOptions) Normalize() ChartOptions {
	if o.Theme != ThemeDark {
		o.Theme = ThemeLight
	}
	o.Width = clampSize(o.Width, DefaultChartWidth)
	o.Height = clampSize(o.Height, DefaultChartHeight)
	return o
}

func clampSize(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return max(minChartSize, min(maxChartSize, v))
}

// BarChartSpec is everything the plotting library needs for one chart.
type BarChartSpec struct {
	ID          ChartID
	Categories  []string
	Values      []float64
	Colors      []string
	Labels      []string
	Orientation Orientation
	XTitle      string
	YTitle      string
}

type ChartRenderer struct {
	insights *Insights
	cache    *CacheService
	cacheTTL time.Duration
}

func NewChartRenderer(insights *Insights, cache *CacheService, cacheTTL time.Duration) *ChartRenderer {
	return &ChartRenderer{insights: insights, cache: cache, cacheTTL: cacheTTL}
}

func (r *ChartRenderer) Spec(id ChartID) (BarChartSpec, error) {
	switch id {
	case ChartPlatform:
		return groupSpec(id, r.insights.PlatformPerformance(), platformColors, "Platform"), nil
	case ChartPostType:
		return groupSpec(id, r.insights.PostTypePerformance(), postTypeColors, "Post Type"), nil
	case ChartFeatureImportance:
		features := r.insights.SortedFeatureImportance()
		spec := BarChartSpec{
			ID:          id,
			Orientation: Horizontal,
			XTitle:      "Feature Importance",
		}
		for _, f := range features {
			spec.Categories = append(spec.Categories, f.DisplayName)
			spec.Values = append(spec.Values, f.Weight)
			if f.Weight >= 0 {
				spec.Colors = append(spec.Colors, positiveWeightColor)
			} else {
				spec.Colors = append(spec.Colors, negativeWeightColor)
			}
		}
		return spec, nil
	}
	return BarChartSpec{}, fmt.Errorf("%w: %s", ErrUnknownChart, id)
}

func groupSpec(id ChartID, groups []models.GroupPerformance, colors []string, xTitle string) BarChartSpec {
	spec := BarChartSpec{
		ID:          id,
		Orientation: Vertical,
		XTitle:      xTitle,
		YTitle:      "Average Engagement",
	}
	for i, g := range groups {
		spec.Categories = append(spec.Categories, g.Name)
		spec.Values = append(spec.Values, math.Round(g.Mean))
		spec.Colors = append(spec.Colors, colors[i%len(colors)])
		spec.Labels = append(spec.Labels, fmt.Sprintf("%d posts", g.Count))
	}
	return spec
}

func chartCacheKey(id ChartID, opts ChartOptions) string {
	return fmt.Sprintf("chart:%s:%s:%dx%d", id, opts.Theme, opts.Width, opts.Height)
}

// Render returns the SVG for id, served from cache when possible.
func (r *ChartRenderer) Render(ctx context.Context, id ChartID, opts ChartOptions) ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChart, id)
	}
	opts = opts.Normalize()
	key := chartCacheKey(id, opts)

	if cached, err := r.cache.GetBytes(ctx, key); err == nil {
		chartCacheHits.WithLabelValues(string(id)).Inc()
		return cached, nil
	} else if !errors.Is(err, ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("chart cache read failed")
	}

	spec, err := r.Spec(id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	svg, err := RenderBarChart(spec, opts)
	chartRenderDuration.WithLabelValues(string(id)).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", id, err)
	}

	if err := r.cache.SetBytes(ctx, key, svg, r.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("chart cache write failed")
	}
	return svg, nil
}

// RenderBarChart draws spec as an SVG bar chart with gonum/plot.
func RenderBarChart(spec BarChartSpec, opts ChartOptions) ([]byte, error) {
	if len(spec.Categories) != len(spec.Values) {
		return nil, fmt.Errorf("chart %s: %d categories but %d values", spec.ID, len(spec.Categories), len(spec.Values))
	}
	if len(spec.Values) == 0 {
		return nil, fmt.Errorf("chart %s: no data", spec.ID)
	}
	opts = opts.Normalize()

	font, err := parseHexColor(opts.Theme.FontColor())
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.BackgroundColor = color.Transparent
	p.X.Label.Text = spec.XTitle
	p.Y.Label.Text = spec.YTitle
	applyFontColor(p, font)

	n := len(spec.Values)
	span := opts.Width
	if spec.Orientation == Horizontal {
		span = opts.Height
	}
	barWidth := vg.Points(float64(span) * 0.55 / float64(n))

	for i, v := range spec.Values {
		bars, err := plotter.NewBarChart(plotter.Values{v}, barWidth)
		if err != nil {
			return nil, fmt.Errorf("chart %s bar %d: %w", spec.ID, i, err)
		}
		fill := color.Color(font)
		if len(spec.Colors) > 0 {
			c, err := parseHexColor(spec.Colors[i%len(spec.Colors)])
			if err != nil {
				return nil, err
			}
			fill = c
		}
		bars.Color = fill
		bars.LineStyle.Width = 0
		if spec.Orientation == Horizontal {
			bars.Horizontal = true
			// first category at the top
			bars.XMin = float64(n - 1 - i)
		} else {
			bars.XMin = float64(i)
		}
		p.Add(bars)
	}

	if spec.Orientation == Horizontal {
		names := make([]string, n)
		for i, c := range spec.Categories {
			names[n-1-i] = c
		}
		p.NominalY(names...)
	} else {
		p.NominalX(spec.Categories...)
	}

	if len(spec.Labels) == n && spec.Orientation == Vertical {
		xys := make(plotter.XYs, n)
		for i, v := range spec.Values {
			xys[i] = plotter.XY{X: float64(i), Y: v}
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: spec.Labels})
		if err != nil {
			return nil, fmt.Errorf("chart %s labels: %w", spec.ID, err)
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Color = font
			labels.TextStyle[i].XAlign = text.XCenter
		}
		labels.Offset = vg.Point{Y: vg.Points(4)}
		p.Add(labels)
		// headroom for the labels above the tallest bar
		p.Y.Max *= 1.12
	}

	wt, err := p.WriterTo(vg.Points(float64(opts.Width)), vg.Points(float64(opts.Height)), "svg")
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", spec.ID, err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("chart %s: %w", spec.ID, err)
	}
	return buf.Bytes(), nil
}

func applyFontColor(p *plot.Plot, c color.Color) {
	p.Title.TextStyle.Color = c
	for _, axis := range []*plot.Axis{&p.X, &p.Y} {
		axis.Label.TextStyle.Color = c
		axis.Tick.Label.Color = c
		axis.Tick.Color = c
		axis.Color = c
	}
}

func parseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
