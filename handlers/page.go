package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"engagement-prediction-api/models"
	"engagement-prediction-api/services"
	"engagement-prediction-api/ui"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	msgIncompleteForm     = "Please fill in all required fields"
	msgPredictionComplete = "Prediction complete"
)

var (
	platformOptions = []string{"Instagram", "Facebook", "Twitter"}
	postTypeOptions = []string{"poll", "video", "carousel", "image", "text"}
	trendingOptions = []string{"yes", "maybe", "no"}
)

type WeekdayOption struct {
	Value int
	Label string
}

// 0 is Monday, so 5 and 6 are the weekend.
var weekdayOptions = []WeekdayOption{
	{0, "Monday"}, {1, "Tuesday"}, {2, "Wednesday"}, {3, "Thursday"},
	{4, "Friday"}, {5, "Saturday"}, {6, "Sunday"},
}

type ChartSlot struct {
	ID       services.ChartID
	Title    string
	LightURL string
	DarkURL  string
}

var chartTitles = map[services.ChartID]string{
	services.ChartPlatform:          "Average engagement by platform",
	services.ChartPostType:          "Average engagement by post type",
	services.ChartFeatureImportance: "Feature importance",
}

type PageData struct {
	View       ui.View
	Sections   []ui.Section
	ClientID   string
	ToastTTLMS int64
	Form       models.PostAttributes
	Presets    []models.Preset
	Result     *models.PredictionResult
	Toast      *models.Toast
	Charts     []ChartSlot
	Stats      models.EngagementStats
	Platforms  []string
	PostTypes  []string
	Trending   []string
	Weekdays   []WeekdayOption
}

func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatHour":  ui.FormatHour,
		"formatPlain": ui.FormatPlain,
		"thousands":   thousands,
	}
}

// thousands groups digits with commas, like the browser's toLocaleString.
func thousands(v interface{}) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case float64:
		n = int64(x)
	default:
		return fmt.Sprint(v)
	}
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}

type PageHandler struct {
	predictor *services.Predictor
	insights  *services.Insights
	notifier  *services.Notifier
	pacer     Pacer
}

func NewPageHandler(predictor *services.Predictor, insights *services.Insights, notifier *services.Notifier, pacer Pacer) *PageHandler {
	return &PageHandler{predictor: predictor, insights: insights, notifier: notifier, pacer: pacer}
}

func defaultForm() models.PostAttributes {
	return models.PostAttributes{Month: 1, Day: 1, Weekday: 0, Hour: 12, Minute: 0}
}

func (h *PageHandler) newPage(view ui.View, clientID string) PageData {
	data := PageData{
		View:       view,
		Sections:   ui.Sections,
		ClientID:   clientID,
		ToastTTLMS: h.notifier.TTL().Milliseconds(),
		Form:       defaultForm(),
		Presets:    h.insights.Presets(),
		Stats:      h.insights.Dataset().EngagementStats,
		Platforms:  platformOptions,
		PostTypes:  postTypeOptions,
		Trending:   trendingOptions,
		Weekdays:   weekdayOptions,
	}
	for _, id := range view.Charts() {
		data.Charts = append(data.Charts, ChartSlot{
			ID:       id,
			Title:    chartTitles[id],
			LightURL: chartURL(id, services.ThemeLight, view.Section),
			DarkURL:  chartURL(id, services.ThemeDark, view.Section),
		})
	}
	return data
}

func chartURL(id services.ChartID, theme services.Theme, section ui.Section) string {
	q := url.Values{}
	q.Set("theme", string(theme))
	q.Set("section", string(section))
	return fmt.Sprintf("/charts/%s.svg?%s", id, q.Encode())
}

// Show renders the page for the requested section, optionally filling the
// form from a preset. An unknown preset leaves the default form in place.
func (h *PageHandler) Show(c *gin.Context) {
	view := ui.NewView(c.Query("section"), c.Query("theme"))
	clientID := resolveClientID(c)
	data := h.newPage(view, clientID)

	if raw := c.Query("preset"); raw != "" {
		data.View = ui.NewView(string(ui.SectionPrediction), c.Query("theme"))
		data.Charts = nil

		index, err := strconv.Atoi(raw)
		if err != nil {
			index = -1
		}
		preset, err := h.insights.Preset(index)
		if err != nil {
			log.Debug().Err(err).Str("preset", raw).Msg("ignoring unknown preset")
			c.HTML(http.StatusOK, "index.html", data)
			return
		}
		data.Form = preset.Attributes()
		toast := h.notifier.Toast("Loaded: "+preset.Name, models.ToastSuccess)
		data.Toast = &toast
	}

	c.HTML(http.StatusOK, "index.html", data)
}

// Submit handles the HTML form post.
func (h *PageHandler) Submit(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	clientID := resolveClientID(c)
	data := h.newPage(ui.NewView(string(ui.SectionPrediction), c.Query("theme")), clientID)

	form := services.ReadForm(c.Request.PostForm)
	data.Form = form.PostAttributes

	if err := services.ValidateForm(form); err != nil {
		services.ObserveIncompleteForm()
		log.Debug().Err(err).Msg("form rejected")
		toast := h.notifier.Toast(msgIncompleteForm, models.ToastError)
		data.Toast = &toast
		c.HTML(http.StatusBadRequest, "index.html", data)
		return
	}

	if err := h.pacer.Wait(c.Request.Context()); err != nil {
		c.Status(http.StatusRequestTimeout)
		return
	}

	result := h.predictor.Predict(form.PostAttributes)
	services.ObservePrediction(result.Category)
	data.Result = &result
	toast := h.notifier.Toast(msgPredictionComplete, models.ToastSuccess)
	data.Toast = &toast

	c.HTML(http.StatusOK, "index.html", data)
}
