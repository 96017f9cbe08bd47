package handlers

import (
	"net/http"
	"strconv"

	"engagement-prediction-api/models"
	"engagement-prediction-api/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type InsightsHandler struct {
	insights *services.Insights
	notifier *services.Notifier
}

func NewInsightsHandler(insights *services.Insights, notifier *services.Notifier) *InsightsHandler {
	return &InsightsHandler{insights: insights, notifier: notifier}
}

func (h *InsightsHandler) GetInsights(c *gin.Context) {
	d := h.insights.Dataset()
	c.JSON(http.StatusOK, gin.H{
		"engagement_stats":      d.EngagementStats,
		"platform_performance":  d.PlatformPerformance,
		"post_type_performance": d.PostTypePerformance,
		"feature_importance":    h.insights.SortedFeatureImportance(),
	})
}

func (h *InsightsHandler) GetPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.insights.Presets()})
}

// LoadPreset returns the preset's form values and tells the page it was loaded.
func (h *InsightsHandler) LoadPreset(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid preset index, must be an integer"})
		return
	}

	preset, err := h.insights.Preset(index)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	clientID := providedClientID(c)
	if err := h.notifier.Notify(c.Request.Context(), clientID, "Loaded: "+preset.Name, models.ToastSuccess); err != nil {
		log.Warn().Err(err).Str("client", clientID).Msg("toast publish failed")
	}

	c.JSON(http.StatusOK, gin.H{"preset": preset, "attributes": preset.Attributes()})
}
