package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"engagement-prediction-api/services"
	"engagement-prediction-api/ui"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type ChartHandler struct {
	renderer *services.ChartRenderer
	pacer    Pacer
}

func NewChartHandler(renderer *services.ChartRenderer, pacer Pacer) *ChartHandler {
	return &ChartHandler{renderer: renderer, pacer: pacer}
}

// GetChart serves /charts/<id>.svg. When the caller names the section it
// is showing and the chart does not belong there, nothing is rendered.
func (h *ChartHandler) GetChart(c *gin.Context) {
	id := services.ChartID(strings.TrimSuffix(c.Param("file"), ".svg"))
	if !id.Valid() {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown chart"})
		return
	}

	if section := c.Query("section"); section != "" {
		view := ui.NewView(section, c.Query("theme"))
		if !view.ShowsChart(id) {
			c.Status(http.StatusNoContent)
			return
		}
	}

	opts := services.ChartOptions{
		Theme:  services.ParseTheme(c.Query("theme")),
		Width:  queryInt(c, "width"),
		Height: queryInt(c, "height"),
	}

	if err := h.pacer.Wait(c.Request.Context()); err != nil {
		c.Status(http.StatusRequestTimeout)
		return
	}

	svg, err := h.renderer.Render(c.Request.Context(), id, opts)
	if err != nil {
		if errors.Is(err, services.ErrUnknownChart) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown chart"})
			return
		}
		log.Error().Err(err).Str("chart", string(id)).Msg("chart render failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chart rendering failed"})
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "image/svg+xml", svg)
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
