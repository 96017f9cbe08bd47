package handlers

import (
	"fmt"
	"net/http"

	"engagement-prediction-api/config"
	"engagement-prediction-api/middleware"
	"engagement-prediction-api/services"
	"engagement-prediction-api/telemetry"
	"engagement-prediction-api/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Config    *config.Config
	Predictor *services.Predictor
	Insights  *services.Insights
	Charts    *services.ChartRenderer
	Notifier  *services.Notifier
}

func NewRouter(deps Deps) (*gin.Engine, error) {
	cfg := deps.Config

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.SetupCORS(cfg.CORS))
	if cfg.Telemetry.TraceExporter != "" && cfg.Telemetry.TraceExporter != "none" {
		router.Use(telemetry.Middleware(cfg.Telemetry.ServiceName))
	}

	tmpl, err := web.Templates(TemplateFuncs())
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", web.Static())

	predictionPacer := Pacer{Delay: cfg.Pacing.PredictionDelay}
	chartPacer := Pacer{Delay: cfg.Pacing.ChartDelay}

	page := NewPageHandler(deps.Predictor, deps.Insights, deps.Notifier, predictionPacer)
	predictions := NewPredictionHandler(deps.Predictor, deps.Notifier, predictionPacer)
	insights := NewInsightsHandler(deps.Insights, deps.Notifier)
	charts := NewChartHandler(deps.Charts, chartPacer)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "UP",
			"message": "Engagement Predictor is running",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/", page.Show)
	router.POST("/predict", page.Submit)
	router.GET("/charts/:file", charts.GetChart)
	router.GET("/ws/toasts", ToastWebSocket(deps.Notifier))

	api := router.Group("/api/v1")
	{
		api.POST("/predictions", predictions.CreatePrediction)
		api.GET("/insights", insights.GetInsights)
		api.GET("/presets", insights.GetPresets)
		api.POST("/presets/:index/load", insights.LoadPreset)
	}

	return router, nil
}
