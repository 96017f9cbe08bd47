package handlers

import (
	"net/http"

	"engagement-prediction-api/models"
	"engagement-prediction-api/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type PredictionHandler struct {
	predictor *services.Predictor
	notifier  *services.Notifier
	pacer     Pacer
}

func NewPredictionHandler(predictor *services.Predictor, notifier *services.Notifier, pacer Pacer) *PredictionHandler {
	return &PredictionHandler{predictor: predictor, notifier: notifier, pacer: pacer}
}

type PredictionResponse struct {
	models.PredictionResult
	Attributes models.PostAttributes `json:"attributes"`
	Factors    []models.Factor       `json:"factors"`
}

func (h *PredictionHandler) CreatePrediction(c *gin.Context) {
	ctx := c.Request.Context()
	clientID := providedClientID(c)

	var req services.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.reject(c, clientID, err)
		return
	}

	form := services.ReadForm(req)
	if err := services.ValidateForm(form); err != nil {
		h.reject(c, clientID, err)
		return
	}

	if err := h.pacer.Wait(ctx); err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
		return
	}

	result := h.predictor.Predict(form.PostAttributes)
	services.ObservePrediction(result.Category)

	if err := h.notifier.Notify(ctx, clientID, msgPredictionComplete, models.ToastSuccess); err != nil {
		log.Warn().Err(err).Str("client", clientID).Msg("toast publish failed")
	}

	c.JSON(http.StatusOK, PredictionResponse{
		PredictionResult: result,
		Attributes:       form.PostAttributes,
		Factors:          services.Breakdown(form.PostAttributes),
	})
}

func (h *PredictionHandler) reject(c *gin.Context, clientID string, cause error) {
	services.ObserveIncompleteForm()
	if err := h.notifier.Notify(c.Request.Context(), clientID, msgIncompleteForm, models.ToastError); err != nil {
		log.Warn().Err(err).Str("client", clientID).Msg("toast publish failed")
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": msgIncompleteForm, "details": cause.Error()})
}
