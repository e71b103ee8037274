// src/handlers/predict_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/username/polpacost/src/config"
	"github.com/username/polpacost/src/database"
	"github.com/username/polpacost/src/logger"
	"github.com/username/polpacost/src/models"
	"github.com/username/polpacost/src/security/validation"
	"github.com/username/polpacost/src/services"
	"github.com/username/polpacost/src/utils"
)

type PredictHandler struct {
	predictionService services.PredictionService
}

func NewPredictHandler(service services.PredictionService) *PredictHandler {
	return &PredictHandler{predictionService: service}
}

func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestIDFromContext(r.Context())
	startTime := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, config.Cfg.MaxRequestBodyBytes)

	var req models.PredictionRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		logger.L.Warn("Failed to decode prediction request", "requestID", requestID, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	applyRequestDefaults(&req)

	if err := validation.ValidatePredictionRequest(&req); err != nil {
		logger.L.Warn("Prediction request rejected by validation", "requestID", requestID, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.predictionService.Predict(requestID, &req)
	if err != nil {
		h.sendPipelineError(w, requestID, err)
		return
	}

	// Audit row is fire-and-forget: it must never delay or fail the response.
	go database.InsertPredictionRecord(models.PredictionRecord{
		RequestID:   requestID,
		ModelName:   result.Breakdown.ModelUsed,
		Version:     result.Breakdown.Version,
		OriginPort:  req.OriginPort,
		Destination: req.DestinationPort,
		VolumeTon:   req.VolumeTon,
		Cost:        result.Cost,
		Currency:    result.Currency,
		LatencyMs:   float64(time.Since(startTime).Microseconds()) / 1000.0,
	})

	utils.SendJSONResponse(w, result, http.StatusOK)
}

// sendPipelineError maps the pipeline's failure classes onto HTTP statuses.
func (h *PredictHandler) sendPipelineError(w http.ResponseWriter, requestID string, err error) {
	logger.L.Warn("Prediction pipeline failed", "requestID", requestID, "error", err)

	switch services.ClassOf(err) {
	case services.ClassUnavailable:
		utils.SendJSONError(w, err.Error(), http.StatusServiceUnavailable)
	case services.ClassAlignment:
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case services.ClassConversion:
		utils.SendJSONError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		if errors.Is(err, services.ErrEstimator) {
			utils.SendJSONError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		utils.SendJSONError(w, "internal error during prediction", http.StatusInternalServerError)
	}
}

func applyRequestDefaults(req *models.PredictionRequest) {
	if req.ModelName == "" {
		req.ModelName = config.Cfg.DefaultModel
	}
	if req.OutputCurrency == "" {
		req.OutputCurrency = "BRL"
	}
}
