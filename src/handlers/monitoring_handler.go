// src/handlers/monitoring_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/username/polpacost/src/database"
	"github.com/username/polpacost/src/logger"
	"github.com/username/polpacost/src/services"
	"github.com/username/polpacost/src/utils"
)

type MonitoringHandler struct {
	metrics *services.LogMetricsSink
}

func NewMonitoringHandler(metrics *services.LogMetricsSink) *MonitoringHandler {
	return &MonitoringHandler{metrics: metrics}
}

func (h *MonitoringHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	predictions, errs := h.metrics.Counters()
	utils.SendJSONResponse(w, map[string]interface{}{
		"status":      "ok",
		"predictions": predictions,
		"errors":      errs,
	}, http.StatusOK)
}

func (h *MonitoringHandler) HandleRecentPredictions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	records, err := database.FetchRecentPredictions(limit)
	if err != nil {
		logger.L.Error("Failed to fetch recent predictions", "error", err)
		utils.SendJSONError(w, "Failed to fetch recent predictions", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, records, http.StatusOK)
}
