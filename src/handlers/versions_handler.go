// src/handlers/versions_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/username/polpacost/src/artifacts"
	"github.com/username/polpacost/src/config"
	"github.com/username/polpacost/src/logger"
	"github.com/username/polpacost/src/utils"
)

type VersionsHandler struct {
	store *artifacts.Store
}

func NewVersionsHandler(store *artifacts.Store) *VersionsHandler {
	return &VersionsHandler{store: store}
}

func (h *VersionsHandler) HandleListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.store.List()
	if err != nil {
		logger.L.Error("Failed to list artifact versions", "error", err)
		utils.SendJSONError(w, "Failed to list versions", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, versions, http.StatusOK)
}

func (h *VersionsHandler) HandleLatestVersion(w http.ResponseWriter, r *http.Request) {
	versions, err := h.store.List()
	if err != nil {
		logger.L.Error("Failed to list artifact versions", "error", err)
		utils.SendJSONError(w, "Failed to list versions", http.StatusInternalServerError)
		return
	}
	if len(versions) == 0 {
		utils.SendJSONError(w, "No model versions found", http.StatusNotFound)
		return
	}
	utils.SendJSONResponse(w, versions[0], http.StatusOK)
}

func (h *VersionsHandler) HandleDeleteVersion(w http.ResponseWriter, r *http.Request) {
	version := r.PathValue("version")
	if version == "" {
		utils.SendJSONError(w, "version is required", http.StatusBadRequest)
		return
	}
	if err := h.store.Delete(version); err != nil {
		logger.L.Warn("Failed to delete artifact version", "version", version, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	utils.SendJSONResponse(w, map[string]string{"message": fmt.Sprintf("Version %s removed", version)}, http.StatusOK)
}

// featureWeight pairs a feature column with its explainability weight.
type featureWeight struct {
	Feature string  `json:"feature"`
	Weight  float64 `json:"weight"`
}

// HandleModelImportance resolves a model's artifact and reports its
// explainability capability with per-feature weights, heaviest first.
func (h *VersionsHandler) HandleModelImportance(w http.ResponseWriter, r *http.Request) {
	modelName := r.PathValue("model")
	version := r.URL.Query().Get("version")
	if version == "" {
		version = config.Cfg.ModelVersion
	}

	artifact, exists, _ := h.store.Resolve(modelName, version)
	if !exists {
		utils.SendJSONError(w, fmt.Sprintf("Model '%s' version '%s' is not available", modelName, version), http.StatusNotFound)
		return
	}

	weights := make([]featureWeight, 0, len(artifact.FeatureColumns))
	for i, col := range artifact.FeatureColumns {
		weight := 0.0
		if i < len(artifact.Explain.Weights) {
			weight = artifact.Explain.Weights[i]
		}
		weights = append(weights, featureWeight{Feature: col, Weight: weight})
	}
	sort.Slice(weights, func(i, j int) bool { return weights[i].Weight > weights[j].Weight })

	utils.SendJSONResponse(w, map[string]interface{}{
		"model":    artifact.Name,
		"version":  artifact.Version,
		"explain":  artifact.Explain.Kind,
		"features": weights,
	}, http.StatusOK)
}
