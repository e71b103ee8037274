package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/username/polpacost/src/artifacts"
	"github.com/username/polpacost/src/config"
	"github.com/username/polpacost/src/database"
	"github.com/username/polpacost/src/handlers"
	"github.com/username/polpacost/src/logger"
	"github.com/username/polpacost/src/services"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Logistics cost prediction backend starting...")

	tuning, err := config.LoadTuning(config.Cfg.TuningPath)
	if err != nil {
		logger.L.Error("Failed to load tuning configuration", "error", err)
		stdlog.Fatalf("Failed to load tuning configuration: %v", err)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	logger.L.Info("Database initialized successfully.")

	logger.L.Info("Initializing artifact store...", "modelsDir", config.Cfg.ModelsDir)
	var store *artifacts.Store
	if config.Cfg.ArtifactCacheEnabled {
		store = artifacts.NewCachedStore(config.Cfg.ModelsDir, config.Cfg.ArtifactCacheTTL)
		logger.L.Info("Artifact cache enabled", "ttl", config.Cfg.ArtifactCacheTTL)
	} else {
		store = artifacts.NewStore(config.Cfg.ModelsDir)
	}

	logger.L.Info("Initializing services and handlers...")
	fxService := services.NewFxQuoteService(config.Cfg.FxQuoteURL, config.Cfg.FxRefreshInterval)
	if err := fxService.Refresh(); err != nil {
		logger.L.Warn("Initial FX quote fetch failed, baseline rates apply until a refresh succeeds", "error", err)
	}
	stopPolling := make(chan struct{})
	defer close(stopPolling)
	fxService.StartPolling(config.Cfg.FxRefreshInterval, stopPolling)

	metricsSink := services.NewLogMetricsSink()
	predictionService := services.NewPredictionService(store, tuning, config.Cfg.ModelVersion, fxService, metricsSink)
	backupService := services.NewBackupService(config.Cfg.ModelsDir, config.Cfg.BackupDir)

	predictHandler := handlers.NewPredictHandler(predictionService)
	versionsHandler := handlers.NewVersionsHandler(store)
	backupHandler := handlers.NewBackupHandler(backupService)
	monitoringHandler := handlers.NewMonitoringHandler(metricsSink)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("POST /api/predict", predictHandler.HandlePredict)

	apiRouter.HandleFunc("GET /api/versions", versionsHandler.HandleListVersions)
	apiRouter.HandleFunc("GET /api/versions/latest", versionsHandler.HandleLatestVersion)
	apiRouter.HandleFunc("DELETE /api/versions/{version}", versionsHandler.HandleDeleteVersion)
	apiRouter.HandleFunc("GET /api/models/{model}/importance", versionsHandler.HandleModelImportance)

	apiRouter.HandleFunc("POST /api/backup/create", backupHandler.HandleCreateBackup)
	apiRouter.HandleFunc("GET /api/backup/list", backupHandler.HandleListBackups)
	apiRouter.HandleFunc("POST /api/backup/{name}/restore", backupHandler.HandleRestoreBackup)
	apiRouter.HandleFunc("DELETE /api/backup/cleanup/{days}", backupHandler.HandleCleanupBackups)
	apiRouter.HandleFunc("DELETE /api/backup/{name}", backupHandler.HandleDeleteBackup)

	apiRouter.HandleFunc("GET /api/health", monitoringHandler.HandleHealth)
	apiRouter.HandleFunc("GET /api/predictions/recent", monitoringHandler.HandleRecentPredictions)

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Logistics cost prediction backend is running"})
		} else if !strings.HasPrefix(r.URL.Path, "/api/") {
			logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := handlers.EnableCORS(handlers.RateLimitMiddleware(handlers.RequestIDMiddleware(rootMux)))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
