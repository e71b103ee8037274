package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port         string
	LogLevel     string
	ModelsDir    string
	BackupDir    string
	DatabasePath string
	TuningPath   string

	DefaultModel    string
	AvailableModels []string
	ModelVersion    string

	// Optional evict-only artifact cache. Off by default: a fresh
	// filesystem read per request is correct, the cache is an optimization.
	ArtifactCacheEnabled bool
	ArtifactCacheTTL     time.Duration

	FxQuoteURL        string
	FxRefreshInterval time.Duration

	MaxRequestBodyBytes int64
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	artifactCacheTTLStr := getEnv("ARTIFACT_CACHE_TTL", "15m")
	artifactCacheTTL, err := time.ParseDuration(artifactCacheTTLStr)
	if err != nil {
		log.Printf("WARNING: Invalid ARTIFACT_CACHE_TTL format '%s'. Using default 15m. Error: %v", artifactCacheTTLStr, err)
		artifactCacheTTL = 15 * time.Minute
	}

	fxRefreshIntervalStr := getEnv("FX_REFRESH_INTERVAL", "1h")
	fxRefreshInterval, err := time.ParseDuration(fxRefreshIntervalStr)
	if err != nil {
		log.Printf("WARNING: Invalid FX_REFRESH_INTERVAL format '%s'. Using default 1h. Error: %v", fxRefreshIntervalStr, err)
		fxRefreshInterval = time.Hour
	}

	maxRequestBodyBytesStr := getEnv("MAX_REQUEST_BODY_BYTES", "1048576")
	maxRequestBodyBytes, err := strconv.ParseInt(maxRequestBodyBytesStr, 10, 64)
	if err != nil {
		log.Printf("WARNING: Invalid MAX_REQUEST_BODY_BYTES format '%s'. Using default 1MB. Error: %v", maxRequestBodyBytesStr, err)
		maxRequestBodyBytes = 1024 * 1024
	}

	Cfg = &AppConfig{
		Port:         getEnv("PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		ModelsDir:    getEnv("MODELS_DIR", "data/models"),
		BackupDir:    getEnv("BACKUP_DIR", "data/backups"),
		DatabasePath: getEnv("DATABASE_PATH", "./polpacost.db"),
		TuningPath:   getEnv("TUNING_CONFIG_PATH", "data/tuning.yaml"),

		DefaultModel:    getEnv("DEFAULT_MODEL", "random_forest"),
		AvailableModels: []string{"linear_regression", "linear_regression_sklearn", "random_forest", "gradient_boosting", "mlp"},
		ModelVersion:    getEnv("MODEL_VERSION", "0.1.0"),

		ArtifactCacheEnabled: getEnvAsBool("ARTIFACT_CACHE_ENABLED", false),
		ArtifactCacheTTL:     artifactCacheTTL,

		FxQuoteURL:        getEnv("FX_QUOTE_URL", "https://economia.awesomeapi.com.br/json/last/USD-BRL,EUR-BRL"),
		FxRefreshInterval: fxRefreshInterval,

		MaxRequestBodyBytes: maxRequestBodyBytes,
	}

	for _, dir := range []string{Cfg.ModelsDir, Cfg.BackupDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("FATAL: failed to create directory %s: %v", dir, err)
		}
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, ModelsDir=%s, DefaultModel=%s, Version=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.ModelsDir, Cfg.DefaultModel, Cfg.ModelVersion)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid boolean value for %s ('%s'), using default: %t", key, valueStr, fallback)
	return fallback
}
