package database

import (
	stdlog "log"

	"github.com/jmoiron/sqlx"
	"github.com/username/polpacost/src/logger"
	"github.com/username/polpacost/src/models"
	_ "modernc.org/sqlite"
)

var DB *sqlx.DB

// InitDB opens the sqlite database and ensures the audit schema exists.
func InitDB(databasePath string) {
	db, err := sqlx.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS prediction_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id TEXT NOT NULL,
		model_name TEXT NOT NULL,
		version TEXT NOT NULL,
		origin_port TEXT NOT NULL,
		destination_port TEXT NOT NULL,
		volume_ton REAL NOT NULL,
		cost REAL NOT NULL,
		currency TEXT NOT NULL,
		latency_ms REAL NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_prediction_history_created_at
		ON prediction_history(created_at);
	`

	if _, err := DB.Exec(createTableStatement); err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}

	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.", "databasePath", databasePath)
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// InsertPredictionRecord appends one audit row. Failures are logged, not
// propagated: the audit log must never fail a served prediction.
func InsertPredictionRecord(rec models.PredictionRecord) {
	if DB == nil {
		return
	}
	_, err := DB.NamedExec(`INSERT INTO prediction_history
		(request_id, model_name, version, origin_port, destination_port, volume_ton, cost, currency, latency_ms)
		VALUES (:request_id, :model_name, :version, :origin_port, :destination_port, :volume_ton, :cost, :currency, :latency_ms)`,
		rec)
	if err != nil && logger.L != nil {
		logger.L.Error("Failed to insert prediction record", "requestID", rec.RequestID, "error", err)
	}
}

// FetchRecentPredictions returns the newest audit rows, newest first.
func FetchRecentPredictions(limit int) ([]models.PredictionRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	records := []models.PredictionRecord{}
	if DB == nil {
		return records, nil
	}
	err := DB.Select(&records, `SELECT id, request_id, model_name, version, origin_port, destination_port,
		volume_ton, cost, currency, latency_ms, created_at
		FROM prediction_history ORDER BY id DESC LIMIT ?`, limit)
	return records, err
}
