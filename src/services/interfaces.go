package services

import "github.com/username/polpacost/src/models"

// PredictionService runs one inference cycle for a validated request.
type PredictionService interface {
	Predict(requestID string, req *models.PredictionRequest) (*models.PredictionResult, error)
}

// AnchorSource supplies the current EUR-BRL and EUR-USD anchors (BRL per
// EUR, USD per EUR). Zero values mean "no live anchor, use the baseline".
type AnchorSource interface {
	CurrentAnchors() (eurBrl, eurUsd float64)
}

// BackupInfo describes one backup directory of artifact files.
type BackupInfo struct {
	Name       string `json:"name"`
	CreatedAt  string `json:"created_at"`
	FilesCount int    `json:"files_count"`
	SizeBytes  int64  `json:"size_bytes"`
}

// BackupService copies artifact files to and from timestamped backup
// directories. It must never run concurrently with a training write; the
// caller's scheduling policy enforces that.
type BackupService interface {
	CreateBackup() (BackupInfo, error)
	ListBackups() ([]BackupInfo, error)
	RestoreBackup(name string) (int, error)
	DeleteBackup(name string) error
	CleanupOldBackups(olderThanDays int) (int, error)
}
