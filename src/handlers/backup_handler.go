// src/handlers/backup_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/username/polpacost/src/logger"
	"github.com/username/polpacost/src/services"
	"github.com/username/polpacost/src/utils"
)

type BackupHandler struct {
	backupService services.BackupService
}

func NewBackupHandler(service services.BackupService) *BackupHandler {
	return &BackupHandler{backupService: service}
}

func (h *BackupHandler) HandleCreateBackup(w http.ResponseWriter, r *http.Request) {
	info, err := h.backupService.CreateBackup()
	if err != nil {
		logger.L.Error("Failed to create backup", "error", err)
		utils.SendJSONError(w, "Failed to create backup", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, map[string]interface{}{
		"message": "Backup created",
		"backup":  info,
	}, http.StatusOK)
}

func (h *BackupHandler) HandleListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := h.backupService.ListBackups()
	if err != nil {
		logger.L.Error("Failed to list backups", "error", err)
		utils.SendJSONError(w, "Failed to list backups", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, backups, http.StatusOK)
}

func (h *BackupHandler) HandleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	restored, err := h.backupService.RestoreBackup(name)
	if err != nil {
		logger.L.Warn("Failed to restore backup", "name", name, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	utils.SendJSONResponse(w, map[string]interface{}{
		"message":        fmt.Sprintf("Backup %s restored", name),
		"files_restored": restored,
	}, http.StatusOK)
}

func (h *BackupHandler) HandleDeleteBackup(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := h.backupService.DeleteBackup(name); err != nil {
		logger.L.Warn("Failed to delete backup", "name", name, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
		return
	}
	utils.SendJSONResponse(w, map[string]string{"message": fmt.Sprintf("Backup %s removed", name)}, http.StatusOK)
}

func (h *BackupHandler) HandleCleanupBackups(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.PathValue("days"))
	if err != nil || days < 1 {
		utils.SendJSONError(w, "days must be a positive integer", http.StatusBadRequest)
		return
	}
	removed, err := h.backupService.CleanupOldBackups(days)
	if err != nil {
		logger.L.Error("Failed to clean up backups", "days", days, "error", err)
		utils.SendJSONError(w, "Failed to clean up backups", http.StatusInternalServerError)
		return
	}
	utils.SendJSONResponse(w, map[string]interface{}{
		"message":         fmt.Sprintf("%d old backups removed", removed),
		"backups_removed": removed,
	}, http.StatusOK)
}
