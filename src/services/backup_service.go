// src/services/backup_service.go
package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/username/polpacost/src/logger"
)

const backupPrefix = "backup_"
const backupStampLayout = "20060102_150405"

type backupServiceImpl struct {
	modelsDir string
	backupDir string
}

func NewBackupService(modelsDir, backupDir string) BackupService {
	return &backupServiceImpl{modelsDir: modelsDir, backupDir: backupDir}
}

// CreateBackup copies every artifact file into a fresh timestamped backup
// directory.
func (s *backupServiceImpl) CreateBackup() (BackupInfo, error) {
	name := backupPrefix + time.Now().Format(backupStampLayout)
	backupPath := filepath.Join(s.backupDir, name)

	if err := os.MkdirAll(backupPath, 0o755); err != nil {
		return BackupInfo{}, fmt.Errorf("error creating backup directory '%s': %w", backupPath, err)
	}

	copied, size, err := copyArtifactFiles(s.modelsDir, backupPath)
	if err != nil {
		return BackupInfo{}, err
	}

	logger.L.Info("Backup created", "name", name, "files", copied)
	return BackupInfo{
		Name:       name,
		CreatedAt:  time.Now().Format(time.RFC3339),
		FilesCount: copied,
		SizeBytes:  size,
	}, nil
}

// ListBackups returns all backup directories, most recent first.
func (s *backupServiceImpl) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, fmt.Errorf("error reading backup directory '%s': %w", s.backupDir, err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), backupPrefix) {
			continue
		}

		createdAt := ""
		if stamp, err := time.Parse(backupStampLayout, strings.TrimPrefix(entry.Name(), backupPrefix)); err == nil {
			createdAt = stamp.Format(time.RFC3339)
		}

		count, size := countArtifactFiles(filepath.Join(s.backupDir, entry.Name()))
		backups = append(backups, BackupInfo{
			Name:       entry.Name(),
			CreatedAt:  createdAt,
			FilesCount: count,
			SizeBytes:  size,
		})
	}

	// Most recent first; the timestamped names sort lexicographically.
	for i, j := 0, len(backups)-1; i < j; i, j = i+1, j-1 {
		backups[i], backups[j] = backups[j], backups[i]
	}
	return backups, nil
}

// RestoreBackup replaces the current artifact files with the backup's and
// returns how many files were restored. Must not run while a training write
// is in flight.
func (s *backupServiceImpl) RestoreBackup(name string) (int, error) {
	backupPath := filepath.Join(s.backupDir, name)
	if err := checkBackupName(name); err != nil {
		return 0, err
	}
	if _, err := os.Stat(backupPath); err != nil {
		return 0, fmt.Errorf("backup '%s' not found", name)
	}

	// Clear current artifacts first so removed models do not survive.
	current, err := os.ReadDir(s.modelsDir)
	if err != nil {
		return 0, fmt.Errorf("error reading models directory: %w", err)
	}
	for _, entry := range current {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(s.modelsDir, entry.Name())); err != nil {
			return 0, fmt.Errorf("error clearing artifact '%s': %w", entry.Name(), err)
		}
	}

	restored, _, err := copyArtifactFiles(backupPath, s.modelsDir)
	if err != nil {
		return 0, err
	}

	logger.L.Info("Backup restored", "name", name, "files", restored)
	return restored, nil
}

func (s *backupServiceImpl) DeleteBackup(name string) error {
	if err := checkBackupName(name); err != nil {
		return err
	}
	backupPath := filepath.Join(s.backupDir, name)
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup '%s' not found", name)
	}
	if err := os.RemoveAll(backupPath); err != nil {
		return fmt.Errorf("error removing backup '%s': %w", name, err)
	}
	logger.L.Info("Backup deleted", "name", name)
	return nil
}

// CleanupOldBackups removes backups older than the given number of days and
// returns how many were removed.
func (s *backupServiceImpl) CleanupOldBackups(olderThanDays int) (int, error) {
	if olderThanDays < 1 {
		return 0, fmt.Errorf("cleanup age must be at least 1 day")
	}
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)

	backups, err := s.ListBackups()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, backup := range backups {
		stamp, err := time.Parse(time.RFC3339, backup.CreatedAt)
		if err != nil {
			continue
		}
		if stamp.Before(cutoff) {
			if err := s.DeleteBackup(backup.Name); err != nil {
				return removed, err
			}
			removed++
		}
	}

	logger.L.Info("Old backups cleaned up", "olderThanDays", olderThanDays, "removed", removed)
	return removed, nil
}

// checkBackupName rejects names that could escape the backup directory.
func checkBackupName(name string) error {
	if !strings.HasPrefix(name, backupPrefix) || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("invalid backup name '%s'", name)
	}
	return nil
}

func copyArtifactFiles(srcDir, dstDir string) (int, int64, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return 0, 0, fmt.Errorf("error reading directory '%s': %w", srcDir, err)
	}

	copied := 0
	var size int64
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		n, err := copyFile(filepath.Join(srcDir, entry.Name()), filepath.Join(dstDir, entry.Name()))
		if err != nil {
			return copied, size, err
		}
		copied++
		size += n
	}
	return copied, size, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("error opening '%s': %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("error creating '%s': %w", dst, err)
	}
	defer out.Close()

	n, err := io.Copy(out, in)
	if err != nil {
		return 0, fmt.Errorf("error copying '%s' to '%s': %w", src, dst, err)
	}
	return n, nil
}

func countArtifactFiles(dir string) (int, int64) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0
	}
	count := 0
	var size int64
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if info, err := entry.Info(); err == nil {
			size += info.Size()
		}
		count++
	}
	return count, size
}
