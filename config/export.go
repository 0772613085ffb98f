package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gsatui/storage"
)

// Backup is the full application state as written by ExportBackup. Credentials
// are included so a restore on a new machine is complete; the file is written
// 0600 like every other credential-bearing file.
type Backup struct {
	ExportedAt  time.Time         `json:"exported_at"`
	Settings    *Settings         `json:"settings"`
	Credentials map[string]string `json:"credentials,omitempty"`
	Sessions    []storage.Session `json:"sessions"`
}

// GenerateBackupPath returns a timestamped default path in ~/Downloads
func GenerateBackupPath() string {
	homeDir := os.Getenv("HOME")
	if homeDir == "" {
		homeDir = os.Getenv("USERPROFILE")
	}

	filename := fmt.Sprintf("gsatui-backup-%s.json", time.Now().Format("20060102-150405"))
	return filepath.Join(homeDir, "Downloads", filename)
}

// ExportBackup writes settings, credentials and all sessions to a JSON file
func ExportBackup(cfg *Config, store *storage.Store, exportPath string) error {
	backup := Backup{
		ExportedAt: time.Now(),
		Settings:   cfg.Settings,
		Sessions:   store.List(),
	}
	if cfg.Credentials != nil {
		backup.Credentials = cfg.Credentials.All()
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	return nil
}

// ImportBackup restores settings, credentials and sessions from a backup
// file, replacing current state on disk.
func ImportBackup(cfg *Config, store *storage.Store, importPath string) error {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Settings == nil {
		return fmt.Errorf("backup file has no settings")
	}

	cfg.Settings = backup.Settings
	if err := SaveSettings(cfg.Settings); err != nil {
		return fmt.Errorf("failed to save imported settings: %w", err)
	}

	if cfg.Credentials != nil && backup.Credentials != nil {
		cfg.Credentials.Replace(backup.Credentials)
		if err := cfg.Credentials.Save(cfg.DataDir()); err != nil {
			return fmt.Errorf("failed to save imported credentials: %w", err)
		}
	}

	if err := store.ReplaceAll(backup.Sessions); err != nil {
		return fmt.Errorf("failed to import sessions: %w", err)
	}

	return nil
}
