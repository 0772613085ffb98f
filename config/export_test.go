package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gsatui/model"
	"gsatui/storage"
)

func TestBackupRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dataDir := filepath.Join(home, "data")

	settings := DefaultSettings()
	settings.DataDirectory = dataDir
	settings.AppTitle = "My Assistant"
	settings.ActiveProvider = ProviderCodex
	settings.Codex.BaseURL = "https://codex.example.com/v1/responses"
	settings.GitHub.Username = "octocat"

	creds := NewCredentialStore(SecurityPlainText, "")
	creds.Set("codex", "codex-key")
	creds.Set("github", "gh-token")

	cfg := &Config{Settings: settings, Credentials: creds}

	store, err := storage.NewStore(nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	session, err := store.Create("Exported Session", "codex", "gpt-5.1-codex-max")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Append(session.ID,
		model.Message{Role: model.RoleUser, Content: "hello", Timestamp: time.Now()},
		model.Message{Role: model.RoleModel, Content: "hi", Timestamp: time.Now()},
	); err != nil {
		t.Fatalf("Append: %v", err)
	}

	backupPath := filepath.Join(home, "backup.json")
	if err := ExportBackup(cfg, store, backupPath); err != nil {
		t.Fatalf("ExportBackup: %v", err)
	}

	// Import into a fresh config and store
	freshSettings := DefaultSettings()
	freshCreds := NewCredentialStore(SecurityPlainText, "")
	freshCfg := &Config{Settings: freshSettings, Credentials: freshCreds}
	freshStore, _ := storage.NewStore(nil)

	if err := ImportBackup(freshCfg, freshStore, backupPath); err != nil {
		t.Fatalf("ImportBackup: %v", err)
	}

	if freshCfg.Settings.AppTitle != "My Assistant" {
		t.Errorf("app title: %q", freshCfg.Settings.AppTitle)
	}
	if freshCfg.Settings.ActiveProvider != ProviderCodex {
		t.Errorf("active provider: %q", freshCfg.Settings.ActiveProvider)
	}
	if freshCfg.Settings.GitHub.Username != "octocat" {
		t.Errorf("github username: %q", freshCfg.Settings.GitHub.Username)
	}
	if freshCreds.Get("codex") != "codex-key" || freshCreds.Get("github") != "gh-token" {
		t.Errorf("credentials not restored: %v", freshCreds.All())
	}

	sessions := freshStore.List()
	if len(sessions) != 1 {
		t.Fatalf("restored sessions: got %d, want 1", len(sessions))
	}
	restored := sessions[0]
	if restored.ID != session.ID || restored.Title != "Exported Session" {
		t.Errorf("restored session: %+v", restored)
	}
	if len(restored.Messages) != 2 || restored.Messages[1].Content != "hi" {
		t.Errorf("restored messages: %+v", restored.Messages)
	}
	// Import resets the active session to the restored state
	if freshStore.ActiveID() != session.ID {
		t.Errorf("active after import: %q", freshStore.ActiveID())
	}
}

func TestImportBackupRejectsEmptyFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(home, "broken.json")
	if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{Settings: DefaultSettings()}
	store, _ := storage.NewStore(nil)
	if err := ImportBackup(cfg, store, path); err == nil {
		t.Error("expected error for backup without settings")
	}
}
