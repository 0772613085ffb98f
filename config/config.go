package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

var Debug = false
var DebugLog *log.Logger

// Config is the runtime view of the loaded configuration: the settings plus
// the credential store backing them.
type Config struct {
	Settings    *Settings
	Credentials *CredentialStore
}

// DataDir returns the expanded data directory path.
func (c *Config) DataDir() string {
	return ExpandPath(c.Settings.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("GSATUI_DATA_DIR"); dataDir != "" {
		c.Settings.DataDirectory = dataDir
	}
	if provider := os.Getenv("GSATUI_PROVIDER"); provider != "" {
		c.Settings.ActiveProvider = provider
	}
}

// Load reads settings.toml (creating a default one on first run), applies
// env overrides, prepares the data directory and loads credentials.
func Load() (*Config, error) {
	settings := DefaultSettings()

	settingsPath := GetSettingsFilePath()
	if FileExists(settingsPath) {
		if _, err := toml.DecodeFile(settingsPath, settings); err != nil {
			return nil, fmt.Errorf("failed to parse settings: %w", err)
		}
	} else {
		if err := CreateDefaultSettings(); err != nil {
			return nil, fmt.Errorf("failed to create settings: %w", err)
		}
	}

	cfg := &Config{Settings: settings}
	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	creds := NewCredentialStore(SecurityMethod(settings.Security.Method), ExpandPath(settings.Security.SSHKeyPath))
	if err := creds.Load(dataDir); err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	cfg.Credentials = creds

	return cfg, nil
}

// SaveSettings writes the settings back to settings.toml with secure
// permissions.
func SaveSettings(settings *Settings) error {
	if err := EnsureDir(GetConfigDir()); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(GetSettingsFilePath(), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(settings); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return nil
}

// CreateDefaultSettings writes the commented template on first run.
func CreateDefaultSettings() error {
	if err := EnsureDir(GetConfigDir()); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	settingsPath := GetSettingsFilePath()
	if FileExists(settingsPath) {
		return nil
	}

	if err := os.WriteFile(settingsPath, []byte(GenerateSettingsTemplate()), 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func CheckDebug() bool {
	debug := os.Getenv("GSATUI_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog opens <data-dir>/debug.log when GSATUI_DEBUG is set.
func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (GSATUI_DEBUG=%s) ===", os.Getenv("GSATUI_DEBUG"))
}
