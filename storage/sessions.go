package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"gsatui/model"
)

// Session represents a conversation with one provider/model pair. The
// provider and model are fixed at creation so history replayed on later
// turns always goes to the backend that produced it.
type Session struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Provider  string          `json:"provider"`
	Model     string          `json:"model"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Messages  []model.Message `json:"messages"`
}

// Clone returns a deep copy of the session
func (s *Session) Clone() Session {
	out := *s
	out.Messages = make([]model.Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	return out
}

// SessionStorage handles session persistence, one JSON file per session
type SessionStorage struct {
	sessionsDir string
}

// NewSessionStorage creates a new session storage
func NewSessionStorage(dataDir string) (*SessionStorage, error) {
	sessionsDir := filepath.Join(dataDir, "sessions")

	// 0700 - user-only access
	if err := os.MkdirAll(sessionsDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &SessionStorage{
		sessionsDir: sessionsDir,
	}, nil
}

// Save saves a session to disk
func (s *SessionStorage) Save(session *Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}

	session.UpdatedAt = time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = session.UpdatedAt
	}

	path := filepath.Join(s.sessionsDir, session.ID+".json")

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write-temp-then-rename so a crash mid-write never corrupts the
	// session file. 0600 - session files contain conversation history.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load loads a session from disk
func (s *SessionStorage) Load(id string) (*Session, error) {
	path := filepath.Join(s.sessionsDir, id+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// LoadAll loads every session on disk, skipping corrupted files
func (s *SessionStorage) LoadAll() ([]*Session, error) {
	entries, err := os.ReadDir(s.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessions []*Session
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.sessionsDir, entry.Name()))
		if err != nil {
			continue
		}

		var session Session
		if err := json.Unmarshal(data, &session); err != nil {
			continue
		}
		sessions = append(sessions, &session)
	}

	return sessions, nil
}

// Delete deletes a session from disk
func (s *SessionStorage) Delete(id string) error {
	path := filepath.Join(s.sessionsDir, id+".json")

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete session file: %w", err)
	}

	return nil
}

// SaveActiveSessionID records the ID of the active session
func (s *SessionStorage) SaveActiveSessionID(id string) error {
	path := filepath.Join(filepath.Dir(s.sessionsDir), "active_session.id")
	return os.WriteFile(path, []byte(id), 0600)
}

// LoadActiveSessionID loads the ID of the last active session
func (s *SessionStorage) LoadActiveSessionID() (string, error) {
	path := filepath.Join(filepath.Dir(s.sessionsDir), "active_session.id")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// SanitizeFilename removes or replaces characters that are invalid in filenames
func SanitizeFilename(name string) string {
	for _, ch := range []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", " ", "\n", "\r"} {
		name = strings.ReplaceAll(name, ch, "-")
	}

	name = strings.Trim(name, "-.")

	if runes := []rune(name); len(runes) > 50 {
		name = string(runes[:50])
	}

	if name == "" {
		name = "session"
	}

	return name
}

// GenerateExportPath generates a default export path for a session
func GenerateExportPath(sessionTitle string) string {
	homeDir := os.Getenv("HOME")
	if homeDir == "" {
		homeDir = os.Getenv("USERPROFILE") // Windows fallback
	}

	downloadsDir := filepath.Join(homeDir, "Downloads")
	sanitized := SanitizeFilename(sessionTitle)
	timestamp := time.Now().Format("20060102-150405")

	filename := fmt.Sprintf("gsatui-session-%s-%s.json", sanitized, timestamp)
	return filepath.Join(downloadsDir, filename)
}

// ExportToJSON exports a single session to a JSON file at the specified path
func (s *SessionStorage) ExportToJSON(id string, exportPath string) error {
	session, err := s.Load(id)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	return writeSessionExport(session, exportPath)
}

func writeSessionExport(session *Session, exportPath string) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(exportPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// GenerateSessionTitle derives a placeholder title from the first user message
func GenerateSessionTitle(firstMessage string) string {
	if firstMessage == "" {
		return fmt.Sprintf("Session %s", time.Now().Format("Jan 2, 3:04 PM"))
	}

	title := firstMessage
	if runes := []rune(title); len(runes) > 30 {
		title = string(runes[:30]) + "..."
	}

	title = strings.ReplaceAll(title, "\n", " ")
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.TrimSpace(title)

	if title == "" {
		return fmt.Sprintf("Session %s", time.Now().Format("Jan 2, 3:04 PM"))
	}

	return title
}

// LockInstance creates a global lock to ensure single-instance operation.
// Lock file: <data_dir>/gsatui.lock, content: PID of the running instance.
func (s *SessionStorage) LockInstance() error {
	dataDir := filepath.Dir(s.sessionsDir)
	lockPath := filepath.Join(dataDir, "gsatui.lock")
	return os.WriteFile(lockPath, []byte(fmt.Sprintf("%d", os.Getpid())), 0600)
}

// UnlockInstance removes the global instance lock
func (s *SessionStorage) UnlockInstance() error {
	dataDir := filepath.Dir(s.sessionsDir)
	err := os.Remove(filepath.Join(dataDir, "gsatui.lock"))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// CheckInstanceLock checks if another instance is currently running.
// Returns (isLocked, runningPID, err). Stale locks are cleaned up.
func (s *SessionStorage) CheckInstanceLock() (bool, int, error) {
	dataDir := filepath.Dir(s.sessionsDir)
	lockPath := filepath.Join(dataDir, "gsatui.lock")

	data, err := os.ReadFile(lockPath)
	if os.IsNotExist(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to read lock file: %w", err)
	}

	var pid int
	if _, err := fmt.Sscanf(string(data), "%d", &pid); err != nil {
		_ = os.Remove(lockPath)
		return false, 0, nil
	}

	// FindProcess always succeeds on Unix; good enough cross-platform check
	if _, err := os.FindProcess(pid); err != nil {
		_ = os.Remove(lockPath)
		return false, 0, nil
	}

	return true, pid, nil
}
