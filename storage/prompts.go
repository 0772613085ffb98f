package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Prompt is a named system prompt the user can pick for new conversations
type Prompt struct {
	ID        string
	Name      string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PromptStorage keeps the prompt library in a SQLite database
type PromptStorage struct {
	db *sql.DB
}

// NewPromptStorage opens (or creates) the prompt database under dataDir
func NewPromptStorage(dataDir string) (*PromptStorage, error) {
	dbPath := filepath.Join(dataDir, "prompts.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	storage := &PromptStorage{db: db}

	if err := storage.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return storage, nil
}

func (ps *PromptStorage) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS prompts (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_prompts_name ON prompts(name);
	`

	_, err := ps.db.Exec(schema)
	return err
}

// Save inserts or replaces a prompt. A missing id is generated.
func (ps *PromptStorage) Save(prompt Prompt) (Prompt, error) {
	if prompt.ID == "" {
		prompt.ID = uuid.New().String()
	}
	prompt.UpdatedAt = time.Now()
	if prompt.CreatedAt.IsZero() {
		prompt.CreatedAt = prompt.UpdatedAt
	}

	query := `
	INSERT OR REPLACE INTO prompts (id, name, content, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)
	`

	_, err := ps.db.Exec(query,
		prompt.ID,
		prompt.Name,
		prompt.Content,
		prompt.CreatedAt,
		prompt.UpdatedAt,
	)
	if err != nil {
		return Prompt{}, err
	}
	return prompt, nil
}

// Load returns a prompt by id, or nil if it does not exist
func (ps *PromptStorage) Load(id string) (*Prompt, error) {
	query := `
	SELECT id, name, content, created_at, updated_at
	FROM prompts
	WHERE id = ?
	`

	var prompt Prompt
	err := ps.db.QueryRow(query, id).Scan(
		&prompt.ID,
		&prompt.Name,
		&prompt.Content,
		&prompt.CreatedAt,
		&prompt.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &prompt, nil
}

// List returns all prompts, most recently updated first
func (ps *PromptStorage) List() ([]Prompt, error) {
	query := `
	SELECT id, name, content, created_at, updated_at
	FROM prompts
	ORDER BY updated_at DESC
	`

	rows, err := ps.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prompts []Prompt
	for rows.Next() {
		var prompt Prompt
		err := rows.Scan(
			&prompt.ID,
			&prompt.Name,
			&prompt.Content,
			&prompt.CreatedAt,
			&prompt.UpdatedAt,
		)
		if err != nil {
			continue
		}
		prompts = append(prompts, prompt)
	}

	return prompts, rows.Err()
}

// Delete removes a prompt
func (ps *PromptStorage) Delete(id string) error {
	_, err := ps.db.Exec(`DELETE FROM prompts WHERE id = ?`, id)
	return err
}

// Rename updates a prompt's name
func (ps *PromptStorage) Rename(id string, name string) error {
	result, err := ps.db.Exec(
		`UPDATE prompts SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to rename prompt: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("prompt %s not found in database", id)
	}
	return nil
}

func (ps *PromptStorage) Close() error {
	if ps.db != nil {
		return ps.db.Close()
	}
	return nil
}
