package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gsatui/model"
)

func newMemoryStore(t *testing.T) *Store {
	t.Helper()
	st, err := NewStore(nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return st
}

func TestStoreCreateBecomesActive(t *testing.T) {
	st := newMemoryStore(t)

	s, err := st.Create("New Chat", "anthropic", "claude-sonnet-4-5-20250929")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID == "" {
		t.Error("expected non-empty session id")
	}
	if st.ActiveID() != s.ID {
		t.Errorf("active id: got %q, want %q", st.ActiveID(), s.ID)
	}
	if s.Provider != "anthropic" || s.Model != "claude-sonnet-4-5-20250929" {
		t.Errorf("provider/model not pinned: %q / %q", s.Provider, s.Model)
	}
	if len(s.Messages) != 0 {
		t.Errorf("new session should be empty, has %d messages", len(s.Messages))
	}
}

func TestStoreGetReturnsDeepCopy(t *testing.T) {
	st := newMemoryStore(t)
	s, _ := st.Create("Copy Test", "openai", "gpt-4o-mini")

	if err := st.Append(s.ID, model.Message{Role: model.RoleUser, Content: "hello"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, ok := st.Get(s.ID)
	if !ok {
		t.Fatal("session not found")
	}

	// Mutating the returned copy must not leak into the store
	got.Messages[0].Content = "mutated"
	got.Title = "mutated"

	again, _ := st.Get(s.ID)
	if again.Messages[0].Content != "hello" {
		t.Errorf("store content mutated through copy: %q", again.Messages[0].Content)
	}
	if again.Title != "Copy Test" {
		t.Errorf("store title mutated through copy: %q", again.Title)
	}
}

func TestStoreExtendLast(t *testing.T) {
	st := newMemoryStore(t)
	s, _ := st.Create("Stream", "anthropic", "m")

	st.Append(s.ID,
		model.Message{Role: model.RoleUser, Content: "Hi"},
		model.Message{Role: model.RoleModel, Content: ""},
	)

	for _, chunk := range []string{"Hi", " there", "!"} {
		if err := st.ExtendLast(s.ID, chunk); err != nil {
			t.Fatalf("ExtendLast(%q): %v", chunk, err)
		}
	}

	got, _ := st.Get(s.ID)
	last := got.Messages[len(got.Messages)-1]
	if last.Content != "Hi there!" {
		t.Errorf("accumulated content: got %q, want %q", last.Content, "Hi there!")
	}
}

func TestStoreExtendLastIgnoresNonModelTail(t *testing.T) {
	st := newMemoryStore(t)
	s, _ := st.Create("Guard", "anthropic", "m")

	st.Append(s.ID, model.Message{Role: model.RoleUser, Content: "hello"})

	// A chunk arriving while a user message is last must not touch it
	if err := st.ExtendLast(s.ID, " INJECTED"); err != nil {
		t.Fatalf("ExtendLast: %v", err)
	}

	got, _ := st.Get(s.ID)
	if got.Messages[0].Content != "hello" {
		t.Errorf("user message mutated: %q", got.Messages[0].Content)
	}

	st.Append(s.ID, model.Message{Role: model.RoleTool, Content: "Reading file `a.gs` from `repo`..."})
	if err := st.ExtendLast(s.ID, "more"); err != nil {
		t.Fatalf("ExtendLast: %v", err)
	}
	got, _ = st.Get(s.ID)
	if got.Messages[1].Content != "Reading file `a.gs` from `repo`..." {
		t.Errorf("tool message mutated: %q", got.Messages[1].Content)
	}
}

func TestStoreExtendLastEmptySession(t *testing.T) {
	st := newMemoryStore(t)
	s, _ := st.Create("Empty", "anthropic", "m")

	if err := st.ExtendLast(s.ID, "chunk"); err == nil {
		t.Error("expected error extending an empty session")
	}
}

func TestStoreInsertBeforeLast(t *testing.T) {
	st := newMemoryStore(t)
	s, _ := st.Create("Tools", "anthropic", "m")

	st.Append(s.ID,
		model.Message{Role: model.RoleUser, Content: "write a file"},
		model.Message{Role: model.RoleModel, Content: "On it."},
	)

	err := st.InsertBeforeLast(s.ID, model.Message{Role: model.RoleTool, Content: "Writing to file `a.gs` in `repo`..."})
	if err != nil {
		t.Fatalf("InsertBeforeLast: %v", err)
	}

	got, _ := st.Get(s.ID)
	if len(got.Messages) != 3 {
		t.Fatalf("message count: got %d, want 3", len(got.Messages))
	}
	if got.Messages[1].Role != model.RoleTool {
		t.Errorf("middle message role: got %q, want %q", got.Messages[1].Role, model.RoleTool)
	}
	// The streaming placeholder must stay last
	if got.Messages[2].Role != model.RoleModel || got.Messages[2].Content != "On it." {
		t.Errorf("last message disturbed: %+v", got.Messages[2])
	}
}

func TestStoreTruncateLast(t *testing.T) {
	st := newMemoryStore(t)
	s, _ := st.Create("Rollback", "anthropic", "m")

	st.Append(s.ID,
		model.Message{Role: model.RoleUser, Content: "first"},
		model.Message{Role: model.RoleModel, Content: "reply"},
		model.Message{Role: model.RoleUser, Content: "second"},
		model.Message{Role: model.RoleModel, Content: "partial"},
	)

	if err := st.TruncateLast(s.ID, 2); err != nil {
		t.Fatalf("TruncateLast: %v", err)
	}

	got, _ := st.Get(s.ID)
	if len(got.Messages) != 2 {
		t.Fatalf("message count after truncate: got %d, want 2", len(got.Messages))
	}
	if got.Messages[1].Content != "reply" {
		t.Errorf("surviving message: got %q, want %q", got.Messages[1].Content, "reply")
	}

	// Over-truncation clamps instead of panicking
	if err := st.TruncateLast(s.ID, 10); err != nil {
		t.Fatalf("TruncateLast clamp: %v", err)
	}
	got, _ = st.Get(s.ID)
	if len(got.Messages) != 0 {
		t.Errorf("expected empty session after clamped truncate, got %d", len(got.Messages))
	}
}

func TestStoreDeleteRederivesActive(t *testing.T) {
	st := newMemoryStore(t)

	older, _ := st.Create("Older", "anthropic", "m")
	time.Sleep(2 * time.Millisecond)
	newer, _ := st.Create("Newer", "anthropic", "m")

	if st.ActiveID() != newer.ID {
		t.Fatalf("active should be newest, got %q", st.ActiveID())
	}

	if err := st.Delete(newer.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if st.ActiveID() != older.ID {
		t.Errorf("active after delete: got %q, want %q", st.ActiveID(), older.ID)
	}

	if err := st.Delete(older.ID); err != nil {
		t.Fatalf("Delete last: %v", err)
	}
	if st.ActiveID() != "" {
		t.Errorf("active after deleting all: got %q, want empty", st.ActiveID())
	}
}

func TestStoreDeleteInactiveKeepsActive(t *testing.T) {
	st := newMemoryStore(t)

	victim, _ := st.Create("Victim", "anthropic", "m")
	time.Sleep(2 * time.Millisecond)
	keeper, _ := st.Create("Keeper", "anthropic", "m")

	if err := st.Delete(victim.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if st.ActiveID() != keeper.ID {
		t.Errorf("active changed on inactive delete: got %q, want %q", st.ActiveID(), keeper.ID)
	}
}

func TestStoreErrSessionNotFound(t *testing.T) {
	st := newMemoryStore(t)

	ops := map[string]error{
		"Append":           st.Append("missing", model.Message{Role: model.RoleUser, Content: "x"}),
		"ExtendLast":       st.ExtendLast("missing", "x"),
		"InsertBeforeLast": st.InsertBeforeLast("missing", model.Message{}),
		"TruncateLast":     st.TruncateLast("missing", 1),
		"Rename":           st.Rename("missing", "x"),
		"Delete":           st.Delete("missing"),
		"SetActive":        st.SetActive("missing"),
	}
	for name, err := range ops {
		if !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("%s: got %v, want ErrSessionNotFound", name, err)
		}
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	st := newMemoryStore(t)

	a, _ := st.Create("A", "anthropic", "m")
	time.Sleep(2 * time.Millisecond)
	st.Create("B", "anthropic", "m")
	time.Sleep(2 * time.Millisecond)

	// Touching A makes it the most recently updated again
	if err := st.Append(a.ID, model.Message{Role: model.RoleUser, Content: "bump"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	list := st.List()
	if len(list) != 2 {
		t.Fatalf("list length: got %d, want 2", len(list))
	}
	if list[0].ID != a.ID {
		t.Errorf("first list entry: got %q, want %q (most recently updated)", list[0].Title, "A")
	}
}

func TestStorePersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()

	persist, err := NewSessionStorage(dir)
	if err != nil {
		t.Fatalf("NewSessionStorage: %v", err)
	}

	st, err := NewStore(persist)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	s, err := st.Create("Persisted", "codex", "gpt-5.1-codex-max")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := st.Append(s.ID,
		model.Message{Role: model.RoleUser, Content: "hello", Timestamp: time.Now()},
		model.Message{Role: model.RoleModel, Content: "hi back", Timestamp: time.Now()},
	); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// Fresh store over the same directory sees the same state
	persist2, err := NewSessionStorage(dir)
	if err != nil {
		t.Fatalf("NewSessionStorage reopen: %v", err)
	}
	st2, err := NewStore(persist2)
	if err != nil {
		t.Fatalf("NewStore reopen: %v", err)
	}

	if st2.ActiveID() != s.ID {
		t.Errorf("restored active id: got %q, want %q", st2.ActiveID(), s.ID)
	}
	got, ok := st2.Get(s.ID)
	if !ok {
		t.Fatal("session missing after reload")
	}
	if got.Title != "Persisted" || got.Provider != "codex" {
		t.Errorf("restored session fields: %q / %q", got.Title, got.Provider)
	}
	if len(got.Messages) != 2 || got.Messages[1].Content != "hi back" {
		t.Errorf("restored messages: %+v", got.Messages)
	}
}

func TestStoreExportSession(t *testing.T) {
	dir := t.TempDir()
	persist, err := NewSessionStorage(dir)
	if err != nil {
		t.Fatalf("NewSessionStorage: %v", err)
	}
	st, err := NewStore(persist)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	s, _ := st.Create("Exported", "anthropic", "m")
	st.Append(s.ID,
		model.Message{Role: model.RoleUser, Content: "hello"},
		model.Message{Role: model.RoleModel, Content: "hi"},
	)

	exportPath := filepath.Join(dir, "out", "exported.json")
	if err := st.ExportSession(s.ID, exportPath); err != nil {
		t.Fatalf("ExportSession: %v", err)
	}

	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var exported Session
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if exported.ID != s.ID || exported.Title != "Exported" || len(exported.Messages) != 2 {
		t.Errorf("exported session: %+v", exported)
	}

	if err := st.ExportSession("missing", exportPath); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("missing session: got %v, want ErrSessionNotFound", err)
	}
}

func TestStoreExportSessionMemoryOnly(t *testing.T) {
	st := newMemoryStore(t)
	s, _ := st.Create("Mem", "openai", "m")
	st.Append(s.ID, model.Message{Role: model.RoleUser, Content: "x"})

	exportPath := filepath.Join(t.TempDir(), "mem.json")
	if err := st.ExportSession(s.ID, exportPath); err != nil {
		t.Fatalf("ExportSession: %v", err)
	}
	if _, err := os.Stat(exportPath); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

func TestStoreReplaceAll(t *testing.T) {
	st := newMemoryStore(t)
	st.Create("Old", "anthropic", "m")

	now := time.Now()
	imported := []Session{
		{ID: "s1", Title: "First", Provider: "openai", Model: "gpt-4o-mini", UpdatedAt: now.Add(-time.Hour)},
		{ID: "s2", Title: "Second", Provider: "anthropic", Model: "m", UpdatedAt: now},
	}

	if err := st.ReplaceAll(imported); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}

	list := st.List()
	if len(list) != 2 {
		t.Fatalf("list length after import: got %d, want 2", len(list))
	}
	if st.ActiveID() != "s2" {
		t.Errorf("active after import: got %q, want %q (most recently updated)", st.ActiveID(), "s2")
	}
}
