package storage

import (
	"strings"
	"testing"
)

func newPromptStorage(t *testing.T) *PromptStorage {
	t.Helper()
	ps, err := NewPromptStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewPromptStorage: %v", err)
	}
	t.Cleanup(func() { ps.Close() })
	return ps
}

func TestPromptStorageSaveAndLoad(t *testing.T) {
	ps := newPromptStorage(t)

	saved, err := ps.Save(Prompt{Name: "Spreadsheet Helper", Content: "You focus on Sheets automations."})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("id should be generated")
	}

	loaded, err := ps.Load(saved.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded == nil {
		t.Fatal("prompt not found after save")
	}
	if loaded.Name != "Spreadsheet Helper" || loaded.Content != "You focus on Sheets automations." {
		t.Errorf("loaded prompt: %+v", loaded)
	}
}

func TestPromptStorageLoadMissing(t *testing.T) {
	ps := newPromptStorage(t)

	loaded, err := ps.Load("nope")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded != nil {
		t.Errorf("expected nil for unknown id, got %+v", loaded)
	}
}

func TestPromptStorageSaveReplacesExisting(t *testing.T) {
	ps := newPromptStorage(t)

	saved, _ := ps.Save(Prompt{Name: "v1", Content: "first"})
	saved.Content = "second"
	if _, err := ps.Save(saved); err != nil {
		t.Fatalf("Save update: %v", err)
	}

	prompts, err := ps.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(prompts) != 1 {
		t.Fatalf("prompt count: got %d, want 1", len(prompts))
	}
	if prompts[0].Content != "second" {
		t.Errorf("content after update: %q", prompts[0].Content)
	}
}

func TestPromptStorageRename(t *testing.T) {
	ps := newPromptStorage(t)

	saved, _ := ps.Save(Prompt{Name: "old", Content: "c"})
	if err := ps.Rename(saved.ID, "new"); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	loaded, _ := ps.Load(saved.ID)
	if loaded.Name != "new" {
		t.Errorf("name after rename: %q", loaded.Name)
	}

	err := ps.Rename("missing", "x")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("rename missing prompt: %v", err)
	}
}

func TestPromptStorageDelete(t *testing.T) {
	ps := newPromptStorage(t)

	saved, _ := ps.Save(Prompt{Name: "doomed", Content: "c"})
	if err := ps.Delete(saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	loaded, _ := ps.Load(saved.ID)
	if loaded != nil {
		t.Error("prompt still present after delete")
	}
}
