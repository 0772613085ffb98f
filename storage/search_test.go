package storage

import (
	"strings"
	"testing"
	"unicode/utf8"

	"gsatui/model"
)

func searchFixture() Session {
	return Session{
		ID:    "s1",
		Title: "Sheets automation",
		Messages: []model.Message{
			{Role: model.RoleUser, Content: "How do I read a Spreadsheet range?"},
			{Role: model.RoleTool, Content: "Reading file `spreadsheet.gs` from `scripts`..."},
			{Role: model.RoleModel, Content: "Use SpreadsheetApp.getActiveSheet()."},
			{Role: model.RoleUser, Content: "And how about triggers?"},
		},
	}
}

func TestSearchMessagesCaseInsensitive(t *testing.T) {
	matches := SearchMessages(searchFixture(), "SPREADSHEET")

	if len(matches) != 2 {
		t.Fatalf("match count: got %d, want 2", len(matches))
	}
	if matches[0].MessageIndex != 0 || matches[1].MessageIndex != 2 {
		t.Errorf("match indexes: %d, %d", matches[0].MessageIndex, matches[1].MessageIndex)
	}
	if matches[0].SessionID != "s1" || matches[0].SessionTitle != "Sheets automation" {
		t.Errorf("session fields not carried: %+v", matches[0])
	}
}

func TestSearchMessagesSkipsToolProgress(t *testing.T) {
	// "scripts" only appears in the tool progress line
	matches := SearchMessages(searchFixture(), "scripts")
	if len(matches) != 0 {
		t.Errorf("tool messages should be skipped, got %d matches", len(matches))
	}
}

func TestSearchMessagesEmptyQuery(t *testing.T) {
	matches := SearchMessages(searchFixture(), "")
	if len(matches) != 0 {
		t.Errorf("empty query should match nothing, got %d", len(matches))
	}
}

func TestSearchMessagesTruncatesPreview(t *testing.T) {
	long := strings.Repeat("x", 150)
	session := Session{
		ID:       "s1",
		Messages: []model.Message{{Role: model.RoleModel, Content: long}},
	}

	matches := SearchMessages(session, "xxx")
	if len(matches) != 1 {
		t.Fatalf("match count: got %d, want 1", len(matches))
	}
	if len(matches[0].Preview) != 103 || !strings.HasSuffix(matches[0].Preview, "...") {
		t.Errorf("preview not truncated: len=%d", len(matches[0].Preview))
	}
}

func TestSearchMessagesPreviewMultibyte(t *testing.T) {
	long := strings.Repeat("ж", 150)
	session := Session{
		ID:       "s1",
		Messages: []model.Message{{Role: model.RoleModel, Content: long}},
	}

	matches := SearchMessages(session, "жж")
	if len(matches) != 1 {
		t.Fatalf("match count: got %d, want 1", len(matches))
	}
	got := matches[0].Preview
	if !utf8.ValidString(got) {
		t.Fatalf("preview is not valid UTF-8: %q", got)
	}
	if got != strings.Repeat("ж", 100)+"..." {
		t.Errorf("multibyte preview: %q", got)
	}
}

func TestSearchAll(t *testing.T) {
	store := newMemoryStore(t)
	first, _ := store.Create("First", "mock", "mock-model")
	store.Append(first.ID, model.Message{Role: model.RoleUser, Content: "deploy the webapp"})
	second, _ := store.Create("Second", "mock", "mock-model")
	store.Append(second.ID, model.Message{Role: model.RoleModel, Content: "Deploy with clasp push."})

	matches := store.SearchAll("deploy")
	if len(matches) != 2 {
		t.Fatalf("match count: got %d, want 2", len(matches))
	}
	// List is newest first, so the second session's hit comes first
	if matches[0].SessionID != second.ID || matches[1].SessionID != first.ID {
		t.Errorf("match order: %s, %s", matches[0].SessionID, matches[1].SessionID)
	}
}
