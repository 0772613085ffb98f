package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetFileContent(t *testing.T) {
	const fileBody = "function main() {\n  Logger.log('hi');\n}\n"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octocat/scripts/contents/main.gs" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if accept := r.Header.Get("Accept"); accept != "application/vnd.github.v3.raw" {
			t.Errorf("Accept header: got %q, want raw media type", accept)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("Authorization header: got %q", auth)
		}
		w.Write([]byte(fileBody))
	}))
	defer server.Close()

	client := NewClient(server.URL, "octocat", "test-token")
	content, err := client.GetFileContent(context.Background(), "scripts", "main.gs")
	if err != nil {
		t.Fatalf("GetFileContent: %v", err)
	}
	if content != fileBody {
		t.Errorf("content: got %q, want %q", content, fileBody)
	}
}

func TestGetFileContentNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "octocat", "t")
	_, err := client.GetFileContent(context.Background(), "scripts", "missing.gs")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !strings.HasPrefix(err.Error(), "404 - ") {
		t.Errorf("error format: got %q", err.Error())
	}
}

func TestListDirectory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octocat/scripts/contents/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]Entry{
			{Name: "main.gs", Type: "file", Path: "main.gs"},
			{Name: "lib", Type: "dir", Path: "lib"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "octocat", "t")
	entries, err := client.ListDirectory(context.Background(), "scripts", "")
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	if entries[0].Name != "main.gs" || entries[0].Type != "file" {
		t.Errorf("first entry: %+v", entries[0])
	}
	if entries[1].Type != "dir" {
		t.Errorf("second entry: %+v", entries[1])
	}
}

func TestWriteFileNew(t *testing.T) {
	var putPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			// No existing file: no sha to merge into the PUT
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			if err := json.NewDecoder(r.Body).Decode(&putPayload); err != nil {
				t.Fatalf("decode PUT body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"content":{"path":"new.gs"}}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "octocat", "t")
	path, err := client.WriteFile(context.Background(), "scripts", "new.gs", "let x = 1;", "Add new.gs")
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if path != "new.gs" {
		t.Errorf("committed path: got %q", path)
	}

	if putPayload["message"] != "Add new.gs" {
		t.Errorf("commit message: %v", putPayload["message"])
	}
	decoded, _ := base64.StdEncoding.DecodeString(putPayload["content"].(string))
	if string(decoded) != "let x = 1;" {
		t.Errorf("content not base64 of body: %q", decoded)
	}
	if _, hasSHA := putPayload["sha"]; hasSHA {
		t.Error("sha sent for a new file")
	}
}

func TestWriteFileExistingSendsSHA(t *testing.T) {
	var putPayload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`{"sha":"abc123","path":"main.gs"}`))
		case http.MethodPut:
			json.NewDecoder(r.Body).Decode(&putPayload)
			w.Write([]byte(`{"content":{"path":"main.gs"}}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "octocat", "t")
	if _, err := client.WriteFile(context.Background(), "scripts", "main.gs", "updated", "Update main.gs"); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if putPayload["sha"] != "abc123" {
		t.Errorf("sha: got %v, want abc123", putPayload["sha"])
	}
}

func TestWriteFileError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"Resource not accessible"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "octocat", "t")
	_, err := client.WriteFile(context.Background(), "scripts", "x.gs", "body", "msg")
	if err == nil {
		t.Fatal("expected write error")
	}
	if !strings.HasPrefix(err.Error(), "GitHub Write Error: 403 - ") {
		t.Errorf("error format: got %q", err.Error())
	}
}
