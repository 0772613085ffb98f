package model

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAttachmentValidate(t *testing.T) {
	tests := []struct {
		name       string
		attachment Attachment
		wantErr    bool
	}{
		{
			name:       "small text file",
			attachment: Attachment{Name: "notes.txt", MIME: "text/plain", Data: []byte("hello")},
		},
		{
			name:       "image skips size check",
			attachment: Attachment{Name: "big.png", MIME: "image/png", Data: bytes.Repeat([]byte{0x89}, MaxTextAttachmentSize+1)},
		},
		{
			name:       "oversized text file",
			attachment: Attachment{Name: "dump.txt", MIME: "text/plain", Data: bytes.Repeat([]byte("a"), MaxTextAttachmentSize+1)},
			wantErr:    true,
		},
		{
			name:       "binary data as text",
			attachment: Attachment{Name: "blob.bin", MIME: "text/plain", Data: []byte{0xff, 0xfe, 0x00}},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.attachment.Validate()
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAttachmentInlineMarkdown(t *testing.T) {
	img := Attachment{Name: "shot.png", MIME: "image/png", Data: []byte{0x89, 0x50}}
	got := img.InlineMarkdown()
	if !strings.HasPrefix(got, "![shot.png](data:image/png;base64,") {
		t.Errorf("image markdown: %q", got)
	}

	txt := Attachment{Name: "notes.txt", MIME: "text/plain", Data: []byte("hi")}
	if got := txt.InlineMarkdown(); got != "*Attachment: notes.txt*" {
		t.Errorf("text label: %q", got)
	}
}

func TestLoadAttachmentClassifiesByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.JPG")
	if err := os.WriteFile(path, []byte("jpegdata"), 0600); err != nil {
		t.Fatal(err)
	}

	a, err := LoadAttachment(path)
	if err != nil {
		t.Fatalf("LoadAttachment: %v", err)
	}
	if a.Name != "photo.JPG" || a.MIME != "image/jpeg" {
		t.Errorf("attachment: %+v", a)
	}
	if !a.IsImage() {
		t.Error("jpeg should be an image")
	}

	if _, err := LoadAttachment(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
