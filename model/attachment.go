package model

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxTextAttachmentSize caps non-image attachments. Larger files would blow
// up the prompt; the limit matches what the backends handle comfortably.
const MaxTextAttachmentSize = 500 * 1024

// supported inline image types
var imageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Attachment is a file the user inlined into a send: either an image
// (forwarded as base64 media) or a text file (inlined into the prompt).
type Attachment struct {
	Name string
	MIME string
	Data []byte
}

// IsImage reports whether the attachment is a supported inline image type.
func (a *Attachment) IsImage() bool {
	return imageMIMETypes[a.MIME]
}

// Validate rejects attachments that cannot be sent: non-image files over the
// size cap or with undecodable (non-UTF-8) content. Returns a
// ValidationError so callers can surface it before any network call.
func (a *Attachment) Validate() error {
	if a.IsImage() {
		return nil
	}
	if len(a.Data) > MaxTextAttachmentSize {
		return &ValidationError{
			Reason: fmt.Sprintf("could not process %q: file size exceeds %dKB limit", a.Name, MaxTextAttachmentSize/1024),
		}
	}
	if !utf8.Valid(a.Data) {
		return &ValidationError{
			Reason: fmt.Sprintf("could not process %q: not a text-based file", a.Name),
		}
	}
	return nil
}

// InlineMarkdown renders an image attachment as a data-URI markdown image so
// the UI can show it inline with the message text. Non-image attachments
// render as a plain label.
func (a *Attachment) InlineMarkdown() string {
	if !a.IsImage() {
		return fmt.Sprintf("*Attachment: %s*", a.Name)
	}
	encoded := base64.StdEncoding.EncodeToString(a.Data)
	return fmt.Sprintf("![%s](data:%s;base64,%s)", a.Name, a.MIME, encoded)
}

// LoadAttachment reads a file from disk and classifies it by extension.
func LoadAttachment(path string) (*Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}

	return &Attachment{
		Name: filepath.Base(path),
		MIME: mimeForExtension(path),
		Data: data,
	}, nil
}

func mimeForExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "text/plain"
	}
}
