package model

import (
	"context"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Provider abstracts LLM backend implementations behind a single send
// contract using provider-agnostic types from the model layer.
//
// The interface lives in the model package (not provider) to avoid import
// cycles: provider implementations import model, and the orchestrator can
// depend on the Provider interface without importing the provider package.
type Provider interface {
	// Send submits one provider turn. history is the prior conversation
	// (user/model roles only), input the new turn content. Text chunks are
	// delivered through callback in arrival order; a tool-call batch, if the
	// backend requested tools, is delivered once at the end of the turn.
	// Returning nil with no tool batch means the turn completed.
	Send(ctx context.Context, history []Message, input Input, cfg SendConfig, callback StreamCallback) error

	// Capabilities reports what this backend kind supports. The orchestrator
	// checks it before attempting a tool-mode or attachment send.
	Capabilities() Capabilities

	// Model returns the backend model identifier this provider is pinned to.
	Model() string
}

// TitleGenerator is implemented by providers that can produce a short
// session title from the first user prompt. Optional; discovered by type
// assertion.
type TitleGenerator interface {
	GenerateTitle(ctx context.Context, prompt string) (string, error)
}

// StreamCallback is called for each chunk of a streamed response. toolCalls
// is nil for plain text chunks and non-nil exactly once per turn, carrying
// the whole batch the backend requested.
type StreamCallback func(chunk string, toolCalls []ToolCall) error

// Capabilities describes what a backend kind can do.
type Capabilities struct {
	Streaming   bool
	Tools       bool
	Attachments bool
}

// Input is the new content for one provider turn: either user text with an
// optional attachment, or the resolved results of the previous turn's tool
// batch.
type Input struct {
	Text        string
	Attachment  *Attachment
	ToolResults []ToolResult
}

// IsToolTurn reports whether this input carries tool results rather than
// fresh user content.
func (in Input) IsToolTurn() bool {
	return len(in.ToolResults) > 0
}

// SendConfig carries the per-send configuration the orchestrator resolved:
// the effective system instruction and, when tool mode is active, the fixed
// tool schema.
type SendConfig struct {
	SystemPrompt string
	Tools        []mcptypes.Tool
}
