// Package chat implements the conversation control loop: it turns one user
// send into a sequence of provider turns, materializes streamed text into
// the session store, executes tool batches the model requests, and rolls
// the optimistic message pair back when a send fails.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"gsatui/config"
	"gsatui/github"
	"gsatui/model"
	"gsatui/storage"
)

// DefaultMaxTurns caps the provider turns one send may take. The loop keeps
// going while the model requests tools; a backend that never stops asking
// would otherwise spin forever.
const DefaultMaxTurns = 8

// ToolRunner executes one batch of tool calls and returns exactly one
// result per call, in call order. Implemented by github.Executor.
type ToolRunner interface {
	ExecuteBatch(ctx context.Context, calls []model.ToolCall, progress github.ProgressFunc) []model.ToolResult
}

// ProviderResolver returns the provider client for a settings provider id.
// Called once per send with the id pinned in the target session.
type ProviderResolver func(providerID string) (model.Provider, error)

// Options configures an Orchestrator.
type Options struct {
	// Tools enables tool mode when non-nil and the session's backend
	// supports tool calls.
	Tools      ToolRunner
	ToolSchema []mcptypes.Tool

	// SystemPrompt is the resolved system instruction; empty selects
	// DefaultSystemInstruction.
	SystemPrompt string

	// ToolInstructions is appended to the system prompt in tool mode.
	ToolInstructions string

	// GenerateTitles enables fire-and-forget titling of new sessions.
	GenerateTitles bool

	// MaxTurns overrides DefaultMaxTurns when positive.
	MaxTurns int

	// Notify is called with the session id after every store mutation so
	// the UI can re-render. May be nil.
	Notify func(sessionID string)
}

// Orchestrator drives the send loop against the session store. At most one
// send may be in flight per session; concurrent sends to the same session
// are rejected with model.ErrBusy.
type Orchestrator struct {
	store    *storage.Store
	resolve  ProviderResolver
	opts     Options
	maxTurns int

	mu       sync.Mutex
	busy     map[string]bool
	toolsOff bool
}

// New creates an orchestrator bound to a store and provider resolver
func New(store *storage.Store, resolve ProviderResolver, opts Options) *Orchestrator {
	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Orchestrator{
		store:    store,
		resolve:  resolve,
		opts:     opts,
		maxTurns: maxTurns,
		busy:     make(map[string]bool),
	}
}

// Send runs one full user send against the given session: optimistic
// append, provider turns, tool batches, and rollback on failure. It blocks
// until the loop settles and returns the error the UI should surface, or
// nil on success (including the silent-discard case where the session was
// deleted mid-send).
func (o *Orchestrator) Send(ctx context.Context, sessionID string, text string, attachment *model.Attachment) error {
	if strings.TrimSpace(text) == "" && attachment == nil {
		return &model.ValidationError{Reason: "message is empty"}
	}

	session, ok := o.store.Get(sessionID)
	if !ok {
		return storage.ErrSessionNotFound
	}

	if !o.acquire(sessionID) {
		return model.ErrBusy
	}
	defer o.release(sessionID)

	p, err := o.resolve(session.Provider)
	if err != nil {
		return err
	}

	caps := p.Capabilities()
	if attachment != nil {
		if !caps.Attachments {
			return &model.ValidationError{Reason: "backend does not support attachments"}
		}
		if err := attachment.Validate(); err != nil {
			return err
		}
	}
	toolsEnabled := o.opts.Tools != nil && len(o.opts.ToolSchema) > 0 && caps.Tools && o.ToolsActive()

	baseLen := len(session.Messages)

	userText := text
	if attachment != nil {
		userText = fmt.Sprintf("%s\n\n%s", text, attachment.InlineMarkdown())
	}
	now := time.Now()
	err = o.store.Append(sessionID,
		model.Message{Role: model.RoleUser, Content: userText, Timestamp: now},
		model.Message{Role: model.RoleModel, Content: "", Timestamp: now},
	)
	if err != nil {
		return err
	}
	o.notify(sessionID)

	if err := o.runLoop(ctx, p, session, sessionID, text, attachment, toolsEnabled); err != nil {
		o.rollback(sessionID, baseLen)
		return err
	}

	if baseLen == 0 {
		o.generateTitle(p, sessionID, text)
	}

	return nil
}

// runLoop drives provider turns until the model stops requesting tools
func (o *Orchestrator) runLoop(ctx context.Context, p model.Provider, session storage.Session, sessionID, text string, attachment *model.Attachment, toolsEnabled bool) error {
	cfg := o.sendConfig(toolsEnabled)
	input := model.Input{Text: text, Attachment: attachment}

	for turn := 0; ; turn++ {
		if turn >= o.maxTurns {
			return &model.LoopLimitError{Turns: turn}
		}

		current, live := o.currentState(sessionID, session)
		if !live {
			// Session was deleted or replaced mid-send; drop the turn
			if config.Debug && config.DebugLog != nil {
				config.DebugLog.Printf("[Chat] Discarding stale send for session %s", sessionID)
			}
			return nil
		}

		// The trailing message is always the streaming placeholder. On
		// the first turn the one before it is the new user message,
		// which travels as input rather than history.
		historyEnd := len(current.Messages) - 1
		if turn == 0 {
			historyEnd--
		}
		history := model.ChatHistory(current.Messages[:historyEnd])

		var toolCalls []model.ToolCall
		err := p.Send(ctx, history, input, cfg, func(chunk string, calls []model.ToolCall) error {
			if len(calls) > 0 {
				toolCalls = append(toolCalls, calls...)
			}
			if chunk == "" {
				return nil
			}
			if _, live := o.currentState(sessionID, session); !live {
				return nil
			}
			if err := o.store.ExtendLast(sessionID, chunk); err != nil {
				return nil
			}
			o.notify(sessionID)
			return nil
		})
		if err != nil {
			return err
		}

		if len(toolCalls) == 0 {
			return nil
		}

		if config.Debug && config.DebugLog != nil {
			config.DebugLog.Printf("[Chat] Executing %d tool call(s) for session %s", len(toolCalls), sessionID)
		}

		results := o.opts.Tools.ExecuteBatch(ctx, toolCalls, func(line string) {
			if _, live := o.currentState(sessionID, session); !live {
				return
			}
			_ = o.store.InsertBeforeLast(sessionID, model.Message{
				Role:      model.RoleTool,
				Content:   line,
				Timestamp: time.Now(),
			})
			o.notify(sessionID)
		})

		input = model.Input{ToolResults: results}
	}
}

// EnableTools switches repository tool mode on or off for subsequent sends.
// It has no effect on backends without tool support or when no tool runner
// was configured.
func (o *Orchestrator) EnableTools(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.toolsOff = !on
}

// ToolsActive reports whether tool mode is currently switched on.
func (o *Orchestrator) ToolsActive() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.toolsOff
}

// Busy reports whether a send is in flight for the session
func (o *Orchestrator) Busy(sessionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.busy[sessionID]
}

func (o *Orchestrator) acquire(sessionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.busy[sessionID] {
		return false
	}
	o.busy[sessionID] = true
	return true
}

func (o *Orchestrator) release(sessionID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.busy, sessionID)
}

func (o *Orchestrator) sendConfig(toolsEnabled bool) model.SendConfig {
	prompt := o.opts.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemInstruction
	}
	cfg := model.SendConfig{SystemPrompt: prompt}
	if toolsEnabled {
		if o.opts.ToolInstructions != "" {
			cfg.SystemPrompt = fmt.Sprintf("%s\n\n**GitHub Mode Instructions:**\n%s", prompt, o.opts.ToolInstructions)
		}
		cfg.Tools = o.opts.ToolSchema
	}
	return cfg
}

// currentState re-reads the session and verifies it is still the one this
// send targeted: same id, same pinned provider and model.
func (o *Orchestrator) currentState(sessionID string, want storage.Session) (storage.Session, bool) {
	current, ok := o.store.Get(sessionID)
	if !ok {
		return storage.Session{}, false
	}
	if current.Provider != want.Provider || current.Model != want.Model {
		return storage.Session{}, false
	}
	return current, true
}

// rollback restores the session to its pre-send length, removing the
// optimistic pair and any tool annotations added during the failed send
func (o *Orchestrator) rollback(sessionID string, baseLen int) {
	current, ok := o.store.Get(sessionID)
	if !ok {
		return
	}
	if n := len(current.Messages) - baseLen; n > 0 {
		_ = o.store.TruncateLast(sessionID, n)
	}
	o.notify(sessionID)
}

// generateTitle titles a fresh session after its first exchange. Backends
// with a title endpoint get a best-effort request; everything else, and any
// failed request, falls back to a truncation of the first message. Titling
// never affects the send.
func (o *Orchestrator) generateTitle(p model.Provider, sessionID, firstMessage string) {
	fallback := storage.GenerateSessionTitle(firstMessage)

	tg, ok := p.(model.TitleGenerator)
	if !o.opts.GenerateTitles || !ok {
		if err := o.store.Rename(sessionID, fallback); err == nil {
			o.notify(sessionID)
		}
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		prompt := fmt.Sprintf("%s: %q", TitleGenerationPrompt, firstMessage)
		title, err := tg.GenerateTitle(ctx, prompt)
		if err != nil || title == "" {
			if config.Debug && config.DebugLog != nil && err != nil {
				config.DebugLog.Printf("[Chat] Title generation failed: %v", err)
			}
			title = fallback
		}
		title = strings.ReplaceAll(title, `"`, "")

		if err := o.store.Rename(sessionID, title); err != nil {
			return
		}
		o.notify(sessionID)
	}()
}

func (o *Orchestrator) notify(sessionID string) {
	if o.opts.Notify != nil {
		o.opts.Notify(sessionID)
	}
}
