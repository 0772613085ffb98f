package testutil

import (
	"context"

	"gsatui/model"
)

// MockProvider implements model.Provider for testing. The SendFunc and
// capability fields are configurable per test; Calls records every Send
// invocation so tests can assert on the history and input each turn saw.
type MockProvider struct {
	SendFunc  func(ctx context.Context, history []model.Message, input model.Input, cfg model.SendConfig, callback model.StreamCallback) error
	TitleFunc func(ctx context.Context, prompt string) (string, error)
	Caps      model.Capabilities

	Calls []SendCall

	currentModel string
}

// SendCall records the arguments of one Send invocation
type SendCall struct {
	History []model.Message
	Input   model.Input
	Config  model.SendConfig
}

// NewMockProvider creates a mock provider with default implementations:
// full capabilities, one "Mock response" delta per Send, and no title
// generation.
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{
		currentModel: modelName,
		Caps: model.Capabilities{
			Streaming:   true,
			Tools:       true,
			Attachments: true,
		},
	}
	mock.SendFunc = mock.defaultSend
	return mock
}

func (m *MockProvider) defaultSend(ctx context.Context, history []model.Message, input model.Input, cfg model.SendConfig, callback model.StreamCallback) error {
	if callback != nil {
		return callback("Mock response", nil)
	}
	return nil
}

// Send implements model.Provider
func (m *MockProvider) Send(ctx context.Context, history []model.Message, input model.Input, cfg model.SendConfig, callback model.StreamCallback) error {
	m.Calls = append(m.Calls, SendCall{
		History: append([]model.Message(nil), history...),
		Input:   input,
		Config:  cfg,
	})
	return m.SendFunc(ctx, history, input, cfg, callback)
}

// Capabilities implements model.Provider
func (m *MockProvider) Capabilities() model.Capabilities {
	return m.Caps
}

// Model implements model.Provider
func (m *MockProvider) Model() string {
	return m.currentModel
}

// GenerateTitle implements model.TitleGenerator when TitleFunc is set.
// With no TitleFunc it reports a fixed title.
func (m *MockProvider) GenerateTitle(ctx context.Context, prompt string) (string, error) {
	if m.TitleFunc != nil {
		return m.TitleFunc(ctx, prompt)
	}
	return "Mock Title", nil
}

// ScriptedSend returns a SendFunc that emits the given deltas in order,
// then the tool calls (if any) as one batch.
func ScriptedSend(deltas []string, toolCalls []model.ToolCall) func(ctx context.Context, history []model.Message, input model.Input, cfg model.SendConfig, callback model.StreamCallback) error {
	return func(ctx context.Context, history []model.Message, input model.Input, cfg model.SendConfig, callback model.StreamCallback) error {
		for _, delta := range deltas {
			if err := callback(delta, nil); err != nil {
				return err
			}
		}
		if len(toolCalls) > 0 {
			return callback("", toolCalls)
		}
		return nil
	}
}
