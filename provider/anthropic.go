package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"gsatui/model"
)

// AnthropicProvider implements the streaming, tool-capable backend using
// Anthropic's official Go SDK.
type AnthropicProvider struct {
	client  *anthropic.Client
	model   anthropic.Model
	baseURL string
	apiKey  string
}

// NewAnthropicProvider creates a new Anthropic provider instance.
//
// Parameters:
//   - baseURL: Anthropic API base URL (default: "https://api.anthropic.com")
//   - apiKey: Anthropic API key (required)
//   - model: Model to use (default: "claude-sonnet-4-5-20250929")
//
// Returns an error if the API key is missing.
func NewAnthropicProvider(baseURL, apiKey, modelName string) (*AnthropicProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}

	var anthropicModel anthropic.Model
	if modelName == "" {
		anthropicModel = anthropic.ModelClaudeSonnet4_5_20250929
	} else {
		anthropicModel = anthropic.Model(modelName)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &AnthropicProvider{
		client:  &client,
		model:   anthropicModel,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

// Capabilities implements model.Provider.
func (p *AnthropicProvider) Capabilities() model.Capabilities {
	return model.Capabilities{
		Streaming:   true,
		Tools:       true,
		Attachments: true,
	}
}

// Model implements model.Provider.
func (p *AnthropicProvider) Model() string {
	return string(p.model)
}

// Send implements model.Provider with streaming support. Text deltas are
// forwarded through the callback as they arrive; tool calls are collected
// across the whole stream and emitted as a single batch after it ends.
func (p *AnthropicProvider) Send(ctx context.Context, history []model.Message, input model.Input, cfg model.SendConfig, callback model.StreamCallback) error {
	anthropicMessages := convertToAnthropicMessages(history)

	turn, err := buildAnthropicInputTurn(input)
	if err != nil {
		return err
	}
	anthropicMessages = append(anthropicMessages, turn)

	var systemBlocks []anthropic.TextBlockParam
	if len(cfg.Tools) > 0 {
		systemBlocks = append(systemBlocks, anthropic.TextBlockParam{
			Text: buildToolInstructions(cfg.Tools),
		})
	}
	if cfg.SystemPrompt != "" {
		systemBlocks = append(systemBlocks, anthropic.TextBlockParam{
			Text: cfg.SystemPrompt,
		})
	}

	params := anthropic.MessageNewParams{
		Model:     p.model,
		Messages:  anthropicMessages,
		MaxTokens: 4096,
	}
	if len(systemBlocks) > 0 {
		params.System = systemBlocks
	}
	if len(cfg.Tools) > 0 {
		params.Tools = ConvertToolsToAnthropicFormat(cfg.Tools)
	}

	stream := p.client.Messages.NewStreaming(ctx, params)

	msg := anthropic.Message{}
	for stream.Next() {
		event := stream.Current()

		if err := msg.Accumulate(event); err != nil {
			return fmt.Errorf("error accumulating message: %w", err)
		}

		switch eventVariant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch deltaVariant := eventVariant.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				if callback != nil {
					if err := callback(deltaVariant.Text, nil); err != nil {
						return err
					}
				}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return wrapAnthropicError(err)
	}

	// Tool calls are deferred until the stream has fully ended so the
	// orchestrator sees one batch per provider turn
	if callback != nil {
		toolCalls := extractToolCalls(msg.Content)
		if len(toolCalls) > 0 {
			if err := callback("", toolCalls); err != nil {
				return err
			}
		}
	}

	return nil
}

// GenerateTitle implements model.TitleGenerator with a small single-shot
// request.
func (p *AnthropicProvider) GenerateTitle(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 64,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", wrapAnthropicError(err)
	}

	var title strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			title.WriteString(text.Text)
		}
	}
	return strings.TrimSpace(title.String()), nil
}

// convertToAnthropicMessages converts stored history to Anthropic format.
// Tool progress messages never reach this function; the orchestrator filters
// them before the call.
func convertToAnthropicMessages(messages []model.Message) []anthropic.MessageParam {
	anthropicMsgs := make([]anthropic.MessageParam, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleModel:
			anthropicMsgs = append(anthropicMsgs,
				anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)),
			)
		default:
			anthropicMsgs = append(anthropicMsgs,
				anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)),
			)
		}
	}

	return anthropicMsgs
}

// buildAnthropicInputTurn converts the new input into the final user turn.
// Tool results are serialized to JSON and submitted as a user message so the
// model can continue the loop with the outcome of each call.
func buildAnthropicInputTurn(input model.Input) (anthropic.MessageParam, error) {
	if input.IsToolTurn() {
		payload, err := json.Marshal(input.ToolResults)
		if err != nil {
			return anthropic.MessageParam{}, fmt.Errorf("failed to encode tool results: %w", err)
		}
		return anthropic.NewUserMessage(
			anthropic.NewTextBlock("Tool results:\n" + string(payload)),
		), nil
	}

	blocks := []anthropic.ContentBlockParamUnion{
		anthropic.NewTextBlock(input.Text),
	}

	if att := input.Attachment; att != nil {
		if att.IsImage() {
			encoded := base64.StdEncoding.EncodeToString(att.Data)
			blocks = append(blocks, anthropic.NewImageBlockBase64(att.MIME, encoded))
		} else {
			// Text attachments are inlined, fenced with the filename
			blocks = append(blocks, anthropic.NewTextBlock(
				fmt.Sprintf("Attached file %s:\n```\n%s\n```", att.Name, string(att.Data)),
			))
		}
	}

	return anthropic.NewUserMessage(blocks...), nil
}

// extractToolCalls extracts tool calls from accumulated message content
func extractToolCalls(content []anthropic.ContentBlockUnion) []model.ToolCall {
	var toolCalls []model.ToolCall

	for _, block := range content {
		if toolUse, ok := block.AsAny().(anthropic.ToolUseBlock); ok {
			var args map[string]any
			if err := json.Unmarshal(toolUse.Input, &args); err != nil {
				continue
			}

			toolCalls = append(toolCalls, model.ToolCall{
				Name:      toolUse.Name,
				Arguments: args,
			})
		}
	}

	return toolCalls
}

func wrapAnthropicError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return &model.ProviderError{
			Status:  apierr.StatusCode,
			Message: apierr.Error(),
		}
	}
	return fmt.Errorf("Anthropic request failed: %w", err)
}
