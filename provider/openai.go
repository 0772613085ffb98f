package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"gsatui/model"
)

// OpenAIProvider implements the single-shot OpenAI-compatible backend.
// The whole response arrives as one blocking call and is delivered to the
// callback as a single delta. Tools and attachments are not supported.
type OpenAIProvider struct {
	client  openai.Client
	model   string
	baseURL string
	apiKey  string
}

// NewOpenAIProvider creates a new OpenAI provider instance.
//
// Parameters:
//   - baseURL: API base URL (default: "https://api.openai.com/v1")
//   - apiKey: API key (required)
//   - model: Model to use (default: "gpt-4o-mini")
//
// Returns an error if the API key is missing.
func NewOpenAIProvider(baseURL, apiKey, modelName string) (*OpenAIProvider, error) {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIProvider{
		client:  client,
		model:   modelName,
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

// Capabilities implements model.Provider.
func (p *OpenAIProvider) Capabilities() model.Capabilities {
	return model.Capabilities{}
}

// Model implements model.Provider.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// Send implements model.Provider with one blocking chat completion call.
func (p *OpenAIProvider) Send(ctx context.Context, history []model.Message, input model.Input, cfg model.SendConfig, callback model.StreamCallback) error {
	if input.IsToolTurn() {
		return &model.ValidationError{Reason: "backend does not support tool calls"}
	}
	if input.Attachment != nil {
		return &model.ValidationError{Reason: "backend does not support attachments"}
	}

	openaiMessages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if cfg.SystemPrompt != "" {
		openaiMessages = append(openaiMessages, openai.SystemMessage(cfg.SystemPrompt))
	}
	for _, msg := range history {
		switch msg.Role {
		case model.RoleModel:
			openaiMessages = append(openaiMessages, openai.AssistantMessage(msg.Content))
		default:
			openaiMessages = append(openaiMessages, openai.UserMessage(msg.Content))
		}
	}
	openaiMessages = append(openaiMessages, openai.UserMessage(input.Text))

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openaiMessages,
		Model:    openai.ChatModel(p.model),
	})
	if err != nil {
		return wrapOpenAIError(err)
	}

	if len(completion.Choices) == 0 {
		return fmt.Errorf("OpenAI response contained no choices")
	}

	if callback != nil {
		if err := callback(completion.Choices[0].Message.Content, nil); err != nil {
			return err
		}
	}

	return nil
}

// GenerateTitle implements model.TitleGenerator.
func (p *OpenAIProvider) GenerateTitle(ctx context.Context, prompt string) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(p.model),
	})
	if err != nil {
		return "", wrapOpenAIError(err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("OpenAI response contained no choices")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func wrapOpenAIError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &model.ProviderError{
			Status:  apierr.StatusCode,
			Message: apierr.Error(),
		}
	}
	return fmt.Errorf("OpenAI request failed: %w", err)
}
