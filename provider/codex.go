package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gsatui/model"
)

// ReasoningEfforts enumerates the accepted codex reasoning levels
var ReasoningEfforts = []string{"low", "medium", "high"}

// CodexProvider implements the single-shot custom-schema backend. The
// endpoint takes only the latest input text plus a reasoning-effort level;
// prior history is not submitted. No SDK exists for this API, so the client
// is plain net/http.
type CodexProvider struct {
	httpClient      *http.Client
	model           string
	baseURL         string
	apiKey          string
	reasoningEffort string
}

type codexRequest struct {
	Model     string         `json:"model"`
	Input     string         `json:"input"`
	Reasoning codexReasoning `json:"reasoning"`
}

type codexReasoning struct {
	Effort string `json:"effort"`
}

type codexResponse struct {
	OutputText string `json:"output_text"`
}

type codexErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewCodexProvider creates a new codex provider instance.
//
// Parameters:
//   - baseURL: endpoint URL (required)
//   - apiKey: API key (required)
//   - model: Model to use (default: "gpt-5.1-codex-max")
//   - reasoningEffort: one of low, medium, high (default: "high")
func NewCodexProvider(baseURL, apiKey, modelName, reasoningEffort string) (*CodexProvider, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("codex base URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("codex API key is required")
	}
	if modelName == "" {
		modelName = "gpt-5.1-codex-max"
	}
	if reasoningEffort == "" {
		reasoningEffort = "high"
	}
	if !ValidReasoningEffort(reasoningEffort) {
		return nil, fmt.Errorf("invalid reasoning effort %q (expected one of %s)",
			reasoningEffort, strings.Join(ReasoningEfforts, ", "))
	}

	return &CodexProvider{
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		model:           modelName,
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		apiKey:          apiKey,
		reasoningEffort: reasoningEffort,
	}, nil
}

// ValidReasoningEffort reports whether the given effort level is accepted
func ValidReasoningEffort(effort string) bool {
	for _, e := range ReasoningEfforts {
		if e == effort {
			return true
		}
	}
	return false
}

// Capabilities implements model.Provider.
func (p *CodexProvider) Capabilities() model.Capabilities {
	return model.Capabilities{}
}

// Model implements model.Provider.
func (p *CodexProvider) Model() string {
	return p.model
}

// Send implements model.Provider. Only the latest input text is submitted;
// the history argument is ignored by this backend.
func (p *CodexProvider) Send(ctx context.Context, history []model.Message, input model.Input, cfg model.SendConfig, callback model.StreamCallback) error {
	if input.IsToolTurn() {
		return &model.ValidationError{Reason: "backend does not support tool calls"}
	}
	if input.Attachment != nil {
		return &model.ValidationError{Reason: "backend does not support attachments"}
	}

	text, err := p.complete(ctx, input.Text)
	if err != nil {
		return err
	}

	if callback != nil {
		if err := callback(text, nil); err != nil {
			return err
		}
	}
	return nil
}

// GenerateTitle implements model.TitleGenerator.
func (p *CodexProvider) GenerateTitle(ctx context.Context, prompt string) (string, error) {
	text, err := p.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (p *CodexProvider) complete(ctx context.Context, input string) (string, error) {
	reqBody := codexRequest{
		Model: p.model,
		Input: input,
		Reasoning: codexReasoning{
			Effort: p.reasoningEffort,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("codex request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := string(body)
		var errResp codexErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			message = errResp.Error.Message
		}
		return "", &model.ProviderError{
			Status:  resp.StatusCode,
			Message: message,
		}
	}

	var result codexResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return result.OutputText, nil
}
