// Package provider implements the three LLM backends behind a common
// interface.
//
// The application talks to one of three backend kinds: a streaming,
// tool-capable API (Anthropic), a single-shot OpenAI-compatible chat
// completion API, and a single-shot custom-schema endpoint (Codex). The UI
// and orchestration logic stay backend-agnostic by depending only on the
// model.Provider interface and the capability descriptor each provider
// reports.
//
// # Architecture
//
//   - model.Provider defines the contract (it lives in the model package to
//     avoid import cycles)
//   - provider.AnthropicProvider implements the streaming variant
//   - provider.OpenAIProvider implements the OpenAI-compatible variant
//   - provider.CodexProvider implements the custom-schema variant
//   - provider.NewProvider() factory creates providers from config
//
// # Usage
//
//	cfg := provider.Config{
//	    Type:   provider.ProviderTypeAnthropic,
//	    APIKey: "sk-ant-...",
//	    Model:  "claude-sonnet-4-5-20250929",
//	}
//	p, err := provider.NewProvider(cfg)
//	if err != nil {
//	    // handle error
//	}
//	err = p.Send(ctx, history, input, sendCfg, callback)
package provider

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeAnthropic ProviderType = "anthropic"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeCodex     ProviderType = "codex"
)

// Config holds provider-specific configuration.
type Config struct {
	Type            ProviderType
	BaseURL         string
	Model           string
	APIKey          string
	ReasoningEffort string // Codex only
}
