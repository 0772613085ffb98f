package provider

import (
	"fmt"

	"gsatui/model"
)

// NewProvider creates a provider based on configuration.
//
// This is the centralized factory function for creating any provider type.
// It dispatches to the appropriate constructor based on the Config.Type
// field and returns an error for unknown types or when the constructor
// rejects its configuration (missing key, bad reasoning effort).
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeAnthropic:
		return NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeOpenAI:
		return NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model)
	case ProviderTypeCodex:
		return NewCodexProvider(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.ReasoningEffort)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// MapProviderIDToType converts a settings provider id to a factory
// ProviderType. For unknown ids the id is passed through as-is and the
// factory will return an error.
func MapProviderIDToType(id string) ProviderType {
	switch id {
	case "anthropic":
		return ProviderTypeAnthropic
	case "openai":
		return ProviderTypeOpenAI
	case "codex":
		return ProviderTypeCodex
	default:
		return ProviderType(id)
	}
}
