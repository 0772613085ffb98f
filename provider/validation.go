package provider

import (
	"fmt"

	"gsatui/config"
	"gsatui/model"
)

// ConfigFromSettings assembles a provider Config for the given provider id
// from settings and stored credentials. Incomplete configuration is reported
// as a model.ValidationError before any network call is attempted.
func ConfigFromSettings(id string, settings *config.Settings, creds *config.CredentialStore) (Config, error) {
	apiKey := ""
	if creds != nil {
		apiKey = creds.Get(id)
	}
	if apiKey == "" {
		return Config{}, &model.ValidationError{
			Reason: fmt.Sprintf("no API key configured for provider %q", id),
		}
	}

	switch id {
	case config.ProviderAnthropic:
		return Config{
			Type:    ProviderTypeAnthropic,
			BaseURL: settings.Anthropic.BaseURL,
			Model:   settings.Anthropic.Model,
			APIKey:  apiKey,
		}, nil

	case config.ProviderOpenAI:
		return Config{
			Type:    ProviderTypeOpenAI,
			BaseURL: settings.OpenAI.BaseURL,
			Model:   settings.OpenAI.Model,
			APIKey:  apiKey,
		}, nil

	case config.ProviderCodex:
		if settings.Codex.BaseURL == "" {
			return Config{}, &model.ValidationError{
				Reason: "codex endpoint URL is not configured",
			}
		}
		if settings.Codex.ReasoningEffort != "" && !ValidReasoningEffort(settings.Codex.ReasoningEffort) {
			return Config{}, &model.ValidationError{
				Reason: fmt.Sprintf("invalid reasoning effort %q", settings.Codex.ReasoningEffort),
			}
		}
		return Config{
			Type:            ProviderTypeCodex,
			BaseURL:         settings.Codex.BaseURL,
			Model:           settings.Codex.Model,
			APIKey:          apiKey,
			ReasoningEffort: settings.Codex.ReasoningEffort,
		}, nil

	default:
		return Config{}, &model.ValidationError{
			Reason: fmt.Sprintf("unknown provider %q", id),
		}
	}
}

// NewFromSettings creates the active provider from application config
func NewFromSettings(id string, settings *config.Settings, creds *config.CredentialStore) (model.Provider, error) {
	cfg, err := ConfigFromSettings(id, settings, creds)
	if err != nil {
		return nil, err
	}
	return NewProvider(cfg)
}
