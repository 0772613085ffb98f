package provider

import (
	"errors"
	"testing"

	"gsatui/config"
	"gsatui/model"
)

func testSettings() *config.Settings {
	return &config.Settings{
		ActiveProvider: config.ProviderAnthropic,
		Anthropic:      config.ProviderSettings{Model: "claude-sonnet-4-5-20250929"},
		OpenAI:         config.ProviderSettings{Model: "gpt-4o-mini"},
		Codex: config.CodexSettings{
			Model:           "gpt-5.1-codex-max",
			BaseURL:         "https://codex.example.com/v1/responses",
			ReasoningEffort: "high",
		},
	}
}

func testCredentials(ids ...string) *config.CredentialStore {
	creds := config.NewCredentialStore(config.SecurityPlainText, "")
	for _, id := range ids {
		creds.Set(id, "secret-"+id)
	}
	return creds
}

func TestConfigFromSettings(t *testing.T) {
	tests := []struct {
		name        string
		providerID  string
		credentials []string
		mutate      func(*config.Settings)
		expectError bool
		wantType    ProviderType
	}{
		{
			name:        "anthropic",
			providerID:  "anthropic",
			credentials: []string{"anthropic"},
			wantType:    ProviderTypeAnthropic,
		},
		{
			name:        "openai",
			providerID:  "openai",
			credentials: []string{"openai"},
			wantType:    ProviderTypeOpenAI,
		},
		{
			name:        "codex",
			providerID:  "codex",
			credentials: []string{"codex"},
			wantType:    ProviderTypeCodex,
		},
		{
			name:        "missing api key",
			providerID:  "anthropic",
			credentials: nil,
			expectError: true,
		},
		{
			name:        "codex without endpoint",
			providerID:  "codex",
			credentials: []string{"codex"},
			mutate:      func(s *config.Settings) { s.Codex.BaseURL = "" },
			expectError: true,
		},
		{
			name:        "codex with bad reasoning effort",
			providerID:  "codex",
			credentials: []string{"codex"},
			mutate:      func(s *config.Settings) { s.Codex.ReasoningEffort = "extreme" },
			expectError: true,
		},
		{
			name:        "codex with empty reasoning effort uses provider default",
			providerID:  "codex",
			credentials: []string{"codex"},
			mutate:      func(s *config.Settings) { s.Codex.ReasoningEffort = "" },
			wantType:    ProviderTypeCodex,
		},
		{
			name:        "unknown provider id",
			providerID:  "gemini",
			credentials: []string{"gemini"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := testSettings()
			if tt.mutate != nil {
				tt.mutate(settings)
			}

			cfg, err := ConfigFromSettings(tt.providerID, settings, testCredentials(tt.credentials...))

			if tt.expectError {
				var verr *model.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Type != tt.wantType {
				t.Errorf("type: got %q, want %q", cfg.Type, tt.wantType)
			}
			if cfg.APIKey != "secret-"+tt.providerID {
				t.Errorf("api key not taken from credential store: %q", cfg.APIKey)
			}
		})
	}
}
