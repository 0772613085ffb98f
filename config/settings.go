package config

// Provider ids as stored in settings and used by the provider factory.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderCodex     = "codex"
)

// Settings is the persisted user configuration. It round-trips through TOML
// on disk and through JSON in full-state backups, so both tag sets are kept
// in sync.
type Settings struct {
	DataDirectory    string `toml:"data_directory" json:"dataDirectory"`
	AppTitle         string `toml:"app_title" json:"appTitle"`
	GenerateTitles   bool   `toml:"generate_titles" json:"generateTitles"`
	ActiveProvider   string `toml:"active_provider" json:"activeProvider"`
	SelectedPromptID string `toml:"selected_prompt_id,omitempty" json:"selectedPromptId,omitempty"`

	Anthropic ProviderSettings `toml:"anthropic" json:"anthropic"`
	OpenAI    ProviderSettings `toml:"openai" json:"openai"`
	Codex     CodexSettings    `toml:"codex" json:"codex"`
	GitHub    GitHubSettings   `toml:"github" json:"github"`
	Security  SecuritySettings `toml:"security" json:"security"`
}

// ProviderSettings configures one chat backend. API keys live in the
// credential store, not here.
type ProviderSettings struct {
	Model   string `toml:"model" json:"model"`
	BaseURL string `toml:"base_url,omitempty" json:"baseUrl,omitempty"`
}

// CodexSettings configures the custom-schema single-shot backend.
type CodexSettings struct {
	Model           string `toml:"model" json:"model"`
	BaseURL         string `toml:"base_url,omitempty" json:"baseUrl,omitempty"`
	ReasoningEffort string `toml:"reasoning_effort" json:"reasoningEffort"` // low | medium | high
}

// GitHubSettings configures the repository tool integration. The token lives
// in the credential store under the "github" id.
type GitHubSettings struct {
	Username      string `toml:"username" json:"username"`
	CommitMessage string `toml:"commit_message" json:"commitMessage"`
	Instructions  string `toml:"instructions" json:"instructions"`
	BaseURL       string `toml:"base_url,omitempty" json:"baseUrl,omitempty"`
}

// SecuritySettings selects how credentials are stored on disk.
type SecuritySettings struct {
	Method     string `toml:"method" json:"method"` // plaintext | ssh_key
	SSHKeyPath string `toml:"ssh_key_path,omitempty" json:"sshKeyPath,omitempty"`
}

// ProviderModel returns the configured model for a provider id.
func (s *Settings) ProviderModel(providerID string) string {
	switch providerID {
	case ProviderAnthropic:
		return s.Anthropic.Model
	case ProviderOpenAI:
		return s.OpenAI.Model
	case ProviderCodex:
		return s.Codex.Model
	default:
		return ""
	}
}

// GitHubConfigured reports whether the repository tools can be enabled.
func (s *Settings) GitHubConfigured(creds *CredentialStore) bool {
	return s.GitHub.Username != "" && creds.Get("github") != ""
}
