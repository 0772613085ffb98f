package config

// DefaultGitHubInstructions is appended to the system instruction when the
// repository tools are active on a send.
const DefaultGitHubInstructions = "When asked to modify or create code, use the available tools to " +
	"interact with the user's GitHub repository directly. Announce which files you are reading or writing."

// DefaultCommitMessage is used when the model omits one on a write.
const DefaultCommitMessage = "feat: AI-generated changes"

func DefaultSettings() *Settings {
	return &Settings{
		DataDirectory:  "~/.local/share/gsatui",
		AppTitle:       "Google Scripts Assistant",
		GenerateTitles: true,
		ActiveProvider: ProviderAnthropic,
		Anthropic: ProviderSettings{
			Model: "claude-sonnet-4-5-20250929",
		},
		OpenAI: ProviderSettings{
			Model:   "gpt-4o-mini",
			BaseURL: "https://api.openai.com/v1",
		},
		Codex: CodexSettings{
			Model:           "gpt-5.1-codex-max",
			ReasoningEffort: "high",
		},
		GitHub: GitHubSettings{
			CommitMessage: DefaultCommitMessage,
			Instructions:  DefaultGitHubInstructions,
		},
		Security: SecuritySettings{
			Method: string(SecurityPlainText),
		},
	}
}

func GenerateSettingsTemplate() string {
	return `# GSATUI Configuration
# Location: ~/.config/gsatui/settings.toml
# This file uses TOML format: https://toml.io

# Directory where sessions, prompts and credentials are stored
data_directory = "~/.local/share/gsatui"

app_title = "Google Scripts Assistant"

# Generate a short session title from the first prompt (streaming backend only)
generate_titles = true

# Which backend new sessions use: anthropic | openai | codex
active_provider = "anthropic"

[anthropic]
model = "claude-sonnet-4-5-20250929"

[openai]
model = "gpt-4o-mini"
base_url = "https://api.openai.com/v1"

[codex]
model = "gpt-5.1-codex-max"
# base_url is required for the codex backend
reasoning_effort = "high"

[github]
# username and a token (stored in the credential store) enable repository tools
username = ""
commit_message = "feat: AI-generated changes"

[security]
# Credential storage: plaintext | ssh_key
method = "plaintext"
# ssh_key_path = "~/.ssh/id_ed25519"
`
}
