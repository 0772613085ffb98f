package main

import (
	"fmt"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"gsatui/chat"
	"gsatui/config"
	"gsatui/github"
	"gsatui/model"
	"gsatui/provider"
	"gsatui/storage"
	"gsatui/ui"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

func main() {
	config.Debug = config.CheckDebug()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	sessionStorage, err := storage.NewSessionStorage(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to initialize session storage: %v\n", err)
		os.Exit(1)
	}

	// Single-instance enforcement
	isLocked, runningPID, err := sessionStorage.CheckInstanceLock()
	if err != nil {
		fmt.Printf("Failed to check instance lock: %v\n", err)
		os.Exit(1)
	}
	if isLocked {
		fmt.Printf("Another instance is already running (PID %d).\n", runningPID)
		os.Exit(1)
	}
	if err := sessionStorage.LockInstance(); err != nil {
		fmt.Printf("Failed to lock instance: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := sessionStorage.UnlockInstance(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("Warning: failed to unlock instance: %v", err)
		}
	}()

	store, err := storage.NewStore(sessionStorage)
	if err != nil {
		fmt.Printf("Failed to load sessions: %v\n", err)
		os.Exit(1)
	}

	// Resolve the selected system prompt from the prompt library, if any
	systemPrompt := ""
	promptStorage, err := storage.NewPromptStorage(cfg.DataDir())
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("Warning: prompt library unavailable: %v", err)
		}
	} else {
		defer promptStorage.Close()
		if id := cfg.Settings.SelectedPromptID; id != "" {
			if prompt, err := promptStorage.Load(id); err == nil && prompt != nil {
				systemPrompt = prompt.Content
			}
		}
	}

	// Providers are created lazily per id and cached: a session pinned to a
	// backend other than the active one still resolves.
	var providerMu sync.Mutex
	providers := make(map[string]model.Provider)
	resolve := func(providerID string) (model.Provider, error) {
		providerMu.Lock()
		defer providerMu.Unlock()
		if p, ok := providers[providerID]; ok {
			return p, nil
		}
		p, err := provider.NewFromSettings(providerID, cfg.Settings, cfg.Credentials)
		if err != nil {
			return nil, err
		}
		providers[providerID] = p
		return p, nil
	}

	opts := chat.Options{
		SystemPrompt:   systemPrompt,
		GenerateTitles: cfg.Settings.GenerateTitles,
	}

	githubAvailable := cfg.Settings.GitHubConfigured(cfg.Credentials)
	if githubAvailable {
		client := github.NewClient(
			cfg.Settings.GitHub.BaseURL,
			cfg.Settings.GitHub.Username,
			cfg.Credentials.Get("github"),
		)
		opts.Tools = github.NewExecutor(client, cfg.Settings.GitHub.CommitMessage)
		opts.ToolSchema = github.Tools()
		opts.ToolInstructions = cfg.Settings.GitHub.Instructions
	}

	var program *tea.Program
	opts.Notify = func(sessionID string) {
		if program != nil {
			program.Send(ui.ChatUpdatedMsg{SessionID: sessionID})
		}
	}

	orchestrator := chat.New(store, resolve, opts)

	// First run: make sure there is a session to type into
	if store.ActiveID() == "" {
		providerID := cfg.Settings.ActiveProvider
		if _, err := store.Create(chat.DefaultTitle, providerID, cfg.Settings.ProviderModel(providerID)); err != nil {
			fmt.Printf("Failed to create session: %v\n", err)
			os.Exit(1)
		}
	}

	program = tea.NewProgram(
		ui.NewAppView(store, orchestrator, cfg, githubAvailable),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
