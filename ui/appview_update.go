package ui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"gsatui/chat"
	"gsatui/config"
	"gsatui/model"
	"gsatui/storage"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.showFilePicker {
		return a.updateFilePicker(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// title + blank line above the viewport, textarea + status bar below
		verticalChrome := 2 + a.textarea.Height() + 1
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - verticalChrome
		if a.viewport.Height < 1 {
			a.viewport.Height = 1
		}
		a.textarea.SetWidth(msg.Width - 2)
		a.ready = true
		a.updateViewportContent(true)
		return a, nil

	case spinner.TickMsg:
		if !a.sending {
			return a, nil
		}
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		return a, cmd

	case ChatUpdatedMsg:
		if msg.SessionID == a.store.ActiveID() {
			a.updateViewportContent(true)
		}
		return a, nil

	case sendFinishedMsg:
		a.sending = false
		if msg.err != nil {
			a.lastError = msg.err.Error()
			if config.Debug && config.DebugLog != nil {
				config.DebugLog.Printf("[ui] send failed for session %s: %v", msg.sessionID, msg.err)
			}
		}
		a.updateViewportContent(true)
		return a, nil

	case tea.KeyMsg:
		if a.showSessionManager {
			return a.handleSessionManagerKey(msg)
		}
		if a.showSearch {
			return a.handleSearchKey(msg)
		}
		return a.handleChatKey(msg)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a AppView) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "alt+q", "ctrl+c":
		return a, tea.Quit

	case "alt+s":
		a.openSessionManager()
		return a, nil

	case "alt+n":
		a.newSession()
		return a, nil

	case "alt+g":
		if !a.githubAvailable {
			a.lastError = "GitHub is not configured (set username and token)"
			return a, nil
		}
		a.orchestrator.EnableTools(!a.orchestrator.ToolsActive())
		a.lastError = ""
		return a, nil

	case "alt+a":
		a.showFilePicker = true
		a.pickerPurpose = pickAttachment
		return a, a.filePicker.Init()

	case "alt+f":
		a.openSearch()
		return a, nil

	case "alt+b":
		a.exportBackup()
		return a, nil

	case "alt+r":
		a.showFilePicker = true
		a.pickerPurpose = pickBackupRestore
		return a, a.filePicker.Init()

	case "alt+y":
		a.copyLastReply()
		return a, nil

	case "enter":
		return a.sendMessage()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	cmds = append(cmds, cmd)
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

// sendMessage kicks off one orchestrator send in the background. The
// orchestrator streams into the store and the Notify hook posts
// ChatUpdatedMsg; the returned command only reports the terminal result.
func (a AppView) sendMessage() (tea.Model, tea.Cmd) {
	text := a.textarea.Value()
	if text == "" && a.pendingAttachment == nil {
		return a, nil
	}

	sessionID := a.store.ActiveID()
	if sessionID == "" {
		a.newSession()
		sessionID = a.store.ActiveID()
		if sessionID == "" {
			return a, nil
		}
	}

	if a.orchestrator.Busy(sessionID) {
		a.lastError = model.ErrBusy.Error()
		return a, nil
	}

	a.textarea.Reset()
	a.lastError = ""
	a.sending = true

	attachment := a.pendingAttachment
	a.pendingAttachment = nil

	orchestrator := a.orchestrator
	send := func() tea.Msg {
		err := orchestrator.Send(context.Background(), sessionID, text, attachment)
		return sendFinishedMsg{sessionID: sessionID, err: err}
	}
	return a, tea.Batch(a.loadingSpinner.Tick, send)
}

func (a *AppView) newSession() {
	provider := a.settings.ActiveProvider
	session, err := a.store.Create(chat.DefaultTitle, provider, a.settings.ProviderModel(provider))
	if err != nil {
		a.lastError = err.Error()
		return
	}
	a.lastError = ""
	a.updateViewportContent(true)
	if config.Debug && config.DebugLog != nil {
		config.DebugLog.Printf("[ui] created session %s (%s/%s)", session.ID, session.Provider, session.Model)
	}
}

func (a *AppView) copyLastReply() {
	session, ok := a.store.Get(a.store.ActiveID())
	if !ok {
		return
	}
	for i := len(session.Messages) - 1; i >= 0; i-- {
		msg := session.Messages[i]
		if msg.Role == model.RoleModel && msg.Content != "" {
			if err := clipboard.WriteAll(msg.Content); err != nil {
				a.lastError = "copy failed: " + err.Error()
			} else {
				a.lastError = ""
			}
			return
		}
	}
}

// exportBackup writes settings, credentials and every session to a
// timestamped file under ~/Downloads.
func (a *AppView) exportBackup() {
	path := config.GenerateBackupPath()
	if err := config.ExportBackup(a.cfg, a.store, path); err != nil {
		a.lastError = err.Error()
		return
	}
	a.lastError = ""
	a.statusMessage = "Backup saved to " + path
}

// restoreBackup replaces the full application state from a backup file.
// Provider and tool wiring built at startup keeps running; a restart picks
// up an imported provider change.
func (a *AppView) restoreBackup(path string) {
	if err := config.ImportBackup(a.cfg, a.store, path); err != nil {
		a.lastError = err.Error()
		return
	}
	a.settings = a.cfg.Settings
	a.githubAvailable = a.settings.GitHubConfigured(a.cfg.Credentials)
	a.lastError = ""
	a.statusMessage = "Backup restored from " + path
	a.updateViewportContent(true)
}

func (a *AppView) openSessionManager() {
	a.sessionList = a.store.List()
	a.filteredSessionList = nil
	a.selectedSessionIdx = a.indexOfActive(a.sessionList)
	a.sessionFilterMode = false
	a.sessionRenameMode = false
	a.confirmDeleteSession = nil
	a.sessionFilterInput.SetValue("")
	a.showSessionManager = true
}

func (a AppView) indexOfActive(list []storage.Session) int {
	activeID := a.store.ActiveID()
	for i, s := range list {
		if s.ID == activeID {
			return i
		}
	}
	return 0
}
