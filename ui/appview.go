package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gsatui/chat"
	"gsatui/config"
	"gsatui/model"
	"gsatui/storage"
)

// AppView is the bubbletea model for the chat screen. It owns no chat
// state of its own: the session store is the single source of truth, and
// every ChatUpdatedMsg triggers a re-read.
type AppView struct {
	store        *storage.Store
	orchestrator *chat.Orchestrator
	cfg          *config.Config
	settings     *config.Settings

	// UI components
	viewport       viewport.Model
	textarea       textarea.Model
	loadingSpinner spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	sending       bool
	lastError     string
	statusMessage string

	// File picker, shared by attachment and backup-restore flows
	showFilePicker    bool
	filePicker        filepicker.Model
	pickerPurpose     pickerPurpose
	pendingAttachment *model.Attachment

	// Cross-session message search modal
	showSearch        bool
	searchInput       textinput.Model
	searchResults     []storage.MessageMatch
	searchSelectedIdx int

	// githubAvailable is fixed at startup from the settings; the runtime
	// toggle lives on the orchestrator.
	githubAvailable bool

	// Session manager modal
	showSessionManager   bool
	sessionList          []storage.Session
	selectedSessionIdx   int
	sessionRenameMode    bool
	sessionRenameInput   textinput.Model
	sessionFilterMode    bool
	sessionFilterInput   textinput.Model
	filteredSessionList  []storage.Session
	confirmDeleteSession *storage.Session
}

// pickerPurpose selects what a file-picker selection is used for.
type pickerPurpose int

const (
	pickAttachment pickerPurpose = iota
	pickBackupRestore
)

func NewAppView(store *storage.Store, orchestrator *chat.Orchestrator, cfg *config.Config, githubAvailable bool) AppView {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Custom KeyMap: Alt+Enter for newline, Enter alone sends (handled separately)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	// Set dynamic prompt: "> " for first line, "| " for subsequent lines
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	renameInput := textinput.New()
	renameInput.CharLimit = 100

	filterInput := textinput.New()
	filterInput.Prompt = "Filter: "
	filterInput.CharLimit = 64

	fp := filepicker.New()
	fp.Height = 10
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.ShowPermissions = false
	fp.ShowSize = false
	fp.CurrentDirectory = config.GetHomeDir()
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(successColor)

	searchInput := textinput.New()
	searchInput.Prompt = "Search: "
	searchInput.CharLimit = 128

	return AppView{
		store:              store,
		orchestrator:       orchestrator,
		cfg:                cfg,
		settings:           cfg.Settings,
		viewport:           vp,
		textarea:           ta,
		loadingSpinner:     sp,
		filePicker:         fp,
		searchInput:        searchInput,
		githubAvailable:    githubAvailable,
		sessionRenameInput: renameInput,
		sessionFilterInput: filterInput,
	}
}

func (a AppView) Init() tea.Cmd {
	return textarea.Blink
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.showSessionManager {
		return a.renderSessionManager()
	}

	if a.showFilePicker {
		return a.renderFilePicker()
	}

	if a.showSearch {
		return a.renderMessageSearch()
	}

	// Title bar - "GSATUI - model - session title"
	appText := AssistantStyle.Render(a.appTitle())
	session, haveSession := a.store.Get(a.store.ActiveID())
	modelText := ""
	sessionText := ""
	if haveSession {
		modelText = TitleStyle.Render(fmt.Sprintf(" - %s", session.Model))
		sessionText = UserStyle.Render(fmt.Sprintf(" - %s", session.Title))
	}

	toolText := ""
	if a.githubAvailable && a.orchestrator.ToolsActive() {
		toolText = DimStyle.Render(" | 🔧 github")
	}

	attachText := ""
	if a.pendingAttachment != nil {
		attachText = ToolStyle.Render(fmt.Sprintf(" | 📎 %s", a.pendingAttachment.Name))
	}

	title := appText + modelText + sessionText + toolText + attachText
	if a.sending {
		title += " " + a.loadingSpinner.View()
	}

	// Status bar: the latest error wins, then the latest status message,
	// then the key help
	var statusBar string
	switch {
	case a.lastError != "":
		statusBar = ErrorStyle.Render("✗ " + a.lastError)
	case a.statusMessage != "":
		statusBar = lipgloss.NewStyle().Foreground(successColor).Render("✓ " + a.statusMessage)
	default:
		descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
		statusBar = StatusStyle.Render(fmt.Sprintf("Alt+Q %s  Alt+S %s  Alt+N %s  Alt+G %s  Alt+A %s  Alt+F %s  Alt+B %s  Alt+R %s  Alt+Enter %s  Enter %s  Alt+Y %s",
			descStyle.Render("Quit"),
			descStyle.Render("Sessions"),
			descStyle.Render("New"),
			descStyle.Render("GitHub"),
			descStyle.Render("Attach"),
			descStyle.Render("Search"),
			descStyle.Render("Backup"),
			descStyle.Render("Restore"),
			descStyle.Render("New Line"),
			descStyle.Render("Send"),
			descStyle.Render("Copy"),
		))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		a.viewport.View(),
		a.textarea.View(),
		statusBar,
	)
}

func (a AppView) appTitle() string {
	if a.settings != nil && a.settings.AppTitle != "" {
		return a.settings.AppTitle
	}
	return "GSATUI"
}

func (a AppView) getSessionList() []storage.Session {
	if a.sessionFilterMode && len(a.filteredSessionList) > 0 {
		return a.filteredSessionList
	}
	return a.sessionList
}
