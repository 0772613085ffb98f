package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"gsatui/storage"
)

func (a AppView) renderSessionManager() string {
	modalWidth := a.width - 10
	if modalWidth > 110 {
		modalWidth = 110
	}
	modalHeight := a.height - 6

	// Show delete confirmation if set
	if a.confirmDeleteSession != nil {
		warningText := lipgloss.NewStyle().Foreground(dangerColor).Render("This action cannot be undone.")
		message := fmt.Sprintf("Delete session?\n\n\"%s\"\n\n%s\n\n%s",
			a.confirmDeleteSession.Title,
			warningText,
			FormatFooter("y", "Delete", "n/Esc", "Cancel"))
		return lipgloss.NewStyle().
			Width(a.width).
			Height(a.height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(message)
	}

	// Title section (no borders)
	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Session Manager")

	// Header: show filter input or count
	var header string
	if a.sessionFilterMode {
		header = a.sessionFilterInput.View()
	} else {
		displayList := a.getSessionList()
		if len(displayList) == len(a.sessionList) {
			header = fmt.Sprintf("%d sessions", len(a.sessionList))
		} else {
			header = fmt.Sprintf("%d of %d sessions", len(displayList), len(a.sessionList))
		}
	}

	headerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(header)

	displayList := a.getSessionList()

	var sessionLines []string
	maxLines := modalHeight - 8

	if len(displayList) == 0 {
		emptyMsg := "No sessions yet. Start chatting to create one!"
		if a.sessionFilterMode {
			emptyMsg = "No matches found"
		}
		sessionLines = append(sessionLines, lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true).
			Align(lipgloss.Center).
			Width(modalWidth).
			Render(emptyMsg))
	} else {
		startIdx := 0
		endIdx := len(displayList)

		// Scroll if needed
		if len(displayList) > maxLines {
			if a.selectedSessionIdx < maxLines/2 {
				endIdx = maxLines
			} else if a.selectedSessionIdx >= len(displayList)-maxLines/2 {
				startIdx = len(displayList) - maxLines
			} else {
				startIdx = a.selectedSessionIdx - maxLines/2
				endIdx = startIdx + maxLines
			}
		}

		currentSessionID := a.store.ActiveID()

		for i := startIdx; i < endIdx && i < len(displayList); i++ {
			session := displayList[i]

			indicator := "  "
			if i == a.selectedSessionIdx {
				indicator = "▶ "
			}

			maxNameWidth := modalWidth - 44
			if maxNameWidth < 10 {
				maxNameWidth = 10
			}

			var nameDisplay string
			if a.sessionRenameMode && i == a.selectedSessionIdx {
				nameDisplay = lipgloss.NewStyle().
					Foreground(accentColor).
					Bold(true).
					Render(a.sessionRenameInput.View())
			} else {
				nameDisplay = runewidth.Truncate(session.Title, maxNameWidth, "...")
			}

			msgCount := fmt.Sprintf("%d msgs", len(session.Messages))
			if len(session.Messages) == 1 {
				msgCount = "1 msg"
			}

			modelName := runewidth.Truncate(session.Model, 16, "")
			timeAgo := formatTimeAgo(session.UpdatedAt)

			nameStyled := nameDisplay
			if i == a.selectedSessionIdx {
				nameStyled = lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(nameDisplay)
			} else if session.ID == currentSessionID {
				nameStyled = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(nameDisplay)
			}

			leftSide := indicator + nameStyled
			rightSide := fmt.Sprintf("%s  %16s  %8s", msgCount, modelName, timeAgo)

			// Spacing from visual widths, not the ANSI-styled strings
			leftVisualWidth := runewidth.StringWidth(indicator) + runewidth.StringWidth(nameDisplay)
			spacing := modalWidth - 4 - leftVisualWidth - runewidth.StringWidth(rightSide)
			if session.ID == currentSessionID && !a.sessionRenameMode {
				spacing -= 10 // " (current)"
			}
			if spacing < 2 {
				spacing = 2
			}

			if session.ID == currentSessionID && !a.sessionRenameMode {
				markerColor := accentColor
				if i == a.selectedSessionIdx {
					markerColor = successColor
				}
				leftSide += " " + lipgloss.NewStyle().Foreground(markerColor).Render("(current)")
			}

			rightStyled := rightSide
			if i == a.selectedSessionIdx {
				rightStyled = lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(rightSide)
			} else if session.ID == currentSessionID {
				rightStyled = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(rightSide)
			}

			line := fmt.Sprintf("  %s%s%s  ", leftSide, strings.Repeat(" ", spacing), rightStyled)
			sessionLines = append(sessionLines, lipgloss.NewStyle().Width(modalWidth).Render(line))
		}
	}

	emptyLine := strings.Repeat(" ", modalWidth)
	sessionLines = append([]string{emptyLine}, sessionLines...)
	sessionLines = append(sessionLines, emptyLine)

	var footerText string
	if a.sessionRenameMode {
		footerText = FormatFooter("Enter", "Save", "Esc", "Cancel")
	} else if a.sessionFilterMode {
		footerText = FormatFooter("Type", "to filter", "Enter", "Load", "Esc", "Cancel")
	} else {
		footerText = FormatFooter("/", "Filter", "j/k", "Navigate", "Enter", "Load", "n", "New", "r", "Rename", "d", "Delete", "e", "Export", "Esc", "Exit")
	}
	footerSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footerText)

	sections := []string{titleSection, headerSection}
	sections = append(sections, sessionLines...)
	sections = append(sections, footerSection)

	return lipgloss.NewStyle().
		Width(a.width).
		Height(a.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(sections, "\n"))
}

func (a AppView) handleSessionManagerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Delete confirmation has its own tiny keymap
	if a.confirmDeleteSession != nil {
		switch msg.String() {
		case "y", "enter":
			if err := a.store.Delete(a.confirmDeleteSession.ID); err != nil {
				a.lastError = err.Error()
			}
			a.confirmDeleteSession = nil
			a.reloadSessionList()
			a.updateViewportContent(true)
		case "n", "esc":
			a.confirmDeleteSession = nil
		}
		return a, nil
	}

	if a.sessionRenameMode {
		switch msg.String() {
		case "enter":
			list := a.getSessionList()
			if a.selectedSessionIdx < len(list) {
				title := strings.TrimSpace(a.sessionRenameInput.Value())
				if title != "" {
					if err := a.store.Rename(list[a.selectedSessionIdx].ID, title); err != nil {
						a.lastError = err.Error()
					}
				}
			}
			a.sessionRenameMode = false
			a.sessionRenameInput.Blur()
			a.reloadSessionList()
			return a, nil
		case "esc":
			a.sessionRenameMode = false
			a.sessionRenameInput.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.sessionRenameInput, cmd = a.sessionRenameInput.Update(msg)
		return a, cmd
	}

	if a.sessionFilterMode {
		switch msg.String() {
		case "esc":
			a.sessionFilterMode = false
			a.sessionFilterInput.Blur()
			a.sessionFilterInput.SetValue("")
			a.filteredSessionList = nil
			return a, nil
		case "enter":
			a.loadSelectedSession()
			return a, nil
		case "down", "alt+j":
			a.moveSessionSelection(1)
			return a, nil
		case "up", "alt+k":
			a.moveSessionSelection(-1)
			return a, nil
		}

		var cmd tea.Cmd
		a.sessionFilterInput, cmd = a.sessionFilterInput.Update(msg)
		a.applySessionFilter()
		return a, cmd
	}

	switch msg.String() {
	case "esc", "alt+s", "q":
		a.showSessionManager = false
	case "j", "down":
		a.moveSessionSelection(1)
	case "k", "up":
		a.moveSessionSelection(-1)
	case "enter":
		a.loadSelectedSession()
	case "/":
		a.sessionFilterMode = true
		a.sessionFilterInput.Focus()
	case "n":
		a.newSession()
		a.reloadSessionList()
	case "r":
		list := a.getSessionList()
		if a.selectedSessionIdx < len(list) {
			a.sessionRenameMode = true
			a.sessionRenameInput.SetValue(list[a.selectedSessionIdx].Title)
			a.sessionRenameInput.CursorEnd()
			a.sessionRenameInput.Focus()
		}
	case "d":
		list := a.getSessionList()
		if a.selectedSessionIdx < len(list) {
			session := list[a.selectedSessionIdx]
			a.confirmDeleteSession = &session
		}
	case "e":
		list := a.getSessionList()
		if a.selectedSessionIdx < len(list) {
			a.exportSelectedSession(list[a.selectedSessionIdx])
		}
	}
	return a, nil
}

// exportSelectedSession writes one session to ~/Downloads and closes the
// manager so the status bar can report the path.
func (a *AppView) exportSelectedSession(session storage.Session) {
	path := storage.GenerateExportPath(session.Title)
	if err := a.store.ExportSession(session.ID, path); err != nil {
		a.lastError = err.Error()
	} else {
		a.lastError = ""
		a.statusMessage = "Session exported to " + path
	}
	a.showSessionManager = false
}

func (a *AppView) applySessionFilter() {
	filterValue := a.sessionFilterInput.Value()
	if filterValue == "" {
		a.filteredSessionList = nil
		return
	}

	targets := make([]string, len(a.sessionList))
	for i, s := range a.sessionList {
		targets[i] = s.Title
	}

	matches := fuzzy.Find(filterValue, targets)
	a.filteredSessionList = make([]storage.Session, len(matches))
	for i, match := range matches {
		a.filteredSessionList[i] = a.sessionList[match.Index]
	}

	if list := a.getSessionList(); a.selectedSessionIdx >= len(list) && len(list) > 0 {
		a.selectedSessionIdx = len(list) - 1
	}
}

func (a *AppView) moveSessionSelection(delta int) {
	list := a.getSessionList()
	if len(list) == 0 {
		return
	}
	a.selectedSessionIdx += delta
	if a.selectedSessionIdx < 0 {
		a.selectedSessionIdx = 0
	}
	if a.selectedSessionIdx >= len(list) {
		a.selectedSessionIdx = len(list) - 1
	}
}

func (a *AppView) loadSelectedSession() {
	list := a.getSessionList()
	if a.selectedSessionIdx >= len(list) {
		return
	}
	if err := a.store.SetActive(list[a.selectedSessionIdx].ID); err != nil {
		a.lastError = err.Error()
		return
	}
	a.showSessionManager = false
	a.sessionFilterMode = false
	a.sessionFilterInput.SetValue("")
	a.filteredSessionList = nil
	a.updateViewportContent(true)
}

func (a *AppView) reloadSessionList() {
	a.sessionList = a.store.List()
	a.applySessionFilter()
	if a.selectedSessionIdx >= len(a.sessionList) && len(a.sessionList) > 0 {
		a.selectedSessionIdx = len(a.sessionList) - 1
	}
}

// formatTimeAgo formats a time as a relative string (e.g., "2h ago", "3d ago")
func formatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		return fmt.Sprintf("%dm ago", int(duration.Minutes()))
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(duration.Hours()))
	} else if duration < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(duration.Hours()/24))
	} else if duration < 30*24*time.Hour {
		return fmt.Sprintf("%dw ago", int(duration.Hours()/24/7))
	}
	return fmt.Sprintf("%dmo ago", int(duration.Hours()/24/30))
}
