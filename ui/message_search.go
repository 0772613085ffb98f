package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gsatui/model"
)

func (a AppView) renderMessageSearch() string {
	modalWidth := a.width - 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	title := TitleStyle.Render("🔍 Search All Sessions")
	searchView := a.searchInput.View()

	resultsView := ""
	if len(a.searchResults) == 0 {
		if a.searchInput.Value() == "" {
			resultsView = DimStyle.Render("Type to search across all sessions...")
		} else {
			resultsView = DimStyle.Render("No matches found")
		}
	} else {
		// Title, input, count, footer and padding eat about 12 lines; each
		// result takes up to 3 with its blank separator
		maxVisible := (a.height - 12) / 3
		if maxVisible < 1 {
			maxVisible = 1
		}

		startIdx := 0
		if a.searchSelectedIdx >= maxVisible {
			startIdx = a.searchSelectedIdx - maxVisible + 1
		}
		endIdx := startIdx + maxVisible
		if endIdx > len(a.searchResults) {
			endIdx = len(a.searchResults)
		}

		resultsView = fmt.Sprintf("Found %d matches:\n\n", len(a.searchResults))
		if startIdx > 0 {
			resultsView += DimStyle.Render(fmt.Sprintf("↑ %d more above", startIdx)) + "\n\n"
		}

		for i := startIdx; i < endIdx; i++ {
			match := a.searchResults[i]

			roleStyle := UserStyle
			if match.Role == model.RoleModel {
				roleStyle = AssistantStyle
			}

			matchText := fmt.Sprintf("%s [%s] %s\n  %s",
				roleStyle.Render(match.SessionTitle),
				match.Timestamp.Format("Jan 2, 3:04 PM"),
				DimStyle.Render(string(match.Role)),
				match.Preview,
			)

			if i == a.searchSelectedIdx {
				matchText = SelectedStyle.Render("> " + matchText)
			} else {
				matchText = "  " + matchText
			}
			resultsView += matchText + "\n\n"
		}

		if endIdx < len(a.searchResults) {
			resultsView += DimStyle.Render(fmt.Sprintf("↓ %d more below", len(a.searchResults)-endIdx))
		}
	}

	footer := FormatFooter("Type", "to search", "↑/↓", "Navigate", "Enter", "Open Session", "Esc", "Close")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		searchView,
		"",
		resultsView,
		"",
		footer,
	)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}

func (a AppView) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.closeSearch()
		return a, nil

	case "enter":
		if a.searchSelectedIdx < len(a.searchResults) {
			match := a.searchResults[a.searchSelectedIdx]
			if err := a.store.SetActive(match.SessionID); err != nil {
				a.lastError = err.Error()
				return a, nil
			}
			a.closeSearch()
			a.updateViewportContent(true)
		}
		return a, nil

	case "down", "alt+j":
		if a.searchSelectedIdx < len(a.searchResults)-1 {
			a.searchSelectedIdx++
		}
		return a, nil

	case "up", "alt+k":
		if a.searchSelectedIdx > 0 {
			a.searchSelectedIdx--
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	a.searchResults = a.store.SearchAll(a.searchInput.Value())
	a.searchSelectedIdx = 0
	return a, cmd
}

func (a *AppView) openSearch() {
	a.showSearch = true
	a.searchInput.SetValue("")
	a.searchInput.Focus()
	a.searchResults = nil
	a.searchSelectedIdx = 0
}

func (a *AppView) closeSearch() {
	a.showSearch = false
	a.searchInput.Blur()
	a.searchResults = nil
}
