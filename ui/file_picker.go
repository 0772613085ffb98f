package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gsatui/model"
)

func (a AppView) renderFilePicker() string {
	heading := "Attach a file"
	if a.pickerPurpose == pickBackupRestore {
		heading = "Restore a backup"
	}
	title := TitleStyle.Render(heading)
	footer := FormatFooter(
		"j/k", "Navigate",
		"h/l", "Back/Forward",
		"Enter", "Select",
		"Esc", "Cancel",
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		a.filePicker.View(),
		"",
		footer,
	)
}

// updateFilePicker routes every message to the picker while the modal is
// open. A selection loads the file and stages it for the next send.
func (a AppView) updateFilePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil
	case tea.KeyMsg:
		if msg.String() == "esc" {
			a.showFilePicker = false
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.filePicker, cmd = a.filePicker.Update(msg)

	if didSelect, path := a.filePicker.DidSelectFile(msg); didSelect {
		a.showFilePicker = false

		if a.pickerPurpose == pickBackupRestore {
			a.restoreBackup(path)
			return a, cmd
		}

		attachment, err := model.LoadAttachment(path)
		if err != nil {
			a.lastError = err.Error()
		} else if verr := attachment.Validate(); verr != nil {
			a.lastError = verr.Error()
		} else {
			a.pendingAttachment = attachment
			a.lastError = ""
		}
	}

	return a, cmd
}
