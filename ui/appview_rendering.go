package ui

import (
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"

	"gsatui/model"
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	session, ok := a.store.Get(a.store.ActiveID())
	if !ok || len(session.Messages) == 0 {
		a.viewport.SetContent("No messages yet. Start chatting!")
		return
	}

	var content strings.Builder

	for i, msg := range session.Messages {
		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		switch msg.Role {
		case model.RoleUser:
			content.WriteString(timestamp + " " + UserStyle.Render("You:") + "\n")
			content.WriteString(msg.Content)

		case model.RoleTool:
			// Tool progress annotations render as a single dim line, no label
			content.WriteString(timestamp + " " + ToolStyle.Render(msg.Content))

		case model.RoleModel:
			content.WriteString(timestamp + " " + AssistantStyle.Render("Assistant:") + "\n")
			if msg.Content == "" {
				if a.sending && i == len(session.Messages)-1 {
					content.WriteString(a.loadingSpinner.View() + DimStyle.Render(" thinking..."))
				}
			} else {
				content.WriteString(a.renderMarkdown(msg.Content))
			}
		}

		if i < len(session.Messages)-1 {
			content.WriteString("\n\n")
		}
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// renderMarkdown renders assistant output with go-term-markdown at the
// current viewport width.
func (a *AppView) renderMarkdown(content string) string {
	width := a.width - 4
	if width < 20 {
		width = 20
	}
	rendered := markdown.Render(content, width, 0)
	return strings.TrimRight(string(rendered), "\n")
}
