package ui

// ChatUpdatedMsg is posted into the bubbletea program whenever the
// orchestrator mutates a session: a streamed chunk landed, a tool progress
// line was inserted, a title arrived. The UI re-reads the store and
// re-renders.
type ChatUpdatedMsg struct {
	SessionID string
}

// sendFinishedMsg carries the terminal result of one orchestrator send.
type sendFinishedMsg struct {
	sessionID string
	err       error
}
