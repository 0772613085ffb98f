package storage

import (
	"strings"
	"time"

	"gsatui/model"
)

// MessageMatch represents a search result within a session
type MessageMatch struct {
	SessionID    string
	SessionTitle string
	MessageIndex int
	Role         model.Role
	Preview      string
	Timestamp    time.Time
}

// SearchMessages finds messages in one session containing the query,
// case-insensitively. Tool progress messages are skipped.
func SearchMessages(session Session, query string) []MessageMatch {
	if query == "" {
		return []MessageMatch{}
	}

	queryLower := strings.ToLower(query)
	var matches []MessageMatch

	for i, msg := range session.Messages {
		if msg.Role == model.RoleTool {
			continue
		}

		if strings.Contains(strings.ToLower(msg.Content), queryLower) {
			preview := msg.Content
			if runes := []rune(preview); len(runes) > 100 {
				preview = string(runes[:100]) + "..."
			}

			matches = append(matches, MessageMatch{
				SessionID:    session.ID,
				SessionTitle: session.Title,
				MessageIndex: i,
				Role:         msg.Role,
				Preview:      preview,
				Timestamp:    msg.Timestamp,
			})
		}
	}

	return matches
}

// SearchAll searches every session in the store, newest first
func (st *Store) SearchAll(query string) []MessageMatch {
	var matches []MessageMatch
	for _, session := range st.List() {
		matches = append(matches, SearchMessages(session, query)...)
	}
	return matches
}
