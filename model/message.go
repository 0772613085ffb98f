package model

import "time"

// Role identifies who produced a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
	RoleTool  Role = "tool" // tool progress annotations, never re-sent to a backend
)

// Message represents a single entry in a conversation.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatHistory filters a message sequence down to what a backend may see:
// user and model turns only. Tool-role messages are UI annotations.
func ChatHistory(messages []Message) []Message {
	history := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == RoleUser || msg.Role == RoleModel {
			history = append(history, msg)
		}
	}
	return history
}
