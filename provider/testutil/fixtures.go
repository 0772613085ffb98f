package testutil

import (
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"gsatui/model"
)

// TestMessages returns a sample conversation for testing
func TestMessages() []model.Message {
	return []model.Message{
		{
			Role:      model.RoleUser,
			Content:   "Hello, how are you?",
			Timestamp: time.Now(),
		},
		{
			Role:      model.RoleModel,
			Content:   "I'm doing well, thank you!",
			Timestamp: time.Now(),
		},
		{
			Role:      model.RoleUser,
			Content:   "Can you help me with a task?",
			Timestamp: time.Now(),
		},
	}
}

// TestTools returns sample tool definitions for testing
func TestTools() []mcptypes.Tool {
	return []mcptypes.Tool{
		{
			Name:        "get_file_content",
			Description: "Read the content of a file from the repository",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Path of the file to read",
					},
				},
				Required: []string{"path"},
			},
		},
		{
			Name:        "list_directory",
			Description: "List the contents of a directory in the repository",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Directory path, empty for the repository root",
					},
				},
			},
		},
	}
}

// TextInput returns an Input carrying only text
func TextInput(text string) model.Input {
	return model.Input{Text: text}
}

// ToolResultInput returns an Input carrying tool results
func ToolResultInput(results ...model.ToolResult) model.Input {
	return model.Input{ToolResults: results}
}
