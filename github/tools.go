package github

import (
	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// Tool names exposed to the model
const (
	ToolGetFileContent = "get_file_content"
	ToolListDirectory  = "list_directory"
	ToolWriteFile      = "write_file"
)

// Tools returns the fixed tool schema advertised to tool-capable backends
func Tools() []mcptypes.Tool {
	return []mcptypes.Tool{
		{
			Name:        ToolGetFileContent,
			Description: "Gets the content of a file from a specified GitHub repository.",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"repo": map[string]any{
						"type":        "string",
						"description": `The name of the GitHub repository (e.g., "my-project").`,
					},
					"path": map[string]any{
						"type":        "string",
						"description": `The full path to the file (e.g., "src/main.js").`,
					},
				},
				Required: []string{"repo", "path"},
			},
		},
		{
			Name:        ToolListDirectory,
			Description: "Lists the contents (files and directories) of a path in a GitHub repository.",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"repo": map[string]any{
						"type":        "string",
						"description": "The name of the GitHub repository.",
					},
					"path": map[string]any{
						"type":        "string",
						"description": `The path to the directory. Use "" or "/" for the root.`,
					},
				},
				Required: []string{"repo", "path"},
			},
		},
		{
			Name:        ToolWriteFile,
			Description: "Creates a new file or updates an existing file in a GitHub repository.",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"repo": map[string]any{
						"type":        "string",
						"description": "The name of the GitHub repository.",
					},
					"path": map[string]any{
						"type":        "string",
						"description": "The full path where the file should be saved.",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "The new content of the file.",
					},
					"commit_message": map[string]any{
						"type":        "string",
						"description": "A descriptive commit message.",
					},
				},
				Required: []string{"repo", "path", "content", "commit_message"},
			},
		},
	}
}
