package github

import (
	"context"
	"fmt"
	"sync"

	"gsatui/model"
)

// ProgressFunc receives a human-readable progress line for each tool
// invocation, appended to the conversation as it happens. May be nil.
type ProgressFunc func(text string)

// Executor runs tool calls issued by the model. Failures never propagate as
// errors; they are reported inside the ToolResult so the conversation loop
// can feed them back to the model.
type Executor struct {
	client        *Client
	commitMessage string
}

// NewExecutor creates an executor. commitMessage is the fallback used when
// the model omits one.
func NewExecutor(client *Client, commitMessage string) *Executor {
	return &Executor{
		client:        client,
		commitMessage: commitMessage,
	}
}

// Execute runs a single tool call and returns its result. The progress line
// is emitted before the remote call starts; failures emit a second line and
// land in ToolResult.Err.
func (e *Executor) Execute(ctx context.Context, call model.ToolCall, progress ProgressFunc) model.ToolResult {
	report(progress, progressLine(call))
	payload, err := e.run(ctx, call)
	if err != nil {
		report(progress, fmt.Sprintf("Error during `%s`: %s", call.Name, err.Error()))
		return model.ToolResult{Name: call.Name, Err: err.Error()}
	}
	return model.ToolResult{Name: call.Name, Payload: payload}
}

// ExecuteBatch runs all tool calls concurrently and returns results in the
// same order as the calls. Progress lines are emitted for every call before
// any remote request begins so the conversation shows the full batch up
// front.
func (e *Executor) ExecuteBatch(ctx context.Context, calls []model.ToolCall, progress ProgressFunc) []model.ToolResult {
	for _, call := range calls {
		report(progress, progressLine(call))
	}

	results := make([]model.ToolResult, len(calls))

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call model.ToolCall) {
			defer wg.Done()
			payload, err := e.run(ctx, call)
			if err != nil {
				report(progress, fmt.Sprintf("Error during `%s`: %s", call.Name, err.Error()))
				results[i] = model.ToolResult{Name: call.Name, Err: err.Error()}
				return
			}
			results[i] = model.ToolResult{Name: call.Name, Payload: payload}
		}(i, call)
	}
	wg.Wait()

	return results
}

func (e *Executor) run(ctx context.Context, call model.ToolCall) (any, error) {
	switch call.Name {
	case ToolGetFileContent:
		content, err := e.client.GetFileContent(ctx,
			stringArg(call.Arguments, "repo"), stringArg(call.Arguments, "path"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"content": content}, nil

	case ToolListDirectory:
		entries, err := e.client.ListDirectory(ctx,
			stringArg(call.Arguments, "repo"), stringArg(call.Arguments, "path"))
		if err != nil {
			return nil, err
		}
		return map[string]any{"contents": entries}, nil

	case ToolWriteFile:
		message := stringArg(call.Arguments, "commit_message")
		if message == "" {
			message = e.commitMessage
		}
		writtenPath, err := e.client.WriteFile(ctx,
			stringArg(call.Arguments, "repo"), stringArg(call.Arguments, "path"),
			stringArg(call.Arguments, "content"), message)
		if err != nil {
			return nil, err
		}
		return map[string]any{"success": true, "path": writtenPath}, nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", call.Name)
	}
}

func progressLine(call model.ToolCall) string {
	repo := stringArg(call.Arguments, "repo")
	path := stringArg(call.Arguments, "path")

	switch call.Name {
	case ToolGetFileContent:
		return fmt.Sprintf("Reading file `%s` from `%s`...", path, repo)
	case ToolListDirectory:
		if path == "" {
			path = "./"
		}
		return fmt.Sprintf("Listing contents of `%s` in `%s`...", path, repo)
	case ToolWriteFile:
		return fmt.Sprintf("Writing to file `%s` in `%s`...", path, repo)
	default:
		return fmt.Sprintf("Running `%s`...", call.Name)
	}
}

func report(progress ProgressFunc, text string) {
	if progress != nil {
		progress(text)
	}
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
