package model

// ToolCall is a provider-agnostic request, emitted by a model response, to
// invoke one of the fixed repository tools.
type ToolCall struct {
	Name      string
	Arguments map[string]any
}

// ToolResult is the outcome of one ToolCall. Exactly one result is produced
// per call; Err is set when the invocation failed. A failed tool call is not
// fatal to a send: the result is fed back to the backend as a normal turn.
type ToolResult struct {
	Name    string `json:"name"`
	Payload any    `json:"payload,omitempty"`
	Err     string `json:"error,omitempty"`
}
