package model

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a send is attempted while another send is already
// in flight for the same session. Sends are rejected outright, not queued.
var ErrBusy = errors.New("a send is already in flight for this session")

// ValidationError reports a problem detected before any network call:
// incomplete provider configuration, an unsupported capability, or a bad
// attachment.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ProviderError reports a transport failure or non-success response from a
// backend. Status is zero when no HTTP status was available.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("API error: %d - %s", e.Status, e.Message)
	}
	return e.Message
}

// StorageError reports a persistence failure. Callers degrade gracefully
// (log and continue) rather than abort the conversation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

// LoopLimitError reports that a single user send exceeded the maximum number
// of provider turns without the backend producing a final answer.
type LoopLimitError struct {
	Turns int
}

func (e *LoopLimitError) Error() string {
	return fmt.Sprintf("tool-call loop exceeded %d provider turns without completing", e.Turns)
}
