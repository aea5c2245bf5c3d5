package internal

import (
	"encoding/json"
	"errors"
)

var (
	ErrNoState      = errors.New("state not initialized")
	ErrRuleNotFound = errors.New("rule not found")
)

// Hook is a response-interception capability. Implementations must never
// panic on malformed input; failures are reported as descriptive text.
type Hook interface {
	ID() string

	// InjectionPrompt returns the system-prompt fragment advertising this
	// hook's commands. Empty means nothing to inject.
	InjectionPrompt() string

	// OnCycleStart runs once per inference cycle before generation.
	OnCycleStart()

	// HandleTextCommand scans free-form model output for embedded commands
	// and returns the first non-empty result, or "" when none were found.
	HandleTextCommand(output string) string

	// ExecuteCommand runs a single parsed command document.
	ExecuteCommand(cmd json.RawMessage) string

	// CheckStreaming inspects partially accumulated output. A non-empty
	// return is an advisory warning; it never mutates the stream.
	CheckStreaming(partial string) string

	// Finalize may veto or replace the complete response text.
	Finalize(text string) string
}
