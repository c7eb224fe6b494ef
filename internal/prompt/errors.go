package prompt

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPromptFunction is returned when a script defines no left_prompt.
	ErrNoPromptFunction = errors.New("script defines no left_prompt function")

	// ErrClosed is returned when using a closed provider.
	ErrClosed = errors.New("prompt provider closed")
)

// ScriptError is a failure loading or running a prompt script.
type ScriptError struct {
	// Script is the file name or chunk name.
	Script string
	// Func is the Lua function that failed, empty while loading.
	Func string
	Err  error
}

func (e *ScriptError) Error() string {
	if e.Func == "" {
		return fmt.Sprintf("prompt script %s: %v", e.Script, e.Err)
	}
	return fmt.Sprintf("prompt script %s: %s: %v", e.Script, e.Func, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
