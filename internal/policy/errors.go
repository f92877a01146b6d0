package policy

import (
	"errors"
	"fmt"

	"tg-groupwarden/internal/platform"
)

// ErrRateLimited marks a command dropped by the per-user rate gate.
// Callers swallow it silently; it exists so tests can observe the drop.
var ErrRateLimited = errors.New("rate limited")

// AuthorizationDeniedError means the actor lacks the authority a
// command requires.
type AuthorizationDeniedError struct {
	Required platform.Role
	Actual   platform.Role
}

func (e *AuthorizationDeniedError) Error() string {
	return fmt.Sprintf("requires %s authority, actor is %s", e.Required, e.Actual)
}

// TargetUnresolvableError means no target user could be determined from
// a command's reply, mention or argument.
type TargetUnresolvableError struct {
	Hint string
}

func (e *TargetUnresolvableError) Error() string {
	if e.Hint == "" {
		return "no target user: reply to a message or pass a username or id"
	}
	return fmt.Sprintf("cannot resolve target %q", e.Hint)
}

// InvalidTimeExpressionError means a duration argument did not match the
// <number><unit> grammar.
type InvalidTimeExpressionError struct {
	Input string
}

func (e *InvalidTimeExpressionError) Error() string {
	return fmt.Sprintf("invalid time %q: use <number><m|h|d|w>, e.g. 3d", e.Input)
}

// StoreError wraps a ledger failure with the operation that hit it
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Cause: err}
}
