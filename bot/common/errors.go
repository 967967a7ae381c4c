package common

import (
	"errors"
	"fmt"
)

// Sentinel categories for interaction failures. Handlers wrap causes with
// these so the dispatch layer can pick the right user-facing message.
var (
	// ErrValidation marks rejected user input. The wrapped message is safe
	// to show to the user.
	ErrValidation = errors.New("validation error")

	// ErrPermission marks a permission check that failed before any mutation.
	ErrPermission = errors.New("permission denied")

	// ErrPlatform marks a Discord API failure. Logged; user gets a generic
	// retry message, secondary notifications fail silently.
	ErrPlatform = errors.New("platform error")

	// ErrTimeout marks an expired interactive session. Normal termination,
	// never logged above info.
	ErrTimeout = errors.New("session timed out")
)

// BotError pairs an internal error with the locale key of the message shown
// to the user.
type BotError struct {
	MessageKey string // locale key for the user-facing text
	Err        error
}

func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.MessageKey, e.Err)
	}
	return e.MessageKey
}

func (e *BotError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a BotError for rejected input
func NewValidationError(messageKey string) *BotError {
	return &BotError{MessageKey: messageKey, Err: ErrValidation}
}

// NewPermissionError creates a BotError for a failed permission check
func NewPermissionError() *BotError {
	return &BotError{MessageKey: "error.no_permission", Err: ErrPermission}
}

// NewStorageError creates a BotError wrapping a storage failure
func NewStorageError(err error) *BotError {
	return &BotError{MessageKey: "error.storage", Err: err}
}

// NewPlatformError creates a BotError wrapping a Discord API failure
func NewPlatformError(err error) *BotError {
	return &BotError{MessageKey: "error.platform", Err: fmt.Errorf("%w: %v", ErrPlatform, err)}
}

// NewTimeoutError creates a BotError for an expired interactive prompt
func NewTimeoutError(messageKey string) *BotError {
	return &BotError{MessageKey: messageKey, Err: ErrTimeout}
}
