package apperrors

import (
	"errors"
	"fmt"
)

// Kind error category reported to the operator
type Kind int

const (
	KindInput Kind = iota + 1
	KindPersistence
	KindConfig
)

// String returns the category name
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindPersistence:
		return "persistence"
	case KindConfig:
		return "config"
	}
	return "unknown"
}

// Sentinel causes matched with errors.Is
var (
	ErrMissingColumns     = errors.New("required columns are missing")
	ErrUnreadableEncoding = errors.New("input is not valid in the requested encoding")
	ErrEmptyInput         = errors.New("input has no header row")
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrFileLocked         = errors.New("output file is locked")
)

// Persistence hints
const (
	HintCloseFile        = "close the file if it is open in another application"
	HintCheckPermissions = "check write permissions"
)

// AppError run-level error with a category and an optional operator hint
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
	Hint    string `json:"hint,omitempty"`
}

// Error implements error
func (e *AppError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// Unwrap returns the cause for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithHint sets the operator hint
func (e *AppError) WithHint(hint string) *AppError {
	e.Hint = hint
	return e
}

// Retryable reports whether the same in-memory state may be persisted again
func (e *AppError) Retryable() bool {
	return e.Kind == KindPersistence
}

// NewInputError creates an error for an unusable input; the run aborts
func NewInputError(message string, err error) *AppError {
	return &AppError{Kind: KindInput, Message: message, Err: err}
}

// NewPersistenceError creates an error for a failed write
func NewPersistenceError(message string, err error) *AppError {
	return &AppError{
		Kind:    KindPersistence,
		Message: message,
		Err:     err,
		Hint:    HintCheckPermissions,
	}
}

// NewConfigError creates an error for invalid settings or rules
func NewConfigError(message string, err error) *AppError {
	return &AppError{Kind: KindConfig, Message: message, Err: err}
}

// KindOf returns the category of err, 0 when err is not an AppError
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

// IsRetryable reports whether err is a persistence error
func IsRetryable(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Retryable()
}
