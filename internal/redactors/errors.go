// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"errors"
	"fmt"
	"time"

	"cv-sanitizer/internal/detector"
)

// Input errors reported by redaction and review operations. Callers compare
// with errors.Is; the values returned are wrapped in *RedactionError.
var (
	ErrNoText             = errors.New("no text loaded")
	ErrNoMatches          = errors.New("no PII matches to redact")
	ErrOverlappingMatches = errors.New("matches overlap")
	ErrOutOfBounds        = errors.New("span outside document")
	ErrInvalidEditID      = errors.New("invalid match id")
	ErrInvalidAction      = errors.New("invalid edit action")
	ErrTextMismatch       = errors.New("text does not match document span")
	ErrUnknownCategory    = detector.ErrUnknownCategory
)

// RedactionErrorType defines the type of redaction error
type RedactionErrorType int

const (
	// ErrorInput indicates a caller supplied invalid text, matches or edits
	ErrorInput RedactionErrorType = iota

	// ErrorValidation indicates a match list failed validation
	ErrorValidation

	// ErrorFileSystem indicates a file system operation failure
	ErrorFileSystem

	// ErrorSerialization indicates an output document could not be encoded
	ErrorSerialization
)

// String returns the string representation of the error type
func (ret RedactionErrorType) String() string {
	switch ret {
	case ErrorInput:
		return "input"
	case ErrorValidation:
		return "validation"
	case ErrorFileSystem:
		return "file_system"
	case ErrorSerialization:
		return "serialization"
	default:
		return "unknown"
	}
}

// RedactionError represents an error that occurred during review or redaction
type RedactionError struct {
	// Type is the type of error
	Type RedactionErrorType

	// Message is the error message
	Message string

	// Component is the component that generated the error
	Component string

	// Recoverable indicates whether the caller can correct the input and retry
	Recoverable bool

	// Timestamp is when the error occurred
	Timestamp time.Time

	// Cause is the underlying error that caused this error
	Cause error
}

// Error implements the error interface
func (re *RedactionError) Error() string {
	if re.Cause == nil {
		return fmt.Sprintf("[%s] %s (component: %s)", re.Type, re.Message, re.Component)
	}
	return fmt.Sprintf("[%s] %s (component: %s): %v", re.Type, re.Message, re.Component, re.Cause)
}

// Unwrap returns the underlying error for error unwrapping
func (re *RedactionError) Unwrap() error {
	return re.Cause
}

// Is reports whether target is a *RedactionError of the same type.
func (re *RedactionError) Is(target error) bool {
	t, ok := target.(*RedactionError)
	return ok && t.Type == re.Type
}

// NewRedactionError creates a new RedactionError
func NewRedactionError(errorType RedactionErrorType, message, component string, cause error) *RedactionError {
	return &RedactionError{
		Type:        errorType,
		Message:     message,
		Component:   component,
		Recoverable: isRecoverable(errorType),
		Timestamp:   time.Now(),
		Cause:       cause,
	}
}

func inputError(component string, cause error, format string, args ...any) *RedactionError {
	return NewRedactionError(ErrorInput, fmt.Sprintf(format, args...), component, cause)
}

// isRecoverable determines if an error type is recoverable
func isRecoverable(errorType RedactionErrorType) bool {
	switch errorType {
	case ErrorInput, ErrorValidation:
		return true
	case ErrorFileSystem:
		return true // can retry with another output directory
	default:
		return false
	}
}
