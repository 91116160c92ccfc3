// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorType represents different types of errors for handling strategies
type ErrorType int

const (
	ErrorTypeUnknown     ErrorType = iota
	ErrorTypeTransient             // Connection drops, refused connections
	ErrorTypePermanent             // Bad credentials, schema errors
	ErrorTypeTimeout               // Request timeouts
	ErrorTypeContention            // Serialization failures, deadlocks, busy files
	ErrorTypeCancelled             // Caller cancelled the operation
	ErrorTypeInvalidInput          // Bad input data
)

func (et ErrorType) String() string {
	switch et {
	case ErrorTypeUnknown:
		return "Unknown"
	case ErrorTypeTransient:
		return "Transient"
	case ErrorTypePermanent:
		return "Permanent"
	case ErrorTypeTimeout:
		return "Timeout"
	case ErrorTypeContention:
		return "Contention"
	case ErrorTypeCancelled:
		return "Cancelled"
	case ErrorTypeInvalidInput:
		return "InvalidInput"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(et))
	}
}

// ClassifiedError wraps an error with type information
type ClassifiedError struct {
	Original  error
	Type      ErrorType
	Message   string
	Retryable bool
}

func (e *ClassifiedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Original == nil {
		return e.Type.String()
	}
	return e.Original.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Original
}

// IsRetryable returns whether this error should be retried
func (e *ClassifiedError) IsRetryable() bool {
	return e.Retryable
}

// Postgres SQLSTATE codes worth another attempt.
var retryableSQLStates = map[string]ErrorType{
	"40001": ErrorTypeContention, // serialization_failure
	"40P01": ErrorTypeContention, // deadlock_detected
	"55P03": ErrorTypeContention, // lock_not_available
	"53300": ErrorTypeTransient,  // too_many_connections
	"57P03": ErrorTypeTransient,  // cannot_connect_now
}

// ClassifyError categorizes an audit store or file system error.
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	classify := func(t ErrorType, retryable bool) *ClassifiedError {
		return &ClassifiedError{Original: err, Type: t, Message: fmt.Sprintf("%s error: %v", t, err), Retryable: retryable}
	}

	if errors.Is(err, context.Canceled) {
		return classify(ErrorTypeCancelled, false)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if t, ok := retryableSQLStates[pgErr.Code]; ok {
			return classify(t, true)
		}
		// Class 08: connection exception.
		if strings.HasPrefix(pgErr.Code, "08") {
			return classify(ErrorTypeTransient, true)
		}
		if strings.HasPrefix(pgErr.Code, "28") {
			return classify(ErrorTypePermanent, false)
		}
		if strings.HasPrefix(pgErr.Code, "22") || strings.HasPrefix(pgErr.Code, "23") {
			return classify(ErrorTypeInvalidInput, false)
		}
		return classify(ErrorTypePermanent, false)
	}

	if isTimeoutError(err) {
		return classify(ErrorTypeTimeout, true)
	}
	if isNetworkError(err) {
		return classify(ErrorTypeTransient, true)
	}
	if errors.Is(err, syscall.EBUSY) || errors.Is(err, syscall.EAGAIN) {
		return classify(ErrorTypeContention, true)
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "connection reset") || strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "broken pipe"):
		return classify(ErrorTypeTransient, true)
	case strings.Contains(errStr, "password authentication failed") || strings.Contains(errStr, "permission denied"):
		return classify(ErrorTypePermanent, false)
	}

	return classify(ErrorTypeUnknown, false)
}

// isNetworkError checks if an error is network-related
func isNetworkError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH)
}

// isTimeoutError checks if an error is timeout-related
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

// NewTransientError creates a new transient error
func NewTransientError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypeTransient,
		Message:   message,
		Retryable: true,
	}
}

// NewPermanentError creates a new permanent error
func NewPermanentError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypePermanent,
		Message:   message,
		Retryable: false,
	}
}
