// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// fastRetry keeps the waits short enough for unit tests.
func fastRetry(retries int) RetryConfig {
	return RetryConfig{MaxRetries: retries, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond, Multiplier: 2}
}

// failing returns an operation that fails with errs in order and then succeeds.
func failing(calls *int, errs ...error) func(context.Context) error {
	return func(context.Context) error {
		*calls++
		if *calls <= len(errs) {
			return errs[*calls-1]
		}
		return nil
	}
}

func TestRetryWithBackoff(t *testing.T) {
	deadlock := &pgconn.PgError{Code: "40P01"}
	refused := &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}
	badPassword := &pgconn.PgError{Code: "28P01"}

	tests := []struct {
		name      string
		retries   int
		errs      []error
		wantCalls int
		wantErr   error
		giveUp    bool
	}{
		{name: "first attempt", retries: 3, wantCalls: 1},
		{name: "deadlock then success", retries: 3, errs: []error{deadlock, deadlock}, wantCalls: 3},
		{name: "refused then success", retries: 1, errs: []error{refused}, wantCalls: 2},
		{name: "permanent stops at once", retries: 5, errs: []error{badPassword}, wantCalls: 1, wantErr: badPassword},
		{name: "unknown stops at once", retries: 5, errs: []error{os.ErrPermission}, wantCalls: 1, wantErr: os.ErrPermission},
		{name: "exhausted", retries: 2, errs: []error{deadlock, deadlock, deadlock, deadlock}, wantCalls: 3, wantErr: deadlock, giveUp: true},
		{name: "no retries", retries: 0, errs: []error{deadlock}, wantCalls: 1, wantErr: deadlock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(context.Background(), fastRetry(tt.retries), failing(&calls, tt.errs...))
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if got := strings.Contains(err.Error(), "giving up"); got != tt.giveUp {
				t.Errorf("error %q: giving up = %v, want %v", err, got, tt.giveUp)
			}
		})
	}
}

func TestRetryWithBackoffStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	cfg := RetryConfig{MaxRetries: 10, InitialInterval: time.Hour}

	done := make(chan error, 1)
	go func() {
		done <- RetryWithBackoff(ctx, cfg, func(context.Context) error {
			calls++
			return context.DeadlineExceeded
		})
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("retry loop did not notice the cancelled context")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoffOnRetry(t *testing.T) {
	var attempts []int
	cfg := fastRetry(2)
	cfg.OnRetry = func(attempt int, err error) {
		if !errors.Is(err, syscall.EBUSY) {
			t.Errorf("OnRetry got %v", err)
		}
		attempts = append(attempts, attempt)
	}

	busy := &os.PathError{Op: "rename", Path: "sessions.json", Err: syscall.EBUSY}
	calls := 0
	if err := RetryWithBackoff(context.Background(), cfg, failing(&calls, busy, busy)); err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(attempts) != "[1 2]" {
		t.Errorf("OnRetry attempts = %v", attempts)
	}
}

func TestBackoff(t *testing.T) {
	cfg := RetryConfig{InitialInterval: 10 * time.Millisecond, MaxInterval: 50 * time.Millisecond, Multiplier: 2}
	want := []time.Duration{0, 10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond, 50 * time.Millisecond, 50 * time.Millisecond}
	for attempt, w := range want {
		if got := cfg.Backoff(attempt); got != w {
			t.Errorf("Backoff(%d) = %v, want %v", attempt, got, w)
		}
	}

	flat := RetryConfig{InitialInterval: 10 * time.Millisecond, Multiplier: 0.5}
	if got := flat.Backoff(4); got != 10*time.Millisecond {
		t.Errorf("a multiplier below 1 must not shrink the wait, got %v", got)
	}

	jittered := cfg
	jittered.Jitter = true
	for i := 0; i < 20; i++ {
		if got := jittered.wait(2); got < 20*time.Millisecond || got > 25*time.Millisecond {
			t.Fatalf("jittered wait %v outside [20ms, 25ms]", got)
		}
	}
}

func TestRetryConfigs(t *testing.T) {
	for name, cfg := range map[string]RetryConfig{
		"default": DefaultRetryConfig(),
		"connect": ConnectRetryConfig(),
	} {
		if cfg.MaxRetries <= 0 || cfg.InitialInterval <= 0 || cfg.Multiplier <= 1 {
			t.Errorf("%s: retry config does not back off: %+v", name, cfg)
		}
		if cfg.MaxInterval < cfg.InitialInterval {
			t.Errorf("%s: MaxInterval below InitialInterval", name)
		}
	}
}

func TestRetryWithResult(t *testing.T) {
	calls := 0
	got, err := RetryWithResult(context.Background(), fastRetry(2), func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", &pgconn.PgError{Code: "57P03"}
		}
		return "pool", nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if got != "pool" || calls != 2 {
		t.Errorf("got %q after %d calls", got, calls)
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(nil) {
		t.Error("nil error should not be retryable")
	}
	if !IsRetryable(NewTransientError("store warming up", nil)) {
		t.Error("transient error should be retryable")
	}
	if IsRetryable(NewPermanentError("schema mismatch", nil)) {
		t.Error("permanent error should not be retryable")
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
	}{
		{"serialization failure", &pgconn.PgError{Code: "40001"}, ErrorTypeContention, true},
		{"deadlock", fmt.Errorf("update session: %w", &pgconn.PgError{Code: "40P01"}), ErrorTypeContention, true},
		{"admin shutdown", &pgconn.PgError{Code: "08006"}, ErrorTypeTransient, true},
		{"bad password", &pgconn.PgError{Code: "28P01"}, ErrorTypePermanent, false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, ErrorTypeInvalidInput, false},
		{"refused", fmt.Errorf("ping postgres: %w", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}), ErrorTypeTransient, true},
		{"deadline", context.DeadlineExceeded, ErrorTypeTimeout, true},
		{"cancelled", fmt.Errorf("load: %w", context.Canceled), ErrorTypeCancelled, false},
		{"busy file", &os.PathError{Op: "rename", Path: "sessions.json", Err: syscall.EBUSY}, ErrorTypeContention, true},
		{"other", errors.New("decode store file: unexpected end"), ErrorTypeUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ClassifyError(tt.err)
			if c.Type != tt.wantType {
				t.Errorf("type = %s, want %s", c.Type, tt.wantType)
			}
			if c.IsRetryable() != tt.retryable {
				t.Errorf("retryable = %v, want %v", c.IsRetryable(), tt.retryable)
			}
			if !errors.Is(c, tt.err) {
				t.Error("classified error should wrap the original")
			}
		})
	}

	if ClassifyError(nil) != nil {
		t.Error("nil error should classify to nil")
	}
}
