// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"cv-sanitizer/internal/logger"
)

// RetryConfig controls how often and how patiently a store call is repeated.
type RetryConfig struct {
	MaxRetries      int           // attempts after the first one
	InitialInterval time.Duration // wait before the first retry
	MaxInterval     time.Duration // upper bound for a single wait, 0 for none
	Multiplier      float64       // growth per retry; values below 1 are treated as 1
	Jitter          bool          // add up to 25% to each wait

	// OnRetry runs after the wait and before the next attempt.
	OnRetry func(attempt int, err error)
}

// DefaultRetryConfig is used for audit store writes, where contention clears
// quickly.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2.0,
		Jitter:          true,
	}
}

// ConnectRetryConfig is used while opening the audit store.
func ConnectRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      2,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2.0,
		Jitter:          true,
	}
}

// Backoff returns the wait before retry number attempt (1-based), without
// jitter: InitialInterval * Multiplier^(attempt-1), capped at MaxInterval.
func (c RetryConfig) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	multiplier := max(c.Multiplier, 1)
	delay := float64(c.InitialInterval)
	for i := 1; i < attempt; i++ {
		delay *= multiplier
		if c.MaxInterval > 0 && delay >= float64(c.MaxInterval) {
			return c.MaxInterval
		}
	}
	wait := time.Duration(delay)
	if c.MaxInterval > 0 && wait > c.MaxInterval {
		wait = c.MaxInterval
	}
	return wait
}

func (c RetryConfig) wait(attempt int) time.Duration {
	wait := c.Backoff(attempt)
	if c.Jitter && wait > 0 {
		wait += time.Duration(float64(wait) * 0.25 * rand.Float64())
	}
	return wait
}

// RetryWithBackoff runs op until it succeeds, fails with an error that
// ClassifyError does not mark retryable, runs out of retries or ctx ends.
// Exhausted retries wrap the last error.
func RetryWithBackoff(ctx context.Context, config RetryConfig, op func(ctx context.Context) error) error {
	err := op(ctx)
	for attempt := 1; err != nil; attempt++ {
		if !IsRetryable(err) {
			return err
		}
		if attempt > config.MaxRetries {
			if config.MaxRetries == 0 {
				return err
			}
			return fmt.Errorf("giving up after %d attempts: %w", attempt, err)
		}

		timer := time.NewTimer(config.wait(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		logger.Debug("retrying store operation", zap.Int("attempt", attempt), zap.Error(err))
		if config.OnRetry != nil {
			config.OnRetry(attempt, err)
		}
		err = op(ctx)
	}
	return nil
}

// RetryWithResult is RetryWithBackoff for calls that produce a value, such as
// opening a connection pool.
func RetryWithResult[T any](ctx context.Context, config RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := RetryWithBackoff(ctx, config, func(ctx context.Context) error {
		var err error
		result, err = fn(ctx)
		return err
	})
	return result, err
}

// IsRetryable reports whether an error should be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return ClassifyError(err).IsRetryable()
}
