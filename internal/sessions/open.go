// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package sessions

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"cv-sanitizer/internal/config"
	"cv-sanitizer/internal/logger"
	"cv-sanitizer/internal/resilience"
)

// Open returns the configured store. Postgres connection failures are retried
// while they look transient; when the database still cannot be reached the
// file store is used instead and a warning is logged.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	if strings.EqualFold(cfg.Driver, "postgres") && strings.TrimSpace(cfg.DatabaseURL) != "" {
		store, err := resilience.RetryWithResult(ctx, resilience.ConnectRetryConfig(),
			func(ctx context.Context) (*PostgresStore, error) {
				return NewPostgresStore(ctx, cfg.DatabaseURL)
			})
		if err == nil {
			logger.Debug("using postgres session store")
			return store, nil
		}
		logger.Warn("postgres session store unavailable, falling back to file store",
			zap.Error(err), zap.String("dir", cfg.FileDir))
	}
	return NewFileStore(cfg.FileDir)
}
