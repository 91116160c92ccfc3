// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	assert.NotNil(t, Logger())
}

func TestSetLevel(t *testing.T) {
	original := Level()
	defer SetLevel(original.String())

	tests := []struct {
		name     string
		levelStr string
		expected zapcore.Level
	}{
		{"debug", "debug", zapcore.DebugLevel},
		{"info", "info", zapcore.InfoLevel},
		{"warn", "warn", zapcore.WarnLevel},
		{"warning alias", "WARNING", zapcore.WarnLevel},
		{"error", "error", zapcore.ErrorLevel},
		{"invalid", "invalid", zapcore.InfoLevel},
		{"empty", "", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetLevel(tt.levelStr)
			assert.Equal(t, tt.expected, Level())
		})
	}
}

func TestReplace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))

	Info("document processed", zap.Int("matches", 3))
	Warn("locale not supported", zap.String("locale", "ZZ"))
	restore()
	Info("not captured")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "document processed", entries[0].Message)
		assert.Equal(t, int64(3), entries[0].ContextMap()["matches"])
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	}
}
