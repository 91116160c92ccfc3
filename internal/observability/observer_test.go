// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"cv-sanitizer/internal/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    ObservabilityLevel
		wantErr bool
	}{
		{"", ObservabilityOff, false},
		{"off", ObservabilityOff, false},
		{"Metrics", ObservabilityMetrics, false},
		{"debug", ObservabilityDebug, false},
		{"verbose", ObservabilityOff, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestStartTimingLogsAndRecordsMetrics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer logger.Replace(zap.New(core))()

	reg := prometheus.NewRegistry()
	m := NewMetrics("test", reg)
	o := NewStandardObserver(ObservabilityMetrics, &bytes.Buffer{}).WithMetrics(m)

	finish := o.StartTiming("engine", "detect", "cv.txt")
	finish(true, map[string]interface{}{"matches": 4})

	require.Len(t, logs.All(), 1)
	entry := logs.All()[0]
	assert.Equal(t, zapcore.DebugLevel, entry.Level)
	assert.Equal(t, "engine", entry.ContextMap()["component"])
	assert.Equal(t, "cv.txt", entry.ContextMap()["document"])

	assert.Equal(t, 1, testutil.CollectAndCount(m.OperationDuration))
}

func TestOffObserverIsSilent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer logger.Replace(zap.New(core))()

	o := NewStandardObserver(ObservabilityOff, nil)
	o.StartTiming("engine", "detect", "")(true, nil)
	assert.Empty(t, logs.All())

	var nilObserver *StandardObserver
	assert.NotPanics(t, func() { nilObserver.StartTiming("x", "y", "z")(false, nil) })
}

func TestDebugObserverSteps(t *testing.T) {
	var buf bytes.Buffer
	o := NewStandardObserver(ObservabilityDebug, &buf)
	require.NotNil(t, o.DebugObserver)

	done := o.DebugObserver.StartStep("engine", "resolve", "cv.txt")
	o.DebugObserver.LogDetail("engine", "12 candidates")
	o.DebugObserver.LogMetric("engine", "kept", 7)
	done(true, "ok")

	out := buf.String()
	assert.Contains(t, out, "> engine: resolve (cv.txt)")
	assert.Contains(t, out, "  - engine: 12 candidates")
	assert.Contains(t, out, "kept = 7")
	assert.Contains(t, out, "< engine: resolve done")
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("cvsanitizer", reg)
	m.CountMatch("email")
	m.CountDocument("redacted")
	m.ObserveDetector("email", 2*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `cvsanitizer_matches_total{category="email"} 1`), body)
	assert.Contains(t, body, "cvsanitizer_documents_total")
	assert.Contains(t, body, "cvsanitizer_detector_duration_seconds")

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.CountMatch("email") })
}
