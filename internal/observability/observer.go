// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"cv-sanitizer/internal/logger"
)

// StandardObserver times operations of every component and reports them to the
// structured log and, when attached, to Prometheus.
type StandardObserver struct {
	level         ObservabilityLevel
	writer        io.Writer
	metrics       *Metrics
	DebugObserver *DebugObserver // set when running in debug mode
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

func (l ObservabilityLevel) String() string {
	switch l {
	case ObservabilityMetrics:
		return "metrics"
	case ObservabilityDebug:
		return "debug"
	default:
		return "off"
	}
}

// ParseLevel maps a config value to an ObservabilityLevel.
func ParseLevel(s string) (ObservabilityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "none":
		return ObservabilityOff, nil
	case "metrics":
		return ObservabilityMetrics, nil
	case "debug":
		return ObservabilityDebug, nil
	default:
		return ObservabilityOff, fmt.Errorf("unknown observability level %q", s)
	}
}

// NewStandardObserver creates an observer. In debug mode a DebugObserver writing
// to writer is attached.
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	o := &StandardObserver{
		level:  level,
		writer: writer,
	}
	if level == ObservabilityDebug && writer != nil {
		o.DebugObserver = &DebugObserver{StandardObserver: o}
	}
	return o
}

// WithMetrics attaches Prometheus instruments.
func (o *StandardObserver) WithMetrics(m *Metrics) *StandardObserver {
	o.metrics = m
	return o
}

// Metrics returns the attached instruments, or nil.
func (o *StandardObserver) Metrics() *Metrics {
	if o == nil {
		return nil
	}
	return o.metrics
}

// Level returns the configured level.
func (o *StandardObserver) Level() ObservabilityLevel {
	if o == nil {
		return ObservabilityOff
	}
	return o.level
}

// StartTiming returns a function to complete timing. Safe on a nil observer.
func (o *StandardObserver) StartTiming(component, operation, document string) func(success bool, metadata map[string]interface{}) {
	if o == nil {
		return func(bool, map[string]interface{}) {}
	}
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		duration := time.Since(start)
		if o.metrics != nil {
			o.metrics.OperationDuration.WithLabelValues(component, operation).Observe(duration.Seconds())
		}

		o.LogOperation(StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			Document:   document,
			DurationMs: duration.Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		})
	}
}

// LogOperation logs operation data
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o == nil || o.level == ObservabilityOff {
		return
	}

	fields := []zap.Field{
		zap.String("component", data.Component),
		zap.String("operation", data.Operation),
		zap.Int64("duration_ms", data.DurationMs),
		zap.Bool("success", data.Success),
	}
	if data.Document != "" {
		fields = append(fields, zap.String("document", data.Document))
	}
	if data.Error != "" {
		fields = append(fields, zap.String("error", data.Error))
	}
	if data.MatchCount > 0 {
		fields = append(fields, zap.Int("match_count", data.MatchCount))
	}
	if len(data.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", data.Metadata))
	}

	if o.level == ObservabilityDebug {
		logger.Info("operation", fields...)
		return
	}
	logger.Debug("operation", fields...)
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component  string                 `json:"component"`
	Operation  string                 `json:"operation"`
	Document   string                 `json:"document,omitempty"`
	DurationMs int64                  `json:"duration_ms,omitempty"`
	Success    bool                   `json:"success"`
	Error      string                 `json:"error,omitempty"`
	MatchCount int                    `json:"match_count,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
