// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"sort"
	"strings"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/redactors"
)

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	ConfidenceLevel map[string]bool // which of high/medium/low to display; nil shows all
	Verbose         bool            // include surrounding line and metadata
	NoColor         bool
	ShowMatch       bool // print matched text instead of [REDACTED]
}

// Report is the detection result for one document.
type Report struct {
	Document  string               `json:"document" yaml:"document"`
	Extractor string               `json:"extractor,omitempty" yaml:"extractor,omitempty"`
	Locale    string               `json:"country_code" yaml:"country_code"`
	Matches   []detector.Match     `json:"matches" yaml:"matches"`
	Summary   redactors.PIISummary `json:"summary" yaml:"summary"`

	// Text is the scanned text, used for line numbers and context.
	Text string `json:"-" yaml:"-"`
}

// NewReport builds a report and its summary.
func NewReport(document, extractor, locale, text string, matches []detector.Match) Report {
	if matches == nil {
		matches = []detector.Match{}
	}
	return Report{
		Document:  document,
		Extractor: extractor,
		Locale:    locale,
		Matches:   matches,
		Summary:   redactors.Summary(matches),
		Text:      text,
	}
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	Format(reports []Report, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "json", "text")
	Name() string
	Description() string
	FileExtension() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatInfo provides metadata about a formatter for HTTP responses.
type FormatInfo struct {
	Name        string
	Description string
	Extension   string
	MimeType    string
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register adds a formatter to the default registry. Formatter packages call
// it from init.
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

func List() []string {
	return DefaultRegistry.List()
}

// Export renders reports with the named formatter.
func Export(format string, reports []Report, options FormatterOptions) (string, error) {
	formatter, exists := Get(format)
	if !exists {
		return "", fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(List(), ", "))
	}
	return formatter.Format(reports, options)
}

// GetFormatInfo returns metadata about a specific formatter
func GetFormatInfo(name string) FormatInfo {
	formatter, exists := Get(name)
	if !exists {
		return FormatInfo{}
	}

	info := FormatInfo{
		Name:        formatter.Name(),
		Description: formatter.Description(),
		Extension:   formatter.FileExtension(),
	}
	switch name {
	case "json":
		info.MimeType = "application/json"
	case "yaml":
		info.MimeType = "application/x-yaml"
	case "text":
		info.MimeType = "text/plain"
	default:
		info.MimeType = "application/octet-stream"
	}
	return info
}

// FilterMatchesByConfidence keeps matches whose level is enabled in options.
func FilterMatchesByConfidence(matches []detector.Match, options FormatterOptions) []detector.Match {
	if options.ConfidenceLevel == nil {
		return matches
	}
	filtered := make([]detector.Match, 0, len(matches))
	for _, m := range matches {
		if options.ConfidenceLevel[redactors.ConfidenceLevel(m.Confidence)] {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// ParseConfidenceLevels turns "high,medium" or "all" into a level set.
func ParseConfidenceLevels(levels string) (map[string]bool, error) {
	levels = strings.ToLower(strings.TrimSpace(levels))
	if levels == "" || levels == "all" {
		return nil, nil
	}
	out := make(map[string]bool)
	for _, l := range strings.Split(levels, ",") {
		l = strings.TrimSpace(l)
		switch l {
		case "high", "medium", "low":
			out[l] = true
		case "":
		default:
			return nil, fmt.Errorf("invalid confidence level %q: use high, medium, low or all", l)
		}
	}
	return out, nil
}
