// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"sort"
	"strings"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/formatters"
	"cv-sanitizer/internal/formatters/shared"
	"cv-sanitizer/internal/redactors"

	"github.com/fatih/color"
)

const (
	minMatchWidth = 10
	maxMatchWidth = 40
)

// Formatter implements text-based output formatting
type Formatter struct{}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable text output with colors and tables"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

type palette map[string]*color.Color

func newPalette(noColor bool) palette {
	p := palette{
		"green":   color.New(color.FgGreen),
		"yellow":  color.New(color.FgYellow),
		"red":     color.New(color.FgRed),
		"cyan":    color.New(color.FgCyan),
		"magenta": color.New(color.FgMagenta),
		"blue":    color.New(color.FgBlue),
		"white":   color.New(color.FgWhite, color.Bold),
	}
	if noColor {
		for _, c := range p {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) level(level string) *color.Color {
	switch level {
	case "high":
		return p["red"]
	case "medium":
		return p["yellow"]
	default:
		return p["green"]
	}
}

func (f *Formatter) Format(reports []formatters.Report, options formatters.FormatterOptions) (string, error) {
	colors := newPalette(options.NoColor)

	var b strings.Builder
	for i, r := range reports {
		if i > 0 {
			b.WriteString("\n")
		}
		f.appendReport(&b, colors, r, options)
	}
	return b.String(), nil
}

func (f *Formatter) appendReport(b *strings.Builder, colors palette, r formatters.Report, options formatters.FormatterOptions) {
	title := r.Document
	if title == "" {
		title = "input"
	}
	colors["white"].Fprintf(b, "== %s", title)
	if r.Locale != "" {
		colors["white"].Fprintf(b, " (%s)", r.Locale)
	}
	colors["white"].Fprint(b, " ==\n")

	type numbered struct {
		id int
		m  detector.Match
	}
	var shown []numbered
	for id, m := range r.Matches {
		if options.ConfidenceLevel == nil || options.ConfidenceLevel[redactors.ConfidenceLevel(m.Confidence)] {
			shown = append(shown, numbered{id, m})
		}
	}
	if len(shown) == 0 {
		if len(r.Matches) == 0 {
			b.WriteString("No PII found.\n")
		} else {
			b.WriteString("No matches found at the specified confidence levels.\n")
		}
		return
	}

	width := minMatchWidth
	if options.ShowMatch {
		for _, n := range shown {
			if w := len([]rune(oneLine(n.m.Text))); w > width {
				width = w
			}
		}
		if width > maxMatchWidth {
			width = maxMatchWidth
		}
	}

	header := fmt.Sprintf("%-4s %-8s %-14s %-6s %-6s %-*s\n", "ID", "LEVEL", "CATEGORY", "CONF", "LINE", width, "MATCH")
	colors["white"].Fprint(b, header)
	colors["white"].Fprint(b, strings.Repeat("-", len(header)-1)+"\n")

	for _, n := range shown {
		m := n.m
		level := redactors.ConfidenceLevel(m.Confidence)
		text := shared.Redacted
		if options.ShowMatch {
			text = truncate(oneLine(m.Text), width)
		}

		fmt.Fprintf(b, "%-4d ", n.id)
		colors.level(level).Fprintf(b, "[%-6s]", strings.ToUpper(level))
		b.WriteString(" ")
		colors["cyan"].Fprintf(b, "%-14s", m.Category)
		b.WriteString(" ")
		colors["blue"].Fprintf(b, "%-6.2f", m.Confidence)
		b.WriteString(" ")
		colors["magenta"].Fprintf(b, "%-6d", shared.LineNumber(r.Text, m.Start))
		fmt.Fprintf(b, " %s\n", text)

		if options.Verbose && options.ShowMatch {
			if line := shared.FullLine(r.Text, m.Start); line != "" {
				fmt.Fprintf(b, "       line: %s\n", strings.TrimSpace(line))
			}
			for _, k := range sortedKeys(m.Metadata) {
				fmt.Fprintf(b, "       %s: %v\n", k, m.Metadata[k])
			}
		}
	}

	s := r.Summary
	fmt.Fprintf(b, "\nTotal: %d (", s.Total)
	colors["red"].Fprintf(b, "high %d", s.ConfidenceDistribution.High)
	b.WriteString(", ")
	colors["yellow"].Fprintf(b, "medium %d", s.ConfidenceDistribution.Medium)
	b.WriteString(", ")
	colors["green"].Fprintf(b, "low %d", s.ConfidenceDistribution.Low)
	b.WriteString(")\n")

	var parts []string
	for _, c := range detector.AllCategories() {
		if n := s.ByCategory[c.String()]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", c, n))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(b, "By category: %s\n", strings.Join(parts, ", "))
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
