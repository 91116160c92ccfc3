// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// CheckInfo contains standardized information about a check
type CheckInfo struct {
	Name                string             // Name of the check (e.g., "EMAIL")
	ShortDescription    string             // Short description for the checks list
	DetailedDescription string             // Detailed description of what the check does
	Patterns            []string           // Patterns the check looks for
	SupportedLocales    []string           // Locales with dedicated rules, empty when locale independent
	ConfidenceFactors   []ConfidenceFactor // Factors affecting confidence
	PositiveKeywords    []string           // Labels that anchor or raise confidence
	ConfigurationInfo   string             // Information about how to configure the check
	Examples            []string           // Usage examples
}

// ConfidenceFactor represents a factor that affects confidence scoring
type ConfidenceFactor struct {
	Name        string  // Name of the factor
	Description string  // Description of the factor
	Weight      float64 // Contribution to the confidence score (percentage points)
}

// Provider defines the interface for help content providers
type Provider interface {
	GetCheckInfo() CheckInfo
}

// System renders check documentation to a writer.
type System struct {
	out       io.Writer
	providers map[string]Provider
	colors    map[string]*color.Color
}

// NewSystem creates a help system writing to out.
func NewSystem(out io.Writer, noColor bool) *System {
	colors := map[string]*color.Color{
		"title":    color.New(color.FgWhite, color.Bold),
		"header":   color.New(color.FgBlue, color.Bold),
		"item":     color.New(color.FgCyan),
		"emphasis": color.New(color.FgWhite, color.Bold),
		"high":     color.New(color.FgRed),
		"medium":   color.New(color.FgYellow),
		"low":      color.New(color.FgGreen),
		"example":  color.New(color.FgMagenta),
	}
	if noColor {
		for _, c := range colors {
			c.DisableColor()
		}
	}
	return &System{
		out:       out,
		providers: make(map[string]Provider),
		colors:    colors,
	}
}

// RegisterProvider adds a help provider to the system
func (h *System) RegisterProvider(provider Provider) {
	info := provider.GetCheckInfo()
	h.providers[strings.ToLower(info.Name)] = provider
}

// CheckNames returns the registered check names in alphabetical order.
func (h *System) CheckNames() []string {
	names := make([]string, 0, len(h.providers))
	for _, p := range h.providers {
		names = append(names, p.GetCheckInfo().Name)
	}
	sort.Strings(names)
	return names
}

// ShowChecksHelp lists every registered check with its short description.
func (h *System) ShowChecksHelp() {
	h.colors["title"].Fprintln(h.out, "Available checks")
	fmt.Fprintln(h.out, "================")
	fmt.Fprintln(h.out)

	w := tabwriter.NewWriter(h.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  CHECK\tDESCRIPTION")
	fmt.Fprintln(w, "  -----\t-----------")
	for _, name := range h.CheckNames() {
		info := h.providers[strings.ToLower(name)].GetCheckInfo()
		fmt.Fprintf(w, "  %s\t%s\n", h.colors["emphasis"].Sprint(info.Name), info.ShortDescription)
	}
	w.Flush()

	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, "For detailed information about a specific check, use:")
	h.colors["example"].Fprintln(h.out, "  cvsanitize checks <check>")
}

// ShowCheckHelp displays detailed help for a specific check. It reports false
// when the check is unknown.
func (h *System) ShowCheckHelp(checkName string) bool {
	provider, exists := h.providers[strings.ToLower(strings.TrimSpace(checkName))]
	if !exists {
		h.colors["high"].Fprintf(h.out, "Error: check '%s' not found.\n", checkName)
		fmt.Fprintln(h.out, "Use 'cvsanitize checks' to see a list of available checks.")
		return false
	}

	info := provider.GetCheckInfo()

	h.colors["title"].Fprintf(h.out, "%s Check\n", info.Name)
	fmt.Fprintln(h.out, strings.Repeat("=", len(info.Name)+6))
	fmt.Fprintln(h.out)
	fmt.Fprintln(h.out, info.DetailedDescription)
	fmt.Fprintln(h.out)

	h.list("PATTERNS DETECTED:", info.Patterns)
	if len(info.SupportedLocales) > 0 {
		h.colors["header"].Fprintln(h.out, "SUPPORTED LOCALES:")
		fmt.Fprintf(h.out, "  %s\n\n", strings.Join(info.SupportedLocales, ", "))
	}

	if len(info.ConfidenceFactors) > 0 {
		h.colors["header"].Fprintln(h.out, "CONFIDENCE SCORING:")
		for _, factor := range info.ConfidenceFactors {
			fmt.Fprintf(h.out, "   - %s(%.0f%%): %s\n", h.colors["item"].Sprint(factor.Name+" "), factor.Weight, factor.Description)
		}
		fmt.Fprintln(h.out)
	}

	if len(info.PositiveKeywords) > 0 {
		fmt.Fprintf(h.out, "   Labels: %s\n\n", strings.Join(info.PositiveKeywords, ", "))
	}

	h.colors["header"].Fprintln(h.out, "Confidence Levels:")
	fmt.Fprintf(h.out, "- %s (80-100%%): labelled or strongly structured values\n", h.colors["high"].Sprint("HIGH"))
	fmt.Fprintf(h.out, "- %s (60-79%%): plausible values, worth a look\n", h.colors["medium"].Sprint("MEDIUM"))
	fmt.Fprintf(h.out, "- %s (0-59%%): weak evidence, review before redacting\n", h.colors["low"].Sprint("LOW"))
	fmt.Fprintln(h.out)

	if info.ConfigurationInfo != "" {
		h.colors["header"].Fprintln(h.out, "CONFIGURATION:")
		fmt.Fprintln(h.out, info.ConfigurationInfo)
		fmt.Fprintln(h.out)
	}

	h.list("EXAMPLES:", info.Examples)
	return true
}

func (h *System) list(title string, items []string) {
	if len(items) == 0 {
		return
	}
	h.colors["header"].Fprintln(h.out, title)
	for _, item := range items {
		fmt.Fprint(h.out, "  - ")
		h.colors["item"].Fprintln(h.out, item)
	}
	fmt.Fprintln(h.out)
}
