// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"strings"

	"cv-sanitizer/internal/formatters"
	"cv-sanitizer/internal/redactors"
)

// Response is the top-level structure for JSON and YAML output.
type Response struct {
	Documents []Document `json:"documents" yaml:"documents"`
}

// Document is one report in JSON/YAML form.
type Document struct {
	Document  string               `json:"document" yaml:"document"`
	Extractor string               `json:"extractor,omitempty" yaml:"extractor,omitempty"`
	Locale    string               `json:"country_code" yaml:"country_code"`
	Results   []Match              `json:"results" yaml:"results"`
	Summary   redactors.PIISummary `json:"summary" yaml:"summary"`
}

// Match is a single match in JSON/YAML format.
type Match struct {
	ID              int                    `json:"id" yaml:"id"`
	Category        string                 `json:"category" yaml:"category"`
	Text            string                 `json:"text" yaml:"text"`
	Start           int                    `json:"start" yaml:"start"`
	End             int                    `json:"end" yaml:"end"`
	LineNumber      int                    `json:"line_number" yaml:"line_number"`
	Confidence      float64                `json:"confidence" yaml:"confidence"`
	ConfidenceLevel string                 `json:"confidence_level" yaml:"confidence_level"`
	CountryCode     string                 `json:"country_code,omitempty" yaml:"country_code,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	FullLine        string                 `json:"full_line,omitempty" yaml:"full_line,omitempty"`
}

// Redacted stands in for match text when ShowMatch is off.
const Redacted = "[REDACTED]"

// ConvertReports converts reports to the shared JSON/YAML structure. IDs are
// the index in the unfiltered match list, so they line up with edit requests.
func ConvertReports(reports []formatters.Report, options formatters.FormatterOptions) Response {
	resp := Response{Documents: make([]Document, 0, len(reports))}
	for _, r := range reports {
		doc := Document{
			Document:  r.Document,
			Extractor: r.Extractor,
			Locale:    r.Locale,
			Results:   []Match{},
			Summary:   r.Summary,
		}
		for id, m := range r.Matches {
			if options.ConfidenceLevel != nil && !options.ConfidenceLevel[redactors.ConfidenceLevel(m.Confidence)] {
				continue
			}
			out := Match{
				ID:              id,
				Category:        m.Category.String(),
				Text:            m.Text,
				Start:           m.Start,
				End:             m.End,
				LineNumber:      LineNumber(r.Text, m.Start),
				Confidence:      m.Confidence,
				ConfidenceLevel: redactors.ConfidenceLevel(m.Confidence),
				CountryCode:     m.Locale,
				Metadata:        m.Metadata,
			}
			if !options.ShowMatch {
				out.Text = Redacted
				out.Metadata = nil
			}
			if options.Verbose && options.ShowMatch {
				out.FullLine = FullLine(r.Text, m.Start)
			}
			doc.Results = append(doc.Results, out)
		}
		resp.Documents = append(resp.Documents, doc)
	}
	return resp
}

// LineNumber returns the 1-based line containing byte offset pos, or 0 when
// text is unknown.
func LineNumber(text string, pos int) int {
	if text == "" || pos < 0 || pos > len(text) {
		return 0
	}
	return strings.Count(text[:pos], "\n") + 1
}

// FullLine returns the line containing byte offset pos.
func FullLine(text string, pos int) string {
	if pos < 0 || pos > len(text) {
		return ""
	}
	start := strings.LastIndexByte(text[:pos], '\n') + 1
	end := strings.IndexByte(text[pos:], '\n')
	if end < 0 {
		return text[start:]
	}
	return text[start : pos+end]
}
