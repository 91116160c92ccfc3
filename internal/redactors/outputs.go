// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/version"
)

// File permissions for written outputs. The mapping holds the original PII.
const (
	RedactedFileMode os.FileMode = 0o644
	MappingFileMode  os.FileMode = 0o600
	outputDirMode    os.FileMode = 0o750
)

// OutputRequest describes one finalized document to persist.
type OutputRequest struct {
	SourcePath  string // original document; names the outputs
	OutputDir   string // defaults to the directory of SourcePath
	CountryCode string
	Extractor   string
	Result      *RedactionResult
	Matches     []detector.Match
	Edits       []EditRecord
	Now         time.Time // zero means time.Now
}

// OutputPaths lists the files SaveOutputs wrote.
type OutputPaths struct {
	RedactedJSON string `json:"redacted_json"`
	MappingJSON  string `json:"pii_mapping_json"`
}

// AuditTrail is embedded in the redacted document.
type AuditTrail struct {
	UserEdits           []EditRecord `json:"user_edits"`
	ProcessingTimestamp time.Time    `json:"processing_timestamp"`
	Version             string       `json:"version"`
}

// RedactedDocument is the shareable output: it carries no original PII.
type RedactedDocument struct {
	CVFilename       string     `json:"cv_filename"`
	OriginalFilename string     `json:"original_filename"`
	ProcessingDate   time.Time  `json:"processing_date"`
	CountryCode      string     `json:"country_code"`
	Extractor        string     `json:"extractor,omitempty"`
	PIIDetectedCount int        `json:"pii_detected_count"`
	UserEditsCount   int        `json:"user_edits_count"`
	RedactedText     string     `json:"redacted_text"`
	PIISummary       PIISummary `json:"pii_summary"`
	AuditTrail       AuditTrail `json:"audit_trail"`
}

// OutputBase returns the file stem used for the outputs of path.
func OutputBase(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SaveOutputs writes <base>_redacted.json and <base>.pii.json.
func SaveOutputs(req OutputRequest) (*OutputPaths, error) {
	if req.SourcePath == "" {
		return nil, NewRedactionError(ErrorInput, "source path required to name outputs", "outputs", nil)
	}
	if req.Result == nil {
		return nil, inputError("outputs", ErrNoMatches, "no redaction result to save")
	}

	dir := req.OutputDir
	if dir == "" {
		dir = filepath.Dir(req.SourcePath)
	}
	if err := os.MkdirAll(dir, outputDirMode); err != nil {
		return nil, NewRedactionError(ErrorFileSystem, "failed to create output directory", "outputs", err)
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	base := OutputBase(req.SourcePath)
	edits := req.Edits
	if edits == nil {
		edits = []EditRecord{}
	}

	doc := RedactedDocument{
		CVFilename:       base + "_redacted.json",
		OriginalFilename: filepath.Base(req.SourcePath),
		ProcessingDate:   now,
		CountryCode:      req.CountryCode,
		Extractor:        req.Extractor,
		PIIDetectedCount: len(req.Matches),
		UserEditsCount:   len(req.Edits),
		RedactedText:     req.Result.RedactedText,
		PIISummary:       Summary(req.Matches),
		AuditTrail: AuditTrail{
			UserEdits:           edits,
			ProcessingTimestamp: now,
			Version:             version.Short(),
		},
	}

	paths := &OutputPaths{
		RedactedJSON: filepath.Join(dir, doc.CVFilename),
		MappingJSON:  filepath.Join(dir, base+".pii.json"),
	}
	if err := writeJSON(paths.RedactedJSON, doc, RedactedFileMode); err != nil {
		return nil, err
	}
	if err := writeJSON(paths.MappingJSON, req.Result.Mapping, MappingFileMode); err != nil {
		return nil, err
	}
	return paths, nil
}

// LoadMapping reads a mapping written by SaveOutputs.
func LoadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewRedactionError(ErrorFileSystem, "failed to read mapping", "outputs", err)
	}
	var m Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, NewRedactionError(ErrorSerialization, "failed to decode mapping", "outputs", err)
	}
	return m, nil
}

// LoadRedacted reads a redacted document written by SaveOutputs.
func LoadRedacted(path string) (*RedactedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewRedactionError(ErrorFileSystem, "failed to read redacted document", "outputs", err)
	}
	var doc RedactedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, NewRedactionError(ErrorSerialization, "failed to decode redacted document", "outputs", err)
	}
	return &doc, nil
}

// writeJSON encodes v without HTML escaping so placeholders stay readable.
func writeJSON(path string, v any, mode os.FileMode) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return NewRedactionError(ErrorSerialization, "failed to encode "+filepath.Base(path), "outputs", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), mode); err != nil {
		return NewRedactionError(ErrorFileSystem, "failed to write "+filepath.Base(path), "outputs", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, mode); err != nil {
		return NewRedactionError(ErrorFileSystem, "failed to set permissions on "+filepath.Base(path), "outputs", err)
	}
	return nil
}
