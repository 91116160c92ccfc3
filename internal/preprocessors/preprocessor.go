// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cv-sanitizer/internal/observability"
)

var (
	// ErrUnsupportedFormat is returned for files no preprocessor accepts.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrNoText is returned when a document yields no text at all.
	ErrNoText = errors.New("no text could be extracted")
)

// Document is the text of a CV file ready for detection.
type Document struct {
	Path      string
	Text      string
	Pages     int
	Extractor string

	// Metadata holds extractor specific facts (page count source, EXIF tags, ...).
	Metadata map[string]interface{}
}

// Filename returns the base name of the source file.
func (d *Document) Filename() string {
	return filepath.Base(d.Path)
}

// Preprocessor turns one family of files into a Document.
type Preprocessor interface {
	// CanProcess checks if this preprocessor can handle the given file
	CanProcess(filePath string) bool

	// Process extracts content from the file
	Process(filePath string) (*Document, error)

	GetName() string
	GetSupportedExtensions() []string
	SetObserver(observer *observability.StandardObserver)
}

// Manager picks the preprocessor for a file by extension.
type Manager struct {
	preprocessors []Preprocessor
}

// NewManager returns a manager with the plain text, PDF and image
// preprocessors registered.
func NewManager(observer *observability.StandardObserver) *Manager {
	m := &Manager{}
	m.Register(NewPlainTextPreprocessor())
	m.Register(NewPDFPreprocessor())
	m.Register(NewImageMetadataPreprocessor())
	for _, p := range m.preprocessors {
		p.SetObserver(observer)
	}
	return m
}

// Register adds a preprocessor. Earlier registrations win.
func (m *Manager) Register(p Preprocessor) {
	m.preprocessors = append(m.preprocessors, p)
}

// Get returns the preprocessor for a file, or nil.
func (m *Manager) Get(filePath string) Preprocessor {
	for _, p := range m.preprocessors {
		if p.CanProcess(filePath) {
			return p
		}
	}
	return nil
}

// SupportedExtensions lists every extension some preprocessor accepts.
func (m *Manager) SupportedExtensions() []string {
	var out []string
	for _, p := range m.preprocessors {
		out = append(out, p.GetSupportedExtensions()...)
	}
	return out
}

// Process extracts and normalizes the text of filePath.
func (m *Manager) Process(filePath string) (*Document, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", filePath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filePath)
	}

	p := m.Get(filePath)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filePath))
	}

	doc, err := p.Process(filePath)
	if err != nil {
		return nil, err
	}
	doc.Text = Normalize(doc.Text)
	if strings.TrimSpace(doc.Text) == "" {
		return nil, fmt.Errorf("%s: %w", filePath, ErrNoText)
	}
	return doc, nil
}

// Extract processes filePath with the default preprocessors.
func Extract(filePath string) (*Document, error) {
	return NewManager(nil).Process(filePath)
}

func hasExtension(filePath string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
