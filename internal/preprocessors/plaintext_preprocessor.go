// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"cv-sanitizer/internal/observability"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PlainTextPreprocessor reads UTF-8 text and markdown CVs.
type PlainTextPreprocessor struct {
	name                string
	supportedExtensions []string
	observer            *observability.StandardObserver
}

// NewPlainTextPreprocessor creates a plain text preprocessor.
func NewPlainTextPreprocessor() *PlainTextPreprocessor {
	return &PlainTextPreprocessor{
		name:                "text",
		supportedExtensions: []string{".txt", ".md", ".markdown", ".text"},
	}
}

func (p *PlainTextPreprocessor) SetObserver(observer *observability.StandardObserver) {
	p.observer = observer
}

func (p *PlainTextPreprocessor) GetName() string { return p.name }

func (p *PlainTextPreprocessor) GetSupportedExtensions() []string { return p.supportedExtensions }

func (p *PlainTextPreprocessor) CanProcess(filePath string) bool {
	return hasExtension(filePath, p.supportedExtensions)
}

// Process reads the file. Invalid UTF-8 is rejected rather than guessed at.
func (p *PlainTextPreprocessor) Process(filePath string) (*Document, error) {
	finishTiming := p.observer.StartTiming("plaintext_preprocessor", "process_file", filePath)

	data, err := os.ReadFile(filePath)
	if err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		finishTiming(false, map[string]interface{}{"error": "invalid utf-8"})
		return nil, fmt.Errorf("%s is not valid UTF-8 text", filePath)
	}

	finishTiming(true, map[string]interface{}{"bytes": len(data)})
	return &Document{
		Path:      filePath,
		Text:      string(data),
		Pages:     1,
		Extractor: p.name,
		Metadata:  map[string]interface{}{},
	}, nil
}
