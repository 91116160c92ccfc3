// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package preprocessors

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"cv-sanitizer/internal/observability"
)

// ImageMetadataPreprocessor renders the EXIF block of a CV photo as
// "Field: value" lines, so author names, comments and GPS positions are
// scanned like any other text.
type ImageMetadataPreprocessor struct {
	name                string
	supportedExtensions []string
	observer            *observability.StandardObserver
}

func NewImageMetadataPreprocessor() *ImageMetadataPreprocessor {
	return &ImageMetadataPreprocessor{
		name:                "exif",
		supportedExtensions: []string{".jpg", ".jpeg", ".tif", ".tiff"},
	}
}

func (p *ImageMetadataPreprocessor) SetObserver(observer *observability.StandardObserver) {
	p.observer = observer
}

func (p *ImageMetadataPreprocessor) GetName() string { return p.name }

func (p *ImageMetadataPreprocessor) GetSupportedExtensions() []string {
	return p.supportedExtensions
}

func (p *ImageMetadataPreprocessor) CanProcess(filePath string) bool {
	return hasExtension(filePath, p.supportedExtensions)
}

type exifWalker struct {
	tags map[string]string
}

func (w *exifWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if tag == nil {
		return nil
	}
	value := strings.Trim(tag.String(), `"`)
	if tag.Format() == tiff.StringVal {
		if s, err := tag.StringVal(); err == nil {
			value = s
		}
	}
	value = strings.TrimSpace(strings.ReplaceAll(value, "\x00", ""))
	if value != "" {
		w.tags[string(name)] = value
	}
	return nil
}

func (p *ImageMetadataPreprocessor) Process(filePath string) (*Document, error) {
	finishTiming := p.observer.StartTiming("image_metadata_preprocessor", "process_file", filePath)

	f, err := os.Open(filePath)
	if err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("no EXIF data found: %w", err)
	}

	w := &exifWalker{tags: make(map[string]string)}
	if err := x.Walk(w); err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("error reading EXIF: %w", err)
	}
	if lat, long, err := x.LatLong(); err == nil {
		w.tags["GPSPosition"] = fmt.Sprintf("%.6f, %.6f", lat, long)
	}

	finishTiming(true, map[string]interface{}{"tags": len(w.tags)})
	return &Document{
		Path:      filePath,
		Text:      renderTags(w.tags),
		Pages:     1,
		Extractor: p.name,
		Metadata:  map[string]interface{}{"exif_tags": len(w.tags)},
	}, nil
}

func renderTags(tags map[string]string) string {
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s: %s\n", name, tags[name])
	}
	return b.String()
}
