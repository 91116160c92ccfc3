// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"cv-sanitizer/internal/logger"
)

// MaxFileSize is the largest input accepted by CollectFiles.
const MaxFileSize = 100 * 1024 * 1024

// SkippedFile is an input CollectFiles left out.
type SkippedFile struct {
	Path   string
	Reason string
}

// CollectFiles expands inputs into the list of files to process. An input
// may be a file, a directory or a glob pattern. Directories are walked one
// level deep unless recursive is set; only files with one of exts are kept.
// Explicitly named files are always kept so unsupported formats surface as
// job failures rather than silently disappearing.
func CollectFiles(inputs []string, recursive bool, exts []string) ([]string, []SkippedFile, error) {
	seen := make(map[string]bool)
	var files []string
	var skipped []SkippedFile

	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	keep := func(path string, info fs.FileInfo) bool {
		switch {
		case !info.Mode().IsRegular():
			return false
		case isOutputFile(path):
			return false
		case !hasExt(path, exts):
			return false
		case info.Size() > MaxFileSize:
			skipped = append(skipped, SkippedFile{Path: path, Reason: "file too large (max size: 100MB)"})
			return false
		}
		return true
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			if !strings.ContainsAny(input, "*?[") {
				return nil, nil, fmt.Errorf("path does not exist or is not accessible: %w", err)
			}
			matches, err := filepath.Glob(input)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid glob pattern: %w", err)
			}
			if len(matches) == 0 {
				return nil, nil, fmt.Errorf("no files match pattern: %s", input)
			}
			for _, m := range matches {
				if mi, err := os.Stat(m); err == nil && keep(m, mi) {
					add(m)
				}
			}
			continue
		}

		if !info.IsDir() {
			if info.Size() > MaxFileSize {
				skipped = append(skipped, SkippedFile{Path: input, Reason: "file too large (max size: 100MB)"})
				continue
			}
			add(input)
			continue
		}

		root := filepath.Clean(input)
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
				skipped = append(skipped, SkippedFile{Path: path, Reason: err.Error()})
				return nil
			}
			if d.IsDir() {
				if path != root && !recursive {
					return filepath.SkipDir
				}
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return nil
			}
			if keep(path, fi) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("error accessing directory: %w", err)
		}
	}

	sort.Strings(files)
	return files, skipped, nil
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// isOutputFile reports files written by a previous redaction run.
func isOutputFile(path string) bool {
	name := filepath.Base(path)
	return strings.HasSuffix(name, "_redacted.json") || strings.HasSuffix(name, ".pii.json")
}
