// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testExts = []string{".txt", ".pdf"}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"b.txt":                "b",
		"a.pdf":                "a",
		"notes.docx":           "skip",
		"a_redacted.json":      "{}",
		"a.pii.json":           "{}",
		"nested/c.txt":         "c",
		"nested/deeper/d.txt":  "d",
		"nested/deeper/e.docx": "e",
	})

	tests := []struct {
		name      string
		inputs    []string
		recursive bool
		want      []string
	}{
		{
			name:   "flat directory",
			inputs: []string{dir},
			want:   []string{"a.pdf", "b.txt"},
		},
		{
			name:      "recursive directory",
			inputs:    []string{dir},
			recursive: true,
			want:      []string{"a.pdf", "b.txt", "nested/c.txt", "nested/deeper/d.txt"},
		},
		{
			name:   "glob",
			inputs: []string{filepath.Join(dir, "*.txt")},
			want:   []string{"b.txt"},
		},
		{
			name:   "explicit unsupported file is kept",
			inputs: []string{filepath.Join(dir, "notes.docx")},
			want:   []string{"notes.docx"},
		},
		{
			name:   "duplicates collapse",
			inputs: []string{filepath.Join(dir, "b.txt"), dir},
			want:   []string{"a.pdf", "b.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, skipped, err := CollectFiles(tt.inputs, tt.recursive, testExts)
			require.NoError(t, err)
			assert.Empty(t, skipped)

			var want []string
			for _, w := range tt.want {
				want = append(want, filepath.Join(dir, filepath.FromSlash(w)))
			}
			assert.Equal(t, want, files)
		})
	}
}

func TestCollectFilesErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := CollectFiles([]string{filepath.Join(dir, "missing.txt")}, false, testExts)
	assert.ErrorContains(t, err, "does not exist")

	_, _, err = CollectFiles([]string{filepath.Join(dir, "*.pdf")}, false, testExts)
	assert.ErrorContains(t, err, "no files match pattern")
}
