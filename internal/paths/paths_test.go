// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestGetConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)

	if got := GetConfigDir(); got != dir {
		t.Errorf("GetConfigDir() = %q, want %q", got, dir)
	}
	if got := GetConfigFile(); got != filepath.Join(dir, "config.yaml") {
		t.Errorf("GetConfigFile() = %q", got)
	}
	if got := GetSuppressionsFile(); got != filepath.Join(dir, "suppressions.yaml") {
		t.Errorf("GetSuppressionsFile() = %q", got)
	}
}

func TestNormalizePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := map[string]string{
		"":             "",
		"./out/../out": "out",
		"~/cvs":        filepath.Join(home, "cvs"),
	}
	for in, want := range tests {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidatePath(t *testing.T) {
	if err := ValidatePath("./redacted"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := ValidatePath("bad\x00path")
	var pve *PathValidationError
	if !errors.As(err, &pve) {
		t.Fatalf("expected PathValidationError, got %v", err)
	}
	if pve.Reason != "contains null byte" {
		t.Errorf("unexpected reason %q", pve.Reason)
	}
}
