// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package suppressions keeps the ignore list: values that the detectors
// report but that a reviewer has marked as not personal information, such as
// an employer whose name looks like a person's. Rules store a hash of the
// value, never the value itself.
package suppressions

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/paths"
)

// ErrRuleNotFound is returned for an unknown rule id.
var ErrRuleNotFound = errors.New("suppression rule not found")

// ErrDuplicateRule is returned when a value is already ignored.
var ErrDuplicateRule = errors.New("suppression rule already exists for this value")

// SuppressionRule ignores one value, optionally only for one category.
type SuppressionRule struct {
	ID        string     `yaml:"id" json:"id"`
	Category  string     `yaml:"category,omitempty" json:"category,omitempty"` // empty matches every category
	Hash      string     `yaml:"hash" json:"hash"`
	Reason    string     `yaml:"reason" json:"reason"`
	Enabled   bool       `yaml:"enabled" json:"enabled"`
	CreatedBy string     `yaml:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time  `yaml:"created_at" json:"created_at"`
	ExpiresAt *time.Time `yaml:"expires_at,omitempty" json:"expires_at,omitempty"`
}

// Active reports whether the rule applies at now.
func (r SuppressionRule) Active(now time.Time) bool {
	return r.Enabled && (r.ExpiresAt == nil || now.Before(*r.ExpiresAt))
}

// SuppressionConfig represents the suppression file
type SuppressionConfig struct {
	Version string            `yaml:"version"`
	Rules   []SuppressionRule `yaml:"rules"`
}

// SuppressionManager loads, queries and edits an ignore list file. It is
// safe for concurrent use.
type SuppressionManager struct {
	mu         sync.RWMutex
	configPath string
	config     *SuppressionConfig
	enabled    bool
	now        func() time.Time
}

// NewSuppressionManager loads configPath, or the default location when it is
// empty. A missing file yields an empty list; a malformed one is an error.
func NewSuppressionManager(configPath string) (*SuppressionManager, error) {
	if configPath == "" {
		configPath = paths.GetSuppressionsFile()
	}
	sm := &SuppressionManager{
		configPath: configPath,
		config:     &SuppressionConfig{Version: "1.0"},
		enabled:    true,
		now:        time.Now,
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return sm, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read suppression file: %w", err)
	}
	if err := yaml.Unmarshal(data, sm.config); err != nil {
		return nil, fmt.Errorf("failed to parse suppression file %s: %w", configPath, err)
	}
	return sm, nil
}

// HashText hashes a value the way rules store it: case and whitespace
// differences are ignored.
func HashText(text string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", sum)
}

// IsSuppressed reports whether an active rule covers the match.
func (sm *SuppressionManager) IsSuppressed(match detector.Match) (bool, *SuppressionRule) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if !sm.enabled {
		return false, nil
	}
	return sm.find(match.Category.String(), HashText(match.Text))
}

func (sm *SuppressionManager) find(category, hash string) (bool, *SuppressionRule) {
	now := sm.now()
	for i := range sm.config.Rules {
		rule := sm.config.Rules[i]
		if rule.Hash != hash || !rule.Active(now) {
			continue
		}
		if rule.Category != "" && rule.Category != category {
			continue
		}
		return true, &rule
	}
	return false, nil
}

// Filter drops suppressed matches and returns the rest with the number
// dropped. A nil manager keeps everything.
func (sm *SuppressionManager) Filter(matches []detector.Match) ([]detector.Match, int) {
	if sm == nil || len(matches) == 0 {
		return matches, 0
	}
	kept := make([]detector.Match, 0, len(matches))
	for _, m := range matches {
		if ok, _ := sm.IsSuppressed(m); ok {
			continue
		}
		kept = append(kept, m)
	}
	return kept, len(matches) - len(kept)
}

// AddSuppression ignores text from now on. An empty category ignores the
// value whatever it is detected as; a nil expiresAt never expires.
func (sm *SuppressionManager) AddSuppression(category, text, reason, createdBy string, expiresAt *time.Time) (SuppressionRule, error) {
	if strings.TrimSpace(text) == "" {
		return SuppressionRule{}, errors.New("suppressed text must not be empty")
	}
	if category != "" {
		c, err := detector.ParseCategory(category)
		if err != nil {
			return SuppressionRule{}, err
		}
		category = c.String()
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	hash := HashText(text)
	for _, rule := range sm.config.Rules {
		if rule.Hash == hash && rule.Category == category {
			return SuppressionRule{}, fmt.Errorf("%w (%s)", ErrDuplicateRule, rule.ID)
		}
	}

	// Generate unique ID with sequential number
	maxID := 0
	for _, existing := range sm.config.Rules {
		var num int
		if _, err := fmt.Sscanf(existing.ID, "SUP-%08d", &num); err == nil && num > maxID {
			maxID = num
		}
	}

	rule := SuppressionRule{
		ID:        fmt.Sprintf("SUP-%08d", maxID+1),
		Category:  category,
		Hash:      hash,
		Reason:    reason,
		Enabled:   true,
		CreatedBy: createdBy,
		CreatedAt: sm.now().UTC(),
		ExpiresAt: expiresAt,
	}
	sm.config.Rules = append(sm.config.Rules, rule)
	if err := sm.saveConfig(); err != nil {
		sm.config.Rules = sm.config.Rules[:len(sm.config.Rules)-1]
		return SuppressionRule{}, err
	}
	return rule, nil
}

// RemoveSuppression removes a suppression rule by ID
func (sm *SuppressionManager) RemoveSuppression(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for i, rule := range sm.config.Rules {
		if rule.ID == id {
			sm.config.Rules = append(sm.config.Rules[:i:i], sm.config.Rules[i+1:]...)
			return sm.saveConfig()
		}
	}
	return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
}

// SetRuleEnabled switches a rule on or off without removing it.
func (sm *SuppressionManager) SetRuleEnabled(id string, enabled bool) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for i := range sm.config.Rules {
		if sm.config.Rules[i].ID == id {
			sm.config.Rules[i].Enabled = enabled
			return sm.saveConfig()
		}
	}
	return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
}

// ListSuppressions returns a copy of every rule.
func (sm *SuppressionManager) ListSuppressions() []SuppressionRule {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return append([]SuppressionRule(nil), sm.config.Rules...)
}

// CleanupExpired removes expired rules and returns how many were removed.
func (sm *SuppressionManager) CleanupExpired() (int, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := sm.now()
	var active []SuppressionRule
	for _, rule := range sm.config.Rules {
		if rule.ExpiresAt == nil || now.Before(*rule.ExpiresAt) {
			active = append(active, rule)
		}
	}
	removed := len(sm.config.Rules) - len(active)
	if removed == 0 {
		return 0, nil
	}
	sm.config.Rules = active
	return removed, sm.saveConfig()
}

// SetEnabled turns the whole list on or off for this manager.
func (sm *SuppressionManager) SetEnabled(enabled bool) {
	sm.mu.Lock()
	sm.enabled = enabled
	sm.mu.Unlock()
}

func (sm *SuppressionManager) IsEnabled() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.enabled
}

func (sm *SuppressionManager) GetConfigPath() string {
	return sm.configPath
}

// saveConfig writes the file atomically. Callers hold mu.
func (sm *SuppressionManager) saveConfig() error {
	data, err := yaml.Marshal(sm.config)
	if err != nil {
		return fmt.Errorf("failed to marshal suppression config: %w", err)
	}

	dir := filepath.Dir(sm.configPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".suppressions-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write suppression config: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write suppression config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write suppression config: %w", err)
	}
	if err := os.Rename(tmp.Name(), sm.configPath); err != nil {
		return fmt.Errorf("failed to write suppression config: %w", err)
	}
	return nil
}
