// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"cv-sanitizer/internal/detector"
	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/paths"
	"cv-sanitizer/internal/patterns"
)

// Environment variables applied on top of the config file.
const (
	EnvLocale      = "CVSANITIZER_LOCALE"
	EnvDatabaseURL = "CVSANITIZER_DATABASE_URL"
	EnvListenAddr  = "CVSANITIZER_LISTEN_ADDR"
	EnvLogLevel    = "CVSANITIZER_LOG_LEVEL"
)

// ErrUnknownProfile is returned by ApplyProfile for a name not in the file.
var ErrUnknownProfile = errors.New("unknown profile")

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults Defaults `yaml:"defaults"`

	// Extra detection patterns, validated at load
	Patterns PatternConfig `yaml:"patterns"`

	// Audit store settings
	Store StoreConfig `yaml:"store"`

	// HTTP API settings
	Server ServerConfig `yaml:"server"`

	// Named overrides of Defaults
	Profiles map[string]Profile `yaml:"profiles"`
}

// Defaults holds the settings used when no profile is selected.
type Defaults struct {
	Locale        string   `yaml:"locale"`
	Categories    []string `yaml:"categories"`
	MinConfidence float64  `yaml:"min_confidence"`
	MaxInputBytes int      `yaml:"max_input_bytes"`
	Parallel      bool     `yaml:"parallel"`
	OutputDir     string   `yaml:"output_dir"`
	Format        string   `yaml:"format"`
	NoColor       bool     `yaml:"no_color"`
	LogLevel      string   `yaml:"log_level"`
	Observability string   `yaml:"observability"`

	// Ignore list of known non-PII values; empty uses the config directory.
	SuppressionsFile string `yaml:"suppressions_file"`
}

// PatternConfig lists additional regexes per locale, or per platform for
// social profiles.
type PatternConfig struct {
	Phone      map[string][]string `yaml:"phone"`
	Postcode   map[string][]string `yaml:"postcode"`
	NationalID map[string][]string `yaml:"national_id"`
	Social     map[string][]string `yaml:"social"`
}

// Extensions converts the configured patterns for patterns.Build.
func (p PatternConfig) Extensions() patterns.Extensions {
	return patterns.Extensions{
		Phone:      p.Phone,
		Postcode:   p.Postcode,
		NationalID: p.NationalID,
		Social:     p.Social,
	}
}

// StoreConfig selects the audit store.
type StoreConfig struct {
	Driver      string `yaml:"driver"` // postgres or file
	DatabaseURL string `yaml:"database_url"`
	FileDir     string `yaml:"file_dir"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	ListenAddr      string  `yaml:"listen_addr"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	MaxBodyBytes    int64   `yaml:"max_body_bytes"`
}

// Profile represents a processing profile with specific settings. Zero values
// leave the defaults untouched.
type Profile struct {
	Description   string   `yaml:"description"`
	Locale        string   `yaml:"locale"`
	Categories    []string `yaml:"categories"`
	MinConfidence float64  `yaml:"min_confidence"`
	OutputDir     string   `yaml:"output_dir"`
	Format        string   `yaml:"format"`
	NoColor       bool     `yaml:"no_color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	config := &Config{Profiles: make(map[string]Profile)}

	config.Defaults.Locale = "GB"
	config.Defaults.MaxInputBytes = detector.DefaultMaxInputBytes
	config.Defaults.Parallel = true
	config.Defaults.Format = "text"
	config.Defaults.LogLevel = "info"
	config.Defaults.Observability = "off"

	config.Store.Driver = "file"
	config.Store.FileDir = filepath.Join(paths.GetConfigDir(), "sessions")

	config.Server.ListenAddr = ":8080"
	config.Server.RateLimitPerSec = 10
	config.Server.RateLimitBurst = 20
	config.Server.MaxBodyBytes = int64(detector.DefaultMaxInputBytes) + 64<<10

	config.Profiles["strict"] = Profile{
		Description:   "Every category, including low confidence name candidates",
		MinConfidence: 0,
	}
	config.Profiles["contact"] = Profile{
		Description:   "Contact details only: email, phone, address, postcode and profiles",
		Categories:    []string{"email", "phone", "address", "postcode", "linkedin", "website", "social_media"},
		MinConfidence: 0.6,
	}
	return config
}

// LoadConfig loads configuration from the specified file path. An empty path
// yields the defaults. A .env file in the working directory is loaded first and
// environment overrides are applied last.
func LoadConfig(configPath string) (*Config, error) {
	// Best effort: a missing .env is the common case.
	_ = godotenv.Load()

	config := Default()

	if configPath != "" {
		cleanPath := filepath.Clean(configPath)
		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		defaultParallel := config.Defaults.Parallel
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
		// YAML leaves omitted bools false; keep the default unless set explicitly.
		if !containsField(data, "defaults", "parallel") {
			config.Defaults.Parallel = defaultParallel
		}
		if config.Profiles == nil {
			config.Profiles = make(map[string]Profile)
		}
	}

	ApplyEnv(config)
	config.Defaults.Locale = detector.NormalizeLocale(config.Defaults.Locale)
	config.Defaults.OutputDir = paths.NormalizePath(config.Defaults.OutputDir)
	config.Store.FileDir = paths.NormalizePath(config.Store.FileDir)

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// ApplyEnv copies the CVSANITIZER_* environment overrides into config.
func ApplyEnv(config *Config) {
	if v := os.Getenv(EnvLocale); v != "" {
		config.Defaults.Locale = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		config.Store.DatabaseURL = v
		config.Store.Driver = "postgres"
	}
	if v := os.Getenv(EnvListenAddr); v != "" {
		config.Server.ListenAddr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Defaults.LogLevel = v
	}
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	candidates := []string{"cvsanitizer.yaml", "cvsanitizer.yml", ".cvsanitizer.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".cvsanitizer.yaml"))
	}
	candidates = append(candidates, paths.GetConfigFile())
	if system := paths.GetSystemConfigFile(); system != "" {
		candidates = append(candidates, system)
	}

	for _, c := range candidates {
		if fileExists(c) {
			return c
		}
	}
	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the available profile names in alphabetical order
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	sort.Strings(profiles)
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// ApplyProfile overlays the named profile on Defaults. An empty name is a no-op.
func (c *Config) ApplyProfile(name string) error {
	if name == "" {
		return nil
	}
	p := c.GetProfile(name)
	if p == nil {
		return fmt.Errorf("%w: %q (available: %s)", ErrUnknownProfile, name, strings.Join(c.ListProfiles(), ", "))
	}
	if p.Locale != "" {
		c.Defaults.Locale = detector.NormalizeLocale(p.Locale)
	}
	if len(p.Categories) > 0 {
		c.Defaults.Categories = append([]string(nil), p.Categories...)
	}
	if p.MinConfidence > 0 {
		c.Defaults.MinConfidence = p.MinConfidence
	}
	if p.OutputDir != "" {
		c.Defaults.OutputDir = paths.NormalizePath(p.OutputDir)
	}
	if p.Format != "" {
		c.Defaults.Format = p.Format
	}
	if p.NoColor {
		c.Defaults.NoColor = true
	}
	return nil
}

// PatternLibrary builds the detection library with the configured extensions.
func (c *Config) PatternLibrary() (*patterns.Library, error) {
	return patterns.Build(c.Patterns.Extensions())
}

// ObservabilityLevel parses Defaults.Observability.
func (c *Config) ObservabilityLevel() observability.ObservabilityLevel {
	level, err := observability.ParseLevel(c.Defaults.Observability)
	if err != nil {
		return observability.ObservabilityOff
	}
	return level
}

// containsField checks if a nested field exists in the YAML data
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		if i == len(path)-1 {
			_, exists := current[key]
			return exists
		}
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}

// ValidateConfig reports the first invalid setting.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	d := config.Defaults
	if err := validateLocale(d.Locale); err != nil {
		return fmt.Errorf("defaults.locale: %w", err)
	}
	if err := validateCategories(d.Categories); err != nil {
		return fmt.Errorf("defaults.categories: %w", err)
	}
	if d.MinConfidence < 0 || d.MinConfidence > 1 {
		return fmt.Errorf("defaults.min_confidence: %v not in [0,1]", d.MinConfidence)
	}
	if d.MaxInputBytes < 0 {
		return fmt.Errorf("defaults.max_input_bytes: must not be negative")
	}
	if _, err := zapcore.ParseLevel(d.LogLevel); err != nil {
		return fmt.Errorf("defaults.log_level: %w", err)
	}
	if _, err := observability.ParseLevel(d.Observability); err != nil {
		return fmt.Errorf("defaults.observability: %w", err)
	}
	if err := paths.ValidatePath(d.OutputDir); err != nil {
		return fmt.Errorf("defaults.output_dir: %w", err)
	}

	if err := validatePatterns(config.Patterns); err != nil {
		return err
	}

	switch config.Store.Driver {
	case "", "file":
		if err := paths.ValidatePath(config.Store.FileDir); err != nil {
			return fmt.Errorf("store.file_dir: %w", err)
		}
	case "postgres":
		if config.Store.DatabaseURL == "" {
			return fmt.Errorf("store.database_url: required for the postgres driver")
		}
	default:
		return fmt.Errorf("store.driver: unknown driver %q", config.Store.Driver)
	}

	if config.Server.RateLimitPerSec < 0 || config.Server.RateLimitBurst < 0 {
		return fmt.Errorf("server: rate limits must not be negative")
	}
	if config.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes: must not be negative")
	}

	for _, name := range config.ListProfiles() {
		p := config.Profiles[name]
		if err := validateLocale(detector.NormalizeLocale(p.Locale)); err != nil {
			return fmt.Errorf("profiles.%s.locale: %w", name, err)
		}
		if err := validateCategories(p.Categories); err != nil {
			return fmt.Errorf("profiles.%s.categories: %w", name, err)
		}
		if p.MinConfidence < 0 || p.MinConfidence > 1 {
			return fmt.Errorf("profiles.%s.min_confidence: %v not in [0,1]", name, p.MinConfidence)
		}
		if err := paths.ValidatePath(p.OutputDir); err != nil {
			return fmt.Errorf("profiles.%s.output_dir: %w", name, err)
		}
	}
	return nil
}

func validateLocale(locale string) error {
	if locale == "" {
		return nil
	}
	if len(locale) != 2 || locale[0] < 'A' || locale[0] > 'Z' || locale[1] < 'A' || locale[1] > 'Z' {
		return fmt.Errorf("%s is not an ISO 3166-1 alpha-2 code", strconv.Quote(locale))
	}
	return nil
}

func validateCategories(names []string) error {
	for _, name := range names {
		if name == "all" {
			continue
		}
		if _, err := detector.ParseCategory(name); err != nil {
			return err
		}
	}
	return nil
}

func validatePatterns(p PatternConfig) error {
	tables := []struct {
		name  string
		table map[string][]string
	}{
		{"phone", p.Phone},
		{"postcode", p.Postcode},
		{"national_id", p.NationalID},
		{"social", p.Social},
	}
	for _, t := range tables {
		keys := make([]string, 0, len(t.table))
		for k := range t.table {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for i, expr := range t.table[k] {
				if err := patterns.CompileCheck(expr); err != nil {
					return fmt.Errorf("patterns.%s.%s[%d]: %w", t.name, k, i, err)
				}
			}
		}
	}
	return nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration.
// This is the shared helper used by both the CLI and the web server.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		// Fall back to defaults; callers should not crash on a missing/bad config file.
		if cfg, err = LoadConfig(""); err != nil {
			cfg = Default()
		}
	}
	return cfg
}
