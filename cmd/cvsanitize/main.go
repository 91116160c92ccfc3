// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cv-sanitizer/internal/config"
	"cv-sanitizer/internal/core"
	"cv-sanitizer/internal/logger"
	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/sessions"
	"cv-sanitizer/internal/suppressions"

	_ "cv-sanitizer/internal/formatters/json"
	_ "cv-sanitizer/internal/formatters/text"
	_ "cv-sanitizer/internal/formatters/yaml"
)

var (
	configFile  string
	profileName string
	logLevel    string
	locale      string
	categories  []string
	noColor     bool
	obsLevel    string

	suppressionsFile string
	noSuppressions   bool

	cfg      *config.Config
	observer *observability.StandardObserver

	exitFunc = os.Exit
)

func main() {
	rootCmd := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		logger.Error("Command execution failed", zap.Error(err))
		exitFunc(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cvsanitize",
		Short: "Detect and redact personal information in CVs",
		Long: `cvsanitize finds personally identifiable information in CVs with
locale-aware rules, lets a reviewer adjust the detections and writes a
redacted copy plus a private mapping that can restore the original text.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to configuration file (default: search standard locations)")
	flags.StringVar(&profileName, "profile", "", "Configuration profile to apply")
	flags.StringVar(&logLevel, "log-level", "", "Set log level (debug, info, warn, error). Overrides CVSANITIZER_LOG_LEVEL")
	flags.StringVarP(&locale, "country", "c", "", "Country code for locale specific rules (default from config, GB)")
	flags.StringSliceVar(&categories, "checks", nil, "Categories to detect, comma separated (default all)")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&obsLevel, "observability", "", "Observability level (off, metrics, debug)")
	flags.StringVar(&suppressionsFile, "suppressions", "", "Ignore list file (default from config, <config dir>/suppressions.yaml)")
	flags.BoolVar(&noSuppressions, "no-suppressions", false, "Report ignored values too")

	rootCmd.AddCommand(
		newDetectCmd(),
		newPreviewCmd(),
		newRedactCmd(),
		newRestoreCmd(),
		newBatchCmd(),
		newServeCmd(),
		newSessionsCmd(),
		newAuditCmd(),
		newIgnoreCmd(),
		newChecksCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// setup loads the configuration and applies the global flags.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	if configFile != "" {
		if cfg, err = config.LoadConfig(configFile); err != nil {
			return err
		}
	} else {
		cfg = config.LoadConfigOrDefault("")
	}
	if err := cfg.ApplyProfile(profileName); err != nil {
		return err
	}

	if logLevel != "" {
		logger.SetLevel(logLevel)
	} else if cfg.Defaults.LogLevel != "" {
		logger.SetLevel(cfg.Defaults.LogLevel)
	}

	if locale != "" {
		cfg.Defaults.Locale = locale
	}
	if noColor {
		cfg.Defaults.NoColor = true
	}
	if obsLevel != "" {
		cfg.Defaults.Observability = obsLevel
	}
	if suppressionsFile != "" {
		cfg.Defaults.SuppressionsFile = suppressionsFile
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}

	observer = observability.NewStandardObserver(cfg.ObservabilityLevel(), os.Stderr)
	logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("profile", profileName),
		zap.String("locale", cfg.Defaults.Locale),
		zap.String("observability", cfg.ObservabilityLevel().String()))
	return nil
}

func newScanner() (*core.Scanner, error) {
	sc := core.ScanConfig{
		Config:     cfg,
		Categories: categories,
		Observer:   observer,
	}
	if !noSuppressions {
		sm, err := suppressions.NewSuppressionManager(cfg.Defaults.SuppressionsFile)
		if err != nil {
			return nil, err
		}
		sc.Suppressions = sm
	}
	return core.NewScanner(sc)
}

func openStore(ctx context.Context) (sessions.Store, error) {
	store, err := sessions.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return store, nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
