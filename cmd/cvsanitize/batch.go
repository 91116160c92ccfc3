// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"cv-sanitizer/internal/core"
	"cv-sanitizer/internal/logger"
	"cv-sanitizer/internal/parallel"
)

func newBatchCmd() *cobra.Command {
	var (
		outputDir string
		recursive bool
		workers   int
		username  string
		quiet     bool
	)
	cmd := &cobra.Command{
		Use:   "batch <file|dir|glob>...",
		Short: "Redact many CVs concurrently without review",
		Long: `batch accepts every detection in each input and writes the redacted
outputs. A failing file is reported and does not stop the others; the command
exits non-zero when any file failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scanner, err := newScanner()
			if err != nil {
				return err
			}

			files, skipped, err := parallel.CollectFiles(args, recursive, scanner.SupportedExtensions())
			if err != nil {
				return err
			}
			for _, s := range skipped {
				logger.Warn("skipping file", zap.String("path", s.Path), zap.String("reason", s.Reason))
			}
			if len(files) == 0 {
				return fmt.Errorf("no supported files found")
			}

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if outputDir == "" {
				outputDir = cfg.Defaults.OutputDir
			}
			if username == "" {
				username = currentUser()
			}

			out := cmd.ErrOrStderr()
			showProgress := !quiet && term.IsTerminal(int(os.Stderr.Fd()))
			failed := color.New(color.FgRed)
			done := color.New(color.FgGreen)
			if cfg.Defaults.NoColor {
				failed.DisableColor()
				done.DisableColor()
			}

			_, stats, err := parallel.ProcessFiles(ctx, scanner, files, core.RedactOptions{
				OutputDir: outputDir,
				Username:  username,
				Store:     store,
			}, workers, func(completed, total int, r *parallel.JobResult) {
				switch {
				case r.Err != nil:
					failed.Fprintf(out, "[%d/%d] %s: %v\n", completed, total, r.Path, r.Err)
				case showProgress:
					done.Fprintf(out, "[%d/%d] %s: %d redacted\n", completed, total, r.Path, r.Matches())
				}
			})
			if stats != nil {
				fmt.Fprintf(cmd.OutOrStdout(),
					"Processed %d files with %d workers in %s: %d redacted, %d without PII, %d failed, %d items redacted\n",
					stats.TotalFiles, stats.WorkerCount, stats.TotalDuration.Round(1e6),
					stats.Succeeded, stats.NoPII, stats.Failed, stats.Matches)
			}
			if err != nil {
				return err
			}
			if stats.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", stats.Failed, stats.TotalFiles)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the output files (default: next to each input)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, fmt.Sprintf("Worker count (default: CPU count, at most %d)", parallel.MaxWorkers))
	cmd.Flags().StringVar(&username, "user", "", "Name recorded in the audit trail (default: current user)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only report failures")
	return cmd
}
