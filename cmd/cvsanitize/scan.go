// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cv-sanitizer/internal/core"
	"cv-sanitizer/internal/formatters"
	"cv-sanitizer/internal/redactors"
	"cv-sanitizer/internal/review"
)

// redactedSampleChars is how much redacted text the summary shows.
const redactedSampleChars = 500

func newDetectCmd() *cobra.Command {
	var (
		format     string
		confidence string
		showMatch  bool
		verbose    bool
		outputFile string
	)
	cmd := &cobra.Command{
		Use:   "detect <file>...",
		Short: "Report the personal information found in one or more CVs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			levels, err := formatters.ParseConfidenceLevels(confidence)
			if err != nil {
				return err
			}
			if format == "" {
				format = cfg.Defaults.Format
			}
			scanner, err := newScanner()
			if err != nil {
				return err
			}

			reports := make([]formatters.Report, 0, len(args))
			for _, path := range args {
				result, err := scanner.ScanFile(cmd.Context(), path, "")
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				reports = append(reports, result.Report())
			}

			out, err := formatters.Export(format, reports, formatters.FormatterOptions{
				ConfidenceLevel: levels,
				Verbose:         verbose,
				NoColor:         cfg.Defaults.NoColor || outputFile != "",
				ShowMatch:       showMatch,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), outputFile, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: "+strings.Join(formatters.List(), ", "))
	cmd.Flags().StringVar(&confidence, "confidence", "all", "Confidence levels to report (high, medium, low, all)")
	cmd.Flags().BoolVar(&showMatch, "show-match", false, "Print matched text instead of [REDACTED]")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Include the surrounding line and metadata")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the report to a file")
	return cmd
}

func newPreviewCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show a CV with every detection highlighted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner, err := newScanner()
			if err != nil {
				return err
			}
			result, err := scanner.ScanFile(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			preview := redactors.Preview(result.Document.Text, result.Matches)

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(preview)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(preview)
			case "text", "":
				printPreview(out, result.Locale, preview)
				return nil
			default:
				return fmt.Errorf("unsupported preview format %q (json, yaml, text)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json, yaml)")
	return cmd
}

func printPreview(out io.Writer, locale string, p redactors.PreviewResult) {
	header := color.New(color.FgBlue, color.Bold)
	if cfg.Defaults.NoColor {
		header.DisableColor()
	}

	header.Fprintln(out, "PII Detection Preview")
	fmt.Fprintf(out, "Country: %s\nTotal PII items detected: %d\n\n", locale, p.TotalItems)
	if p.TotalItems > 0 {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PII Type\tCount\tExamples")
		for _, name := range sortedKeys(p.ByCategory) {
			items := p.ByCategory[name]
			var examples []string
			for i, d := range items {
				if i == 3 {
					examples = append(examples, "...")
					break
				}
				examples = append(examples, d.Text)
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\n", name, len(items), strings.Join(examples, ", "))
		}
		tw.Flush()
		fmt.Fprintln(out)
	}
	header.Fprintln(out, "Text with highlights")
	fmt.Fprintln(out, p.TextWithHighlights)
}

func newRedactCmd() *cobra.Command {
	var (
		outputDir   string
		autoConfirm bool
		username    string
	)
	cmd := &cobra.Command{
		Use:   "redact <file>",
		Short: "Review the detections in a CV and write the redacted output",
		Long: `redact detects personal information in a CV, opens an interactive review
where detections can be kept, removed or corrected and missed items added, and
after confirmation writes <name>_redacted.json and <name>.pii.json. Use --yes to
accept every detection without review.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scanner, err := newScanner()
			if err != nil {
				return err
			}

			var reviewer core.Reviewer = core.AutoConfirm{}
			if !autoConfirm {
				r, err := review.NewTerminal(cfg.Defaults.NoColor)
				if err != nil {
					return fmt.Errorf("%w; use --yes to redact without review", err)
				}
				reviewer = r
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
			outcome, err := scanner.RedactFile(ctx, args[0], core.RedactOptions{
				OutputDir: outputDir,
				Username:  username,
				Reviewer:  reviewer,
				Store:     store,
			})
			out := cmd.OutOrStdout()
			switch {
			case errors.Is(err, core.ErrRejected), errors.Is(err, review.ErrAborted):
				fmt.Fprintln(out, "Redaction cancelled. No files were written.")
				return nil
			case err != nil:
				return err
			}
			printRedactSummary(out, args[0], outcome)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the output files (default: next to the input)")
	cmd.Flags().BoolVarP(&autoConfirm, "yes", "y", false, "Accept every detection without interactive review")
	cmd.Flags().StringVar(&username, "user", "", "Reviewer name recorded in the audit trail (default: current user)")
	return cmd
}

func printRedactSummary(out io.Writer, path string, o *core.RedactOutcome) {
	header := color.New(color.FgBlue, color.Bold)
	ok := color.New(color.FgGreen)
	if cfg.Defaults.NoColor {
		header.DisableColor()
		ok.DisableColor()
	}

	if o.Result == nil {
		ok.Fprintln(out, "✓ No PII to redact. No files were written.")
	} else {
		header.Fprintln(out, "Redaction Summary")
		fmt.Fprintf(out, "Total PII items redacted: %d\n", len(o.Result.Mapping))

		counts := make(map[string]int)
		for _, e := range o.Result.Mapping {
			counts[e.Category.String()]++
		}
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PII Type\tCount")
		for _, name := range sortedKeys(counts) {
			fmt.Fprintf(tw, "%s\t%d\n", name, counts[name])
		}
		tw.Flush()

		sample := o.Result.RedactedText
		if len(sample) > redactedSampleChars {
			sample = strings.ToValidUTF8(sample[:redactedSampleChars], "") + "..."
		}
		fmt.Fprintf(out, "\nSample of redacted text:\n%s\n\n", sample)
	}

	header.Fprintln(out, "Final Summary")
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File\t%s\n", path)
	fmt.Fprintf(tw, "Text length\t%d characters\n", len(o.Scan.Document.Text))
	fmt.Fprintf(tw, "PII detected\t%d\n", len(o.Scan.Matches))
	fmt.Fprintf(tw, "User edits\t%d\n", len(o.Edits))
	fmt.Fprintf(tw, "Country code\t%s\n", o.Scan.Locale)
	if o.SessionID != "" {
		fmt.Fprintf(tw, "Session\t%s\n", o.SessionID)
	}
	tw.Flush()

	if o.Outputs != nil {
		fmt.Fprintln(out)
		ok.Fprintf(out, "✓ Redacted CV: %s\n", o.Outputs.RedactedJSON)
		ok.Fprintf(out, "✓ PII mapping: %s (keep this file private)\n", o.Outputs.MappingJSON)
	}
}

func newRestoreCmd() *cobra.Command {
	var mappingPath, outputFile string
	cmd := &cobra.Command{
		Use:   "restore <redacted-file>",
		Short: "Put the original values back into redacted text",
		Long: `restore reverses a redaction using its PII mapping. The input is either a
<name>_redacted.json document or plain text containing placeholders. When
--mapping is not given, <name>.pii.json next to the input is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if mappingPath == "" {
				mappingPath = defaultMappingPath(path)
			}
			mapping, err := redactors.LoadMapping(mappingPath)
			if err != nil {
				return err
			}

			var text string
			if strings.EqualFold(filepath.Ext(path), ".json") {
				doc, err := redactors.LoadRedacted(path)
				if err != nil {
					return err
				}
				text = doc.RedactedText
			} else {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				text = string(data)
			}
			return writeOutput(cmd.OutOrStdout(), outputFile, redactors.Restore(text, mapping))
		},
	}
	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "PII mapping file")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the restored text to a file")
	return cmd
}

// defaultMappingPath derives <dir>/<name>.pii.json from a redacted output path.
func defaultMappingPath(path string) string {
	dir, base := filepath.Split(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSuffix(base, "_redacted")
	return filepath.Join(dir, base+".pii.json")
}

func writeOutput(stdout io.Writer, path, content string) error {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if path == "" {
		_, err := io.WriteString(stdout, content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
