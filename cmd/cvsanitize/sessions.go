// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"cv-sanitizer/internal/sessions"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect recorded redaction sessions",
	}

	var username string
	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), username)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tUSER\tSTATUS\tPII\tEDITS\tDOCUMENT")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
					r.ID, r.CreatedAt.Format(time.DateTime), r.Username, r.Status,
					len(r.Detections), len(r.Edits), r.Document)
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&username, "user", "", "Only sessions of this user")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a session record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func newAuditCmd() *cobra.Command {
	var from, to, username string
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Summarise the audit trail over a time range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fromTime, err := parseTimeFlag("from", from)
			if err != nil {
				return err
			}
			toTime, err := parseTimeFlag("to", to)
			if err != nil {
				return err
			}

			store, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), username)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sessions.Summarize(records, fromTime, toTime))
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Start of the range (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "End of the range (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&username, "user", "", "Only sessions of this user")
	return cmd
}

// parseTimeFlag accepts RFC3339 or a bare date; empty is the zero time.
func parseTimeFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: use RFC3339 or YYYY-MM-DD", name, value)
	}
	return t, nil
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
