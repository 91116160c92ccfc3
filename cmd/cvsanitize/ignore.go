// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"cv-sanitizer/internal/suppressions"
)

func newIgnoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ignore",
		Short: "Manage the list of values that are never reported",
		Long: `ignore maintains the suppression list of known false positives, for
example an employer or university whose name looks like a person's. The list
stores a hash of each value, not the value itself.`,
	}

	load := func() (*suppressions.SuppressionManager, error) {
		return suppressions.NewSuppressionManager(cfg.Defaults.SuppressionsFile)
	}

	var (
		category string
		reason   string
		expires  time.Duration
	)
	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Ignore a value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, err := load()
			if err != nil {
				return err
			}
			var expiresAt *time.Time
			if expires > 0 {
				t := time.Now().Add(expires).UTC()
				expiresAt = &t
			}
			rule, err := sm.AddSuppression(category, args[0], reason, currentUser(), expiresAt)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", rule.ID, sm.GetConfigPath())
			return nil
		},
	}
	add.Flags().StringVar(&category, "category", "", "Only ignore the value in this category (default: any)")
	add.Flags().StringVar(&reason, "reason", "", "Why the value is not personal information")
	add.Flags().DurationVar(&expires, "expires", 0, "Expire the rule after this long (default: never)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List ignore rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sm, err := load()
			if err != nil {
				return err
			}
			now := time.Now()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCATEGORY\tACTIVE\tEXPIRES\tCREATED BY\tREASON")
			for _, r := range sm.ListSuppressions() {
				category, expiresAt := r.Category, "never"
				if category == "" {
					category = "any"
				}
				if r.ExpiresAt != nil {
					expiresAt = r.ExpiresAt.Format(time.DateTime)
				}
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\t%s\n", r.ID, category, r.Active(now), expiresAt, r.CreatedBy, r.Reason)
			}
			return tw.Flush()
		},
	}

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete an ignore rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sm, err := load()
			if err != nil {
				return err
			}
			return sm.RemoveSuppression(args[0])
		},
	}

	toggle := func(use, short string, enabled bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				sm, err := load()
				if err != nil {
					return err
				}
				return sm.SetRuleEnabled(args[0], enabled)
			},
		}
	}

	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired ignore rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sm, err := load()
			if err != nil {
				return err
			}
			removed, err := sm.CleanupExpired()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired rules\n", removed)
			return nil
		},
	}

	cmd.AddCommand(add, list, remove,
		toggle("enable", "Re-enable an ignore rule", true),
		toggle("disable", "Disable an ignore rule without deleting it", false),
		cleanup)
	return cmd
}
