// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cv-sanitizer/internal/core"
	"cv-sanitizer/internal/help"
	"cv-sanitizer/internal/version"
)

func newChecksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checks [check]",
		Short: "Describe the available checks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := cfg.PatternLibrary()
			if err != nil {
				return err
			}
			system := help.NewSystem(cmd.OutOrStdout(), cfg.Defaults.NoColor)
			for _, d := range core.BuildDetectorSet(nil, lib, nil) {
				if p, ok := d.(help.Provider); ok {
					system.RegisterProvider(p)
				}
			}

			if len(args) == 0 {
				system.ShowChecksHelp()
				return nil
			}
			if !system.ShowCheckHelp(args[0]) {
				return fmt.Errorf("unknown check %q", args[0])
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	var short, asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case asJSON:
				return printJSON(cmd.OutOrStdout(), version.Get())
			case short:
				fmt.Fprintln(cmd.OutOrStdout(), version.Short())
			default:
				fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build details, including detection library versions, as JSON")
	return cmd
}
