// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"cv-sanitizer/internal/observability"
	"cv-sanitizer/internal/sessions"
	"cv-sanitizer/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		listenAddr string
		noStore    bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if listenAddr != "" {
				cfg.Server.ListenAddr = listenAddr
			}

			metrics := observability.NewMetrics("cvsanitizer", nil)
			observer.WithMetrics(metrics)

			scanner, err := newScanner()
			if err != nil {
				return err
			}

			var store sessions.Store
			if !noStore {
				if store, err = openStore(ctx); err != nil {
					return err
				}
				defer store.Close()
			}

			return web.New(cfg.Server, scanner, store, metrics).ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Do not record sessions in the audit store")
	return cmd
}
