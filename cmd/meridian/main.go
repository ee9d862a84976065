// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// meridian is the document dependency registry CLI.
//
// It serves the registry HTTP API and runs offline integrity queries
// against a registry store:
//
//	meridian serve                 # run the HTTP API
//	meridian scan                  # corpus-wide cycle audit
//	meridian chain POL-1-v01.00    # one-shot chain query
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MeridianDMS/MeridianCore/services/registry"
)

var (
	// configPath is the --config flag shared by all subcommands.
	configPath string

	// cfg is populated from the config file before any command runs.
	cfg registry.ServiceConfig
)

var rootCmd = &cobra.Command{
	Use:   "meridian",
	Short: "Document dependency registry and lifecycle validation",
	Long: `Meridian tracks dependencies between controlled documents and
validates lifecycle transitions against the dependency graph.

The registry rejects dependency edges that would create circular
references, answers bounded-depth chain queries, and decides whether a
document family can be retired without stranding live dependents.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := registry.LoadServiceConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to YAML config file (defaults apply when omitted)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(chainCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
