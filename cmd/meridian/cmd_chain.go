// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeridianDMS/MeridianCore/pkg/logging"
	"github.com/MeridianDMS/MeridianCore/services/depgraph"
)

var (
	chainDirection  string
	chainDepth      int
	chainJSONOutput bool
)

var chainCmd = &cobra.Command{
	Use:   "chain <document-id>",
	Short: "Walk a document's dependency chain",
	Long: `Walks the dependency chain of one document breadth-first, up
to the configured depth.

Direction "dependencies" answers "what does this document rely on";
"dependents" answers "what would break if this document changed".

Examples:
  meridian chain POL-2025-0001-v02.00
  meridian chain SOP-0042-v01.00 --direction dependents --depth 3
  meridian chain SOP-0042-v01.00 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runChainCommand,
}

func init() {
	chainCmd.Flags().StringVarP(&chainDirection, "direction", "d", "dependencies",
		"Traversal direction: dependencies or dependents")
	chainCmd.Flags().IntVar(&chainDepth, "depth", 10,
		"Maximum traversal depth")
	chainCmd.Flags().BoolVar(&chainJSONOutput, "json", false,
		"Output as JSON for scripting")
}

func runChainCommand(cmd *cobra.Command, args []string) error {
	startID := args[0]

	direction, err := depgraph.ParseChainDirection(chainDirection)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Log.Level),
		Service: "chain",
		Quiet:   chainJSONOutput,
	})
	defer func() { _ = logger.Close() }()

	store, err := openStoreReadOnlyish()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	engine, err := depgraph.NewEngine(store, store, logger.Slog())
	if err != nil {
		return err
	}

	entries, err := engine.Chain(cmd.Context(), startID, direction, chainDepth)
	if err != nil {
		return err
	}

	if chainJSONOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Printf("%s has no %s within depth %d.\n", startID, direction, chainDepth)
		return nil
	}

	fmt.Printf("%s of %s (depth %d):\n", direction, startID, chainDepth)
	for _, entry := range entries {
		marker := ""
		if entry.IsCritical {
			marker = " [critical]"
		}
		fmt.Printf("%s%s (%s from %s)%s\n",
			strings.Repeat("  ", entry.Depth),
			entry.DocumentID, entry.Type, entry.ParentID, marker)
	}
	return nil
}
