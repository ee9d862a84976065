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
	"time"

	"github.com/spf13/cobra"

	"github.com/MeridianDMS/MeridianCore/pkg/logging"
	"github.com/MeridianDMS/MeridianCore/services/depgraph"
	"github.com/MeridianDMS/MeridianCore/services/depgraph/badgerstore"
)

var scanJSONOutput bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Audit the corpus for circular dependencies",
	Long: `Scans every active dependency edge in the store and reports
circular references between document families.

A healthy corpus reports no cycles; the write path refuses edges that
would create one. Cycles can still appear after bulk imports or manual
store surgery, and this audit is how they are found.

Exit status is 0 when the corpus is clean and 2 when cycles exist, so
the command slots into cron and CI checks.

Examples:
  meridian scan
  meridian scan --json`,
	RunE: runScanCommand,
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSONOutput, "json", false,
		"Output as JSON for scripting")
}

func runScanCommand(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Log.Level),
		Service: "scan",
		Quiet:   scanJSONOutput,
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

	cycles, err := engine.FindCycles(cmd.Context())
	if err != nil {
		return err
	}

	if scanJSONOutput {
		report := struct {
			Cycles    [][]depgraph.FamilyKey `json:"cycles"`
			Count     int                    `json:"count"`
			ScannedAt time.Time              `json:"scanned_at"`
		}{cycles, len(cycles), time.Now().UTC()}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		if len(cycles) == 0 {
			fmt.Println("No circular dependencies found.")
		} else {
			fmt.Printf("Found %d circular dependency chain(s):\n", len(cycles))
			for i, cycle := range cycles {
				keys := make([]string, len(cycle))
				for j, k := range cycle {
					keys[j] = string(k)
				}
				fmt.Printf("  %d. %s\n", i+1, strings.Join(keys, " -> "))
			}
		}
	}

	if len(cycles) > 0 {
		os.Exit(2)
	}
	return nil
}

// openStoreReadOnlyish opens the configured store without the GC loop;
// offline queries finish quickly and do not need background collection.
func openStoreReadOnlyish() (*badgerstore.Store, error) {
	storeCfg := badgerstore.DefaultConfig(cfg.Store.Path)
	storeCfg.InMemory = cfg.Store.InMemory
	storeCfg.SyncWrites = false
	storeCfg.GCInterval = 0
	return badgerstore.Open(storeCfg)
}
