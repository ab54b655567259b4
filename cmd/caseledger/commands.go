// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AleutianAI/caseledger/pkg/audit"
	"github.com/AleutianAI/caseledger/pkg/logging"
	"github.com/AleutianAI/caseledger/pkg/ux"
	"github.com/AleutianAI/caseledger/services/credential"
	"github.com/AleutianAI/caseledger/services/docket"
	"github.com/AleutianAI/caseledger/services/document"
)

// Store file names inside the data directory.
const (
	casesFile     = "cases.bin"
	documentsFile = "documents.bin"
	usersFile     = "user.huff"
)

// app is the wired application context, built once in PersistentPreRunE
// and shared by every subcommand.
var app struct {
	docket *docket.Docket
	docs   *document.Service
	creds  *credential.Service
	trail  audit.Trail
	logger *logging.Logger
}

var rootCmd = &cobra.Command{
	Use:   "caseledger",
	Short: "A local case docket: indexing, scheduling, and records",
	Long: `Caseledger manages a court docket on local flat files: cases are
indexed in a fixed hash table under a selectable collision strategy,
hearing dates are reserved on an availability grid, and every record
lives in an append-only binary store.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.logger != nil {
			_ = app.logger.Close()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("data-dir", "~/.caseledger", "directory holding the store files")
	flags.Int("table-size", 0, "hash index slot count (0 = default)")
	flags.Int("base-year", 0, "first schedulable year (0 = default)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.Bool("plain", false, "unstyled output for scripts")
	flags.Bool("no-audit", false, "disable the audit trail")

	viper.SetEnvPrefix("CASELEDGER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, name := range []string{"data-dir", "table-size", "base-year", "log-level", "plain", "no-audit"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// setup loads config, initializes logging, and wires the services.
func setup(cmd *cobra.Command, args []string) error {
	ux.SetPlain(viper.GetBool("plain"))

	dataDir, err := expandPath(viper.GetString("data-dir"))
	if err != nil {
		return fmt.Errorf("resolve data directory: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(viper.GetString("log-level")),
		LogDir:  filepath.Join(dataDir, "logs"),
		Service: "caseledger",
		Quiet:   true,
	})
	app.logger = logger

	d, err := docket.New(docket.Config{
		StorePath: filepath.Join(dataDir, casesFile),
		TableSize: viper.GetInt("table-size"),
		BaseYear:  viper.GetInt("base-year"),
		Logger:    logger.Slog(),
	})
	if err != nil {
		return err
	}
	app.docket = d
	app.docs = document.New(filepath.Join(dataDir, documentsFile), logger.Slog())

	creds, err := credential.New(filepath.Join(dataDir, usersFile), logger.Slog())
	if err != nil {
		return err
	}
	app.creds = creds

	if viper.GetBool("no-audit") {
		app.trail = audit.NopTrail{}
	} else {
		trail, err := audit.NewFileTrail(filepath.Join(dataDir, "audit.log"))
		if err != nil {
			return err
		}
		app.trail = trail
	}
	return nil
}

// record writes an audit event, downgrading failures to a log warning so
// auditing never blocks the operation it describes.
func record(cmd *cobra.Command, event audit.Event) {
	if err := app.trail.Log(cmd.Context(), event); err != nil {
		app.logger.Warn("audit write failed", "event_type", event.EventType, "error", err)
	}
}

// expandPath resolves a leading ~ against the user's home directory.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
