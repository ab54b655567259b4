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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/caseledger/pkg/ux"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show docket engine status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cases, err := app.docket.ActiveCases(cmd.Context())
	if err != nil {
		return err
	}
	live, size := app.docket.IndexStats()

	ux.Title("Caseledger status")
	ux.Info(fmt.Sprintf("active cases:     %d", len(cases)))
	ux.Info(fmt.Sprintf("index occupancy:  %d/%d (this session)", live, size))
	ux.Info(fmt.Sprintf("pending undo:     %d", app.docket.PendingUndo()))
	ux.Info(fmt.Sprintf("registered users: %d", app.creds.UserCount()))
	return nil
}
