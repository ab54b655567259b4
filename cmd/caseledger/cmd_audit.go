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
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/caseledger/pkg/audit"
	"github.com/AleutianAI/caseledger/pkg/ux"
)

var (
	auditType  string
	auditActor string
	auditLimit int

	auditCmd = &cobra.Command{
		Use:   "audit",
		Short: "Show the audit trail",
		RunE:  runAudit,
	}
)

func init() {
	auditCmd.Flags().StringVar(&auditType, "type", "", "filter by event type (e.g. case.add)")
	auditCmd.Flags().StringVar(&auditActor, "actor", "", "filter by actor")
	auditCmd.Flags().IntVar(&auditLimit, "limit", 0, "maximum events to show (0 = all)")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	filter := audit.Filter{Actor: auditActor, Limit: auditLimit}
	if auditType != "" {
		filter.EventTypes = []string{auditType}
	}

	events, err := app.trail.Query(cmd.Context(), filter)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		ux.Muted("no audit events")
		return nil
	}

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			e.Timestamp.Format(time.RFC3339),
			e.EventType, e.Actor, e.Outcome, e.ResourceID,
		})
	}
	fmt.Print(ux.Table([]string{"TIME", "EVENT", "ACTOR", "OUTCOME", "RESOURCE"}, rows))
	return nil
}
