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
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/caseledger/pkg/audit"
	"github.com/AleutianAI/caseledger/pkg/casefile"
	"github.com/AleutianAI/caseledger/pkg/hashindex"
	"github.com/AleutianAI/caseledger/pkg/ux"
	"github.com/AleutianAI/caseledger/pkg/validation"
	"github.com/AleutianAI/caseledger/services/docket"
)

var (
	caseCmd = &cobra.Command{
		Use:   "case",
		Short: "Manage docket cases",
	}

	addStrategy  string
	addTitle     string
	addPlaintiff string
	addDefendant string
	addType      string
	addOpened    string

	caseAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Add a case and schedule its hearing",
		Long: `Adds a case to the docket. The id is generated and placed in the hash
index under the chosen collision strategy; the hearing lands on the
earliest open date. Omitted fields are collected interactively.`,
		RunE: runCaseAdd,
	}

	caseDeleteCmd = &cobra.Command{
		Use:   "delete [case-id]",
		Short: "Delete a case (restorable with undo)",
		Args:  cobra.ExactArgs(1),
		RunE:  runCaseDelete,
	}

	undoYes bool

	caseUndoCmd = &cobra.Command{
		Use:   "undo",
		Short: "Restore the most recently deleted case",
		RunE:  runCaseUndo,
	}

	caseListCmd = &cobra.Command{
		Use:   "list",
		Short: "List active cases in store order",
		RunE:  runCaseList,
	}

	caseDatesCmd = &cobra.Command{
		Use:   "dates",
		Short: "List active cases ordered by hearing date",
		RunE:  runCaseDates,
	}

	caseByIDCmd = &cobra.Command{
		Use:   "by-id",
		Short: "List active cases ordered by case id",
		RunE:  runCaseByID,
	}

	caseConnectedCmd = &cobra.Command{
		Use:   "connected [case-id]",
		Short: "List cases sharing a party with the given case",
		Args:  cobra.ExactArgs(1),
		RunE:  runCaseConnected,
	}
)

func init() {
	caseAddCmd.Flags().StringVar(&addStrategy, "strategy", "linear",
		"collision strategy: linear, progressive-overflow, quadratic, double-hash")
	caseAddCmd.Flags().StringVar(&addTitle, "title", "", "case title")
	caseAddCmd.Flags().StringVar(&addPlaintiff, "plaintiff", "", "plaintiff name")
	caseAddCmd.Flags().StringVar(&addDefendant, "defendant", "", "defendant name")
	caseAddCmd.Flags().StringVar(&addType, "type", "", "case type (e.g. Civil)")
	caseAddCmd.Flags().StringVar(&addOpened, "opened", "", "date opened, DD/MM/YYYY")

	caseUndoCmd.Flags().BoolVar(&undoYes, "yes", false, "restore without confirmation")

	caseCmd.AddCommand(caseAddCmd, caseDeleteCmd, caseUndoCmd,
		caseListCmd, caseDatesCmd, caseByIDCmd, caseConnectedCmd)
	rootCmd.AddCommand(caseCmd)
}

// parseCaseID parses a six-digit case id argument.
func parseCaseID(arg string) (uint32, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid case id %q", arg)
	}
	return uint32(id), nil
}

// promptMissingFields collects unset add fields interactively.
func promptMissingFields() error {
	var fields []huh.Field
	if addTitle == "" {
		fields = append(fields, huh.NewInput().Title("Case title").Value(&addTitle))
	}
	if addPlaintiff == "" {
		fields = append(fields, huh.NewInput().Title("Plaintiff").Value(&addPlaintiff))
	}
	if addDefendant == "" {
		fields = append(fields, huh.NewInput().Title("Defendant").Value(&addDefendant))
	}
	if addType == "" {
		fields = append(fields, huh.NewSelect[string]().
			Title("Case type").
			Options(
				huh.NewOption("Civil", "Civil"),
				huh.NewOption("Criminal", "Criminal"),
				huh.NewOption("Family", "Family"),
				huh.NewOption("Probate", "Probate"),
			).
			Value(&addType))
	}
	if addOpened == "" {
		fields = append(fields, huh.NewInput().
			Title("Date opened (DD/MM/YYYY)").
			Validate(validation.ValidateDate).
			Value(&addOpened))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func runCaseAdd(cmd *cobra.Command, args []string) error {
	strategy, err := hashindex.ParseStrategy(addStrategy)
	if err != nil {
		return err
	}
	if err := promptMissingFields(); err != nil {
		return err
	}

	c, err := app.docket.AddCase(cmd.Context(), docket.AddCaseInput{
		Title:     addTitle,
		Plaintiff: addPlaintiff,
		Defendant: addDefendant,
		Type:      addType,
		Opened:    addOpened,
	}, strategy)
	if err != nil {
		record(cmd, audit.Event{
			EventType: "case.add", Outcome: "failure",
			Metadata: map[string]any{"error": err.Error()},
		})
		return err
	}
	record(cmd, audit.Event{
		EventType: "case.add", Outcome: "success",
		ResourceID: strconv.FormatUint(uint64(c.ID), 10),
		Metadata:   map[string]any{"strategy": strategy.String(), "scheduled": c.Scheduled},
	})

	ux.Success(fmt.Sprintf("case %d added", c.ID))
	ux.Info(fmt.Sprintf("hearing scheduled for %s (%s placement)", c.Scheduled, strategy))
	return nil
}

func runCaseDelete(cmd *cobra.Command, args []string) error {
	id, err := parseCaseID(args[0])
	if err != nil {
		return err
	}
	if err := app.docket.DeleteCase(cmd.Context(), id); err != nil {
		return err
	}
	record(cmd, audit.Event{
		EventType: "case.delete", Outcome: "success", ResourceID: args[0],
	})
	ux.Success(fmt.Sprintf("case %d deleted", id))
	ux.Muted("restore it with: caseledger case undo")
	return nil
}

func runCaseUndo(cmd *cobra.Command, args []string) error {
	c, err := app.docket.PeekDeleted()
	if err != nil {
		return fmt.Errorf("nothing to restore: %w", err)
	}

	if !undoYes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Restore case %d (%s)?", c.ID, c.Title)).
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			ux.Muted("restore cancelled")
			return nil
		}
	}

	restored, err := app.docket.UndoDelete(cmd.Context())
	if err != nil {
		return err
	}
	record(cmd, audit.Event{
		EventType: "case.undo", Outcome: "success",
		ResourceID: strconv.FormatUint(uint64(restored.ID), 10),
	})
	ux.Success(fmt.Sprintf("case %d restored (hearing %s)", restored.ID, restored.Scheduled))
	return nil
}

// caseRows converts cases to table rows.
func caseRows(cases []casefile.Case) [][]string {
	rows := make([][]string, 0, len(cases))
	for _, c := range cases {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.Title, c.Plaintiff, c.Defendant, c.Type, c.Opened, c.Scheduled,
		})
	}
	return rows
}

var caseHeader = []string{"ID", "TITLE", "PLAINTIFF", "DEFENDANT", "TYPE", "OPENED", "HEARING"}

func runCaseList(cmd *cobra.Command, args []string) error {
	cases, err := app.docket.ActiveCases(cmd.Context())
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		ux.Muted("docket is empty")
		return nil
	}
	fmt.Print(ux.Table(caseHeader, caseRows(cases)))
	return nil
}

func runCaseDates(cmd *cobra.Command, args []string) error {
	cases, err := app.docket.CasesByScheduledDate(cmd.Context())
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		ux.Muted("docket is empty")
		return nil
	}
	ux.Title("Docket by hearing date")
	fmt.Print(ux.Table(caseHeader, caseRows(cases)))
	return nil
}

func runCaseByID(cmd *cobra.Command, args []string) error {
	cases, err := app.docket.CasesByID(cmd.Context())
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		ux.Muted("docket is empty")
		return nil
	}
	ux.Title("Docket by case id")
	fmt.Print(ux.Table(caseHeader, caseRows(cases)))
	return nil
}

func runCaseConnected(cmd *cobra.Command, args []string) error {
	id, err := parseCaseID(args[0])
	if err != nil {
		return err
	}
	connected, err := app.docket.ConnectedCases(cmd.Context(), id)
	if err != nil {
		return err
	}
	if len(connected) == 0 {
		ux.Muted("no connected cases")
		return nil
	}
	ux.Title(fmt.Sprintf("Cases connected to %d", id))
	fmt.Print(ux.Table(caseHeader, caseRows(connected)))
	return nil
}
