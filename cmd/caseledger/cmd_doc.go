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
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/caseledger/pkg/ux"
	"github.com/AleutianAI/caseledger/services/document"
)

var (
	docCmd = &cobra.Command{
		Use:   "doc",
		Short: "Manage case documents",
	}

	attachTitle string
	attachFile  string
	attachBody  string

	docAttachCmd = &cobra.Command{
		Use:   "attach [case-id]",
		Short: "Attach a document to a case",
		Args:  cobra.ExactArgs(1),
		RunE:  runDocAttach,
	}

	docListCmd = &cobra.Command{
		Use:   "list [case-id]",
		Short: "List documents attached to a case",
		Args:  cobra.ExactArgs(1),
		RunE:  runDocList,
	}

	docSearchCmd = &cobra.Command{
		Use:   "search [pattern]",
		Short: "Search document text for an exact pattern",
		Args:  cobra.ExactArgs(1),
		RunE:  runDocSearch,
	}
)

func init() {
	docAttachCmd.Flags().StringVar(&attachTitle, "title", "", "document title (required)")
	docAttachCmd.Flags().StringVar(&attachFile, "file", "", "read the body from this file")
	docAttachCmd.Flags().StringVar(&attachBody, "body", "", "document body text")
	_ = docAttachCmd.MarkFlagRequired("title")

	docCmd.AddCommand(docAttachCmd, docListCmd, docSearchCmd)
	rootCmd.AddCommand(docCmd)
}

func runDocAttach(cmd *cobra.Command, args []string) error {
	id, err := parseCaseID(args[0])
	if err != nil {
		return err
	}
	// Attaching to a deleted or unknown case is refused up front.
	if _, err := app.docket.GetCase(cmd.Context(), id); err != nil {
		return err
	}

	body := attachBody
	if attachFile != "" {
		data, err := os.ReadFile(attachFile)
		if err != nil {
			return fmt.Errorf("read document body: %w", err)
		}
		body = string(data)
	}

	if err := app.docs.Attach(document.Document{
		CaseID: id, Title: attachTitle, Body: body,
	}); err != nil {
		return err
	}
	ux.Success(fmt.Sprintf("document %q attached to case %d", attachTitle, id))
	return nil
}

func runDocList(cmd *cobra.Command, args []string) error {
	id, err := parseCaseID(args[0])
	if err != nil {
		return err
	}
	docs, err := app.docs.ForCase(id)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		ux.Muted("no documents attached")
		return nil
	}

	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, []string{d.Title, strconv.Itoa(len(d.Body))})
	}
	fmt.Print(ux.Table([]string{"TITLE", "BYTES"}, rows))
	return nil
}

func runDocSearch(cmd *cobra.Command, args []string) error {
	matches, err := app.docs.Search(args[0])
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		ux.Muted("no matches")
		return nil
	}

	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(m.Document.CaseID), 10),
			m.Document.Title,
			strconv.Itoa(len(m.Offsets)),
		})
	}
	ux.Title(fmt.Sprintf("Matches for %q", args[0]))
	fmt.Print(ux.Table([]string{"CASE", "DOCUMENT", "HITS"}, rows))
	return nil
}
