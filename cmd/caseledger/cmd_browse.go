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

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/caseledger/pkg/casefile"
	"github.com/AleutianAI/caseledger/pkg/ux"
)

var caseBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Page through active cases one at a time",
	RunE:  runCaseBrowse,
}

func init() {
	caseCmd.AddCommand(caseBrowseCmd)
}

// browseKeyMap binds the pager keys.
type browseKeyMap struct {
	Next key.Binding
	Prev key.Binding
	Quit key.Binding
}

var browseKeys = browseKeyMap{
	Next: key.NewBinding(
		key.WithKeys("n", "right", "pgdown"),
		key.WithHelp("n", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("p", "left", "pgup"),
		key.WithHelp("p", "previous"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// browseModel is the bubbletea model for the case pager: a cursor over
// the snapshot of active cases taken when the command started.
type browseModel struct {
	cases  []casefile.Case
	cursor int
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, browseKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, browseKeys.Next):
			if m.cursor < len(m.cases)-1 {
				m.cursor++
			}
		case key.Matches(msg, browseKeys.Prev):
			if m.cursor > 0 {
				m.cursor--
			}
		}
	}
	return m, nil
}

func (m browseModel) View() string {
	c := m.cases[m.cursor]
	card := fmt.Sprintf(
		"%s\n\nCase ID:    %d\nPlaintiff:  %s\nDefendant:  %s\nType:       %s\nOpened:     %s\nHearing:    %s",
		ux.Styles.Title.Render(c.Title),
		c.ID, c.Plaintiff, c.Defendant, c.Type, c.Opened, c.Scheduled,
	)
	footer := ux.Styles.Muted.Render(fmt.Sprintf(
		"case %d of %d  •  n next  p previous  q quit",
		m.cursor+1, len(m.cases),
	))
	return ux.Styles.Box.Render(card) + "\n" + footer + "\n"
}

func runCaseBrowse(cmd *cobra.Command, args []string) error {
	cases, err := app.docket.ActiveCases(cmd.Context())
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		ux.Muted("docket is empty")
		return nil
	}

	_, err = tea.NewProgram(browseModel{cases: cases}).Run()
	return err
}
