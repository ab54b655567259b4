// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AleutianAI/caseledger/pkg/casefile"
)

// keyMsg builds the key message bubbletea would deliver for one rune.
func keyMsg(r string) tea.KeyMsg {
	return tea.KeyMsg(tea.Key{Type: tea.KeyRunes, Runes: []rune(r)})
}

func TestParseCaseID(t *testing.T) {
	tests := []struct {
		arg     string
		want    uint32
		wantErr bool
	}{
		{"100001", 100001, false},
		{"0", 0, false},
		{"-5", 0, true},
		{"abc", 0, true},
		{"4294967296", 0, true}, // overflows uint32
	}
	for _, tt := range tests {
		got, err := parseCaseID(tt.arg)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCaseID(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseCaseID(%q) = %d, want %d", tt.arg, got, tt.want)
		}
	}
}

func TestCaseRows(t *testing.T) {
	rows := caseRows([]casefile.Case{
		{ID: 100001, Title: "t", Plaintiff: "p", Defendant: "q", Type: "Civil",
			Opened: "01/01/2025", Scheduled: "02/01/2025"},
	})
	if len(rows) != 1 {
		t.Fatalf("got %d rows", len(rows))
	}
	if len(rows[0]) != len(caseHeader) {
		t.Errorf("row width %d does not match header width %d", len(rows[0]), len(caseHeader))
	}
	if rows[0][0] != "100001" {
		t.Errorf("id cell = %q", rows[0][0])
	}
}

func TestBrowseModel_Navigation(t *testing.T) {
	m := browseModel{cases: []casefile.Case{{ID: 1}, {ID: 2}}}

	next, _ := m.Update(keyMsg("n"))
	m = next.(browseModel)
	if m.cursor != 1 {
		t.Errorf("cursor after next = %d, want 1", m.cursor)
	}

	// Bounded at the last case.
	next, _ = m.Update(keyMsg("n"))
	m = next.(browseModel)
	if m.cursor != 1 {
		t.Errorf("cursor must not run past the end, got %d", m.cursor)
	}

	next, _ = m.Update(keyMsg("p"))
	m = next.(browseModel)
	if m.cursor != 0 {
		t.Errorf("cursor after prev = %d, want 0", m.cursor)
	}
}
