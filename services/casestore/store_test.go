// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package casestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/caseledger/pkg/casefile"
)

func testCase(id uint32, title string) casefile.Case {
	return casefile.Case{
		ID: id, Title: title, Plaintiff: "Rowe", Defendant: "Kane",
		Type: "Civil", Opened: "01/01/2025", Scheduled: "02/01/2025",
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "cases.bin"), nil)
}

func TestReadAll_MissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	cases, err := s.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, cases)
}

func TestAppendReadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	first := testCase(100001, "first")
	second := testCase(100002, "second")

	require.NoError(t, s.Append(first))
	require.NoError(t, s.Append(second))

	cases, err := s.ReadAll()
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, first, cases[0])
	assert.Equal(t, second, cases[1])
}

func TestFind(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(testCase(100001, "target")))

	c, ok, err := s.Find(100001)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "target", c.Title)

	_, ok, err = s.Find(999999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRewrite_CopyExcluding(t *testing.T) {
	s := newTestStore(t)
	for i := uint32(1); i <= 5; i++ {
		require.NoError(t, s.Append(testCase(100000+i, "case")))
	}

	removed, err := s.Rewrite(func(c casefile.Case) bool { return c.ID != 100003 })
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, uint32(100003), removed[0].ID)

	cases, err := s.ReadAll()
	require.NoError(t, err)
	require.Len(t, cases, 4)
	for _, c := range cases {
		assert.NotEqual(t, uint32(100003), c.ID)
	}
}

func TestRewrite_LeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(testCase(100001, "case")))
	_, err := s.Rewrite(func(casefile.Case) bool { return true })
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(s.Path()), entries[0].Name())
}

func TestRewrite_CorruptStoreKeepsOriginal(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Append(testCase(100001, "case")))

	// Corrupt the file with a bogus length prefix.
	f, err := os.OpenFile(s.Path(), os.O_WRONLY|os.O_APPEND, 0640)
	require.NoError(t, err)
	_, err = f.Write([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	_, err = s.Rewrite(func(casefile.Case) bool { return true })
	require.Error(t, err)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed rewrite must not touch the original")
}
