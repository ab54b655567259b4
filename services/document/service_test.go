// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package document

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "documents.bin"), nil)
}

func TestAttachAndForCase(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.Attach(Document{CaseID: 100001, Title: "complaint", Body: "initial filing"}))
	require.NoError(t, s.Attach(Document{CaseID: 100001, Title: "answer", Body: "response"}))
	require.NoError(t, s.Attach(Document{CaseID: 100002, Title: "motion", Body: "to dismiss"}))

	docs, err := s.ForCase(100001)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "complaint", docs[0].Title)
	assert.Equal(t, "answer", docs[1].Title)

	none, err := s.ForCase(999999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAttach_EmptyFields(t *testing.T) {
	s := newTestService(t)
	assert.ErrorIs(t, s.Attach(Document{CaseID: 1, Title: "", Body: "b"}), ErrEmptyDocument)
	assert.ErrorIs(t, s.Attach(Document{CaseID: 1, Title: "t", Body: ""}), ErrEmptyDocument)
}

func TestReadAll_MissingFileIsEmpty(t *testing.T) {
	s := newTestService(t)
	docs, err := s.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSearch(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.Attach(Document{CaseID: 100001, Title: "a", Body: "breach of contract alleged"}))
	require.NoError(t, s.Attach(Document{CaseID: 100002, Title: "b", Body: "no relevant text"}))
	require.NoError(t, s.Attach(Document{CaseID: 100003, Title: "c", Body: "contract contract"}))

	matches, err := s.Search("contract")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, uint32(100001), matches[0].Document.CaseID)
	assert.Equal(t, []int{10}, matches[0].Offsets)

	assert.Equal(t, uint32(100003), matches[1].Document.CaseID)
	assert.Equal(t, []int{0, 9}, matches[1].Offsets)
}

func TestSearch_OverlappingOccurrences(t *testing.T) {
	s := newTestService(t)
	require.NoError(t, s.Attach(Document{CaseID: 1, Title: "t", Body: "aaaa"}))

	matches, err := s.Search("aa")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, []int{0, 1, 2}, matches[0].Offsets)
}

func TestSearch_EmptyPattern(t *testing.T) {
	s := newTestService(t)
	_, err := s.Search("")
	assert.Error(t, err)
}
