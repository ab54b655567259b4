// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrail(t *testing.T) *FileTrail {
	t.Helper()
	trail, err := NewFileTrail(filepath.Join(t.TempDir(), "audit.log"))
	require.NoError(t, err)
	return trail
}

func TestLogAndQuery(t *testing.T) {
	trail := newTestTrail(t)
	ctx := context.Background()

	require.NoError(t, trail.Log(ctx, Event{
		EventType: "case.add", Actor: "clerk", Outcome: "success", ResourceID: "100001",
	}))
	require.NoError(t, trail.Log(ctx, Event{
		EventType: "case.delete", Actor: "clerk", Outcome: "success", ResourceID: "100001",
	}))

	events, err := trail.Query(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "case.add", events[0].EventType)
	assert.False(t, events[0].Timestamp.IsZero(), "zero timestamps are set at log time")
}

func TestQuery_FilterByType(t *testing.T) {
	trail := newTestTrail(t)
	ctx := context.Background()

	require.NoError(t, trail.Log(ctx, Event{EventType: "case.add", Actor: "a", Outcome: "success"}))
	require.NoError(t, trail.Log(ctx, Event{EventType: "auth.login", Actor: "a", Outcome: "failure"}))

	events, err := trail.Query(ctx, Filter{EventTypes: []string{"auth.login"}})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "failure", events[0].Outcome)
}

func TestQuery_FilterByActorAndSince(t *testing.T) {
	trail := newTestTrail(t)
	ctx := context.Background()

	old := Event{EventType: "case.add", Actor: "clerk", Outcome: "success",
		Timestamp: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, trail.Log(ctx, old))
	require.NoError(t, trail.Log(ctx, Event{EventType: "case.add", Actor: "judge", Outcome: "success"}))

	events, err := trail.Query(ctx, Filter{Actor: "judge"})
	require.NoError(t, err)
	require.Len(t, events, 1)

	events, err = trail.Query(ctx, Filter{Since: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "judge", events[0].Actor)
}

func TestQuery_Limit(t *testing.T) {
	trail := newTestTrail(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, trail.Log(ctx, Event{EventType: "case.add", Actor: "a", Outcome: "success"}))
	}

	events, err := trail.Query(ctx, Filter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestQuery_MissingFileIsEmpty(t *testing.T) {
	trail := newTestTrail(t)
	events, err := trail.Query(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestLog_RequiresEventType(t *testing.T) {
	trail := newTestTrail(t)
	assert.Error(t, trail.Log(context.Background(), Event{Actor: "a"}))
}

func TestNopTrail(t *testing.T) {
	var trail Trail = NopTrail{}
	ctx := context.Background()
	require.NoError(t, trail.Log(ctx, Event{EventType: "case.add"}))
	events, err := trail.Query(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, events)
}
