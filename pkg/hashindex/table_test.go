// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package hashindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceAndLookup_AllStrategies(t *testing.T) {
	strategies := []Strategy{Linear, ProgressiveOverflow, Quadratic, DoubleHash}
	for _, s := range strategies {
		t.Run(s.String(), func(t *testing.T) {
			tbl := New(11)
			ids := []uint32{100001, 100012, 100023, 234567, 999999}
			for _, id := range ids {
				slot, err := tbl.Place(id, s)
				require.NoError(t, err)
				require.GreaterOrEqual(t, slot, 0)
			}
			for _, id := range ids {
				slot, ok := tbl.Lookup(id, s)
				require.True(t, ok, "id %d not found", id)
				assert.Equal(t, id, tbl.slots[slot])
			}
		})
	}
}

func TestPlace_CollidingIDsGetDistinctSlots(t *testing.T) {
	// All three ids share home slot 0 in a size-11 table.
	tbl := New(11)
	colliding := []uint32{100001, 100012, 100023}
	seen := make(map[int]bool)
	for _, id := range colliding {
		slot, err := tbl.Place(id, Linear)
		require.NoError(t, err)
		require.False(t, seen[slot], "slot %d assigned twice", slot)
		seen[slot] = true
	}
}

func TestPlace_Idempotent(t *testing.T) {
	tbl := New(11)
	first, err := tbl.Place(100001, Quadratic)
	require.NoError(t, err)
	again, err := tbl.Place(100001, Quadratic)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, tbl.Len())
}

func TestPlace_TableFull(t *testing.T) {
	tbl := New(5)
	for i := uint32(1); i <= 5; i++ {
		_, err := tbl.Place(100000+i, Linear)
		require.NoError(t, err)
	}
	require.True(t, tbl.Full())

	_, err := tbl.Place(200000, Linear)
	assert.ErrorIs(t, err, ErrTableFull)
}

func TestPlace_InvalidInputs(t *testing.T) {
	tbl := New(11)

	_, err := tbl.Place(0, Linear)
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = tbl.Place(100001, Strategy(42))
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestSecondHash_NeverZero(t *testing.T) {
	for id := uint32(100000); id < 100100; id++ {
		s := secondHash(id)
		assert.GreaterOrEqual(t, s, 1)
		assert.LessOrEqual(t, s, 7)
	}
}

func TestDoubleHash_FillsWithoutLooping(t *testing.T) {
	// A prime-sized table must accept size inserts under double hashing
	// because the step is co-prime with the size.
	tbl := New(11)
	inserted := 0
	for id := uint32(100000); inserted < 11; id++ {
		if _, err := tbl.Place(id, DoubleHash); err == nil {
			inserted++
		} else {
			t.Fatalf("table reported full after %d inserts: %v", inserted, err)
		}
	}
	assert.True(t, tbl.Full())
}

func TestRemove(t *testing.T) {
	tbl := New(11)
	slot, err := tbl.Place(123456, DoubleHash)
	require.NoError(t, err)

	tbl.Remove(123456)
	assert.Equal(t, uint32(0), tbl.slots[slot])
	assert.Equal(t, 0, tbl.Len())
	assert.False(t, tbl.Contains(123456))

	// Stale removal is a no-op.
	tbl.Remove(123456)
	tbl.Remove(0)
	assert.Equal(t, 0, tbl.Len())
}

func TestContains_StrategyAgnostic(t *testing.T) {
	tbl := New(11)
	_, err := tbl.Place(111111, Quadratic)
	require.NoError(t, err)
	_, err = tbl.Place(222222, DoubleHash)
	require.NoError(t, err)

	assert.True(t, tbl.Contains(111111))
	assert.True(t, tbl.Contains(222222))
	assert.False(t, tbl.Contains(333333))
}
