// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package hashindex implements a fixed-capacity open-addressing index that
// maps 32-bit case ids to slots.
//
// The table supports four collision-resolution strategies. The strategy is a
// per-insertion parameter, not a table property: the same table may receive
// ids under different strategies, so placement is strategy-dependent while
// slot meaning (occupied/empty) is shared across all of them.
//
// # Capacity
//
// Probing is bounded by the table size. Once every slot in the probe
// sequence has been visited without finding a free one, Place returns
// ErrTableFull and the caller decides whether to retry with a fresh id.
//
// # Thread Safety
//
// Not safe for concurrent use. The table assumes a single logical actor,
// matching the rest of the engine; callers that need concurrency must add
// their own mutual exclusion.
package hashindex

import (
	"errors"
	"fmt"
)

// Sentinel errors for index operations.
var (
	// ErrTableFull indicates no free slot is reachable by the probe sequence.
	ErrTableFull = errors.New("hash index is full")

	// ErrInvalidID indicates an id outside the positive 32-bit range.
	ErrInvalidID = errors.New("case id must be positive")

	// ErrUnknownStrategy indicates a strategy value outside the defined set.
	ErrUnknownStrategy = errors.New("unknown collision strategy")
)

// DefaultTableSize is the slot count used when no size is configured.
// A prime size keeps the double-hashing step co-prime with the table.
const DefaultTableSize = 101

// emptySlot is the sentinel for an unoccupied slot. Case ids are always
// positive (six-digit range), so zero can never collide with a live id.
const emptySlot = 0

// Strategy selects the collision-resolution algorithm for one insertion.
type Strategy int

const (
	// Linear probes h, h+1, h+2, ... (mod size).
	Linear Strategy = iota

	// ProgressiveOverflow walks forward from the home slot until a free
	// slot is found. The probe sequence is identical to Linear; it is kept
	// as a distinct strategy so callers can select it by name, matching
	// the original menu of algorithms.
	ProgressiveOverflow

	// Quadratic probes h, h+1, h+4, h+9, ... (mod size).
	Quadratic

	// DoubleHash probes h, h+s, h+2s, ... (mod size) with a secondary
	// step s(id) = 7 - (id mod 7), always in 1..7 and never zero.
	DoubleHash
)

// String returns the human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case Linear:
		return "linear"
	case ProgressiveOverflow:
		return "progressive-overflow"
	case Quadratic:
		return "quadratic"
	case DoubleHash:
		return "double-hash"
	default:
		return "unknown"
	}
}

// valid reports whether s is one of the defined strategies.
func (s Strategy) valid() bool {
	return s >= Linear && s <= DoubleHash
}

// ParseStrategy maps a strategy name (as produced by String) to its
// value. Used by the CLI to accept --strategy flags.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "linear":
		return Linear, nil
	case "progressive-overflow":
		return ProgressiveOverflow, nil
	case "quadratic":
		return Quadratic, nil
	case "double-hash":
		return DoubleHash, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Table is a fixed-length slot array indexed by hash(id) = id mod size.
//
// Invariant: a slot holding id was reached from hash(id) by exactly the
// probe sequence of the strategy that inserted it, so a lookup under the
// same strategy always terminates at that slot or earlier at an empty one.
type Table struct {
	slots []uint32
	live  int
}

// New creates a table with the given slot count.
// Sizes below 1 fall back to DefaultTableSize.
func New(size int) *Table {
	if size < 1 {
		size = DefaultTableSize
	}
	return &Table{slots: make([]uint32, size)}
}

// Size returns the total slot count.
func (t *Table) Size() int { return len(t.slots) }

// Len returns the number of occupied slots.
func (t *Table) Len() int { return t.live }

// Full reports whether every slot is occupied.
func (t *Table) Full() bool { return t.live == len(t.slots) }

// home returns the primary hash slot for id.
func (t *Table) home(id uint32) int {
	return int(id % uint32(len(t.slots)))
}

// step returns the secondary hash used by DoubleHash, in 1..7.
func secondHash(id uint32) int {
	return 7 - int(id%7)
}

// probe returns the i-th slot in the strategy's probe sequence for id.
func (t *Table) probe(id uint32, s Strategy, i int) int {
	size := len(t.slots)
	switch s {
	case Quadratic:
		return (t.home(id) + i*i) % size
	case DoubleHash:
		return (t.home(id) + i*secondHash(id)) % size
	default: // Linear, ProgressiveOverflow
		return (t.home(id) + i) % size
	}
}

// Place inserts id and returns the slot it landed in.
//
// Probing stops at the first empty slot. If id is already present on its
// probe path the existing slot is returned, keeping placement idempotent.
// After size attempts without a free slot, Place returns ErrTableFull;
// the caller retries with a fresh id up to its own attempt ceiling.
func (t *Table) Place(id uint32, s Strategy) (int, error) {
	if id == emptySlot {
		return -1, ErrInvalidID
	}
	if !s.valid() {
		return -1, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
	for i := 0; i < len(t.slots); i++ {
		slot := t.probe(id, s, i)
		switch t.slots[slot] {
		case emptySlot:
			t.slots[slot] = id
			t.live++
			return slot, nil
		case id:
			return slot, nil
		}
	}
	return -1, ErrTableFull
}

// Lookup follows the strategy's probe sequence and returns the slot
// holding id, or false if an empty slot or the probe bound is reached
// first. The strategy must match the one used at insertion time.
func (t *Table) Lookup(id uint32, s Strategy) (int, bool) {
	if id == emptySlot || !s.valid() {
		return -1, false
	}
	for i := 0; i < len(t.slots); i++ {
		slot := t.probe(id, s, i)
		switch t.slots[slot] {
		case emptySlot:
			return -1, false
		case id:
			return slot, true
		}
	}
	return -1, false
}

// Contains scans the whole slot array for id.
//
// Unlike Lookup it does not need to know the insertion strategy, which is
// what deletion paths want: slot meaning is shared even when placement is
// strategy-dependent.
func (t *Table) Contains(id uint32) bool {
	for _, v := range t.slots {
		if v == id {
			return true
		}
	}
	return false
}

// Remove frees the slot holding id. Removing an id that is not present is
// a no-op, not an error: stale removals happen when the undo stack and the
// index disagree, and the caller treats the stack as authoritative.
func (t *Table) Remove(id uint32) {
	if id == emptySlot {
		return
	}
	for slot, v := range t.slots {
		if v == id {
			t.slots[slot] = emptySlot
			t.live--
			return
		}
	}
}
