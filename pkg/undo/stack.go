// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package undo holds deleted cases in a LIFO buffer so the most recent
// deletion can be restored.
//
// Ownership of a case transfers from the persisted store to the stack on
// delete and back on restore. A case id found here is logically deleted
// even if stale index entries still reference it, so every query path must
// cross-check against Contains before treating an id as live.
//
// # Thread Safety
//
// Not safe for concurrent use; the engine assumes a single logical actor.
package undo

import (
	"errors"

	"github.com/AleutianAI/caseledger/pkg/casefile"
)

// ErrEmpty indicates a pop or peek on an empty stack. Non-fatal: the
// caller reports "nothing to restore" and proceeds.
var ErrEmpty = errors.New("undo stack is empty")

// Stack is the LIFO buffer of deleted cases.
type Stack struct {
	entries []casefile.Case
}

// New creates an empty stack.
func New() *Stack { return &Stack{} }

// Len returns the number of buffered deletions.
func (s *Stack) Len() int { return len(s.entries) }

// Push records c as the most recent deletion.
func (s *Stack) Push(c casefile.Case) {
	s.entries = append(s.entries, c)
}

// Peek returns the case that would be restored next without removing it.
// Drives the peek-then-confirm restore flow: only a positive confirmation
// converts the peek into a Pop.
func (s *Stack) Peek() (casefile.Case, error) {
	if len(s.entries) == 0 {
		return casefile.Case{}, ErrEmpty
	}
	return s.entries[len(s.entries)-1], nil
}

// Pop removes and returns the most recently deleted case.
func (s *Stack) Pop() (casefile.Case, error) {
	if len(s.entries) == 0 {
		return casefile.Case{}, ErrEmpty
	}
	top := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	return top, nil
}

// Contains reports whether id is buffered here, i.e. logically deleted.
// Linear scan; the stack is small by construction.
func (s *Stack) Contains(id uint32) bool {
	for _, c := range s.entries {
		if c.ID == id {
			return true
		}
	}
	return false
}
