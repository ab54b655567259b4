// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package casefile defines the case record, its binary wire framing, and
// date-ordered sorting.
//
// A Case is immutable once created: deletion and restoration move it as a
// whole unit, there are no partial field updates. Identity is the id; no
// two live cases share one.
package casefile

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/AleutianAI/caseledger/pkg/validation"
)

// Case is one legal case record. Dates are dd/mm/yyyy strings; Scheduled
// is assigned by the scheduler, never by the user.
type Case struct {
	ID        uint32 `json:"id"`
	Title     string `json:"title"`
	Plaintiff string `json:"plaintiff"`
	Defendant string `json:"defendant"`
	Type      string `json:"type"`
	Opened    string `json:"opened"`
	Scheduled string `json:"scheduled"`
}

// String renders a one-line summary for logs and listings.
func (c Case) String() string {
	return fmt.Sprintf("#%d %s (%s v. %s, %s) scheduled %s",
		c.ID, c.Title, c.Plaintiff, c.Defendant, c.Type, c.Scheduled)
}

// maxFrameSize bounds a single framed record. A case is a handful of text
// fields; anything past this is a corrupt length prefix, not data.
const maxFrameSize = 1 << 20

// WriteFrame serializes v as a length-prefixed JSON frame: a big-endian
// uint32 byte count followed by the JSON payload. The same framing is used
// by every binary store in the system.
func WriteFrame(w io.Writer, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	if _, err := w.Write(prefix[:]); err != nil {
		return fmt.Errorf("write frame prefix: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}

// ReadFrame decodes the next frame from r into v. It returns io.EOF
// unwrapped at a clean end of stream so sequential readers can terminate,
// and a wrapped error for a truncated or oversized frame.
func ReadFrame(r io.Reader, v any) error {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return fmt.Errorf("read frame prefix: %w", err)
	}
	n := binary.BigEndian.Uint32(prefix[:])
	if n > maxFrameSize {
		return fmt.Errorf("frame length %d exceeds limit", n)
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return fmt.Errorf("read frame payload: %w", err)
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}
	return nil
}

// CompareScheduled orders two cases by scheduled hearing date.
//
// An unparsable date compares as equal to any other date: the comparator
// never fails and never reorders relative to a malformed peer. Reports
// that hit this path show degraded ordering for the affected records; that
// is a documented limitation, not a bug to fix here.
func CompareScheduled(a, b Case) int {
	ad, am, ay, errA := validation.ParseDate(a.Scheduled)
	bd, bm, by, errB := validation.ParseDate(b.Scheduled)
	if errA != nil || errB != nil {
		return 0
	}
	if ay != by {
		return ay - by
	}
	if am != bm {
		return am - bm
	}
	return ad - bd
}

// SortByScheduledDate sorts cases ascending by hearing date, in place,
// using a binary max-heap: bottom-up heapify over n/2-1..0, then repeated
// root extraction with the heap shrinking from the tail.
func SortByScheduledDate(cases []Case) {
	n := len(cases)
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(cases, i, n)
	}
	for end := n - 1; end > 0; end-- {
		cases[0], cases[end] = cases[end], cases[0]
		siftDown(cases, 0, end)
	}
}

// siftDown restores the max-heap property for the subtree rooted at i,
// considering only the first n elements.
func siftDown(cases []Case, i, n int) {
	for {
		largest := i
		left, right := 2*i+1, 2*i+2
		if left < n && CompareScheduled(cases[left], cases[largest]) > 0 {
			largest = left
		}
		if right < n && CompareScheduled(cases[right], cases[largest]) > 0 {
			largest = right
		}
		if largest == i {
			return
		}
		cases[i], cases[largest] = cases[largest], cases[i]
		i = largest
	}
}
