// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package audit records docket-relevant events for later review.
//
// Court records carry a duty of traceability: who added, deleted, or
// restored a case, and when. The trail is an append-only JSON-lines file
// beside the other stores, one event per line.
package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event is one security- or record-relevant action.
//
// EventType uses "category.action" form: "case.add", "case.delete",
// "case.undo", "auth.login", "auth.register".
type Event struct {
	// EventType categorizes the event for filtering.
	EventType string `json:"event_type"`

	// Timestamp is when the event occurred, in UTC. Zero values are set
	// at log time.
	Timestamp time.Time `json:"timestamp"`

	// Actor identifies who performed the action. "system" for automated
	// actions, "anonymous" when no user is logged in.
	Actor string `json:"actor"`

	// Outcome is "success" or "failure".
	Outcome string `json:"outcome"`

	// ResourceID names the affected record, e.g. a case id.
	ResourceID string `json:"resource_id,omitempty"`

	// Metadata holds event-specific detail, e.g. the placement strategy
	// or the failure reason.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Filter selects events when querying the trail. Zero fields match
// everything; set fields combine with AND.
type Filter struct {
	// EventTypes limits results to the named types.
	EventTypes []string

	// Actor limits results to one actor.
	Actor string

	// Since excludes events before this instant.
	Since time.Time

	// Limit caps the number of returned events. Zero means no cap.
	Limit int
}

// matches reports whether e passes the filter.
func (f Filter) matches(e Event) bool {
	if len(f.EventTypes) > 0 {
		found := false
		for _, t := range f.EventTypes {
			if e.EventType == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Actor != "" && e.Actor != f.Actor {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	return true
}

// Trail records and queries audit events.
type Trail interface {
	// Log records one event. Implementations set a zero Timestamp.
	Log(ctx context.Context, event Event) error

	// Query returns events matching the filter, oldest first.
	Query(ctx context.Context, filter Filter) ([]Event, error)
}

// FileTrail appends events to a JSON-lines file. Safe for concurrent
// use within one process; the file itself is single-writer.
type FileTrail struct {
	mu   sync.Mutex
	path string
}

// NewFileTrail returns a trail over the given file, creating parent
// directories as needed.
func NewFileTrail(path string) (*FileTrail, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}
	return &FileTrail{path: path}, nil
}

// Log appends the event as one JSON line.
func (t *FileTrail) Log(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.EventType == "" {
		return errors.New("audit: event type is required")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Actor == "" {
		event.Actor = "anonymous"
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return fmt.Errorf("open audit trail: %w", err)
	}
	defer f.Close()

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	return f.Sync()
}

// Query scans the whole file. The trail is small enough that a linear
// scan beats maintaining an index.
func (t *FileTrail) Query(ctx context.Context, filter Filter) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open audit trail: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("corrupt audit line: %w", err)
		}
		if !filter.matches(e) {
			continue
		}
		events = append(events, e)
		if filter.Limit > 0 && len(events) == filter.Limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read audit trail: %w", err)
	}
	return events, nil
}

// NopTrail discards events and returns nothing. Used when auditing is
// disabled.
type NopTrail struct{}

func (NopTrail) Log(ctx context.Context, event Event) error { return nil }

func (NopTrail) Query(ctx context.Context, filter Filter) ([]Event, error) { return nil, nil }
