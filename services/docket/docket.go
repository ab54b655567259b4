// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package docket orchestrates the case engine: id placement in the hash
// index, hearing-date reservation, persistence, deletion with undo, and
// the ordered reports.
//
// The Docket owns every piece of engine state explicitly (index, grid,
// undo stack, store) and is threaded through operations as one object;
// there are no package-level singletons. The index and grid start empty
// on every process start, matching the original engine's lifecycle.
//
// # Thread Safety
//
// Not safe for concurrent use: exactly one logical actor mutates a Docket
// at a time.
package docket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/caseledger/pkg/bptree"
	"github.com/AleutianAI/caseledger/pkg/casefile"
	"github.com/AleutianAI/caseledger/pkg/hashindex"
	"github.com/AleutianAI/caseledger/pkg/schedule"
	"github.com/AleutianAI/caseledger/pkg/undo"
	"github.com/AleutianAI/caseledger/pkg/validation"
	"github.com/AleutianAI/caseledger/services/casestore"
)

// Sentinel errors for docket operations.
var (
	// ErrNotFound indicates an id with no live case behind it.
	ErrNotFound = errors.New("case not found")

	// ErrIDSpaceExhausted indicates MaxAttempts fresh ids all failed to
	// place. Reported to the caller; never retried internally past the
	// ceiling.
	ErrIDSpaceExhausted = errors.New("could not place a fresh case id")

	// ErrInvalidInput wraps a failed validation of add-case input.
	ErrInvalidInput = errors.New("invalid case input")
)

// Case id generation bounds: six-digit ids, fresh per attempt.
const (
	idMin = 100000
	idMax = 999999

	// DefaultMaxAttempts bounds id regeneration when the index keeps
	// reporting full for fresh ids.
	DefaultMaxAttempts = 1000
)

// AddCaseInput is the user-provided part of a new case. The id and the
// hearing date are assigned by the engine.
type AddCaseInput struct {
	Title     string `validate:"required,max=200"`
	Plaintiff string `validate:"required,max=120"`
	Defendant string `validate:"required,max=120"`
	Type      string `validate:"required,max=60"`
	Opened    string `validate:"required,shallowdate"`
}

// Config configures a Docket.
type Config struct {
	// StorePath is the case store file (e.g. ~/.caseledger/cases.bin).
	StorePath string

	// TableSize is the hash index slot count. Default: hashindex.DefaultTableSize.
	TableSize int

	// BaseYear anchors the scheduling grid. Default: schedule.DefaultBaseYear.
	BaseYear int

	// MaxAttempts bounds id regeneration. Default: DefaultMaxAttempts.
	MaxAttempts int

	// Logger for docket operations. Default: slog.Default().
	Logger *slog.Logger

	// Rand drives id generation. Default: a freshly seeded generator.
	// Tests inject a fixed seed here.
	Rand *rand.Rand
}

// Docket is the engine's application context.
type Docket struct {
	index       *hashindex.Table
	grid        *schedule.Grid
	deleted     *undo.Stack
	store       *casestore.Store
	validate    *validator.Validate
	logger      *slog.Logger
	rng         *rand.Rand
	maxAttempts int
}

// New assembles a Docket from cfg. The hash index and availability grid
// are created empty; persisted cases live in the store and are read per
// operation.
func New(cfg Config) (*Docket, error) {
	if cfg.StorePath == "" {
		return nil, errors.New("docket: StorePath is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	v := validator.New()
	if err := v.RegisterValidation("shallowdate", func(fl validator.FieldLevel) bool {
		return validation.ValidateDate(fl.Field().String()) == nil
	}); err != nil {
		return nil, fmt.Errorf("register date validator: %w", err)
	}

	return &Docket{
		index:       hashindex.New(cfg.TableSize),
		grid:        schedule.New(cfg.BaseYear),
		deleted:     undo.New(),
		store:       casestore.New(cfg.StorePath, logger),
		validate:    v,
		logger:      logger,
		rng:         rng,
		maxAttempts: maxAttempts,
	}, nil
}

// freshID returns a random six-digit case id.
func (d *Docket) freshID() uint32 {
	return uint32(idMin + d.rng.Intn(idMax-idMin+1))
}

// AddCase creates a case: validates input, places a fresh id under the
// chosen strategy, reserves the next open hearing date, persists the
// record.
//
// A full index after MaxAttempts fresh ids, or an exhausted grid, aborts
// the add as a hard failure; neither is retried automatically.
func (d *Docket) AddCase(ctx context.Context, in AddCaseInput, strategy hashindex.Strategy) (casefile.Case, error) {
	if err := ctx.Err(); err != nil {
		return casefile.Case{}, err
	}
	if err := d.validate.Struct(in); err != nil {
		return casefile.Case{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var id uint32
	placed := false
	for attempt := 0; attempt < d.maxAttempts; attempt++ {
		candidate := d.freshID()
		if d.index.Contains(candidate) {
			continue
		}
		if _, err := d.index.Place(candidate, strategy); err != nil {
			if errors.Is(err, hashindex.ErrTableFull) {
				continue
			}
			return casefile.Case{}, fmt.Errorf("place case id: %w", err)
		}
		id = candidate
		placed = true
		break
	}
	if !placed {
		return casefile.Case{}, fmt.Errorf("%w after %d attempts", ErrIDSpaceExhausted, d.maxAttempts)
	}

	hearing, err := d.grid.ReserveNextAvailable()
	if err != nil {
		d.index.Remove(id)
		return casefile.Case{}, fmt.Errorf("reserve hearing date: %w", err)
	}

	c := casefile.Case{
		ID:        id,
		Title:     in.Title,
		Plaintiff: in.Plaintiff,
		Defendant: in.Defendant,
		Type:      in.Type,
		Opened:    in.Opened,
		Scheduled: validation.FormatDate(hearing.Day, hearing.Month, hearing.Year),
	}
	if err := d.store.Append(c); err != nil {
		d.index.Remove(id)
		d.grid.Release(hearing)
		return casefile.Case{}, fmt.Errorf("persist case: %w", err)
	}

	d.logger.Info("case added",
		"case_id", id, "strategy", strategy.String(), "scheduled", c.Scheduled)
	return c, nil
}

// GetCase returns the live case with the given id. Ids sitting on the
// undo stack are logically deleted and report ErrNotFound even if index
// residue still references them.
func (d *Docket) GetCase(ctx context.Context, id uint32) (casefile.Case, error) {
	if err := ctx.Err(); err != nil {
		return casefile.Case{}, err
	}
	if d.deleted.Contains(id) {
		return casefile.Case{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	c, ok, err := d.store.Find(id)
	if err != nil {
		return casefile.Case{}, err
	}
	if !ok {
		return casefile.Case{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return c, nil
}

// DeleteCase removes the case from the store (copy-excluding rewrite),
// frees its index slot and grid cell, and buffers it on the undo stack.
func (d *Docket) DeleteCase(ctx context.Context, id uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := d.GetCase(ctx, id); err != nil {
		return err
	}

	removed, err := d.store.Rewrite(func(c casefile.Case) bool { return c.ID != id })
	if err != nil {
		return fmt.Errorf("delete case %d: %w", id, err)
	}
	if len(removed) == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	c := removed[0]
	d.index.Remove(id)
	if day, month, year, perr := validation.ParseDate(c.Scheduled); perr == nil {
		d.grid.Release(schedule.Date{Day: day, Month: month, Year: year})
	}
	d.deleted.Push(c)

	d.logger.Info("case deleted", "case_id", id, "undo_depth", d.deleted.Len())
	return nil
}

// PeekDeleted returns the case that UndoDelete would restore. The caller
// shows it and asks for confirmation before actually restoring.
func (d *Docket) PeekDeleted() (casefile.Case, error) {
	return d.deleted.Peek()
}

// UndoDelete restores the most recently deleted case: re-persists it,
// re-places its id, and re-reserves its original hearing date. Exactly
// one restore per deletion.
func (d *Docket) UndoDelete(ctx context.Context) (casefile.Case, error) {
	if err := ctx.Err(); err != nil {
		return casefile.Case{}, err
	}
	c, err := d.deleted.Pop()
	if err != nil {
		return casefile.Case{}, err
	}
	if err := d.store.Append(c); err != nil {
		// The record stays restorable.
		d.deleted.Push(c)
		return casefile.Case{}, fmt.Errorf("restore case %d: %w", c.ID, err)
	}

	if _, err := d.index.Place(c.ID, hashindex.Linear); err != nil {
		d.logger.Warn("restored case not re-indexed", "case_id", c.ID, "error", err)
	}
	if day, month, year, perr := validation.ParseDate(c.Scheduled); perr == nil {
		date := schedule.Date{Day: day, Month: month, Year: year}
		if err := d.grid.ReserveAt(date); err != nil {
			d.logger.Warn("restored case date not re-reserved",
				"case_id", c.ID, "scheduled", c.Scheduled, "error", err)
		}
	}

	d.logger.Info("case restored", "case_id", c.ID)
	return c, nil
}

// ActiveCases returns every persisted case that is not logically deleted,
// in store order.
func (d *Docket) ActiveCases(ctx context.Context) ([]casefile.Case, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	all, err := d.store.ReadAll()
	if err != nil {
		return nil, err
	}
	active := all[:0]
	for _, c := range all {
		if !d.deleted.Contains(c.ID) {
			active = append(active, c)
		}
	}
	return active, nil
}

// CasesByScheduledDate returns the active cases ascending by hearing
// date. Cases with unparsable stored dates keep their relative order;
// that degraded ordering is documented behavior.
func (d *Docket) CasesByScheduledDate(ctx context.Context) ([]casefile.Case, error) {
	cases, err := d.ActiveCases(ctx)
	if err != nil {
		return nil, err
	}
	casefile.SortByScheduledDate(cases)
	return cases, nil
}

// CasesByID returns the active cases ascending by case id.
//
// The ordered index is built fresh from the store on every invocation
// rather than maintained incrementally; at the scale of a single docket
// the rebuild is cheap and keeps the tree trivially consistent with the
// store.
func (d *Docket) CasesByID(ctx context.Context) ([]casefile.Case, error) {
	cases, err := d.ActiveCases(ctx)
	if err != nil {
		return nil, err
	}

	tree := bptree.New[casefile.Case]()
	for _, c := range cases {
		if err := tree.Insert(c.ID, c); err != nil {
			// Duplicate ids in the store would be a corruption bug, not
			// a user error.
			return nil, fmt.Errorf("index case %d: %w", c.ID, err)
		}
	}

	ordered := make([]casefile.Case, 0, tree.Len())
	it := tree.Ascend()
	for {
		_, c, ok := it.Next()
		if !ok {
			break
		}
		ordered = append(ordered, c)
	}
	return ordered, nil
}

// ConnectedCases returns the active cases that share a party (plaintiff
// or defendant, either side) with the given case. The case itself is
// excluded.
func (d *Docket) ConnectedCases(ctx context.Context, id uint32) ([]casefile.Case, error) {
	root, err := d.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	cases, err := d.ActiveCases(ctx)
	if err != nil {
		return nil, err
	}

	var connected []casefile.Case
	for _, c := range cases {
		if c.ID == id {
			continue
		}
		if sharesParty(root, c) {
			connected = append(connected, c)
		}
	}
	return connected, nil
}

// sharesParty reports whether a and b name a common party on any side.
func sharesParty(a, b casefile.Case) bool {
	return a.Plaintiff == b.Plaintiff || a.Plaintiff == b.Defendant ||
		a.Defendant == b.Plaintiff || a.Defendant == b.Defendant
}

// IndexStats reports occupancy of the hash index for status output.
func (d *Docket) IndexStats() (live, size int) {
	return d.index.Len(), d.index.Size()
}

// PendingUndo reports how many deletions are restorable.
func (d *Docket) PendingUndo() int { return d.deleted.Len() }
