// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package schedule assigns non-conflicting hearing dates from a bounded
// three-dimensional availability grid.
//
// The grid spans MaxYears years from a base year, 12 months, 31 days. A
// cell is either free or occupied; reservation scans year-major, then
// month, then day, and takes the first free cell. Validity is shallow on
// purpose: month 1..12 and day 1..31, with no leap-year or days-in-month
// correction. That matches the stored dd/mm/yyyy model and must not be
// "fixed" silently.
//
// # Thread Safety
//
// Not safe for concurrent use; the engine assumes a single logical actor.
package schedule

import "errors"

// Grid dimensions.
const (
	// MaxYears bounds the scheduling horizon.
	MaxYears = 10

	monthsPerYear = 12
	daysPerMonth  = 31
)

// DefaultBaseYear anchors year offset zero when no base year is configured.
const DefaultBaseYear = 2025

// Sentinel errors for grid operations.
var (
	// ErrExhausted indicates every cell in the grid is occupied. Callers
	// must treat this as a hard failure of case creation, not retry it.
	ErrExhausted = errors.New("availability grid exhausted")

	// ErrOutOfRange indicates a date outside the grid's bounded span.
	ErrOutOfRange = errors.New("date outside scheduling horizon")

	// ErrCellOccupied indicates a reservation of an already-taken cell.
	ErrCellOccupied = errors.New("date already reserved")
)

// Date is a reserved hearing date.
type Date struct {
	Day   int
	Month int
	Year  int
}

// Grid is the sparse availability map, indexed by
// [year-offset][month-1][day-1].
type Grid struct {
	baseYear int
	occupied [MaxYears][monthsPerYear][daysPerMonth]bool
	reserved int
}

// New creates an empty grid anchored at baseYear. Non-positive base years
// fall back to DefaultBaseYear.
func New(baseYear int) *Grid {
	if baseYear <= 0 {
		baseYear = DefaultBaseYear
	}
	return &Grid{baseYear: baseYear}
}

// BaseYear returns the year mapped to offset zero.
func (g *Grid) BaseYear() int { return g.baseYear }

// Capacity returns the total number of schedulable cells.
func (g *Grid) Capacity() int { return MaxYears * monthsPerYear * daysPerMonth }

// Reserved returns the number of occupied cells.
func (g *Grid) Reserved() int { return g.reserved }

// shallowValid applies the intentionally shallow calendar check: month in
// 1..12 and day in 1..31, every month treated as 31 days, leap years
// ignored.
func shallowValid(day, month int) bool {
	return month >= 1 && month <= monthsPerYear && day >= 1 && day <= daysPerMonth
}

// cell maps a date to grid indices, reporting false when it falls outside
// the horizon or fails the shallow validity check.
func (g *Grid) cell(d Date) (y, m, day int, ok bool) {
	y = d.Year - g.baseYear
	if y < 0 || y >= MaxYears || !shallowValid(d.Day, d.Month) {
		return 0, 0, 0, false
	}
	return y, d.Month - 1, d.Day - 1, true
}

// ReserveNextAvailable finds the earliest free cell in year-major,
// month-next, day-innermost order, marks it occupied and returns it.
// When the whole bounded span is booked it returns ErrExhausted and
// reserves nothing.
func (g *Grid) ReserveNextAvailable() (Date, error) {
	for y := 0; y < MaxYears; y++ {
		for m := 0; m < monthsPerYear; m++ {
			for d := 0; d < daysPerMonth; d++ {
				if g.occupied[y][m][d] || !shallowValid(d+1, m+1) {
					continue
				}
				g.occupied[y][m][d] = true
				g.reserved++
				return Date{Day: d + 1, Month: m + 1, Year: g.baseYear + y}, nil
			}
		}
	}
	return Date{}, ErrExhausted
}

// ReserveAt marks a specific cell occupied. Used when a deleted case is
// restored and must get its original hearing date back.
func (g *Grid) ReserveAt(d Date) error {
	y, m, day, ok := g.cell(d)
	if !ok {
		return ErrOutOfRange
	}
	if g.occupied[y][m][day] {
		return ErrCellOccupied
	}
	g.occupied[y][m][day] = true
	g.reserved++
	return nil
}

// Release frees a cell so it can be assigned again. Releasing a free or
// out-of-range cell is a no-op: deletion paths must not fail because the
// grid and the store disagree.
func (g *Grid) Release(d Date) {
	y, m, day, ok := g.cell(d)
	if !ok || !g.occupied[y][m][day] {
		return
	}
	g.occupied[y][m][day] = false
	g.reserved--
}

// IsReserved reports whether the cell for d is occupied. Out-of-range
// dates report false.
func (g *Grid) IsReserved(d Date) bool {
	y, m, day, ok := g.cell(d)
	return ok && g.occupied[y][m][day]
}
