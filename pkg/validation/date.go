// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation for user-provided values
// before they reach the engine or the on-disk stores.
//
// Date validation is deliberately shallow: shape first (dd/mm/yyyy), then
// range checks with month 1..12 and day 1..31 for every month. Leap years
// and per-month day counts are ignored by design; the scheduler's grid
// uses the same model.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// datePattern matches the dd/mm/yyyy shape: two digits, two digits, four
// digits. No locale sensitivity.
var datePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// ValidateDate checks shape and shallow ranges for a dd/mm/yyyy string.
//
// Returns an error describing the first failed check. Boundary code should
// re-prompt on error rather than aborting.
func ValidateDate(s string) error {
	_, _, _, err := ParseDate(s)
	return err
}

// ParseDate splits a dd/mm/yyyy string into its components after shape and
// shallow range validation.
func ParseDate(s string) (day, month, year int, err error) {
	if !datePattern.MatchString(s) {
		return 0, 0, 0, fmt.Errorf("invalid date format: %q (expected dd/mm/yyyy)", s)
	}
	parts := strings.Split(s, "/")
	day, _ = strconv.Atoi(parts[0])
	month, _ = strconv.Atoi(parts[1])
	year, _ = strconv.Atoi(parts[2])

	if month < 1 || month > 12 {
		return 0, 0, 0, fmt.Errorf("invalid month %d in %q (must be 1-12)", month, s)
	}
	if day < 1 || day > 31 {
		return 0, 0, 0, fmt.Errorf("invalid day %d in %q (must be 1-31)", day, s)
	}
	return day, month, year, nil
}

// FormatDate renders date components as dd/mm/yyyy with zero padding.
func FormatDate(day, month, year int) string {
	return fmt.Sprintf("%02d/%02d/%04d", day, month, year)
}
