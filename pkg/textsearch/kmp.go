// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package textsearch implements Knuth-Morris-Pratt substring search over
// document text. Linear time in text plus pattern length; no backtracking
// over the text.
package textsearch

// failureTable builds the KMP partial-match table: table[i] is the length
// of the longest proper prefix of pattern[:i+1] that is also a suffix.
func failureTable(pattern string) []int {
	table := make([]int, len(pattern))
	k := 0
	for i := 1; i < len(pattern); i++ {
		for k > 0 && pattern[i] != pattern[k] {
			k = table[k-1]
		}
		if pattern[i] == pattern[k] {
			k++
		}
		table[i] = k
	}
	return table
}

// Index returns the offset of the first occurrence of pattern in text, or
// -1 if absent. An empty pattern matches at offset 0.
func Index(text, pattern string) int {
	if len(pattern) == 0 {
		return 0
	}
	if len(pattern) > len(text) {
		return -1
	}
	table := failureTable(pattern)
	k := 0
	for i := 0; i < len(text); i++ {
		for k > 0 && text[i] != pattern[k] {
			k = table[k-1]
		}
		if text[i] == pattern[k] {
			k++
		}
		if k == len(pattern) {
			return i - len(pattern) + 1
		}
	}
	return -1
}

// Contains reports whether pattern occurs in text.
func Contains(text, pattern string) bool {
	return Index(text, pattern) >= 0
}

// FindAll returns the offsets of every (possibly overlapping) occurrence
// of pattern in text. An empty pattern yields no offsets.
func FindAll(text, pattern string) []int {
	if len(pattern) == 0 || len(pattern) > len(text) {
		return nil
	}
	table := failureTable(pattern)
	var hits []int
	k := 0
	for i := 0; i < len(text); i++ {
		for k > 0 && text[i] != pattern[k] {
			k = table[k-1]
		}
		if text[i] == pattern[k] {
			k++
		}
		if k == len(pattern) {
			hits = append(hits, i-len(pattern)+1)
			k = table[k-1]
		}
	}
	return hits
}
