// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package casestore persists case records in an append-only binary file.
//
// Records are length-prefixed JSON frames (see casefile.WriteFrame).
// Appends go to the end of the file; reads scan sequentially until end of
// stream. Deletion rewrites the store copy-excluding the removed records:
// the kept records are written to a temp file in the same directory,
// synced, and atomically renamed over the original, so a crash mid-rewrite
// never loses the original file.
package casestore

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AleutianAI/caseledger/pkg/casefile"
)

// Store reads and writes one case file. The zero value is not usable;
// construct with New.
type Store struct {
	path   string
	logger *slog.Logger
}

// New creates a store backed by the file at path. The file is created on
// first append; a missing file reads as an empty store.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Append serializes c to the end of the store file.
func (s *Store) Append(c casefile.Case) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return fmt.Errorf("open store for append: %w", err)
	}
	defer f.Close()

	if err := casefile.WriteFrame(f, c); err != nil {
		return fmt.Errorf("append case %d: %w", c.ID, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync store: %w", err)
	}
	return nil
}

// ReadAll returns every record in file order. A missing store file is an
// empty store, not an error: the caller reports "no cases to show" and
// proceeds.
func (s *Store) ReadAll() ([]casefile.Case, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("case store not present yet", "path", s.path)
			return nil, nil
		}
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	var cases []casefile.Case
	for {
		var c casefile.Case
		if err := casefile.ReadFrame(f, &c); err != nil {
			if err == io.EOF {
				return cases, nil
			}
			return nil, fmt.Errorf("read store %s: %w", s.path, err)
		}
		cases = append(cases, c)
	}
}

// Find returns the record with the given id.
func (s *Store) Find(id uint32) (casefile.Case, bool, error) {
	cases, err := s.ReadAll()
	if err != nil {
		return casefile.Case{}, false, err
	}
	for _, c := range cases {
		if c.ID == id {
			return c, true, nil
		}
	}
	return casefile.Case{}, false, nil
}

// Rewrite replaces the store with only the records keep accepts and
// returns the excluded ones. The new content is written to a temp file
// beside the original, synced, and renamed into place; on any error the
// original file is left untouched.
func (s *Store) Rewrite(keep func(casefile.Case) bool) ([]casefile.Case, error) {
	cases, err := s.ReadAll()
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".rewrite-*")
	if err != nil {
		return nil, fmt.Errorf("create rewrite temp: %w", err)
	}
	tmpPath := tmp.Name()
	// The temp file must not survive a failed rewrite.
	defer os.Remove(tmpPath)

	var removed []casefile.Case
	for _, c := range cases {
		if !keep(c) {
			removed = append(removed, c)
			continue
		}
		if err := casefile.WriteFrame(tmp, c); err != nil {
			tmp.Close()
			return nil, fmt.Errorf("write rewrite temp: %w", err)
		}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("sync rewrite temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close rewrite temp: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return nil, fmt.Errorf("replace store: %w", err)
	}
	s.logger.Debug("store rewritten",
		"path", s.path, "kept", len(cases)-len(removed), "removed", len(removed))
	return removed, nil
}
