// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package document stores filings attached to cases in an append-only
// framed file and searches their text.
package document

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/AleutianAI/caseledger/pkg/casefile"
	"github.com/AleutianAI/caseledger/pkg/textsearch"
)

// ErrEmptyDocument indicates an attach with no title or no body.
var ErrEmptyDocument = errors.New("document title and body must not be empty")

// Document is one filing attached to a case.
type Document struct {
	CaseID uint32 `json:"case_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Match pairs a document with the byte offsets where the searched
// pattern occurs in its body.
type Match struct {
	Document Document
	Offsets  []int
}

// Service reads and appends the document file.
type Service struct {
	path   string
	logger *slog.Logger
}

// New returns a service over the document file at path. The file need
// not exist yet.
func New(path string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{path: path, logger: logger}
}

// Attach appends a document for the given case.
func (s *Service) Attach(doc Document) error {
	if doc.Title == "" || doc.Body == "" {
		return ErrEmptyDocument
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("create document directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	defer f.Close()

	if err := casefile.WriteFrame(f, doc); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync document store: %w", err)
	}
	s.logger.Info("document attached", "case_id", doc.CaseID, "title", doc.Title)
	return nil
}

// ReadAll returns every stored document in append order. A missing file
// means no documents yet.
func (s *Service) ReadAll() ([]Document, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open document store: %w", err)
	}
	defer f.Close()

	var docs []Document
	for {
		var doc Document
		if err := casefile.ReadFrame(f, &doc); err != nil {
			if err == io.EOF {
				return docs, nil
			}
			return nil, fmt.Errorf("read document store %s: %w", s.path, err)
		}
		docs = append(docs, doc)
	}
}

// ForCase returns the documents attached to one case.
func (s *Service) ForCase(caseID uint32) ([]Document, error) {
	docs, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []Document
	for _, doc := range docs {
		if doc.CaseID == caseID {
			out = append(out, doc)
		}
	}
	return out, nil
}

// Search returns every document whose body contains pattern, with the
// offsets of all (possibly overlapping) occurrences. The match is exact
// and case-sensitive.
func (s *Service) Search(pattern string) ([]Match, error) {
	if pattern == "" {
		return nil, errors.New("search pattern must not be empty")
	}
	docs, err := s.ReadAll()
	if err != nil {
		return nil, err
	}
	var matches []Match
	for _, doc := range docs {
		if offsets := textsearch.FindAll(doc.Body, pattern); len(offsets) > 0 {
			matches = append(matches, Match{Document: doc, Offsets: offsets})
		}
	}
	s.logger.Debug("document search", "pattern", pattern, "matches", len(matches))
	return matches, nil
}
