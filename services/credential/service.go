// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package credential stores user credentials with Huffman-obscured
// passwords in a binary file read once at process start.
//
// SECURITY: Huffman encoding is obfuscation, not protection. There is no
// salt and no cryptographic hashing; anyone with the fixed code table can
// invert a stored password. This mirrors the original system's behavior
// and is flagged as a known gap, not authentication hardening.
//
// Password plaintext is kept out of long-lived memory: attempt buffers are
// wrapped in memguard buffers and destroyed as soon as the comparison is
// done.
package credential

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/awnumar/memguard"
	"github.com/google/uuid"

	"github.com/AleutianAI/caseledger/pkg/casefile"
	"github.com/AleutianAI/caseledger/pkg/huffman"
)

// Sentinel errors for credential operations.
var (
	// ErrUserExists indicates a registration under a taken username.
	ErrUserExists = errors.New("username already registered")

	// ErrBadCredentials indicates an unknown user or a wrong password.
	// The two cases are deliberately indistinguishable to the caller.
	ErrBadCredentials = errors.New("invalid username or password")

	// ErrEmptyField indicates a blank username or password.
	ErrEmptyField = errors.New("username and password must not be empty")
)

// passwordAlphabet is the fixed trained alphabet: letters and digits at
// equal frequency. The derived code table is deterministic and never
// mutated after startup.
const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// userRecord is one framed entry in the credential file.
type userRecord struct {
	Username string `json:"username"`
	Bits     []byte `json:"bits"`
	BitLen   int    `json:"bit_len"`
}

// Service authenticates users against the credential file.
type Service struct {
	path   string
	table  *huffman.Table
	users  map[string]userRecord
	logger *slog.Logger
}

// New builds the code table, reads the credential file (if present) into
// memory, and returns the service. The file is read only here, never per
// login.
func New(path string, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	freqs := make(map[byte]int, len(passwordAlphabet))
	for i := 0; i < len(passwordAlphabet); i++ {
		freqs[passwordAlphabet[i]] = 1
	}
	table, err := huffman.BuildTable(freqs)
	if err != nil {
		return nil, fmt.Errorf("build credential code table: %w", err)
	}

	s := &Service{
		path:   path,
		table:  table,
		users:  make(map[string]userRecord),
		logger: logger,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads every framed record from the credential file. A missing file
// means no users yet.
func (s *Service) load() error {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open credential store: %w", err)
	}
	defer f.Close()

	for {
		var rec userRecord
		if err := casefile.ReadFrame(f, &rec); err != nil {
			if err == io.EOF {
				s.logger.Debug("credential store loaded", "users", len(s.users))
				return nil
			}
			return fmt.Errorf("read credential store %s: %w", s.path, err)
		}
		s.users[rec.Username] = rec
	}
}

// UserCount returns the number of registered users.
func (s *Service) UserCount() int { return len(s.users) }

// encode obscures password under the fixed table, wiping the plaintext
// copy before returning.
func (s *Service) encode(password string) (packed []byte, bitLen int, err error) {
	buf := memguard.NewBufferFromBytes([]byte(password))
	defer buf.Destroy()
	return s.table.Encode(buf.Bytes())
}

// Register appends a new user to the credential file. Passwords are
// limited to the trained alphabet (letters and digits).
func (s *Service) Register(username, password string) error {
	if username == "" || password == "" {
		return ErrEmptyField
	}
	if _, taken := s.users[username]; taken {
		return fmt.Errorf("%w: %s", ErrUserExists, username)
	}

	packed, bitLen, err := s.encode(password)
	if err != nil {
		return fmt.Errorf("encode password: %w", err)
	}
	rec := userRecord{Username: username, Bits: packed, BitLen: bitLen}

	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("create credential directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	defer f.Close()
	if err := casefile.WriteFrame(f, rec); err != nil {
		return fmt.Errorf("write credential record: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync credential store: %w", err)
	}

	s.users[username] = rec
	s.logger.Info("user registered", "username", username)
	return nil
}

// Authenticate re-encodes the attempted password and compares it with the
// stored encoding. On success it returns a fresh session id.
func (s *Service) Authenticate(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrEmptyField
	}
	rec, ok := s.users[username]
	if !ok {
		s.logger.Warn("login failed", "username", username, "reason", "unknown user")
		return "", ErrBadCredentials
	}

	packed, bitLen, err := s.encode(password)
	if err != nil {
		// An attempt outside the alphabet can never match a stored
		// encoding; report it like any other wrong password.
		s.logger.Warn("login failed", "username", username, "reason", "unencodable attempt")
		return "", ErrBadCredentials
	}
	defer memguard.WipeBytes(packed)

	if bitLen != rec.BitLen || subtle.ConstantTimeCompare(packed, rec.Bits) != 1 {
		s.logger.Warn("login failed", "username", username, "reason", "bad password")
		return "", ErrBadCredentials
	}

	session := uuid.NewString()
	s.logger.Info("login succeeded", "username", username, "session_id", session)
	return session, nil
}
