// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package credential

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.huff")
	s, err := New(path, nil)
	require.NoError(t, err)
	return s, path
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s, _ := newTestService(t)
	require.NoError(t, s.Register("clerk", "hunter2"))

	session, err := s.Authenticate("clerk", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, session)

	// Each login issues a fresh session id.
	again, err := s.Authenticate("clerk", "hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, session, again)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	s, _ := newTestService(t)
	require.NoError(t, s.Register("clerk", "hunter2"))

	_, err := s.Authenticate("clerk", "hunter3")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = s.Authenticate("clerk", "hunter")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.Authenticate("nobody", "whatever")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAuthenticate_UnencodableAttempt(t *testing.T) {
	s, _ := newTestService(t)
	require.NoError(t, s.Register("clerk", "hunter2"))

	// Spaces are outside the trained alphabet; must fail like a wrong
	// password, not crash or leak a different error.
	_, err := s.Authenticate("clerk", "hunter 2")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestRegister_Duplicate(t *testing.T) {
	s, _ := newTestService(t)
	require.NoError(t, s.Register("clerk", "hunter2"))
	assert.ErrorIs(t, s.Register("clerk", "other1"), ErrUserExists)
}

func TestRegister_EmptyFields(t *testing.T) {
	s, _ := newTestService(t)
	assert.ErrorIs(t, s.Register("", "pw"), ErrEmptyField)
	assert.ErrorIs(t, s.Register("user", ""), ErrEmptyField)
}

func TestRegister_PasswordOutsideAlphabet(t *testing.T) {
	s, _ := newTestService(t)
	err := s.Register("clerk", "pass word!")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserExists)
}

func TestPersistence_AcrossRestart(t *testing.T) {
	s, path := newTestService(t)
	require.NoError(t, s.Register("clerk", "hunter2"))
	require.NoError(t, s.Register("judge", "gavel99"))

	reopened, err := New(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.UserCount())

	_, err = reopened.Authenticate("judge", "gavel99")
	require.NoError(t, err)
	_, err = reopened.Authenticate("judge", "gavel98")
	assert.ErrorIs(t, err, ErrBadCredentials)
}
