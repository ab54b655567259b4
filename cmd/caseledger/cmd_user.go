// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/caseledger/pkg/audit"
	"github.com/AleutianAI/caseledger/pkg/ux"
)

var (
	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage clerk accounts",
	}

	userRegisterCmd = &cobra.Command{
		Use:   "register [username]",
		Short: "Register a clerk account",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserRegister,
	}

	userLoginCmd = &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and print a session id",
		Args:  cobra.ExactArgs(1),
		RunE:  runUserLogin,
	}
)

func init() {
	userCmd.AddCommand(userRegisterCmd, userLoginCmd)
	rootCmd.AddCommand(userCmd)
}

// promptPassword reads a password without echoing it.
func promptPassword(title string) (string, error) {
	var password string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&password).
		Run()
	return password, err
}

func runUserRegister(cmd *cobra.Command, args []string) error {
	password, err := promptPassword("Password (letters and digits only)")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := app.creds.Register(args[0], password); err != nil {
		return err
	}
	record(cmd, audit.Event{
		EventType: "auth.register", Actor: args[0], Outcome: "success",
	})
	ux.Success(fmt.Sprintf("user %q registered", args[0]))
	return nil
}

func runUserLogin(cmd *cobra.Command, args []string) error {
	password, err := promptPassword("Password")
	if err != nil {
		return err
	}

	session, err := app.creds.Authenticate(args[0], password)
	if err != nil {
		record(cmd, audit.Event{
			EventType: "auth.login", Actor: args[0], Outcome: "failure",
		})
		return err
	}
	record(cmd, audit.Event{
		EventType: "auth.login", Actor: args[0], Outcome: "success",
	})
	ux.Success(fmt.Sprintf("logged in as %q", args[0]))
	ux.Info("session " + session)
	return nil
}
