// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the caseledger CLI.
package ux

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// Caseledger color palette - parchment and courtroom brass
var (
	ColorBrass     = lipgloss.Color("#C9A227") // Brass - highlights, success
	ColorParch     = lipgloss.Color("#E8DCC3") // Parchment - primary text accents
	ColorOak       = lipgloss.Color("#8B5E34") // Oak - borders, secondary elements
	ColorSlate     = lipgloss.Color("#5C6B73") // Slate - muted text
	ColorInkBlue   = lipgloss.Color("#1F3A5F") // Ink blue - interactive elements
	ColorVerdict   = lipgloss.Color("#3E7C59") // Verdict green - success states
	ColorObjection = lipgloss.Color("#A63A3A") // Objection red - errors
	ColorCaution   = lipgloss.Color("#D9A431") // Caution amber - warnings
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	Box     lipgloss.Style
	InfoBox lipgloss.Style

	HeaderCell lipgloss.Style
	Cell       lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorBrass),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorParch),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorVerdict),
	Warning:   lipgloss.NewStyle().Foreground(ColorCaution),
	Error:     lipgloss.NewStyle().Foreground(ColorObjection),
	Highlight: lipgloss.NewStyle().Foreground(ColorBrass).Bold(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorOak).
		Padding(0, 1),
	InfoBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorInkBlue).
		Padding(0, 1),

	HeaderCell: lipgloss.NewStyle().Bold(true).Foreground(ColorBrass).Padding(0, 1),
	Cell:       lipgloss.NewStyle().Padding(0, 1),
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
	IconGavel   Icon = "§"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return string(i)
	}
}

// plain disables styling for scripts and dumb terminals.
var plain atomic.Bool

// SetPlain switches all helpers to unstyled single-line output.
func SetPlain(v bool) { plain.Store(v) }

// Plain reports whether plain output is active.
func Plain() bool { return plain.Load() }

// Title prints a styled title
func Title(text string) {
	if Plain() {
		fmt.Println(text)
		return
	}
	fmt.Println(Styles.Title.Render(text))
}

// Success prints a success message with checkmark
func Success(text string) {
	if Plain() {
		fmt.Fprintf(os.Stdout, "OK: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
}

// Warning prints a warning message
func Warning(text string) {
	if Plain() {
		fmt.Fprintf(os.Stderr, "WARN: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
}

// Error prints an error message
func Error(text string) {
	if Plain() {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconError.Render(), Styles.Error.Render(text))
}

// Info prints an informational message
func Info(text string) {
	if Plain() {
		fmt.Println(text)
		return
	}
	fmt.Printf("%s %s\n", Styles.Muted.Render("│"), text)
}

// Muted prints muted/secondary text
func Muted(text string) {
	if Plain() {
		fmt.Println(text)
		return
	}
	fmt.Println(Styles.Muted.Render(text))
}

// Box prints text in a rounded box
func Box(text string) {
	if Plain() {
		fmt.Println(text)
		return
	}
	fmt.Println(Styles.Box.Render(text))
}
