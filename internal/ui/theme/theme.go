// Package theme holds the terminal styles for the drill loop.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette
var (
	Grass    = lipgloss.Color("#22C55E")
	Diamond  = lipgloss.Color("#38BDF8")
	Gold     = lipgloss.Color("#FACC15")
	Redstone = lipgloss.Color("#F43F5E")
	Stone    = lipgloss.Color("#94A3B8")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Diamond)

	Hint = lipgloss.NewStyle().
		Foreground(Stone).
		Italic(true)

	Warning = lipgloss.NewStyle().
		Foreground(Gold)
)

// Verdicts
var (
	Correct = lipgloss.NewStyle().
		Foreground(Grass).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Redstone).
			Bold(true)

	Achievement = lipgloss.NewStyle().
			Foreground(Gold).
			Bold(true)
)

// Status is the running score line.
var Status = lipgloss.NewStyle().
	Foreground(Stone)
