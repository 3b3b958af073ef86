// Package output prints styled, user-facing CLI messages.
//
// Functions use lipgloss for styling but abstract away the details from
// callers. Diagnostics and logs are separate: logs go through
// internal/logger, this package is what a user reads after a run.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool
	out         io.Writer = os.Stdout
)

// SetVerbose enables or disables verbose output for debugging.
// This should be called by the CLI when the --verbose flag is set.
func SetVerbose(v bool) {
	verboseMode = v
}

// SetOutput redirects all messages, mainly for tests and cobra's OutOrStdout.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// Success prints a success message in green.
//
// Example:
//
//	output.Success("Generated 3 providers")
func Success(msg string) {
	fmt.Fprintln(out, successStyle.Render("✔ "+msg))
}

// Error prints an error message in red.
func Error(msg string) {
	fmt.Fprintln(out, errorStyle.Render("✘ "+msg))
}

// Warn prints a warning in yellow.
func Warn(msg string) {
	fmt.Fprintln(out, warnStyle.Render("! "+msg))
}

// Info prints an informational message in cyan.
func Info(msg string) {
	fmt.Fprintln(out, infoStyle.Render("• "+msg))
}

// Step prints an indented step message in gray.
// Use this for sub-items such as individual diagnostics.
func Step(msg string) {
	fmt.Fprintln(out, stepStyle.Render("   "+msg))
}

// Verbose prints a debug message only if verbose mode is enabled.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(out, stepStyle.Render("… "+msg))
	}
}
