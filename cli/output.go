// Package cli holds the terminal output helpers shared by the tenantsql
// commands.
package cli

import (
	"fmt"
	"io"
	"os"
)

// Out and ErrOut are swappable for tests.
var (
	Out    io.Writer = os.Stdout
	ErrOut io.Writer = os.Stderr
)

// Fatal prints a message to stderr and exits with code 1.
func Fatal(msg string) {
	fmt.Fprintln(ErrOut, "error:", msg)
	os.Exit(1)
}

// FatalErr prints an error message with details to stderr and exits with
// code 1.
func FatalErr(msg string, err error) {
	fmt.Fprintf(ErrOut, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// Info prints an informational message to stdout.
func Info(msg string) {
	fmt.Fprintln(Out, msg)
}

// Infof prints a formatted informational message to stdout.
func Infof(format string, args ...any) {
	fmt.Fprintf(Out, format+"\n", args...)
}

// Success prints a success message to stdout.
func Success(msg string) {
	fmt.Fprintln(Out, "✓", msg)
}

// Successf prints a formatted success message to stdout.
func Successf(format string, args ...any) {
	fmt.Fprintf(Out, "✓ "+format+"\n", args...)
}

// Warn prints a warning message to stderr.
func Warn(msg string) {
	fmt.Fprintln(ErrOut, "warning:", msg)
}

// Warnf prints a formatted warning message to stderr.
func Warnf(format string, args ...any) {
	fmt.Fprintf(ErrOut, "warning: "+format+"\n", args...)
}
