// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/arta-lang/arta/lib/fault"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitRuntime     = 1
	ExitInvalid     = 2
	ExitInterrupted = 130
)

// ExitError signals a non-zero exit code without printing an extra
// error message. The command has already written its own output.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// UsageError is a malformed command line: an unknown command or flag,
// or a missing argument.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

func usageErrorf(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// Usagef returns a [UsageError] for commands that validate their own
// positional arguments.
func Usagef(format string, args ...any) error {
	return usageErrorf(format, args...)
}

// ExitCode maps err onto the process exit status. Syntax and validation
// failures (nothing ran) exit 2, cancellation exits 130, and any other
// error exits 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}

	var usage *UsageError
	if errors.As(err, &usage) {
		return ExitInvalid
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	if fault.KindOf(err).PreExecution() {
		return ExitInvalid
	}
	return ExitRuntime
}

// Silent reports whether main should skip printing err.
func Silent(err error) bool {
	var exit *ExitError
	return errors.As(err, &exit) || errors.Is(err, context.Canceled)
}
