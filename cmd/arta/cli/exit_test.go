// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/arta-lang/arta/lib/fault"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitOK},
		{"explicit", &ExitError{Code: 3}, 3},
		{"usage", Usagef("missing file"), ExitInvalid},
		{"syntax", fmt.Errorf("report.arta: %w", fault.New(fault.Syntax, "unexpected END")), ExitInvalid},
		{"validation", fault.New(fault.Validation, "actions disabled"), ExitInvalid},
		{"security", fault.Securityf("container %q is read-only", "c1"), ExitRuntime},
		{"not found", fault.NotFoundf("no such file"), ExitRuntime},
		{"interrupted", fmt.Errorf("LIFE MONITOR CPU: %w", context.Canceled), ExitInterrupted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestSilent(t *testing.T) {
	if !Silent(&ExitError{Code: 1}) || !Silent(context.Canceled) {
		t.Error("expected ExitError and cancellation to be silent")
	}
	if Silent(fault.NotFoundf("x")) {
		t.Error("ordinary errors must be printed")
	}
}

func TestNewLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger := newLogger(&buffer, false, false)
	logger.Info("hidden")
	logger.Warn("shown", "statement", 2)
	if strings.Contains(buffer.String(), "hidden") {
		t.Error("info logged without --verbose")
	}
	if !strings.Contains(buffer.String(), `"statement":2`) {
		t.Errorf("JSON handler output = %q", buffer.String())
	}

	buffer.Reset()
	newLogger(&buffer, true, true).Debug("tick", "target", "CPU")
	if !strings.Contains(buffer.String(), "target=CPU") {
		t.Errorf("text handler output = %q", buffer.String())
	}
}
