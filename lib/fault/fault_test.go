// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fault

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type kindedStub struct{ kind Kind }

func (s kindedStub) Error() string { return "stub" }
func (s kindedStub) Kind() Kind    { return s.kind }

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, Unknown},
		{"plain", errors.New("disk on fire"), Unknown},
		{"cancelled", context.Canceled, Unknown},
		{"direct", NotFoundf("variable %q", "x"), NotFound},
		{"wrapped by fmt", fmt.Errorf("statement 3: %w", Securityf("readonly")), Security},
		{"foreign kinded", fmt.Errorf("parse: %w", kindedStub{Syntax}), Syntax},
		{"outermost kind wins", Wrap(Inspection, TypeErrorf("inner"), "reading /proc"), Inspection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(Underflow, "already at root"))
	if !Is(err, Underflow) {
		t.Error("Is(Underflow) = false")
	}
	if Is(err, Security) {
		t.Error("Is(Security) = true")
	}
	if Is(nil, Unknown) {
		t.Error("nil error reported as Unknown kind")
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(Inspection, cause, "reading %s", "/proc/1/status")
	if got, want := err.Error(), "InspectionError: reading /proc/1/status: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("Wrap does not unwrap to its cause")
	}
	if got, want := NotFoundf("container %q", "c9").Error(), `NotFoundError: container "c9"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestPreExecution(t *testing.T) {
	for kind := Unknown; kind <= Inspection; kind++ {
		want := kind == Syntax || kind == Validation
		if kind.PreExecution() != want {
			t.Errorf("%s.PreExecution() = %v, want %v", kind, !want, want)
		}
	}
}
