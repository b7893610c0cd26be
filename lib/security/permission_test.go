// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package security

import (
	"errors"
	"testing"

	"github.com/arta-lang/arta/lib/fault"
	"github.com/arta-lang/arta/lib/value"
)

func errorsAs(err error, target any) bool { return errors.As(err, target) }

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		subject Subject
		reason  DenyReason
	}{
		{"all permit", Subject{GlobalAllowActions: true, AllowActions: true}, ReasonNone},
		{"global off", Subject{GlobalAllowActions: false, AllowActions: true}, ReasonGlobalDisabled},
		{"global off wins over readonly", Subject{ReadOnly: true}, ReasonGlobalDisabled},
		{"readonly", Subject{GlobalAllowActions: true, AllowActions: true, ReadOnly: true}, ReasonContainerReadOnly},
		{"container disallows", Subject{GlobalAllowActions: true}, ReasonContainerDisallows},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			permission := Evaluate(test.subject)
			if permission.Reason != test.reason {
				t.Fatalf("reason = %s, want %s", permission.Reason, test.reason)
			}
			if permission.Allowed() != (test.reason == ReasonNone) {
				t.Errorf("Allowed() = %v", permission.Allowed())
			}
			err := permission.Err("DELETE FILES")
			if test.reason == ReasonNone {
				if err != nil {
					t.Errorf("Err() = %v, want nil", err)
				}
			} else if !fault.Is(err, fault.Security) {
				t.Errorf("Err() = %v, want SecurityError", err)
			}
		})
	}
}

func TestCeilings(t *testing.T) {
	limits := DefaultLimits()
	if err := limits.CheckDeleteCeiling(100); err != nil {
		t.Errorf("100 files refused: %v", err)
	}
	if err := limits.CheckDeleteCeiling(101); !fault.Is(err, fault.Security) {
		t.Errorf("101 files = %v, want SecurityError", err)
	}
	if err := limits.CheckKillCeiling(11); !fault.Is(err, fault.Security) {
		t.Errorf("11 processes = %v, want SecurityError", err)
	}
	if err := (Limits{}).CheckKillCeiling(10); err != nil {
		t.Errorf("zero Limits did not fall back to defaults: %v", err)
	}
}

func process(pid int, name string) value.Record {
	return value.NewRecord(value.F("pid", value.Number(float64(pid))), value.F("name", value.String(name)))
}

func TestCheckProtected(t *testing.T) {
	limits := DefaultLimits()
	limits.ProtectedPIDs = []int{4242}
	const self = 777

	tests := []struct {
		name      string
		processes value.List
		refused   bool
	}{
		{"ordinary", value.List{process(500, "sleep"), process(501, "yes")}, false},
		{"pid 1", value.List{process(1, "whatever")}, true},
		{"pid 0", value.List{process(0, "idle")}, true},
		{"self", value.List{process(self, "arta")}, true},
		{"configured pid", value.List{process(4242, "db")}, true},
		{"protected name any case", value.List{process(500, "sleep"), process(900, "SystemD")}, true},
		{"protected name inside daemon name", value.List{process(321, "systemd-logind")}, true},
		{"protected name mixed case substring", value.List{process(322, "Syslogd-helper")}, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := limits.CheckProtected(test.processes, self)
			if test.refused != (err != nil) {
				t.Fatalf("CheckProtected = %v, refused want %v", err, test.refused)
			}
			if err != nil && !fault.Is(err, fault.Security) {
				t.Errorf("error kind = %s, want SecurityError", fault.KindOf(err))
			}
		})
	}
}
