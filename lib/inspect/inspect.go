// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"context"
	"strings"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/value"
)

// Filter decides whether a record belongs in a query result. A nil
// Filter keeps every record.
type Filter func(value.Record) (bool, error)

// Request is one query against the system.
type Request struct {
	Target ast.Target

	// Path is the absolute folder for FILES, the absolute file for
	// CONTENT, and an optional mount path for DISK. Other targets
	// ignore it.
	Path string

	Filter Filter
}

// ActionKind identifies a destructive operation.
type ActionKind int

const (
	ActionDelete ActionKind = iota + 1
	ActionKill
)

func (k ActionKind) String() string {
	switch k {
	case ActionDelete:
		return "DELETE FILES"
	case ActionKill:
		return "KILL PROCESS"
	default:
		return "unknown action"
	}
}

// Action is a destructive operation against resolved records. Delete
// targets carry a "path" field; Kill targets carry a "pid" field.
type Action struct {
	Kind    ActionKind
	Targets value.List
}

// System is the engine's view of the machine.
type System interface {
	// Query returns the target's records that pass the filter, in a
	// stable order. Operating-system failures are Inspection errors;
	// a missing FILES folder or CONTENT file is a NotFound error.
	Query(ctx context.Context, request Request) (value.List, error)

	// Perform executes an already-authorized action and returns how
	// many targets were affected. A partial failure returns the count
	// so far alongside an Inspection error.
	Perform(ctx context.Context, action Action) (int, error)
}

// aliases maps alternative field names onto the record field they
// read, per target.
var aliases = map[ast.Target]map[string]string{
	ast.TargetMemory: {
		"percent":       "usage",
		"used_percent":  "usage",
		"usage_percent": "usage",
	},
	ast.TargetCPU: {
		"name":          "brand",
		"percent":       "usage",
		"usage_percent": "usage",
		"core_count":    "cores",
	},
	ast.TargetBattery: {
		"percent":    "level",
		"percentage": "level",
		"charge":     "level",
		"status":     "state",
	},
	ast.TargetDisk: {
		"percent":      "usage",
		"used_percent": "usage",
		"mount_point":  "mount",
		"available":    "free",
	},
	ast.TargetNetwork: {
		"sent":       "transmitted",
		"bytes_sent": "transmitted",
		"recv":       "received",
		"bytes_recv": "received",
	},
	ast.TargetSystem: {
		"kernel_version": "kernel",
		"uptime_secs":    "uptime",
	},
}

// CanonicalField returns the record field that name reads on target.
// Names without an alias are returned lower-cased.
func CanonicalField(target ast.Target, name string) string {
	lower := strings.ToLower(name)
	if canonical, ok := aliases[target][lower]; ok {
		return canonical
	}
	return lower
}

// Lookup reads a field from a record of target, resolving aliases.
func Lookup(target ast.Target, record value.Record, name string) (value.Value, bool) {
	if v, ok := record.Get(name); ok {
		return v, true
	}
	return record.Get(CanonicalField(target, name))
}

func applyFilter(records value.List, filter Filter) (value.List, error) {
	if filter == nil {
		return records, nil
	}
	kept := records[:0:0]
	for _, record := range records {
		keep, err := filter(record)
		if err != nil {
			return nil, err
		}
		if keep {
			kept = append(kept, record)
		}
	}
	return kept, nil
}
