// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package security

import (
	"strings"

	"github.com/arta-lang/arta/lib/fault"
	"github.com/arta-lang/arta/lib/value"
)

// Default ceilings.
const (
	DefaultMaxFilesPerDelete   = 100
	DefaultMaxProcessesPerKill = 10
	DefaultMaxNestingDepth     = 10
)

// DefaultProtectedProcesses are process names no KILL may touch.
var DefaultProtectedProcesses = []string{
	"init", "systemd", "kernel", "launchd", "WindowServer",
	"loginwindow", "kernel_task", "syslogd", "notifyd",
}

// Limits bounds what actions may touch. Zero numeric fields select the
// defaults.
type Limits struct {
	MaxFilesPerDelete   int
	MaxProcessesPerKill int
	MaxNestingDepth     int

	// ProtectedNames match when they occur anywhere in a process
	// record's name field, ignoring case. Nil selects DefaultProtectedProcesses.
	ProtectedNames []string

	// ProtectedPIDs are refused in addition to PIDs 0 and 1 and the
	// engine's own PID.
	ProtectedPIDs []int
}

// DefaultLimits returns the built-in limits.
func DefaultLimits() Limits {
	return Limits{
		MaxFilesPerDelete:   DefaultMaxFilesPerDelete,
		MaxProcessesPerKill: DefaultMaxProcessesPerKill,
		MaxNestingDepth:     DefaultMaxNestingDepth,
		ProtectedNames:      DefaultProtectedProcesses,
	}
}

func (l Limits) maxFiles() int { return orDefault(l.MaxFilesPerDelete, DefaultMaxFilesPerDelete) }
func (l Limits) maxProcesses() int {
	return orDefault(l.MaxProcessesPerKill, DefaultMaxProcessesPerKill)
}
func (l Limits) maxNesting() int { return orDefault(l.MaxNestingDepth, DefaultMaxNestingDepth) }

func orDefault(configured, fallback int) int {
	if configured > 0 {
		return configured
	}
	return fallback
}

// CheckDeleteCeiling refuses a DELETE that would remove more files
// than the ceiling allows.
func (l Limits) CheckDeleteCeiling(count int) error {
	if limit := l.maxFiles(); count > limit {
		return fault.Securityf("DELETE FILES matched %d files, above the limit of %d per statement", count, limit)
	}
	return nil
}

// CheckKillCeiling refuses a KILL that would signal more processes
// than the ceiling allows.
func (l Limits) CheckKillCeiling(count int) error {
	if limit := l.maxProcesses(); count > limit {
		return fault.Securityf("KILL PROCESS matched %d processes, above the limit of %d per statement", count, limit)
	}
	return nil
}

// CheckProtected refuses the whole KILL when any matched process is
// protected. selfPID is the engine's own process ID.
func (l Limits) CheckProtected(processes value.List, selfPID int) error {
	names := l.ProtectedNames
	if names == nil {
		names = DefaultProtectedProcesses
	}
	for _, process := range processes {
		pid, hasPID := recordPID(process)
		if hasPID && (pid == 0 || pid == 1 || pid == selfPID || containsInt(l.ProtectedPIDs, pid)) {
			return fault.Securityf("KILL PROCESS refused: PID %d is protected", pid)
		}
		name, _ := process.Get("name")
		if text, ok := name.AsString(); ok {
			lowered := strings.ToLower(text)
			for _, protected := range names {
				if protected != "" && strings.Contains(lowered, strings.ToLower(protected)) {
					return fault.Securityf("KILL PROCESS refused: process %q is protected", text)
				}
			}
		}
	}
	return nil
}

func recordPID(process value.Record) (int, bool) {
	pid, ok := process.Get("pid")
	if !ok {
		return 0, false
	}
	number, ok := pid.AsNumber()
	if !ok {
		return 0, false
	}
	return int(number), true
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
