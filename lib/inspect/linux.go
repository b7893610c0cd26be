// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/fault"
	"github.com/arta-lang/arta/lib/value"
)

// DefaultContentLineLimit caps an unfiltered CONTENT query.
const DefaultContentLineLimit = 100

// LinuxConfig configures a Linux system. Zero values select the real
// machine.
type LinuxConfig struct {
	// ProcRoot and SysRoot default to /proc and /sys.
	ProcRoot string
	SysRoot  string

	// ContentLineLimit caps CONTENT results when no filter is given.
	ContentLineLimit int

	// Statfs reports filesystem capacity for DISK. Defaults to
	// statfs(2).
	Statfs func(path string) (total, free uint64, err error)

	// Signal terminates a process for KILL. Defaults to SIGTERM via
	// kill(2).
	Signal func(pid int) error
}

// Linux reads the machine through procfs and sysfs.
type Linux struct {
	procRoot     string
	sysRoot      string
	contentLimit int
	statfs       func(path string) (total, free uint64, err error)
	signal       func(pid int) error

	// previousCPU is the last aggregate /proc/stat reading, so
	// successive CPU queries (LIFE ticks) report usage over the
	// interval between them.
	mu          sync.Mutex
	previousCPU *CPUReading
}

// NewLinux returns a Linux system.
func NewLinux(config LinuxConfig) *Linux {
	if config.ProcRoot == "" {
		config.ProcRoot = "/proc"
	}
	if config.SysRoot == "" {
		config.SysRoot = "/sys"
	}
	if config.ContentLineLimit <= 0 {
		config.ContentLineLimit = DefaultContentLineLimit
	}
	if config.Statfs == nil {
		config.Statfs = statfs
	}
	if config.Signal == nil {
		config.Signal = func(pid int) error { return unix.Kill(pid, unix.SIGTERM) }
	}
	return &Linux{
		procRoot:     config.ProcRoot,
		sysRoot:      config.SysRoot,
		contentLimit: config.ContentLineLimit,
		statfs:       config.Statfs,
		signal:       config.Signal,
	}
}

// Query implements System.
func (l *Linux) Query(ctx context.Context, request Request) (value.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records value.List
	var err error
	switch request.Target {
	case ast.TargetCPU:
		records = value.List{l.cpu()}
	case ast.TargetMemory:
		var record value.Record
		record, err = l.memory()
		records = value.List{record}
	case ast.TargetDisk:
		records, err = l.disks(request.Path)
	case ast.TargetNetwork:
		records, err = l.network()
	case ast.TargetSystem:
		records = value.List{l.system()}
	case ast.TargetBattery:
		records = l.batteries()
	case ast.TargetProcess:
		records, err = l.processes(ctx)
	case ast.TargetFiles:
		records, err = listFiles(request.Path)
	case ast.TargetContent:
		// CONTENT filters while reading so the line cap applies only to
		// unfiltered queries.
		return readContent(request.Path, request.Filter, l.contentLimit)
	default:
		return nil, fault.New(fault.Inspection, "unsupported query target %s", request.Target)
	}
	if err != nil {
		return nil, err
	}
	return applyFilter(records, request.Filter)
}

// Perform implements System.
func (l *Linux) Perform(ctx context.Context, action Action) (int, error) {
	var affected int
	var failures []error
	for _, target := range action.Targets {
		if err := ctx.Err(); err != nil {
			return affected, err
		}
		var err error
		switch action.Kind {
		case ActionDelete:
			err = deleteTarget(target)
		case ActionKill:
			err = l.killTarget(target)
		default:
			return affected, fault.New(fault.Inspection, "unsupported action %s", action.Kind)
		}
		if err != nil {
			failures = append(failures, err)
			continue
		}
		affected++
	}
	if len(failures) > 0 {
		return affected, fault.Wrap(fault.Inspection, errors.Join(failures...),
			"%s affected %d of %d targets", action.Kind, affected, len(action.Targets))
	}
	return affected, nil
}

func deleteTarget(target value.Record) error {
	path, ok := stringField(target, "path")
	if !ok {
		return fmt.Errorf("delete target has no path field")
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Linux) killTarget(target value.Record) error {
	pid := int(numberField(target, "pid"))
	if pid <= 0 {
		return fmt.Errorf("kill target has no valid pid field")
	}
	if err := l.signal(pid); err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("signalling pid %d: %w", pid, err)
	}
	return nil
}

func stringField(record value.Record, name string) (string, bool) {
	v, ok := record.Get(name)
	if !ok {
		return "", false
	}
	return v.AsString()
}

func statfs(path string) (total, free uint64, err error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	blockSize := uint64(stat.Bsize)
	return stat.Blocks * blockSize, stat.Bavail * blockSize, nil
}
