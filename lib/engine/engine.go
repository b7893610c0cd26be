// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/clock"
	"github.com/arta-lang/arta/lib/container"
	"github.com/arta-lang/arta/lib/inspect"
	"github.com/arta-lang/arta/lib/life"
	"github.com/arta-lang/arta/lib/navigation"
	"github.com/arta-lang/arta/lib/output"
	"github.com/arta-lang/arta/lib/security"
	"github.com/arta-lang/arta/lib/value"
)

// Config configures an Executor.
type Config struct {
	// System answers queries and performs actions. Required.
	System inspect.System

	// Output receives results, PRINT values, messages and warnings.
	// Defaults to output.Discard.
	Output output.Sink

	// AllowActions is the global allow-actions flag. Containers can
	// narrow it but never widen it.
	AllowActions bool

	// DryRun reports what actions would do without performing them.
	DryRun bool

	Limits security.Limits

	// StartPath is the Root frame of every container's context.
	// Defaults to the working directory.
	StartPath string

	// Stat checks navigation targets. Defaults to os.Stat.
	Stat navigation.StatFunc

	// WriteFile writes exported containers. Defaults to os.WriteFile
	// with mode 0644.
	WriteFile func(path string, data []byte) error

	// SelfPID is protected from KILL. Defaults to os.Getpid().
	SelfPID int

	// Life configures LIFE MONITOR blocks. Sampler, Runner and
	// Validation are filled in by the executor.
	Life life.Config

	Clock  clock.Clock
	Logger *slog.Logger
}

// HistoryEntry is one statement of the session log.
type HistoryEntry struct {
	Statement string
	Container string
	Time      time.Time
	Failed    bool
}

// State is the interpreter state. It is owned by one Executor.
type State struct {
	Containers   *container.Manager
	AllowActions bool
	DryRun       bool

	history []HistoryEntry

	// overlay is the snapshot of the innermost running LIFE block.
	overlay *overlay
}

// History returns a copy of the session log.
func (s *State) History() []HistoryEntry {
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Outcome is what one statement produced, besides its output events.
type Outcome struct {
	// Rows are a SELECT's projected records, or the matched targets of
	// a DELETE or KILL.
	Rows value.List

	// Affected counts the targets an action changed (or would change,
	// in dry-run mode).
	Affected int
}

// StatementError reports which statement of a script failed.
type StatementError struct {
	// Index is the statement's 0-based position in the script.
	Index     int
	Position  ast.Position
	Statement ast.Statement
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d (%s): %v", e.Index+1, e.Position.Describe(), e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

// Executor runs statements against its State.
type Executor struct {
	state     *State
	system    inspect.System
	sink      output.Sink
	limits    security.Limits
	startPath string
	stat      navigation.StatFunc
	writeFile func(string, []byte) error
	selfPID   int
	life      life.Config
	clock     clock.Clock
	logger    *slog.Logger

	// loopTargets maps active FOR variables to the target their
	// records came from, so var.field resolves field aliases.
	loopTargets map[string]ast.Target
}

// New returns an Executor with a fresh State holding only the default
// container.
func New(config Config) (*Executor, error) {
	if config.System == nil {
		return nil, fmt.Errorf("engine: Config.System is required")
	}
	if config.Output == nil {
		config.Output = output.Discard
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Stat == nil {
		config.Stat = os.Stat
	}
	if config.WriteFile == nil {
		config.WriteFile = func(path string, data []byte) error {
			return os.WriteFile(path, data, 0o644)
		}
	}
	if config.SelfPID == 0 {
		config.SelfPID = os.Getpid()
	}
	if config.StartPath == "" {
		working, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("engine: determining working directory: %w", err)
		}
		config.StartPath = working
	}

	executor := &Executor{
		system:      config.System,
		sink:        config.Output,
		limits:      config.Limits,
		startPath:   config.StartPath,
		stat:        config.Stat,
		writeFile:   config.WriteFile,
		selfPID:     config.SelfPID,
		life:        config.Life,
		clock:       config.Clock,
		logger:      config.Logger,
		loopTargets: make(map[string]ast.Target),
	}

	// Validate the start path once so a bad configuration fails here
	// rather than on the first CREATE CONTAINER.
	if _, err := executor.newContext(); err != nil {
		return nil, err
	}
	manager, err := container.NewManager(container.ManagerConfig{
		NewContext: executor.newContext,
		Clock:      config.Clock,
	})
	if err != nil {
		return nil, err
	}
	executor.state = &State{
		Containers:   manager,
		AllowActions: config.AllowActions,
		DryRun:       config.DryRun,
	}
	return executor, nil
}

func (e *Executor) newContext() (*navigation.Context, error) {
	return navigation.New(e.startPath, navigation.Options{Stat: e.stat, Clock: e.clock})
}

// State returns the interpreter state.
func (e *Executor) State() *State { return e.state }

// ValidationOptions returns the options scripts are validated with. In
// dry-run mode actions are validated as allowed because none will be
// performed.
func (e *Executor) ValidationOptions() security.Options {
	return security.Options{
		AllowActions: e.state.AllowActions || e.state.DryRun,
		Limits:       e.limits,
	}
}

// Validate checks a script with the executor's options.
func (e *Executor) Validate(script []ast.Statement) security.Report {
	return security.Validate(script, e.ValidationOptions())
}

// Run executes statements in order and stops at the first failure,
// which is returned as a *StatementError. It does not validate; the
// caller runs Validate first.
func (e *Executor) Run(ctx context.Context, statements []ast.Statement) error {
	for index, statement := range statements {
		if _, err := e.Execute(ctx, statement); err != nil {
			return &StatementError{Index: index, Position: statement.Pos(), Statement: statement, Err: err}
		}
	}
	return nil
}

// Execute runs one top-level statement and appends it to the session
// history.
func (e *Executor) Execute(ctx context.Context, statement ast.Statement) (Outcome, error) {
	containerName := e.state.Containers.Active().Name
	outcome, err := e.execute(ctx, statement)
	e.state.history = append(e.state.history, HistoryEntry{
		Statement: ast.Format(statement),
		Container: containerName,
		Time:      e.clock.Now(),
		Failed:    err != nil,
	})
	if err != nil {
		e.logger.Debug("statement failed",
			"statement", statementName(statement),
			"container", containerName,
			"error", err,
		)
	}
	return outcome, err
}

// execute dispatches one statement. Nested bodies call it directly so
// only top-level statements reach the history.
func (e *Executor) execute(ctx context.Context, statement ast.Statement) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	e.logger.Debug("executing statement",
		"statement", statementName(statement),
		"container", e.state.Containers.Active().Name,
	)

	switch node := statement.(type) {
	case *ast.Select:
		return e.executeSelect(ctx, node)
	case *ast.Let:
		return Outcome{}, e.executeLet(ctx, node)
	case *ast.Print:
		return Outcome{}, e.executePrint(ctx, node)
	case *ast.If:
		return Outcome{}, e.executeIf(ctx, node)
	case *ast.For:
		return Outcome{}, e.executeFor(ctx, node)
	case *ast.EnterFolder:
		return Outcome{}, e.executeEnter(ctx, node.Path, navigation.Folder)
	case *ast.EnterFile:
		return Outcome{}, e.executeEnter(ctx, node.Path, navigation.File)
	case *ast.Exit:
		return Outcome{}, e.executeExit()
	case *ast.Reset:
		return Outcome{}, e.executeReset()
	case *ast.Show:
		return e.executeShow(node)
	case *ast.CreateContainer:
		return Outcome{}, e.executeCreateContainer(ctx, node)
	case *ast.SwitchContainer:
		return Outcome{}, e.executeSwitchContainer(node)
	case *ast.ListContainers:
		return e.executeListContainers()
	case *ast.DestroyContainer:
		return Outcome{}, e.executeDestroyContainer(node)
	case *ast.ExportContainer:
		return Outcome{}, e.executeExportContainer(ctx, node)
	case *ast.Delete:
		return e.executeDelete(ctx, node)
	case *ast.Kill:
		return e.executeKill(ctx, node)
	case *ast.LifeMonitor:
		return Outcome{}, e.executeLife(ctx, node)
	case *ast.Explain:
		return Outcome{}, e.executeExplain(node)
	}
	return Outcome{}, fmt.Errorf("engine: unsupported statement %T", statement)
}

func (e *Executor) emit(event output.Event) error {
	if err := e.sink.Emit(event); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func (e *Executor) message(format string, args ...any) error {
	return e.emit(output.Message(fmt.Sprintf(format, args...)))
}

func (e *Executor) warning(format string, args ...any) error {
	return e.emit(output.Warning(fmt.Sprintf(format, args...)))
}

// statementName is the log label of a statement: its leading keywords.
func statementName(statement ast.Statement) string {
	switch node := statement.(type) {
	case *ast.Select:
		return "SELECT " + node.Target.String()
	case *ast.Let:
		return "LET"
	case *ast.Print:
		return "PRINT"
	case *ast.If:
		return "IF"
	case *ast.For:
		return "FOR"
	case *ast.EnterFolder:
		return "ENTER FOLDER"
	case *ast.EnterFile:
		return "ENTER FILE"
	case *ast.Exit:
		return "EXIT"
	case *ast.Reset:
		return "RESET"
	case *ast.Show:
		return "SHOW " + node.What.String()
	case *ast.CreateContainer:
		return "CREATE CONTAINER"
	case *ast.SwitchContainer:
		return "SWITCH CONTAINER"
	case *ast.ListContainers:
		return "LIST CONTAINERS"
	case *ast.DestroyContainer:
		return "DESTROY CONTAINER"
	case *ast.ExportContainer:
		return "EXPORT CONTAINER"
	case *ast.Delete:
		return "DELETE FILES"
	case *ast.Kill:
		return "KILL PROCESS"
	case *ast.LifeMonitor:
		return "LIFE MONITOR " + node.Target.String()
	case *ast.Explain:
		return "EXPLAIN"
	}
	return fmt.Sprintf("%T", statement)
}
