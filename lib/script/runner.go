// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/engine"
	"github.com/arta-lang/arta/lib/output"
	"github.com/arta-lang/arta/lib/parser"
	"github.com/arta-lang/arta/lib/security"
)

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	// Executor runs the statements. Required.
	Executor *engine.Executor

	// Output receives warnings and listings. It is normally the same
	// sink the executor writes to. Defaults to output.Discard.
	Output output.Sink

	Logger *slog.Logger
}

// Runner runs scripts against one executor.
type Runner struct {
	executor *engine.Executor
	sink     output.Sink
	logger   *slog.Logger
}

// NewRunner returns a Runner.
func NewRunner(config RunnerConfig) (*Runner, error) {
	if config.Executor == nil {
		return nil, fmt.Errorf("script: RunnerConfig.Executor is required")
	}
	if config.Output == nil {
		config.Output = output.Discard
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{executor: config.Executor, sink: config.Output, logger: config.Logger}, nil
}

// Result summarizes a run.
type Result struct {
	// Statements is the number of top-level statements parsed.
	Statements int
	Warnings   []security.Violation
}

// Run parses, validates and executes script. args are bound in the
// active container before validation. The first failing statement
// stops the run and its *engine.StatementError is returned.
func (r *Runner) Run(ctx context.Context, script *Script, args []Arg) (Result, error) {
	logger := r.logger.With("script", script.Name, "digest", script.ShortDigest())

	if script.Export.Exported && !script.Export.Valid() {
		if err := r.sink.Emit(output.Warning(fmt.Sprintf(
			"%s: checksum mismatch for exported container %q (recorded %s, computed %s); the file was edited after export",
			script.Name, script.Export.Name, script.Export.Expected, script.Export.Actual,
		))); err != nil {
			return Result{}, err
		}
	}

	statements, err := parser.Parse(script.Source)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", script.Name, err)
	}
	result := Result{Statements: len(statements)}

	variables := r.executor.State().Containers.Active().Variables
	for _, arg := range args {
		variables.Set(arg.Name, arg.Value)
	}

	report := r.executor.Validate(statements)
	result.Warnings = report.Warnings()
	for _, violation := range result.Warnings {
		if err := r.sink.Emit(output.Warning(violation.String())); err != nil {
			return result, err
		}
	}
	if err := report.Err(); err != nil {
		logger.Debug("script failed validation", "violations", len(report.Fatal()))
		return result, fmt.Errorf("%s: %w", script.Name, err)
	}

	logger.Debug("running script", "statements", len(statements), "dry_run", r.executor.State().DryRun)
	if err := r.executor.Run(ctx, statements); err != nil {
		return result, fmt.Errorf("%s: %w", script.Name, err)
	}
	return result, nil
}

// Entry is one line of an explain listing.
type Entry struct {
	// Index counts top-level statements from 1.
	Index       int
	Position    ast.Position
	Source      string
	Description string
	Violations  []security.Violation
}

// Explain lists what each top-level statement of script would do,
// with the violations the validator finds in it. Nothing executes.
func Explain(script *Script, options security.Options) ([]Entry, error) {
	statements, err := parser.Parse(script.Source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", script.Name, err)
	}
	entries := make([]Entry, len(statements))
	for index, statement := range statements {
		entries[index] = Entry{
			Index:       index + 1,
			Position:    statement.Pos(),
			Source:      ast.Format(statement),
			Description: engine.Describe(statement),
			Violations:  security.Validate([]ast.Statement{statement}, options).Violations,
		}
	}
	return entries, nil
}

// Explain lists script on the runner's output using the executor's
// validation options.
func (r *Runner) Explain(script *Script) ([]Entry, error) {
	entries, err := Explain(script, r.executor.ValidationOptions())
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		text := fmt.Sprintf("%d. (%s) %s\n   would %s", entry.Index, entry.Position.Describe(), entry.Source, entry.Description)
		if err := r.sink.Emit(output.Message(text)); err != nil {
			return entries, err
		}
		for _, violation := range entry.Violations {
			if err := r.sink.Emit(output.Warning(violation.String())); err != nil {
				return entries, err
			}
		}
	}
	return entries, nil
}
