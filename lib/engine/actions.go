// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/inspect"
	"github.com/arta-lang/arta/lib/security"
	"github.com/arta-lang/arta/lib/value"
)

// permission recomputes the effective permission of the active
// container.
func (e *Executor) permission() security.Permission {
	active := e.state.Containers.Active()
	return security.Evaluate(security.Subject{
		GlobalAllowActions: e.state.AllowActions,
		Container:          active.Name,
		AllowActions:       active.Options.AllowActions,
		ReadOnly:           active.Options.ReadOnly,
	})
}

// admit checks the permission before anything is resolved, so a refusal
// is reported even when the target would not resolve. In dry-run mode a
// refusal is a warning and the statement continues to report what it
// would match.
func (e *Executor) admit(action inspect.ActionKind) error {
	permission := e.permission()
	if permission.Allowed() {
		return nil
	}
	refusal := permission.Err(action.String())
	if !e.state.DryRun {
		e.logger.Warn("action refused", "action", action.String(), "reason", permission.Reason.String(), "container", permission.Subject.Container)
		return refusal
	}
	return e.warning("%v", refusal)
}

func (e *Executor) executeDelete(ctx context.Context, node *ast.Delete) (Outcome, error) {
	if err := e.admit(inspect.ActionDelete); err != nil {
		return Outcome{}, err
	}
	path, err := e.evalPath(ctx, node.From)
	if err != nil {
		return Outcome{}, err
	}
	folder := e.navigation().Resolve(path)
	matches, err := e.system.Query(ctx, inspect.Request{
		Target: ast.TargetFiles,
		Path:   folder,
		Filter: e.filter(ctx, ast.TargetFiles, node.Where),
	})
	if err != nil {
		return Outcome{}, err
	}
	targets := make(value.List, 0, len(matches))
	for _, match := range matches {
		if isDir, _ := inspect.Lookup(ast.TargetFiles, match, "is_dir"); isDirectory(isDir) {
			continue
		}
		targets = append(targets, match)
	}
	if err := e.limits.CheckDeleteCeiling(len(targets)); err != nil {
		return Outcome{Rows: targets}, err
	}
	return e.perform(ctx, inspect.Action{Kind: inspect.ActionDelete, Targets: targets}, "file", folder)
}

func isDirectory(v value.Value) bool {
	flag, ok := v.AsBool()
	return ok && flag
}

func (e *Executor) executeKill(ctx context.Context, node *ast.Kill) (Outcome, error) {
	if err := e.admit(inspect.ActionKill); err != nil {
		return Outcome{}, err
	}
	targets, err := e.system.Query(ctx, inspect.Request{
		Target: ast.TargetProcess,
		Filter: e.filter(ctx, ast.TargetProcess, node.Where),
	})
	if err != nil {
		return Outcome{}, err
	}
	if err := e.limits.CheckKillCeiling(len(targets)); err != nil {
		return Outcome{Rows: targets}, err
	}
	if err := e.limits.CheckProtected(targets, e.selfPID); err != nil {
		e.logger.Warn("kill refused: protected process", "count", len(targets), "error", err)
		return Outcome{Rows: targets}, err
	}
	return e.perform(ctx, inspect.Action{Kind: inspect.ActionKill, Targets: targets}, "process", "")
}

// perform runs an admitted action, or reports it in dry-run mode.
func (e *Executor) perform(ctx context.Context, action inspect.Action, noun, where string) (Outcome, error) {
	location := ""
	if where != "" {
		location = " in " + where
	}
	count := len(action.Targets)
	if e.state.DryRun {
		return Outcome{Rows: action.Targets, Affected: count},
			e.message("dry run: %s would affect %d %s%s", action.Kind, count, plural(noun, count), location)
	}
	if count == 0 {
		return Outcome{}, e.message("%s: no %s matched%s", action.Kind, plural(noun, 0), location)
	}

	affected, err := e.system.Perform(ctx, action)
	e.logger.Info("action performed",
		"action", action.Kind.String(),
		"count", affected,
		"container", e.state.Containers.Active().Name,
	)
	outcome := Outcome{Rows: action.Targets, Affected: affected}
	if err != nil {
		return outcome, err
	}
	return outcome, e.message("%s: %d %s affected%s", action.Kind, affected, plural(noun, affected), location)
}

func plural(noun string, count int) string {
	if count == 1 {
		return noun
	}
	if noun == "process" {
		return "processes"
	}
	return noun + "s"
}
