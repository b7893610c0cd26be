// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"path/filepath"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/fault"
	"github.com/arta-lang/arta/lib/inspect"
	"github.com/arta-lang/arta/lib/navigation"
	"github.com/arta-lang/arta/lib/output"
	"github.com/arta-lang/arta/lib/value"
)

func (e *Executor) executeBody(ctx context.Context, body []ast.Statement) error {
	for _, statement := range body {
		if _, err := e.execute(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) executeSelect(ctx context.Context, node *ast.Select) (Outcome, error) {
	rows, err := e.query(ctx, node)
	if err != nil {
		return Outcome{}, err
	}
	if err := e.emit(output.Event{Kind: output.KindResult, Label: node.Target.String(), Rows: rows}); err != nil {
		return Outcome{}, err
	}
	return Outcome{Rows: rows}, nil
}

// query runs a SELECT: path resolution, WHERE filtering, projection.
func (e *Executor) query(ctx context.Context, node *ast.Select) (value.List, error) {
	path, err := e.queryPath(ctx, node)
	if err != nil {
		return nil, err
	}
	records, err := e.system.Query(ctx, inspect.Request{
		Target: node.Target,
		Path:   path,
		Filter: e.filter(ctx, node.Target, node.Where),
	})
	if err != nil {
		return nil, err
	}
	return project(node, records)
}

func (e *Executor) queryPath(ctx context.Context, node *ast.Select) (string, error) {
	if node.From == nil {
		return e.defaultQueryPath(node.Target)
	}
	path, err := e.evalPath(ctx, node.From)
	if err != nil {
		return "", err
	}
	return e.navigation().Resolve(path), nil
}

// defaultQueryPath is the path a query without FROM reads: the top
// frame for FILES (a file's directory on a File frame), the current
// file for CONTENT, every mount for DISK.
func (e *Executor) defaultQueryPath(target ast.Target) (string, error) {
	stack := e.navigation()
	switch target {
	case ast.TargetFiles:
		if file, ok := stack.File(); ok {
			return filepath.Dir(file), nil
		}
		return stack.Current().Path, nil
	case ast.TargetContent:
		file, ok := stack.File()
		if !ok {
			return "", fault.NotFoundf("no file in context: use ENTER FILE <path> or SELECT CONTENT * FROM <path>")
		}
		return file, nil
	}
	return "", nil
}

// project keeps the selected fields, in the order and spelling they
// were requested. Aliases resolve against the target.
func project(node *ast.Select, records value.List) (value.List, error) {
	if node.Fields == nil {
		return records, nil
	}
	projected := make(value.List, 0, len(records))
	for _, record := range records {
		fields := make([]value.Field, 0, len(node.Fields))
		for _, name := range node.Fields {
			v, ok := inspect.Lookup(node.Target, record, name)
			if !ok {
				return nil, fault.NotFoundf("%s has no field %q", node.Target, name)
			}
			fields = append(fields, value.F(name, v))
		}
		projected = append(projected, value.NewRecord(fields...))
	}
	return projected, nil
}

func (e *Executor) executeLet(ctx context.Context, node *ast.Let) error {
	if e.state.overlay != nil {
		if _, bound := e.state.overlay.get(node.Name); bound {
			return fault.New(fault.NamingConflict, "%q is a read-only LIFE %s binding", node.Name, e.state.overlay.target)
		}
	}
	v, err := e.eval(ctx, node.Value, newEvaluation())
	if err != nil {
		return err
	}
	e.state.Containers.Active().Variables.Set(node.Name, v)
	return nil
}

func (e *Executor) executePrint(ctx context.Context, node *ast.Print) error {
	scope := newEvaluation()
	entries := make([]output.Entry, 0, len(node.Values))
	for _, expression := range node.Values {
		v, err := e.eval(ctx, expression, scope)
		if err != nil {
			return err
		}
		entries = append(entries, output.Entry{Label: ast.FormatExpression(expression), Value: v})
	}
	return e.emit(output.Event{Kind: output.KindPrint, Entries: entries})
}

func (e *Executor) executeIf(ctx context.Context, node *ast.If) error {
	holds, err := e.condition(ctx, node.Condition)
	if err != nil {
		return err
	}
	if holds {
		return e.executeBody(ctx, node.Then)
	}
	return e.executeBody(ctx, node.Else)
}

// executeFor runs the body once per record of one snapshot of the
// source query. The loop variable is bound in the scope that was active
// when the loop started; afterwards a previous binding of the same name
// is restored, otherwise the name is removed.
func (e *Executor) executeFor(ctx context.Context, node *ast.For) error {
	if e.state.overlay != nil {
		if _, bound := e.state.overlay.get(node.Variable); bound {
			return fault.New(fault.NamingConflict, "%q is a read-only LIFE %s binding", node.Variable, e.state.overlay.target)
		}
	}
	rows, err := e.query(ctx, node.Source)
	if err != nil {
		return err
	}

	scope := e.state.Containers.Active().Variables
	previous, hadPrevious := scope.Get(node.Variable)
	previousTarget, hadTarget := e.loopTargets[node.Variable]
	e.loopTargets[node.Variable] = node.Source.Target
	defer func() {
		if hadPrevious {
			scope.Set(node.Variable, previous)
		} else {
			scope.Delete(node.Variable)
		}
		if hadTarget {
			e.loopTargets[node.Variable] = previousTarget
		} else {
			delete(e.loopTargets, node.Variable)
		}
	}()

	e.logger.Debug("for loop", "variable", node.Variable, "target", node.Source.Target.String(), "count", len(rows))
	for _, row := range rows {
		scope.Set(node.Variable, value.FromRecord(row))
		if err := e.executeBody(ctx, node.Body); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) navigation() *navigation.Context {
	return e.state.Containers.Active().Context
}

func (e *Executor) executeEnter(ctx context.Context, pathExpression ast.Expression, kind navigation.FrameKind) error {
	path, err := e.evalPath(ctx, pathExpression)
	if err != nil {
		return err
	}
	var frame navigation.Frame
	if kind == navigation.Folder {
		frame, err = e.navigation().EnterFolder(path)
	} else {
		frame, err = e.navigation().EnterFile(path)
	}
	if err != nil {
		return err
	}
	return e.message("entered %s %s", frame.Kind, frame.Path)
}

func (e *Executor) executeExit() error {
	stack := e.navigation()
	left, err := stack.Exit()
	if err != nil {
		return err
	}
	return e.message("left %s %s, now at %s", left.Kind, left.Path, stack.Current().Path)
}

func (e *Executor) executeReset() error {
	stack := e.navigation()
	removed := stack.Reset()
	return e.message("context reset to %s (%d frames removed)", stack.Current().Path, removed)
}
