// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/fault"
	"github.com/arta-lang/arta/lib/inspect"
	"github.com/arta-lang/arta/lib/value"
)

// evaluation carries what one expression evaluation can see beyond the
// interpreter state: the record a WHERE clause is filtering, and the
// results of embedded queries already run, so each executes once.
type evaluation struct {
	target  ast.Target
	record  value.Record
	hasRow  bool
	queries map[*ast.Select]value.List
}

func newEvaluation() *evaluation {
	return &evaluation{queries: make(map[*ast.Select]value.List)}
}

// forRow returns an evaluation over one candidate record that shares
// the embedded-query cache.
func (v *evaluation) forRow(target ast.Target, record value.Record) *evaluation {
	return &evaluation{target: target, record: record, hasRow: true, queries: v.queries}
}

// eval computes an expression's value.
func (e *Executor) eval(ctx context.Context, expression ast.Expression, scope *evaluation) (value.Value, error) {
	switch node := expression.(type) {
	case *ast.Literal:
		return node.Value, nil

	case *ast.VariableRef:
		if scope.hasRow {
			if v, ok := inspect.Lookup(scope.target, scope.record, node.Name); ok {
				return v, nil
			}
		}
		if v, ok := e.lookupVariable(node.Name); ok {
			return v, nil
		}
		if scope.hasRow {
			return value.Value{}, fault.NotFoundf("%s has no field %q and no variable %q is defined", scope.target, node.Name, node.Name)
		}
		return value.Value{}, fault.NotFoundf("variable %q is not defined", node.Name)

	case *ast.FieldAccess:
		if node.Variable != "" {
			return e.variableField(node)
		}
		return e.targetField(ctx, node, scope)

	case *ast.BinaryOp:
		return e.evalBinary(ctx, node, scope)

	case *ast.EmbeddedQuery:
		rows, err := e.embeddedRows(ctx, node.Query, scope)
		if err != nil {
			return value.Value{}, err
		}
		if len(rows) == 1 && rows[0].Len() == 1 {
			return rows[0].Fields()[0].Value, nil
		}
		return value.FromList(rows), nil
	}
	return value.Value{}, fault.TypeErrorf("unsupported expression %T", expression)
}

// lookupVariable reads a LIFE snapshot binding or a variable of the
// active container, in that order.
func (e *Executor) lookupVariable(name string) (value.Value, bool) {
	if e.state.overlay != nil {
		if v, ok := e.state.overlay.get(name); ok {
			return v, true
		}
	}
	return e.state.Containers.Active().Variables.Get(name)
}

func (e *Executor) variableField(node *ast.FieldAccess) (value.Value, error) {
	v, ok := e.lookupVariable(node.Variable)
	if !ok {
		return value.Value{}, fault.NotFoundf("variable %q is not defined", node.Variable)
	}
	record, ok := v.AsRecord()
	if !ok {
		// A single-record list (LET m = SELECT MEMORY *) reads like
		// its record.
		if list, isList := v.AsList(); isList && len(list) == 1 {
			record, ok = list[0], true
		}
	}
	if !ok {
		return value.Value{}, fault.TypeErrorf("%s is a %s, not a record; cannot read .%s", node.Variable, v.Kind(), node.Field)
	}
	field, ok := inspect.Lookup(e.loopTargets[node.Variable], record, node.Field)
	if !ok {
		return value.Value{}, fault.NotFoundf("%s has no field %q", node.Variable, node.Field)
	}
	return field, nil
}

// targetField reads "TARGET field". Inside a WHERE over the same target
// it reads the candidate record; inside a LIFE block over the target it
// reads the snapshot; otherwise it queries the system.
func (e *Executor) targetField(ctx context.Context, node *ast.FieldAccess, scope *evaluation) (value.Value, error) {
	var record value.Record
	switch {
	case scope.hasRow && scope.target == node.Target:
		record = scope.record
	case e.state.overlay != nil && e.state.overlay.target.QueryTarget() == node.Target:
		record = e.state.overlay.snapshot
	case node.Target == ast.TargetBattery:
		snapshot, err := inspect.Snapshot(ctx, e.system, ast.LifeBattery)
		if err != nil {
			return value.Value{}, err
		}
		record = snapshot
	default:
		path, err := e.defaultQueryPath(node.Target)
		if err != nil {
			return value.Value{}, err
		}
		records, err := e.system.Query(ctx, inspect.Request{Target: node.Target, Path: path})
		if err != nil {
			return value.Value{}, err
		}
		if len(records) == 0 {
			return value.Value{}, fault.NotFoundf("%s returned no records", node.Target)
		}
		record = records[0]
	}
	v, ok := inspect.Lookup(node.Target, record, node.Field)
	if !ok {
		return value.Value{}, fault.NotFoundf("%s has no field %q", node.Target, node.Field)
	}
	return v, nil
}

func (e *Executor) evalBinary(ctx context.Context, node *ast.BinaryOp, scope *evaluation) (value.Value, error) {
	switch {
	case node.Op.IsLogical():
		left, err := e.evalBool(ctx, node.Left, scope, node.Op.String())
		if err != nil {
			return value.Value{}, err
		}
		if (node.Op == value.OpAnd && !left) || (node.Op == value.OpOr && left) {
			return value.Bool(left), nil
		}
		right, err := e.evalBool(ctx, node.Right, scope, node.Op.String())
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(right), nil

	case node.Op.IsComparison():
		lefts, err := e.operand(ctx, node.Left, scope)
		if err != nil {
			return value.Value{}, err
		}
		rights, err := e.operand(ctx, node.Right, scope)
		if err != nil {
			return value.Value{}, err
		}
		// A multi-record embedded query holds when any record
		// satisfies the comparison.
		for _, left := range lefts {
			for _, right := range rights {
				holds, err := value.Compare(left, node.Op, right)
				if err != nil {
					return value.Value{}, err
				}
				if holds {
					return value.Bool(true), nil
				}
			}
		}
		return value.Bool(false), nil

	default:
		left, err := e.eval(ctx, node.Left, scope)
		if err != nil {
			return value.Value{}, err
		}
		right, err := e.eval(ctx, node.Right, scope)
		if err != nil {
			return value.Value{}, err
		}
		return value.Apply(left, node.Op, right)
	}
}

func (e *Executor) evalBool(ctx context.Context, expression ast.Expression, scope *evaluation, clause string) (bool, error) {
	v, err := e.eval(ctx, expression, scope)
	if err != nil {
		return false, err
	}
	result, ok := v.Truthy()
	if !ok {
		return false, fault.TypeErrorf("%s needs a boolean, got %s", clause, v.Kind())
	}
	return result, nil
}

// operand evaluates one side of a comparison. An embedded query yields
// one candidate per record; anything else yields one value.
func (e *Executor) operand(ctx context.Context, expression ast.Expression, scope *evaluation) ([]value.Value, error) {
	query, ok := expression.(*ast.EmbeddedQuery)
	if !ok {
		v, err := e.eval(ctx, expression, scope)
		if err != nil {
			return nil, err
		}
		return []value.Value{v}, nil
	}
	rows, err := e.embeddedRows(ctx, query.Query, scope)
	if err != nil {
		return nil, err
	}
	candidates := make([]value.Value, 0, len(rows))
	for _, row := range rows {
		if row.Len() != 1 {
			return nil, fault.TypeErrorf("embedded SELECT %s must select exactly one field to be compared, got %d", query.Query.Target, row.Len())
		}
		candidates = append(candidates, row.Fields()[0].Value)
	}
	return candidates, nil
}

// embeddedRows runs an embedded query at most once per evaluation.
func (e *Executor) embeddedRows(ctx context.Context, query *ast.Select, scope *evaluation) (value.List, error) {
	if rows, ok := scope.queries[query]; ok {
		return rows, nil
	}
	rows, err := e.query(ctx, query)
	if err != nil {
		return nil, err
	}
	scope.queries[query] = rows
	return rows, nil
}

// condition evaluates an IF condition. A bare embedded query is true
// when it returns at least one record.
func (e *Executor) condition(ctx context.Context, expression ast.Expression) (bool, error) {
	scope := newEvaluation()
	if query, ok := expression.(*ast.EmbeddedQuery); ok {
		rows, err := e.embeddedRows(ctx, query.Query, scope)
		if err != nil {
			return false, err
		}
		return len(rows) > 0, nil
	}
	return e.evalBool(ctx, expression, scope, "IF")
}

// filter turns a WHERE clause into an inspect.Filter over target's
// records. Embedded queries in the clause run once for the whole
// filter, not once per record.
func (e *Executor) filter(ctx context.Context, target ast.Target, where ast.Expression) inspect.Filter {
	if where == nil {
		return nil
	}
	scope := newEvaluation()
	return func(record value.Record) (bool, error) {
		return e.evalBool(ctx, where, scope.forRow(target, record), "WHERE")
	}
}

// evalPath evaluates a path operand to a string. A bare name that is
// not a defined variable is taken as a relative path.
func (e *Executor) evalPath(ctx context.Context, expression ast.Expression) (string, error) {
	if ref, ok := expression.(*ast.VariableRef); ok {
		if _, defined := e.lookupVariable(ref.Name); !defined {
			return ref.Name, nil
		}
	}
	v, err := e.eval(ctx, expression, newEvaluation())
	if err != nil {
		return "", err
	}
	path, ok := v.AsString()
	if !ok {
		return "", fault.TypeErrorf("a path must be a string, got %s", v.Kind())
	}
	return path, nil
}
