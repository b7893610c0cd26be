// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"time"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/output"
	"github.com/arta-lang/arta/lib/value"
)

func (e *Executor) executeShow(node *ast.Show) (Outcome, error) {
	var rows value.List
	switch node.What {
	case ast.ShowContext:
		rows = e.contextRows()
	case ast.ShowVariables:
		rows = e.variableRows()
	case ast.ShowHistory:
		rows = e.historyRows()
		if err := e.emit(output.Event{Kind: output.KindResult, Label: "HISTORY", Rows: rows}); err != nil {
			return Outcome{}, err
		}
		navigationRows := e.navigationHistoryRows()
		if len(navigationRows) > 0 {
			if err := e.emit(output.Event{Kind: output.KindResult, Label: "NAVIGATION", Rows: navigationRows}); err != nil {
				return Outcome{}, err
			}
		}
		return Outcome{Rows: rows}, nil
	}
	if err := e.emit(output.Event{Kind: output.KindResult, Label: node.What.String(), Rows: rows}); err != nil {
		return Outcome{}, err
	}
	return Outcome{Rows: rows}, nil
}

func (e *Executor) contextRows() value.List {
	active := e.state.Containers.Active()
	frames := active.Context.Frames()
	rows := make(value.List, len(frames))
	for depth, frame := range frames {
		rows[depth] = value.NewRecord(
			value.F("depth", value.Number(float64(depth))),
			value.F("kind", value.String(frame.Kind.String())),
			value.F("path", value.String(frame.Path)),
			value.F("current", value.Bool(depth == len(frames)-1)),
			value.F("container", value.String(active.Name)),
		)
	}
	return rows
}

func (e *Executor) variableRows() value.List {
	var rows value.List
	if e.state.overlay != nil {
		for _, field := range e.state.overlay.entries() {
			rows = append(rows, variableRow(field, "life"))
		}
	}
	for _, field := range e.state.Containers.Active().Variables.Entries() {
		rows = append(rows, variableRow(field, "variable"))
	}
	return rows
}

func variableRow(field value.Field, source string) value.Record {
	return value.NewRecord(
		value.F("name", value.String(field.Name)),
		value.F("type", value.String(field.Value.Kind().String())),
		value.F("value", field.Value),
		value.F("source", value.String(source)),
	)
}

func (e *Executor) historyRows() value.List {
	history := e.state.History()
	rows := make(value.List, len(history))
	for index, entry := range history {
		status := "ok"
		if entry.Failed {
			status = "failed"
		}
		rows[index] = value.NewRecord(
			value.F("index", value.Number(float64(index+1))),
			value.F("time", value.String(entry.Time.UTC().Format(time.RFC3339))),
			value.F("container", value.String(entry.Container)),
			value.F("statement", value.String(entry.Statement)),
			value.F("status", value.String(status)),
		)
	}
	return rows
}

func (e *Executor) navigationHistoryRows() value.List {
	history := e.navigation().History()
	rows := make(value.List, len(history))
	for index, entry := range history {
		rows[index] = value.NewRecord(
			value.F("time", value.String(entry.Time.UTC().Format(time.RFC3339))),
			value.F("action", value.String(entry.Action)),
			value.F("path", value.String(entry.Path)),
		)
	}
	return rows
}

func (e *Executor) executeListContainers() (Outcome, error) {
	summaries := e.state.Containers.List()
	rows := make(value.List, len(summaries))
	for index, summary := range summaries {
		rows[index] = value.NewRecord(
			value.F("name", value.String(summary.Name)),
			value.F("active", value.Bool(summary.Active)),
			value.F("allow_actions", value.Bool(summary.Options.AllowActions)),
			value.F("read_only", value.Bool(summary.Options.ReadOnly)),
			value.F("variables", value.Number(float64(summary.Variables))),
			value.F("depth", value.Number(float64(summary.Depth))),
			value.F("created", value.String(summary.Created.UTC().Format(time.RFC3339))),
		)
	}
	if err := e.emit(output.Event{Kind: output.KindResult, Label: "CONTAINERS", Rows: rows}); err != nil {
		return Outcome{}, err
	}
	return Outcome{Rows: rows}, nil
}
