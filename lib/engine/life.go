// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"strings"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/inspect"
	"github.com/arta-lang/arta/lib/life"
	"github.com/arta-lang/arta/lib/value"
)

// overlay exposes a LIFE snapshot to the body: the target's lower-case
// name ("battery") is the whole snapshot record, and each snapshot
// field (with the target's aliases) is a name of its own. The bindings
// are read-only.
type overlay struct {
	target   ast.LifeTarget
	snapshot value.Record
}

func (o *overlay) get(name string) (value.Value, bool) {
	if strings.EqualFold(name, o.target.String()) {
		return value.FromRecord(o.snapshot), true
	}
	return inspect.Lookup(o.target.QueryTarget(), o.snapshot, name)
}

func (o *overlay) entries() []value.Field {
	entries := []value.Field{value.F(strings.ToLower(o.target.String()), value.FromRecord(o.snapshot))}
	return append(entries, o.snapshot.Fields()...)
}

func (e *Executor) executeLife(ctx context.Context, node *ast.LifeMonitor) error {
	config := e.life
	if config.Sampler == nil {
		config.Sampler = life.SystemSampler(e.system)
	}
	config.Runner = life.RunnerFunc(e.RunLife)
	config.Validation = e.ValidationOptions()
	if config.Clock == nil {
		config.Clock = e.clock
	}
	if config.Logger == nil {
		config.Logger = e.logger
	}
	monitor, err := life.New(config)
	if err != nil {
		return err
	}
	if err := e.message("LIFE MONITOR %s started", node.Target); err != nil {
		return err
	}
	if err := monitor.Run(ctx, node.Target, node.Body); err != nil {
		return err
	}
	return e.message("LIFE MONITOR %s stopped", node.Target)
}

// RunLife runs a LIFE body once with snapshot bound. It implements
// life.Runner, so hosts can drive a monitor against this executor
// directly.
func (e *Executor) RunLife(ctx context.Context, target ast.LifeTarget, snapshot value.Record, body []ast.Statement) error {
	previous := e.state.overlay
	e.state.overlay = &overlay{target: target, snapshot: snapshot}
	defer func() { e.state.overlay = previous }()
	return e.executeBody(ctx, body)
}
