// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspect

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/fault"
	"github.com/arta-lang/arta/lib/value"
)

// Static is an in-memory System. Each target returns the records set
// for it; a target given a sequence returns the next entry on every
// query and then keeps returning the last one. Perform records the
// action and removes the affected FILES or PROCESS records, so later
// queries observe the mutation. Safe for concurrent use.
type Static struct {
	mu        sync.Mutex
	records   map[ast.Target][]value.List
	performed []Action
	queries   map[ast.Target]int
}

// NewStatic returns an empty Static system.
func NewStatic() *Static {
	return &Static{
		records: make(map[ast.Target][]value.List),
		queries: make(map[ast.Target]int),
	}
}

// Set fixes the records target returns.
func (s *Static) Set(target ast.Target, records ...value.Record) *Static {
	return s.Sequence(target, value.List(records))
}

// Sequence makes successive queries of target return successive lists.
func (s *Static) Sequence(target ast.Target, lists ...value.List) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[target] = lists
	return s
}

// Performed returns the actions executed so far.
func (s *Static) Performed() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Action, len(s.performed))
	copy(out, s.performed)
	return out
}

// Queries returns how many times target has been queried.
func (s *Static) Queries(target ast.Target) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[target]
}

// Query implements System. FILES records are narrowed to those whose
// path lies directly in the requested folder when they carry a path.
func (s *Static) Query(ctx context.Context, request Request) (value.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	lists, ok := s.records[request.Target]
	if !ok {
		s.mu.Unlock()
		if request.Target == ast.TargetFiles || request.Target == ast.TargetContent {
			return nil, fault.NotFoundf("%s has no records for %s", request.Target, request.Path)
		}
		return nil, nil
	}
	current := lists[0]
	if len(lists) > 1 {
		s.records[request.Target] = lists[1:]
	}
	s.queries[request.Target]++
	s.mu.Unlock()

	records := make(value.List, 0, len(current))
	for _, record := range current {
		if request.Target == ast.TargetFiles && request.Path != "" {
			if path, ok := stringField(record, "path"); ok && filepath.Dir(path) != filepath.Clean(request.Path) {
				continue
			}
		}
		records = append(records, record)
	}
	return applyFilter(records, request.Filter)
}

// Perform implements System.
func (s *Static) Perform(ctx context.Context, action Action) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.performed = append(s.performed, action)

	target, key := ast.TargetFiles, "path"
	if action.Kind == ActionKill {
		target, key = ast.TargetProcess, "pid"
	}
	lists := s.records[target]
	if len(lists) == 0 {
		return len(action.Targets), nil
	}
	remove := func(record value.Record) bool {
		identity, _ := record.Get(key)
		for _, affected := range action.Targets {
			if other, _ := affected.Get(key); value.Equal(identity, other) {
				return true
			}
		}
		return false
	}
	for i, list := range lists {
		kept := make(value.List, 0, len(list))
		for _, record := range list {
			if !remove(record) {
				kept = append(kept, record)
			}
		}
		lists[i] = kept
	}
	return len(action.Targets), nil
}
