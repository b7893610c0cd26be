// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package container

import "github.com/arta-lang/arta/lib/value"

// Scope maps variable names to values and remembers the order in which
// names were first bound. Names are case-sensitive.
type Scope struct {
	order  []string
	values map[string]value.Value
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{values: make(map[string]value.Value)}
}

// Set binds name. Rebinding keeps the name's original position.
func (s *Scope) Set(name string, v value.Value) {
	if _, exists := s.values[name]; !exists {
		s.order = append(s.order, name)
	}
	s.values[name] = v
}

// Get returns the value bound to name.
func (s *Scope) Get(name string) (value.Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Delete unbinds name and reports whether it was bound.
func (s *Scope) Delete(name string) bool {
	if _, exists := s.values[name]; !exists {
		return false
	}
	delete(s.values, name)
	for i, existing := range s.order {
		if existing == name {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of bound names.
func (s *Scope) Len() int { return len(s.order) }

// Names returns bound names in first-binding order.
func (s *Scope) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Entries returns the bindings in first-binding order.
func (s *Scope) Entries() []value.Field {
	out := make([]value.Field, len(s.order))
	for i, name := range s.order {
		out[i] = value.F(name, s.values[name])
	}
	return out
}

// Clone returns an independent copy. Values are immutable, so copying
// the map is enough.
func (s *Scope) Clone() *Scope {
	clone := &Scope{
		order:  s.Names(),
		values: make(map[string]value.Value, len(s.values)),
	}
	for name, v := range s.values {
		clone.values[name] = v
	}
	return clone
}
