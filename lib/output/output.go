// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"strings"
	"sync"

	"github.com/arta-lang/arta/lib/value"
)

// Kind classifies an event.
type Kind int

const (
	// KindResult carries query rows.
	KindResult Kind = iota + 1
	// KindPrint carries the values of one PRINT statement.
	KindPrint
	// KindMessage is informational text (navigation, container
	// changes, action counts).
	KindMessage
	// KindWarning is a validator warning or a non-fatal runtime note.
	KindWarning
)

func (k Kind) String() string {
	switch k {
	case KindResult:
		return "result"
	case KindPrint:
		return "print"
	case KindMessage:
		return "message"
	case KindWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Entry is one labelled value of a PRINT.
type Entry struct {
	Label string
	Value value.Value
}

// Event is one unit of output.
type Event struct {
	Kind Kind

	// Label names a result's target ("MEMORY") or carries the text of
	// a message or warning.
	Label string

	// Entries are a PRINT's values in order.
	Entries []Entry

	// Rows are a result's records.
	Rows value.List
}

// Text returns a PRINT's values joined by spaces, or the label for
// other kinds.
func (e Event) Text() string {
	if e.Kind != KindPrint {
		return e.Label
	}
	parts := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		parts[i] = entry.Value.String()
	}
	return strings.Join(parts, " ")
}

// Sink consumes events.
type Sink interface {
	Emit(Event) error
}

// Message builds a KindMessage event.
func Message(text string) Event { return Event{Kind: KindMessage, Label: text} }

// Warning builds a KindWarning event.
func Warning(text string) Event { return Event{Kind: KindWarning, Label: text} }

// Discard drops every event.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(Event) error { return nil }

// Recorder keeps events in memory. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit implements Sink.
func (r *Recorder) Emit(event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of everything emitted.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Texts returns the Text of every event of the given kind, in order.
func (r *Recorder) Texts(kind Kind) []string {
	var out []string
	for _, event := range r.Events() {
		if event.Kind == kind {
			out = append(out, event.Text())
		}
	}
	return out
}

// Results returns the rows of every result event, in order.
func (r *Recorder) Results() []value.List {
	var out []value.List
	for _, event := range r.Events() {
		if event.Kind == KindResult {
			out = append(out, event.Rows)
		}
	}
	return out
}

// Reset discards recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
