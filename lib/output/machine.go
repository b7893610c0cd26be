// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"io"

	"github.com/arta-lang/arta/lib/codec"
	"github.com/arta-lang/arta/lib/value"
)

// wireEvent is the machine-readable form of an Event. The json tags
// also name the CBOR fields: fxamacker/cbor falls back to json tags.
type wireEvent struct {
	Kind    string      `json:"kind"`
	Label   string      `json:"label,omitempty"`
	Entries []wireEntry `json:"entries,omitempty"`
	Rows    any         `json:"rows,omitempty"`
}

type wireEntry struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

func toWire(event Event, encodeValue func(value.Value) any, encodeRows func(value.List) any) wireEvent {
	wire := wireEvent{Kind: event.Kind.String(), Label: event.Label}
	for _, entry := range event.Entries {
		wire.Entries = append(wire.Entries, wireEntry{Label: entry.Label, Value: encodeValue(entry.Value)})
	}
	if event.Kind == KindResult {
		wire.Rows = encodeRows(event.Rows)
	}
	return wire
}

// JSON writes one JSON document per line.
type JSON struct {
	encoder *json.Encoder
}

// NewJSON returns a JSON sink writing to w.
func NewJSON(w io.Writer) *JSON {
	return &JSON{encoder: json.NewEncoder(w)}
}

// Emit implements Sink.
func (j *JSON) Emit(event Event) error {
	return j.encoder.Encode(toWire(event,
		func(v value.Value) any { return v },
		func(rows value.List) any {
			if rows == nil {
				return value.List{}
			}
			return rows
		},
	))
}

// CBOR writes a CBOR sequence, one item per event.
type CBOR struct {
	encoder *codec.Encoder
}

// NewCBOR returns a CBOR sink writing to w.
func NewCBOR(w io.Writer) *CBOR {
	return &CBOR{encoder: codec.NewEncoder(w)}
}

// Emit implements Sink.
func (c *CBOR) Emit(event Event) error {
	return c.encoder.Encode(toWire(event,
		codec.EncodeValue,
		func(rows value.List) any { return codec.EncodeList(rows) },
	))
}
