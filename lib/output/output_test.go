// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/arta-lang/arta/lib/codec"
	"github.com/arta-lang/arta/lib/value"
)

func memoryRow() value.Record {
	return value.NewRecord(
		value.F("total", value.Size(16*value.Gigabyte)),
		value.F("usage", value.Number(85)),
	)
}

func TestHumanPlain(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  []string
	}{
		{
			name:  "print joins values",
			event: Event{Kind: KindPrint, Entries: []Entry{{Label: "a", Value: value.String("high")}, {Label: "b", Value: value.Number(3)}}},
			want:  []string{"high 3\n"},
		},
		{
			name:  "warning prefix",
			event: Warning("DELETE without WHERE"),
			want:  []string{"warning: DELETE without WHERE"},
		},
		{
			name:  "empty result",
			event: Event{Kind: KindResult, Label: "FILES"},
			want:  []string{"FILES: no results"},
		},
		{
			name:  "single record",
			event: Event{Kind: KindResult, Label: "MEMORY", Rows: value.List{memoryRow()}},
			want:  []string{"MEMORY", "total  16 GB", "usage  85"},
		},
		{
			name: "table",
			event: Event{Kind: KindResult, Label: "PROCESS", Rows: value.List{
				value.NewRecord(value.F("pid", value.Number(1)), value.F("name", value.String("init"))),
				value.NewRecord(value.F("pid", value.Number(42)), value.F("name", value.String("bash"))),
			}},
			want: []string{"PID  NAME", "42   bash", "(2 rows)"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buffer bytes.Buffer
			if err := NewHuman(&buffer, HumanOptions{}).Emit(test.event); err != nil {
				t.Fatalf("Emit: %v", err)
			}
			got := buffer.String()
			if strings.Contains(got, "\x1b[") {
				t.Errorf("plain output contains escape sequences: %q", got)
			}
			for _, want := range test.want {
				if !strings.Contains(got, want) {
					t.Errorf("output %q does not contain %q", got, want)
				}
			}
		})
	}
}

func TestHumanTruncatesLongCells(t *testing.T) {
	long := strings.Repeat("x", 200)
	rows := value.List{
		value.NewRecord(value.F("command", value.String(long))),
		value.NewRecord(value.F("command", value.String("short"))),
	}
	var buffer bytes.Buffer
	if err := NewHuman(&buffer, HumanOptions{}).Emit(Event{Kind: KindResult, Rows: rows}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if strings.Contains(buffer.String(), long) {
		t.Error("long cell was not truncated")
	}
}

func TestJSONOneDocumentPerEvent(t *testing.T) {
	var buffer bytes.Buffer
	sink := NewJSON(&buffer)
	events := []Event{
		{Kind: KindResult, Label: "MEMORY", Rows: value.List{memoryRow()}},
		{Kind: KindPrint, Entries: []Entry{{Label: "threshold", Value: value.Number(80)}}},
		{Kind: KindResult, Label: "FILES"},
	}
	for _, event := range events {
		if err := sink.Emit(event); err != nil {
			t.Fatalf("Emit: %v", err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	if len(lines) != len(events) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(events), buffer.String())
	}
	var first struct {
		Kind  string           `json:"kind"`
		Label string           `json:"label"`
		Rows  []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.Kind != "result" || first.Label != "MEMORY" || len(first.Rows) != 1 {
		t.Fatalf("first event = %+v", first)
	}
	if got := first.Rows[0]["total"]; got != float64(16*value.Gigabyte) {
		t.Errorf("total = %v, want byte count", got)
	}
	if !strings.Contains(lines[1], `"label":"threshold","value":80`) {
		t.Errorf("print line = %s", lines[1])
	}
	if !strings.Contains(lines[2], `"rows":[]`) {
		t.Errorf("empty result should carry an empty rows array: %s", lines[2])
	}
}

func TestCBORKeepsSizes(t *testing.T) {
	var buffer bytes.Buffer
	if err := NewCBOR(&buffer).Emit(Event{Kind: KindResult, Label: "MEMORY", Rows: value.List{memoryRow()}}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	var decoded struct {
		Kind string `json:"kind"`
		Rows any    `json:"rows"`
	}
	if err := codec.Unmarshal(buffer.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Kind != "result" {
		t.Errorf("kind = %q", decoded.Kind)
	}
	rows, err := codec.DecodeValue(decoded.Rows)
	if err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	list, ok := rows.AsList()
	if !ok || len(list) != 1 {
		t.Fatalf("rows = %v", rows)
	}
	total, _ := list[0].Get("total")
	if size, ok := total.AsSize(); !ok || size != 16*value.Gigabyte {
		t.Errorf("total = %v (%s), want size", total, total.Kind())
	}
}

func TestRecorder(t *testing.T) {
	var recorder Recorder
	recorder.Emit(Message("entered /tmp"))
	recorder.Emit(Event{Kind: KindPrint, Entries: []Entry{{Value: value.String("high")}}})
	recorder.Emit(Event{Kind: KindResult, Rows: value.List{memoryRow()}})

	if got := recorder.Texts(KindPrint); len(got) != 1 || got[0] != "high" {
		t.Errorf("prints = %q", got)
	}
	if got := recorder.Results(); len(got) != 1 || len(got[0]) != 1 {
		t.Errorf("results = %v", got)
	}
	recorder.Reset()
	if len(recorder.Events()) != 0 {
		t.Error("Reset left events behind")
	}
}

func TestHighlightDisabledIsIdentity(t *testing.T) {
	source := "SELECT MEMORY usage;"
	if got := Highlight(source, false); got != source {
		t.Errorf("Highlight(disabled) = %q", got)
	}
	if got := Highlight(source, true); !strings.Contains(got, "\x1b[") {
		t.Errorf("Highlight(enabled) produced no escapes: %q", got)
	}
}
