// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"encoding/json"
	"testing"
)

func TestRecordLookupIsCaseInsensitive(t *testing.T) {
	record := NewRecord(F("Name", String("node")), F("pid", Number(42)))
	got, ok := record.Get("name")
	if !ok {
		t.Fatal("Get(name) missing")
	}
	if s, _ := got.AsString(); s != "node" {
		t.Errorf("name = %q, want node", s)
	}
	if !record.Has("PID") {
		t.Error("Has(PID) = false")
	}
}

func TestRecordSetDoesNotAliasCopies(t *testing.T) {
	original := NewRecord(F("level", Number(50)))
	copied := original
	copied.Set("level", Number(10))

	got, _ := original.Get("level")
	if n, _ := got.AsNumber(); n != 50 {
		t.Errorf("original level changed to %v after Set on copy", n)
	}
}

func TestRecordProject(t *testing.T) {
	record := NewRecord(F("total", Size(8)), F("used", Size(4)), F("usage", Number(50)))
	projected, missing := record.Project([]string{"usage", "total", "bogus"})
	if names := projected.Names(); len(names) != 2 || names[0] != "usage" || names[1] != "total" {
		t.Errorf("projected names = %v, want [usage total]", names)
	}
	if len(missing) != 1 || missing[0] != "bogus" {
		t.Errorf("missing = %v, want [bogus]", missing)
	}
}

func TestRecordJSONKeepsFieldOrder(t *testing.T) {
	record := NewRecord(F("z", Number(1)), F("a", String("x")), F("m", Size(1024)), F("b", Bool(true)))
	data, err := json.Marshal(FromRecord(record))
	if err != nil {
		t.Fatal(err)
	}
	expected := `{"z":1,"a":"x","m":1024,"b":true}`
	if string(data) != expected {
		t.Errorf("JSON = %s, want %s", data, expected)
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		value    Value
		expected string
	}{
		{String(`say "hi"`), `"say \"hi\""`},
		{Number(80), "80"},
		{Number(0.5), "0.5"},
		{Size(100 * Megabyte), "100MB"},
		{Bool(false), "false"},
	}
	for _, test := range tests {
		got, ok := test.value.Literal()
		if !ok || got != test.expected {
			t.Errorf("Literal(%v) = %q, %v; want %q", test.value, got, ok, test.expected)
		}
	}
	if _, ok := FromList(nil).Literal(); ok {
		t.Error("list has a literal form")
	}
}
