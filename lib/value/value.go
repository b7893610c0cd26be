// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which member of the union a Value holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindSize
	KindBoolean
	KindRecord
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindSize:
		return "size"
	case KindBoolean:
		return "boolean"
	case KindRecord:
		return "record"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// Value is an immutable runtime value. The zero Value is invalid and
// only appears as the "absent" result of lookups.
type Value struct {
	kind   Kind
	text   string
	number float64
	bytes  uint64
	flag   bool
	record Record
	list   List
}

// String constructs a string value.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Number constructs a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, number: n} }

// Size constructs a byte-size value from an exact byte count.
func Size(bytes uint64) Value { return Value{kind: KindSize, bytes: bytes} }

// Bool constructs a boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, flag: b} }

// FromRecord wraps a record.
func FromRecord(r Record) Value { return Value{kind: KindRecord, record: r} }

// FromList wraps a list of records.
func FromList(l List) Value { return Value{kind: KindList, list: l} }

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// Valid reports whether v holds a value.
func (v Value) Valid() bool { return v.kind != KindInvalid }

func (v Value) AsString() (string, bool) { return v.text, v.kind == KindString }

func (v Value) AsNumber() (float64, bool) { return v.number, v.kind == KindNumber }

func (v Value) AsSize() (uint64, bool) { return v.bytes, v.kind == KindSize }

func (v Value) AsBool() (bool, bool) { return v.flag, v.kind == KindBoolean }

func (v Value) AsRecord() (Record, bool) { return v.record, v.kind == KindRecord }

func (v Value) AsList() (List, bool) { return v.list, v.kind == KindList }

// String renders the value for display. Strings are unquoted, sizes
// use the largest whole-ish unit ("1.5 GB"), records render as
// "name=value" pairs.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.text
	case KindNumber:
		return formatNumber(v.number)
	case KindSize:
		return FormatSize(v.bytes)
	case KindBoolean:
		return strconv.FormatBool(v.flag)
	case KindRecord:
		return v.record.String()
	case KindList:
		parts := make([]string, len(v.list))
		for i, record := range v.list {
			parts[i] = "{" + record.String() + "}"
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<invalid>"
	}
}

// Literal renders the value in Arta surface syntax, suitable for a LET
// statement. Records and lists have no literal form; ok is false for
// them.
func (v Value) Literal() (string, bool) {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.text), true
	case KindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64), true
	case KindSize:
		return SizeLiteral(v.bytes), true
	case KindBoolean:
		return strconv.FormatBool(v.flag), true
	default:
		return "", false
	}
}

// Truthy reports the boolean interpretation used by IF: only a Boolean
// can be tested. Everything else is a type error at the call site, so
// Truthy returns ok=false for non-boolean values.
func (v Value) Truthy() (result bool, ok bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.flag, true
}

// Equal reports deep equality of kind and content.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindString:
		return a.text == b.text
	case KindNumber:
		return a.number == b.number
	case KindSize:
		return a.bytes == b.bytes
	case KindBoolean:
		return a.flag == b.flag
	case KindRecord:
		return a.record.Equal(b.record)
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !a.list[i].Equal(b.list[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Native converts the value to plain Go data for serializers: string,
// float64, uint64, bool, map[string]any, []any.
func (v Value) Native() any {
	switch v.kind {
	case KindString:
		return v.text
	case KindNumber:
		return v.number
	case KindSize:
		return v.bytes
	case KindBoolean:
		return v.flag
	case KindRecord:
		return v.record.Native()
	case KindList:
		return v.list.Native()
	default:
		return nil
	}
}

// MarshalJSON encodes the value as its native JSON form. Records keep
// their field order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindRecord:
		return v.record.MarshalJSON()
	case KindList:
		return json.Marshal(v.list)
	default:
		return json.Marshal(v.Native())
	}
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatFloat(n, 'f', 0, 64)
	}
	return strconv.FormatFloat(n, 'f', 2, 64)
}
