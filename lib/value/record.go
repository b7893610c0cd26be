// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Field is one named entry of a Record.
type Field struct {
	Name  string
	Value Value
}

// F is shorthand for building a Field.
func F(name string, v Value) Field { return Field{Name: name, Value: v} }

// Record is an ordered mapping from field name to Value. Names are
// compared case-insensitively; the spelling of the first Set wins.
type Record struct {
	fields []Field
}

// NewRecord builds a record from fields in order. Later duplicates
// overwrite earlier ones in place.
func NewRecord(fields ...Field) Record {
	var record Record
	for _, field := range fields {
		record.Set(field.Name, field.Value)
	}
	return record
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.fields) }

// Get returns the named field's value.
func (r Record) Get(name string) (Value, bool) {
	if index := r.index(name); index >= 0 {
		return r.fields[index].Value, true
	}
	return Value{}, false
}

// Has reports whether the record has a field with this name.
func (r Record) Has(name string) bool { return r.index(name) >= 0 }

// Set adds or replaces a field. A replaced field keeps its position.
// Set copies the field slice first, so records that share storage with
// r (copies made by assignment) are not affected.
func (r *Record) Set(name string, v Value) {
	fields := make([]Field, len(r.fields), len(r.fields)+1)
	copy(fields, r.fields)
	if index := r.index(name); index >= 0 {
		fields[index].Value = v
	} else {
		fields = append(fields, Field{Name: name, Value: v})
	}
	r.fields = fields
}

// Fields returns a copy of the fields in order.
func (r Record) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Names returns the field names in order.
func (r Record) Names() []string {
	names := make([]string, len(r.fields))
	for i, field := range r.fields {
		names[i] = field.Name
	}
	return names
}

// Project returns a record containing only the named fields, in the
// order requested. missing lists the names that were not present.
func (r Record) Project(names []string) (projected Record, missing []string) {
	for _, name := range names {
		value, ok := r.Get(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		projected.fields = append(projected.fields, Field{Name: name, Value: value})
	}
	return projected, missing
}

// Equal reports field-by-field equality, order included.
func (r Record) Equal(other Record) bool {
	if len(r.fields) != len(other.fields) {
		return false
	}
	for i := range r.fields {
		if !strings.EqualFold(r.fields[i].Name, other.fields[i].Name) || !Equal(r.fields[i].Value, other.fields[i].Value) {
			return false
		}
	}
	return true
}

// String renders "name=value" pairs separated by spaces.
func (r Record) String() string {
	parts := make([]string, len(r.fields))
	for i, field := range r.fields {
		parts[i] = field.Name + "=" + field.Value.String()
	}
	return strings.Join(parts, " ")
}

// Native converts the record to a map for serializers that do not need
// field order.
func (r Record) Native() map[string]any {
	out := make(map[string]any, len(r.fields))
	for _, field := range r.fields {
		out[field.Name] = field.Value.Native()
	}
	return out
}

// MarshalJSON encodes the record as a JSON object with fields in
// record order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for i, field := range r.fields {
		if i > 0 {
			buffer.WriteByte(',')
		}
		name, err := json.Marshal(field.Name)
		if err != nil {
			return nil, err
		}
		encoded, err := field.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buffer.Write(name)
		buffer.WriteByte(':')
		buffer.Write(encoded)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

func (r Record) index(name string) int {
	for i, field := range r.fields {
		if strings.EqualFold(field.Name, name) {
			return i
		}
	}
	return -1
}

// List is an ordered sequence of records, the result shape of every
// query.
type List []Record

// Native converts the list for serializers.
func (l List) Native() []any {
	out := make([]any, len(l))
	for i, record := range l {
		out[i] = record.Native()
	}
	return out
}
