// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/arta-lang/arta/lib/value"
)

// CBOR tag numbers for engine values.
const (
	SizeTag   uint64 = 16754
	RecordTag uint64 = 16755
)

// EncodeValue converts v to data the encoder writes in Arta's wire
// form: strings, floats and booleans as themselves, sizes and records
// tagged, lists as arrays of records.
func EncodeValue(v value.Value) any {
	switch v.Kind() {
	case value.KindSize:
		bytes, _ := v.AsSize()
		return cbor.Tag{Number: SizeTag, Content: bytes}
	case value.KindRecord:
		record, _ := v.AsRecord()
		return EncodeRecord(record)
	case value.KindList:
		list, _ := v.AsList()
		return EncodeList(list)
	default:
		return v.Native()
	}
}

// EncodeRecord converts a record to its tagged pair-array form.
func EncodeRecord(record value.Record) cbor.Tag {
	fields := record.Fields()
	pairs := make([]any, len(fields))
	for i, field := range fields {
		pairs[i] = []any{field.Name, EncodeValue(field.Value)}
	}
	return cbor.Tag{Number: RecordTag, Content: pairs}
}

// EncodeList converts a list of records.
func EncodeList(list value.List) []any {
	out := make([]any, len(list))
	for i, record := range list {
		out[i] = EncodeRecord(record)
	}
	return out
}

// DecodeValue converts decoded CBOR data (as produced by decoding into
// any) back into a value.
func DecodeValue(raw any) (value.Value, error) {
	switch typed := raw.(type) {
	case string:
		return value.String(typed), nil
	case bool:
		return value.Bool(typed), nil
	case float64:
		return value.Number(typed), nil
	case float32:
		return value.Number(float64(typed)), nil
	case uint64:
		return value.Number(float64(typed)), nil
	case int64:
		return value.Number(float64(typed)), nil
	case cbor.Tag:
		switch typed.Number {
		case SizeTag:
			bytes, ok := typed.Content.(uint64)
			if !ok {
				return value.Value{}, fmt.Errorf("codec: size tag content is %T, want uint64", typed.Content)
			}
			return value.Size(bytes), nil
		case RecordTag:
			record, err := decodeRecord(typed.Content)
			if err != nil {
				return value.Value{}, err
			}
			return value.FromRecord(record), nil
		}
		return value.Value{}, fmt.Errorf("codec: unknown tag %d", typed.Number)
	case []any:
		list := make(value.List, len(typed))
		for i, element := range typed {
			decoded, err := DecodeValue(element)
			if err != nil {
				return value.Value{}, err
			}
			record, ok := decoded.AsRecord()
			if !ok {
				return value.Value{}, fmt.Errorf("codec: list element %d is %s, want record", i, decoded.Kind())
			}
			list[i] = record
		}
		return value.FromList(list), nil
	}
	return value.Value{}, fmt.Errorf("codec: cannot decode %T as a value", raw)
}

func decodeRecord(content any) (value.Record, error) {
	pairs, ok := content.([]any)
	if !ok {
		return value.Record{}, fmt.Errorf("codec: record content is %T, want array", content)
	}
	var record value.Record
	for i, raw := range pairs {
		pair, ok := raw.([]any)
		if !ok || len(pair) != 2 {
			return value.Record{}, fmt.Errorf("codec: record field %d is not a [name, value] pair", i)
		}
		name, ok := pair[0].(string)
		if !ok {
			return value.Record{}, fmt.Errorf("codec: record field %d name is %T", i, pair[0])
		}
		decoded, err := DecodeValue(pair[1])
		if err != nil {
			return value.Record{}, fmt.Errorf("codec: record field %q: %w", name, err)
		}
		record.Set(name, decoded)
	}
	return record, nil
}

// MarshalValue encodes v.
func MarshalValue(v value.Value) ([]byte, error) {
	return Marshal(EncodeValue(v))
}

// UnmarshalValue decodes data produced by MarshalValue.
func UnmarshalValue(data []byte) (value.Value, error) {
	var raw any
	if err := Unmarshal(data, &raw); err != nil {
		return value.Value{}, err
	}
	return DecodeValue(raw)
}
