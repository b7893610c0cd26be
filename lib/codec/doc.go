// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Arta's CBOR encoding.
//
// JSON is the format for people and scripts consuming the CLI (--json,
// --format json). CBOR is the format for machine consumers that need
// exact values: the --format cbor output sink writes one CBOR item per
// event, and LIFE tick streams use the same encoding so a consumer can
// tell a byte size from a plain number.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items. The
// same logical data always produces identical bytes.
//
// Engine values need two things plain CBOR does not give them:
//
//   - Sizes are tagged ([SizeTag]) so that 1024 bytes and the number
//     1024 decode differently.
//   - Records are tagged arrays of [name, value] pairs ([RecordTag])
//     because deterministic encoding sorts map keys and records must
//     keep their field order.
//
// For buffer-oriented operations:
//
//	data, err := codec.MarshalValue(v)
//	v, err := codec.UnmarshalValue(data)
//
// For streams:
//
//	encoder := codec.NewEncoder(w)
//	err := encoder.Encode(codec.EncodeValue(v))
package codec
