// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package value implements Arta's runtime values: a closed tagged union
// of strings, numbers, byte sizes, booleans, records and lists of
// records.
//
// Byte sizes are stored as exact uint64 byte counts. Size literals are
// normalized at construction ([ParseSize]) using 1024-based units, so
// "100MB" compares equal to 104857600 bytes with no float drift.
//
// [Compare] and [Apply] implement the comparison and arithmetic rules.
// Operands of incompatible kinds fail with a [fault.Type] error; the
// package never coerces silently. The one cross-kind rule is that a
// Size and a non-negative whole Number compare as byte counts.
//
// [Record] keeps its fields in insertion order (the order the
// inspection layer produced them) and looks names up
// case-insensitively.
package value
