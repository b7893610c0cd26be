// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package output renders what the engine produces.
//
// The executor never writes to a terminal directly. Every query
// result, PRINT, informational message and warning becomes an [Event]
// handed to a [Sink]:
//
//   - [Human] renders tables and key/value blocks with lipgloss, with
//     colour chosen by the caller (the CLI enables it only on a
//     terminal).
//   - [JSON] writes one JSON document per event, for scripts.
//   - [CBOR] writes one deterministic CBOR item per event through
//     lib/codec, keeping sizes distinct from plain numbers.
//   - [Recorder] keeps events in memory for tests.
//
// [Highlight] colours Arta source with chroma for EXPLAIN listings and
// exported containers.
package output
