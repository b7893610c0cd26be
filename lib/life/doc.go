// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package life runs LIFE MONITOR blocks.
//
// A [Monitor] is a single-threaded cooperative loop. Each tick pulls
// one fresh snapshot of the monitored resource from a [Sampler] and
// hands it to a [Runner], which executes the block body with the
// snapshot bound as read-only names. Between ticks the loop waits on
// the injected clock or on context cancellation, whichever comes
// first. Cancellation is the normal way a monitor ends: Run returns
// nil and emits nothing further.
//
// The body is validated once before the first tick. Actions (DELETE,
// KILL) are rejected inside a LIFE body regardless of any permission
// flag.
//
// The monitor holds no state across ticks beyond the latest snapshot,
// which it keeps only to support [Config.OnlyOnChange].
package life
