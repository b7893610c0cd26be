// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package inspect reads and mutates operating-system state on behalf of
// the engine.
//
// [System] is the boundary: Query returns the records for one target
// (CPU, MEMORY, DISK, NETWORK, SYSTEM, BATTERY, PROCESS, FILES,
// CONTENT) filtered by the engine's WHERE predicate, and Perform
// carries out a DELETE or KILL against records the engine has already
// resolved and authorized. Nothing in this package makes permission
// decisions.
//
// [Linux] implements System from /proc, /sys and the filesystem. The
// proc and sys roots are configurable so tests can point it at
// synthetic trees; unreadable files produce zero-valued fields rather
// than failures, so a container or VM without a battery or DMI data
// still answers every query. [Static] is an in-memory System for tests
// and demonstrations.
//
// [Snapshot] aggregates a query into the single record a LIFE tick
// binds, and [CanonicalField] maps the field aliases the language
// accepts (MEMORY percent, CPU name, BATTERY charge) onto record
// fields.
package inspect
