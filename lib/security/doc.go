// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package security gates Arta's destructive statements.
//
// Three independent checks stand between a DELETE or KILL and the
// operating system:
//
//   - [Validate] walks a parsed script once, before anything runs, and
//     reports fatal violations (actions with the global flag off,
//     actions inside LIFE bodies, excessive nesting) and warnings
//     (DELETE without WHERE, DELETE from a system root, actions in a
//     container that will refuse them).
//   - [Evaluate] composes the global allow-actions flag with the
//     active container's options. The composition is a strict AND: a
//     container can only narrow what the flag permits, and the
//     returned [Permission] names the clause that refused.
//   - [Limits] bounds what a single action may touch once its matches
//     are resolved: a ceiling on the number of files or processes, and
//     a list of protected processes that refuses any KILL naming one.
//
// Violations and refusals are never downgraded by later stages.
package security
