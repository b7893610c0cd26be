// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package script loads and runs .arta files.
//
// [Load] reads a script and, when it is an exported container,
// recomputes its checksum. [Runner.Run] then parses the whole script,
// binds --arg values in the active container, validates, surfaces
// validator warnings on the output, and executes statement by statement
// until the first failure. Syntax and fatal validation errors stop the
// run before any statement executes.
//
// [Explain] produces a numbered listing of what each top-level
// statement would do, with the validator's findings, without executing
// anything.
package script
