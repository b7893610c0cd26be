// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fault defines the error taxonomy shared by every layer of the
// Arta engine.
//
// Each failure carries a [Kind] (syntax, validation, type, not-found,
// naming conflict, underflow, security, inspection). Callers classify
// errors with [Is] and [KindOf] rather than matching message text, so
// the script runner and REPL can decide exit codes and whether a
// failure is fatal before execution or only aborts the current line.
//
// Errors that need extra structure (the parser's line/column, the
// validator's violation list) define their own types in their packages
// and satisfy the [Kinded] interface.
//
// This package depends on no other Arta packages.
package fault
