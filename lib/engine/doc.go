// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package engine executes parsed Arta statements.
//
// An [Executor] owns the interpreter [State]: the container table, the
// global allow-actions and dry-run flags, the session history, and the
// snapshot overlay of a running LIFE block. Everything it touches
// outside that state arrives through its [Config]: the system being
// inspected, the output sink, the clock and the logger.
//
// Statements run in source order and fail fast. [Executor.Run] wraps
// the first failure in a [*StatementError] naming the statement's
// index and position; the underlying error keeps its fault kind, so
// callers classify failures with fault.KindOf.
//
// Destructive statements (DELETE, KILL) pass four gates before
// anything changes: the matches are resolved, the permission of the
// active container is recomputed, the match count is checked against
// the configured ceiling, and for KILL every match is checked against
// the protected-process list. Any refusal is a Security error and no
// mutation happens. In dry-run mode the gates still run and the
// would-be count is reported, but the system is never asked to act.
//
// An Executor is not safe for concurrent use. Hosts that share one
// between goroutines must serialize calls to Execute and Run.
package engine
