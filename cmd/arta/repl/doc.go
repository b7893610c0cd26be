// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package repl is the interactive Arta shell.
//
// A [Session] accumulates input lines until they form complete
// statements, then runs them through the script runner so they get the
// same validation and warnings as a script file. A line that opens a
// block (IF, FOR, CREATE CONTAINER, LIFE MONITOR) switches the prompt
// to a continuation prompt until the block closes; an empty line
// submits whatever has been typed.
//
// At the start of a statement, a few words are handled by the shell
// itself. Shortcuts expand to Arta statements: cd, .., ls, cat, vars
// and ctx. Meta commands act on the shell: help, pwd, containers,
// clear and exit.
package repl
