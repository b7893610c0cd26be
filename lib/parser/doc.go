// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package parser turns Arta source text into an [ast.Statement] list.
//
// The lexer is hand-written and position-tracking; the parser is
// recursive descent with one token of lookahead. Keywords are
// case-insensitive and are recognized by the parser from identifier
// tokens, so field names such as "name" or "size" need no quoting.
//
// A slash starts a path literal unless the previous token ends a value
// (number, string, identifier that is not a keyword, closing paren),
// in which case it is division: FROM /tmp is a path, size / 2 is
// arithmetic.
//
// Errors are returned as [*SyntaxError] with 1-based line and column.
// The parser never returns a partial tree alongside an error.
package parser
