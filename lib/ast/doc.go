// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ast defines the Arta syntax tree.
//
// [Statement] and [Expression] are closed sets: each is an interface
// with an unexported marker method, so only this package can add
// variants and every type switch over them can be checked for
// exhaustiveness. The tree is built once by the parser and treated as
// immutable afterwards; the executor only reads it.
//
// [Format] and [FormatScript] print statements back to canonical
// surface syntax. The printer is the serialization used by container
// export, so its output must parse back to an equivalent tree.
package ast
