// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package container implements Arta's logical execution containers.
//
// A [Container] bundles a variable [Scope], a navigation context, the
// permission options fixed at creation, and the statements that
// initialized it. Switching containers swaps all of that at once, so a
// script can stage work in an isolated scope and come back to exactly
// the variables and folder it left.
//
// The [Manager] owns the container table. It always holds a container
// named "default" that cannot be destroyed; it starts active. Every
// Manager method takes one mutex, so a host embedding the engine can
// share a Manager across goroutines even though the executor itself
// runs statements one at a time.
//
// [Export] renders a container as a script that recreates it when run.
// The script starts with a comment header carrying a keyed BLAKE3
// checksum of its body; [VerifyExport] recomputes it so the script
// runner can warn about hand-edited exports.
package container
