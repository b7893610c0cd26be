// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package navigation holds the execution context: the stack of folder
// and file frames that ENTER, EXIT, and RESET manipulate and that gives
// relative paths in queries their meaning.
//
// The bottom of every stack is a Root frame, a permanent sentinel whose
// path is the process working directory or a configured start folder.
// Relative paths resolve against the nearest folder frame (Root counts
// as one), so entering a file does not change where "logs/" points.
//
// A Context is owned by exactly one container and is not safe for
// concurrent use; the container manager serializes access.
package navigation
