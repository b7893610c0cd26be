// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Arta packages.
//
// [RequireReceive] bounds a channel receive with a timeout so tests of
// the LIFE monitor never block forever. It is the only place in the
// test suite that waits on the wall clock; everything else drives time
// through clock.Fake.
//
// [Tree] materializes a directory tree under t.TempDir from a map of
// relative paths to file contents, for navigation, FILES queries, and
// DELETE tests.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
