// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the arta command tree.
//
// Every command that executes Arta shares the global flags in
// [globalParams]: --config, --format, --json, --dry-run,
// --allow-actions and --verbose. [globalParams.open] turns them and the
// loaded configuration into a session holding the executor, the script
// runner and the output sink the command writes to.
package commands
