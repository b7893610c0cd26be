// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the arta binary.
//
// A [Command] tree dispatches on the first positional argument, parses
// flags with pflag, and suggests the closest command or flag name on a
// typo. Parameter structs declare flags with struct tags and are bound
// by [BindFlags] or [FlagsFromParams]; embedding [JSONOutput] adds
// --json. [ExitCode] maps a returned error onto the process exit
// status, and [NewCommandLogger] picks a log handler for stderr.
package cli
