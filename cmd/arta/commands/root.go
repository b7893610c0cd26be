// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/arta-lang/arta/cmd/arta/cli"
)

// Root builds the arta command tree bound to the process's standard
// streams and the Linux system.
func Root() *cli.Command {
	return root(processEnvironment())
}

func root(env *environment) *cli.Command {
	return &cli.Command{
		Name: "arta",
		Description: `Arta: a query language for the local machine.

Query processes, memory, CPU, disks, network interfaces, battery and
files with SQL-like statements, run scripts, and monitor resources.
DELETE and KILL are disabled unless --allow-actions is given.`,
		Subcommands: []*cli.Command{
			queryCommand(env),
			runCommand(env),
			lifeCommand(env),
			explainCommand(env),
			replCommand(env),
			containersCommand(env),
			fmtCommand(env),
			verifyCommand(env),
			versionCommand(env),
		},
	}
}
