// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/arta-lang/arta/cmd/arta/cli"
	"github.com/arta-lang/arta/lib/script"
)

type runParams struct {
	globalParams
	Args      []string `flag:"arg" desc:"bind a script variable, as name=value (repeatable)"`
	Container string   `flag:"container" desc:"run in this container, creating it if needed"`
}

func runCommand(env *environment) *cli.Command {
	var params runParams
	return &cli.Command{
		Name:    "run",
		Summary: "Run a script file",
		Usage:   "arta run <file.arta> [flags]",
		Description: `Run an Arta script. The whole script is validated before the first
statement executes; the first failing statement stops the run.

--arg values are typed: true and false are booleans, 10MB is a size,
numbers are numbers, and anything else is a string.`,
		Examples: []cli.Example{
			{Description: "Clean up with a size threshold", Command: "arta run cleanup.arta --allow-actions --arg limit=500MB"},
			{Description: "See what a script would delete", Command: "arta run cleanup.arta --dry-run"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("run", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return cli.Usagef("run requires exactly one script file\n\nRun 'arta run --help' for usage.")
			}
			loaded, err := script.Load(args[0])
			if err != nil {
				return err
			}
			scriptArgs, err := script.ParseArgs(params.Args)
			if err != nil {
				return err
			}

			session, err := params.open(env, env.stdout)
			if err != nil {
				return err
			}
			if err := session.useContainer(params.Container); err != nil {
				return err
			}

			result, err := session.runner.Run(ctx, loaded, scriptArgs)
			session.logger.Debug("script finished",
				"script", loaded.Name,
				"statements", result.Statements,
				"warnings", len(result.Warnings),
				"failed", err != nil,
			)
			return err
		},
	}
}
