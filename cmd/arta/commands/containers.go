// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/arta-lang/arta/cmd/arta/cli"
	"github.com/arta-lang/arta/lib/script"
)

func containersCommand(env *environment) *cli.Command {
	var params globalParams
	return &cli.Command{
		Name:    "containers",
		Summary: "List containers",
		Description: `List the container table. Containers live for one session, so from
the command line this shows only the default container; use the
containers command inside 'arta repl' to see a session's table.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("containers", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 0 {
				return cli.Usagef("containers takes no arguments")
			}
			session, err := params.open(env, env.stdout)
			if err != nil {
				return err
			}
			_, err = session.runner.Run(ctx, script.FromSource("containers", "LIST CONTAINERS"), nil)
			return err
		},
	}
}
