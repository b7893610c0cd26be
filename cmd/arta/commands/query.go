// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"strings"

	"github.com/spf13/pflag"

	"github.com/arta-lang/arta/cmd/arta/cli"
	"github.com/arta-lang/arta/lib/parser"
	"github.com/arta-lang/arta/lib/script"
)

type queryParams struct {
	globalParams
	Container string `flag:"container" desc:"run in this container, creating it if needed"`
}

func queryCommand(env *environment) *cli.Command {
	var params queryParams
	return &cli.Command{
		Name:    "query",
		Summary: "Run a single statement",
		Usage:   "arta query <statement> [flags]",
		Description: `Run one Arta statement. The statement is validated as a complete
script, so DELETE and KILL still need --allow-actions. Quote the
statement so the shell leaves operators such as > and * alone.`,
		Examples: []cli.Example{
			{Description: "Busiest processes", Command: `arta query 'SELECT PROCESS name, cpu WHERE cpu > 10'`},
			{Description: "Machine-readable disk usage", Command: `arta query --json 'SELECT DISK *'`},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("query", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return cli.Usagef("query requires a statement\n\nRun 'arta query --help' for usage.")
			}
			source := strings.Join(args, " ")
			if _, err := parser.ParseStatement(source); err != nil {
				return err
			}

			session, err := params.open(env, env.stdout)
			if err != nil {
				return err
			}
			if err := session.useContainer(params.Container); err != nil {
				return err
			}
			_, err = session.runner.Run(ctx, script.FromSource("query", source), nil)
			return err
		},
	}
}
