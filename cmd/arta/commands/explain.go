// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"strings"

	"github.com/spf13/pflag"

	"github.com/arta-lang/arta/cmd/arta/cli"
	"github.com/arta-lang/arta/lib/script"
)

func explainCommand(env *environment) *cli.Command {
	var params globalParams
	return &cli.Command{
		Name:    "explain",
		Summary: "Describe what a script or statement would do",
		Usage:   "arta explain <file.arta | statement> [flags]",
		Description: `List each top-level statement with a description of its effect and
any validation findings. Nothing executes.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("explain", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) == 0 {
				return cli.Usagef("explain requires a script file or a statement")
			}

			var target *script.Script
			if len(args) == 1 && strings.HasSuffix(args[0], script.Extension) {
				loaded, err := script.Load(args[0])
				if err != nil {
					return err
				}
				target = loaded
			} else {
				target = script.FromSource("statement", strings.Join(args, " "))
			}

			session, err := params.open(env, env.stdout)
			if err != nil {
				return err
			}
			_, err = session.runner.Explain(target)
			return err
		},
	}
}
