// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/arta-lang/arta/cmd/arta/cli"
	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/config"
	"github.com/arta-lang/arta/lib/output"
	"github.com/arta-lang/arta/lib/parser"
	"github.com/arta-lang/arta/lib/script"
)

func fmtCommand(env *environment) *cli.Command {
	var params globalParams
	return &cli.Command{
		Name:    "fmt",
		Summary: "Print a script in canonical form",
		Usage:   "arta fmt <file.arta> [flags]",
		Description: `Parse a script and print it with canonical keyword case, spacing and
indentation. Comments are not preserved. Output is syntax highlighted
when colour is enabled.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("fmt", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return cli.Usagef("fmt requires exactly one script file")
			}
			loaded, err := script.Load(args[0])
			if err != nil {
				return err
			}
			statements, err := parser.Parse(loaded.Source)
			if err != nil {
				return fmt.Errorf("%s: %w", loaded.Name, err)
			}

			session, err := params.open(env, env.stdout)
			if err != nil {
				return err
			}
			formatted := ast.FormatScript(statements)
			highlight := session.color && session.format == config.FormatHuman
			_, err = fmt.Fprint(env.stdout, output.Highlight(formatted, highlight))
			return err
		},
	}
}
