// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/arta-lang/arta/cmd/arta/cli"
	"github.com/arta-lang/arta/lib/fault"
	"github.com/arta-lang/arta/lib/script"
)

type verifyParams struct {
	cli.JSONOutput
}

type verifyResult struct {
	File      string `json:"file"`
	Container string `json:"container"`
	Valid     bool   `json:"valid"`
	Expected  string `json:"expected"`
	Actual    string `json:"actual"`
}

func verifyCommand(env *environment) *cli.Command {
	var params verifyParams
	return &cli.Command{
		Name:    "verify",
		Summary: "Check the checksum of an exported container",
		Usage:   "arta verify <file.arta> [flags]",
		Description: `Recompute the checksum of a file written by EXPORT CONTAINER and
compare it with the one recorded in its header. Exits 1 when the file
was edited after export.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("verify", &params)
		},
		Run: func(_ context.Context, args []string) error {
			if len(args) != 1 {
				return cli.Usagef("verify requires exactly one file")
			}
			loaded, err := script.Load(args[0])
			if err != nil {
				return err
			}
			if !loaded.Export.Exported {
				return fault.New(fault.Validation, "%s has no export header", loaded.Name)
			}

			result := verifyResult{
				File:      loaded.Name,
				Container: loaded.Export.Name,
				Valid:     loaded.Export.Valid(),
				Expected:  loaded.Export.Expected,
				Actual:    loaded.Export.Actual,
			}
			if done, err := params.EmitJSON(env.stdout, result); done {
				if err == nil && !result.Valid {
					err = &cli.ExitError{Code: cli.ExitRuntime}
				}
				return err
			}

			if result.Valid {
				fmt.Fprintf(env.stdout, "%s: container %q checksum ok (%s)\n", result.File, result.Container, result.Actual)
				return nil
			}
			fmt.Fprintf(env.stdout, "%s: container %q checksum mismatch\n  recorded: %s\n  computed: %s\n",
				result.File, result.Container, result.Expected, result.Actual)
			return &cli.ExitError{Code: cli.ExitRuntime}
		},
	}
}
