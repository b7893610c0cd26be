// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/arta-lang/arta/cmd/arta/cli"
	"github.com/arta-lang/arta/lib/version"
)

type versionParams struct {
	cli.JSONOutput
}

func versionCommand(env *environment) *cli.Command {
	var params versionParams
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("version", &params)
		},
		Run: func(context.Context, []string) error {
			if done, err := params.EmitJSON(env.stdout, version.Read()); done {
				return err
			}
			_, err := fmt.Fprintf(env.stdout, "arta %s\n", version.Full())
			return err
		},
	}
}
