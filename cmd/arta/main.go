// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command arta runs Arta statements, scripts and monitors against the
// local machine.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arta-lang/arta/cmd/arta/cli"
	"github.com/arta-lang/arta/cmd/arta/commands"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := commands.Root().Execute(ctx, args)
	if err != nil && !cli.Silent(err) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return cli.ExitCode(err)
}
