// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/arta-lang/arta/cmd/arta/cli"
	"github.com/arta-lang/arta/cmd/arta/repl"
)

type replParams struct {
	globalParams
	Container string `flag:"container" desc:"start in this container, creating it if needed"`
	NoHistory bool   `flag:"no-history" desc:"do not append entries to the history file"`
}

func replCommand(env *environment) *cli.Command {
	var params replParams
	return &cli.Command{
		Name:    "repl",
		Summary: "Start an interactive shell",
		Description: `Start an interactive Arta shell. Variables, containers and the
navigation context persist between entries. Type 'help' for the
shortcuts and shell commands. Ctrl-C stops the running entry;
Ctrl-D or 'exit' leaves.`,
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("repl", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 0 {
				return cli.Usagef("repl takes no arguments; use 'arta run' for script files")
			}

			session, err := params.open(env, env.stdout)
			if err != nil {
				return err
			}
			if err := session.useContainer(params.Container); err != nil {
				return err
			}

			history := session.config.Paths.History
			if params.NoHistory {
				history = ""
			}

			// SIGINT is scoped to the running entry; SIGTERM still ends
			// the shell.
			shellCtx, stop := signal.NotifyContext(context.WithoutCancel(ctx), syscall.SIGTERM)
			defer stop()

			shell, err := repl.New(repl.Config{
				Executor:    session.executor,
				Runner:      session.runner,
				Output:      session.sink,
				Writer:      env.stdout,
				HistoryFile: history,
				Logger:      session.logger,
				Interrupt: func(parent context.Context) (context.Context, context.CancelFunc) {
					return signal.NotifyContext(parent, os.Interrupt)
				},
			})
			if err != nil {
				return err
			}
			return shell.Run(shellCtx, lineReader(env))
		},
	}
}

// lineReader edits lines on a terminal and scans them otherwise.
func lineReader(env *environment) repl.LineReader {
	stdin, ok := env.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(stdin.Fd())) {
		return repl.NewScanner(env.stdin)
	}
	screen := struct {
		io.Reader
		io.Writer
	}{stdin, env.stdout}
	return &terminalReader{fd: int(stdin.Fd()), terminal: term.NewTerminal(screen, "")}
}

// terminalReader holds the terminal in raw mode only while a line is
// being edited, so statements run with normal signal handling.
type terminalReader struct {
	fd       int
	terminal *term.Terminal
}

func (r *terminalReader) SetPrompt(prompt string) { r.terminal.SetPrompt(prompt) }

func (r *terminalReader) ReadLine() (string, error) {
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return "", err
	}
	defer term.Restore(r.fd, state)
	return r.terminal.ReadLine()
}
