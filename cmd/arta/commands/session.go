// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/arta-lang/arta/cmd/arta/cli"
	"github.com/arta-lang/arta/lib/config"
	"github.com/arta-lang/arta/lib/container"
	"github.com/arta-lang/arta/lib/engine"
	"github.com/arta-lang/arta/lib/inspect"
	"github.com/arta-lang/arta/lib/life"
	"github.com/arta-lang/arta/lib/output"
	"github.com/arta-lang/arta/lib/script"
)

// environment is what the command tree reads from and writes to. Tests
// substitute buffers and a static system.
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// terminal reports whether stdout is a terminal, for colour.
	terminal bool

	// system builds the machine the executor inspects.
	system func(*config.Config) inspect.System

	// logger overrides the command logger.
	logger *slog.Logger
}

func processEnvironment() *environment {
	return &environment{
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		terminal: term.IsTerminal(int(os.Stdout.Fd())),
		system: func(cfg *config.Config) inspect.System {
			return inspect.NewLinux(cfg.Linux())
		},
	}
}

// globalParams are the flags shared by every executing command.
type globalParams struct {
	cli.JSONOutput
	Config       string `flag:"config" desc:"configuration file (default $ARTA_CONFIG)"`
	Format       string `flag:"format" desc:"output format: human, json or cbor (default from config)"`
	DryRun       bool   `flag:"dry-run" desc:"report what DELETE and KILL would do without doing it"`
	AllowActions bool   `flag:"allow-actions" desc:"enable DELETE and KILL"`
	Verbose      bool   `flag:"verbose,v" desc:"log debug detail to stderr"`
}

// session is an executor wired to configuration and output.
type session struct {
	config   *config.Config
	logger   *slog.Logger
	sink     output.Sink
	format   string
	color    bool
	system   inspect.System
	executor *engine.Executor
	runner   *script.Runner
}

func (g *globalParams) loadConfig() (*config.Config, error) {
	if g.Config != "" {
		return config.LoadFile(g.Config)
	}
	return config.Load()
}

// open builds a session whose output goes to w.
func (g *globalParams) open(env *environment, w io.Writer) (*session, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, err
	}

	logger := env.logger
	if logger == nil {
		logger = cli.NewCommandLogger(g.Verbose)
	}

	format := cfg.Output.Format
	if g.Format != "" {
		format = g.Format
	}
	if g.OutputJSON {
		format = config.FormatJSON
	}

	color := false
	switch cfg.Output.Color {
	case config.ColorAlways:
		color = true
	case config.ColorAuto:
		color = env.terminal && os.Getenv("NO_COLOR") == ""
	}

	sink, err := newSink(format, w, color)
	if err != nil {
		return nil, err
	}

	system := env.system(cfg)
	executor, err := engine.New(engine.Config{
		System:       system,
		Output:       sink,
		AllowActions: g.AllowActions || cfg.Security.AllowActions,
		DryRun:       g.DryRun,
		Limits:       cfg.Limits(),
		StartPath:    cfg.Paths.Start,
		Life: life.Config{
			Interval:     cfg.LifeInterval(),
			OnlyOnChange: cfg.Life.OnlyOnChange,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	runner, err := script.NewRunner(script.RunnerConfig{
		Executor: executor,
		Output:   sink,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("session opened",
		"environment", cfg.Environment,
		"format", format,
		"allow_actions", executor.State().AllowActions,
		"dry_run", g.DryRun,
	)
	return &session{
		config:   cfg,
		logger:   logger,
		sink:     sink,
		format:   format,
		color:    color,
		system:   system,
		executor: executor,
		runner:   runner,
	}, nil
}

func newSink(format string, w io.Writer, color bool) (output.Sink, error) {
	switch format {
	case config.FormatHuman:
		return output.NewHuman(w, output.HumanOptions{Color: color}), nil
	case config.FormatJSON:
		return output.NewJSON(w), nil
	case config.FormatCBOR:
		return output.NewCBOR(w), nil
	default:
		return nil, cli.Usagef("unknown output format %q (want human, json or cbor)", format)
	}
}

// useContainer makes name the active container, creating it with the
// default options if the session has none by that name.
func (s *session) useContainer(name string) error {
	if name == "" {
		return nil
	}
	manager := s.executor.State().Containers
	if _, ok := manager.Get(name); !ok {
		if _, err := manager.Create(name, container.Options{AllowActions: true}, nil); err != nil {
			return err
		}
		s.logger.Debug("created container", "container", name)
	}
	if _, err := manager.Switch(name); err != nil {
		return fmt.Errorf("selecting container: %w", err)
	}
	return nil
}
