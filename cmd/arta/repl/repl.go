// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/arta-lang/arta/lib/engine"
	"github.com/arta-lang/arta/lib/output"
	"github.com/arta-lang/arta/lib/parser"
	"github.com/arta-lang/arta/lib/script"
)

// ErrExit is returned by [Session.Feed] when the user asks to leave.
var ErrExit = errors.New("repl: exit")

const continuationPrompt = "   ...> "

// LineReader yields input lines without their terminators. ReadLine
// returns io.EOF at end of input.
type LineReader interface {
	ReadLine() (string, error)
}

// Config configures a Session.
type Config struct {
	// Executor holds the session state. Required.
	Executor *engine.Executor

	// Runner validates and runs submitted input. Required.
	Runner *script.Runner

	// Output receives statement results and errors. Defaults to
	// output.Discard.
	Output output.Sink

	// Writer receives shell text: help, pwd and the clear sequence.
	// Defaults to io.Discard.
	Writer io.Writer

	// HistoryFile, when set, has every submitted entry appended to it.
	HistoryFile string

	// Interrupt scopes the context of one entry. The CLI cancels it on
	// Ctrl-C so an interrupt stops the running entry, not the shell.
	// Defaults to context.WithCancel.
	Interrupt func(context.Context) (context.Context, context.CancelFunc)

	Logger *slog.Logger
}

// Session is one interactive shell.
type Session struct {
	executor *engine.Executor
	runner   *script.Runner
	sink     output.Sink
	writer   io.Writer
	history  string
	logger   *slog.Logger

	interrupt func(context.Context) (context.Context, context.CancelFunc)

	pending strings.Builder
	entries int
}

// New returns a Session.
func New(config Config) (*Session, error) {
	if config.Executor == nil {
		return nil, fmt.Errorf("repl: Config.Executor is required")
	}
	if config.Runner == nil {
		return nil, fmt.Errorf("repl: Config.Runner is required")
	}
	if config.Output == nil {
		config.Output = output.Discard
	}
	if config.Writer == nil {
		config.Writer = io.Discard
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Interrupt == nil {
		config.Interrupt = context.WithCancel
	}
	return &Session{
		interrupt: config.Interrupt,
		executor:  config.Executor,
		runner:    config.Runner,
		sink:      config.Output,
		writer:    config.Writer,
		history:   config.HistoryFile,
		logger:    config.Logger,
	}, nil
}

// Prompt returns the prompt for the next line: the active container
// and folder, or a continuation marker inside an unfinished statement.
func (s *Session) Prompt() string {
	if s.pending.Len() > 0 {
		return continuationPrompt
	}
	active := s.executor.State().Containers.Active()
	return fmt.Sprintf("arta[%s] %s> ", active.Name, active.Context.Prompt())
}

// Pending reports whether an unfinished statement is buffered.
func (s *Session) Pending() bool { return s.pending.Len() > 0 }

// Run reads lines until end of input, an exit command, or cancellation.
// If reader can set its prompt (as a term.Terminal can), it is updated
// before every line.
func (s *Session) Run(ctx context.Context, reader LineReader) error {
	prompter, _ := reader.(interface{ SetPrompt(string) })
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if prompter != nil {
			prompter.SetPrompt(s.Prompt())
		}
		line, err := reader.ReadLine()
		if errors.Is(err, io.EOF) {
			if s.Pending() {
				return s.submit(ctx)
			}
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.Feed(ctx, line); err != nil {
			if errors.Is(err, ErrExit) {
				return nil
			}
			return err
		}
	}
}

// Feed handles one input line. Statement errors are reported on the
// output and the session continues; only [ErrExit] and cancellation
// are returned.
func (s *Session) Feed(ctx context.Context, line string) error {
	if !s.Pending() {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return nil
		}
		handled, err := s.meta(ctx, trimmed)
		if handled || err != nil {
			return err
		}
		if source, ok := expandShortcut(trimmed); ok {
			return s.run(ctx, source)
		}
	} else if strings.TrimSpace(line) == "" {
		return s.submit(ctx)
	}

	s.pending.WriteString(line)
	s.pending.WriteByte('\n')

	if _, err := parser.Parse(s.pending.String()); parser.Incomplete(err) {
		return nil
	}
	return s.submit(ctx)
}

// submit runs the buffered input, complete or not.
func (s *Session) submit(ctx context.Context) error {
	source := s.pending.String()
	s.pending.Reset()
	return s.run(ctx, source)
}

func (s *Session) run(ctx context.Context, source string) error {
	s.entries++
	s.record(source)

	entryCtx, cancel := s.interrupt(ctx)
	defer cancel()

	name := fmt.Sprintf("<repl %d>", s.entries)
	_, err := s.runner.Run(entryCtx, script.FromSource(name, source), nil)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if entryCtx.Err() != nil {
		return s.sink.Emit(output.Message("interrupted"))
	}
	if err == nil {
		return nil
	}
	s.logger.Debug("entry failed", "entry", s.entries, "error", err)
	return s.sink.Emit(output.Message("error: " + err.Error()))
}

// record appends source to the history file. A write failure is
// logged once per entry and otherwise ignored.
func (s *Session) record(source string) {
	if s.history == "" {
		return
	}
	file, err := os.OpenFile(s.history, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		s.logger.Warn("cannot open history file", "path", s.history, "error", err)
		return
	}
	defer file.Close()
	if _, err := io.WriteString(file, strings.TrimRight(source, "\n")+"\n"); err != nil {
		s.logger.Warn("cannot write history file", "path", s.history, "error", err)
	}
}

type scanner struct {
	scanner *bufio.Scanner
}

// NewScanner reads lines from r, for input that is not a terminal.
func NewScanner(r io.Reader) LineReader {
	return &scanner{scanner: bufio.NewScanner(r)}
}

func (s *scanner) ReadLine() (string, error) {
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
