// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package repl

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arta-lang/arta/lib/engine"
	"github.com/arta-lang/arta/lib/inspect"
	"github.com/arta-lang/arta/lib/output"
	"github.com/arta-lang/arta/lib/script"
	"github.com/arta-lang/arta/lib/testutil"
)

type fixture struct {
	session  *Session
	recorder *output.Recorder
	writer   *bytes.Buffer
	root     string
}

func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	t.Helper()
	root := testutil.Tree(t, map[string]string{
		"projects/":          "",
		"projects/notes.txt": "first\n",
	})
	recorder := &output.Recorder{}
	executor, err := engine.New(engine.Config{
		System:    inspect.NewStatic(),
		Output:    recorder,
		StartPath: root,
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	runner, err := script.NewRunner(script.RunnerConfig{Executor: executor, Output: recorder})
	if err != nil {
		t.Fatalf("script.NewRunner: %v", err)
	}

	var writer bytes.Buffer
	config := Config{Executor: executor, Runner: runner, Output: recorder, Writer: &writer}
	if mutate != nil {
		mutate(&config)
	}
	session, err := New(config)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &fixture{session: session, recorder: recorder, writer: &writer, root: root}
}

func (f *fixture) feed(t *testing.T, lines ...string) {
	t.Helper()
	for _, line := range lines {
		if err := f.session.Feed(context.Background(), line); err != nil {
			t.Fatalf("Feed(%q): %v", line, err)
		}
	}
}

func TestMultiLineBlock(t *testing.T) {
	f := newFixture(t, nil)

	f.feed(t, "IF 2 > 1 THEN")
	if !f.session.Pending() || f.session.Prompt() != continuationPrompt {
		t.Fatalf("expected continuation after IF, prompt %q", f.session.Prompt())
	}
	f.feed(t, `  PRINT "inside";`)
	if !f.session.Pending() {
		t.Fatal("block closed early")
	}
	f.feed(t, "END IF;")
	if f.session.Pending() {
		t.Fatal("block still pending after END IF")
	}

	if got := f.recorder.Texts(output.KindPrint); len(got) != 1 || got[0] != "inside" {
		t.Errorf("printed %v, want [inside]", got)
	}
}

func TestEmptyLineSubmitsIncompleteInput(t *testing.T) {
	f := newFixture(t, nil)
	f.feed(t, "IF true THEN", "")

	if f.session.Pending() {
		t.Fatal("empty line did not submit")
	}
	messages := f.recorder.Texts(output.KindMessage)
	if len(messages) != 1 || !strings.Contains(messages[0], "syntax error") {
		t.Errorf("messages = %v, want one syntax error", messages)
	}
}

func TestErrorsDoNotEndSession(t *testing.T) {
	f := newFixture(t, nil)
	f.feed(t, "EXIT", `PRINT "still here"`)

	messages := f.recorder.Texts(output.KindMessage)
	if len(messages) != 1 || !strings.HasPrefix(messages[0], "error: ") {
		t.Errorf("messages = %v, want one error", messages)
	}
	if got := f.recorder.Texts(output.KindPrint); len(got) != 1 || got[0] != "still here" {
		t.Errorf("printed %v after error", got)
	}
}

func TestNavigationShortcuts(t *testing.T) {
	f := newFixture(t, nil)

	f.feed(t, "cd projects", "pwd")
	if got := strings.TrimSpace(f.writer.String()); got != filepath.Join(f.root, "projects") {
		t.Errorf("pwd = %q, want projects folder", got)
	}
	if prompt := f.session.Prompt(); !strings.HasPrefix(prompt, "arta[default] ") || !strings.Contains(prompt, "projects") {
		t.Errorf("prompt = %q", prompt)
	}

	f.writer.Reset()
	f.feed(t, "..", "pwd")
	if got := strings.TrimSpace(f.writer.String()); got != f.root {
		t.Errorf("pwd after .. = %q, want %q", got, f.root)
	}
}

func TestExpandShortcut(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"cd", "RESET", true},
		{"cd ..", "EXIT", true},
		{"cd /var/log", `ENTER FOLDER "/var/log"`, true},
		{`cd my "odd" dir`, `ENTER FOLDER "my \"odd\" dir"`, true},
		{"..", "EXIT", true},
		{"ls", "SELECT FILES *", true},
		{"LS /tmp", `SELECT FILES * FROM "/tmp"`, true},
		{"cat notes.txt", `SELECT CONTENT * FROM "notes.txt"`, true},
		{"cat", "", false},
		{"vars", "SHOW VARIABLES", true},
		{"ctx", "SHOW CONTEXT", true},
		{"vars x", "", false},
		{"SELECT CPU *", "", false},
	}
	for _, tt := range tests {
		got, ok := expandShortcut(tt.line)
		if got != tt.want || ok != tt.ok {
			t.Errorf("expandShortcut(%q) = %q, %v; want %q, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMetaCommands(t *testing.T) {
	f := newFixture(t, nil)

	f.feed(t, "help")
	if !strings.Contains(f.writer.String(), "Shortcuts:") {
		t.Errorf("help output = %q", f.writer.String())
	}

	f.feed(t, "containers")
	results := f.recorder.Results()
	if len(results) != 1 || len(results[0]) != 1 {
		t.Fatalf("containers results = %v, want the default container", results)
	}

	for _, word := range []string{"exit", "QUIT"} {
		if err := f.session.Feed(context.Background(), word); !errors.Is(err, ErrExit) {
			t.Errorf("Feed(%q) = %v, want ErrExit", word, err)
		}
	}
}

func TestRunStopsAtExit(t *testing.T) {
	f := newFixture(t, nil)
	input := strings.NewReader("PRINT \"one\"\nexit\nPRINT \"two\"\n")

	if err := f.session.Run(context.Background(), NewScanner(input)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := f.recorder.Texts(output.KindPrint); len(got) != 1 || got[0] != "one" {
		t.Errorf("printed %v, want [one]", got)
	}
}

func TestRunSubmitsPendingAtEOF(t *testing.T) {
	f := newFixture(t, nil)
	input := strings.NewReader("FOR n IN SELECT MEMORY * DO\n  PRINT \"loop\";\n")

	if err := f.session.Run(context.Background(), NewScanner(input)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if messages := f.recorder.Texts(output.KindMessage); len(messages) != 1 {
		t.Errorf("messages = %v, want the unterminated FOR reported", messages)
	}
}

func TestInterruptStopsOnlyTheEntry(t *testing.T) {
	f := newFixture(t, func(config *Config) {
		config.Interrupt = func(parent context.Context) (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(parent)
			cancel()
			return ctx, cancel
		}
	})

	f.feed(t, `PRINT "never"`)
	if got := f.recorder.Texts(output.KindPrint); len(got) != 0 {
		t.Errorf("interrupted entry printed %v", got)
	}
	if messages := f.recorder.Texts(output.KindMessage); len(messages) != 1 || messages[0] != "interrupted" {
		t.Errorf("messages = %v, want [interrupted]", messages)
	}
}

func TestCancelledSessionReturns(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.session.Run(ctx, NewScanner(strings.NewReader("PRINT 1\n")))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestHistoryFile(t *testing.T) {
	history := filepath.Join(t.TempDir(), "history")
	f := newFixture(t, func(config *Config) { config.HistoryFile = history })

	f.feed(t, "IF true THEN", `PRINT "x";`, "END IF", "vars")

	data, err := os.ReadFile(history)
	if err != nil {
		t.Fatalf("reading history: %v", err)
	}
	want := "IF true THEN\nPRINT \"x\";\nEND IF\nSHOW VARIABLES\n"
	if string(data) != want {
		t.Errorf("history = %q, want %q", data, want)
	}
}

func TestNewRequiresExecutorAndRunner(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error without executor")
	}
}
