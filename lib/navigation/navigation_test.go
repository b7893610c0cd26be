// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package navigation

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/arta-lang/arta/lib/clock"
	"github.com/arta-lang/arta/lib/fault"
	"github.com/arta-lang/arta/lib/testutil"
)

func newContext(t *testing.T) (*Context, string) {
	t.Helper()
	root := testutil.Tree(t, map[string]string{
		"logs/app.log":   "started\n",
		"logs/old/a.log": "a\n",
		"notes.txt":      "hello\n",
		"empty/":         "",
	})
	fake := clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	context, err := New(root, Options{Clock: fake})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return context, root
}

func TestEnterResolvesAgainstNearestFolder(t *testing.T) {
	context, root := newContext(t)

	if _, err := context.EnterFolder("logs"); err != nil {
		t.Fatalf("EnterFolder(logs): %v", err)
	}
	if _, err := context.EnterFile("app.log"); err != nil {
		t.Fatalf("EnterFile(app.log): %v", err)
	}
	// A File frame does not move the folder that relative paths use.
	if got, want := context.Folder(), filepath.Join(root, "logs"); got != want {
		t.Errorf("Folder() = %q, want %q", got, want)
	}
	if got, want := context.Resolve("old"), filepath.Join(root, "logs", "old"); got != want {
		t.Errorf("Resolve(old) = %q, want %q", got, want)
	}
	file, ok := context.File()
	if !ok || file != filepath.Join(root, "logs", "app.log") {
		t.Errorf("File() = %q, %v", file, ok)
	}
	if context.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", context.Depth())
	}
}

func TestEnterFailures(t *testing.T) {
	tests := []struct {
		name  string
		enter func(*Context) (Frame, error)
	}{
		{"missing folder", func(c *Context) (Frame, error) { return c.EnterFolder("nope") }},
		{"file as folder", func(c *Context) (Frame, error) { return c.EnterFolder("notes.txt") }},
		{"folder as file", func(c *Context) (Frame, error) { return c.EnterFile("logs") }},
		{"missing file", func(c *Context) (Frame, error) { return c.EnterFile("logs/missing.log") }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			context, _ := newContext(t)
			_, err := test.enter(context)
			if !fault.Is(err, fault.NotFound) {
				t.Fatalf("error = %v, want NotFoundError", err)
			}
			if context.Depth() != 0 {
				t.Errorf("failed enter pushed a frame: depth %d", context.Depth())
			}
		})
	}
}

func TestExitAtRootUnderflows(t *testing.T) {
	context, root := newContext(t)
	before := context.Frames()

	_, err := context.Exit()
	if !fault.Is(err, fault.Underflow) {
		t.Fatalf("Exit() at root error = %v, want UnderflowError", err)
	}
	after := context.Frames()
	if len(after) != len(before) || after[0] != (Frame{Kind: Root, Path: root}) {
		t.Errorf("stack changed after failed exit: %v", after)
	}
}

func TestExitAndReset(t *testing.T) {
	context, root := newContext(t)
	for _, folder := range []string{"logs", "old"} {
		if _, err := context.EnterFolder(folder); err != nil {
			t.Fatalf("EnterFolder(%s): %v", folder, err)
		}
	}

	popped, err := context.Exit()
	if err != nil {
		t.Fatalf("Exit: %v", err)
	}
	if popped.Path != filepath.Join(root, "logs", "old") {
		t.Errorf("popped %q", popped.Path)
	}
	if removed := context.Reset(); removed != 1 {
		t.Errorf("Reset() removed %d frames, want 1", removed)
	}
	if context.Current().Kind != Root {
		t.Errorf("Current() after reset = %v", context.Current())
	}

	var actions []string
	for _, entry := range context.History() {
		actions = append(actions, entry.Action)
	}
	want := []string{"enter folder", "enter folder", "exit", "reset"}
	if len(actions) != len(want) {
		t.Fatalf("history actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("history[%d] = %q, want %q", i, actions[i], want[i])
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	context, _ := newContext(t)
	if _, err := context.EnterFolder("logs"); err != nil {
		t.Fatal(err)
	}
	clone := context.Clone()
	if _, err := clone.Exit(); err != nil {
		t.Fatal(err)
	}
	if context.Depth() != 1 {
		t.Errorf("exit on clone changed original: depth %d", context.Depth())
	}
	if clone.Depth() != 0 {
		t.Errorf("clone depth = %d, want 0", clone.Depth())
	}
}

func TestAbsolutePathIgnoresFolder(t *testing.T) {
	context, root := newContext(t)
	if _, err := context.EnterFolder("logs"); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(root, "empty")
	frame, err := context.EnterFolder(target)
	if err != nil {
		t.Fatalf("EnterFolder(%s): %v", target, err)
	}
	if frame.Path != target {
		t.Errorf("frame path = %q, want %q", frame.Path, target)
	}
}
