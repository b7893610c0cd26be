// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/engine"
	"github.com/arta-lang/arta/lib/fault"
	"github.com/arta-lang/arta/lib/inspect"
	"github.com/arta-lang/arta/lib/output"
	"github.com/arta-lang/arta/lib/security"
	"github.com/arta-lang/arta/lib/testutil"
	"github.com/arta-lang/arta/lib/value"
)

func newRunner(t *testing.T, system inspect.System, allowActions bool) (*Runner, *output.Recorder) {
	t.Helper()
	recorder := &output.Recorder{}
	executor, err := engine.New(engine.Config{
		System:       system,
		Output:       recorder,
		AllowActions: allowActions,
		StartPath:    t.TempDir(),
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	runner, err := NewRunner(RunnerConfig{Executor: executor, Output: recorder})
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return runner, recorder
}

func TestLoad(t *testing.T) {
	root := testutil.Tree(t, map[string]string{
		"check.arta": "SELECT MEMORY usage;\n",
		"check.sql":  "SELECT MEMORY usage;\n",
	})

	script, err := Load(filepath.Join(root, "check.arta"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if script.Source != "SELECT MEMORY usage;\n" || len(script.Digest) != 64 || script.Export.Exported {
		t.Errorf("script = %+v", script)
	}

	tests := []struct {
		name string
		path string
		kind fault.Kind
	}{
		{"wrong extension", filepath.Join(root, "check.sql"), fault.Validation},
		{"missing file", filepath.Join(root, "absent.arta"), fault.NotFound},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Load(test.path)
			if got := fault.KindOf(err); got != test.kind {
				t.Errorf("Load error kind = %s (%v), want %s", got, err, test.kind)
			}
		})
	}
}

func TestParseArg(t *testing.T) {
	tests := []struct {
		text string
		want value.Value
	}{
		{"limit=100MB", value.Size(100 * value.Megabyte)},
		{"threshold=80", value.Number(80)},
		{"ratio=0.5", value.Number(0.5)},
		{"force=true", value.Bool(true)},
		{"dir=/var/log", value.String("/var/log")},
		{"name=chrome", value.String("chrome")},
		{"empty=", value.String("")},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			arg, err := ParseArg(test.text)
			if err != nil {
				t.Fatalf("ParseArg: %v", err)
			}
			if !value.Equal(arg.Value, test.want) {
				t.Errorf("value = %v (%s), want %v (%s)", arg.Value, arg.Value.Kind(), test.want, test.want.Kind())
			}
		})
	}

	for _, bad := range []string{"novalue", "=5", "1abc=2", "my-var=3"} {
		if _, err := ParseArg(bad); err == nil {
			t.Errorf("ParseArg(%q) succeeded", bad)
		}
	}
}

func TestRunWithArgs(t *testing.T) {
	system := inspect.NewStatic().Set(ast.TargetMemory, value.NewRecord(value.F("usage", value.Number(85))))
	runner, recorder := newRunner(t, system, false)

	args, err := ParseArgs([]string{"threshold=80"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	source := "IF SELECT MEMORY usage > threshold THEN\n    PRINT \"high\";\nEND IF;\n"
	result, err := runner.Run(context.Background(), FromSource("inline", source), args)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Statements != 1 {
		t.Errorf("statements = %d", result.Statements)
	}
	if got := recorder.Texts(output.KindPrint); !slices.Equal(got, []string{"high"}) {
		t.Errorf("prints = %q", got)
	}
}

func TestRunStopsBeforeExecutionOnErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   fault.Kind
	}{
		{"syntax", `PRINT "first"; SELECT NOTHING;`, fault.Syntax},
		{"validation", `PRINT "first"; KILL PROCESS WHERE name = "x";`, fault.Validation},
		{"action in life", `PRINT "first"; LIFE MONITOR CPU DO DELETE FILES FROM /tmp WHERE size > 1GB; END LIFE;`, fault.Validation},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			runner, recorder := newRunner(t, inspect.NewStatic(), test.name == "action in life")
			_, err := runner.Run(context.Background(), FromSource("inline", test.source), nil)
			if got := fault.KindOf(err); got != test.kind {
				t.Fatalf("error kind = %s (%v), want %s", got, err, test.kind)
			}
			if prints := recorder.Texts(output.KindPrint); len(prints) != 0 {
				t.Errorf("statements ran before a pre-execution error: %q", prints)
			}
		})
	}
}

func TestRunSurfacesWarnings(t *testing.T) {
	system := inspect.NewStatic().Set(ast.TargetFiles)
	runner, recorder := newRunner(t, system, true)
	result, err := runner.Run(context.Background(), FromSource("inline", `DELETE FILES FROM /tmp;`), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Rule != security.RuleDeleteWithoutWhere {
		t.Errorf("warnings = %v", result.Warnings)
	}
	if warnings := recorder.Texts(output.KindWarning); len(warnings) != 1 {
		t.Errorf("emitted warnings = %q", warnings)
	}
}

func TestExportedScriptChecksum(t *testing.T) {
	runner, _ := newRunner(t, inspect.NewStatic(), false)
	if _, err := runner.Run(context.Background(), FromSource("inline", `CREATE CONTAINER "saved" DO LET retries = 3; END CONTAINER; EXPORT CONTAINER "saved" TO "saved.arta";`), nil); err != nil {
		t.Fatalf("exporting: %v", err)
	}
	root := runner.executor.State().Containers.Active().Context.Current().Path
	path := filepath.Join(root, "saved.arta")

	exported, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exported.Export.Valid() {
		t.Fatalf("fresh export does not verify: %+v", exported.Export)
	}

	// Reloading into a fresh runner restores into the active container.
	fresh, freshRecorder := newRunner(t, inspect.NewStatic(), false)
	if _, err := fresh.Run(context.Background(), exported, nil); err != nil {
		t.Fatalf("running export: %v", err)
	}
	active := fresh.executor.State().Containers.Active()
	if got, _ := active.Variables.Get("retries"); !value.Equal(got, value.Number(3)) {
		t.Errorf("retries = %v", got)
	}
	if warnings := freshRecorder.Texts(output.KindWarning); len(warnings) != 0 {
		t.Errorf("unexpected warnings %q", warnings)
	}

	// An edited export still runs but warns.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tampered := strings.Replace(string(data), "LET retries = 3", "LET retries = 30", 1)
	edited, editedRecorder := newRunner(t, inspect.NewStatic(), false)
	if _, err := edited.Run(context.Background(), FromSource(path, tampered), nil); err != nil {
		t.Fatalf("running edited export: %v", err)
	}
	warnings := editedRecorder.Texts(output.KindWarning)
	if len(warnings) != 1 || !strings.Contains(warnings[0], "checksum mismatch") {
		t.Errorf("warnings = %q, want a checksum mismatch", warnings)
	}
}

func TestDefaultContainerExportReloads(t *testing.T) {
	runner, _ := newRunner(t, inspect.NewStatic(), false)
	if _, err := runner.Run(context.Background(), FromSource("inline", `LET threshold = 80; LET label = "nightly"; EXPORT CONTAINER "default" TO "default.arta";`), nil); err != nil {
		t.Fatalf("exporting: %v", err)
	}
	root := runner.executor.State().Containers.Active().Context.Current().Path
	exported, err := Load(filepath.Join(root, "default.arta"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	fresh, _ := newRunner(t, inspect.NewStatic(), false)
	if _, err := fresh.Run(context.Background(), exported, nil); err != nil {
		t.Fatalf("reloading default export: %v", err)
	}
	active := fresh.executor.State().Containers.Active()
	if active.Name != "default" {
		t.Errorf("active container = %q, want default", active.Name)
	}
	if got, _ := active.Variables.Get("threshold"); !value.Equal(got, value.Number(80)) {
		t.Errorf("threshold = %v, want 80", got)
	}
	if got, _ := active.Variables.Get("label"); !value.Equal(got, value.String("nightly")) {
		t.Errorf("label = %v, want nightly", got)
	}

	// Running it again over existing bindings is not a conflict.
	if _, err := fresh.Run(context.Background(), exported, nil); err != nil {
		t.Errorf("second reload: %v", err)
	}
}

func TestExplainListing(t *testing.T) {
	runner, recorder := newRunner(t, inspect.NewStatic(), false)
	entries, err := runner.Explain(FromSource("inline", "SELECT CPU usage;\nDELETE FILES FROM /tmp;\n"))
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d", len(entries))
	}
	if entries[0].Description != "query CPU (usage)" || len(entries[0].Violations) != 0 {
		t.Errorf("entry 1 = %+v", entries[0])
	}
	if entries[1].Position.Line != 2 || len(entries[1].Violations) != 2 {
		t.Errorf("entry 2 = %+v, want line 2 with two violations", entries[1])
	}
	if messages := recorder.Texts(output.KindMessage); len(messages) != 2 || !strings.HasPrefix(messages[0], "1. (line 1") {
		t.Errorf("messages = %q", messages)
	}
}
