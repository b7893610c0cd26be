// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/clock"
	"github.com/arta-lang/arta/lib/container"
	"github.com/arta-lang/arta/lib/fault"
	"github.com/arta-lang/arta/lib/inspect"
	"github.com/arta-lang/arta/lib/life"
	"github.com/arta-lang/arta/lib/output"
	"github.com/arta-lang/arta/lib/parser"
	"github.com/arta-lang/arta/lib/security"
	"github.com/arta-lang/arta/lib/testutil"
	"github.com/arta-lang/arta/lib/value"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	executor *Executor
	system   *inspect.Static
	recorder *output.Recorder
	root     string
}

func newHarness(t *testing.T, system *inspect.Static, mutate func(*Config)) *harness {
	t.Helper()
	root := testutil.Tree(t, map[string]string{
		"projects/":          "",
		"projects/notes.txt": "first\nsecond\n",
	})
	recorder := &output.Recorder{}
	config := Config{
		System:    system,
		Output:    recorder,
		StartPath: root,
		SelfPID:   4242,
		Clock:     clock.Fake(epoch),
	}
	if mutate != nil {
		mutate(&config)
	}
	executor, err := New(config)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &harness{executor: executor, system: system, recorder: recorder, root: root}
}

// run validates and executes source the way the script runner does.
func (h *harness) run(t *testing.T, source string) (security.Report, error) {
	t.Helper()
	statements, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	report := h.executor.Validate(statements)
	if err := report.Err(); err != nil {
		return report, err
	}
	return report, h.executor.Run(context.Background(), statements)
}

func (h *harness) mustRun(t *testing.T, source string) {
	t.Helper()
	if _, err := h.run(t, source); err != nil {
		t.Fatalf("run %q: %v", source, err)
	}
}

func (h *harness) variable(t *testing.T, name string) (value.Value, bool) {
	t.Helper()
	return h.executor.State().Containers.Active().Variables.Get(name)
}

func tmpFiles() value.List {
	file := func(name string, size uint64) value.Record {
		return value.NewRecord(
			value.F("name", value.String(name)),
			value.F("path", value.String("/tmp/"+name)),
			value.F("size", value.Size(size)),
			value.F("is_dir", value.Bool(false)),
			value.F("extension", value.String(strings.TrimPrefix(filepath.Ext(name), "."))),
		)
	}
	return value.List{
		file("a.log", 4*value.Kilobyte),
		file("b.txt", 10),
		value.NewRecord(
			value.F("name", value.String("cache")),
			value.F("path", value.String("/tmp/cache")),
			value.F("size", value.Size(4096)),
			value.F("is_dir", value.Bool(true)),
			value.F("extension", value.String("")),
		),
	}
}

func process(pid float64, name string, cpu float64) value.Record {
	return value.NewRecord(
		value.F("pid", value.Number(pid)),
		value.F("name", value.String(name)),
		value.F("cpu", value.Number(cpu)),
	)
}

func TestThresholdComparison(t *testing.T) {
	tests := []struct {
		name  string
		usage float64
		want  []string
	}{
		{"above threshold prints", 85, []string{"high"}},
		{"below threshold is silent", 50, nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			system := inspect.NewStatic().Set(ast.TargetMemory, value.NewRecord(value.F("usage", value.Number(test.usage))))
			h := newHarness(t, system, nil)
			h.mustRun(t, `LET threshold = 80; IF SELECT MEMORY usage > threshold THEN PRINT "high"; END IF;`)
			if got := h.recorder.Texts(output.KindPrint); !slices.Equal(got, test.want) {
				t.Errorf("prints = %q, want %q", got, test.want)
			}
			if queries := system.Queries(ast.TargetMemory); queries != 1 {
				t.Errorf("MEMORY queried %d times, want 1", queries)
			}
		})
	}
}

func TestReadOnlyContainerRefusesDelete(t *testing.T) {
	system := inspect.NewStatic().Sequence(ast.TargetFiles, tmpFiles())
	h := newHarness(t, system, func(c *Config) { c.AllowActions = true })

	report, err := h.run(t, `CREATE CONTAINER "c1" WITH READONLY DO DELETE FILES FROM /tmp; END CONTAINER;`)
	if !fault.Is(err, fault.Security) {
		t.Fatalf("run = %v, want SecurityError", err)
	}
	if len(report.Warnings()) == 0 {
		t.Error("validator raised no warning for an action in a read-only container")
	}
	if performed := system.Performed(); len(performed) != 0 {
		t.Errorf("performed %v, want no mutation", performed)
	}
	if _, exists := h.executor.State().Containers.Get("c1"); exists {
		t.Error("container whose body failed was kept")
	}
	if active := h.executor.State().Containers.Active().Name; active != container.DefaultName {
		t.Errorf("active container = %q, want default restored", active)
	}
}

func TestDeleteWithoutWhereWarnsAndDeletes(t *testing.T) {
	system := inspect.NewStatic().Sequence(ast.TargetFiles, tmpFiles())
	h := newHarness(t, system, func(c *Config) { c.AllowActions = true })

	report, err := h.run(t, `DELETE FILES FROM /tmp;`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	warned := false
	for _, violation := range report.Warnings() {
		if violation.Rule == security.RuleDeleteWithoutWhere {
			warned = true
		}
	}
	if !warned {
		t.Errorf("warnings = %v, want %s", report.Warnings(), security.RuleDeleteWithoutWhere)
	}

	performed := system.Performed()
	if len(performed) != 1 || performed[0].Kind != inspect.ActionDelete {
		t.Fatalf("performed = %v, want one delete", performed)
	}
	var paths []string
	for _, target := range performed[0].Targets {
		path, _ := target.Get("path")
		paths = append(paths, path.String())
	}
	if want := []string{"/tmp/a.log", "/tmp/b.txt"}; !slices.Equal(paths, want) {
		t.Errorf("deleted %v, want %v (directories excluded)", paths, want)
	}
}

func TestDeleteFiltersWithVariables(t *testing.T) {
	system := inspect.NewStatic().Sequence(ast.TargetFiles, tmpFiles())
	h := newHarness(t, system, func(c *Config) { c.AllowActions = true })
	h.mustRun(t, `LET big = 1KB; DELETE FILES FROM /tmp WHERE size > big AND extension = "log";`)

	performed := system.Performed()
	if len(performed) != 1 || len(performed[0].Targets) != 1 {
		t.Fatalf("performed = %v, want one target", performed)
	}
	if name, _ := performed[0].Targets[0].Get("name"); name.String() != "a.log" {
		t.Errorf("deleted %s, want a.log", name)
	}
}

func TestActionGates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		source string
		kind   fault.Kind
	}{
		{
			name:   "global flag off",
			source: `DELETE FILES FROM /tmp WHERE size > 1KB;`,
			kind:   fault.Validation,
		},
		{
			name:   "delete ceiling",
			mutate: func(c *Config) { c.Limits.MaxFilesPerDelete = 1 },
			source: `DELETE FILES FROM /tmp WHERE size > 0;`,
			kind:   fault.Security,
		},
		{
			name:   "protected process",
			source: `KILL PROCESS WHERE cpu > 5;`,
			kind:   fault.Security,
		},
		{
			name:   "protected daemon by substring",
			source: `KILL PROCESS WHERE name = "systemd-journald";`,
			kind:   fault.Security,
		},
		{
			name:   "own pid",
			source: `KILL PROCESS WHERE name = "arta";`,
			kind:   fault.Security,
		},
		{
			name:   "container without allow actions",
			source: `CREATE CONTAINER "safe" DO KILL PROCESS WHERE name = "chrome"; END CONTAINER;`,
			kind:   fault.Security,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			system := inspect.NewStatic().
				Sequence(ast.TargetFiles, tmpFiles()).
				Set(ast.TargetProcess, process(1, "systemd", 10), process(500, "chrome", 60), process(4242, "arta", 1), process(321, "systemd-journald", 1))
			h := newHarness(t, system, func(c *Config) {
				if test.kind != fault.Validation {
					c.AllowActions = true
				}
				if test.mutate != nil {
					test.mutate(c)
				}
			})
			_, err := h.run(t, test.source)
			if got := fault.KindOf(err); got != test.kind {
				t.Fatalf("error kind = %s (%v), want %s", got, err, test.kind)
			}
			if performed := system.Performed(); len(performed) != 0 {
				t.Errorf("performed %v, want no mutation", performed)
			}
		})
	}
}

func TestKillPerformsOnUnprotectedMatch(t *testing.T) {
	system := inspect.NewStatic().Set(ast.TargetProcess, process(1, "systemd", 10), process(500, "chrome", 60))
	h := newHarness(t, system, func(c *Config) { c.AllowActions = true })
	h.mustRun(t, `KILL PROCESS WHERE name LIKE "chr%";`)

	performed := system.Performed()
	if len(performed) != 1 || performed[0].Kind != inspect.ActionKill || len(performed[0].Targets) != 1 {
		t.Fatalf("performed = %v, want one kill of one process", performed)
	}
}

func TestDryRunReportsWithoutPerforming(t *testing.T) {
	system := inspect.NewStatic().Sequence(ast.TargetFiles, tmpFiles())
	h := newHarness(t, system, func(c *Config) { c.DryRun = true })

	statements, err := parser.Parse(`DELETE FILES FROM /tmp WHERE size > 1KB;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := h.executor.Validate(statements).Err(); err != nil {
		t.Fatalf("dry-run validation: %v", err)
	}
	outcome, err := h.executor.Execute(context.Background(), statements[0])
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if outcome.Affected != 1 {
		t.Errorf("affected = %d, want 1", outcome.Affected)
	}
	if len(system.Performed()) != 0 {
		t.Error("dry run performed an action")
	}
	if warnings := h.recorder.Texts(output.KindWarning); len(warnings) != 1 || !strings.Contains(warnings[0], "actions are disabled") {
		t.Errorf("warnings = %q, want the permission refusal", warnings)
	}
	messages := h.recorder.Texts(output.KindMessage)
	if len(messages) == 0 || !strings.Contains(messages[len(messages)-1], "dry run") {
		t.Errorf("messages = %q, want a dry-run report", messages)
	}
}

func TestForIteratesOneSnapshot(t *testing.T) {
	first := value.List{process(10, "a", 1), process(11, "b", 1), process(12, "c", 1)}
	later := value.List{process(10, "a", 1), process(11, "b", 1), process(12, "c", 1), process(13, "d", 1), process(14, "e", 1)}
	system := inspect.NewStatic().Sequence(ast.TargetProcess, first, later)
	h := newHarness(t, system, nil)

	h.mustRun(t, `
		LET n = 0;
		FOR p IN SELECT PROCESS * DO
			LET n = n + 1;
			SELECT PROCESS *;
		END FOR;
		PRINT n;
	`)
	if got := h.recorder.Texts(output.KindPrint); !slices.Equal(got, []string{"3"}) {
		t.Errorf("prints = %q, want [3]", got)
	}
	if _, bound := h.variable(t, "p"); bound {
		t.Error("loop variable still bound after the loop")
	}
}

func TestForRestoresShadowedVariable(t *testing.T) {
	system := inspect.NewStatic().Set(ast.TargetProcess, process(10, "a", 1), process(11, "b", 1))
	h := newHarness(t, system, nil)
	h.mustRun(t, `LET p = "outer"; FOR p IN SELECT PROCESS * DO PRINT p.name; END FOR; PRINT p;`)
	if got := h.recorder.Texts(output.KindPrint); !slices.Equal(got, []string{"a", "b", "outer"}) {
		t.Errorf("prints = %q", got)
	}
}

func TestContainerSwitchRoundTrip(t *testing.T) {
	h := newHarness(t, inspect.NewStatic(), nil)
	h.mustRun(t, `
		LET x = 1;
		ENTER FOLDER projects;
		CREATE CONTAINER "c";
		SWITCH CONTAINER "c";
		LET x = 2;
		SWITCH CONTAINER "default";
	`)

	state := h.executor.State()
	if got, _ := h.variable(t, "x"); !value.Equal(got, value.Number(1)) {
		t.Errorf("x in default = %v, want 1", got)
	}
	active := state.Containers.Active()
	if active.Context.Depth() != 1 || active.Context.Current().Path != filepath.Join(h.root, "projects") {
		t.Errorf("default context = %+v, want the projects folder", active.Context.Frames())
	}
	other, _ := state.Containers.Get("c")
	if got, _ := other.Variables.Get("x"); !value.Equal(got, value.Number(2)) {
		t.Errorf("x in c = %v, want 2", got)
	}
	if other.Context.Depth() != 0 {
		t.Errorf("c context depth = %d, want 0", other.Context.Depth())
	}
}

func TestExitAtRootUnderflows(t *testing.T) {
	h := newHarness(t, inspect.NewStatic(), nil)
	_, err := h.run(t, `EXIT;`)
	if !fault.Is(err, fault.Underflow) {
		t.Fatalf("run = %v, want UnderflowError", err)
	}
	var statementErr *StatementError
	if !errors.As(err, &statementErr) || statementErr.Index != 0 {
		t.Errorf("error = %#v, want StatementError for statement 0", err)
	}
	if depth := h.executor.State().Containers.Active().Context.Depth(); depth != 0 {
		t.Errorf("depth = %d after failed EXIT", depth)
	}
}

func TestFailFastStopsScript(t *testing.T) {
	h := newHarness(t, inspect.NewStatic(), nil)
	_, err := h.run(t, `PRINT "before"; PRINT "a" + 1; PRINT "after";`)
	if !fault.Is(err, fault.Type) {
		t.Fatalf("run = %v, want TypeError", err)
	}
	var statementErr *StatementError
	if !errors.As(err, &statementErr) || statementErr.Index != 1 || statementErr.Position.Line != 1 {
		t.Errorf("error = %v, want statement index 1", err)
	}
	if got := h.recorder.Texts(output.KindPrint); !slices.Equal(got, []string{"before"}) {
		t.Errorf("prints = %q", got)
	}
	history := h.executor.State().History()
	if len(history) != 2 || history[0].Failed || !history[1].Failed {
		t.Errorf("history = %+v", history)
	}
}

func TestSelectProjectionAndContext(t *testing.T) {
	system := inspect.NewStatic().Set(ast.TargetMemory, value.NewRecord(
		value.F("total", value.Size(8*value.Gigabyte)),
		value.F("usage", value.Number(42)),
	))
	h := newHarness(t, system, nil)
	h.mustRun(t, `SELECT MEMORY percent, total;`)
	results := h.recorder.Results()
	if len(results) != 1 || len(results[0]) != 1 {
		t.Fatalf("results = %v", results)
	}
	if names := results[0][0].Names(); !slices.Equal(names, []string{"percent", "total"}) {
		t.Errorf("projected fields = %v", names)
	}

	_, err := h.run(t, `SELECT MEMORY colour;`)
	if !fault.Is(err, fault.NotFound) {
		t.Errorf("unknown field error = %v, want NotFoundError", err)
	}
	_, err = h.run(t, `SELECT CONTENT *;`)
	if !fault.Is(err, fault.NotFound) {
		t.Errorf("CONTENT without a file = %v, want NotFoundError", err)
	}
}

func TestLifeBindingsAreReadOnly(t *testing.T) {
	h := newHarness(t, inspect.NewStatic(), nil)
	snapshot := value.NewRecord(value.F("level", value.Number(15)), value.F("state", value.String("discharging")))

	body, err := parser.Parse(`IF level < 20 AND battery.state = "discharging" THEN PRINT "low"; END IF;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := h.executor.RunLife(context.Background(), ast.LifeBattery, snapshot, body); err != nil {
		t.Fatalf("RunLife: %v", err)
	}
	if got := h.recorder.Texts(output.KindPrint); !slices.Equal(got, []string{"low"}) {
		t.Errorf("prints = %q", got)
	}

	body, err = parser.Parse(`LET level = 3;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	err = h.executor.RunLife(context.Background(), ast.LifeBattery, snapshot, body)
	if !fault.Is(err, fault.NamingConflict) {
		t.Fatalf("LET on snapshot binding = %v, want NamingConflictError", err)
	}
	if _, bound := h.variable(t, "level"); bound {
		t.Error("snapshot binding leaked into the container scope")
	}
}

func TestLifeMonitorStatement(t *testing.T) {
	system := inspect.NewStatic().Set(ast.TargetBattery, value.NewRecord(value.F("level", value.Number(64))))
	var ticks []life.Tick
	h := newHarness(t, system, func(c *Config) {
		c.Life = life.Config{MaxTicks: 1, Observer: func(tick life.Tick) { ticks = append(ticks, tick) }}
	})
	h.mustRun(t, `LIFE MONITOR BATTERY DO PRINT BATTERY level; END LIFE;`)
	if got := h.recorder.Texts(output.KindPrint); !slices.Equal(got, []string{"64"}) {
		t.Errorf("prints = %q", got)
	}
	if len(ticks) != 1 || ticks[0].Sequence != 1 {
		t.Errorf("ticks = %+v", ticks)
	}
}

func TestExplainDoesNotExecute(t *testing.T) {
	system := inspect.NewStatic().Sequence(ast.TargetFiles, tmpFiles())
	h := newHarness(t, system, nil)
	h.mustRun(t, `EXPLAIN DELETE FILES FROM /tmp;`)

	if len(system.Performed()) != 0 || system.Queries(ast.TargetFiles) != 0 {
		t.Error("EXPLAIN touched the system")
	}
	messages := h.recorder.Texts(output.KindMessage)
	if len(messages) != 1 || !strings.Contains(messages[0], "delete every file in /tmp") {
		t.Errorf("messages = %q", messages)
	}
	warnings := strings.Join(h.recorder.Texts(output.KindWarning), "\n")
	for _, want := range []string{string(security.RuleActionsDisabled), string(security.RuleDeleteWithoutWhere), "would be refused"} {
		if !strings.Contains(warnings, want) {
			t.Errorf("warnings %q do not mention %q", warnings, want)
		}
	}
}

func TestExportContainerWritesVerifiableScript(t *testing.T) {
	h := newHarness(t, inspect.NewStatic(), nil)
	h.mustRun(t, `
		CREATE CONTAINER "work" WITH ALLOW ACTIONS DO
			LET limit = 512MB;
			ENTER FOLDER projects;
		END CONTAINER;
		EXPORT CONTAINER "work" TO "work.arta";
	`)
	data, err := os.ReadFile(filepath.Join(h.root, "work.arta"))
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if verification := container.VerifyExport(data); !verification.Valid() {
		t.Errorf("export does not verify: %+v", verification)
	}
	text := string(data)
	for _, want := range []string{"-- Exported container: work", "-- Options: allow_actions=true, read_only=false", "LET limit = 512MB", "ENTER FOLDER"} {
		if !strings.Contains(text, want) {
			t.Errorf("export missing %q:\n%s", want, text)
		}
	}
}

func TestShowStatements(t *testing.T) {
	h := newHarness(t, inspect.NewStatic(), nil)
	h.mustRun(t, `LET a = 1; LET b = "two"; ENTER FOLDER projects; SHOW VARIABLES; SHOW CONTEXT; SHOW HISTORY; LIST CONTAINERS;`)

	results := h.recorder.Results()
	if len(results) != 5 {
		t.Fatalf("got %d results, want variables, context, history, navigation, containers", len(results))
	}
	variables, contextRows, history, navigation, containers := results[0], results[1], results[2], results[3], results[4]
	if len(variables) != 2 {
		t.Errorf("variables = %v", variables)
	}
	if len(contextRows) != 2 {
		t.Errorf("context = %v", contextRows)
	}
	if len(history) != 5 {
		t.Errorf("history rows = %d, want the 5 statements before SHOW HISTORY completed", len(history))
	}
	if len(navigation) != 1 {
		t.Errorf("navigation = %v", navigation)
	}
	if len(containers) != 1 {
		t.Errorf("containers = %v", containers)
	}
}

func TestCancelledContextStopsExecution(t *testing.T) {
	h := newHarness(t, inspect.NewStatic(), nil)
	statements, err := parser.Parse(`PRINT 1;`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := h.executor.Run(ctx, statements); !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}
