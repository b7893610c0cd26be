// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package security

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/fault"
)

// Severity grades a violation.
type Severity int

const (
	// Warning is surfaced to the operator but does not stop execution.
	Warning Severity = iota

	// Fatal prevents any statement of the script from running.
	Fatal
)

func (s Severity) String() string {
	if s == Fatal {
		return "error"
	}
	return "warning"
}

// Rule identifies the check that produced a violation.
type Rule string

const (
	RuleActionsDisabled    Rule = "actions-disabled"
	RuleActionInLife       Rule = "action-in-life"
	RuleNestingDepth       Rule = "nesting-depth"
	RuleDeleteWithoutWhere Rule = "delete-without-where"
	RuleDangerousPath      Rule = "dangerous-path"
	RuleContainerRefuses   Rule = "container-refuses-actions"
)

// Violation is one finding of the validator.
type Violation struct {
	Severity Severity
	Rule     Rule
	Message  string
	Position ast.Position
}

func (v Violation) String() string {
	return fmt.Sprintf("%s (%s): %s [%s]", v.Severity, v.Position.Describe(), v.Message, v.Rule)
}

// Report collects the violations of one validation pass in source
// order.
type Report struct {
	Violations []Violation
}

// Fatal returns the fatal violations.
func (r Report) Fatal() []Violation { return r.filter(Fatal) }

// Warnings returns the warning violations.
func (r Report) Warnings() []Violation { return r.filter(Warning) }

// Err returns a *ValidationError when the report has any fatal
// violation, nil otherwise.
func (r Report) Err() error {
	fatal := r.Fatal()
	if len(fatal) == 0 {
		return nil
	}
	return &ValidationError{Violations: fatal}
}

func (r Report) filter(severity Severity) []Violation {
	var out []Violation
	for _, violation := range r.Violations {
		if violation.Severity == severity {
			out = append(out, violation)
		}
	}
	return out
}

// ValidationError reports the fatal violations that stopped a script
// before execution.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		v := e.Violations[0]
		return fmt.Sprintf("validation failed at %s: %s", v.Position.Describe(), v.Message)
	}
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = "  " + v.Position.Describe() + ": " + v.Message
	}
	return fmt.Sprintf("validation failed with %d errors:\n%s", len(e.Violations), strings.Join(lines, "\n"))
}

// Kind classifies the error for fault.KindOf.
func (e *ValidationError) Kind() fault.Kind { return fault.Validation }

// Options controls a validation pass.
type Options struct {
	// AllowActions is the global allow-actions flag.
	AllowActions bool
	Limits       Limits
}

// dangerousRoots are system roots that a DELETE should never target
// directly.
var dangerousRoots = []string{"/", "/bin", "/sbin", "/etc", "/usr", "/var", "/home", "/boot", "/lib"}

// IsDangerousPath reports whether path is one of the system roots.
func IsDangerousPath(path string) bool {
	cleaned := filepath.Clean(path)
	for _, root := range dangerousRoots {
		if cleaned == root {
			return true
		}
	}
	return false
}

// Validate checks a whole script. It never executes anything and
// never consults system state.
func Validate(script []ast.Statement, options Options) Report {
	v := &validator{options: options}
	v.body(script, scope{})
	return Report{Violations: v.violations}
}

// ValidateLifeBody checks a LIFE body as though it appeared inside a
// LIFE block, so any action is fatal regardless of flags.
func ValidateLifeBody(body []ast.Statement, options Options) Report {
	v := &validator{options: options}
	v.body(body, scope{inLife: true, depth: 1})
	return Report{Violations: v.violations}
}

type validator struct {
	options    Options
	violations []Violation
}

// scope is the static context a statement is checked in.
type scope struct {
	depth  int
	inLife bool
	// container is the enclosing CREATE CONTAINER, nil at top level.
	container *ast.CreateContainer
}

func (v *validator) add(severity Severity, rule Rule, position ast.Position, format string, args ...any) {
	v.violations = append(v.violations, Violation{
		Severity: severity,
		Rule:     rule,
		Message:  fmt.Sprintf(format, args...),
		Position: position,
	})
}

func (v *validator) body(statements []ast.Statement, s scope) {
	for _, statement := range statements {
		v.statement(statement, s)
	}
}

func (v *validator) statement(statement ast.Statement, s scope) {
	position := statement.Pos()
	if limit := v.options.Limits.maxNesting(); s.depth > limit {
		v.add(Fatal, RuleNestingDepth, position, "maximum nesting depth (%d) exceeded", limit)
		return
	}

	if ast.IsAction(statement) {
		v.action(statement, s)
	}

	nested := scope{depth: s.depth + 1, inLife: s.inLife, container: s.container}
	switch node := statement.(type) {
	case *ast.If:
		v.body(node.Then, nested)
		v.body(node.Else, nested)
	case *ast.For:
		v.body(node.Body, nested)
	case *ast.LifeMonitor:
		nested.inLife = true
		v.body(node.Body, nested)
	case *ast.CreateContainer:
		nested.container = node
		v.body(node.Body, nested)
	}
	// EXPLAIN never runs its statement; its violations are listed in
	// the explanation instead of blocking the script.
}

func (v *validator) action(statement ast.Statement, s scope) {
	position := statement.Pos()
	name := actionName(statement)

	if s.inLife {
		v.add(Fatal, RuleActionInLife, position, "%s is not allowed inside a LIFE block", name)
	}
	if !v.options.AllowActions {
		v.add(Fatal, RuleActionsDisabled, position, "%s requires actions to be enabled (--allow-actions)", name)
	}
	if s.container != nil {
		switch {
		case s.container.Options.ReadOnly:
			v.add(Warning, RuleContainerRefuses, position,
				"%s in read-only container %q will be refused", name, s.container.Name)
		case !s.container.Options.AllowActions:
			v.add(Warning, RuleContainerRefuses, position,
				"%s in container %q without ALLOW ACTIONS will be refused", name, s.container.Name)
		}
	}

	if node, ok := statement.(*ast.Delete); ok {
		if node.Where == nil {
			v.add(Warning, RuleDeleteWithoutWhere, position, "DELETE FILES without WHERE deletes every file under the folder")
		}
		if literal, ok := node.From.(*ast.Literal); ok {
			if path, ok := literal.Value.AsString(); ok && IsDangerousPath(path) {
				v.add(Warning, RuleDangerousPath, position, "DELETE FILES targets system path %s", filepath.Clean(path))
			}
		}
	}
}

func actionName(statement ast.Statement) string {
	switch statement.(type) {
	case *ast.Delete:
		return "DELETE FILES"
	case *ast.Kill:
		return "KILL PROCESS"
	}
	return "action"
}
