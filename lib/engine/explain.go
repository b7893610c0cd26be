// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"
	"strings"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/security"
)

// Describe returns a one-line description of what a statement would do.
func Describe(statement ast.Statement) string {
	switch node := statement.(type) {
	case *ast.Select:
		return "query " + describeSelect(node)
	case *ast.Let:
		return fmt.Sprintf("bind variable %q to %s", node.Name, ast.FormatExpression(node.Value))
	case *ast.Print:
		parts := make([]string, len(node.Values))
		for i, expression := range node.Values {
			parts[i] = ast.FormatExpression(expression)
		}
		return "print " + strings.Join(parts, ", ")
	case *ast.If:
		text := fmt.Sprintf("evaluate %s, then run %s", ast.FormatExpression(node.Condition), count(len(node.Then), "statement"))
		if node.Else != nil {
			text += fmt.Sprintf(", otherwise run %s", count(len(node.Else), "statement"))
		}
		return text
	case *ast.For:
		return fmt.Sprintf("run %s once per record of %s, binding %q",
			count(len(node.Body), "statement"), describeSelect(node.Source), node.Variable)
	case *ast.EnterFolder:
		return "enter folder " + ast.FormatExpression(node.Path)
	case *ast.EnterFile:
		return "enter file " + ast.FormatExpression(node.Path)
	case *ast.Exit:
		return "leave the current folder or file"
	case *ast.Reset:
		return "return to the root context"
	case *ast.Show:
		return "show the " + strings.ToLower(node.What.String())
	case *ast.CreateContainer:
		text := fmt.Sprintf("create container %q", node.Name)
		if options := ast.FormatOptions(node.Options); options != "" {
			text += " with " + options
		} else {
			text += " without actions"
		}
		if len(node.Body) > 0 {
			text += fmt.Sprintf(" and run %s inside it", count(len(node.Body), "statement"))
		}
		return text
	case *ast.SwitchContainer:
		return fmt.Sprintf("make container %q active", node.Name)
	case *ast.ListContainers:
		return "list containers"
	case *ast.DestroyContainer:
		return fmt.Sprintf("destroy container %q", node.Name)
	case *ast.ExportContainer:
		return fmt.Sprintf("export container %q to %s", node.Name, ast.FormatExpression(node.Path))
	case *ast.Delete:
		if node.Where == nil {
			return fmt.Sprintf("delete every file in %s (no WHERE clause)", ast.FormatExpression(node.From))
		}
		return fmt.Sprintf("delete files in %s where %s", ast.FormatExpression(node.From), ast.FormatExpression(node.Where))
	case *ast.Kill:
		return "terminate processes where " + ast.FormatExpression(node.Where)
	case *ast.LifeMonitor:
		return fmt.Sprintf("monitor %s and run %s against each snapshot", node.Target, count(len(node.Body), "statement"))
	case *ast.Explain:
		return "explain: " + Describe(node.Statement)
	}
	return fmt.Sprintf("unknown statement %T", statement)
}

func describeSelect(node *ast.Select) string {
	text := node.Target.String()
	if node.Fields == nil {
		text += " (all fields)"
	} else {
		text += " (" + strings.Join(node.Fields, ", ") + ")"
	}
	if node.From != nil {
		text += " from " + ast.FormatExpression(node.From)
	}
	if node.Where != nil {
		text += " where " + ast.FormatExpression(node.Where)
	}
	return text
}

func count(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// executeExplain describes the statement and reports what the
// validator and the current permission would say about it. Nothing is
// executed.
func (e *Executor) executeExplain(node *ast.Explain) error {
	if err := e.message("EXPLAIN: would %s", Describe(node.Statement)); err != nil {
		return err
	}
	report := security.Validate([]ast.Statement{node.Statement}, e.ValidationOptions())
	for _, violation := range report.Violations {
		if err := e.warning("%s", violation); err != nil {
			return err
		}
	}
	if ast.IsAction(node.Statement) {
		if permission := e.permission(); !permission.Allowed() {
			return e.warning("would be refused in container %q: %s", permission.Subject.Container, permission.Reason)
		}
	}
	return nil
}
