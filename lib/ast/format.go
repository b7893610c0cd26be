// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/arta-lang/arta/lib/value"
)

const indentUnit = "    "

// FormatScript prints statements as a script, one per line, each
// terminated by a semicolon.
func FormatScript(statements []Statement) string {
	var builder strings.Builder
	writeBody(&builder, statements, 0)
	return builder.String()
}

// Format prints a single statement without a trailing semicolon. Block
// statements span multiple lines.
func Format(s Statement) string {
	var builder strings.Builder
	writeStatement(&builder, s, 0)
	return builder.String()
}

// FormatExpression prints an expression.
func FormatExpression(e Expression) string {
	var builder strings.Builder
	writeExpression(&builder, e, 0)
	return builder.String()
}

func writeBody(builder *strings.Builder, statements []Statement, depth int) {
	for _, statement := range statements {
		builder.WriteString(strings.Repeat(indentUnit, depth))
		writeStatement(builder, statement, depth)
		builder.WriteString(";\n")
	}
}

func writeBlock(builder *strings.Builder, body []Statement, depth int, closing string) {
	builder.WriteString("\n")
	writeBody(builder, body, depth+1)
	builder.WriteString(strings.Repeat(indentUnit, depth))
	builder.WriteString(closing)
}

func writeStatement(builder *strings.Builder, s Statement, depth int) {
	switch node := s.(type) {
	case *Select:
		writeSelect(builder, node, false)
	case *Let:
		builder.WriteString("LET " + node.Name + " = ")
		writeExpression(builder, node.Value, 0)
	case *Print:
		builder.WriteString("PRINT ")
		for i, expression := range node.Values {
			if i > 0 {
				builder.WriteString(", ")
			}
			writeExpression(builder, expression, 0)
		}
	case *If:
		builder.WriteString("IF ")
		writeExpression(builder, node.Condition, 0)
		builder.WriteString(" THEN\n")
		writeBody(builder, node.Then, depth+1)
		if node.Else != nil {
			builder.WriteString(strings.Repeat(indentUnit, depth) + "ELSE\n")
			writeBody(builder, node.Else, depth+1)
		}
		builder.WriteString(strings.Repeat(indentUnit, depth) + "END IF")
	case *For:
		builder.WriteString("FOR " + node.Variable + " IN ")
		writeSelect(builder, node.Source, false)
		builder.WriteString(" DO")
		writeBlock(builder, node.Body, depth, "END FOR")
	case *EnterFolder:
		builder.WriteString("ENTER FOLDER ")
		writeExpression(builder, node.Path, 0)
	case *EnterFile:
		builder.WriteString("ENTER FILE ")
		writeExpression(builder, node.Path, 0)
	case *Exit:
		builder.WriteString("EXIT")
	case *Reset:
		builder.WriteString("RESET")
	case *Show:
		builder.WriteString("SHOW " + node.What.String())
	case *CreateContainer:
		builder.WriteString("CREATE CONTAINER " + strconv.Quote(node.Name))
		if options := FormatOptions(node.Options); options != "" {
			builder.WriteString(" WITH " + options)
		}
		if len(node.Body) > 0 {
			builder.WriteString(" DO")
			writeBlock(builder, node.Body, depth, "END CONTAINER")
		}
	case *SwitchContainer:
		builder.WriteString("SWITCH CONTAINER " + strconv.Quote(node.Name))
	case *ListContainers:
		builder.WriteString("LIST CONTAINERS")
	case *DestroyContainer:
		builder.WriteString("DESTROY CONTAINER " + strconv.Quote(node.Name))
	case *ExportContainer:
		builder.WriteString("EXPORT CONTAINER " + strconv.Quote(node.Name) + " TO ")
		writeExpression(builder, node.Path, 0)
	case *Delete:
		builder.WriteString("DELETE FILES FROM ")
		writeExpression(builder, node.From, 0)
		if node.Where != nil {
			builder.WriteString(" WHERE ")
			writeExpression(builder, node.Where, 0)
		}
	case *Kill:
		builder.WriteString("KILL PROCESS WHERE ")
		writeExpression(builder, node.Where, 0)
	case *LifeMonitor:
		builder.WriteString("LIFE MONITOR " + node.Target.String() + " DO")
		writeBlock(builder, node.Body, depth, "END LIFE")
	case *Explain:
		builder.WriteString("EXPLAIN ")
		writeStatement(builder, node.Statement, depth)
	}
}

// FormatOptions renders container options as they appear after WITH:
// "ALLOW ACTIONS, READONLY". Empty when neither is set.
func FormatOptions(options ContainerOptions) string {
	var parts []string
	if options.AllowActions {
		parts = append(parts, "ALLOW ACTIONS")
	}
	if options.ReadOnly {
		parts = append(parts, "READONLY")
	}
	return strings.Join(parts, ", ")
}

func writeSelect(builder *strings.Builder, node *Select, embedded bool) {
	// An embedded query with FROM or WHERE is parenthesized so its
	// WHERE clause cannot absorb the surrounding comparison.
	parenthesize := embedded && (node.From != nil || node.Where != nil)
	if parenthesize {
		builder.WriteString("(")
	}
	builder.WriteString("SELECT " + node.Target.String() + " ")
	if node.Fields == nil {
		builder.WriteString("*")
	} else {
		builder.WriteString(strings.Join(node.Fields, ", "))
	}
	if node.From != nil {
		builder.WriteString(" FROM ")
		writeExpression(builder, node.From, 0)
	}
	if node.Where != nil {
		builder.WriteString(" WHERE ")
		writeExpression(builder, node.Where, 0)
	}
	if parenthesize {
		builder.WriteString(")")
	}
}

// precedence orders binary operators; higher binds tighter.
func precedence(op value.Op) int {
	switch {
	case op == value.OpOr:
		return 1
	case op == value.OpAnd:
		return 2
	case op.IsComparison():
		return 3
	case op == value.OpAdd || op == value.OpSub:
		return 4
	default:
		return 5
	}
}

// Precedence exposes operator binding strength to the parser.
func Precedence(op value.Op) int { return precedence(op) }

func writeExpression(builder *strings.Builder, e Expression, parentPrecedence int) {
	switch node := e.(type) {
	case *Literal:
		builder.WriteString(formatLiteral(node))
	case *VariableRef:
		builder.WriteString(node.Name)
	case *FieldAccess:
		if node.Variable != "" {
			builder.WriteString(node.Variable + "." + node.Field)
		} else {
			builder.WriteString(node.Target.String() + " " + node.Field)
		}
	case *BinaryOp:
		own := precedence(node.Op)
		if own < parentPrecedence {
			builder.WriteString("(")
		}
		writeExpression(builder, node.Left, own)
		builder.WriteString(" " + node.Op.String() + " ")
		// Operators are left-associative: a right operand of equal
		// precedence needs parentheses to keep its grouping.
		writeExpression(builder, node.Right, own+1)
		if own < parentPrecedence {
			builder.WriteString(")")
		}
	case *EmbeddedQuery:
		writeSelect(builder, node.Query, true)
	}
}

var barePath = regexp.MustCompile(`^(/|~/|\./|\.\./)[A-Za-z0-9_./~+\-]*$`)

func formatLiteral(node *Literal) string {
	if node.Path {
		if text, ok := node.Value.AsString(); ok && barePath.MatchString(text) {
			return text
		}
	}
	literal, ok := node.Value.Literal()
	if !ok {
		return node.Value.String()
	}
	return literal
}
