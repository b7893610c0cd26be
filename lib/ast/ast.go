// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"fmt"

	"github.com/arta-lang/arta/lib/value"
)

// Position is a 1-based source location.
type Position struct {
	Line   int
	Column int
}

// Pos returns the position itself. Embedding Position gives every node
// its Pos method.
func (p Position) Pos() Position { return p }

// Describe renders the position for error messages. (Not String: the
// method would be promoted to every node that embeds Position.)
func (p Position) Describe() string {
	if p.Line == 0 {
		return "unknown position"
	}
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Node is implemented by every statement and expression.
type Node interface {
	Pos() Position
}

// Statement is one executable Arta statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a value-producing node.
type Expression interface {
	Node
	expressionNode()
}

// Statements.

// Select queries a system target: SELECT MEMORY usage, total.
type Select struct {
	Position
	Target Target
	// Fields lists the projected fields; nil selects all (*).
	Fields []string
	// From is the explicit path (nil resolves from the context).
	From  Expression
	Where Expression
}

// Let binds a variable in the active container's scope.
type Let struct {
	Position
	Name  string
	Value Expression
}

// Print evaluates expressions in order and hands them to the output.
type Print struct {
	Position
	Values []Expression
}

// If runs Then when Condition is true, else Else (nil when absent).
type If struct {
	Position
	Condition Expression
	Then      []Statement
	Else      []Statement
}

// For runs Body once per record of one snapshot of Source.
type For struct {
	Position
	Variable string
	Source   *Select
	Body     []Statement
}

// EnterFolder pushes a folder frame.
type EnterFolder struct {
	Position
	Path Expression
}

// EnterFile pushes a file frame.
type EnterFile struct {
	Position
	Path Expression
}

// Exit pops one navigation frame.
type Exit struct {
	Position
}

// Reset pops the navigation stack back to Root.
type Reset struct {
	Position
}

// Show prints a read-only view of interpreter state.
type Show struct {
	Position
	What ShowTarget
}

// CreateContainer allocates a container and optionally initializes it
// by running Body with the container active.
type CreateContainer struct {
	Position
	Name    string
	Options ContainerOptions
	Body    []Statement
}

// SwitchContainer changes the active container.
type SwitchContainer struct {
	Position
	Name string
}

// ListContainers lists the container table.
type ListContainers struct {
	Position
}

// DestroyContainer removes a container.
type DestroyContainer struct {
	Position
	Name string
}

// ExportContainer writes a container as a re-loadable script.
type ExportContainer struct {
	Position
	Name string
	Path Expression
}

// Delete removes the files under From matching Where.
type Delete struct {
	Position
	From  Expression
	Where Expression
}

// Kill terminates the processes matching Where.
type Kill struct {
	Position
	Where Expression
}

// LifeMonitor re-runs Body against a fresh snapshot of Target on every
// tick until cancelled.
type LifeMonitor struct {
	Position
	Target LifeTarget
	Body   []Statement
}

// Explain describes Statement without executing it.
type Explain struct {
	Position
	Statement Statement
}

func (*Select) statementNode()           {}
func (*Let) statementNode()              {}
func (*Print) statementNode()            {}
func (*If) statementNode()               {}
func (*For) statementNode()              {}
func (*EnterFolder) statementNode()      {}
func (*EnterFile) statementNode()        {}
func (*Exit) statementNode()             {}
func (*Reset) statementNode()            {}
func (*Show) statementNode()             {}
func (*CreateContainer) statementNode()  {}
func (*SwitchContainer) statementNode()  {}
func (*ListContainers) statementNode()   {}
func (*DestroyContainer) statementNode() {}
func (*ExportContainer) statementNode()  {}
func (*Delete) statementNode()           {}
func (*Kill) statementNode()             {}
func (*LifeMonitor) statementNode()      {}
func (*Explain) statementNode()          {}

// Expressions.

// Literal is a constant. Path marks an unquoted path literal (/tmp),
// which evaluates to a String but prints without quotes.
type Literal struct {
	Position
	Value value.Value
	Path  bool
}

// VariableRef names a variable. Inside a WHERE clause the name is
// first looked up as a field of the record being filtered.
type VariableRef struct {
	Position
	Name string
}

// FieldAccess reads one field, either of a query target (BATTERY
// level) or of a record-valued variable (f.size). Exactly one of
// Target and Variable is set.
type FieldAccess struct {
	Position
	Target   Target
	Variable string
	Field    string
}

// BinaryOp applies a comparison, arithmetic or logical operator.
type BinaryOp struct {
	Position
	Left  Expression
	Op    value.Op
	Right Expression
}

// EmbeddedQuery uses a SELECT as a value.
type EmbeddedQuery struct {
	Position
	Query *Select
}

func (*Literal) expressionNode()       {}
func (*VariableRef) expressionNode()   {}
func (*FieldAccess) expressionNode()   {}
func (*BinaryOp) expressionNode()      {}
func (*EmbeddedQuery) expressionNode() {}

// ContainerOptions are the permission options fixed at creation.
type ContainerOptions struct {
	AllowActions bool
	ReadOnly     bool
}

// IsAction reports whether s is a destructive statement.
func IsAction(s Statement) bool {
	switch s.(type) {
	case *Delete, *Kill:
		return true
	}
	return false
}

// Children returns the statements nested directly inside s, in source
// order. Leaf statements return nil.
func Children(s Statement) []Statement {
	switch node := s.(type) {
	case *If:
		children := make([]Statement, 0, len(node.Then)+len(node.Else))
		children = append(children, node.Then...)
		return append(children, node.Else...)
	case *For:
		return node.Body
	case *CreateContainer:
		return node.Body
	case *LifeMonitor:
		return node.Body
	case *Explain:
		return []Statement{node.Statement}
	}
	return nil
}

// Walk visits statements depth-first in source order. depth is 0 for
// the top level. Returning false from visit skips the statement's
// children.
func Walk(statements []Statement, visit func(s Statement, depth int) bool) {
	walk(statements, 0, visit)
}

func walk(statements []Statement, depth int, visit func(Statement, int) bool) {
	for _, statement := range statements {
		if visit(statement, depth) {
			walk(Children(statement), depth+1, visit)
		}
	}
}
