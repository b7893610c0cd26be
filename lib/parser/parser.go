// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/value"
)

// reserved words cannot be used as variable names.
var reserved = map[string]bool{
	"SELECT": true, "FROM": true, "WHERE": true, "AND": true, "OR": true,
	"LET": true, "PRINT": true, "IF": true, "THEN": true, "ELSE": true,
	"END": true, "FOR": true, "IN": true, "DO": true, "ENTER": true,
	"EXIT": true, "RESET": true, "SHOW": true, "CREATE": true,
	"SWITCH": true, "LIST": true, "DESTROY": true, "EXPORT": true,
	"CONTAINER": true, "CONTAINERS": true, "DELETE": true, "KILL": true,
	"LIFE": true, "MONITOR": true, "EXPLAIN": true, "TRUE": true,
	"FALSE": true, "LIKE": true, "CONTAINS": true, "MATCHES": true,
	"WITH": true, "TO": true,
}

var comparisonWords = map[string]value.Op{
	"LIKE":     value.OpLike,
	"CONTAINS": value.OpContains,
	"MATCHES":  value.OpMatches,
}

var operatorSymbols = map[string]value.Op{
	"=":  value.OpEq,
	"!=": value.OpNe,
	">":  value.OpGt,
	">=": value.OpGe,
	"<":  value.OpLt,
	"<=": value.OpLe,
	"+":  value.OpAdd,
	"-":  value.OpSub,
	"/":  value.OpDiv,
}

// Parse parses a whole script.
func Parse(source string) ([]ast.Statement, error) {
	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	statements, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if !p.at(tokenEOF) {
		return nil, p.unexpected("a statement")
	}
	return statements, nil
}

// ParseStatement parses source that must contain exactly one statement
// (an optional trailing semicolon is allowed).
func ParseStatement(source string) (ast.Statement, error) {
	statements, err := Parse(source)
	if err != nil {
		return nil, err
	}
	if len(statements) != 1 {
		return nil, &SyntaxError{Line: 1, Column: 1, Message: fmt.Sprintf("expected exactly one statement, found %d", len(statements))}
	}
	return statements[0], nil
}

// ParseExpression parses a standalone expression, as used for
// command-line arguments.
func ParseExpression(source string) (ast.Expression, error) {
	tokens, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	expression, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.at(tokenEOF) {
		return nil, p.unexpected("end of expression")
	}
	return expression, nil
}

type parser struct {
	tokens  []token
	current int
}

func (p *parser) peek() token { return p.tokens[p.current] }

func (p *parser) peekAt(ahead int) token {
	index := p.current + ahead
	if index >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[index]
}

func (p *parser) next() token {
	tok := p.tokens[p.current]
	if tok.kind != tokenEOF {
		p.current++
	}
	return tok
}

func (p *parser) at(kind tokenKind) bool { return p.peek().kind == kind }

// atKeyword reports whether the next token is the given keyword.
func (p *parser) atKeyword(word string) bool {
	return isKeyword(p.peek(), word)
}

func isKeyword(tok token, word string) bool {
	return tok.kind == tokenIdent && strings.EqualFold(tok.text, word)
}

// acceptKeyword consumes the keyword if present.
func (p *parser) acceptKeyword(word string) bool {
	if p.atKeyword(word) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectKeyword(words ...string) error {
	for _, word := range words {
		if !p.acceptKeyword(word) {
			return p.unexpected(strings.Join(words, " "))
		}
	}
	return nil
}

func (p *parser) expect(kind tokenKind) (token, error) {
	if !p.at(kind) {
		return token{}, p.unexpected(kind.String())
	}
	return p.next(), nil
}

func (p *parser) errorAt(tok token, format string, args ...any) error {
	return &SyntaxError{
		Line:       tok.position.Line,
		Column:     tok.position.Column,
		Message:    fmt.Sprintf(format, args...),
		Incomplete: tok.kind == tokenEOF,
	}
}

// Incomplete reports whether err is a syntax error caused only by the
// source ending early, such as an open block or string.
func Incomplete(err error) bool {
	var syntax *SyntaxError
	return errors.As(err, &syntax) && syntax.Incomplete
}

func (p *parser) unexpected(expected string) error {
	tok := p.peek()
	return p.errorAt(tok, "expected %s, found %s", expected, tok.describe())
}

// parseBody parses statements until end of input or a block terminator
// (END, ELSE). Semicolons between statements are optional.
func (p *parser) parseBody() ([]ast.Statement, error) {
	statements := []ast.Statement{}
	for {
		for p.at(tokenSemicolon) {
			p.next()
		}
		if p.at(tokenEOF) || p.atKeyword("END") || p.atKeyword("ELSE") {
			return statements, nil
		}
		statement, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, statement)
	}
}

// parseBlockBody parses a block body and its END <closing> terminator.
func (p *parser) parseBlockBody(closing string) ([]ast.Statement, error) {
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("END", closing); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *parser) parseStatement() (ast.Statement, error) {
	tok := p.peek()
	if tok.kind != tokenIdent {
		return nil, p.unexpected("a statement")
	}
	position := tok.position
	switch strings.ToUpper(tok.text) {
	case "SELECT":
		return p.parseSelect(true)
	case "LET":
		return p.parseLet(position)
	case "PRINT":
		return p.parsePrint(position)
	case "IF":
		return p.parseIf(position)
	case "FOR":
		return p.parseFor(position)
	case "ENTER":
		return p.parseEnter(position)
	case "EXIT":
		p.next()
		p.acceptKeyword("CONTEXT")
		return &ast.Exit{Position: position}, nil
	case "RESET":
		p.next()
		p.acceptKeyword("CONTEXT")
		return &ast.Reset{Position: position}, nil
	case "SHOW":
		return p.parseShow(position)
	case "CREATE":
		return p.parseCreateContainer(position)
	case "SWITCH":
		p.next()
		name, err := p.parseContainerName()
		if err != nil {
			return nil, err
		}
		return &ast.SwitchContainer{Position: position, Name: name}, nil
	case "LIST":
		p.next()
		if err := p.expectKeyword("CONTAINERS"); err != nil {
			return nil, err
		}
		return &ast.ListContainers{Position: position}, nil
	case "DESTROY":
		p.next()
		name, err := p.parseContainerName()
		if err != nil {
			return nil, err
		}
		return &ast.DestroyContainer{Position: position, Name: name}, nil
	case "EXPORT":
		return p.parseExport(position)
	case "DELETE":
		return p.parseDelete(position)
	case "KILL":
		return p.parseKill(position)
	case "LIFE":
		return p.parseLife(position)
	case "EXPLAIN":
		p.next()
		inner, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		return &ast.Explain{Position: position, Statement: inner}, nil
	}
	return nil, p.errorAt(tok, "unknown statement %q", tok.text)
}

// parseSelect parses SELECT <target> <fields|*> [FROM path] [WHERE
// expr]. When full is false (a bare SELECT inside an expression) FROM
// and WHERE are not consumed; the parenthesized form allows them.
func (p *parser) parseSelect(full bool) (*ast.Select, error) {
	start := p.next()
	target, err := p.parseTarget()
	if err != nil {
		return nil, err
	}
	node := &ast.Select{Position: start.position, Target: target}

	switch {
	case p.at(tokenStar):
		p.next()
	case p.at(tokenIdent) && !p.atClauseKeyword():
		for {
			field, err := p.expect(tokenIdent)
			if err != nil {
				return nil, err
			}
			node.Fields = append(node.Fields, strings.ToLower(field.text))
			if !p.at(tokenComma) || p.peekAt(1).kind != tokenIdent {
				break
			}
			p.next()
		}
	default:
		return nil, p.unexpected("field list or *")
	}

	if !full {
		return node, nil
	}
	if p.acceptKeyword("FROM") {
		if node.From, err = p.parsePathOperand(); err != nil {
			return nil, err
		}
	}
	if p.acceptKeyword("WHERE") {
		if node.Where, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// atClauseKeyword reports whether the next identifier is a keyword that
// ends a field list rather than naming a field.
func (p *parser) atClauseKeyword() bool {
	tok := p.peek()
	if tok.kind != tokenIdent {
		return false
	}
	switch strings.ToUpper(tok.text) {
	case "FROM", "WHERE", "DO", "THEN":
		return true
	}
	return false
}

func (p *parser) parseTarget() (ast.Target, error) {
	tok := p.peek()
	if tok.kind != tokenIdent {
		return ast.TargetInvalid, p.unexpected("query target")
	}
	target, ok := ast.ParseTarget(tok.text)
	if !ok {
		return ast.TargetInvalid, p.errorAt(tok, "unknown query target %q (expected CPU, MEMORY, DISK, NETWORK, SYSTEM, BATTERY, PROCESS, FILES or CONTENT)", tok.text)
	}
	p.next()
	return target, nil
}

// parsePathOperand parses a path position: a bare path, a quoted
// string, or a variable name.
func (p *parser) parsePathOperand() (ast.Expression, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenPath:
		p.next()
		return &ast.Literal{Position: tok.position, Value: value.String(tok.text), Path: true}, nil
	case tokenString:
		p.next()
		return &ast.Literal{Position: tok.position, Value: value.String(tok.text)}, nil
	case tokenIdent:
		if reserved[strings.ToUpper(tok.text)] {
			return nil, p.unexpected("path")
		}
		p.next()
		return &ast.VariableRef{Position: tok.position, Name: tok.text}, nil
	}
	return nil, p.unexpected("path")
}

func (p *parser) parseVariableName() (token, error) {
	tok, err := p.expect(tokenIdent)
	if err != nil {
		return token{}, err
	}
	if reserved[strings.ToUpper(tok.text)] {
		return token{}, p.errorAt(tok, "%q is a reserved word and cannot name a variable", tok.text)
	}
	return tok, nil
}

func (p *parser) parseLet(position ast.Position) (ast.Statement, error) {
	p.next()
	name, err := p.parseVariableName()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenOperator || tok.text != "=" {
		return nil, p.unexpected("'='")
	}
	p.next()
	expression, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Let{Position: position, Name: name.text, Value: expression}, nil
}

func (p *parser) parsePrint(position ast.Position) (ast.Statement, error) {
	p.next()
	node := &ast.Print{Position: position}
	for {
		expression, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		node.Values = append(node.Values, expression)
		if !p.at(tokenComma) {
			return node, nil
		}
		p.next()
	}
}

func (p *parser) parseIf(position ast.Position) (ast.Statement, error) {
	p.next()
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("THEN"); err != nil {
		return nil, err
	}
	node := &ast.If{Position: position, Condition: condition}
	if node.Then, err = p.parseBody(); err != nil {
		return nil, err
	}
	if p.acceptKeyword("ELSE") {
		if node.Else, err = p.parseBody(); err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword("END", "IF"); err != nil {
		return nil, err
	}
	return node, nil
}

func (p *parser) parseFor(position ast.Position) (ast.Statement, error) {
	p.next()
	variable, err := p.parseVariableName()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("IN"); err != nil {
		return nil, err
	}
	if !p.atKeyword("SELECT") {
		return nil, p.unexpected("SELECT")
	}
	source, err := p.parseSelect(true)
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("DO"); err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody("FOR")
	if err != nil {
		return nil, err
	}
	return &ast.For{Position: position, Variable: variable.text, Source: source, Body: body}, nil
}

func (p *parser) parseEnter(position ast.Position) (ast.Statement, error) {
	p.next()
	switch {
	case p.acceptKeyword("FOLDER"):
		path, err := p.parsePathOperand()
		if err != nil {
			return nil, err
		}
		return &ast.EnterFolder{Position: position, Path: path}, nil
	case p.acceptKeyword("FILE"):
		path, err := p.parsePathOperand()
		if err != nil {
			return nil, err
		}
		return &ast.EnterFile{Position: position, Path: path}, nil
	}
	return nil, p.unexpected("FOLDER or FILE")
}

func (p *parser) parseShow(position ast.Position) (ast.Statement, error) {
	p.next()
	switch {
	case p.acceptKeyword("CONTEXT"):
		return &ast.Show{Position: position, What: ast.ShowContext}, nil
	case p.acceptKeyword("VARIABLES"), p.acceptKeyword("VARS"):
		return &ast.Show{Position: position, What: ast.ShowVariables}, nil
	case p.acceptKeyword("HISTORY"):
		return &ast.Show{Position: position, What: ast.ShowHistory}, nil
	}
	return nil, p.unexpected("CONTEXT, VARIABLES or HISTORY")
}

// parseContainerName parses CONTAINER <name>, where name is a quoted
// string or a bare identifier.
func (p *parser) parseContainerName() (string, error) {
	if err := p.expectKeyword("CONTAINER"); err != nil {
		return "", err
	}
	tok := p.peek()
	switch tok.kind {
	case tokenString, tokenIdent:
		if tok.text == "" {
			return "", p.errorAt(tok, "container name cannot be empty")
		}
		p.next()
		return tok.text, nil
	}
	return "", p.unexpected("container name")
}

func (p *parser) parseCreateContainer(position ast.Position) (ast.Statement, error) {
	p.next()
	name, err := p.parseContainerName()
	if err != nil {
		return nil, err
	}
	node := &ast.CreateContainer{Position: position, Name: name}
	if p.acceptKeyword("WITH") {
		for {
			switch {
			case p.acceptKeyword("ALLOW"):
				if err := p.expectKeyword("ACTIONS"); err != nil {
					return nil, err
				}
				node.Options.AllowActions = true
			case p.acceptKeyword("READONLY"):
				node.Options.ReadOnly = true
			case p.acceptKeyword("READ"):
				if err := p.expectKeyword("ONLY"); err != nil {
					return nil, err
				}
				node.Options.ReadOnly = true
			default:
				return nil, p.unexpected("ALLOW ACTIONS or READONLY")
			}
			if !p.at(tokenComma) {
				break
			}
			p.next()
		}
	}
	if p.acceptKeyword("DO") {
		if node.Body, err = p.parseBlockBody("CONTAINER"); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (p *parser) parseExport(position ast.Position) (ast.Statement, error) {
	p.next()
	name, err := p.parseContainerName()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("TO"); err != nil {
		return nil, err
	}
	path, err := p.parsePathOperand()
	if err != nil {
		return nil, err
	}
	return &ast.ExportContainer{Position: position, Name: name, Path: path}, nil
}

func (p *parser) parseDelete(position ast.Position) (ast.Statement, error) {
	p.next()
	if err := p.expectKeyword("FILES", "FROM"); err != nil {
		return nil, err
	}
	node := &ast.Delete{Position: position}
	var err error
	if node.From, err = p.parsePathOperand(); err != nil {
		return nil, err
	}
	if p.acceptKeyword("WHERE") {
		if node.Where, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (p *parser) parseKill(position ast.Position) (ast.Statement, error) {
	p.next()
	if !p.acceptKeyword("PROCESS") && !p.acceptKeyword("PROCESSES") {
		return nil, p.unexpected("PROCESS")
	}
	if !p.acceptKeyword("WHERE") {
		return nil, p.errorAt(p.peek(), "KILL PROCESS requires a WHERE clause")
	}
	where, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Kill{Position: position, Where: where}, nil
}

func (p *parser) parseLife(position ast.Position) (ast.Statement, error) {
	p.next()
	if err := p.expectKeyword("MONITOR"); err != nil {
		return nil, err
	}
	tok := p.peek()
	target, ok := ast.LifeInvalid, false
	if tok.kind == tokenIdent {
		target, ok = ast.ParseLifeTarget(tok.text)
	}
	if !ok {
		return nil, p.errorAt(tok, "unknown LIFE target %s (expected BATTERY, MEMORY, CPU, DISK, NETWORK or PROCESSES)", tok.describe())
	}
	p.next()
	if err := p.expectKeyword("DO"); err != nil {
		return nil, err
	}
	body, err := p.parseBlockBody("LIFE")
	if err != nil {
		return nil, err
	}
	return &ast.LifeMonitor{Position: position, Target: target, Body: body}, nil
}

// Expressions, lowest precedence first.

func (p *parser) parseExpression() (ast.Expression, error) {
	return p.parseBinary(1)
}

// binaryOperator returns the operator at the cursor, if any, without
// consuming it.
func (p *parser) binaryOperator() (value.Op, bool) {
	tok := p.peek()
	switch tok.kind {
	case tokenOperator:
		op, ok := operatorSymbols[tok.text]
		return op, ok
	case tokenStar:
		return value.OpMul, true
	case tokenIdent:
		upper := strings.ToUpper(tok.text)
		switch upper {
		case "AND":
			return value.OpAnd, true
		case "OR":
			return value.OpOr, true
		}
		op, ok := comparisonWords[upper]
		return op, ok
	}
	return value.OpInvalid, false
}

// parseBinary is precedence climbing over ast.Precedence. Comparison
// operators do not chain: a = b = c is a syntax error.
func (p *parser) parseBinary(minimum int) (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.binaryOperator()
		if !ok || ast.Precedence(op) < minimum {
			return left, nil
		}
		operator := p.next()
		right, err := p.parseBinary(ast.Precedence(op) + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryOp{Position: operator.position, Left: left, Op: op, Right: right}
		if op.IsComparison() {
			if next, chained := p.binaryOperator(); chained && next.IsComparison() {
				return nil, p.errorAt(p.peek(), "comparisons cannot be chained; use AND")
			}
		}
	}
}

func (p *parser) parseUnary() (ast.Expression, error) {
	tok := p.peek()
	if tok.kind == tokenOperator && tok.text == "-" {
		next := p.peekAt(1)
		if next.kind == tokenNumber {
			p.next()
			literal, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			number, _ := literal.(*ast.Literal).Value.AsNumber()
			return &ast.Literal{Position: tok.position, Value: value.Number(-number)}, nil
		}
		return nil, p.errorAt(tok, "unary minus applies only to number literals")
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (ast.Expression, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenNumber:
		p.next()
		number, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, p.errorAt(tok, "invalid number %q", tok.text)
		}
		return &ast.Literal{Position: tok.position, Value: value.Number(number)}, nil

	case tokenSize:
		p.next()
		bytes, err := value.ParseSize(tok.text)
		if err != nil {
			return nil, p.errorAt(tok, "%v", err)
		}
		return &ast.Literal{Position: tok.position, Value: value.Size(bytes)}, nil

	case tokenString:
		p.next()
		return &ast.Literal{Position: tok.position, Value: value.String(tok.text)}, nil

	case tokenPath:
		p.next()
		return &ast.Literal{Position: tok.position, Value: value.String(tok.text), Path: true}, nil

	case tokenLParen:
		p.next()
		var inner ast.Expression
		if p.atKeyword("SELECT") {
			query, err := p.parseSelect(true)
			if err != nil {
				return nil, err
			}
			inner = &ast.EmbeddedQuery{Position: query.Position, Query: query}
		} else {
			var err error
			if inner, err = p.parseExpression(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(tokenRParen); err != nil {
			return nil, err
		}
		return inner, nil

	case tokenIdent:
		return p.parseIdentifierExpression()
	}
	return nil, p.unexpected("an expression")
}

func (p *parser) parseIdentifierExpression() (ast.Expression, error) {
	tok := p.peek()
	upper := strings.ToUpper(tok.text)
	switch upper {
	case "TRUE", "FALSE":
		p.next()
		return &ast.Literal{Position: tok.position, Value: value.Bool(upper == "TRUE")}, nil
	case "SELECT":
		query, err := p.parseSelect(false)
		if err != nil {
			return nil, err
		}
		return &ast.EmbeddedQuery{Position: query.Position, Query: query}, nil
	}

	// TARGET field, e.g. BATTERY level.
	if target, ok := ast.ParseTarget(tok.text); ok {
		field := p.peekAt(1)
		if field.kind == tokenIdent && !reserved[strings.ToUpper(field.text)] {
			p.next()
			p.next()
			return &ast.FieldAccess{Position: tok.position, Target: target, Field: strings.ToLower(field.text)}, nil
		}
	}

	if reserved[upper] {
		return nil, p.unexpected("an expression")
	}
	p.next()

	// variable.field
	if p.at(tokenDot) {
		p.next()
		field, err := p.expect(tokenIdent)
		if err != nil {
			return nil, err
		}
		return &ast.FieldAccess{Position: tok.position, Variable: tok.text, Field: strings.ToLower(field.text)}, nil
	}
	return &ast.VariableRef{Position: tok.position, Name: tok.text}, nil
}
