// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/fault"
)

// SyntaxError reports malformed source.
type SyntaxError struct {
	Line    int
	Column  int
	Message string

	// Incomplete is set when the source ended before the construct did,
	// so appending more input could make it parse.
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Kind classifies the error for fault.KindOf.
func (e *SyntaxError) Kind() fault.Kind { return fault.Syntax }

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenNumber
	tokenSize
	tokenString
	tokenPath
	tokenOperator
	tokenLParen
	tokenRParen
	tokenComma
	tokenSemicolon
	tokenDot
	tokenStar
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenNumber:
		return "number"
	case tokenSize:
		return "size"
	case tokenString:
		return "string"
	case tokenPath:
		return "path"
	case tokenOperator:
		return "operator"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	case tokenComma:
		return "','"
	case tokenSemicolon:
		return "';'"
	case tokenDot:
		return "'.'"
	case tokenStar:
		return "'*'"
	}
	return "token"
}

type token struct {
	kind tokenKind
	// text is the token's source text, except for strings where it is
	// the unescaped contents.
	text     string
	position ast.Position
}

func (t token) describe() string {
	switch t.kind {
	case tokenEOF:
		return "end of input"
	case tokenString:
		return fmt.Sprintf("string %q", t.text)
	}
	return fmt.Sprintf("%q", t.text)
}

// pathKeywords are the keywords after which a slash can only start a
// path.
var pathKeywords = map[string]bool{
	"FROM": true, "TO": true, "FOLDER": true, "FILE": true, "IN": true,
	"WHERE": true, "AND": true, "OR": true, "THEN": true, "PRINT": true,
	"LIKE": true, "CONTAINS": true, "MATCHES": true,
}

type lexer struct {
	source string
	offset int
	line   int
	column int
	tokens []token
}

func tokenize(source string) ([]token, error) {
	lex := &lexer{source: source, line: 1, column: 1}
	for {
		tok, err := lex.next()
		if err != nil {
			return nil, err
		}
		lex.tokens = append(lex.tokens, tok)
		if tok.kind == tokenEOF {
			return lex.tokens, nil
		}
	}
}

func (l *lexer) peekRune(ahead int) rune {
	offset := l.offset
	for range ahead {
		if offset >= len(l.source) {
			return 0
		}
		_, width := utf8.DecodeRuneInString(l.source[offset:])
		offset += width
	}
	if offset >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[offset:])
	return r
}

func (l *lexer) advance() rune {
	r, width := utf8.DecodeRuneInString(l.source[l.offset:])
	l.offset += width
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *lexer) errorf(position ast.Position, format string, args ...any) error {
	return &SyntaxError{Line: position.Line, Column: position.Column, Message: fmt.Sprintf(format, args...)}
}

func (l *lexer) incomplete(position ast.Position, message string) error {
	return &SyntaxError{Line: position.Line, Column: position.Column, Message: message, Incomplete: true}
}

func (l *lexer) skipSpaceAndComments() {
	for l.offset < len(l.source) {
		r := l.peekRune(0)
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '-' && l.peekRune(1) == '-':
			for l.offset < len(l.source) && l.peekRune(0) != '\n' {
				l.advance()
			}
		case r == '#':
			for l.offset < len(l.source) && l.peekRune(0) != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// previousEndsValue reports whether the last token can end an operand,
// which makes a following slash a division operator.
func (l *lexer) previousEndsValue() bool {
	if len(l.tokens) == 0 {
		return false
	}
	previous := l.tokens[len(l.tokens)-1]
	switch previous.kind {
	case tokenNumber, tokenSize, tokenString, tokenPath, tokenRParen:
		return true
	case tokenIdent:
		return !pathKeywords[strings.ToUpper(previous.text)]
	}
	return false
}

func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()
	position := ast.Position{Line: l.line, Column: l.column}
	if l.offset >= len(l.source) {
		return token{kind: tokenEOF, position: position}, nil
	}

	r := l.peekRune(0)
	switch {
	case r == '"' || r == '\'':
		return l.scanString(position)
	case r >= '0' && r <= '9':
		return l.scanNumber(position)
	case r == '_' || unicode.IsLetter(r):
		start := l.offset
		for l.offset < len(l.source) {
			c := l.peekRune(0)
			if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
				break
			}
			l.advance()
		}
		return token{kind: tokenIdent, text: l.source[start:l.offset], position: position}, nil
	case r == '/' && !l.previousEndsValue():
		return l.scanPath(position), nil
	case r == '~' && l.peekRune(1) == '/':
		return l.scanPath(position), nil
	case r == '.' && startsDotPath(l.peekRune(1)):
		return l.scanPath(position), nil
	}

	l.advance()
	switch r {
	case '(':
		return token{kind: tokenLParen, text: "(", position: position}, nil
	case ')':
		return token{kind: tokenRParen, text: ")", position: position}, nil
	case ',':
		return token{kind: tokenComma, text: ",", position: position}, nil
	case ';':
		return token{kind: tokenSemicolon, text: ";", position: position}, nil
	case '.':
		return token{kind: tokenDot, text: ".", position: position}, nil
	case '*':
		return token{kind: tokenStar, text: "*", position: position}, nil
	case '+', '-', '/':
		return token{kind: tokenOperator, text: string(r), position: position}, nil
	case '=':
		if l.peekRune(0) == '=' {
			l.advance()
		}
		return token{kind: tokenOperator, text: "=", position: position}, nil
	case '!':
		if l.peekRune(0) == '=' {
			l.advance()
			return token{kind: tokenOperator, text: "!=", position: position}, nil
		}
	case '<':
		switch l.peekRune(0) {
		case '=':
			l.advance()
			return token{kind: tokenOperator, text: "<=", position: position}, nil
		case '>':
			l.advance()
			return token{kind: tokenOperator, text: "!=", position: position}, nil
		}
		return token{kind: tokenOperator, text: "<", position: position}, nil
	case '>':
		if l.peekRune(0) == '=' {
			l.advance()
			return token{kind: tokenOperator, text: ">=", position: position}, nil
		}
		return token{kind: tokenOperator, text: ">", position: position}, nil
	}
	return token{}, l.errorf(position, "unexpected character %q", r)
}

func (l *lexer) scanString(position ast.Position) (token, error) {
	quote := l.advance()
	var builder strings.Builder
	for {
		if l.offset >= len(l.source) {
			return token{}, l.incomplete(position, "unterminated string")
		}
		r := l.advance()
		switch r {
		case quote:
			return token{kind: tokenString, text: builder.String(), position: position}, nil
		case '\\':
			if l.offset >= len(l.source) {
				return token{}, l.incomplete(position, "unterminated string")
			}
			escaped := l.advance()
			switch escaped {
			case 'n':
				builder.WriteRune('\n')
			case 't':
				builder.WriteRune('\t')
			default:
				builder.WriteRune(escaped)
			}
		case '\n':
			return token{}, l.errorf(position, "newline in string")
		default:
			builder.WriteRune(r)
		}
	}
}

func (l *lexer) scanNumber(position ast.Position) (token, error) {
	start := l.offset
	for l.offset < len(l.source) && isDigit(l.peekRune(0)) {
		l.advance()
	}
	if l.peekRune(0) == '.' && isDigit(l.peekRune(1)) {
		l.advance()
		for l.offset < len(l.source) && isDigit(l.peekRune(0)) {
			l.advance()
		}
	}
	numberEnd := l.offset
	for l.offset < len(l.source) && unicode.IsLetter(l.peekRune(0)) {
		l.advance()
	}
	if l.offset == numberEnd {
		return token{kind: tokenNumber, text: l.source[start:l.offset], position: position}, nil
	}
	unit := strings.ToUpper(l.source[numberEnd:l.offset])
	switch unit {
	case "B", "KB", "MB", "GB", "TB":
		return token{kind: tokenSize, text: l.source[start:l.offset], position: position}, nil
	}
	return token{}, l.errorf(position, "invalid size unit %q in %q (expected B, KB, MB, GB or TB)",
		l.source[numberEnd:l.offset], l.source[start:l.offset])
}

// scanPath consumes a bare path: everything up to whitespace or a
// statement delimiter.
func (l *lexer) scanPath(position ast.Position) token {
	start := l.offset
	for l.offset < len(l.source) {
		r := l.peekRune(0)
		if unicode.IsSpace(r) || r == ';' || r == ',' || r == ')' || r == '(' || r == '"' || r == '\'' {
			break
		}
		l.advance()
	}
	return token{kind: tokenPath, text: l.source[start:l.offset], position: position}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// startsDotPath reports whether a dot followed by next begins a
// relative path (".", "..", "./x", "../x") rather than a field access.
func startsDotPath(next rune) bool {
	return next == '/' || next == '.' || next == 0 || next == ';' || unicode.IsSpace(next)
}
