// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"math"
	"regexp"
	"strings"

	"github.com/arta-lang/arta/lib/fault"
)

// Op is a binary operator: comparison, arithmetic or logical.
type Op uint8

const (
	OpInvalid Op = iota
	OpEq
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
	OpLike
	OpContains
	OpMatches
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpAnd
	OpOr
)

// String returns the operator's surface spelling.
func (op Op) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpLike:
		return "LIKE"
	case OpContains:
		return "CONTAINS"
	case OpMatches:
		return "MATCHES"
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	default:
		return "?"
	}
}

// IsComparison reports whether op yields a Boolean from two operands.
func (op Op) IsComparison() bool { return op >= OpEq && op <= OpMatches }

// IsArithmetic reports whether op is + - * /.
func (op Op) IsArithmetic() bool { return op >= OpAdd && op <= OpDiv }

// IsLogical reports whether op is AND or OR.
func (op Op) IsLogical() bool { return op == OpAnd || op == OpOr }

// Compare evaluates left op right for a comparison operator.
func Compare(left Value, op Op, right Value) (bool, error) {
	if !op.IsComparison() {
		return false, fault.TypeErrorf("%s is not a comparison operator", op)
	}
	switch {
	case left.kind == KindNumber && right.kind == KindNumber:
		return ordered(compareFloat(left.number, right.number), op, left, right)

	case left.kind == KindSize && right.kind == KindSize:
		return ordered(compareUint(left.bytes, right.bytes), op, left, right)

	case left.kind == KindSize && right.kind == KindNumber:
		if math.IsNaN(right.number) || right.number < 0 {
			return Value{}, fault.TypeErrorf("cannot scale a size by %v", right.number)
		}
		switch op {
		case OpMul:
			return scaleSize(float64(left.bytes)*right.number, "multiplication")
		case OpDiv:
			if right.number == 0 {
				return Value{}, fault.TypeErrorf("division by zero")
			}
			return scaleSize(float64(left.bytes)/right.number, "division")
		}

	case left.kind == KindNumber && right.kind == KindSize && op == OpMul:
		return Apply(right, op, left)

	case left.kind == KindString && right.kind == KindString && op == OpAdd:
		return String(left.text + right.text), nil
	}
	return Value{}, mismatch(left, op, right)
}

// scaleSize truncates a scaled byte count back to a size. float64 of
// MaxUint64 rounds up to 2^64, so anything at or above it has no exact
// size.
func scaleSize(bytes float64, operation string) (Value, error) {
	if math.IsNaN(bytes) || bytes >= float64(math.MaxUint64) {
		return Value{}, fault.TypeErrorf("size %s overflows", operation)
	}
	return Size(uint64(bytes)), nil
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// byteCount reads a Number as a byte count for comparison against a
// Size. Only non-negative whole numbers qualify.
func byteCount(n float64) (uint64, error) {
	if n < 0 || n != math.Trunc(n) || n >= math.MaxUint64 {
		return 0, fault.TypeErrorf("number %v cannot be compared with a size (not a whole byte count)", n)
	}
	return uint64(n), nil
}

func mismatch(left Value, op Op, right Value) error {
	return fault.TypeErrorf("cannot apply %s to %s and %s", op, left.kind, right.kind)
}
