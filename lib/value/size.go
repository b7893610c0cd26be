// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Size units. Arta uses 1024-based units throughout.
const (
	Byte     uint64 = 1
	Kilobyte        = 1024 * Byte
	Megabyte        = 1024 * Kilobyte
	Gigabyte        = 1024 * Megabyte
	Terabyte        = 1024 * Gigabyte
)

var sizeUnits = []struct {
	suffix string
	factor uint64
}{
	{"TB", Terabyte},
	{"GB", Gigabyte},
	{"MB", Megabyte},
	{"KB", Kilobyte},
	{"B", Byte},
}

// UnitFactor returns the byte multiplier for a unit suffix ("KB",
// "mb", ...). ok is false for unknown suffixes.
func UnitFactor(unit string) (uint64, bool) {
	upper := strings.ToUpper(unit)
	for _, candidate := range sizeUnits {
		if candidate.suffix == upper {
			return candidate.factor, true
		}
	}
	return 0, false
}

// ParseSize parses a size literal such as "100MB", "1.5GB" or "512B"
// into a byte count. A fractional result is truncated to whole bytes.
func ParseSize(literal string) (uint64, error) {
	text := strings.TrimSpace(literal)
	split := len(text)
	for split > 0 {
		c := text[split-1]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			split--
			continue
		}
		break
	}
	digits, unit := strings.TrimSpace(text[:split]), text[split:]
	if digits == "" || unit == "" {
		return 0, fmt.Errorf("invalid size %q: expected <number><unit>", literal)
	}
	factor, ok := UnitFactor(unit)
	if !ok {
		return 0, fmt.Errorf("invalid size %q: unknown unit %q", literal, unit)
	}
	return ScaleSize(digits, factor)
}

// ScaleSize multiplies the decimal number in digits by factor. Whole
// numbers are multiplied in integer arithmetic so the result is exact.
func ScaleSize(digits string, factor uint64) (uint64, error) {
	if whole, err := strconv.ParseUint(digits, 10, 64); err == nil {
		if whole != 0 && factor > math.MaxUint64/whole {
			return 0, fmt.Errorf("size %s overflows", digits)
		}
		return whole * factor, nil
	}
	number, err := strconv.ParseFloat(digits, 64)
	if err != nil || number < 0 {
		return 0, fmt.Errorf("invalid size quantity %q", digits)
	}
	scaled := number * float64(factor)
	if scaled >= math.MaxUint64 {
		return 0, fmt.Errorf("size %s overflows", digits)
	}
	return uint64(scaled), nil
}

// FormatSize renders a byte count for humans: "0 B", "512 B",
// "1.50 KB", "100 MB".
func FormatSize(bytes uint64) string {
	for _, unit := range sizeUnits {
		if unit.factor == Byte {
			break
		}
		if bytes >= unit.factor {
			if bytes%unit.factor == 0 {
				return fmt.Sprintf("%d %s", bytes/unit.factor, unit.suffix)
			}
			return fmt.Sprintf("%.2f %s", float64(bytes)/float64(unit.factor), unit.suffix)
		}
	}
	return fmt.Sprintf("%d B", bytes)
}

// SizeLiteral renders a byte count as an exact Arta literal, using the
// largest unit that divides it evenly: 104857600 becomes "100MB",
// 1000 becomes "1000B".
func SizeLiteral(bytes uint64) string {
	if bytes == 0 {
		return "0B"
	}
	for _, unit := range sizeUnits {
		if bytes%unit.factor == 0 {
			return fmt.Sprintf("%d%s", bytes/unit.factor, unit.suffix)
		}
	}
	return fmt.Sprintf("%dB", bytes)
}
