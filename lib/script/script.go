// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/arta-lang/arta/lib/container"
	"github.com/arta-lang/arta/lib/fault"
	"github.com/arta-lang/arta/lib/value"
)

// Extension is the required file extension of a script.
const Extension = ".arta"

// Script is loaded source text.
type Script struct {
	// Name is the file path, or a label for inline source.
	Name   string
	Source string

	// Digest is the hex BLAKE3 hash of Source, for logs.
	Digest string

	// Export is the checksum verification of an exported container.
	// Export.Exported is false for ordinary scripts.
	Export container.Verification
}

// Load reads a script file. The path must end in .arta.
func Load(path string) (*Script, error) {
	if !strings.EqualFold(filepath.Ext(path), Extension) {
		return nil, fault.New(fault.Validation, "script %s must have the %s extension", path, Extension)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fault.NotFoundf("script %s does not exist", path)
		}
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	return FromSource(path, string(data)), nil
}

// FromSource wraps inline source text.
func FromSource(name, source string) *Script {
	digest := blake3.Sum256([]byte(source))
	return &Script{
		Name:   name,
		Source: source,
		Digest: hex.EncodeToString(digest[:]),
		Export: container.VerifyExport([]byte(source)),
	}
}

// ShortDigest returns the first 12 hex digits of the digest.
func (s *Script) ShortDigest() string {
	if len(s.Digest) < 12 {
		return s.Digest
	}
	return s.Digest[:12]
}

// Arg is one --arg binding.
type Arg struct {
	Name  string
	Value value.Value
}

// ParseArg parses "name=value". The value is read as a boolean, a
// size ("100MB"), a number, or else a string (paths included).
func ParseArg(text string) (Arg, error) {
	name, raw, found := strings.Cut(text, "=")
	name = strings.TrimSpace(name)
	if !found || name == "" {
		return Arg{}, fmt.Errorf("invalid --arg %q: expected name=value", text)
	}
	if !validName(name) {
		return Arg{}, fmt.Errorf("invalid --arg %q: %q is not a valid variable name", text, name)
	}
	return Arg{Name: name, Value: argValue(raw)}, nil
}

// ParseArgs parses every --arg value.
func ParseArgs(texts []string) ([]Arg, error) {
	args := make([]Arg, 0, len(texts))
	for _, text := range texts {
		arg, err := ParseArg(text)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func argValue(raw string) value.Value {
	switch strings.ToLower(raw) {
	case "true":
		return value.Bool(true)
	case "false":
		return value.Bool(false)
	}
	if bytes, err := value.ParseSize(raw); err == nil {
		return value.Size(bytes)
	}
	if number, err := strconv.ParseFloat(raw, 64); err == nil {
		return value.Number(number)
	}
	return value.String(raw)
}

func validName(name string) bool {
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
