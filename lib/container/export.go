// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/navigation"
	"github.com/arta-lang/arta/lib/value"
)

const (
	headerPrefix   = "-- Exported container: "
	checksumPrefix = "-- Checksum: blake3:"
)

// exportDomainKey keys the checksum hash so an export digest never
// collides with a BLAKE3 digest of the same bytes computed elsewhere.
// ASCII "arta.container.export", zero-padded to 32 bytes.
var exportDomainKey = [32]byte{
	'a', 'r', 't', 'a', '.', 'c', 'o', 'n', 't', 'a', 'i', 'n', 'e', 'r', '.', 'e',
	'x', 'p', 'o', 'r', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Checksum returns the hex keyed BLAKE3 digest of an export body.
func Checksum(body []byte) string {
	hasher, err := blake3.NewKeyed(exportDomainKey[:])
	if err != nil {
		panic("container: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(body)
	return hex.EncodeToString(hasher.Sum(nil))
}

// Export renders c as a script. The header comments name the container
// and record its creation time, options and the checksum of everything
// after the header. The body is plain LET and ENTER statements that
// restore the variables with a literal form and the navigation frames
// into whichever container is active when the script runs, followed by
// the original initialization body as comments.
func Export(c *Container) []byte {
	body := exportBody(c)

	var out bytes.Buffer
	out.WriteString(headerPrefix + c.Name + "\n")
	out.WriteString("-- Created: " + c.Created.UTC().Format(time.RFC3339) + "\n")
	out.WriteString("-- Options: " + c.Options.String() + "\n")
	out.WriteString(checksumPrefix + Checksum(body) + "\n")
	out.Write(body)
	return out.Bytes()
}

func exportBody(c *Container) []byte {
	var restore []ast.Statement
	var skipped []string
	for _, entry := range c.Variables.Entries() {
		if _, ok := entry.Value.Literal(); !ok {
			skipped = append(skipped, fmt.Sprintf("%s (%s)", entry.Name, entry.Value.Kind()))
			continue
		}
		restore = append(restore, &ast.Let{Name: entry.Name, Value: &ast.Literal{Value: entry.Value}})
	}
	for _, frame := range c.Context.Frames() {
		path := &ast.Literal{Value: value.String(frame.Path), Path: true}
		switch frame.Kind {
		case navigation.Folder:
			restore = append(restore, &ast.EnterFolder{Path: path})
		case navigation.File:
			restore = append(restore, &ast.EnterFile{Path: path})
		}
	}

	var body bytes.Buffer
	for _, name := range skipped {
		body.WriteString("-- Not exported: " + name + "\n")
	}
	body.WriteString(ast.FormatScript(restore))
	if len(c.Body) > 0 {
		body.WriteString("-- Original body:\n")
		for _, line := range strings.Split(strings.TrimRight(ast.FormatScript(c.Body), "\n"), "\n") {
			body.WriteString("--   " + line + "\n")
		}
	}
	return body.Bytes()
}

// Verification is the outcome of checking an export header.
type Verification struct {
	// Exported is false when the text has no export header; the other
	// fields are then zero.
	Exported bool
	Name     string
	Expected string
	Actual   string
}

// Valid reports whether the recorded checksum matches the body.
func (v Verification) Valid() bool {
	return v.Exported && v.Expected == v.Actual
}

// VerifyExport recomputes the checksum of an exported script. Text that
// does not start with an export header is reported as not exported.
func VerifyExport(text []byte) Verification {
	if !bytes.HasPrefix(text, []byte(headerPrefix)) {
		return Verification{}
	}
	var verification Verification
	rest := text
	for len(rest) > 0 {
		line, remainder, _ := bytes.Cut(rest, []byte("\n"))
		rest = remainder
		switch {
		case bytes.HasPrefix(line, []byte(headerPrefix)):
			verification.Name = string(line[len(headerPrefix):])
		case bytes.HasPrefix(line, []byte(checksumPrefix)):
			verification.Exported = true
			verification.Expected = string(line[len(checksumPrefix):])
			verification.Actual = Checksum(rest)
			return verification
		}
	}
	return verification
}
