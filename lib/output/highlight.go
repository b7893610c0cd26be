// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// Highlight colours Arta source for a 256-colour terminal. Arta's
// keywords and literals follow SQL closely enough that chroma's SQL
// lexer reads them correctly. When enabled is false, or highlighting
// fails, the source is returned unchanged.
func Highlight(source string, enabled bool) string {
	if !enabled || source == "" {
		return source
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, source, "sql", "terminal256", "monokai"); err != nil {
		return source
	}
	return buffer.String()
}
