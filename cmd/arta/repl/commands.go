// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package repl

import (
	"context"
	"fmt"
	"strings"
)

const helpText = `Enter Arta statements. A block continues until its END line; an
empty line submits what has been typed so far.

Shortcuts:
  cd [path]      ENTER FOLDER path (no path: RESET)
  ..             EXIT
  ls [path]      SELECT FILES * [FROM path]
  cat <file>     SELECT CONTENT * FROM file
  vars           SHOW VARIABLES
  ctx            SHOW CONTEXT

Commands:
  help           show this text
  pwd            print the current folder
  containers     LIST CONTAINERS
  clear          clear the screen
  exit, quit     leave the shell (also Ctrl-D)
`

// meta handles shell commands. It reports whether line was one.
func (s *Session) meta(ctx context.Context, line string) (bool, error) {
	switch strings.ToLower(line) {
	case "help", "?":
		_, err := fmt.Fprint(s.writer, helpText)
		return true, err
	case "exit", "quit", `\q`:
		return true, ErrExit
	case "pwd":
		active := s.executor.State().Containers.Active()
		_, err := fmt.Fprintln(s.writer, active.Context.Current().Path)
		return true, err
	case "containers":
		return true, s.run(ctx, "LIST CONTAINERS")
	case "clear":
		_, err := fmt.Fprint(s.writer, "\x1b[H\x1b[2J")
		return true, err
	}
	return false, nil
}

// expandShortcut rewrites a shortcut line into Arta source.
func expandShortcut(line string) (string, bool) {
	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(word) {
	case "cd":
		if rest == "" {
			return "RESET", true
		}
		if rest == ".." {
			return "EXIT", true
		}
		return "ENTER FOLDER " + quote(rest), true
	case "..":
		if rest == "" {
			return "EXIT", true
		}
	case "ls":
		if rest == "" {
			return "SELECT FILES *", true
		}
		return "SELECT FILES * FROM " + quote(rest), true
	case "cat":
		if rest != "" {
			return "SELECT CONTENT * FROM " + quote(rest), true
		}
	case "vars":
		if rest == "" {
			return "SHOW VARIABLES", true
		}
	case "ctx":
		if rest == "" {
			return "SHOW CONTEXT", true
		}
	}
	return "", false
}

var stringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quote makes a path argument an Arta string literal.
func quote(path string) string {
	return `"` + stringEscaper.Replace(path) + `"`
}
