// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/arta-lang/arta/lib/value"
)

// maxCellWidth truncates table cells so one long command line cannot
// push every other column off screen.
const maxCellWidth = 60

// HumanOptions configures the human renderer.
type HumanOptions struct {
	// Color enables ANSI styling. Callers enable it only when the
	// writer is a terminal.
	Color bool
}

// Human renders events for people.
type Human struct {
	writer  io.Writer
	header  lipgloss.Style
	faint   lipgloss.Style
	warning lipgloss.Style
	label   lipgloss.Style
}

// NewHuman returns a human renderer writing to w.
func NewHuman(w io.Writer, options HumanOptions) *Human {
	profile := termenv.Ascii
	if options.Color {
		profile = termenv.ANSI256
	}
	// SetColorProfile is required: the renderer otherwise re-detects
	// the profile from the environment and ignores WithProfile.
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)

	return &Human{
		writer:  w,
		header:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		faint:   renderer.NewStyle().Faint(true),
		warning: renderer.NewStyle().Foreground(lipgloss.Color("214")),
		label:   renderer.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Emit implements Sink.
func (h *Human) Emit(event Event) error {
	var text string
	switch event.Kind {
	case KindResult:
		text = h.result(event)
	case KindPrint:
		text = event.Text()
	case KindMessage:
		text = h.faint.Render(event.Label)
	case KindWarning:
		text = h.warning.Render("warning: " + event.Label)
	default:
		return fmt.Errorf("output: unknown event kind %d", event.Kind)
	}
	_, err := io.WriteString(h.writer, text+"\n")
	return err
}

func (h *Human) result(event Event) string {
	switch len(event.Rows) {
	case 0:
		return h.faint.Render(fmt.Sprintf("%s: no results", event.Label))
	case 1:
		return h.record(event.Label, event.Rows[0])
	default:
		return h.table(event.Rows)
	}
}

// record renders a single row as aligned "name  value" lines under a
// heading.
func (h *Human) record(heading string, record value.Record) string {
	fields := record.Fields()
	width := 0
	for _, field := range fields {
		width = max(width, lipgloss.Width(field.Name))
	}
	var builder strings.Builder
	if heading != "" {
		builder.WriteString(h.header.Render(heading) + "\n")
	}
	for i, field := range fields {
		if i > 0 {
			builder.WriteString("\n")
		}
		padded := field.Name + strings.Repeat(" ", width-lipgloss.Width(field.Name))
		builder.WriteString("  " + h.label.Render(padded) + "  " + cell(field.Value))
	}
	return builder.String()
}

// table renders rows under a header of the union of their field names,
// in first-seen order.
func (h *Human) table(rows value.List) string {
	var columns []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, name := range row.Names() {
			key := strings.ToLower(name)
			if !seen[key] {
				seen[key] = true
				columns = append(columns, name)
			}
		}
	}

	cells := make([][]string, len(rows))
	widths := make([]int, len(columns))
	for index, column := range columns {
		widths[index] = lipgloss.Width(column)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for c, column := range columns {
			text := ""
			if v, ok := row.Get(column); ok {
				text = cell(v)
			}
			cells[r][c] = text
			widths[c] = max(widths[c], lipgloss.Width(text))
		}
	}

	pad := func(text string, width int) string {
		return text + strings.Repeat(" ", max(0, width-lipgloss.Width(text)))
	}
	var builder strings.Builder
	headers := make([]string, len(columns))
	for c, column := range columns {
		headers[c] = h.header.Render(pad(strings.ToUpper(column), widths[c]))
	}
	builder.WriteString(strings.TrimRight(strings.Join(headers, "  "), " "))
	for _, row := range cells {
		builder.WriteString("\n")
		padded := make([]string, len(row))
		for c, text := range row {
			padded[c] = pad(text, widths[c])
		}
		builder.WriteString(strings.TrimRight(strings.Join(padded, "  "), " "))
	}
	builder.WriteString("\n" + h.faint.Render(fmt.Sprintf("(%d rows)", len(rows))))
	return builder.String()
}

func cell(v value.Value) string {
	return ansi.Truncate(v.String(), maxCellWidth, "…")
}
