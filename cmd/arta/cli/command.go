// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the arta command tree. The root dispatches on
// its first positional argument; leaves parse flags and call Run.
type Command struct {
	Name string

	// Summary is the one-liner listed under the parent's Commands.
	Summary string

	// Description opens the command's own help. Falls back to Summary.
	Description string

	// Usage overrides the synthesized "arta <name> [flags]" line.
	Usage string

	Examples []Example

	// Flags builds a fresh flag set each time it is called. Nil means
	// the command takes no flags.
	Flags func() *pflag.FlagSet

	Subcommands []*Command

	// Run receives the positional arguments left after flag parsing.
	Run func(ctx context.Context, args []string) error

	parent *Command
}

// Example is one entry of the help Examples section.
type Example struct {
	Description string
	Command     string
}

// Execute routes args to a subcommand or parses them against Flags and
// calls Run. Unknown commands and flags produce a *UsageError carrying
// the closest known spelling.
func (c *Command) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(os.Stderr)
		return nil
	}

	if len(c.Subcommands) > 0 {
		sub, err := c.route(args)
		if err != nil {
			return err
		}
		if sub != nil {
			sub.parent = c
			return sub.Execute(ctx, args[1:])
		}
	}

	if c.Run == nil {
		c.PrintHelp(os.Stderr)
		return usageErrorf("no action defined for %q", c.fullName())
	}

	positional, err := c.parse(args)
	if errors.Is(err, pflag.ErrHelp) {
		c.PrintHelp(os.Stderr)
		return nil
	}
	if err != nil {
		return err
	}
	return c.Run(ctx, positional)
}

// route finds the subcommand named by args[0]. It returns nil with no
// error when c has its own Run to fall back on.
func (c *Command) route(args []string) (*Command, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		if c.Run != nil {
			return nil, nil
		}
		c.PrintHelp(os.Stderr)
		if len(args) == 0 {
			return nil, usageErrorf("subcommand required")
		}
		return nil, usageErrorf("subcommand required (got flag %q)", args[0])
	}

	name := args[0]
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			return sub, nil
		}
	}
	if c.Run != nil {
		return nil, nil
	}
	hint := ""
	if suggestion := suggestCommand(name, c.Subcommands); suggestion != "" {
		hint = fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return nil, usageErrorf("unknown command %q%s\n\nRun '%s --help' for usage.", name, hint, c.fullName())
}

// parse applies c.Flags to args and returns the positional remainder.
func (c *Command) parse(args []string) ([]string, error) {
	if c.Flags == nil {
		return args, nil
	}
	flagSet := c.Flags()
	flagSet.SetOutput(io.Discard)
	err := flagSet.Parse(args)
	if err == nil {
		return flagSet.Args(), nil
	}
	if errors.Is(err, pflag.ErrHelp) {
		return nil, err
	}

	message := err.Error()
	if strings.Contains(message, "unknown flag") || strings.Contains(message, "unknown shorthand") {
		// The failed set may hold partial state.
		if suggestion := suggestFlag(args, c.Flags()); suggestion != "" {
			message += fmt.Sprintf(" (did you mean %s?)", suggestion)
		}
	}
	return nil, usageErrorf("%s\n\nRun '%s --help' for usage.", message, c.fullName())
}

// PrintHelp writes the command's help page to w.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()

	lead := c.Description
	if lead == "" {
		lead = c.Summary
	}
	if lead != "" {
		fmt.Fprintf(w, "%s\n\n", lead)
	}

	usage := c.Usage
	if usage == "" {
		usage = name + " [flags]"
		if len(c.Subcommands) > 0 {
			usage = name + " <command> [flags]"
		}
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", usage)

	if len(c.Subcommands) > 0 {
		fmt.Fprint(w, "\nCommands:\n")
		table := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(table, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		table.Flush()
	}

	if c.Flags != nil {
		if flags := c.Flags().FlagUsages(); flags != "" {
			fmt.Fprintf(w, "\nFlags:\n%s", flags)
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprint(w, "\nExamples:\n")
		for i, example := range c.Examples {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", name)
	}
}

func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	}
	return false
}
