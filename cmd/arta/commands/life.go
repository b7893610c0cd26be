// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"time"

	"github.com/spf13/pflag"

	"github.com/arta-lang/arta/cmd/arta/cli"
	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/life"
	"github.com/arta-lang/arta/lib/output"
	"github.com/arta-lang/arta/lib/parser"
	"github.com/arta-lang/arta/lib/value"
)

type lifeParams struct {
	globalParams
	Interval     time.Duration `flag:"interval" desc:"time between samples (default from config)"`
	Count        int           `flag:"count" desc:"stop after this many samples (0 runs until interrupted)"`
	OnlyOnChange bool          `flag:"only-on-change" desc:"skip samples equal to the previous one"`
	Do           string        `flag:"do" desc:"statements to run on every sample instead of printing it"`
}

func lifeCommand(env *environment) *cli.Command {
	var params lifeParams
	return &cli.Command{
		Name:    "life",
		Summary: "Monitor a resource",
		Usage:   "arta life <BATTERY|MEMORY|CPU|DISK|NETWORK|PROCESSES> [flags]",
		Description: `Sample a resource repeatedly and print each snapshot, or run the
--do statements against it as a LIFE MONITOR body. Inside the body
the snapshot's fields are read-only variables. DELETE and KILL are
never allowed in a monitor body.`,
		Examples: []cli.Example{
			{Description: "Print memory every two seconds", Command: "arta life MEMORY --interval 2s"},
			{Description: "Warn on a hot CPU", Command: `arta life CPU --do 'IF usage > 90 THEN PRINT "hot", usage; END IF'`},
			{Description: "Stream battery samples as CBOR", Command: "arta life BATTERY --format cbor --only-on-change"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("life", &params)
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return cli.Usagef("life requires exactly one target\n\nRun 'arta life --help' for usage.")
			}
			target, ok := ast.ParseLifeTarget(args[0])
			if !ok {
				return cli.Usagef("unknown LIFE target %q (want BATTERY, MEMORY, CPU, DISK, NETWORK or PROCESSES)", args[0])
			}
			if params.Count < 0 {
				return cli.Usagef("--count must not be negative")
			}

			var body []ast.Statement
			if params.Do != "" {
				parsed, err := parser.Parse(params.Do)
				if err != nil {
					return err
				}
				body = parsed
			}

			session, err := params.open(env, env.stdout)
			if err != nil {
				return err
			}

			interval := session.config.LifeInterval()
			if params.Interval > 0 {
				interval = params.Interval
			}
			monitor, err := life.New(life.Config{
				Sampler:      life.SystemSampler(session.system),
				Runner:       life.RunnerFunc(session.lifeTick),
				Interval:     interval,
				MaxTicks:     params.Count,
				OnlyOnChange: params.OnlyOnChange || session.config.Life.OnlyOnChange,
				Validation:   session.executor.ValidationOptions(),
				Logger:       session.logger,
			})
			if err != nil {
				return err
			}

			if err := monitor.Run(ctx, target, body); err != nil {
				return err
			}
			// The monitor treats cancellation as a normal stop; the
			// process still reports the interrupt.
			return ctx.Err()
		},
	}
}

// lifeTick prints the snapshot, or runs body against it.
func (s *session) lifeTick(ctx context.Context, target ast.LifeTarget, snapshot value.Record, body []ast.Statement) error {
	if len(body) == 0 {
		return s.sink.Emit(output.Event{
			Kind:  output.KindResult,
			Label: target.String(),
			Rows:  value.List{snapshot},
		})
	}
	return s.executor.RunLife(ctx, target, snapshot, body)
}
