// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package life

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arta-lang/arta/lib/ast"
	"github.com/arta-lang/arta/lib/clock"
	"github.com/arta-lang/arta/lib/inspect"
	"github.com/arta-lang/arta/lib/security"
	"github.com/arta-lang/arta/lib/value"
)

// DefaultInterval is the wait between ticks when none is configured.
const DefaultInterval = time.Second

// Sampler produces one snapshot of a LIFE target.
type Sampler interface {
	Sample(ctx context.Context, target ast.LifeTarget) (value.Record, error)
}

// SamplerFunc adapts a function to Sampler.
type SamplerFunc func(ctx context.Context, target ast.LifeTarget) (value.Record, error)

// Sample calls f.
func (f SamplerFunc) Sample(ctx context.Context, target ast.LifeTarget) (value.Record, error) {
	return f(ctx, target)
}

// SystemSampler samples through [inspect.Snapshot].
func SystemSampler(system inspect.System) Sampler {
	return SamplerFunc(func(ctx context.Context, target ast.LifeTarget) (value.Record, error) {
		return inspect.Snapshot(ctx, system, target)
	})
}

// Runner executes a LIFE body once against a snapshot.
type Runner interface {
	RunLife(ctx context.Context, target ast.LifeTarget, snapshot value.Record, body []ast.Statement) error
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, target ast.LifeTarget, snapshot value.Record, body []ast.Statement) error

// RunLife calls f.
func (f RunnerFunc) RunLife(ctx context.Context, target ast.LifeTarget, snapshot value.Record, body []ast.Statement) error {
	return f(ctx, target, snapshot, body)
}

// Tick reports one iteration of the loop.
type Tick struct {
	// Sequence counts ticks from 1.
	Sequence int
	Time     time.Time
	Target   ast.LifeTarget
	Snapshot value.Record

	// Skipped is set when OnlyOnChange suppressed the body because the
	// snapshot equalled the previous one.
	Skipped bool

	// Err is the sampling or body error that ended the loop.
	Err error
}

// Config configures a Monitor.
type Config struct {
	// Sampler and Runner are required.
	Sampler Sampler
	Runner  Runner

	// Clock drives the wait between ticks. Defaults to the real clock.
	Clock clock.Clock

	// Interval is the wait between ticks. Zero means DefaultInterval.
	Interval time.Duration

	// MaxTicks stops the loop after that many ticks. Zero runs until
	// the context is cancelled.
	MaxTicks int

	// OnlyOnChange skips the body when a snapshot is equal to the
	// previous one.
	OnlyOnChange bool

	// Observer, when set, is called after every tick.
	Observer func(Tick)

	// Validation holds the options the body is validated with.
	Validation security.Options

	Logger *slog.Logger
}

// Monitor runs LIFE blocks.
type Monitor struct {
	config Config
}

// New returns a Monitor.
func New(config Config) (*Monitor, error) {
	if config.Sampler == nil {
		return nil, fmt.Errorf("life: Config.Sampler is required")
	}
	if config.Runner == nil {
		return nil, fmt.Errorf("life: Config.Runner is required")
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.MaxTicks < 0 {
		return nil, fmt.Errorf("life: MaxTicks must not be negative, got %d", config.MaxTicks)
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Monitor{config: config}, nil
}

// Run monitors target, running body once per tick. The first tick
// samples immediately; every later tick first waits Interval.
//
// Run returns nil when ctx is cancelled or MaxTicks is reached. A
// validation, sampling or body error stops the loop and is returned.
func (m *Monitor) Run(ctx context.Context, target ast.LifeTarget, body []ast.Statement) error {
	if target.QueryTarget() == ast.TargetInvalid {
		return fmt.Errorf("life: invalid monitor target %d", target)
	}
	if err := security.ValidateLifeBody(body, m.config.Validation).Err(); err != nil {
		return err
	}

	logger := m.config.Logger.With("target", target.String())
	logger.Debug("life monitor started", "interval", m.config.Interval, "max_ticks", m.config.MaxTicks)

	var previous value.Record
	havePrevious := false
	for sequence := 1; ; sequence++ {
		if sequence > 1 {
			select {
			case <-ctx.Done():
				logger.Debug("life monitor cancelled", "ticks", sequence-1)
				return nil
			case <-m.config.Clock.After(m.config.Interval):
			}
		} else if ctx.Err() != nil {
			return nil
		}

		tick := Tick{Sequence: sequence, Time: m.config.Clock.Now(), Target: target}
		snapshot, err := m.config.Sampler.Sample(ctx, target)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			tick.Err = fmt.Errorf("sampling %s: %w", target, err)
		} else {
			tick.Snapshot = snapshot
			if m.config.OnlyOnChange && havePrevious && previous.Equal(snapshot) {
				tick.Skipped = true
			} else if err := m.config.Runner.RunLife(ctx, target, snapshot, body); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				tick.Err = err
			}
			previous, havePrevious = snapshot, true
		}

		logger.Debug("life tick", "tick", sequence, "skipped", tick.Skipped)
		if m.config.Observer != nil {
			m.config.Observer(tick)
		}
		if tick.Err != nil {
			return fmt.Errorf("LIFE MONITOR %s tick %d: %w", target, sequence, tick.Err)
		}
		if m.config.MaxTicks > 0 && sequence >= m.config.MaxTicks {
			logger.Debug("life monitor reached tick limit", "ticks", sequence)
			return nil
		}
	}
}
