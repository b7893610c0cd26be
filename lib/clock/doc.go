// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for the engine.
//
// The LIFE monitor's wait between ticks is the only suspension point in
// the interpreter, and it waits on [Clock.After] rather than calling
// the time package directly. Production wiring passes [Real]; tests
// pass a [FakeClock] and step the loop one tick at a time:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go monitor.Run(ctx, target, body)
//	fake.WaitForTimers(1)  // the loop is now blocked in its wait
//	fake.Advance(interval) // release exactly one tick
package clock
