// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"time"
)

// Fataler is the subset of testing.TB the helpers need.
type Fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive reads one value from ch within timeout, or fails the
// test. description is a message, or a format string and its args.
//
//	tick := testutil.RequireReceive(t, ticks, 5*time.Second, "tick %d", n)
func RequireReceive[T any](t Fataler, ch <-chan T, timeout time.Duration, description ...any) T {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatalf("%s: channel closed before a value arrived", describe(description))
		}
		return v
	case <-timer.C:
		t.Fatalf("%s: nothing received within %v", describe(description), timeout)
	}
	panic("unreachable")
}

func describe(description []any) string {
	switch {
	case len(description) == 0:
		return "receive"
	case len(description) == 1:
		return fmt.Sprint(description[0])
	}
	if format, ok := description[0].(string); ok {
		return fmt.Sprintf(format, description[1:]...)
	}
	return fmt.Sprint(description...)
}
