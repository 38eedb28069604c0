// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for testability. Production code
// injects Real(); tests inject Fake() and drive time with Advance.
//
// Anything in this repository that ticks, sleeps, or timestamps
// snapshots takes a Clock instead of calling the time package
// directly. That is what makes the poller's tick/skip/refresh
// behavior testable without wall-clock waits.
package clock

import "time"

// Clock is the time surface the rest of the client depends on.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once
	// duration d has elapsed. If d <= 0 the channel receives
	// immediately.
	After(d time.Duration) <-chan time.Time

	// NewTicker returns a Ticker delivering ticks on C at the given
	// interval. Panics if d <= 0, matching time.NewTicker.
	NewTicker(d time.Duration) *Ticker
}

// Ticker wraps a periodic timer. The C channel has capacity 1,
// matching time.Ticker: if the consumer falls behind, ticks are
// dropped rather than queued.
type Ticker struct {
	// C delivers ticks.
	C <-chan time.Time

	stopFunc  func()
	resetFunc func(time.Duration)
}

// Stop turns the ticker off. No ticks are delivered after Stop
// returns. Stop does not close C.
func (t *Ticker) Stop() { t.stopFunc() }

// Reset restarts the tick cycle: the next tick arrives after the new
// interval elapses, regardless of when the previous tick fired.
func (t *Ticker) Reset(d time.Duration) { t.resetFunc(d) }
