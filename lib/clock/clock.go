// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is the wall-time dependency of a simulation driver.
type Clock interface {
	// Now returns the current wall time.
	Now() time.Time

	// NewTicker returns a Ticker that delivers on C every d. Panics if
	// d <= 0, as time.NewTicker does.
	NewTicker(d time.Duration) *Ticker
}

// Ticker delivers periodic wall-clock ticks. C has capacity 1; a
// consumer that falls behind loses ticks rather than queueing them.
type Ticker struct {
	C <-chan time.Time

	stop func()
}

// Stop turns the ticker off. C is not closed.
func (t *Ticker) Stop() { t.stop() }

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTicker(d time.Duration) *Ticker {
	ticker := time.NewTicker(d)
	return &Ticker{C: ticker.C, stop: ticker.Stop}
}
