// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package simclock implements a minute-resolution virtual clock for
// simulations and games.
//
// A [Clock] holds a single counter of elapsed minutes. Every call to
// [Clock.Tick] advances it by one, fires the callbacks registered for
// the new minute, and then checks whether the configured number of days
// has elapsed. Day, hour, and minute are derived from the counter on
// every read; nothing else is stored.
//
// Callbacks are grouped into buckets keyed by absolute minute
// (day*1440 + hour*60 + minute). A bucket fires in insertion order and
// is discarded as soon as it fires, so the index never holds entries
// for the past:
//
//	c := simclock.New(3, func() { fmt.Println("done") })
//	_ = c.ScheduleEvent(1, 11, 45, func() { fmt.Println("brunch") })
//	c.Advance(simclock.TotalMinutes(1, 11, 45)) // prints "brunch"
//
// Completion is checked at day granularity and fires exactly once per
// run. After completion, Tick is a no-op until [Clock.Reset].
//
// The clock is not safe for concurrent use. All callbacks run
// synchronously on the goroutine that calls Tick. A callback may
// schedule further events but must not call Tick or Reset on the same
// clock; doing so panics.
//
// This package depends on no other packages in this module.
package simclock
