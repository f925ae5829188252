// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the wall-clock source that paces a simulation
// driver.
//
// The virtual minute counter in lib/simclock never reads wall time. A
// driver that wants to play a simulation back at a fixed real-time rate
// (one batch of virtual minutes every 100ms, say) takes a [Clock] and
// asks it for a [Ticker]. Production code passes [Real]; tests pass
// [Fake] and step it with [FakeClock.Advance]:
//
//	wall := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go driver.Run(ctx)
//	wall.WaitForTickers(1)            // driver has created its ticker
//	wall.Advance(100 * time.Millisecond) // exactly one batch runs
package clock
