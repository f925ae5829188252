// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package runner drives a [simclock.Clock] from a loop until it
// completes.
//
// The clock itself only moves when Tick is called. A [Runner] calls it
// in batches: with a zero Interval it runs batches back to back (a
// batch simulation), otherwise it runs one batch per wall-clock tick
// from a [clock.Clock] (playback at a fixed rate). Either way Run
// returns nil once the clock completes, or the context error if the
// context ends first.
//
// The Runner is the only goroutine that touches the clock while Run is
// active. Callers that want progress register OnBatch rather than
// reading the clock concurrently.
//
// Each Runner registers four Prometheus collectors on the Registerer
// it is given: simclock_ticks_total, simclock_batches_total,
// simclock_completions_total, and the simclock_virtual_minute gauge.
package runner
