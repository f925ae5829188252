// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bureau-foundation/simclock/lib/clock"
	"github.com/bureau-foundation/simclock/lib/simclock"
)

// Config configures a Runner.
type Config struct {
	// Clock is the virtual clock to drive. Required.
	Clock *simclock.Clock

	// Wall paces batches when Interval is non-zero. Defaults to
	// clock.Real().
	Wall clock.Clock

	// Interval is the wall time between batches. Zero runs batches
	// back to back.
	Interval time.Duration

	// Batch is the number of ticks per batch. Values below 1 mean 1.
	Batch int

	// Logger receives start, finish, and per-batch debug records.
	// Defaults to discarding.
	Logger *slog.Logger

	// Registerer receives the runner's collectors. Nil leaves them
	// unregistered.
	Registerer prometheus.Registerer

	// OnBatch, if set, is called on the Run goroutine after every batch.
	OnBatch func(Summary)
}

// Summary describes the progress of a run.
type Summary struct {
	// Ticks is the number of ticks that advanced the clock.
	Ticks int

	// Batches is the number of batches that advanced the clock.
	Batches int

	// Minute is the clock's absolute minute after the last batch.
	Minute int

	// Completed reports whether the clock has completed.
	Completed bool

	// WallTime is the wall-clock time spent in Run.
	WallTime time.Duration
}

// Runner drives one simclock.Clock.
type Runner struct {
	clock    *simclock.Clock
	wall     clock.Clock
	interval time.Duration
	batch    int
	logger   *slog.Logger
	onBatch  func(Summary)
	metrics  *metrics

	mu      sync.Mutex
	summary Summary
}

// New validates cfg and returns a Runner.
func New(cfg Config) (*Runner, error) {
	if cfg.Clock == nil {
		return nil, errors.New("runner: Clock is required")
	}
	if cfg.Interval < 0 {
		return nil, errors.New("runner: Interval must not be negative")
	}

	runner := &Runner{
		clock:    cfg.Clock,
		wall:     cfg.Wall,
		interval: cfg.Interval,
		batch:    max(cfg.Batch, 1),
		logger:   cfg.Logger,
		onBatch:  cfg.OnBatch,
		metrics:  newMetrics(cfg.Registerer),
	}
	if runner.wall == nil {
		runner.wall = clock.Real()
	}
	if runner.logger == nil {
		runner.logger = slog.New(slog.DiscardHandler)
	}
	runner.summary = Summary{Minute: cfg.Clock.Minutes(), Completed: cfg.Clock.Completed()}
	return runner, nil
}

// Run advances the clock until it completes or ctx ends. Returns nil
// on completion and ctx.Err() on cancellation.
func (r *Runner) Run(ctx context.Context) error {
	start := r.wall.Now()
	defer func() {
		r.mu.Lock()
		r.summary.WallTime += r.wall.Now().Sub(start)
		r.mu.Unlock()
	}()

	r.logger.Info("simulation started",
		"completion_day", r.clock.CompletionDay(),
		"minute", r.clock.Minutes(),
		"interval", r.interval,
		"batch", r.batch,
	)

	var err error
	if r.interval == 0 {
		err = r.runUnpaced(ctx)
	} else {
		err = r.runPaced(ctx)
	}

	summary := r.Summary()
	if err != nil {
		r.logger.Warn("simulation interrupted",
			"error", err,
			"clock", r.clock.String(),
			"ticks", summary.Ticks,
		)
		return err
	}
	r.logger.Info("simulation finished",
		"clock", r.clock.String(),
		"ticks", summary.Ticks,
		"batches", summary.Batches,
	)
	return nil
}

func (r *Runner) runUnpaced(ctx context.Context) error {
	for !r.clock.Completed() {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Step()
	}
	return nil
}

func (r *Runner) runPaced(ctx context.Context) error {
	if r.clock.Completed() {
		return nil
	}

	ticker := r.wall.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Step()
			if r.clock.Completed() {
				return nil
			}
		}
	}
}

// Step runs one batch and returns the number of ticks that advanced
// the clock. A batch stops early when the clock completes.
func (r *Runner) Step() int {
	advanced := r.clock.Advance(r.batch)
	if advanced == 0 {
		return 0
	}

	r.metrics.ticks.Add(float64(advanced))
	r.metrics.batches.Inc()
	r.metrics.minute.Set(float64(r.clock.Minutes()))
	if r.clock.Completed() {
		r.metrics.completions.Inc()
	}

	r.mu.Lock()
	r.summary.Ticks += advanced
	r.summary.Batches++
	r.summary.Minute = r.clock.Minutes()
	r.summary.Completed = r.clock.Completed()
	summary := r.summary
	r.mu.Unlock()

	r.logger.Debug("batch complete",
		"clock", r.clock.String(),
		"ticks", advanced,
	)
	if r.onBatch != nil {
		r.onBatch(summary)
	}
	return advanced
}

// Summary returns the progress so far. Safe to call from any goroutine.
func (r *Runner) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary
}
