// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simclock

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrEventInPast is returned by ScheduleEvent and ScheduleAt when the
// requested minute is not after the clock's current minute. Such an
// event could never fire: Tick only looks at the bucket for the minute
// it advances into.
var ErrEventInPast = errors.New("simclock: event scheduled at or before current time")

// ErrNilCallback is returned when an event is scheduled without a
// callback.
var ErrNilCallback = errors.New("simclock: nil event callback")

// Clock is a minute-resolution virtual clock. The zero value is not
// usable; construct one with New or NewDefault.
type Clock struct {
	// currentTime is the single source of truth for day, hour, and
	// minute. It only moves forward, except through Reset.
	currentTime int

	// completionTime is completionDay * MinutesPerDay. Fixed at
	// construction.
	completionTime int
	completed      bool
	onComplete     func()

	// events maps absolute minute to the events for that minute in
	// scheduling order. A key exists only while its minute is in the
	// future.
	events map[int][]*ScheduledEvent

	// firing is set while callbacks run inside Tick, to catch a
	// callback that re-enters Tick or Reset.
	firing bool

	logger *slog.Logger
}

// Option configures a Clock at construction.
type Option func(*Clock)

// WithLogger sets the logger used for fired buckets (debug level) and
// completion (info level). Without this option the clock logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Clock) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a clock at minute zero that completes once completionDay
// full days have elapsed. onComplete runs exactly once per completed
// run and may be nil. A completionDay of zero or less completes on the
// first tick.
func New(completionDay int, onComplete func(), options ...Option) *Clock {
	c := &Clock{
		completionTime: MinutesInDays(completionDay),
		onComplete:     onComplete,
		logger:         slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(c)
	}
	c.Reset()
	return c
}

// NewDefault returns a clock that completes after DefaultCompletionDay
// days.
func NewDefault(onComplete func(), options ...Option) *Clock {
	return New(DefaultCompletionDay, onComplete, options...)
}

// Tick advances the clock by one minute. Events scheduled for the new
// minute fire in the order they were scheduled, then completion is
// checked. Tick on a completed clock does nothing.
//
// Panics if called from inside one of this clock's callbacks.
func (c *Clock) Tick() {
	if c.firing {
		panic("simclock: Tick called from a clock callback")
	}
	if c.completed {
		return
	}

	c.currentTime++
	c.triggerEvents(c.currentTime)
	c.checkCompletion()
}

// Advance ticks up to n times and returns how many ticks advanced the
// clock. It stops early when the clock completes; the completing tick
// is counted.
func (c *Clock) Advance(n int) int {
	advanced := 0
	for advanced < n && !c.completed {
		c.Tick()
		advanced++
	}
	return advanced
}

// Reset returns the clock to minute zero, clears completion, and drops
// every scheduled event. The completion threshold and callback are
// kept.
//
// Panics if called from inside one of this clock's callbacks.
func (c *Clock) Reset() {
	if c.firing {
		panic("simclock: Reset called from a clock callback")
	}
	c.currentTime = 0
	c.completed = false
	c.events = make(map[int][]*ScheduledEvent)
}

// ScheduleEvent registers callback to run when the clock reaches the
// given day, hour, and minute. Fields are folded with TotalMinutes and
// are not range-checked. Events for the same minute share one bucket
// and fire in scheduling order.
//
// Returns ErrEventInPast (wrapped) if the minute is not after the
// current minute, and ErrNilCallback if callback is nil. In both cases
// nothing is scheduled.
func (c *Clock) ScheduleEvent(day, hour, minute int, callback func()) error {
	return c.ScheduleAt(TotalMinutes(day, hour, minute), callback)
}

// ScheduleAt is ScheduleEvent keyed directly by absolute minute.
func (c *Clock) ScheduleAt(absoluteMinute int, callback func()) error {
	if callback == nil {
		return ErrNilCallback
	}
	if absoluteMinute <= c.currentTime {
		return fmt.Errorf("minute %d (current %d): %w", absoluteMinute, c.currentTime, ErrEventInPast)
	}
	c.events[absoluteMinute] = append(c.events[absoluteMinute], NewScheduledEvent(absoluteMinute, callback))
	return nil
}

// triggerEvents fires and discards the bucket for minute, if any.
func (c *Clock) triggerEvents(minute int) {
	bucket, ok := c.events[minute]
	if !ok {
		return
	}

	c.firing = true
	defer func() { c.firing = false }()
	// The bucket is gone after this minute even if a callback panics.
	defer delete(c.events, minute)

	for _, event := range bucket {
		if event.IsMatch(minute) {
			event.Trigger()
		}
	}

	c.logger.Debug("fired scheduled events",
		"minute", minute,
		"count", len(bucket),
	)
}

// checkCompletion fires the completion callback once the elapsed day
// count reaches the threshold. Granularity is whole days: the hour and
// minute of the current time are ignored.
func (c *Clock) checkCompletion() {
	if c.completed || c.Day() < c.CompletionDay() {
		return
	}

	c.completed = true
	c.logger.Info("simulation complete",
		"day", c.Day(),
		"minute", c.currentTime,
	)

	if c.onComplete != nil {
		c.firing = true
		defer func() { c.firing = false }()
		c.onComplete()
	}
}

// Minutes returns the absolute minute: minutes elapsed since the clock
// started or was last reset.
func (c *Clock) Minutes() int { return c.currentTime }

// Day returns the number of whole days elapsed.
func (c *Clock) Day() int { return c.currentTime / MinutesPerDay }

// Hour returns the hour of the current day, 0-23.
func (c *Clock) Hour() int { return (c.currentTime % MinutesPerDay) / MinutesPerHour }

// Minute returns the minute of the current hour, 0-59.
func (c *Clock) Minute() int { return c.currentTime % MinutesPerHour }

// CompletionDay returns the day at which the clock completes.
func (c *Clock) CompletionDay() int { return c.completionTime / MinutesPerDay }

// Completed reports whether completion has fired since the last reset.
func (c *Clock) Completed() bool { return c.completed }

// ScheduledEventsCount returns the number of distinct minutes with
// pending events. Several events at the same minute count once; use
// PendingEvents for the total.
func (c *Clock) ScheduledEventsCount() int { return len(c.events) }

// PendingEvents returns the total number of events waiting to fire.
func (c *Clock) PendingEvents() int {
	total := 0
	for _, bucket := range c.events {
		total += len(bucket)
	}
	return total
}

// String formats the current time as "day D HH:MM".
func (c *Clock) String() string {
	return fmt.Sprintf("day %d %02d:%02d", c.Day(), c.Hour(), c.Minute())
}
