// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simclock

// ScheduledEvent pairs an absolute minute with a callback. The callback
// runs at most once no matter how many times Trigger is called.
//
// Events are created and owned by a Clock. NewScheduledEvent is
// exported for callers that build their own dispatch on top of the
// same once-only guarantee.
type ScheduledEvent struct {
	scheduledTime int
	callback      func()
	completed     bool
}

// NewScheduledEvent returns an untriggered event for scheduledTime.
func NewScheduledEvent(scheduledTime int, callback func()) *ScheduledEvent {
	return &ScheduledEvent{
		scheduledTime: scheduledTime,
		callback:      callback,
	}
}

// ScheduledTime returns the absolute minute the event is keyed on.
func (e *ScheduledEvent) ScheduledTime() int { return e.scheduledTime }

// Completed reports whether the callback has run.
func (e *ScheduledEvent) Completed() bool { return e.completed }

// IsMatch reports whether the event is scheduled for minute.
func (e *ScheduledEvent) IsMatch(minute int) bool {
	return e.scheduledTime == minute
}

// Trigger runs the callback unless it has already run. The event is
// marked completed after the callback returns, so a panicking callback
// leaves the event eligible to fire again.
func (e *ScheduledEvent) Trigger() {
	if e.completed {
		return
	}
	if e.callback != nil {
		e.callback()
	}
	e.completed = true
}
