// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simclock

const (
	// MinutesPerHour is the number of ticks in one virtual hour.
	MinutesPerHour = 60

	// MinutesPerDay is the number of ticks in one virtual day.
	MinutesPerDay = 24 * MinutesPerHour

	// DefaultDay, DefaultHour, and DefaultMinute are the fields of a
	// freshly constructed or reset clock.
	DefaultDay    = 0
	DefaultHour   = 0
	DefaultMinute = 0

	// DefaultCompletionDay is the completion threshold used by
	// NewDefault.
	DefaultCompletionDay = 3
)

// MinutesInHours returns the number of ticks in hours virtual hours.
func MinutesInHours(hours int) int { return hours * MinutesPerHour }

// MinutesInDays returns the number of ticks in days virtual days.
func MinutesInDays(days int) int { return days * MinutesPerDay }

// TotalMinutes folds a day/hour/minute triple into an absolute minute.
// Fields are not range-checked: hour 25 is one day and one hour, minute
// -1 is one minute earlier.
func TotalMinutes(days, hours, minutes int) int {
	return MinutesInDays(days) + MinutesInHours(hours) + minutes
}
