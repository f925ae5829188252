// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package recur

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bureau-foundation/simclock/lib/simclock"
)

// MaxDay is the largest day a Schedule can match.
const MaxDay = 63

// Schedule is a parsed expression. Use Parse to build one.
type Schedule struct {
	minutes bitset64
	hours   bitset64
	days    bitset64
}

// bitset64 uses a uint64 as a set of integers 0-63.
type bitset64 uint64

func (b bitset64) has(value int) bool { return value >= 0 && value < 64 && b&(1<<uint(value)) != 0 }
func (b *bitset64) set(value int)     { *b |= 1 << uint(value) }

// Parse parses a three-field "minute hour day" expression.
func Parse(expression string) (Schedule, error) {
	fields := strings.Fields(expression)
	if len(fields) != 3 {
		return Schedule{}, fmt.Errorf("recur: expected 3 fields, got %d", len(fields))
	}

	minutes, err := parseField(fields[0], 0, simclock.MinutesPerHour-1)
	if err != nil {
		return Schedule{}, fmt.Errorf("recur: minute field: %w", err)
	}
	hours, err := parseField(fields[1], 0, simclock.MinutesPerDay/simclock.MinutesPerHour-1)
	if err != nil {
		return Schedule{}, fmt.Errorf("recur: hour field: %w", err)
	}
	days, err := parseField(fields[2], 0, MaxDay)
	if err != nil {
		return Schedule{}, fmt.Errorf("recur: day field: %w", err)
	}

	return Schedule{minutes: minutes, hours: hours, days: days}, nil
}

// Matches reports whether the absolute minute falls on the schedule.
func (s Schedule) Matches(absoluteMinute int) bool {
	if absoluteMinute < 0 {
		return false
	}
	day := absoluteMinute / simclock.MinutesPerDay
	hour := (absoluteMinute % simclock.MinutesPerDay) / simclock.MinutesPerHour
	minute := absoluteMinute % simclock.MinutesPerHour
	return s.days.has(day) && s.hours.has(hour) && s.minutes.has(minute)
}

// Next returns the earliest matching absolute minute strictly after
// the given minute. Returns an error when nothing matches before the
// end of MaxDay.
func (s Schedule) Next(after int) (int, error) {
	candidate := after + 1
	if candidate < 0 {
		candidate = 0
	}
	limit := simclock.MinutesInDays(MaxDay + 1)

	for candidate < limit {
		day := candidate / simclock.MinutesPerDay
		if !s.days.has(day) {
			candidate = simclock.MinutesInDays(day + 1)
			continue
		}

		hour := (candidate % simclock.MinutesPerDay) / simclock.MinutesPerHour
		if !s.hours.has(hour) {
			candidate = simclock.TotalMinutes(day, hour+1, 0)
			continue
		}

		if !s.minutes.has(candidate % simclock.MinutesPerHour) {
			candidate++
			continue
		}

		return candidate, nil
	}

	return 0, fmt.Errorf("recur: no match after minute %d within %d days", after, MaxDay+1)
}

// Expand returns every matching minute m with after < m <= until, in
// ascending order.
func (s Schedule) Expand(after, until int) []int {
	var result []int
	for {
		next, err := s.Next(after)
		if err != nil || next > until {
			return result
		}
		result = append(result, next)
		after = next
	}
}

// parseField parses comma-separated terms into a bitset.
func parseField(field string, minimum, maximum int) (bitset64, error) {
	var result bitset64
	for _, term := range strings.Split(field, ",") {
		bits, err := parseTerm(term, minimum, maximum)
		if err != nil {
			return 0, err
		}
		result |= bits
	}
	return result, nil
}

// parseTerm parses one of *, */N, V, V-V, V-V/N.
func parseTerm(term string, minimum, maximum int) (bitset64, error) {
	rangeExpression, stepExpression, hasStep := strings.Cut(term, "/")
	step := 1
	if hasStep {
		parsed, err := strconv.Atoi(stepExpression)
		if err != nil {
			return 0, fmt.Errorf("invalid step %q: %w", stepExpression, err)
		}
		if parsed <= 0 {
			return 0, fmt.Errorf("step must be positive, got %d", parsed)
		}
		step = parsed
	}

	var start, end int
	switch {
	case rangeExpression == "*":
		start, end = minimum, maximum
	case strings.Contains(rangeExpression, "-"):
		startText, endText, _ := strings.Cut(rangeExpression, "-")
		var err error
		if start, err = strconv.Atoi(startText); err != nil {
			return 0, fmt.Errorf("invalid range start %q: %w", startText, err)
		}
		if end, err = strconv.Atoi(endText); err != nil {
			return 0, fmt.Errorf("invalid range end %q: %w", endText, err)
		}
		if start > end {
			return 0, fmt.Errorf("range start %d > end %d", start, end)
		}
	default:
		value, err := strconv.Atoi(rangeExpression)
		if err != nil {
			return 0, fmt.Errorf("invalid value %q: %w", rangeExpression, err)
		}
		start, end = value, value
	}

	if start < minimum || end > maximum {
		return 0, fmt.Errorf("value out of range [%d-%d]: got %d-%d", minimum, maximum, start, end)
	}

	var result bitset64
	for value := start; value <= end; value += step {
		result.set(value)
	}
	return result, nil
}
