// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package recur parses recurring-event expressions over the virtual
// calendar of lib/simclock and lists the absolute minutes they match.
//
// An expression has three fields:
//
//	┌───────────── minute (0-59)
//	│ ┌───────────── hour (0-23)
//	│ │ ┌───────────── day (0-63, counted from the start of the run)
//	│ │ │
//	* * *
//
// Each field accepts the same terms as a cron field: a wildcard (*),
// a value (5), a range (1-5), a list (1,3,5), or a step over a range
// or wildcard (*/15, 0-30/10). Days are simulation days, not calendar
// dates: there are no months, weekdays, or time zones.
//
// Day 63 is the last day an expression can match. Runs longer than
// that need one-shot events or a second expression.
package recur
