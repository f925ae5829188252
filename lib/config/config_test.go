// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/simclock/lib/recur"
	"github.com/bureau-foundation/simclock/lib/simclock"
)

const sampleScenario = `
completion_day: 2
pacing:
  interval: 250ms
  batch: 30
trace: ${SIMCLOCK_TEST_OUT:-/var/tmp}/run.cbor
events:
  - name: breakfast
    day: 1
    hour: 7
    minute: 30
  - name: late-night
    day: 0
    hour: 23
    minute: 59
recurring:
  - name: six-hourly
    expression: "0 */6 *"
`

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.CompletionDay != simclock.DefaultCompletionDay {
		t.Errorf("expected completion_day=%d, got %d", simclock.DefaultCompletionDay, cfg.CompletionDay)
	}
	if cfg.Pacing.Batch != 60 {
		t.Errorf("expected batch=60, got %d", cfg.Pacing.Batch)
	}
	if interval, err := cfg.Pacing.IntervalDuration(); err != nil || interval != 0 {
		t.Errorf("expected interval=0, got %v (err %v)", interval, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	t.Setenv("SIMCLOCK_TEST_OUT", "")

	cfg, err := Parse([]byte(sampleScenario))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.CompletionDay != 2 {
		t.Errorf("completion_day = %d, want 2", cfg.CompletionDay)
	}
	if interval, _ := cfg.Pacing.IntervalDuration(); interval != 250*time.Millisecond {
		t.Errorf("interval = %v, want 250ms", interval)
	}
	if cfg.Pacing.Batch != 30 {
		t.Errorf("batch = %d, want 30", cfg.Pacing.Batch)
	}
	if cfg.Trace != "/var/tmp/run.cbor" {
		t.Errorf("trace = %q, want default expansion /var/tmp/run.cbor", cfg.Trace)
	}
	wantEvents := []EventConfig{
		{Name: "breakfast", Day: 1, Hour: 7, Minute: 30},
		{Name: "late-night", Day: 0, Hour: 23, Minute: 59},
	}
	if !reflect.DeepEqual(cfg.Events, wantEvents) {
		t.Errorf("events = %+v, want %+v", cfg.Events, wantEvents)
	}
	if len(cfg.Recurring) != 1 || cfg.Recurring[0].Expression != "0 */6 *" {
		t.Errorf("recurring = %+v", cfg.Recurring)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseExpandsFromEnvironment(t *testing.T) {
	t.Setenv("SIMCLOCK_TEST_OUT", "/srv/sim")
	cfg, err := Parse([]byte(sampleScenario))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Trace != "/srv/sim/run.cbor" {
		t.Errorf("trace = %q, want /srv/sim/run.cbor", cfg.Trace)
	}
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil): %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Parse(nil) = %+v, want Default()", cfg)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("completion_days: 4\n"))
	if err == nil {
		t.Fatal("expected error for misspelled key, got nil")
	}
	if !strings.Contains(err.Error(), "completion_days") {
		t.Errorf("error %q does not name the unknown key", err)
	}
}

func TestLoad_RequiresEnvironment(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error when SIMCLOCK_SCENARIO not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "SIMCLOCK_SCENARIO environment variable not set") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_WithEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte("completion_day: 5\n"), 0o644); err != nil {
		t.Fatalf("writing scenario: %v", err)
	}
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CompletionDay != 5 {
		t.Errorf("completion_day = %d, want 5", cfg.CompletionDay)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadFile(absent) = %v, want os.ErrNotExist", err)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Pacing.Batch = 0
	cfg.Pacing.Interval = "soon"
	cfg.Events = []EventConfig{{Name: "", Day: 1}, {Name: "origin"}}
	cfg.Recurring = []RecurringConfig{{Name: "broken", Expression: "* *"}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted an invalid scenario")
	}
	for _, want := range []string{
		"pacing.batch",
		"pacing.interval",
		"events[0]: name is required",
		"events[1] (origin)",
		"recurring[0] (broken)",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate error missing %q:\n%v", want, err)
		}
	}
}

func TestValidateNegativeInterval(t *testing.T) {
	cfg := Default()
	cfg.Pacing.Interval = "-1s"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "must not be negative") {
		t.Errorf("Validate = %v, want negative interval error", err)
	}
}

func TestValidateRecurringHorizon(t *testing.T) {
	tests := []struct {
		name          string
		completionDay int
		recurring     []RecurringConfig
		wantErr       bool
	}{
		{"last_expressible_day", recur.MaxDay, []RecurringConfig{{Name: "midnight", Expression: "0 0 *"}}, false},
		{"past_last_day", recur.MaxDay + 1, []RecurringConfig{{Name: "midnight", Expression: "0 0 *"}}, true},
		{"long_run_without_recurring", 100, nil, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			cfg.CompletionDay = test.completionDay
			cfg.Recurring = test.recurring
			err := cfg.Validate()
			if test.wantErr {
				if err == nil || !strings.Contains(err.Error(), "completion_day") {
					t.Errorf("Validate = %v, want completion_day error", err)
				}
			} else if err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestApplyRejectsHorizonPastRecurRange(t *testing.T) {
	cfg, err := Parse([]byte("completion_day: 100\nrecurring:\n  - {name: midnight, expression: \"0 0 *\"}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	clock := simclock.New(cfg.CompletionDay, nil)
	fired := 0
	if err := cfg.Apply(clock, func(string) { fired++ }); err == nil {
		t.Fatal("Apply accepted a completion day past the recurring range")
	}

	// Matches that can be expressed are still scheduled: days 1 through 63.
	clock.Advance(simclock.MinutesInDays(cfg.CompletionDay))
	if fired != recur.MaxDay {
		t.Errorf("fired %d times, want %d", fired, recur.MaxDay)
	}
}

func TestApply(t *testing.T) {
	cfg, err := Parse([]byte(sampleScenario))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	clock := simclock.New(cfg.CompletionDay, nil)
	var fired []string
	if err := cfg.Apply(clock, func(name string) {
		fired = append(fired, name+"@"+clock.String())
	}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	clock.Advance(simclock.MinutesInDays(cfg.CompletionDay))

	want := []string{
		"six-hourly@day 0 06:00",
		"six-hourly@day 0 12:00",
		"six-hourly@day 0 18:00",
		"late-night@day 0 23:59",
		"six-hourly@day 1 00:00",
		"six-hourly@day 1 06:00",
		"breakfast@day 1 07:30",
		"six-hourly@day 1 12:00",
		"six-hourly@day 1 18:00",
		"six-hourly@day 2 00:00",
	}
	if !reflect.DeepEqual(fired, want) {
		t.Errorf("fired:\n%v\nwant:\n%v", fired, want)
	}
}

func TestApplyReportsPastEvents(t *testing.T) {
	cfg := Default()
	cfg.Events = []EventConfig{{Name: "too-early", Hour: 1}, {Name: "fine", Hour: 3}}

	clock := simclock.New(1, nil)
	clock.Advance(simclock.MinutesInHours(2))

	err := cfg.Apply(clock, func(string) {})
	if !errors.Is(err, simclock.ErrEventInPast) {
		t.Fatalf("Apply = %v, want ErrEventInPast", err)
	}
	if !strings.Contains(err.Error(), "too-early") {
		t.Errorf("error %q does not name the event", err)
	}
	if clock.ScheduledEventsCount() != 1 {
		t.Errorf("ScheduledEventsCount() = %d, want the valid event scheduled", clock.ScheduledEventsCount())
	}
}
