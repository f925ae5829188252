// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/simclock/lib/recur"
	"github.com/bureau-foundation/simclock/lib/simclock"
)

// EnvironmentVariable names the variable Load reads the scenario path
// from.
const EnvironmentVariable = "SIMCLOCK_SCENARIO"

// Config is a simulation scenario.
type Config struct {
	// CompletionDay is the day at which the run completes. Zero or
	// negative completes on the first tick.
	CompletionDay int `yaml:"completion_day"`

	// Pacing controls playback speed.
	Pacing PacingConfig `yaml:"pacing"`

	// Trace is the path of the CBOR trace file. Empty disables the
	// trace.
	Trace string `yaml:"trace"`

	// Events are one-shot events.
	Events []EventConfig `yaml:"events"`

	// Recurring are events expanded from a recur expression up to the
	// completion day.
	Recurring []RecurringConfig `yaml:"recurring"`
}

// PacingConfig controls how the driver advances the clock.
type PacingConfig struct {
	// Interval is the wall time between batches, as a Go duration
	// string. "0s" runs as fast as possible.
	// Default: 0s
	Interval string `yaml:"interval"`

	// Batch is the number of virtual minutes per batch.
	// Default: 60
	Batch int `yaml:"batch"`
}

// EventConfig is a one-shot event at day/hour/minute. Fields are folded
// with simclock.TotalMinutes, so hour 30 means day+1 at 06:00.
type EventConfig struct {
	Name   string `yaml:"name"`
	Day    int    `yaml:"day"`
	Hour   int    `yaml:"hour"`
	Minute int    `yaml:"minute"`
}

// RecurringConfig is a named recur expression.
type RecurringConfig struct {
	Name       string `yaml:"name"`
	Expression string `yaml:"expression"`
}

// Default returns a scenario with no events that completes after
// simclock.DefaultCompletionDay days, unpaced.
func Default() *Config {
	return &Config{
		CompletionDay: simclock.DefaultCompletionDay,
		Pacing: PacingConfig{
			Interval: "0s",
			Batch:    60,
		},
	}
}

// Load loads the scenario named by SIMCLOCK_SCENARIO. Fails if the
// variable is unset.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of a scenario file, or use --scenario", EnvironmentVariable)
	}
	return LoadFile(path)
}

// LoadFile loads the scenario at path over Default.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML scenario over Default and expands variables. An
// empty document yields Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	cfg.expandVariables()
	return cfg, nil
}

// IntervalDuration parses Pacing.Interval.
func (p PacingConfig) IntervalDuration() (time.Duration, error) {
	if p.Interval == "" {
		return 0, nil
	}
	return time.ParseDuration(p.Interval)
}

// Validate reports every problem in the scenario.
func (c *Config) Validate() error {
	var errs []error

	if c.Pacing.Batch < 1 {
		errs = append(errs, fmt.Errorf("pacing.batch must be at least 1, got %d", c.Pacing.Batch))
	}
	if interval, err := c.Pacing.IntervalDuration(); err != nil {
		errs = append(errs, fmt.Errorf("pacing.interval: %w", err))
	} else if interval < 0 {
		errs = append(errs, fmt.Errorf("pacing.interval must not be negative, got %s", interval))
	}

	for i, event := range c.Events {
		if event.Name == "" {
			errs = append(errs, fmt.Errorf("events[%d]: name is required", i))
		}
		if minute := simclock.TotalMinutes(event.Day, event.Hour, event.Minute); minute <= 0 {
			errs = append(errs, fmt.Errorf("events[%d] (%s): absolute minute %d is not after the start of the run", i, event.Name, minute))
		}
	}

	if len(c.Recurring) > 0 && c.CompletionDay > recur.MaxDay {
		errs = append(errs, fmt.Errorf("completion_day %d is past day %d, the last day a recurring expression can match", c.CompletionDay, recur.MaxDay))
	}
	for i, recurring := range c.Recurring {
		if recurring.Name == "" {
			errs = append(errs, fmt.Errorf("recurring[%d]: name is required", i))
		}
		if _, err := recur.Parse(recurring.Expression); err != nil {
			errs = append(errs, fmt.Errorf("recurring[%d] (%s): %w", i, recurring.Name, err))
		}
	}

	return errors.Join(errs...)
}

// Apply schedules every event in the scenario on clock. fire is called
// with the event's name when it fires. Recurring expressions are
// expanded from the clock's current minute through the end of the
// completion day; later matches could never fire. A completion day
// past recur.MaxDay is an error because matches after that day cannot
// be expressed. Apply schedules what it can and returns the joined
// errors for what it could not.
func (c *Config) Apply(clock *simclock.Clock, fire func(name string)) error {
	var errs []error

	for _, event := range c.Events {
		name := event.Name
		if err := clock.ScheduleEvent(event.Day, event.Hour, event.Minute, func() { fire(name) }); err != nil {
			errs = append(errs, fmt.Errorf("event %s: %w", name, err))
		}
	}

	horizon := simclock.MinutesInDays(clock.CompletionDay())
	if len(c.Recurring) > 0 && clock.CompletionDay() > recur.MaxDay {
		errs = append(errs, fmt.Errorf("recurring events stop at day %d, before completion day %d", recur.MaxDay, clock.CompletionDay()))
	}
	for _, recurring := range c.Recurring {
		schedule, err := recur.Parse(recurring.Expression)
		if err != nil {
			errs = append(errs, fmt.Errorf("recurring %s: %w", recurring.Name, err))
			continue
		}
		name := recurring.Name
		for _, minute := range schedule.Expand(clock.Minutes(), horizon) {
			if err := clock.ScheduleAt(minute, func() { fire(name) }); err != nil {
				errs = append(errs, fmt.Errorf("recurring %s at minute %d: %w", name, minute, err))
			}
		}
	}

	return errors.Join(errs...)
}

func (c *Config) expandVariables() {
	c.Trace = expandVars(c.Trace)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}
