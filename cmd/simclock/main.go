// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/simclock/lib/config"
	"github.com/bureau-foundation/simclock/lib/process"
	"github.com/bureau-foundation/simclock/lib/trace"
	"github.com/bureau-foundation/simclock/lib/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		process.Fatal(err)
	}
}

// usageError is a flag or scenario problem. Exits with status 2.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }
func (e *usageError) ExitCode() int { return 2 }

func usage(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// options holds the parsed command line.
type options struct {
	scenarioPath string
	days         int
	interval     time.Duration
	batch        int
	tracePath    string
	logFormat    string
	logLevel     string
	metricsAddr  string
	dumpTrace    string
	showVersion  bool
	showHelp     bool

	// changed records which overriding flags were given explicitly.
	changed map[string]bool
}

func parseOptions(args []string, stderr io.Writer) (*options, *pflag.FlagSet, error) {
	opts := &options{changed: make(map[string]bool)}

	flagSet := pflag.NewFlagSet("simclock", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.scenarioPath, "scenario", "", "path to the scenario YAML file (default: $"+config.EnvironmentVariable+")")
	flagSet.IntVar(&opts.days, "days", 0, "override the scenario's completion day")
	flagSet.DurationVar(&opts.interval, "interval", 0, "override the wall time between batches (0 = as fast as possible)")
	flagSet.IntVar(&opts.batch, "batch", 0, "override the virtual minutes per batch")
	flagSet.StringVar(&opts.tracePath, "trace", "", "override the CBOR trace output path")
	flagSet.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, or error")
	flagSet.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")
	flagSet.StringVar(&opts.dumpTrace, "dump-trace", "", "print a CBOR trace file in diagnostic notation and exit")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
	flagSet.BoolVarP(&opts.showHelp, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			opts.showHelp = true
			return opts, flagSet, nil
		}
		return nil, nil, usage("%v", err)
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, nil, usage("unexpected argument: %s", rest[0])
	}

	for _, name := range []string{"days", "interval", "batch", "trace"} {
		opts.changed[name] = flagSet.Changed(name)
	}
	return opts, flagSet, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, flagSet, err := parseOptions(args, stderr)
	if err != nil {
		return err
	}
	if opts.showHelp {
		printHelp(stderr, flagSet)
		return nil
	}
	if opts.showVersion {
		version.Fprint(stdout, "simclock")
		return nil
	}
	if opts.dumpTrace != "" {
		return dumpTrace(opts.dumpTrace, stdout)
	}

	logger, err := newLogger(stderr, opts.logFormat, opts.logLevel)
	if err != nil {
		return usage("%v", err)
	}

	scenario, err := loadScenario(opts)
	if err != nil {
		return err
	}

	result, err := simulate(ctx, scenario, opts.metricsAddr, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "completed at %s after %d ticks in %d batches; %d events fired\n",
		result.clock, result.summary.Ticks, result.summary.Batches, result.fired)
	return nil
}

// loadScenario reads the scenario from --scenario, then
// SIMCLOCK_SCENARIO, then falls back to the default, and applies flag
// overrides.
func loadScenario(opts *options) (*config.Config, error) {
	var scenario *config.Config
	var err error
	switch {
	case opts.scenarioPath != "":
		scenario, err = config.LoadFile(opts.scenarioPath)
	case os.Getenv(config.EnvironmentVariable) != "":
		scenario, err = config.Load()
	default:
		scenario = config.Default()
	}
	if err != nil {
		return nil, usage("%v", err)
	}

	if opts.changed["days"] {
		scenario.CompletionDay = opts.days
	}
	if opts.changed["interval"] {
		scenario.Pacing.Interval = opts.interval.String()
	}
	if opts.changed["batch"] {
		scenario.Pacing.Batch = opts.batch
	}
	if opts.changed["trace"] {
		scenario.Trace = opts.tracePath
	}

	if err := scenario.Validate(); err != nil {
		return nil, usage("invalid scenario:\n%v", err)
	}
	return scenario, nil
}

// dumpTrace prints every item of the trace at path, one per line.
func dumpTrace(path string, stdout io.Writer) error {
	file, err := os.Open(path)
	if err != nil {
		return usage("opening trace: %v", err)
	}
	defer file.Close()

	if _, err := trace.Dump(file, stdout); err != nil {
		return fmt.Errorf("dumping %s: %w", path, err)
	}
	return nil
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var slogLevel slog.Level
	if err := slogLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	handlerOptions := &slog.HandlerOptions{Level: slogLevel}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, handlerOptions)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOptions)), nil
	default:
		return nil, fmt.Errorf("--log-format must be text or json, got %q", format)
	}
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `simclock runs a scenario on a minute-resolution virtual clock.

Usage:
  simclock [flags]

Flags:
%s
Scenario source, in order: --scenario, $%s, built-in default.
Use --dump-trace to inspect a trace written by an earlier run.
`, flagSet.FlagUsages(), config.EnvironmentVariable)
}
