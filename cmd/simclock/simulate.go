// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bureau-foundation/simclock/lib/clock"
	"github.com/bureau-foundation/simclock/lib/config"
	"github.com/bureau-foundation/simclock/lib/runner"
	"github.com/bureau-foundation/simclock/lib/simclock"
	"github.com/bureau-foundation/simclock/lib/trace"
)

// createTrace opens the trace output. Tests replace it.
var createTrace = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// result is what a finished simulation reports back to run.
type result struct {
	clock   string
	summary runner.Summary
	fired   int
}

// simulate builds the clock for scenario, schedules its events, and
// drives it to completion.
func simulate(ctx context.Context, scenario *config.Config, metricsAddr string, logger *slog.Logger) (_ result, err error) {
	interval, err := scenario.Pacing.IntervalDuration()
	if err != nil {
		return result{}, err
	}

	registry := prometheus.NewRegistry()
	if metricsAddr != "" {
		shutdown, err := serveMetrics(metricsAddr, registry, logger)
		if err != nil {
			return result{}, err
		}
		defer shutdown()
	}

	var recorder *trace.Writer
	if scenario.Trace != "" {
		file, createErr := createTrace(scenario.Trace)
		if createErr != nil {
			return result{}, fmt.Errorf("creating trace: %w", createErr)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("closing trace: %w", closeErr)
			}
		}()
		recorder = trace.NewWriter(file)
	}

	// Trace write failures surface after the run; the clock keeps
	// going so the summary stays meaningful.
	var traceErr error
	record := func(write func() error) {
		if recorder == nil || traceErr != nil {
			return
		}
		traceErr = write()
	}

	var virtual *simclock.Clock
	virtual = simclock.New(scenario.CompletionDay, func() {
		record(func() error { return recorder.Complete(virtual) })
	}, simclock.WithLogger(logger))

	fired := 0
	if err := scenario.Apply(virtual, func(name string) {
		fired++
		logger.Info("event fired", "event", name, "clock", virtual.String())
		record(func() error { return recorder.Event(virtual, name) })
	}); err != nil {
		return result{}, fmt.Errorf("scheduling scenario: %w", err)
	}
	logger.Debug("scenario scheduled",
		"buckets", virtual.ScheduledEventsCount(),
		"events", virtual.PendingEvents(),
	)

	driver, err := runner.New(runner.Config{
		Clock:      virtual,
		Wall:       clock.Real(),
		Interval:   interval,
		Batch:      scenario.Pacing.Batch,
		Logger:     logger,
		Registerer: registry,
	})
	if err != nil {
		return result{}, err
	}

	if err := driver.Run(ctx); err != nil {
		return result{}, err
	}
	if traceErr != nil {
		return result{}, traceErr
	}

	return result{
		clock:   virtual.String(),
		summary: driver.Summary(),
		fired:   fired,
	}, nil
}

// serveMetrics serves registry on address until the returned shutdown
// function is called.
func serveMetrics(address string, registry *prometheus.Registry, logger *slog.Logger) (func(), error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	logger.Info("serving metrics", "address", listener.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}
