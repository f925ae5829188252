// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Simclock runs a simulation scenario on a minute-resolution virtual
// clock.
//
// The scenario (see lib/config) names the completion day, the events
// to schedule, and the playback pace. Simclock schedules the events,
// drives the clock with lib/runner until the completion day is
// reached, and prints a one-line summary. Fired events are logged and,
// when a trace path is set, recorded as a CBOR sequence (lib/trace).
//
//	simclock --scenario run.yaml
//	simclock --days 7 --interval 100ms --batch 60 --trace /tmp/run.cbor
//
// Without --scenario the SIMCLOCK_SCENARIO variable is used; without
// either, an empty default scenario runs. Flags override scenario
// values. SIGINT and SIGTERM stop the run early with exit status 1.
//
// --metrics-addr serves the runner's Prometheus metrics on /metrics
// for the duration of the run.
package main
