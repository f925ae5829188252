// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads simulation scenarios from YAML.
//
// A scenario names the completion day, how fast to play the run back,
// where to write the trace, and which events to schedule:
//
//	completion_day: 3
//	pacing:
//	  interval: 100ms
//	  batch: 60
//	trace: ${SIMCLOCK_OUT:-/tmp}/run.cbor
//	events:
//	  - {name: breakfast, day: 1, hour: 7, minute: 30}
//	recurring:
//	  - {name: hourly-report, expression: "0 * *"}
//
// The file comes from the SIMCLOCK_SCENARIO environment variable (via
// [Load]) or an explicit path (via [LoadFile]). There is no search
// path and no per-field environment override. The only expansion is
// ${VAR} and ${VAR:-default} in the trace path.
//
// Unknown keys are errors, so a misspelled field fails loudly instead
// of silently taking its default.
package config
