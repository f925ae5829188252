// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern used when a test waits on a goroutine it started, such as a
// runner playing back a simulation against a fake wall clock. They are
// the only place tests touch real wall time, and only as a hang
// guard: a passing test never waits for the timeout.
//
// All helpers call t.Fatalf on failure.
package testutil
