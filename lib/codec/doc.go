// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is the single place this module configures CBOR.
//
// Encoding uses Core Deterministic Encoding (RFC 8949 §4.2), so the
// same trace records always produce the same bytes and two traces of
// the same scenario can be compared with cmp. Decoding ignores unknown
// fields, so older readers accept traces written by newer binaries.
//
// Callers import this package instead of fxamacker/cbor directly.
package codec
