// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package trace records what happened during a simulation run as a
// CBOR sequence: one record per fired event and one for completion.
//
// A trace is an output of a run, not a snapshot of clock state. It
// cannot be loaded back into a clock.
package trace

import (
	"errors"
	"fmt"
	"io"

	"github.com/bureau-foundation/simclock/lib/codec"
	"github.com/bureau-foundation/simclock/lib/simclock"
)

// Kind distinguishes trace records.
type Kind string

const (
	// KindEvent marks a fired scheduled event.
	KindEvent Kind = "event"

	// KindComplete marks the completion of the run.
	KindComplete Kind = "complete"
)

// Record is one entry in a trace. Minute is the absolute minute; Day,
// Hour, and MinuteOfHour are the clock's derived fields at that moment.
type Record struct {
	Sequence     uint64 `cbor:"seq"`
	Kind         Kind   `cbor:"kind"`
	Name         string `cbor:"name,omitempty"`
	Minute       int    `cbor:"minute"`
	Day          int    `cbor:"day"`
	Hour         int    `cbor:"hour"`
	MinuteOfHour int    `cbor:"minute_of_hour"`
}

// Writer appends records to a CBOR sequence. Not safe for concurrent
// use; it is called from clock callbacks, which are already serialized.
type Writer struct {
	encoder  *codec.Encoder
	sequence uint64
}

// NewWriter returns a Writer encoding to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{encoder: codec.NewEncoder(w)}
}

// Write assigns the next sequence number to record and encodes it.
func (w *Writer) Write(record Record) error {
	w.sequence++
	record.Sequence = w.sequence
	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("trace: writing record %d: %w", record.Sequence, err)
	}
	return nil
}

// Event writes a KindEvent record for name at the clock's current time.
func (w *Writer) Event(clock *simclock.Clock, name string) error {
	return w.Write(recordAt(clock, KindEvent, name))
}

// Complete writes a KindComplete record at the clock's current time.
func (w *Writer) Complete(clock *simclock.Clock) error {
	return w.Write(recordAt(clock, KindComplete, ""))
}

// Written returns the number of records written.
func (w *Writer) Written() uint64 { return w.sequence }

func recordAt(clock *simclock.Clock, kind Kind, name string) Record {
	return Record{
		Kind:         kind,
		Name:         name,
		Minute:       clock.Minutes(),
		Day:          clock.Day(),
		Hour:         clock.Hour(),
		MinuteOfHour: clock.Minute(),
	}
}

// ReadAll decodes every record from r.
func ReadAll(r io.Reader) ([]Record, error) {
	decoder := codec.NewDecoder(r)
	var records []Record
	for {
		var record Record
		err := decoder.Decode(&record)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, fmt.Errorf("trace: reading record %d: %w", len(records)+1, err)
		}
		records = append(records, record)
	}
}

// Dump writes each item of the trace in r to w as one line of RFC 8949
// diagnostic notation. It does not require the items to be Records, so
// it also shows traces written by other versions.
func Dump(r io.Reader, w io.Writer) (int, error) {
	decoder := codec.NewDecoder(r)
	count := 0
	for {
		var raw codec.RawMessage
		err := decoder.Decode(&raw)
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("trace: reading item %d: %w", count+1, err)
		}
		diagnostic, err := codec.Diagnose(raw)
		if err != nil {
			return count, fmt.Errorf("trace: item %d: %w", count+1, err)
		}
		if _, err := fmt.Fprintln(w, diagnostic); err != nil {
			return count, err
		}
		count++
	}
}
