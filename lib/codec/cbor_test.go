// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	Zebra int    `cbor:"zebra"`
	Apple string `cbor:"apple"`
}

func TestMarshalIsDeterministic(t *testing.T) {
	first, err := Marshal(map[string]int{"b": 2, "a": 1, "c": 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 10 {
		again, err := Marshal(map[string]int{"c": 3, "a": 1, "b": 2})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encodings differ: %x vs %x", first, again)
		}
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	data, err := Marshal(map[string]any{"zebra": 7, "apple": "red", "extra": true})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded sample
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Zebra != 7 || decoded.Apple != "red" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestUnmarshalAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(sample{Zebra: 1, Apple: "x"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := decoded.(map[string]any); !ok {
		t.Fatalf("decoded %T, want map[string]any", decoded)
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(sample{Zebra: 1, Apple: "x"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	apple := strings.Index(diagnostic, `"apple"`)
	zebra := strings.Index(diagnostic, `"zebra"`)
	if apple < 0 || zebra < 0 || apple > zebra {
		t.Errorf("Diagnose = %s, want sorted keys apple then zebra", diagnostic)
	}
}
