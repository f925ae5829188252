// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package simclock

import "testing"

func TestUnitConversions(t *testing.T) {
	if got := MinutesInHours(3); got != 180 {
		t.Errorf("MinutesInHours(3) = %d, want 180", got)
	}
	if got := MinutesInDays(2); got != 2880 {
		t.Errorf("MinutesInDays(2) = %d, want 2880", got)
	}

	tests := []struct {
		day, hour, minute int
		want              int
	}{
		{0, 0, 0, 0},
		{1, 11, 45, 2145},
		{0, 25, 0, 1500},
		{1, 0, -1, 1439},
		{0, 0, 90, 90},
		{-1, 0, 0, -1440},
	}
	for _, test := range tests {
		if got := TotalMinutes(test.day, test.hour, test.minute); got != test.want {
			t.Errorf("TotalMinutes(%d, %d, %d) = %d, want %d",
				test.day, test.hour, test.minute, got, test.want)
		}
	}
}
