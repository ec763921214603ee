package helpers

import (
	"testing"
	"time"
)

func TestParseFlexibleDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2030-01-02 15:04", time.Date(2030, 1, 2, 15, 4, 0, 0, time.Local)},
		{"2030-1-2 15:04", time.Date(2030, 1, 2, 15, 4, 0, 0, time.Local)},
		{"2030-01-02", time.Date(2030, 1, 2, 0, 0, 0, 0, time.Local)},
		{"02.01.2030 15:04", time.Date(2030, 1, 2, 15, 4, 0, 0, time.Local)},
		{"2.1.2030", time.Date(2030, 1, 2, 0, 0, 0, 0, time.Local)},
		{"  2030-01-02 15:04  ", time.Date(2030, 1, 2, 15, 4, 0, 0, time.Local)},
	}
	for _, tc := range cases {
		got, ok := ParseFlexibleDate(tc.in)
		if !ok {
			t.Fatalf("ParseFlexibleDate(%q) failed", tc.in)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseFlexibleDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseFlexibleDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "now", "tomorrow", "15:04", "01/02/2030"} {
		if _, ok := ParseFlexibleDate(in); ok {
			t.Fatalf("ParseFlexibleDate(%q) unexpectedly succeeded", in)
		}
	}
}
