package utils

import (
	"strings"
	"testing"
	"time"
)

func TestDateUTCNormalizesZone(t *testing.T) {
	// 23:30 in Sao Paulo (UTC-3) is already the next day in UTC.
	loc := time.FixedZone("BRT", -3*60*60)
	at := time.Date(2025, 6, 10, 23, 30, 0, 0, loc)

	if got := DateUTC(at); got != "2025-06-11" {
		t.Errorf("DateUTC = %q, want 2025-06-11", got)
	}
	if got := PrevDateUTC(at); got != "2025-06-10" {
		t.Errorf("PrevDateUTC = %q, want 2025-06-10", got)
	}
}

func TestPrevDateUTCAcrossMonth(t *testing.T) {
	at := time.Date(2025, 3, 1, 5, 0, 0, 0, time.UTC)
	if got := PrevDateUTC(at); got != "2025-02-28" {
		t.Errorf("PrevDateUTC = %q, want 2025-02-28", got)
	}
}

func TestNewCouponCodeShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := NewCouponCode()
		parts := strings.Split(code, "-")
		if len(parts) != 3 || parts[0] != "FIT" {
			t.Fatalf("code %q, want FIT-<millis>-<suffix>", code)
		}
		if len(parts[1]) < 13 || len(parts[2]) != 8 {
			t.Fatalf("code %q has malformed timestamp or suffix", code)
		}
		if code != strings.ToUpper(code) {
			t.Fatalf("code %q not uppercase", code)
		}
		if seen[code] {
			t.Fatalf("duplicate code %q in 100 draws", code)
		}
		seen[code] = true
	}
}
