package id

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestNewLoanID_TimestampPrefix(t *testing.T) {
	at := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	got := NewLoanID(at)

	wantPrefix := strconv.FormatInt(at.UnixMilli(), 10)
	if !strings.HasPrefix(got, wantPrefix) {
		t.Fatalf("id %q does not start with %q", got, wantPrefix)
	}
	if len(got) != len(wantPrefix)+8 {
		t.Fatalf("id length = %d, want %d", len(got), len(wantPrefix)+8)
	}
}

func TestNewLoanID_UniqueWithinSameMillisecond(t *testing.T) {
	at := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id := NewLoanID(at)
		if seen[id] {
			t.Fatalf("duplicate id after %d draws: %s", i, id)
		}
		seen[id] = true
	}
}
