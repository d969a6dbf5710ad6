package collectlog

import (
	"testing"
	"time"

	"triageir/types"
)

func TestAppendAndEntries(t *testing.T) {
	l := New(false)
	l.Info("starting")
	l.Warn("degraded: %s", "registry")
	l.Error("fatal: %s", "bad parse")

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[0].Level != types.LevelInfo || entries[1].Level != types.LevelWarn || entries[2].Level != types.LevelError {
		t.Errorf("entries in unexpected order: %+v", entries)
	}
	for _, e := range entries {
		if _, err := time.Parse(time.RFC3339, e.Timestamp); err != nil {
			t.Errorf("entry timestamp %q is not RFC 3339: %v", e.Timestamp, err)
		}
	}
}

func TestCapacityEviction(t *testing.T) {
	l := New(false)
	for i := 0; i < 15000; i++ {
		l.Info("entry %d", i)
	}

	entries := l.Entries()
	if len(entries) != MaxEntries {
		t.Fatalf("len(entries) = %d, want %d", len(entries), MaxEntries)
	}
	if entries[len(entries)-1].Message != "entry 14999" {
		t.Errorf("last entry = %q, want the most recently appended entry", entries[len(entries)-1].Message)
	}
	if entries[0].Message != "entry 5000" {
		t.Errorf("first entry = %q, want the oldest surviving entry", entries[0].Message)
	}
}

func TestSummary(t *testing.T) {
	l := New(false)
	l.Info("a")
	l.Info("b")
	l.Warn("c")
	l.Error("d")

	s := l.Summary()
	if s.Total != 4 || s.Info != 2 || s.Warn != 1 || s.Error != 1 {
		t.Errorf("Summary() = %+v, want Total=4 Info=2 Warn=1 Error=1", s)
	}
	wantRate := 100 * float64(3) / float64(4)
	if s.SuccessRate != wantRate {
		t.Errorf("SuccessRate = %v, want %v", s.SuccessRate, wantRate)
	}
}

func TestSummary_EmptyLogIsFullSuccess(t *testing.T) {
	l := New(false)
	if got := l.Summary().SuccessRate; got != 100 {
		t.Errorf("SuccessRate = %v, want 100 for empty log", got)
	}
}

func TestSummary_CountersSurviveEviction(t *testing.T) {
	l := New(false)
	for i := 0; i < MaxEntries; i++ {
		l.Error("e%d", i)
	}
	// Push MaxEntries/2 INFO entries; half the ERROR entries should evict.
	for i := 0; i < MaxEntries/2; i++ {
		l.Info("i%d", i)
	}

	s := l.Summary()
	if s.Total != MaxEntries {
		t.Fatalf("Total = %d, want %d", s.Total, MaxEntries)
	}
	if s.Error != MaxEntries/2 {
		t.Errorf("Error = %d, want %d", s.Error, MaxEntries/2)
	}
	if s.Info != MaxEntries/2 {
		t.Errorf("Info = %d, want %d", s.Info, MaxEntries/2)
	}
}

func TestCollectionSummary(t *testing.T) {
	l := New(false)
	l.Warn("w")
	l.Error("e")

	cs := l.Summary().CollectionSummary()
	if cs.TotalLogs != 2 || cs.ErrorCount != 1 || cs.WarningCount != 1 {
		t.Errorf("CollectionSummary() = %+v, want TotalLogs=2 ErrorCount=1 WarningCount=1", cs)
	}
}
