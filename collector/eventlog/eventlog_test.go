package eventlog

import (
	"testing"

	"triageir/collectlog"
	"triageir/types"
)

func TestLevelFromEventType(t *testing.T) {
	cases := map[uint16]string{
		1:  "Error",
		2:  "Warning",
		4:  "Information",
		8:  "Audit Success",
		16: "Audit Failure",
		99: "Unknown",
	}
	for eventType, want := range cases {
		if got := levelFromEventType(eventType); got != want {
			t.Errorf("levelFromEventType(%d) = %q, want %q", eventType, got, want)
		}
	}
}

func TestSortNewestFirst(t *testing.T) {
	entries := []types.EventLogEntry{
		{Timestamp: "2024-01-01T00:00:00Z"},
		{Timestamp: "2024-06-01T00:00:00Z"},
		{Timestamp: "2024-03-01T00:00:00Z"},
	}
	sortNewestFirst(entries)

	want := []string{"2024-06-01T00:00:00Z", "2024-03-01T00:00:00Z", "2024-01-01T00:00:00Z"}
	for i, w := range want {
		if entries[i].Timestamp != w {
			t.Errorf("entries[%d].Timestamp = %q, want %q", i, entries[i].Timestamp, w)
		}
	}
}

func TestCuratedFilterContainsWellKnownIDs(t *testing.T) {
	for _, id := range []uint32{4624, 4688, 6005} {
		if _, ok := curatedFilter[id]; !ok {
			t.Errorf("curatedFilter missing well-known event ID %d", id)
		}
	}
}

func TestCollect_EmptyLogsProduceLifecycleEntriesOnly(t *testing.T) {
	log := collectlog.New(false)
	result := Collect(log)

	if result.Security == nil || result.System == nil || result.Application == nil {
		t.Fatal("event log sequences must never be nil")
	}

	entries := log.Entries()
	if len(entries) < 2 {
		t.Fatalf("expected at least start/completion log entries, got %d", len(entries))
	}
	if entries[0].Message != "Starting event log collection" {
		t.Errorf("first log entry = %q, want start message", entries[0].Message)
	}
	if entries[len(entries)-1].Message != "Event log collection completed" {
		t.Errorf("last log entry = %q, want completion message", entries[len(entries)-1].Message)
	}
}
