package sysinfo

import (
	"testing"

	"triageir/collectlog"
)

func TestCollect_NeverPanicsAndLogsLifecycle(t *testing.T) {
	log := collectlog.New(false)
	info := Collect(log)

	if info.Hostname == "" {
		t.Error("Hostname should never be empty (falls back to \"Unknown\")")
	}
	if info.CPUCount <= 0 {
		t.Errorf("CPUCount = %d, want > 0", info.CPUCount)
	}
	if info.LoggedOnUsers == nil {
		t.Error("LoggedOnUsers should be an empty slice, not nil")
	}

	entries := log.Entries()
	if len(entries) < 2 {
		t.Fatalf("expected at least start/completion log entries, got %d", len(entries))
	}
	if entries[0].Message != "Starting system info collection" {
		t.Errorf("first entry = %q, want start message", entries[0].Message)
	}
	if entries[len(entries)-1].Message != "System info collection completed" {
		t.Errorf("last entry = %q, want completion message", entries[len(entries)-1].Message)
	}
}
