package network

import (
	"testing"

	"triageir/collectlog"
)

func TestTCPStateName(t *testing.T) {
	cases := map[uint32]string{
		1:  "CLOSED",
		2:  "LISTEN",
		5:  "ESTABLISHED",
		11: "TIME_WAIT",
		12: "DELETE_TCB",
	}
	for state, want := range cases {
		if got := tcpStateName(state); got != want {
			t.Errorf("tcpStateName(%d) = %q, want %q", state, got, want)
		}
	}

	if got := tcpStateName(99); got != "UNKNOWN(99)" {
		t.Errorf("tcpStateName(99) = %q, want UNKNOWN(99)", got)
	}
}

func TestIsExternal(t *testing.T) {
	internal := []string{"127.0.0.1", "::1", "0.0.0.0", "::", "*"}
	for _, addr := range internal {
		if isExternal(addr) {
			t.Errorf("isExternal(%q) = true, want false", addr)
		}
	}

	external := []string{"8.8.8.8", "2001:4860:4860::8888", "192.168.1.50"}
	for _, addr := range external {
		if !isExternal(addr) {
			t.Errorf("isExternal(%q) = false, want true", addr)
		}
	}
}

func TestCollect_SortedByProtocolThenAddress(t *testing.T) {
	log := collectlog.New(false)
	conns := Collect(log)

	for i := 1; i < len(conns); i++ {
		prev, cur := conns[i-1], conns[i]
		if prev.Protocol > cur.Protocol {
			t.Fatalf("connections not sorted by protocol at index %d", i)
		}
		if prev.Protocol == cur.Protocol && prev.LocalAddress > cur.LocalAddress {
			t.Fatalf("connections not sorted by local address at index %d", i)
		}
	}

	entries := log.Entries()
	if len(entries) < 2 {
		t.Fatalf("expected at least start/completion log entries, got %d", len(entries))
	}
}
