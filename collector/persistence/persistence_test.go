package persistence

import (
	"testing"

	"triageir/collectlog"
)

func TestIsSuspiciousCommand(t *testing.T) {
	cases := map[string]bool{
		`C:\Temp\u.exe`:                    true,
		`C:\Windows\System32\svchost.exe`:  false,
		`C:\Users\bob\Desktop\tool.vbs`:    true,
		`powershell -enc aGVsbG8=`:         true,
		`C:\Program Files\App\app.exe`:     false,
	}
	for cmd, want := range cases {
		if got := isSuspiciousCommand(cmd); got != want {
			t.Errorf("isSuspiciousCommand(%q) = %v, want %v", cmd, got, want)
		}
	}
}

func TestIsSuspiciousServicePath(t *testing.T) {
	if isSuspiciousServicePath("wuauserv", `C:\Windows\Temp\evil.exe`) {
		t.Error("well-known service name must never be flagged regardless of path")
	}
	if !isSuspiciousServicePath("WeirdSvc", `C:\Users\bob\AppData\Local\svc.exe`) {
		t.Error("expected AppData path outside allow-list to be flagged")
	}
	if isSuspiciousServicePath("WeirdSvc", `C:\Windows\System32\drivers\svc.sys`) {
		t.Error("expected path inside system32 to not be flagged")
	}
	if !isSuspiciousServicePath("WeirdSvc", `C:\CustomDir\svc.exe`) {
		t.Error("expected path outside standard system directories to be flagged")
	}
}

func TestCollect_SortedByTypeThenName(t *testing.T) {
	log := collectlog.New(false)
	mechanisms := Collect(log)

	for i := 1; i < len(mechanisms); i++ {
		prev, cur := mechanisms[i-1], mechanisms[i]
		if prev.Type > cur.Type {
			t.Fatalf("not sorted by type at index %d", i)
		}
		if prev.Type == cur.Type && prev.Name > cur.Name {
			t.Fatalf("not sorted by name at index %d", i)
		}
	}
}
