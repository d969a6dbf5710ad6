// Package persistence enumerates the boot/logon persistence surface:
// registry Run keys, startup folders, suspicious services, scheduled
// tasks, and WMI event consumers. Each sub-collector fails closed: a
// failure produces a log entry and an empty contribution rather than
// aborting the whole pass. Most failures are logged at WARN; a failed
// scheduled-task query is classified fatal and logged at ERROR, and a
// failed WMI query is logged at DEBUG.
package persistence

import (
	"sort"
	"strings"

	"triageir/collectlog"
	"triageir/types"
)

// Collect runs every persistence sub-collector and returns their combined
// output sorted by (type, name).
func Collect(log *collectlog.Log) []types.PersistenceMechanism {
	log.Info("Starting persistence collection")

	var out []types.PersistenceMechanism
	out = append(out, runKeys(log)...)
	out = append(out, startupFolders(log)...)
	out = append(out, services(log)...)
	out = append(out, scheduledTasks(log)...)
	out = append(out, wmiEventConsumers(log)...)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Name < out[j].Name
	})

	log.Info("Found %d persistence mechanisms", len(out))
	log.Info("Persistence collection completed")
	return out
}

// wellKnownServices is the allow-list of well-known Windows service names
// excluded from the suspicious-services heuristic.
var wellKnownServices = map[string]bool{
	"wuauserv": true, "bits": true, "dhcp": true, "dnscache": true,
	"eventlog": true, "lanmanserver": true, "lanmanworkstation": true,
	"rpcss": true, "schedule": true, "spooler": true, "winmgmt": true,
	"w32time": true, "themes": true, "audiosrv": true, "browser": true,
	"cryptsvc": true, "dcomlaunch": true, "plugplay": true, "power": true,
	"profsvc": true, "samss": true, "seclogon": true, "sens": true,
	"sharedaccess": true, "shellhwdetection": true, "trustedinstaller": true,
	"usosvc": true, "vaultsvc": true, "wscsvc": true, "wsearch": true,
	"mpssvc": true, "windefend": true, "netlogon": true, "lsm": true,
}

var suspiciousPathSubstrings = []string{
	"temp", "tmp", "appdata", "downloads", "desktop", "documents", "public", "programdata",
}

var suspiciousPathSuffixes = []string{
	".bat", ".cmd", ".ps1", ".vbs", ".js", ".jar", ".scr",
}

var standardSystemDirs = []string{
	"system32", "syswow64", "program files", "windows",
}

var suspiciousCommandTokens = []string{
	"temp", "appdata", "public", "desktop", "documents",
	".bat", ".cmd", ".ps1", ".vbs", ".js", ".jar", ".scr",
	"powershell", "cmd.exe", "wscript", "cscript", "regsvr32",
	"rundll32", "mshta", "bitsadmin", "certutil",
}

// isSuspiciousCommand applies the command-based suspiciousness heuristic
// shared by registry Run keys, startup folder entries, and scheduled
// tasks. It is purely informational and never gates collection.
func isSuspiciousCommand(command string) bool {
	lower := strings.ToLower(command)
	for _, token := range suspiciousCommandTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}
