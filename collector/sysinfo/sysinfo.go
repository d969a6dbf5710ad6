// Package sysinfo collects host identity and resource facts: hostname, OS
// version, uptime, logged-on users, memory, and CPU count.
package sysinfo

import (
	"os"
	"runtime"

	"triageir/collectlog"
	"triageir/types"
)

// Collect returns a SystemInfo snapshot. It never fails the scan: on any
// platform-level error the affected fields fall back to zero values or
// "Unknown". A WARN entry is appended to log when the hostname or the
// memory figures cannot be determined; the other fallbacks are silent.
func Collect(log *collectlog.Log) types.SystemInfo {
	log.Info("Starting system info collection")

	info := types.SystemInfo{
		Hostname:      hostname(log),
		OSVersion:     osVersion(),
		CPUCount:      runtime.NumCPU(),
		LoggedOnUsers: loggedOnUsers(log),
	}
	info.UptimeSeconds = uptimeSeconds(log)
	info.TotalMemoryMB, info.AvailableMemoryMB = memoryMB(log)

	log.Info("System info collection completed")
	return info
}

func hostname(log *collectlog.Log) string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	if h := os.Getenv("COMPUTERNAME"); h != "" {
		return h
	}
	log.Warn("sysinfo: unable to determine hostname")
	return types.Unknown
}
