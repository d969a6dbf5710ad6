// Package scan orchestrates a single collection pass across every
// collector and assembles the final report.
package scan

import (
	"fmt"
	"log/slog"
	"time"

	"triageir/collector/eventlog"
	"triageir/collector/network"
	"triageir/collector/persistence"
	"triageir/collector/prefetch"
	"triageir/collector/process"
	"triageir/collector/shimcache"
	"triageir/collector/sysinfo"
	"triageir/collectlog"
	"triageir/logging"
	"triageir/types"
)

// cliVersion is stamped into every report's scan_metadata.cli_version.
const cliVersion = "1.0.0"

// Config holds the options the orchestrator needs that originate outside
// the core (CLI flags, environment). It carries no output-destination
// details; that's the output package's concern.
type Config struct {
	Verbose bool
}

// collect runs one collector under a scan/collector-scoped ambient slog
// logger (logging.WithCollector), emitting a DEBUG start/finish pair. This
// is the operator-facing log stream, separate from the *collectlog.Log
// entries fn's own collector appends to the report itself.
func collect[T any](logger *slog.Logger, name string, fn func() T) T {
	clogger := logging.WithCollector(logger, name)
	clogger.Debug("collector starting")
	result := fn()
	clogger.Debug("collector finished")
	return result
}

// Run executes the fixed collector sequence — system-info, processes,
// network, persistence, event-logs, prefetch, shimcache — and returns the
// finalized report; the collection log's error/warn counts are in its
// scan_metadata.collection_summary. Run itself never returns an error: per-collector failures are recorded
// in the report's collection log, never surfaced as a Go error. The
// caller maps collection_summary.error_count to the process's exit code.
func Run(cfg Config) *types.ScanResults {
	start := time.Now().UTC()
	log := collectlog.New(cfg.Verbose)

	log.Info("Starting scan")

	info := sysinfo.Collect(log)
	result := types.New(info.Hostname, info.OSVersion, cliVersion)
	result.Artifacts.SystemInfo = info

	scanLogger := logging.WithScanID(logging.Default(), result.ScanMetadata.ScanID)

	result.Artifacts.RunningProcesses = collect(scanLogger, "process", func() []types.Process {
		return process.Collect(log)
	})
	result.Artifacts.NetworkConnections = correlateProcessNames(scanLogger,
		collect(scanLogger, "network", func() []types.NetworkConnection { return network.Collect(log) }),
		result.Artifacts.RunningProcesses)
	result.Artifacts.PersistenceMechanisms = collect(scanLogger, "persistence", func() []types.PersistenceMechanism {
		return persistence.Collect(log)
	})
	result.Artifacts.EventLogs = collect(scanLogger, "eventlog", func() types.EventLogs {
		return eventlog.Collect(log)
	})
	result.Artifacts.ExecutionEvidence = types.ExecutionEvidence{
		PrefetchFiles:    collect(scanLogger, "prefetch", func() []types.PrefetchFile { return prefetch.Collect(log) }),
		ShimcacheEntries: collect(scanLogger, "shimcache", func() []types.ShimcacheEntry { return shimcache.Collect(log) }),
	}

	log.Info("Scan completed")

	result.Finalize(start, log.Entries())
	return result
}

// correlateProcessNames fills network.ProcessName in by matching
// owning_pid against the process collector's output, since the network
// collector itself has no visibility into process names. A PID with no
// match (its owning process exited between the network and process
// snapshots) is logged at DEBUG with the PID attached as the artifact.
func correlateProcessNames(logger *slog.Logger, conns []types.NetworkConnection, processes []types.Process) []types.NetworkConnection {
	byPID := make(map[uint32]string, len(processes))
	for _, p := range processes {
		byPID[p.PID] = p.Name
	}

	for i := range conns {
		if name, ok := byPID[conns[i].OwningPID]; ok {
			conns[i].ProcessName = name
		} else {
			conns[i].ProcessName = types.Unknown
			logging.WithArtifact(logger, fmt.Sprintf("pid:%d", conns[i].OwningPID)).Debug("no owning process found for connection")
		}
	}
	return conns
}

// ExitCode maps a finalized report's collection summary to the process
// exit code spec'd in the CLI surface: 0 clean, 2 when any ERROR-level
// entry was logged. Exit code 1 (fatal output failure) is decided by the
// output package, not here, since it depends on serialization/write
// outcomes that happen after Run returns.
func ExitCode(result *types.ScanResults) int {
	if result.ScanMetadata.CollectionSummary.ErrorCount > 0 {
		return 2
	}
	return 0
}
