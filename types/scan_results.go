package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// New creates a ScanResults with a freshly generated scan_id and the
// current instant as scan_start_utc. The start instant is not stored on
// the record; Finalize takes it as a parameter to compute
// scan_duration_ms.
func New(hostname, osVersion, cliVersion string) *ScanResults {
	start := time.Now().UTC()
	return &ScanResults{
		ScanMetadata: ScanMetadata{
			ScanID:       uuid.NewString(),
			ScanStartUTC: start.Format(time.RFC3339),
			Hostname:     hostname,
			OSVersion:    osVersion,
			CLIVersion:   cliVersion,
		},
		Artifacts: Artifacts{
			RunningProcesses:      []Process{},
			NetworkConnections:    []NetworkConnection{},
			PersistenceMechanisms: []PersistenceMechanism{},
			EventLogs: EventLogs{
				Security:    []EventLogEntry{},
				System:      []EventLogEntry{},
				Application: []EventLogEntry{},
			},
			ExecutionEvidence: ExecutionEvidence{
				PrefetchFiles:    []PrefetchFile{},
				ShimcacheEntries: []ShimcacheEntry{},
			},
		},
		CollectionLog: []LogEntry{},
	}
}

// TotalArtifacts sums every artifact collection's length.
func (r *ScanResults) TotalArtifacts() int {
	a := r.Artifacts
	return len(a.RunningProcesses) + len(a.NetworkConnections) +
		len(a.PersistenceMechanisms) + len(a.EventLogs.Security) +
		len(a.EventLogs.System) + len(a.EventLogs.Application) +
		len(a.ExecutionEvidence.PrefetchFiles) + len(a.ExecutionEvidence.ShimcacheEntries)
}

// Finalize computes scan_duration_ms from start, fills in
// total_artifacts and collection_summary, and sets collection_log to log
// (replacing any earlier contents). It adds no log entry of its own. It
// must be called exactly once, after every collector has run.
func (r *ScanResults) Finalize(start time.Time, log []LogEntry) {
	r.ScanMetadata.ScanDurationMS = time.Since(start).Milliseconds()
	if r.ScanMetadata.ScanDurationMS < 0 {
		r.ScanMetadata.ScanDurationMS = 0
	}
	r.ScanMetadata.TotalArtifacts = r.TotalArtifacts()
	r.CollectionLog = log
	r.ScanMetadata.CollectionSummary = summarize(log)
}

func summarize(log []LogEntry) CollectionSummary {
	s := CollectionSummary{TotalLogs: len(log)}
	for _, e := range log {
		switch e.Level {
		case LevelError:
			s.ErrorCount++
		case LevelWarn:
			s.WarningCount++
		}
	}
	if s.TotalLogs == 0 {
		s.SuccessRate = 100
	} else {
		s.SuccessRate = 100 * float64(s.TotalLogs-s.ErrorCount) / float64(s.TotalLogs)
	}
	return s
}

// Validate checks the invariants spec'd for a completed ScanResults. It
// is a test and diagnostic helper, not part of the wire contract.
func (r *ScanResults) Validate() error {
	if _, err := uuid.Parse(r.ScanMetadata.ScanID); err != nil {
		return fmt.Errorf("scan_id is not a valid UUID: %w", err)
	}
	if _, err := time.Parse(time.RFC3339, r.ScanMetadata.ScanStartUTC); err != nil {
		return fmt.Errorf("scan_start_utc is not RFC 3339: %w", err)
	}
	if r.ScanMetadata.ScanDurationMS < 0 {
		return fmt.Errorf("scan_duration_ms is negative: %d", r.ScanMetadata.ScanDurationMS)
	}
	if got, want := r.ScanMetadata.TotalArtifacts, r.TotalArtifacts(); got != want {
		return fmt.Errorf("total_artifacts = %d, want %d", got, want)
	}
	for _, p := range r.Artifacts.RunningProcesses {
		if p.ExecutablePath != NA && p.SHA256Hash != HashError && p.SHA256Hash != "" {
			if len(p.SHA256Hash) != 64 || strings.ToLower(p.SHA256Hash) != p.SHA256Hash {
				return fmt.Errorf("process %d: sha256_hash %q is not 64 lower-hex characters", p.PID, p.SHA256Hash)
			}
		}
	}
	for _, e := range r.CollectionLog {
		switch e.Level {
		case LevelDebug, LevelInfo, LevelWarn, LevelError:
		default:
			return fmt.Errorf("log entry has invalid level %q", e.Level)
		}
		if _, err := time.Parse(time.RFC3339, e.Timestamp); err != nil {
			return fmt.Errorf("log entry timestamp %q is not RFC 3339: %w", e.Timestamp, err)
		}
	}
	return nil
}
