// Package collectlog implements the bounded, thread-safe forensic
// collection log embedded in every scan report. It is distinct from the
// ambient logging package: logging is operator-facing process diagnostics,
// collectlog is the machine-readable record that ships inside the report's
// collection_log member.
package collectlog

import (
	"fmt"
	"os"
	"sync"
	"time"

	"triageir/types"
)

// MaxEntries bounds the log's memory footprint. Once full, appending
// drops the oldest entry.
const MaxEntries = 10000

// Log is a mutex-guarded bounded queue of types.LogEntry plus running
// level counters.
type Log struct {
	mu      sync.Mutex
	entries []types.LogEntry
	verbose bool

	info  int
	warn  int
	error int
}

// New creates an empty Log. When verbose is true every appended entry is
// also mirrored to standard error.
func New(verbose bool) *Log {
	return &Log{
		entries: make([]types.LogEntry, 0, 256),
		verbose: verbose,
	}
}

// Debug appends a DEBUG entry.
func (l *Log) Debug(format string, args ...any) {
	l.append(types.LevelDebug, fmt.Sprintf(format, args...))
}

// Info appends an INFO entry.
func (l *Log) Info(format string, args ...any) {
	l.append(types.LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a WARN entry.
func (l *Log) Warn(format string, args ...any) {
	l.append(types.LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an ERROR entry.
func (l *Log) Error(format string, args ...any) {
	l.append(types.LevelError, fmt.Sprintf(format, args...))
}

func (l *Log) append(level, message string) {
	entry := types.LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Message:   message,
	}

	l.mu.Lock()
	if len(l.entries) >= MaxEntries {
		l.evict(l.entries[0])
		l.entries = l.entries[1:]
	}
	l.entries = append(l.entries, entry)
	l.count(level)
	l.mu.Unlock()

	if l.verbose {
		fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", entry.Timestamp, entry.Level, entry.Message)
	}
}

func (l *Log) count(level string) {
	switch level {
	case types.LevelInfo:
		l.info++
	case types.LevelWarn:
		l.warn++
	case types.LevelError:
		l.error++
	}
}

func (l *Log) evict(entry types.LogEntry) {
	switch entry.Level {
	case types.LevelInfo:
		l.info--
	case types.LevelWarn:
		l.warn--
	case types.LevelError:
		l.error--
	}
}

// Entries returns a snapshot of the log in insertion order. Mutating the
// returned slice does not affect the log.
func (l *Log) Entries() []types.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]types.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Summary reports aggregate counts over the current (post-eviction)
// contents of the log.
type Summary struct {
	Total       int
	Info        int
	Warn        int
	Error       int
	SuccessRate float64
}

// Summary computes the current level breakdown and success rate.
// success_rate is 100*(total-error)/total, or 100 when total is 0.
func (l *Log) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := len(l.entries)
	s := Summary{Total: total, Info: l.info, Warn: l.warn, Error: l.error}
	if total == 0 {
		s.SuccessRate = 100
	} else {
		s.SuccessRate = 100 * float64(total-l.error) / float64(total)
	}
	return s
}

// CollectionSummary converts Summary into the wire-format
// types.CollectionSummary embedded in scan_metadata.
func (s Summary) CollectionSummary() types.CollectionSummary {
	return types.CollectionSummary{
		TotalLogs:    s.Total,
		ErrorCount:   s.Error,
		WarningCount: s.Warn,
		SuccessRate:  s.SuccessRate,
	}
}
