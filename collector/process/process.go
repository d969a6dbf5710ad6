// Package process enumerates running processes, their loaded modules,
// and the SHA-256 hash of each process's on-disk executable image.
package process

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sort"

	"triageir/collectlog"
	"triageir/scanerrors"
	"triageir/types"
)

// maxHashWarnings caps WARN emission for hash failures so a system with
// many locked/ephemeral executables does not flood the collection log.
// Failures beyond the cap are still counted, just not logged individually.
const maxHashWarnings = 5

// Collect enumerates every process visible to the current token, computes
// each executable's SHA-256 hash, and lists loaded modules where the
// platform allows it. The result is sorted by PID ascending.
func Collect(log *collectlog.Log) []types.Process {
	log.Info("Starting process enumeration")

	entries, err := snapshot(log)
	if err != nil {
		log.Warn("process: failed to snapshot process table: %v", err)
		log.Info("Process enumeration completed")
		return []types.Process{}
	}

	log.Info("Found %d running processes", len(entries))

	hashFailures := 0
	processes := make([]types.Process, 0, len(entries))
	for _, e := range entries {
		p := types.Process{
			PID:            e.pid,
			ParentPID:      e.parentPID,
			Name:           e.name,
			CommandLine:    commandLine(e.pid),
			ExecutablePath: imagePath(log, e.pid),
			User:           owningUser(e.pid),
			LoadedModules:  modules(log, e.pid),
		}
		p.MemoryUsageMB = memoryUsageMB(e.pid)

		hash, hashErr := hashExecutable(p.ExecutablePath)
		p.SHA256Hash = hash
		if p.SHA256Hash == types.HashError {
			hashFailures++
			if hashFailures <= maxHashWarnings {
				log.Warn("process: %s", scanerrors.WrapWithDetail(hashErr, scanerrors.ErrHashFailed.Kind, "process.hash_executable", p.ExecutablePath).Error())
			}
		}

		processes = append(processes, p)
	}

	if hashFailures > maxHashWarnings {
		log.Warn("Failed to calculate hashes for %d processes", hashFailures)
	}

	sort.Slice(processes, func(i, j int) bool { return processes[i].PID < processes[j].PID })

	log.Info("Process enumeration completed")
	return processes
}

func hashExecutable(path string) (string, error) {
	if path == "" || path == types.NA {
		return types.NA, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return types.HashError, err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, 8192)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return types.HashError, err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
