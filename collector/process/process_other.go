//go:build !windows

package process

import (
	"triageir/collectlog"
	"triageir/types"
)

type procEntry struct {
	pid       uint32
	parentPID uint32
	name      string
}

func snapshot(log *collectlog.Log) ([]procEntry, error) {
	return []procEntry{}, nil
}

func modules(log *collectlog.Log, pid uint32) []types.ProcessModule {
	return []types.ProcessModule{}
}

func imagePath(log *collectlog.Log, pid uint32) string {
	return types.NA
}

func owningUser(pid uint32) string {
	return types.Unknown
}

func memoryUsageMB(pid uint32) float64 {
	return 0
}

func commandLine(pid uint32) string {
	return types.NA
}
