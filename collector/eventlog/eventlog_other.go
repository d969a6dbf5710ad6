//go:build !windows

package eventlog

import (
	"triageir/collectlog"
	"triageir/types"
)

func readLog(log *collectlog.Log, name string) []types.EventLogEntry {
	return []types.EventLogEntry{}
}
