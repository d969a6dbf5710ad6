//go:build !windows

package sysinfo

import (
	"triageir/collectlog"
	"triageir/types"
)

func osVersion() string {
	return types.Unknown
}

func uptimeSeconds(log *collectlog.Log) uint64 {
	return 0
}

func memoryMB(log *collectlog.Log) (total float64, available float64) {
	return 0, 0
}

func loggedOnUsers(log *collectlog.Log) []types.LoggedOnUser {
	return []types.LoggedOnUser{}
}
