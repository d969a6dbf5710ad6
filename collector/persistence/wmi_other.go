//go:build !windows

package persistence

import (
	"triageir/collectlog"
	"triageir/types"
)

func wmiEventConsumers(log *collectlog.Log) []types.PersistenceMechanism {
	return nil
}
