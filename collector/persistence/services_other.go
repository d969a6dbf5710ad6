//go:build !windows

package persistence

import (
	"triageir/collectlog"
	"triageir/types"
)

func services(log *collectlog.Log) []types.PersistenceMechanism {
	return nil
}
