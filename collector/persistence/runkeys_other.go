//go:build !windows

package persistence

import (
	"triageir/collectlog"
	"triageir/types"
)

func runKeys(log *collectlog.Log) []types.PersistenceMechanism {
	return nil
}
