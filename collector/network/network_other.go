//go:build !windows

package network

import (
	"triageir/collectlog"
	"triageir/types"
)

func tcpConnections(log *collectlog.Log) []types.NetworkConnection {
	return []types.NetworkConnection{}
}

func udpConnections(log *collectlog.Log) []types.NetworkConnection {
	return []types.NetworkConnection{}
}
