// Package network collects the OS's TCP and UDP connection tables.
package network

import (
	"fmt"
	"sort"

	"triageir/collectlog"
	"triageir/types"
)

// Collect returns every TCP and UDP connection visible to the current
// token, sorted by protocol then local address. owning_pid is filled in
// from the OS table; process_name is left blank here and correlated by
// the orchestrator against the process collector's output.
func Collect(log *collectlog.Log) []types.NetworkConnection {
	log.Info("Starting network connection collection")

	tcp := tcpConnections(log)
	udp := udpConnections(log)

	conns := make([]types.NetworkConnection, 0, len(tcp)+len(udp))
	conns = append(conns, tcp...)
	conns = append(conns, udp...)

	sort.Slice(conns, func(i, j int) bool {
		if conns[i].Protocol != conns[j].Protocol {
			return conns[i].Protocol < conns[j].Protocol
		}
		return conns[i].LocalAddress < conns[j].LocalAddress
	})

	log.Info("Found %d network connections", len(conns))
	log.Info("Network connection collection completed")
	return conns
}

// tcpStateName maps the MIB_TCP_STATE codes used by GetExtendedTcpTable.
func tcpStateName(state uint32) string {
	switch state {
	case 1:
		return "CLOSED"
	case 2:
		return "LISTEN"
	case 3:
		return "SYN_SENT"
	case 4:
		return "SYN_RCVD"
	case 5:
		return "ESTABLISHED"
	case 6:
		return "FIN_WAIT1"
	case 7:
		return "FIN_WAIT2"
	case 8:
		return "CLOSE_WAIT"
	case 9:
		return "CLOSING"
	case 10:
		return "LAST_ACK"
	case 11:
		return "TIME_WAIT"
	case 12:
		return "DELETE_TCB"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", state)
	}
}

// isExternal is false for loopback, the unspecified address, or the UDP
// remote placeholder.
func isExternal(address string) bool {
	switch address {
	case "127.0.0.1", "::1", "0.0.0.0", "::", "*":
		return false
	default:
		return true
	}
}
