//go:build windows

package network

import (
	"fmt"
	"net"
	"unsafe"

	"golang.org/x/sys/windows"

	"triageir/collectlog"
	"triageir/scanerrors"
	"triageir/types"
)

// tableFetchAttempts bounds collectlog.Retry's attempts at reading an
// extended connection table: the iphlpapi calls can fail transiently under
// load (table resized between the sizing and fetching call), which
// scanerrors classifies as retryable network errors.
const tableFetchAttempts = 3

// rawTable holds an extended-table fetch's raw bytes and row count so it
// can flow through collectlog.Retry as a single value.
type rawTable struct {
	buf   []byte
	count uint32
}

// fetchTable retries extendedTable up to tableFetchAttempts times,
// classifying failures under sentinel's kind (ErrTCPTableUnavailable or
// ErrUDPTableUnavailable) so collectlog.Retry knows they're retryable
// network errors rather than giving up after one attempt.
func fetchTable(log *collectlog.Log, proc *windows.LazyProc, family, tableClass uint32, sentinel *scanerrors.Error, label string) (rawTable, bool) {
	result, attempts, err := collectlog.Retry(tableFetchAttempts, func() (rawTable, error) {
		buf, count, rawErr := extendedTable(proc, family, tableClass)
		if rawErr != nil {
			return rawTable{}, scanerrors.Wrap(rawErr, sentinel.Kind, "network."+label)
		}
		return rawTable{buf, count}, nil
	})
	if err != nil {
		log.Warn("network: %s unavailable after %d attempt(s): %v", label, attempts, err)
		return rawTable{}, false
	}
	if attempts > 1 {
		log.Info("network: %s recovered after %d attempts", label, attempts)
	}
	return result, true
}

var (
	modiphlpapi             = windows.NewLazySystemDLL("iphlpapi.dll")
	procGetExtendedTcpTable = modiphlpapi.NewProc("GetExtendedTcpTable")
	procGetExtendedUdpTable = modiphlpapi.NewProc("GetExtendedUdpTable")
)

const (
	afINET  = 2
	afINET6 = 23

	tcpTableOwnerPIDAll = 5
	udpTableOwnerPID    = 1
)

type tcpRowOwnerPID struct {
	State      uint32
	LocalAddr  uint32
	LocalPort  uint32
	RemoteAddr uint32
	RemotePort uint32
	OwningPID  uint32
}

type tcp6RowOwnerPID struct {
	LocalAddr     [16]byte
	LocalScopeID  uint32
	LocalPort     uint32
	RemoteAddr    [16]byte
	RemoteScopeID uint32
	RemotePort    uint32
	State         uint32
	OwningPID     uint32
}

type udpRowOwnerPID struct {
	LocalAddr uint32
	LocalPort uint32
	OwningPID uint32
}

type udp6RowOwnerPID struct {
	LocalAddr    [16]byte
	LocalScopeID uint32
	LocalPort    uint32
	OwningPID    uint32
}

// extendedTable calls GetExtendedTcpTable/GetExtendedUdpTable, growing the
// buffer until it fits, and returns the raw bytes plus entry count.
func extendedTable(proc *windows.LazyProc, family, tableClass uint32) ([]byte, uint32, error) {
	var size uint32
	r, _, _ := proc.Call(0, uintptr(unsafe.Pointer(&size)), 0, uintptr(family), uintptr(tableClass), 0)
	if r != uintptr(windows.ERROR_INSUFFICIENT_BUFFER) && size == 0 {
		return nil, 0, fmt.Errorf("failed to size table: 0x%X", r)
	}

	buf := make([]byte, size)
	r, _, _ = proc.Call(uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&size)), 0, uintptr(family), uintptr(tableClass), 0)
	if r != 0 {
		return nil, 0, fmt.Errorf("failed to read table: 0x%X", r)
	}

	count := *(*uint32)(unsafe.Pointer(&buf[0]))
	return buf, count, nil
}

func swapPort(raw uint32) uint16 {
	return uint16(raw&0xFF)<<8 | uint16((raw>>8)&0xFF)
}

func ipv4String(addr uint32) string {
	b := (*[4]byte)(unsafe.Pointer(&addr))
	return net.IPv4(b[0], b[1], b[2], b[3]).String()
}

func ipv6String(addr [16]byte) string {
	return net.IP(addr[:]).String()
}

func tcpConnections(log *collectlog.Log) []types.NetworkConnection {
	var out []types.NetworkConnection

	table, ok := fetchTable(log, procGetExtendedTcpTable, afINET, tcpTableOwnerPIDAll, scanerrors.ErrTCPTableUnavailable, "IPv4 TCP table")
	if ok {
		buf, count := table.buf, table.count
		rowSize := unsafe.Sizeof(tcpRowOwnerPID{})
		base := uintptr(unsafe.Pointer(&buf[0])) + unsafe.Sizeof(uint32(0))
		for i := uint32(0); i < count; i++ {
			row := (*tcpRowOwnerPID)(unsafe.Pointer(base + uintptr(i)*rowSize))
			local := ipv4String(row.LocalAddr)
			remote := ipv4String(row.RemoteAddr)
			out = append(out, types.NetworkConnection{
				Protocol:      "TCP",
				LocalAddress:  local,
				LocalPort:     swapPort(row.LocalPort),
				RemoteAddress: remote,
				RemotePort:    swapPort(row.RemotePort),
				State:         tcpStateName(row.State),
				OwningPID:     row.OwningPID,
				IsExternal:    isExternal(remote),
			})
		}
	}

	table6, ok6 := fetchTable(log, procGetExtendedTcpTable, afINET6, tcpTableOwnerPIDAll, scanerrors.ErrTCPTableUnavailable, "IPv6 TCP table")
	if ok6 {
		buf6, count6 := table6.buf, table6.count
		rowSize := unsafe.Sizeof(tcp6RowOwnerPID{})
		base := uintptr(unsafe.Pointer(&buf6[0])) + unsafe.Sizeof(uint32(0))
		for i := uint32(0); i < count6; i++ {
			row := (*tcp6RowOwnerPID)(unsafe.Pointer(base + uintptr(i)*rowSize))
			local := ipv6String(row.LocalAddr)
			remote := ipv6String(row.RemoteAddr)
			out = append(out, types.NetworkConnection{
				Protocol:      "TCP",
				LocalAddress:  local,
				LocalPort:     swapPort(row.LocalPort),
				RemoteAddress: remote,
				RemotePort:    swapPort(row.RemotePort),
				State:         tcpStateName(row.State),
				OwningPID:     row.OwningPID,
				IsExternal:    isExternal(remote),
			})
		}
	}

	return out
}

func udpConnections(log *collectlog.Log) []types.NetworkConnection {
	var out []types.NetworkConnection

	table, ok := fetchTable(log, procGetExtendedUdpTable, afINET, udpTableOwnerPID, scanerrors.ErrUDPTableUnavailable, "IPv4 UDP table")
	if ok {
		buf, count := table.buf, table.count
		rowSize := unsafe.Sizeof(udpRowOwnerPID{})
		base := uintptr(unsafe.Pointer(&buf[0])) + unsafe.Sizeof(uint32(0))
		for i := uint32(0); i < count; i++ {
			row := (*udpRowOwnerPID)(unsafe.Pointer(base + uintptr(i)*rowSize))
			out = append(out, types.NetworkConnection{
				Protocol:      "UDP",
				LocalAddress:  ipv4String(row.LocalAddr),
				LocalPort:     swapPort(row.LocalPort),
				RemoteAddress: "*",
				RemotePort:    0,
				State:         "LISTENING",
				OwningPID:     row.OwningPID,
				IsExternal:    false,
			})
		}
	}

	table6, ok6 := fetchTable(log, procGetExtendedUdpTable, afINET6, udpTableOwnerPID, scanerrors.ErrUDPTableUnavailable, "IPv6 UDP table")
	if ok6 {
		buf6, count6 := table6.buf, table6.count
		rowSize := unsafe.Sizeof(udp6RowOwnerPID{})
		base := uintptr(unsafe.Pointer(&buf6[0])) + unsafe.Sizeof(uint32(0))
		for i := uint32(0); i < count6; i++ {
			row := (*udp6RowOwnerPID)(unsafe.Pointer(base + uintptr(i)*rowSize))
			out = append(out, types.NetworkConnection{
				Protocol:      "UDP",
				LocalAddress:  ipv6String(row.LocalAddr),
				LocalPort:     swapPort(row.LocalPort),
				RemoteAddress: "*",
				RemotePort:    0,
				State:         "LISTENING",
				OwningPID:     row.OwningPID,
				IsExternal:    false,
			})
		}
	}

	return out
}
