//go:build windows

package sysinfo

import (
	"fmt"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"triageir/collectlog"
	"triageir/types"
)

func osVersion() string {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		return types.Unknown
	}
	defer k.Close()

	product, _, err := k.GetStringValue("ProductName")
	if err != nil || product == "" {
		return types.Unknown
	}
	build, _, _ := k.GetStringValue("CurrentBuildNumber")
	if build == "" {
		return product
	}
	return fmt.Sprintf("%s (Build %s)", product, build)
}

func uptimeSeconds(log *collectlog.Log) uint64 {
	ms := windows.GetTickCount64()
	return ms / 1000
}

// memStatusEx mirrors MEMORYSTATUSEX; x/sys/windows does not export it.
type memStatusEx struct {
	Length               uint32
	MemoryLoad           uint32
	TotalPhys            uint64
	AvailPhys            uint64
	TotalPageFile        uint64
	AvailPageFile        uint64
	TotalVirtual         uint64
	AvailVirtual         uint64
	AvailExtendedVirtual uint64
}

var (
	modkernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGlobalMemoryStatusEx = modkernel32.NewProc("GlobalMemoryStatusEx")
)

func memoryMB(log *collectlog.Log) (total float64, available float64) {
	var m memStatusEx
	m.Length = uint32(unsafe.Sizeof(m))

	r, _, _ := procGlobalMemoryStatusEx.Call(uintptr(unsafe.Pointer(&m)))
	if r == 0 {
		log.Warn("sysinfo: GlobalMemoryStatusEx failed")
		return 0, 0
	}

	const mb = 1024 * 1024
	return float64(m.TotalPhys) / mb, float64(m.AvailPhys) / mb
}

func loggedOnUsers(log *collectlog.Log) []types.LoggedOnUser {
	username := os.Getenv("USERNAME")
	if username == "" {
		return []types.LoggedOnUser{}
	}
	domain := os.Getenv("USERDOMAIN")
	if domain == "" {
		domain = "WORKGROUP"
	}

	return []types.LoggedOnUser{
		{
			Username:  username,
			Domain:    domain,
			LogonTime: time.Now().UTC().Format(time.RFC3339),
		},
	}
}
