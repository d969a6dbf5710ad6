//go:build windows

package process

import (
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

// processMemoryCounters mirrors PROCESS_MEMORY_COUNTERS (psapi.h); x/sys
// does not export it directly, only the procedure to fill it.
type processMemoryCounters struct {
	cb                         uint32
	pageFaultCount             uint32
	peakWorkingSetSize         uintptr
	workingSetSize             uintptr
	quotaPeakPagedPoolUsage    uintptr
	quotaPagedPoolUsage        uintptr
	quotaPeakNonPagedPoolUsage uintptr
	quotaNonPagedPoolUsage     uintptr
	pagefileUsage              uintptr
	peakPagefileUsage          uintptr
}

var (
	modpsapi                 = windows.NewLazySystemDLL("psapi.dll")
	procGetProcessMemoryInfo = modpsapi.NewProc("GetProcessMemoryInfo")
)

func getProcessMemoryInfo(h windows.Handle, counters *processMemoryCounters) error {
	r, _, err := procGetProcessMemoryInfo.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(counters)),
		uintptr(counters.cb),
	)
	if r == 0 {
		return err
	}
	return nil
}

// processBasicInformation mirrors PROCESS_BASIC_INFORMATION (ntdll.h) as
// exposed by NtQueryInformationProcess.
type processBasicInformation struct {
	ExitStatus                   uintptr
	PebBaseAddress                uintptr
	AffinityMask                 uintptr
	BasePriority                  uintptr
	UniqueProcessID               uintptr
	InheritedFromUniqueProcessID uintptr
}

type unicodeString struct {
	Length        uint16
	MaximumLength uint16
	_             uint32 // padding to align the pointer on 64-bit
	Buffer        uintptr
}

var (
	modntdll                         = windows.NewLazySystemDLL("ntdll.dll")
	procNtQueryInformationProcess    = modntdll.NewProc("NtQueryInformationProcess")
)

const processBasicInformationClass = 0

// readCommandLine reads the target process's command line out of its PEB
// via NtQueryInformationProcess + ReadProcessMemory. This requires the
// caller's token to have PROCESS_VM_READ on the target, which fails
// silently (returns an error) for protected or elevated processes.
func readCommandLine(h windows.Handle) (string, error) {
	var info processBasicInformation
	var returnLength uint32

	r, _, _ := procNtQueryInformationProcess.Call(
		uintptr(h),
		uintptr(processBasicInformationClass),
		uintptr(unsafe.Pointer(&info)),
		uintptr(unsafe.Sizeof(info)),
		uintptr(unsafe.Pointer(&returnLength)),
	)
	if r != 0 {
		return "", fmt.Errorf("NtQueryInformationProcess failed: 0x%X", r)
	}
	if info.PebBaseAddress == 0 {
		return "", fmt.Errorf("null PEB address")
	}

	// PEB.ProcessParameters sits at offset 0x20 on 64-bit Windows.
	processParamsAddr, err := readPointer(h, info.PebBaseAddress+0x20)
	if err != nil {
		return "", err
	}

	// RTL_USER_PROCESS_PARAMETERS.CommandLine (a UNICODE_STRING) sits at
	// offset 0x70 on 64-bit Windows.
	var cmdLine unicodeString
	if err := readProcessMemory(h, processParamsAddr+0x70, unsafe.Pointer(&cmdLine), unsafe.Sizeof(cmdLine)); err != nil {
		return "", err
	}
	if cmdLine.Length == 0 {
		return "", nil
	}

	buf := make([]uint16, cmdLine.Length/2)
	if err := readProcessMemory(h, cmdLine.Buffer, unsafe.Pointer(&buf[0]), uintptr(cmdLine.Length)); err != nil {
		return "", err
	}
	return strings.TrimRight(windows.UTF16ToString(buf), "\x00"), nil
}

func readPointer(h windows.Handle, addr uintptr) (uintptr, error) {
	var val uintptr
	if err := readProcessMemory(h, addr, unsafe.Pointer(&val), unsafe.Sizeof(val)); err != nil {
		return 0, err
	}
	return val, nil
}

func readProcessMemory(h windows.Handle, addr uintptr, buf unsafe.Pointer, size uintptr) error {
	var nRead uintptr
	err := windows.ReadProcessMemory(h, addr, (*byte)(buf), size, &nRead)
	if err != nil {
		return err
	}
	if nRead != size {
		return fmt.Errorf("short read: got %d of %d bytes", nRead, size)
	}
	return nil
}

var (
	modversion              = windows.NewLazySystemDLL("version.dll")
	procGetFileVersionInfoSizeW = modversion.NewProc("GetFileVersionInfoSizeW")
	procGetFileVersionInfoW     = modversion.NewProc("GetFileVersionInfoW")
	procVerQueryValueW          = modversion.NewProc("VerQueryValueW")
)

type fixedFileInfo struct {
	Signature        uint32
	StrucVersion     uint32
	FileVersionMS    uint32
	FileVersionLS    uint32
	ProductVersionMS uint32
	ProductVersionLS uint32
	FileFlagsMask    uint32
	FileFlags        uint32
	FileOS           uint32
	FileType         uint32
	FileSubtype      uint32
	FileDateMS       uint32
	FileDateLS       uint32
}

// readFileVersion reads the FileVersion resource embedded in a PE image
// via the classic version.dll API.
func readFileVersion(path string) (string, error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return "", err
	}

	size, _, _ := procGetFileVersionInfoSizeW.Call(uintptr(unsafe.Pointer(pathPtr)), 0)
	if size == 0 {
		return "", fmt.Errorf("GetFileVersionInfoSizeW: no version resource")
	}

	buf := make([]byte, size)
	r, _, err := procGetFileVersionInfoW.Call(uintptr(unsafe.Pointer(pathPtr)), 0, size, uintptr(unsafe.Pointer(&buf[0])))
	if r == 0 {
		return "", err
	}

	var infoPtr uintptr
	var infoLen uint32
	rootPtr, _ := windows.UTF16PtrFromString(`\`)
	r, _, err = procVerQueryValueW.Call(
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(rootPtr)),
		uintptr(unsafe.Pointer(&infoPtr)),
		uintptr(unsafe.Pointer(&infoLen)),
	)
	if r == 0 || infoPtr == 0 {
		return "", err
	}

	ffi := (*fixedFileInfo)(unsafe.Pointer(infoPtr))
	return fmt.Sprintf("%d.%d.%d.%d",
		ffi.FileVersionMS>>16, ffi.FileVersionMS&0xFFFF,
		ffi.FileVersionLS>>16, ffi.FileVersionLS&0xFFFF), nil
}

func isSystemModulePath(path string) bool {
	lower := strings.ToLower(path)
	for _, dir := range []string{`\windows\system32\`, `\windows\syswow64\`, `\windows\winsxs\`} {
		if strings.Contains(lower, dir) {
			return true
		}
	}
	return false
}
