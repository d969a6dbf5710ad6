//go:build windows

package process

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"triageir/collectlog"
	"triageir/scanerrors"
	"triageir/types"
)

type procEntry struct {
	pid       uint32
	parentPID uint32
	name      string
}

func snapshot(log *collectlog.Log) ([]procEntry, error) {
	h, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, fmt.Errorf("CreateToolhelp32Snapshot: %w", err)
	}
	defer windows.CloseHandle(h)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Process32First(h, &entry); err != nil {
		return nil, fmt.Errorf("Process32First: %w", err)
	}

	var out []procEntry
	for {
		out = append(out, procEntry{
			pid:       entry.ProcessID,
			parentPID: entry.ParentProcessID,
			name:      windows.UTF16ToString(entry.ExeFile[:]),
		})

		if err := windows.Process32Next(h, &entry); err != nil {
			break
		}
	}
	return out, nil
}

func modules(log *collectlog.Log, pid uint32) []types.ProcessModule {
	h, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPMODULE|windows.TH32CS_SNAPMODULE32, pid)
	if err != nil {
		log.Debug("process: %s", scanerrors.WrapWithDetail(err, scanerrors.ErrModuleEnumFailed.Kind, "process.modules", fmt.Sprintf("pid %d", pid)).Error())
		return []types.ProcessModule{}
	}
	defer windows.CloseHandle(h)

	var entry windows.ModuleEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Module32First(h, &entry); err != nil {
		log.Debug("process: %s", scanerrors.WrapWithDetail(err, scanerrors.ErrModuleEnumFailed.Kind, "process.modules", fmt.Sprintf("pid %d", pid)).Error())
		return []types.ProcessModule{}
	}

	var out []types.ProcessModule
	for {
		path := windows.UTF16ToString(entry.ExePath[:])
		out = append(out, types.ProcessModule{
			Name:           windows.UTF16ToString(entry.Module[:]),
			FilePath:       path,
			BaseAddress:    fmt.Sprintf("0x%X", uintptr(unsafe.Pointer(entry.ModBaseAddr))),
			Size:           uint64(entry.ModBaseSize),
			Version:        fileVersion(path),
			IsSystemModule: isSystemModulePath(path),
		})

		if err := windows.Module32Next(h, &entry); err != nil {
			break
		}
	}
	return out
}

func imagePath(log *collectlog.Log, pid uint32) string {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		log.Debug("process: %s", wrapOpenProcessErr(err, pid).Error())
		return types.NA
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return types.NA
	}
	return windows.UTF16ToString(buf[:size])
}

func owningUser(pid uint32) string {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return types.Unknown
	}
	defer windows.CloseHandle(h)

	var token windows.Token
	if err := windows.OpenProcessToken(h, windows.TOKEN_QUERY, &token); err != nil {
		return types.Unknown
	}
	defer token.Close()

	tokenUser, err := token.GetTokenUser()
	if err != nil {
		return types.Unknown
	}

	account, domain, _, err := tokenUser.User.Sid.LookupAccount("")
	if err != nil {
		return types.Unknown
	}
	if domain == "" {
		return account
	}
	return domain + `\` + account
}

func memoryUsageMB(pid uint32) float64 {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION|windows.PROCESS_VM_READ, false, pid)
	if err != nil {
		return 0
	}
	defer windows.CloseHandle(h)

	var counters processMemoryCounters
	counters.cb = uint32(unsafe.Sizeof(counters))
	if err := getProcessMemoryInfo(h, &counters); err != nil {
		return 0
	}
	const mb = 1024 * 1024
	return float64(counters.workingSetSize) / mb
}

func commandLine(pid uint32) string {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_VM_READ, false, pid)
	if err != nil {
		return types.NA
	}
	defer windows.CloseHandle(h)

	cmd, err := readCommandLine(h)
	if err != nil || cmd == "" {
		return types.NA
	}
	return cmd
}

// wrapOpenProcessErr classifies an OpenProcess failure: ERROR_INVALID_PARAMETER
// means the process exited between enumeration and inspection, anything else
// is treated as access denied (the common case for protected/elevated
// processes under a non-elevated token).
func wrapOpenProcessErr(err error, pid uint32) *scanerrors.Error {
	detail := fmt.Sprintf("pid %d", pid)
	if err == windows.ERROR_INVALID_PARAMETER {
		return scanerrors.WrapWithDetail(err, scanerrors.ErrProcessExited.Kind, "process.open_process", detail)
	}
	return scanerrors.WrapWithDetail(err, scanerrors.ErrProcessAccessDenied.Kind, "process.open_process", detail)
}

func fileVersion(path string) string {
	if path == "" {
		return types.Unknown
	}
	v, err := readFileVersion(path)
	if err != nil || v == "" {
		return types.Unknown
	}
	return v
}
