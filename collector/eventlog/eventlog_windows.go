//go:build windows

package eventlog

import (
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"triageir/collectlog"
	"triageir/scanerrors"
	"triageir/types"
)

var (
	modadvapi32                 = windows.NewLazySystemDLL("advapi32.dll")
	procOpenEventLogW           = modadvapi32.NewProc("OpenEventLogW")
	procCloseEventLog           = modadvapi32.NewProc("CloseEventLog")
	procReadEventLogW           = modadvapi32.NewProc("ReadEventLogW")
	procGetNumberOfEventLogRecords = modadvapi32.NewProc("GetNumberOfEventLogRecords")
	procGetOldestEventLogRecord = modadvapi32.NewProc("GetOldestEventLogRecord")
)

// recordCount and oldestRecord wrap GetNumberOfEventLogRecords and
// GetOldestEventLogRecord. readLog does not call them: it reads backwards
// (newest first, matching the report's sort order) and stops at
// maxRecordsPerLog or end of log, so it needs neither for its loop bounds.
func recordCount(h windows.Handle) uint32 {
	var n uint32
	procGetNumberOfEventLogRecords.Call(uintptr(h), uintptr(unsafe.Pointer(&n)))
	return n
}

func oldestRecord(h windows.Handle) uint32 {
	var n uint32
	procGetOldestEventLogRecord.Call(uintptr(h), uintptr(unsafe.Pointer(&n)))
	return n
}

const (
	eventlogSequentialRead = 0x0001
	eventlogBackwardsRead  = 0x0008
	errorHandleEOF         = 38
)

// eventLogRecordHeader mirrors the fixed-size prefix of EVENTLOGRECORD; the
// variable-length source name, computer name, SID, strings, and data
// follow it in the same buffer.
type eventLogRecordHeader struct {
	Length              uint32
	Reserved            uint32
	RecordNumber        uint32
	TimeGenerated       uint32
	TimeWritten         uint32
	EventID             uint32
	EventType           uint16
	NumStrings          uint16
	EventCategory       uint16
	ReservedFlags       uint16
	ClosingRecordNumber uint32
	StringOffset        uint32
	UserSidLength       uint32
	UserSidOffset       uint32
	DataLength          uint32
	DataOffset          uint32
}

// readLog opens one classic event log by name and decodes up to
// maxRecordsPerLog of its most recent records, keeping only the ones whose
// event ID appears in curatedFilter. Any failure to open or read the log
// is logged at WARN and yields an empty sequence.
func readLog(clog *collectlog.Log, name string) []types.EventLogEntry {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		clog.Warn("eventlog: invalid log name %q: %v", name, err)
		return []types.EventLogEntry{}
	}

	h, _, callErr := procOpenEventLogW.Call(0, uintptr(unsafe.Pointer(namePtr)))
	if h == 0 {
		clog.Warn("eventlog: %s", scanerrors.WrapWithDetail(callErr, scanerrors.ErrEventLogOpenFailed.Kind, "eventlog.read_log", name).Error())
		return []types.EventLogEntry{}
	}
	handle := windows.Handle(h)
	defer procCloseEventLog.Call(uintptr(handle))

	entries := make([]types.EventLogEntry, 0, maxRecordsPerLog)
	buf := make([]byte, eventBufferSize)

	flags := uintptr(eventlogSequentialRead | eventlogBackwardsRead)
	for len(entries) < maxRecordsPerLog {
		var bytesRead, bytesNeeded uint32
		r, _, callErr := procReadEventLogW.Call(
			uintptr(handle),
			flags,
			0,
			uintptr(unsafe.Pointer(&buf[0])),
			uintptr(len(buf)),
			uintptr(unsafe.Pointer(&bytesRead)),
			uintptr(unsafe.Pointer(&bytesNeeded)),
		)
		if r == 0 {
			if callErr == windows.Errno(errorHandleEOF) {
				break
			}
			clog.Warn("eventlog: %s", scanerrors.WrapWithDetail(callErr, scanerrors.ErrEventLogReadFailed.Kind, "eventlog.read_log", name).Error())
			break
		}

		offset := uint32(0)
		for offset < bytesRead && len(entries) < maxRecordsPerLog {
			if offset+uint32(unsafe.Sizeof(eventLogRecordHeader{})) > bytesRead {
				break
			}
			rec := (*eventLogRecordHeader)(unsafe.Pointer(&buf[offset]))
			if rec.Length == 0 || offset+rec.Length > bytesRead {
				break
			}

			id := rec.EventID & 0xFFFF
			if entry, ok := curatedFilter[id]; ok {
				entries = append(entries, types.EventLogEntry{
					EventID:   id,
					Level:     levelFromEventType(rec.EventType),
					Timestamp: filetimeFromUnixSeconds(rec.TimeGenerated),
					Message:   entry.message,
					Source:    name,
				})
			}

			offset += rec.Length
		}
	}

	sortNewestFirst(entries)
	return entries
}

// filetimeFromUnixSeconds converts the classic EVENTLOGRECORD's
// seconds-since-1970 timestamp field to RFC 3339.
func filetimeFromUnixSeconds(seconds uint32) string {
	return time.Unix(int64(seconds), 0).UTC().Format(time.RFC3339)
}
