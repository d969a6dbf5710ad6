// Package eventlog reads curated entries from the classic Security, System,
// and Application Windows Event Logs.
package eventlog

import (
	"sort"

	"triageir/collectlog"
	"triageir/types"
)

// maxRecordsPerLog bounds both runtime and memory when a log holds an
// adversarially large number of records.
const maxRecordsPerLog = 1024

// eventBufferSize is the reusable read buffer's capacity.
const eventBufferSize = 64 * 1024

// logNames are read in this fixed order; each maps to its own field on
// types.EventLogs.
var logNames = []string{"Security", "System", "Application"}

// filterEntry is one curated (event ID -> canonical message) mapping.
type filterEntry struct {
	message string
}

// curatedFilter lists the event IDs considered forensically interesting.
// Message resource strings are not resolved from provider DLLs; this
// fixed dictionary is the message source, matching the source CLI's
// deliberate simplification.
var curatedFilter = map[uint32]filterEntry{
	4624: {"An account was successfully logged on"},
	4625: {"An account failed to log on"},
	4634: {"An account was logged off"},
	4648: {"A logon was attempted using explicit credentials"},
	4672: {"Special privileges assigned to new logon"},
	4688: {"A new process has been created"},
	4697: {"A service was installed in the system"},
	4698: {"A scheduled task was created"},
	4699: {"A scheduled task was deleted"},
	4700: {"A scheduled task was enabled"},
	4702: {"A scheduled task was updated"},
	4720: {"A user account was created"},
	4722: {"A user account was enabled"},
	4724: {"An attempt was made to reset an account's password"},
	4728: {"A member was added to a security-enabled global group"},
	4732: {"A member was added to a security-enabled local group"},
	4768: {"A Kerberos authentication ticket (TGT) was requested"},
	4769: {"A Kerberos service ticket was requested"},
	7034: {"A service terminated unexpectedly"},
	7035: {"A service was sent a control signal"},
	7036: {"A service entered the running or stopped state"},
	7040: {"The start type of a service was changed"},
	7045: {"A service was installed in the system"},
	1102: {"The audit log was cleared"},
	6005: {"The Event log service was started"},
	6006: {"The Event log service was stopped"},
	6008: {"The previous system shutdown was unexpected"},
	1000: {"Application error"},
	1001: {"Windows Error Reporting"},
}

// Collect reads the Security, System, and Application logs and returns
// their curated entries, newest first.
func Collect(log *collectlog.Log) types.EventLogs {
	log.Info("Starting event log collection")

	result := types.EventLogs{
		Security:    readLog(log, "Security"),
		System:      readLog(log, "System"),
		Application: readLog(log, "Application"),
	}

	log.Info("Event log collection completed")
	return result
}

func sortNewestFirst(entries []types.EventLogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
}

// levelFromEventType maps the classic EVENTLOGRECORD.EventType field to the
// report's level vocabulary.
func levelFromEventType(eventType uint16) string {
	switch eventType {
	case 1: // EVENTLOG_ERROR_TYPE
		return "Error"
	case 2: // EVENTLOG_WARNING_TYPE
		return "Warning"
	case 4: // EVENTLOG_INFORMATION_TYPE
		return "Information"
	case 8: // EVENTLOG_AUDIT_SUCCESS
		return "Audit Success"
	case 16: // EVENTLOG_AUDIT_FAILURE
		return "Audit Failure"
	default:
		return "Unknown"
	}
}
