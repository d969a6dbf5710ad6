package persistence

import (
	"bytes"
	"encoding/csv"
	"os/exec"
	"path"
	"strings"

	"triageir/collectlog"
	"triageir/scanerrors"
	"triageir/types"
)

// scheduled-task CSV columns as emitted by `schtasks /query /fo csv /v`.
const (
	colHostname = iota
	colTaskName
	colNextRunTime
	colStatus
	colLogonMode
	colLastRunTime
	colLastResult
	colAuthor
	colTaskToRun
	colStartIn
	colComment
	colScheduledTaskState
	colIdleTime
	colPowerManagement
	colRunAsUser
)

// scheduledTasks invokes the OS task enumerator and parses its verbose CSV
// export. A task is reported when its Status is Ready or Running, or when
// its command matches the suspicious-command predicate; everything else is
// dropped as uninteresting. A row with too few columns is skipped with a
// DEBUG entry rather than aborting the whole collector.
func scheduledTasks(log *collectlog.Log) []types.PersistenceMechanism {
	return collectlog.DegradeValue(log, "persistence.scheduled_tasks", func() ([]types.PersistenceMechanism, error) {
		return queryScheduledTasks(log)
	})
}

func queryScheduledTasks(log *collectlog.Log) ([]types.PersistenceMechanism, error) {
	out, err := exec.Command("schtasks", "/query", "/fo", "csv", "/v").Output()
	if err != nil {
		return nil, scanerrors.Wrap(err, scanerrors.ErrScheduledTaskQueryFailed.Kind, "persistence.scheduled_tasks")
	}

	reader := csv.NewReader(bytes.NewReader(out))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, scanerrors.Wrap(err, scanerrors.ErrScheduledTaskQueryFailed.Kind, "persistence.scheduled_tasks")
	}

	var tasks []types.PersistenceMechanism
	for i, row := range records {
		if i == 0 {
			continue // header row
		}
		if len(row) <= colRunAsUser {
			log.Debug("persistence: skipping malformed scheduled-task CSV row %d (%d columns)", i, len(row))
			continue
		}

		status := strings.TrimSpace(row[colStatus])
		taskPath := strings.TrimSpace(row[colTaskName])
		command := strings.TrimSpace(row[colTaskToRun])
		runAsUser := strings.TrimSpace(row[colRunAsUser])

		if status != "Ready" && status != "Running" && !isSuspiciousCommand(command) {
			continue
		}

		tasks = append(tasks, types.PersistenceMechanism{
			Type:         "Scheduled Task",
			Name:         path.Base(filepathToSlash(taskPath)),
			Command:      command + " (User: " + runAsUser + ")",
			Source:       "Task Scheduler: " + taskPath,
			Location:     taskPath,
			Value:        command,
			IsSuspicious: isSuspiciousCommand(command),
		})
	}

	return tasks, nil
}

// filepathToSlash normalizes schtasks' backslash-separated task paths so
// path.Base extracts the last segment correctly.
func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
