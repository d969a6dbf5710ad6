//go:build windows

package persistence

import (
	"bufio"
	"bytes"
	"os/exec"
	"strings"

	"triageir/collectlog"
	"triageir/scanerrors"
	"triageir/types"
)

// wmiEventConsumers is a best-effort scan of root\subscription for
// CommandLineEventConsumer instances, a well-known fileless persistence
// technique. It shells out to PowerShell rather than binding the WMI COM
// surface directly, since a full WMI client is out of proportion to a
// single enumeration query; failures here are expected on locked-down
// systems and degrade to an empty contribution.
func wmiEventConsumers(log *collectlog.Log) []types.PersistenceMechanism {
	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command",
		`Get-WmiObject -Namespace root\subscription -Class CommandLineEventConsumer | ForEach-Object { "$($_.Name)|$($_.CommandLineTemplate)" }`)

	out, err := cmd.Output()
	if err != nil {
		log.Debug("persistence: %s", scanerrors.Wrap(err, scanerrors.ErrWMIQueryFailed.Kind, "persistence.wmi_event_consumers").Error())
		return nil
	}

	var consumers []types.PersistenceMechanism
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 2)
		name := parts[0]
		command := ""
		if len(parts) == 2 {
			command = parts[1]
		}
		if name == "" {
			continue
		}

		consumers = append(consumers, types.PersistenceMechanism{
			Type:         "WMI Event Consumer",
			Name:         name,
			Command:      command,
			Source:       `root\subscription\CommandLineEventConsumer`,
			Location:     `root\subscription`,
			Value:        command,
			IsSuspicious: isSuspiciousCommand(command),
		})
	}

	return consumers
}
