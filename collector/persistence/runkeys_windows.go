//go:build windows

package persistence

import (
	"errors"

	"golang.org/x/sys/windows/registry"

	"triageir/collectlog"
	"triageir/scanerrors"
	"triageir/types"
)

type runKeyLocation struct {
	root     registry.Key
	rootName string
	path     string
	typ      string
}

var runKeyLocations = []runKeyLocation{
	{registry.LOCAL_MACHINE, "HKLM", `Software\Microsoft\Windows\CurrentVersion\Run`, "Registry Run Key"},
	{registry.LOCAL_MACHINE, "HKLM", `Software\Microsoft\Windows\CurrentVersion\RunOnce`, "Registry Run Key"},
	{registry.LOCAL_MACHINE, "HKLM", `Software\Wow6432Node\Microsoft\Windows\CurrentVersion\Run`, "Registry Run Key"},
	{registry.LOCAL_MACHINE, "HKLM", `Software\Wow6432Node\Microsoft\Windows\CurrentVersion\RunOnce`, "Registry Run Key"},
	{registry.CURRENT_USER, "HKCU", `Software\Microsoft\Windows\CurrentVersion\Run`, "Registry Run Key (User)"},
	{registry.CURRENT_USER, "HKCU", `Software\Microsoft\Windows\CurrentVersion\RunOnce`, "Registry Run Key (User)"},
}

// runKeys visits the Run/RunOnce keys in both HKLM and HKCU, plus their
// WOW6432Node mirrors under HKLM. A missing key is normal and only logs at DEBUG; any
// other open/read error is logged at WARN and that key contributes
// nothing.
func runKeys(log *collectlog.Log) []types.PersistenceMechanism {
	var out []types.PersistenceMechanism

	for _, loc := range runKeyLocations {
		location := loc.rootName + `\` + loc.path

		key, err := registry.OpenKey(loc.root, loc.path, registry.READ)
		if err != nil {
			if errors.Is(err, registry.ErrNotExist) {
				log.Debug("persistence: %s", scanerrors.WrapWithDetail(err, scanerrors.ErrRegistryKeyNotFound.Kind, "persistence.run_keys", location).Error())
			} else {
				log.Warn("persistence: %s", scanerrors.WrapWithDetail(err, scanerrors.ErrRegistryAccessDenied.Kind, "persistence.run_keys", location).Error())
			}
			continue
		}

		names, err := key.ReadValueNames(0)
		if err != nil {
			log.Warn("persistence: %s", scanerrors.WrapWithDetail(err, scanerrors.ErrRegistryAccessDenied.Kind, "persistence.run_keys", "enumerating values under "+location).Error())
			key.Close()
			continue
		}

		for _, name := range names {
			value, _, err := key.GetStringValue(name)
			if err != nil {
				continue
			}
			out = append(out, types.PersistenceMechanism{
				Type:         loc.typ,
				Name:         name,
				Command:      value,
				Source:       location,
				Location:     location,
				Value:        value,
				IsSuspicious: isSuspiciousCommand(value),
			})
		}
		key.Close()
	}

	return out
}
