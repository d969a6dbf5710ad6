//go:build windows

package persistence

import (
	"strings"

	"golang.org/x/sys/windows/registry"

	"triageir/collectlog"
	"triageir/types"
)

const servicesKeyPath = `SYSTEM\CurrentControlSet\Services`

// services enumerates HKLM\SYSTEM\CurrentControlSet\Services and keeps only
// the sub-keys the suspicious-service heuristic flags. The heuristic is
// informational: a well-known service name is never reported regardless of
// its image path.
func services(log *collectlog.Log) []types.PersistenceMechanism {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, servicesKeyPath, registry.READ)
	if err != nil {
		log.Warn("persistence: failed to open services key: %v", err)
		return nil
	}
	defer key.Close()

	names, err := key.ReadSubKeyNames(0)
	if err != nil {
		log.Warn("persistence: failed to enumerate services: %v", err)
		return nil
	}

	var out []types.PersistenceMechanism
	for _, name := range names {
		sub, err := registry.OpenKey(registry.LOCAL_MACHINE, servicesKeyPath+`\`+name, registry.READ)
		if err != nil {
			continue
		}
		imagePath, _, err := sub.GetStringValue("ImagePath")
		sub.Close()
		if err != nil {
			continue
		}

		if !isSuspiciousServicePath(name, imagePath) {
			continue
		}

		out = append(out, types.PersistenceMechanism{
			Type:         "Windows Service",
			Name:         name,
			Command:      imagePath,
			Source:       `HKLM\` + servicesKeyPath + `\` + name,
			Location:     `HKLM\` + servicesKeyPath + `\` + name,
			Value:        imagePath,
			IsSuspicious: true,
		})
	}

	return out
}

func isSuspiciousServicePath(name, imagePath string) bool {
	if wellKnownServices[strings.ToLower(name)] {
		return false
	}

	lower := strings.ToLower(imagePath)
	for _, token := range suspiciousPathSubstrings {
		if strings.Contains(lower, token) {
			return true
		}
	}
	for _, suffix := range suspiciousPathSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	for _, dir := range standardSystemDirs {
		if strings.Contains(lower, dir) {
			return false
		}
	}
	return true
}
