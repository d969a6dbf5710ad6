package persistence

import (
	"os"
	"path/filepath"

	"triageir/collectlog"
	"triageir/types"
)

// startupFolderPaths returns the all-users and current-user Startup folder
// paths derived from ALLUSERSPROFILE/APPDATA, falling back to empty strings
// (skipped) when those environment variables are absent.
func startupFolderPaths() []struct {
	path   string
	source string
} {
	var dirs []struct {
		path   string
		source string
	}

	if allUsers := os.Getenv("ALLUSERSPROFILE"); allUsers != "" {
		dirs = append(dirs, struct {
			path   string
			source string
		}{
			filepath.Join(allUsers, `Microsoft\Windows\Start Menu\Programs\Startup`),
			"Startup Folder (All Users)",
		})
	}
	if appData := os.Getenv("APPDATA"); appData != "" {
		dirs = append(dirs, struct {
			path   string
			source string
		}{
			filepath.Join(appData, `Microsoft\Windows\Start Menu\Programs\Startup`),
			"Startup Folder (User)",
		})
	}

	return dirs
}

// startupFolders emits one record per direct child file of the all-users
// and current-user Startup folders. A missing folder is normal; any other
// read error is logged at WARN.
func startupFolders(log *collectlog.Log) []types.PersistenceMechanism {
	var out []types.PersistenceMechanism

	for _, dir := range startupFolderPaths() {
		entries, err := os.ReadDir(dir.path)
		if err != nil {
			if !os.IsNotExist(err) {
				log.Warn("persistence: failed to read startup folder %s: %v", dir.path, err)
			}
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			fullPath := filepath.Join(dir.path, entry.Name())
			out = append(out, types.PersistenceMechanism{
				Type:         "Startup Folder",
				Name:         entry.Name(),
				Command:      fullPath,
				Source:       dir.source,
				Location:     dir.path,
				Value:        fullPath,
				IsSuspicious: isSuspiciousCommand(fullPath),
			})
		}
	}

	return out
}
