// Package prefetch parses the Windows Prefetch directory for execution
// evidence: one record per recognized .pf file.
package prefetch

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"triageir/collectlog"
	"triageir/scanerrors"
	"triageir/types"
)

// prefetchDir returns the Prefetch directory path, derived from the system
// root rather than hard-coded to C:.
func prefetchDir() string {
	root := os.Getenv("SystemRoot")
	if root == "" {
		root = `C:\Windows`
	}
	return filepath.Join(root, "Prefetch")
}

// Collect walks the Prefetch directory at depth 1 and parses every .pf
// file it finds. A directory that doesn't exist or can't be read yields an
// empty sequence and a WARN entry; an individual unreadable file yields an
// ERROR entry and the walk continues.
func Collect(log *collectlog.Log) []types.PrefetchFile {
	log.Info("Starting prefetch collection")

	dir := prefetchDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("prefetch: %s", scanerrors.WrapWithDetail(err, scanerrors.ErrPrefetchDirUnavailable.Kind, "prefetch.collect", dir).Error())
		log.Info("Prefetch collection completed")
		return []types.PrefetchFile{}
	}

	var out []types.PrefetchFile
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pf") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		file, err := parseFile(path, entry.Name())
		if err != nil {
			log.Error("prefetch: failed to parse %s: %v", entry.Name(), err)
			continue
		}
		out = append(out, file)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })

	log.Info("Found %d prefetch files", len(out))
	log.Info("Prefetch collection completed")
	return out
}

func parseFile(path, filename string) (types.PrefetchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.PrefetchFile{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return types.PrefetchFile{}, err
	}

	if len(data) < 4 {
		return types.PrefetchFile{}, scanerrors.WrapWithDetail(io.ErrUnexpectedEOF, scanerrors.ErrPrefetchFileCorrupt.Kind, "prefetch.parse_file", filename)
	}

	sum := sha256.Sum256(data)

	pf := types.PrefetchFile{
		Filename:        filename,
		ExecutableName:  executableName(filename),
		FileSize:        info.Size(),
		Hash:            hex.EncodeToString(sum[:]),
		CreationTime:    info.ModTime().UTC().Format(time.RFC3339),
		ReferencedFiles: []string{},
		Volumes: []types.VolumeInfo{
			{
				DevicePath:   `\Device\HarddiskVolume1`,
				VolumeName:   "",
				SerialNumber: "",
				CreationTime: info.ModTime().UTC().Format(time.RFC3339),
			},
		},
	}

	if len(data) >= 4 {
		pf.Version = binary.LittleEndian.Uint32(data[0:4])
	}
	if len(data) >= 16 {
		pf.RunCount = binary.LittleEndian.Uint32(data[12:16])
	}
	if len(data) >= 84 {
		// Windows 8+ prefetch header stores the last-run FILETIME at
		// offset 16.
		ft := binary.LittleEndian.Uint64(data[16:24])
		pf.LastRunTime = filetimeToRFC3339(ft)
	} else {
		pf.LastRunTime = pf.CreationTime
	}

	return pf, nil
}

// executableName derives the referenced executable's name from the
// prefetch filename: the substring before the first '-', falling back to
// stripping the extension when no hyphen is present.
func executableName(filename string) string {
	if idx := strings.Index(filename, "-"); idx > 0 {
		return filename[:idx]
	}
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// filetimeEpochDiff is the number of seconds between the FILETIME epoch
// (1601-01-01) and the Unix epoch (1970-01-01).
const filetimeEpochDiff = 11644473600

// filetimeToRFC3339 converts a Windows FILETIME (100ns intervals since
// 1601-01-01) to an RFC 3339 timestamp. A zero FILETIME yields the
// FILETIME epoch, 1601-01-01T00:00:00Z, which downstream validation treats
// as any other timestamp.
func filetimeToRFC3339(ft uint64) string {
	seconds := int64(ft/10_000_000) - filetimeEpochDiff
	nanos := int64(ft%10_000_000) * 100
	return time.Unix(seconds, nanos).UTC().Format(time.RFC3339)
}
