// Package shimcache decodes the AppCompatCache (Shimcache) registry value,
// a kernel-maintained record of executed and inspected program paths.
package shimcache

import (
	"encoding/binary"
	"fmt"
	"time"
	"unicode/utf16"

	"triageir/collectlog"
	"triageir/scanerrors"
	"triageir/types"
)

// maxEntries bounds how many shimcache entries a single cache blob can
// contribute, guarding against adversarially large or corrupt data.
const maxEntries = 1000

// Windows-10/11, Windows-8.1, and Windows-7 AppCompatCache header
// signatures, read as the first little-endian u32 of the value.
const (
	sigWin10 = 0x00000030
	sigWin11 = 0x00000034
	sigWin10Alt = 0x00000038
	sigWin81 = 0x00000080
	sigWin81Alt = 0x00000073
	sigWin81Alt2 = 0x00000074
	sigWin7 = 0x00000072
	sigWin7Alt = 0x0000006f
)

// filetimeEpochDiff is the number of seconds between the FILETIME epoch
// (1601-01-01) and the Unix epoch (1970-01-01).
const filetimeEpochDiff = 11644473600

func filetimeToRFC3339(ft uint64) string {
	if ft == 0 {
		return time.Unix(0, 0).UTC().Format(time.RFC3339)
	}
	seconds := int64(ft/10_000_000) - filetimeEpochDiff
	return time.Unix(seconds, 0).UTC().Format(time.RFC3339)
}

// Collect reads the AppCompatCache value from each known registry
// location and decodes its entries. A location whose key or value cannot
// be opened or read is logged at DEBUG and contributes nothing; a value
// that fails to parse is logged at WARN.
func Collect(log *collectlog.Log) []types.ShimcacheEntry {
	log.Info("Starting shimcache collection")

	var out []types.ShimcacheEntry
	for _, loc := range shimcacheLocations {
		data, err := readAppCompatCache(loc)
		if err != nil {
			log.Debug("shimcache: %s", scanerrors.WrapWithDetail(err, scanerrors.ErrShimcacheKeyNotFound.Kind, "shimcache.collect", loc).Error())
			continue
		}

		entries, err := parseCache(data)
		if err != nil {
			log.Warn("shimcache: failed to parse AppCompatCache at %s: %v", loc, err)
		}
		out = append(out, entries...)
	}

	log.Info("Found %d shimcache entries", len(out))
	log.Info("Shimcache collection completed")
	return out
}

// parseCache dispatches on the header signature and decodes up to
// maxEntries entries starting at offset 16. A mid-stream parse failure
// stops decoding but keeps whatever was already decoded.
func parseCache(data []byte) ([]types.ShimcacheEntry, error) {
	if len(data) < 16 {
		return nil, fmt.Errorf("shimcache data too small: %d bytes", len(data))
	}

	signature := binary.LittleEndian.Uint32(data[0:4])
	numEntries := binary.LittleEndian.Uint32(data[4:8])
	if numEntries > maxEntries {
		numEntries = maxEntries
	}

	var decodeEntry func([]byte) (types.ShimcacheEntry, int, error)
	switch signature {
	case sigWin10, sigWin11, sigWin10Alt:
		decodeEntry = decodeWin10Entry
	case sigWin81, sigWin81Alt, sigWin81Alt2:
		decodeEntry = decodeWin81Entry
	case sigWin7, sigWin7Alt:
		decodeEntry = decodeWin7Entry
	default:
		return nil, scanerrors.WrapWithDetail(fmt.Errorf("unrecognized signature 0x%X", signature), scanerrors.ErrShimcacheSignatureUnknown.Kind, "shimcache.parse_cache", fmt.Sprintf("0x%X", signature))
	}

	var entries []types.ShimcacheEntry
	offset := 16
	for i := uint32(0); i < numEntries; i++ {
		if offset+32 > len(data) {
			break
		}
		entry, size, err := decodeEntry(data[offset:])
		if err != nil {
			break
		}
		entries = append(entries, entry)
		offset += size
	}

	return entries, nil
}

// decodeWin10Entry decodes the Windows 10/11 entry layout: path
// length/offset (u16 each), a 4-byte gap, file size (u64), last-modified
// FILETIME (u64), last-update FILETIME (u64), followed by the UTF-16LE
// path string at the entry's own path_offset.
func decodeWin10Entry(data []byte) (types.ShimcacheEntry, int, error) {
	if len(data) < 32 {
		return types.ShimcacheEntry{}, 0, fmt.Errorf("short windows-10 entry")
	}

	pathLength := int(binary.LittleEndian.Uint16(data[0:2]))
	pathOffset := int(binary.LittleEndian.Uint16(data[2:4]))
	fileSize := binary.LittleEndian.Uint64(data[8:16])
	lastModified := binary.LittleEndian.Uint64(data[16:24])
	lastUpdate := binary.LittleEndian.Uint64(data[24:32])

	path := "Unknown path"
	if pathOffset+pathLength <= len(data) {
		path = decodeUTF16(data[pathOffset : pathOffset+pathLength])
	}

	return types.ShimcacheEntry{
		Path:          path,
		LastModified:  filetimeToRFC3339(lastModified),
		FileSize:      int64(fileSize),
		LastUpdate:    filetimeToRFC3339(lastUpdate),
		ExecutionFlag: true,
	}, 32 + pathLength, nil
}

// decodeWin81Entry and decodeWin7Entry are placeholders: public
// documentation for these legacy entry layouts is sparse and the source
// this was distilled from never completed them either. They consume a
// fixed 32-byte stride so offset tracking stays correct for any later
// entries in the stream, and report a path that names the gap rather than
// fabricating one.
func decodeWin81Entry(data []byte) (types.ShimcacheEntry, int, error) {
	if len(data) < 32 {
		return types.ShimcacheEntry{}, 0, fmt.Errorf("short windows-8.1 entry")
	}
	return types.ShimcacheEntry{
		Path:          "Windows 8.1 entry (format not decoded)",
		LastModified:  filetimeToRFC3339(0),
		FileSize:      0,
		LastUpdate:    filetimeToRFC3339(0),
		ExecutionFlag: false,
	}, 32, nil
}

func decodeWin7Entry(data []byte) (types.ShimcacheEntry, int, error) {
	if len(data) < 32 {
		return types.ShimcacheEntry{}, 0, fmt.Errorf("short windows-7 entry")
	}
	return types.ShimcacheEntry{
		Path:          "Windows 7 entry (format not decoded)",
		LastModified:  filetimeToRFC3339(0),
		FileSize:      0,
		LastUpdate:    filetimeToRFC3339(0),
		ExecutionFlag: false,
	}, 32, nil
}

func decodeUTF16(b []byte) string {
	if len(b)%2 != 0 {
		b = b[:len(b)-1]
	}
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u := binary.LittleEndian.Uint16(b[i : i+2])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}
