package shimcache

import (
	"encoding/binary"
	"testing"
	"unicode/utf16"
)

func buildWin10Cache(path string, fileSize uint64, lastModified, lastUpdate uint64) []byte {
	pathUTF16 := utf16.Encode([]rune(path))
	pathBytes := make([]byte, len(pathUTF16)*2)
	for i, u := range pathUTF16 {
		binary.LittleEndian.PutUint16(pathBytes[i*2:], u)
	}

	header := make([]byte, 16)
	binary.LittleEndian.PutUint32(header[0:4], sigWin10)
	binary.LittleEndian.PutUint32(header[4:8], 1)

	entry := make([]byte, 32)
	binary.LittleEndian.PutUint16(entry[0:2], uint16(len(pathBytes)))
	binary.LittleEndian.PutUint16(entry[2:4], 32) // path starts right after this entry
	binary.LittleEndian.PutUint64(entry[8:16], fileSize)
	binary.LittleEndian.PutUint64(entry[16:24], lastModified)
	binary.LittleEndian.PutUint64(entry[24:32], lastUpdate)

	data := append(header, entry...)
	data = append(data, pathBytes...)
	return data
}

func TestParseCache_Windows10Entry(t *testing.T) {
	data := buildWin10Cache(`C:\Windows\System32\cmd.exe`, 289792, 132000000000000000, 132000000000000000)

	entries, err := parseCache(data)
	if err != nil {
		t.Fatalf("parseCache() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}

	e := entries[0]
	if e.Path != `C:\Windows\System32\cmd.exe` {
		t.Errorf("Path = %q, want cmd.exe path", e.Path)
	}
	if e.FileSize != 289792 {
		t.Errorf("FileSize = %d, want 289792", e.FileSize)
	}
	if !e.ExecutionFlag {
		t.Error("ExecutionFlag = false, want true for windows 10/11 entries")
	}
}

func TestParseCache_UnknownSignatureErrors(t *testing.T) {
	data := make([]byte, 16)
	binary.LittleEndian.PutUint32(data[0:4], 0xDEADBEEF)

	if _, err := parseCache(data); err == nil {
		t.Error("parseCache() with unknown signature should return an error")
	}
}

func TestParseCache_TooSmallErrors(t *testing.T) {
	if _, err := parseCache([]byte{1, 2, 3}); err == nil {
		t.Error("parseCache() with <16 bytes should return an error")
	}
}

func TestFiletimeToRFC3339_ZeroIsValidTimestamp(t *testing.T) {
	got := filetimeToRFC3339(0)
	if got == "" {
		t.Error("filetimeToRFC3339(0) returned empty string")
	}
}
