// Package output serializes a finished ScanResults to JSON and writes it
// to stdout or a file.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"triageir/scanerrors"
	"triageir/types"
)

// Write serializes result as indented JSON and writes it to path, or to
// w when path is empty. Parent directories for path are created as
// needed. After writing to a file, the written size is verified against
// the serialized byte count; any mismatch or I/O failure is a fatal
// *scanerrors.Error (op="output.Write") — the only error this package
// ever returns. Detail text matches the operator-facing wording a
// failing `--output` run must surface: "Failed to create parent
// directory" for a bad destination, "Failed to write file" for anything
// that fails afterward.
func Write(result *types.ScanResults, path string, w io.Writer) error {
	buf, err := marshal(result)
	if err != nil {
		return scanerrors.Wrap(err, scanerrors.KindInvalidData, "output.Write")
	}

	if path == "" {
		if _, err := w.Write(buf); err != nil {
			return scanerrors.WrapWithDetail(err, scanerrors.ErrOutputWriteFailed.Kind, "output.Write", "Failed to write output")
		}
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return scanerrors.WrapWithDetail(err, scanerrors.ErrOutputPathInvalid.Kind, "output.Write", "Failed to create parent directory "+dir)
		}
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return scanerrors.WrapWithDetail(err, scanerrors.ErrOutputWriteFailed.Kind, "output.Write", "Failed to write file "+path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return scanerrors.WrapWithDetail(err, scanerrors.ErrOutputWriteFailed.Kind, "output.Write", "Failed to write file "+path)
	}
	if info.Size() != int64(len(buf)) {
		return scanerrors.New(scanerrors.ErrOutputWriteFailed.Kind, "output.Write",
			fmt.Sprintf("Failed to write file %s: wrote %d bytes, file reports %d bytes", path, len(buf), info.Size()))
	}

	return nil
}

func marshal(result *types.ScanResults) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
