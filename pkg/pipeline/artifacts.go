package pipeline

import (
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/siliconmark/logocell/pkg/errors"
)

// OutputBase is the file name stem of written artifacts.
const OutputBase = "logo"

// FileName returns the file an artifact of format is written to.
func FileName(format string) string {
	return OutputBase + "." + format
}

// WriteArtifacts writes every artifact to dir as logo.<format>. Each file is
// staged in a temporary file next to its destination and renamed only after
// all of them were written. On failure the temporaries and any file already
// renamed by this call are removed. It returns the written paths in format
// order.
func WriteArtifacts(dir string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.EmitFailure(err, "create output directory %s", dir)
	}

	formats := slices.Sorted(maps.Keys(artifacts))
	temps := make([]string, 0, len(formats))
	removeAll := func(paths []string) {
		for _, p := range paths {
			os.Remove(p)
		}
	}

	for _, format := range formats {
		tmp, err := stageFile(dir, format, artifacts[format])
		if tmp != "" {
			temps = append(temps, tmp)
		}
		if err != nil {
			removeAll(temps)
			return nil, err
		}
	}

	written := make([]string, 0, len(formats))
	for i, format := range formats {
		dst := filepath.Join(dir, FileName(format))
		if err := os.Rename(temps[i], dst); err != nil {
			removeAll(temps[i:])
			removeAll(written)
			return nil, errors.EmitFailure(err, "finalize %s", dst)
		}
		written = append(written, dst)
	}
	return written, nil
}

// stageFile writes data to a temporary file in dir and returns its path.
func stageFile(dir, format string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+OutputBase+"-*."+format+".tmp")
	if err != nil {
		return "", errors.EmitFailure(err, "create temporary %s file", format)
	}
	name := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		return name, errors.EmitFailure(err, "write %s", name)
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return name, errors.EmitFailure(err, "chmod %s", name)
	}
	if err := f.Close(); err != nil {
		return name, errors.EmitFailure(err, "close %s", name)
	}
	return name, nil
}
