package checkpointer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Naming schemes for checkpoint files, used by Namer
const (
	OverwriteNaming = "overwrite"
	EnumerateNaming = "enumerate"
	TimestampNaming = "timestamp"
)

// timestampLayout sorts lexically in the order checkpoints are taken
const timestampLayout = "20060102T150405.000000000"

// Overwrite returns a function which always returns filename, so that
// each checkpoint overwrites the last
func Overwrite(filename string) func() string {
	return func() string {
		return filename
	}
}

// FilenameEnumerator returns a function which returns filenames with
// an increasing integer suffix, starting at start+1. The filename
// parameter is the full filename with its path, while the extension
// parameter determines the file extension.
func FilenameEnumerator(start int, filename, extension string) func() string {
	i := start
	return func() string {
		i++
		return fmt.Sprintf("%v%v%v", filename, i, extension)
	}
}

// FileTimer returns a function which returns filenames suffixed by the
// UTC time of the call
func FileTimer(filename, extension string) func() string {
	return func() string {
		stamp := time.Now().UTC().Format(timestampLayout)
		return fmt.Sprintf("%v-%v%v", filename, stamp, extension)
	}
}

// Namer returns the naming function of the given scheme for checkpoints
// of path. The extension of path is kept on enumerated and timestamped
// names.
func Namer(scheme, path string) (func() string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	switch scheme {
	case OverwriteNaming, "":
		return Overwrite(path), nil
	case EnumerateNaming:
		return FilenameEnumerator(0, base, ext), nil
	case TimestampNaming:
		return FileTimer(base, ext), nil
	}
	return nil, errors.Errorf("namer: unknown naming scheme %q", scheme)
}
