// Package seqfile implements the probe-then-create filename
// disambiguation shared by the CSV and JSON artifacts this module
// writes: <prefix><N><suffix> for the smallest non-negative N such
// that the file does not already exist.
package seqfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Create probes dir/prefixNsuffix for the smallest non-negative N with
// no existing file, then creates and returns it along with its path.
// Under concurrent callers targeting the same dir/prefix/suffix this
// races; acceptable here because kernel ends are serialized at the
// host, so this module never calls Create concurrently for the same
// prefix.
func Create(dir, prefix, suffix string) (string, *os.File, error) {
	for n := 0; ; n++ {
		name := fmt.Sprintf("%s%d%s", prefix, n, suffix)
		path := name
		if dir != "" {
			path = filepath.Join(dir, name)
		}
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return "", nil, err
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", nil, err
		}
		return path, f, nil
	}
}
