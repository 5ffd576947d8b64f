//go:build windows

package preflight

import (
	"os"
	"path/filepath"
)

// accessReadWrite probes write access by creating and removing a file;
// Windows ACLs are not reflected in mode bits.
func accessReadWrite(path string) error {
	f, err := os.CreateTemp(path, ".slowmovie-access-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(filepath.Clean(name))
}
