package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path (and its parent directories) with size bytes of
// filler. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = 0x42
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteMovie places a placeholder movie file in the config's work directory
// and returns its path.
func WriteMovie(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	WriteFile(t, path, 1024)
	return path
}
