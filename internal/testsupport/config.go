package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"slowmovie/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The work directory holds the settings file and frame; the lock lives in
// its own directory so parallel tests never contend.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Lock.Dir = filepath.Join(base, "lock")
	cfgVal.History.Path = filepath.Join(base, "state", "history.db")
	cfgVal.Alerts.Desktop = false
	cfgVal.Configurator.LaunchOnStart = false

	for _, dir := range []string{cfgVal.Paths.WorkDir, cfgVal.Paths.StateDir, cfgVal.Lock.Dir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithHistoryDisabled turns off the cycle journal.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithStubbedBinaries writes stub executables that exit 0 for the provided
// names and prepends them to PATH. If names is empty, ffprobe and ffmpeg are
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffprobe", "ffmpeg"}
		}
		for _, name := range names {
			StubBinary(b.t, b.baseDir, name, "exit 0\n")
		}
	}
}

// StubBinary writes a /bin/sh script named name into dir/bin with body as
// its contents, prepends that directory to PATH for the rest of the test,
// and returns the script path. Tests calling it are skipped on Windows.
func StubBinary(t testing.TB, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	binDir := filepath.Join(dir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	path := os.Getenv("PATH")
	if !pathHasPrefix(path, binDir) {
		t.Setenv("PATH", binDir+string(os.PathListSeparator)+path)
	}
	return target
}

func pathHasPrefix(path, dir string) bool {
	list := filepath.SplitList(path)
	return len(list) > 0 && list[0] == dir
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}
