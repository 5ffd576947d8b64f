package frames

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveBinary locates a tool. A configured value containing a path
// separator is used as-is. Otherwise the bundled copy at
// <workDir>/ffmpeg/<name> wins over PATH. When nothing is found the bare
// name is returned so the failure surfaces at invocation time.
func ResolveBinary(workDir, name, configured string) string {
	configured = strings.TrimSpace(configured)
	if configured != "" && strings.ContainsAny(configured, `/\`) {
		return configured
	}
	if configured != "" {
		name = configured
	}
	exe := name
	if runtime.GOOS == "windows" && !strings.EqualFold(filepath.Ext(exe), ".exe") {
		exe += ".exe"
	}
	if workDir != "" {
		bundled := filepath.Join(workDir, "ffmpeg", exe)
		if info, err := os.Stat(bundled); err == nil && !info.IsDir() {
			return bundled
		}
	}
	if resolved, err := exec.LookPath(name); err == nil {
		return resolved
	}
	return name
}
