// Package launcher starts the configurator front-end and waits for it.
//
// The configurator edits the shared settings file. A secondary process uses
// it to hand control to the user while the primary keeps scheduling, and a
// primary may run it once before its first cycle.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"slowmovie/internal/failure"
)

// DefaultName is the configurator executable name without extension.
const DefaultName = "slowmovie-config"

// Launcher runs the configurator synchronously with inherited stdio.
type Launcher struct {
	path         string
	settingsPath string
	extraArgs    []string
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer
}

// Option configures the launcher.
type Option func(*Launcher)

// WithArgs appends arguments after --settings.
func WithArgs(args ...string) Option {
	return func(l *Launcher) {
		l.extraArgs = append(l.extraArgs, args...)
	}
}

// WithStdio replaces the inherited standard streams.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		l.stdin, l.stdout, l.stderr = stdin, stdout, stderr
	}
}

// New resolves the configurator executable. configured may be empty, a bare
// name looked up on PATH, or a path.
func New(configured, settingsPath string, opts ...Option) (*Launcher, error) {
	path, err := Locate(configured)
	if err != nil {
		return nil, err
	}
	l := &Launcher{
		path:         path,
		settingsPath: settingsPath,
		stdin:        os.Stdin,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Path returns the resolved configurator executable.
func (l *Launcher) Path() string {
	return l.path
}

// Locate finds the configurator. Search order: the configured value, a
// sibling of the running executable, then PATH.
func Locate(configured string) (string, error) {
	configured = strings.TrimSpace(configured)
	if configured != "" {
		if strings.ContainsAny(configured, `/\`) {
			if isFile(configured) {
				return configured, nil
			}
			return "", failure.Wrap(failure.ErrFrontEndMissing, "launcher", configured, os.ErrNotExist)
		}
		resolved, err := exec.LookPath(configured)
		if err != nil {
			return "", failure.Wrap(failure.ErrFrontEndMissing, "launcher", configured, err)
		}
		return resolved, nil
	}

	name := DefaultName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	if self, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(self), name)
		if isFile(candidate) {
			return candidate, nil
		}
	}
	resolved, err := exec.LookPath(DefaultName)
	if err != nil {
		return "", failure.Wrap(failure.ErrFrontEndMissing, "launcher", DefaultName, err)
	}
	return resolved, nil
}

// Run starts the configurator and blocks until it exits. It returns the
// exit code; a non-zero code is also reported as an error.
func (l *Launcher) Run(ctx context.Context) (int, error) {
	args := []string{}
	if l.settingsPath != "" {
		args = append(args, "--settings", l.settingsPath)
	}
	args = append(args, l.extraArgs...)

	cmd := exec.CommandContext(ctx, l.path, args...) //nolint:gosec
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		return code, failure.Wrap(failure.ErrFrontEndExecution, "launcher", fmt.Sprintf("%s exited with status %d", filepath.Base(l.path), code), err)
	}
	return -1, failure.Wrap(failure.ErrFrontEndExecution, "launcher", fmt.Sprintf("start %s", l.path), err)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
