// Package singleton decides whether this process owns the frame scheduler.
//
// The first process to take the named lock becomes Primary and keeps the
// lock until it exits; the operating system drops it on crash. Later
// processes become Secondary and never schedule frames. Acquisition never
// blocks.
package singleton

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"slowmovie/internal/failure"
)

// Role is the outcome of lock acquisition.
type Role int

const (
	// Secondary means another live process holds the lock.
	Secondary Role = iota
	// Primary means this process holds the lock.
	Primary
)

func (r Role) String() string {
	if r == Primary {
		return "primary"
	}
	return "secondary"
}

// Guard holds the lock for a Primary process.
type Guard struct {
	role Role
	path string

	mu   sync.Mutex
	lock *flock.Flock
}

// LockPath returns the lock file for name inside dir. An empty dir means
// the system temp directory.
func LockPath(dir, name string) string {
	if strings.TrimSpace(dir) == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, name+".lock")
}

// Acquire tries once to take the lock. Losing the race is not an error; the
// returned guard reports Secondary. Errors mean the lock could not be
// evaluated at all.
func Acquire(dir, name string) (*Guard, error) {
	if strings.TrimSpace(name) == "" {
		return nil, failure.Wrap(failure.ErrLockAcquisition, "singleton", "lock name is empty", nil)
	}
	path := LockPath(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, failure.Wrap(failure.ErrLockAcquisition, "singleton", "create lock directory", err)
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, failure.Wrap(failure.ErrLockAcquisition, "singleton", fmt.Sprintf("lock %s", path), err)
	}
	if !ok {
		return &Guard{role: Secondary, path: path}, nil
	}
	return &Guard{role: Primary, path: path, lock: lock}, nil
}

// Role reports whether this process won the lock.
func (g *Guard) Role() Role {
	return g.role
}

// Path returns the lock file location.
func (g *Guard) Path() string {
	return g.path
}

// Release drops the lock. It is safe to call more than once and on a
// Secondary guard.
func (g *Guard) Release() error {
	if g == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lock == nil {
		return nil
	}
	err := g.lock.Unlock()
	g.lock = nil
	if err != nil {
		return fmt.Errorf("release lock %s: %w", g.path, err)
	}
	return nil
}

// Probe reports whether some process currently holds the lock, without
// keeping it.
func Probe(dir, name string) (bool, error) {
	path := LockPath(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return false, failure.Wrap(failure.ErrLockAcquisition, "singleton", fmt.Sprintf("probe %s", path), err)
	}
	if ok {
		_ = lock.Unlock()
		return false, nil
	}
	return true, nil
}
