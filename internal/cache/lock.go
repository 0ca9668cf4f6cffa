package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// LockName is the file holding the cache lock, directly under the root.
	LockName = ".lock"
	// StaleLockThreshold is the maximum age of a lock before it's considered stale.
	// A held lock is touched every StaleLockThreshold/4, so only a lock
	// whose holder died goes stale.
	StaleLockThreshold = 10 * time.Minute
)

var lockRefreshInterval = StaleLockThreshold / 4

// ErrLocked is returned when another process holds the cache lock.
var ErrLocked = errors.New("release cache is locked: another install may be in progress")

// Lock is an exclusive hold on the cache root.
type Lock struct {
	path  string
	owner string

	stop chan struct{}
	done chan struct{}
}

// Lock takes the cache lock. A lock older than StaleLockThreshold is
// broken once. Release must be called when the caller is done writing.
func (c *Cache) Lock() (*Lock, error) {
	if err := os.MkdirAll(c.Root, 0o750); err != nil {
		return nil, &Error{Op: "lock", Err: err}
	}

	path := filepath.Join(c.Root, LockName)
	owner := uuid.NewString()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if os.IsExist(err) {
		if !isLockStale(path) {
			return nil, ErrLocked
		}
		c.logger().Warn("breaking stale cache lock", "path", path)
		_ = os.Remove(path)
		file, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if os.IsExist(err) {
			return nil, ErrLocked
		}
	}
	if err != nil {
		return nil, &Error{Op: "lock", Err: err}
	}

	data := fmt.Sprintf("owner=%s\npid=%d\ntimestamp=%s\n", owner, os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	_, err = file.WriteString(data)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, &Error{Op: "lock", Err: err}
	}

	l := &Lock{
		path:  path,
		owner: owner,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go l.refresh(lockRefreshInterval)

	return l, nil
}

// refresh keeps the lock file's mtime current until Release.
func (l *Lock) refresh(interval time.Duration) {
	defer close(l.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			_ = os.Chtimes(l.path, now, now)
		}
	}
}

// Release removes the lock file if this Lock still owns it. A lock broken
// as stale by another process is left alone.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	if l.stop != nil {
		close(l.stop)
		<-l.done
		l.stop = nil
	}
	if l.path == "" {
		return nil
	}
	defer func() { l.path = "" }()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &Error{Op: "unlock", Err: err}
	}
	if !strings.Contains(string(data), "owner="+l.owner+"\n") {
		return nil
	}

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return &Error{Op: "unlock", Err: err}
	}
	return nil
}

func isLockStale(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) > StaleLockThreshold
}
