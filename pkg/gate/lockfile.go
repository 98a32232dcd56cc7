package gate

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
)

// LockFile asserts the lock while a file exists. It is the host
// stand-in for the write-protect jumper: drop the file in place to
// lock the unit, remove it to unlock.
type LockFile struct {
	path   string
	locked int32 // atomic
}

// NewLockFile creates a LockFile and samples the initial state.
func NewLockFile(path string) *LockFile {
	l := &LockFile{path: path}
	l.Refresh()
	return l
}

// IsWriteLocked implements Gate.
func (l *LockFile) IsWriteLocked() bool {
	return atomic.LoadInt32(&l.locked) != 0
}

// Refresh re-samples the file state.
func (l *LockFile) Refresh() bool {
	var locked int32
	if _, err := os.Stat(l.path); err == nil {
		locked = 1
	}
	prev := atomic.SwapInt32(&l.locked, locked)
	if prev != locked {
		glog.Infof("write protect: locked=%v", locked != 0)
	}
	return locked != 0
}

// Name implements Named.
func (l *LockFile) Name() string { return "write-protect" }

// Run implements Runnable: watches the lock file's directory and
// refreshes on changes, with a slow periodic re-sample as a fallback
// for filesystems fsnotify cannot watch.
func (l *LockFile) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err = watcher.Add(filepath.Dir(l.path)); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-watcher.Events:
			if ev.Name == l.path {
				l.Refresh()
			}
		case err := <-watcher.Errors:
			glog.Warningf("lock file watch: %v", err)
		case <-ticker.C:
			l.Refresh()
		}
	}
}
