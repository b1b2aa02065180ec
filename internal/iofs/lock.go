package iofs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// Lock is a lock file that keeps other processes from working with the
// same directory.
type Lock struct {
	path  string
	runID string
}

// AcquireLock creates a lock file in dir. It fails if the file already
// exists and the process that created it is still running. A lock left by
// a process that is gone is taken over.
func AcquireLock(dir string) (*Lock, error) {
	if err := TouchDir(dir); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, ".lock")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if errors.Is(err, os.ErrExist) && removeStale(path) {
		f, err = os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	}
	if err != nil {
		return nil, LockError(path, err)
	}
	defer f.Close()

	res := Lock{path: path, runID: uuid.NewString()}
	_, err = fmt.Fprintf(f, "%s\npid %d\nstarted %s\n",
		res.runID, os.Getpid(), time.Now().Format(time.RFC3339))
	if err != nil {
		os.Remove(path)
		return nil, LockError(path, err)
	}
	return &res, nil
}

// removeStale deletes the lock file if the process written in it does
// not exist anymore. A file without a pid is never removed.
func removeStale(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	pid, ok := lockPID(string(data))
	if !ok || pidAlive(pid) {
		return false
	}
	if err = os.Remove(path); err != nil {
		return false
	}
	slog.Warn("Removed stale lock", "path", path, "pid", pid)
	return true
}

func lockPID(content string) (int, bool) {
	for _, line := range strings.Split(content, "\n") {
		s, found := strings.CutPrefix(line, "pid ")
		if !found {
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || pid <= 0 {
			return 0, false
		}
		return pid, true
	}
	return 0, false
}

// pidAlive sends signal 0 to the process. EPERM means the process exists
// but belongs to another user.
func pidAlive(pid int) bool {
	if pid == os.Getpid() {
		return true
	}
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = p.Signal(syscall.Signal(0))
	if err == nil || errors.Is(err, syscall.EPERM) {
		return true
	}
	return !errors.Is(err, os.ErrProcessDone) && !errors.Is(err, syscall.ESRCH)
}

// RunID returns a random identifier of the process that holds the lock.
func (l *Lock) RunID() string {
	return l.runID
}

// Release removes the lock file.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	err := os.Remove(l.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
