// Package pid guards dashboard mode against concurrent instances with a
// PID file in the system temp directory.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"codeberg.org/mutker/droidscout/internal/errors"
)

const pidFile = "droidscout.pid"

// Path returns the PID file location.
func Path() string {
	return filepath.Join(os.TempDir(), pidFile)
}

// Write records the current process ID. It fails with ErrAlreadyRunning when
// the file names a live process; a stale file from a crashed run is replaced.
func Write() error {
	errFactory := errors.New()
	path := Path()

	if other, ok := readPID(path); ok && alive(other) {
		return errFactory.New(errors.ErrAlreadyRunning)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove deletes the PID file. Missing files are not an error.
func Remove() error {
	errFactory := errors.New()

	if err := os.Remove(Path()); err != nil && !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

func readPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	value, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, false
	}

	return value, true
}

// Signal 0 probes for existence without delivering anything.
func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}
