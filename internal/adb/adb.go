package adb

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"codeberg.org/mutker/droidscout/internal/errors"
	"codeberg.org/mutker/droidscout/internal/logger"
)

const (
	// DefaultTimeout bounds the quick diagnostic dumps
	DefaultTimeout = 10 * time.Second
	// MemInfoTimeout bounds dumpsys meminfo, whose output can be large
	MemInfoTimeout = 30 * time.Second
)

// Runner executes a diagnostic command against a device and returns its raw
// output. A command that exits non-zero or runs past its timeout yields the
// empty string; the runner never fails per invocation. Availability of the
// invocation mechanism itself is checked once at construction.
type Runner interface {
	Invoke(ctx context.Context, device string, args []string, timeout time.Duration) string
}

type execRunner struct {
	path string
}

// NewRunner locates adb and returns a Runner bound to it. Returns
// ErrADBUnavailable when adb is not installed; this is fatal to the caller.
func NewRunner() (Runner, error) {
	errFactory := errors.New()

	path, err := exec.LookPath("adb")
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrADBUnavailable, err)
	}

	return &execRunner{path: path}, nil
}

func (r *execRunner) Invoke(ctx context.Context, device string, args []string, timeout time.Duration) string {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := make([]string, 0, len(args)+2)
	if device != "" {
		argv = append(argv, "-s", device)
	}
	argv = append(argv, args...)

	cmd := exec.CommandContext(ctx, r.path, argv...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		logger.Debug().
			Str("args", strings.Join(argv, " ")).
			Err(err).
			Msg("adb command yielded no output")

		return ""
	}

	return stdout.String()
}
