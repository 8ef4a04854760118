package adb

import (
	"context"
	"strconv"
	"strings"

	"codeberg.org/mutker/droidscout/internal/errors"
	"codeberg.org/mutker/droidscout/internal/logger"
)

// Shell argv for each diagnostic source.
var (
	processTableArgs = []string{"shell", "top", "-m", "10", "-n", "1"}
	memInfoArgs      = []string{"shell", "dumpsys", "meminfo"}
	thermalArgs      = []string{"shell", "dumpsys", "thermalservice"}
	servicesArgs     = []string{"shell", "dumpsys", "activity", "services"}
)

// ProcessTable dumps the top output for the busiest processes.
func ProcessTable(ctx context.Context, r Runner, device string) string {
	return r.Invoke(ctx, device, processTableArgs, DefaultTimeout)
}

// MemInfo dumps system-wide meminfo, including the RSS-by-process section.
func MemInfo(ctx context.Context, r Runner, device string) string {
	return r.Invoke(ctx, device, memInfoArgs, MemInfoTimeout)
}

// Thermal dumps the thermal service state.
func Thermal(ctx context.Context, r Runner, device string) string {
	return r.Invoke(ctx, device, thermalArgs, DefaultTimeout)
}

// GfxInfo dumps frame rendering stats for the target package.
func GfxInfo(ctx context.Context, r Runner, device, pkg string) string {
	return r.Invoke(ctx, device, []string{"shell", "dumpsys", "gfxinfo", pkg}, DefaultTimeout)
}

// Services dumps the activity service registry.
func Services(ctx context.Context, r Runner, device string) string {
	return r.Invoke(ctx, device, servicesArgs, DefaultTimeout)
}

// TrimCaches asks the package manager to trim app caches down to the
// requested free-space level. Empty output means success.
func TrimCaches(ctx context.Context, r Runner, device string) string {
	return r.Invoke(ctx, device, []string{"shell", "pm", "trim-caches", "1K"}, DefaultTimeout)
}

// KillProcess sends a kill signal to the given pid on the device.
func KillProcess(ctx context.Context, r Runner, device string, pid int) string {
	return r.Invoke(ctx, device, []string{"shell", "kill", strconv.Itoa(pid)}, DefaultTimeout)
}

// DetectDevice returns the serial of the first authorized device reported by
// adb. Returns ErrNoDevice when none is attached.
func DetectDevice(ctx context.Context, r Runner) (string, error) {
	errFactory := errors.New()

	out := r.Invoke(ctx, "", []string{"devices"}, DefaultTimeout)

	var devices []string
	for _, line := range strings.Split(out, "\n") {
		serial, state, found := strings.Cut(strings.TrimSpace(line), "\t")
		if found && state == "device" {
			devices = append(devices, serial)
		}
	}

	if len(devices) == 0 {
		return "", errFactory.New(errors.ErrNoDevice)
	}

	if len(devices) > 1 {
		logger.Warn().
			Int("count", len(devices)).
			Str("device", devices[0]).
			Msg("Multiple devices detected; using the first")
	}

	return devices[0], nil
}
