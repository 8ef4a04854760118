// Package snapshot assembles one point-in-time telemetry reading from the
// diagnostic sources of a device.
package snapshot

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/droidscout/internal/adb"
	"codeberg.org/mutker/droidscout/internal/classify"
	"codeberg.org/mutker/droidscout/internal/dump"
	"codeberg.org/mutker/droidscout/internal/errors"
	"codeberg.org/mutker/droidscout/internal/logger"
)

// TopN is the number of entries from each sorted source that a snapshot
// carries as its reportable subset.
const TopN = 5

type Config struct {
	// TotalMemMb is the assumed device memory capacity. True capacity is
	// not detected; this is an approximation used for the free-memory
	// estimate (default 4096).
	TotalMemMb float64

	// Target is the app package to profile frame rendering for.
	// Empty disables the gfx source.
	Target string

	// SystemPrefixes overrides the system process allow-list.
	SystemPrefixes []string
}

// Builder produces snapshots by fanning the diagnostic commands out over the
// runner and parsing whatever came back.
type Builder struct {
	runner     adb.Runner
	classifier *classify.Classifier
	cfg        Config
}

// NewBuilder validates the runner and returns a Builder.
func NewBuilder(runner adb.Runner, cfg Config) (*Builder, error) {
	errFactory := errors.New()

	if runner == nil {
		return nil, errFactory.New(errors.ErrNilRunner)
	}

	if cfg.TotalMemMb <= 0 {
		cfg.TotalMemMb = 4096
	}

	return &Builder{
		runner:     runner,
		classifier: classify.New(cfg.SystemPrefixes),
		cfg:        cfg,
	}, nil
}

// Build collects all sources concurrently and assembles one Snapshot. Each
// source has its own timeout, and a timed-out or failed source yields empty
// collections without aborting the others. Build never fails: total source
// failure produces a snapshot with empty sub-fields.
func (b *Builder) Build(ctx context.Context, device string) Snapshot {
	var (
		procRaw, memRaw, thermRaw, gfxRaw, svcRaw string
		wg                                        sync.WaitGroup
	)

	// Fan-out: each goroutine writes only its own slot, joined below.
	collect := func(slot *string, fetch func() string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			*slot = fetch()
		}()
	}

	collect(&procRaw, func() string { return adb.ProcessTable(ctx, b.runner, device) })
	collect(&memRaw, func() string { return adb.MemInfo(ctx, b.runner, device) })
	collect(&thermRaw, func() string { return adb.Thermal(ctx, b.runner, device) })
	collect(&svcRaw, func() string { return adb.Services(ctx, b.runner, device) })
	if b.cfg.Target != "" {
		collect(&gfxRaw, func() string { return adb.GfxInfo(ctx, b.runner, device, b.cfg.Target) })
	}

	wg.Wait()

	processes := dump.ParseProcessTable(procRaw)
	memory := dump.ParseMemory(memRaw)

	usedMemMb := 0.0
	for _, e := range memory {
		usedMemMb += e.RAMMb
	}
	freeMemMb := b.cfg.TotalMemMb - usedMemMb

	snap := Snapshot{
		Processes:    topProcesses(processes),
		Memory:       topMemory(memory),
		Thermal:      dump.ParseThermal(thermRaw),
		Frame:        dump.ParseFrameProfile(gfxRaw),
		Services:     dump.ParseServices(svcRaw),
		HeavyCPU:     classify.HeavyCPU(processes),
		HeavyRAM:     classify.HeavyRAM(memory),
		MemoryHealth: HealthFor(freeMemMb),
		FreeMemMb:    freeMemMb,
		TotalMemMb:   b.cfg.TotalMemMb,
		CapturedAt:   time.Now(),
	}

	logger.Debug().
		Int("processes", len(processes)).
		Int("memory_entries", len(memory)).
		Int("sensors", len(snap.Thermal)).
		Int("services", len(snap.Services)).
		Str("memory_health", string(snap.MemoryHealth)).
		Msg("Snapshot built")

	return snap
}

// Classifier returns the classifier the builder applies, for report writers
// that need the same system/user separation.
func (b *Builder) Classifier() *classify.Classifier {
	return b.classifier
}

func topProcesses(samples []dump.ProcessSample) []dump.ProcessSample {
	if len(samples) > TopN {
		return samples[:TopN]
	}

	return samples
}

func topMemory(entries []dump.MemoryEntry) []dump.MemoryEntry {
	if len(entries) > TopN {
		return entries[:TopN]
	}

	return entries
}
