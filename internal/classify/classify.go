// Package classify flags resource-heavy entities and separates system from
// user-space processes.
package classify

import (
	"strings"

	"codeberg.org/mutker/droidscout/internal/dump"
)

const (
	// HeavyCPUPercent is the inclusive CPU threshold for a heavy process
	HeavyCPUPercent = 50.0
	// HeavyRAMMb is the inclusive RAM threshold for a heavy app
	HeavyRAMMb = 300.0
)

// IsHeavyCPU reports whether the process meets the heavy CPU threshold.
func IsHeavyCPU(p dump.ProcessSample) bool {
	return p.CPUPercent >= HeavyCPUPercent
}

// IsHeavyRAM reports whether the entry meets the heavy RAM threshold.
func IsHeavyRAM(e dump.MemoryEntry) bool {
	return e.RAMMb >= HeavyRAMMb
}

// HeavyCPU filters the samples meeting the heavy CPU threshold.
func HeavyCPU(samples []dump.ProcessSample) []dump.ProcessSample {
	var heavy []dump.ProcessSample
	for _, p := range samples {
		if IsHeavyCPU(p) {
			heavy = append(heavy, p)
		}
	}

	return heavy
}

// HeavyRAM filters the entries meeting the heavy RAM threshold.
func HeavyRAM(entries []dump.MemoryEntry) []dump.MemoryEntry {
	var heavy []dump.MemoryEntry
	for _, e := range entries {
		if IsHeavyRAM(e) {
			heavy = append(heavy, e)
		}
	}

	return heavy
}

// Classifier separates system from user-space entities by name. The
// separation is a heuristic, not ground truth: user app identifiers carry a
// package-style dot, and known OS/vendor daemons match a prefix allow-list.
// False positives and negatives are expected for unseen vendor names.
type Classifier struct {
	prefixes []string
}

// New returns a Classifier using the given prefix allow-list, or the
// built-in default list when none is given.
func New(prefixes []string) *Classifier {
	if len(prefixes) == 0 {
		prefixes = DefaultSystemPrefixes()
	}

	return &Classifier{prefixes: prefixes}
}

// IsSystemEntity reports whether name looks like an OS or vendor process.
func (c *Classifier) IsSystemEntity(name string) bool {
	for _, prefix := range c.prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}

	return !strings.Contains(name, ".")
}

// SplitProcesses partitions process samples into user and system groups,
// preserving order within each group.
func (c *Classifier) SplitProcesses(samples []dump.ProcessSample) (user, system []dump.ProcessSample) {
	for _, p := range samples {
		if c.IsSystemEntity(p.Name) {
			system = append(system, p)
		} else {
			user = append(user, p)
		}
	}

	return user, system
}

// SplitMemory partitions memory entries into user and system groups,
// preserving order within each group.
func (c *Classifier) SplitMemory(entries []dump.MemoryEntry) (user, system []dump.MemoryEntry) {
	for _, e := range entries {
		if c.IsSystemEntity(e.Name) {
			system = append(system, e)
		} else {
			user = append(user, e)
		}
	}

	return user, system
}
