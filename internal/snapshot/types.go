package snapshot

import (
	"time"

	"codeberg.org/mutker/droidscout/internal/dump"
)

// MemoryHealth is the coarse verdict derived from estimated free memory.
type MemoryHealth string

const (
	MemoryHealthGood   MemoryHealth = "good"
	MemoryHealthMedium MemoryHealth = "medium"
	MemoryHealthLow    MemoryHealth = "low"
)

const (
	lowMemoryMb    = 500.0
	mediumMemoryMb = 1000.0
)

// HealthFor derives the memory health verdict from free memory in MB.
func HealthFor(freeMemMb float64) MemoryHealth {
	switch {
	case freeMemMb < lowMemoryMb:
		return MemoryHealthLow
	case freeMemMb < mediumMemoryMb:
		return MemoryHealthMedium
	default:
		return MemoryHealthGood
	}
}

// Snapshot is one point-in-time telemetry reading across all sources.
// Immutable once built; a source that failed or timed out contributes empty
// collections, never a partially built snapshot. Frame is nil when no frame
// data was found.
type Snapshot struct {
	Processes    []dump.ProcessSample `json:"processes"`
	Memory       []dump.MemoryEntry   `json:"memory"`
	Thermal      map[string]float64   `json:"thermal"`
	Frame        *dump.FrameProfile   `json:"frame,omitempty"`
	Services     []dump.ServiceRef    `json:"services,omitempty"`
	HeavyCPU     []dump.ProcessSample `json:"heavy_cpu,omitempty"`
	HeavyRAM     []dump.MemoryEntry   `json:"heavy_ram,omitempty"`
	MemoryHealth MemoryHealth         `json:"memory_health"`
	FreeMemMb    float64              `json:"free_mem_mb"`
	TotalMemMb   float64              `json:"total_mem_mb"`
	CapturedAt   time.Time            `json:"captured_at"`
}
