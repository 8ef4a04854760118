// Package dump parses the loosely structured text produced by Android
// diagnostic dumps (top, dumpsys) into typed records. Every parser is total:
// unrecognized input degrades to an empty result, never an error, since dump
// formats vary across OS and vendor versions.
package dump

// ProcessSample is one row of the process table. Name may be truncated by
// the source; no reconciliation with a canonical package name is attempted.
type ProcessSample struct {
	PID        int     `json:"pid"`
	User       string  `json:"user"`
	CPUPercent float64 `json:"cpu_percent"`
	MemPercent float64 `json:"mem_percent"`
	CPUTime    string  `json:"cpu_time"`
	Name       string  `json:"name"`
}

// MemoryEntry is one process from the RSS-by-process section of meminfo.
type MemoryEntry struct {
	Name  string  `json:"name"`
	PID   int     `json:"pid"`
	RAMMb float64 `json:"ram_mb"`
}

// FrameProfile aggregates the frame timing section of gfxinfo. A nil
// *FrameProfile means no frame data was found, which is distinct from a
// profile with zero janky frames.
type FrameProfile struct {
	AvgFrameTimeMs  float64 `json:"avg_frame_time_ms"`
	JankFrameCount  int     `json:"jank_frame_count"`
	TotalFrameCount int     `json:"total_frame_count"`
}

// ServiceRef identifies a running service as package/serviceClass.
type ServiceRef = string
