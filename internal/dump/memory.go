package dump

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const memSectionMarker = "Total RSS by process:"

const kbPerMb = 1024

// memEntry matches lines like "  123,456K: com.example.app (pid 4711 / activities)"
var memEntry = regexp.MustCompile(`^\s*([\d,]+)K: (.+?) \(pid (\d+)(?: /.+)?\)`)

// ParseMemory parses the RSS-by-process section of dumpsys meminfo. Parsing
// starts after the section marker and stops at the first blank line. The
// result is sorted by RAM descending; callers rely on this ordering.
func ParseMemory(raw string) []MemoryEntry {
	lines := strings.Split(raw, "\n")

	start := -1
	for i, line := range lines {
		if strings.Contains(line, memSectionMarker) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	var entries []MemoryEntry
	for _, line := range lines[start:] {
		m := memEntry.FindStringSubmatch(line)
		if m == nil {
			if strings.TrimSpace(line) == "" {
				break
			}
			continue
		}

		kb, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}

		pid, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}

		entries = append(entries, MemoryEntry{
			Name:  m[2],
			PID:   pid,
			RAMMb: float64(kb) / kbPerMb,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RAMMb > entries[j].RAMMb
	})

	return entries
}
