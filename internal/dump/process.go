package dump

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	processHeader = regexp.MustCompile(`PID\s+USER`)

	// Candidate row matchers, tried in order; first match wins. The strict
	// pattern requires a single-token name. The loose fallback accepts names
	// with embedded spaces, which covers truncated app names like
	// "com.google.andr+" that top ellipsizes mid-identifier.
	processRow = []*regexp.Regexp{
		regexp.MustCompile(`^\s*(\d+)\s+(\S+)\s+\S+\s+\S+\s+\S+\s+\S+\s+\S+\s+\S+\s+([\d.]+)\s+([\d.]+)\s+([\d:.]+)\s+(\S+)\s*$`),
		regexp.MustCompile(`^\s*(\d+)\s+(\S+)\s+\S+\s+\S+\s+\S+\s+\S+\s+\S+\s+\S+\s+([\d.]+)\s+([\d.]+)\s+([\d:.]+)\s+(.+)`),
	}
)

// ParseProcessTable parses top output into process samples. Row order is
// preserved as given by the source, which already sorts by CPU descending.
// Without a recognizable header row the result is empty.
func ParseProcessTable(raw string) []ProcessSample {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, StripANSI(line))
		}
	}

	headerIdx := -1
	for i, line := range lines {
		if processHeader.MatchString(line) && strings.Contains(line, "[%CPU]") {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil
	}

	var samples []ProcessSample
	for _, line := range lines[headerIdx+1:] {
		for _, re := range processRow {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			pid, err := strconv.Atoi(m[1])
			if err != nil {
				break
			}
			cpu, err := strconv.ParseFloat(m[3], 64)
			if err != nil || cpu < 0 {
				break
			}
			mem, err := strconv.ParseFloat(m[4], 64)
			if err != nil {
				break
			}

			samples = append(samples, ProcessSample{
				PID:        pid,
				User:       m[2],
				CPUPercent: cpu,
				MemPercent: mem,
				CPUTime:    m[5],
				Name:       strings.TrimSpace(m[6]),
			})

			break
		}
	}

	return samples
}
