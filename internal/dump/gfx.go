package dump

import (
	"strconv"
	"strings"
)

const gfxSectionMarker = "Profile data in ms:"

// JankThresholdMs is the 60 fps frame budget; frames above it are janky.
const JankThresholdMs = 16.67

// ParseFrameProfile parses the frame timing section of dumpsys gfxinfo.
// Each data line holds three values (draw, process, execute) whose sum is
// one frame's total time. Lines with a different token count are skipped;
// some dumps append a non-data footer to the section. Returns nil when no
// frames were parsed, so "no data" stays distinct from "zero jank".
func ParseFrameProfile(raw string) *FrameProfile {
	var frameTimes []float64

	inSection := false
	for _, line := range strings.Split(raw, "\n") {
		if strings.Contains(line, gfxSectionMarker) {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if strings.TrimSpace(line) == "" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) != 3 {
			continue
		}

		total := 0.0
		valid := true
		for _, part := range parts {
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				valid = false
				break
			}
			total += v
		}
		if !valid {
			continue
		}

		frameTimes = append(frameTimes, total)
	}

	if len(frameTimes) == 0 {
		return nil
	}

	sum := 0.0
	jank := 0
	for _, t := range frameTimes {
		sum += t
		if t > JankThresholdMs {
			jank++
		}
	}

	return &FrameProfile{
		AvgFrameTimeMs:  sum / float64(len(frameTimes)),
		JankFrameCount:  jank,
		TotalFrameCount: len(frameTimes),
	}
}
