package dump

import (
	"regexp"
	"strconv"
	"strings"
)

// thermalEntry matches the literal Temperature record shape emitted by
// dumpsys thermalservice, e.g.
// "Temperature{mValue=38.1, mType=0, mName=AP, mStatus=0}"
var thermalEntry = regexp.MustCompile(`Temperature\{mValue=(-?[\d.]+), mType=\d+, mName=([A-Z0-9_]+), mStatus=\d+\}`)

// ParseThermal scans every line for sensor temperature records and returns a
// sensor name to Celsius reading map. Dumps repeat sensors across sections;
// the last occurrence wins.
func ParseThermal(raw string) map[string]float64 {
	sensors := make(map[string]float64)

	for _, line := range strings.Split(raw, "\n") {
		m := thermalEntry.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}

		sensors[m[2]] = value
	}

	return sensors
}
