package dump

import (
	"regexp"
	"strings"
)

// serviceRecord matches registry lines like
// "  * ServiceRecord{8a2f0b1 u0 com.example.app/.SyncService}"
var serviceRecord = regexp.MustCompile(`^\s*\* ServiceRecord\{[a-f0-9]+ u\d+ ([\w.]+)/(\S+)\}`)

// ParseServices extracts package/serviceClass references from the activity
// service registry dump. Non-matching lines are ignored.
func ParseServices(raw string) []ServiceRef {
	var services []ServiceRef

	for _, line := range strings.Split(raw, "\n") {
		m := serviceRecord.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		services = append(services, m[1]+"/"+m[2])
	}

	return services
}
