package dump_test

import (
	"testing"

	"codeberg.org/mutker/droidscout/internal/dump"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServices(t *testing.T) {
	raw := `ACTIVITY MANAGER SERVICES (dumpsys activity services)
  User 0 active services:
  * ServiceRecord{8a2f0b1 u0 com.example.app/.SyncService}
    intent={cmp=com.example.app/.SyncService}
  * ServiceRecord{3c91d42 u0 com.android.bluetooth/.btservice.AdapterService}
  not a service line
`

	services := dump.ParseServices(raw)
	require.Len(t, services, 2)
	assert.Equal(t, "com.example.app/.SyncService", services[0])
	assert.Equal(t, "com.android.bluetooth/.btservice.AdapterService", services[1])
}

func TestParseServicesEmpty(t *testing.T) {
	assert.Empty(t, dump.ParseServices(""))
	assert.Empty(t, dump.ParseServices("ServiceRecord without star prefix\n"))
}
