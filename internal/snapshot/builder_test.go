package snapshot_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"codeberg.org/mutker/droidscout/internal/adb"
	"codeberg.org/mutker/droidscout/internal/errors"
	"codeberg.org/mutker/droidscout/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner serves canned dump output keyed by a distinguishing argv token.
type stubRunner struct {
	byCommand map[string]string
}

func (s *stubRunner) Invoke(_ context.Context, _ string, args []string, _ time.Duration) string {
	joined := strings.Join(args, " ")
	for key, out := range s.byCommand {
		if strings.Contains(joined, key) {
			return out
		}
	}
	return ""
}

var _ adb.Runner = (*stubRunner)(nil)

const processTableRaw = "  PID USER         PR  NI VIRT  RES  SHR S[%CPU] %MEM     TIME+ ARGS\n" +
	" 1203 system       18  -2  17G 252M  80M S  109  6.8 615:01.29 system_server\n" +
	"   77 root          0   0   1G  10M   5M S  3.0  0.1   0:01.00 kworker\n" +
	" 2001 u0_a10        0   0  10G 100M  50M S  2.0  2.0   0:10.00 com.app.one\n" +
	" 2002 u0_a11        0   0  10G 100M  50M S  1.5  2.0   0:10.00 com.app.two\n" +
	" 2003 u0_a12        0   0  10G 100M  50M S  1.0  2.0   0:10.00 com.app.three\n" +
	" 2004 u0_a13        0   0  10G 100M  50M S  0.5  2.0   0:10.00 com.app.four\n" +
	" 2005 u0_a14        0   0  10G 100M  50M S  0.1  2.0   0:10.00 com.app.five\n"

const memInfoRaw = "Total RSS by process:\n" +
	"    409,600K: system_server (pid 1203)\n" +
	"    204,800K: com.app.one (pid 2001)\n" +
	"    102,400K: com.app.two (pid 2002)\n" +
	"     51,200K: com.app.three (pid 2003)\n" +
	"     25,600K: com.app.four (pid 2004)\n" +
	"     12,800K: com.app.five (pid 2005)\n" +
	"\n"

const thermalRaw = "Temperature{mValue=38.1, mType=0, mName=AP, mStatus=0}\n"

func newBuilder(t *testing.T, runner adb.Runner, cfg snapshot.Config) *snapshot.Builder {
	t.Helper()
	b, err := snapshot.NewBuilder(runner, cfg)
	require.NoError(t, err)
	return b
}

func TestNewBuilderNilRunner(t *testing.T) {
	_, err := snapshot.NewBuilder(nil, snapshot.Config{})
	require.Error(t, err)

	var appErr errors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, errors.ErrNilRunner, appErr.Code())
}

func TestBuildAllSources(t *testing.T) {
	runner := &stubRunner{byCommand: map[string]string{
		"top":            processTableRaw,
		"meminfo":        memInfoRaw,
		"thermalservice": thermalRaw,
		"activity":       "  * ServiceRecord{8a2f0b1 u0 com.app.one/.SyncService}\n",
		"gfxinfo":        "Profile data in ms:\n4.0 2.0 1.0\n20.0 1.0 1.0\n\n",
	}}

	b := newBuilder(t, runner, snapshot.Config{TotalMemMb: 4096, Target: "com.app.one"})
	snap := b.Build(context.Background(), "serial")

	// Reportable subset is capped at the top 5 of each sorted list
	require.Len(t, snap.Processes, 5)
	assert.Equal(t, "system_server", snap.Processes[0].Name)
	require.Len(t, snap.Memory, 5)
	assert.Equal(t, "system_server", snap.Memory[0].Name)

	// Heavy detection runs over the complete parsed sets, not the subset
	require.Len(t, snap.HeavyCPU, 1)
	assert.Equal(t, "system_server", snap.HeavyCPU[0].Name)
	require.Len(t, snap.HeavyRAM, 1)
	assert.InDelta(t, 400.0, snap.HeavyRAM[0].RAMMb, 0.001)

	assert.InDelta(t, 38.1, snap.Thermal["AP"], 0.001)
	require.NotNil(t, snap.Frame)
	assert.Equal(t, 2, snap.Frame.TotalFrameCount)
	require.Len(t, snap.Services, 1)

	// 4096 - 787.5 MB used
	usedMb := (409600.0 + 204800 + 102400 + 51200 + 25600 + 12800) / 1024
	assert.InDelta(t, 4096-usedMb, snap.FreeMemMb, 0.001)
	assert.Equal(t, snapshot.MemoryHealthGood, snap.MemoryHealth)
	assert.False(t, snap.CapturedAt.IsZero())
}

func TestBuildAllSourcesEmpty(t *testing.T) {
	b := newBuilder(t, &stubRunner{}, snapshot.Config{TotalMemMb: 4096})
	snap := b.Build(context.Background(), "serial")

	assert.Empty(t, snap.Processes)
	assert.Empty(t, snap.Memory)
	assert.Empty(t, snap.Thermal)
	assert.Nil(t, snap.Frame)
	assert.Empty(t, snap.Services)
	assert.InDelta(t, 4096.0, snap.FreeMemMb, 0.001)
	assert.Equal(t, snapshot.MemoryHealthGood, snap.MemoryHealth)
}

func TestBuildSkipsGfxWithoutTarget(t *testing.T) {
	runner := &stubRunner{byCommand: map[string]string{
		"gfxinfo": "Profile data in ms:\n4.0 2.0 1.0\n\n",
	}}

	b := newBuilder(t, runner, snapshot.Config{})
	snap := b.Build(context.Background(), "serial")
	assert.Nil(t, snap.Frame)
}

func TestHealthFor(t *testing.T) {
	tests := []struct {
		freeMemMb float64
		want      snapshot.MemoryHealth
	}{
		{499.9, snapshot.MemoryHealthLow},
		{500.0, snapshot.MemoryHealthMedium},
		{999.99, snapshot.MemoryHealthMedium},
		{1000.0, snapshot.MemoryHealthGood},
		{-50.0, snapshot.MemoryHealthLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, snapshot.HealthFor(tt.freeMemMb), "freeMemMb=%v", tt.freeMemMb)
	}
}
