package dump_test

import (
	"testing"

	"codeberg.org/mutker/droidscout/internal/dump"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrameProfile(t *testing.T) {
	raw := "Profile data in ms:\n" +
		"4.0 2.0 1.0\n" +
		"20.0 1.0 1.0\n" +
		"\n" +
		"View hierarchy:\n"

	profile := dump.ParseFrameProfile(raw)
	require.NotNil(t, profile)
	assert.InDelta(t, 13.5, profile.AvgFrameTimeMs, 0.001)
	assert.Equal(t, 1, profile.JankFrameCount)
	assert.Equal(t, 2, profile.TotalFrameCount)
}

func TestParseFrameProfileAbsent(t *testing.T) {
	assert.Nil(t, dump.ParseFrameProfile(""))
	assert.Nil(t, dump.ParseFrameProfile("no profile marker here\n1.0 2.0 3.0\n"))
}

func TestParseFrameProfileSkipsFooter(t *testing.T) {
	raw := "Profile data in ms:\n" +
		"5.0 5.0 5.0\n" +
		"View hierarchy stats not a data row\n" +
		"1.0 1.0 1.0\n" +
		"\n"

	profile := dump.ParseFrameProfile(raw)
	require.NotNil(t, profile)
	assert.Equal(t, 2, profile.TotalFrameCount)
	assert.Equal(t, 0, profile.JankFrameCount)
}

func TestParseFrameProfileTabSeparated(t *testing.T) {
	raw := "Profile data in ms:\n" +
		"\t6.21\t11.53\t4.39\n" +
		"\n"

	profile := dump.ParseFrameProfile(raw)
	require.NotNil(t, profile)
	assert.Equal(t, 1, profile.TotalFrameCount)
	assert.Equal(t, 1, profile.JankFrameCount)
	assert.InDelta(t, 22.13, profile.AvgFrameTimeMs, 0.001)
}
