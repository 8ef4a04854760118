package adb_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/mutker/droidscout/internal/adb"
	"codeberg.org/mutker/droidscout/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	output string
	argv   []string
}

func (f *fakeRunner) Invoke(_ context.Context, _ string, args []string, _ time.Duration) string {
	f.argv = args
	return f.output
}

func TestDetectDevice(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{
			name:   "single device",
			output: "List of devices attached\nR58M123ABC\tdevice\n\n",
			want:   "R58M123ABC",
		},
		{
			name:   "multiple devices uses first",
			output: "List of devices attached\nR58M123ABC\tdevice\nemulator-5554\tdevice\n",
			want:   "R58M123ABC",
		},
		{
			name:    "unauthorized only",
			output:  "List of devices attached\nR58M123ABC\tunauthorized\n",
			wantErr: true,
		},
		{
			name:    "no output",
			output:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := adb.DetectDevice(context.Background(), &fakeRunner{output: tt.output})
			if tt.wantErr {
				require.Error(t, err)
				var appErr errors.Error
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, errors.ErrNoDevice, appErr.Code())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKillProcessArgs(t *testing.T) {
	runner := &fakeRunner{}
	adb.KillProcess(context.Background(), runner, "serial", 1234)
	assert.Equal(t, []string{"shell", "kill", "1234"}, runner.argv)
}
