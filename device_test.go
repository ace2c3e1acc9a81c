package ffmpeg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceKindString(t *testing.T) {
	assert.Equal(t, "videoinput", DeviceKindVideoInput.String())
	assert.Equal(t, "audiooutput", DeviceKindAudioOutput.String())
	assert.Equal(t, "unknown", DeviceKind(42).String())
}

func TestDeviceInfoKind(t *testing.T) {
	cam := DeviceInfo{MediaTypes: []MediaType{MediaTypeAudio, MediaTypeVideo}}
	mic := DeviceInfo{MediaTypes: []MediaType{MediaTypeAudio}}
	assert.Equal(t, DeviceKindVideoInput, cam.Kind())
	assert.Equal(t, DeviceKindAudioInput, mic.Kind())
}

func TestCaptureFormats(t *testing.T) {
	tests := []struct {
		goos         string
		video, audio string
	}{
		{"linux", "v4l2", "alsa"},
		{"darwin", "avfoundation", "avfoundation"},
		{"windows", "dshow", "dshow"},
		{"plan9", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			v, a := captureFormats(tt.goos)
			assert.Equal(t, tt.video, v)
			assert.Equal(t, tt.audio, a)
		})
	}
}

func TestOpenDeviceNeedsFormat(t *testing.T) {
	_, err := OpenDevice("", "/dev/video0")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEnumerateDevices(t *testing.T) {
	requireFFmpeg(t)
	if !LibAVDevice.Available() {
		t.Skip("libavdevice not loaded")
	}
	for _, f := range InputDevices() {
		assert.NotEmpty(t, f.Name())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := EnumerateDevices(ctx)
	if len(InputDevices()) > 0 {
		require.ErrorIs(t, err, context.Canceled)
	}

	devices, err := EnumerateDevices(context.Background())
	require.NoError(t, err)
	for _, d := range devices {
		assert.NotEmpty(t, d.Format)
	}
}
