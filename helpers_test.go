package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// requireFFmpeg skips t when the shared libraries cannot be loaded.
func requireFFmpeg(t testing.TB) {
	t.Helper()
	if err := Init(); err != nil {
		t.Skipf("ffmpeg libraries unavailable: %v", err)
	}
}

// newTestVideoFrame allocates a picture filled with a luma gradient and
// neutral chroma. It is freed when the test ends.
func newTestVideoFrame(t testing.TB, width, height int, format PixelFormat) *Frame {
	t.Helper()
	f, err := NewVideoFrame(format, width, height)
	require.NoError(t, err)
	t.Cleanup(f.Free)

	for i := 0; i < f.Planes(); i++ {
		data := f.Data(i)
		for j := range data {
			if i == 0 {
				data[j] = byte(j % 256)
			} else {
				data[j] = 128
			}
		}
	}
	return f
}
