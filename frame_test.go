package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelFormat(t *testing.T) {
	tests := []struct {
		format PixelFormat
		name   string
		planes int
	}{
		{PixelFormatYUV420P, "yuv420p", 3},
		{PixelFormatNV12, "nv12", 2},
		{PixelFormatRGB24, "rgb24", 1},
		{PixelFormatRGBA, "rgba", 1},
		{PixelFormatYUVA420P, "yuva420p", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.format.String())
			assert.Equal(t, tt.planes, tt.format.PlaneCount())
			got, err := ParsePixelFormat(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.format, got)
		})
	}
	assert.Equal(t, "none", PixelFormatNone.String())
	_, err := ParsePixelFormat("nonsense")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSampleFormat(t *testing.T) {
	assert.Equal(t, 2, SampleFormatS16.BytesPerSample())
	assert.Equal(t, 4, SampleFormatFLTP.BytesPerSample())
	assert.Zero(t, SampleFormat(99).BytesPerSample())
	assert.True(t, SampleFormatFLTP.IsPlanar())
	assert.False(t, SampleFormatS16.IsPlanar())
	assert.Equal(t, SampleFormatFLT, SampleFormatFLTP.Packed())
	assert.Equal(t, SampleFormatS16P, SampleFormatS16.Planar())
	assert.Equal(t, SampleFormatS16, SampleFormatS16.Packed())
	assert.Equal(t, SampleFormatNone, SampleFormat(99).Planar())

	f, err := ParseSampleFormat("fltp")
	require.NoError(t, err)
	assert.Equal(t, SampleFormatFLTP, f)
	assert.Equal(t, "none", SampleFormatNone.String())
}

func TestI420Size(t *testing.T) {
	assert.Equal(t, 1920*1080+2*960*540, I420Size(1920, 1080))
	assert.Equal(t, 640*480+2*320*240, I420Size(640, 480))
	assert.Equal(t, 3*3+2*2*2, I420Size(3, 3), "odd sizes round chroma up")
}

func TestVideoFrameCopy(t *testing.T) {
	requireFFmpeg(t)
	f := newTestVideoFrame(t, 32, 16, PixelFormatYUV420P)
	f.SetPTS(7)
	f.SetDuration(1)

	vf := f.Copy()
	assert.Equal(t, 32, vf.Width)
	assert.Equal(t, 16, vf.Height)
	assert.Equal(t, PixelFormatYUV420P, vf.Format)
	assert.Equal(t, int64(7), vf.Timestamp)
	require.Len(t, vf.Data, 3)
	assert.Equal(t, f.Stride(0), vf.Stride[0])
	assert.GreaterOrEqual(t, vf.Size(), I420Size(32, 16))

	// The copy does not alias native memory.
	f.Data(0)[1] = 0xff
	assert.Equal(t, byte(1), vf.Data[0][1])

	clone := vf.Clone()
	clone.Data[0][1] = 0x42
	assert.Equal(t, byte(1), vf.Data[0][1])
	assert.Equal(t, vf.Stride, clone.Stride)
}

func TestFrameLifecycle(t *testing.T) {
	requireFFmpeg(t)
	f, err := NewVideoFrame(PixelFormatYUV420P, 16, 8)
	require.NoError(t, err)
	assert.True(t, f.IsVideo())
	assert.Equal(t, 3, f.Planes())
	assert.Nil(t, f.Data(3))
	assert.Contains(t, f.String(), "video 16x8 yuv420p")

	c, err := f.Clone()
	require.NoError(t, err)
	assert.Equal(t, f.Width(), c.Width())
	c.Free()
	f.Free()
	f.Free()

	a, err := NewAudioFrame(SampleFormatFLTP, ChannelLayoutStereo, 256, 48000)
	require.NoError(t, err)
	defer a.Free()
	assert.False(t, a.IsVideo())
	assert.Equal(t, 2, a.Planes())
	assert.Len(t, a.Data(0), 256*4)
	assert.Equal(t, 2, a.ChannelCount())
	assert.Contains(t, a.String(), "audio 256 samples fltp 48000Hz")
}

func BenchmarkVideoFrameCopy(b *testing.B) {
	requireFFmpeg(b)
	f := newTestVideoFrame(b, 1280, 720, PixelFormatYUV420P)
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		_ = f.Copy()
	}
}
