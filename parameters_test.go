package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecParametersVideo(t *testing.T) {
	requireFFmpeg(t)
	par, err := NewCodecParameters()
	require.NoError(t, err)
	defer par.Free()

	assert.Equal(t, PixelFormatNone, par.PixelFormat())
	assert.Equal(t, int32(-1), par.Format())

	par.SetMediaType(MediaTypeVideo)
	par.SetCodecID(CodecIDH264)
	require.NoError(t, par.SetVideo(1280, 720, PixelFormatYUV420P))
	require.NoError(t, par.SetBitRate(2_500_000))

	assert.Equal(t, MediaTypeVideo, par.MediaType())
	assert.Equal(t, CodecIDH264, par.CodecID())
	assert.Equal(t, 1280, par.Width())
	assert.Equal(t, 720, par.Height())
	assert.Equal(t, PixelFormatYUV420P, par.PixelFormat())
	assert.Equal(t, SampleFormatNone, par.SampleFormat())
	assert.Equal(t, int64(2_500_000), par.BitRate())
	assert.Equal(t, "h264 1280x720 yuv420p", par.String())

	// The scratch-context view of the same parameters must agree.
	ctx, err := NewCodecContextFromParameters(par)
	require.NoError(t, err)
	defer ctx.Free()
	assert.Equal(t, ctx.Width(), par.Width())
	assert.Equal(t, ctx.Height(), par.Height())
	assert.Equal(t, ctx.Profile(), par.Profile())
	assert.Equal(t, ctx.Level(), par.Level())
	assert.Equal(t, ctx.SampleAspectRatio(), par.SampleAspectRatio())
}

func TestCodecParametersAudio(t *testing.T) {
	requireFFmpeg(t)
	par, err := NewCodecParameters()
	require.NoError(t, err)
	defer par.Free()

	par.SetMediaType(MediaTypeAudio)
	par.SetCodecID(CodecIDAAC)
	require.NoError(t, par.SetAudio(SampleFormatFLTP, ChannelLayoutStereo, 48000))

	assert.Equal(t, 48000, par.SampleRate())
	assert.Equal(t, ChannelLayoutStereo, par.ChannelLayout())
	assert.Equal(t, 2, par.Channels())
	assert.Equal(t, SampleFormatFLTP, par.SampleFormat())
	assert.Equal(t, PixelFormatNone, par.PixelFormat())
	assert.Zero(t, par.Width())

	ctx, err := NewCodecContextFromParameters(par)
	require.NoError(t, err)
	defer ctx.Free()
	assert.Equal(t, ctx.FrameSize(), par.FrameSize())
}

func TestStreamParametersMatchDecoder(t *testing.T) {
	requireFFmpeg(t)
	in, err := OpenInput(writeTestVideo(t, 3))
	require.NoError(t, err)
	defer in.Close()

	st, err := in.BestStream(MediaTypeVideo)
	require.NoError(t, err)
	par := st.Parameters()
	assert.Equal(t, 64, par.Width())
	assert.Equal(t, 48, par.Height())
	assert.Equal(t, PixelFormatYUV420P, par.PixelFormat())
	assert.Equal(t, CodecIDMPEG4, par.CodecID())
}

func BenchmarkCodecParametersGetters(b *testing.B) {
	requireFFmpeg(b)
	par, err := NewCodecParameters()
	require.NoError(b, err)
	defer par.Free()
	par.SetMediaType(MediaTypeVideo)
	require.NoError(b, par.SetVideo(1280, 720, PixelFormatYUV420P))

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = par.Width() + par.Height() + int(par.PixelFormat())
	}
}
