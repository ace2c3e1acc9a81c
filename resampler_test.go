package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioSpecString(t *testing.T) {
	s := AudioSpec{Format: SampleFormatFLTP, Layout: ChannelLayoutStereo, Rate: 48000}
	assert.Equal(t, "48000Hz fltp stereo", s.String())
}

func TestNewResamplerRejectsZeroRate(t *testing.T) {
	requireFFmpeg(t)
	_, err := NewResampler(AudioSpec{Format: SampleFormatFLTP, Layout: ChannelLayoutStereo},
		AudioSpec{Format: SampleFormatFLTP, Layout: ChannelLayoutStereo, Rate: 48000})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestResamplerConvertAndFlush(t *testing.T) {
	requireFFmpeg(t)

	in := AudioSpec{Format: SampleFormatFLTP, Layout: ChannelLayoutStereo, Rate: 44100}
	out := AudioSpec{Format: SampleFormatS16, Layout: DefaultChannelLayout(1), Rate: 48000}
	r, err := NewResampler(in, out)
	require.NoError(t, err)
	defer r.Free()

	src, err := NewAudioFrame(in.Format, in.Layout, 1024, in.Rate)
	require.NoError(t, err)
	defer src.Free()
	src.SetPTS(0)
	src.SetTimeBase(NewRational(1, in.Rate))

	total := 0
	dst, err := NewFrame()
	require.NoError(t, err)
	defer dst.Free()
	require.NoError(t, r.Convert(dst, src))
	assert.Equal(t, out, SpecOf(dst))
	assert.Equal(t, NewRational(1, out.Rate), dst.TimeBase())
	total += dst.NbSamples()

	tail, err := NewFrame()
	require.NoError(t, err)
	defer tail.Free()
	require.NoError(t, r.Flush(tail))
	total += tail.NbSamples()

	// 1024 samples at 44.1kHz are ~1114 samples at 48kHz.
	assert.InDelta(t, 1114, total, 4)
	assert.LessOrEqual(t, r.Delay(int64(out.Rate)), int64(1))

	r.Free()
	assert.ErrorIs(t, r.Convert(dst, src), ErrClosed)
}
