package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioFIFORegroupsFrames(t *testing.T) {
	requireFFmpeg(t)
	spec := AudioSpec{Format: SampleFormatFLTP, Layout: ChannelLayoutStereo, Rate: 48000}

	q, err := NewAudioFIFO(spec, 1024)
	require.NoError(t, err)
	defer q.Free()

	for i := 0; i < 3; i++ {
		f, err := NewAudioFrame(spec.Format, spec.Layout, 700, spec.Rate)
		require.NoError(t, err)
		f.SetPTS(int64(4800 + i*700))
		f.SetTimeBase(NewRational(1, 48000))
		for p := 0; p < 2; p++ {
			b := f.Data(p)
			for j := range b {
				b[j] = 0x3f
			}
		}
		require.NoError(t, q.Write(f))
		f.Free()
	}
	assert.Equal(t, 2100, q.Size())

	var pts []int64
	for {
		f, err := q.ReadFrame(false)
		require.NoError(t, err)
		if f == nil {
			break
		}
		assert.Equal(t, 1024, f.NbSamples())
		pts = append(pts, f.PTS())
		f.Free()
	}
	assert.Equal(t, []int64{4800, 5824}, pts)
	assert.Equal(t, 52, q.Size())

	last, err := q.ReadFrame(true)
	require.NoError(t, err)
	require.NotNil(t, last)
	defer last.Free()
	assert.Equal(t, 1024, last.NbSamples())
	assert.Equal(t, int64(6848), last.PTS())
	left := last.Data(0)
	assert.Equal(t, byte(0x3f), left[52*4-1], "buffered samples")
	assert.Equal(t, byte(0), left[52*4], "silence padding")
	assert.Zero(t, q.Size())

	none, err := q.ReadFrame(true)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestAudioFIFORejectsMismatch(t *testing.T) {
	requireFFmpeg(t)

	_, err := NewAudioFIFO(AudioSpec{Format: SampleFormatS16, Layout: ChannelLayoutMono, Rate: 8000}, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	q, err := NewAudioFIFO(AudioSpec{Format: SampleFormatS16, Layout: ChannelLayoutMono, Rate: 8000}, 160)
	require.NoError(t, err)
	defer q.Free()

	mismatches := []struct {
		name   string
		format SampleFormat
		layout ChannelLayout
		rate   int
	}{
		{"format", SampleFormatFLT, ChannelLayoutMono, 8000},
		{"rate", SampleFormatS16, ChannelLayoutMono, 16000},
		{"channels", SampleFormatS16, ChannelLayoutStereo, 8000},
		{"layout", SampleFormatS16, ChannelLayoutFromMask(0x1), 8000},
	}
	for _, m := range mismatches {
		f, err := NewAudioFrame(m.format, m.layout, 160, m.rate)
		require.NoError(t, err)
		assert.ErrorIs(t, q.Write(f), ErrInputChanged, m.name)
		f.Free()
	}
	assert.Zero(t, q.Size())

	f, err := NewAudioFrame(SampleFormatS16, ChannelLayoutMono, 160, 8000)
	require.NoError(t, err)
	defer f.Free()
	require.NoError(t, q.Write(f))
	assert.Equal(t, 160, q.Size())

	q.Free()
	assert.ErrorIs(t, q.Write(f), ErrClosed)
	assert.Zero(t, q.Size())
}
