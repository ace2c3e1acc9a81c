package ffmpeg

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// writeTestVideo encodes frames pictures of 64x48 MPEG-4 into an AVI file
// and returns its path.
func writeTestVideo(t *testing.T, frames int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.avi")

	out, err := CreateOutput(path)
	require.NoError(t, err)
	defer out.Close()

	cfg := DefaultVideoEncoderConfig(CodecIDMPEG4, 64, 48)
	cfg.FPS = 25
	cfg.MaxBFrames = 0
	cfg.GlobalHeader = out.GlobalHeader()
	enc, err := NewVideoEncoder(cfg)
	if err != nil {
		t.Skipf("mpeg4 encoder unavailable: %v", err)
	}
	defer enc.Free()

	st, err := out.AddStream(nil)
	require.NoError(t, err)
	par, err := enc.Parameters()
	require.NoError(t, err)
	require.NoError(t, st.SetParameters(par))
	par.Free()
	st.SetTimeBase(enc.TimeBase())
	require.NoError(t, out.SetMetadata(NewDictionary("title", "probe test")))

	_, err = out.WriteHeader(nil)
	require.NoError(t, err)

	write := func(pkt *Packet) error {
		pkt.RescaleTS(enc.TimeBase(), st.TimeBase())
		pkt.SetStreamIndex(st.Index())
		return pkt.WriteInterleaved(out)
	}
	for i := 0; i < frames; i++ {
		f := newTestVideoFrame(t, 64, 48, PixelFormatYUV420P)
		f.SetPTS(int64(i))
		require.NoError(t, enc.Encode(f, write))
	}
	require.NoError(t, enc.Encode(nil, write))
	require.NoError(t, out.WriteTrailer())
	return path
}

func TestProbe(t *testing.T) {
	requireFFmpeg(t)
	path := writeTestVideo(t, 10)

	info, err := Probe(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "avi", info.Format)
	assert.NotEmpty(t, info.FormatLong)
	require.Len(t, info.Streams, 1)
	assert.Equal(t, 0, info.VideoStream)

	s := info.Streams[0]
	assert.Equal(t, MediaTypeVideo, s.Type)
	assert.Equal(t, CodecIDMPEG4, s.Codec)
	assert.Equal(t, 64, s.Width)
	assert.Equal(t, 48, s.Height)
	assert.Equal(t, "yuv420p", s.PixelFormat)
	assert.InDelta(t, 25, s.FPS, 0.01)
	require.NotNil(t, info.EstimatedFrames)
	assert.LessOrEqual(t, *info.EstimatedFrames, int64(10))

	require.NotNil(t, info.FirstFrame, info.FirstFrameError)
	assert.Equal(t, 64, info.FirstFrame.Width)
	assert.Equal(t, 48, info.FirstFrame.Height)
	assert.Equal(t, PixelFormatYUV420P, info.FirstFrame.Format)
	require.Len(t, info.FirstFrame.Planes, 3)
	for _, p := range info.FirstFrame.Planes {
		assert.Positive(t, p.Stride)
		assert.Positive(t, p.Size)
	}
}

func TestProbeMissingFile(t *testing.T) {
	requireFFmpeg(t)
	_, err := Probe(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	require.Error(t, err)
}

func TestMediaInfoEncoding(t *testing.T) {
	info := &MediaInfo{
		Path:        "a.m4a",
		Format:      "mov,mp4,m4a,3gp,3g2,mj2",
		Tags:        []DictEntry{{Key: "title", Value: "x"}},
		VideoStream: -1,
		Streams: []StreamInfo{{
			Index:        0,
			Type:         MediaTypeAudio,
			Codec:        CodecIDAAC,
			TimeBase:     NewRational(1, 44100),
			SampleRate:   44100,
			Channels:     2,
			SampleFormat: "fltp",
		}},
	}

	b, err := json.Marshal(info)
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `"video_stream":-1`)
	assert.Contains(t, s, `"type":"audio"`)
	assert.Contains(t, s, `"codec":"aac"`)
	assert.Contains(t, s, `"time_base":{"num":1,"den":44100}`)
	assert.NotContains(t, s, "first_frame")
	assert.NotContains(t, s, "pixel_format")

	y, err := yaml.Marshal(info)
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, yaml.Unmarshal(y, &back))
	assert.Equal(t, -1, back["video_stream"])
	streams := back["streams"].([]any)
	assert.Equal(t, "audio", streams[0].(map[string]any)["type"])
}
