package ffmpeg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTranscodeMatrix re-encodes an MPEG-4 clip into every video codec
// with an encoder and checks the result decodes back to the same number
// of pictures.
func TestTranscodeMatrix(t *testing.T) {
	requireFFmpeg(t)
	path := writeTestVideo(t, 10)

	codecs := []struct {
		id CodecID
		// sniff is false for codecs DetectCodec does not recognize.
		sniff bool
	}{
		{CodecIDMPEG4, false},
		{CodecIDH264, true},
		{CodecIDHEVC, true},
		{CodecIDVP8, true},
		{CodecIDVP9, true},
		{CodecIDAV1, true},
	}
	for _, c := range codecs {
		t.Run(c.id.String(), func(t *testing.T) {
			if _, err := FindEncoder(c.id); err != nil {
				t.Skipf("no encoder: %v", err)
			}
			got := transcodeClip(t, path, c.id)
			require.NotEmpty(t, got.packets)
			assert.True(t, got.keys[0], "first packet is a key frame")
			if c.sniff {
				assert.Equal(t, c.id, DetectCodec(got.packets[0]))
			}
			for i := 1; i < len(got.pts); i++ {
				assert.Greater(t, got.pts[i], got.pts[i-1], "packet %d", i)
			}
			if _, err := FindDecoder(c.id); err != nil {
				return
			}
			assert.Equal(t, 10, decodeClip(t, got))
		})
	}
}

type encodedClip struct {
	par     *CodecParameters
	packets [][]byte
	keys    []bool
	pts     []int64
}

func transcodeClip(t *testing.T, path string, id CodecID) *encodedClip {
	t.Helper()
	in, err := OpenInput(path)
	require.NoError(t, err)
	defer in.Close()
	st, err := in.BestStream(MediaTypeVideo)
	require.NoError(t, err)

	cfg := DefaultVideoEncoderConfig(id, 0, 0)
	cfg.FPS = 25
	cfg.MaxBFrames = 0
	tr, err := NewTranscoder(TranscoderConfig{
		Input:         st.Parameters(),
		InputTimeBase: st.TimeBase(),
		Outputs:       []VariantConfig{{ID: "out", VideoEncoderConfig: cfg}},
	})
	if err != nil {
		t.Skipf("encoder unusable: %v", err)
	}
	defer tr.Close()

	clip := &encodedClip{}
	collect := func(vp VariantPacket) error {
		clip.packets = append(clip.packets, vp.Packet.Bytes())
		clip.keys = append(clip.keys, vp.Packet.IsKey())
		clip.pts = append(clip.pts, vp.Packet.PTS())
		return nil
	}
	for s, pkt := range in.Packets() {
		if s.Index() == st.Index() {
			require.NoError(t, tr.Transcode(pkt, collect))
		}
	}
	require.NoError(t, in.Err())
	require.NoError(t, tr.Transcode(nil, collect))

	clip.par, err = tr.Encoder("out").Parameters()
	require.NoError(t, err)
	t.Cleanup(clip.par.Free)
	return clip
}

func decodeClip(t *testing.T, clip *encodedClip) int {
	t.Helper()
	dec, err := NewVideoDecoder(clip.par, nil)
	require.NoError(t, err)
	defer dec.Free()
	frame, err := NewFrame()
	require.NoError(t, err)
	defer frame.Free()

	n := 0
	drain := func() error {
		for {
			err := dec.ReceiveFrame(frame)
			if errors.Is(err, ErrAgain) || errors.Is(err, ErrEOF) {
				return nil
			}
			if err != nil {
				return err
			}
			assert.Equal(t, 64, frame.Width())
			assert.Equal(t, 48, frame.Height())
			n++
		}
	}
	for _, data := range clip.packets {
		pkt, err := NewPacketFromBytes(data)
		require.NoError(t, err)
		err = dec.SendPacket(pkt)
		pkt.Free()
		require.NoError(t, err)
		require.NoError(t, drain())
	}
	require.NoError(t, dec.SendEOF())
	require.NoError(t, drain())
	return n
}
