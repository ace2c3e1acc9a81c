package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecIDName(t *testing.T) {
	tests := []struct {
		id   CodecID
		want string
	}{
		{CodecIDH264, "h264"},
		{CodecIDHEVC, "hevc"},
		{CodecIDVP8, "vp8"},
		{CodecIDVP9, "vp9"},
		{CodecIDAV1, "av1"},
		{CodecIDOpus, "opus"},
		{CodecIDAAC, "aac"},
		{CodecIDPCMMulaw, "pcm_mulaw"},
		{CodecIDSubRip, "subrip"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.id.String())
		text, err := tt.id.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(text))
	}
}

func TestParseCodecID(t *testing.T) {
	tests := []struct {
		name string
		want CodecID
	}{
		{"h264", CodecIDH264},
		{" H264 ", CodecIDH264},
		{"avc", CodecIDH264},
		{"h265", CodecIDHEVC},
		{"hevc", CodecIDHEVC},
		{"vp9", CodecIDVP9},
		{"opus", CodecIDOpus},
		{"mpeg4", CodecIDMPEG4},
	}
	for _, tt := range tests {
		got, err := ParseCodecID(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := ParseCodecID("nonsense")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = ParseCodecID("none")
	assert.Error(t, err)
}

func TestCodecIDMediaType(t *testing.T) {
	assert.Equal(t, MediaTypeVideo, CodecIDVP8.MediaType())
	assert.Equal(t, MediaTypeAudio, CodecIDOpus.MediaType())
	assert.Equal(t, MediaTypeSubtitle, CodecIDWebVTT.MediaType())
}

func TestCodecIDRTP(t *testing.T) {
	tests := []struct {
		id    CodecID
		mime  string
		clock uint32
		pt    uint8
	}{
		{CodecIDVP8, "video/VP8", 90000, 96},
		{CodecIDVP9, "video/VP9", 90000, 98},
		{CodecIDH264, "video/H264", 90000, 102},
		{CodecIDHEVC, "video/H265", 90000, 104},
		{CodecIDAV1, "video/AV1", 90000, 35},
		{CodecIDOpus, "audio/opus", 48000, 111},
		{CodecIDPCMAlaw, "audio/PCMA", 8000, 8},
		{CodecIDPCMMulaw, "audio/PCMU", 8000, 0},
		{CodecIDMPEG4, "", 90000, 96},
	}
	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			assert.Equal(t, tt.mime, tt.id.MimeType())
			assert.Equal(t, tt.clock, tt.id.ClockRate())
			assert.Equal(t, tt.pt, tt.id.DefaultPayloadType())
		})
	}
}

func TestRateControlModeString(t *testing.T) {
	assert.Equal(t, "VBR", RateControlVBR.String())
	assert.Equal(t, "CBR", RateControlCBR.String())
	assert.Equal(t, "CQ", RateControlCQ.String())
	assert.Equal(t, "Unknown", RateControlMode(9).String())
}

func TestH264ProfileString(t *testing.T) {
	assert.Equal(t, "baseline", H264ProfileBaseline.String())
	assert.Equal(t, "high", H264ProfileHigh.String())
	assert.Equal(t, "Unknown", H264Profile(1).String())
}

func TestFindCodecs(t *testing.T) {
	requireFFmpeg(t)
	dec, err := FindDecoder(CodecIDMPEG4)
	require.NoError(t, err)
	assert.Equal(t, CodecIDMPEG4, dec.ID())
	assert.Equal(t, MediaTypeVideo, dec.MediaType())
	assert.True(t, dec.IsDecoder())
	assert.False(t, dec.IsEncoder())

	_, err = FindEncoderByName("no-such-encoder")
	assert.ErrorIs(t, err, ErrEncoderNotFound)

	n := 0
	for c := range Codecs() {
		assert.NotEmpty(t, c.Name())
		n++
	}
	assert.Greater(t, n, 10)
}
