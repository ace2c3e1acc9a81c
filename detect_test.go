package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ivfHeader(fourcc string) []byte {
	b := make([]byte, 32)
	copy(b, "DKIF")
	b[6] = 32
	copy(b[8:], fourcc)
	return b
}

func TestDetectCodec(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want CodecID
	}{
		{"h264 sps", []byte{0, 0, 0, 1, 0x67, 0x42, 0x00, 0x1e}, CodecIDH264},
		{"h264 idr short start code", []byte{0, 0, 1, 0x65, 0x88, 0x84}, CodecIDH264},
		{"h264 sei", []byte{0, 0, 0, 1, 0x06, 0x05, 0x10}, CodecIDH264},
		{"h264 avcc", []byte{0, 0, 0, 5, 0x65, 0x88, 0x84, 0x00, 0x33}, CodecIDH264},
		{"hevc vps", []byte{0, 0, 0, 1, 0x40, 0x01, 0x0c, 0x01}, CodecIDHEVC},
		{"hevc sps", []byte{0, 0, 0, 1, 0x42, 0x01, 0x01, 0x01}, CodecIDHEVC},
		{"hevc aud", []byte{0, 0, 0, 1, 0x46, 0x01, 0x10}, CodecIDHEVC},
		{"hevc idr_n_lp", []byte{0, 0, 0, 1, 0x28, 0x01, 0xaf, 0x1d}, CodecIDHEVC},
		{"hevc idr_w_radl", []byte{0, 0, 0, 1, 0x26, 0x01, 0xaf, 0x1d}, CodecIDHEVC},
		{"hevc bla_w_lp", []byte{0, 0, 1, 0x20, 0x01, 0xaf}, CodecIDHEVC},
		{"hevc pps", []byte{0, 0, 0, 1, 0x44, 0x01, 0xc1, 0x72}, CodecIDHEVC},
		{"h264 pps", []byte{0, 0, 0, 1, 0x68, 0xce, 0x3c, 0x80}, CodecIDH264},
		{"h264 pps low ref_idc", []byte{0, 0, 0, 1, 0x28, 0xee, 0x3c, 0x80}, CodecIDH264},
		{"h264 slice ref_idc 2", []byte{0, 0, 0, 1, 0x41, 0x9a, 0x02}, CodecIDH264},
		{"ivf vp8", ivfHeader("VP80"), CodecIDVP8},
		{"ivf vp9", ivfHeader("VP90"), CodecIDVP9},
		{"ivf av1", ivfHeader("AV01"), CodecIDAV1},
		{"ivf unknown", ivfHeader("XXXX"), CodecIDNone},
		{"vp8 key frame", []byte{0x50, 0x42, 0x00, 0x9d, 0x01, 0x2a, 0x40, 0x00, 0x30, 0x00}, CodecIDVP8},
		{"vp9 frame", []byte{0x82, 0x49, 0x83, 0x42}, CodecIDVP9},
		{"av1 temporal delimiter", []byte{0x12, 0x00, 0x0a, 0x0b}, CodecIDAV1},
		{"av1 sequence header", []byte{0x0a, 0x0b, 0x00, 0x00}, CodecIDAV1},
		{"ogg opus", append(append([]byte("OggS"), make([]byte, 24)...), []byte("OpusHead")...), CodecIDOpus},
		{"ogg vorbis", append(append([]byte("OggS"), make([]byte, 24)...), []byte("\x01vorbis\x00")...), CodecIDNone},
		{"flac", []byte("fLaC\x00\x00\x00\x22"), CodecIDFLAC},
		{"adts", []byte{0xff, 0xf1, 0x50, 0x80, 0x01, 0x7f, 0xfc}, CodecIDAAC},
		{"mp3", []byte{0xff, 0xfb, 0x90, 0x64}, CodecIDMP3},
		{"too short", []byte{0, 0, 1}, CodecIDNone},
		{"empty", nil, CodecIDNone},
		{"text", []byte("hello world"), CodecIDNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCodec(tt.data))
		})
	}
}

func TestDetectCodecEncoded(t *testing.T) {
	sps := append([]byte{0, 0, 0, 1}, testSPS...)
	assert.Equal(t, CodecIDH264, DetectCodec(sps))

	avcc, err := AnnexBToAVCC(append(sps, append([]byte{0, 0, 0, 1}, testIDR...)...))
	assert.NoError(t, err)
	assert.Equal(t, CodecIDH264, DetectCodec(avcc))
}

func FuzzDetectCodec(f *testing.F) {
	f.Add([]byte{0, 0, 0, 1, 0x67})
	f.Add([]byte{0, 0, 0, 1, 0x28, 0x01})
	f.Add([]byte{0, 0, 0, 5, 0x67, 0x42, 0x00, 0x0a, 0x00})
	f.Add([]byte{0x82, 0x49, 0x83})
	f.Add([]byte{0x12, 0x00})
	f.Add(ivfHeader("VP90"))
	f.Add([]byte("OggS"))
	f.Fuzz(func(t *testing.T, data []byte) {
		switch id := DetectCodec(data); id {
		case CodecIDNone, CodecIDH264, CodecIDHEVC, CodecIDVP8, CodecIDVP9, CodecIDAV1,
			CodecIDOpus, CodecIDFLAC, CodecIDAAC, CodecIDMP3:
		default:
			t.Fatalf("unexpected codec %v", id)
		}
	})
}
