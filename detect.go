package ffmpeg

import (
	"bytes"
	"encoding/binary"

	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h264"
	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h265"
)

// DetectCodec guesses the codec of an elementary stream from its first
// bytes. It recognizes:
//   - H.264 and H.265 in Annex-B framing
//   - H.264 in AVCC framing (4-byte lengths)
//   - IVF files carrying VP8, VP9 or AV1
//   - VP8 key frames, VP9 frames and AV1 OBUs
//   - Ogg Opus, FLAC, AAC in ADTS and MP3
//
// The VP9 and AV1 checks look at a few header bits only, so DetectCodec
// is a hint for raw payloads of unknown origin. It returns CodecIDNone
// when nothing matches.
func DetectCodec(data []byte) CodecID {
	if len(data) < 4 {
		return CodecIDNone
	}
	switch {
	case string(data[:4]) == "DKIF":
		return detectIVF(data)
	case string(data[:4]) == "OggS":
		if len(data) >= 36 && string(data[28:36]) == "OpusHead" {
			return CodecIDOpus
		}
		return CodecIDNone
	case string(data[:4]) == "fLaC":
		return CodecIDFLAC
	case isADTS(data):
		return CodecIDAAC
	case isMPEGAudio(data):
		return CodecIDMP3
	}
	if n := startCodeLen(data); n > 0 && len(data) > n+1 {
		if id := detectNALU(data[n], data[n+1]); id != CodecIDNone {
			return id
		}
	}
	if isAVCCFrame(data) {
		return CodecIDH264
	}
	switch {
	case isVP8KeyFrame(data):
		return CodecIDVP8
	case isAV1OBU(data):
		return CodecIDAV1
	case isVP9Frame(data):
		return CodecIDVP9
	}
	return CodecIDNone
}

func detectIVF(data []byte) CodecID {
	if len(data) < 32 {
		return CodecIDNone
	}
	switch string(data[8:12]) {
	case "VP80":
		return CodecIDVP8
	case "VP90":
		return CodecIDVP9
	case "AV01":
		return CodecIDAV1
	}
	return CodecIDNone
}

func startCodeLen(data []byte) int {
	switch {
	case bytes.HasPrefix(data, []byte{0, 0, 0, 1}):
		return 4
	case bytes.HasPrefix(data, []byte{0, 0, 1}):
		return 3
	}
	return 0
}

// detectNALU classifies the first NAL unit header of an Annex-B stream.
// H.264 is tried first, unless a slice, SPS or PPS header also reads as an
// H.265 start header. SEI and delimiter units of H.264 always have a zero
// nal_ref_idc, which tells them apart from H.265 headers with the same low
// bits. H.265 headers have a non-zero temporal id.
func detectNALU(b0, b1 byte) CodecID {
	if b0&0x80 != 0 {
		return CodecIDNone
	}
	switch h264.NALUType(b0 & 0x1f) {
	case h264.NALUTypeNonIDR, h264.NALUTypeIDR, h264.NALUTypeSPS, h264.NALUTypePPS:
		if !isHEVCStartHeader(b0, b1) {
			return CodecIDH264
		}
	case h264.NALUTypeSEI, h264.NALUTypeAccessUnitDelimiter:
		if b0&0x60 == 0 {
			return CodecIDH264
		}
	}
	if b1&0x07 == 0 {
		return CodecIDNone
	}
	switch typ := h265.NALUType((b0 >> 1) & 0x3f); {
	case typ <= h265.NALUType_CRA_NUT, typ >= h265.NALUType_VPS_NUT && typ <= h265.NALUType_SUFFIX_SEI_NUT:
		return CodecIDHEVC
	}
	return CodecIDNone
}

// isHEVCStartHeader reports whether b0 b1 read as an H.265 header for a
// unit a stream starts with (IRAP picture, parameter set, delimiter or
// SEI) in layer 0. The second byte of an H.264 slice, SPS or PPS at the
// start of a stream is 8 or more: a profile_idc or an Exp-Golomb id.
func isHEVCStartHeader(b0, b1 byte) bool {
	if b1 == 0 || b1 >= 0x08 {
		return false
	}
	typ := h265.NALUType((b0 >> 1) & 0x3f)
	return (typ >= h265.NALUType_BLA_W_LP && typ <= h265.NALUType_CRA_NUT) ||
		(typ >= h265.NALUType_VPS_NUT && typ <= h265.NALUType_SUFFIX_SEI_NUT)
}

// isAVCCFrame reports whether data starts with a plausible 4-byte NAL length
// followed by an H.264 NAL header.
func isAVCCFrame(data []byte) bool {
	if len(data) < 5 {
		return false
	}
	n := binary.BigEndian.Uint32(data)
	if n == 0 || uint64(n) > uint64(len(data)-4) {
		return false
	}
	typ := data[4] & 0x1f
	return data[4]&0x80 == 0 && ((typ >= 1 && typ <= 12) || (typ >= 19 && typ <= 21))
}

// isVP8KeyFrame checks the inverted key frame bit and the start code that
// follows the 3-byte frame tag.
func isVP8KeyFrame(data []byte) bool {
	return len(data) >= 10 && data[0]&0x01 == 0 &&
		data[3] == 0x9d && data[4] == 0x01 && data[5] == 0x2a
}

// isVP9Frame checks the 2-bit frame marker.
func isVP9Frame(data []byte) bool {
	return len(data) >= 3 && data[0]>>6 == 0x02
}

// isAV1OBU checks for a temporal delimiter or sequence header OBU with a
// size field, which is how low-overhead AV1 streams begin.
func isAV1OBU(data []byte) bool {
	if data[0]&0x81 != 0 || data[0]&0x02 == 0 {
		return false
	}
	typ := (data[0] >> 3) & 0x0f
	return typ == 1 || typ == 2
}

// isADTS checks the 12-bit syncword and the zero layer of an ADTS header.
func isADTS(data []byte) bool {
	return len(data) >= 7 && data[0] == 0xff && data[1]&0xf6 == 0xf0
}

// isMPEGAudio checks the 11-bit syncword and a layer III header.
func isMPEGAudio(data []byte) bool {
	return data[0] == 0xff && data[1]&0xe0 == 0xe0 && (data[1]>>1)&0x03 == 0x01
}
