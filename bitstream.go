package ffmpeg

import (
	"encoding/binary"
	"fmt"

	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h264"
	"github.com/bluenviron/mediacommon/v2/pkg/codecs/h265"
)

// H264Extradata is the content of an avcC box (AVCDecoderConfigurationRecord),
// the extradata of H.264 streams demuxed from MP4, MKV and FLV.
type H264Extradata struct {
	Profile        uint8
	Compatibility  uint8
	Level          uint8
	NALULengthSize int
	SPS            [][]byte
	PPS            [][]byte
}

// IsAVCC reports whether extradata holds an avcC record rather than Annex-B
// parameter sets.
func IsAVCC(extradata []byte) bool {
	return len(extradata) >= 7 && extradata[0] == 1
}

// ParseH264Extradata parses an avcC record.
func ParseH264Extradata(b []byte) (*H264Extradata, error) {
	if !IsAVCC(b) {
		return nil, fmt.Errorf("%w: not an avcC record", ErrInvalidData)
	}
	x := &H264Extradata{
		Profile:        b[1],
		Compatibility:  b[2],
		Level:          b[3],
		NALULengthSize: int(b[4]&0x03) + 1,
	}
	var (
		pos int
		err error
	)
	x.SPS, pos, err = readParameterSets(b, 6, int(b[5]&0x1f))
	if err != nil {
		return nil, fmt.Errorf("avcC SPS: %w", err)
	}
	if pos >= len(b) {
		return nil, fmt.Errorf("%w: avcC truncated", ErrInvalidData)
	}
	x.PPS, _, err = readParameterSets(b, pos+1, int(b[pos]))
	if err != nil {
		return nil, fmt.Errorf("avcC PPS: %w", err)
	}
	return x, nil
}

// readParameterSets reads n 16-bit length prefixed units from b at pos.
func readParameterSets(b []byte, pos, n int) ([][]byte, int, error) {
	out := make([][]byte, 0, n)
	for i := 0; i < n; i++ {
		if pos+2 > len(b) {
			return nil, pos, fmt.Errorf("%w: truncated", ErrInvalidData)
		}
		size := int(binary.BigEndian.Uint16(b[pos:]))
		pos += 2
		if pos+size > len(b) {
			return nil, pos, fmt.Errorf("%w: unit of %d bytes truncated", ErrInvalidData, size)
		}
		out = append(out, b[pos:pos+size])
		pos += size
	}
	return out, pos, nil
}

// Marshal encodes the record back into avcC form.
func (x *H264Extradata) Marshal() []byte {
	b := []byte{1, x.Profile, x.Compatibility, x.Level, 0xfc | byte(x.NALULengthSize-1)&0x03, 0xe0 | byte(len(x.SPS))&0x1f}
	for _, s := range x.SPS {
		b = binary.BigEndian.AppendUint16(b, uint16(len(s)))
		b = append(b, s...)
	}
	b = append(b, byte(len(x.PPS)))
	for _, p := range x.PPS {
		b = binary.BigEndian.AppendUint16(b, uint16(len(p)))
		b = append(b, p...)
	}
	return b
}

// ParameterSets returns the SPS then PPS units.
func (x *H264Extradata) ParameterSets() [][]byte {
	out := make([][]byte, 0, len(x.SPS)+len(x.PPS))
	out = append(out, x.SPS...)
	return append(out, x.PPS...)
}

// H264ExtradataFromAnnexB builds an avcC record from Annex-B parameter sets.
func H264ExtradataFromAnnexB(b []byte) (*H264Extradata, error) {
	var au h264.AnnexB
	if err := au.Unmarshal(b); err != nil {
		return nil, err
	}
	x := &H264Extradata{NALULengthSize: 4}
	for _, nalu := range au {
		if len(nalu) == 0 {
			continue
		}
		switch h264.NALUType(nalu[0] & 0x1f) {
		case h264.NALUTypeSPS:
			x.SPS = append(x.SPS, nalu)
		case h264.NALUTypePPS:
			x.PPS = append(x.PPS, nalu)
		}
	}
	if len(x.SPS) == 0 {
		return nil, fmt.Errorf("%w: no SPS", ErrInvalidData)
	}
	if len(x.SPS[0]) >= 4 {
		x.Profile, x.Compatibility, x.Level = x.SPS[0][1], x.SPS[0][2], x.SPS[0][3]
	}
	return x, nil
}

// HEVCParameterSets extracts the VPS, SPS and PPS units of an hvcC record.
func HEVCParameterSets(b []byte) ([][]byte, error) {
	if len(b) < 23 || b[0] != 1 {
		return nil, fmt.Errorf("%w: not an hvcC record", ErrInvalidData)
	}
	n := int(b[22])
	pos := 23
	var out [][]byte
	for i := 0; i < n; i++ {
		if pos+3 > len(b) {
			return nil, fmt.Errorf("%w: hvcC truncated", ErrInvalidData)
		}
		count := int(binary.BigEndian.Uint16(b[pos+1:]))
		pos += 3
		for j := 0; j < count; j++ {
			if pos+2 > len(b) {
				return nil, fmt.Errorf("%w: hvcC truncated", ErrInvalidData)
			}
			size := int(binary.BigEndian.Uint16(b[pos:]))
			pos += 2
			if pos+size > len(b) {
				return nil, fmt.Errorf("%w: hvcC truncated", ErrInvalidData)
			}
			out = append(out, b[pos:pos+size])
			pos += size
		}
	}
	return out, nil
}

// AVCCToAnnexB converts length-prefixed NAL units (4-byte lengths) to
// start-code delimited ones.
func AVCCToAnnexB(b []byte) ([]byte, error) {
	var au h264.AVCC
	if err := au.Unmarshal(b); err != nil {
		return nil, err
	}
	return h264.AnnexB(au).Marshal()
}

// AnnexBToAVCC converts start-code delimited NAL units to 4-byte length
// prefixed ones.
func AnnexBToAVCC(b []byte) ([]byte, error) {
	var au h264.AnnexB
	if err := au.Unmarshal(b); err != nil {
		return nil, err
	}
	return h264.AVCC(au).Marshal()
}

// h264AnnexB joins NAL units with start codes. The framing is shared by
// H.264 and H.265.
func h264AnnexB(au [][]byte) ([]byte, error) {
	return h264.AnnexB(au).Marshal()
}

// splitNALUs splits an access unit in either framing.
func splitNALUs(b []byte) ([][]byte, error) {
	if len(b) >= 4 && b[0] == 0 && b[1] == 0 && (b[2] == 1 || (b[2] == 0 && b[3] == 1)) {
		var au h264.AnnexB
		if err := au.Unmarshal(b); err != nil {
			return nil, err
		}
		return au, nil
	}
	var au h264.AVCC
	if err := au.Unmarshal(b); err != nil {
		return nil, err
	}
	return au, nil
}

// hasParameterSets reports whether au already carries an SPS (H.264) or
// VPS (H.265).
func hasParameterSets(id CodecID, au [][]byte) bool {
	for _, nalu := range au {
		if len(nalu) == 0 {
			continue
		}
		switch id {
		case CodecIDH264:
			if h264.NALUType(nalu[0]&0x1f) == h264.NALUTypeSPS {
				return true
			}
		case CodecIDHEVC:
			if h265.NALUType((nalu[0]>>1)&0x3f) == h265.NALUType_VPS_NUT {
				return true
			}
		}
	}
	return false
}

// isRandomAccess reports whether au starts a decodable sequence.
func isRandomAccess(id CodecID, au [][]byte) bool {
	switch id {
	case CodecIDH264:
		return h264.IsRandomAccess(au)
	case CodecIDHEVC:
		return h265.IsRandomAccess(au)
	}
	return false
}
