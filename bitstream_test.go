package ffmpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSPS = []byte{0x67, 0x42, 0xc0, 0x1e, 0xda, 0x02, 0x80, 0xbf, 0xe5}
	testPPS = []byte{0x68, 0xce, 0x3c, 0x80}
	testIDR = []byte{0x65, 0x88, 0x84, 0x00, 0x33, 0xff}
)

func testAVCC(nalus ...[]byte) []byte {
	var b []byte
	for _, n := range nalus {
		l := len(n)
		b = append(b, byte(l>>24), byte(l>>16), byte(l>>8), byte(l))
		b = append(b, n...)
	}
	return b
}

func testAnnexB(nalus ...[]byte) []byte {
	var b []byte
	for _, n := range nalus {
		b = append(b, 0, 0, 0, 1)
		b = append(b, n...)
	}
	return b
}

func TestH264ExtradataRoundTrip(t *testing.T) {
	x := &H264Extradata{
		Profile:        0x42,
		Compatibility:  0xc0,
		Level:          0x1e,
		NALULengthSize: 4,
		SPS:            [][]byte{testSPS},
		PPS:            [][]byte{testPPS},
	}
	b := x.Marshal()
	require.True(t, IsAVCC(b))

	got, err := ParseH264Extradata(b)
	require.NoError(t, err)
	assert.Equal(t, x, got)
	assert.Equal(t, [][]byte{testSPS, testPPS}, got.ParameterSets())
}

func TestParseH264ExtradataErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"annex-b", testAnnexB(testSPS, testPPS)},
		{"truncated sps", []byte{1, 0x42, 0xc0, 0x1e, 0xff, 0xe1, 0x00, 0x20, 0x67}},
		{"missing pps count", append([]byte{1, 0x42, 0xc0, 0x1e, 0xff, 0xe1, 0x00, byte(len(testSPS))}, testSPS...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseH264Extradata(tt.data)
			assert.ErrorIs(t, err, ErrInvalidData)
		})
	}
}

func TestH264ExtradataFromAnnexB(t *testing.T) {
	x, err := H264ExtradataFromAnnexB(testAnnexB(testSPS, testPPS))
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), x.Profile)
	assert.Equal(t, uint8(0x1e), x.Level)
	assert.Equal(t, [][]byte{testSPS}, x.SPS)
	assert.Equal(t, [][]byte{testPPS}, x.PPS)

	_, err = H264ExtradataFromAnnexB(testAnnexB(testPPS))
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestAVCCAnnexBConversion(t *testing.T) {
	avcc := testAVCC(testSPS, testIDR)
	annexB := testAnnexB(testSPS, testIDR)

	got, err := AVCCToAnnexB(avcc)
	require.NoError(t, err)
	assert.Equal(t, annexB, got)

	back, err := AnnexBToAVCC(got)
	require.NoError(t, err)
	assert.Equal(t, avcc, back)
}

func TestHEVCParameterSets(t *testing.T) {
	vps := []byte{0x40, 0x01, 0x0c}
	sps := []byte{0x42, 0x01, 0x01}
	pps := []byte{0x44, 0x01, 0xc1}

	b := make([]byte, 22, 64)
	b[0] = 1
	b = append(b, 3)
	for _, unit := range []struct {
		typ  byte
		data []byte
	}{{32, vps}, {33, sps}, {34, pps}} {
		b = append(b, 0x80|unit.typ, 0, 1, 0, byte(len(unit.data)))
		b = append(b, unit.data...)
	}

	sets, err := HEVCParameterSets(b)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{vps, sps, pps}, sets)

	_, err = HEVCParameterSets(b[:len(b)-1])
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestSplitNALUsBothFramings(t *testing.T) {
	for name, data := range map[string][]byte{
		"avcc":    testAVCC(testSPS, testPPS, testIDR),
		"annex-b": testAnnexB(testSPS, testPPS, testIDR),
	} {
		t.Run(name, func(t *testing.T) {
			au, err := splitNALUs(data)
			require.NoError(t, err)
			assert.Equal(t, [][]byte{testSPS, testPPS, testIDR}, au)
			assert.True(t, hasParameterSets(CodecIDH264, au))
			assert.True(t, isRandomAccess(CodecIDH264, au))
		})
	}
}
