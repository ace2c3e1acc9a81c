package ffmpeg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/pion/rtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanPacketize(t *testing.T) {
	for _, id := range []CodecID{CodecIDH264, CodecIDHEVC, CodecIDVP8, CodecIDVP9, CodecIDAV1, CodecIDOpus, CodecIDPCMAlaw, CodecIDPCMMulaw} {
		assert.True(t, CanPacketize(id), "%v", id)
		assert.NotEmpty(t, id.MimeType(), "%v", id)
	}
	assert.False(t, CanPacketize(CodecIDAAC))
	assert.False(t, CanPacketize(CodecIDMP3))
}

func TestRTPPacketizerDefaults(t *testing.T) {
	p, err := NewRTPPacketizer(CodecIDOpus, NewRational(1, 48000), nil, RTPConfig{})
	require.NoError(t, err)
	assert.Equal(t, uint32(48000), p.ClockRate())
	assert.Equal(t, CodecIDOpus.DefaultPayloadType(), p.PayloadType())
	assert.Equal(t, "audio/opus", p.MimeType())
}

func TestNewRTPPacketizerErrors(t *testing.T) {
	tb := NewRational(1, 90000)
	_, err := NewRTPPacketizer(CodecIDAAC, tb, nil, RTPConfig{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewRTPPacketizer(CodecIDVP8, Rational{}, nil, RTPConfig{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewRTPPacketizer(CodecIDVP8, tb, nil, RTPConfig{MTU: 10})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewRTPPacketizer(CodecIDH264, tb, []byte{1, 2, 3, 4, 5, 6, 7}, RTPConfig{})
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestRTPPacketizerTimestamps(t *testing.T) {
	p, err := NewRTPPacketizer(CodecIDVP8, NewRational(1, 1000), nil, RTPConfig{
		PayloadType:     96,
		SSRC:            12345,
		TimestampOffset: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(90000), p.ClockRate())
	assert.Equal(t, DefaultMTU, p.MTU())

	first, err := p.PacketizeData(make([]byte, 500), 5000, true)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, uint32(1000), first[0].Timestamp, "timestamps start at the offset")

	second, err := p.PacketizeData(make([]byte, 500), 5040, false)
	require.NoError(t, err)
	require.NotEmpty(t, second)
	assert.Equal(t, uint32(1000+40*90), second[0].Timestamp)
	assert.Equal(t, first[0].SequenceNumber+1, second[0].SequenceNumber)
	assert.Equal(t, uint8(96), second[0].PayloadType)
	assert.Equal(t, uint32(12345), second[0].SSRC)

	stats := p.Stats()
	assert.Equal(t, uint64(2), stats.FramesSent)
	assert.Equal(t, uint64(1), stats.KeyframesSent)
}

func TestRTPPacketizerMarkerAndMTU(t *testing.T) {
	p, err := NewRTPPacketizer(CodecIDVP8, NewRational(1, 90000), nil, RTPConfig{PayloadType: 96})
	require.NoError(t, err)

	packets, err := p.PacketizeData(make([]byte, 10000), 0, true)
	require.NoError(t, err)
	require.Greater(t, len(packets), 1)
	for i, pkt := range packets {
		b, err := pkt.Marshal()
		require.NoError(t, err)
		assert.LessOrEqual(t, len(b), DefaultMTU)
		assert.Equal(t, i == len(packets)-1, pkt.Marker, "packet %d", i)
	}
}

func TestRTPPacketizerInjectsParameterSets(t *testing.T) {
	extradata := (&H264Extradata{
		Profile: 0x42, Compatibility: 0xc0, Level: 0x1e, NALULengthSize: 4,
		SPS: [][]byte{testSPS},
		PPS: [][]byte{testPPS},
	}).Marshal()
	p, err := NewRTPPacketizer(CodecIDH264, NewRational(1, 90000), extradata, RTPConfig{PayloadType: 102})
	require.NoError(t, err)

	packets, err := p.PacketizeData(testAVCC(testIDR), 0, true)
	require.NoError(t, err)
	require.Len(t, packets, 2)
	assert.Equal(t, byte(24), packets[0].Payload[0]&0x1f, "STAP-A with SPS and PPS")
	assert.True(t, bytes.Contains(packets[0].Payload, testSPS))
	assert.True(t, bytes.Contains(packets[0].Payload, testPPS))
	assert.Equal(t, testIDR, packets[1].Payload)
	assert.False(t, packets[0].Marker)
	assert.True(t, packets[1].Marker)

	// Non-IDR slices go out alone.
	slice := []byte{0x41, 0x9a, 0x02, 0x03}
	packets, err = p.PacketizeData(testAVCC(slice), 3000, false)
	require.NoError(t, err)
	require.Len(t, packets, 1)
	assert.Equal(t, slice, packets[0].Payload)
	assert.Equal(t, uint32(3000), packets[0].Timestamp)
}

func TestRTPPacketizerFragmentsLargeNALU(t *testing.T) {
	p, err := NewRTPPacketizer(CodecIDH264, NewRational(1, 90000), nil, RTPConfig{})
	require.NoError(t, err)

	idr := append([]byte{0x65}, make([]byte, 3000)...)
	packets, err := p.PacketizeData(testAnnexB(idr), 0, true)
	require.NoError(t, err)
	require.Greater(t, len(packets), 2)
	assert.Equal(t, byte(28), packets[0].Payload[0]&0x1f, "FU-A")
	assert.NotZero(t, packets[0].Payload[1]&0x80, "start bit")
	last := packets[len(packets)-1]
	assert.NotZero(t, last.Payload[1]&0x40, "end bit")
	assert.True(t, last.Marker)
}

func TestRTPPacketizerOpus(t *testing.T) {
	p, err := NewRTPPacketizer(CodecIDOpus, NewRational(1, 48000), nil, RTPConfig{PayloadType: 111})
	require.NoError(t, err)

	var got []uint32
	for i := 0; i < 3; i++ {
		packets, err := p.PacketizeData([]byte{0xfc, 0xff, 0xfe}, int64(i*960), true)
		require.NoError(t, err)
		require.Len(t, packets, 1)
		got = append(got, packets[0].Timestamp)
	}
	assert.Equal(t, []uint32{0, 960, 1920}, got)
}

type recordingWriter struct {
	packets []*rtp.Packet
	err     error
}

func (w *recordingWriter) WriteRTP(p *rtp.Packet) error {
	if w.err != nil {
		return w.err
	}
	w.packets = append(w.packets, p)
	return nil
}

func TestRTPPacketizerWriteTo(t *testing.T) {
	requireFFmpeg(t)

	pkt, err := NewPacketFromBytes([]byte{0xfc, 0xff, 0xfe})
	require.NoError(t, err)
	defer pkt.Free()
	pkt.SetPTS(480)

	p, err := NewRTPPacketizer(CodecIDOpus, NewRational(1, 48000), nil, RTPConfig{})
	require.NoError(t, err)

	w := &recordingWriter{}
	require.NoError(t, p.WriteTo(w, pkt))
	require.Len(t, w.packets, 1)
	assert.Equal(t, []byte{0xfc, 0xff, 0xfe}, w.packets[0].Payload)

	w.err = errors.New("closed")
	assert.EqualError(t, p.WriteTo(w, pkt), "closed")
}

func TestIsRTPTimestampOlder(t *testing.T) {
	tests := []struct {
		ts1, ts2 uint32
		want     bool
	}{
		{100, 200, true},
		{200, 100, false},
		{100, 100, true},
		{0xfffffff0, 0x10, true},
		{0x10, 0xfffffff0, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRTPTimestampOlder(tt.ts1, tt.ts2), "%d vs %d", tt.ts1, tt.ts2)
	}
}
