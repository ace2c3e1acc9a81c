package ffmpeg

import (
	"fmt"
	"sync"

	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"
)

// RTPPacket is an alias to pion's rtp.Packet.
type RTPPacket = rtp.Packet

// Default MTU for RTP packets (UDP safe)
const DefaultMTU = 1200

const rtpHeaderSize = 12

// RTPWriter receives packetized media. pion's TrackLocalStaticRTP
// implements it.
type RTPWriter interface {
	WriteRTP(packet *rtp.Packet) error
}

// RTPConfig configures an RTPPacketizer.
type RTPConfig struct {
	PayloadType uint8
	SSRC        uint32
	MTU         int    // 0 means DefaultMTU
	ClockRate   uint32 // 0 means the codec's standard rate
	// TimestampOffset is added to every RTP timestamp. RFC 3550 recommends
	// a random value.
	TimestampOffset uint32
}

// RTPStats counts what a packetizer produced.
type RTPStats struct {
	PacketsSent   uint64 `json:"packets_sent"`
	BytesSent     uint64 `json:"bytes_sent"`
	FramesSent    uint64 `json:"frames_sent"`
	KeyframesSent uint64 `json:"keyframes_sent"`
}

// rtpPayloaders lists the codecs with an RTP payload format.
var rtpPayloaders = map[CodecID]func() rtp.Payloader{
	CodecIDH264:     func() rtp.Payloader { return &codecs.H264Payloader{} },
	CodecIDHEVC:     func() rtp.Payloader { return &codecs.H265Payloader{} },
	CodecIDVP8:      func() rtp.Payloader { return &codecs.VP8Payloader{EnablePictureID: true} },
	CodecIDVP9:      func() rtp.Payloader { return &codecs.VP9Payloader{} },
	CodecIDAV1:      func() rtp.Payloader { return &codecs.AV1Payloader{} },
	CodecIDOpus:     func() rtp.Payloader { return &codecs.OpusPayloader{} },
	CodecIDPCMAlaw:  func() rtp.Payloader { return &codecs.G711Payloader{} },
	CodecIDPCMMulaw: func() rtp.Payloader { return &codecs.G711Payloader{} },
}

// CanPacketize reports whether RTPPacketizer supports id.
func CanPacketize(id CodecID) bool {
	_, ok := rtpPayloaders[id]
	return ok
}

// RTPPacketizer turns compressed packets of one stream into RTP packets.
// It is safe for concurrent use.
type RTPPacketizer struct {
	mu        sync.Mutex
	codec     CodecID
	cfg       RTPConfig
	timeBase  Rational
	payloader rtp.Payloader
	sequencer rtp.Sequencer

	// Annex-B parameter sets sent before keyframes that lack them.
	paramSets [][]byte

	firstPTS int64
	stats    RTPStats
}

// NewRTPPacketizer creates a packetizer for packets of codec id stamped in
// timeBase. A zero payload type or clock rate selects the codec default.
// extradata is the stream's codec extradata; for H.264 and H.265
// its parameter sets are injected before keyframes that lack them.
func NewRTPPacketizer(id CodecID, timeBase Rational, extradata []byte, cfg RTPConfig) (*RTPPacketizer, error) {
	newPayloader, ok := rtpPayloaders[id]
	if !ok {
		return nil, fmt.Errorf("%w: no RTP payload format for %s", ErrInvalidArgument, id)
	}
	if !timeBase.Valid() {
		return nil, fmt.Errorf("%w: time base %s", ErrInvalidArgument, timeBase)
	}
	if cfg.MTU <= 0 {
		cfg.MTU = DefaultMTU
	}
	if cfg.MTU <= rtpHeaderSize {
		return nil, fmt.Errorf("%w: MTU %d", ErrInvalidArgument, cfg.MTU)
	}
	if cfg.ClockRate == 0 {
		cfg.ClockRate = id.ClockRate()
	}
	if cfg.PayloadType == 0 {
		cfg.PayloadType = id.DefaultPayloadType()
	}
	p := &RTPPacketizer{
		codec:     id,
		cfg:       cfg,
		timeBase:  timeBase,
		payloader: newPayloader(),
		sequencer: rtp.NewRandomSequencer(),
		firstPTS:  NoPTS,
	}
	if len(extradata) > 0 {
		sets, err := parameterSets(id, extradata)
		if err != nil {
			return nil, fmt.Errorf("%s extradata: %w", id, err)
		}
		p.paramSets = sets
	}
	return p, nil
}

// NewStreamPacketizer creates a packetizer for the packets of st.
func NewStreamPacketizer(st *Stream, cfg RTPConfig) (*RTPPacketizer, error) {
	par := st.Parameters()
	return NewRTPPacketizer(par.CodecID(), st.TimeBase(), par.Extradata(), cfg)
}

// parameterSets extracts the in-band parameter sets carried by extradata.
func parameterSets(id CodecID, extradata []byte) ([][]byte, error) {
	switch id {
	case CodecIDH264:
		if IsAVCC(extradata) {
			x, err := ParseH264Extradata(extradata)
			if err != nil {
				return nil, err
			}
			return x.ParameterSets(), nil
		}
		return splitNALUs(extradata)
	case CodecIDHEVC:
		if len(extradata) > 0 && extradata[0] == 1 {
			return HEVCParameterSets(extradata)
		}
		return splitNALUs(extradata)
	}
	return nil, nil
}

func (p *RTPPacketizer) Codec() CodecID     { return p.codec }
func (p *RTPPacketizer) MimeType() string   { return p.codec.MimeType() }
func (p *RTPPacketizer) PayloadType() uint8 { return p.cfg.PayloadType }
func (p *RTPPacketizer) SSRC() uint32       { return p.cfg.SSRC }
func (p *RTPPacketizer) MTU() int           { return p.cfg.MTU }
func (p *RTPPacketizer) ClockRate() uint32  { return p.cfg.ClockRate }
func (p *RTPPacketizer) TimeBase() Rational { return p.timeBase }
func (p *RTPPacketizer) Config() RTPConfig  { return p.cfg }
func (p *RTPPacketizer) hasParamSets() bool { return len(p.paramSets) > 0 }
func (p *RTPPacketizer) nalCodec() bool     { return p.codec == CodecIDH264 || p.codec == CodecIDHEVC }
func (p *RTPPacketizer) mtuPayload() uint16 { return uint16(p.cfg.MTU - rtpHeaderSize) }

// Stats returns a snapshot of the counters.
func (p *RTPPacketizer) Stats() RTPStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Timestamp converts pts (in the packetizer's time base) to an RTP
// timestamp. Timestamps count from the first packetized PTS.
func (p *RTPPacketizer) Timestamp(pts int64) uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timestamp(pts)
}

func (p *RTPPacketizer) timestamp(pts int64) uint32 {
	if pts == NoPTS {
		pts = 0
	}
	if p.firstPTS == NoPTS {
		p.firstPTS = pts
	}
	clock := NewRational(1, int(p.cfg.ClockRate))
	return p.cfg.TimestampOffset + uint32(Rescale(pts-p.firstPTS, p.timeBase, clock))
}

// Packetize splits pkt into RTP packets. Packets without a PTS use the DTS.
func (p *RTPPacketizer) Packetize(pkt *Packet) ([]*rtp.Packet, error) {
	pts := pkt.PTS()
	if pts == NoPTS {
		pts = pkt.DTS()
	}
	return p.PacketizeData(pkt.Data(), pts, pkt.IsKey())
}

// PacketizeData splits one compressed frame into RTP packets. data is the
// payload as demuxed or encoded; H.264 and H.265 may be in AVCC or Annex-B
// framing. The marker bit is set on the last packet.
func (p *RTPPacketizer) PacketizeData(data []byte, pts int64, key bool) ([]*rtp.Packet, error) {
	if len(data) == 0 {
		return nil, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var payload []byte
	if !p.nalCodec() {
		// Packet data is borrowed; the packets outlive it.
		payload = append([]byte(nil), data...)
	} else {
		var err error
		payload, key, err = p.annexB(data, key)
		if err != nil {
			return nil, err
		}
	}

	chunks := p.payloader.Payload(p.mtuPayload(), payload)
	if len(chunks) == 0 {
		return nil, nil
	}
	ts := p.timestamp(pts)
	packets := make([]*rtp.Packet, len(chunks))
	for i, chunk := range chunks {
		packets[i] = &rtp.Packet{
			Header: rtp.Header{
				Version:        2,
				Marker:         i == len(chunks)-1,
				PayloadType:    p.cfg.PayloadType,
				SequenceNumber: p.sequencer.NextSequenceNumber(),
				Timestamp:      ts,
				SSRC:           p.cfg.SSRC,
			},
			Payload: chunk,
		}
		p.stats.BytesSent += uint64(len(chunk) + rtpHeaderSize)
	}
	p.stats.PacketsSent += uint64(len(packets))
	p.stats.FramesSent++
	if key {
		p.stats.KeyframesSent++
	}
	return packets, nil
}

// annexB converts an H.264/H.265 access unit to Annex-B, prepending the
// parameter sets to random access units that do not carry them.
func (p *RTPPacketizer) annexB(data []byte, key bool) ([]byte, bool, error) {
	au, err := splitNALUs(data)
	if err != nil {
		return nil, key, fmt.Errorf("%s access unit: %w", p.codec, err)
	}
	key = key || isRandomAccess(p.codec, au)
	if key && p.hasParamSets() && !hasParameterSets(p.codec, au) {
		au = append(append([][]byte{}, p.paramSets...), au...)
	}
	b, err := h264AnnexB(au)
	return b, key, err
}

// WriteTo packetizes pkt and writes every packet to w.
func (p *RTPPacketizer) WriteTo(w RTPWriter, pkt *Packet) error {
	packets, err := p.Packetize(pkt)
	if err != nil {
		return err
	}
	for _, rp := range packets {
		if err := w.WriteRTP(rp); err != nil {
			return err
		}
	}
	return nil
}

// IsRTPTimestampOlder returns true if ts1 is older than or equal to ts2,
// handling 32-bit wraparound correctly per RTP timestamp comparison rules.
func IsRTPTimestampOlder(ts1, ts2 uint32) bool {
	if ts1 == ts2 {
		return true
	}
	// ts1 is older if (ts2 - ts1) < 2^31
	diff := ts2 - ts1
	return diff < 0x80000000
}
