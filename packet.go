package ffmpeg

import (
	"fmt"
	"unsafe"
)

// PacketFlags are AV_PKT_FLAG_* bits.
type PacketFlags int32

const (
	PacketFlagKey        PacketFlags = 0x0001
	PacketFlagCorrupt    PacketFlags = 0x0002
	PacketFlagDiscard    PacketFlags = 0x0004
	PacketFlagTrusted    PacketFlags = 0x0008
	PacketFlagDisposable PacketFlags = 0x0010
)

// Packet is an owned AVPacket holding compressed data for one stream.
// A Packet is not safe for concurrent use.
type Packet struct {
	p unsafe.Pointer
}

// NewPacket allocates an empty packet.
func NewPacket() (*Packet, error) {
	if err := requireLibrary(LibAVCodec); err != nil {
		return nil, err
	}
	p := avPacketAlloc()
	if p == nil {
		return nil, newError(errNoMem, "av_packet_alloc")
	}
	return &Packet{p: p}, nil
}

// NewPacketFromBytes allocates a packet holding a copy of data.
func NewPacketFromBytes(data []byte) (*Packet, error) {
	pkt, err := NewPacket()
	if err != nil {
		return nil, err
	}
	if ret := avNewPacket(pkt.p, int32(len(data))); ret < 0 {
		pkt.Free()
		return nil, newError(ret, "av_new_packet")
	}
	copy(pkt.Data(), data)
	return pkt, nil
}

// Free releases the packet. It is safe to call more than once.
func (p *Packet) Free() {
	if p == nil || p.p == nil {
		return
	}
	avPacketFree(&p.p)
	p.p = nil
}

// Unref drops the data reference and resets the fields to defaults.
func (p *Packet) Unref() {
	avPacketUnref(p.p)
}

// Ref makes p reference the same data as src.
func (p *Packet) Ref(src *Packet) error {
	return newError(avPacketRef(p.p, src.p), "av_packet_ref")
}

// Clone returns a new packet referencing the same data.
func (p *Packet) Clone() (*Packet, error) {
	c := avPacketClone(p.p)
	if c == nil {
		return nil, newError(errNoMem, "av_packet_clone")
	}
	return &Packet{p: c}, nil
}

// Data returns the payload. The slice is borrowed and valid until the packet
// is unreferenced, reused or freed.
func (p *Packet) Data() []byte {
	data := peekPtr(p.p, offPktData)
	size := p.Size()
	if data == nil || size <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(data), size)
}

// Bytes returns a copy of the payload.
func (p *Packet) Bytes() []byte {
	return append([]byte(nil), p.Data()...)
}

func (p *Packet) Size() int            { return int(peekInt32(p.p, offPktSize)) }
func (p *Packet) PTS() int64           { return peekInt64(p.p, offPktPTS) }
func (p *Packet) SetPTS(v int64)       { pokeInt64(p.p, offPktPTS, v) }
func (p *Packet) DTS() int64           { return peekInt64(p.p, offPktDTS) }
func (p *Packet) SetDTS(v int64)       { pokeInt64(p.p, offPktDTS, v) }
func (p *Packet) Duration() int64      { return peekInt64(p.p, offPktDuration) }
func (p *Packet) SetDuration(v int64)  { pokeInt64(p.p, offPktDuration, v) }
func (p *Packet) Pos() int64           { return peekInt64(p.p, offPktPos) }
func (p *Packet) SetPos(v int64)       { pokeInt64(p.p, offPktPos, v) }
func (p *Packet) StreamIndex() int     { return int(peekInt32(p.p, offPktStreamIndex)) }
func (p *Packet) SetStreamIndex(i int) { pokeInt32(p.p, offPktStreamIndex, int32(i)) }
func (p *Packet) Flags() PacketFlags   { return PacketFlags(peekInt32(p.p, offPktFlags)) }
func (p *Packet) SetFlags(f PacketFlags) {
	pokeInt32(p.p, offPktFlags, int32(f))
}
func (p *Packet) TimeBase() Rational      { return peekRational(p.p, offPktTimeBase) }
func (p *Packet) SetTimeBase(tb Rational) { pokeRational(p.p, offPktTimeBase, tb) }

// IsKey reports whether the packet starts a keyframe.
func (p *Packet) IsKey() bool {
	return p.Flags()&PacketFlagKey != 0
}

// SetKey sets or clears the keyframe flag.
func (p *Packet) SetKey(key bool) {
	if key {
		p.SetFlags(p.Flags() | PacketFlagKey)
	} else {
		p.SetFlags(p.Flags() &^ PacketFlagKey)
	}
}

// IsCorrupt reports whether the demuxer flagged the data as corrupt.
func (p *Packet) IsCorrupt() bool {
	return p.Flags()&PacketFlagCorrupt != 0
}

// RescaleTS converts pts, dts and duration from one time base to another.
// Unknown timestamps stay unknown.
func (p *Packet) RescaleTS(from, to Rational) {
	const rnd = RoundNearInf | RoundPassMinMax
	if pts := p.PTS(); pts != NoPTS {
		p.SetPTS(RescaleRnd(pts, from, to, rnd))
	}
	if dts := p.DTS(); dts != NoPTS {
		p.SetDTS(RescaleRnd(dts, from, to, rnd))
	}
	if d := p.Duration(); d > 0 {
		p.SetDuration(Rescale(d, from, to))
	}
}

// Write sends the packet directly to the muxer of out.
func (p *Packet) Write(out *Output) error {
	if out == nil || out.ctx == nil {
		return ErrClosed
	}
	return newError(avWriteFrame(out.ctx, p.p), "av_write_frame")
}

// WriteInterleaved sends the packet through the muxer's interleaving queue.
// The packet is consumed: on return it is blank.
func (p *Packet) WriteInterleaved(out *Output) error {
	if out == nil || out.ctx == nil {
		return ErrClosed
	}
	return newError(avInterleavedWriteFrame(out.ctx, p.p), "av_interleaved_write_frame")
}

// String summarises the packet for logs.
func (p *Packet) String() string {
	return fmt.Sprintf("stream=%d pts=%d dts=%d dur=%d size=%d key=%t",
		p.StreamIndex(), p.PTS(), p.DTS(), p.Duration(), p.Size(), p.IsKey())
}
