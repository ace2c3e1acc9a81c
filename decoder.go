package ffmpeg

import (
	"fmt"
	"time"
	"unsafe"
)

// Concealment holds the FF_EC_* bits for Decoder.Conceal.
type Concealment int32

const (
	ConcealGuessMVs   Concealment = 1
	ConcealDeblock    Concealment = 2
	ConcealFavorInter Concealment = 256
)

// ErrorDetection holds the AV_EF_* bits for Decoder.Check.
type ErrorDetection int32

const (
	DetectCRC        ErrorDetection = 1 << 0
	DetectBitstream  ErrorDetection = 1 << 1
	DetectBuffer     ErrorDetection = 1 << 2
	DetectExplode    ErrorDetection = 1 << 3
	DetectIgnoreErr  ErrorDetection = 1 << 15
	DetectCareful    ErrorDetection = 1 << 16
	DetectCompliant  ErrorDetection = 1 << 17
	DetectAggressive ErrorDetection = 1 << 18
)

// Decoder turns packets into frames with the send/receive model:
// SendPacket until ErrAgain, then ReceiveFrame until ErrAgain or ErrEOF.
type Decoder struct {
	*CodecContext
	opened bool
}

// NewDecoder wraps a context, typically built with
// NewCodecContextFromParameters. The decoder owns ctx from now on.
func NewDecoder(ctx *CodecContext) *Decoder {
	return &Decoder{CodecContext: ctx}
}

// NewDecoderFromParameters builds a decoder context for a stream.
func NewDecoderFromParameters(par *CodecParameters) (*Decoder, error) {
	ctx, err := NewCodecContextFromParameters(par)
	if err != nil {
		return nil, err
	}
	return NewDecoder(ctx), nil
}

// Open opens the default decoder for the context's codec id.
func (d *Decoder) Open(opts *Dictionary) error {
	codec, err := FindDecoder(d.CodecID())
	if err != nil {
		return err
	}
	return d.OpenWith(codec, opts)
}

// OpenWith opens the decoder with an explicit codec. Entries of opts that
// the codec did not recognise are left in opts.
func (d *Decoder) OpenWith(codec *Codec, opts *Dictionary) error {
	if d.opened {
		return nil
	}
	if err := d.open(codec, opts); err != nil {
		return err
	}
	d.opened = true
	logger().Debug("decoder opened", "codec", codec.Name(), "context", d.CodecContext.String())
	return nil
}

// NewVideoDecoder opens a decoder for a video stream described by par.
func NewVideoDecoder(par *CodecParameters, opts *Dictionary) (*Decoder, error) {
	return newTypedDecoder(par, MediaTypeVideo, opts)
}

// NewAudioDecoder opens a decoder for an audio stream described by par.
func NewAudioDecoder(par *CodecParameters, opts *Dictionary) (*Decoder, error) {
	return newTypedDecoder(par, MediaTypeAudio, opts)
}

// NewSubtitleDecoder opens a decoder for a subtitle stream described by par.
func NewSubtitleDecoder(par *CodecParameters, opts *Dictionary) (*Decoder, error) {
	return newTypedDecoder(par, MediaTypeSubtitle, opts)
}

func newTypedDecoder(par *CodecParameters, t MediaType, opts *Dictionary) (*Decoder, error) {
	d, err := NewDecoderFromParameters(par)
	if err != nil {
		return nil, err
	}
	codec, err := FindDecoder(d.CodecID())
	if err != nil {
		d.Free()
		return nil, err
	}
	if codec.MediaType() != t {
		d.Free()
		return nil, fmt.Errorf("%s decoder %s: %w", codec.MediaType(), codec.Name(), ErrInvalidData)
	}
	if err := d.promote(t); err != nil {
		d.Free()
		return nil, err
	}
	if err := d.OpenWith(codec, opts); err != nil {
		d.Free()
		return nil, err
	}
	return d, nil
}

// IsOpen reports whether Open succeeded.
func (d *Decoder) IsOpen() bool { return d.opened }

// SendPacket feeds compressed data. A nil packet starts draining.
// ErrAgain means frames must be received first.
func (d *Decoder) SendPacket(pkt *Packet) error {
	if d.CodecContext == nil || d.p == nil {
		return ErrClosed
	}
	var pp unsafe.Pointer
	if pkt != nil {
		pp = pkt.p
	}
	return newError(avcodecSendPacket(d.p, pp), "avcodec_send_packet")
}

// SendEOF signals the end of the stream.
func (d *Decoder) SendEOF() error {
	return d.SendPacket(nil)
}

// ReceiveFrame returns the next decoded frame into frame. It returns
// ErrAgain when more input is needed and ErrEOF once fully drained.
func (d *Decoder) ReceiveFrame(frame *Frame) error {
	if d.CodecContext == nil || d.p == nil {
		return ErrClosed
	}
	return newError(avcodecReceiveFrame(d.p, frame.p), "avcodec_receive_frame")
}

// Flush resets the decoder state, e.g. after a seek.
func (d *Decoder) Flush() {
	avcodecFlushBuffers(d.p)
}

// SetPacketTimeBase sets the time base of the packets being sent.
func (d *Decoder) SetPacketTimeBase(tb Rational) {
	d.keep(optSetQ(d.p, "pkt_timebase", tb))
}

func (d *Decoder) PacketTimeBase() Rational {
	q, _ := optGetQ(d.p, "pkt_timebase")
	return q
}

func (d *Decoder) SkipFrame(v Discard)      { d.setInt("skip_frame", int64(v)) }
func (d *Decoder) SkipLoopFilter(v Discard) { d.setInt("skip_loop_filter", int64(v)) }
func (d *Decoder) SkipIDCT(v Discard)       { d.setInt("skip_idct", int64(v)) }
func (d *Decoder) Conceal(v Concealment)    { d.setInt("ec", int64(v)) }
func (d *Decoder) Check(v ErrorDetection)   { d.setInt("err_detect", int64(v)) }

// Free closes the decoder and releases its context.
func (d *Decoder) Free() {
	if d == nil {
		return
	}
	d.CodecContext.Free()
	d.opened = false
}

// SubtitleType is the kind of a subtitle rectangle.
type SubtitleType int32

const (
	SubtitleNone SubtitleType = iota
	SubtitleBitmap
	SubtitleText
	SubtitleASS
)

// SubtitleRect is one decoded subtitle area. Bitmap data is not copied.
type SubtitleRect struct {
	Type SubtitleType `json:"type"`
	Text string       `json:"text,omitempty"`
	ASS  string       `json:"ass,omitempty"`
}

// Subtitle is a decoded subtitle copied into Go memory.
type Subtitle struct {
	Format int            `json:"format"`
	Start  time.Duration  `json:"start"`
	End    time.Duration  `json:"end"`
	PTS    int64          `json:"pts"`
	Rects  []SubtitleRect `json:"rects"`
}

// DecodeSubtitle decodes one subtitle packet. ok is false when the packet
// did not complete a subtitle.
func (d *Decoder) DecodeSubtitle(pkt *Packet) (sub *Subtitle, ok bool, err error) {
	if d.CodecContext == nil || d.p == nil {
		return nil, false, ErrClosed
	}
	if d.MediaType() != MediaTypeSubtitle {
		return nil, false, fmt.Errorf("decode subtitle on %s context: %w", d.MediaType(), ErrInvalidData)
	}
	if pkt == nil {
		return nil, false, fmt.Errorf("%w: nil subtitle packet", ErrInvalidArgument)
	}
	var raw [sizeofSubtitle / 8]uint64
	sp := unsafe.Pointer(&raw[0])
	var got int32
	if ret := avcodecDecodeSubtitle2(d.p, sp, &got, pkt.p); ret < 0 {
		return nil, false, newError(ret, "avcodec_decode_subtitle2")
	}
	if got == 0 {
		return nil, false, nil
	}
	defer avsubtitleFree(sp)

	sub = &Subtitle{
		Format: int(*(*uint16)(sp)),
		Start:  time.Duration(peekUint32(sp, offSubStart)) * time.Millisecond,
		End:    time.Duration(peekUint32(sp, offSubEnd)) * time.Millisecond,
		PTS:    peekInt64(sp, offSubPTS),
	}
	n := int(peekUint32(sp, offSubNumRects))
	rects := peekPtr(sp, offSubRects)
	for i := 0; i < n && rects != nil; i++ {
		r := peekPtr(rects, uintptr(i)*8)
		if r == nil {
			continue
		}
		sub.Rects = append(sub.Rects, SubtitleRect{
			Type: SubtitleType(peekInt32(r, offSubRectType)),
			Text: peekString(r, offSubRectText),
			ASS:  peekString(r, offSubRectASS),
		})
	}
	return sub, true, nil
}
