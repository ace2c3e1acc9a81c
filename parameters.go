package ffmpeg

import (
	"fmt"
	"unsafe"
)

// CodecParameters describes an encoded stream (AVCodecParameters). It is
// either owned (NewCodecParameters) or borrowed from a Stream.
//
// Getters read the struct directly. Setters of fields that own memory or
// are validated by libavcodec round-trip through a scratch codec context.
type CodecParameters struct {
	p     unsafe.Pointer
	owned bool
}

// NewCodecParameters allocates an empty, owned parameter set.
func NewCodecParameters() (*CodecParameters, error) {
	if err := requireLibrary(LibAVCodec); err != nil {
		return nil, err
	}
	p := avcodecParametersAlloc()
	if p == nil {
		return nil, newError(errNoMem, "avcodec_parameters_alloc")
	}
	return &CodecParameters{p: p, owned: true}, nil
}

func borrowedParameters(p unsafe.Pointer) *CodecParameters {
	if p == nil {
		return nil
	}
	return &CodecParameters{p: p}
}

// Free releases an owned parameter set. Borrowed sets are left alone.
func (c *CodecParameters) Free() {
	if c == nil || c.p == nil {
		return
	}
	if c.owned {
		avcodecParametersFree(&c.p)
	}
	c.p = nil
}

func (c *CodecParameters) MediaType() MediaType { return MediaType(peekInt32(c.p, offParType)) }
func (c *CodecParameters) CodecID() CodecID     { return CodecID(peekInt32(c.p, offParCodecID)) }
func (c *CodecParameters) CodecTag() uint32     { return peekUint32(c.p, offParCodecTag) }

func (c *CodecParameters) SetMediaType(t MediaType) { pokeInt32(c.p, offParType, int32(t)) }
func (c *CodecParameters) SetCodecID(id CodecID)    { pokeInt32(c.p, offParCodecID, int32(id)) }

// SetCodecTag sets the container-specific fourcc. 0 lets the muxer choose.
func (c *CodecParameters) SetCodecTag(tag uint32) {
	pokeInt32(c.p, offParCodecTag, int32(tag))
}

// Extradata returns the out-of-band codec setup (avcC, AudioSpecificConfig,
// ...). The slice is borrowed from the parameter set.
func (c *CodecParameters) Extradata() []byte {
	data := peekPtr(c.p, offParExtradata)
	n := int(peekInt32(c.p, offParExtradataSize))
	if data == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(data), n)
}

// SetExtradata replaces the extradata with a padded native copy of b.
func (c *CodecParameters) SetExtradata(b []byte) error {
	const padding = 64 // AV_INPUT_BUFFER_PADDING_SIZE
	if old := peekPtr(c.p, offParExtradata); old != nil {
		avFree(old)
		pokePtr(c.p, offParExtradata, nil)
		pokeInt32(c.p, offParExtradataSize, 0)
	}
	if len(b) == 0 {
		return nil
	}
	buf := avMallocz(uintptr(len(b) + padding))
	if buf == nil {
		return newError(errNoMem, "av_mallocz")
	}
	copy(unsafe.Slice((*byte)(buf), len(b)), b)
	pokePtr(c.p, offParExtradata, buf)
	pokeInt32(c.p, offParExtradataSize, int32(len(b)))
	return nil
}

// update round-trips the parameters through a scratch context so fn can
// change fields that are only reachable as options.
func (c *CodecParameters) update(fn func(ctx *CodecContext)) error {
	ctx, err := NewCodecContextFromParameters(c)
	if err != nil {
		return err
	}
	defer ctx.Free()
	fn(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.FromContext(ctx)
}

func (c *CodecParameters) Width() int  { return int(peekInt32(c.p, offParWidth)) }
func (c *CodecParameters) Height() int { return int(peekInt32(c.p, offParHeight)) }

// Format returns the raw pixel or sample format value, -1 when unset.
func (c *CodecParameters) Format() int32 { return peekInt32(c.p, offParFormat) }

func (c *CodecParameters) PixelFormat() PixelFormat {
	if c.MediaType() != MediaTypeVideo {
		return PixelFormatNone
	}
	return PixelFormat(c.Format())
}

func (c *CodecParameters) SampleFormat() SampleFormat {
	if c.MediaType() != MediaTypeAudio {
		return SampleFormatNone
	}
	return SampleFormat(c.Format())
}

func (c *CodecParameters) BitRate() int64  { return peekInt64(c.p, offParBitRate) }
func (c *CodecParameters) SampleRate() int { return int(peekInt32(c.p, offParSampleRate)) }
func (c *CodecParameters) Channels() int   { return c.ChannelLayout().Channels }
func (c *CodecParameters) Profile() int    { return int(peekInt32(c.p, offParProfile)) }
func (c *CodecParameters) Level() int      { return int(peekInt32(c.p, offParLevel)) }
func (c *CodecParameters) FrameSize() int  { return int(peekInt32(c.p, offParFrameSize)) }

func (c *CodecParameters) ChannelLayout() ChannelLayout {
	return layoutFromNative(unsafe.Add(c.p, offParChLayout))
}

func (c *CodecParameters) SampleAspectRatio() Rational {
	return peekRational(c.p, offParSAR)
}

// SetVideo fills the picture description in one round trip.
func (c *CodecParameters) SetVideo(w, h int, f PixelFormat) error {
	return c.update(func(ctx *CodecContext) {
		ctx.SetSize(w, h)
		ctx.SetPixelFormat(f)
	})
}

// SetAudio fills the audio description in one round trip.
func (c *CodecParameters) SetAudio(f SampleFormat, layout ChannelLayout, rate int) error {
	return c.update(func(ctx *CodecContext) {
		ctx.SetSampleFormat(f)
		ctx.SetChannelLayout(layout)
		ctx.SetSampleRate(rate)
	})
}

func (c *CodecParameters) SetBitRate(b int64) error {
	return c.update(func(ctx *CodecContext) { ctx.SetBitRate(b) })
}

// CopyTo copies every field, extradata included, into dst.
func (c *CodecParameters) CopyTo(dst *CodecParameters) error {
	if dst == nil || dst.p == nil {
		return fmt.Errorf("%w: nil destination parameters", ErrInvalidArgument)
	}
	return newError(avcodecParametersCopy(dst.p, c.p), "avcodec_parameters_copy")
}

// FromContext fills the parameters from an opened or configured context.
func (c *CodecParameters) FromContext(ctx *CodecContext) error {
	return newError(avcodecParametersFromContext(c.p, ctx.p), "avcodec_parameters_from_context")
}

// ToContext fills ctx from the parameters.
func (c *CodecParameters) ToContext(ctx *CodecContext) error {
	return newError(avcodecParametersToContext(ctx.p, c.p), "avcodec_parameters_to_context")
}

// String summarises the parameters for logs.
func (c *CodecParameters) String() string {
	switch c.MediaType() {
	case MediaTypeVideo:
		return fmt.Sprintf("%s %dx%d %s", c.CodecID(), c.Width(), c.Height(), c.PixelFormat())
	case MediaTypeAudio:
		return fmt.Sprintf("%s %dHz %s %s", c.CodecID(), c.SampleRate(), c.SampleFormat(), c.ChannelLayout())
	}
	return fmt.Sprintf("%s %s", c.MediaType(), c.CodecID())
}
