package ffmpeg

import (
	"errors"
	"fmt"
	"unsafe"
)

// CodecFlags are AV_CODEC_FLAG_* bits.
type CodecFlags int32

const (
	CodecFlagQScale        CodecFlags = 1 << 1
	CodecFlag4MV           CodecFlags = 1 << 2
	CodecFlagOutputCorrupt CodecFlags = 1 << 3
	CodecFlagQPel          CodecFlags = 1 << 4
	CodecFlagPass1         CodecFlags = 1 << 9
	CodecFlagPass2         CodecFlags = 1 << 10
	CodecFlagLoopFilter    CodecFlags = 1 << 11
	CodecFlagGray          CodecFlags = 1 << 13
	CodecFlagPSNR          CodecFlags = 1 << 15
	CodecFlagInterlacedDCT CodecFlags = 1 << 18
	CodecFlagLowDelay      CodecFlags = 1 << 19
	CodecFlagGlobalHeader  CodecFlags = 1 << 22
	CodecFlagBitExact      CodecFlags = 1 << 23
	CodecFlagACPred        CodecFlags = 1 << 24
	CodecFlagInterlacedME  CodecFlags = 1 << 29
)

// CodecContext is an owned AVCodecContext. Most fields are reached through
// the AVOptions API so the wrapper does not depend on the struct layout.
//
// Setters do not return errors. The first failure is kept and reported by
// Err and by the Open call of the owning Decoder or Encoder.
type CodecContext struct {
	p   unsafe.Pointer
	err error
}

// NewCodecContext allocates a context with defaults for codec. A nil codec
// gives a generic context to be filled from parameters.
func NewCodecContext(codec *Codec) (*CodecContext, error) {
	if err := requireLibrary(LibAVCodec); err != nil {
		return nil, err
	}
	var cp unsafe.Pointer
	if codec != nil {
		cp = codec.p
	}
	p := avcodecAllocContext3(cp)
	if p == nil {
		return nil, newError(errNoMem, "avcodec_alloc_context3")
	}
	return &CodecContext{p: p}, nil
}

// NewCodecContextFromParameters allocates a context and copies par into it.
func NewCodecContextFromParameters(par *CodecParameters) (*CodecContext, error) {
	if par == nil || par.p == nil {
		return nil, fmt.Errorf("%w: nil codec parameters", ErrInvalidArgument)
	}
	c, err := NewCodecContext(nil)
	if err != nil {
		return nil, err
	}
	if err := par.ToContext(c); err != nil {
		c.Free()
		return nil, err
	}
	return c, nil
}

// Free releases the context. It is safe to call more than once.
func (c *CodecContext) Free() {
	if c == nil || c.p == nil {
		return
	}
	avcodecFreeContext(&c.p)
	c.p = nil
}

// Err returns the first error recorded by a setter.
func (c *CodecContext) Err() error {
	return c.err
}

func (c *CodecContext) keep(err error) {
	if err != nil && c.err == nil {
		c.err = err
	}
}

// SetOption sets a generic or codec-private option by name.
func (c *CodecContext) SetOption(name, value string) error {
	return optSet(c.p, name, value)
}

// Option reads an integer option by name.
func (c *CodecContext) Option(name string) (int64, error) {
	return optGetInt(c.p, name)
}

func (c *CodecContext) getInt(name string) int64 {
	v, _ := optGetInt(c.p, name)
	return v
}

func (c *CodecContext) setInt(name string, v int64) {
	c.keep(optSetInt(c.p, name, v))
}

// Codec returns the codec the context was allocated or opened for.
func (c *CodecContext) Codec() *Codec {
	return codecFrom(peekPtr(c.p, offCtxCodec))
}

func (c *CodecContext) MediaType() MediaType {
	return MediaType(peekInt32(c.p, offCtxCodecType))
}

func (c *CodecContext) setMediaType(t MediaType) {
	pokeInt32(c.p, offCtxCodecType, int32(t))
}

func (c *CodecContext) CodecID() CodecID      { return CodecID(peekInt32(c.p, offCtxCodecID)) }
func (c *CodecContext) SetCodecID(id CodecID) { pokeInt32(c.p, offCtxCodecID, int32(id)) }

// Width returns the coded picture width.
func (c *CodecContext) Width() int {
	w, _, _ := optGetImageSize(c.p, "video_size")
	return w
}

func (c *CodecContext) Height() int {
	_, h, _ := optGetImageSize(c.p, "video_size")
	return h
}

func (c *CodecContext) SetWidth(w int)  { c.SetSize(w, c.Height()) }
func (c *CodecContext) SetHeight(h int) { c.SetSize(c.Width(), h) }

// SetSize sets width and height together.
func (c *CodecContext) SetSize(w, h int) {
	c.keep(optSetImageSize(c.p, "video_size", w, h))
}

func (c *CodecContext) PixelFormat() PixelFormat {
	f, err := optGetPixelFormat(c.p, "pixel_format")
	if err != nil {
		return PixelFormatNone
	}
	return f
}

func (c *CodecContext) SetPixelFormat(f PixelFormat) {
	c.keep(optSetPixelFormat(c.p, "pixel_format", f))
}

func (c *CodecContext) TimeBase() Rational {
	return optGetQOr(c.p, "time_base", offCtxTimeBase)
}

func (c *CodecContext) SetTimeBase(tb Rational) {
	optSetQOr(c.p, "time_base", offCtxTimeBase, tb)
}

func (c *CodecContext) FrameRate() Rational {
	return optGetQOr(c.p, "framerate", offCtxFrameRate)
}

func (c *CodecContext) SetFrameRate(r Rational) {
	optSetQOr(c.p, "framerate", offCtxFrameRate, r)
}

func (c *CodecContext) SampleAspectRatio() Rational {
	q, _ := optGetQ(c.p, "aspect")
	return q
}

func (c *CodecContext) SetSampleAspectRatio(r Rational) {
	c.keep(optSetQ(c.p, "aspect", r))
}

func (c *CodecContext) SampleRate() int        { return int(c.getInt("ar")) }
func (c *CodecContext) SetSampleRate(rate int) { c.setInt("ar", int64(rate)) }

func (c *CodecContext) SampleFormat() SampleFormat {
	f, err := optGetSampleFormat(c.p, "sample_fmt")
	if err != nil {
		return SampleFormatNone
	}
	return f
}

func (c *CodecContext) SetSampleFormat(f SampleFormat) {
	c.keep(optSetSampleFormat(c.p, "sample_fmt", f))
}

func (c *CodecContext) ChannelLayout() ChannelLayout {
	l, _ := optGetChannelLayout(c.p, "ch_layout")
	return l
}

func (c *CodecContext) SetChannelLayout(l ChannelLayout) {
	c.keep(optSetChannelLayout(c.p, "ch_layout", l))
}

func (c *CodecContext) Channels() int { return c.ChannelLayout().Channels }

func (c *CodecContext) BitRate() int64        { return c.getInt("b") }
func (c *CodecContext) SetBitRate(b int64)    { c.setInt("b", b) }
func (c *CodecContext) GopSize() int          { return int(c.getInt("g")) }
func (c *CodecContext) SetGopSize(n int)      { c.setInt("g", int64(n)) }
func (c *CodecContext) MaxBFrames() int       { return int(c.getInt("bf")) }
func (c *CodecContext) SetMaxBFrames(n int)   { c.setInt("bf", int64(n)) }
func (c *CodecContext) FrameSize() int        { return int(c.getInt("frame_size")) }
func (c *CodecContext) Profile() int          { return int(c.getInt("profile")) }
func (c *CodecContext) SetProfile(p int)      { c.setInt("profile", int64(p)) }
func (c *CodecContext) Level() int            { return int(c.getInt("level")) }
func (c *CodecContext) SetLevel(l int)        { c.setInt("level", int64(l)) }
func (c *CodecContext) Flags() CodecFlags     { return CodecFlags(c.getInt("flags")) }
func (c *CodecContext) SetFlags(f CodecFlags) { c.setInt("flags", int64(uint32(f))) }

// AddFlags sets f in addition to the flags already present.
func (c *CodecContext) AddFlags(f CodecFlags) {
	c.SetFlags(c.Flags() | f)
}

// Threading returns the current threading configuration.
func (c *CodecContext) Threading() Threading {
	return Threading{
		Kind:  ThreadType(c.getInt("thread_type")),
		Count: int(c.getInt("threads")),
	}
}

// SetThreading applies t. It must be called before the codec is opened.
func (c *CodecContext) SetThreading(t Threading) {
	c.setInt("thread_type", int64(t.Kind))
	c.setInt("threads", int64(t.Count))
}

// Parameters returns a new parameter set describing the context.
func (c *CodecContext) Parameters() (*CodecParameters, error) {
	par, err := NewCodecParameters()
	if err != nil {
		return nil, err
	}
	if err := par.FromContext(c); err != nil {
		par.Free()
		return nil, err
	}
	return par, nil
}

// open calls avcodec_open2. On return opts holds the entries the codec did
// not recognise.
func (c *CodecContext) open(codec *Codec, opts *Dictionary) error {
	if c == nil || c.p == nil {
		return ErrClosed
	}
	if c.err != nil {
		return c.err
	}
	var cp unsafe.Pointer
	if codec != nil {
		cp = codec.p
	}
	ret, err := passNative(opts, func(m *unsafe.Pointer) int32 {
		return avcodecOpen2(c.p, cp, m)
	})
	if err != nil {
		return err
	}
	return newError(ret, "avcodec_open2")
}

// promote checks that the context can act as a coder for t, setting the
// media type if it is still unknown.
func (c *CodecContext) promote(t MediaType) error {
	switch c.MediaType() {
	case MediaTypeUnknown:
		c.setMediaType(t)
		return nil
	case t:
		return nil
	}
	return fmt.Errorf("context is %s, not %s: %w", c.MediaType(), t, ErrInvalidData)
}

// String summarises the context for logs.
func (c *CodecContext) String() string {
	switch c.MediaType() {
	case MediaTypeVideo:
		return fmt.Sprintf("%s %dx%d %s", c.CodecID(), c.Width(), c.Height(), c.PixelFormat())
	case MediaTypeAudio:
		return fmt.Sprintf("%s %dHz %s %s", c.CodecID(), c.SampleRate(), c.SampleFormat(), c.ChannelLayout())
	}
	return fmt.Sprintf("%s %s", c.MediaType(), c.CodecID())
}

func isAgainOrEOF(err error) bool {
	return errors.Is(err, ErrAgain) || errors.Is(err, ErrEOF)
}
