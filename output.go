package ffmpeg

import (
	"fmt"
	"unsafe"
)

const avioFlagWrite = 2

// Output is a muxer writing to a file or URL (AVFormatContext). It is not
// safe for concurrent use.
type Output struct {
	ctx unsafe.Pointer
	url string

	headerWritten bool
}

// CreateOutput allocates a muxer for path. The format is guessed from the
// file name unless WithOutputFormat is given. The output must be closed
// with Close.
func CreateOutput(path string, opts ...OutputOption) (*Output, error) {
	if err := requireLibrary(LibAVFormat); err != nil {
		return nil, err
	}
	cfg := newOpenConfig(opts)

	var ctx unsafe.Pointer
	if ret := avformatAllocOutputContext2(&ctx, nil, cString(cfg.format), cString(path)); ret < 0 || ctx == nil {
		if ret >= 0 {
			ret = codeMuxerNotFound
		}
		return nil, fmt.Errorf("%s: %w", path, newError(ret, "avformat_alloc_output_context2"))
	}
	out := &Output{ctx: ctx, url: path}

	if out.Format().Flags()&FormatNoFile == 0 {
		pb := (*unsafe.Pointer)(unsafe.Add(ctx, offFmtPB))
		ret, err := passNative(cfg.options, func(m *unsafe.Pointer) int32 {
			return avioOpen2(pb, path, avioFlagWrite, nil, m)
		})
		if err == nil {
			err = newError(ret, "avio_open2")
		}
		if err != nil {
			avformatFreeContext(ctx)
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	logger().Debug("output created", "url", path, "format", out.Format().Name())
	return out, nil
}

func (o *Output) closed() bool { return o == nil || o.ctx == nil }

// Format returns the muxer in use.
func (o *Output) Format() *OutputFormat {
	return &OutputFormat{p: peekPtr(o.ctx, offFmtOFormat)}
}

// URL returns the path the output was created for.
func (o *Output) URL() string { return o.url }

// GlobalHeader reports whether the muxer wants codec headers in extradata,
// in which case encoders need CodecFlagGlobalHeader.
func (o *Output) GlobalHeader() bool {
	return o.Format().Flags()&FormatGlobalHeader != 0
}

// AddStream adds a new stream. codec may be nil; it only seeds defaults.
func (o *Output) AddStream(codec *Codec) (*Stream, error) {
	if o.closed() {
		return nil, ErrClosed
	}
	var cp unsafe.Pointer
	if codec != nil {
		cp = codec.p
	}
	p := avformatNewStream(o.ctx, cp)
	if p == nil {
		return nil, newError(errNoMem, "avformat_new_stream")
	}
	return &Stream{p: p, fmt: o.ctx}, nil
}

// AddStreamFrom adds a stream copying par, for remuxing. The codec tag is
// cleared so the muxer can pick its own.
func (o *Output) AddStreamFrom(par *CodecParameters) (*Stream, error) {
	st, err := o.AddStream(nil)
	if err != nil {
		return nil, err
	}
	if err := st.SetParameters(par); err != nil {
		return nil, err
	}
	st.Parameters().SetCodecTag(0)
	return st, nil
}

// Streams returns the streams in index order.
func (o *Output) Streams() []*Stream {
	if o.closed() {
		return nil
	}
	return streamsOf(o.ctx)
}

// SetMetadata replaces the container tags. It must be called before
// WriteHeader.
func (o *Output) SetMetadata(d *Dictionary) error {
	if o.closed() {
		return ErrClosed
	}
	return setNativeDict((*unsafe.Pointer)(unsafe.Add(o.ctx, offFmtMetadata)), d)
}

// WriteHeader writes the container header. It returns the muxer options
// from opts that were not consumed.
func (o *Output) WriteHeader(opts *Dictionary) (*Dictionary, error) {
	if o.closed() {
		return nil, ErrClosed
	}
	rest := opts.Clone()
	ret, err := passNative(rest, func(m *unsafe.Pointer) int32 {
		return avformatWriteHeader(o.ctx, m)
	})
	if err != nil {
		return nil, err
	}
	if err := newError(ret, "avformat_write_header"); err != nil {
		return rest, err
	}
	o.headerWritten = true
	return rest, nil
}

// WriteTrailer flushes the muxer and writes the trailer.
func (o *Output) WriteTrailer() error {
	if o.closed() {
		return ErrClosed
	}
	if !o.headerWritten {
		return fmt.Errorf("%w: trailer before header", ErrInvalidArgument)
	}
	return newError(avWriteTrailer(o.ctx), "av_write_trailer")
}

// Close closes the AVIO context and frees the muxer. It does not write the
// trailer. It is safe to call more than once.
func (o *Output) Close() error {
	if o.closed() {
		return nil
	}
	var err error
	if o.Format().Flags()&FormatNoFile == 0 {
		err = newError(avioClosep((*unsafe.Pointer)(unsafe.Add(o.ctx, offFmtPB))), "avio_closep")
	}
	avformatFreeContext(o.ctx)
	o.ctx = nil
	return err
}

// Dump prints the FFmpeg format description to the library log.
func (o *Output) Dump() {
	if o.closed() {
		return
	}
	avDumpFormat(o.ctx, 0, o.url, 1)
}
