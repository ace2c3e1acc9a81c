package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"
	"unsafe"
)

// openConfig collects the options of OpenInput and CreateOutput.
type openConfig struct {
	format  string
	options *Dictionary
	ctx     context.Context
}

// OpenOption is a functional option for OpenInput and CreateOutput.
type OpenOption func(*openConfig)

type (
	InputOption  = OpenOption
	OutputOption = OpenOption
)

// WithInputFormat forces the demuxer instead of probing ("mpegts", "v4l2").
func WithInputFormat(name string) InputOption {
	return func(c *openConfig) { c.format = name }
}

// WithOutputFormat forces the muxer instead of guessing from the file name.
func WithOutputFormat(name string) OutputOption {
	return func(c *openConfig) { c.format = name }
}

// WithOptions passes demuxer, muxer or protocol options. After the call the
// dictionary holds the entries that were not consumed.
func WithOptions(opts *Dictionary) OpenOption {
	return func(c *openConfig) { c.options = opts }
}

// WithContext aborts blocking I/O of the input once ctx is done.
func WithContext(ctx context.Context) InputOption {
	return func(c *openConfig) { c.ctx = ctx }
}

func newOpenConfig(opts []OpenOption) *openConfig {
	c := &openConfig{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Input is an opened demuxer (AVFormatContext). It is not safe for
// concurrent use.
type Input struct {
	ctx       unsafe.Pointer
	url       string
	interrupt uintptr
	cancel    context.Context

	pkt *Packet // reused by Packets
	err error
}

// OpenInput opens path (a file name or URL) and reads the stream
// information. The input must be closed with Close.
func OpenInput(path string, opts ...InputOption) (*Input, error) {
	if err := requireLibrary(LibAVFormat); err != nil {
		return nil, err
	}
	cfg := newOpenConfig(opts)

	var ifmt unsafe.Pointer
	if cfg.format != "" {
		f, err := FindInputFormat(cfg.format)
		if err != nil {
			return nil, err
		}
		ifmt = f.p
	}

	ctx := avformatAllocContext()
	if ctx == nil {
		return nil, newError(errNoMem, "avformat_alloc_context")
	}
	in := &Input{url: path, cancel: cfg.ctx}
	if cfg.ctx != nil {
		in.interrupt = registerInterrupt(cfg.ctx)
		installInterrupt(ctx, in.interrupt)
	}

	// avformat_open_input frees the context on failure.
	ret, err := passNative(cfg.options, func(m *unsafe.Pointer) int32 {
		return avformatOpenInput(&ctx, path, ifmt, m)
	})
	if err != nil {
		avformatFreeContext(ctx)
		unregisterInterrupt(in.interrupt)
		return nil, err
	}
	if ret < 0 {
		unregisterInterrupt(in.interrupt)
		return nil, in.wrap(newError(ret, "avformat_open_input"))
	}
	in.ctx = ctx

	if ret := avformatFindStreamInfo(ctx, nil); ret < 0 {
		err := in.wrap(newError(ret, "avformat_find_stream_info"))
		in.Close()
		return nil, err
	}
	logger().Debug("input opened", "url", path, "format", in.Format().Name(), "streams", in.NbStreams())
	return in, nil
}

// wrap attaches the context error when an interrupted call failed.
func (in *Input) wrap(err error) error {
	if err == nil || in.cancel == nil || in.cancel.Err() == nil {
		return err
	}
	return fmt.Errorf("%w: %w", err, in.cancel.Err())
}

// Close closes the input and frees every stream. It is safe to call more
// than once.
func (in *Input) Close() error {
	if in == nil || in.ctx == nil {
		return nil
	}
	avformatCloseInput(&in.ctx)
	in.ctx = nil
	unregisterInterrupt(in.interrupt)
	in.interrupt = 0
	in.pkt.Free()
	in.pkt = nil
	return nil
}

func (in *Input) closed() bool { return in == nil || in.ctx == nil }

// Format returns the demuxer in use.
func (in *Input) Format() *InputFormat {
	return &InputFormat{p: peekPtr(in.ctx, offFmtIFormat)}
}

// URL returns the URL the input was opened with.
func (in *Input) URL() string {
	if u := peekString(in.ctx, offFmtURL); u != "" {
		return u
	}
	return in.url
}

// Duration is the container duration in AV_TIME_BASE units, or NoPTS.
func (in *Input) Duration() int64 { return peekInt64(in.ctx, offFmtDuration) }

// StartTime is the first timestamp in AV_TIME_BASE units, or NoPTS.
func (in *Input) StartTime() int64 { return peekInt64(in.ctx, offFmtStartTime) }

// BitRate is the total bit rate in bit/s, 0 if unknown.
func (in *Input) BitRate() int64 { return peekInt64(in.ctx, offFmtBitRate) }

// DurationTime converts Duration to a time.Duration; unknown gives 0.
func (in *Input) DurationTime() time.Duration {
	d := in.Duration()
	if d == NoPTS || d < 0 {
		return 0
	}
	return TSToDuration(d, TimeBaseQ)
}

// Metadata returns a copy of the container tags.
func (in *Input) Metadata() *Dictionary {
	return dictFromNative(peekPtr(in.ctx, offFmtMetadata))
}

// NbStreams returns the number of streams, 0 once closed.
func (in *Input) NbStreams() int {
	if in.closed() {
		return 0
	}
	return int(peekUint32(in.ctx, offFmtNbStreams))
}

// Streams returns the streams in index order.
func (in *Input) Streams() []*Stream {
	if in.closed() {
		return nil
	}
	return streamsOf(in.ctx)
}

// Stream returns stream i.
func (in *Input) Stream(i int) (*Stream, error) {
	if in.closed() {
		return nil, ErrClosed
	}
	if i < 0 || i >= in.NbStreams() {
		return nil, fmt.Errorf("stream %d of %d: %w", i, in.NbStreams(), ErrNoStream)
	}
	return &Stream{p: ptrAt(peekPtr(in.ctx, offFmtStreams), i), fmt: in.ctx}, nil
}

// BestStream picks the stream FFmpeg considers best for t.
func (in *Input) BestStream(t MediaType) (*Stream, error) {
	if in.closed() {
		return nil, ErrClosed
	}
	idx := avFindBestStream(in.ctx, int32(t), -1, -1, nil, 0)
	if idx < 0 {
		return nil, fmt.Errorf("best %s stream: %w", t, newError(idx, "av_find_best_stream"))
	}
	return in.Stream(int(idx))
}

// Chapters returns the chapters in container order.
func (in *Input) Chapters() []*Chapter {
	if in.closed() {
		return nil
	}
	n := int(peekUint32(in.ctx, offFmtNbChapters))
	arr := peekPtr(in.ctx, offFmtChapters)
	out := make([]*Chapter, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &Chapter{p: ptrAt(arr, i)})
	}
	return out
}

// ReadPacket reads the next packet into pkt, replacing its contents. It
// returns ErrEOF at the end of the input.
func (in *Input) ReadPacket(pkt *Packet) error {
	if in.closed() {
		return ErrClosed
	}
	pkt.Unref()
	return in.wrap(newError(avReadFrame(in.ctx, pkt.p), "av_read_frame"))
}

// Packets iterates over every remaining packet with its stream. The packet
// is reused: it is only valid until the next iteration. Iteration stops at
// the end of the input or on the first error, reported by Err.
func (in *Input) Packets() iter.Seq2[*Stream, *Packet] {
	return func(yield func(*Stream, *Packet) bool) {
		if in.closed() {
			in.err = ErrClosed
			return
		}
		if in.pkt == nil {
			pkt, err := NewPacket()
			if err != nil {
				in.err = err
				return
			}
			in.pkt = pkt
		}
		streams := in.Streams()
		for {
			err := in.ReadPacket(in.pkt)
			if errors.Is(err, ErrEOF) {
				in.err = nil
				return
			}
			if err != nil {
				in.err = err
				return
			}
			idx := in.pkt.StreamIndex()
			if idx >= len(streams) {
				// New streams may appear mid-file for some demuxers.
				streams = in.Streams()
				if idx >= len(streams) {
					continue
				}
			}
			if !yield(streams[idx], in.pkt) {
				return
			}
		}
	}
}

// Err returns the error that stopped the last Packets iteration.
func (in *Input) Err() error { return in.err }

// SeekRange seeks to ts (AV_TIME_BASE units) with the result constrained
// to [minTS, maxTS].
func (in *Input) SeekRange(ts, minTS, maxTS int64) error {
	if in.closed() {
		return ErrClosed
	}
	return in.wrap(newError(avformatSeekFile(in.ctx, -1, minTS, ts, maxTS, 0), "avformat_seek_file"))
}

// SeekTime seeks to the keyframe at or before d.
func (in *Input) SeekTime(d time.Duration) error {
	ts := DurationToTS(d, TimeBaseQ)
	return in.SeekRange(ts, NoPTS+1, ts)
}

// Pause pauses a network stream (RTSP). Files return ENOSYS.
func (in *Input) Pause() error {
	if in.closed() {
		return ErrClosed
	}
	return newError(avReadPause(in.ctx), "av_read_pause")
}

// Play resumes a paused network stream.
func (in *Input) Play() error {
	if in.closed() {
		return ErrClosed
	}
	return newError(avReadPlay(in.ctx), "av_read_play")
}

// Dump prints the FFmpeg format description to the library log.
func (in *Input) Dump() {
	if in.closed() {
		return
	}
	avDumpFormat(in.ctx, 0, in.url, 0)
}
