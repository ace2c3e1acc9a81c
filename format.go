package ffmpeg

import (
	"fmt"
	"iter"
	"unsafe"
)

// FormatFlags are the AVFMT_* bits of a demuxer or muxer.
type FormatFlags int32

const (
	FormatNoFile       FormatFlags = 0x0001
	FormatNeedNumber   FormatFlags = 0x0002
	FormatExperimental FormatFlags = 0x0004
	FormatShowIDs      FormatFlags = 0x0008
	FormatGlobalHeader FormatFlags = 0x0040
	FormatNoTimestamps FormatFlags = 0x0080
	FormatGenericIndex FormatFlags = 0x0100
	FormatTSDiscont    FormatFlags = 0x0200
	FormatVariableFPS  FormatFlags = 0x0400
	FormatNoDimensions FormatFlags = 0x0800
	FormatNoStreams    FormatFlags = 0x1000
	FormatNoBinSearch  FormatFlags = 0x2000
	FormatNoGenSearch  FormatFlags = 0x4000
	FormatNoByteSeek   FormatFlags = 0x8000
	FormatTSNonStrict  FormatFlags = 0x20000
	FormatTSNegative   FormatFlags = 0x40000
	FormatSeekToPTS    FormatFlags = 0x4000000
)

// InputFormat is a demuxer (AVInputFormat). Formats are static library
// data and never freed.
type InputFormat struct {
	p unsafe.Pointer
}

func (f *InputFormat) Name() string        { return peekString(f.p, offIFmtName) }
func (f *InputFormat) Description() string { return peekString(f.p, offIFmtLongName) }
func (f *InputFormat) Flags() FormatFlags  { return FormatFlags(peekInt32(f.p, offIFmtFlags)) }
func (f *InputFormat) MimeType() string    { return peekString(f.p, offIFmtMimeType) }

// Extensions returns the file extensions associated with the demuxer.
func (f *InputFormat) Extensions() []string {
	return splitList(peekString(f.p, offIFmtExtensions))
}

// Names returns the comma separated short names ("mov,mp4,m4a,...") split up.
func (f *InputFormat) Names() []string {
	return splitList(f.Name())
}

func (f *InputFormat) String() string { return f.Name() }

// OutputFormat is a muxer (AVOutputFormat).
type OutputFormat struct {
	p unsafe.Pointer
}

func (f *OutputFormat) Name() string        { return peekString(f.p, offOFmtName) }
func (f *OutputFormat) Description() string { return peekString(f.p, offOFmtLongName) }
func (f *OutputFormat) MimeType() string    { return peekString(f.p, offOFmtMimeType) }
func (f *OutputFormat) Flags() FormatFlags  { return FormatFlags(peekInt32(f.p, offOFmtFlags)) }

func (f *OutputFormat) Extensions() []string {
	return splitList(peekString(f.p, offOFmtExtensions))
}

// DefaultVideoCodec returns the codec the muxer uses when none is given.
func (f *OutputFormat) DefaultVideoCodec() CodecID {
	return CodecID(peekInt32(f.p, offOFmtVideoCodec))
}

func (f *OutputFormat) DefaultAudioCodec() CodecID {
	return CodecID(peekInt32(f.p, offOFmtAudioCodec))
}

func (f *OutputFormat) DefaultSubtitleCodec() CodecID {
	return CodecID(peekInt32(f.p, offOFmtSubtitleCode))
}

func (f *OutputFormat) String() string { return f.Name() }

// FindInputFormat looks a demuxer up by short name ("mp4", "v4l2").
func FindInputFormat(name string) (*InputFormat, error) {
	if err := requireLibrary(LibAVFormat); err != nil {
		return nil, err
	}
	p := avFindInputFormat(name)
	if p == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrDemuxerNotFound)
	}
	return &InputFormat{p: p}, nil
}

// GuessOutputFormat picks a muxer from a short name, a file name or a MIME
// type. Any of the three may be empty.
func GuessOutputFormat(name, filename, mimeType string) (*OutputFormat, error) {
	if err := requireLibrary(LibAVFormat); err != nil {
		return nil, err
	}
	p := avGuessFormat(cString(name), cString(filename), cString(mimeType))
	if p == nil {
		return nil, fmt.Errorf("name=%q file=%q mime=%q: %w", name, filename, mimeType, ErrMuxerNotFound)
	}
	return &OutputFormat{p: p}, nil
}

// Demuxers iterates over every registered demuxer, devices included.
func Demuxers() iter.Seq[*InputFormat] {
	return func(yield func(*InputFormat) bool) {
		if requireLibrary(LibAVFormat) != nil {
			return
		}
		var opaque uintptr
		for p := avDemuxerIterate(&opaque); p != nil; p = avDemuxerIterate(&opaque) {
			if !yield(&InputFormat{p: p}) {
				return
			}
		}
	}
}

// Muxers iterates over every registered muxer.
func Muxers() iter.Seq[*OutputFormat] {
	return func(yield func(*OutputFormat) bool) {
		if requireLibrary(LibAVFormat) != nil {
			return
		}
		var opaque uintptr
		for p := avMuxerIterate(&opaque); p != nil; p = avMuxerIterate(&opaque) {
			if !yield(&OutputFormat{p: p}) {
				return
			}
		}
	}
}

// NetworkInit initialises the network protocols. It is optional since
// FFmpeg 4 but avoids a warning from some TLS backends.
func NetworkInit() error {
	if err := requireLibrary(LibAVFormat); err != nil {
		return err
	}
	if avformatNetworkInit == nil {
		return nil
	}
	return newError(avformatNetworkInit(), "avformat_network_init")
}

// NetworkDeinit undoes NetworkInit.
func NetworkDeinit() error {
	if err := requireLibrary(LibAVFormat); err != nil {
		return err
	}
	if avformatNetworkDeinit == nil {
		return nil
	}
	return newError(avformatNetworkDeinit(), "avformat_network_deinit")
}
