package ffmpeg

import "fmt"

// SampleFormat is a raw audio sample layout (AVSampleFormat).
type SampleFormat int32

const (
	SampleFormatNone SampleFormat = -1
	SampleFormatU8   SampleFormat = 0
	SampleFormatS16  SampleFormat = 1
	SampleFormatS32  SampleFormat = 2
	SampleFormatFLT  SampleFormat = 3
	SampleFormatDBL  SampleFormat = 4
	SampleFormatU8P  SampleFormat = 5
	SampleFormatS16P SampleFormat = 6
	SampleFormatS32P SampleFormat = 7
	SampleFormatFLTP SampleFormat = 8
	SampleFormatDBLP SampleFormat = 9
	SampleFormatS64  SampleFormat = 10
	SampleFormatS64P SampleFormat = 11
)

type sampleFormatMeta struct {
	name   string
	bytes  int
	planar bool
	alt    SampleFormat // packed <-> planar counterpart
}

var sampleFormatInfo = map[SampleFormat]sampleFormatMeta{
	SampleFormatU8:   {"u8", 1, false, SampleFormatU8P},
	SampleFormatS16:  {"s16", 2, false, SampleFormatS16P},
	SampleFormatS32:  {"s32", 4, false, SampleFormatS32P},
	SampleFormatFLT:  {"flt", 4, false, SampleFormatFLTP},
	SampleFormatDBL:  {"dbl", 8, false, SampleFormatDBLP},
	SampleFormatU8P:  {"u8p", 1, true, SampleFormatU8},
	SampleFormatS16P: {"s16p", 2, true, SampleFormatS16},
	SampleFormatS32P: {"s32p", 4, true, SampleFormatS32},
	SampleFormatFLTP: {"fltp", 4, true, SampleFormatFLT},
	SampleFormatDBLP: {"dblp", 8, true, SampleFormatDBL},
	SampleFormatS64:  {"s64", 8, false, SampleFormatS64P},
	SampleFormatS64P: {"s64p", 8, true, SampleFormatS64},
}

// String returns FFmpeg's name for the format ("fltp").
func (f SampleFormat) String() string {
	if m, ok := sampleFormatInfo[f]; ok {
		return m.name
	}
	if f == SampleFormatNone {
		return "none"
	}
	return fmt.Sprintf("SampleFormat(%d)", int32(f))
}

// MarshalText encodes the FFmpeg name.
func (f SampleFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// BytesPerSample returns the size of one sample of one channel.
func (f SampleFormat) BytesPerSample() int {
	return sampleFormatInfo[f].bytes
}

// IsPlanar reports whether each channel is stored in its own plane.
func (f SampleFormat) IsPlanar() bool {
	return sampleFormatInfo[f].planar
}

// Packed returns the interleaved variant of f.
func (f SampleFormat) Packed() SampleFormat {
	m, ok := sampleFormatInfo[f]
	if !ok {
		return SampleFormatNone
	}
	if m.planar {
		return m.alt
	}
	return f
}

// Planar returns the planar variant of f.
func (f SampleFormat) Planar() SampleFormat {
	m, ok := sampleFormatInfo[f]
	if !ok {
		return SampleFormatNone
	}
	if m.planar {
		return f
	}
	return m.alt
}

// ParseSampleFormat looks a format up by FFmpeg name.
func ParseSampleFormat(name string) (SampleFormat, error) {
	for f, m := range sampleFormatInfo {
		if m.name == name {
			return f, nil
		}
	}
	return SampleFormatNone, fmt.Errorf("unknown sample format %q: %w", name, ErrInvalidArgument)
}
