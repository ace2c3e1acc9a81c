package ffmpeg

import "fmt"

// PixelFormat is a raw video pixel layout (AVPixelFormat).
type PixelFormat int32

const (
	PixelFormatNone        PixelFormat = -1
	PixelFormatYUV420P     PixelFormat = 0  // planar YUV 4:2:0 (I420)
	PixelFormatYUYV422     PixelFormat = 1  // packed YUV 4:2:2
	PixelFormatRGB24       PixelFormat = 2  // packed RGB 8:8:8
	PixelFormatBGR24       PixelFormat = 3  // packed BGR 8:8:8
	PixelFormatYUV422P     PixelFormat = 4  // planar YUV 4:2:2
	PixelFormatYUV444P     PixelFormat = 5  // planar YUV 4:4:4
	PixelFormatYUV410P     PixelFormat = 6  // planar YUV 4:1:0
	PixelFormatYUV411P     PixelFormat = 7  // planar YUV 4:1:1
	PixelFormatGray8       PixelFormat = 8  // Y, 8bpp
	PixelFormatPAL8        PixelFormat = 11 // 8 bit with RGB32 palette
	PixelFormatYUVJ420P    PixelFormat = 12 // full range YUV 4:2:0
	PixelFormatYUVJ422P    PixelFormat = 13 // full range YUV 4:2:2
	PixelFormatYUVJ444P    PixelFormat = 14 // full range YUV 4:4:4
	PixelFormatUYVY422     PixelFormat = 15 // packed YUV 4:2:2
	PixelFormatNV12        PixelFormat = 23 // Y plane + interleaved UV
	PixelFormatNV21        PixelFormat = 24 // Y plane + interleaved VU
	PixelFormatARGB        PixelFormat = 25
	PixelFormatRGBA        PixelFormat = 26
	PixelFormatABGR        PixelFormat = 27
	PixelFormatBGRA        PixelFormat = 28
	PixelFormatGray16BE    PixelFormat = 29
	PixelFormatGray16LE    PixelFormat = 30
	PixelFormatYUV440P     PixelFormat = 31
	PixelFormatYUVA420P    PixelFormat = 33
	PixelFormatRGB48BE     PixelFormat = 34
	PixelFormatRGB48LE     PixelFormat = 35
	PixelFormatRGB565BE    PixelFormat = 36
	PixelFormatRGB565LE    PixelFormat = 37
	PixelFormatYUV420P16LE PixelFormat = 45
	PixelFormatYUV420P16BE PixelFormat = 46
	PixelFormatYUV420P10LE PixelFormat = 62
	PixelFormatYUV422P10LE PixelFormat = 64
)

// Aliases for the names used by WebRTC and capture APIs.
const (
	PixelFormatI420 = PixelFormatYUV420P
)

type pixelFormatMeta struct {
	name   string
	planes int
}

// Static metadata, used when the libraries are not loaded.
var pixelFormatInfo = map[PixelFormat]pixelFormatMeta{
	PixelFormatYUV420P:     {"yuv420p", 3},
	PixelFormatYUYV422:     {"yuyv422", 1},
	PixelFormatRGB24:       {"rgb24", 1},
	PixelFormatBGR24:       {"bgr24", 1},
	PixelFormatYUV422P:     {"yuv422p", 3},
	PixelFormatYUV444P:     {"yuv444p", 3},
	PixelFormatYUV410P:     {"yuv410p", 3},
	PixelFormatYUV411P:     {"yuv411p", 3},
	PixelFormatGray8:       {"gray", 1},
	PixelFormatPAL8:        {"pal8", 1},
	PixelFormatYUVJ420P:    {"yuvj420p", 3},
	PixelFormatYUVJ422P:    {"yuvj422p", 3},
	PixelFormatYUVJ444P:    {"yuvj444p", 3},
	PixelFormatUYVY422:     {"uyvy422", 1},
	PixelFormatNV12:        {"nv12", 2},
	PixelFormatNV21:        {"nv21", 2},
	PixelFormatARGB:        {"argb", 1},
	PixelFormatRGBA:        {"rgba", 1},
	PixelFormatABGR:        {"abgr", 1},
	PixelFormatBGRA:        {"bgra", 1},
	PixelFormatGray16BE:    {"gray16be", 1},
	PixelFormatGray16LE:    {"gray16le", 1},
	PixelFormatYUV440P:     {"yuv440p", 3},
	PixelFormatYUVA420P:    {"yuva420p", 4},
	PixelFormatRGB48BE:     {"rgb48be", 1},
	PixelFormatRGB48LE:     {"rgb48le", 1},
	PixelFormatRGB565BE:    {"rgb565be", 1},
	PixelFormatRGB565LE:    {"rgb565le", 1},
	PixelFormatYUV420P16LE: {"yuv420p16le", 3},
	PixelFormatYUV420P16BE: {"yuv420p16be", 3},
	PixelFormatYUV420P10LE: {"yuv420p10le", 3},
	PixelFormatYUV422P10LE: {"yuv422p10le", 3},
}

// String returns FFmpeg's name for the format ("yuv420p").
func (p PixelFormat) String() string {
	if p == PixelFormatNone {
		return "none"
	}
	if LibAVUtil.Available() {
		if name := avGetPixFmtName(int32(p)); name != "" {
			return name
		}
	}
	if m, ok := pixelFormatInfo[p]; ok {
		return m.name
	}
	return fmt.Sprintf("PixelFormat(%d)", int32(p))
}

// MarshalText encodes the FFmpeg name.
func (p PixelFormat) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// PlaneCount returns the number of data planes, or 0 if unknown.
func (p PixelFormat) PlaneCount() int {
	if LibAVUtil.Available() && p != PixelFormatNone {
		if n := avPixFmtCountPlanes(int32(p)); n > 0 {
			return int(n)
		}
	}
	return pixelFormatInfo[p].planes
}

// ParsePixelFormat looks a format up by FFmpeg name.
func ParsePixelFormat(name string) (PixelFormat, error) {
	if LibAVUtil.Available() {
		if f := PixelFormat(avGetPixFmt(name)); f != PixelFormatNone {
			return f, nil
		}
	}
	for f, m := range pixelFormatInfo {
		if m.name == name {
			return f, nil
		}
	}
	return PixelFormatNone, fmt.Errorf("unknown pixel format %q: %w", name, ErrInvalidArgument)
}

// I420Size returns the total buffer size needed for a yuv420p frame.
func I420Size(width, height int) int {
	chromaW, chromaH := (width+1)/2, (height+1)/2
	return width*height + 2*chromaW*chromaH
}
