package ffmpeg

import (
	"fmt"
	"strings"
	"unsafe"
)

// ScaleMode defines how scaling should handle aspect ratio mismatches.
type ScaleMode int

const (
	// ScaleModeFit scales to fit within target dimensions, preserving aspect ratio (may letterbox).
	ScaleModeFit ScaleMode = iota
	// ScaleModeFill scales to fill target dimensions, preserving aspect ratio (may crop).
	ScaleModeFill
	// ScaleModeStretch scales to exactly match target dimensions (may distort).
	ScaleModeStretch
)

func (m ScaleMode) String() string {
	switch m {
	case ScaleModeFit:
		return "fit"
	case ScaleModeFill:
		return "fill"
	case ScaleModeStretch:
		return "stretch"
	}
	return fmt.Sprintf("ScaleMode(%d)", int(m))
}

// ParseScaleMode parses "fit", "fill" or "stretch".
func ParseScaleMode(s string) (ScaleMode, error) {
	switch strings.ToLower(s) {
	case "fit":
		return ScaleModeFit, nil
	case "fill":
		return ScaleModeFill, nil
	case "stretch":
		return ScaleModeStretch, nil
	}
	return ScaleModeFit, fmt.Errorf("%w: unknown scale mode %q", ErrInvalidArgument, s)
}

// ScaleFlags select the swscale algorithm (SWS_*).
type ScaleFlags int32

const (
	ScaleFastBilinear ScaleFlags = 0x1
	ScaleBilinear     ScaleFlags = 0x2
	ScaleBicubic      ScaleFlags = 0x4
	ScaleX            ScaleFlags = 0x8
	ScalePoint        ScaleFlags = 0x10
	ScaleArea         ScaleFlags = 0x20
	ScaleBicublin     ScaleFlags = 0x40
	ScaleGauss        ScaleFlags = 0x80
	ScaleSinc         ScaleFlags = 0x100
	ScaleLanczos      ScaleFlags = 0x200
	ScaleSpline       ScaleFlags = 0x400
	ScaleAccurateRnd  ScaleFlags = 0x40000
	ScaleBitExact     ScaleFlags = 0x80000
)

var scaleFlagNames = []struct {
	flag ScaleFlags
	name string
}{
	{ScaleFastBilinear, "fast_bilinear"},
	{ScaleBilinear, "bilinear"},
	{ScaleBicubic, "bicubic"},
	{ScaleX, "experimental"},
	{ScalePoint, "neighbor"},
	{ScaleArea, "area"},
	{ScaleBicublin, "bicublin"},
	{ScaleGauss, "gauss"},
	{ScaleSinc, "sinc"},
	{ScaleLanczos, "lanczos"},
	{ScaleSpline, "spline"},
	{ScaleAccurateRnd, "accurate_rnd"},
	{ScaleBitExact, "bitexact"},
}

// String uses the names of the "sws_flags" option, joined with "+".
func (f ScaleFlags) String() string {
	var parts []string
	for _, n := range scaleFlagNames {
		if f&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, "+")
}

// sourceRegion determines what region of the source to use based on scale mode.
func sourceRegion(srcW, srcH, dstW, dstH int, mode ScaleMode) (x, y, w, h int) {
	if mode != ScaleModeFill || srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return 0, 0, srcW, srcH
	}
	// Crop source to match target aspect ratio
	srcAspect := float64(srcW) / float64(srcH)
	dstAspect := float64(dstW) / float64(dstH)

	if srcAspect > dstAspect {
		// Source is wider, crop horizontally
		newW := int(float64(srcH) * dstAspect)
		return (srcW - newW) / 2, 0, newW, srcH
	} else if srcAspect < dstAspect {
		// Source is taller, crop vertically
		newH := int(float64(srcW) / dstAspect)
		return 0, (srcH - newH) / 2, srcW, newH
	}
	return 0, 0, srcW, srcH
}

// CalculateScaledSize returns the output dimensions when scaling with a given mode.
// This is useful for determining letterbox dimensions in ScaleModeFit.
func CalculateScaledSize(srcW, srcH, maxW, maxH int, mode ScaleMode) (w, h int) {
	switch mode {
	case ScaleModeFit:
		if srcW <= 0 || srcH <= 0 {
			return maxW, maxH
		}
		if srcW*maxH > maxW*srcH {
			// Source is wider, fit to width
			w, h = maxW, maxW*srcH/srcW
		} else {
			// Source is taller, fit to height
			w, h = maxH*srcW/srcH, maxH
		}
		// Even dimensions for YUV, rounded down to stay inside the box
		return max(w&^1, 2), max(h&^1, 2)

	default:
		return maxW, maxH
	}
}

// ScaleFilterSpec returns a filter graph description that scales a
// srcW x srcH picture into maxW x maxH following mode. Fill crops the
// centre of the source before scaling.
func ScaleFilterSpec(srcW, srcH, maxW, maxH int, mode ScaleMode) string {
	w, h := CalculateScaledSize(srcW, srcH, maxW, maxH, mode)
	scale := fmt.Sprintf("scale=%d:%d", w, h)
	if mode != ScaleModeFill {
		return scale
	}
	x, y, cw, ch := sourceRegion(srcW, srcH, maxW, maxH, mode)
	if cw == srcW && ch == srcH {
		return scale
	}
	return fmt.Sprintf("crop=%d:%d:%d:%d,%s", cw, ch, x, y, scale)
}

// ScalerConfig describes a swscale conversion.
type ScalerConfig struct {
	SrcWidth  int
	SrcHeight int
	SrcFormat PixelFormat
	DstWidth  int
	DstHeight int
	DstFormat PixelFormat
	Flags     ScaleFlags // zero means ScaleBicubic
}

// Scaler converts pictures between sizes and pixel formats (SwsContext).
type Scaler struct {
	p   unsafe.Pointer
	cfg ScalerConfig
}

// NewScaler creates a scaler for cfg.
func NewScaler(cfg ScalerConfig) (*Scaler, error) {
	if err := requireLibrary(LibSWScale); err != nil {
		return nil, err
	}
	if cfg.SrcWidth <= 0 || cfg.SrcHeight <= 0 || cfg.DstWidth <= 0 || cfg.DstHeight <= 0 {
		return nil, fmt.Errorf("%w: scaler %dx%d -> %dx%d", ErrInvalidArgument,
			cfg.SrcWidth, cfg.SrcHeight, cfg.DstWidth, cfg.DstHeight)
	}
	if cfg.Flags == 0 {
		cfg.Flags = ScaleBicubic
	}
	p := swsGetContext(int32(cfg.SrcWidth), int32(cfg.SrcHeight), int32(cfg.SrcFormat),
		int32(cfg.DstWidth), int32(cfg.DstHeight), int32(cfg.DstFormat),
		int32(cfg.Flags), nil, nil, nil)
	if p == nil {
		return nil, fmt.Errorf("%w: unsupported conversion %s -> %s", ErrInvalidArgument, cfg.SrcFormat, cfg.DstFormat)
	}
	return &Scaler{p: p, cfg: cfg}, nil
}

// NewConverter creates a same-size pixel format converter.
func NewConverter(width, height int, in, out PixelFormat) (*Scaler, error) {
	return NewScaler(ScalerConfig{
		SrcWidth: width, SrcHeight: height, SrcFormat: in,
		DstWidth: width, DstHeight: height, DstFormat: out,
		Flags: ScaleFastBilinear,
	})
}

// Config returns the conversion the scaler was created for.
func (s *Scaler) Config() ScalerConfig { return s.cfg }

// Scale converts src into dst. dst gets the configured size and format;
// its buffers are allocated when it has none. Timestamps are carried over.
func (s *Scaler) Scale(dst, src *Frame) error {
	if s == nil || s.p == nil {
		return ErrClosed
	}
	if src.Width() != s.cfg.SrcWidth || src.Height() != s.cfg.SrcHeight || src.PixelFormat() != s.cfg.SrcFormat {
		return fmt.Errorf("%w: scaler expects %dx%d %s, got %dx%d %s", ErrInputChanged,
			s.cfg.SrcWidth, s.cfg.SrcHeight, s.cfg.SrcFormat, src.Width(), src.Height(), src.PixelFormat())
	}
	if peekPtr(dst.p, offFrameData) == nil {
		dst.SetWidth(s.cfg.DstWidth)
		dst.SetHeight(s.cfg.DstHeight)
		dst.SetPixelFormat(s.cfg.DstFormat)
	}
	if ret := swsScaleFrame(s.p, dst.p, src.p); ret < 0 {
		return newError(ret, "sws_scale_frame")
	}
	dst.SetPTS(src.PTS())
	dst.SetDuration(src.Duration())
	dst.SetTimeBase(src.TimeBase())
	return nil
}

// ScaleFrame converts src into a newly allocated frame.
func (s *Scaler) ScaleFrame(src *Frame) (*Frame, error) {
	dst, err := NewFrame()
	if err != nil {
		return nil, err
	}
	if err := s.Scale(dst, src); err != nil {
		dst.Free()
		return nil, err
	}
	return dst, nil
}

// Free releases the scaler. It is safe to call more than once.
func (s *Scaler) Free() {
	if s == nil || s.p == nil {
		return
	}
	swsFreeContext(s.p)
	s.p = nil
}
