package ffmpeg

import (
	"fmt"
	"unsafe"
)

// PictureType is the coding type of a decoded picture (AVPictureType).
type PictureType int32

const (
	PictureTypeNone PictureType = iota
	PictureTypeI
	PictureTypeP
	PictureTypeB
	PictureTypeS
	PictureTypeSI
	PictureTypeSP
	PictureTypeBI
)

// String returns the single-letter form used by av_get_picture_type_char.
func (p PictureType) String() string {
	switch p {
	case PictureTypeI:
		return "I"
	case PictureTypeP:
		return "P"
	case PictureTypeB:
		return "B"
	case PictureTypeS:
		return "S"
	case PictureTypeSI:
		return "i"
	case PictureTypeSP:
		return "p"
	case PictureTypeBI:
		return "b"
	default:
		return "?"
	}
}

// Frame is an owned AVFrame holding decoded video or audio.
// A Frame is not safe for concurrent use.
type Frame struct {
	p unsafe.Pointer
}

// NewFrame allocates an empty frame.
func NewFrame() (*Frame, error) {
	if err := requireLibrary(LibAVUtil); err != nil {
		return nil, err
	}
	p := avFrameAlloc()
	if p == nil {
		return nil, newError(errNoMem, "av_frame_alloc")
	}
	return &Frame{p: p}, nil
}

// NewVideoFrame allocates a frame with buffers for the given picture.
func NewVideoFrame(format PixelFormat, width, height int) (*Frame, error) {
	f, err := NewFrame()
	if err != nil {
		return nil, err
	}
	f.SetPixelFormat(format)
	f.SetWidth(width)
	f.SetHeight(height)
	if err := f.AllocBuffer(0); err != nil {
		f.Free()
		return nil, err
	}
	return f, nil
}

// NewAudioFrame allocates a frame with buffers for nbSamples samples.
func NewAudioFrame(format SampleFormat, layout ChannelLayout, nbSamples, sampleRate int) (*Frame, error) {
	f, err := NewFrame()
	if err != nil {
		return nil, err
	}
	f.SetSampleFormat(format)
	f.SetNbSamples(nbSamples)
	f.SetSampleRate(sampleRate)
	if err := f.SetChannelLayout(layout); err != nil {
		f.Free()
		return nil, err
	}
	if err := f.AllocBuffer(0); err != nil {
		f.Free()
		return nil, err
	}
	return f, nil
}

// Free releases the frame and its buffers. It is safe to call more than once.
func (f *Frame) Free() {
	if f == nil || f.p == nil {
		return
	}
	avFrameFree(&f.p)
	f.p = nil
}

// Unref drops the buffer references and resets every field.
func (f *Frame) Unref() {
	avFrameUnref(f.p)
}

// Ref makes f reference the same buffers as src.
func (f *Frame) Ref(src *Frame) error {
	return newError(avFrameRef(f.p, src.p), "av_frame_ref")
}

// Clone returns a new frame referencing the same buffers.
func (f *Frame) Clone() (*Frame, error) {
	p := avFrameClone(f.p)
	if p == nil {
		return nil, newError(errNoMem, "av_frame_clone")
	}
	return &Frame{p: p}, nil
}

// AllocBuffer allocates data buffers for the current format and size.
// An align of 0 picks the best alignment for the CPU.
func (f *Frame) AllocBuffer(align int) error {
	return newError(avFrameGetBuffer(f.p, int32(align)), "av_frame_get_buffer")
}

// MakeWritable copies the data if the buffers are shared.
func (f *Frame) MakeWritable() error {
	return newError(avFrameMakeWritable(f.p), "av_frame_make_writable")
}

// IsWritable reports whether every buffer has a single reference.
func (f *Frame) IsWritable() bool {
	return avFrameIsWritable(f.p) > 0
}

func (f *Frame) Width() int         { return int(peekInt32(f.p, offFrameWidth)) }
func (f *Frame) Height() int        { return int(peekInt32(f.p, offFrameHeight)) }
func (f *Frame) SetWidth(w int)     { pokeInt32(f.p, offFrameWidth, int32(w)) }
func (f *Frame) SetHeight(h int)    { pokeInt32(f.p, offFrameHeight, int32(h)) }
func (f *Frame) NbSamples() int     { return int(peekInt32(f.p, offFrameNbSamples)) }
func (f *Frame) SetNbSamples(n int) { pokeInt32(f.p, offFrameNbSamples, int32(n)) }
func (f *Frame) SampleRate() int    { return int(peekInt32(f.p, frameOff.sampleRate)) }
func (f *Frame) SetSampleRate(r int) {
	pokeInt32(f.p, frameOff.sampleRate, int32(r))
}

// Format returns the raw format value; use PixelFormat or SampleFormat.
func (f *Frame) Format() int32 { return peekInt32(f.p, offFrameFormat) }

func (f *Frame) PixelFormat() PixelFormat       { return PixelFormat(f.Format()) }
func (f *Frame) SampleFormat() SampleFormat     { return SampleFormat(f.Format()) }
func (f *Frame) SetPixelFormat(p PixelFormat)   { pokeInt32(f.p, offFrameFormat, int32(p)) }
func (f *Frame) SetSampleFormat(s SampleFormat) { pokeInt32(f.p, offFrameFormat, int32(s)) }
func (f *Frame) PTS() int64                     { return peekInt64(f.p, offFramePTS) }
func (f *Frame) SetPTS(pts int64)               { pokeInt64(f.p, offFramePTS, pts) }
func (f *Frame) PktDTS() int64                  { return peekInt64(f.p, offFramePktDTS) }
func (f *Frame) BestEffortTimestamp() int64     { return peekInt64(f.p, frameOff.bestEffort) }
func (f *Frame) Duration() int64                { return peekInt64(f.p, frameOff.duration) }
func (f *Frame) SetDuration(d int64)            { pokeInt64(f.p, frameOff.duration, d) }
func (f *Frame) TimeBase() Rational             { return peekRational(f.p, offFrameTimeBase) }
func (f *Frame) SetTimeBase(tb Rational)        { pokeRational(f.p, offFrameTimeBase, tb) }
func (f *Frame) SampleAspectRatio() Rational    { return peekRational(f.p, frameOff.sar) }
func (f *Frame) PictureType() PictureType       { return PictureType(peekInt32(f.p, frameOff.pictType)) }
func (f *Frame) SetPictureType(t PictureType)   { pokeInt32(f.p, frameOff.pictType, int32(t)) }
func (f *Frame) IsKey() bool                    { return peekInt32(f.p, frameOff.flags)&frameFlagKey != 0 }
func (f *Frame) IsCorrupt() bool                { return peekInt32(f.p, frameOff.flags)&frameFlagCorrupt != 0 }
func (f *Frame) ChannelLayout() ChannelLayout {
	return layoutFromNative(unsafe.Add(f.p, frameOff.chLayout))
}
func (f *Frame) ChannelCount() int     { return int(peekInt32(f.p, frameOff.chLayout+offLayoutNbChannels)) }
func (f *Frame) Metadata() *Dictionary { return dictFromNative(peekPtr(f.p, frameOff.metadata)) }

// SetChannelLayout copies layout into the frame.
func (f *Frame) SetChannelLayout(layout ChannelLayout) error {
	n := layout.native()
	defer n.uninit()
	return newError(avChannelLayoutCopy(unsafe.Add(f.p, frameOff.chLayout), n.ptr()), "av_channel_layout_copy")
}

// IsVideo reports whether the frame carries a picture.
func (f *Frame) IsVideo() bool {
	return f.Width() > 0 && f.Height() > 0
}

// Planes returns the number of data planes in use.
func (f *Frame) Planes() int {
	if f.IsVideo() {
		return f.PixelFormat().PlaneCount()
	}
	if f.NbSamples() == 0 {
		return 0
	}
	if f.SampleFormat().IsPlanar() {
		return f.ChannelCount()
	}
	return 1
}

// Stride returns the line size in bytes of plane i.
func (f *Frame) Stride(i int) int {
	if i < 0 || i >= frameMaxPlanes {
		return 0
	}
	return int(peekInt32(f.p, offFrameLinesize+uintptr(i)*4))
}

// Data returns plane i as a slice over the frame's buffer. The slice is
// borrowed: it is valid until the frame is unreferenced or freed.
func (f *Frame) Data(i int) []byte {
	if i < 0 || i >= frameMaxPlanes || i >= f.Planes() {
		return nil
	}
	ptr := peekPtr(f.p, offFrameData+uintptr(i)*8)
	if ptr == nil {
		return nil
	}
	size := f.planeSize(i)
	if size <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), size)
}

func (f *Frame) planeSize(i int) int {
	if !f.IsVideo() {
		n := f.NbSamples() * f.SampleFormat().BytesPerSample()
		if !f.SampleFormat().IsPlanar() {
			n *= f.ChannelCount()
		}
		return n
	}
	if i >= 4 {
		return 0
	}
	var sizes [4]uintptr
	var lines [4]int64
	for j := range lines {
		lines[j] = int64(f.Stride(j))
	}
	if avImageFillPlaneSizes(&sizes, f.Format(), int32(f.Height()), &lines) < 0 {
		return 0
	}
	return int(sizes[i])
}

// Copy returns a deep Go copy of a video frame, independent of native memory.
func (f *Frame) Copy() *VideoFrame {
	planes := f.Planes()
	vf := &VideoFrame{
		Data:      make([][]byte, planes),
		Stride:    make([]int, planes),
		Width:     f.Width(),
		Height:    f.Height(),
		Format:    f.PixelFormat(),
		Timestamp: f.PTS(),
		Duration:  f.Duration(),
	}
	for i := 0; i < planes; i++ {
		vf.Stride[i] = f.Stride(i)
		if src := f.Data(i); src != nil {
			vf.Data[i] = append([]byte(nil), src...)
		}
	}
	return vf
}

// String summarises the frame for logs.
func (f *Frame) String() string {
	if f.IsVideo() {
		return fmt.Sprintf("video %dx%d %s pts=%d", f.Width(), f.Height(), f.PixelFormat(), f.PTS())
	}
	return fmt.Sprintf("audio %d samples %s %dHz pts=%d", f.NbSamples(), f.SampleFormat(), f.SampleRate(), f.PTS())
}

// VideoFrame is a decoded picture copied into Go memory.
type VideoFrame struct {
	Data      [][]byte    // Plane data
	Stride    []int       // Stride for each plane in bytes
	Width     int         // Frame width in pixels
	Height    int         // Frame height in pixels
	Format    PixelFormat // Pixel format
	Timestamp int64       // Presentation timestamp in the source time base
	Duration  int64       // Frame duration in the source time base (optional)
}

// Clone creates a deep copy of the video frame.
func (f *VideoFrame) Clone() *VideoFrame {
	clone := &VideoFrame{
		Data:      make([][]byte, len(f.Data)),
		Stride:    make([]int, len(f.Stride)),
		Width:     f.Width,
		Height:    f.Height,
		Format:    f.Format,
		Timestamp: f.Timestamp,
		Duration:  f.Duration,
	}
	copy(clone.Stride, f.Stride)
	for i, plane := range f.Data {
		if plane != nil {
			clone.Data[i] = make([]byte, len(plane))
			copy(clone.Data[i], plane)
		}
	}
	return clone
}

// Size returns the total number of bytes held in the planes.
func (f *VideoFrame) Size() int {
	n := 0
	for _, p := range f.Data {
		n += len(p)
	}
	return n
}
