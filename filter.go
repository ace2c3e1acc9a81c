package ffmpeg

import (
	"fmt"
	"iter"
	"strings"
	"unsafe"
)

// Filter is a filter definition (AVFilter), static library data.
type Filter struct {
	p unsafe.Pointer
}

// Pad is a filter input or output.
type Pad struct {
	Name      string    `json:"name"`
	MediaType MediaType `json:"media_type"`
}

// FindFilter looks a filter up by name ("scale", "aresample").
func FindFilter(name string) (*Filter, bool) {
	if requireLibrary(LibAVFilter) != nil {
		return nil, false
	}
	p := avfilterGetByName(name)
	if p == nil {
		return nil, false
	}
	return &Filter{p: p}, true
}

// Filters iterates over every registered filter.
func Filters() iter.Seq[*Filter] {
	return func(yield func(*Filter) bool) {
		if requireLibrary(LibAVFilter) != nil {
			return
		}
		var opaque uintptr
		for p := avFilterIterate(&opaque); p != nil; p = avFilterIterate(&opaque) {
			if !yield(&Filter{p: p}) {
				return
			}
		}
	}
}

func (f *Filter) Name() string        { return peekString(f.p, offFilterName) }
func (f *Filter) Description() string { return peekString(f.p, offFilterDescription) }
func (f *Filter) Inputs() []Pad       { return f.pads(offFilterInputs, 0) }
func (f *Filter) Outputs() []Pad      { return f.pads(offFilterOutputs, 1) }
func (f *Filter) String() string      { return f.Name() }

func (f *Filter) pads(off uintptr, isOutput int32) []Pad {
	arr := peekPtr(f.p, off)
	n := int(avfilterFilterPadCount(f.p, isOutput))
	if arr == nil || n == 0 {
		return nil
	}
	out := make([]Pad, n)
	for i := range out {
		out[i] = Pad{
			Name:      avfilterPadGetName(arr, int32(i)),
			MediaType: MediaType(avfilterPadGetType(arr, int32(i))),
		}
	}
	return out
}

// FilterContext is a filter instance inside a FilterGraph. It is owned by
// the graph.
type FilterContext struct {
	p unsafe.Pointer
}

func (c *FilterContext) Name() string { return peekString(c.p, offFilterCtxName) }

// Filter returns the definition the instance was created from.
func (c *FilterContext) Filter() *Filter {
	return &Filter{p: peekPtr(c.p, offFilterCtxFilter)}
}

// av_buffersrc flags
const buffersrcFlagKeepRef = 8

// PushFrame sends a frame into a buffer source. The caller keeps ownership
// of frame. A nil frame marks the end of the stream.
func (c *FilterContext) PushFrame(frame *Frame) error {
	var fp unsafe.Pointer
	if frame != nil {
		fp = frame.p
	}
	return newError(avBuffersrcAddFrameFlags(c.p, fp, buffersrcFlagKeepRef), "av_buffersrc_add_frame_flags")
}

// PullFrame receives a filtered frame from a buffer sink. It returns
// ErrAgain when the graph needs more input and ErrEOF after the end.
func (c *FilterContext) PullFrame(frame *Frame) error {
	return newError(avBuffersinkGetFrameFlags(c.p, frame.p, 0), "av_buffersink_get_frame_flags")
}

// SetFrameSize makes an audio sink return frames of exactly n samples,
// as fixed-frame-size encoders require.
func (c *FilterContext) SetFrameSize(n int) {
	avBuffersinkSetFrameSize(c.p, uint32(n))
}

// VideoSourceArgs describes the frames pushed into a video buffer source.
type VideoSourceArgs struct {
	Width       int
	Height      int
	PixelFormat PixelFormat
	TimeBase    Rational
	AspectRatio Rational // zero means 1/1
	FrameRate   Rational // optional
}

func (a VideoSourceArgs) String() string {
	sar := a.AspectRatio
	if !sar.Valid() || sar.Num == 0 {
		sar = NewRational(1, 1)
	}
	s := fmt.Sprintf("video_size=%dx%d:pix_fmt=%d:time_base=%s:pixel_aspect=%s",
		a.Width, a.Height, int32(a.PixelFormat), a.TimeBase, sar)
	if a.FrameRate.Valid() && a.FrameRate.Num > 0 {
		s += ":frame_rate=" + a.FrameRate.String()
	}
	return s
}

// AudioSourceArgs describes the frames pushed into an audio buffer source.
type AudioSourceArgs struct {
	SampleRate   int
	SampleFormat SampleFormat
	Layout       ChannelLayout
	TimeBase     Rational // zero means 1/SampleRate
}

func (a AudioSourceArgs) String() string {
	tb := a.TimeBase
	if !tb.Valid() {
		tb = NewRational(1, a.SampleRate)
	}
	layout := a.Layout.String()
	if a.Layout.Mask == 0 {
		layout = fmt.Sprintf("%dc", a.Layout.Channels)
	}
	return fmt.Sprintf("time_base=%s:sample_rate=%d:sample_fmt=%s:channel_layout=%s",
		tb, a.SampleRate, a.SampleFormat, layout)
}

// FilterGraph is an owned AVFilterGraph.
type FilterGraph struct {
	p unsafe.Pointer
}

// NewFilterGraph allocates an empty graph.
func NewFilterGraph() (*FilterGraph, error) {
	if err := requireLibrary(LibAVFilter); err != nil {
		return nil, err
	}
	p := avfilterGraphAlloc()
	if p == nil {
		return nil, newError(errNoMem, "avfilter_graph_alloc")
	}
	return &FilterGraph{p: p}, nil
}

// Free releases the graph and every filter in it. It is safe to call more
// than once.
func (g *FilterGraph) Free() {
	if g == nil || g.p == nil {
		return
	}
	avfilterGraphFree(&g.p)
	g.p = nil
}

// AddFilter creates an instance of f named name, initialised with args.
func (g *FilterGraph) AddFilter(f *Filter, name, args string) (*FilterContext, error) {
	if g == nil || g.p == nil {
		return nil, ErrClosed
	}
	if f == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrFilterNotFound)
	}
	var ctx unsafe.Pointer
	if ret := avfilterGraphCreateFilter(&ctx, f.p, name, cString(args), nil, g.p); ret < 0 {
		return nil, fmt.Errorf("%s=%s: %w", f.Name(), args, newError(ret, "avfilter_graph_create_filter"))
	}
	return &FilterContext{p: ctx}, nil
}

func (g *FilterGraph) addByName(filter, name, args string) (*FilterContext, error) {
	f, ok := FindFilter(filter)
	if !ok {
		return nil, fmt.Errorf("%s: %w", filter, ErrFilterNotFound)
	}
	return g.AddFilter(f, name, args)
}

// AddVideoBufferSource adds a "buffer" source named "in".
func (g *FilterGraph) AddVideoBufferSource(args VideoSourceArgs) (*FilterContext, error) {
	return g.addByName("buffer", "in", args.String())
}

// AddAudioBufferSource adds an "abuffer" source named "in".
func (g *FilterGraph) AddAudioBufferSource(args AudioSourceArgs) (*FilterContext, error) {
	return g.addByName("abuffer", "in", args.String())
}

// AddBufferSink adds a "buffersink" or "abuffersink" named "out".
func (g *FilterGraph) AddBufferSink(t MediaType) (*FilterContext, error) {
	switch t {
	case MediaTypeVideo:
		return g.addByName("buffersink", "out", "")
	case MediaTypeAudio:
		return g.addByName("abuffersink", "out", "")
	}
	return nil, fmt.Errorf("%w: no buffer sink for %s", ErrInvalidArgument, t)
}

// Endpoint names an existing filter pad that a parsed graph description
// connects to through a [label].
type Endpoint struct {
	Label  string
	Filter *FilterContext
	Pad    int
}

// Parse adds the filters described by spec. Sources are existing outputs
// feeding the description's open inputs; sinks are existing inputs fed by
// its open outputs. Labels default to "in" and "out" in ParseSimple.
func (g *FilterGraph) Parse(spec string, sources, sinks []Endpoint) error {
	if g == nil || g.p == nil {
		return ErrClosed
	}
	outputs, err := inOutList(sources)
	if err != nil {
		return err
	}
	defer avfilterInoutFree(&outputs)
	inputs, err := inOutList(sinks)
	if err != nil {
		return err
	}
	defer avfilterInoutFree(&inputs)
	if ret := avfilterGraphParsePtr(g.p, spec, &inputs, &outputs, nil); ret < 0 {
		return fmt.Errorf("parse %q: %w", spec, newError(ret, "avfilter_graph_parse_ptr"))
	}
	return nil
}

// ParseSimple parses a single-input single-output chain between src and
// sink, e.g. "scale=640:-2,format=yuv420p".
func (g *FilterGraph) ParseSimple(spec string, src, sink *FilterContext) error {
	return g.Parse(spec,
		[]Endpoint{{Label: "in", Filter: src}},
		[]Endpoint{{Label: "out", Filter: sink}})
}

// inOutList builds a linked AVFilterInOut list. The caller frees it with
// avfilter_inout_free.
func inOutList(eps []Endpoint) (unsafe.Pointer, error) {
	var head unsafe.Pointer
	for i := len(eps) - 1; i >= 0; i-- {
		io := avfilterInoutAlloc()
		if io == nil {
			avfilterInoutFree(&head)
			return nil, newError(errNoMem, "avfilter_inout_alloc")
		}
		pokePtr(io, offInOutName, avStrdup(eps[i].Label))
		pokePtr(io, offInOutFilterCtx, eps[i].Filter.p)
		pokeInt32(io, offInOutPadIdx, int32(eps[i].Pad))
		pokePtr(io, offInOutNext, head)
		head = io
	}
	return head, nil
}

// Link connects an output pad of src to an input pad of dst.
func (g *FilterGraph) Link(src *FilterContext, srcPad int, dst *FilterContext, dstPad int) error {
	return newError(avfilterLink(src.p, uint32(srcPad), dst.p, uint32(dstPad)), "avfilter_link")
}

// Configure checks the links and negotiates formats. It must be called
// after every filter is added and before frames are pushed.
func (g *FilterGraph) Configure() error {
	if g == nil || g.p == nil {
		return ErrClosed
	}
	return newError(avfilterGraphConfig(g.p, nil), "avfilter_graph_config")
}

// Dump returns a human readable description of the configured graph.
func (g *FilterGraph) Dump() string {
	if g == nil || g.p == nil {
		return ""
	}
	s := avfilterGraphDump(g.p, nil)
	if s == nil {
		return ""
	}
	defer avFree(s)
	return strings.TrimRight(goString(s), "\n")
}
