package ffmpeg

import (
	"fmt"
	"unsafe"
)

// AudioSpec describes one side of a resampler.
type AudioSpec struct {
	Format SampleFormat
	Layout ChannelLayout
	Rate   int
}

func (s AudioSpec) String() string {
	return fmt.Sprintf("%dHz %s %s", s.Rate, s.Format, s.Layout)
}

// SpecOf returns the audio spec of frame.
func SpecOf(frame *Frame) AudioSpec {
	return AudioSpec{Format: frame.SampleFormat(), Layout: frame.ChannelLayout(), Rate: frame.SampleRate()}
}

// Resampler converts audio between sample formats, channel layouts and
// rates (SwrContext).
type Resampler struct {
	p       unsafe.Pointer
	in, out AudioSpec
	nextPTS int64
}

// NewResampler creates an initialised resampler from in to out.
func NewResampler(in, out AudioSpec) (*Resampler, error) {
	if err := requireLibrary(LibSWResample); err != nil {
		return nil, err
	}
	if in.Rate <= 0 || out.Rate <= 0 {
		return nil, fmt.Errorf("%w: resampler %d -> %d Hz", ErrInvalidArgument, in.Rate, out.Rate)
	}
	inLayout := in.Layout.native()
	defer inLayout.uninit()
	outLayout := out.Layout.native()
	defer outLayout.uninit()

	var p unsafe.Pointer
	ret := swrAllocSetOpts2(&p, outLayout.ptr(), int32(out.Format), int32(out.Rate),
		inLayout.ptr(), int32(in.Format), int32(in.Rate), 0, nil)
	if err := newError(ret, "swr_alloc_set_opts2"); err != nil {
		return nil, err
	}
	if ret := swrInit(p); ret < 0 {
		swrFree(&p)
		return nil, fmt.Errorf("%s -> %s: %w", in, out, newError(ret, "swr_init"))
	}
	logger().Debug("resampler created", "in", in.String(), "out", out.String())
	return &Resampler{p: p, in: in, out: out, nextPTS: NoPTS}, nil
}

func (r *Resampler) In() AudioSpec  { return r.in }
func (r *Resampler) Out() AudioSpec { return r.out }

// prepare sets the output properties of dst when it has no buffers yet, so
// that swr_convert_frame allocates them.
func (r *Resampler) prepare(dst *Frame) error {
	if peekPtr(dst.p, offFrameData) != nil {
		return nil
	}
	dst.SetSampleFormat(r.out.Format)
	dst.SetSampleRate(r.out.Rate)
	return dst.SetChannelLayout(r.out.Layout)
}

// Convert resamples src into dst. When dst has no buffers they are sized
// for the output; otherwise dst.NbSamples bounds the output and the rest
// stays buffered. The output PTS is in 1/out.Rate.
func (r *Resampler) Convert(dst, src *Frame) error {
	if r == nil || r.p == nil {
		return ErrClosed
	}
	if err := r.prepare(dst); err != nil {
		return err
	}
	if pts := src.PTS(); pts != NoPTS {
		tb := src.TimeBase()
		if !tb.Valid() {
			tb = NewRational(1, r.in.Rate)
		}
		// Output lags the input by the samples still buffered.
		r.nextPTS = Rescale(pts, tb, NewRational(1, r.out.Rate)) - r.Delay(int64(r.out.Rate))
	}
	if ret := swrConvertFrame(r.p, dst.p, src.p); ret < 0 {
		return newError(ret, "swr_convert_frame")
	}
	r.stamp(dst)
	return nil
}

// Flush drains the buffered samples into dst. dst.NbSamples is 0 when
// nothing was left.
func (r *Resampler) Flush(dst *Frame) error {
	if r == nil || r.p == nil {
		return ErrClosed
	}
	if err := r.prepare(dst); err != nil {
		return err
	}
	if ret := swrConvertFrame(r.p, dst.p, nil); ret < 0 {
		return newError(ret, "swr_convert_frame")
	}
	r.stamp(dst)
	return nil
}

func (r *Resampler) stamp(dst *Frame) {
	dst.SetTimeBase(NewRational(1, r.out.Rate))
	dst.SetPTS(r.nextPTS)
	if r.nextPTS != NoPTS {
		r.nextPTS += int64(dst.NbSamples())
	}
}

// Delay returns the buffered delay expressed in 1/base units. Use the input
// rate for input samples, the output rate for output samples.
func (r *Resampler) Delay(base int64) int64 {
	if r == nil || r.p == nil {
		return 0
	}
	return swrGetDelay(r.p, base)
}

// Free releases the resampler. It is safe to call more than once.
func (r *Resampler) Free() {
	if r == nil || r.p == nil {
		return
	}
	swrFree(&r.p)
	r.p = nil
}
