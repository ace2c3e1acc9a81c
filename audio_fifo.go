package ffmpeg

import (
	"fmt"
	"unsafe"
)

// AudioFIFO regroups audio into frames of a fixed number of samples, as
// encoders with a fixed frame size (AAC, Opus, MP3) require (AVAudioFifo).
// Output timestamps are in 1/Rate and continue from the first written frame.
type AudioFIFO struct {
	p         unsafe.Pointer
	spec      AudioSpec
	frameSize int
	nextPTS   int64
}

// NewAudioFIFO creates a FIFO for samples of spec, emitting frames of
// frameSize samples.
func NewAudioFIFO(spec AudioSpec, frameSize int) (*AudioFIFO, error) {
	if err := requireLibrary(LibAVUtil); err != nil {
		return nil, err
	}
	if frameSize <= 0 || spec.Rate <= 0 || spec.Layout.Channels <= 0 {
		return nil, fmt.Errorf("%w: audio fifo %s with frame size %d", ErrInvalidArgument, spec, frameSize)
	}
	p := avAudioFifoAlloc(int32(spec.Format), int32(spec.Layout.Channels), int32(frameSize))
	if p == nil {
		return nil, newError(errNoMem, "av_audio_fifo_alloc")
	}
	return &AudioFIFO{p: p, spec: spec, frameSize: frameSize, nextPTS: NoPTS}, nil
}

func (q *AudioFIFO) Spec() AudioSpec { return q.spec }
func (q *AudioFIFO) FrameSize() int  { return q.frameSize }

// Size returns the number of buffered samples.
func (q *AudioFIFO) Size() int {
	if q == nil || q.p == nil {
		return 0
	}
	return int(avAudioFifoSize(q.p))
}

// Write appends the samples of f, which must match the FIFO's format,
// channel layout and sample rate.
func (q *AudioFIFO) Write(f *Frame) error {
	if q == nil || q.p == nil {
		return ErrClosed
	}
	if got := SpecOf(f); got != q.spec {
		return fmt.Errorf("%w: fifo expects %s, got %s", ErrInputChanged, q.spec, got)
	}
	n := f.NbSamples()
	if n == 0 {
		return nil
	}
	if q.nextPTS == NoPTS && f.PTS() != NoPTS {
		tb := f.TimeBase()
		if !tb.Valid() {
			tb = NewRational(1, q.spec.Rate)
		}
		// Samples already buffered come before this frame.
		q.nextPTS = Rescale(f.PTS(), tb, NewRational(1, q.spec.Rate)) - int64(q.Size())
	}
	if ret := avAudioFifoWrite(q.p, peekPtr(f.p, offFrameExtData), int32(n)); ret < 0 {
		return newError(ret, "av_audio_fifo_write")
	} else if int(ret) < n {
		return newError(errNoMem, "av_audio_fifo_write")
	}
	return nil
}

// ReadFrame returns the next frame of FrameSize samples, or nil when fewer
// are buffered. With final set the remaining samples are returned padded
// with silence.
func (q *AudioFIFO) ReadFrame(final bool) (*Frame, error) {
	if q == nil || q.p == nil {
		return nil, ErrClosed
	}
	n := q.Size()
	if n == 0 || (n < q.frameSize && !final) {
		return nil, nil
	}
	n = min(n, q.frameSize)

	f, err := NewAudioFrame(q.spec.Format, q.spec.Layout, q.frameSize, q.spec.Rate)
	if err != nil {
		return nil, err
	}
	data := peekPtr(f.p, offFrameExtData)
	if ret := avAudioFifoRead(q.p, data, int32(n)); ret < 0 {
		f.Free()
		return nil, newError(ret, "av_audio_fifo_read")
	}
	if n < q.frameSize {
		avSamplesSetSilence(data, int32(n), int32(q.frameSize-n), int32(q.spec.Layout.Channels), int32(q.spec.Format))
	}

	f.SetTimeBase(NewRational(1, q.spec.Rate))
	f.SetPTS(q.nextPTS)
	if q.nextPTS != NoPTS {
		q.nextPTS += int64(q.frameSize)
	}
	return f, nil
}

// Reset drops the buffered samples and restarts the timestamps.
func (q *AudioFIFO) Reset() {
	if q == nil || q.p == nil {
		return
	}
	avAudioFifoReset(q.p)
	q.nextPTS = NoPTS
}

// Free releases the FIFO. It is safe to call more than once.
func (q *AudioFIFO) Free() {
	if q == nil || q.p == nil {
		return
	}
	avAudioFifoFree(q.p)
	q.p = nil
}
