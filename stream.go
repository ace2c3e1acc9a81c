package ffmpeg

import (
	"fmt"
	"strings"
	"time"
	"unsafe"
)

// Disposition holds the AV_DISPOSITION_* bits of a stream.
type Disposition int32

const (
	DispositionDefault         Disposition = 1 << 0
	DispositionDub             Disposition = 1 << 1
	DispositionOriginal        Disposition = 1 << 2
	DispositionComment         Disposition = 1 << 3
	DispositionLyrics          Disposition = 1 << 4
	DispositionKaraoke         Disposition = 1 << 5
	DispositionForced          Disposition = 1 << 6
	DispositionHearingImpaired Disposition = 1 << 7
	DispositionVisualImpaired  Disposition = 1 << 8
	DispositionCleanEffects    Disposition = 1 << 9
	DispositionAttachedPic     Disposition = 1 << 10
	DispositionTimedThumbnails Disposition = 1 << 11
	DispositionNonDiegetic     Disposition = 1 << 12
	DispositionCaptions        Disposition = 1 << 16
	DispositionDescriptions    Disposition = 1 << 17
	DispositionMetadata        Disposition = 1 << 18
	DispositionDependent       Disposition = 1 << 19
	DispositionStillImage      Disposition = 1 << 20
)

var dispositionNames = []struct {
	bit  Disposition
	name string
}{
	{DispositionDefault, "default"},
	{DispositionDub, "dub"},
	{DispositionOriginal, "original"},
	{DispositionComment, "comment"},
	{DispositionLyrics, "lyrics"},
	{DispositionKaraoke, "karaoke"},
	{DispositionForced, "forced"},
	{DispositionHearingImpaired, "hearing_impaired"},
	{DispositionVisualImpaired, "visual_impaired"},
	{DispositionCleanEffects, "clean_effects"},
	{DispositionAttachedPic, "attached_pic"},
	{DispositionTimedThumbnails, "timed_thumbnails"},
	{DispositionNonDiegetic, "non_diegetic"},
	{DispositionCaptions, "captions"},
	{DispositionDescriptions, "descriptions"},
	{DispositionMetadata, "metadata"},
	{DispositionDependent, "dependent"},
	{DispositionStillImage, "still_image"},
}

// String joins the set flag names with "+", the syntax of the
// "disposition" option.
func (d Disposition) String() string {
	var parts []string
	for _, n := range dispositionNames {
		if d&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, "+")
}

// Stream is an AVStream borrowed from an Input or Output. It is invalid once
// its owner is closed.
type Stream struct {
	p   unsafe.Pointer
	fmt unsafe.Pointer // owning AVFormatContext
}

func (s *Stream) Index() int                   { return int(peekInt32(s.p, offStreamIndex)) }
func (s *Stream) ID() int                      { return int(peekInt32(s.p, offStreamID)) }
func (s *Stream) SetID(id int)                 { pokeInt32(s.p, offStreamID, int32(id)) }
func (s *Stream) TimeBase() Rational           { return peekRational(s.p, offStreamTimeBase) }
func (s *Stream) SetTimeBase(tb Rational)      { pokeRational(s.p, offStreamTimeBase, tb) }
func (s *Stream) StartTime() int64             { return peekInt64(s.p, offStreamStartTime) }
func (s *Stream) Duration() int64              { return peekInt64(s.p, offStreamDuration) }
func (s *Stream) FrameCount() int64            { return peekInt64(s.p, offStreamNbFrames) }
func (s *Stream) Disposition() Disposition     { return Disposition(peekInt32(s.p, offStreamDisposition)) }
func (s *Stream) SampleAspectRatio() Rational  { return peekRational(s.p, offStreamSAR) }
func (s *Stream) AvgFrameRate() Rational       { return peekRational(s.p, offStreamAvgFrameRate) }
func (s *Stream) SetAvgFrameRate(r Rational)   { pokeRational(s.p, offStreamAvgFrameRate, r) }
func (s *Stream) Discard() Discard             { return Discard(peekInt32(s.p, offStreamDiscard)) }
func (s *Stream) SetDiscard(d Discard)         { pokeInt32(s.p, offStreamDiscard, int32(d)) }
func (s *Stream) SetDisposition(d Disposition) { pokeInt32(s.p, offStreamDisposition, int32(d)) }

// RealFrameRate guesses the frame rate from the container and codec
// information (av_guess_frame_rate).
func (s *Stream) RealFrameRate() Rational {
	return unpackRational(avGuessFrameRate(s.fmt, s.p, nil))
}

// Metadata returns a copy of the stream tags.
func (s *Stream) Metadata() *Dictionary {
	return dictFromNative(peekPtr(s.p, offStreamMetadata))
}

// SetMetadata replaces the stream tags.
func (s *Stream) SetMetadata(d *Dictionary) error {
	return setNativeDict((*unsafe.Pointer)(unsafe.Add(s.p, offStreamMetadata)), d)
}

// Parameters returns the codec parameters, borrowed from the stream.
func (s *Stream) Parameters() *CodecParameters {
	return borrowedParameters(peekPtr(s.p, offStreamCodecPar))
}

// SetParameters copies par into the stream.
func (s *Stream) SetParameters(par *CodecParameters) error {
	return par.CopyTo(s.Parameters())
}

// MediaType is a shortcut for Parameters().MediaType().
func (s *Stream) MediaType() MediaType {
	return s.Parameters().MediaType()
}

// DurationTime converts Duration to a time.Duration. Unknown durations give 0.
func (s *Stream) DurationTime() time.Duration {
	d := s.Duration()
	if d == NoPTS || d <= 0 {
		return 0
	}
	return TSToDuration(d, s.TimeBase())
}

// EstimatedFrames estimates the frame count as duration·time_base·fps,
// truncated. It returns 0 when any of the inputs is unknown.
func (s *Stream) EstimatedFrames() int64 {
	n, _ := s.FrameEstimate()
	return n
}

// FrameEstimate is EstimatedFrames with ok reporting whether the stream has
// a duration and a frame rate to estimate from. The estimate may be 0.
func (s *Stream) FrameEstimate() (n int64, ok bool) {
	d := s.Duration()
	tb := s.TimeBase()
	fps := s.AvgFrameRate()
	if d == NoPTS || d <= 0 || !tb.Valid() || !fps.Valid() || fps.Num <= 0 {
		return 0, false
	}
	return int64(float64(d) * tb.Float64() * fps.Float64()), true
}

// String summarises the stream for logs.
func (s *Stream) String() string {
	return fmt.Sprintf("#%d %s tb=%s", s.Index(), s.Parameters(), s.TimeBase())
}

// streamsOf lists the streams of a format context.
func streamsOf(ctx unsafe.Pointer) []*Stream {
	n := int(peekUint32(ctx, offFmtNbStreams))
	arr := peekPtr(ctx, offFmtStreams)
	out := make([]*Stream, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &Stream{p: ptrAt(arr, i), fmt: ctx})
	}
	return out
}

// Chapter is an AVChapter borrowed from an Input.
type Chapter struct {
	p unsafe.Pointer
}

func (c *Chapter) ID() int64          { return peekInt64(c.p, offChapterID) }
func (c *Chapter) TimeBase() Rational { return peekRational(c.p, offChapterTimeBase) }
func (c *Chapter) Start() int64       { return peekInt64(c.p, offChapterStart) }
func (c *Chapter) End() int64         { return peekInt64(c.p, offChapterEnd) }

// Metadata returns a copy of the chapter tags.
func (c *Chapter) Metadata() *Dictionary {
	return dictFromNative(peekPtr(c.p, offChapterMetadata))
}

// Title returns the "title" tag, or "".
func (c *Chapter) Title() string {
	t, _ := c.Metadata().Get("title")
	return t
}

// StartTime and EndTime convert the bounds to wall-clock offsets.
func (c *Chapter) StartTime() time.Duration { return TSToDuration(c.Start(), c.TimeBase()) }
func (c *Chapter) EndTime() time.Duration   { return TSToDuration(c.End(), c.TimeBase()) }
