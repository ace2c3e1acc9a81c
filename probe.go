package ffmpeg

import (
	"context"
	"errors"
	"fmt"
)

// MediaInfo is the analysis of a media file made by Probe.
type MediaInfo struct {
	Path       string      `json:"path" yaml:"path"`
	Format     string      `json:"format" yaml:"format"`
	FormatLong string      `json:"format_long" yaml:"format_long"`
	Duration   float64     `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
	BitRate    int64       `json:"bit_rate,omitempty" yaml:"bit_rate,omitempty"`
	Tags       []DictEntry `json:"tags,omitempty" yaml:"tags,omitempty"`

	Streams []StreamInfo `json:"streams" yaml:"streams"`

	// VideoStream is the index of the analysed video stream, -1 without one.
	VideoStream int `json:"video_stream" yaml:"video_stream"`
	// EstimatedFrames is nil when the video stream has no duration or frame
	// rate to estimate from.
	EstimatedFrames *int64     `json:"estimated_frames,omitempty" yaml:"estimated_frames,omitempty"`
	FirstFrame      *FrameInfo `json:"first_frame,omitempty" yaml:"first_frame,omitempty"`
	// FirstFrameError explains why no frame was decoded.
	FirstFrameError string `json:"first_frame_error,omitempty" yaml:"first_frame_error,omitempty"`
}

// HasVideo reports whether the file has a video stream.
func (m *MediaInfo) HasVideo() bool { return m.VideoStream >= 0 }

// StreamInfo describes one stream. Fields that do not apply to the stream
// type are zero.
type StreamInfo struct {
	Index    int       `json:"index" yaml:"index"`
	Type     MediaType `json:"type" yaml:"type"`
	Codec    CodecID   `json:"codec" yaml:"codec"`
	TimeBase Rational  `json:"time_base" yaml:"time_base"`
	FPS      float64   `json:"fps,omitempty" yaml:"fps,omitempty"`

	Width       int       `json:"width,omitempty" yaml:"width,omitempty"`
	Height      int       `json:"height,omitempty" yaml:"height,omitempty"`
	PixelFormat string    `json:"pixel_format,omitempty" yaml:"pixel_format,omitempty"`
	AspectRatio *Rational `json:"aspect_ratio,omitempty" yaml:"aspect_ratio,omitempty"`

	SampleRate   int    `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
	Channels     int    `json:"channels,omitempty" yaml:"channels,omitempty"`
	SampleFormat string `json:"sample_format,omitempty" yaml:"sample_format,omitempty"`

	Tags []DictEntry `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// FrameInfo describes a decoded picture.
type FrameInfo struct {
	Width  int         `json:"width" yaml:"width"`
	Height int         `json:"height" yaml:"height"`
	Format PixelFormat `json:"format" yaml:"format"`
	PTS    *int64      `json:"pts,omitempty" yaml:"pts,omitempty"`
	Planes []PlaneInfo `json:"planes" yaml:"planes"`
}

// PlaneInfo is the layout of one picture plane.
type PlaneInfo struct {
	Stride int `json:"stride" yaml:"stride"`
	Size   int `json:"size" yaml:"size"`
}

// Probe opens path and reports its container metadata, its streams, a
// frame count estimate and the result of decoding the first picture of the
// last video stream. Only failing to open or read the file is an error; a
// picture that cannot be decoded is reported in FirstFrameError.
func Probe(ctx context.Context, path string) (*MediaInfo, error) {
	in, err := OpenInput(path, WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer in.Close()

	info := &MediaInfo{
		Path:        path,
		Format:      in.Format().Name(),
		FormatLong:  in.Format().Description(),
		BitRate:     in.BitRate(),
		Tags:        in.Metadata().Entries(),
		VideoStream: -1,
	}
	if d := in.Duration(); d != NoPTS && d > 0 {
		info.Duration = float64(d) / TimeBase
	}

	streams := in.Streams()
	for _, st := range streams {
		si, err := describeStream(st)
		if err != nil {
			return nil, fmt.Errorf("stream %d: %w", st.Index(), err)
		}
		if si.Type == MediaTypeVideo {
			info.VideoStream = si.Index
		}
		info.Streams = append(info.Streams, si)
	}
	if !info.HasVideo() {
		return info, nil
	}

	st := streams[info.VideoStream]
	if n, ok := st.FrameEstimate(); ok {
		info.EstimatedFrames = &n
	}

	fi, err := decodeFirstFrame(ctx, path, st)
	switch {
	case err != nil && ctx.Err() != nil:
		return nil, err
	case err != nil:
		info.FirstFrameError = err.Error()
	case fi == nil:
		info.FirstFrameError = "no frame decoded"
	default:
		info.FirstFrame = fi
	}
	logger().Debug("probe complete", "path", path, "streams", len(info.Streams), "video_stream", info.VideoStream)
	return info, nil
}

func describeStream(st *Stream) (StreamInfo, error) {
	par := st.Parameters()
	si := StreamInfo{
		Index:    st.Index(),
		Type:     par.MediaType(),
		Codec:    par.CodecID(),
		TimeBase: st.TimeBase(),
		Tags:     st.Metadata().Entries(),
	}
	if fps := st.AvgFrameRate(); fps.Num > 0 && fps.Den > 0 {
		si.FPS = fps.Float64()
	}
	if si.Type != MediaTypeVideo && si.Type != MediaTypeAudio {
		return si, nil
	}

	cc, err := NewCodecContextFromParameters(par)
	if err != nil {
		return si, err
	}
	defer cc.Free()
	switch si.Type {
	case MediaTypeVideo:
		si.Width = cc.Width()
		si.Height = cc.Height()
		si.PixelFormat = cc.PixelFormat().String()
		if sar := cc.SampleAspectRatio(); sar.Num > 0 && sar.Den > 0 {
			si.AspectRatio = &sar
		}
	case MediaTypeAudio:
		si.SampleRate = cc.SampleRate()
		si.Channels = cc.Channels()
		si.SampleFormat = cc.SampleFormat().String()
	}
	return si, cc.Err()
}

// decodeFirstFrame decodes packets of st from a fresh input until the first
// picture comes out. It returns nil without error when the stream ends
// first.
func decodeFirstFrame(ctx context.Context, path string, st *Stream) (*FrameInfo, error) {
	dec, err := NewVideoDecoder(st.Parameters(), nil)
	if err != nil {
		return nil, err
	}
	defer dec.Free()
	dec.SetPacketTimeBase(st.TimeBase())

	in, err := OpenInput(path, WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer in.Close()

	frame, err := NewFrame()
	if err != nil {
		return nil, err
	}
	defer frame.Free()

	for s, pkt := range in.Packets() {
		if s.Index() != st.Index() {
			continue
		}
		if err := dec.SendPacket(pkt); err != nil && !errors.Is(err, ErrAgain) {
			return nil, err
		}
		switch err := dec.ReceiveFrame(frame); {
		case err == nil:
			return describeFrame(frame), nil
		case !errors.Is(err, ErrAgain):
			return nil, err
		}
	}
	if err := in.Err(); err != nil {
		return nil, err
	}

	// Short streams may only produce output once drained.
	if err := dec.SendEOF(); err != nil {
		return nil, err
	}
	if err := dec.ReceiveFrame(frame); err == nil {
		return describeFrame(frame), nil
	} else if !errors.Is(err, ErrEOF) {
		return nil, err
	}
	return nil, nil
}

func describeFrame(f *Frame) *FrameInfo {
	fi := &FrameInfo{
		Width:  f.Width(),
		Height: f.Height(),
		Format: f.PixelFormat(),
	}
	if pts := f.PTS(); pts != NoPTS {
		fi.PTS = &pts
	}
	for i := 0; i < f.Planes(); i++ {
		fi.Planes = append(fi.Planes, PlaneInfo{Stride: f.Stride(i), Size: len(f.Data(i))})
	}
	return fi
}
