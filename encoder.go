package ffmpeg

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unsafe"
)

// VideoEncoderConfig configures a video encoder.
type VideoEncoderConfig struct {
	Codec   CodecID // Codec to encode to
	Encoder string  // Encoder name ("libx264"); empty picks the preferred one

	Width       int         // Frame width
	Height      int         // Frame height
	FPS         int         // Target framerate
	BitrateBps  int64       // Target bitrate in bits per second
	PixelFormat PixelFormat // Input pixel format (PixelFormatNone = YUV420P)

	MaxBitrateBps    int64           // Maximum bitrate (0 = no limit)
	KeyframeInterval int             // GOP size in frames (0 = codec default)
	MaxBFrames       int             // B-frames between references (-1 = codec default)
	RateControlMode  RateControlMode // Rate control mode
	Threads          int             // Encoder threads (0 = auto)
	Quality          int             // Quality for RateControlCQ (codec-specific scale)
	GlobalHeader     bool            // Put SPS/PPS in extradata (MP4, MKV, FLV)

	// Codec-specific options
	H264Profile H264Profile // H.264 profile
}

// DefaultVideoEncoderConfig returns a default encoder configuration.
func DefaultVideoEncoderConfig(codec CodecID, width, height int) VideoEncoderConfig {
	return VideoEncoderConfig{
		Codec:           codec,
		Width:           width,
		Height:          height,
		FPS:             30,
		BitrateBps:      1500000, // 1.5 Mbps
		PixelFormat:     PixelFormatYUV420P,
		MaxBFrames:      -1,
		RateControlMode: RateControlVBR,
		Threads:         0, // Auto
		Quality:         23,
	}
}

// AudioEncoderConfig configures an audio encoder.
type AudioEncoderConfig struct {
	Codec   CodecID // Codec to encode to
	Encoder string  // Encoder name ("libopus"); empty picks the preferred one

	SampleRate   int           // Sample rate (e.g., 48000)
	Layout       ChannelLayout // Channel layout
	SampleFormat SampleFormat  // Sample format (SampleFormatNone = first supported)
	BitrateBps   int64         // Target bitrate in bps
	GlobalHeader bool          // Put codec setup in extradata
}

// DefaultAudioEncoderConfig returns a default audio encoder configuration.
func DefaultAudioEncoderConfig(codec CodecID) AudioEncoderConfig {
	cfg := AudioEncoderConfig{
		Codec:        codec,
		SampleRate:   48000,
		Layout:       ChannelLayoutStereo,
		SampleFormat: SampleFormatFLTP,
		BitrateBps:   128000,
	}
	if codec == CodecIDOpus {
		cfg.BitrateBps = 64000
	}
	return cfg
}

// EncoderStats provides encoding metrics.
type EncoderStats struct {
	FramesEncoded     uint64  `json:"frames_encoded"`    // Frames sent to the encoder
	PacketsEncoded    uint64  `json:"packets_encoded"`   // Packets received from the encoder
	KeyframesEncoded  uint64  `json:"keyframes_encoded"` // Packets flagged as keyframes
	BytesEncoded      uint64  `json:"bytes_encoded"`     // Total bytes of encoded data
	AverageBitrateBps int64   `json:"average_bitrate_bps"`
	AverageFPS        float64 `json:"average_fps"`      // Frames per wall-clock second
	EncodingTimeUs    uint64  `json:"encoding_time_us"` // Time spent inside send/receive
}

// Encoder turns frames into packets with the send/receive model.
type Encoder struct {
	*CodecContext
	codec  *Codec
	opened bool

	stats    EncoderStats
	firstPTS int64
	lastPTS  int64
}

// NewEncoder allocates an encoder context with defaults for codec.
func NewEncoder(codec *Codec) (*Encoder, error) {
	if codec != nil && !codec.IsEncoder() {
		return nil, fmt.Errorf("%s is not an encoder: %w", codec.Name(), ErrEncoderNotFound)
	}
	ctx, err := NewCodecContext(codec)
	if err != nil {
		return nil, err
	}
	return &Encoder{CodecContext: ctx, codec: codec, firstPTS: NoPTS, lastPTS: NoPTS}, nil
}

// Video makes the encoder a video encoder. It fails with ErrInvalidData if
// the context already has another media type.
func (e *Encoder) Video() error { return e.promote(MediaTypeVideo) }

// Audio makes the encoder an audio encoder.
func (e *Encoder) Audio() error { return e.promote(MediaTypeAudio) }

// Subtitle makes the encoder a subtitle encoder.
func (e *Encoder) Subtitle() error { return e.promote(MediaTypeSubtitle) }

// Open opens the encoder. Entries of opts that were not consumed are left
// in opts.
func (e *Encoder) Open(opts *Dictionary) error {
	if e.opened {
		return nil
	}
	codec := e.codec
	if codec == nil {
		var err error
		if codec, err = preferredEncoder(e.CodecID()); err != nil {
			return err
		}
	}
	if err := e.open(codec, opts); err != nil {
		return err
	}
	e.codec = codec
	e.opened = true
	logger().Debug("encoder opened", "codec", codec.Name(), "context", e.CodecContext.String())
	return nil
}

// IsOpen reports whether Open succeeded.
func (e *Encoder) IsOpen() bool { return e.opened }

// SendFrame feeds a raw frame. A nil frame starts draining.
func (e *Encoder) SendFrame(frame *Frame) error {
	if e.CodecContext == nil || e.p == nil {
		return ErrClosed
	}
	start := time.Now()
	var fp unsafe.Pointer
	if frame != nil {
		fp = frame.p
	}
	err := newError(avcodecSendFrame(e.p, fp), "avcodec_send_frame")
	e.stats.EncodingTimeUs += uint64(time.Since(start).Microseconds())
	if err == nil && frame != nil {
		e.stats.FramesEncoded++
	}
	return err
}

// SendEOF signals the end of the input.
func (e *Encoder) SendEOF() error {
	return e.SendFrame(nil)
}

// ReceivePacket returns the next encoded packet into pkt. It returns
// ErrAgain when more frames are needed and ErrEOF once drained.
func (e *Encoder) ReceivePacket(pkt *Packet) error {
	if e.CodecContext == nil || e.p == nil {
		return ErrClosed
	}
	start := time.Now()
	err := newError(avcodecReceivePacket(e.p, pkt.p), "avcodec_receive_packet")
	e.stats.EncodingTimeUs += uint64(time.Since(start).Microseconds())
	if err == nil {
		e.account(pkt)
	}
	return err
}

func (e *Encoder) account(pkt *Packet) {
	e.stats.PacketsEncoded++
	e.stats.BytesEncoded += uint64(pkt.Size())
	if pkt.IsKey() {
		e.stats.KeyframesEncoded++
	}
	if pts := pkt.PTS(); pts != NoPTS {
		if e.firstPTS == NoPTS || pts < e.firstPTS {
			e.firstPTS = pts
		}
		if end := pts + pkt.Duration(); end > e.lastPTS {
			e.lastPTS = end
		}
	}
}

// Stats returns encoding statistics collected so far.
func (e *Encoder) Stats() EncoderStats {
	s := e.stats
	if e.firstPTS != NoPTS && e.lastPTS > e.firstPTS {
		secs := float64(e.lastPTS-e.firstPTS) * e.TimeBase().Float64()
		if secs > 0 {
			s.AverageBitrateBps = int64(float64(s.BytesEncoded*8) / secs)
		}
	}
	if s.EncodingTimeUs > 0 {
		s.AverageFPS = float64(s.FramesEncoded) / (float64(s.EncodingTimeUs) / 1e6)
	}
	return s
}

func (e *Encoder) SetMaxBitRate(b int64) { e.setInt("maxrate", b) }
func (e *Encoder) SetTolerance(t int)    { e.setInt("bt", int64(t)) }
func (e *Encoder) SetQuality(q int)      { e.setInt("global_quality", int64(q)) }

// SetCompression sets the compression level. nil restores the codec
// default.
func (e *Encoder) SetCompression(level *int) {
	v := int64(-1)
	if level != nil {
		v = int64(*level)
	}
	e.setInt("compression_level", v)
}

// SetRateControl applies a rate control mode around the current bit rate.
// Quality is only used by RateControlCQ.
func (e *Encoder) SetRateControl(mode RateControlMode, quality int) {
	switch mode {
	case RateControlCBR:
		b := e.BitRate()
		e.setInt("minrate", b)
		e.setInt("maxrate", b)
		e.setInt("bufsize", b)
	case RateControlCQ:
		// crf is private to x264/x265/libvpx; qscale covers the rest.
		if err := e.SetOption("crf", fmt.Sprint(quality)); err != nil {
			e.AddFlags(CodecFlagQScale)
			e.SetQuality(quality * 118) // FF_QP2LAMBDA
		}
	}
}

// Codec returns the encoder implementation, once known.
func (e *Encoder) Codec() *Codec {
	if e.codec != nil {
		return e.codec
	}
	return e.CodecContext.Codec()
}

// Free closes the encoder and releases its context.
func (e *Encoder) Free() {
	if e == nil {
		return
	}
	e.CodecContext.Free()
	e.opened = false
}

// NewVideoEncoder builds and opens a video encoder from cfg.
func NewVideoEncoder(cfg VideoEncoderConfig) (*Encoder, error) {
	codec, err := resolveEncoder(cfg.Codec, cfg.Encoder)
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.FPS <= 0 {
		return nil, fmt.Errorf("%w: video encoder needs size and frame rate, got %dx%d@%d",
			ErrInvalidArgument, cfg.Width, cfg.Height, cfg.FPS)
	}
	e, err := NewEncoder(codec)
	if err != nil {
		return nil, err
	}
	if err := e.Video(); err != nil {
		e.Free()
		return nil, err
	}
	pf := cfg.PixelFormat
	if pf == PixelFormatNone {
		pf = PixelFormatYUV420P
	}
	e.SetSize(cfg.Width, cfg.Height)
	e.SetPixelFormat(pf)
	e.SetTimeBase(NewRational(1, cfg.FPS))
	e.SetFrameRate(NewRational(cfg.FPS, 1))
	e.SetBitRate(cfg.BitrateBps)
	if cfg.MaxBitrateBps > 0 {
		e.SetMaxBitRate(cfg.MaxBitrateBps)
	}
	if cfg.KeyframeInterval > 0 {
		e.SetGopSize(cfg.KeyframeInterval)
	}
	if cfg.MaxBFrames >= 0 {
		e.SetMaxBFrames(cfg.MaxBFrames)
	}
	e.SetThreading(Threading{Kind: ThreadFrame | ThreadSlice, Count: cfg.Threads})
	if cfg.H264Profile != 0 && cfg.Codec == CodecIDH264 {
		e.SetProfile(int(cfg.H264Profile))
	}
	if cfg.GlobalHeader {
		e.AddFlags(CodecFlagGlobalHeader)
	}
	e.SetRateControl(cfg.RateControlMode, cfg.Quality)
	if err := e.Open(nil); err != nil {
		e.Free()
		return nil, err
	}
	return e, nil
}

// NewAudioEncoder builds and opens an audio encoder from cfg.
func NewAudioEncoder(cfg AudioEncoderConfig) (*Encoder, error) {
	codec, err := resolveEncoder(cfg.Codec, cfg.Encoder)
	if err != nil {
		return nil, err
	}
	if cfg.SampleRate <= 0 || cfg.Layout.Channels <= 0 {
		return nil, fmt.Errorf("%w: audio encoder needs sample rate and channels", ErrInvalidArgument)
	}
	e, err := NewEncoder(codec)
	if err != nil {
		return nil, err
	}
	if err := e.Audio(); err != nil {
		e.Free()
		return nil, err
	}
	sf := cfg.SampleFormat
	if sf == SampleFormatNone {
		sf = SampleFormatFLTP
	}
	e.SetSampleFormat(sf)
	e.SetSampleRate(cfg.SampleRate)
	e.SetChannelLayout(cfg.Layout)
	e.SetTimeBase(NewRational(1, cfg.SampleRate))
	e.SetBitRate(cfg.BitrateBps)
	if cfg.GlobalHeader {
		e.AddFlags(CodecFlagGlobalHeader)
	}
	if err := e.Open(nil); err != nil {
		e.Free()
		return nil, err
	}
	return e, nil
}

// --- Registry ---

// encoderRegistry keeps an ordered list of preferred encoder names per
// codec. The first one compiled into libavcodec wins; when none is,
// avcodec_find_encoder decides.
type encoderRegistry struct {
	mu    sync.RWMutex
	names map[CodecID][]string
}

var globalEncoderRegistry = &encoderRegistry{
	names: map[CodecID][]string{
		CodecIDH264: {"libx264", "libopenh264", "h264_videotoolbox"},
		CodecIDHEVC: {"libx265", "hevc_videotoolbox"},
		CodecIDVP8:  {"libvpx"},
		CodecIDVP9:  {"libvpx-vp9"},
		CodecIDAV1:  {"libsvtav1", "libaom-av1", "librav1e"},
		CodecIDOpus: {"libopus", "opus"},
		CodecIDAAC:  {"libfdk_aac", "aac"},
		CodecIDMP3:  {"libmp3lame"},
	},
}

// SetDefaultEncoder puts name first in the preference list for id.
func SetDefaultEncoder(id CodecID, name string) {
	globalEncoderRegistry.mu.Lock()
	defer globalEncoderRegistry.mu.Unlock()
	names := []string{name}
	for _, n := range globalEncoderRegistry.names[id] {
		if n != name {
			names = append(names, n)
		}
	}
	globalEncoderRegistry.names[id] = names
}

// EncoderPreferences returns the preference list for id.
func EncoderPreferences(id CodecID) []string {
	globalEncoderRegistry.mu.RLock()
	defer globalEncoderRegistry.mu.RUnlock()
	return append([]string(nil), globalEncoderRegistry.names[id]...)
}

func preferredEncoder(id CodecID) (*Codec, error) {
	for _, name := range EncoderPreferences(id) {
		if c, err := FindEncoderByName(name); err == nil {
			return c, nil
		}
	}
	return FindEncoder(id)
}

func resolveEncoder(id CodecID, name string) (*Codec, error) {
	if name == "" {
		return preferredEncoder(id)
	}
	c, err := FindEncoderByName(name)
	if err != nil {
		return nil, err
	}
	if id != CodecIDNone && c.ID() != id {
		return nil, fmt.Errorf("encoder %s produces %s, not %s: %w", name, c.ID(), id, ErrEncoderNotFound)
	}
	return c, nil
}

// drainEncoder collects every packet the encoder can produce right now.
func drainEncoder(e *Encoder, fn func(*Packet) error) error {
	pkt, err := NewPacket()
	if err != nil {
		return err
	}
	defer pkt.Free()
	for {
		err := e.ReceivePacket(pkt)
		if isAgainOrEOF(err) {
			return nil
		}
		if err != nil {
			return err
		}
		err = fn(pkt)
		pkt.Unref()
		if err != nil {
			return err
		}
	}
}

// Encode sends frame (nil to flush) and hands every resulting packet to fn.
// Packets passed to fn are only valid during the call.
func (e *Encoder) Encode(frame *Frame, fn func(*Packet) error) error {
	if err := e.SendFrame(frame); err != nil && !(frame == nil && errors.Is(err, ErrEOF)) {
		return err
	}
	return drainEncoder(e, fn)
}
