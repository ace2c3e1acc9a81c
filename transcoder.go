package ffmpeg

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// VariantConfig describes one output of a Transcoder.
type VariantConfig struct {
	// ID uniquely identifies the variant ("720p", "low").
	ID string

	// Encoder settings. Zero Width and Height keep the input size; otherwise
	// they bound the picture according to ScaleMode.
	VideoEncoderConfig

	ScaleMode  ScaleMode
	ScaleFlags ScaleFlags // zero means ScaleBicubic

	// Filter is a filter chain run before scaling, e.g. "hflip,eq=gamma=1.2".
	Filter string

	// Passthrough forwards the input packets without decoding or encoding.
	Passthrough bool
}

// TranscoderConfig configures a Transcoder.
type TranscoderConfig struct {
	// Input describes the compressed video stream, usually Stream.Parameters.
	Input *CodecParameters
	// InputTimeBase is the time base of the packets passed to Transcode.
	InputTimeBase Rational

	Outputs []VariantConfig

	DecoderThreads int // 0 lets FFmpeg decide
}

// SimulcastPreset returns three variants of codec at 1080p, 720p and 360p.
func SimulcastPreset(codec CodecID, baseBitrate int64) []VariantConfig {
	variant := func(id string, w, h int, bitrate int64) VariantConfig {
		v := VariantConfig{ID: id, VideoEncoderConfig: DefaultVideoEncoderConfig(codec, w, h)}
		v.BitrateBps = bitrate
		return v
	}
	return []VariantConfig{
		variant("high", 1920, 1080, baseBitrate),
		variant("medium", 1280, 720, baseBitrate/2),
		variant("low", 640, 360, baseBitrate/4),
	}
}

// VariantPacket is one packet produced for a variant.
type VariantPacket struct {
	VariantID string
	// Packet is only valid during the callback.
	Packet *Packet
	// TimeBase is the time base of the packet timestamps.
	TimeBase Rational
}

// Transcoder decodes one video stream and re-encodes it into one or more
// variants. The decoder is shared; every variant has its own scaling stage
// and encoder, and variants are encoded in parallel.
type Transcoder struct {
	mu      sync.Mutex // held while transcoding
	cfg     TranscoderConfig
	decoder *Decoder
	frame   *Frame
	closed  bool

	vmu      sync.RWMutex
	variants []*variant
}

type variant struct {
	cfg         VariantConfig
	encoder     *Encoder
	stage       videoStage
	in          *Frame
	lastPTS     int64
	keyframe    atomic.Bool
	passthrough bool

	// Packets produced by the last encode, released after delivery.
	out []*Packet
}

// NewTranscoder opens the decoder and every variant encoder.
func NewTranscoder(cfg TranscoderConfig) (*Transcoder, error) {
	if cfg.Input == nil {
		return nil, fmt.Errorf("%w: transcoder needs input parameters", ErrInvalidArgument)
	}
	if len(cfg.Outputs) == 0 {
		return nil, fmt.Errorf("%w: at least one output variant required", ErrInvalidArgument)
	}
	if !cfg.InputTimeBase.Valid() {
		return nil, fmt.Errorf("%w: input time base %s", ErrInvalidArgument, cfg.InputTimeBase)
	}
	seen := make(map[string]bool, len(cfg.Outputs))
	for _, o := range cfg.Outputs {
		if o.ID == "" || seen[o.ID] {
			return nil, fmt.Errorf("%w: variant IDs must be unique and non-empty, got %q", ErrInvalidArgument, o.ID)
		}
		seen[o.ID] = true
	}

	t := &Transcoder{cfg: cfg}
	if err := t.open(); err != nil {
		t.Close()
		return nil, err
	}
	return t, nil
}

func (t *Transcoder) open() error {
	for _, o := range t.cfg.Outputs {
		v, err := t.newVariant(o)
		if err != nil {
			return err
		}
		t.variants = append(t.variants, v)
	}
	return t.openDecoder()
}

func (t *Transcoder) newVariant(o VariantConfig) (*variant, error) {
	v := &variant{cfg: o, lastPTS: NoPTS, passthrough: o.Passthrough}
	if v.passthrough {
		return v, nil
	}

	inW, inH := t.cfg.Input.Width(), t.cfg.Input.Height()
	ec := o.VideoEncoderConfig
	switch {
	case ec.Width == 0 && ec.Height == 0:
		ec.Width, ec.Height = inW, inH
	case o.ScaleMode == ScaleModeFit && inW > 0 && inH > 0:
		ec.Width, ec.Height = CalculateScaledSize(inW, inH, ec.Width, ec.Height, ScaleModeFit)
	}
	if ec.FPS == 0 {
		ec.FPS = 30
	}
	enc, err := NewVideoEncoder(ec)
	if err != nil {
		return nil, fmt.Errorf("variant %s: %w", o.ID, err)
	}
	v.encoder = enc
	if v.in, err = NewFrame(); err != nil {
		v.free()
		return nil, err
	}
	return v, nil
}

// openDecoder opens the shared decoder once a variant needs decoded
// pictures.
func (t *Transcoder) openDecoder() error {
	if t.decoder != nil || !slices.ContainsFunc(t.variants, func(v *variant) bool { return !v.passthrough }) {
		return nil
	}
	var opts *Dictionary
	if t.cfg.DecoderThreads > 0 {
		opts = NewDictionary("threads", strconv.Itoa(t.cfg.DecoderThreads))
	}
	dec, err := NewVideoDecoder(t.cfg.Input, opts)
	if err != nil {
		return err
	}
	dec.SetPacketTimeBase(t.cfg.InputTimeBase)
	frame, err := NewFrame()
	if err != nil {
		dec.Free()
		return err
	}
	t.decoder, t.frame = dec, frame
	return nil
}

// AddVariant starts a new output while the transcoder runs. The first
// picture it encodes is a keyframe. A decoder opened for it starts at the
// next keyframe of the input, which callers usually request from the
// source. It must not be called from the Transcode callback.
func (t *Transcoder) AddVariant(o VariantConfig) error {
	if o.ID == "" {
		return fmt.Errorf("%w: empty variant ID", ErrInvalidArgument)
	}
	if t.variant(o.ID) != nil {
		return fmt.Errorf("%w: variant %q already exists", ErrInvalidArgument, o.ID)
	}
	// The encoder is opened before taking the lock so running variants
	// are not held up.
	v, err := t.newVariant(o)
	if err != nil {
		return err
	}
	v.keyframe.Store(true)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		v.free()
		return ErrClosed
	}
	t.vmu.Lock()
	if t.lookup(o.ID) != nil {
		t.vmu.Unlock()
		v.free()
		return fmt.Errorf("%w: variant %q already exists", ErrInvalidArgument, o.ID)
	}
	t.variants = append(t.variants, v)
	t.vmu.Unlock()

	if err := t.openDecoder(); err != nil {
		t.remove(o.ID)
		return err
	}
	logger().Debug("transcoder variant added", "variant", o.ID, "passthrough", o.Passthrough)
	return nil
}

// RemoveVariant stops variant id and releases its encoder. It must not be
// called from the Transcode callback.
func (t *Transcoder) RemoveVariant(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	if !t.remove(id) {
		return fmt.Errorf("%w: unknown variant %q", ErrInvalidArgument, id)
	}
	logger().Debug("transcoder variant removed", "variant", id)
	return nil
}

// remove drops variant id. The caller holds t.mu.
func (t *Transcoder) remove(id string) bool {
	t.vmu.Lock()
	i := slices.IndexFunc(t.variants, func(v *variant) bool { return v.cfg.ID == id })
	if i < 0 {
		t.vmu.Unlock()
		return false
	}
	v := t.variants[i]
	t.variants = slices.Delete(t.variants, i, i+1)
	t.vmu.Unlock()
	v.free()
	return true
}

// Variants returns the variant IDs in the order they were added.
func (t *Transcoder) Variants() []string {
	t.vmu.RLock()
	defer t.vmu.RUnlock()
	ids := make([]string, len(t.variants))
	for i, v := range t.variants {
		ids[i] = v.cfg.ID
	}
	return ids
}

// Encoder returns the encoder of a variant, nil for passthrough variants
// and unknown IDs. Its Parameters describe the output stream. It is only
// valid until the variant is removed.
func (t *Transcoder) Encoder(id string) *Encoder {
	if v := t.variant(id); v != nil {
		return v.encoder
	}
	return nil
}

// OutputTimeBase returns the time base of the packets of variant id.
func (t *Transcoder) OutputTimeBase(id string) Rational {
	v := t.variant(id)
	switch {
	case v == nil:
		return Rational{}
	case v.passthrough:
		return t.cfg.InputTimeBase
	}
	return v.encoder.TimeBase()
}

func (t *Transcoder) variant(id string) *variant {
	t.vmu.RLock()
	defer t.vmu.RUnlock()
	return t.lookup(id)
}

func (t *Transcoder) lookup(id string) *variant {
	for _, v := range t.variants {
		if v.cfg.ID == id {
			return v
		}
	}
	return nil
}

// RequestKeyframe makes the next picture of variant id a keyframe. An
// empty id selects every variant.
func (t *Transcoder) RequestKeyframe(id string) {
	t.vmu.RLock()
	defer t.vmu.RUnlock()
	for _, v := range t.variants {
		if id == "" || v.cfg.ID == id {
			v.keyframe.Store(true)
		}
	}
}

// Transcode decodes pkt and hands the packets every variant produces to fn.
// Passthrough variants get pkt first, then the encoded variants follow in
// configuration order. A nil pkt drains the decoder and the encoders.
func (t *Transcoder) Transcode(pkt *Packet, fn func(VariantPacket) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	t.vmu.RLock()
	vs := slices.Clone(t.variants)
	t.vmu.RUnlock()

	if pkt != nil {
		for _, v := range vs {
			if v.passthrough {
				if err := fn(VariantPacket{VariantID: v.cfg.ID, Packet: pkt, TimeBase: t.cfg.InputTimeBase}); err != nil {
					return err
				}
			}
		}
	}
	if t.decoder == nil {
		return nil
	}

	var err error
	if pkt != nil {
		err = t.decoder.SendPacket(pkt)
	} else {
		err = t.decoder.SendEOF()
	}
	if err != nil && !isAgainOrEOF(err) {
		return fmt.Errorf("decode: %w", err)
	}
	for {
		err := t.decoder.ReceiveFrame(t.frame)
		if isAgainOrEOF(err) {
			break
		}
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		if t.frame.TimeBase().IsZero() {
			t.frame.SetTimeBase(t.cfg.InputTimeBase)
		}
		err = t.encodeAll(vs, t.frame, fn)
		t.frame.Unref()
		if err != nil {
			return err
		}
	}
	if pkt == nil {
		return t.encodeAll(vs, nil, fn)
	}
	return nil
}

// encodeAll runs frame (nil to flush) through every encoding variant in
// parallel, then delivers the packets sequentially.
func (t *Transcoder) encodeAll(vs []*variant, frame *Frame, fn func(VariantPacket) error) error {
	var (
		wg   sync.WaitGroup
		errs = make([]error, len(vs))
	)
	for i, v := range vs {
		if v.passthrough {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = v.encode(frame, t.cfg.InputTimeBase)
		}()
	}
	wg.Wait()

	var firstErr error
	for i, v := range vs {
		if v.passthrough {
			continue
		}
		if errs[i] != nil && firstErr == nil {
			firstErr = fmt.Errorf("variant %s: %w", v.cfg.ID, errs[i])
		}
		tb := v.encoder.TimeBase()
		for _, p := range v.out {
			if firstErr == nil {
				firstErr = fn(VariantPacket{VariantID: v.cfg.ID, Packet: p, TimeBase: tb})
			}
			p.Free()
		}
		v.out = v.out[:0]
	}
	return firstErr
}

func (v *variant) encode(frame *Frame, inTB Rational) error {
	collect := func(p *Packet) error {
		c, err := p.Clone()
		if err != nil {
			return err
		}
		v.out = append(v.out, c)
		return nil
	}
	if frame == nil {
		if v.stage != nil {
			if err := v.stage.flush(func(f *Frame) error { return v.send(f, f.TimeBase(), collect) }); err != nil {
				return err
			}
		}
		return v.encoder.Encode(nil, collect)
	}

	if err := v.prepare(frame); err != nil {
		return err
	}
	if v.stage == nil {
		v.in.Unref()
		if err := v.in.Ref(frame); err != nil {
			return err
		}
		return v.send(v.in, inTB, collect)
	}
	return v.stage.apply(frame, func(f *Frame) error { return v.send(f, f.TimeBase(), collect) })
}

// send rescales the picture timestamp into the encoder time base and
// encodes it. Pictures that would not advance the timestamp are dropped.
func (v *variant) send(f *Frame, tb Rational, collect func(*Packet) error) error {
	pts := f.BestEffortTimestamp()
	if pts == NoPTS {
		pts = f.PTS()
	}
	if pts != NoPTS && tb.Valid() {
		pts = Rescale(pts, tb, v.encoder.TimeBase())
	}
	if pts == NoPTS {
		pts = v.lastPTS + 1
		if v.lastPTS == NoPTS {
			pts = 0
		}
	}
	if v.lastPTS != NoPTS && pts <= v.lastPTS {
		return nil
	}
	v.lastPTS = pts
	f.SetPTS(pts)
	f.SetPictureType(PictureTypeNone)
	if v.keyframe.CompareAndSwap(true, false) {
		f.SetPictureType(PictureTypeI)
	}
	return v.encoder.Encode(f, collect)
}

// prepare picks the stage that turns decoded pictures into what the
// encoder takes, rebuilding it when the input changes.
func (v *variant) prepare(f *Frame) error {
	want := videoShape{v.encoder.Width(), v.encoder.Height(), v.encoder.PixelFormat()}
	have := videoShape{f.Width(), f.Height(), f.PixelFormat()}
	if v.stage != nil && v.stage.accepts(have) {
		return nil
	}
	if v.stage != nil {
		v.stage.free()
		v.stage = nil
	}

	c := v.cfg
	switch {
	case c.Filter != "" || (c.ScaleMode == ScaleModeFill && have != want):
		var chain []string
		if c.Filter != "" {
			chain = append(chain, c.Filter)
		}
		chain = append(chain, ScaleFilterSpec(have.width, have.height, want.width, want.height, c.ScaleMode))
		if c.ScaleFlags != 0 {
			chain[len(chain)-1] += ":flags=" + c.ScaleFlags.String()
		}
		chain = append(chain, "format="+want.format.String())
		st, err := newGraphStage(strings.Join(chain, ","), have, f)
		if err != nil {
			return err
		}
		v.stage = st
	case have != want:
		st, err := newScaleStage(have, want, c.ScaleFlags)
		if err != nil {
			return err
		}
		v.stage = st
	}
	if v.stage != nil {
		logger().Debug("transcoder stage", "variant", c.ID, "from", have, "to", want)
	}
	return nil
}

func (v *variant) free() {
	if v.stage != nil {
		v.stage.free()
	}
	v.encoder.Free()
	v.in.Free()
	for _, p := range v.out {
		p.Free()
	}
	v.out = nil
}

// Close releases the decoder and every encoder. It is safe to call more
// than once.
func (t *Transcoder) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	t.vmu.Lock()
	for _, v := range t.variants {
		v.free()
	}
	t.variants = nil
	t.vmu.Unlock()
	t.decoder.Free()
	t.frame.Free()
	return nil
}

type videoShape struct {
	width, height int
	format        PixelFormat
}

func (s videoShape) String() string { return fmt.Sprintf("%dx%d %s", s.width, s.height, s.format) }

// videoStage converts decoded pictures for an encoder.
type videoStage interface {
	accepts(in videoShape) bool
	apply(in *Frame, fn func(*Frame) error) error
	flush(fn func(*Frame) error) error
	free()
}

type scaleStage struct {
	in     videoShape
	scaler *Scaler
	out    *Frame
}

func newScaleStage(in, out videoShape, flags ScaleFlags) (*scaleStage, error) {
	s, err := NewScaler(ScalerConfig{
		SrcWidth: in.width, SrcHeight: in.height, SrcFormat: in.format,
		DstWidth: out.width, DstHeight: out.height, DstFormat: out.format,
		Flags: flags,
	})
	if err != nil {
		return nil, err
	}
	f, err := NewFrame()
	if err != nil {
		s.Free()
		return nil, err
	}
	return &scaleStage{in: in, scaler: s, out: f}, nil
}

func (s *scaleStage) accepts(in videoShape) bool { return in == s.in }

func (s *scaleStage) apply(in *Frame, fn func(*Frame) error) error {
	// The encoder may still reference the previous buffers.
	s.out.Unref()
	if err := s.scaler.Scale(s.out, in); err != nil {
		return err
	}
	return fn(s.out)
}

func (s *scaleStage) flush(func(*Frame) error) error { return nil }

func (s *scaleStage) free() {
	s.scaler.Free()
	s.out.Free()
}

type graphStage struct {
	in        videoShape
	timeBase  Rational
	graph     *FilterGraph
	src, sink *FilterContext
	out       *Frame
}

func newGraphStage(spec string, in videoShape, sample *Frame) (*graphStage, error) {
	g, err := NewFilterGraph()
	if err != nil {
		return nil, err
	}
	st := &graphStage{in: in, timeBase: sample.TimeBase(), graph: g}
	if err := st.build(spec, sample); err != nil {
		st.free()
		return nil, err
	}
	return st, nil
}

func (s *graphStage) build(spec string, sample *Frame) error {
	var err error
	s.src, err = s.graph.AddVideoBufferSource(VideoSourceArgs{
		Width:       s.in.width,
		Height:      s.in.height,
		PixelFormat: s.in.format,
		TimeBase:    s.timeBase,
		AspectRatio: sample.SampleAspectRatio(),
	})
	if err != nil {
		return err
	}
	if s.sink, err = s.graph.AddBufferSink(MediaTypeVideo); err != nil {
		return err
	}
	if err := s.graph.ParseSimple(spec, s.src, s.sink); err != nil {
		return err
	}
	if err := s.graph.Configure(); err != nil {
		return err
	}
	s.out, err = NewFrame()
	return err
}

func (s *graphStage) accepts(in videoShape) bool { return in == s.in }

func (s *graphStage) apply(in *Frame, fn func(*Frame) error) error {
	if err := s.src.PushFrame(in); err != nil {
		return err
	}
	return s.drain(fn)
}

func (s *graphStage) flush(fn func(*Frame) error) error {
	if err := s.src.PushFrame(nil); err != nil && !errors.Is(err, ErrEOF) {
		return err
	}
	return s.drain(fn)
}

func (s *graphStage) drain(fn func(*Frame) error) error {
	for {
		err := s.sink.PullFrame(s.out)
		if isAgainOrEOF(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if s.out.TimeBase().IsZero() {
			s.out.SetTimeBase(s.timeBase)
		}
		err = fn(s.out)
		s.out.Unref()
		if err != nil {
			return err
		}
	}
}

func (s *graphStage) free() {
	s.graph.Free()
	s.out.Free()
}
