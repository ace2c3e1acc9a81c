package ffmpeg

import (
	"fmt"
	"iter"
	"strings"
	"unsafe"
)

// CodecID identifies a codec (AVCodecID). Only common ids are named here;
// any value returned by the libraries is valid.
type CodecID int32

const (
	CodecIDNone       CodecID = 0
	CodecIDMPEG1Video CodecID = 1
	CodecIDMPEG2Video CodecID = 2
	CodecIDH263       CodecID = 4
	CodecIDMJPEG      CodecID = 7
	CodecIDMPEG4      CodecID = 12
	CodecIDRawVideo   CodecID = 13
	CodecIDFLV1       CodecID = 21
	CodecIDH264       CodecID = 27
	CodecIDTheora     CodecID = 30
	CodecIDFFV1       CodecID = 33
	CodecIDPNG        CodecID = 61
	CodecIDVP8        CodecID = 139
	CodecIDProRes     CodecID = 147
	CodecIDVP9        CodecID = 167
	CodecIDHEVC       CodecID = 173
	CodecIDAV1        CodecID = 226

	CodecIDPCMS16LE CodecID = 0x10000
	CodecIDPCMS16BE CodecID = 0x10001
	CodecIDPCMU8    CodecID = 0x10005
	CodecIDPCMMulaw CodecID = 0x10006
	CodecIDPCMAlaw  CodecID = 0x10007

	CodecIDMP2    CodecID = 0x15000
	CodecIDMP3    CodecID = 0x15001
	CodecIDAAC    CodecID = 0x15002
	CodecIDAC3    CodecID = 0x15003
	CodecIDDTS    CodecID = 0x15004
	CodecIDVorbis CodecID = 0x15005
	CodecIDFLAC   CodecID = 0x1500C
	CodecIDALAC   CodecID = 0x15010
	CodecIDEAC3   CodecID = 0x15028
	CodecIDOpus   CodecID = 0x1503C

	CodecIDDVDSubtitle CodecID = 0x17000
	CodecIDDVBSubtitle CodecID = 0x17001
	CodecIDText        CodecID = 0x17002
	CodecIDMovText     CodecID = 0x17005
	CodecIDPGS         CodecID = 0x17006
	CodecIDSubRip      CodecID = 0x17808
	CodecIDWebVTT      CodecID = 0x17809
	CodecIDASS         CodecID = 0x1780D

	codecIDFirstAudio    CodecID = 0x10000
	codecIDFirstSubtitle CodecID = 0x17000
	codecIDFirstUnknown  CodecID = 0x18000
)

var codecIDNames = map[CodecID]string{
	CodecIDNone:        "none",
	CodecIDMPEG1Video:  "mpeg1video",
	CodecIDMPEG2Video:  "mpeg2video",
	CodecIDH263:        "h263",
	CodecIDMJPEG:       "mjpeg",
	CodecIDMPEG4:       "mpeg4",
	CodecIDRawVideo:    "rawvideo",
	CodecIDFLV1:        "flv1",
	CodecIDH264:        "h264",
	CodecIDTheora:      "theora",
	CodecIDFFV1:        "ffv1",
	CodecIDPNG:         "png",
	CodecIDVP8:         "vp8",
	CodecIDProRes:      "prores",
	CodecIDVP9:         "vp9",
	CodecIDHEVC:        "hevc",
	CodecIDAV1:         "av1",
	CodecIDPCMS16LE:    "pcm_s16le",
	CodecIDPCMS16BE:    "pcm_s16be",
	CodecIDPCMU8:       "pcm_u8",
	CodecIDPCMMulaw:    "pcm_mulaw",
	CodecIDPCMAlaw:     "pcm_alaw",
	CodecIDMP2:         "mp2",
	CodecIDMP3:         "mp3",
	CodecIDAAC:         "aac",
	CodecIDAC3:         "ac3",
	CodecIDDTS:         "dts",
	CodecIDVorbis:      "vorbis",
	CodecIDFLAC:        "flac",
	CodecIDALAC:        "alac",
	CodecIDEAC3:        "eac3",
	CodecIDOpus:        "opus",
	CodecIDDVDSubtitle: "dvd_subtitle",
	CodecIDDVBSubtitle: "dvb_subtitle",
	CodecIDText:        "text",
	CodecIDMovText:     "mov_text",
	CodecIDPGS:         "hdmv_pgs_subtitle",
	CodecIDSubRip:      "subrip",
	CodecIDWebVTT:      "webvtt",
	CodecIDASS:         "ass",
}

// Name returns FFmpeg's short name for the id ("h264").
func (id CodecID) Name() string {
	if LibAVCodec.Available() {
		if name := avcodecGetName(int32(id)); name != "" {
			return name
		}
	}
	if name, ok := codecIDNames[id]; ok {
		return name
	}
	return fmt.Sprintf("unknown_codec_%d", int32(id))
}

func (id CodecID) String() string { return id.Name() }

// ParseCodecID returns the id named name ("h264", "aac"). Encoder and
// decoder names such as "libx264" are accepted when the libraries are
// loaded.
func ParseCodecID(name string) (CodecID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "h265":
		return CodecIDHEVC, nil
	case "avc":
		return CodecIDH264, nil
	}
	for id, n := range codecIDNames {
		if n == name && id != CodecIDNone {
			return id, nil
		}
	}
	if LibAVCodec.Available() {
		if c, err := FindEncoderByName(name); err == nil {
			return c.ID(), nil
		}
		if c, err := FindDecoderByName(name); err == nil {
			return c.ID(), nil
		}
	}
	return CodecIDNone, fmt.Errorf("%w: unknown codec %q", ErrInvalidArgument, name)
}

// MarshalText encodes the short name.
func (id CodecID) MarshalText() ([]byte, error) {
	return []byte(id.Name()), nil
}

// MediaType returns the kind of stream the codec produces.
func (id CodecID) MediaType() MediaType {
	if LibAVCodec.Available() {
		return MediaType(avcodecGetType(int32(id)))
	}
	switch {
	case id == CodecIDNone:
		return MediaTypeUnknown
	case id < codecIDFirstAudio:
		return MediaTypeVideo
	case id < codecIDFirstSubtitle:
		return MediaTypeAudio
	case id < codecIDFirstUnknown:
		return MediaTypeSubtitle
	default:
		return MediaTypeData
	}
}

// MimeType returns the RTP/WebRTC MIME type, or "" if the codec has no
// standard RTP payload format.
func (id CodecID) MimeType() string {
	switch id {
	case CodecIDVP8:
		return "video/VP8"
	case CodecIDVP9:
		return "video/VP9"
	case CodecIDH264:
		return "video/H264"
	case CodecIDHEVC:
		return "video/H265"
	case CodecIDAV1:
		return "video/AV1"
	case CodecIDOpus:
		return "audio/opus"
	case CodecIDPCMAlaw:
		return "audio/PCMA"
	case CodecIDPCMMulaw:
		return "audio/PCMU"
	case CodecIDAAC:
		return "audio/AAC"
	default:
		return ""
	}
}

// ClockRate returns the RTP clock rate for this codec.
func (id CodecID) ClockRate() uint32 {
	switch id {
	case CodecIDPCMAlaw, CodecIDPCMMulaw:
		return 8000
	case CodecIDOpus, CodecIDAAC:
		return 48000
	}
	// All video codecs use 90kHz clock
	return 90000
}

// DefaultPayloadType returns a typical payload type for this codec.
// Note: Actual payload type is negotiated via SDP.
func (id CodecID) DefaultPayloadType() uint8 {
	switch id {
	case CodecIDVP8:
		return 96
	case CodecIDVP9:
		return 98
	case CodecIDH264:
		return 102
	case CodecIDHEVC:
		return 104
	case CodecIDAV1:
		return 35
	case CodecIDOpus:
		return 111
	case CodecIDPCMAlaw:
		return 8 // Static payload type
	case CodecIDPCMMulaw:
		return 0 // Static payload type
	case CodecIDAAC:
		return 97
	default:
		return 96
	}
}

// Capabilities are AV_CODEC_CAP_* bits.
type Capabilities uint32

const (
	CapDrawHorizBand     Capabilities = 1 << 0
	CapDR1               Capabilities = 1 << 1
	CapDelay             Capabilities = 1 << 5
	CapSmallLastFrame    Capabilities = 1 << 6
	CapSubframes         Capabilities = 1 << 8
	CapExperimental      Capabilities = 1 << 9
	CapChannelConf       Capabilities = 1 << 10
	CapFrameThreads      Capabilities = 1 << 12
	CapSliceThreads      Capabilities = 1 << 13
	CapParamChange       Capabilities = 1 << 14
	CapOtherThreads      Capabilities = 1 << 15
	CapVariableFrameSize Capabilities = 1 << 16
	CapAvoidProbing      Capabilities = 1 << 17
	CapHardware          Capabilities = 1 << 18
	CapHybrid            Capabilities = 1 << 19
	CapEncoderFlush      Capabilities = 1 << 21
)

// Codec is a decoder or encoder implementation (AVCodec). Codecs are static
// data owned by the library and never freed.
type Codec struct {
	p unsafe.Pointer
}

func codecFrom(p unsafe.Pointer) *Codec {
	if p == nil {
		return nil
	}
	return &Codec{p: p}
}

// FindDecoder returns the preferred decoder for id, or ErrDecoderNotFound.
func FindDecoder(id CodecID) (*Codec, error) {
	if err := requireLibrary(LibAVCodec); err != nil {
		return nil, err
	}
	if c := codecFrom(avcodecFindDecoder(int32(id))); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%s: %w", id, ErrDecoderNotFound)
}

// FindEncoder returns the preferred encoder for id, or ErrEncoderNotFound.
func FindEncoder(id CodecID) (*Codec, error) {
	if err := requireLibrary(LibAVCodec); err != nil {
		return nil, err
	}
	if c := codecFrom(avcodecFindEncoder(int32(id))); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%s: %w", id, ErrEncoderNotFound)
}

// FindDecoderByName looks a decoder up by name ("h264", "libdav1d").
func FindDecoderByName(name string) (*Codec, error) {
	if err := requireLibrary(LibAVCodec); err != nil {
		return nil, err
	}
	if c := codecFrom(avcodecFindDecoderByName(name)); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrDecoderNotFound)
}

// FindEncoderByName looks an encoder up by name ("libx264", "aac").
func FindEncoderByName(name string) (*Codec, error) {
	if err := requireLibrary(LibAVCodec); err != nil {
		return nil, err
	}
	if c := codecFrom(avcodecFindEncoderByName(name)); c != nil {
		return c, nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrEncoderNotFound)
}

// Codecs iterates over every codec compiled into libavcodec.
func Codecs() iter.Seq[*Codec] {
	return func(yield func(*Codec) bool) {
		if !LibAVCodec.Available() {
			return
		}
		var opaque uintptr
		for {
			p := avCodecIterate(&opaque)
			if p == nil || !yield(&Codec{p: p}) {
				return
			}
		}
	}
}

func (c *Codec) Name() string         { return peekString(c.p, offCodecName) }
func (c *Codec) LongName() string     { return peekString(c.p, offCodecLongName) }
func (c *Codec) MediaType() MediaType { return MediaType(peekInt32(c.p, offCodecType)) }
func (c *Codec) ID() CodecID          { return CodecID(peekInt32(c.p, offCodecID)) }
func (c *Codec) Capabilities() Capabilities {
	return Capabilities(peekUint32(c.p, offCodecCapabilities))
}
func (c *Codec) IsEncoder() bool { return avCodecIsEncoder(c.p) != 0 }
func (c *Codec) IsDecoder() bool { return avCodecIsDecoder(c.p) != 0 }

// IsExperimental reports whether the codec must be enabled with strict=-2.
func (c *Codec) IsExperimental() bool {
	return c.Capabilities()&CapExperimental != 0
}

func (c *Codec) String() string {
	kind := "decoder"
	if c.IsEncoder() {
		kind = "encoder"
	}
	return fmt.Sprintf("%s %s (%s)", kind, c.Name(), strings.TrimSpace(c.LongName()))
}

// H264Profile is an H.264 profile_idc, as used by the "profile" option.
type H264Profile int

const (
	H264ProfileBaseline H264Profile = 66
	H264ProfileMain     H264Profile = 77
	H264ProfileHigh     H264Profile = 100
	H264ProfileHigh444  H264Profile = 244
)

func (p H264Profile) String() string {
	switch p {
	case H264ProfileBaseline:
		return "baseline"
	case H264ProfileMain:
		return "main"
	case H264ProfileHigh:
		return "high"
	case H264ProfileHigh444:
		return "high444"
	default:
		return "Unknown"
	}
}

// RateControlMode selects how an encoder spends bits.
type RateControlMode int

const (
	RateControlVBR RateControlMode = iota // Variable bitrate
	RateControlCBR                        // Constant bitrate
	RateControlCQ                         // Constant quality (CRF)
)

func (r RateControlMode) String() string {
	switch r {
	case RateControlVBR:
		return "VBR"
	case RateControlCBR:
		return "CBR"
	case RateControlCQ:
		return "CQ"
	default:
		return "Unknown"
	}
}
