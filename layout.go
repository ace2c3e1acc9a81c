package ffmpeg

import "unsafe"

// Struct field offsets (LP64). The constants hold for every supported
// release series; AVFrame differs between series and is read through
// frameOff, which the loader sets once checkABI has picked the series.
//
// AVCodecContext is accessed through AVOptions instead; only fields that
// have been stable for many releases are read directly from it.

// AVFormatContext
const (
	offFmtIFormat      = 8
	offFmtOFormat      = 16
	offFmtPB           = 32
	offFmtNbStreams    = 44
	offFmtStreams      = 48
	offFmtNbChapters   = 72
	offFmtChapters     = 80
	offFmtURL          = 88
	offFmtStartTime    = 96
	offFmtDuration     = 104
	offFmtBitRate      = 112
	offFmtFlags        = 128
	offFmtMetadata     = 192
	offFmtInterruptCB  = 216
	offFmtInterruptArg = 224
)

// AVStream
const (
	offStreamIndex        = 8
	offStreamID           = 12
	offStreamCodecPar     = 16
	offStreamTimeBase     = 32
	offStreamStartTime    = 40
	offStreamDuration     = 48
	offStreamNbFrames     = 56
	offStreamDisposition  = 64
	offStreamDiscard      = 68
	offStreamSAR          = 72
	offStreamMetadata     = 80
	offStreamAvgFrameRate = 88
)

// AVCodecParameters
const (
	offParType          = 0
	offParCodecID       = 4
	offParCodecTag      = 8
	offParExtradata     = 16
	offParExtradataSize = 24
	offParFormat        = 44
	offParBitRate       = 48
	offParProfile       = 64
	offParLevel         = 68
	offParWidth         = 72
	offParHeight        = 76
	offParSAR           = 80
	offParChLayout      = 128
	offParSampleRate    = 152
	offParFrameSize     = 160
)

// AVCodecContext (stable prefix). Time base and frame rate are only read
// here when the build does not expose them as options.
const (
	offCtxCodecType = 12
	offCtxCodec     = 16
	offCtxCodecID   = 24
	offCtxTimeBase  = 84
	offCtxFrameRate = 100
)

// AVSubtitle / AVSubtitleRect
const (
	sizeofSubtitle = 32
	offSubFormat   = 0
	offSubStart    = 4
	offSubEnd      = 8
	offSubNumRects = 12
	offSubRects    = 16
	offSubPTS      = 24
	offSubRectType = 76
	offSubRectText = 80
	offSubRectASS  = 88
)

// AVFrame fields common to every series.
const (
	offFrameData        = 0
	offFrameLinesize    = 64
	offFrameExtData     = 96
	offFrameWidth       = 104
	offFrameHeight      = 108
	offFrameNbSamples   = 112
	offFrameFormat      = 116
	offFramePTS         = 136
	offFramePktDTS      = 144
	offFrameTimeBase    = 152
	frameMaxPlanes      = 8
	frameFlagKey        = 1 << 1
	frameFlagCorrupt    = 1 << 0
	frameFlagDiscard    = 1 << 2
	frameFlagInterlaced = 1 << 3
)

// frameLayout holds the AVFrame offsets that moved when FFmpeg 8 removed
// key_frame, interlaced_frame, top_field_first, palette_has_changed,
// pkt_pos and pkt_size.
type frameLayout struct {
	pictType   uintptr
	sar        uintptr
	sampleRate uintptr
	flags      uintptr
	bestEffort uintptr
	metadata   uintptr
	chLayout   uintptr
	duration   uintptr
}

var (
	frameLayout7 = frameLayout{
		pictType:   124,
		sar:        128,
		sampleRate: 192,
		flags:      292,
		bestEffort: 320,
		metadata:   336,
		chLayout:   408,
		duration:   432,
	}
	frameLayout8 = frameLayout{
		pictType:   120,
		sar:        124,
		sampleRate: 180,
		flags:      276,
		bestEffort: 304,
		metadata:   312,
		chLayout:   384,
		duration:   408,
	}

	// frameOff is the layout of the loaded libavutil.
	frameOff = frameLayout7
)

// AVPacket
const (
	offPktPTS         = 8
	offPktDTS         = 16
	offPktData        = 24
	offPktSize        = 32
	offPktStreamIndex = 36
	offPktFlags       = 40
	offPktDuration    = 64
	offPktPos         = 72
	offPktTimeBase    = 96
)

// AVChapter
const (
	offChapterID       = 0
	offChapterTimeBase = 8
	offChapterStart    = 16
	offChapterEnd      = 24
	offChapterMetadata = 32
)

// AVInputFormat / AVOutputFormat
const (
	offIFmtName       = 0
	offIFmtLongName   = 8
	offIFmtFlags      = 16
	offIFmtExtensions = 24
	offIFmtMimeType   = 48

	offOFmtName         = 0
	offOFmtLongName     = 8
	offOFmtMimeType     = 16
	offOFmtExtensions   = 24
	offOFmtAudioCodec   = 32
	offOFmtVideoCodec   = 36
	offOFmtSubtitleCode = 40
	offOFmtFlags        = 44
)

// AVCodec
const (
	offCodecName         = 0
	offCodecLongName     = 8
	offCodecType         = 16
	offCodecID           = 20
	offCodecCapabilities = 24
)

// AVFilter / AVFilterContext / AVFilterInOut
const (
	offFilterName        = 0
	offFilterDescription = 8
	offFilterInputs      = 16
	offFilterOutputs     = 24

	offFilterCtxFilter = 8
	offFilterCtxName   = 16

	offInOutName      = 0
	offInOutFilterCtx = 8
	offInOutPadIdx    = 16
	offInOutNext      = 24
)

// AVDeviceInfoList / AVDeviceInfo
const (
	offDevListDevices = 0
	offDevListCount   = 8
	offDevListDefault = 12

	offDevName         = 0
	offDevDescription  = 8
	offDevMediaTypes   = 16
	offDevNbMediaTypes = 24
)

// AVDictionaryEntry
const (
	offDictKey   = 0
	offDictValue = 8
)

// AVChannelLayout
const (
	offLayoutOrder      = 0
	offLayoutNbChannels = 4
	offLayoutMask       = 8
	sizeofChannelLayout = 24
	channelOrderNative  = 1
)

func peekInt32(p unsafe.Pointer, off uintptr) int32 {
	return *(*int32)(unsafe.Add(p, off))
}

func peekUint32(p unsafe.Pointer, off uintptr) uint32 {
	return *(*uint32)(unsafe.Add(p, off))
}

func peekInt64(p unsafe.Pointer, off uintptr) int64 {
	return *(*int64)(unsafe.Add(p, off))
}

func peekUint64(p unsafe.Pointer, off uintptr) uint64 {
	return *(*uint64)(unsafe.Add(p, off))
}

func peekPtr(p unsafe.Pointer, off uintptr) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Add(p, off))
}

func peekString(p unsafe.Pointer, off uintptr) string {
	return goString(peekPtr(p, off))
}

func peekRational(p unsafe.Pointer, off uintptr) Rational {
	return Rational{Num: peekInt32(p, off), Den: peekInt32(p, off+4)}
}

func pokeInt32(p unsafe.Pointer, off uintptr, v int32) {
	*(*int32)(unsafe.Add(p, off)) = v
}

func pokeInt64(p unsafe.Pointer, off uintptr, v int64) {
	*(*int64)(unsafe.Add(p, off)) = v
}

func pokePtr(p unsafe.Pointer, off uintptr, v unsafe.Pointer) {
	*(*unsafe.Pointer)(unsafe.Add(p, off)) = v
}

func pokeRational(p unsafe.Pointer, off uintptr, r Rational) {
	pokeInt32(p, off, r.Num)
	pokeInt32(p, off+4, r.Den)
}

// ptrAt indexes a C array of pointers.
func ptrAt(arr unsafe.Pointer, i int) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Add(arr, uintptr(i)*unsafe.Sizeof(uintptr(0))))
}
