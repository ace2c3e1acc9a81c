package ffmpeg

import (
	"fmt"
	"math/bits"
	"unsafe"
)

// ChannelLayout describes the channels of an audio stream. Mask is the
// native-order speaker mask; it is 0 for layouts FFmpeg reports as
// unspecified or custom, in which case only Channels is meaningful.
type ChannelLayout struct {
	Channels int    `json:"channels" yaml:"channels"`
	Mask     uint64 `json:"mask,omitempty" yaml:"mask,omitempty"`
}

// Speaker masks (AV_CH_LAYOUT_*).
const (
	chLayoutMono        uint64 = 0x4
	chLayoutStereo      uint64 = 0x3
	chLayout2Point1     uint64 = 0xB
	chLayoutSurround    uint64 = 0x7
	chLayout4Point0     uint64 = 0x107
	chLayoutQuad        uint64 = 0x33
	chLayout5Point0Back uint64 = 0x37
	chLayout5Point0     uint64 = 0x607
	chLayout5Point1Back uint64 = 0x3F
	chLayout5Point1     uint64 = 0x60F
	chLayout6Point1     uint64 = 0x70F
	chLayout7Point1     uint64 = 0x63F
)

var (
	ChannelLayoutMono   = ChannelLayout{Channels: 1, Mask: chLayoutMono}
	ChannelLayoutStereo = ChannelLayout{Channels: 2, Mask: chLayoutStereo}
	ChannelLayout5_1    = ChannelLayout{Channels: 6, Mask: chLayout5Point1Back}
)

var channelLayoutNames = []struct {
	mask uint64
	name string
}{
	{chLayoutMono, "mono"},
	{chLayoutStereo, "stereo"},
	{chLayout2Point1, "2.1"},
	{chLayoutSurround, "3.0"},
	{chLayout4Point0, "4.0"},
	{chLayoutQuad, "quad"},
	{chLayout5Point0Back, "5.0"},
	{chLayout5Point0, "5.0(side)"},
	{chLayout5Point1Back, "5.1"},
	{chLayout5Point1, "5.1(side)"},
	{chLayout6Point1, "6.1"},
	{chLayout7Point1, "7.1"},
}

// defaultMasks follows av_channel_layout_default: the first standard layout
// with the requested channel count.
var defaultMasks = [...]uint64{
	1: chLayoutMono,
	2: chLayoutStereo,
	3: chLayout2Point1,
	4: chLayout4Point0,
	5: chLayout5Point0Back,
	6: chLayout5Point1Back,
	7: chLayout6Point1,
	8: chLayout7Point1,
}

// ChannelLayoutFromMask returns the layout for a speaker mask.
func ChannelLayoutFromMask(mask uint64) ChannelLayout {
	return ChannelLayout{Channels: bits.OnesCount64(mask), Mask: mask}
}

// DefaultChannelLayout returns the standard layout for n channels, or an
// unspecified layout with n channels when there is none.
func DefaultChannelLayout(n int) ChannelLayout {
	if n > 0 && n < len(defaultMasks) {
		return ChannelLayoutFromMask(defaultMasks[n])
	}
	return ChannelLayout{Channels: n}
}

// IsZero reports whether the layout is unset.
func (l ChannelLayout) IsZero() bool {
	return l.Channels == 0
}

// String returns the FFmpeg description ("stereo", "5.1").
func (l ChannelLayout) String() string {
	if LibAVUtil.Available() && l.Channels > 0 {
		n := l.native()
		defer n.uninit()
		buf := make([]byte, 64)
		if avChannelLayoutDescr(n.ptr(), unsafe.Pointer(&buf[0]), uintptr(len(buf))) > 0 {
			return goStringBytes(buf)
		}
	}
	for _, e := range channelLayoutNames {
		if e.mask == l.Mask && l.Mask != 0 {
			return e.name
		}
	}
	return fmt.Sprintf("%d channels", l.Channels)
}

// nativeLayout is storage for an AVChannelLayout.
type nativeLayout [sizeofChannelLayout / 8]uint64

func (n *nativeLayout) ptr() unsafe.Pointer {
	return unsafe.Pointer(&n[0])
}

func (n *nativeLayout) uninit() {
	if avChannelLayoutUninit != nil {
		avChannelLayoutUninit(n.ptr())
	}
}

// native fills an AVChannelLayout. Callers must uninit it.
func (l ChannelLayout) native() *nativeLayout {
	n := &nativeLayout{}
	switch {
	case l.Mask != 0:
		avChannelLayoutMask(n.ptr(), l.Mask)
	case l.Channels > 0:
		avChannelLayoutDefault(n.ptr(), int32(l.Channels))
	}
	return n
}

// layoutFromNative reads an AVChannelLayout.
func layoutFromNative(p unsafe.Pointer) ChannelLayout {
	l := ChannelLayout{Channels: int(peekInt32(p, offLayoutNbChannels))}
	if peekInt32(p, offLayoutOrder) == channelOrderNative {
		l.Mask = peekUint64(p, offLayoutMask)
	}
	return l
}
