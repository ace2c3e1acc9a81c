package ffmpeg

import "fmt"

// Discard selects which frames a decoder may skip (AVDiscard).
type Discard int32

const (
	DiscardNone     Discard = -16 // discard nothing
	DiscardDefault  Discard = 0   // useless packets like 0 size packets in avi
	DiscardNonRef   Discard = 8   // all non reference
	DiscardBidir    Discard = 16  // all bidirectional frames
	DiscardNonIntra Discard = 24  // all non intra frames
	DiscardNonKey   Discard = 32  // all frames except keyframes
	DiscardAll      Discard = 48  // everything
)

var discardNames = map[Discard]string{
	DiscardNone:     "none",
	DiscardDefault:  "default",
	DiscardNonRef:   "noref",
	DiscardBidir:    "bidir",
	DiscardNonIntra: "nointra",
	DiscardNonKey:   "nokey",
	DiscardAll:      "all",
}

// String returns the option value name, e.g. "nokey".
func (d Discard) String() string {
	if s, ok := discardNames[d]; ok {
		return s
	}
	return fmt.Sprintf("discard(%d)", int32(d))
}

// ParseDiscard parses the names produced by String.
func ParseDiscard(s string) (Discard, error) {
	for d, name := range discardNames {
		if name == s {
			return d, nil
		}
	}
	return DiscardDefault, fmt.Errorf("%w: unknown discard mode %q", ErrInvalidArgument, s)
}
