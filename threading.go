package ffmpeg

import "fmt"

// ThreadType is the FF_THREAD_* bitmask.
type ThreadType int32

const (
	ThreadFrame ThreadType = 1 // decode more than one frame at once
	ThreadSlice ThreadType = 2 // decode more than one part of a single frame at once
)

func (t ThreadType) String() string {
	switch t {
	case 0:
		return "none"
	case ThreadFrame:
		return "frame"
	case ThreadSlice:
		return "slice"
	case ThreadFrame | ThreadSlice:
		return "frame+slice"
	}
	return fmt.Sprintf("thread(%d)", int32(t))
}

// Threading configures codec threading. A Count of 0 lets FFmpeg pick.
type Threading struct {
	Kind  ThreadType
	Count int
}

// DefaultThreading lets the codec choose both the kind and the thread count.
func DefaultThreading() Threading {
	return Threading{Kind: ThreadFrame | ThreadSlice}
}
