package ffmpeg

import "fmt"

// MediaType is the kind of data a stream carries (AVMediaType).
type MediaType int32

const (
	MediaTypeUnknown    MediaType = -1
	MediaTypeVideo      MediaType = 0
	MediaTypeAudio      MediaType = 1
	MediaTypeData       MediaType = 2
	MediaTypeSubtitle   MediaType = 3
	MediaTypeAttachment MediaType = 4
)

func (t MediaType) String() string {
	switch t {
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	case MediaTypeData:
		return "data"
	case MediaTypeSubtitle:
		return "subtitle"
	case MediaTypeAttachment:
		return "attachment"
	default:
		return "unknown"
	}
}

// MarshalText encodes the lower-case FFmpeg name.
func (t MediaType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseMediaType is the inverse of MediaType.String.
func ParseMediaType(s string) (MediaType, error) {
	for t := MediaTypeUnknown; t <= MediaTypeAttachment; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	return MediaTypeUnknown, fmt.Errorf("unknown media type %q: %w", s, ErrInvalidArgument)
}
