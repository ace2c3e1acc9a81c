package ffmpeg

import (
	"bytes"
	"unsafe"
)

// goString converts a NUL-terminated C string to a Go string.
func goString(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	var n int
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(p), n))
}

// goStringBytes converts a NUL-terminated buffer filled by native code.
func goStringBytes(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}

// cString returns a NUL-terminated copy of s, or nil for "" so optional
// string arguments can be passed as NULL.
func cString(s string) *byte {
	if s == "" {
		return nil
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &b[0]
}

// splitList splits FFmpeg's comma separated lists (extensions, mime types).
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range bytes.Split([]byte(s), []byte{','}) {
		if p := bytes.TrimSpace(part); len(p) > 0 {
			out = append(out, string(p))
		}
	}
	return out
}
