package ffmpeg

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"
)

// Errors raised on the Go side of the binding.
var (
	ErrNotLoaded           = errors.New("ffmpeg: libraries not loaded")
	ErrUnsupportedPlatform = errors.New("ffmpeg: unsupported platform")
	ErrUnsupportedVersion  = errors.New("ffmpeg: unsupported library version")
	ErrClosed              = errors.New("ffmpeg: use of closed object")
	ErrNoStream            = errors.New("ffmpeg: no such stream")
	ErrInvalidArgument     = errors.New("ffmpeg: invalid argument")
)

// fferrtag builds the negative four-character error code used by FFmpeg.
func fferrtag(a, b, c, d byte) int32 {
	return -int32(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// Native error codes.
var (
	codeBSFNotFound      = fferrtag(0xF8, 'B', 'S', 'F')
	codeBug              = fferrtag('B', 'U', 'G', '!')
	codeBufferTooSmall   = fferrtag('B', 'U', 'F', 'S')
	codeDecoderNotFound  = fferrtag(0xF8, 'D', 'E', 'C')
	codeDemuxerNotFound  = fferrtag(0xF8, 'D', 'E', 'M')
	codeEncoderNotFound  = fferrtag(0xF8, 'E', 'N', 'C')
	codeEOF              = fferrtag('E', 'O', 'F', ' ')
	codeExit             = fferrtag('E', 'X', 'I', 'T')
	codeExternal         = fferrtag('E', 'X', 'T', ' ')
	codeFilterNotFound   = fferrtag(0xF8, 'F', 'I', 'L')
	codeInvalidData      = fferrtag('I', 'N', 'D', 'A')
	codeMuxerNotFound    = fferrtag(0xF8, 'M', 'U', 'X')
	codeOptionNotFound   = fferrtag(0xF8, 'O', 'P', 'T')
	codePatchWelcome     = fferrtag('P', 'A', 'W', 'E')
	codeProtocolNotFound = fferrtag(0xF8, 'P', 'R', 'O')
	codeStreamNotFound   = fferrtag(0xF8, 'S', 'T', 'R')
	codeBug2             = fferrtag('B', 'U', 'G', ' ')
	codeUnknown          = fferrtag('U', 'N', 'K', 'N')
	codeHTTPBadRequest   = fferrtag(0xF8, '4', '0', '0')
	codeHTTPUnauthorized = fferrtag(0xF8, '4', '0', '1')
	codeHTTPForbidden    = fferrtag(0xF8, '4', '0', '3')
	codeHTTPNotFound     = fferrtag(0xF8, '4', '0', '4')
	codeHTTPTooMany      = fferrtag(0xF8, '4', '2', '9')
	codeHTTPOther4xx     = fferrtag(0xF8, '4', 'X', 'X')
	codeHTTPServerError  = fferrtag(0xF8, '5', 'X', 'X')
)

const (
	codeExperimental  int32 = -0x2bb2afa8
	codeInputChanged  int32 = -0x636e6701
	codeOutputChanged int32 = -0x636e6702
)

// Sentinel errors for native error codes. Match them with errors.Is.
var (
	ErrBSFNotFound        = &Error{Code: codeBSFNotFound}
	ErrBug                = &Error{Code: codeBug}
	ErrBufferTooSmall     = &Error{Code: codeBufferTooSmall}
	ErrDecoderNotFound    = &Error{Code: codeDecoderNotFound}
	ErrDemuxerNotFound    = &Error{Code: codeDemuxerNotFound}
	ErrEncoderNotFound    = &Error{Code: codeEncoderNotFound}
	ErrEOF                = &Error{Code: codeEOF}
	ErrExit               = &Error{Code: codeExit}
	ErrExternal           = &Error{Code: codeExternal}
	ErrFilterNotFound     = &Error{Code: codeFilterNotFound}
	ErrInvalidData        = &Error{Code: codeInvalidData}
	ErrMuxerNotFound      = &Error{Code: codeMuxerNotFound}
	ErrOptionNotFound     = &Error{Code: codeOptionNotFound}
	ErrPatchWelcome       = &Error{Code: codePatchWelcome}
	ErrProtocolNotFound   = &Error{Code: codeProtocolNotFound}
	ErrStreamNotFound     = &Error{Code: codeStreamNotFound}
	ErrBug2               = &Error{Code: codeBug2}
	ErrUnknown            = &Error{Code: codeUnknown}
	ErrExperimental       = &Error{Code: codeExperimental}
	ErrInputChanged       = &Error{Code: codeInputChanged}
	ErrOutputChanged      = &Error{Code: codeOutputChanged}
	ErrHTTPBadRequest     = &Error{Code: codeHTTPBadRequest}
	ErrHTTPUnauthorized   = &Error{Code: codeHTTPUnauthorized}
	ErrHTTPForbidden      = &Error{Code: codeHTTPForbidden}
	ErrHTTPNotFound       = &Error{Code: codeHTTPNotFound}
	ErrHTTPTooManyRequest = &Error{Code: codeHTTPTooMany}
	ErrHTTPOther4xx       = &Error{Code: codeHTTPOther4xx}
	ErrHTTPServerError    = &Error{Code: codeHTTPServerError}

	// ErrAgain is AVERROR(EAGAIN): the codec or filter needs more input
	// (or output must be drained) before the call can make progress.
	ErrAgain = &Error{Code: -int32(syscall.EAGAIN)}
)

var errorMessages = map[int32]string{
	codeBSFNotFound:      "Bitstream filter not found",
	codeBug:              "Internal bug, should not have happened",
	codeBug2:             "Internal bug, should not have happened",
	codeBufferTooSmall:   "Buffer too small",
	codeDecoderNotFound:  "Decoder not found",
	codeDemuxerNotFound:  "Demuxer not found",
	codeEncoderNotFound:  "Encoder not found",
	codeEOF:              "End of file",
	codeExit:             "Immediate exit requested",
	codeExternal:         "Generic error in an external library",
	codeFilterNotFound:   "Filter not found",
	codeInputChanged:     "Input changed",
	codeInvalidData:      "Invalid data found when processing input",
	codeMuxerNotFound:    "Muxer not found",
	codeOptionNotFound:   "Option not found",
	codeOutputChanged:    "Output changed",
	codePatchWelcome:     "Not yet implemented in FFmpeg, patches welcome",
	codeProtocolNotFound: "Protocol not found",
	codeStreamNotFound:   "Stream not found",
	codeUnknown:          "Unknown error occurred",
	codeExperimental:     "Experimental feature",
	codeHTTPBadRequest:   "Server returned 400 Bad Request",
	codeHTTPUnauthorized: "Server returned 401 Unauthorized (authorization failed)",
	codeHTTPForbidden:    "Server returned 403 Forbidden (access denied)",
	codeHTTPNotFound:     "Server returned 404 Not Found",
	codeHTTPTooMany:      "Server returned 429 Too Many Requests",
	codeHTTPOther4xx:     "Server returned 4XX Client Error, but not one of 40{0,1,3,4}",
	codeHTTPServerError:  "Server returned 5XX Server Error reply",
}

var errNoMem = averror(syscall.ENOMEM)

// maxErrno bounds the codes treated as AVERROR(errno).
const maxErrno = 4096

// Error is a negative return code from an FFmpeg call.
type Error struct {
	Code int32  // negative AVERROR value
	Op   string // native operation that failed, if known
}

// newError returns nil for non-negative codes and an *Error otherwise.
func newError(code int32, op string) error {
	if code >= 0 {
		return nil
	}
	return &Error{Code: code, Op: op}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op == "" {
		return e.Message()
	}
	return e.Op + ": " + e.Message()
}

// Message returns FFmpeg's description of the code without the operation.
func (e *Error) Message() string {
	if avStrerror != nil {
		buf := make([]byte, 128)
		if avStrerror(e.Code, unsafe.Pointer(&buf[0]), uintptr(len(buf))) == 0 {
			return goStringBytes(buf)
		}
	}
	if msg, ok := errorMessages[e.Code]; ok {
		return msg
	}
	if errno, ok := e.Errno(); ok {
		return errno.Error()
	}
	return fmt.Sprintf("Error number %d occurred", e.Code)
}

// Errno returns the POSIX error carried by AVERROR(errno) codes.
func (e *Error) Errno() (syscall.Errno, bool) {
	if e.Code < 0 && e.Code > -maxErrno {
		return syscall.Errno(-e.Code), true
	}
	return 0, false
}

// Is matches errors carrying the same native code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Unwrap exposes POSIX codes so errors.Is(err, fs.ErrNotExist) works.
func (e *Error) Unwrap() error {
	if errno, ok := e.Errno(); ok {
		return errno
	}
	return nil
}

// ErrorCode extracts the native code from err, or 0 if err is not an *Error.
func ErrorCode(err error) int32 {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

// averror converts a POSIX errno into the FFmpeg code.
func averror(errno syscall.Errno) int32 {
	return -int32(errno)
}
