package ffmpeg

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, int32(-541478725), codeEOF)
	assert.Equal(t, int32(-1094995529), codeInvalidData)
	assert.Equal(t, -int32(syscall.EAGAIN), ErrAgain.Code)
}

func TestNewError(t *testing.T) {
	assert.NoError(t, newError(0, "av_read_frame"))
	assert.NoError(t, newError(12, "av_read_frame"))

	err := newError(codeEOF, "av_read_frame")
	assert.ErrorIs(t, err, ErrEOF)
	assert.NotErrorIs(t, err, ErrAgain)
	assert.Equal(t, "av_read_frame: End of file", err.Error())
	assert.Equal(t, codeEOF, ErrorCode(fmt.Errorf("wrapped: %w", err)))
	assert.Zero(t, ErrorCode(errors.New("plain")))
}

func TestErrorErrno(t *testing.T) {
	err := newError(averror(syscall.ENOENT), "avformat_open_input")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorIs(t, err, syscall.ENOENT)

	var e *Error
	assert.ErrorAs(t, err, &e)
	errno, ok := e.Errno()
	assert.True(t, ok)
	assert.Equal(t, syscall.ENOENT, errno)

	_, ok = ErrEOF.Errno()
	assert.False(t, ok)
	assert.NoError(t, ErrEOF.Unwrap())
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "Decoder not found", ErrDecoderNotFound.Message())
	assert.Equal(t, "Invalid data found when processing input", ErrInvalidData.Error())
	assert.Equal(t, "Server returned 404 Not Found", ErrHTTPNotFound.Message())
}
