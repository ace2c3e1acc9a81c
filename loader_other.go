//go:build !darwin && !linux

package ffmpeg

func loadLibraries(searchEnv) error {
	return ErrUnsupportedPlatform
}
