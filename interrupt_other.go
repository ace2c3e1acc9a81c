//go:build !darwin && !linux

package ffmpeg

import "unsafe"

func installInterrupt(unsafe.Pointer, uintptr) {}
