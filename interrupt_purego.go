//go:build darwin || linux

package ffmpeg

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// purego callbacks are a finite resource, so a single one serves every
// format context.
var interruptCallback = sync.OnceValue(func() uintptr {
	return purego.NewCallback(func(opaque uintptr) int {
		if interrupted(opaque) {
			return 1
		}
		return 0
	})
})

// installInterrupt points the AVIOInterruptCB of a format context at the
// shared callback with id as its opaque value.
func installInterrupt(fmtCtx unsafe.Pointer, id uintptr) {
	*(*uintptr)(unsafe.Add(fmtCtx, offFmtInterruptCB)) = interruptCallback()
	*(*uintptr)(unsafe.Add(fmtCtx, offFmtInterruptArg)) = id
}
