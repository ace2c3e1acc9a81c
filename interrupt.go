package ffmpeg

import (
	"context"
	"sync"
	"sync/atomic"
)

// Blocking native I/O polls an interrupt callback. The callback receives an
// opaque integer handle rather than a Go pointer; the handle is looked up
// here to find the context whose cancellation aborts the call.
var (
	interrupts   sync.Map // uintptr -> context.Context
	interruptSeq atomic.Uintptr
)

func registerInterrupt(ctx context.Context) uintptr {
	id := interruptSeq.Add(1)
	interrupts.Store(id, ctx)
	return id
}

func unregisterInterrupt(id uintptr) {
	if id != 0 {
		interrupts.Delete(id)
	}
}

func interrupted(id uintptr) bool {
	v, ok := interrupts.Load(id)
	if !ok {
		return false
	}
	return v.(context.Context).Err() != nil
}
