package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
)

// MaxBufferLen bounds every caller-supplied input buffer. Output buffers are
// not capped: a json/v1 encoding can be about four times its payload.
const MaxBufferLen = 64 << 20

var errUnknownBuffer = apperrors.New(apperrors.CodeUnknownBuffer, "buffer is not owned by the library")

// bufferRegistry tracks C heap buffers handed out to the caller.
type bufferRegistry struct {
	mu   sync.Mutex
	live map[unsafe.Pointer]uintptr
}

var buffers = &bufferRegistry{live: make(map[unsafe.Pointer]uintptr)}

// alloc copies data into a new C buffer. Empty data yields a nil pointer.
func (r *bufferRegistry) alloc(data []byte) (unsafe.Pointer, error) {
	if len(data) == 0 {
		return nil, nil
	}
	ptr := C.malloc(C.size_t(len(data)))
	if ptr == nil {
		return nil, apperrors.New(apperrors.CodeUnknown, "malloc failed")
	}
	copy(unsafe.Slice((*byte)(ptr), len(data)), data)

	r.mu.Lock()
	r.live[ptr] = uintptr(len(data))
	r.mu.Unlock()
	return ptr, nil
}

// free releases ptr if the registry owns it.
func (r *bufferRegistry) free(ptr unsafe.Pointer) error {
	if ptr == nil {
		return nil
	}
	r.mu.Lock()
	_, ok := r.live[ptr]
	if ok {
		delete(r.live, ptr)
	}
	r.mu.Unlock()
	if !ok {
		return errUnknownBuffer
	}
	C.free(ptr)
	return nil
}

func (r *bufferRegistry) outstanding() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}
