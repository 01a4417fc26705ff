package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/louisbranch/freeciv-nostr/internal/platform/buildinfo"
	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
)

// Process-lifetime C strings. They are built once and never freed.
var (
	versionCString = sync.OnceValue(newVersionCString)

	statusCStrings = sync.OnceValue(func() map[apperrors.Status]unsafe.Pointer {
		table := make(map[apperrors.Status]unsafe.Pointer, len(apperrors.Statuses()))
		for _, status := range apperrors.Statuses() {
			table[status] = unsafe.Pointer(C.CString(status.Message()))
		}
		return table
	})

	unknownStatusCString = sync.OnceValue(func() unsafe.Pointer {
		return unsafe.Pointer(C.CString(apperrors.UnknownStatusMessage))
	})
)

func newVersionCString() unsafe.Pointer {
	return unsafe.Pointer(C.CString(buildinfo.Version()))
}

func statusCString(status apperrors.Status) unsafe.Pointer {
	if ptr, ok := statusCStrings()[status]; ok {
		return ptr
	}
	return unknownStatusCString()
}
