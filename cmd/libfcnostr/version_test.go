package main

import (
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/freeciv-nostr/internal/platform/buildinfo"
	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
)

// readCString copies a NUL-terminated string out of C memory.
func readCString(ptr unsafe.Pointer) string {
	if ptr == nil {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(ptr), n))
}

func TestVersionMatchesBuildInfo(t *testing.T) {
	ptr := unsafe.Pointer(fcn_version())
	if ptr == nil {
		t.Fatal("fcn_version returned NULL")
	}
	if got, want := readCString(ptr), buildinfo.Version(); got != want {
		t.Fatalf("fcn_version = %q, want %q", got, want)
	}
}

func TestVersionReturnsSamePointer(t *testing.T) {
	first := unsafe.Pointer(fcn_version())
	for i := 0; i < 1000; i++ {
		if next := unsafe.Pointer(fcn_version()); next != first {
			t.Fatalf("call %d returned %p, want %p", i, next, first)
		}
	}
}

func TestVersionConcurrentFirstCalls(t *testing.T) {
	const callers = 100
	var built atomic.Int32
	once := sync.OnceValue(func() unsafe.Pointer {
		built.Add(1)
		return newVersionCString()
	})

	start := make(chan struct{})
	results := make([]unsafe.Pointer, callers)
	var group errgroup.Group
	for i := range callers {
		group.Go(func() error {
			<-start
			results[i] = once()
			return nil
		})
	}
	close(start)
	if err := group.Wait(); err != nil {
		t.Fatal(err)
	}

	if got := built.Load(); got != 1 {
		t.Fatalf("constructor ran %d times, want 1", got)
	}
	for i, ptr := range results {
		if ptr == nil || ptr != results[0] {
			t.Fatalf("caller %d got %p, want %p", i, ptr, results[0])
		}
	}
	if got := readCString(results[0]); got != buildinfo.Version() {
		t.Fatalf("content = %q, want %q", got, buildinfo.Version())
	}
}

func TestStatusMessages(t *testing.T) {
	for _, status := range apperrors.Statuses() {
		ptr := unsafe.Pointer(fcn_status_message(cStatus(status)))
		if got := readCString(ptr); got != status.Message() {
			t.Fatalf("status %d message = %q, want %q", status, got, status.Message())
		}
		if again := unsafe.Pointer(fcn_status_message(cStatus(status))); again != ptr {
			t.Fatalf("status %d message pointer changed", status)
		}
	}
	unknown := unsafe.Pointer(fcn_status_message(99))
	if got := readCString(unknown); got != apperrors.UnknownStatusMessage {
		t.Fatalf("unknown status message = %q, want %q", got, apperrors.UnknownStatusMessage)
	}
	if again := unsafe.Pointer(fcn_status_message(-1)); again != unknown {
		t.Fatal("unknown statuses should share one message pointer")
	}
}

func TestHeaderStatusValuesMatchDomain(t *testing.T) {
	for _, status := range apperrors.Statuses() {
		v, ok := abiStatuses[status]
		if !ok {
			t.Fatalf("status %d has no header constant", status)
		}
		if int32(v) != int32(status) {
			t.Fatalf("header value %d != domain status %d", int32(v), int32(status))
		}
	}
}
