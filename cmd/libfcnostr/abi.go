package main

/*
#include <stddef.h>
#include <stdint.h>

#define FCN_OK                   0
#define FCN_ERR_INVALID_ARGUMENT 1
#define FCN_ERR_DECODE           2
#define FCN_ERR_UNKNOWN_FORMAT   3
#define FCN_ERR_UNKNOWN_BUFFER   4
#define FCN_ERR_TOO_LARGE        5
#define FCN_ERR_INTERNAL         6

#define FCN_FORMAT_JSON  1
#define FCN_FORMAT_CBOR  2
#define FCN_FORMAT_PROTO 3
*/
import "C"

import (
	"unsafe"

	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/domain/action"
)

// abiStatuses pins every domain status to its header constant.
var abiStatuses = map[apperrors.Status]C.int32_t{
	apperrors.StatusOK:              C.FCN_OK,
	apperrors.StatusInvalidArgument: C.FCN_ERR_INVALID_ARGUMENT,
	apperrors.StatusDecode:          C.FCN_ERR_DECODE,
	apperrors.StatusUnknownFormat:   C.FCN_ERR_UNKNOWN_FORMAT,
	apperrors.StatusUnknownBuffer:   C.FCN_ERR_UNKNOWN_BUFFER,
	apperrors.StatusTooLarge:        C.FCN_ERR_TOO_LARGE,
	apperrors.StatusInternal:        C.FCN_ERR_INTERNAL,
}

// abiFormats maps header format ids to wire formats.
var abiFormats = map[int32]action.Format{
	C.FCN_FORMAT_JSON:  action.FormatJSON,
	C.FCN_FORMAT_CBOR:  action.FormatCBOR,
	C.FCN_FORMAT_PROTO: action.FormatProto,
}

func cStatus(status apperrors.Status) C.int32_t {
	if v, ok := abiStatuses[status]; ok {
		return v
	}
	return C.FCN_ERR_INTERNAL
}

// fcn_version returns the library's semantic version. The pointer is the
// same on every call and is never freed.
//
//export fcn_version
func fcn_version() *C.char {
	return (*C.char)(versionCString())
}

// fcn_status_message returns fixed text for status; unknown values get a
// generic message. The pointer is never freed.
//
//export fcn_status_message
func fcn_status_message(status C.int32_t) *C.char {
	return (*C.char)(statusCString(apperrors.Status(status)))
}

//export fcn_action_encode
func fcn_action_encode(format C.int32_t, turn C.uint64_t, payload *C.uint8_t, payloadLen C.size_t, out **C.uint8_t, outLen *C.size_t) C.int32_t {
	return cStatus(actionEncode(
		int32(format),
		uint64(turn),
		unsafe.Pointer(payload),
		uintptr(payloadLen),
		(*unsafe.Pointer)(unsafe.Pointer(out)),
		(*uintptr)(unsafe.Pointer(outLen)),
	))
}

//export fcn_action_decode
func fcn_action_decode(format C.int32_t, data *C.uint8_t, dataLen C.size_t, outTurn *C.uint64_t, outPayload **C.uint8_t, outPayloadLen *C.size_t) C.int32_t {
	return cStatus(actionDecode(
		int32(format),
		unsafe.Pointer(data),
		uintptr(dataLen),
		(*uint64)(unsafe.Pointer(outTurn)),
		(*unsafe.Pointer)(unsafe.Pointer(outPayload)),
		(*uintptr)(unsafe.Pointer(outPayloadLen)),
	))
}

// fcn_buffer_free releases a buffer returned by this library. NULL is a
// no-op; pointers the library does not own are rejected without freeing.
//
//export fcn_buffer_free
func fcn_buffer_free(buf *C.uint8_t) C.int32_t {
	return cStatus(guard("buffer_free", func() apperrors.Status {
		return apperrors.StatusOf(buffers.free(unsafe.Pointer(buf)))
	}))
}

//export fcn_buffers_outstanding
func fcn_buffers_outstanding() C.size_t {
	return C.size_t(buffers.outstanding())
}
