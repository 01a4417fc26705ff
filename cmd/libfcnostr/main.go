// Command libfcnostr builds the C ABI used by the game engine to record
// actions. Build it with:
//
//	go build -buildmode=c-shared -o libfcnostr.so ./cmd/libfcnostr
//
// The generated libfcnostr.h declares every fcn_* export together with the
// FCN_* status and format constants.
//
// Ownership rules:
//   - Pointers passed in by the caller stay owned by the caller and are
//     copied before the call returns. Inputs are limited to MaxBufferLen
//     bytes; outputs are not.
//   - Buffers handed out through an out parameter are owned by the library
//     until the caller passes them to fcn_buffer_free.
//   - Strings returned by fcn_version and fcn_status_message live for the
//     whole process and must never be freed.
package main

func main() {}
