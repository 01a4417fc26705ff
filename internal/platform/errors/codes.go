// Package errors provides structured error handling shared by the event
// model, the journal and the C ABI boundary.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Argument errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeTooLarge        Code = "TOO_LARGE"

	// Decode errors
	CodeDecodeMalformed    Code = "DECODE_MALFORMED"
	CodeDecodeTruncated    Code = "DECODE_TRUNCATED"
	CodeDecodeMissingField Code = "DECODE_MISSING_FIELD"
	CodeDecodeUnknownField Code = "DECODE_UNKNOWN_FIELD"
	CodeDecodeWrongType    Code = "DECODE_WRONG_TYPE"

	// Format errors
	CodeUnknownFormat Code = "UNKNOWN_FORMAT"

	// Boundary buffer errors
	CodeUnknownBuffer Code = "UNKNOWN_BUFFER"

	// Storage errors
	CodeNotFound     Code = "NOT_FOUND"
	CodeChainBroken  Code = "CHAIN_BROKEN"
	CodeSessionEmpty Code = "SESSION_EMPTY"
)

// Status is the numeric outcome reported to native callers. Values are part
// of the C ABI and must never be renumbered.
type Status int32

const (
	StatusOK              Status = 0
	StatusInvalidArgument Status = 1
	StatusDecode          Status = 2
	StatusUnknownFormat   Status = 3
	StatusUnknownBuffer   Status = 4
	StatusTooLarge        Status = 5
	StatusInternal        Status = 6
)

// Status maps domain codes to ABI status values.
func (c Code) Status() Status {
	switch c {
	// Caller passed something unusable
	case CodeInvalidArgument,
		CodeSessionEmpty:
		return StatusInvalidArgument

	case CodeDecodeMalformed,
		CodeDecodeTruncated,
		CodeDecodeMissingField,
		CodeDecodeUnknownField,
		CodeDecodeWrongType:
		return StatusDecode

	case CodeUnknownFormat:
		return StatusUnknownFormat

	case CodeUnknownBuffer:
		return StatusUnknownBuffer

	case CodeTooLarge:
		return StatusTooLarge

	default:
		return StatusInternal
	}
}
