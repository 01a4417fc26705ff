package action

import (
	"errors"
	"fmt"
	"io"

	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
)

// DecodeError reports why an encoded action could not be decoded. It is
// always recoverable; callers decide whether to drop or report the input.
type DecodeError struct {
	// Format is the wire format being decoded.
	Format Format
	// Field names the offending field, when the failure is field-specific.
	Field string
	// Err carries the machine-readable code and the underlying cause.
	Err *apperrors.Error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("decode %s: field %s: %s", e.Format, e.Field, e.Err.Message)
	}
	return fmt.Sprintf("decode %s: %s", e.Format, e.Err.Message)
}

// Unwrap exposes the coded domain error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Code returns the decode failure code.
func (e *DecodeError) Code() apperrors.Code {
	if e == nil || e.Err == nil {
		return apperrors.CodeUnknown
	}
	return e.Err.Code
}

// IsDecodeError reports whether err is (or wraps) a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

func decodeError(format Format, code apperrors.Code, field, message string, cause error) *DecodeError {
	metadata := map[string]string{"format": string(format)}
	if field != "" {
		metadata["field"] = field
	}
	return &DecodeError{
		Format: format,
		Field:  field,
		Err:    apperrors.WrapWithMetadata(code, message, metadata, cause),
	}
}

func missingField(format Format, field string) *DecodeError {
	return decodeError(format, apperrors.CodeDecodeMissingField, field, "missing required field", nil)
}

func unknownField(format Format, field string) *DecodeError {
	return decodeError(format, apperrors.CodeDecodeUnknownField, field, "unknown field", nil)
}

func duplicateField(format Format, field string) *DecodeError {
	return decodeError(format, apperrors.CodeDecodeMalformed, field, "duplicate field", nil)
}

func wrongType(format Format, field, message string, cause error) *DecodeError {
	return decodeError(format, apperrors.CodeDecodeWrongType, field, message, cause)
}

// structural classifies a parser error as truncation or malformed input.
func structural(format Format, field string, cause error) *DecodeError {
	if errors.Is(cause, io.EOF) || errors.Is(cause, io.ErrUnexpectedEOF) {
		return decodeError(format, apperrors.CodeDecodeTruncated, field, "input is truncated", cause)
	}
	return decodeError(format, apperrors.CodeDecodeMalformed, field, "input is malformed", cause)
}
