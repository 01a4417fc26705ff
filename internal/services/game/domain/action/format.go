package action

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
)

// Format names a versioned wire encoding as "<name>/v<version>".
type Format string

const (
	// FormatJSON is the field-tagged text encoding used for debugging and
	// as the canonical hashing input: {"turn":42,"payload":[1,2,3,4]}.
	FormatJSON Format = "json/v1"
	// FormatCBOR is a deterministic CBOR map {"turn": uint, "payload": bstr}.
	FormatCBOR Format = "cbor/v1"
	// FormatProto is protobuf wire format: field 1 varint turn, field 2
	// bytes payload.
	FormatProto Format = "proto/v1"
)

// DefaultFormat is used when callers do not choose one.
const DefaultFormat = FormatJSON

// Name returns the encoding name without the version suffix.
func (f Format) Name() string {
	name, _, _ := strings.Cut(string(f), "/")
	return name
}

// Version returns the numeric version, or 0 when the identifier is malformed.
func (f Format) Version() int {
	_, v, ok := strings.Cut(string(f), "/v")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// IsText reports whether the encoding is printable text.
func (f Format) IsText() bool {
	return f.Name() == "json"
}

// ParseFormat normalizes a format identifier. A bare name ("cbor") selects
// version 1 of that encoding.
func ParseFormat(raw string) (Format, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return DefaultFormat, nil
	}
	if !strings.Contains(value, "/") {
		value += "/v1"
	}
	f := Format(value)
	if f.Name() == "" || f.Version() == 0 {
		return "", apperrors.WithMetadata(apperrors.CodeUnknownFormat,
			fmt.Sprintf("format %q must look like name/vN", raw),
			map[string]string{"format": raw})
	}
	return f, nil
}
