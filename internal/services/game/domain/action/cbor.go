package action

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fxamacker/cbor/v2"
	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
)

// CBOR major types checked before decoding field values.
const (
	cborMajorUnsigned   = 0
	cborMajorByteString = 2
)

// CBORCodec implements FormatCBOR using core deterministic encoding
// (RFC 8949 §4.2.1), so equal actions always produce identical bytes.
type CBORCodec struct{}

type cborAction struct {
	Turn    uint64 `cbor:"turn"`
	Payload []byte `cbor:"payload"`
}

var cborModes = sync.OnceValues(func() (cborModePair, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return cborModePair{}, fmt.Errorf("cbor enc mode: %w", err)
	}
	dec, err := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}.DecMode()
	if err != nil {
		return cborModePair{}, fmt.Errorf("cbor dec mode: %w", err)
	}
	return cborModePair{enc: enc, dec: dec}, nil
})

type cborModePair struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// Format implements Codec.
func (CBORCodec) Format() Format {
	return FormatCBOR
}

// Encode implements Codec.
func (CBORCodec) Encode(a GameAction) ([]byte, error) {
	modes, err := cborModes()
	if err != nil {
		return nil, err
	}
	payload := a.payload
	if payload == nil {
		// A nil slice would encode as CBOR null.
		payload = []byte{}
	}
	return modes.enc.Marshal(cborAction{Turn: a.turn, Payload: payload})
}

// Decode implements Codec.
func (CBORCodec) Decode(data []byte) (GameAction, error) {
	modes, err := cborModes()
	if err != nil {
		return GameAction{}, decodeError(FormatCBOR, apperrors.CodeUnknown, "", "cbor codec unavailable", err)
	}

	var fields map[string]cbor.RawMessage
	if err := modes.dec.Unmarshal(data, &fields); err != nil {
		return GameAction{}, classifyCBOR(err)
	}
	if fields == nil {
		return GameAction{}, wrongType(FormatCBOR, "", "top-level value must be a map", nil)
	}
	for key := range fields {
		if key != fieldTurn && key != fieldPayload {
			return GameAction{}, unknownField(FormatCBOR, key)
		}
	}

	rawTurn, ok := fields[fieldTurn]
	if !ok {
		return GameAction{}, missingField(FormatCBOR, fieldTurn)
	}
	rawPayload, ok := fields[fieldPayload]
	if !ok {
		return GameAction{}, missingField(FormatCBOR, fieldPayload)
	}

	if cborMajor(rawTurn) != cborMajorUnsigned {
		return GameAction{}, wrongType(FormatCBOR, fieldTurn, "must be an unsigned integer", nil)
	}
	var turn uint64
	if err := modes.dec.Unmarshal(rawTurn, &turn); err != nil {
		return GameAction{}, wrongType(FormatCBOR, fieldTurn, "must be an unsigned integer", err)
	}

	if cborMajor(rawPayload) != cborMajorByteString {
		return GameAction{}, wrongType(FormatCBOR, fieldPayload, "must be a byte string", nil)
	}
	var payload []byte
	if err := modes.dec.Unmarshal(rawPayload, &payload); err != nil {
		return GameAction{}, wrongType(FormatCBOR, fieldPayload, "must be a byte string", err)
	}
	return GameAction{turn: turn, payload: payload}, nil
}

func cborMajor(raw cbor.RawMessage) int {
	if len(raw) == 0 {
		return -1
	}
	return int(raw[0] >> 5)
}

func classifyCBOR(err error) *DecodeError {
	var typeErr *cbor.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return wrongType(FormatCBOR, "", "top-level value must be a map with text keys", err)
	}
	var dupErr *cbor.DupMapKeyError
	if errors.As(err, &dupErr) {
		return duplicateField(FormatCBOR, fmt.Sprint(dupErr.Key))
	}
	return structural(FormatCBOR, "", err)
}
