package action

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"

	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
)

const (
	fieldTurn    = "turn"
	fieldPayload = "payload"
)

// JSONCodec implements FormatJSON.
//
// The payload is a JSON array of byte values rather than base64 so encoded
// actions stay readable in logs and test fixtures. Decoding is strict:
// both fields are required, unknown and duplicate keys are rejected, and
// nothing may follow the object.
type JSONCodec struct{}

// Format implements Codec.
func (JSONCodec) Format() Format {
	return FormatJSON
}

// Encode implements Codec. Key order is fixed (turn, payload) and the output
// has no insignificant whitespace.
func (JSONCodec) Encode(a GameAction) ([]byte, error) {
	buf := make([]byte, 0, 32+4*len(a.payload))
	buf = append(buf, `{"turn":`...)
	buf = strconv.AppendUint(buf, a.turn, 10)
	buf = append(buf, `,"payload":[`...)
	for i, b := range a.payload {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendUint(buf, uint64(b), 10)
	}
	buf = append(buf, "]}"...)
	return buf, nil
}

// Decode implements Codec.
func (JSONCodec) Decode(data []byte) (GameAction, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return GameAction{}, err
	}

	var (
		turn              uint64
		payload           []byte
		haveTurn, havePay bool
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return GameAction{}, structural(FormatJSON, "", err)
		}
		key, ok := tok.(string)
		if !ok {
			return GameAction{}, decodeError(FormatJSON, apperrors.CodeDecodeMalformed, "", "object key is not a string", nil)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return GameAction{}, structural(FormatJSON, key, err)
		}

		switch key {
		case fieldTurn:
			if haveTurn {
				return GameAction{}, duplicateField(FormatJSON, key)
			}
			turn, err = parseJSONTurn(raw)
			if err != nil {
				return GameAction{}, err
			}
			haveTurn = true
		case fieldPayload:
			if havePay {
				return GameAction{}, duplicateField(FormatJSON, key)
			}
			payload, err = parseJSONPayload(raw)
			if err != nil {
				return GameAction{}, err
			}
			havePay = true
		default:
			return GameAction{}, unknownField(FormatJSON, key)
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return GameAction{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return GameAction{}, decodeError(FormatJSON, apperrors.CodeDecodeMalformed, "", "unexpected data after object", err)
	}

	if !haveTurn {
		return GameAction{}, missingField(FormatJSON, fieldTurn)
	}
	if !havePay {
		return GameAction{}, missingField(FormatJSON, fieldPayload)
	}
	return GameAction{turn: turn, payload: payload}, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return structural(FormatJSON, "", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		if want == '{' {
			return wrongType(FormatJSON, "", "top-level value must be an object", nil)
		}
		return decodeError(FormatJSON, apperrors.CodeDecodeMalformed, "", "expected "+want.String(), nil)
	}
	return nil
}

// parseJSONTurn accepts only a plain non-negative integer literal that fits
// in 64 bits; fractions, exponents, signs and null are rejected.
func parseJSONTurn(raw json.RawMessage) (uint64, error) {
	if len(raw) == 0 || raw[0] < '0' || raw[0] > '9' {
		return 0, wrongType(FormatJSON, fieldTurn, "must be a non-negative integer", nil)
	}
	turn, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, wrongType(FormatJSON, fieldTurn, "must be an integer in [0, 2^64-1]", err)
	}
	return turn, nil
}

// parseJSONPayload accepts an array of integers in [0, 255].
func parseJSONPayload(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 || raw[0] != '[' {
		return nil, wrongType(FormatJSON, fieldPayload, "must be an array of byte values", nil)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, wrongType(FormatJSON, fieldPayload, "must be an array of byte values", err)
	}
	payload := make([]byte, len(items))
	for i, item := range items {
		if len(item) == 0 || item[0] < '0' || item[0] > '9' {
			return nil, wrongType(FormatJSON, fieldPayload, "element "+strconv.Itoa(i)+" is not a byte value", nil)
		}
		v, err := strconv.ParseUint(string(item), 10, 8)
		if err != nil {
			return nil, wrongType(FormatJSON, fieldPayload, "element "+strconv.Itoa(i)+" is not a byte value", err)
		}
		payload[i] = byte(v)
	}
	return payload, nil
}
