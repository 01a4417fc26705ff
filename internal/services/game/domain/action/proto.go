package action

import (
	"bytes"
	"strconv"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the proto/v1 message:
//
//	message GameAction {
//	  uint64 turn = 1;
//	  bytes payload = 2;
//	}
const (
	protoFieldTurn    protowire.Number = 1
	protoFieldPayload protowire.Number = 2
)

// ProtoCodec implements FormatProto, wire-compatible with the message above.
//
// Unlike generic protobuf decoding, both fields are required (the encoder
// always emits them, even when zero), and unknown or repeated fields are
// rejected so a decoded action is never silently defaulted.
type ProtoCodec struct{}

// Format implements Codec.
func (ProtoCodec) Format() Format {
	return FormatProto
}

// Encode implements Codec.
func (ProtoCodec) Encode(a GameAction) ([]byte, error) {
	buf := make([]byte, 0, 2*protowire.SizeTag(1)+protowire.SizeVarint(a.turn)+protowire.SizeBytes(len(a.payload)))
	buf = protowire.AppendTag(buf, protoFieldTurn, protowire.VarintType)
	buf = protowire.AppendVarint(buf, a.turn)
	buf = protowire.AppendTag(buf, protoFieldPayload, protowire.BytesType)
	buf = protowire.AppendBytes(buf, a.payload)
	return buf, nil
}

// Decode implements Codec.
func (ProtoCodec) Decode(data []byte) (GameAction, error) {
	var (
		turn              uint64
		payload           []byte
		haveTurn, havePay bool
	)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return GameAction{}, structural(FormatProto, "", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case protoFieldTurn:
			if typ != protowire.VarintType {
				return GameAction{}, wrongType(FormatProto, fieldTurn, "must be a varint", nil)
			}
			if haveTurn {
				return GameAction{}, duplicateField(FormatProto, fieldTurn)
			}
			v, m := protowire.ConsumeVarint(data)
			if m < 0 {
				return GameAction{}, structural(FormatProto, fieldTurn, protowire.ParseError(m))
			}
			data = data[m:]
			turn, haveTurn = v, true
		case protoFieldPayload:
			if typ != protowire.BytesType {
				return GameAction{}, wrongType(FormatProto, fieldPayload, "must be length-delimited bytes", nil)
			}
			if havePay {
				return GameAction{}, duplicateField(FormatProto, fieldPayload)
			}
			v, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return GameAction{}, structural(FormatProto, fieldPayload, protowire.ParseError(m))
			}
			data = data[m:]
			payload, havePay = bytes.Clone(v), true
		default:
			return GameAction{}, unknownField(FormatProto, "#"+strconv.Itoa(int(num)))
		}
	}

	if !haveTurn {
		return GameAction{}, missingField(FormatProto, fieldTurn)
	}
	if !havePay {
		return GameAction{}, missingField(FormatProto, fieldPayload)
	}
	return GameAction{turn: turn, payload: payload}, nil
}
