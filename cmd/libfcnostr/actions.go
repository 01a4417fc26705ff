package main

import (
	"strconv"
	"unsafe"

	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/domain/action"
)

func codecFor(formatID int32) (action.Codec, error) {
	format, ok := abiFormats[formatID]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeUnknownFormat, "unknown format id", map[string]string{
			"format_id": strconv.FormatInt(int64(formatID), 10),
		})
	}
	return action.DefaultRegistry().Lookup(format)
}

// borrow views caller memory without copying. The view must not outlive
// the call.
func borrow(ptr unsafe.Pointer, n uintptr, name string) ([]byte, error) {
	if n > MaxBufferLen {
		return nil, apperrors.WithMetadata(apperrors.CodeTooLarge, name+" exceeds maximum length", map[string]string{
			"len": strconv.FormatUint(uint64(n), 10),
		})
	}
	if n == 0 {
		return nil, nil
	}
	if ptr == nil {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, name+" is NULL with non-zero length")
	}
	return unsafe.Slice((*byte)(ptr), n), nil
}

// actionEncode backs fcn_action_encode.
func actionEncode(formatID int32, turn uint64, payload unsafe.Pointer, payloadLen uintptr, out *unsafe.Pointer, outLen *uintptr) apperrors.Status {
	return guard("action_encode", func() apperrors.Status {
		if out != nil {
			*out = nil
		}
		if outLen != nil {
			*outLen = 0
		}
		if out == nil || outLen == nil {
			return report("action_encode", apperrors.New(apperrors.CodeInvalidArgument, "out and out_len are required"))
		}

		data, err := borrow(payload, payloadLen, "payload")
		if err != nil {
			return report("action_encode", err)
		}
		codec, err := codecFor(formatID)
		if err != nil {
			return report("action_encode", err)
		}
		encoded, err := codec.Encode(action.New(turn, data))
		if err != nil {
			return report("action_encode", err)
		}
		buf, err := buffers.alloc(encoded)
		if err != nil {
			return report("action_encode", err)
		}
		*out = buf
		*outLen = uintptr(len(encoded))
		return apperrors.StatusOK
	})
}

// actionDecode backs fcn_action_decode.
func actionDecode(formatID int32, data unsafe.Pointer, dataLen uintptr, outTurn *uint64, outPayload *unsafe.Pointer, outPayloadLen *uintptr) apperrors.Status {
	return guard("action_decode", func() apperrors.Status {
		if outTurn != nil {
			*outTurn = 0
		}
		if outPayload != nil {
			*outPayload = nil
		}
		if outPayloadLen != nil {
			*outPayloadLen = 0
		}
		if outTurn == nil || outPayload == nil || outPayloadLen == nil {
			return report("action_decode", apperrors.New(apperrors.CodeInvalidArgument, "out_turn, out_payload and out_payload_len are required"))
		}

		input, err := borrow(data, dataLen, "data")
		if err != nil {
			return report("action_decode", err)
		}
		codec, err := codecFor(formatID)
		if err != nil {
			return report("action_decode", err)
		}
		decoded, err := codec.Decode(input)
		if err != nil {
			return report("action_decode", err)
		}
		payload := decoded.Payload()
		buf, err := buffers.alloc(payload)
		if err != nil {
			return report("action_decode", err)
		}
		*outTurn = decoded.Turn()
		*outPayload = buf
		*outPayloadLen = uintptr(len(payload))
		return apperrors.StatusOK
	})
}
