package main

import (
	"bytes"
	"testing"
	"unsafe"

	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/domain/action"
)

const (
	formatJSON  int32 = 1
	formatCBOR  int32 = 2
	formatProto int32 = 3
)

func bytesPtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}

// encode calls actionEncode and copies the boundary buffer before freeing it.
func encode(t *testing.T, format int32, turn uint64, payload []byte) ([]byte, apperrors.Status) {
	t.Helper()
	var (
		out    unsafe.Pointer
		outLen uintptr
	)
	status := actionEncode(format, turn, bytesPtr(payload), uintptr(len(payload)), &out, &outLen)
	if status != apperrors.StatusOK {
		if out != nil || outLen != 0 {
			t.Fatalf("failed encode left out=%p out_len=%d", out, outLen)
		}
		return nil, status
	}
	encoded := bytes.Clone(unsafe.Slice((*byte)(out), outLen))
	if err := buffers.free(out); err != nil {
		t.Fatalf("free encoded buffer: %v", err)
	}
	return encoded, status
}

func decode(t *testing.T, format int32, data []byte) (uint64, []byte, apperrors.Status) {
	t.Helper()
	var (
		turn       uint64
		payload    unsafe.Pointer
		payloadLen uintptr
	)
	status := actionDecode(format, bytesPtr(data), uintptr(len(data)), &turn, &payload, &payloadLen)
	if status != apperrors.StatusOK {
		if turn != 0 || payload != nil || payloadLen != 0 {
			t.Fatalf("failed decode left outputs set")
		}
		return 0, nil, status
	}
	if payloadLen == 0 {
		if payload != nil {
			t.Fatal("empty payload should be NULL")
		}
		return turn, nil, status
	}
	copied := bytes.Clone(unsafe.Slice((*byte)(payload), payloadLen))
	if err := buffers.free(payload); err != nil {
		t.Fatalf("free payload buffer: %v", err)
	}
	return turn, copied, status
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payloads := [][]byte{nil, {0}, {1, 2, 3, 4}, bytes.Repeat([]byte{0xab}, 4096)}
	for _, format := range []int32{formatJSON, formatCBOR, formatProto} {
		for _, payload := range payloads {
			before := buffers.outstanding()
			encoded, status := encode(t, format, 42, payload)
			if status != apperrors.StatusOK {
				t.Fatalf("format %d: encode status = %d", format, status)
			}
			turn, got, status := decode(t, format, encoded)
			if status != apperrors.StatusOK {
				t.Fatalf("format %d: decode status = %d", format, status)
			}
			if turn != 42 || !bytes.Equal(got, payload) {
				t.Fatalf("format %d: round trip = (%d, %x), want (42, %x)", format, turn, got, payload)
			}
			if after := buffers.outstanding(); after != before {
				t.Fatalf("format %d: outstanding buffers %d -> %d", format, before, after)
			}
		}
	}
}

func TestEncodeMatchesCodec(t *testing.T) {
	got, status := encode(t, formatJSON, 42, []byte{1, 2, 3, 4})
	if status != apperrors.StatusOK {
		t.Fatalf("encode status = %d", status)
	}
	if want := `{"turn":42,"payload":[1,2,3,4]}`; string(got) != want {
		t.Fatalf("encoded = %s, want %s", got, want)
	}
	want, err := action.ProtoCodec{}.Encode(action.New(7, []byte("x")))
	if err != nil {
		t.Fatalf("proto encode: %v", err)
	}
	got, _ = encode(t, formatProto, 7, []byte("x"))
	if !bytes.Equal(got, want) {
		t.Fatalf("proto = %x, want %x", got, want)
	}
}

func TestEncodeOutputMayExceedInputLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates more than 64 MiB")
	}
	payload := bytes.Repeat([]byte{0xff}, 17<<20)
	before := buffers.outstanding()
	encoded, status := encode(t, formatJSON, 7, payload)
	if status != apperrors.StatusOK {
		t.Fatalf("encode status = %d, want %d", status, apperrors.StatusOK)
	}
	if len(encoded) <= MaxBufferLen {
		t.Fatalf("encoded len = %d, want more than %d", len(encoded), MaxBufferLen)
	}
	if after := buffers.outstanding(); after != before {
		t.Fatalf("outstanding buffers = %d, want %d", after, before)
	}
}

func TestEncodeFailures(t *testing.T) {
	var (
		out    unsafe.Pointer
		outLen uintptr
	)
	tests := []struct {
		name   string
		call   func() apperrors.Status
		status apperrors.Status
	}{
		{
			name:   "unknown format",
			call:   func() apperrors.Status { return actionEncode(9, 1, nil, 0, &out, &outLen) },
			status: apperrors.StatusUnknownFormat,
		},
		{
			name:   "null out",
			call:   func() apperrors.Status { return actionEncode(formatJSON, 1, nil, 0, nil, &outLen) },
			status: apperrors.StatusInvalidArgument,
		},
		{
			name:   "null out len",
			call:   func() apperrors.Status { return actionEncode(formatJSON, 1, nil, 0, &out, nil) },
			status: apperrors.StatusInvalidArgument,
		},
		{
			name:   "null payload with length",
			call:   func() apperrors.Status { return actionEncode(formatJSON, 1, nil, 3, &out, &outLen) },
			status: apperrors.StatusInvalidArgument,
		},
		{
			name:   "payload too large",
			call:   func() apperrors.Status { return actionEncode(formatJSON, 1, nil, MaxBufferLen+1, &out, &outLen) },
			status: apperrors.StatusTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, outLen = unsafe.Pointer(&tt), 99
			if got := tt.call(); got != tt.status {
				t.Fatalf("status = %d, want %d", got, tt.status)
			}
			if tt.name != "null out" && out != nil {
				t.Fatal("out should be reset to NULL")
			}
			if tt.name != "null out len" && outLen != 0 {
				t.Fatal("out_len should be reset to 0")
			}
		})
	}
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name   string
		format int32
		data   []byte
		status apperrors.Status
	}{
		{name: "empty json", format: formatJSON, data: nil, status: apperrors.StatusDecode},
		{name: "missing turn", format: formatJSON, data: []byte(`{"payload":[]}`), status: apperrors.StatusDecode},
		{name: "byte out of range", format: formatJSON, data: []byte(`{"turn":1,"payload":[256]}`), status: apperrors.StatusDecode},
		{name: "cbor garbage", format: formatCBOR, data: []byte{0xff}, status: apperrors.StatusDecode},
		{name: "proto truncated", format: formatProto, data: []byte{0x08}, status: apperrors.StatusDecode},
		{name: "unknown format", format: 0, data: []byte(`{}`), status: apperrors.StatusUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, got := decode(t, tt.format, tt.data); got != tt.status {
				t.Fatalf("status = %d, want %d", got, tt.status)
			}
		})
	}
}

func TestDecodeRequiresOutputs(t *testing.T) {
	data := []byte(`{"turn":1,"payload":[]}`)
	var payload unsafe.Pointer
	var payloadLen uintptr
	if got := actionDecode(formatJSON, bytesPtr(data), uintptr(len(data)), nil, &payload, &payloadLen); got != apperrors.StatusInvalidArgument {
		t.Fatalf("status = %d, want %d", got, apperrors.StatusInvalidArgument)
	}
}

func TestExportedEncodeReturnsHeaderStatus(t *testing.T) {
	if got := fcn_action_encode(42, 1, nil, 0, nil, nil); int32(got) != int32(apperrors.StatusInvalidArgument) {
		t.Fatalf("fcn_action_encode = %d, want %d", int32(got), int32(apperrors.StatusInvalidArgument))
	}
	if got := fcn_action_decode(1, nil, 0, nil, nil, nil); int32(got) != int32(apperrors.StatusInvalidArgument) {
		t.Fatalf("fcn_action_decode = %d, want %d", int32(got), int32(apperrors.StatusInvalidArgument))
	}
}

func TestGuardRecoversPanic(t *testing.T) {
	got := guard("test", func() apperrors.Status {
		panic("boom")
	})
	if got != apperrors.StatusInternal {
		t.Fatalf("status = %d, want %d", got, apperrors.StatusInternal)
	}
}
