package action

import (
	"bytes"
	"errors"
	"math"
	"testing"

	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
)

func allCodecs() []Codec {
	return []Codec{JSONCodec{}, CBORCodec{}, ProtoCodec{}}
}

func roundTripCases() map[string]GameAction {
	every := make([]byte, 256)
	for i := range every {
		every[i] = byte(i)
	}
	large := bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef}, 1<<18)

	return map[string]GameAction{
		"turn 42 payload 1..4":  New(42, []byte{1, 2, 3, 4}),
		"turn 0 empty payload":  New(0, []byte{}),
		"turn 0 nil payload":    New(0, nil),
		"max turn":              New(math.MaxUint64, []byte{7}),
		"every byte value":      New(1, every),
		"large payload (1 MiB)": New(99, large),
		"zero value":            {},
	}
}

func TestRoundTripAllCodecs(t *testing.T) {
	for _, codec := range allCodecs() {
		for name, want := range roundTripCases() {
			t.Run(string(codec.Format())+"/"+name, func(t *testing.T) {
				encoded, err := codec.Encode(want)
				if err != nil {
					t.Fatalf("encode: %v", err)
				}
				got, err := codec.Decode(encoded)
				if err != nil {
					t.Fatalf("decode: %v", err)
				}
				if !got.Equal(want) {
					t.Fatalf("round trip mismatch: got %s want %s", got, want)
				}
				if got.Turn() != want.Turn() || !bytes.Equal(got.Payload(), want.Payload()) {
					t.Fatal("field-level mismatch")
				}
			})
		}
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	for _, codec := range allCodecs() {
		t.Run(string(codec.Format()), func(t *testing.T) {
			a := New(42, []byte{1, 2, 3, 4})
			first, err := codec.Encode(a)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			second, err := codec.Encode(New(42, []byte{1, 2, 3, 4}))
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if !bytes.Equal(first, second) {
				t.Fatalf("encodings differ: %x vs %x", first, second)
			}
		})
	}
}

func TestNilAndEmptyPayloadEncodeIdentically(t *testing.T) {
	for _, codec := range allCodecs() {
		t.Run(string(codec.Format()), func(t *testing.T) {
			withNil, err := codec.Encode(New(3, nil))
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			withEmpty, err := codec.Encode(New(3, []byte{}))
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if !bytes.Equal(withNil, withEmpty) {
				t.Fatalf("nil %x vs empty %x", withNil, withEmpty)
			}
		})
	}
}

func TestDecodeTruncatedPrefixesAlwaysFail(t *testing.T) {
	for _, codec := range allCodecs() {
		t.Run(string(codec.Format()), func(t *testing.T) {
			encoded, err := codec.Encode(New(300, []byte{10, 20, 30}))
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			for n := 0; n < len(encoded); n++ {
				got, err := codec.Decode(encoded[:n])
				if err == nil {
					t.Fatalf("prefix %d/%d decoded to %s", n, len(encoded), got)
				}
				if !IsDecodeError(err) {
					t.Fatalf("prefix %d: expected DecodeError, got %T %v", n, err, err)
				}
				if !got.Equal(GameAction{}) {
					t.Fatalf("prefix %d: partially populated action %s", n, got)
				}
			}
		})
	}
}

func TestDecodeErrorMapsToDecodeStatus(t *testing.T) {
	for _, codec := range allCodecs() {
		t.Run(string(codec.Format()), func(t *testing.T) {
			_, err := codec.Decode([]byte{0xff, 0xff, 0xff})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.StatusOf(err); got != apperrors.StatusDecode {
				t.Fatalf("StatusOf() = %d, want %d (%v)", got, apperrors.StatusDecode, err)
			}
			var de *DecodeError
			if !errors.As(err, &de) || de.Format != codec.Format() {
				t.Fatalf("expected DecodeError for %s, got %v", codec.Format(), err)
			}
		})
	}
}

func TestPackageLevelEncodeDecodeUseJSON(t *testing.T) {
	a := New(42, []byte{1, 2, 3, 4})
	encoded, err := Encode(a)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(encoded) != `{"turn":42,"payload":[1,2,3,4]}` {
		t.Fatalf("Encode() = %s", encoded)
	}
	got, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Equal(a) {
		t.Fatalf("Decode() = %s", got)
	}
}
