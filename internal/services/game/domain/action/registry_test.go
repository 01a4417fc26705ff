package action

import (
	"errors"
	"testing"

	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
)

type fakeCodec struct {
	format Format
}

func (f fakeCodec) Format() Format                   { return f.format }
func (fakeCodec) Encode(GameAction) ([]byte, error) { return nil, nil }
func (fakeCodec) Decode([]byte) (GameAction, error) { return GameAction{}, nil }

func TestDefaultRegistryHasBuiltInFormats(t *testing.T) {
	r := DefaultRegistry()
	want := []Format{FormatJSON, FormatCBOR, FormatProto}
	got := r.Formats()
	if len(got) != len(want) {
		t.Fatalf("Formats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Formats()[%d] = %s, want %s", i, got[i], want[i])
		}
		codec, err := r.Lookup(want[i])
		if err != nil {
			t.Fatalf("lookup %s: %v", want[i], err)
		}
		if codec.Format() != want[i] {
			t.Fatalf("codec format = %s, want %s", codec.Format(), want[i])
		}
	}
	if DefaultRegistry() != r {
		t.Fatal("expected default registry to be shared")
	}
}

func TestRegistryLookupUnknownFormat(t *testing.T) {
	_, err := DefaultRegistry().Lookup(Format("msgpack/v1"))
	if !errors.Is(err, apperrors.New(apperrors.CodeUnknownFormat, "")) {
		t.Fatalf("expected unknown format error, got %v", err)
	}
	if apperrors.StatusOf(err) != apperrors.StatusUnknownFormat {
		t.Fatalf("unexpected status %d", apperrors.StatusOf(err))
	}
}

func TestNewRegistryValidation(t *testing.T) {
	if _, err := NewRegistry(JSONCodec{}, JSONCodec{}); err == nil {
		t.Fatal("expected duplicate format error")
	}
	if _, err := NewRegistry(nil); err == nil {
		t.Fatal("expected nil codec error")
	}
	if _, err := NewRegistry(fakeCodec{format: "bogus"}); err == nil {
		t.Fatal("expected invalid format error")
	}
	r, err := NewRegistry(fakeCodec{format: "fake/v3"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if _, err := r.Lookup(FormatJSON); err == nil {
		t.Fatal("expected custom registry to omit built-ins")
	}
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	if r.Formats() != nil {
		t.Fatal("expected nil formats")
	}
	if _, err := r.Lookup(FormatJSON); err == nil {
		t.Fatal("expected lookup error")
	}
}
