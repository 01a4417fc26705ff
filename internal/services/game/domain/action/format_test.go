package action

import (
	"errors"
	"testing"

	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		raw     string
		want    Format
		wantErr bool
	}{
		{raw: "", want: FormatJSON},
		{raw: "json/v1", want: FormatJSON},
		{raw: " CBOR/V1 ", want: FormatCBOR},
		{raw: "proto", want: FormatProto},
		{raw: "json/v2", want: Format("json/v2")},
		{raw: "json/vx", wantErr: true},
		{raw: "json/v0", wantErr: true},
		{raw: "/v1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseFormat(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, apperrors.New(apperrors.CodeUnknownFormat, "")) {
					t.Fatalf("expected unknown format error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseFormat(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatParts(t *testing.T) {
	if FormatCBOR.Name() != "cbor" || FormatCBOR.Version() != 1 {
		t.Fatalf("unexpected parts for %s", FormatCBOR)
	}
	if !FormatJSON.IsText() || FormatProto.IsText() || FormatCBOR.IsText() {
		t.Fatal("unexpected text classification")
	}
	if Format("json").Version() != 0 {
		t.Fatal("expected version 0 for unversioned identifier")
	}
}
