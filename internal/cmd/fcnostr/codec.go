package fcnostr

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/freeciv-nostr/internal/platform/buildinfo"
	entrypoint "github.com/louisbranch/freeciv-nostr/internal/platform/cmd"
	"github.com/louisbranch/freeciv-nostr/internal/services/game/domain/action"
)

// maxInputLen bounds stdin reads.
const maxInputLen = 64 << 20

func runVersion(_ context.Context, env *runEnv, args []string) error {
	fs := env.newFlagSet("version")
	long := fs.Bool("long", false, "also print commit and build date")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(env.io.Out, buildinfo.String()); err != nil {
		return err
	}
	if !*long {
		return nil
	}
	info := buildinfo.Current()
	_, err := fmt.Fprintf(env.io.Out, "commit: %s\ndate: %s\n", info.Commit, info.Date)
	return err
}

func runEncode(_ context.Context, env *runEnv, args []string) error {
	fs := env.newFlagSet("encode")
	turn := fs.Uint64("turn", 0, "turn number")
	payloadHex := fs.String("payload", "", "payload bytes as hex")
	format := fs.String("format", "", "wire format (json/v1, cbor/v1, proto/v1)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return err
	}

	payload, err := hex.DecodeString(strings.TrimSpace(*payloadHex))
	if err != nil {
		return fmt.Errorf("%w: -payload must be hex: %v", ErrUsage, err)
	}
	codec, err := env.codec(*format)
	if err != nil {
		return err
	}
	encoded, err := codec.Encode(action.New(*turn, payload))
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if codec.Format().IsText() {
		_, err = fmt.Fprintf(env.io.Out, "%s\n", encoded)
	} else {
		_, err = fmt.Fprintln(env.io.Out, hex.EncodeToString(encoded))
	}
	return err
}

func runDecode(_ context.Context, env *runEnv, args []string) error {
	fs := env.newFlagSet("decode")
	format := fs.String("format", "", "wire format (json/v1, cbor/v1, proto/v1)")
	hexInput := fs.Bool("hex", false, "stdin holds the encoding as hex text")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return err
	}
	codec, err := env.codec(*format)
	if err != nil {
		return err
	}

	data, err := readInput(env.io.In)
	if err != nil {
		return err
	}
	if *hexInput {
		data, err = hex.DecodeString(string(bytes.TrimSpace(data)))
		if err != nil {
			return fmt.Errorf("%w: stdin is not hex: %v", ErrUsage, err)
		}
	} else if codec.Format().IsText() {
		data = bytes.TrimSpace(data)
	}

	decoded, err := codec.Decode(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(env.io.Out, "turn=%d payload=%s\n", decoded.Turn(), hex.EncodeToString(decoded.Payload()))
	return err
}

func readInput(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInputLen+1))
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(data) > maxInputLen {
		return nil, fmt.Errorf("stdin exceeds %d bytes", maxInputLen)
	}
	return data, nil
}
