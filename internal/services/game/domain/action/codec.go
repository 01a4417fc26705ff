package action

// Codec converts actions to and from one wire format. Implementations are
// stateless and safe for concurrent use.
type Codec interface {
	// Format identifies the encoding produced and accepted.
	Format() Format
	// Encode serializes a deterministically: equal actions yield equal bytes.
	Encode(a GameAction) ([]byte, error)
	// Decode reverses Encode or fails with a *DecodeError.
	Decode(data []byte) (GameAction, error)
}

// Encode serializes a in the default text format.
func Encode(a GameAction) ([]byte, error) {
	return JSONCodec{}.Encode(a)
}

// Decode parses the default text format.
func Decode(data []byte) (GameAction, error) {
	return JSONCodec{}.Decode(data)
}
