package action

import (
	"fmt"
	"sync"

	apperrors "github.com/louisbranch/freeciv-nostr/internal/platform/errors"
)

// Registry resolves formats to codecs.
type Registry struct {
	codecs map[Format]Codec
	order  []Format
}

// NewRegistry builds a registry; registering the same format twice fails.
func NewRegistry(codecs ...Codec) (*Registry, error) {
	r := &Registry{codecs: make(map[Format]Codec, len(codecs))}
	for _, codec := range codecs {
		if err := r.register(codec); err != nil {
			return nil, err
		}
	}
	return r, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := NewRegistry(JSONCodec{}, CBORCodec{}, ProtoCodec{})
	if err != nil {
		panic(err)
	}
	return r
})

// DefaultRegistry returns the process-wide registry holding every built-in
// codec.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

func (r *Registry) register(codec Codec) error {
	if codec == nil {
		return fmt.Errorf("codec is required")
	}
	format := codec.Format()
	if format.Name() == "" || format.Version() == 0 {
		return fmt.Errorf("codec format %q is invalid", format)
	}
	if _, exists := r.codecs[format]; exists {
		return fmt.Errorf("codec for %s already registered", format)
	}
	r.codecs[format] = codec
	r.order = append(r.order, format)
	return nil
}

// Lookup returns the codec for format.
func (r *Registry) Lookup(format Format) (Codec, error) {
	if r != nil {
		if codec, ok := r.codecs[format]; ok {
			return codec, nil
		}
	}
	return nil, apperrors.WithMetadata(apperrors.CodeUnknownFormat,
		fmt.Sprintf("no codec registered for %q", format),
		map[string]string{"format": string(format)})
}

// Formats lists registered formats in registration order.
func (r *Registry) Formats() []Format {
	if r == nil {
		return nil
	}
	return append([]Format(nil), r.order...)
}
