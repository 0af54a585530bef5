package codec

import (
	"github.com/unkn0wn-root/postcard"
	"github.com/unkn0wn-root/postcard/schema"
)

// Postcard encodes dynamic values under a fixed schema. Decode requires the
// whole input to be consumed.
// The zero value is NOT ready to use. Construct with NewPostcard.
type Postcard struct {
	schema *schema.Schema
	enc    *postcard.Encoder
}

var _ Codec[postcard.Value] = Postcard{}

// NewPostcard validates s once and returns a codec bound to it.
func NewPostcard(s *schema.Schema, opts postcard.EncodeOptions) (Postcard, error) {
	if err := schema.Validate(s); err != nil {
		return Postcard{}, err
	}
	return Postcard{schema: s, enc: postcard.NewEncoder(opts)}, nil
}

// MustPostcard is like NewPostcard but panics on error. Meant for
// package-level variables over static schemas.
func MustPostcard(s *schema.Schema, opts postcard.EncodeOptions) Postcard {
	c, err := NewPostcard(s, opts)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Postcard) Schema() *schema.Schema { return c.schema }

func (c Postcard) Encode(v postcard.Value) ([]byte, error) { return c.enc.Encode(v, c.schema) }

func (c Postcard) Decode(b []byte) (postcard.Value, error) { return postcard.DecodeExact(b, c.schema) }

// Typed is a Codec for Go types with hand-written EncodePostcard and
// DecodePostcard methods on their pointer receiver:
//
//	var c codec.Codec[Weapon] = codec.Typed[Weapon, *Weapon]{}
type Typed[T any, P interface {
	*T
	postcard.Codable
}] struct{}

func (Typed[T, P]) Encode(v T) ([]byte, error) { return postcard.Marshal(P(&v)) }

func (Typed[T, P]) Decode(b []byte) (T, error) {
	var v T
	if err := postcard.Unmarshal(b, P(&v)); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
