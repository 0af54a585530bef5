package postcard

import (
	"strconv"

	"github.com/unkn0wn-root/postcard/schema"
)

var defaultEncoder = NewEncoder(EncodeOptions{})

// Encode returns the encoding of v under s with default options (sorted map
// entries). It only fails when v does not conform to s.
func Encode(v Value, s *schema.Schema) ([]byte, error) {
	return defaultEncoder.Encode(v, s)
}

// Encodable is implemented by hand-written types that know their own layout.
type Encodable interface {
	EncodePostcard(*Serializer) error
}

// Decodable is the decoding counterpart of Encodable.
type Decodable interface {
	DecodePostcard(*Deserializer) error
}

// Codable types implement both directions.
type Codable interface {
	Encodable
	Decodable
}

// Marshal encodes v with its own EncodePostcard method.
func Marshal(v Encodable) ([]byte, error) {
	ser := NewSerializer(0)
	if err := v.EncodePostcard(ser); err != nil {
		return nil, err
	}
	return ser.Bytes(), nil
}

// Unmarshal decodes b into v and requires that all of b is consumed.
func Unmarshal(b []byte, v Decodable) error {
	d := NewDeserializer(b)
	if err := v.DecodePostcard(d); err != nil {
		return err
	}
	if n := d.Remaining(); n > 0 {
		return &DecodeError{Offset: d.Offset(), Detail: strconv.Itoa(n) + " bytes left", Err: ErrTrailingBytes}
	}
	return nil
}
