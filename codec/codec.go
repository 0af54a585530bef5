// Package codec turns Go values into bytes and back. The postcard codecs
// carry fixture payloads; the self-describing ones (CBOR, msgpack, JSON,
// protobuf) carry manifests and inspection exports.
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
