package codec

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Protobuf is a Codec for a concrete generated message type.
type Protobuf[T proto.Message] struct {
	new func() T // constructor, e.g. func() *structpb.Value { return &structpb.Value{} }
	det bool
}

// NewProtobuf returns a codec that allocates messages with ctor. Deterministic
// marshaling orders map fields so equal messages produce equal bytes.
func NewProtobuf[T proto.Message](ctor func() T, deterministic bool) Protobuf[T] {
	return Protobuf[T]{new: ctor, det: deterministic}
}

// StructValue is the protobuf codec used for inspection exports.
func StructValue() Protobuf[*structpb.Value] {
	return NewProtobuf(func() *structpb.Value { return &structpb.Value{} }, true)
}

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.MarshalOptions{Deterministic: c.det}.Marshal(v)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}
