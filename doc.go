// Package postcard implements a compact, non self-describing binary format
// and its schema driven encoder and decoder.
//
// The stream carries no field names and no type tags. Both sides share a
// schema.Schema describing the shape of the value; encoding rules follow from
// the shape kind:
//
//	bool                 one byte, 0x00 or 0x01
//	u8 / i8              one raw byte (two's complement for i8)
//	u16 .. u128          unsigned varint (7 bits per byte, LSB group first)
//	i16 .. i128          zig-zag folded, then unsigned varint
//	f32 / f64            IEEE 754, little-endian, bit for bit
//	char                 codepoint as unsigned varint
//	string / bytes       varint length + raw bytes
//	Vec<T>               varint count + elements
//	[T; N], tuples       elements only
//	Option<T>            0x00, or 0x01 + value
//	map                  varint count + (key, value) pairs
//	struct               fields in declaration order
//	enum                 varint variant index + payload
//	newtype              the wrapped value
//	unit struct          nothing
//
// Components:
//   - Value: the in-memory data model (Bool, Int, Seq, Record, Variant, ...).
//   - Encoder / Decode: schema driven conversion between Value and bytes.
//   - Serializer / Deserializer: primitive streams for hand-written
//     Encodable / Decodable types. Both paths produce identical bytes.
//
// Decoding fails with one of ErrTruncatedInput, ErrMalformedVarint,
// ErrUnknownVariant, ErrInvalidOptionTag, ErrInvalidUtf8, ErrInvalidBool,
// ErrDuplicateMapKey and, for DecodeExact, ErrTrailingBytes, wrapped in a
// *DecodeError that carries the offset and the value path.
//
// Nothing in this package holds shared state; all functions are safe for
// concurrent use on independent inputs.
//
// Example:
//
//	s := schema.Option(schema.I32())
//	b, _ := postcard.Encode(postcard.Some(postcard.Int(5)), s) // 01 0a
//	v, err := postcard.DecodeExact(b, s)
package postcard
