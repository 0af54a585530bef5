package postcard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/postcard/schema"
)

func TestDecodeUvarint300(t *testing.T) {
	v, rest, err := Decode([]byte{0xAC, 0x02}, schema.U64())
	require.NoError(t, err)
	require.Equal(t, Uint(300), v)
	require.Zero(t, rest)
}

func TestDecodeReportsRemainingBytes(t *testing.T) {
	v, rest, err := Decode([]byte{0x01, 0xFF, 0xFF}, schema.Bool())
	require.NoError(t, err)
	require.Equal(t, Bool(true), v)
	require.Equal(t, 2, rest)

	_, err = DecodeExact([]byte{0x01, 0xFF, 0xFF}, schema.Bool())
	require.ErrorIs(t, err, ErrTrailingBytes)
}

func TestDecodeErrors(t *testing.T) {
	inner := schema.Struct("InnerStruct", schema.F("id", schema.U64()), schema.F("name", schema.String()))
	cases := []struct {
		name string
		in   []byte
		s    *schema.Schema
		want error
	}{
		{"empty bool", nil, schema.Bool(), ErrTruncatedInput},
		{"bool 2", []byte{0x02}, schema.Bool(), ErrInvalidBool},
		{"unterminated varint", []byte{0x80, 0x80}, schema.U64(), ErrMalformedVarint},
		{"u8 empty", nil, schema.U8(), ErrTruncatedInput},
		{"u16 too many groups", []byte{0x80, 0x80, 0x80, 0x01}, schema.U16(), ErrMalformedVarint},
		{"u64 eleven groups", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x81, 0x00}, schema.U64(), ErrMalformedVarint},
		{"i8 empty", []byte{}, schema.I8(), ErrTruncatedInput},
		{"vec u8 short", []byte{0x02, 0xC8}, schema.Vec(schema.U8()), ErrTruncatedInput},
		{"f32 short", []byte{0x00, 0x00, 0x80}, schema.F32(), ErrTruncatedInput},
		{"string short", []byte{0x05, 'a', 'b'}, schema.String(), ErrTruncatedInput},
		{"string utf8", []byte{0x02, 0xC3, 0x28}, schema.String(), ErrInvalidUtf8},
		{"char surrogate", []byte{0x80, 0xB0, 0x03}, schema.Char(), ErrInvalidUtf8},
		{"char beyond max", []byte{0x80, 0x80, 0x44}, schema.Char(), ErrInvalidUtf8},
		{"option tag 2", []byte{0x02}, schema.Option(schema.I32()), ErrInvalidOptionTag},
		{"option tag ff", []byte{0xFF, 0x00}, schema.Option(schema.I32()), ErrInvalidOptionTag},
		{"option truncated payload", []byte{0x01}, schema.Option(schema.I32()), ErrTruncatedInput},
		{"unknown variant", []byte{0x03}, schema.CLikeEnum("Element", "Fire", "Ice", "Lightning"), ErrUnknownVariant},
		{"vec count exceeds input", []byte{0x05, 0x01}, schema.Vec(schema.U8()), ErrTruncatedInput},
		{"vec element truncated", []byte{0x02, 0x01, 0x04, 'f'}, schema.Vec(inner), ErrTruncatedInput},
		{"array truncated", []byte{0x01, 0x02, 0x03}, schema.Array(schema.U32(), 4), ErrTruncatedInput},
		{"map truncated", []byte{0x02, 0x01, 'a', 0x02}, schema.Map(schema.String(), schema.I32()), ErrTruncatedInput},
		{"map duplicate key", []byte{0x02, 0x01, 'a', 0x02, 0x01, 'a', 0x04}, schema.Map(schema.String(), schema.I32()), ErrDuplicateMapKey},
		{"struct missing field", []byte{0x01}, inner, ErrTruncatedInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, _, err := Decode(tc.in, tc.s)
			require.ErrorIs(t, err, tc.want)
			require.Nil(t, v)

			var de *DecodeError
			require.ErrorAs(t, err, &de)
			require.NotEmpty(t, de.Path)
		})
	}
}

func TestDecodeErrorLocatesFailure(t *testing.T) {
	s := schema.Struct("Weapon",
		schema.F("name", schema.String()),
		schema.F("damage", schema.U16()),
		schema.F("element", schema.Option(schema.CLikeEnum("Element", "Fire", "Ice", "Lightning"))),
	)
	in := []byte{0x01, 'x', 0x32, 0x01, 0x09}
	_, _, err := Decode(in, s)
	require.ErrorIs(t, err, ErrUnknownVariant)

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	require.Equal(t, 4, de.Offset)
	require.Equal(t, "$.element?", de.Path)
	require.Contains(t, err.Error(), "offset 4")
}

func TestDecodeEmptyContainers(t *testing.T) {
	v, err := DecodeExact([]byte{0x00}, schema.Vec(schema.String()))
	require.NoError(t, err)
	require.Equal(t, Seq{}, v)

	v, err = DecodeExact([]byte{0x00}, schema.Map(schema.String(), schema.I32()))
	require.NoError(t, err)
	require.Equal(t, Map{}, v)

	v, err = DecodeExact([]byte{0x00}, schema.String())
	require.NoError(t, err)
	require.Equal(t, String(""), v)

	v, err = DecodeExact([]byte{0x00}, schema.Bytes())
	require.NoError(t, err)
	require.Equal(t, Bytes{}, v)
}

func TestDecodeZeroSizedElements(t *testing.T) {
	s := schema.Vec(schema.UnitStruct("Marker"))
	v, err := DecodeExact([]byte{0x03}, s)
	require.NoError(t, err)
	require.Equal(t, Seq{Unit{}, Unit{}, Unit{}}, v)
}

func TestDecodeZeroSizedElementLimit(t *testing.T) {
	s := schema.Vec(schema.UnitStruct("Marker"))
	// 1<<24 elements announced by four bytes
	_, _, err := Decode([]byte{0x80, 0x80, 0x80, 0x08}, s)
	require.ErrorIs(t, err, ErrTruncatedInput)

	// one past the limit
	_, _, err = Decode([]byte{0x81, 0x80, 0x40}, s)
	require.ErrorIs(t, err, ErrTruncatedInput)

	_, _, err = Decode([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x7F}, schema.Vec(schema.Tuple()))
	require.ErrorIs(t, err, ErrTruncatedInput)

	_, _, err = Decode([]byte{0x80, 0x80, 0x80, 0x08}, schema.Map(schema.Tuple(), schema.UnitStruct("U")))
	require.ErrorIs(t, err, ErrTruncatedInput)
}

func TestDecodeEightBitRaw(t *testing.T) {
	v, err := DecodeExact([]byte{0x03, 0xC8, 0x01, 0xFF}, schema.Vec(schema.U8()))
	require.NoError(t, err)
	require.Equal(t, Seq{Uint(200), Uint(1), Uint(255)}, v)

	v, err = DecodeExact([]byte{0x80}, schema.I8())
	require.NoError(t, err)
	require.Equal(t, Int(-128), v)
}

func TestDecodeCopiesBytes(t *testing.T) {
	in := []byte{0x02, 0xAA, 0xBB}
	v, err := DecodeExact(in, schema.Bytes())
	require.NoError(t, err)
	in[1] = 0x00
	require.Equal(t, Bytes{0xAA, 0xBB}, v)
}

func TestDecodeRecursiveSchema(t *testing.T) {
	node := &schema.Schema{Kind: schema.KindStruct, Name: "Node"}
	node.Fields = []schema.Field{schema.F("value", schema.I32()), schema.F("next", schema.Option(node))}

	list := Struct(Int(1), Some(Struct(Int(2), Some(Struct(Int(3), None)))))
	b := roundTrip(t, list, node)
	require.Equal(t, []byte{0x02, 0x01, 0x04, 0x01, 0x06, 0x00}, b)
}
