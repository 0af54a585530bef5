package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/unkn0wn-root/postcard"
	"github.com/unkn0wn-root/postcard/fixtures"
	"github.com/unkn0wn-root/postcard/schema"
)

func TestPostcardCodec(t *testing.T) {
	for _, f := range fixtures.All() {
		c := MustPostcard(f.Schema, postcard.EncodeOptions{})
		b, err := c.Encode(f.Value)
		require.NoError(t, err, f.Name)

		got, err := c.Decode(b)
		require.NoError(t, err, f.Name)
		require.True(t, postcard.Equal(f.Value, got), f.Name)
	}

	c := MustPostcard(schema.U16(), postcard.EncodeOptions{})
	_, err := c.Decode([]byte{0x01, 0x02})
	require.ErrorIs(t, err, postcard.ErrTrailingBytes)
	_, err = c.Encode(postcard.Uint(70000))
	require.ErrorIs(t, err, postcard.ErrSchemaMismatch)

	_, err = NewPostcard(&schema.Schema{Kind: schema.KindSeq}, postcard.EncodeOptions{})
	require.ErrorIs(t, err, schema.ErrInvalid)
	require.Panics(t, func() { MustPostcard(nil, postcard.EncodeOptions{}) })
}

func TestTypedCodec(t *testing.T) {
	ice := fixtures.Ice
	var c Codec[fixtures.WeaponT] = Typed[fixtures.WeaponT, *fixtures.WeaponT]{}
	in := fixtures.WeaponT{Name: "Frost Bow", Damage: 35, Element: &ice}

	b, err := c.Encode(in)
	require.NoError(t, err)

	dyn := MustPostcard(fixtures.Weapon, postcard.EncodeOptions{})
	want, err := dyn.Encode(postcard.Struct(
		postcard.String("Frost Bow"), postcard.Uint(35), postcard.Some(postcard.UnitVariant(fixtures.ElementIce)),
	))
	require.NoError(t, err)
	require.Equal(t, want, b)

	out, err := c.Decode(b)
	require.NoError(t, err)
	require.Equal(t, in, out)

	out, err = c.Decode(b[:len(b)-1])
	require.ErrorIs(t, err, postcard.ErrTruncatedInput)
	require.Equal(t, fixtures.WeaponT{}, out)
}

type manifestLike struct {
	Name string            `json:"name" msgpack:"name" cbor:"name"`
	Tags map[string]uint64 `json:"tags" msgpack:"tags" cbor:"tags"`
}

func TestSelfDescribingCodecs(t *testing.T) {
	in := manifestLike{Name: "nested.bin", Tags: map[string]uint64{"z": 1, "a": 2, "m": 3}}
	codecs := map[string]Codec[manifestLike]{
		"cbor":         MustCBOR[manifestLike](true),
		"cbor-fast":    MustCBOR[manifestLike](false),
		"msgpack":      Msgpack[manifestLike]{},
		"json":         JSON[manifestLike]{},
		"json-compact": JSON[manifestLike]{Compact: true},
	}
	for name, c := range codecs {
		b, err := c.Encode(in)
		require.NoError(t, err, name)
		out, err := c.Decode(b)
		require.NoError(t, err, name)
		require.Equal(t, in, out, name)
	}
}

func TestDeterministicOutput(t *testing.T) {
	a := map[string]any{"b": uint64(1), "a": "x", "c": []any{true}}
	for name, c := range map[string]Codec[map[string]any]{
		"cbor":    MustCBOR[map[string]any](true),
		"msgpack": Msgpack[map[string]any]{},
	} {
		first, err := c.Encode(a)
		require.NoError(t, err, name)
		for i := 0; i < 20; i++ {
			again, err := c.Encode(a)
			require.NoError(t, err, name)
			require.Equal(t, first, again, name)
		}
	}
}

func TestCBORDecodesStringKeyedMaps(t *testing.T) {
	c := MustCBOR[any](true)
	b, err := c.Encode(map[string]any{"k": "v"})
	require.NoError(t, err)
	v, err := c.Decode(b)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"k": "v"}, v)
}

func TestLimit(t *testing.T) {
	c := Limit[[]byte]{Inner: Bytes{}, MaxDecode: 4}
	b, err := c.Encode([]byte("hello"))
	require.NoError(t, err)
	_, err = c.Decode(b)
	require.ErrorIs(t, err, ErrTooLarge)

	out, err := c.Decode([]byte("hey"))
	require.NoError(t, err)
	require.Equal(t, []byte("hey"), out)

	unlimited := Limit[[]byte]{Inner: Bytes{}}
	_, err = unlimited.Decode(make([]byte, 1<<16))
	require.NoError(t, err)
}

func TestBytesDecodeCopies(t *testing.T) {
	src := []byte{1, 2, 3}
	out, err := Bytes{}.Decode(src)
	require.NoError(t, err)
	src[0] = 9
	require.Equal(t, []byte{1, 2, 3}, out)
}

func TestProtobufStructValue(t *testing.T) {
	in, err := structpb.NewValue(map[string]any{
		"name":  "Hero",
		"items": []any{"potion", 2.0},
		"boss":  nil,
	})
	require.NoError(t, err)

	c := StructValue()
	b, err := c.Encode(in)
	require.NoError(t, err)
	again, err := c.Encode(in)
	require.NoError(t, err)
	require.Equal(t, b, again)

	out, err := c.Decode(b)
	require.NoError(t, err)
	require.True(t, proto.Equal(in, out))
}
