package fixtures

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	p "github.com/unkn0wn-root/postcard"
	"github.com/unkn0wn-root/postcard/schema"
)

func unhex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestSchemasValid(t *testing.T) {
	for _, f := range All() {
		require.NoError(t, schema.Validate(f.Schema), f.Name)
	}
}

func TestAllRoundTrip(t *testing.T) {
	for _, f := range All() {
		t.Run(f.Name, func(t *testing.T) {
			b, err := p.Encode(f.Value, f.Schema)
			require.NoError(t, err)

			got, err := p.DecodeExact(b, f.Schema)
			require.NoError(t, err)
			require.True(t, p.Equal(f.Value, got), "decoded %#v", got)

			again, err := p.Encode(got, f.Schema)
			require.NoError(t, err)
			require.Equal(t, b, again)
		})
	}
}

func TestKnownEncodings(t *testing.T) {
	cases := map[string]string{
		"enum_unit.bin":      "00",
		"enum_newtype.bin":   "01e707",
		"enum_tuple.bin":     "02057475706c65e70700",
		"enum_struct.bin":    "036e861bf0f921094090f7aa9509bf054005706f696e74",
		"collections.bin":    "05010203040503036f6e650374776f05746872656564c801ac0290032a04746573740101f2c00100",
		"nested.bin":         "b960077072696d6172790305616c696365c80103626f62900307636861726c6965d804020105666972737402067365636f6e64",
		"edge_cases.bin":     "000000ff807fffff03ffffffff0ffd887a",
		"newtype_struct.bin": "b1d1f9d603",
		"unit_struct.bin":    "",
		"tuple_struct.bin":   "0a7475706c655f64617461920c01",
	}
	for name, want := range cases {
		f, ok := Lookup(name)
		require.True(t, ok, name)
		b, err := p.Encode(f.Value, f.Schema)
		require.NoError(t, err, name)
		require.Equal(t, unhex(t, want), b, name)
	}
}

func TestEightBitValuesAreRawBytes(t *testing.T) {
	b, err := p.Encode(PrimitivesSample(), Primitives)
	require.NoError(t, err)
	// bool true, i8 -42
	require.Equal(t, unhex(t, "01d6"), b[:2])

	bytesForm, err := p.Encode(p.Bytes{0x00, 0x7F, 0x80, 0xFF}, schema.Bytes())
	require.NoError(t, err)
	seqForm, err := p.Encode(p.Seq{p.Uint(0x00), p.Uint(0x7F), p.Uint(0x80), p.Uint(0xFF)}, schema.Vec(schema.U8()))
	require.NoError(t, err)
	require.Equal(t, unhex(t, "04007f80ff"), bytesForm)
	require.Equal(t, bytesForm, seqForm)
}

func TestLookup(t *testing.T) {
	f, ok := Lookup("game_state")
	require.True(t, ok)
	require.Equal(t, "game_state.bin", f.Name)

	_, ok = Lookup("missing.bin")
	require.False(t, ok)

	names := Names()
	require.Len(t, names, len(All()))
	require.IsIncreasing(t, names)
}

func TestMapEntryOrderDoesNotChangeBytes(t *testing.T) {
	v := NestedSample().(p.Record)
	want, err := p.Encode(v, Nested)
	require.NoError(t, err)

	m := v[1].(p.Map)
	reversed := p.Map{m[2], m[1], m[0]}
	shuffled := p.Struct(v[0], reversed, v[2])
	got, err := p.Encode(shuffled, Nested)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestTypedPrimitivesMatchSchema(t *testing.T) {
	in := &PrimitivesT{
		Bool:   true,
		I8:     -42,
		I16:    -1000,
		I32:    -100000,
		I64:    -10000000000,
		I128:   p.MustParseInt128("-123456789012345678901234567890"),
		U8:     255,
		U16:    65535,
		U32:    4294967295,
		U64:    18446744073709551615,
		U128:   p.MaxUint128,
		F32:    -32.005859375,
		F64:    -32.005859375,
		Char:   '🦀',
		String: "Hello, postcard!",
	}
	typed, err := p.Marshal(in)
	require.NoError(t, err)

	dynamic, err := p.Encode(PrimitivesSample(), Primitives)
	require.NoError(t, err)
	require.Equal(t, dynamic, typed)

	var out PrimitivesT
	require.NoError(t, p.Unmarshal(typed, &out))
	require.Equal(t, *in, out)
}

func TestTypedWeaponMatchesSchema(t *testing.T) {
	fire := Fire
	cases := []struct {
		typed   *WeaponT
		dynamic p.Value
	}{
		{&WeaponT{Name: "Flaming Sword", Damage: 50, Element: &fire}, weapon("Flaming Sword", 50, p.Some(p.UnitVariant(ElementFire)))},
		{&WeaponT{Name: "Stick", Damage: 1}, weapon("Stick", 1, p.None)},
	}
	for _, tc := range cases {
		typed, err := p.Marshal(tc.typed)
		require.NoError(t, err)
		dynamic, err := p.Encode(tc.dynamic, Weapon)
		require.NoError(t, err)
		require.Equal(t, dynamic, typed)

		var out WeaponT
		require.NoError(t, p.Unmarshal(typed, &out))
		require.Equal(t, *tc.typed, out)
	}

	bad := ElementT(7)
	_, err := p.Marshal(&WeaponT{Name: "x", Element: &bad})
	require.ErrorIs(t, err, p.ErrUnknownVariant)

	var out WeaponT
	require.ErrorIs(t, p.Unmarshal(unhex(t, "01780001"+"03"), &out), p.ErrUnknownVariant)
}

func TestTypedInnerAndCoordinates(t *testing.T) {
	inner := &InnerStructT{ID: 12345, Name: "primary"}
	b, err := p.Marshal(inner)
	require.NoError(t, err)
	want, err := p.Encode(p.Struct(p.Uint(12345), p.String("primary")), InnerStruct)
	require.NoError(t, err)
	require.Equal(t, want, b)

	c := &CoordinatesT{X: 15, Y: -5, Z: -10}
	b, err = p.Marshal(c)
	require.NoError(t, err)
	require.Len(t, b, 24)
	want, err = p.Encode(coords(15, -5, -10), Coordinates)
	require.NoError(t, err)
	require.Equal(t, want, b)
}

func TestGameStateDecodesFields(t *testing.T) {
	b, err := p.Encode(GameStateSample(), GameState)
	require.NoError(t, err)

	v, err := p.DecodeExact(b, GameState)
	require.NoError(t, err)
	gs := v.(p.Record)
	player := gs[0].(p.Record)
	require.Equal(t, p.String("Hero"), player[1])
	require.Equal(t, p.Float32(85.5), player[3])

	world := gs[2].(p.Record)
	loc, ok := world[1].(p.Map).Get(p.String("cave"))
	require.True(t, ok)
	require.Equal(t, p.Bool(false), loc.(p.Record)[2])

	meta := gs[4].(p.Record)
	require.Equal(t, p.UnitVariant(DifficultyNormal), meta[2])

	for cut := 0; cut < len(b); cut += 7 {
		_, err := p.DecodeExact(b[:cut], GameState)
		require.Error(t, err, "prefix %d", cut)
	}
}
