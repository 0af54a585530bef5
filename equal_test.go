package postcard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqualWidensIntegers(t *testing.T) {
	require.True(t, Equal(Int(-5), I128(-5)))
	require.True(t, Equal(I128(-5), Int(-5)))
	require.True(t, Equal(Uint(7), U128(7)))
	require.True(t, Equal(Uint(math.MaxUint64), U128(math.MaxUint64)))
	require.False(t, Equal(Int(-5), I128(5)))
	require.False(t, Equal(Int(5), Uint(5)))
	require.False(t, Equal(Int(5), U128(5)))
	require.False(t, Equal(Uint(1), Uint128{Hi: 1, Lo: 1}))
}

func TestEqualMapsPairEntries(t *testing.T) {
	a := Map{{Key: String("k1"), Value: Int(1)}, {Key: String("k1"), Value: Int(1)}}
	b := Map{{Key: String("k1"), Value: Int(1)}, {Key: String("k2"), Value: Int(2)}}
	require.False(t, Equal(a, b))
	require.False(t, Equal(b, a))

	c := Map{{Key: String("k2"), Value: Int(2)}, {Key: String("k1"), Value: Int(1)}}
	require.True(t, Equal(b, c))
	require.False(t, Equal(b, Map{{Key: String("k1"), Value: Int(1)}, {Key: String("k2"), Value: Int(3)}}))
}

func TestEqualFloatsAndUnits(t *testing.T) {
	require.True(t, Equal(Float64(math.NaN()), Float64(math.NaN())))
	require.False(t, Equal(Float64(0), Float64(math.Copysign(0, -1))))
	require.True(t, Equal(UnitVariant(1), Enum(1, Unit{})))
	require.False(t, Equal(Float32(1), Float64(1)))
}
