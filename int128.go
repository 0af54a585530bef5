package postcard

import (
	"fmt"
	"math/big"
)

// Uint128 is an unsigned 128-bit integer split into two 64-bit halves.
type Uint128 struct {
	Hi, Lo uint64
}

// Int128 is a signed 128-bit integer in two's complement, split into two
// 64-bit halves. The sign is the top bit of Hi.
type Int128 struct {
	Hi, Lo uint64
}

var (
	MaxUint128 = Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}
	MaxInt128  = Int128{Hi: ^uint64(0) >> 1, Lo: ^uint64(0)}
	MinInt128  = Int128{Hi: 1 << 63}
)

// U128 widens v to 128 bits.
func U128(v uint64) Uint128 { return Uint128{Lo: v} }

// I128 sign-extends v to 128 bits.
func I128(v int64) Int128 { return Int128{Hi: uint64(v >> 63), Lo: uint64(v)} }

// Negative reports whether x < 0.
func (x Int128) Negative() bool { return x.Hi>>63 == 1 }

// Big returns x as a big.Int.
func (x Uint128) Big() *big.Int {
	b := new(big.Int).SetUint64(x.Hi)
	b.Lsh(b, 64)
	return b.Or(b, new(big.Int).SetUint64(x.Lo))
}

func (x Uint128) String() string { return x.Big().String() }

// Big returns x as a big.Int.
func (x Int128) Big() *big.Int {
	if !x.Negative() {
		return Uint128(x).Big()
	}
	// -x = ^x + 1
	lo := ^x.Lo + 1
	hi := ^x.Hi
	if lo == 0 {
		hi++
	}
	return new(big.Int).Neg(Uint128{Hi: hi, Lo: lo}.Big())
}

func (x Int128) String() string { return x.Big().String() }

var (
	two64      = new(big.Int).Lsh(big.NewInt(1), 64)
	two128     = new(big.Int).Lsh(big.NewInt(1), 128)
	mask64     = new(big.Int).Sub(two64, big.NewInt(1))
	maxI128Big = MaxInt128.Big()
	minI128Big = MinInt128.Big()
)

// Uint128FromBig converts b, failing when it is negative or wider than 128
// bits.
func Uint128FromBig(b *big.Int) (Uint128, error) {
	if b.Sign() < 0 || b.BitLen() > 128 {
		return Uint128{}, fmt.Errorf("postcard: %s out of u128 range", b)
	}
	lo := new(big.Int).And(b, mask64).Uint64()
	hi := new(big.Int).Rsh(b, 64).Uint64()
	return Uint128{Hi: hi, Lo: lo}, nil
}

// Int128FromBig converts b, failing when it does not fit in 128 bits signed.
func Int128FromBig(b *big.Int) (Int128, error) {
	if b.Cmp(maxI128Big) > 0 || b.Cmp(minI128Big) < 0 {
		return Int128{}, fmt.Errorf("postcard: %s out of i128 range", b)
	}
	v := new(big.Int).Set(b)
	if v.Sign() < 0 {
		v.Add(v, two128)
	}
	u, err := Uint128FromBig(v)
	return Int128(u), err
}

// ParseUint128 parses a base 10 u128.
func ParseUint128(s string) (Uint128, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Uint128{}, fmt.Errorf("postcard: invalid u128 %q", s)
	}
	return Uint128FromBig(b)
}

// ParseInt128 parses a base 10 i128.
func ParseInt128(s string) (Int128, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int128{}, fmt.Errorf("postcard: invalid i128 %q", s)
	}
	return Int128FromBig(b)
}

// MustParseInt128 is like ParseInt128 but panics on error.
// Meant for package-level fixtures and tests.
func MustParseInt128(s string) Int128 {
	v, err := ParseInt128(s)
	if err != nil {
		panic(err)
	}
	return v
}

// MustParseUint128 is like ParseUint128 but panics on error.
func MustParseUint128(s string) Uint128 {
	v, err := ParseUint128(s)
	if err != nil {
		panic(err)
	}
	return v
}
