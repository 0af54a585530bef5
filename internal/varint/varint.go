// Package varint implements the variable-length integer layer of the format:
// 7 data bits per byte, least-significant group first, high bit set on every
// byte except the last. Reads are bounded by the declared bit width of the
// destination so that an encoded magnitude can never silently truncate.
package varint

import "errors"

var (
	// ErrTruncated is returned when there is not a single byte left to read.
	ErrTruncated = errors.New("varint: no bytes left")
	// ErrMalformed is returned when a varint does not terminate inside the
	// buffer or its magnitude does not fit the declared width.
	ErrMalformed = errors.New("varint: malformed")
)

const (
	// MaxLen64 is the maximum encoded length of a 64-bit value.
	MaxLen64 = 10
	// MaxLen128 is the maximum encoded length of a 128-bit value.
	MaxLen128 = 19
)

// MaxLen returns the number of 7-bit groups needed for a value of the given
// bit width.
func MaxLen(bits int) int { return (bits + 6) / 7 }

// Append appends the varint encoding of v to b.
func Append(b []byte, v uint64) []byte {
	for v >= 0x80 {
		b = append(b, byte(v)|0x80)
		v >>= 7
	}
	return append(b, byte(v))
}

// Append128 appends the varint encoding of the 128-bit value hi:lo to b.
func Append128(b []byte, hi, lo uint64) []byte {
	for hi != 0 || lo >= 0x80 {
		b = append(b, byte(lo)|0x80)
		lo = lo>>7 | hi<<57
		hi >>= 7
	}
	return append(b, byte(lo))
}

// Len returns the encoded length of v.
func Len(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// Read decodes a varint of at most bits (<= 64) width from the start of b and
// returns the value and the number of bytes consumed.
func Read(b []byte, bits int) (uint64, int, error) {
	if len(b) == 0 {
		return 0, 0, ErrTruncated
	}
	groups := MaxLen(bits)
	var v uint64
	for i := 0; i < groups; i++ {
		if i >= len(b) {
			return 0, 0, ErrMalformed
		}
		c := b[i]
		g := uint64(c & 0x7f)
		shift := uint(7 * i)
		if i == groups-1 {
			room := uint(bits) - shift
			if c&0x80 != 0 || (room < 7 && g>>room != 0) {
				return 0, 0, ErrMalformed
			}
		}
		v |= g << shift
		if c&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, ErrMalformed
}

// Read128 decodes a 128-bit varint from the start of b.
func Read128(b []byte) (hi, lo uint64, n int, err error) {
	if len(b) == 0 {
		return 0, 0, 0, ErrTruncated
	}
	for i := 0; i < MaxLen128; i++ {
		if i >= len(b) {
			return 0, 0, 0, ErrMalformed
		}
		c := b[i]
		g := uint64(c & 0x7f)
		shift := uint(7 * i)
		if i == MaxLen128-1 {
			room := 128 - shift
			if c&0x80 != 0 || g>>room != 0 {
				return 0, 0, 0, ErrMalformed
			}
		}
		switch {
		case shift < 64:
			lo |= g << shift
			if shift > 57 {
				hi |= g >> (64 - shift)
			}
		default:
			hi |= g << (shift - 64)
		}
		if c&0x80 == 0 {
			return hi, lo, i + 1, nil
		}
	}
	return 0, 0, 0, ErrMalformed
}

// Zig folds a signed value into an unsigned one so that small magnitudes of
// either sign stay small: 0, -1, 1, -2, 2 map to 0, 1, 2, 3, 4.
// For values that fit a narrower signed width the result equals the zig-zag
// transform computed at that width.
func Zig(v int64) uint64 { return uint64(v<<1) ^ uint64(v>>63) }

// Unzig reverses Zig.
func Unzig(u uint64) int64 { return int64(u>>1) ^ -int64(u&1) }

// Zig128 is Zig for a two's complement 128-bit value hi:lo.
func Zig128(hi, lo uint64) (uint64, uint64) {
	mask := uint64(int64(hi) >> 63)
	return (hi<<1 | lo>>63) ^ mask, (lo << 1) ^ mask
}

// Unzig128 reverses Zig128.
func Unzig128(hi, lo uint64) (uint64, uint64) {
	mask := -(lo & 1)
	return (hi >> 1) ^ mask, (lo>>1 | hi<<63) ^ mask
}
