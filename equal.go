package postcard

import (
	"bytes"
	"math"
)

// Equal reports whether a and b are the same model value.
//
// Floats compare by bit pattern, so NaN payloads and signed zeros must match
// exactly, which is what byte-identical fixtures need. Maps compare as
// unordered sets of entries. A nil payload and Unit are interchangeable, and
// so are Int and Int128, and Uint and Uint128, holding the same number.
func Equal(a, b Value) bool {
	a, b = norm(a), norm(b)
	switch x := a.(type) {
	case nil:
		return b == nil
	case Bool, Int128, Uint128, Char, String:
		return a == b
	case Float32:
		y, ok := b.(Float32)
		return ok && math.Float32bits(float32(x)) == math.Float32bits(float32(y))
	case Float64:
		y, ok := b.(Float64)
		return ok && math.Float64bits(float64(x)) == math.Float64bits(float64(y))
	case Bytes:
		y, ok := b.(Bytes)
		return ok && bytes.Equal(x, y)
	case Seq:
		y, ok := b.(Seq)
		return ok && equalSlices(x, y)
	case Record:
		y, ok := b.(Record)
		return ok && equalSlices(x, y)
	case Option:
		y, ok := b.(Option)
		return ok && Equal(x.Value, y.Value)
	case Variant:
		y, ok := b.(Variant)
		return ok && x.Index == y.Index && Equal(x.Payload, y.Payload)
	case Map:
		y, ok := b.(Map)
		return ok && equalMaps(x, y)
	}
	return false
}

func norm(v Value) Value {
	switch x := v.(type) {
	case Unit:
		return nil
	case Int:
		return I128(int64(x))
	case Uint:
		return U128(uint64(x))
	}
	return v
}

func equalSlices(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// equalMaps pairs every entry of a with a distinct equal entry of b.
func equalMaps(a, b Map) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
next:
	for _, e := range a {
		for j, f := range b {
			if !used[j] && Equal(e.Key, f.Key) && Equal(e.Value, f.Value) {
				used[j] = true
				continue next
			}
		}
		return false
	}
	return true
}
