package postcard

import (
	"encoding/binary"
	"math"

	"github.com/unkn0wn-root/postcard/internal/util"
	"github.com/unkn0wn-root/postcard/internal/varint"
)

const defaultSizeHint = 64

// Serializer appends primitive encodings to a growing buffer. It is the
// building block for both the schema driven Encoder and hand-written
// Encodable types; the two produce identical bytes for the same value.
//
// A Serializer never fails: every primitive is representable.
type Serializer struct {
	buf []byte
}

// NewSerializer returns a Serializer with room for sizeHint bytes.
func NewSerializer(sizeHint int) *Serializer {
	return &Serializer{buf: make([]byte, 0, util.Coalesce(sizeHint, defaultSizeHint))}
}

// Bytes returns the encoded bytes. The slice aliases the internal buffer.
func (s *Serializer) Bytes() []byte { return s.buf }

// Len returns the number of bytes written so far.
func (s *Serializer) Len() int { return len(s.buf) }

// Reset empties the buffer, keeping its capacity.
func (s *Serializer) Reset() { s.buf = s.buf[:0] }

func (s *Serializer) WriteBool(v bool) {
	if v {
		s.buf = append(s.buf, 1)
	} else {
		s.buf = append(s.buf, 0)
	}
}

// 8-bit integers are a single raw byte, so a sequence of u8 has the same
// layout as a byte string.
func (s *Serializer) WriteU8(v uint8) { s.buf = append(s.buf, v) }
func (s *Serializer) WriteI8(v int8)  { s.buf = append(s.buf, byte(v)) }

// Wider unsigned integers are varints.
func (s *Serializer) WriteU16(v uint16) { s.buf = varint.Append(s.buf, uint64(v)) }
func (s *Serializer) WriteU32(v uint32) { s.buf = varint.Append(s.buf, uint64(v)) }
func (s *Serializer) WriteU64(v uint64) { s.buf = varint.Append(s.buf, v) }
func (s *Serializer) WriteU128(v Uint128) {
	s.buf = varint.Append128(s.buf, v.Hi, v.Lo)
}

// Wider signed integers are zig-zag folded, then written as varints.
func (s *Serializer) WriteI16(v int16) { s.WriteU64(varint.Zig(int64(v))) }
func (s *Serializer) WriteI32(v int32) { s.WriteU64(varint.Zig(int64(v))) }
func (s *Serializer) WriteI64(v int64) { s.WriteU64(varint.Zig(v)) }
func (s *Serializer) WriteI128(v Int128) {
	hi, lo := varint.Zig128(v.Hi, v.Lo)
	s.buf = varint.Append128(s.buf, hi, lo)
}

// Floats are written bit for bit, little-endian.
func (s *Serializer) WriteF32(v float32) {
	s.buf = binary.LittleEndian.AppendUint32(s.buf, math.Float32bits(v))
}

func (s *Serializer) WriteF64(v float64) {
	s.buf = binary.LittleEndian.AppendUint64(s.buf, math.Float64bits(v))
}

// WriteChar writes the codepoint of r as an unsigned varint.
func (s *Serializer) WriteChar(r rune) { s.WriteU32(uint32(r)) }

// WriteString writes a length prefixed UTF-8 string. The caller is responsible
// for s being valid UTF-8.
func (s *Serializer) WriteString(v string) {
	s.WriteLen(len(v))
	s.buf = append(s.buf, v...)
}

// WriteBytes writes a length prefixed byte sequence.
func (s *Serializer) WriteBytes(p []byte) {
	s.WriteLen(len(p))
	s.buf = append(s.buf, p...)
}

// WriteLen writes a sequence, map or byte-string length.
func (s *Serializer) WriteLen(n int) { s.WriteU64(uint64(n)) }

// WriteVariant writes an enum discriminant.
func (s *Serializer) WriteVariant(index uint32) { s.WriteU32(index) }

// WriteOption writes the discriminant of an Option; the caller writes the
// value afterwards when present is true.
func (s *Serializer) WriteOption(present bool) { s.WriteBool(present) }

// writeRaw appends already encoded bytes.
func (s *Serializer) writeRaw(p []byte) { s.buf = append(s.buf, p...) }
