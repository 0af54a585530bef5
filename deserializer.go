package postcard

import (
	"encoding/binary"
	"errors"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/unkn0wn-root/postcard/internal/varint"
)

// Deserializer reads primitives from an in-memory buffer. Every read either
// consumes exactly the bytes of one primitive or fails with a *DecodeError and
// leaves the position unchanged.
type Deserializer struct {
	buf []byte
	pos int
}

func NewDeserializer(b []byte) *Deserializer { return &Deserializer{buf: b} }

// Offset returns the number of bytes consumed so far.
func (d *Deserializer) Offset() int { return d.pos }

// Remaining returns the number of unread bytes.
func (d *Deserializer) Remaining() int { return len(d.buf) - d.pos }

func (d *Deserializer) fail(err error, detail string) error {
	return &DecodeError{Offset: d.pos, Detail: detail, Err: err}
}

func (d *Deserializer) take(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, d.fail(ErrTruncatedInput, "")
	}
	p := d.buf[d.pos : d.pos+n]
	d.pos += n
	return p, nil
}

func (d *Deserializer) readVarint(bits int) (uint64, error) {
	v, n, err := varint.Read(d.buf[d.pos:], bits)
	if err != nil {
		return 0, d.varintErr(err, bits)
	}
	d.pos += n
	return v, nil
}

func (d *Deserializer) varintErr(err error, bits int) error {
	if errors.Is(err, varint.ErrTruncated) {
		return d.fail(ErrTruncatedInput, "")
	}
	if d.Remaining() < varint.MaxLen(bits) && !terminates(d.buf[d.pos:]) {
		return d.fail(ErrMalformedVarint, "unterminated")
	}
	return d.fail(ErrMalformedVarint, "exceeds declared width")
}

func terminates(p []byte) bool {
	for _, c := range p {
		if c&0x80 == 0 {
			return true
		}
	}
	return false
}

func (d *Deserializer) ReadBool() (bool, error) {
	p, err := d.take(1)
	if err != nil {
		return false, err
	}
	switch p[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	d.pos--
	return false, d.fail(ErrInvalidBool, "")
}

// ReadU8 reads a single raw byte.
func (d *Deserializer) ReadU8() (uint8, error) {
	p, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (d *Deserializer) ReadU16() (uint16, error) {
	v, err := d.readVarint(16)
	return uint16(v), err
}

func (d *Deserializer) ReadU32() (uint32, error) {
	v, err := d.readVarint(32)
	return uint32(v), err
}

func (d *Deserializer) ReadU64() (uint64, error) {
	return d.readVarint(64)
}

func (d *Deserializer) ReadU128() (Uint128, error) {
	hi, lo, n, err := varint.Read128(d.buf[d.pos:])
	if err != nil {
		return Uint128{}, d.varintErr(err, 128)
	}
	d.pos += n
	return Uint128{Hi: hi, Lo: lo}, nil
}

// ReadI8 reads a single two's complement byte.
func (d *Deserializer) ReadI8() (int8, error) {
	v, err := d.ReadU8()
	return int8(v), err
}

func (d *Deserializer) ReadI16() (int16, error) {
	v, err := d.readVarint(16)
	return int16(varint.Unzig(v)), err
}

func (d *Deserializer) ReadI32() (int32, error) {
	v, err := d.readVarint(32)
	return int32(varint.Unzig(v)), err
}

func (d *Deserializer) ReadI64() (int64, error) {
	v, err := d.readVarint(64)
	return varint.Unzig(v), err
}

func (d *Deserializer) ReadI128() (Int128, error) {
	u, err := d.ReadU128()
	if err != nil {
		return Int128{}, err
	}
	hi, lo := varint.Unzig128(u.Hi, u.Lo)
	return Int128{Hi: hi, Lo: lo}, nil
}

func (d *Deserializer) ReadF32() (float32, error) {
	p, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(p)), nil
}

func (d *Deserializer) ReadF64() (float64, error) {
	p, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(p)), nil
}

// ReadChar reads a codepoint and checks that it is a Unicode scalar value.
func (d *Deserializer) ReadChar() (rune, error) {
	start := d.pos
	v, err := d.ReadU32()
	if err != nil {
		return 0, err
	}
	r := rune(v)
	if v > utf8.MaxRune || !utf8.ValidRune(r) {
		d.pos = start
		return 0, d.fail(ErrInvalidUtf8, "invalid char codepoint")
	}
	return r, nil
}

// ReadLen reads a length or element count.
func (d *Deserializer) ReadLen() (int, error) {
	start := d.pos
	v, err := d.ReadU64()
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt {
		d.pos = start
		return 0, d.fail(ErrTruncatedInput, "length exceeds addressable size")
	}
	return int(v), nil
}

// ReadBytes reads a length prefixed byte sequence. The result is a copy.
func (d *Deserializer) ReadBytes() ([]byte, error) {
	start := d.pos
	n, err := d.ReadLen()
	if err != nil {
		return nil, err
	}
	p, err := d.take(n)
	if err != nil {
		d.pos = start
		return nil, err
	}
	out := make([]byte, n)
	copy(out, p)
	return out, nil
}

// ReadString reads a length prefixed string and validates its UTF-8.
func (d *Deserializer) ReadString() (string, error) {
	start := d.pos
	n, err := d.ReadLen()
	if err != nil {
		return "", err
	}
	p, err := d.take(n)
	if err != nil {
		d.pos = start
		return "", err
	}
	if !utf8.Valid(p) {
		d.pos = start
		return "", d.fail(ErrInvalidUtf8, "")
	}
	return string(p), nil
}

// ReadVariant reads an enum discriminant and checks it against the number of
// declared variants.
func (d *Deserializer) ReadVariant(count int) (uint32, error) {
	start := d.pos
	idx, err := d.ReadU32()
	if err != nil {
		return 0, err
	}
	if int64(idx) >= int64(count) {
		d.pos = start
		return 0, &DecodeError{Offset: start, Err: ErrUnknownVariant,
			Detail: "index " + strconv.Itoa(int(idx)) + " of " + strconv.Itoa(count) + " variants"}
	}
	return idx, nil
}

// ReadOption reads an Option discriminant. Only 0 and 1 are legal.
func (d *Deserializer) ReadOption() (bool, error) {
	p, err := d.take(1)
	if err != nil {
		return false, err
	}
	switch p[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	d.pos--
	return false, d.fail(ErrInvalidOptionTag, "tag "+strconv.Itoa(int(p[0])))
}
