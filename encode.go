package postcard

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/unkn0wn-root/postcard/schema"
)

// MapOrder selects the order in which map entries are written.
type MapOrder uint8

const (
	// MapOrderSorted writes entries sorted by their encoded key bytes. Equal
	// maps always produce identical bytes regardless of entry order.
	MapOrderSorted MapOrder = iota
	// MapOrderInsertion writes entries in the order they appear in the Map.
	// Use it to reproduce the layout of an encoder with a different policy.
	MapOrderInsertion
)

// EncodeOptions tune an Encoder. The zero value is ready to use.
type EncodeOptions struct {
	MapOrder MapOrder
	// SizeHint is the initial buffer capacity; 0 => 64.
	SizeHint int
}

// Encoder encodes Values under a Schema. It holds no mutable state and is
// safe for concurrent use.
type Encoder struct {
	opts EncodeOptions
}

func NewEncoder(opts EncodeOptions) *Encoder { return &Encoder{opts: opts} }

// Encode returns the encoding of v under s.
func (e *Encoder) Encode(v Value, s *schema.Schema) ([]byte, error) {
	ser := NewSerializer(e.opts.SizeHint)
	if err := e.EncodeTo(ser, v, s); err != nil {
		return nil, err
	}
	return ser.Bytes(), nil
}

// EncodeTo appends the encoding of v under s to ser. On error ser may hold a
// partial encoding.
func (e *Encoder) EncodeTo(ser *Serializer, v Value, s *schema.Schema) error {
	if err := schema.Validate(s); err != nil {
		return &EncodeError{Detail: err.Error(), Err: ErrInvalidSchema}
	}
	return e.encode(ser, v, s, "$")
}

func (e *Encoder) encode(ser *Serializer, v Value, s *schema.Schema, path string) error {
	switch s.Kind {
	case schema.KindBool:
		b, ok := v.(Bool)
		if !ok {
			return typeMismatch(path, s, v)
		}
		ser.WriteBool(bool(b))

	case schema.KindI8, schema.KindI16, schema.KindI32, schema.KindI64:
		n, ok := v.(Int)
		if !ok {
			return typeMismatch(path, s, v)
		}
		bits, _ := s.Kind.Bits()
		if bits < 64 {
			limit := int64(1) << (bits - 1)
			if int64(n) < -limit || int64(n) >= limit {
				return mismatch(path, "%d out of %s range", int64(n), s.Kind)
			}
		}
		if bits == 8 {
			ser.WriteI8(int8(n))
		} else {
			ser.WriteI64(int64(n))
		}

	case schema.KindI128:
		switch n := v.(type) {
		case Int128:
			ser.WriteI128(n)
		case Int:
			ser.WriteI128(I128(int64(n)))
		default:
			return typeMismatch(path, s, v)
		}

	case schema.KindU8, schema.KindU16, schema.KindU32, schema.KindU64:
		n, ok := v.(Uint)
		if !ok {
			return typeMismatch(path, s, v)
		}
		bits, _ := s.Kind.Bits()
		if bits < 64 && uint64(n)>>bits != 0 {
			return mismatch(path, "%d out of %s range", uint64(n), s.Kind)
		}
		if bits == 8 {
			ser.WriteU8(uint8(n))
		} else {
			ser.WriteU64(uint64(n))
		}

	case schema.KindU128:
		switch n := v.(type) {
		case Uint128:
			ser.WriteU128(n)
		case Uint:
			ser.WriteU128(U128(uint64(n)))
		default:
			return typeMismatch(path, s, v)
		}

	case schema.KindF32:
		f, ok := v.(Float32)
		if !ok {
			return typeMismatch(path, s, v)
		}
		ser.WriteF32(float32(f))

	case schema.KindF64:
		f, ok := v.(Float64)
		if !ok {
			return typeMismatch(path, s, v)
		}
		ser.WriteF64(float64(f))

	case schema.KindChar:
		c, ok := v.(Char)
		if !ok {
			return typeMismatch(path, s, v)
		}
		if !utf8.ValidRune(rune(c)) {
			return &EncodeError{Path: path, Detail: fmt.Sprintf("codepoint %#x is not a scalar value", int32(c)), Err: ErrInvalidUtf8}
		}
		ser.WriteChar(rune(c))

	case schema.KindString:
		str, ok := v.(String)
		if !ok {
			return typeMismatch(path, s, v)
		}
		if !utf8.ValidString(string(str)) {
			return &EncodeError{Path: path, Detail: "string is not valid UTF-8", Err: ErrInvalidUtf8}
		}
		ser.WriteString(string(str))

	case schema.KindBytes:
		b, ok := v.(Bytes)
		if !ok {
			return typeMismatch(path, s, v)
		}
		ser.WriteBytes(b)

	case schema.KindSeq:
		seq, ok := v.(Seq)
		if !ok {
			return typeMismatch(path, s, v)
		}
		ser.WriteLen(len(seq))
		for i, el := range seq {
			if err := e.encode(ser, el, s.Elem, index(path, i)); err != nil {
				return err
			}
		}

	case schema.KindArray:
		seq, ok := v.(Seq)
		if !ok {
			return typeMismatch(path, s, v)
		}
		if len(seq) != s.Len {
			return mismatch(path, "array has %d elements, schema declares %d", len(seq), s.Len)
		}
		for i, el := range seq {
			if err := e.encode(ser, el, s.Elem, index(path, i)); err != nil {
				return err
			}
		}

	case schema.KindTuple:
		seq, ok := v.(Seq)
		if !ok {
			return typeMismatch(path, s, v)
		}
		return e.encodeFields(ser, []Value(seq), s.Fields, path)

	case schema.KindStruct:
		rec, ok := v.(Record)
		if !ok {
			return typeMismatch(path, s, v)
		}
		return e.encodeFields(ser, []Value(rec), s.Fields, path)

	case schema.KindOption:
		opt, ok := v.(Option)
		if !ok {
			return typeMismatch(path, s, v)
		}
		ser.WriteOption(opt.IsSome())
		if opt.IsSome() {
			return e.encode(ser, opt.Value, s.Elem, path+"?")
		}

	case schema.KindMap:
		m, ok := v.(Map)
		if !ok {
			return typeMismatch(path, s, v)
		}
		return e.encodeMap(ser, m, s, path)

	case schema.KindEnum:
		vr, ok := v.(Variant)
		if !ok {
			return typeMismatch(path, s, v)
		}
		return e.encodeVariant(ser, vr, s, path)

	case schema.KindNewtype:
		return e.encode(ser, v, s.Elem, path)

	case schema.KindUnit:
		if _, ok := v.(Unit); !ok && v != nil {
			return typeMismatch(path, s, v)
		}

	default:
		return &EncodeError{Path: path, Detail: "unknown kind " + s.Kind.String(), Err: ErrInvalidSchema}
	}
	return nil
}

func (e *Encoder) encodeFields(ser *Serializer, vals []Value, fields []schema.Field, path string) error {
	if len(vals) != len(fields) {
		return mismatch(path, "%d values for %d fields", len(vals), len(fields))
	}
	for i, f := range fields {
		if err := e.encode(ser, vals[i], f.Schema, fieldPath(path, f, i)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeVariant(ser *Serializer, vr Variant, s *schema.Schema, path string) error {
	if int64(vr.Index) >= int64(len(s.Variants)) {
		return &EncodeError{Path: path, Detail: fmt.Sprintf("index %d of %d variants", vr.Index, len(s.Variants)), Err: ErrUnknownVariant}
	}
	def := s.Variants[vr.Index]
	vpath := path + "::" + def.Name
	ser.WriteVariant(vr.Index)

	switch def.Kind {
	case schema.VariantUnit:
		if _, ok := vr.Payload.(Unit); !ok && vr.Payload != nil {
			return mismatch(vpath, "unit variant carries a %T payload", vr.Payload)
		}
		return nil
	case schema.VariantNewtype:
		return e.encode(ser, vr.Payload, def.Fields[0].Schema, vpath)
	case schema.VariantTuple:
		seq, ok := vr.Payload.(Seq)
		if !ok {
			return mismatch(vpath, "tuple variant needs a Seq payload, got %T", vr.Payload)
		}
		return e.encodeFields(ser, []Value(seq), def.Fields, vpath)
	case schema.VariantStruct:
		rec, ok := vr.Payload.(Record)
		if !ok {
			return mismatch(vpath, "struct variant needs a Record payload, got %T", vr.Payload)
		}
		return e.encodeFields(ser, []Value(rec), def.Fields, vpath)
	}
	return &EncodeError{Path: vpath, Detail: "unknown variant kind", Err: ErrInvalidSchema}
}

// encodeMap encodes every entry on its own first so that duplicates can be
// detected on the key bytes and, for MapOrderSorted, entries can be ordered
// by them.
func (e *Encoder) encodeMap(ser *Serializer, m Map, s *schema.Schema, path string) error {
	type encoded struct{ key, entry []byte }
	entries := make([]encoded, len(m))
	seen := make(map[string]struct{}, len(m))
	scratch := NewSerializer(0)
	for i, ent := range m {
		scratch.Reset()
		epath := index(path, i)
		if err := e.encode(scratch, ent.Key, s.Key, epath+".key"); err != nil {
			return err
		}
		keyLen := scratch.Len()
		if _, dup := seen[string(scratch.Bytes())]; dup {
			return &EncodeError{Path: epath, Detail: "key repeated", Err: ErrDuplicateMapKey}
		}
		seen[string(scratch.Bytes())] = struct{}{}
		if err := e.encode(scratch, ent.Value, s.Elem, epath+".value"); err != nil {
			return err
		}
		buf := bytes.Clone(scratch.Bytes())
		entries[i] = encoded{key: buf[:keyLen], entry: buf}
	}
	if e.opts.MapOrder == MapOrderSorted {
		sort.SliceStable(entries, func(i, j int) bool {
			return bytes.Compare(entries[i].key, entries[j].key) < 0
		})
	}
	ser.WriteLen(len(entries))
	for _, ent := range entries {
		ser.writeRaw(ent.entry)
	}
	return nil
}

func typeMismatch(path string, s *schema.Schema, v Value) error {
	return mismatch(path, "%s expects %s, got %T", s.TypeName(), expectedValue(s.Kind), v)
}

func expectedValue(k schema.Kind) string {
	switch k {
	case schema.KindBool:
		return "Bool"
	case schema.KindI8, schema.KindI16, schema.KindI32, schema.KindI64:
		return "Int"
	case schema.KindI128:
		return "Int128"
	case schema.KindU8, schema.KindU16, schema.KindU32, schema.KindU64:
		return "Uint"
	case schema.KindU128:
		return "Uint128"
	case schema.KindF32:
		return "Float32"
	case schema.KindF64:
		return "Float64"
	case schema.KindChar:
		return "Char"
	case schema.KindString:
		return "String"
	case schema.KindBytes:
		return "Bytes"
	case schema.KindSeq, schema.KindArray, schema.KindTuple:
		return "Seq"
	case schema.KindOption:
		return "Option"
	case schema.KindMap:
		return "Map"
	case schema.KindStruct:
		return "Record"
	case schema.KindEnum:
		return "Variant"
	case schema.KindUnit:
		return "Unit"
	}
	return "Value"
}

func index(path string, i int) string { return path + "[" + strconv.Itoa(i) + "]" }

func fieldPath(path string, f schema.Field, i int) string {
	if f.Name != "" {
		return path + "." + f.Name
	}
	return path + "." + strconv.Itoa(i)
}
