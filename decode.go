package postcard

import (
	"errors"
	"strconv"

	"github.com/unkn0wn-root/postcard/schema"
)

// Decode decodes one value of schema s from the start of b. It returns the
// value and the number of bytes left after it; callers that require exact
// consumption should use DecodeExact. On error no value is returned.
func Decode(b []byte, s *schema.Schema) (Value, int, error) {
	d := NewDeserializer(b)
	v, err := DecodeFrom(d, s)
	if err != nil {
		return nil, 0, err
	}
	return v, d.Remaining(), nil
}

// DecodeExact is Decode but fails with ErrTrailingBytes unless the whole of b
// is consumed.
func DecodeExact(b []byte, s *schema.Schema) (Value, error) {
	d := NewDeserializer(b)
	v, err := DecodeFrom(d, s)
	if err != nil {
		return nil, err
	}
	if n := d.Remaining(); n > 0 {
		return nil, &DecodeError{Offset: d.Offset(), Detail: strconv.Itoa(n) + " bytes left", Err: ErrTrailingBytes}
	}
	return v, nil
}

// DecodeFrom decodes one value of schema s from d.
func DecodeFrom(d *Deserializer, s *schema.Schema) (Value, error) {
	if err := schema.Validate(s); err != nil {
		return nil, &DecodeError{Offset: d.Offset(), Detail: err.Error(), Err: ErrInvalidSchema}
	}
	dec := decoder{d: d, min: make(map[*schema.Schema]int)}
	return dec.value(s, "$")
}

type decoder struct {
	d *Deserializer
	// memoized minimum encoded size per schema node
	min map[*schema.Schema]int
}

// at records path on a DecodeError that does not have one yet, so the
// innermost position wins.
func at(err error, path string) error {
	var de *DecodeError
	if errors.As(err, &de) && de.Path == "" {
		de.Path = path
	}
	return err
}

func (dec *decoder) value(s *schema.Schema, path string) (Value, error) {
	v, err := dec.decode(s, path)
	if err != nil {
		return nil, at(err, path)
	}
	return v, nil
}

func (dec *decoder) decode(s *schema.Schema, path string) (Value, error) {
	d := dec.d
	switch s.Kind {
	case schema.KindBool:
		b, err := d.ReadBool()
		return Bool(b), err
	case schema.KindI8:
		n, err := d.ReadI8()
		return Int(n), err
	case schema.KindI16:
		n, err := d.ReadI16()
		return Int(n), err
	case schema.KindI32:
		n, err := d.ReadI32()
		return Int(n), err
	case schema.KindI64:
		n, err := d.ReadI64()
		return Int(n), err
	case schema.KindI128:
		return d.ReadI128()
	case schema.KindU8:
		n, err := d.ReadU8()
		return Uint(n), err
	case schema.KindU16:
		n, err := d.ReadU16()
		return Uint(n), err
	case schema.KindU32:
		n, err := d.ReadU32()
		return Uint(n), err
	case schema.KindU64:
		n, err := d.ReadU64()
		return Uint(n), err
	case schema.KindU128:
		return d.ReadU128()
	case schema.KindF32:
		f, err := d.ReadF32()
		return Float32(f), err
	case schema.KindF64:
		f, err := d.ReadF64()
		return Float64(f), err
	case schema.KindChar:
		r, err := d.ReadChar()
		return Char(r), err
	case schema.KindString:
		str, err := d.ReadString()
		return String(str), err
	case schema.KindBytes:
		b, err := d.ReadBytes()
		return Bytes(b), err

	case schema.KindSeq:
		n, err := dec.count(s.Elem)
		if err != nil {
			return nil, err
		}
		return dec.elems(s.Elem, n, path)

	case schema.KindArray:
		return dec.elems(s.Elem, s.Len, path)

	case schema.KindTuple:
		vals, err := dec.fields(s.Fields, path)
		return Seq(vals), err

	case schema.KindStruct:
		vals, err := dec.fields(s.Fields, path)
		return Record(vals), err

	case schema.KindOption:
		present, err := d.ReadOption()
		if err != nil || !present {
			return None, err
		}
		v, err := dec.value(s.Elem, path+"?")
		return Some(v), err

	case schema.KindMap:
		return dec.decodeMap(s, path)

	case schema.KindEnum:
		idx, err := d.ReadVariant(len(s.Variants))
		if err != nil {
			return nil, err
		}
		def := s.Variants[idx]
		vpath := path + "::" + def.Name
		switch def.Kind {
		case schema.VariantUnit:
			return UnitVariant(idx), nil
		case schema.VariantNewtype:
			p, err := dec.value(def.Fields[0].Schema, vpath)
			return Enum(idx, p), err
		case schema.VariantTuple:
			vals, err := dec.fields(def.Fields, vpath)
			return Enum(idx, Seq(vals)), err
		case schema.VariantStruct:
			vals, err := dec.fields(def.Fields, vpath)
			return Enum(idx, Record(vals)), err
		}

	case schema.KindNewtype:
		return dec.value(s.Elem, path)

	case schema.KindUnit:
		return Unit{}, nil
	}
	return nil, &DecodeError{Offset: d.Offset(), Detail: "unknown kind " + s.Kind.String(), Err: ErrInvalidSchema}
}

// MaxZeroSizedElements caps the count of a sequence or map whose elements
// encode to zero bytes, since the input length cannot bound it.
const MaxZeroSizedElements = 1 << 20

// count reads an element count and rejects counts that cannot possibly be
// satisfied by the remaining input.
func (dec *decoder) count(elem *schema.Schema) (int, error) {
	start := dec.d.Offset()
	n, err := dec.d.ReadLen()
	if err != nil {
		return 0, err
	}
	if err := dec.checkCount(n, dec.minSize(elem), start); err != nil {
		return 0, err
	}
	return n, nil
}

func (dec *decoder) checkCount(n, elemSize, start int) error {
	switch {
	case elemSize > 0 && n > dec.d.Remaining()/elemSize:
		return &DecodeError{Offset: start, Detail: strconv.Itoa(n) + " elements announced", Err: ErrTruncatedInput}
	case elemSize == 0 && n > MaxZeroSizedElements:
		return &DecodeError{Offset: start, Detail: strconv.Itoa(n) + " zero-sized elements announced", Err: ErrTruncatedInput}
	}
	return nil
}

func (dec *decoder) elems(elem *schema.Schema, n int, path string) (Seq, error) {
	out := make(Seq, 0, min(n, dec.d.Remaining()+1))
	for i := 0; i < n; i++ {
		v, err := dec.value(elem, index(path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (dec *decoder) fields(fields []schema.Field, path string) ([]Value, error) {
	out := make([]Value, len(fields))
	for i, f := range fields {
		v, err := dec.value(f.Schema, fieldPath(path, f, i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (dec *decoder) decodeMap(s *schema.Schema, path string) (Value, error) {
	d := dec.d
	start := d.Offset()
	n, err := d.ReadLen()
	if err != nil {
		return nil, err
	}
	if err := dec.checkCount(n, dec.minSize(s.Key)+dec.minSize(s.Elem), start); err != nil {
		return nil, err
	}
	out := make(Map, 0, min(n, d.Remaining()+1))
	seen := make(map[string]struct{}, min(n, d.Remaining()+1))
	for i := 0; i < n; i++ {
		epath := index(path, i)
		start := d.Offset()
		k, err := dec.value(s.Key, epath+".key")
		if err != nil {
			return nil, err
		}
		raw := string(d.buf[start:d.Offset()])
		if _, dup := seen[raw]; dup {
			return nil, &DecodeError{Offset: start, Path: epath, Err: ErrDuplicateMapKey}
		}
		seen[raw] = struct{}{}
		v, err := dec.value(s.Elem, epath+".value")
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Key: k, Value: v})
	}
	return out, nil
}

// minSize returns the smallest number of bytes any value of s encodes to.
// Nodes on the current recursion stack count as zero.
func (dec *decoder) minSize(s *schema.Schema) int {
	if m, ok := dec.min[s]; ok {
		return m
	}
	dec.min[s] = 0
	var m int
	switch s.Kind {
	case schema.KindF32:
		m = 4
	case schema.KindF64:
		m = 8
	case schema.KindUnit:
		m = 0
	case schema.KindNewtype:
		m = dec.minSize(s.Elem)
	case schema.KindArray:
		m = s.Len * dec.minSize(s.Elem)
	case schema.KindTuple, schema.KindStruct:
		for _, f := range s.Fields {
			m += dec.minSize(f.Schema)
		}
	default:
		// every other kind starts with at least one byte: a value, a tag,
		// a discriminant or a length
		m = 1
	}
	dec.min[s] = m
	return m
}
