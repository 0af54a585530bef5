// Package inspect renders decoded values in a self-describing form so fixture
// sets produced by different implementations can be diffed with ordinary
// tools.
//
// Records become objects keyed by field name, enums are externally tagged
// ({"Variant": payload}, or the bare name for unit variants), maps with string
// keys become objects and all other maps become lists of {"key","value"}
// pairs. 128-bit integers are written as decimal strings and non-finite
// floats as "NaN", "+Inf" or "-Inf".
package inspect

import (
	"fmt"
	"math"
	"sort"

	"github.com/unkn0wn-root/postcard"
	"github.com/unkn0wn-root/postcard/schema"
)

// Tree converts v, which must conform to s, into a tree of nil, bool, int64,
// uint64, float32, float64, string, []byte, []any and map[string]any.
func Tree(v postcard.Value, s *schema.Schema) (any, error) {
	if err := schema.Validate(s); err != nil {
		return nil, err
	}
	return tree(v, s, "$")
}

func mismatch(path string, s *schema.Schema, v postcard.Value) error {
	return fmt.Errorf("%w at %s: %s does not hold %T", postcard.ErrSchemaMismatch, path, s.TypeName(), v)
}

func tree(v postcard.Value, s *schema.Schema, path string) (any, error) {
	switch s.Kind {
	case schema.KindBool:
		if b, ok := v.(postcard.Bool); ok {
			return bool(b), nil
		}
	case schema.KindI8, schema.KindI16, schema.KindI32, schema.KindI64:
		if n, ok := v.(postcard.Int); ok {
			return int64(n), nil
		}
	case schema.KindU8, schema.KindU16, schema.KindU32, schema.KindU64:
		if n, ok := v.(postcard.Uint); ok {
			return uint64(n), nil
		}
	case schema.KindI128:
		switch n := v.(type) {
		case postcard.Int128:
			return n.String(), nil
		case postcard.Int:
			return postcard.I128(int64(n)).String(), nil
		}
	case schema.KindU128:
		switch n := v.(type) {
		case postcard.Uint128:
			return n.String(), nil
		case postcard.Uint:
			return postcard.U128(uint64(n)).String(), nil
		}
	case schema.KindF32:
		if f, ok := v.(postcard.Float32); ok {
			if nf, bad := nonFinite(float64(f)); bad {
				return nf, nil
			}
			return float32(f), nil
		}
	case schema.KindF64:
		if f, ok := v.(postcard.Float64); ok {
			if nf, bad := nonFinite(float64(f)); bad {
				return nf, nil
			}
			return float64(f), nil
		}
	case schema.KindChar:
		if c, ok := v.(postcard.Char); ok {
			return string(rune(c)), nil
		}
	case schema.KindString:
		if str, ok := v.(postcard.String); ok {
			return string(str), nil
		}
	case schema.KindBytes:
		if b, ok := v.(postcard.Bytes); ok {
			return []byte(b), nil
		}
	case schema.KindSeq, schema.KindArray:
		if seq, ok := v.(postcard.Seq); ok {
			out := make([]any, len(seq))
			for i, el := range seq {
				n, err := tree(el, s.Elem, fmt.Sprintf("%s[%d]", path, i))
				if err != nil {
					return nil, err
				}
				out[i] = n
			}
			return out, nil
		}
	case schema.KindTuple:
		if seq, ok := v.(postcard.Seq); ok {
			return list([]postcard.Value(seq), s.Fields, path)
		}
	case schema.KindStruct:
		if rec, ok := v.(postcard.Record); ok {
			return object([]postcard.Value(rec), s.Fields, path)
		}
	case schema.KindOption:
		if opt, ok := v.(postcard.Option); ok {
			if !opt.IsSome() {
				return nil, nil
			}
			return tree(opt.Value, s.Elem, path+"?")
		}
	case schema.KindMap:
		if m, ok := v.(postcard.Map); ok {
			return mapTree(m, s, path)
		}
	case schema.KindEnum:
		if vr, ok := v.(postcard.Variant); ok {
			return variant(vr, s, path)
		}
	case schema.KindNewtype:
		return tree(v, s.Elem, path)
	case schema.KindUnit:
		if _, ok := v.(postcard.Unit); ok || v == nil {
			return nil, nil
		}
	}
	return nil, mismatch(path, s, v)
}

func nonFinite(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return "NaN", true
	case math.IsInf(f, 1):
		return "+Inf", true
	case math.IsInf(f, -1):
		return "-Inf", true
	}
	return "", false
}

func list(vals []postcard.Value, fields []schema.Field, path string) ([]any, error) {
	if len(vals) != len(fields) {
		return nil, fmt.Errorf("%w at %s: %d values for %d fields", postcard.ErrSchemaMismatch, path, len(vals), len(fields))
	}
	out := make([]any, len(vals))
	for i, f := range fields {
		n, err := tree(vals[i], f.Schema, fmt.Sprintf("%s.%d", path, i))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func object(vals []postcard.Value, fields []schema.Field, path string) (map[string]any, error) {
	if len(vals) != len(fields) {
		return nil, fmt.Errorf("%w at %s: %d values for %d fields", postcard.ErrSchemaMismatch, path, len(vals), len(fields))
	}
	out := make(map[string]any, len(vals))
	for i, f := range fields {
		n, err := tree(vals[i], f.Schema, path+"."+f.Name)
		if err != nil {
			return nil, err
		}
		out[f.Name] = n
	}
	return out, nil
}

func mapTree(m postcard.Map, s *schema.Schema, path string) (any, error) {
	if stringKeyed(s.Key) {
		out := make(map[string]any, len(m))
		for _, e := range m {
			k, err := tree(e.Key, s.Key, path+".key")
			if err != nil {
				return nil, err
			}
			ks := k.(string)
			n, err := tree(e.Value, s.Elem, path+"["+ks+"]")
			if err != nil {
				return nil, err
			}
			out[ks] = n
		}
		return out, nil
	}

	type pair struct {
		key  string
		node map[string]any
	}
	pairs := make([]pair, len(m))
	for i, e := range m {
		epath := fmt.Sprintf("%s[%d]", path, i)
		k, err := tree(e.Key, s.Key, epath+".key")
		if err != nil {
			return nil, err
		}
		n, err := tree(e.Value, s.Elem, epath+".value")
		if err != nil {
			return nil, err
		}
		pairs[i] = pair{key: fmt.Sprint(k), node: map[string]any{"key": k, "value": n}}
	}
	// entry order carries no meaning
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })
	out := make([]any, len(pairs))
	for i, p := range pairs {
		out[i] = p.node
	}
	return out, nil
}

func stringKeyed(s *schema.Schema) bool {
	for s.Kind == schema.KindNewtype {
		s = s.Elem
	}
	return s.Kind == schema.KindString || s.Kind == schema.KindChar
}

func variant(vr postcard.Variant, s *schema.Schema, path string) (any, error) {
	if int(vr.Index) >= len(s.Variants) {
		return nil, fmt.Errorf("%w at %s: index %d of %d variants", postcard.ErrUnknownVariant, path, vr.Index, len(s.Variants))
	}
	def := s.Variants[vr.Index]
	vpath := path + "::" + def.Name

	var (
		payload any
		err     error
	)
	switch def.Kind {
	case schema.VariantUnit:
		return def.Name, nil
	case schema.VariantNewtype:
		payload, err = tree(vr.Payload, def.Fields[0].Schema, vpath)
	case schema.VariantTuple:
		seq, ok := vr.Payload.(postcard.Seq)
		if !ok {
			return nil, fmt.Errorf("%w at %s: tuple variant needs a Seq payload", postcard.ErrSchemaMismatch, vpath)
		}
		payload, err = list([]postcard.Value(seq), def.Fields, vpath)
	case schema.VariantStruct:
		rec, ok := vr.Payload.(postcard.Record)
		if !ok {
			return nil, fmt.Errorf("%w at %s: struct variant needs a Record payload", postcard.ErrSchemaMismatch, vpath)
		}
		payload, err = object([]postcard.Value(rec), def.Fields, vpath)
	}
	if err != nil {
		return nil, err
	}
	return map[string]any{def.Name: payload}, nil
}
