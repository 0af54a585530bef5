package schema

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid schema")

// Validate checks that s is well formed: every composite node has the children
// its kind requires, array lengths are not negative, tuple and newtype
// payloads are unnamed and struct fields are named and unique. Shared and
// recursive nodes are visited once.
func Validate(s *Schema) error {
	return validate(s, "$", make(map[*Schema]bool))
}

func invalid(path, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalid, path, fmt.Sprintf(format, args...))
}

func validate(s *Schema, path string, seen map[*Schema]bool) error {
	if s == nil {
		return invalid(path, "nil schema")
	}
	if seen[s] {
		return nil
	}
	seen[s] = true

	switch s.Kind {
	case KindBool, KindI8, KindI16, KindI32, KindI64, KindI128,
		KindU8, KindU16, KindU32, KindU64, KindU128,
		KindF32, KindF64, KindChar, KindString, KindBytes, KindUnit:
		return nil
	case KindSeq, KindOption, KindNewtype:
		return validate(s.Elem, path+"."+s.Kind.String(), seen)
	case KindArray:
		if s.Len < 0 {
			return invalid(path, "negative array length %d", s.Len)
		}
		return validate(s.Elem, path+"[]", seen)
	case KindMap:
		if err := validate(s.Key, path+".key", seen); err != nil {
			return err
		}
		return validate(s.Elem, path+".value", seen)
	case KindTuple:
		return validateFields(s.Fields, path, false, seen)
	case KindStruct:
		return validateFields(s.Fields, path, true, seen)
	case KindEnum:
		names := make(map[string]bool, len(s.Variants))
		for i, v := range s.Variants {
			vp := fmt.Sprintf("%s::%s", path, v.Name)
			if v.Name == "" {
				return invalid(path, "variant %d has no name", i)
			}
			if names[v.Name] {
				return invalid(path, "duplicate variant %q", v.Name)
			}
			names[v.Name] = true
			switch v.Kind {
			case VariantUnit:
				if len(v.Fields) != 0 {
					return invalid(vp, "unit variant with payload")
				}
			case VariantNewtype:
				if len(v.Fields) != 1 {
					return invalid(vp, "newtype variant needs exactly one field, got %d", len(v.Fields))
				}
				if err := validateFields(v.Fields, vp, false, seen); err != nil {
					return err
				}
			case VariantTuple:
				if err := validateFields(v.Fields, vp, false, seen); err != nil {
					return err
				}
			case VariantStruct:
				if err := validateFields(v.Fields, vp, true, seen); err != nil {
					return err
				}
			default:
				return invalid(vp, "unknown variant kind %d", v.Kind)
			}
		}
		return nil
	}
	return invalid(path, "unknown kind %s", s.Kind)
}

func validateFields(fields []Field, path string, named bool, seen map[*Schema]bool) error {
	names := make(map[string]bool, len(fields))
	for i, f := range fields {
		fp := fmt.Sprintf("%s.%d", path, i)
		if named {
			if f.Name == "" {
				return invalid(fp, "unnamed field in record")
			}
			if names[f.Name] {
				return invalid(path, "duplicate field %q", f.Name)
			}
			names[f.Name] = true
			fp = path + "." + f.Name
		} else if f.Name != "" {
			return invalid(fp, "named field %q in tuple", f.Name)
		}
		if err := validate(f.Schema, fp, seen); err != nil {
			return err
		}
	}
	return nil
}
