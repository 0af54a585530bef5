// Package schema describes the statically known shape of an encoded value.
//
// The wire format carries no field names and no type tags, so an encoder and a
// decoder must agree on a Schema out of band. A Schema is an ordered
// descriptor tree: record fields and enum variants are listed in declaration
// order and that order is what ends up on the wire.
package schema

import "fmt"

// Kind is the shape kind of a Schema node. It selects the encoding rule.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindF32
	KindF64
	KindChar
	KindString
	KindBytes
	KindSeq   // dynamic sequence, length prefixed
	KindArray // fixed-size homogeneous sequence, no prefix
	KindTuple // heterogeneous fixed sequence (tuples and tuple structs)
	KindOption
	KindMap
	KindStruct
	KindEnum
	KindNewtype
	KindUnit
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindI8:      "i8",
	KindI16:     "i16",
	KindI32:     "i32",
	KindI64:     "i64",
	KindI128:    "i128",
	KindU8:      "u8",
	KindU16:     "u16",
	KindU32:     "u32",
	KindU64:     "u64",
	KindU128:    "u128",
	KindF32:     "f32",
	KindF64:     "f64",
	KindChar:    "char",
	KindString:  "string",
	KindBytes:   "bytes",
	KindSeq:     "seq",
	KindArray:   "array",
	KindTuple:   "tuple",
	KindOption:  "option",
	KindMap:     "map",
	KindStruct:  "struct",
	KindEnum:    "enum",
	KindNewtype: "newtype",
	KindUnit:    "unit",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Bits returns the declared bit width of an integer kind and whether it is
// signed. It returns 0 for non-integer kinds.
func (k Kind) Bits() (bits int, signed bool) {
	switch k {
	case KindI8:
		return 8, true
	case KindI16:
		return 16, true
	case KindI32:
		return 32, true
	case KindI64:
		return 64, true
	case KindI128:
		return 128, true
	case KindU8:
		return 8, false
	case KindU16:
		return 16, false
	case KindU32:
		return 32, false
	case KindU64:
		return 64, false
	case KindU128:
		return 128, false
	}
	return 0, false
}

// VariantKind is the payload shape of an enum variant.
type VariantKind uint8

const (
	VariantUnit VariantKind = iota
	VariantNewtype
	VariantTuple
	VariantStruct
)

func (k VariantKind) String() string {
	switch k {
	case VariantUnit:
		return "unit"
	case VariantNewtype:
		return "newtype"
	case VariantTuple:
		return "tuple"
	case VariantStruct:
		return "struct"
	default:
		return fmt.Sprintf("variant(%d)", uint8(k))
	}
}

// Schema is one node of a shape description.
type Schema struct {
	Kind Kind
	// Name of a named type (struct, tuple struct, enum, newtype, unit struct).
	Name string
	// Elem is the element of a Seq, Array or Option, the wrapped value of a
	// Newtype and the value of a Map.
	Elem *Schema
	// Key is the key of a Map.
	Key *Schema
	// Len is the element count of an Array.
	Len int
	// Fields are the members of a Struct (named) or a Tuple (unnamed), in
	// declaration order.
	Fields []Field
	// Variants of an Enum in declaration order. The slice index is the wire
	// discriminant.
	Variants []Variant
}

// Field is a member of a record, tuple or variant payload.
type Field struct {
	Name   string
	Schema *Schema
}

// Variant is one alternative of an enum.
type Variant struct {
	Name string
	Kind VariantKind
	// Fields holds the payload: exactly one unnamed field for a newtype
	// variant, unnamed fields for a tuple variant, named fields for a struct
	// variant and nothing for a unit variant.
	Fields []Field
}

// TypeName returns a short human readable name for s.
func (s *Schema) TypeName() string {
	if s == nil {
		return "<nil>"
	}
	if s.Name != "" {
		return s.Name
	}
	switch s.Kind {
	case KindSeq:
		return "Vec<" + s.Elem.TypeName() + ">"
	case KindArray:
		return fmt.Sprintf("[%s; %d]", s.Elem.TypeName(), s.Len)
	case KindOption:
		return "Option<" + s.Elem.TypeName() + ">"
	case KindMap:
		return "Map<" + s.Key.TypeName() + ", " + s.Elem.TypeName() + ">"
	case KindTuple:
		out := "("
		for i, f := range s.Fields {
			if i > 0 {
				out += ", "
			}
			out += f.Schema.TypeName()
		}
		return out + ")"
	}
	return s.Kind.String()
}

// Variant returns the variant with the given name and its wire index.
func (s *Schema) Variant(name string) (int, *Variant, bool) {
	for i := range s.Variants {
		if s.Variants[i].Name == name {
			return i, &s.Variants[i], true
		}
	}
	return -1, nil, false
}

// FieldIndex returns the position of the named field in a Struct or a struct
// variant payload.
func FieldIndex(fields []Field, name string) int {
	for i, f := range fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}
