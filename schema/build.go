package schema

func prim(k Kind) *Schema { return &Schema{Kind: k} }

func Bool() *Schema   { return prim(KindBool) }
func I8() *Schema     { return prim(KindI8) }
func I16() *Schema    { return prim(KindI16) }
func I32() *Schema    { return prim(KindI32) }
func I64() *Schema    { return prim(KindI64) }
func I128() *Schema   { return prim(KindI128) }
func U8() *Schema     { return prim(KindU8) }
func U16() *Schema    { return prim(KindU16) }
func U32() *Schema    { return prim(KindU32) }
func U64() *Schema    { return prim(KindU64) }
func U128() *Schema   { return prim(KindU128) }
func F32() *Schema    { return prim(KindF32) }
func F64() *Schema    { return prim(KindF64) }
func Char() *Schema   { return prim(KindChar) }
func String() *Schema { return prim(KindString) }
func Bytes() *Schema  { return prim(KindBytes) }

// Vec is a length prefixed sequence of elem.
func Vec(elem *Schema) *Schema { return &Schema{Kind: KindSeq, Elem: elem} }

// Array is a sequence of exactly n elem values with no length prefix.
func Array(elem *Schema, n int) *Schema { return &Schema{Kind: KindArray, Elem: elem, Len: n} }

// Tuple is an anonymous heterogeneous tuple.
func Tuple(elems ...*Schema) *Schema {
	return &Schema{Kind: KindTuple, Fields: unnamed(elems)}
}

// TupleStruct is a named tuple. It encodes exactly like Tuple.
func TupleStruct(name string, elems ...*Schema) *Schema {
	return &Schema{Kind: KindTuple, Name: name, Fields: unnamed(elems)}
}

func Option(elem *Schema) *Schema { return &Schema{Kind: KindOption, Elem: elem} }

func Map(key, value *Schema) *Schema { return &Schema{Kind: KindMap, Key: key, Elem: value} }

// Struct is a record with named fields in declaration order.
func Struct(name string, fields ...Field) *Schema {
	return &Schema{Kind: KindStruct, Name: name, Fields: fields}
}

// F declares a named field.
func F(name string, s *Schema) Field { return Field{Name: name, Schema: s} }

func Newtype(name string, inner *Schema) *Schema {
	return &Schema{Kind: KindNewtype, Name: name, Elem: inner}
}

func UnitStruct(name string) *Schema { return &Schema{Kind: KindUnit, Name: name} }

func Enum(name string, variants ...Variant) *Schema {
	return &Schema{Kind: KindEnum, Name: name, Variants: variants}
}

func UnitVariant(name string) Variant { return Variant{Name: name, Kind: VariantUnit} }

func NewtypeVariant(name string, s *Schema) Variant {
	return Variant{Name: name, Kind: VariantNewtype, Fields: []Field{{Schema: s}}}
}

func TupleVariant(name string, elems ...*Schema) Variant {
	return Variant{Name: name, Kind: VariantTuple, Fields: unnamed(elems)}
}

func StructVariant(name string, fields ...Field) Variant {
	return Variant{Name: name, Kind: VariantStruct, Fields: fields}
}

// CLikeEnum is an enum whose variants are all unit variants.
func CLikeEnum(name string, variants ...string) *Schema {
	vs := make([]Variant, len(variants))
	for i, v := range variants {
		vs[i] = UnitVariant(v)
	}
	return Enum(name, vs...)
}

func unnamed(elems []*Schema) []Field {
	fs := make([]Field, len(elems))
	for i, e := range elems {
		fs[i] = Field{Schema: e}
	}
	return fs
}
