package postcard

// Value is an in-memory value of the data model. The concrete types form a
// closed set; which one is expected at a given position is decided by the
// Schema, never by the value itself.
//
//	bool                     Bool
//	i8 i16 i32 i64           Int
//	u8 u16 u32 u64           Uint
//	i128 / u128              Int128 / Uint128
//	f32 / f64                Float32 / Float64
//	char                     Char
//	string / bytes           String / Bytes
//	Vec, [T; N], tuple       Seq
//	Option<T>                Option
//	map                      Map
//	struct                   Record (fields in declaration order)
//	enum                     Variant
//	unit struct              Unit
//
// A newtype is represented by its wrapped value.
type Value interface {
	isValue()
}

type (
	Bool    bool
	Int     int64
	Uint    uint64
	Float32 float32
	Float64 float64
	Char    rune
	String  string
	Bytes   []byte
	// Seq holds the elements of dynamic sequences, fixed arrays, tuples and
	// tuple structs, and the payload of tuple variants.
	Seq []Value
	// Record holds struct fields, and struct variant payloads, in
	// declaration order.
	Record []Value
	// Map holds entries in iteration order. Keys must be unique.
	Map []Entry
	// Unit is the zero-sized value of unit structs and the payload of unit
	// variants.
	Unit struct{}
)

// Option is present when Value is not nil.
type Option struct {
	Value Value
}

// Variant is an enum value. Index is the zero-based declaration index of the
// active variant; Payload is nil (or Unit) for unit variants, the wrapped
// value for newtype variants, a Seq for tuple variants and a Record for struct
// variants.
type Variant struct {
	Index   uint32
	Payload Value
}

// Entry is a single map entry.
type Entry struct {
	Key   Value
	Value Value
}

func (Bool) isValue()    {}
func (Int) isValue()     {}
func (Uint) isValue()    {}
func (Int128) isValue()  {}
func (Uint128) isValue() {}
func (Float32) isValue() {}
func (Float64) isValue() {}
func (Char) isValue()    {}
func (String) isValue()  {}
func (Bytes) isValue()   {}
func (Seq) isValue()     {}
func (Record) isValue()  {}
func (Map) isValue()     {}
func (Unit) isValue()    {}
func (Option) isValue()  {}
func (Variant) isValue() {}

// None is the absent Option.
var None = Option{}

// Some wraps v in a present Option.
func Some(v Value) Option { return Option{Value: v} }

// IsSome reports whether o holds a value.
func (o Option) IsSome() bool { return o.Value != nil }

// Tuple builds a Seq from its arguments.
func Tuple(vs ...Value) Seq { return Seq(vs) }

// Struct builds a Record from field values in declaration order.
func Struct(fields ...Value) Record { return Record(fields) }

// Enum builds a variant value with a payload.
func Enum(index uint32, payload Value) Variant { return Variant{Index: index, Payload: payload} }

// UnitVariant builds a payload-less variant value.
func UnitVariant(index uint32) Variant { return Variant{Index: index} }

// Get returns the value stored under key, comparing keys with Equal.
func (m Map) Get(key Value) (Value, bool) {
	for _, e := range m {
		if Equal(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}
