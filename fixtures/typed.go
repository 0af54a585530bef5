package fixtures

import (
	"fmt"

	p "github.com/unkn0wn-root/postcard"
)

// Hand-written Go counterparts of a few fixture types. They encode through
// the Serializer directly, without a schema, and must produce the same bytes
// as the schema-driven path.

type PrimitivesT struct {
	Bool   bool
	I8     int8
	I16    int16
	I32    int32
	I64    int64
	I128   p.Int128
	U8     uint8
	U16    uint16
	U32    uint32
	U64    uint64
	U128   p.Uint128
	F32    float32
	F64    float64
	Char   rune
	String string
}

func (v *PrimitivesT) EncodePostcard(s *p.Serializer) error {
	s.WriteBool(v.Bool)
	s.WriteI8(v.I8)
	s.WriteI16(v.I16)
	s.WriteI32(v.I32)
	s.WriteI64(v.I64)
	s.WriteI128(v.I128)
	s.WriteU8(v.U8)
	s.WriteU16(v.U16)
	s.WriteU32(v.U32)
	s.WriteU64(v.U64)
	s.WriteU128(v.U128)
	s.WriteF32(v.F32)
	s.WriteF64(v.F64)
	s.WriteChar(v.Char)
	s.WriteString(v.String)
	return nil
}

func (v *PrimitivesT) DecodePostcard(d *p.Deserializer) (err error) {
	if v.Bool, err = d.ReadBool(); err != nil {
		return err
	}
	if v.I8, err = d.ReadI8(); err != nil {
		return err
	}
	if v.I16, err = d.ReadI16(); err != nil {
		return err
	}
	if v.I32, err = d.ReadI32(); err != nil {
		return err
	}
	if v.I64, err = d.ReadI64(); err != nil {
		return err
	}
	if v.I128, err = d.ReadI128(); err != nil {
		return err
	}
	if v.U8, err = d.ReadU8(); err != nil {
		return err
	}
	if v.U16, err = d.ReadU16(); err != nil {
		return err
	}
	if v.U32, err = d.ReadU32(); err != nil {
		return err
	}
	if v.U64, err = d.ReadU64(); err != nil {
		return err
	}
	if v.U128, err = d.ReadU128(); err != nil {
		return err
	}
	if v.F32, err = d.ReadF32(); err != nil {
		return err
	}
	if v.F64, err = d.ReadF64(); err != nil {
		return err
	}
	if v.Char, err = d.ReadChar(); err != nil {
		return err
	}
	v.String, err = d.ReadString()
	return err
}

type InnerStructT struct {
	ID   uint64
	Name string
}

func (v *InnerStructT) EncodePostcard(s *p.Serializer) error {
	s.WriteU64(v.ID)
	s.WriteString(v.Name)
	return nil
}

func (v *InnerStructT) DecodePostcard(d *p.Deserializer) (err error) {
	if v.ID, err = d.ReadU64(); err != nil {
		return err
	}
	v.Name, err = d.ReadString()
	return err
}

type CoordinatesT struct {
	X, Y, Z float64
}

func (c *CoordinatesT) EncodePostcard(s *p.Serializer) error {
	s.WriteF64(c.X)
	s.WriteF64(c.Y)
	s.WriteF64(c.Z)
	return nil
}

func (c *CoordinatesT) DecodePostcard(d *p.Deserializer) (err error) {
	if c.X, err = d.ReadF64(); err != nil {
		return err
	}
	if c.Y, err = d.ReadF64(); err != nil {
		return err
	}
	c.Z, err = d.ReadF64()
	return err
}

type ElementT uint32

const (
	Fire ElementT = iota
	Ice
	Lightning
)

func (e ElementT) String() string {
	switch e {
	case Fire:
		return "Fire"
	case Ice:
		return "Ice"
	case Lightning:
		return "Lightning"
	}
	return fmt.Sprintf("Element(%d)", uint32(e))
}

type WeaponT struct {
	Name    string
	Damage  uint16
	Element *ElementT
}

func (w *WeaponT) EncodePostcard(s *p.Serializer) error {
	s.WriteString(w.Name)
	s.WriteU16(w.Damage)
	s.WriteOption(w.Element != nil)
	if w.Element != nil {
		if *w.Element > Lightning {
			return &p.EncodeError{Path: "$.element?", Detail: w.Element.String(), Err: p.ErrUnknownVariant}
		}
		s.WriteVariant(uint32(*w.Element))
	}
	return nil
}

func (w *WeaponT) DecodePostcard(d *p.Deserializer) (err error) {
	if w.Name, err = d.ReadString(); err != nil {
		return err
	}
	if w.Damage, err = d.ReadU16(); err != nil {
		return err
	}
	some, err := d.ReadOption()
	if err != nil || !some {
		w.Element = nil
		return err
	}
	idx, err := d.ReadVariant(int(Lightning) + 1)
	if err != nil {
		return err
	}
	el := ElementT(idx)
	w.Element = &el
	return nil
}

var (
	_ p.Codable = (*PrimitivesT)(nil)
	_ p.Codable = (*InnerStructT)(nil)
	_ p.Codable = (*CoordinatesT)(nil)
	_ p.Codable = (*WeaponT)(nil)
)
