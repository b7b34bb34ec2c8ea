// Package mapper translates reflected contract types into TypeScript type
// expressions and extracts per-method metadata for the emitters.
//
// Mapping is a pure function of its input and the Namer: no I/O, no shared
// mutable state. A Mapper may be used from multiple goroutines.
package mapper

import (
	"strings"

	"github.com/broady/typedwamp/contract"
	"github.com/broady/typedwamp/naming"
)

// Fixed TypeScript literals for primitive types.
const (
	TypeVoid    = "void"
	TypeBoolean = "boolean"
	TypeDate    = "Date"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeAny     = "any"
)

// Keyed container wrappers. A dictionary key must map to TypeString or
// TypeNumber.
const (
	StringKeyedDictionary = "StringKeyedDictionary"
	NumberKeyedDictionary = "NumberKeyedDictionary"
)

// Mapper maps contract types to TypeScript type expressions.
type Mapper struct {
	namer naming.Namer
}

// New returns a Mapper that names composite types with namer.
func New(namer naming.Namer) *Mapper {
	return &Mapper{namer: namer}
}

// MapType returns the TypeScript type expression for t.
//
// Rules apply in a fixed order: keyed container, nullable, generic, void,
// boolean, date, string, numeric, any, enumerable, and finally named
// reference. The only error is *UnsupportedKeyTypeError.
func (m *Mapper) MapType(t contract.Type) (string, error) {
	if key, value, ok := keyedContainer(t); ok {
		return m.mapDictionary(key, value)
	}

	switch typ := t.(type) {
	case *contract.Nullable:
		return m.MapType(typ.Elem)
	case *contract.Generic:
		return m.mapGeneric(m.namer.TypeName(typ.Definition), typ.Args)
	case *contract.Async:
		return m.mapGeneric(m.namer.TypeName(typ.WrapperName()), []contract.Type{typ.Payload()})
	case *contract.Primitive:
		return mapPrimitive(typ), nil
	case nil:
		return TypeAny, nil
	}

	if elem, ok := enumerable(t); ok {
		s, err := m.MapType(elem)
		if err != nil {
			return "", err
		}
		return s + "[]", nil
	}

	return m.MapCompositeType(t), nil
}

// MapCompositeType names a user-defined type through the Namer.
// Types that are not *contract.Named are spelled with their Go form.
func (m *Mapper) MapCompositeType(t contract.Type) string {
	if named, ok := t.(*contract.Named); ok {
		return m.namer.TypeName(named.Ref)
	}
	return m.namer.TypeName(contract.Identifier{Name: t.String()})
}

func (m *Mapper) mapDictionary(key, value contract.Type) (string, error) {
	keyType, err := m.MapType(key)
	if err != nil {
		return "", err
	}
	valueType, err := m.MapType(value)
	if err != nil {
		return "", err
	}

	switch keyType {
	case TypeString:
		return StringKeyedDictionary + "<" + valueType + ">", nil
	case TypeNumber:
		return NumberKeyedDictionary + "<" + valueType + ">", nil
	default:
		return "", &UnsupportedKeyTypeError{Key: key, Mapped: keyType}
	}
}

func (m *Mapper) mapGeneric(name string, args []contract.Type) (string, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		s, err := m.MapType(arg)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return name + "<" + strings.Join(parts, ", ") + ">", nil
}

func mapPrimitive(p *contract.Primitive) string {
	switch p.PrimitiveKind {
	case contract.PrimitiveVoid:
		return TypeVoid
	case contract.PrimitiveBool:
		return TypeBoolean
	case contract.PrimitiveTime:
		return TypeDate
	case contract.PrimitiveString:
		return TypeString
	case contract.PrimitiveInt, contract.PrimitiveUint, contract.PrimitiveFloat:
		// All widths collapse to number, precision loss included.
		return TypeNumber
	default:
		return TypeAny
	}
}

// keyedContainer reports whether t is a map, directly or through the
// underlying shape of a named or generic type.
func keyedContainer(t contract.Type) (key, value contract.Type, ok bool) {
	switch typ := t.(type) {
	case *contract.Map:
		return typ.Key, typ.Value, true
	case *contract.Named:
		if typ.Underlying != nil {
			return keyedContainer(typ.Underlying)
		}
	case *contract.Generic:
		if typ.Underlying != nil {
			return keyedContainer(typ.Underlying)
		}
	}
	return nil, nil, false
}

// enumerable reports whether t is a sequence, directly or through the
// underlying shape of a named type. Generic types never reach this check.
func enumerable(t contract.Type) (contract.Type, bool) {
	switch typ := t.(type) {
	case *contract.Sequence:
		return typ.Elem, true
	case *contract.Named:
		if typ.Underlying != nil {
			return enumerable(typ.Underlying)
		}
	}
	return nil, false
}
