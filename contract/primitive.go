package contract

import "strconv"

// PrimitiveKind identifies the category of a primitive type.
type PrimitiveKind int

const (
	PrimitiveVoid PrimitiveKind = iota // No value (method without results)
	PrimitiveBool
	PrimitiveInt   // Signed integer (see BitSize)
	PrimitiveUint  // Unsigned integer (see BitSize)
	PrimitiveFloat // Floating point (see BitSize)
	PrimitiveString
	PrimitiveTime // time.Time
	PrimitiveAny  // interface{} / any
)

// String returns the string representation of the primitive kind.
func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveVoid:
		return "Void"
	case PrimitiveBool:
		return "Bool"
	case PrimitiveInt:
		return "Int"
	case PrimitiveUint:
		return "Uint"
	case PrimitiveFloat:
		return "Float"
	case PrimitiveString:
		return "String"
	case PrimitiveTime:
		return "Time"
	case PrimitiveAny:
		return "Any"
	default:
		return "Unknown"
	}
}

// Numeric reports whether the kind is an integer or floating point kind.
func (k PrimitiveKind) Numeric() bool {
	return k == PrimitiveInt || k == PrimitiveUint || k == PrimitiveFloat
}

// Primitive represents a built-in primitive type.
type Primitive struct {
	typeBase
	PrimitiveKind PrimitiveKind

	// BitSize specifies the size for numeric kinds.
	// 0 means platform-dependent (Go's int, uint); otherwise 8, 16, 32 or 64.
	// The TypeScript mapping ignores it: every numeric kind becomes "number".
	BitSize int
}

// Kind returns KindPrimitive.
func (p *Primitive) Kind() Kind { return KindPrimitive }

func (p *Primitive) String() string {
	switch p.PrimitiveKind {
	case PrimitiveVoid:
		return "void"
	case PrimitiveBool:
		return "bool"
	case PrimitiveInt:
		return "int" + bitSuffix(p.BitSize)
	case PrimitiveUint:
		return "uint" + bitSuffix(p.BitSize)
	case PrimitiveFloat:
		if p.BitSize == 0 {
			return "float64"
		}
		return "float" + bitSuffix(p.BitSize)
	case PrimitiveString:
		return "string"
	case PrimitiveTime:
		return "time.Time"
	case PrimitiveAny:
		return "any"
	default:
		return "unknown"
	}
}

func bitSuffix(size int) string {
	if size == 0 {
		return ""
	}
	return strconv.Itoa(size)
}

// Void returns a Primitive for the absence of a value.
func Void() *Primitive {
	return &Primitive{PrimitiveKind: PrimitiveVoid}
}

// Bool returns a Primitive for bool.
func Bool() *Primitive {
	return &Primitive{PrimitiveKind: PrimitiveBool}
}

// String returns a Primitive for string.
func String() *Primitive {
	return &Primitive{PrimitiveKind: PrimitiveString}
}

// Int returns a Primitive for int with the given bit size.
// Use 0 for platform-dependent int.
func Int(bitSize int) *Primitive {
	return &Primitive{PrimitiveKind: PrimitiveInt, BitSize: bitSize}
}

// Uint returns a Primitive for uint with the given bit size.
// Use 0 for platform-dependent uint.
func Uint(bitSize int) *Primitive {
	return &Primitive{PrimitiveKind: PrimitiveUint, BitSize: bitSize}
}

// Float returns a Primitive for float with the given bit size.
func Float(bitSize int) *Primitive {
	return &Primitive{PrimitiveKind: PrimitiveFloat, BitSize: bitSize}
}

// Time returns a Primitive for time.Time.
func Time() *Primitive {
	return &Primitive{PrimitiveKind: PrimitiveTime}
}

// Any returns a Primitive for any/interface{}.
func Any() *Primitive {
	return &Primitive{PrimitiveKind: PrimitiveAny}
}
