package contract

import (
	"strconv"
	"strings"
)

// Nullable wraps a type whose value may be absent (a Go pointer).
//
// The TypeScript mapping drops nullability from the type expression;
// optionality is expressed through parameter defaults instead.
type Nullable struct {
	typeBase

	// Elem is the wrapped type.
	Elem Type
}

// Kind returns KindNullable.
func (t *Nullable) Kind() Kind { return KindNullable }

func (t *Nullable) String() string { return "*" + typeString(t.Elem) }

// Ptr returns a Nullable wrapping elem.
func Ptr(elem Type) *Nullable {
	return &Nullable{Elem: elem}
}

// Sequence represents an ordered collection (slice or fixed-length array).
type Sequence struct {
	typeBase

	// Elem is the element type.
	Elem Type

	// Length is 0 for slices ([]T), or >0 for fixed-length arrays ([N]T).
	Length int
}

// Kind returns KindSequence.
func (t *Sequence) Kind() Kind { return KindSequence }

func (t *Sequence) String() string {
	if t.Length > 0 {
		return "[" + strconv.Itoa(t.Length) + "]" + typeString(t.Elem)
	}
	return "[]" + typeString(t.Elem)
}

// Slice returns a Sequence for a slice type.
func Slice(elem Type) *Sequence {
	return &Sequence{Elem: elem}
}

// Array returns a Sequence for a fixed-length array.
func Array(elem Type, length int) *Sequence {
	return &Sequence{Elem: elem, Length: length}
}

// Map represents a keyed container.
type Map struct {
	typeBase

	// Key is the key type.
	Key Type

	// Value is the value type.
	Value Type
}

// Kind returns KindMap.
func (t *Map) Kind() Kind { return KindMap }

func (t *Map) String() string {
	return "map[" + typeString(t.Key) + "]" + typeString(t.Value)
}

// MapOf returns a Map from key to value.
func MapOf(key, value Type) *Map {
	return &Map{Key: key, Value: value}
}

// Generic represents an instantiation of a generic named type, e.g. Page[User].
type Generic struct {
	typeBase

	// Definition identifies the uninstantiated generic type ("Page").
	Definition Identifier

	// Args are the type arguments in declaration order.
	Args []Type

	// Underlying optionally exposes the structural shape of the
	// instantiation. A *Map here makes the generic a keyed container.
	Underlying Type
}

// Kind returns KindGeneric.
func (t *Generic) Kind() Kind { return KindGeneric }

func (t *Generic) String() string {
	return t.Definition.String() + "[" + joinTypes(t.Args) + "]"
}

// Instantiate returns a Generic for definition applied to args.
func Instantiate(definition Identifier, args ...Type) *Generic {
	return &Generic{Definition: definition, Args: args}
}

// FutureIdentifier is the wrapper name used for asynchronous results when a
// provider has no better one.
var FutureIdentifier = Identifier{Name: "Future"}

// Async wraps the payload of an asynchronous result.
//
// Providers produce it for Go methods returning (T, error) or a bare error:
// the error result is the failure channel of the remote call, and T is the
// payload. A bare error has a Void payload.
type Async struct {
	typeBase

	// Wrapper names the wrapper type when it appears outside a return
	// position. Zero means FutureIdentifier.
	Wrapper Identifier

	// Result is the payload type. nil is treated as Void.
	Result Type
}

// Kind returns KindAsync.
func (t *Async) Kind() Kind { return KindAsync }

func (t *Async) String() string {
	if t.Result == nil || isVoid(t.Result) {
		return "error"
	}
	return "(" + typeString(t.Result) + ", error)"
}

// Payload returns the wrapped result, Void when none was set.
func (t *Async) Payload() Type {
	if t.Result == nil {
		return Void()
	}
	return t.Result
}

// WrapperName returns the wrapper identifier, defaulting to FutureIdentifier.
func (t *Async) WrapperName() Identifier {
	if t.Wrapper.IsZero() {
		return FutureIdentifier
	}
	return t.Wrapper
}

// Future returns an Async with the given payload.
func Future(result Type) *Async {
	return &Async{Result: result}
}

// Named is a reference to a user-defined named type (struct, enum-like
// defined type, or anything else that is referenced by name).
type Named struct {
	typeBase

	// Ref is the referenced type's identifier.
	Ref Identifier

	// Underlying optionally exposes the structural shape of the named type
	// when it is a map or a sequence (type Scores map[string]int).
	Underlying Type
}

// Kind returns KindNamed.
func (t *Named) Kind() Kind { return KindNamed }

func (t *Named) String() string { return t.Ref.String() }

// Ref returns a Named for the given type name and package.
func Ref(name, pkg string) *Named {
	return &Named{Ref: Identifier{Name: name, Package: pkg}}
}

// RefOf returns a Named for an identifier.
func RefOf(id Identifier) *Named {
	return &Named{Ref: id}
}

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func joinTypes(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = typeString(t)
	}
	return strings.Join(parts, ", ")
}

func isVoid(t Type) bool {
	p, ok := t.(*Primitive)
	return ok && p.PrimitiveKind == PrimitiveVoid
}
