package contract

// Kind identifies the shape of a reflected type.
type Kind int

const (
	KindPrimitive Kind = iota // Built-in primitive (bool, numbers, string, time, void, any)
	KindNullable              // Nullable wrapper (*T)
	KindSequence              // Ordered collection ([]T or [N]T)
	KindMap                   // Keyed container (map[K]V)
	KindGeneric               // Instantiated generic type (Page[T])
	KindAsync                 // Asynchronous result wrapper ((T, error))
	KindNamed                 // User-defined named type
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindNullable:
		return "Nullable"
	case KindSequence:
		return "Sequence"
	case KindMap:
		return "Map"
	case KindGeneric:
		return "Generic"
	case KindAsync:
		return "Async"
	case KindNamed:
		return "Named"
	default:
		return "Unknown"
	}
}

// Type is a node in the reflected type graph.
//
// The set of implementations is closed: Primitive, Nullable, Sequence, Map,
// Generic, Async and Named. Named is the wildcard for user-defined types.
type Type interface {
	// Kind returns the kind for type switching.
	Kind() Kind

	// String returns a Go-like spelling of the type, used in diagnostics.
	String() string

	// Ensure only types in this package can implement Type.
	sealed()
}

type typeBase struct{}

func (typeBase) sealed() {}
