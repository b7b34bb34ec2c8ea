package contract

// MarkerKind classifies a method as a remote procedure, a topic, or neither.
type MarkerKind int

const (
	MarkerNone      MarkerKind = iota // Not a remote call
	MarkerProcedure                   // Request/response call (WAMP RPC)
	MarkerTopic                       // Publish/subscribe event
)

// String returns the lower-case name used in generated metadata.
func (k MarkerKind) String() string {
	switch k {
	case MarkerProcedure:
		return "procedure"
	case MarkerTopic:
		return "topic"
	default:
		return "none"
	}
}

// Match policies for registrations and subscriptions.
const (
	MatchExact    = "exact"
	MatchPrefix   = "prefix"
	MatchWildcard = "wildcard"
)

// Invocation policies for shared registrations.
const (
	InvokeSingle     = "single"
	InvokeRoundRobin = "roundrobin"
	InvokeRandom     = "random"
	InvokeFirst      = "first"
	InvokeLast       = "last"
)

// Marker is the annotation attached to a contract method.
type Marker struct {
	// Kind is the marker classification. MarkerNone means the method is not
	// part of the wire contract.
	Kind MarkerKind

	// URI is the procedure or topic URI. Empty when Kind is MarkerNone.
	URI string

	// Match is the optional match policy ("exact", "prefix", "wildcard").
	Match string

	// Invoke is the optional invocation policy for procedures.
	Invoke string
}

// Procedure returns a procedure marker for uri.
func Procedure(uri string) Marker {
	return Marker{Kind: MarkerProcedure, URI: uri}
}

// Topic returns a topic marker for uri.
func Topic(uri string) Marker {
	return Marker{Kind: MarkerTopic, URI: uri}
}

// Contract describes one service interface.
type Contract struct {
	// Name identifies the interface type.
	Name Identifier

	// Methods in declaration order.
	Methods []Method

	// Documentation for this contract.
	Documentation Documentation

	// Source location in Go code.
	Source Source
}

// Method describes one method of a contract.
type Method struct {
	// Name is the Go method name.
	Name string

	// Owner is the declaring contract.
	Owner Identifier

	// Params in declaration order, without a leading context.Context.
	Params []Param

	// Result is the return type. Void for methods without results,
	// Async for methods that also return an error.
	Result Type

	// Marker classifies the method.
	Marker Marker

	// Documentation for this method.
	Documentation Documentation

	// Source location in Go code.
	Source Source
}

// Param describes one method parameter.
type Param struct {
	// Name is the Go parameter name.
	Name string

	// Type is the parameter type.
	Type Type

	// Default is the declared default value as a TypeScript literal,
	// nil when the parameter has no default.
	Default *string
}

// HasDefault reports whether the parameter declares a default value.
func (p Param) HasDefault() bool { return p.Default != nil }

// MethodsByKind returns the methods carrying the given marker kind,
// preserving declaration order.
func (c *Contract) MethodsByKind(kind MarkerKind) []Method {
	var out []Method
	for _, m := range c.Methods {
		if m.Marker.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// FindMethod looks up a method by Go name. Returns nil if not found.
func (c *Contract) FindMethod(name string) *Method {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i]
		}
	}
	return nil
}
