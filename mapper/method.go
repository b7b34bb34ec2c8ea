package mapper

import (
	"fmt"

	"github.com/broady/typedwamp/contract"
)

// ParameterMetadata describes one emitted parameter.
type ParameterMetadata struct {
	// Alias is the TypeScript parameter name.
	Alias string

	// Type is the TypeScript type expression.
	Type string

	// Optional is true exactly when the Go parameter declares a default.
	Optional bool

	// Default is the declared default as a TypeScript literal, empty when
	// the parameter is not optional.
	Default string
}

// MethodMetadata is everything the emitters need to know about a method.
// It is built once per method and never modified.
type MethodMetadata struct {
	// Alias is the TypeScript method name.
	Alias string

	// ContractName is the TypeScript name of the owning contract.
	ContractName string

	// Parameters in declaration order.
	Parameters []ParameterMetadata

	// URI is the procedure or topic URI; empty when Kind is MarkerNone.
	URI string

	// Kind is the marker classification.
	Kind contract.MarkerKind

	// Match and Invoke carry the registration policies, if any.
	Match  string
	Invoke string

	// ReturnType is the TypeScript type of the result payload, with any
	// asynchronous wrapper removed.
	ReturnType string
}

// EventHandler reports whether the method is a topic.
func (m MethodMetadata) EventHandler() bool {
	return m.Kind == contract.MarkerTopic
}

// Remote reports whether the method is part of the wire contract.
func (m MethodMetadata) Remote() bool {
	return m.Kind != contract.MarkerNone
}

// MapMethod builds the metadata for one method.
//
// A method without a marker is not an error: it yields metadata with an
// empty URI and Kind MarkerNone, and the emitters leave it out.
func (m *Mapper) MapMethod(method contract.Method) (MethodMetadata, error) {
	params := make([]ParameterMetadata, 0, len(method.Params))
	for _, p := range method.Params {
		typ, err := m.MapType(p.Type)
		if err != nil {
			return MethodMetadata{}, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		pm := ParameterMetadata{
			Alias:    m.namer.ParamName(p),
			Type:     typ,
			Optional: p.HasDefault(),
		}
		if p.HasDefault() {
			pm.Default = *p.Default
		}
		params = append(params, pm)
	}

	var uri string
	switch method.Marker.Kind {
	case contract.MarkerProcedure, contract.MarkerTopic:
		uri = method.Marker.URI
	}

	ret, err := m.MapType(UnwrapResult(method.Result))
	if err != nil {
		return MethodMetadata{}, fmt.Errorf("result: %w", err)
	}

	return MethodMetadata{
		Alias:        m.namer.MethodName(method),
		ContractName: m.namer.TypeName(method.Owner),
		Parameters:   params,
		URI:          uri,
		Kind:         method.Marker.Kind,
		Match:        method.Marker.Match,
		Invoke:       method.Marker.Invoke,
		ReturnType:   ret,
	}, nil
}

// UnwrapResult strips one asynchronous wrapper from a result type.
// A nil result is void.
func UnwrapResult(t contract.Type) contract.Type {
	switch typ := t.(type) {
	case nil:
		return contract.Void()
	case *contract.Async:
		return typ.Payload()
	default:
		return t
	}
}

// MapMethods maps every method of c carrying the given marker kind,
// in declaration order.
func (m *Mapper) MapMethods(c *contract.Contract, kind contract.MarkerKind) ([]MethodMetadata, error) {
	var out []MethodMetadata
	for _, method := range c.MethodsByKind(kind) {
		md, err := m.MapMethod(method)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", method.Name, err)
		}
		out = append(out, md)
	}
	return out, nil
}
