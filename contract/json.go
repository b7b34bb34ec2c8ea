package contract

import "encoding/json"

// JSON serialization support for contract types.
// All type nodes include a "kind" field for type discrimination.

// MarshalJSON implements json.Marshaler for Primitive.
func (p *Primitive) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind          string `json:"kind"`
		PrimitiveKind string `json:"primitiveKind"`
		BitSize       int    `json:"bitSize,omitempty"`
	}{
		Kind:          "primitive",
		PrimitiveKind: p.PrimitiveKind.String(),
		BitSize:       p.BitSize,
	})
}

// MarshalJSON implements json.Marshaler for Nullable.
func (t *Nullable) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		Elem Type   `json:"elem"`
	}{
		Kind: "nullable",
		Elem: t.Elem,
	})
}

// MarshalJSON implements json.Marshaler for Sequence.
func (t *Sequence) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind   string `json:"kind"`
		Elem   Type   `json:"elem"`
		Length int    `json:"length,omitempty"`
	}{
		Kind:   "sequence",
		Elem:   t.Elem,
		Length: t.Length,
	})
}

// MarshalJSON implements json.Marshaler for Map.
func (t *Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind  string `json:"kind"`
		Key   Type   `json:"key"`
		Value Type   `json:"value"`
	}{
		Kind:  "map",
		Key:   t.Key,
		Value: t.Value,
	})
}

// MarshalJSON implements json.Marshaler for Generic.
func (t *Generic) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind       string     `json:"kind"`
		Definition Identifier `json:"definition"`
		Args       []Type     `json:"args"`
		Underlying Type       `json:"underlying,omitempty"`
	}{
		Kind:       "generic",
		Definition: t.Definition,
		Args:       t.Args,
		Underlying: t.Underlying,
	})
}

// MarshalJSON implements json.Marshaler for Async.
func (t *Async) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind    string     `json:"kind"`
		Wrapper Identifier `json:"wrapper"`
		Result  Type       `json:"result"`
	}{
		Kind:    "async",
		Wrapper: t.WrapperName(),
		Result:  t.Payload(),
	})
}

// MarshalJSON implements json.Marshaler for Named.
func (t *Named) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind       string     `json:"kind"`
		Ref        Identifier `json:"ref"`
		Underlying Type       `json:"underlying,omitempty"`
	}{
		Kind:       "named",
		Ref:        t.Ref,
		Underlying: t.Underlying,
	})
}

// MarshalJSON implements json.Marshaler for Marker.
func (m Marker) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind   string `json:"kind"`
		URI    string `json:"uri,omitempty"`
		Match  string `json:"match,omitempty"`
		Invoke string `json:"invoke,omitempty"`
	}{
		Kind:   m.Kind.String(),
		URI:    m.URI,
		Match:  m.Match,
		Invoke: m.Invoke,
	})
}

// MarshalJSON implements json.Marshaler for Identifier.
func (id Identifier) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name    string `json:"name"`
		Package string `json:"package,omitempty"`
	}{
		Name:    id.Name,
		Package: id.Package,
	})
}

// MarshalJSON implements json.Marshaler for Documentation.
func (d Documentation) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(&struct {
		Summary    string  `json:"summary,omitempty"`
		Body       string  `json:"body,omitempty"`
		Deprecated *string `json:"deprecated,omitempty"`
	}{
		Summary:    d.Summary,
		Body:       d.Body,
		Deprecated: d.Deprecated,
	})
}

// MarshalJSON implements json.Marshaler for Source.
func (s Source) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(&struct {
		File   string `json:"file"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
	}{
		File:   s.File,
		Line:   s.Line,
		Column: s.Column,
	})
}

// MarshalJSON implements json.Marshaler for Param.
func (p Param) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name    string  `json:"name"`
		Type    Type    `json:"type"`
		Default *string `json:"default,omitempty"`
	}{
		Name:    p.Name,
		Type:    p.Type,
		Default: p.Default,
	})
}

// MarshalJSON implements json.Marshaler for Method.
func (m Method) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name          string        `json:"name"`
		Params        []Param       `json:"params"`
		Result        Type          `json:"result"`
		Marker        Marker        `json:"marker"`
		Documentation Documentation `json:"doc"`
		Source        Source        `json:"source"`
	}{
		Name:          m.Name,
		Params:        m.Params,
		Result:        m.Result,
		Marker:        m.Marker,
		Documentation: m.Documentation,
		Source:        m.Source,
	})
}

// MarshalJSON implements json.Marshaler for Contract.
func (c *Contract) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name          Identifier    `json:"name"`
		Methods       []Method      `json:"methods"`
		Documentation Documentation `json:"doc"`
		Source        Source        `json:"source"`
	}{
		Name:          c.Name,
		Methods:       c.Methods,
		Documentation: c.Documentation,
		Source:        c.Source,
	})
}
