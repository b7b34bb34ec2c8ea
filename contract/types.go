// Package contract defines the reflected description of a WAMP service
// contract: the interface, its annotated methods and the type graph of their
// parameters and results. Providers build these values from Go code and the
// mapper translates them into TypeScript.
package contract

import "fmt"

// Identifier names a Go entity together with its package.
type Identifier struct {
	// Name is the Go identifier, e.g. "ArgumentsService" or "Page".
	Name string

	// Package is the fully qualified package path.
	// Empty for builtin types.
	Package string
}

// IsZero returns true if the identifier is empty.
func (id Identifier) IsZero() bool {
	return id.Name == "" && id.Package == ""
}

// String returns the qualified name, "pkg.Name" or just "Name" for builtins.
func (id Identifier) String() string {
	if id.Package == "" {
		return id.Name
	}
	return id.Package + "." + id.Name
}

// Documentation holds documentation comments extracted from Go source.
type Documentation struct {
	// Summary is the first sentence or line.
	Summary string

	// Body is the complete documentation text, including the summary.
	Body string

	// Deprecated is non-nil if the symbol is marked deprecated.
	// The string value is the deprecation message (may be empty).
	Deprecated *string
}

// IsZero returns true if the documentation is empty.
func (d Documentation) IsZero() bool {
	return d.Summary == "" && d.Body == "" && d.Deprecated == nil
}

// Source represents source code location information.
type Source struct {
	File   string
	Line   int
	Column int
}

// IsZero returns true if the source location is empty.
func (s Source) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Column == 0
}

// String formats the location as file:line:column.
func (s Source) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Warning represents a non-fatal issue encountered while building a contract.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Source is the location that triggered the warning, if applicable.
	Source *Source `json:"source,omitempty"`

	// TypeName is the type that triggered the warning, if applicable.
	TypeName string `json:"type,omitempty"`
}
