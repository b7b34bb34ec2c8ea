// Package directive parses typedwamp directives from Go comments.
//
// Directives are line comments in the form:
//
//	//wamp:contract
//	//wamp:procedure <uri> [match=exact|prefix|wildcard] [invoke=single|roundrobin|random|first|last]
//	//wamp:topic <uri> [match=exact|prefix|wildcard]
//	//wamp:default <param>=<literal> ...
//
// The contract directive marks an interface type. The other directives
// annotate methods of such an interface. Default values are TypeScript
// literals and are kept verbatim.
package directive

import (
	"fmt"
	"go/ast"
	"go/token"
	"net/url"
	"strings"

	"github.com/broady/typedwamp/contract"
)

// Prefix starts every directive comment.
const Prefix = "//wamp:"

// Kind represents the type of directive.
type Kind string

const (
	KindContract  Kind = "contract"
	KindProcedure Kind = "procedure"
	KindTopic     Kind = "topic"
	KindDefault   Kind = "default"
)

// Directive is one parsed directive comment.
type Directive struct {
	Kind Kind
	Pos  token.Position

	// Marker is set for procedure and topic directives.
	Marker contract.Marker

	// Defaults maps parameter names to literals for default directives.
	Defaults map[string]string
}

// Method collects the directives attached to one interface method.
type Method struct {
	// Marker is the procedure or topic marker. Kind is MarkerNone when the
	// method carries neither.
	Marker contract.Marker

	// Defaults maps parameter names to TypeScript literals.
	Defaults map[string]string

	// Pos is the position of the first directive, if any.
	Pos token.Position
}

// IsDirective reports whether a raw comment is a typedwamp directive.
func IsDirective(text string) bool {
	return strings.HasPrefix(text, Prefix)
}

// IsContract reports whether a doc comment group carries //wamp:contract.
func IsContract(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if verb, _ := split(c.Text); verb == string(KindContract) {
			return true
		}
	}
	return false
}

// Parse parses a single directive comment.
func Parse(text string, pos token.Position) (*Directive, error) {
	if !IsDirective(text) {
		return nil, fmt.Errorf("%s: not a directive: %q", pos, text)
	}
	verb, rest := split(text)

	d := &Directive{Kind: Kind(verb), Pos: pos}
	switch d.Kind {
	case KindContract:
		if rest != "" {
			return nil, fmt.Errorf("%s: //wamp:contract takes no arguments", pos)
		}
	case KindProcedure, KindTopic:
		marker, err := parseMarker(d.Kind, rest)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pos, err)
		}
		d.Marker = marker
	case KindDefault:
		defaults, err := parseDefaults(rest)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pos, err)
		}
		d.Defaults = defaults
	case "":
		return nil, fmt.Errorf("%s: empty directive", pos)
	default:
		return nil, fmt.Errorf("%s: unknown directive %s%s", pos, Prefix, verb)
	}
	return d, nil
}

// ParseMethod collects the directives in a method's doc comment.
//
// Returns an error if a directive is malformed, if a method carries both a
// procedure and a topic marker or the same marker twice, if a parameter
// default is declared twice, or if //wamp:contract appears on a method.
func ParseMethod(fset *token.FileSet, doc *ast.CommentGroup) (*Method, error) {
	m := &Method{}
	if doc == nil {
		return m, nil
	}

	for _, c := range doc.List {
		if !IsDirective(c.Text) {
			continue
		}
		pos := fset.Position(c.Pos())
		d, err := Parse(c.Text, pos)
		if err != nil {
			return nil, err
		}
		if !m.Pos.IsValid() {
			m.Pos = pos
		}

		switch d.Kind {
		case KindContract:
			return nil, fmt.Errorf("%s: //wamp:contract must annotate an interface type, not a method", pos)
		case KindProcedure, KindTopic:
			if m.Marker.Kind != contract.MarkerNone {
				return nil, fmt.Errorf("%s: method already marked as %s %q", pos, m.Marker.Kind, m.Marker.URI)
			}
			m.Marker = d.Marker
		case KindDefault:
			if m.Defaults == nil {
				m.Defaults = make(map[string]string)
			}
			for name, lit := range d.Defaults {
				if _, dup := m.Defaults[name]; dup {
					return nil, fmt.Errorf("%s: duplicate default for parameter %s", pos, name)
				}
				m.Defaults[name] = lit
			}
		}
	}
	return m, nil
}

// split returns the verb and the remaining argument text of a directive.
func split(text string) (verb, rest string) {
	text = strings.TrimPrefix(text, Prefix)
	verb, rest, _ = strings.Cut(text, " ")
	return strings.TrimSpace(verb), strings.TrimSpace(rest)
}

// parseMarker decodes "<uri> [key=value...]" into a marker.
func parseMarker(kind Kind, rest string) (contract.Marker, error) {
	fields, err := tokenize(rest)
	if err != nil {
		return contract.Marker{}, err
	}
	if len(fields) == 0 || strings.Contains(fields[0], "=") {
		return contract.Marker{}, fmt.Errorf("//wamp:%s requires a URI", kind)
	}

	values := url.Values{}
	for _, f := range fields[1:] {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return contract.Marker{}, fmt.Errorf("//wamp:%s: unexpected argument %q (want key=value)", kind, f)
		}
		if key == "uri" {
			return contract.Marker{}, fmt.Errorf("//wamp:%s: URI given twice", kind)
		}
		values.Add(key, unquote(value))
	}
	values.Set("uri", fields[0])

	if kind == KindTopic {
		var args TopicArgs
		if err := decode(&args, values); err != nil {
			return contract.Marker{}, fmt.Errorf("//wamp:topic: %w", err)
		}
		return contract.Marker{Kind: contract.MarkerTopic, URI: args.URI, Match: args.Match}, nil
	}

	var args ProcedureArgs
	if err := decode(&args, values); err != nil {
		return contract.Marker{}, fmt.Errorf("//wamp:procedure: %w", err)
	}
	return contract.Marker{Kind: contract.MarkerProcedure, URI: args.URI, Match: args.Match, Invoke: args.Invoke}, nil
}

// parseDefaults decodes "name=literal ..." pairs.
func parseDefaults(rest string) (map[string]string, error) {
	fields, err := tokenize(rest)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("//wamp:default requires at least one name=value pair")
	}

	defaults := make(map[string]string, len(fields))
	for _, f := range fields {
		name, lit, ok := strings.Cut(f, "=")
		if !ok || name == "" || lit == "" {
			return nil, fmt.Errorf("//wamp:default: malformed pair %q (want name=value)", f)
		}
		if _, dup := defaults[name]; dup {
			return nil, fmt.Errorf("//wamp:default: duplicate default for parameter %s", name)
		}
		defaults[name] = lit
	}
	return defaults, nil
}

// tokenize splits on spaces outside double-quoted strings. Quotes are kept
// so that string defaults stay valid TypeScript literals.
func tokenize(s string) ([]string, error) {
	var (
		fields  []string
		cur     strings.Builder
		quoted  bool
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case quoted && r == '\\':
			escaped = true
		case r == '"':
			quoted = !quoted
		case !quoted && (r == ' ' || r == '\t'):
			if cur.Len() > 0 {
				fields = append(fields, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if quoted {
		return nil, fmt.Errorf("unterminated string in %q", s)
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields, nil
}

// unquote strips one pair of surrounding double quotes from an option value.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
