package contract

import (
	"regexp"
	"strings"
)

var (
	// Loose URI rules from the WAMP basic profile: dot-separated components,
	// no whitespace or '#' and no empty components.
	looseURI = regexp.MustCompile(`^([^\s.#]+\.)*([^\s.#]+)$`)

	// Wildcard patterns may contain empty components.
	wildcardURI = regexp.MustCompile(`^(([^\s.#]+\.)|\.)*([^\s.#]+)?$`)
)

// ValidURI reports whether uri is acceptable for the given match policy.
func ValidURI(uri, match string) bool {
	if uri == "" {
		return false
	}
	if match == MatchWildcard {
		return wildcardURI.MatchString(uri)
	}
	return looseURI.MatchString(uri)
}

// ValidationError represents a contract validation error.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the contract for structural issues.
// Returns all validation errors found (not just the first).
func (c *Contract) Validate() []error {
	var errs []*ValidationError

	if c.Name.Name == "" {
		errs = append(errs, &ValidationError{
			Code:    "missing_name",
			Message: "contract has no name",
		})
	}

	methodNames := make(map[string]bool)
	uris := make(map[string]string)

	for _, m := range c.Methods {
		if methodNames[m.Name] {
			errs = append(errs, &ValidationError{
				Code:    "duplicate_method",
				Message: "duplicate method name in contract " + c.Name.Name + ": " + m.Name,
			})
		}
		methodNames[m.Name] = true

		if m.Marker.Kind == MarkerNone {
			continue
		}

		where := c.Name.Name + "." + m.Name
		if m.Marker.URI == "" {
			errs = append(errs, &ValidationError{
				Code:    "missing_uri",
				Message: m.Marker.Kind.String() + " " + where + " has no URI",
			})
			continue
		}
		if !ValidURI(m.Marker.URI, m.Marker.Match) {
			errs = append(errs, &ValidationError{
				Code:    "invalid_uri",
				Message: m.Marker.Kind.String() + " " + where + " has malformed URI " + quote(m.Marker.URI),
			})
		}

		key := m.Marker.Kind.String() + " " + m.Marker.URI
		if prev, ok := uris[key]; ok {
			errs = append(errs, &ValidationError{
				Code:    "duplicate_uri",
				Message: m.Marker.Kind.String() + " URI " + quote(m.Marker.URI) + " used by both " + prev + " and " + where,
			})
		} else {
			uris[key] = where
		}

		if m.Marker.Kind == MarkerTopic && m.Marker.Invoke != "" {
			errs = append(errs, &ValidationError{
				Code:    "invoke_on_topic",
				Message: "topic " + where + " cannot declare an invocation policy",
			})
		}

		// A nil parameter type is allowed and maps to any.
		optional := false
		params := make(map[string]bool, len(m.Params))
		for _, p := range m.Params {
			if params[p.Name] {
				errs = append(errs, &ValidationError{
					Code:    "duplicate_param",
					Message: "duplicate parameter name in " + where + ": " + p.Name,
				})
			}
			params[p.Name] = true
			// Optional parameters must trail: f(a?: T, b: U) is not valid TypeScript.
			if p.HasDefault() {
				optional = true
			} else if optional {
				errs = append(errs, &ValidationError{
					Code:    "non_trailing_default",
					Message: "parameter " + p.Name + " of " + where + " follows a parameter with a default but has none",
				})
			}
		}
	}

	var result []error
	for _, e := range errs {
		result = append(result, e)
	}
	return result
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
