package naming

import (
	"strings"
	"unicode"
)

// Case styles accepted by Options.
const (
	CasePreserve = "preserve"
	CaseCamel    = "camel"
	CasePascal   = "pascal"
	CaseSnake    = "snake"
	CaseKebab    = "kebab"
)

// ApplyCase converts name to the given case style. Empty or unknown
// styles preserve the name.
func ApplyCase(name, style string) string {
	switch style {
	case CaseCamel:
		return toCamelCase(name)
	case CasePascal:
		return toPascalCase(name)
	case CaseSnake:
		return toSnakeCase(name)
	case CaseKebab:
		return toKebabCase(name)
	default:
		return name
	}
}

// words splits on '_' and '-'; all-caps words are lowered so that
// MY_FIELD and my_field produce the same result.
func words(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	for i, p := range parts {
		if strings.ToUpper(p) == p {
			parts[i] = strings.ToLower(p)
		}
	}
	return parts
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func toCamelCase(s string) string {
	parts := words(s)
	for i, p := range parts {
		if i == 0 {
			parts[i] = lowerFirst(p)
		} else {
			parts[i] = upperFirst(p)
		}
	}
	return strings.Join(parts, "")
}

func toPascalCase(s string) string {
	parts := words(s)
	for i, p := range parts {
		parts[i] = upperFirst(p)
	}
	return strings.Join(parts, "")
}

func toSnakeCase(s string) string {
	return toDelimited(s, '_')
}

func toKebabCase(s string) string {
	return toDelimited(s, '-')
}

func toDelimited(s string, sep rune) string {
	var b strings.Builder
	var prev rune
	for i, r := range s {
		if r == '_' || r == '-' {
			r = sep
		}
		if unicode.IsUpper(r) {
			if i > 0 && prev != sep {
				b.WriteRune(sep)
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}
