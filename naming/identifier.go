package naming

import (
	"strings"
	"unicode"
)

// reservedWords holds TypeScript keywords plus the identifiers that strict
// mode (class bodies, ES modules) refuses as binding names.
var reservedWords = func() map[string]bool {
	const words = `
		break case catch class const continue debugger default delete do
		else enum export extends false finally for function if import in
		instanceof new null return super switch this throw true try typeof
		var void while with
		implements interface let package private protected public static yield
		await arguments eval
		any boolean number string symbol type`
	m := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		m[w] = true
	}
	return m
}()

// escapeReservedWord escapes a reserved word by appending an underscore.
func escapeReservedWord(name string) string {
	if reservedWords[name] {
		return name + "_"
	}
	return name
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}

// Sanitize makes name a valid TypeScript binding identifier: invalid runes
// become '_', a leading digit gets a '_' prefix, and reserved words are
// escaped.
func Sanitize(name string) string {
	if name == "" {
		return "_"
	}

	var b strings.Builder
	if unicode.IsDigit(rune(name[0])) {
		b.WriteByte('_')
	}
	for _, r := range name {
		if isIdentRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return escapeReservedWord(b.String())
}
