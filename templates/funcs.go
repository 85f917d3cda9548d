package templates

import (
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules   = ruleset()
	titling = cases.Title(language.Und)
)

// ruleset returns the inflection ruleset extended with identifiers
// common to generated entities.
func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{"ID", "API", "HTTP", "JSON", "SQL", "UI", "URL", "UUID"} {
		rules.AddAcronym(w)
	}
	return rules
}

// Funcs are the helpers available to artifact templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"snake":    snake,
		"pascal":   pascal,
		"camel":    camel,
		"plural":   rules.Pluralize,
		"singular": rules.Singularize,
		"label":    label,
		"typename": typename,
		"column":   columnType,
		"widget":   widgetType,
		"sample":   sampleValue,
	}
}

// snake converts names to a snake_case identifier.
func snake(s string) string {
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put '_' if it is not a start or end of a word, current letter
		// is uppercase, and previous letter is lowercase (cases like
		// "UserInfo"), or next letter is also lowercase and previous
		// letter is not '_' (cases like "HTTPCode").
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// pascal converts names to PascalCase.
func pascal(s string) string {
	words := strings.FieldsFunc(snake(s), func(r rune) bool { return r == '_' })
	var b strings.Builder
	for _, w := range words {
		b.WriteString(titling.String(w))
	}
	return b.String()
}

// camel converts names to camelCase.
func camel(s string) string {
	p := pascal(s)
	if p == "" {
		return p
	}
	return strings.ToLower(p[:1]) + p[1:]
}

// label converts an identifier to a human-readable label.
func label(s string) string {
	return titling.String(strings.ReplaceAll(snake(s), "_", " "))
}

// typename normalizes loose type spellings to the canonical scalar
// type names used across schemas and templates.
func typename(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "str", "string", "text", "varchar", "char":
		return "str"
	case "int", "integer", "number", "bigint", "smallint":
		return "int"
	case "float", "double", "real":
		return "float"
	case "bool", "boolean":
		return "bool"
	case "datetime", "timestamp":
		return "datetime"
	case "date":
		return "date"
	case "decimal", "numeric", "money":
		return "decimal"
	default:
		return strings.ToLower(strings.TrimSpace(t))
	}
}

// columnType maps a canonical scalar type to its SQLAlchemy column type.
func columnType(t string) string {
	switch typename(t) {
	case "int":
		return "Integer"
	case "float":
		return "Float"
	case "bool":
		return "Boolean"
	case "datetime":
		return "DateTime"
	case "date":
		return "Date"
	case "decimal":
		return "Numeric"
	default:
		return "String"
	}
}

// widgetType maps a canonical scalar type to an HTML input type.
func widgetType(t string) string {
	switch typename(t) {
	case "int", "float", "decimal":
		return "number"
	case "bool":
		return "checkbox"
	case "date":
		return "date"
	case "datetime":
		return "datetime-local"
	default:
		return "text"
	}
}

// sampleValue renders a literal sample value for test fixtures.
func sampleValue(name, t string) string {
	switch typename(t) {
	case "int":
		return "1"
	case "float":
		return "1.5"
	case "decimal":
		return "\"10.00\""
	case "bool":
		return "True"
	case "datetime":
		return "\"2024-01-01T00:00:00\""
	case "date":
		return "\"2024-01-01\""
	default:
		return fmt.Sprintf("%q", "sample "+label(name))
	}
}
