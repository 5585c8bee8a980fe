package configkit

import "strings"

var listNameHints = []string{"list", "array", "items", "elements", "values"}

// DetectList reports whether an untyped literal should be treated as a
// sequence. Numeric token runs always qualify; other multi-token strings
// qualify only when name carries a sequence hint.
func DetectList(literal, name string) bool {
	trimmed := strings.TrimSpace(literal)
	if isListLiteral(trimmed) || isBracedGroup(trimmed) {
		return false
	}
	if !hasSeparator(trimmed) {
		return false
	}
	tokens := strings.Fields(trimmed)
	if len(tokens) < 2 {
		return false
	}
	if allNumeric(tokens) {
		return true
	}
	return hasListHint(name)
}

// decision is the outcome of classifying an untyped literal in auto mode.
type decision int

const (
	decideListLiteral decision = iota
	decideUnbrace
	decideScalar
	decideNumericList
	decideHintedList
	decideString
)

func (d decision) String() string {
	switch d {
	case decideListLiteral:
		return "list-literal"
	case decideUnbrace:
		return "unbrace"
	case decideScalar:
		return "scalar"
	case decideNumericList:
		return "numeric-list"
	case decideHintedList:
		return "hinted-list"
	default:
		return "string"
	}
}

// classifyUntyped applies the auto-mode decision table to a literal with no
// declared kind. The first matching row wins.
func classifyUntyped(literal, name string) decision {
	trimmed := strings.TrimSpace(literal)
	switch {
	case isListLiteral(trimmed):
		return decideListLiteral
	case isBracedGroup(trimmed):
		return decideUnbrace
	case !hasSeparator(trimmed):
		return decideScalar
	}
	tokens := strings.Fields(trimmed)
	if len(tokens) < 2 {
		return decideString
	}
	if allNumeric(tokens) {
		return decideNumericList
	}
	if hasListHint(name) {
		return decideHintedList
	}
	return decideString
}

func hasSeparator(s string) bool {
	return strings.ContainsAny(s, " \t\n\r\v\f")
}

func allNumeric(tokens []string) bool {
	for _, token := range tokens {
		if _, ok := parseNumber(token); !ok {
			return false
		}
	}
	return true
}

func numericList(tokens []string) []any {
	out := make([]any, len(tokens))
	for i, token := range tokens {
		out[i], _ = parseNumber(token)
	}
	return out
}

func hasListHint(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, hint := range listNameHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// isBracedGroup reports whether s is a single {...} group whose opening
// brace closes at the final byte.
func isBracedGroup(s string) bool {
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}
