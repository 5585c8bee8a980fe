package tcl

import "strings"

// SplitList parses a Tcl list into its elements, honoring braces, quotes and
// backslash escapes.
func SplitList(list string) ([]string, error) {
	var out []string
	i := 0
	for {
		for i < len(list) && isListSpace(list[i]) {
			i++
		}
		if i >= len(list) {
			return out, nil
		}
		switch list[i] {
		case '{':
			p := &parser{src: list, pos: i}
			elem, err := p.parseBraced()
			if err != nil {
				return nil, errorf("unmatched open brace in list")
			}
			if p.pos < len(list) && !isListSpace(list[p.pos]) {
				return nil, errorf("list element in braces followed by %q instead of space", list[p.pos:p.pos+1])
			}
			out = append(out, elem)
			i = p.pos
		case '"':
			var b strings.Builder
			j := i + 1
			closed := false
			for j < len(list) {
				if list[j] == '"' {
					closed = true
					j++
					break
				}
				if list[j] == '\\' {
					s, n := backslashSubst(list[j:])
					b.WriteString(s)
					j += n
					continue
				}
				b.WriteByte(list[j])
				j++
			}
			if !closed {
				return nil, errorf("unmatched open quote in list")
			}
			if j < len(list) && !isListSpace(list[j]) {
				return nil, errorf("list element in quotes followed by %q instead of space", list[j:j+1])
			}
			out = append(out, b.String())
			i = j
		default:
			var b strings.Builder
			for i < len(list) && !isListSpace(list[i]) {
				if list[i] == '\\' {
					s, n := backslashSubst(list[i:])
					b.WriteString(s)
					i += n
					continue
				}
				b.WriteByte(list[i])
				i++
			}
			out = append(out, b.String())
		}
	}
}

func isListSpace(c byte) bool {
	return isBlank(c) || c == '\n'
}

// FormatList joins elements into a canonical list string.
func FormatList(elements []string) string {
	quoted := make([]string, len(elements))
	for i, elem := range elements {
		quoted[i] = QuoteElement(elem)
	}
	return strings.Join(quoted, " ")
}

// QuoteElement renders s so that it parses back as exactly one list element
// or command word. Plain strings are returned unchanged, strings with
// significant characters are braced when their braces balance and backslash
// escaped otherwise.
func QuoteElement(s string) string {
	if s == "" {
		return "{}"
	}
	if !needsQuoting(s) {
		return s
	}
	if canBrace(s) {
		return "{" + s + "}"
	}
	return escapeElement(s)
}

// NeedsQuoting reports whether s contains characters that are significant to
// the parser.
func NeedsQuoting(s string) bool {
	return s == "" || needsQuoting(s)
}

func needsQuoting(s string) bool {
	if s[0] == '#' {
		return true
	}
	return strings.ContainsAny(s, " \t\n\r\v\f{}[]$\"\\;")
}

func canBrace(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) || s[i+1] == '\n' {
				return false
			}
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

func escapeElement(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\v':
			b.WriteString(`\v`)
		case '\f':
			b.WriteString(`\f`)
		case ' ', '{', '}', '[', ']', '$', '"', '\\', ';':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '#':
			if i == 0 {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
