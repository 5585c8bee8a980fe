package tcl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type substFlags uint8

const (
	substVariables substFlags = 1 << iota
	substCommands
	substBackslashes

	substAll = substVariables | substCommands | substBackslashes
)

// parser walks a script in place. nested is set while evaluating a bracketed
// command substitution, where an unquoted ']' terminates the script.
type parser struct {
	src    string
	pos    int
	nested bool
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) atWordEnd() bool {
	if p.eof() {
		return true
	}
	c := p.src[p.pos]
	return isBlank(c) || c == '\n' || c == ';' || (p.nested && c == ']')
}

func (p *parser) skipBlanks() {
	for !p.eof() {
		c := p.src[p.pos]
		if isBlank(c) {
			p.pos++
			continue
		}
		if c == '\\' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '\n' {
			p.pos += 2
			continue
		}
		return
	}
}

func (p *parser) skipComment() {
	for !p.eof() {
		c := p.src[p.pos]
		if c == '\\' {
			p.pos += 2
			continue
		}
		p.pos++
		if c == '\n' {
			return
		}
	}
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}

func isNameChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (in *Interp) evalScript(p *parser) (string, error) {
	result := ""
	for {
		words, done, err := in.parseCommand(p)
		if err != nil {
			return "", err
		}
		if len(words) > 0 {
			result, err = in.invoke(words)
			if err != nil {
				return "", err
			}
		}
		if done {
			return result, nil
		}
	}
}

// parseCommand reads and substitutes the words of the next command. done is
// true once the script (or the enclosing bracket) is exhausted.
func (in *Interp) parseCommand(p *parser) ([]string, bool, error) {
	for !p.eof() {
		c := p.src[p.pos]
		if isBlank(c) || c == '\n' || c == ';' {
			p.pos++
			continue
		}
		if c == '\\' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '\n' {
			p.pos += 2
			continue
		}
		break
	}
	if p.eof() {
		if p.nested {
			return nil, true, errorf("missing close-bracket")
		}
		return nil, true, nil
	}
	if p.nested && p.src[p.pos] == ']' {
		p.pos++
		return nil, true, nil
	}
	if p.src[p.pos] == '#' {
		p.skipComment()
		return nil, false, nil
	}

	var words []string
	for {
		p.skipBlanks()
		if p.eof() {
			if p.nested {
				return nil, true, errorf("missing close-bracket")
			}
			return words, true, nil
		}
		c := p.src[p.pos]
		if c == '\n' || c == ';' {
			p.pos++
			return words, false, nil
		}
		if p.nested && c == ']' {
			p.pos++
			return words, true, nil
		}
		word, err := in.parseWord(p)
		if err != nil {
			return nil, false, err
		}
		words = append(words, word)
	}
}

func (in *Interp) parseWord(p *parser) (string, error) {
	switch p.src[p.pos] {
	case '{':
		word, err := p.parseBraced()
		if err != nil {
			return "", err
		}
		if !p.atWordEnd() {
			return "", errorf("extra characters after close-brace")
		}
		return word, nil
	case '"':
		p.pos++
		word, err := in.substUntil(p, func(c byte) bool { return c == '"' }, substAll)
		if err != nil {
			return "", err
		}
		if p.eof() {
			return "", errorf(`missing "`)
		}
		p.pos++
		if !p.atWordEnd() {
			return "", errorf("extra characters after close-quote")
		}
		return word, nil
	default:
		nested := p.nested
		return in.substUntil(p, func(c byte) bool {
			return isBlank(c) || c == '\n' || c == ';' || (nested && c == ']')
		}, substAll)
	}
}

// parseBraced consumes a {...} group. The content is literal except for
// backslash-newline sequences, which collapse to a single space.
func (p *parser) parseBraced() (string, error) {
	p.pos++
	depth := 1
	var b strings.Builder
	for !p.eof() {
		c := p.src[p.pos]
		switch c {
		case '\\':
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '\n' {
				p.pos += 2
				for !p.eof() && isBlank(p.src[p.pos]) {
					p.pos++
				}
				b.WriteByte(' ')
				continue
			}
			b.WriteByte(c)
			p.pos++
			if !p.eof() {
				b.WriteByte(p.src[p.pos])
				p.pos++
			}
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				p.pos++
				return b.String(), nil
			}
		}
		b.WriteByte(c)
		p.pos++
	}
	return "", errorf("missing close-brace")
}

func (in *Interp) substUntil(p *parser, stop func(byte) bool, flags substFlags) (string, error) {
	var b strings.Builder
	for !p.eof() {
		c := p.src[p.pos]
		if stop(c) {
			break
		}
		switch {
		case c == '\\' && flags&substBackslashes != 0:
			s, n := backslashSubst(p.src[p.pos:])
			b.WriteString(s)
			p.pos += n
		case c == '$' && flags&substVariables != 0:
			value, err := in.parseVariable(p)
			if err != nil {
				return "", err
			}
			b.WriteString(value)
		case c == '[' && flags&substCommands != 0:
			p.pos++
			saved := p.nested
			p.nested = true
			value, err := in.evalScript(p)
			p.nested = saved
			if err != nil {
				return "", err
			}
			b.WriteString(value)
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return b.String(), nil
}

// parseVariable substitutes a $name, $name(index) or ${name} reference. A
// '$' that does not start a name is kept literally.
func (in *Interp) parseVariable(p *parser) (string, error) {
	p.pos++
	if p.eof() {
		return "$", nil
	}
	if p.src[p.pos] == '{' {
		end := strings.IndexByte(p.src[p.pos+1:], '}')
		if end < 0 {
			return "", errorf("missing close-brace for variable name")
		}
		name := p.src[p.pos+1 : p.pos+1+end]
		p.pos += end + 2
		return in.GetVar(strings.TrimPrefix(name, "::"))
	}

	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if isNameChar(c) {
			p.pos++
			continue
		}
		if c == ':' && p.pos+1 < len(p.src) && p.src[p.pos+1] == ':' {
			p.pos += 2
			continue
		}
		break
	}
	name := strings.TrimPrefix(p.src[start:p.pos], "::")
	if name == "" {
		p.pos = start
		return "$", nil
	}
	if !p.eof() && p.src[p.pos] == '(' {
		p.pos++
		index, err := in.substUntil(p, func(c byte) bool { return c == ')' }, substAll)
		if err != nil {
			return "", err
		}
		if p.eof() {
			return "", errorf("missing )")
		}
		p.pos++
		return in.getElem(name, index)
	}
	return in.GetVar(name)
}

// backslashSubst decodes the escape at the start of s and returns the
// replacement together with the number of bytes consumed.
func backslashSubst(s string) (string, int) {
	if len(s) < 2 {
		return "\\", 1
	}
	switch c := s[1]; c {
	case 'a':
		return "\a", 2
	case 'b':
		return "\b", 2
	case 'f':
		return "\f", 2
	case 'n':
		return "\n", 2
	case 'r':
		return "\r", 2
	case 't':
		return "\t", 2
	case 'v':
		return "\v", 2
	case '\n':
		n := 2
		for n < len(s) && isBlank(s[n]) {
			n++
		}
		return " ", n
	case 'x':
		return hexEscape(s, 2, "x")
	case 'u':
		return hexEscape(s, 4, "u")
	case 'U':
		return hexEscape(s, 8, "U")
	default:
		if c >= '0' && c <= '7' {
			n := 1
			for n < 4 && n < len(s) && s[n] >= '0' && s[n] <= '7' {
				n++
			}
			value, _ := strconv.ParseUint(s[1:n], 8, 32)
			return string(rune(value & 0xff)), n
		}
		r, size := utf8.DecodeRuneInString(s[1:])
		return string(r), 1 + size
	}
}

func hexEscape(s string, max int, literal string) (string, int) {
	n := 2
	for n < len(s) && n-2 < max && isHex(s[n]) {
		n++
	}
	if n == 2 {
		return literal, 2
	}
	value, err := strconv.ParseUint(s[2:n], 16, 32)
	if err != nil || !utf8.ValidRune(rune(value)) {
		return string(utf8.RuneError), n
	}
	return string(rune(value)), n
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (in *Interp) invoke(words []string) (string, error) {
	name := strings.TrimPrefix(words[0], "::")
	cmd, ok := in.commands[name]
	if !ok {
		return "", &Error{Cmd: name, Msg: fmt.Sprintf("invalid command name %q", words[0])}
	}
	result, err := cmd(in, words)
	if err != nil {
		var ret *returnSignal
		if errors.As(err, &ret) {
			return "", err
		}
		return "", withCommand(name, err)
	}
	return result, nil
}
