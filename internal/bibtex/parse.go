package bibtex

import (
	"fmt"
	"strings"
)

// Parse parses exactly one entry of the form @type{key, field = value, ...}.
// Any syntax problem is returned as a *MalformedEntryError.
//
// Values may be wrapped in braces or double quotes, or be a bare token such
// as a year. Braces one level inside a value are case-protection markers and
// are dropped ({NASA} becomes NASA); deeper braces are kept verbatim.
// Whitespace runs inside values collapse to a single space.
func Parse(raw string) (*Record, error) {
	p := &parser{src: raw}
	return p.entry()
}

type parser struct {
	src string
	pos int
}

func (p *parser) fail(offset int, format string, args ...interface{}) error {
	return &MalformedEntryError{
		Offset: offset,
		Reason: fmt.Sprintf(format, args...),
		Text:   p.src,
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

// peek returns the current byte, or 0 at end of input.
func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) entry() (*Record, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.fail(p.pos, "empty input")
	}
	if p.peek() != '@' {
		return nil, p.fail(p.pos, "expected '@' at start of entry")
	}
	p.pos++

	typeStart := p.pos
	for !p.eof() && isLetter(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == typeStart {
		return nil, p.fail(typeStart, "missing entry type")
	}
	typ := EntryType(strings.ToLower(p.src[typeStart:p.pos]))

	p.skipSpace()
	var closer byte
	switch p.peek() {
	case '{':
		closer = '}'
	case '(':
		closer = ')'
	default:
		return nil, p.fail(p.pos, "expected '{' after entry type %q", typ)
	}
	p.pos++

	key, err := p.citationKey(closer)
	if err != nil {
		return nil, err
	}

	fields, err := p.fields(closer)
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.eof() {
		return nil, p.fail(p.pos, "unexpected text after end of entry")
	}

	return NewRecord(typ, key, fields), nil
}

// citationKey reads the key up to the first ',' or the closing delimiter.
// Errors about the key point at its first byte.
func (p *parser) citationKey(closer byte) (string, error) {
	p.skipSpace()
	start := p.pos
	for !p.eof() && p.src[p.pos] != ',' && p.src[p.pos] != closer {
		p.pos++
	}
	if p.eof() {
		return "", p.fail(start, "unterminated entry: missing %q", closer)
	}

	key := strings.TrimRight(p.src[start:p.pos], " \t\r\n\f\v")
	if key == "" {
		return "", p.fail(start, "missing citation key")
	}
	for _, r := range key {
		if !isKeyRune(r) {
			return "", p.fail(start, "invalid character %q in citation key %q", r, key)
		}
	}

	if p.src[p.pos] == ',' {
		p.pos++
	}
	return key, nil
}

func (p *parser) fields(closer byte) (map[string]string, error) {
	fields := make(map[string]string)

	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.fail(p.pos, "unterminated entry: missing %q", closer)
		}
		if p.src[p.pos] == closer {
			p.pos++
			return fields, nil
		}

		nameStart := p.pos
		for !p.eof() && isNameByte(p.src[p.pos]) {
			p.pos++
		}
		if p.pos == nameStart {
			return nil, p.fail(p.pos, "expected field name")
		}
		name := strings.ToLower(p.src[nameStart:p.pos])

		p.skipSpace()
		if p.peek() != '=' {
			return nil, p.fail(p.pos, "expected '=' after field %q", name)
		}
		p.pos++
		p.skipSpace()

		value, err := p.value(closer)
		if err != nil {
			return nil, err
		}
		if _, dup := fields[name]; dup {
			return nil, p.fail(nameStart, "duplicate field %q", name)
		}
		fields[name] = value

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case closer:
			// handled at the top of the loop
		case 0:
			return nil, p.fail(p.pos, "unterminated entry: missing %q", closer)
		default:
			return nil, p.fail(p.pos, "expected ',' or %q after field %q", closer, name)
		}
	}
}

func (p *parser) value(closer byte) (string, error) {
	switch p.peek() {
	case '{':
		return p.delimited('}')
	case '"':
		return p.delimited('"')
	case 0:
		return "", p.fail(p.pos, "missing field value")
	}

	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if isSpace(c) || c == ',' || c == closer || c == '{' || c == '}' || c == '"' {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return "", p.fail(p.pos, "missing field value")
	}
	return p.src[start:p.pos], nil
}

// delimited reads a braced or quoted value starting at the opening
// delimiter. Backslash escapes are copied through without affecting depth.
func (p *parser) delimited(end byte) (string, error) {
	open := p.pos
	p.pos++

	var b strings.Builder
	depth := 0
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.src):
			b.WriteByte(c)
			b.WriteByte(p.src[p.pos+1])
			p.pos += 2
			continue
		case c == '{':
			depth++
			if depth > 1 {
				b.WriteByte(c)
			}
		case c == '}':
			if depth == 0 {
				if end != '}' {
					return "", p.fail(p.pos, "unbalanced '}' in field value")
				}
				p.pos++
				return collapseSpace(b.String()), nil
			}
			if depth > 1 {
				b.WriteByte(c)
			}
			depth--
		case c == '"' && end == '"' && depth == 0:
			p.pos++
			return collapseSpace(b.String()), nil
		default:
			b.WriteByte(c)
		}
		p.pos++
	}
	return "", p.fail(open, "unterminated field value")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// isNameByte matches field name characters.
func isNameByte(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_' || c == '-' || c == '.' || c == ':'
}

// isKeyRune matches [A-Za-z0-9_:-]. Upstream tooling is expected to have
// sanitised keys already.
func isKeyRune(r rune) bool {
	if r > 0x7f {
		return false
	}
	c := byte(r)
	return isLetter(c) || isDigit(c) || c == '_' || c == ':' || c == '-'
}
