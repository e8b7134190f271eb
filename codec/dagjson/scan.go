package dagjson

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/go-ipld/ipld-core/datamodel"
)

// scanner holds the low-level, allocation-aware primitives shared by the
// full decoder (decode.go) and the link-enumeration walker (links.go):
// whitespace skipping, string literals, and number literals. Neither
// consumer builds on encoding/json — the "/" envelope disambiguation and
// the exact integer-vs-float number grammar need control a generic
// token stream doesn't expose.
type scanner struct {
	data []byte
	pos  int64
}

func (s *scanner) eof() bool {
	return s.pos >= int64(len(s.data))
}

func (s *scanner) peek() (byte, bool) {
	if s.eof() {
		return 0, false
	}
	return s.data[s.pos], true
}

func (s *scanner) skipWhitespace() {
	for !s.eof() {
		switch s.data[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) expect(c byte) error {
	b, ok := s.peek()
	if !ok {
		return datamodel.ErrUnexpectedEOF(s.pos)
	}
	if b != c {
		return datamodel.ErrUnsupportedType("unexpected character in JSON input", s.pos)
	}
	s.pos++
	return nil
}

func (s *scanner) expectLiteral(lit string) error {
	if s.pos+int64(len(lit)) > int64(len(s.data)) {
		return datamodel.ErrUnexpectedEOF(s.pos)
	}
	if string(s.data[s.pos:s.pos+int64(len(lit))]) != lit {
		return datamodel.ErrUnsupportedType("invalid JSON literal", s.pos)
	}
	s.pos += int64(len(lit))
	return nil
}

// scanString reads a JSON string literal (the opening quote must be the
// current byte) and returns its decoded, UTF-8-validated content.
func (s *scanner) scanString() (string, error) {
	start := s.pos
	if err := s.expect('"'); err != nil {
		return "", err
	}
	var out []byte
	for {
		if s.eof() {
			return "", datamodel.ErrUnexpectedEOF(s.pos)
		}
		c := s.data[s.pos]
		switch {
		case c == '"':
			s.pos++
			if !utf8.Valid(out) {
				return "", datamodel.ErrInvalidUTF8(start)
			}
			return string(out), nil
		case c == '\\':
			s.pos++
			if s.eof() {
				return "", datamodel.ErrUnexpectedEOF(s.pos)
			}
			esc := s.data[s.pos]
			switch esc {
			case '"', '\\', '/':
				out = append(out, esc)
				s.pos++
			case 'b':
				out = append(out, '\b')
				s.pos++
			case 'f':
				out = append(out, '\f')
				s.pos++
			case 'n':
				out = append(out, '\n')
				s.pos++
			case 'r':
				out = append(out, '\r')
				s.pos++
			case 't':
				out = append(out, '\t')
				s.pos++
			case 'u':
				s.pos++
				r, err := s.scanHex4()
				if err != nil {
					return "", err
				}
				if utf16.IsSurrogate(r) {
					if s.pos+1 < int64(len(s.data)) && s.data[s.pos] == '\\' && s.data[s.pos+1] == 'u' {
						save := s.pos
						s.pos += 2
						r2, err := s.scanHex4()
						if err != nil {
							return "", err
						}
						combined := utf16.DecodeRune(r, r2)
						if combined == utf8.RuneError {
							s.pos = save
							out = utf8.AppendRune(out, utf8.RuneError)
						} else {
							out = utf8.AppendRune(out, combined)
						}
					} else {
						out = utf8.AppendRune(out, utf8.RuneError)
					}
				} else {
					out = utf8.AppendRune(out, r)
				}
			default:
				return "", datamodel.ErrUnsupportedType("invalid JSON escape sequence", s.pos)
			}
		case c < 0x20:
			return "", datamodel.ErrUnsupportedType("unescaped control character in JSON string", s.pos)
		default:
			out = append(out, c)
			s.pos++
		}
	}
}

func (s *scanner) scanHex4() (rune, error) {
	if s.pos+4 > int64(len(s.data)) {
		return 0, datamodel.ErrUnexpectedEOF(s.pos)
	}
	var v rune
	for i := 0; i < 4; i++ {
		c := s.data[s.pos+int64(i)]
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			v |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= rune(c-'A') + 10
		default:
			return 0, datamodel.ErrUnsupportedType("invalid \\u escape", s.pos)
		}
	}
	s.pos += 4
	return v, nil
}

// numberLiteral is the raw text of a scanned JSON number plus whether it
// contains a fraction or exponent (which decides Integer vs Float).
type numberLiteral struct {
	text  string
	float bool
}

func (s *scanner) scanNumber() (numberLiteral, error) {
	start := s.pos
	if b, ok := s.peek(); ok && b == '-' {
		s.pos++
	}
	digitsStart := s.pos
	if b, ok := s.peek(); !ok || b < '0' || b > '9' {
		return numberLiteral{}, datamodel.ErrUnsupportedType("invalid JSON number", s.pos)
	}
	if s.data[s.pos] == '0' {
		s.pos++
	} else {
		for !s.eof() && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
			s.pos++
		}
	}
	_ = digitsStart
	isFloat := false
	if b, ok := s.peek(); ok && b == '.' {
		isFloat = true
		s.pos++
		fracStart := s.pos
		for !s.eof() && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
			s.pos++
		}
		if s.pos == fracStart {
			return numberLiteral{}, datamodel.ErrUnsupportedType("invalid JSON number: empty fraction", s.pos)
		}
	}
	if b, ok := s.peek(); ok && (b == 'e' || b == 'E') {
		isFloat = true
		s.pos++
		if b, ok := s.peek(); ok && (b == '+' || b == '-') {
			s.pos++
		}
		expStart := s.pos
		for !s.eof() && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
			s.pos++
		}
		if s.pos == expStart {
			return numberLiteral{}, datamodel.ErrUnsupportedType("invalid JSON number: empty exponent", s.pos)
		}
	}
	return numberLiteral{text: string(s.data[start:s.pos]), float: isFloat}, nil
}

// skipString and skipNumber advance past a string or number literal,
// validating it like scanString/scanNumber but discarding the result;
// the link walker uses them for values that can't hold a link envelope.
func (s *scanner) skipString() error {
	_, err := s.scanString()
	return err
}

func (s *scanner) skipNumber() error {
	_, err := s.scanNumber()
	return err
}
