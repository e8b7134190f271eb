package dagjson

import (
	"io"
	"math"
	"math/big"
	"sort"
	"strconv"

	"github.com/go-ipld/ipld-core/datamodel"
)

type encoder struct {
	w io.Writer
}

func (e *encoder) write(p []byte) error {
	_, err := e.w.Write(p)
	return err
}

func (e *encoder) writeString(s string) error {
	return e.write([]byte(s))
}

func (e *encoder) encodeNode(n datamodel.Node) error {
	switch n.Kind() {
	case datamodel.Kind_Null:
		return e.writeString("null")
	case datamodel.Kind_Bool:
		v, _ := n.AsBool()
		if v {
			return e.writeString("true")
		}
		return e.writeString("false")
	case datamodel.Kind_Int:
		neg, mag, _ := n.IntParts()
		if neg {
			m := new(big.Int).SetUint64(mag)
			m.Add(m, big.NewInt(1))
			return e.writeString("-" + m.String())
		}
		return e.writeString(strconv.FormatUint(mag, 10))
	case datamodel.Kind_Float:
		f, _ := n.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return datamodel.ErrFloatNotFinite(-1)
		}
		return e.writeString(formatCanonicalFloat(f))
	case datamodel.Kind_String:
		s, _ := n.AsString()
		return e.encodeJSONString(s)
	case datamodel.Kind_Bytes:
		b, _ := n.AsBytes()
		if err := e.writeString(`{"/":{"bytes":"`); err != nil {
			return err
		}
		if err := e.writeString(encodeUnpaddedBase64(b)); err != nil {
			return err
		}
		return e.writeString(`"}}`)
	case datamodel.Kind_Link:
		c, _ := n.AsLink()
		if err := e.writeString(`{"/":"`); err != nil {
			return err
		}
		if err := e.writeString(c.String()); err != nil {
			return err
		}
		return e.writeString(`"}`)
	case datamodel.Kind_List:
		items, _ := n.AsList()
		if err := e.write([]byte{'['}); err != nil {
			return err
		}
		for i, item := range items {
			if i > 0 {
				if err := e.write([]byte{','}); err != nil {
					return err
				}
			}
			if err := e.encodeNode(item); err != nil {
				return err
			}
		}
		return e.write([]byte{']'})
	case datamodel.Kind_Map:
		m, _ := n.AsMap()
		keys := append([]string(nil), m.Keys()...)
		sort.Strings(keys)
		if err := e.write([]byte{'{'}); err != nil {
			return err
		}
		for i, k := range keys {
			if i > 0 {
				if err := e.write([]byte{','}); err != nil {
					return err
				}
			}
			if err := e.encodeJSONString(k); err != nil {
				return err
			}
			if err := e.write([]byte{':'}); err != nil {
				return err
			}
			v, _ := m.Get(k)
			if err := e.encodeNode(v); err != nil {
				return err
			}
		}
		return e.write([]byte{'}'})
	default:
		return datamodel.ErrUnsupportedType("cannot encode a Node of invalid kind", -1)
	}
}

// formatCanonicalFloat renders f with the shortest round-trip decimal
// text, then guarantees the result parses back as a Float (rather than
// an Integer) by forcing a decimal point onto whole-number output:
// strconv's shortest form for 3.0 is "3", which this codec's own number
// grammar would read back as an Integer.
func formatCanonicalFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == 'e' || s[i] == 'E' {
			return s
		}
	}
	return s + ".0"
}

// encodeJSONString writes s as a JSON string literal, escaping only what
// the grammar requires: quote, backslash, and control characters. Other
// bytes (including multi-byte UTF-8 runes) pass through unescaped.
func (e *encoder) encodeJSONString(s string) error {
	if err := e.write([]byte{'"'}); err != nil {
		return err
	}
	const hex = "0123456789abcdef"
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		if start < i {
			if err := e.writeString(s[start:i]); err != nil {
				return err
			}
		}
		switch c {
		case '"':
			if err := e.writeString(`\"`); err != nil {
				return err
			}
		case '\\':
			if err := e.writeString(`\\`); err != nil {
				return err
			}
		case '\n':
			if err := e.writeString(`\n`); err != nil {
				return err
			}
		case '\r':
			if err := e.writeString(`\r`); err != nil {
				return err
			}
		case '\t':
			if err := e.writeString(`\t`); err != nil {
				return err
			}
		default:
			esc := []byte{'\\', 'u', '0', '0', hex[c>>4], hex[c&0xf]}
			if err := e.write(esc); err != nil {
				return err
			}
		}
		start = i + 1
	}
	if start < len(s) {
		if err := e.writeString(s[start:]); err != nil {
			return err
		}
	}
	return e.write([]byte{'"'})
}
