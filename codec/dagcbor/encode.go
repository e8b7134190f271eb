package dagcbor

import (
	"encoding/binary"
	"io"
	"math"
	"sort"

	"github.com/go-ipld/ipld-core/datamodel"
)

type encoder struct {
	w io.Writer
}

func (e *encoder) write(p []byte) error {
	_, err := e.w.Write(p)
	return err
}

// writeHead writes a CBOR major type + argument using the shortest
// possible encoding, per DAG-CBOR's canonical form.
func (e *encoder) writeHead(major byte, arg uint64) error {
	lead := major << 5
	switch {
	case arg < 24:
		return e.write([]byte{lead | byte(arg)})
	case arg <= 0xff:
		return e.write([]byte{lead | 24, byte(arg)})
	case arg <= 0xffff:
		var buf [3]byte
		buf[0] = lead | 25
		binary.BigEndian.PutUint16(buf[1:], uint16(arg))
		return e.write(buf[:])
	case arg <= 0xffffffff:
		var buf [5]byte
		buf[0] = lead | 26
		binary.BigEndian.PutUint32(buf[1:], uint32(arg))
		return e.write(buf[:])
	default:
		var buf [9]byte
		buf[0] = lead | 27
		binary.BigEndian.PutUint64(buf[1:], arg)
		return e.write(buf[:])
	}
}

func (e *encoder) encodeNode(n datamodel.Node) error {
	switch n.Kind() {
	case datamodel.Kind_Null:
		return e.write([]byte{0xf6})
	case datamodel.Kind_Bool:
		v, _ := n.AsBool()
		if v {
			return e.write([]byte{0xf5})
		}
		return e.write([]byte{0xf4})
	case datamodel.Kind_Int:
		neg, mag, _ := n.IntParts()
		if neg {
			return e.writeHead(1, mag)
		}
		return e.writeHead(0, mag)
	case datamodel.Kind_Float:
		f, _ := n.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return datamodel.ErrFloatNotFinite(-1)
		}
		var buf [9]byte
		buf[0] = (7 << 5) | 27
		binary.BigEndian.PutUint64(buf[1:], math.Float64bits(f))
		return e.write(buf[:])
	case datamodel.Kind_String:
		s, _ := n.AsString()
		if err := e.writeHead(3, uint64(len(s))); err != nil {
			return err
		}
		return e.write([]byte(s))
	case datamodel.Kind_Bytes:
		b, _ := n.AsBytes()
		if err := e.writeHead(2, uint64(len(b))); err != nil {
			return err
		}
		return e.write(b)
	case datamodel.Kind_List:
		items, _ := n.AsList()
		if err := e.writeHead(4, uint64(len(items))); err != nil {
			return err
		}
		for _, item := range items {
			if err := e.encodeNode(item); err != nil {
				return err
			}
		}
		return nil
	case datamodel.Kind_Map:
		m, _ := n.AsMap()
		keys := append([]string(nil), m.Keys()...)
		sort.Strings(keys) // byte-lexicographic: Go string comparison is byte-wise
		if err := e.writeHead(5, uint64(len(keys))); err != nil {
			return err
		}
		for _, k := range keys {
			if err := e.writeHead(3, uint64(len(k))); err != nil {
				return err
			}
			if err := e.write([]byte(k)); err != nil {
				return err
			}
			v, _ := m.Get(k)
			if err := e.encodeNode(v); err != nil {
				return err
			}
		}
		return nil
	case datamodel.Kind_Link:
		c, _ := n.AsLink()
		cidBytes := c.Bytes()
		payload := make([]byte, 1+len(cidBytes))
		payload[0] = 0x00
		copy(payload[1:], cidBytes)
		if err := e.writeHead(6, 42); err != nil {
			return err
		}
		if err := e.writeHead(2, uint64(len(payload))); err != nil {
			return err
		}
		return e.write(payload)
	default:
		return datamodel.ErrUnsupportedType("cannot encode a Node of invalid kind", -1)
	}
}
