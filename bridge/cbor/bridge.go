//go:build bridge

// Package cbor is the optional bridge between an Ipld value and
// github.com/fxamacker/cbor/v2's general-purpose Marshaler/Unmarshaler
// model, grounded on the CanonicalEncOptions/DecOptions setup this
// pack's urands/ttmesh codec package uses for its own CBOR codec.
// It is independently selectable via the "bridge" build tag, kept
// separate from the native dagcbor codec's tag-42 link encoding.
package cbor

import (
	"errors"
	"math/big"

	cbor "github.com/fxamacker/cbor/v2"
	"github.com/ipfs/go-cid"

	"github.com/go-ipld/ipld-core/datamodel"
)

// linkSentinel marks a CBOR byte string produced by this bridge as a
// Link rather than ordinary Bytes: the byte is followed by the link's
// binary CID form. It is unrelated to, and not interoperable with, the
// tag-42 link encoding the native dagcbor codec uses.
const linkSentinel byte = 0xA5

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic("bridge/cbor: building canonical encode mode: " + err.Error())
	}
	encMode = em
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("bridge/cbor: building decode mode: " + err.Error())
	}
	decMode = dm
}

// ErrBridgeAmbiguousKind is returned when a decoded CBOR byte string
// begins with the link sentinel but its remainder is not a valid CID, or
// when an encoded Bytes value happens to begin with the sentinel byte —
// in both cases the bridge cannot tell a genuine Link apart from Bytes
// that collide with the sentinel encoding.
type ErrBridgeAmbiguousKind struct {
	Detail string
}

func (e ErrBridgeAmbiguousKind) Error() string {
	return "bridge/cbor: ambiguous kind: " + e.Detail
}

// Wrapper adapts a datamodel.Node to fxamacker/cbor/v2's Marshaler and
// Unmarshaler interfaces, so an Ipld value can be embedded as a field of
// an arbitrary Go struct serialized with that library.
type Wrapper struct {
	Value datamodel.Node
}

var (
	_ cbor.Marshaler   = Wrapper{}
	_ cbor.Unmarshaler = (*Wrapper)(nil)
)

func (w Wrapper) MarshalCBOR() ([]byte, error) {
	v, err := toBridgeValue(w.Value)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(v)
}

func (w *Wrapper) UnmarshalCBOR(data []byte) error {
	var raw interface{}
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return err
	}
	n, err := fromBridgeValue(raw)
	if err != nil {
		return err
	}
	w.Value = n
	return nil
}

func toBridgeValue(n datamodel.Node) (interface{}, error) {
	switch n.Kind() {
	case datamodel.Kind_Null:
		return nil, nil
	case datamodel.Kind_Bool:
		v, _ := n.AsBool()
		return v, nil
	case datamodel.Kind_Int:
		neg, mag, _ := n.IntParts()
		if neg {
			bi := new(big.Int).SetUint64(mag)
			bi.Neg(bi)
			bi.Sub(bi, big.NewInt(1))
			if bi.IsInt64() {
				return bi.Int64(), nil
			}
			return bi, nil
		}
		return mag, nil
	case datamodel.Kind_Float:
		v, _ := n.AsFloat()
		return v, nil
	case datamodel.Kind_String:
		v, _ := n.AsString()
		return v, nil
	case datamodel.Kind_Bytes:
		b, _ := n.AsBytes()
		if len(b) > 0 && b[0] == linkSentinel {
			return nil, ErrBridgeAmbiguousKind{Detail: "a Bytes value begins with the link sentinel byte"}
		}
		return append([]byte(nil), b...), nil
	case datamodel.Kind_Link:
		c, _ := n.AsLink()
		return append([]byte{linkSentinel}, c.Bytes()...), nil
	case datamodel.Kind_List:
		items, _ := n.AsList()
		out := make([]interface{}, len(items))
		for i, item := range items {
			v, err := toBridgeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case datamodel.Kind_Map:
		m, _ := n.AsMap()
		out := make(map[string]interface{}, m.Len())
		for _, k := range m.Keys() {
			v, _ := m.Get(k)
			bv, err := toBridgeValue(v)
			if err != nil {
				return nil, err
			}
			out[k] = bv
		}
		return out, nil
	default:
		return nil, errors.New("bridge/cbor: cannot encode a Node of invalid kind")
	}
}

func fromBridgeValue(raw interface{}) (datamodel.Node, error) {
	switch v := raw.(type) {
	case nil:
		return datamodel.Null, nil
	case bool:
		return datamodel.NewBool(v), nil
	case uint64:
		return datamodel.NewUint(v), nil
	case int64:
		return datamodel.NewInt(v), nil
	case float64:
		return datamodel.NewFloat(v), nil
	case string:
		return datamodel.NewString(v), nil
	case []byte:
		if len(v) > 0 && v[0] == linkSentinel {
			c, err := cid.Cast(v[1:])
			if err != nil {
				return datamodel.Node{}, ErrBridgeAmbiguousKind{Detail: "a byte string begins with the link sentinel but its remainder is not a valid CID: " + err.Error()}
			}
			return datamodel.NewLink(c), nil
		}
		return datamodel.NewBytes(v), nil
	case []interface{}:
		items := make([]datamodel.Node, len(v))
		for i, elem := range v {
			n, err := fromBridgeValue(elem)
			if err != nil {
				return datamodel.Node{}, err
			}
			items[i] = n
		}
		return datamodel.NewList(items), nil
	case map[interface{}]interface{}:
		b := datamodel.NewMapBuilder()
		for k, mv := range v {
			ks, ok := k.(string)
			if !ok {
				return datamodel.Node{}, errors.New("bridge/cbor: map key is not a string")
			}
			n, err := fromBridgeValue(mv)
			if err != nil {
				return datamodel.Node{}, err
			}
			if err := b.Insert(ks, n); err != nil {
				return datamodel.Node{}, err
			}
		}
		return datamodel.NewMap(b.Build()), nil
	default:
		return datamodel.Node{}, errors.New("bridge/cbor: unsupported decoded CBOR value")
	}
}
