package datamodel

import (
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/ipfs/go-cid"
)

// Node is the IPLD value: a tagged variant holding exactly one of the
// data model kinds. It is a plain struct rather than
// an interface — there is only one in-memory representation of IPLD data
// in this module, so the Node/NodeAssembler/NodePrototype/NodeBuilder
// split that go-ipld-prime uses to support multiple representations
// (typed nodes, ADLs, ...) isn't needed here.
//
// The zero Node has Kind() == Kind_Invalid and is not a valid IPLD value;
// use one of the constructors below.
type Node struct {
	kind Kind

	boolVal  bool
	intNeg   bool   // true if this Integer is negative (CBOR major type 1 style)
	intMag   uint64 // magnitude: value is intMag if !intNeg, else -1-int64(intMag) mathematically
	floatVal float64
	strVal   string
	bytesVal []byte
	listVal  []Node
	mapVal   *Map
	linkVal  cid.Cid
}

// Null is the singular Null value.
var Null = Node{kind: Kind_Null}

func NewBool(v bool) Node {
	return Node{kind: Kind_Bool, boolVal: v}
}

// NewInt constructs an Integer from a signed 64-bit value.
func NewInt(v int64) Node {
	if v < 0 {
		return Node{kind: Kind_Int, intNeg: true, intMag: uint64(-(v + 1))}
	}
	return Node{kind: Kind_Int, intMag: uint64(v)}
}

// NewUint constructs an Integer from an unsigned 64-bit value, reaching
// the top of the representable range (2^64 - 1) that int64 alone cannot
// express.
func NewUint(v uint64) Node {
	return Node{kind: Kind_Int, intMag: v}
}

// NewNegativeInt constructs an Integer equal to -1-mag, the CBOR major
// type 1 convention. This reaches the bottom of the representable range
// (-2^64) that int64 alone cannot express; codecs that parse CBOR's two
// integer major types use this directly instead of NewInt.
func NewNegativeInt(mag uint64) Node {
	return Node{kind: Kind_Int, intNeg: true, intMag: mag}
}

// NewFloat constructs a Float. It panics if f is NaN or infinite: every
// Float in this data model must be finite; callers at a codec boundary
// should check with math.IsNaN/IsInf themselves and surface
// ErrFloatNotFinite instead of hitting this panic.
func NewFloat(f float64) Node {
	if isNonFinite(f) {
		panic("datamodel: NewFloat called with a non-finite value")
	}
	return Node{kind: Kind_Float, floatVal: f}
}

func isNonFinite(f float64) bool {
	return f != f || f > 1.7976931348623157e+308 || f < -1.7976931348623157e+308
}

// NewString constructs a String. It panics if s is not valid UTF-8;
// decoders must validate before calling this and return ErrInvalidUTF8
// instead.
func NewString(s string) Node {
	if !utf8.ValidString(s) {
		panic("datamodel: NewString called with invalid UTF-8")
	}
	return Node{kind: Kind_String, strVal: s}
}

// NewBytes constructs a Bytes value. The slice is retained, not copied;
// callers should not mutate it afterwards.
func NewBytes(b []byte) Node {
	return Node{kind: Kind_Bytes, bytesVal: b}
}

// NewLink constructs a Link from a CID.
func NewLink(c cid.Cid) Node {
	return Node{kind: Kind_Link, linkVal: c}
}

// NewList constructs a List from a slice of Nodes. The slice is retained.
func NewList(items []Node) Node {
	if items == nil {
		items = []Node{}
	}
	return Node{kind: Kind_List, listVal: items}
}

// NewMap constructs a Map Node from an already-built Map (see Map /
// MapBuilder for constructing one with duplicate-key detection).
func NewMap(m *Map) Node {
	if m == nil {
		m = NewMapBuilder().Build()
	}
	return Node{kind: Kind_Map, mapVal: m}
}

func (n Node) Kind() Kind { return n.kind }

func (n Node) wrongKind(method string, appropriate Kind) error {
	return ErrWrongKind{MethodName: method, ActualKind: n.kind, AppropriateKind: appropriate}
}

func (n Node) AsBool() (bool, error) {
	if n.kind != Kind_Bool {
		return false, n.wrongKind("AsBool", Kind_Bool)
	}
	return n.boolVal, nil
}

// AsInt returns the Integer as an int64, failing if the value doesn't
// fit (i.e. it is above math.MaxInt64 or below math.MinInt64).
func (n Node) AsInt() (int64, error) {
	if n.kind != Kind_Int {
		return 0, n.wrongKind("AsInt", Kind_Int)
	}
	if n.intNeg {
		if n.intMag > 1<<63-1 {
			return 0, fmt.Errorf("datamodel: integer -%d-1 does not fit in int64", n.intMag)
		}
		return -int64(n.intMag) - 1, nil
	}
	if n.intMag > 1<<63-1 {
		return 0, fmt.Errorf("datamodel: integer %d does not fit in int64", n.intMag)
	}
	return int64(n.intMag), nil
}

// AsUint returns the Integer as a uint64, failing if the value is
// negative.
func (n Node) AsUint() (uint64, error) {
	if n.kind != Kind_Int {
		return 0, n.wrongKind("AsUint", Kind_Int)
	}
	if n.intNeg {
		return 0, fmt.Errorf("datamodel: integer -%d-1 is negative, cannot be represented as uint64", n.intMag)
	}
	return n.intMag, nil
}

// AsBigInt returns the Integer using math/big, which can always
// represent the full -2^64..2^64-1 range this data model allows.
func (n Node) AsBigInt() (*big.Int, error) {
	if n.kind != Kind_Int {
		return nil, n.wrongKind("AsBigInt", Kind_Int)
	}
	v := new(big.Int).SetUint64(n.intMag)
	if n.intNeg {
		v.Neg(v)
		v.Sub(v, big.NewInt(1))
	}
	return v, nil
}

// IntParts reports whether an Integer Node is negative, and its
// unsigned magnitude under the CBOR convention (actual value is -1-mag
// when negative). Codecs use this to avoid a detour through big.Int on
// the hot path.
func (n Node) IntParts() (negative bool, magnitude uint64, err error) {
	if n.kind != Kind_Int {
		return false, 0, n.wrongKind("IntParts", Kind_Int)
	}
	return n.intNeg, n.intMag, nil
}

func (n Node) AsFloat() (float64, error) {
	if n.kind != Kind_Float {
		return 0, n.wrongKind("AsFloat", Kind_Float)
	}
	return n.floatVal, nil
}

func (n Node) AsString() (string, error) {
	if n.kind != Kind_String {
		return "", n.wrongKind("AsString", Kind_String)
	}
	return n.strVal, nil
}

func (n Node) AsBytes() ([]byte, error) {
	if n.kind != Kind_Bytes {
		return nil, n.wrongKind("AsBytes", Kind_Bytes)
	}
	return n.bytesVal, nil
}

func (n Node) AsLink() (cid.Cid, error) {
	if n.kind != Kind_Link {
		return cid.Undef, n.wrongKind("AsLink", Kind_Link)
	}
	return n.linkVal, nil
}

// AsList returns the underlying slice for a List Node. The caller must
// not mutate it.
func (n Node) AsList() ([]Node, error) {
	if n.kind != Kind_List {
		return nil, n.wrongKind("AsList", Kind_List)
	}
	return n.listVal, nil
}

// AsMap returns the underlying Map for a Map Node.
func (n Node) AsMap() (*Map, error) {
	if n.kind != Kind_Map {
		return nil, n.wrongKind("AsMap", Kind_Map)
	}
	return n.mapVal, nil
}

// Length returns the number of elements for List and Map kinds, and -1
// for every other kind (mirroring go-ipld-prime's Node.Length contract).
func (n Node) Length() int64 {
	switch n.kind {
	case Kind_List:
		return int64(len(n.listVal))
	case Kind_Map:
		return int64(n.mapVal.Len())
	default:
		return -1
	}
}
