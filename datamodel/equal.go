package datamodel

// Equal reports whether a and b represent the same IPLD value. Map
// equality ignores in-memory key order; List order and Integer
// sign/magnitude are compared exactly.
func Equal(a, b Node) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Kind_Invalid, Kind_Null:
		return true
	case Kind_Bool:
		return a.boolVal == b.boolVal
	case Kind_Int:
		return a.intNeg == b.intNeg && a.intMag == b.intMag
	case Kind_Float:
		return a.floatVal == b.floatVal
	case Kind_String:
		return a.strVal == b.strVal
	case Kind_Bytes:
		return bytesEqual(a.bytesVal, b.bytesVal)
	case Kind_Link:
		return a.linkVal.Equals(b.linkVal)
	case Kind_List:
		if len(a.listVal) != len(b.listVal) {
			return false
		}
		for i := range a.listVal {
			if !Equal(a.listVal[i], b.listVal[i]) {
				return false
			}
		}
		return true
	case Kind_Map:
		if a.mapVal.Len() != b.mapVal.Len() {
			return false
		}
		for _, k := range a.mapVal.Keys() {
			av, _ := a.mapVal.Get(k)
			bv, ok := b.mapVal.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
