// Package datamodel implements the IPLD data model: the Node value, its
// Kind enum, and the error types shared by every codec in this module.
package datamodel

// Kind identifies which of the IPLD data model kinds a Node holds.
//
// There are exactly nine kinds, per the IPLD data model spec: null, bool,
// int, float, string, bytes, list, map, and link. Kind_Invalid is the zero
// value and is never produced by a valid Node.
type Kind uint8

const (
	Kind_Invalid Kind = iota
	Kind_Null
	Kind_Bool
	Kind_Int
	Kind_Float
	Kind_String
	Kind_Bytes
	Kind_List
	Kind_Map
	Kind_Link
)

func (k Kind) String() string {
	switch k {
	case Kind_Null:
		return "null"
	case Kind_Bool:
		return "bool"
	case Kind_Int:
		return "int"
	case Kind_Float:
		return "float"
	case Kind_String:
		return "string"
	case Kind_Bytes:
		return "bytes"
	case Kind_List:
		return "list"
	case Kind_Map:
		return "map"
	case Kind_Link:
		return "link"
	default:
		return "invalid"
	}
}
