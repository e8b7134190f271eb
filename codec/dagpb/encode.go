package dagpb

import (
	"io"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/go-ipld/ipld-core/datamodel"
)

// encodeNode writes n — which must be a Map shaped like a PBNode (an
// optional "Links" List of PBLink-shaped Maps, an optional "Data" Bytes,
// no other keys) — as DAG-PB bytes.
func encodeNode(n datamodel.Node, w io.Writer) error {
	if n.Kind() != datamodel.Kind_Map {
		return datamodel.ErrSchemaViolation("a DAG-PB node must be a Map", -1)
	}
	m, _ := n.AsMap()
	for _, k := range m.Keys() {
		if k != "Links" && k != "Data" {
			return datamodel.ErrSchemaViolation("unexpected key in DAG-PB node: "+k, -1)
		}
	}

	var out []byte
	if linksVal, ok := m.Get("Links"); ok {
		if linksVal.Kind() != datamodel.Kind_List {
			return datamodel.ErrSchemaViolation("DAG-PB Links must be a List", -1)
		}
		links, _ := linksVal.AsList()
		if err := validateLinkOrder(links); err != nil {
			return err
		}
		for _, link := range links {
			encoded, err := encodePBLink(link)
			if err != nil {
				return err
			}
			out = protowire.AppendTag(out, fieldPBNodeLinks, protowire.BytesType)
			out = protowire.AppendBytes(out, encoded)
		}
	}
	if dataVal, ok := m.Get("Data"); ok {
		if dataVal.Kind() != datamodel.Kind_Bytes {
			return datamodel.ErrSchemaViolation("DAG-PB Data must be Bytes", -1)
		}
		data, _ := dataVal.AsBytes()
		out = protowire.AppendTag(out, fieldPBNodeData, protowire.BytesType)
		out = protowire.AppendBytes(out, data)
	}

	_, err := w.Write(out)
	return err
}

func encodePBLink(n datamodel.Node) ([]byte, error) {
	if n.Kind() != datamodel.Kind_Map {
		return nil, datamodel.ErrSchemaViolation("a DAG-PB link must be a Map", -1)
	}
	m, _ := n.AsMap()
	for _, k := range m.Keys() {
		if k != "Hash" && k != "Name" && k != "Tsize" {
			return nil, datamodel.ErrSchemaViolation("unexpected key in DAG-PB link: "+k, -1)
		}
	}

	hashVal, ok := m.Get("Hash")
	if !ok || hashVal.Kind() != datamodel.Kind_Link {
		return nil, datamodel.ErrSchemaViolation("DAG-PB link requires a Hash of kind Link", -1)
	}
	c, _ := hashVal.AsLink()

	var out []byte
	out = protowire.AppendTag(out, fieldPBLinkHash, protowire.BytesType)
	out = protowire.AppendBytes(out, c.Bytes())

	if nameVal, ok := m.Get("Name"); ok {
		if nameVal.Kind() != datamodel.Kind_String {
			return nil, datamodel.ErrSchemaViolation("DAG-PB link Name must be a String", -1)
		}
		s, _ := nameVal.AsString()
		out = protowire.AppendTag(out, fieldPBLinkName, protowire.BytesType)
		out = protowire.AppendBytes(out, []byte(s))
	}
	if tsizeVal, ok := m.Get("Tsize"); ok {
		if tsizeVal.Kind() != datamodel.Kind_Int {
			return nil, datamodel.ErrSchemaViolation("DAG-PB link Tsize must be an Integer", -1)
		}
		v, err := tsizeVal.AsUint()
		if err != nil {
			return nil, datamodel.ErrSchemaViolation("DAG-PB link Tsize must be a non-negative integer", -1)
		}
		out = protowire.AppendTag(out, fieldPBLinkTsize, protowire.VarintType)
		out = protowire.AppendVarint(out, v)
	}
	return out, nil
}
