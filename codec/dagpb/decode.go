package dagpb

import (
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/ipfs/go-cid"

	"github.com/go-ipld/ipld-core/datamodel"
)

const (
	fieldPBNodeLinks = protowire.Number(1)
	fieldPBNodeData  = protowire.Number(2)

	fieldPBLinkHash  = protowire.Number(1)
	fieldPBLinkName  = protowire.Number(2)
	fieldPBLinkTsize = protowire.Number(3)
)

// DecodeBytes decodes a complete in-memory DAG-PB message.
func DecodeBytes(data []byte) (datamodel.Node, error) {
	b := datamodel.NewMapBuilder()

	remaining := data
	offset := int64(0)
	lastField := protowire.Number(0)
	var links []datamodel.Node
	haveLinks := false

	for len(remaining) > 0 {
		fieldNum, wireType, n := protowire.ConsumeTag(remaining)
		if n < 0 {
			return datamodel.Node{}, datamodel.ErrUnsupportedType("malformed protobuf tag", offset)
		}
		remaining = remaining[n:]
		offset += int64(n)

		if fieldNum < lastField {
			return datamodel.Node{}, datamodel.ErrSchemaViolation("PBNode fields must appear in ascending field-number order", offset)
		}
		if fieldNum == lastField && fieldNum != fieldPBNodeLinks {
			return datamodel.Node{}, datamodel.ErrSchemaViolation("PBNode singular field repeated", offset)
		}

		switch fieldNum {
		case fieldPBNodeLinks:
			if wireType != protowire.BytesType {
				return datamodel.Node{}, datamodel.ErrSchemaViolation("PBNode.Links must be a length-delimited submessage", offset)
			}
			chunk, n := protowire.ConsumeBytes(remaining)
			if n < 0 {
				return datamodel.Node{}, datamodel.ErrUnsupportedType("malformed PBNode.Links submessage", offset)
			}
			remaining = remaining[n:]
			offset += int64(n)

			link, err := decodePBLink(chunk, offset)
			if err != nil {
				return datamodel.Node{}, err
			}
			links = append(links, link)
			haveLinks = true

		case fieldPBNodeData:
			if wireType != protowire.BytesType {
				return datamodel.Node{}, datamodel.ErrSchemaViolation("PBNode.Data must be length-delimited bytes", offset)
			}
			chunk, n := protowire.ConsumeBytes(remaining)
			if n < 0 {
				return datamodel.Node{}, datamodel.ErrUnsupportedType("malformed PBNode.Data", offset)
			}
			remaining = remaining[n:]
			offset += int64(n)

			if err := b.Insert("Data", datamodel.NewBytes(append([]byte(nil), chunk...))); err != nil {
				return datamodel.Node{}, datamodel.ErrDuplicateKey("Data", offset)
			}

		default:
			return datamodel.Node{}, datamodel.ErrSchemaViolation("unknown PBNode field number", offset)
		}
		lastField = fieldNum
	}

	if haveLinks {
		if err := validateLinkOrder(links); err != nil {
			return datamodel.Node{}, err
		}
		if err := b.Insert("Links", datamodel.NewList(links)); err != nil {
			return datamodel.Node{}, err
		}
	}

	return datamodel.NewMap(b.Build()), nil
}

func decodePBLink(data []byte, baseOffset int64) (datamodel.Node, error) {
	b := datamodel.NewMapBuilder()
	remaining := data
	offset := baseOffset
	lastField := protowire.Number(0)
	haveHash := false

	for len(remaining) > 0 {
		fieldNum, wireType, n := protowire.ConsumeTag(remaining)
		if n < 0 {
			return datamodel.Node{}, datamodel.ErrUnsupportedType("malformed PBLink tag", offset)
		}
		remaining = remaining[n:]
		offset += int64(n)

		if fieldNum <= lastField && lastField != 0 {
			return datamodel.Node{}, datamodel.ErrSchemaViolation("PBLink fields must appear in strictly ascending field-number order", offset)
		}

		switch fieldNum {
		case fieldPBLinkHash:
			if wireType != protowire.BytesType {
				return datamodel.Node{}, datamodel.ErrSchemaViolation("PBLink.Hash must be length-delimited bytes", offset)
			}
			chunk, n := protowire.ConsumeBytes(remaining)
			if n < 0 {
				return datamodel.Node{}, datamodel.ErrUnsupportedType("malformed PBLink.Hash", offset)
			}
			remaining = remaining[n:]
			offset += int64(n)

			c, err := cid.Cast(chunk)
			if err != nil {
				return datamodel.Node{}, datamodel.ErrInvalidCid(err.Error(), offset)
			}
			if err := b.Insert("Hash", datamodel.NewLink(c)); err != nil {
				return datamodel.Node{}, err
			}
			haveHash = true

		case fieldPBLinkName:
			if wireType != protowire.BytesType {
				return datamodel.Node{}, datamodel.ErrSchemaViolation("PBLink.Name must be length-delimited bytes", offset)
			}
			chunk, n := protowire.ConsumeBytes(remaining)
			if n < 0 {
				return datamodel.Node{}, datamodel.ErrUnsupportedType("malformed PBLink.Name", offset)
			}
			remaining = remaining[n:]
			offset += int64(n)

			if !utf8.Valid(chunk) {
				return datamodel.Node{}, datamodel.ErrInvalidUTF8(offset)
			}
			if err := b.Insert("Name", datamodel.NewString(string(chunk))); err != nil {
				return datamodel.Node{}, err
			}

		case fieldPBLinkTsize:
			if wireType != protowire.VarintType {
				return datamodel.Node{}, datamodel.ErrSchemaViolation("PBLink.Tsize must be varint", offset)
			}
			v, n := protowire.ConsumeVarint(remaining)
			if n < 0 {
				return datamodel.Node{}, datamodel.ErrUnsupportedType("malformed PBLink.Tsize", offset)
			}
			remaining = remaining[n:]
			offset += int64(n)

			if err := b.Insert("Tsize", datamodel.NewUint(v)); err != nil {
				return datamodel.Node{}, err
			}

		default:
			return datamodel.Node{}, datamodel.ErrSchemaViolation("unknown PBLink field number", offset)
		}
		lastField = fieldNum
	}

	if !haveHash {
		return datamodel.Node{}, datamodel.ErrSchemaViolation("PBLink.Hash is required", offset)
	}
	return datamodel.NewMap(b.Build()), nil
}

// validateLinkOrder enforces the byte-lexicographic-by-Name stable sort
// (missing/empty Name sorts first) DAG-PB requires among a node's Links,
// rejecting unsorted input rather than silently reordering it.
func validateLinkOrder(links []datamodel.Node) error {
	nameOf := func(n datamodel.Node) string {
		m, _ := n.AsMap()
		if v, ok := m.Get("Name"); ok {
			s, _ := v.AsString()
			return s
		}
		return ""
	}
	for i := 1; i < len(links); i++ {
		if nameOf(links[i]) < nameOf(links[i-1]) {
			return datamodel.ErrSchemaViolation("PBNode.Links must be sorted by Name", -1)
		}
	}
	return nil
}
