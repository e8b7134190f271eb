package dagpb

import (
	"io"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/ipfs/go-cid"

	"github.com/go-ipld/ipld-core/codec"
	"github.com/go-ipld/ipld-core/datamodel"
)

// Links fits the codec.ReferenceWalker interface for DAG-PB: it reports
// each PBLink.Hash in wire order without building PBLink Maps for the
// Name/Tsize fields it skips over.
func Links(r io.Reader, sink func(codec.LinkRef)) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	remaining := data
	offset := int64(0)
	lastField := protowire.Number(0)

	for len(remaining) > 0 {
		fieldNum, wireType, n := protowire.ConsumeTag(remaining)
		if n < 0 {
			return datamodel.ErrUnsupportedType("malformed protobuf tag", offset)
		}
		remaining = remaining[n:]
		offset += int64(n)

		if fieldNum < lastField {
			return datamodel.ErrSchemaViolation("PBNode fields must appear in ascending field-number order", offset)
		}

		switch fieldNum {
		case fieldPBNodeLinks:
			if wireType != protowire.BytesType {
				return datamodel.ErrSchemaViolation("PBNode.Links must be a length-delimited submessage", offset)
			}
			chunk, n := protowire.ConsumeBytes(remaining)
			if n < 0 {
				return datamodel.ErrUnsupportedType("malformed PBNode.Links submessage", offset)
			}
			remaining = remaining[n:]
			offset += int64(n)

			c, err := extractPBLinkHash(chunk, offset)
			if err != nil {
				return err
			}
			sink(c)

		case fieldPBNodeData:
			if wireType != protowire.BytesType {
				return datamodel.ErrSchemaViolation("PBNode.Data must be length-delimited bytes", offset)
			}
			_, n := protowire.ConsumeBytes(remaining)
			if n < 0 {
				return datamodel.ErrUnsupportedType("malformed PBNode.Data", offset)
			}
			remaining = remaining[n:]
			offset += int64(n)

		default:
			return datamodel.ErrSchemaViolation("unknown PBNode field number", offset)
		}
		lastField = fieldNum
	}
	return nil
}

// extractPBLinkHash walks a PBLink submessage just far enough to find
// and return its required Hash field, skipping Name/Tsize structurally.
func extractPBLinkHash(data []byte, baseOffset int64) (cid.Cid, error) {
	remaining := data
	offset := baseOffset
	var hash *cid.Cid

	for len(remaining) > 0 {
		fieldNum, wireType, n := protowire.ConsumeTag(remaining)
		if n < 0 {
			return cid.Undef, datamodel.ErrUnsupportedType("malformed PBLink tag", offset)
		}
		remaining = remaining[n:]
		offset += int64(n)

		switch fieldNum {
		case fieldPBLinkHash:
			if wireType != protowire.BytesType {
				return cid.Undef, datamodel.ErrSchemaViolation("PBLink.Hash must be length-delimited bytes", offset)
			}
			chunk, n := protowire.ConsumeBytes(remaining)
			if n < 0 {
				return cid.Undef, datamodel.ErrUnsupportedType("malformed PBLink.Hash", offset)
			}
			remaining = remaining[n:]
			offset += int64(n)
			c, err := cid.Cast(chunk)
			if err != nil {
				return cid.Undef, datamodel.ErrInvalidCid(err.Error(), offset)
			}
			hash = &c

		case fieldPBLinkName:
			if wireType != protowire.BytesType {
				return cid.Undef, datamodel.ErrSchemaViolation("PBLink.Name must be length-delimited bytes", offset)
			}
			_, n := protowire.ConsumeBytes(remaining)
			if n < 0 {
				return cid.Undef, datamodel.ErrUnsupportedType("malformed PBLink.Name", offset)
			}
			remaining = remaining[n:]
			offset += int64(n)

		case fieldPBLinkTsize:
			if wireType != protowire.VarintType {
				return cid.Undef, datamodel.ErrSchemaViolation("PBLink.Tsize must be varint", offset)
			}
			_, n := protowire.ConsumeVarint(remaining)
			if n < 0 {
				return cid.Undef, datamodel.ErrUnsupportedType("malformed PBLink.Tsize", offset)
			}
			remaining = remaining[n:]
			offset += int64(n)

		default:
			return cid.Undef, datamodel.ErrSchemaViolation("unknown PBLink field number", offset)
		}
	}

	if hash == nil {
		return cid.Undef, datamodel.ErrSchemaViolation("PBLink.Hash is required", offset)
	}
	return *hash, nil
}
