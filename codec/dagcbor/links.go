package dagcbor

import (
	"io"

	"github.com/ipfs/go-cid"

	"github.com/go-ipld/ipld-core/codec"
	"github.com/go-ipld/ipld-core/datamodel"
	"github.com/go-ipld/ipld-core/internal/budget"
)

// Links fits the codec.ReferenceWalker interface: it emits every linked
// CID found in a DAG-CBOR message in traversal order, without building
// the full datamodel.Node tree. Only tag-42 items (as a CID) and map keys
// (decoded to check their order) are materialized; every other value is
// skipped structurally.
func Links(r io.Reader, sink func(codec.LinkRef)) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	w := &walker{decoder: decoder{data: data, tracker: budget.NewTracker(int64(len(data)), 0)}, sink: sink}
	return w.walkValue()
}

type walker struct {
	decoder
	sink func(codec.LinkRef)
}

func (w *walker) walkValue() error {
	if err := w.tracker.Enter(); err != nil {
		return err
	}
	defer w.tracker.Exit()

	headOffset := w.pos
	lead, err := w.readByte()
	if err != nil {
		return err
	}
	major := lead >> 5
	info := lead & 0x1f

	if major == 7 {
		_, err := w.decodeSimpleOrFloat(info, headOffset)
		return err
	}

	arg, err := w.readArgument(info, headOffset)
	if err != nil {
		return err
	}

	switch major {
	case 0, 1:
		return nil
	case 2, 3:
		_, err := w.readN(int64(arg))
		return err
	case 4:
		for i := uint64(0); i < arg; i++ {
			if err := w.walkValue(); err != nil {
				return err
			}
		}
		return nil
	case 5:
		return w.walkMap(arg)
	case 6:
		return w.walkTag(arg, headOffset)
	default:
		return datamodel.ErrUnsupportedType("unknown major type", headOffset)
	}
}

func (w *walker) walkMap(count uint64) error {
	var prevKey string
	haveKey := false
	for i := uint64(0); i < count; i++ {
		keyOffset := w.pos
		keyNode, err := w.decodeValue()
		if err != nil {
			return err
		}
		if keyNode.Kind() != datamodel.Kind_String {
			return datamodel.ErrUnsupportedType("map keys must be text strings", keyOffset)
		}
		key, _ := keyNode.AsString()
		if haveKey {
			if key == prevKey {
				return datamodel.ErrDuplicateKey(key, keyOffset)
			}
			if key < prevKey {
				return datamodel.ErrNotCanonical("map keys out of canonical order", keyOffset)
			}
		}
		prevKey, haveKey = key, true
		if err := w.walkValue(); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) walkTag(tag uint64, headOffset int64) error {
	if tag != 42 {
		return datamodel.ErrUnsupportedTag("only tag 42 (CID link) is supported", headOffset)
	}
	payloadOffset := w.pos
	lead, err := w.readByte()
	if err != nil {
		return err
	}
	major := lead >> 5
	info := lead & 0x1f
	if major != 2 {
		return datamodel.ErrUnsupportedTag("tag 42 payload must be a byte string", payloadOffset)
	}
	arg, err := w.readArgument(info, payloadOffset)
	if err != nil {
		return err
	}
	payload, err := w.readN(int64(arg))
	if err != nil {
		return err
	}
	if len(payload) == 0 || payload[0] != 0x00 {
		return datamodel.ErrInvalidCid("CID link byte string must be prefixed with 0x00", payloadOffset)
	}
	c, err := cid.Cast(payload[1:])
	if err != nil {
		return datamodel.ErrInvalidCid(err.Error(), payloadOffset)
	}
	w.sink(c)
	return nil
}
