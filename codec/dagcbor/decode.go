package dagcbor

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/ipfs/go-cid"

	"github.com/go-ipld/ipld-core/datamodel"
	"github.com/go-ipld/ipld-core/internal/budget"
)

type decoder struct {
	data    []byte
	pos     int64
	tracker *budget.Tracker
}

// DecodeBytes decodes a complete in-memory DAG-CBOR message. Decode (the
// io.Reader-based entry point) reads its input fully and calls this.
func DecodeBytes(data []byte) (datamodel.Node, error) {
	return DecodeBytesWithDepth(data, 0)
}

// DecodeBytesWithDepth is like DecodeBytes but takes an explicit
// recursion depth limit (0 uses budget.DefaultDepthLimit).
func DecodeBytesWithDepth(data []byte, depthLimit int) (datamodel.Node, error) {
	d := &decoder{data: data, tracker: budget.NewTracker(int64(len(data)), depthLimit)}
	n, err := d.decodeValue()
	if err != nil {
		return datamodel.Node{}, err
	}
	if d.pos != int64(len(data)) {
		return datamodel.Node{}, datamodel.ErrTrailingBytes(d.pos)
	}
	return n, nil
}

func (d *decoder) readByte() (byte, error) {
	if d.pos >= int64(len(d.data)) {
		return 0, datamodel.ErrUnexpectedEOF(d.pos)
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) readN(n int64) ([]byte, error) {
	if err := d.tracker.CheckLength(n); err != nil {
		return nil, err
	}
	if d.pos+n > int64(len(d.data)) {
		return nil, datamodel.ErrUnexpectedEOF(d.pos)
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	d.tracker.Consume(n)
	return b, nil
}

// readArgument reads the additional-info argument for majors 0-6,
// enforcing the canonical minimal-length encoding rule: the shortest
// form that can hold the value must be used.
func (d *decoder) readArgument(info byte, headOffset int64) (uint64, error) {
	switch {
	case info < 24:
		return uint64(info), nil
	case info == 24:
		b, err := d.readByte()
		if err != nil {
			return 0, err
		}
		v := uint64(b)
		if v < 24 {
			return 0, datamodel.ErrNotCanonical("non-minimal integer/length encoding", headOffset)
		}
		return v, nil
	case info == 25:
		raw, err := d.readN(2)
		if err != nil {
			return 0, err
		}
		v := uint64(binary.BigEndian.Uint16(raw))
		if v <= 0xff {
			return 0, datamodel.ErrNotCanonical("non-minimal integer/length encoding", headOffset)
		}
		return v, nil
	case info == 26:
		raw, err := d.readN(4)
		if err != nil {
			return 0, err
		}
		v := uint64(binary.BigEndian.Uint32(raw))
		if v <= 0xffff {
			return 0, datamodel.ErrNotCanonical("non-minimal integer/length encoding", headOffset)
		}
		return v, nil
	case info == 27:
		raw, err := d.readN(8)
		if err != nil {
			return 0, err
		}
		v := binary.BigEndian.Uint64(raw)
		if v <= 0xffffffff {
			return 0, datamodel.ErrNotCanonical("non-minimal integer/length encoding", headOffset)
		}
		return v, nil
	default: // 28, 29, 30 reserved; 31 indefinite-length
		return 0, datamodel.ErrUnsupportedType("indefinite-length or reserved additional info", headOffset)
	}
}

func (d *decoder) decodeValue() (datamodel.Node, error) {
	if err := d.tracker.Enter(); err != nil {
		return datamodel.Node{}, err
	}
	defer d.tracker.Exit()
	return d.decodeValueNoDepthGuard()
}

func (d *decoder) decodeValueNoDepthGuard() (datamodel.Node, error) {
	headOffset := d.pos
	lead, err := d.readByte()
	if err != nil {
		return datamodel.Node{}, err
	}
	major := lead >> 5
	info := lead & 0x1f

	if major == 7 {
		return d.decodeSimpleOrFloat(info, headOffset)
	}

	arg, err := d.readArgument(info, headOffset)
	if err != nil {
		return datamodel.Node{}, err
	}

	switch major {
	case 0:
		return datamodel.NewUint(arg), nil
	case 1:
		return datamodel.NewNegativeInt(arg), nil
	case 2:
		b, err := d.readN(int64(arg))
		if err != nil {
			return datamodel.Node{}, err
		}
		return datamodel.NewBytes(append([]byte(nil), b...)), nil
	case 3:
		b, err := d.readN(int64(arg))
		if err != nil {
			return datamodel.Node{}, err
		}
		if !utf8.Valid(b) {
			return datamodel.Node{}, datamodel.ErrInvalidUTF8(headOffset)
		}
		return datamodel.NewString(string(b)), nil
	case 4:
		items := make([]datamodel.Node, 0, preallocSize(arg))
		for i := uint64(0); i < arg; i++ {
			v, err := d.decodeValue()
			if err != nil {
				return datamodel.Node{}, err
			}
			items = append(items, v)
		}
		return datamodel.NewList(items), nil
	case 5:
		return d.decodeMap(arg)
	case 6:
		return d.decodeTag(arg, headOffset)
	default:
		return datamodel.Node{}, datamodel.ErrUnsupportedType("unknown major type", headOffset)
	}
}

// preallocSize caps the slice preallocation so a declared array length
// can't itself be used to force a large allocation before any elements
// are actually read; the per-element budget.Tracker check still bounds
// the real work.
func preallocSize(declared uint64) int {
	const cap = 1024
	if declared > cap {
		return cap
	}
	return int(declared)
}

func (d *decoder) decodeMap(count uint64) (datamodel.Node, error) {
	b := datamodel.NewMapBuilder()
	var prevKey string
	haveKey := false
	for i := uint64(0); i < count; i++ {
		keyOffset := d.pos
		keyNode, err := d.decodeValue()
		if err != nil {
			return datamodel.Node{}, err
		}
		if keyNode.Kind() != datamodel.Kind_String {
			return datamodel.Node{}, datamodel.ErrUnsupportedType("map keys must be text strings", keyOffset)
		}
		key, _ := keyNode.AsString()
		if haveKey {
			if key == prevKey {
				return datamodel.Node{}, datamodel.ErrDuplicateKey(key, keyOffset)
			}
			if key < prevKey {
				return datamodel.Node{}, datamodel.ErrNotCanonical("map keys out of canonical (byte-lexicographic) order", keyOffset)
			}
		}
		prevKey, haveKey = key, true
		value, err := d.decodeValue()
		if err != nil {
			return datamodel.Node{}, err
		}
		if err := b.Insert(key, value); err != nil {
			return datamodel.Node{}, datamodel.ErrDuplicateKey(key, keyOffset)
		}
	}
	return datamodel.NewMap(b.Build()), nil
}

func (d *decoder) decodeTag(tag uint64, headOffset int64) (datamodel.Node, error) {
	if tag != 42 {
		return datamodel.Node{}, datamodel.ErrUnsupportedTag("only tag 42 (CID link) is supported", headOffset)
	}
	payloadOffset := d.pos
	lead, err := d.readByte()
	if err != nil {
		return datamodel.Node{}, err
	}
	major := lead >> 5
	info := lead & 0x1f
	if major != 2 {
		return datamodel.Node{}, datamodel.ErrUnsupportedTag("tag 42 payload must be a byte string", payloadOffset)
	}
	arg, err := d.readArgument(info, payloadOffset)
	if err != nil {
		return datamodel.Node{}, err
	}
	payload, err := d.readN(int64(arg))
	if err != nil {
		return datamodel.Node{}, err
	}
	if len(payload) == 0 || payload[0] != 0x00 {
		return datamodel.Node{}, datamodel.ErrInvalidCid("CID link byte string must be prefixed with 0x00", payloadOffset)
	}
	c, err := cid.Cast(payload[1:])
	if err != nil {
		return datamodel.Node{}, datamodel.ErrInvalidCid(err.Error(), payloadOffset)
	}
	return datamodel.NewLink(c), nil
}

func (d *decoder) decodeSimpleOrFloat(info byte, headOffset int64) (datamodel.Node, error) {
	switch info {
	case 20:
		return datamodel.NewBool(false), nil
	case 21:
		return datamodel.NewBool(true), nil
	case 22:
		return datamodel.Null, nil
	case 27:
		raw, err := d.readN(8)
		if err != nil {
			return datamodel.Node{}, err
		}
		bits := binary.BigEndian.Uint64(raw)
		f := math.Float64frombits(bits)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return datamodel.Node{}, datamodel.ErrFloatNotFinite(headOffset)
		}
		return datamodel.NewFloat(f), nil
	default:
		// simple values other than false/true/null, undefined, half/single
		// precision floats, and indefinite-length/break are all forbidden.
		return datamodel.Node{}, datamodel.ErrUnsupportedType("simple value or float width not permitted in DAG-CBOR", headOffset)
	}
}
