package dagjson

import (
	"math"
	"math/big"
	"strconv"

	"github.com/ipfs/go-cid"

	"github.com/go-ipld/ipld-core/datamodel"
	"github.com/go-ipld/ipld-core/internal/budget"
)

type decoder struct {
	scanner
	tracker *budget.Tracker
}

// DecodeBytes decodes a complete in-memory DAG-JSON document.
func DecodeBytes(data []byte) (datamodel.Node, error) {
	return DecodeBytesWithDepth(data, 0)
}

// DecodeBytesWithDepth is like DecodeBytes but takes an explicit
// recursion depth limit (0 uses budget.DefaultDepthLimit).
func DecodeBytesWithDepth(data []byte, depthLimit int) (datamodel.Node, error) {
	d := &decoder{
		scanner: scanner{data: data},
		tracker: budget.NewTracker(int64(len(data)), depthLimit),
	}
	d.skipWhitespace()
	n, err := d.decodeValue()
	if err != nil {
		return datamodel.Node{}, err
	}
	d.skipWhitespace()
	if !d.eof() {
		return datamodel.Node{}, datamodel.ErrTrailingBytes(d.pos)
	}
	return n, nil
}

func (d *decoder) decodeValue() (datamodel.Node, error) {
	if err := d.tracker.Enter(); err != nil {
		return datamodel.Node{}, err
	}
	defer d.tracker.Exit()

	d.skipWhitespace()
	b, ok := d.peek()
	if !ok {
		return datamodel.Node{}, datamodel.ErrUnexpectedEOF(d.pos)
	}
	switch {
	case b == '{':
		return d.decodeObject()
	case b == '[':
		return d.decodeArray()
	case b == '"':
		s, err := d.scanString()
		if err != nil {
			return datamodel.Node{}, err
		}
		return datamodel.NewString(s), nil
	case b == 't':
		if err := d.expectLiteral("true"); err != nil {
			return datamodel.Node{}, err
		}
		return datamodel.NewBool(true), nil
	case b == 'f':
		if err := d.expectLiteral("false"); err != nil {
			return datamodel.Node{}, err
		}
		return datamodel.NewBool(false), nil
	case b == 'n':
		if err := d.expectLiteral("null"); err != nil {
			return datamodel.Node{}, err
		}
		return datamodel.Null, nil
	case b == '-' || (b >= '0' && b <= '9'):
		return d.decodeNumber()
	default:
		return datamodel.Node{}, datamodel.ErrUnsupportedType("unexpected character starting a JSON value", d.pos)
	}
}

func (d *decoder) decodeNumber() (datamodel.Node, error) {
	offset := d.pos
	lit, err := d.scanNumber()
	if err != nil {
		return datamodel.Node{}, err
	}
	if lit.float {
		f, err := strconv.ParseFloat(lit.text, 64)
		if err != nil {
			return datamodel.Node{}, datamodel.ErrUnsupportedType("invalid JSON float literal", offset)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return datamodel.Node{}, datamodel.ErrFloatNotFinite(offset)
		}
		return datamodel.NewFloat(f), nil
	}

	bi, ok := new(big.Int).SetString(lit.text, 10)
	if !ok {
		return datamodel.Node{}, datamodel.ErrUnsupportedType("invalid JSON integer literal", offset)
	}
	maxUint := new(big.Int).SetUint64(^uint64(0))
	if bi.Sign() >= 0 {
		if bi.Cmp(maxUint) > 0 {
			return datamodel.Node{}, datamodel.ErrIntegerOutOfRange("integer literal outside the -2^64..2^64-1 range", offset)
		}
		return datamodel.NewUint(bi.Uint64()), nil
	}
	// negative: magnitude = -(bi) - 1, must fit in uint64.
	mag := new(big.Int).Neg(bi)
	mag.Sub(mag, big.NewInt(1))
	if mag.Sign() < 0 || mag.Cmp(maxUint) > 0 {
		return datamodel.Node{}, datamodel.ErrIntegerOutOfRange("integer literal outside the -2^64..2^64-1 range", offset)
	}
	return datamodel.NewNegativeInt(mag.Uint64()), nil
}

func (d *decoder) decodeArray() (datamodel.Node, error) {
	if err := d.expect('['); err != nil {
		return datamodel.Node{}, err
	}
	d.skipWhitespace()
	var items []datamodel.Node
	if b, ok := d.peek(); ok && b == ']' {
		d.pos++
		return datamodel.NewList(items), nil
	}
	for {
		v, err := d.decodeValue()
		if err != nil {
			return datamodel.Node{}, err
		}
		items = append(items, v)
		d.skipWhitespace()
		b, ok := d.peek()
		if !ok {
			return datamodel.Node{}, datamodel.ErrUnexpectedEOF(d.pos)
		}
		if b == ',' {
			d.pos++
			d.skipWhitespace()
			continue
		}
		if b == ']' {
			d.pos++
			return datamodel.NewList(items), nil
		}
		return datamodel.Node{}, datamodel.ErrUnsupportedType("expected ',' or ']' in JSON array", d.pos)
	}
}

type rawEntry struct {
	key   string
	value datamodel.Node
}

func (d *decoder) decodeObject() (datamodel.Node, error) {
	objOffset := d.pos
	if err := d.expect('{'); err != nil {
		return datamodel.Node{}, err
	}
	d.skipWhitespace()
	var entries []rawEntry
	var prevKey string
	haveKey := false
	if b, ok := d.peek(); ok && b == '}' {
		d.pos++
		return datamodel.NewMap(datamodel.NewMapBuilder().Build()), nil
	}
	for {
		d.skipWhitespace()
		keyOffset := d.pos
		key, err := d.scanString()
		if err != nil {
			return datamodel.Node{}, err
		}
		if haveKey {
			if key == prevKey {
				return datamodel.Node{}, datamodel.ErrDuplicateKey(key, keyOffset)
			}
			if key < prevKey {
				return datamodel.Node{}, datamodel.ErrNotCanonical("map keys out of canonical (byte-lexicographic) order", keyOffset)
			}
		}
		prevKey, haveKey = key, true
		d.skipWhitespace()
		if err := d.expect(':'); err != nil {
			return datamodel.Node{}, err
		}
		value, err := d.decodeValue()
		if err != nil {
			return datamodel.Node{}, err
		}
		entries = append(entries, rawEntry{key: key, value: value})
		d.skipWhitespace()
		b, ok := d.peek()
		if !ok {
			return datamodel.Node{}, datamodel.ErrUnexpectedEOF(d.pos)
		}
		if b == ',' {
			d.pos++
			continue
		}
		if b == '}' {
			d.pos++
			break
		}
		return datamodel.Node{}, datamodel.ErrUnsupportedType("expected ',' or '}' in JSON object", d.pos)
	}

	if len(entries) == 1 && entries[0].key == "/" {
		return decodeEnvelope(entries[0].value, objOffset)
	}
	for _, e := range entries {
		if e.key == "/" {
			return datamodel.Node{}, datamodel.ErrUnsupportedType(`the "/" key is reserved for link and bytes envelopes and must be the object's sole key`, objOffset)
		}
	}

	b := datamodel.NewMapBuilder()
	for _, e := range entries {
		_ = b.Insert(e.key, e.value)
	}
	return datamodel.NewMap(b.Build()), nil
}

// decodeEnvelope interprets the value of a sole "/" key as either a Link
// envelope ({"/": "<cid>"}) or a Bytes envelope ({"/": {"bytes": "<b64>"}}).
func decodeEnvelope(value datamodel.Node, objOffset int64) (datamodel.Node, error) {
	switch value.Kind() {
	case datamodel.Kind_String:
		s, _ := value.AsString()
		c, err := cid.Decode(s)
		if err != nil {
			return datamodel.Node{}, datamodel.ErrInvalidCid(err.Error(), objOffset)
		}
		return datamodel.NewLink(c), nil
	case datamodel.Kind_Map:
		m, _ := value.AsMap()
		if m.Len() != 1 {
			break
		}
		bv, ok := m.Get("bytes")
		if !ok || bv.Kind() != datamodel.Kind_String {
			break
		}
		s, _ := bv.AsString()
		raw, err := decodeUnpaddedBase64(s)
		if err != nil {
			return datamodel.Node{}, datamodel.ErrUnsupportedType("invalid base64 in bytes envelope: "+err.Error(), objOffset)
		}
		return datamodel.NewBytes(raw), nil
	}
	return datamodel.Node{}, datamodel.ErrUnsupportedType(`"/" envelope must be a CID string or a {"bytes": "..."} object`, objOffset)
}
