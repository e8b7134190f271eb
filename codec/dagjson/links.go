package dagjson

import (
	"io"

	"github.com/ipfs/go-cid"

	"github.com/go-ipld/ipld-core/codec"
	"github.com/go-ipld/ipld-core/datamodel"
	"github.com/go-ipld/ipld-core/internal/budget"
)

// Links fits the codec.ReferenceWalker interface for DAG-JSON. It scans
// the document structurally — skipping over ordinary string and number
// content without building Node values for it — and reports a CID for
// every {"/": "<cid>"} envelope it encounters. Because the walk tracks
// object/array nesting the same way the full decoder does, a `"/"` key
// occurring as an ordinary string inside unrelated string content (for
// example within a larger JSON string value) is never mistaken for an
// envelope.
func Links(r io.Reader, sink func(codec.LinkRef)) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	w := &walker{
		decoder: decoder{scanner: scanner{data: data}, tracker: budget.NewTracker(int64(len(data)), 0)},
		sink:    sink,
	}
	w.skipWhitespace()
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

	w.skipWhitespace()
	b, ok := w.peek()
	if !ok {
		return datamodel.ErrUnexpectedEOF(w.pos)
	}
	switch {
	case b == '{':
		return w.walkObject()
	case b == '[':
		return w.walkArray()
	case b == '"':
		return w.skipString()
	case b == 't':
		return w.expectLiteral("true")
	case b == 'f':
		return w.expectLiteral("false")
	case b == 'n':
		return w.expectLiteral("null")
	case b == '-' || (b >= '0' && b <= '9'):
		return w.skipNumber()
	default:
		return datamodel.ErrUnsupportedType("unexpected character starting a JSON value", w.pos)
	}
}

func (w *walker) walkArray() error {
	if err := w.expect('['); err != nil {
		return err
	}
	w.skipWhitespace()
	if b, ok := w.peek(); ok && b == ']' {
		w.pos++
		return nil
	}
	for {
		if err := w.walkValue(); err != nil {
			return err
		}
		w.skipWhitespace()
		b, ok := w.peek()
		if !ok {
			return datamodel.ErrUnexpectedEOF(w.pos)
		}
		if b == ',' {
			w.pos++
			w.skipWhitespace()
			continue
		}
		if b == ']' {
			w.pos++
			return nil
		}
		return datamodel.ErrUnsupportedType("expected ',' or ']' in JSON array", w.pos)
	}
}

func (w *walker) walkObject() error {
	objOffset := w.pos
	if err := w.expect('{'); err != nil {
		return err
	}
	w.skipWhitespace()
	if b, ok := w.peek(); ok && b == '}' {
		w.pos++
		return nil
	}

	var keys []string
	first := true
	for {
		w.skipWhitespace()
		key, err := w.scanString()
		if err != nil {
			return err
		}
		keys = append(keys, key)
		w.skipWhitespace()
		if err := w.expect(':'); err != nil {
			return err
		}

		if first && key == "/" {
			return w.walkEnvelopeValue(objOffset)
		}
		first = false

		if err := w.walkValue(); err != nil {
			return err
		}
		w.skipWhitespace()
		b, ok := w.peek()
		if !ok {
			return datamodel.ErrUnexpectedEOF(w.pos)
		}
		if b == ',' {
			w.pos++
			continue
		}
		if b == '}' {
			w.pos++
			return nil
		}
		return datamodel.ErrUnsupportedType("expected ',' or '}' in JSON object", w.pos)
	}
}

// walkEnvelopeValue handles the value following a sole leading "/" key:
// either a CID string (reported to sink) or a {"bytes": "..."} object,
// which is skipped structurally like any other object.
func (w *walker) walkEnvelopeValue(objOffset int64) error {
	w.skipWhitespace()
	b, ok := w.peek()
	if !ok {
		return datamodel.ErrUnexpectedEOF(w.pos)
	}
	if b == '"' {
		s, err := w.scanString()
		if err != nil {
			return err
		}
		c, err := cid.Decode(s)
		if err == nil {
			w.sink(c)
		}
	} else if err := w.walkValue(); err != nil {
		return err
	}
	w.skipWhitespace()
	return w.expect('}')
}
