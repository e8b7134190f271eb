// Package codec defines the uniform encode/decode/references surface
// that every concrete codec in this module (dagcbor, dagjson, dagpb)
// implements, plus the process-wide registry that dispatches decode
// given only bytes and a multicodec code.
package codec

import (
	"io"

	"github.com/go-ipld/ipld-core/datamodel"
)

// Encoder serializes a Node to w. An Encoder fails with FloatNotFinite
// for a non-finite Float (unreachable in practice, since the
// datamodel.Node constructors already reject non-finite floats), with
// UnsupportedType for a zero (Kind_Invalid) Node, with SchemaViolation
// (DAG-PB only) for a value not shaped like a PBNode, and with any error
// w returns. Every Integer a Node can hold (-2^64..2^64-1) is encodable.
type Encoder func(n datamodel.Node, w io.Writer) error

// Decoder deserializes a complete Node from r. Decoders never partially
// succeed: on any error they return a typed error (see datamodel's error
// taxonomy) and the caller must discard whatever partial Node exists.
type Decoder func(r io.Reader) (datamodel.Node, error)

// LinkSink receives each CID encountered during link enumeration, in
// traversal order. Implementations may be called concurrently with
// other uses of the same codec, but not concurrently with themselves
// from a single ReferenceWalker call.
type LinkSink func(c LinkRef)

// LinkRef is reported to a LinkSink. It is a thin alias to avoid forcing
// every caller to import go-cid directly just to consume ReferenceWalker
// results.
type LinkRef = interface {
	String() string
}

// ReferenceWalker extracts every CID referenced by encoded bytes without
// materializing the full Node tree (a "bytes walk", as opposed to
// walking an in-memory value).
type ReferenceWalker func(r io.Reader, sink func(LinkRef)) error

// ErrBudgetExhausted reports that an input's declared length or nesting
// depth exceeds a resource budget. The decoders in this module do not
// return it: they report those cases as datamodel DecodeErrors of kind
// LengthMismatch and DepthExceeded (see internal/budget).
// Grounded on go-ipld-prime's codec.ErrBudgetExhausted.
type ErrBudgetExhausted struct{}

func (ErrBudgetExhausted) Error() string {
	return "decoder resource budget exhausted (message too long or too deeply nested)"
}

// MapSortMode names the canonical key order an Encoder imposes on Map
// entries. The DAG-CBOR and DAG-JSON encoders both always sort keys in
// MapSortMode_Lexical order and take no MapSortMode setting; the
// historical RFC7049 length-first order is not offered anywhere in this
// module.
type MapSortMode uint8

const (
	MapSortMode_None MapSortMode = iota
	MapSortMode_Lexical
)
