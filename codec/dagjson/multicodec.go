// Package dagjson implements the DAG-JSON codec: a restricted JSON
// profile with explicit "/"-keyed envelopes for Bytes and Link, the two
// IPLD kinds plain JSON cannot express.
//
// Grounded on go-ipld-prime/codec/dagjson's package shape (Encode/Decode
// package functions self-registering in func init()), but — like this
// module's dagcbor package, and for the same reason — hand-written at
// the byte level rather than layered on a generic JSON library or on
// go-ipld-prime's own refmt-based tokenizer: the canonical-number rules
// (no insignificant digits, integer vs. float decided purely by the
// presence of a fraction/exponent, full -2^64..2^64-1 integer range) and
// the "/"-envelope disambiguation need precise control refmt's Token
// model doesn't expose.
package dagjson

import (
	"io"

	"github.com/multiformats/go-multicodec"

	"github.com/go-ipld/ipld-core/codec"
	"github.com/go-ipld/ipld-core/datamodel"
)

var (
	_ codec.Encoder = Encode
	_ codec.Decoder = Decode
)

// Code 0x0129 is dag-json in the multicodec table.
const Code multicodec.Code = 0x0129

func init() {
	codec.Default.MustRegisterCodec(Code, Encode, Decode, Links)
}

// Encode fits the codec.Encoder interface for DAG-JSON.
func Encode(n datamodel.Node, w io.Writer) error {
	return (&encoder{w: w}).encodeNode(n)
}

// Decode fits the codec.Decoder interface for DAG-JSON.
func Decode(r io.Reader) (datamodel.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return datamodel.Node{}, err
	}
	return DecodeBytes(data)
}
