// Package dagcbor implements the DAG-CBOR codec: a restricted,
// canonical subset of RFC 8949 CBOR with link tag 42.
//
// Grounded on go-ipld-prime/codec/dagjson's package shape (Encode/Decode
// package functions matching the codec.Encoder/codec.Decoder interfaces,
// self-registration in func init()) but hand-written at the byte level,
// the way go-ipld-prime's own (unvendored) dagcbor codec is, because no
// general CBOR library exposes the minimal-encoding and canonical-order
// validation strict decoding requires here.
package dagcbor

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

// Code 0x71 is dag-cbor in the multicodec table
// (github.com/multiformats/multicodec). Named constants aren't used here
// because they require the generated code_table.go this module's vendor
// tree doesn't carry; go-ipld-prime's own dagcbor package registers
// itself the same way, by raw code.
const Code multicodec.Code = 0x71

func init() {
	codec.Default.MustRegisterCodec(Code, Encode, Decode, Links)
}

// Encode fits the codec.Encoder interface for DAG-CBOR.
func Encode(n datamodel.Node, w io.Writer) error {
	return (&encoder{w: w}).encodeNode(n)
}

// Decode fits the codec.Decoder interface for DAG-CBOR.
func Decode(r io.Reader) (datamodel.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return datamodel.Node{}, err
	}
	return DecodeBytes(data)
}
