// Package dagpb implements the DAG-PB codec: a strict, fixed Protobuf
// schema for a node holding optional Data bytes and a sorted list of
// named links.
//
// Grounded on go-ipld-prime's (unvendored, but referenced via
// go-codec-dagpb in this pack's containerd vendor tree) dagpb codec:
// same hand-rolled wire-level reader built on
// google.golang.org/protobuf/encoding/protowire rather than a
// protoc-generated type, because the strictness rules here — unknown
// fields fail, fields must appear in ascending field-number order,
// Links must already be sorted — aren't something a generic Protobuf
// library enforces.
package dagpb

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

// Code 0x70 is dag-pb in the multicodec table.
const Code multicodec.Code = 0x70

func init() {
	codec.Default.MustRegisterCodec(Code, Encode, Decode, Links)
}

// Encode fits the codec.Encoder interface for DAG-PB.
func Encode(n datamodel.Node, w io.Writer) error {
	return encodeNode(n, w)
}

// Decode fits the codec.Decoder interface for DAG-PB.
func Decode(r io.Reader) (datamodel.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return datamodel.Node{}, err
	}
	return DecodeBytes(data)
}
