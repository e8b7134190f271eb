package main

import (
	"fmt"
	"io"

	"github.com/go-ipld/ipld-core/codec/dagcbor"
	"github.com/go-ipld/ipld-core/codec/dagjson"
	"github.com/go-ipld/ipld-core/codec/dagpb"
	"github.com/go-ipld/ipld-core/datamodel"
)

// codecNames lists the three wire codecs this binary knows about, by
// the --codec flag value accepted on every subcommand.
var codecNames = []string{"dag-cbor", "dag-json", "dag-pb"}

func encoderFor(name string) (func(datamodel.Node, io.Writer) error, error) {
	switch name {
	case "dag-cbor":
		return dagcbor.Encode, nil
	case "dag-json":
		return dagjson.Encode, nil
	case "dag-pb":
		return dagpb.Encode, nil
	default:
		return nil, fmt.Errorf("unknown codec %q (want one of %v)", name, codecNames)
	}
}

// decoderFor returns a decode function bounded by depthLimit where the
// codec supports one (dag-cbor, dag-json); dag-pb has no unbounded
// recursion to guard against, so depthLimit is ignored for it.
func decoderFor(name string, depthLimit int) (func([]byte) (datamodel.Node, error), error) {
	switch name {
	case "dag-cbor":
		return func(data []byte) (datamodel.Node, error) {
			return dagcbor.DecodeBytesWithDepth(data, depthLimit)
		}, nil
	case "dag-json":
		return func(data []byte) (datamodel.Node, error) {
			return dagjson.DecodeBytesWithDepth(data, depthLimit)
		}, nil
	case "dag-pb":
		return dagpb.DecodeBytes, nil
	default:
		return nil, fmt.Errorf("unknown codec %q (want one of %v)", name, codecNames)
	}
}

func linksWalkerFor(name string) (func(io.Reader, func(interface{ String() string })) error, error) {
	switch name {
	case "dag-cbor":
		return dagcbor.Links, nil
	case "dag-json":
		return dagjson.Links, nil
	case "dag-pb":
		return dagpb.Links, nil
	default:
		return nil, fmt.Errorf("unknown codec %q (want one of %v)", name, codecNames)
	}
}
