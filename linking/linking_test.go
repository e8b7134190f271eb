package linking

import (
	"testing"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"

	"github.com/go-ipld/ipld-core/codec/dagcbor"
	"github.com/go-ipld/ipld-core/datamodel"
)

func TestComputeLinkRoundTripsThroughPrototypeOf(t *testing.T) {
	n := datamodel.NewString("hello")
	proto := Prototype{Version: 1, Codec: uint64(dagcbor.Code), MhType: multihash.SHA2_256, MhLength: -1}

	c, err := ComputeLink(proto, n, dagcbor.Encode)
	if err != nil {
		t.Fatalf("ComputeLink: %v", err)
	}
	if c.Prefix().Codec != uint64(dagcbor.Code) {
		t.Fatalf("unexpected codec in computed CID: %v", c.Prefix().Codec)
	}

	again := PrototypeOf(c)
	if again.MhType != multihash.SHA2_256 {
		t.Fatalf("PrototypeOf lost the multihash type: %+v", again)
	}

	c2, err := ComputeLink(again, n, dagcbor.Encode)
	if err != nil {
		t.Fatalf("ComputeLink (again): %v", err)
	}
	if !c.Equals(c2) {
		t.Fatalf("recomputing the link from PrototypeOf produced a different CID")
	}
}

func TestFormatStringUsesRequestedBase(t *testing.T) {
	proto := Prototype{Version: 1, Codec: uint64(dagcbor.Code), MhType: multihash.SHA2_256, MhLength: -1}
	c, err := ComputeLink(proto, datamodel.NewString("base test"), dagcbor.Encode)
	if err != nil {
		t.Fatalf("ComputeLink: %v", err)
	}

	b32, err := FormatString(c, multibase.Base32)
	if err != nil {
		t.Fatalf("FormatString base32: %v", err)
	}
	b58, err := FormatString(c, multibase.Base58BTC)
	if err != nil {
		t.Fatalf("FormatString base58btc: %v", err)
	}
	if b32 == b58 {
		t.Fatalf("expected different text forms for different bases")
	}

	enc, _, err := multibase.Decode(b32)
	if err != nil {
		t.Fatalf("multibase.Decode: %v", err)
	}
	if enc != multibase.Base32 {
		t.Fatalf("got encoding %v want Base32", enc)
	}
}
