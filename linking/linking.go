// Package linking gives the CID kind (datamodel.Node's Kind_Link) the one
// piece of working behavior it needs beyond "hold an opaque cid.Cid":
// turning an encoded Node into the CID that names it.
//
// Grounded on go-ipld-prime/linking/cid's cidlink.LinkPrototype.BuildLink,
// trimmed to CID computation only — this package does not grow into a
// LinkSystem with storage read/write openers; loading and storing blocks
// from some backing store is out of scope here.
package linking

import (
	"bytes"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multihash"

	"github.com/go-ipld/ipld-core/codec"
	"github.com/go-ipld/ipld-core/datamodel"
)

// Prototype carries the parameters needed to compute a CID for a Node:
// the CID version, the multicodec code the bytes were (or will be)
// encoded with, and the multihash algorithm and digest length to use.
// It is a thin restatement of cid.Prefix under a name that reads as
// "recipe for a link" rather than "prefix of a link".
type Prototype struct {
	Version uint64
	Codec   uint64
	MhType  uint64
	// MhLength is the digest length in bytes, or -1 to use the hash
	// function's natural length (required for variable-length hashes
	// such as multihash.ID).
	MhLength int
}

func (p Prototype) prefix() cid.Prefix {
	return cid.Prefix{Version: p.Version, Codec: p.Codec, MhType: p.MhType, MhLength: p.MhLength}
}

// ComputeLink encodes n with enc, hashes the result per proto, and
// returns the resulting CID. It does not write the encoded bytes
// anywhere; callers that also need the bytes (e.g. to persist a block)
// should encode separately and pass the bytes to BuildLink instead.
func ComputeLink(proto Prototype, n datamodel.Node, enc codec.Encoder) (cid.Cid, error) {
	var buf bytes.Buffer
	if err := enc(n, &buf); err != nil {
		return cid.Undef, err
	}
	return BuildLink(proto, buf.Bytes())
}

// BuildLink hashes raw (an already-encoded block) per proto and returns
// the resulting CID, without re-running any codec.
func BuildLink(proto Prototype, raw []byte) (cid.Cid, error) {
	mh, err := multihash.Sum(raw, proto.MhType, proto.MhLength)
	if err != nil {
		return cid.Undef, fmt.Errorf("linking: computing multihash: %w", err)
	}
	switch proto.Version {
	case 0:
		return cid.NewCidV0(mh), nil
	case 1:
		return cid.NewCidV1(proto.Codec, mh), nil
	default:
		return cid.Undef, fmt.Errorf("linking: unsupported CID version %d", proto.Version)
	}
}

// PrototypeOf returns the Prototype implied by an existing CID, useful
// for "link another value the same way this one was linked".
func PrototypeOf(c cid.Cid) Prototype {
	p := c.Prefix()
	return Prototype{Version: uint64(p.Version), Codec: p.Codec, MhType: uint64(p.MhType), MhLength: p.MhLength}
}

// FormatString renders c in the given multibase encoding rather than the
// base cid.Cid.String() picks by default (base32 for CIDv1, the
// implicit base58btc "identity" form for CIDv0). A CIDv0 value cannot be
// rendered in any base but base58btc and is returned unchanged regardless
// of base, matching the CID spec's v0 restriction.
func FormatString(c cid.Cid, base multibase.Encoding) (string, error) {
	if c.Version() == 0 {
		return c.String(), nil
	}
	return multibase.Encode(base, c.Bytes())
}
