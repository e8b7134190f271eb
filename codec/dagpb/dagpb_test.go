package dagpb

import (
	"bytes"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"github.com/go-ipld/ipld-core/datamodel"
)

func mustLinkCid(t *testing.T) cid.Cid {
	t.Helper()
	mh, err := multihash.Sum([]byte("a dag-pb link target"), multihash.SHA2_256, -1)
	if err != nil {
		t.Fatalf("multihash.Sum: %v", err)
	}
	return cid.NewCidV1(uint64(Code), mh)
}

func encodeToBytes(t *testing.T, n datamodel.Node) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(n, &buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDataOnlyRoundTrip(t *testing.T) {
	b := datamodel.NewMapBuilder()
	_ = b.Insert("Data", datamodel.NewBytes([]byte("hello")))
	n := datamodel.NewMap(b.Build())

	raw := encodeToBytes(t, n)
	dec, err := DecodeBytes(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !datamodel.Equal(n, dec) {
		t.Fatalf("round trip mismatch")
	}
}

func TestZeroLengthDataDistinctFromAbsentData(t *testing.T) {
	withZero := datamodel.NewMapBuilder()
	_ = withZero.Insert("Data", datamodel.NewBytes([]byte{}))
	nZero := datamodel.NewMap(withZero.Build())

	nAbsent := datamodel.NewMap(datamodel.NewMapBuilder().Build())

	zeroRaw := encodeToBytes(t, nZero)
	absentRaw := encodeToBytes(t, nAbsent)
	if bytes.Equal(zeroRaw, absentRaw) {
		t.Fatalf("zero-length Data and absent Data must not encode identically")
	}

	decZero, err := DecodeBytes(zeroRaw)
	if err != nil {
		t.Fatalf("decode zero: %v", err)
	}
	decAbsent, err := DecodeBytes(absentRaw)
	if err != nil {
		t.Fatalf("decode absent: %v", err)
	}
	zm, _ := decZero.AsMap()
	if _, ok := zm.Get("Data"); !ok {
		t.Fatalf("expected Data key present after decoding zero-length Data")
	}
	am, _ := decAbsent.AsMap()
	if _, ok := am.Get("Data"); ok {
		t.Fatalf("expected Data key absent after decoding a node with no Data field")
	}
}

func TestLinksRoundTripSortedByName(t *testing.T) {
	c := mustLinkCid(t)

	linkA := datamodel.NewMapBuilder()
	_ = linkA.Insert("Hash", datamodel.NewLink(c))
	_ = linkA.Insert("Name", datamodel.NewString("a"))
	_ = linkA.Insert("Tsize", datamodel.NewUint(10))

	linkB := datamodel.NewMapBuilder()
	_ = linkB.Insert("Hash", datamodel.NewLink(c))
	_ = linkB.Insert("Name", datamodel.NewString("b"))

	nb := datamodel.NewMapBuilder()
	_ = nb.Insert("Links", datamodel.NewList([]datamodel.Node{
		datamodel.NewMap(linkA.Build()),
		datamodel.NewMap(linkB.Build()),
	}))
	n := datamodel.NewMap(nb.Build())

	raw := encodeToBytes(t, n)
	dec, err := DecodeBytes(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !datamodel.Equal(n, dec) {
		t.Fatalf("round trip mismatch")
	}
}

func TestUnsortedLinksRejectedOnDecodeAndEncode(t *testing.T) {
	c := mustLinkCid(t)

	linkB := datamodel.NewMapBuilder()
	_ = linkB.Insert("Hash", datamodel.NewLink(c))
	_ = linkB.Insert("Name", datamodel.NewString("b"))

	linkA := datamodel.NewMapBuilder()
	_ = linkA.Insert("Hash", datamodel.NewLink(c))
	_ = linkA.Insert("Name", datamodel.NewString("a"))

	unsorted := []datamodel.Node{datamodel.NewMap(linkB.Build()), datamodel.NewMap(linkA.Build())}

	nb := datamodel.NewMapBuilder()
	_ = nb.Insert("Links", datamodel.NewList(unsorted))
	n := datamodel.NewMap(nb.Build())

	var buf bytes.Buffer
	if err := Encode(n, &buf); err == nil {
		t.Fatalf("expected encode failure for unsorted Links")
	}

	// Hand-build the unsorted wire form: two single-Links PBNode messages
	// concatenated are, under protobuf merge semantics, equivalent to one
	// message with two Links entries in b,a order.
	firstLink := datamodel.NewMapBuilder()
	_ = firstLink.Insert("Links", datamodel.NewList([]datamodel.Node{unsorted[0]}))
	secondLink := datamodel.NewMapBuilder()
	_ = secondLink.Insert("Links", datamodel.NewList([]datamodel.Node{unsorted[1]}))

	unsortedWire := append(
		encodeToBytes(t, datamodel.NewMap(firstLink.Build())),
		encodeToBytes(t, datamodel.NewMap(secondLink.Build()))...,
	)
	_, err := DecodeBytes(unsortedWire)
	if err == nil || datamodel.ErrorKind(err) != "SchemaViolation" {
		t.Fatalf("expected SchemaViolation for unsorted wire-form Links, got %v", err)
	}
}

func TestMissingHashRejected(t *testing.T) {
	linkNoHash := datamodel.NewMapBuilder()
	_ = linkNoHash.Insert("Name", datamodel.NewString("a"))

	nb := datamodel.NewMapBuilder()
	_ = nb.Insert("Links", datamodel.NewList([]datamodel.Node{datamodel.NewMap(linkNoHash.Build())}))
	n := datamodel.NewMap(nb.Build())

	var buf bytes.Buffer
	if err := Encode(n, &buf); err == nil {
		t.Fatalf("expected encode failure for a link with no Hash")
	}
}

func TestUnknownTopLevelFieldRejected(t *testing.T) {
	// Field 3 is not PBNode.Links (1) or PBNode.Data (2).
	raw := []byte{0x1a, 0x01, 0x00}
	_, err := DecodeBytes(raw)
	if err == nil || datamodel.ErrorKind(err) != "SchemaViolation" {
		t.Fatalf("expected SchemaViolation for an unknown field number, got %v", err)
	}
}

func TestDescendingFieldOrderRejected(t *testing.T) {
	// Data (field 2) before Links (field 1) violates ascending order.
	dataTag := []byte{0x12, 0x00}
	linksTag := []byte{0x0a, 0x00}
	raw := append(append([]byte{}, dataTag...), linksTag...)
	_, err := DecodeBytes(raw)
	if err == nil || datamodel.ErrorKind(err) != "SchemaViolation" {
		t.Fatalf("expected SchemaViolation for descending field order, got %v", err)
	}
}

func TestLinksWalkExtractsHashesWithoutMaterializing(t *testing.T) {
	c := mustLinkCid(t)

	link := datamodel.NewMapBuilder()
	_ = link.Insert("Hash", datamodel.NewLink(c))
	_ = link.Insert("Name", datamodel.NewString("a"))

	nb := datamodel.NewMapBuilder()
	_ = nb.Insert("Links", datamodel.NewList([]datamodel.Node{datamodel.NewMap(link.Build())}))
	raw := encodeToBytes(t, datamodel.NewMap(nb.Build()))

	var found []string
	err := Links(bytes.NewReader(raw), func(r interface{ String() string }) {
		found = append(found, r.String())
	})
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	if len(found) != 1 || found[0] != c.String() {
		t.Fatalf("expected [%s], got %v", c.String(), found)
	}
}
