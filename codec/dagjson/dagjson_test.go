package dagjson

import (
	"bytes"
	"testing"

	"github.com/go-ipld/ipld-core/datamodel"
)

func encodeToString(t *testing.T, n datamodel.Node) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(n, &buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.String()
}

func TestCanonicalMapOrder(t *testing.T) {
	b := datamodel.NewMapBuilder()
	_ = b.Insert("b", datamodel.NewInt(2))
	_ = b.Insert("a", datamodel.NewInt(1))
	n := datamodel.NewMap(b.Build())

	got := encodeToString(t, n)
	want := `{"a":1,"b":2}`
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestSwappedMapKeysRejectedOnDecode(t *testing.T) {
	_, err := DecodeBytes([]byte(`{"b":2,"a":1}`))
	if err == nil || datamodel.ErrorKind(err) != "NotCanonical" {
		t.Fatalf("expected NotCanonical, got %v", err)
	}
}

func TestDuplicateMapKeyRejected(t *testing.T) {
	_, err := DecodeBytes([]byte(`{"a":1,"a":2}`))
	if err == nil || datamodel.ErrorKind(err) != "DuplicateKey" {
		t.Fatalf("expected DuplicateKey, got %v", err)
	}
}

func TestBytesEnvelopeRoundTrip(t *testing.T) {
	n := datamodel.NewBytes([]byte("hello"))
	got := encodeToString(t, n)
	want := `{"/":{"bytes":"aGVsbG8"}}`
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
	dec, err := DecodeBytes([]byte(got))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !datamodel.Equal(n, dec) {
		t.Fatalf("round trip mismatch")
	}
}

func TestReservedSlashKeyMustBeSoleKey(t *testing.T) {
	_, err := DecodeBytes([]byte(`{"/":{"bytes":"aGVsbG8"},"x":1}`))
	if err == nil {
		t.Fatalf("expected decode failure when '/' is not the sole key")
	}
}

func TestLinkEnvelopeRoundTrip(t *testing.T) {
	n, err := DecodeBytes([]byte(`{"/":"bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n.Kind() != datamodel.Kind_Link {
		t.Fatalf("expected Link kind, got %s", n.Kind())
	}
	reenc := encodeToString(t, n)
	if reenc != `{"/":"bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"}` {
		t.Fatalf("unexpected re-encoding: %s", reenc)
	}
}

func TestIntegerVsFloatDecodedByGrammar(t *testing.T) {
	n, err := DecodeBytes([]byte(`3`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n.Kind() != datamodel.Kind_Int {
		t.Fatalf("expected Int, got %s", n.Kind())
	}
	n, err = DecodeBytes([]byte(`3.0`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n.Kind() != datamodel.Kind_Float {
		t.Fatalf("expected Float, got %s", n.Kind())
	}
}

func TestWholeNumberFloatRoundTripsAsFloat(t *testing.T) {
	n := datamodel.NewFloat(3.0)
	got := encodeToString(t, n)
	if got != "3.0" {
		t.Fatalf("got %s want 3.0", got)
	}
	dec, err := DecodeBytes([]byte(got))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dec.Kind() != datamodel.Kind_Float {
		t.Fatalf("round trip changed kind to %s", dec.Kind())
	}
}

func TestLargeIntegerBeyondInt64RoundTrips(t *testing.T) {
	n := datamodel.NewUint(^uint64(0))
	got := encodeToString(t, n)
	if got != "18446744073709551615" {
		t.Fatalf("got %s", got)
	}
	dec, err := DecodeBytes([]byte(got))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !datamodel.Equal(n, dec) {
		t.Fatalf("round trip mismatch")
	}
}

func TestTrailingBytesRejected(t *testing.T) {
	_, err := DecodeBytes([]byte(`1 2`))
	if err == nil || datamodel.ErrorKind(err) != "TrailingBytes" {
		t.Fatalf("expected TrailingBytes, got %v", err)
	}
}

func TestInvalidUTF8Rejected(t *testing.T) {
	_, err := DecodeBytes([]byte("\"\xff\""))
	if err == nil {
		t.Fatalf("expected decode failure for invalid UTF-8")
	}
}

func TestArbitraryWhitespaceAccepted(t *testing.T) {
	_, err := DecodeBytes([]byte("  \n\t{ \"a\" : 1 }\n"))
	if err != nil {
		t.Fatalf("expected success with surrounding whitespace: %v", err)
	}
}

func TestNoInsignificantWhitespaceOnEncode(t *testing.T) {
	b := datamodel.NewMapBuilder()
	_ = b.Insert("a", datamodel.NewInt(1))
	got := encodeToString(t, datamodel.NewMap(b.Build()))
	want := `{"a":1}`
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestDepthExceeded(t *testing.T) {
	var buf bytes.Buffer
	const n = 100
	for i := 0; i < n; i++ {
		buf.WriteByte('[')
	}
	buf.WriteByte('0')
	for i := 0; i < n; i++ {
		buf.WriteByte(']')
	}
	_, err := DecodeBytesWithDepth(buf.Bytes(), 10)
	if err == nil || datamodel.ErrorKind(err) != "DepthExceeded" {
		t.Fatalf("expected DepthExceeded, got %v", err)
	}
}

func TestLinksWalkFindsEnvelopesWithoutMaterializing(t *testing.T) {
	doc := []byte(`{"a":{"/":"bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"},"b":["not a link, just a string with / in it"]}`)
	var found []string
	err := Links(bytes.NewReader(doc), func(r interface{ String() string }) {
		found = append(found, r.String())
	})
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected exactly 1 link, got %d: %v", len(found), found)
	}
}
