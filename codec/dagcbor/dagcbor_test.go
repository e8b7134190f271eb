package dagcbor

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/go-ipld/ipld-core/datamodel"
)

func encodeToBytes(t *testing.T, n datamodel.Node) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(n, &buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return buf.Bytes()
}

func TestIntegerZeroEncodesToSingleByte(t *testing.T) {
	got := encodeToBytes(t, datamodel.NewInt(0))
	want := []byte{0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x want % x", got, want)
	}
}

func TestNonMinimalIntegerRejected(t *testing.T) {
	// value 0 encoded as the 2-byte form (0x18 0x00) must be rejected.
	_, err := DecodeBytes([]byte{0x18, 0x00})
	if err == nil {
		t.Fatalf("expected NotCanonical error")
	}
	if datamodel.ErrorKind(err) != "NotCanonical" {
		t.Fatalf("got error kind %q, want NotCanonical: %v", datamodel.ErrorKind(err), err)
	}
}

func TestCanonicalMapOrder(t *testing.T) {
	b := datamodel.NewMapBuilder()
	_ = b.Insert("a", datamodel.NewInt(1))
	_ = b.Insert("b", datamodel.NewInt(2))
	n := datamodel.NewMap(b.Build())

	got := encodeToBytes(t, n)
	want, _ := hex.DecodeString("a2616101616202")
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x want % x", got, want)
	}
}

func TestSwappedMapKeysRejectedOnDecode(t *testing.T) {
	swapped, _ := hex.DecodeString("a2616202616101")
	_, err := DecodeBytes(swapped)
	if err == nil {
		t.Fatalf("expected decode failure for out-of-order keys")
	}
	if datamodel.ErrorKind(err) != "NotCanonical" {
		t.Fatalf("got %q", datamodel.ErrorKind(err))
	}
}

func TestDuplicateMapKeyRejected(t *testing.T) {
	// {"a":1,"a":2}
	dup, _ := hex.DecodeString("a2616101616102")
	_, err := DecodeBytes(dup)
	if err == nil {
		t.Fatalf("expected duplicate key failure")
	}
	if datamodel.ErrorKind(err) != "DuplicateKey" && datamodel.ErrorKind(err) != "NotCanonical" {
		t.Fatalf("got %q", datamodel.ErrorKind(err))
	}
}

func TestRoundTripScalars(t *testing.T) {
	values := []datamodel.Node{
		datamodel.Null,
		datamodel.NewBool(true),
		datamodel.NewBool(false),
		datamodel.NewInt(-1),
		datamodel.NewInt(1000),
		datamodel.NewUint(^uint64(0)),
		datamodel.NewFloat(3.5),
		datamodel.NewString("hello"),
		datamodel.NewBytes([]byte{1, 2, 3}),
	}
	for _, v := range values {
		enc := encodeToBytes(t, v)
		dec, err := DecodeBytes(enc)
		if err != nil {
			t.Fatalf("decode %v: %v", v, err)
		}
		if !datamodel.Equal(v, dec) {
			t.Fatalf("round trip mismatch for kind %s", v.Kind())
		}
		// canonical idempotence: re-encoding the decoded value reproduces
		// the same bytes.
		reenc := encodeToBytes(t, dec)
		if !bytes.Equal(enc, reenc) {
			t.Fatalf("re-encoding not idempotent for kind %s", v.Kind())
		}
	}
}

func TestTagOtherThan42Rejected(t *testing.T) {
	// tag 1 (0xc1) over an integer 0 (0x00)
	raw := []byte{0xc1, 0x00}
	_, err := DecodeBytes(raw)
	if err == nil || datamodel.ErrorKind(err) != "UnsupportedTag" {
		t.Fatalf("expected UnsupportedTag, got %v", err)
	}
}

func TestLinkWithBadPrefixByteRejected(t *testing.T) {
	// tag 42, byte string of length 1, payload byte 0x01 (not the required 0x00)
	raw := []byte{0xd8, 0x2a, 0x41, 0x01}
	_, err := DecodeBytes(raw)
	if err == nil || datamodel.ErrorKind(err) != "InvalidCid" {
		t.Fatalf("expected InvalidCid, got %v", err)
	}
}

func TestTrailingBytesRejected(t *testing.T) {
	_, err := DecodeBytes([]byte{0x00, 0x00})
	if err == nil || datamodel.ErrorKind(err) != "TrailingBytes" {
		t.Fatalf("expected TrailingBytes, got %v", err)
	}
}

func TestLengthMismatchDoesNotAllocateDeclaredSize(t *testing.T) {
	// byte string major type 2, length declared as 2^32 (8-byte argument),
	// but only 10 bytes remain in the input.
	raw := append([]byte{0x5b, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}, make([]byte, 10)...)
	_, err := DecodeBytes(raw)
	if err == nil || datamodel.ErrorKind(err) != "LengthMismatch" {
		t.Fatalf("expected LengthMismatch, got %v", err)
	}
}

func TestIndefiniteLengthRejected(t *testing.T) {
	raw := []byte{0x5f, 0xff} // indefinite-length byte string, break
	_, err := DecodeBytes(raw)
	if err == nil {
		t.Fatalf("expected failure on indefinite-length item")
	}
}

func TestHalfAndSingleFloatRejected(t *testing.T) {
	half := []byte{0xf9, 0x00, 0x00}
	if _, err := DecodeBytes(half); err == nil {
		t.Fatalf("expected half-float to be rejected")
	}
	single := []byte{0xfa, 0x00, 0x00, 0x00, 0x00}
	if _, err := DecodeBytes(single); err == nil {
		t.Fatalf("expected single-float to be rejected")
	}
}

func TestNaNAndInfRejected(t *testing.T) {
	nan := []byte{0xfb, 0x7f, 0xf8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if _, err := DecodeBytes(nan); err == nil || datamodel.ErrorKind(err) != "FloatNotFinite" {
		t.Fatalf("expected FloatNotFinite, got %v", err)
	}
}

func TestDepthExceeded(t *testing.T) {
	// A deeply nested list: arg=1 array containing another array, N times,
	// terminated by an integer 0.
	var raw []byte
	const n = 100
	for i := 0; i < n; i++ {
		raw = append(raw, 0x81) // array of length 1
	}
	raw = append(raw, 0x00)
	_, err := DecodeBytesWithDepth(raw, 10)
	if err == nil || datamodel.ErrorKind(err) != "DepthExceeded" {
		t.Fatalf("expected DepthExceeded, got %v", err)
	}
}
