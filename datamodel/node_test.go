package datamodel

import (
	"testing"

	"github.com/ipfs/go-cid"
)

func TestIntRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 1<<62 - 1, -(1 << 62)} {
		n := NewInt(v)
		got, err := n.AsInt()
		if err != nil {
			t.Fatalf("AsInt(%d): %v", v, err)
		}
		if got != v {
			t.Fatalf("round trip %d -> %d", v, got)
		}
	}
}

func TestUintTopOfRange(t *testing.T) {
	const max = ^uint64(0)
	n := NewUint(max)
	got, err := n.AsUint()
	if err != nil {
		t.Fatalf("AsUint: %v", err)
	}
	if got != max {
		t.Fatalf("got %d want %d", got, max)
	}
	if _, err := n.AsInt(); err == nil {
		t.Fatalf("expected AsInt to fail for a value above int64 range")
	}
	big, err := n.AsBigInt()
	if err != nil {
		t.Fatalf("AsBigInt: %v", err)
	}
	if big.String() != "18446744073709551615" {
		t.Fatalf("got %s", big.String())
	}
}

func TestWrongKind(t *testing.T) {
	n := NewBool(true)
	if _, err := n.AsString(); err == nil {
		t.Fatalf("expected ErrWrongKind")
	} else if _, ok := err.(ErrWrongKind); !ok {
		t.Fatalf("expected ErrWrongKind, got %T", err)
	}
}

func TestMapBuilderRejectsDuplicates(t *testing.T) {
	b := NewMapBuilder()
	if err := b.Insert("a", NewInt(1)); err != nil {
		t.Fatal(err)
	}
	if err := b.Insert("a", NewInt(2)); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}

func TestMapIterationOrder(t *testing.T) {
	b := NewMapBuilder()
	for _, k := range []string{"z", "a", "m"} {
		_ = b.Insert(k, NewString(k))
	}
	m := b.Build()
	var got []string
	for it := m.Iterator(); !it.Done(); {
		k, _ := it.Next()
		got = append(got, k)
	}
	want := []string{"z", "a", "m"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestEqualIgnoresMapOrder(t *testing.T) {
	b1 := NewMapBuilder()
	_ = b1.Insert("a", NewInt(1))
	_ = b1.Insert("b", NewInt(2))
	b2 := NewMapBuilder()
	_ = b2.Insert("b", NewInt(2))
	_ = b2.Insert("a", NewInt(1))
	if !Equal(NewMap(b1.Build()), NewMap(b2.Build())) {
		t.Fatalf("expected maps with same entries in different order to be equal")
	}
}

func TestLinkEquality(t *testing.T) {
	c, err := cid.Decode("bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi")
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(NewLink(c), NewLink(c)) {
		t.Fatalf("expected link to equal itself")
	}
}
