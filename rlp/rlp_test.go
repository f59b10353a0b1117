package rlp

import (
	"bytes"
	"math/big"
	"testing"
)

func TestEmptyStringAndList(t *testing.T) {
	if got := Encode(String(nil)); !bytes.Equal(got, []byte{0x80}) {
		t.Fatalf("empty string = %x, want 80", got)
	}
	if got := Encode(ListOf()); !bytes.Equal(got, []byte{0xc0}) {
		t.Fatalf("empty list = %x, want c0", got)
	}
	if got := Encode(String([]byte{0x00})); !bytes.Equal(got, []byte{0x00}) {
		t.Fatalf("single zero byte = %x, want 00", got)
	}
}

func TestShortAndLongString(t *testing.T) {
	// "dog" -> 0x83 'd' 'o' 'g'
	got := Encode(String([]byte("dog")))
	want := append([]byte{0x83}, "dog"...)
	if !bytes.Equal(got, want) {
		t.Fatalf("dog = %x, want %x", got, want)
	}

	long := bytes.Repeat([]byte{0x41}, 56)
	got = Encode(String(long))
	if got[0] != 0xb8 || got[1] != 56 {
		t.Fatalf("long string header = %x", got[:2])
	}
}

func TestRoundTripVariousItems(t *testing.T) {
	items := []Item{
		String(nil),
		String([]byte{0x00}),
		String([]byte("dog")),
		String(bytes.Repeat([]byte{0x01}, 60)),
		ListOf(String([]byte("cat")), String([]byte("dog"))),
		ListOf(ListOf(), ListOf(ListOf())),
		Uint64(0),
		Uint64(1),
		Uint64(0xFFFFFFFFFFFFFFFF),
		BigInt(big.NewInt(1_000_000_000)),
	}
	for _, it := range items {
		enc := Encode(it)
		dec, err := DecodeExact(enc)
		if err != nil {
			t.Fatalf("DecodeExact(%x): %v", enc, err)
		}
		if !itemsEqual(it, dec) {
			t.Fatalf("round trip mismatch: %+v != %+v", it, dec)
		}
	}
}

func itemsEqual(a, b Item) bool {
	if a.IsList != b.IsList {
		return false
	}
	if !a.IsList {
		return bytes.Equal(normalize(a.Bytes), normalize(b.Bytes))
	}
	if len(a.List) != len(b.List) {
		return false
	}
	for i := range a.List {
		if !itemsEqual(a.List[i], b.List[i]) {
			return false
		}
	}
	return true
}

func normalize(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

func TestRejectsNonCanonicalSingleByte(t *testing.T) {
	// 0x00 encoded as 0x8100 (string-prefix around a byte < 0x80) must be rejected.
	if _, err := DecodeExact([]byte{0x81, 0x00}); err == nil {
		t.Fatal("expected rejection of non-canonical single-byte string encoding")
	}
}

func TestRejectsLeadingZeroLengthHeader(t *testing.T) {
	// long-string form with a length header that itself has a leading zero byte.
	payload := bytes.Repeat([]byte{0x41}, 56)
	encoded := append([]byte{0xb8 + 1, 0x00, 56}, payload...)
	if _, err := DecodeExact(encoded); err == nil {
		t.Fatal("expected rejection of leading-zero length header")
	}
}

func TestRejectsTrailingGarbage(t *testing.T) {
	enc := Encode(String([]byte("dog")))
	enc = append(enc, 0xFF)
	if _, err := DecodeExact(enc); err == nil {
		t.Fatal("expected rejection of trailing garbage")
	}
}

func TestUint64ValueRejectsNonMinimal(t *testing.T) {
	it := Item{Bytes: []byte{0x00, 0x01}}
	if _, err := it.Uint64Value(); err == nil {
		t.Fatal("expected rejection of non-minimal integer encoding")
	}
}
