package hexutil

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		{0xde, 0xad, 0xbe, 0xef},
		bytes.Repeat([]byte{0xff}, 64),
	}
	for _, b := range cases {
		got, err := Decode(Encode(b))
		if err != nil {
			t.Fatalf("Decode(Encode(%x)) error: %v", b, err)
		}
		if !bytes.Equal(got, b) && !(len(got) == 0 && len(b) == 0) {
			t.Fatalf("round trip mismatch: got %x want %x", got, b)
		}
	}
}

func TestDecodeCaseInsensitiveAndPrefix(t *testing.T) {
	for _, s := range []string{"0xDEADBEEF", "0xdeadbeef", "deadbeef", "0XDEADBEEF"} {
		b, err := Decode(s)
		if err != nil {
			t.Fatalf("Decode(%q): %v", s, err)
		}
		if !bytes.Equal(b, []byte{0xde, 0xad, 0xbe, 0xef}) {
			t.Fatalf("Decode(%q) = %x", s, b)
		}
	}
}

func TestDecodeOddLengthFails(t *testing.T) {
	if _, err := Decode("0xabc"); err == nil {
		t.Fatal("expected error on odd-length hex")
	}
}

func TestKeccak256Selector(t *testing.T) {
	// keccak256("transfer(address,uint256)")[0..4] == 0xa9059cbb (E1)
	h := Keccak256([]byte("transfer(address,uint256)"))
	if Encode(h[:4]) != "0xa9059cbb" {
		t.Fatalf("selector = %x, want a9059cbb", h[:4])
	}
}

func TestPoolMatchesDirect(t *testing.T) {
	p := NewPool()
	defer p.Cleanup()
	msg := []byte("hello world")
	direct := Keccak256(msg)
	pooled := p.Hash(msg)
	if direct != pooled {
		t.Fatalf("pooled hash mismatch: %x != %x", pooled, direct)
	}
}

func TestPadAndCeil(t *testing.T) {
	if got := PadLeft([]byte{1, 2}, 4); !bytes.Equal(got, []byte{0, 0, 1, 2}) {
		t.Fatalf("PadLeft = %x", got)
	}
	if got := PadRight([]byte{1, 2}, 4); !bytes.Equal(got, []byte{1, 2, 0, 0}) {
		t.Fatalf("PadRight = %x", got)
	}
	for n, want := range map[int]int{0: 0, 1: 32, 32: 32, 33: 64, 64: 64} {
		if got := Ceil32(n); got != want {
			t.Fatalf("Ceil32(%d) = %d, want %d", n, got, want)
		}
	}
}
