package cryptocore

import (
	"testing"

	"github.com/latticeeth/evmkit/hexutil"
)

func TestSignAndRecoverRoundTrip(t *testing.T) {
	raw := hexutil.MustDecode("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	pk, err := NewPrivateKeyFromBytes(raw)
	if err != nil {
		t.Fatal(err)
	}
	addr, err := pk.Address()
	if err != nil {
		t.Fatal(err)
	}
	// Well-known Hardhat/Anvil account 0 (E5 in spec.md §8).
	want := "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"
	if addr.String() != want {
		t.Fatalf("address = %s, want %s", addr.String(), want)
	}

	digest := hexutil.Keccak256([]byte("hello"))
	sig, err := pk.Sign(digest)
	if err != nil {
		t.Fatal(err)
	}
	if !sig.IsLowS() {
		t.Fatal("signature is not low-S")
	}
	recovered, err := Recover(digest, sig)
	if err != nil {
		t.Fatal(err)
	}
	if !recovered.Equal(addr) {
		t.Fatalf("recovered address %s != signer address %s", recovered, addr)
	}
}

func TestDestroyInvalidatesKey(t *testing.T) {
	raw := make([]byte, 32)
	raw[31] = 1
	pk, err := NewPrivateKeyFromBytes(raw)
	if err != nil {
		t.Fatal(err)
	}
	pk.Destroy()
	if _, err := pk.Address(); err != ErrInvalidated {
		t.Fatalf("expected ErrInvalidated, got %v", err)
	}
	pk.Destroy() // idempotent
}

func TestEIP155VOverflowRejected(t *testing.T) {
	sig := Signature{RecoveryID: 0}
	const hugeChainID = ^uint64(0)
	if _, err := sig.EIP155V(hugeChainID); err == nil {
		t.Fatal("expected overflow rejection for huge chain id")
	}
	// 2^31-1 must work fine (spec.md §8 property 11).
	if _, err := sig.EIP155V((1 << 31) - 1); err != nil {
		t.Fatalf("unexpected error for chain id 2^31-1: %v", err)
	}
}
