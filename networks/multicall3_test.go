package networks

import (
	"testing"

	"github.com/latticeeth/evmkit/valuetype"
)

func TestMulticall3AddressDefaultsWhenUnregistered(t *testing.T) {
	addr := Multicall3Address(999999)
	if !addr.Equal(DefaultMulticall3Address) {
		t.Fatalf("addr = %s, want default", addr.String())
	}
}

func TestRegisterMulticall3AddressOverride(t *testing.T) {
	custom := valuetype.MustParseAddress("0x00000000000000000000000000000000000000aa")
	RegisterMulticall3Address(31337, custom)
	got := Multicall3Address(31337)
	if !got.Equal(custom) {
		t.Fatalf("addr = %s, want %s", got.String(), custom.String())
	}
	// Unrelated chains remain on the default.
	if !Multicall3Address(1).Equal(DefaultMulticall3Address) {
		t.Fatal("expected chain 1 to remain on default")
	}
}
