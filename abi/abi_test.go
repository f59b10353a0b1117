package abi

import (
	"math/big"
	"testing"

	"github.com/latticeeth/evmkit/hexutil"
	"github.com/latticeeth/evmkit/valuetype"
)

func TestTransferSelectorAndCalldata(t *testing.T) {
	// spec.md §8, E1: keccak256("transfer(address,uint256)")[0:4] == 0xa9059cbb.
	inputs := []Type{AddressT, Uint(256)}
	sel := FunctionSelector("transfer", inputs)
	if sel.String() != "0xa9059cbb" {
		t.Fatalf("selector = %s, want 0xa9059cbb", sel.String())
	}

	to := valuetype.MustParseAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	amount := big.NewInt(1_000_000)
	calldata, err := Calldata("transfer", inputs, []Value{to, amount})
	if err != nil {
		t.Fatal(err)
	}
	if len(calldata) != 4+64 {
		t.Fatalf("calldata length = %d, want %d", len(calldata), 4+64)
	}
	if hexutil.Encode(calldata[0:4]) != "0xa9059cbb" {
		t.Fatalf("calldata selector = %s", hexutil.Encode(calldata[0:4]))
	}

	decoded, err := Decode(calldata[4:], inputs)
	if err != nil {
		t.Fatal(err)
	}
	gotAddr, ok := decoded[0].(valuetype.Address)
	if !ok || !gotAddr.Equal(to) {
		t.Fatalf("decoded address = %v, want %v", decoded[0], to)
	}
	gotAmount, ok := decoded[1].(*big.Int)
	if !ok || gotAmount.Cmp(amount) != 0 {
		t.Fatalf("decoded amount = %v, want %v", decoded[1], amount)
	}
}

func TestRoundTripScalarList(t *testing.T) {
	schemas := []Type{Uint(256), BoolT, StringT, DynamicArray(Uint(8))}
	values := []Value{
		big.NewInt(42),
		true,
		"hello, evm",
		[]Value{big.NewInt(1), big.NewInt(2), big.NewInt(3)},
	}
	encoded, err := Encode(values, schemas)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(encoded, schemas)
	if err != nil {
		t.Fatal(err)
	}
	if decoded[0].(*big.Int).Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("uint round trip failed: %v", decoded[0])
	}
	if decoded[1].(bool) != true {
		t.Fatalf("bool round trip failed: %v", decoded[1])
	}
	if decoded[2].(string) != "hello, evm" {
		t.Fatalf("string round trip failed: %v", decoded[2])
	}
	arr := decoded[3].([]Value)
	if len(arr) != 3 || arr[1].(*big.Int).Cmp(big.NewInt(2)) != 0 {
		t.Fatalf("dynamic array round trip failed: %v", arr)
	}
}

func TestRoundTripStaticTuple(t *testing.T) {
	tupleSchema := Tuple(Uint(256), AddressT)
	schemas := []Type{tupleSchema, Uint(256)}
	addr := valuetype.MustParseAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	values := []Value{
		[]Value{big.NewInt(7), addr},
		big.NewInt(99),
	}
	encoded, err := Encode(values, schemas)
	if err != nil {
		t.Fatal(err)
	}
	// A static tuple's head is inline (64 bytes), not a 32-byte offset: the
	// second slot's head must start at byte 64, i.e. the whole buffer is
	// exactly 3 words with no dynamic region.
	if len(encoded) != 3*32 {
		t.Fatalf("encoded length = %d, want %d (no dynamic tail expected)", len(encoded), 3*32)
	}
	decoded, err := Decode(encoded, schemas)
	if err != nil {
		t.Fatal(err)
	}
	tup := decoded[0].([]Value)
	if tup[0].(*big.Int).Cmp(big.NewInt(7)) != 0 || !tup[1].(valuetype.Address).Equal(addr) {
		t.Fatalf("tuple round trip failed: %v", tup)
	}
}

func TestRoundTripDynamicTuple(t *testing.T) {
	tupleSchema := Tuple(StringT, Uint(256))
	schemas := []Type{tupleSchema}
	values := []Value{
		[]Value{"dynamic-in-tuple", big.NewInt(5)},
	}
	encoded, err := Encode(values, schemas)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(encoded, schemas)
	if err != nil {
		t.Fatal(err)
	}
	tup := decoded[0].([]Value)
	if tup[0].(string) != "dynamic-in-tuple" {
		t.Fatalf("tuple string round trip failed: %v", tup)
	}
}

func TestFixedArrayOfDynamicElements(t *testing.T) {
	schema := Array(StringT, 2)
	values := []Value{"one", "two"}
	encoded, err := Encode([]Value{values}, []Type{schema})
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(encoded, []Type{schema})
	if err != nil {
		t.Fatal(err)
	}
	arr := decoded[0].([]Value)
	if arr[0].(string) != "one" || arr[1].(string) != "two" {
		t.Fatalf("fixed dynamic-element array round trip failed: %v", arr)
	}
}

func TestUintOverflowRejected(t *testing.T) {
	// spec.md §8 property 9: uint8(256) must be rejected.
	_, err := Encode([]Value{big.NewInt(256)}, []Type{Uint(8)})
	if err == nil {
		t.Fatal("expected uint8(256) to be rejected")
	}
}

func TestMaxUint256Accepted(t *testing.T) {
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	encoded, err := Encode([]Value{max}, []Type{Uint(256)})
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(encoded, []Type{Uint(256)})
	if err != nil {
		t.Fatal(err)
	}
	if decoded[0].(*big.Int).Cmp(max) != 0 {
		t.Fatalf("max uint256 round trip failed: %v", decoded[0])
	}
}

func TestInt256MinusOneRoundTrip(t *testing.T) {
	minusOne := big.NewInt(-1)
	encoded, err := Encode([]Value{minusOne}, []Type{Int(256)})
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range encoded {
		if b != 0xff {
			t.Fatalf("int256(-1) encoding = %x, want all 0xff", encoded)
		}
	}
	decoded, err := Decode(encoded, []Type{Int(256)})
	if err != nil {
		t.Fatal(err)
	}
	if decoded[0].(*big.Int).Cmp(minusOne) != 0 {
		t.Fatalf("int256(-1) round trip failed: %v", decoded[0])
	}
}

func TestDecodeRejectsOutOfBoundsOffset(t *testing.T) {
	// A single dynamic-head word pointing past the end of the buffer.
	bad := hexutil.PadLeft(big.NewInt(1024).Bytes(), 32)
	_, err := Decode(bad, []Type{StringT})
	if err == nil {
		t.Fatal("expected out-of-bounds offset to be rejected")
	}
}

func TestDecodeRejectsTruncatedLengthPrefix(t *testing.T) {
	schemas := []Type{DynamicBytesT}
	// Offset points at a length prefix claiming far more payload than exists.
	offset := hexutil.PadLeft(big.NewInt(32).Bytes(), 32)
	length := hexutil.PadLeft(big.NewInt(1_000_000).Bytes(), 32)
	buf := append(append([]byte{}, offset...), length...)
	_, err := Decode(buf, schemas)
	if err == nil {
		t.Fatal("expected oversized length prefix to be rejected")
	}
}

func TestRevertErrorString(t *testing.T) {
	// spec.md §8, E3: Error(string) selector 0x08c379a0.
	inputs := []Type{StringT}
	payload, err := Calldata("Error", inputs, []Value{"insufficient balance"})
	if err != nil {
		t.Fatal(err)
	}
	r := DecodeRevert(payload)
	if r.Kind != RevertError {
		t.Fatalf("kind = %v, want RevertError", r.Kind)
	}
	if r.Reason != "insufficient balance" {
		t.Fatalf("reason = %q", r.Reason)
	}
}

func TestRevertPanicCode(t *testing.T) {
	// spec.md §8, E3: Panic(uint256) selector 0x4e487b71, code 0x11 overflow.
	inputs := []Type{Uint(256)}
	payload, err := Calldata("Panic", inputs, []Value{big.NewInt(0x11)})
	if err != nil {
		t.Fatal(err)
	}
	r := DecodeRevert(payload)
	if r.Kind != RevertPanic {
		t.Fatalf("kind = %v, want RevertPanic", r.Kind)
	}
	if r.PanicCode != 0x11 {
		t.Fatalf("code = %#x, want 0x11", r.PanicCode)
	}
	if r.PanicReason == "" {
		t.Fatal("expected non-empty panic reason")
	}
}

func TestRevertCustomAndUnknown(t *testing.T) {
	custom := []byte{0xde, 0xad, 0xbe, 0xef, 0x01, 0x02}
	r := DecodeRevert(custom)
	if r.Kind != RevertCustom {
		t.Fatalf("kind = %v, want RevertCustom", r.Kind)
	}

	empty := DecodeRevert(nil)
	if empty.Kind != RevertUnknown {
		t.Fatalf("kind = %v, want RevertUnknown", empty.Kind)
	}
}

func TestSignatureRendering(t *testing.T) {
	sig := FunctionSignature("transfer", []Type{AddressT, Uint(256)})
	if sig != "transfer(address,uint256)" {
		t.Fatalf("signature = %s", sig)
	}
	nested := Tuple(Uint(256), AddressT)
	arr := Array(nested, 3)
	if arr.Signature() != "(uint256,address)[3]" {
		t.Fatalf("nested signature = %s", arr.Signature())
	}
}
