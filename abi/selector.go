package abi

import "github.com/latticeeth/evmkit/hexutil"

// Selector is the first 4 bytes of keccak256(FunctionSignature(...)).
type Selector [4]byte

// Bytes returns the selector as a 4-byte slice.
func (s Selector) Bytes() []byte { return s[:] }

// String renders the selector as 0x-prefixed hex.
func (s Selector) String() string { return hexutil.Encode(s[:]) }

// FunctionSelector computes the 4-byte selector for name(inputs...).
func FunctionSelector(name string, inputs []Type) Selector {
	sig := FunctionSignature(name, inputs)
	digest := hexutil.Keccak256([]byte(sig))
	var sel Selector
	copy(sel[:], digest[0:4])
	return sel
}

// Calldata assembles selector || Encode(args, schemas).
func Calldata(name string, inputs []Type, args []Value) ([]byte, error) {
	encoded, err := Encode(args, inputs)
	if err != nil {
		return nil, err
	}
	sel := FunctionSelector(name, inputs)
	out := make([]byte, 0, 4+len(encoded))
	out = append(out, sel[:]...)
	out = append(out, encoded...)
	return out, nil
}
