// Package abi implements the Ethereum contract ABI calling convention: the
// two-pass head/tail encoder and matching decoder, function selectors, and
// revert-payload decoding.
//
// Grounded on the call sites in signers/evm/client.go (parsedABI.Pack /
// Unpack) and the selector constants in other_examples'
// internal-wallet-evm_tx.go; no pack example ships a generic head/tail
// codec (every EVM-facing repo in the pack delegates to go-ethereum's
// accounts/abi for this), so the codec itself — spec.md's hard core,
// component C5 — is hand-built here rather than imported.
package abi

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the schema variant.
type Kind int

const (
	KindUint Kind = iota
	KindInt
	KindAddress
	KindBool
	KindFixedBytes
	KindDynamicBytes
	KindString
	KindArray
	KindTuple
)

// Type is a sealed ABI schema node.
type Type struct {
	Kind Kind

	Width int // UInt/Int bit width (8..256, %8==0); FixedBytes byte width (1..32)

	Elem       *Type // Array element type
	ArrayLen   int   // Array length; -1 means dynamic
	Components []Type // Tuple components
	Names      []string // Tuple component names, parallel to Components (optional, for readability)
}

// Constructors.

func Uint(width int) Type { return Type{Kind: KindUint, Width: width} }
func Int(width int) Type  { return Type{Kind: KindInt, Width: width} }

var AddressT = Type{Kind: KindAddress}
var BoolT = Type{Kind: KindBool}

func FixedBytes(width int) Type { return Type{Kind: KindFixedBytes, Width: width} }

var DynamicBytesT = Type{Kind: KindDynamicBytes}
var StringT = Type{Kind: KindString}

func Array(elem Type, length int) Type {
	return Type{Kind: KindArray, Elem: &elem, ArrayLen: length}
}

func DynamicArray(elem Type) Type { return Array(elem, -1) }

func Tuple(components ...Type) Type {
	return Type{Kind: KindTuple, Components: components}
}

func NamedTuple(names []string, components ...Type) Type {
	return Type{Kind: KindTuple, Components: components, Names: names}
}

// Validate checks width/length constraints spec.md §3 requires of a schema
// node and its descendants.
func (t Type) Validate() error {
	switch t.Kind {
	case KindUint, KindInt:
		if t.Width < 8 || t.Width > 256 || t.Width%8 != 0 {
			return fmt.Errorf("abi: invalid integer width %d", t.Width)
		}
	case KindFixedBytes:
		if t.Width < 1 || t.Width > 32 {
			return fmt.Errorf("abi: invalid fixedBytes width %d", t.Width)
		}
	case KindArray:
		if t.Elem == nil {
			return fmt.Errorf("abi: array missing element type")
		}
		if err := t.Elem.Validate(); err != nil {
			return err
		}
		if t.ArrayLen < -1 {
			return fmt.Errorf("abi: invalid array length %d", t.ArrayLen)
		}
	case KindTuple:
		for _, c := range t.Components {
			if err := c.Validate(); err != nil {
				return err
			}
		}
	case KindAddress, KindBool, KindDynamicBytes, KindString:
		// no further constraints
	default:
		return fmt.Errorf("abi: unknown type kind %d", t.Kind)
	}
	return nil
}

// IsDynamic reports whether t requires a head-offset + tail layout.
func (t Type) IsDynamic() bool {
	switch t.Kind {
	case KindString, KindDynamicBytes:
		return true
	case KindArray:
		if t.ArrayLen < 0 {
			return true
		}
		return t.Elem.IsDynamic()
	case KindTuple:
		for _, c := range t.Components {
			if c.IsDynamic() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Signature renders the canonical type signature fragment: "uint256",
// "address[]", "(uint256,address)[3]", etc.
func (t Type) Signature() string {
	switch t.Kind {
	case KindUint:
		return "uint" + strconv.Itoa(t.Width)
	case KindInt:
		return "int" + strconv.Itoa(t.Width)
	case KindAddress:
		return "address"
	case KindBool:
		return "bool"
	case KindFixedBytes:
		return "bytes" + strconv.Itoa(t.Width)
	case KindDynamicBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindArray:
		if t.ArrayLen < 0 {
			return t.Elem.Signature() + "[]"
		}
		return t.Elem.Signature() + "[" + strconv.Itoa(t.ArrayLen) + "]"
	case KindTuple:
		parts := make([]string, len(t.Components))
		for i, c := range t.Components {
			parts[i] = c.Signature()
		}
		return "(" + strings.Join(parts, ",") + ")"
	default:
		return "?"
	}
}

// staticSize returns the byte width t occupies inline in a head region.
// Only meaningful for static (non-dynamic) types.
func (t Type) staticSize() int {
	switch t.Kind {
	case KindArray:
		return t.ArrayLen * t.Elem.staticSize()
	case KindTuple:
		size := 0
		for _, c := range t.Components {
			size += c.staticSize()
		}
		return size
	default:
		return wordSize
	}
}

// FunctionSignature renders "name(type1,type2,...)".
func FunctionSignature(name string, inputs []Type) string {
	parts := make([]string, len(inputs))
	for i, in := range inputs {
		parts[i] = in.Signature()
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}
