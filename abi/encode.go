package abi

import (
	"fmt"
	"math/big"

	"github.com/latticeeth/evmkit/hexutil"
	"github.com/latticeeth/evmkit/valuetype"
)

// Value is the encoder/decoder's in-memory representation for a schema
// node:
//
//	UInt/Int      -> *big.Int
//	Address       -> valuetype.Address
//	Bool          -> bool
//	FixedBytes(k) -> []byte of length k
//	DynamicBytes  -> []byte
//	String        -> string
//	Array/Tuple   -> []Value, length matching ArrayLen/len(Components)
type Value interface{}

const wordSize = 32

// Encode lays out values against schemas using the two-pass head/tail
// algorithm of spec.md §4.3: a first pass sizes the head (32 bytes per
// dynamic or scalar slot, the full inline width for a static tuple or
// fixed-length array; see encodeList) and computes each dynamic tail's
// offset, a second pass writes heads and tails into one contiguous buffer.
func Encode(values []Value, schemas []Type) ([]byte, error) {
	if len(values) != len(schemas) {
		return nil, fmt.Errorf("abi: %d values for %d schemas", len(values), len(schemas))
	}
	return encodeList(values, schemas)
}

// encodeList implements the two-pass algorithm for one ordered list of
// (value, schema) pairs — used both for top-level argument lists and for
// the element lists of dynamic arrays/tuples.
//
// A top-level slot's head is 32 bytes only when it is dynamic (an offset
// placeholder) or a static scalar; a static tuple/fixed-array of static
// elements contributes its full static width inline, so the head region's
// total size is not always 32*N for N top-level values — it is the sum of
// each slot's static width (32 for scalars, wider for nested static
// aggregates) plus 32 per dynamic slot.
func encodeList(values []Value, schemas []Type) ([]byte, error) {
	n := len(schemas)
	heads := make([][]byte, n)
	tails := make([][]byte, n)
	dynamic := make([]bool, n)

	// Pass 1: encode static heads directly; leave dynamic heads as nil
	// placeholders and encode their tails so we know each tail's length.
	for i, schema := range schemas {
		dynamic[i] = schema.IsDynamic()
		if dynamic[i] {
			tail, err := encodeValue(values[i], schema)
			if err != nil {
				return nil, fmt.Errorf("abi: arg %d: %w", i, err)
			}
			tails[i] = tail
		} else {
			head, err := encodeValue(values[i], schema)
			if err != nil {
				return nil, fmt.Errorf("abi: arg %d: %w", i, err)
			}
			heads[i] = head
		}
	}

	headSize := 0
	for i := range schemas {
		if dynamic[i] {
			headSize += wordSize
		} else {
			headSize += len(heads[i])
		}
	}

	offset := headSize
	for i := range schemas {
		if dynamic[i] {
			heads[i] = encodeUint(big.NewInt(int64(offset)), 256)
			offset += len(tails[i])
		}
	}

	// Pass 2: concatenate.
	out := make([]byte, 0, offset)
	for _, h := range heads {
		out = append(out, h...)
	}
	for _, t := range tails {
		out = append(out, t...)
	}
	return out, nil
}

// encodeValue encodes one value for one schema node, returning either a
// static 32-byte-multiple head (for static schemas) or a full tail
// (length-prefixed for bytes, string and dynamic-length arrays; a pure
// head/tail block without length prefix for fixed-length arrays and tuples).
func encodeValue(v Value, t Type) ([]byte, error) {
	switch t.Kind {
	case KindUint:
		n, ok := v.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("expected *big.Int for %s, got %T", t.Signature(), v)
		}
		if n.Sign() < 0 {
			return nil, fmt.Errorf("negative value for unsigned type %s", t.Signature())
		}
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Width))
		if n.Cmp(limit) >= 0 {
			return nil, fmt.Errorf("value %s out of range for %s", n, t.Signature())
		}
		return encodeUint(n, 256), nil

	case KindInt:
		n, ok := v.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("expected *big.Int for %s, got %T", t.Signature(), v)
		}
		half := new(big.Int).Lsh(big.NewInt(1), uint(t.Width-1))
		lo := new(big.Int).Neg(half)
		hi := half // exclusive upper bound
		if n.Cmp(lo) < 0 || n.Cmp(hi) >= 0 {
			return nil, fmt.Errorf("value %s out of range for %s", n, t.Signature())
		}
		return encodeSignedInt(n), nil

	case KindAddress:
		a, ok := v.(valuetype.Address)
		if !ok {
			return nil, fmt.Errorf("expected valuetype.Address, got %T", v)
		}
		return hexutil.PadLeft(a.Bytes(), 32), nil

	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		out := make([]byte, 32)
		if b {
			out[31] = 1
		}
		return out, nil

	case KindFixedBytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("expected []byte for %s, got %T", t.Signature(), v)
		}
		if len(b) != t.Width {
			return nil, fmt.Errorf("%s expects %d bytes, got %d", t.Signature(), t.Width, len(b))
		}
		return hexutil.PadRight(b, 32), nil

	case KindDynamicBytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("expected []byte for bytes, got %T", v)
		}
		return encodeBytesTail(b), nil

	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return encodeBytesTail([]byte(s)), nil

	case KindArray:
		elems, ok := v.([]Value)
		if !ok {
			return nil, fmt.Errorf("expected []Value for %s, got %T", t.Signature(), v)
		}
		return encodeArray(elems, t)

	case KindTuple:
		elems, ok := v.([]Value)
		if !ok {
			return nil, fmt.Errorf("expected []Value for tuple, got %T", v)
		}
		if len(elems) != len(t.Components) {
			return nil, fmt.Errorf("tuple expects %d components, got %d", len(t.Components), len(elems))
		}
		return encodeList(elems, t.Components)

	default:
		return nil, fmt.Errorf("abi: unknown type kind %d", t.Kind)
	}
}

func encodeArray(elems []Value, t Type) ([]byte, error) {
	if t.ArrayLen >= 0 && len(elems) != t.ArrayLen {
		return nil, fmt.Errorf("%s expects %d elements, got %d", t.Signature(), t.ArrayLen, len(elems))
	}
	schemas := make([]Type, len(elems))
	for i := range schemas {
		schemas[i] = *t.Elem
	}
	if t.ArrayLen >= 0 && !t.Elem.IsDynamic() {
		// Fixed-length array of static elements: concatenated static
		// encodings, no length prefix, whole thing static.
		var out []byte
		for i, e := range elems {
			enc, err := encodeValue(e, *t.Elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, enc...)
		}
		return out, nil
	}
	body, err := encodeList(elems, schemas)
	if err != nil {
		return nil, err
	}
	if t.ArrayLen < 0 {
		// Dynamic-length array: length prefix, then head/tail of elements.
		out := encodeUint(big.NewInt(int64(len(elems))), 256)
		return append(out, body...), nil
	}
	// Fixed-length array of (at least one) dynamic element: no length
	// prefix, just head/tail of the elements, per spec.md §4.3.
	return body, nil
}

func encodeBytesTail(b []byte) []byte {
	out := encodeUint(big.NewInt(int64(len(b))), 256)
	padded := hexutil.PadRight(b, hexutil.Ceil32(len(b)))
	return append(out, padded...)
}

func encodeUint(n *big.Int, bits int) []byte {
	_ = bits
	return hexutil.PadLeft(n.Bytes(), 32)
}

// encodeSignedInt two's-complement encodes a signed value into 32 bytes,
// sign-extending negative values with 0xFF.
func encodeSignedInt(n *big.Int) []byte {
	if n.Sign() >= 0 {
		return hexutil.PadLeft(n.Bytes(), 32)
	}
	// Two's complement: (2^256 + n).
	mod := new(big.Int).Lsh(big.NewInt(1), 256)
	twos := new(big.Int).Add(mod, n)
	out := make([]byte, 32)
	twos.FillBytes(out)
	return out
}
