package abi

import (
	"fmt"
	"math/big"

	"github.com/latticeeth/evmkit/valuetype"
)

// Decode reverses Encode: it reads values out of data against schemas using
// the mirror of the two-pass head/tail layout. Every bounds check below
// surfaces as an error rather than a panic — offsets and lengths in data are
// attacker- or peer-controlled (spec.md §4.3, "decoding mirrors encoding").
func Decode(data []byte, schemas []Type) ([]Value, error) {
	return decodeList(data, schemas)
}

// decodeList is the inverse of encodeList: it walks the head region
// computing each slot's static width (or reading a dynamic offset) and
// decodes each tail at its recorded offset, relative to the start of data.
func decodeList(data []byte, schemas []Type) ([]Value, error) {
	out := make([]Value, len(schemas))
	cursor := 0
	for i, schema := range schemas {
		if schema.IsDynamic() {
			if cursor+wordSize > len(data) {
				return nil, fmt.Errorf("abi: arg %d: head truncated", i)
			}
			offset, err := readUint(data[cursor : cursor+wordSize])
			if err != nil {
				return nil, fmt.Errorf("abi: arg %d: offset: %w", i, err)
			}
			if offset > uint64(len(data)) {
				return nil, fmt.Errorf("abi: arg %d: offset %d exceeds data length %d", i, offset, len(data))
			}
			v, err := decodeValue(data[offset:], schema)
			if err != nil {
				return nil, fmt.Errorf("abi: arg %d: %w", i, err)
			}
			out[i] = v
			cursor += wordSize
		} else {
			size := schema.staticSize()
			if cursor+size > len(data) {
				return nil, fmt.Errorf("abi: arg %d: static region truncated", i)
			}
			v, err := decodeValue(data[cursor:cursor+size], schema)
			if err != nil {
				return nil, fmt.Errorf("abi: arg %d: %w", i, err)
			}
			out[i] = v
			cursor += size
		}
	}
	return out, nil
}

// decodeValue decodes one value for one schema node from a buffer whose
// start is the beginning of that value's encoding (a tail for dynamic
// schemas, the exact static-width slice for static ones).
func decodeValue(buf []byte, t Type) (Value, error) {
	switch t.Kind {
	case KindUint:
		if len(buf) < wordSize {
			return nil, fmt.Errorf("buffer too short for %s", t.Signature())
		}
		n := new(big.Int).SetBytes(buf[:wordSize])
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Width))
		if n.Cmp(limit) >= 0 {
			return nil, fmt.Errorf("decoded value out of range for %s", t.Signature())
		}
		return n, nil

	case KindInt:
		if len(buf) < wordSize {
			return nil, fmt.Errorf("buffer too short for %s", t.Signature())
		}
		n := decodeSignedInt(buf[:wordSize])
		half := new(big.Int).Lsh(big.NewInt(1), uint(t.Width-1))
		lo := new(big.Int).Neg(half)
		if n.Cmp(lo) < 0 || n.Cmp(half) >= 0 {
			return nil, fmt.Errorf("decoded value out of range for %s", t.Signature())
		}
		return n, nil

	case KindAddress:
		if len(buf) < wordSize {
			return nil, fmt.Errorf("buffer too short for address")
		}
		addr, err := valuetype.NewAddress(buf[12:32])
		if err != nil {
			return nil, fmt.Errorf("address: %w", err)
		}
		for _, b := range buf[0:12] {
			if b != 0 {
				return nil, fmt.Errorf("address: non-zero padding")
			}
		}
		return addr, nil

	case KindBool:
		if len(buf) < wordSize {
			return nil, fmt.Errorf("buffer too short for bool")
		}
		for _, b := range buf[0:31] {
			if b != 0 {
				return nil, fmt.Errorf("bool: non-zero padding")
			}
		}
		switch buf[31] {
		case 0:
			return false, nil
		case 1:
			return true, nil
		default:
			return nil, fmt.Errorf("bool: invalid byte 0x%02x", buf[31])
		}

	case KindFixedBytes:
		if len(buf) < wordSize {
			return nil, fmt.Errorf("buffer too short for %s", t.Signature())
		}
		out := make([]byte, t.Width)
		copy(out, buf[:t.Width])
		return out, nil

	case KindDynamicBytes:
		return decodeBytesTail(buf)

	case KindString:
		b, err := decodeBytesTail(buf)
		if err != nil {
			return nil, err
		}
		return string(b.([]byte)), nil

	case KindArray:
		return decodeArray(buf, t)

	case KindTuple:
		return decodeList(buf, t.Components)

	default:
		return nil, fmt.Errorf("abi: unknown type kind %d", t.Kind)
	}
}

func decodeArray(buf []byte, t Type) (Value, error) {
	if t.ArrayLen >= 0 && !t.Elem.IsDynamic() {
		elems := make([]Value, t.ArrayLen)
		size := t.Elem.staticSize()
		for i := 0; i < t.ArrayLen; i++ {
			start := i * size
			if start+size > len(buf) {
				return nil, fmt.Errorf("%s: element %d truncated", t.Signature(), i)
			}
			v, err := decodeValue(buf[start:start+size], *t.Elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			elems[i] = v
		}
		return elems, nil
	}

	if t.ArrayLen < 0 {
		if len(buf) < wordSize {
			return nil, fmt.Errorf("%s: length prefix truncated", t.Signature())
		}
		n, err := readUint(buf[:wordSize])
		if err != nil {
			return nil, fmt.Errorf("%s: length: %w", t.Signature(), err)
		}
		// Every element occupies at least one word in the tail (a full
		// static width, or one head word pointing at a further tail), so
		// n*minElemSize bounds the buffer this array could legitimately
		// decode from — reject before the allocation, not after it.
		minElemSize := uint64(wordSize)
		if !t.Elem.IsDynamic() {
			minElemSize = uint64(t.Elem.staticSize())
		}
		remaining := uint64(len(buf) - wordSize)
		if n > remaining/minElemSize {
			return nil, fmt.Errorf("%s: length %d exceeds remaining buffer (%d bytes)", t.Signature(), n, remaining)
		}
		schemas := make([]Type, n)
		for i := range schemas {
			schemas[i] = *t.Elem
		}
		return decodeList(buf[wordSize:], schemas)
	}

	// Fixed-length array with at least one dynamic element: no length
	// prefix, head/tail of the elements directly.
	schemas := make([]Type, t.ArrayLen)
	for i := range schemas {
		schemas[i] = *t.Elem
	}
	return decodeList(buf, schemas)
}

func decodeBytesTail(buf []byte) (Value, error) {
	if len(buf) < wordSize {
		return nil, fmt.Errorf("bytes: length prefix truncated")
	}
	n, err := readUint(buf[:wordSize])
	if err != nil {
		return nil, fmt.Errorf("bytes: length: %w", err)
	}
	start := wordSize
	// Compare in uint64 before narrowing to int: n can be as large as
	// 2^64-1, and start+int(n) would wrap into a negative int that then
	// passes the "end > len(buf)" check and panics the allocation below.
	remaining := uint64(len(buf) - start)
	if n > remaining {
		return nil, fmt.Errorf("bytes: payload length %d exceeds remaining buffer (%d bytes)", n, remaining)
	}
	end := start + int(n)
	out := make([]byte, n)
	copy(out, buf[start:end])
	return out, nil
}

// readUint decodes a 32-byte big-endian word as a uint64, rejecting values
// that don't fit — used for offsets and lengths, which are not expected to
// legitimately exceed the size of any real ABI blob.
func readUint(word []byte) (uint64, error) {
	n := new(big.Int).SetBytes(word)
	if !n.IsUint64() {
		return 0, fmt.Errorf("value %s does not fit in a uint64 offset/length", n)
	}
	return n.Uint64(), nil
}

func decodeSignedInt(word []byte) *big.Int {
	n := new(big.Int).SetBytes(word)
	if word[0] < 0x80 {
		return n
	}
	mod := new(big.Int).Lsh(big.NewInt(1), 256)
	return n.Sub(n, mod)
}
