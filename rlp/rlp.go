// Package rlp implements Ethereum's recursive-length-prefix serialization:
// the only encoding used for legacy transaction envelopes and for the
// keccak preimages of typed envelopes' payload bodies.
//
// Grounded on the hand-rolled encoders in other_examples'
// internal-wallet-evm_tx.go (rlpEncode/rlpEncodeList/encodeLength) and the
// decode-side list/string walk in internal-util-rlp.go; generalized here
// into a reusable Item tree instead of one-off transaction encoders.
package rlp

import (
	"fmt"
	"math/big"
)

// Item is an RLP value: either a byte string or an ordered list of Items.
// Exactly one of Bytes/List is meaningful, selected by IsList.
type Item struct {
	IsList bool
	Bytes  []byte
	List   []Item
}

// String wraps b as a byte-string Item.
func String(b []byte) Item { return Item{Bytes: b} }

// ListOf wraps items as a list Item.
func ListOf(items ...Item) Item { return Item{IsList: true, List: items} }

// Uint64 encodes n as a minimal big-endian byte string (0 encodes as the
// empty string, per RLP convention for non-negative integers).
func Uint64(n uint64) Item {
	if n == 0 {
		return Item{}
	}
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(n)
		n >>= 8
	}
	return String(trimLeadingZeros(buf[:]))
}

// BigInt encodes a non-negative big.Int as a minimal big-endian byte string.
// A nil value or zero encodes as the empty string.
func BigInt(v *big.Int) Item {
	if v == nil || v.Sign() == 0 {
		return Item{}
	}
	if v.Sign() < 0 {
		panic("rlp: BigInt of negative value")
	}
	return String(v.Bytes())
}

func trimLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == 0 {
		i++
	}
	return b[i:]
}

// Encode serializes item per the canonical RLP rules:
//
//	byte-string len 1, value < 0x80: the byte itself
//	byte-string len L<=55:           0x80+L ‖ bytes
//	byte-string len L>55:            0xb7+len(lenBytes(L)) ‖ lenBytes(L) ‖ bytes
//	list payload P<=55:              0xc0+P ‖ concat(items)
//	list payload P>55:               0xf7+len(lenBytes(P)) ‖ lenBytes(P) ‖ concat(items)
func Encode(item Item) []byte {
	if item.IsList {
		var payload []byte
		for _, child := range item.List {
			payload = append(payload, Encode(child)...)
		}
		return encodeListHeader(payload)
	}
	return encodeStringHeader(item.Bytes)
}

func encodeStringHeader(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return []byte{b[0]}
	}
	if len(b) <= 55 {
		out := make([]byte, 0, 1+len(b))
		out = append(out, byte(0x80+len(b)))
		return append(out, b...)
	}
	lenBytes := bigEndianMinimal(uint64(len(b)))
	out := make([]byte, 0, 1+len(lenBytes)+len(b))
	out = append(out, byte(0xb7+len(lenBytes)))
	out = append(out, lenBytes...)
	return append(out, b...)
}

func encodeListHeader(payload []byte) []byte {
	if len(payload) <= 55 {
		out := make([]byte, 0, 1+len(payload))
		out = append(out, byte(0xc0+len(payload)))
		return append(out, payload...)
	}
	lenBytes := bigEndianMinimal(uint64(len(payload)))
	out := make([]byte, 0, 1+len(lenBytes)+len(payload))
	out = append(out, byte(0xf7+len(lenBytes)))
	out = append(out, lenBytes...)
	return append(out, payload...)
}

func bigEndianMinimal(n uint64) []byte {
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(n)
		n >>= 8
	}
	return trimLeadingZeros(buf[:])
}

// Decode parses the single RLP item at the start of b and returns it along
// with the number of bytes consumed. It rejects non-canonical encodings:
// leading zeros in a length header, single bytes < 0x80 encoded with a
// string-prefix, and truncated payloads. Trailing bytes beyond the
// consumed item are the caller's concern (DecodeExact rejects them).
func Decode(b []byte) (Item, int, error) {
	if len(b) == 0 {
		return Item{}, 0, fmt.Errorf("rlp: empty input")
	}
	prefix := b[0]
	switch {
	case prefix < 0x80:
		return Item{Bytes: b[0:1]}, 1, nil
	case prefix <= 0xb7:
		n := int(prefix - 0x80)
		if len(b) < 1+n {
			return Item{}, 0, fmt.Errorf("rlp: truncated short string, need %d have %d", n, len(b)-1)
		}
		payload := b[1 : 1+n]
		if n == 1 && payload[0] < 0x80 {
			return Item{}, 0, fmt.Errorf("rlp: non-canonical single byte %#x encoded with string prefix", payload[0])
		}
		return Item{Bytes: payload}, 1 + n, nil
	case prefix <= 0xbf:
		lenLen := int(prefix - 0xb7)
		if len(b) < 1+lenLen {
			return Item{}, 0, fmt.Errorf("rlp: truncated long-string length header")
		}
		lenBytes := b[1 : 1+lenLen]
		if lenBytes[0] == 0 {
			return Item{}, 0, fmt.Errorf("rlp: leading zero in long-string length header")
		}
		n, err := decodeLength(lenBytes)
		if err != nil {
			return Item{}, 0, err
		}
		if n <= 55 {
			return Item{}, 0, fmt.Errorf("rlp: long-string form used for length %d <= 55", n)
		}
		start := 1 + lenLen
		if uint64(len(b)-start) < n {
			return Item{}, 0, fmt.Errorf("rlp: truncated long string, need %d have %d", n, len(b)-start)
		}
		end := start + int(n)
		return Item{Bytes: b[start:end]}, end, nil
	case prefix <= 0xf7:
		n := int(prefix - 0xc0)
		if len(b) < 1+n {
			return Item{}, 0, fmt.Errorf("rlp: truncated short list, need %d have %d", n, len(b)-1)
		}
		items, err := decodeListPayload(b[1 : 1+n])
		if err != nil {
			return Item{}, 0, err
		}
		return Item{IsList: true, List: items}, 1 + n, nil
	default:
		lenLen := int(prefix - 0xf7)
		if len(b) < 1+lenLen {
			return Item{}, 0, fmt.Errorf("rlp: truncated long-list length header")
		}
		lenBytes := b[1 : 1+lenLen]
		if lenBytes[0] == 0 {
			return Item{}, 0, fmt.Errorf("rlp: leading zero in long-list length header")
		}
		n, err := decodeLength(lenBytes)
		if err != nil {
			return Item{}, 0, err
		}
		if n <= 55 {
			return Item{}, 0, fmt.Errorf("rlp: long-list form used for length %d <= 55", n)
		}
		start := 1 + lenLen
		if uint64(len(b)-start) < n {
			return Item{}, 0, fmt.Errorf("rlp: truncated long list, need %d have %d", n, len(b)-start)
		}
		end := start + int(n)
		items, err := decodeListPayload(b[start:end])
		if err != nil {
			return Item{}, 0, err
		}
		return Item{IsList: true, List: items}, end, nil
	}
}

func decodeLength(lenBytes []byte) (uint64, error) {
	if len(lenBytes) > 8 {
		return 0, fmt.Errorf("rlp: length header too wide (%d bytes)", len(lenBytes))
	}
	var n uint64
	for _, c := range lenBytes {
		n = n<<8 | uint64(c)
	}
	return n, nil
}

func decodeListPayload(payload []byte) ([]Item, error) {
	var items []Item
	for len(payload) > 0 {
		item, n, err := Decode(payload)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		payload = payload[n:]
	}
	return items, nil
}

// DecodeExact decodes exactly one item from b and fails if any bytes remain
// unconsumed (rejects trailing garbage).
func DecodeExact(b []byte) (Item, error) {
	item, n, err := Decode(b)
	if err != nil {
		return Item{}, err
	}
	if n != len(b) {
		return Item{}, fmt.Errorf("rlp: trailing garbage: consumed %d of %d bytes", n, len(b))
	}
	return item, nil
}

// Uint64Value interprets a byte-string Item as a big-endian unsigned
// integer. It rejects leading zero bytes (non-minimal encodings) and
// widths over 8 bytes.
func (it Item) Uint64Value() (uint64, error) {
	if it.IsList {
		return 0, fmt.Errorf("rlp: expected string, got list")
	}
	if len(it.Bytes) > 0 && it.Bytes[0] == 0 {
		return 0, fmt.Errorf("rlp: non-minimal integer encoding")
	}
	if len(it.Bytes) > 8 {
		return 0, fmt.Errorf("rlp: integer too wide for uint64 (%d bytes)", len(it.Bytes))
	}
	var n uint64
	for _, c := range it.Bytes {
		n = n<<8 | uint64(c)
	}
	return n, nil
}

// BigIntValue interprets a byte-string Item as a non-negative big.Int.
func (it Item) BigIntValue() (*big.Int, error) {
	if it.IsList {
		return nil, fmt.Errorf("rlp: expected string, got list")
	}
	if len(it.Bytes) > 0 && it.Bytes[0] == 0 {
		return nil, fmt.Errorf("rlp: non-minimal integer encoding")
	}
	return new(big.Int).SetBytes(it.Bytes), nil
}
