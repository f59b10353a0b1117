package abi

import (
	"fmt"
	"math/big"
)

// RevertKind discriminates the shape of a decoded revert payload.
type RevertKind int

const (
	RevertUnknown RevertKind = iota
	RevertError              // Error(string), selector 0x08c379a0
	RevertPanic              // Panic(uint256), selector 0x4e487b71
	RevertCustom             // any other selector, or a selector abi doesn't recognize
)

var (
	errorSelector = Selector{0x08, 0xc3, 0x79, 0xa0}
	panicSelector = Selector{0x4e, 0x48, 0x7b, 0x71}
)

var panicReasons = map[uint64]string{
	0x01: "assertion failed",
	0x11: "arithmetic overflow or underflow",
	0x12: "division or modulo by zero",
	0x21: "invalid enum value",
	0x22: "invalid storage byte array access",
	0x31: "pop on empty array",
	0x32: "array index out of bounds",
	0x41: "out of memory / too large allocation",
	0x51: "call to uninitialized internal function pointer",
}

// Revert is a decoded contract revert payload (spec.md §4.6, §8 property
// E3).
type Revert struct {
	Kind RevertKind

	// Reason holds the Error(string) reason string when Kind == RevertError.
	Reason string

	// PanicCode and PanicReason are set when Kind == RevertPanic.
	PanicCode   uint64
	PanicReason string

	// Raw holds the full revert payload, always populated.
	Raw []byte
}

// DecodeRevert interprets a raw contract revert payload (as returned by
// eth_call or a failed transaction's return data).
func DecodeRevert(payload []byte) Revert {
	r := Revert{Raw: payload}
	if len(payload) == 0 {
		r.Kind = RevertUnknown
		return r
	}
	if len(payload) < 4 {
		r.Kind = RevertCustom
		return r
	}
	var sel Selector
	copy(sel[:], payload[0:4])

	switch sel {
	case errorSelector:
		values, err := Decode(payload[4:], []Type{StringT})
		if err != nil {
			r.Kind = RevertCustom
			return r
		}
		r.Kind = RevertError
		r.Reason, _ = values[0].(string)
		return r

	case panicSelector:
		values, err := Decode(payload[4:], []Type{Uint(256)})
		if err != nil {
			r.Kind = RevertCustom
			return r
		}
		n, _ := values[0].(*big.Int)
		if n == nil || !n.IsUint64() {
			r.Kind = RevertCustom
			return r
		}
		r.Kind = RevertPanic
		r.PanicCode = n.Uint64()
		r.PanicReason = panicReason(r.PanicCode)
		return r

	default:
		r.Kind = RevertCustom
		return r
	}
}

func panicReason(code uint64) string {
	if reason, ok := panicReasons[code]; ok {
		return reason
	}
	return fmt.Sprintf("unknown panic code 0x%02x", code)
}
