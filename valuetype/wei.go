package valuetype

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// Wei is a non-negative integer in [0, 2^256), Ethereum's native value unit.
// Backed by holiman/uint256 for allocation-free 256-bit arithmetic instead
// of math/big, matching the representation go-ethereum-adjacent tooling in
// the pack (kshinn-umbra-gateway, vocdoni-davinci-node) pulls in for exactly
// this purpose.
type Wei struct {
	v uint256.Int
}

// ZERO and OneEther are interned per spec.md §3.
var (
	ZERO     = Wei{}
	OneEther = FromEtherMust("1")
	OneGwei  = FromGweiMust("1")
)

// FromUint256 wraps a uint256.Int as Wei.
func FromUint256(v *uint256.Int) Wei {
	var w Wei
	w.v.Set(v)
	return w
}

// FromUint64 constructs Wei from a uint64.
func FromUint64(n uint64) Wei {
	var w Wei
	w.v.SetUint64(n)
	return w
}

// FromBigInt constructs Wei from a non-negative big.Int.
func FromBigInt(v *big.Int) (Wei, error) {
	if v == nil {
		return Wei{}, fmt.Errorf("valuetype: nil *big.Int")
	}
	if v.Sign() < 0 {
		return Wei{}, fmt.Errorf("valuetype: Wei must be non-negative, got %s", v.String())
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return Wei{}, fmt.Errorf("valuetype: value %s exceeds 2^256-1", v.String())
	}
	return Wei{v: *u}, nil
}

// FromEther parses a base-10 decimal string of ether (18 decimals), e.g.
// "1.5". More than 18 fractional digits is OutOfRange.
func FromEther(s string) (Wei, error) {
	return fromDecimalScaled(s, 18)
}

// FromGwei parses a base-10 decimal string of gwei (9 decimals).
func FromGwei(s string) (Wei, error) {
	return fromDecimalScaled(s, 9)
}

// FromEtherMust panics on error; reserved for constants.
func FromEtherMust(s string) Wei {
	w, err := FromEther(s)
	if err != nil {
		panic(err)
	}
	return w
}

// FromGweiMust panics on error; reserved for constants.
func FromGweiMust(s string) Wei {
	w, err := FromGwei(s)
	if err != nil {
		panic(err)
	}
	return w
}

func fromDecimalScaled(s string, decimals int) (Wei, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	if neg {
		return Wei{}, fmt.Errorf("valuetype: Wei must be non-negative, got %q", s)
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac {
		if len(frac) > decimals {
			return Wei{}, fmt.Errorf("valuetype: %q has more than %d fractional digits: OutOfRange", s, decimals)
		}
		frac = frac + strings.Repeat("0", decimals-len(frac))
	} else {
		frac = strings.Repeat("0", decimals)
	}
	if whole == "" {
		whole = "0"
	}
	combined, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return Wei{}, fmt.Errorf("valuetype: invalid decimal string %q", s)
	}
	return FromBigInt(combined)
}

// Uint256 returns a copy of the underlying uint256.Int.
func (w Wei) Uint256() uint256.Int {
	return w.v
}

// BigInt returns a *big.Int copy.
func (w Wei) BigInt() *big.Int {
	return w.v.ToBig()
}

// Bytes32 returns the 32-byte big-endian representation, as used in ABI
// encoding heads.
func (w Wei) Bytes32() [32]byte {
	return w.v.Bytes32()
}

// IsZero reports whether w == 0.
func (w Wei) IsZero() bool {
	return w.v.IsZero()
}

// Cmp compares w to o: -1, 0, 1.
func (w Wei) Cmp(o Wei) int {
	return w.v.Cmp(&o.v)
}

// Add returns w+o. Panics on overflow past 2^256-1, which cannot occur for
// any two valid Wei values representing real on-chain quantities without
// the caller having already lost track of conservation of value.
func (w Wei) Add(o Wei) Wei {
	var out Wei
	if out.v.AddOverflow(&w.v, &o.v) {
		panic("valuetype: Wei addition overflow")
	}
	return out
}

// Sub returns w-o. Panics if o > w.
func (w Wei) Sub(o Wei) Wei {
	if w.Cmp(o) < 0 {
		panic("valuetype: Wei subtraction underflow")
	}
	var out Wei
	out.v.Sub(&w.v, &o.v)
	return out
}

// Mul64 returns w*n as Wei, panicking on overflow.
func (w Wei) Mul64(n uint64) Wei {
	var factor, out Wei
	factor.v.SetUint64(n)
	if out.v.MulOverflow(&w.v, &factor.v) {
		panic("valuetype: Wei multiplication overflow")
	}
	return out
}

// String renders the raw integer value in base 10 (no unit suffix).
func (w Wei) String() string {
	return w.v.Dec()
}
