// Package valuetype implements the toolkit's core value types: Address,
// Hash, HexData, Wei, BlockTag, AccessList entries, Logs, Receipts, Blocks
// and call/filter request shapes.
//
// Grounded on mechanisms/evm/types.go and mechanisms/evm/utils.go's address
// validation/normalization helpers, generalized into immutable value types
// instead of ad-hoc strings.
package valuetype

import (
	"encoding/json"
	"fmt"

	"github.com/latticeeth/evmkit/hexutil"
)

// Address is a 20-byte Ethereum account/contract identifier. The zero value
// is the all-zero address (see IsZero); other addresses are constructed
// through NewAddress/ParseAddress.
type Address struct {
	bytes [20]byte
}

// ParseAddress accepts a hex string with or without "0x" prefix and
// validates it decodes to exactly 20 bytes.
func ParseAddress(s string) (Address, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("valuetype: invalid address: %w", err)
	}
	return NewAddress(b)
}

// NewAddress wraps a 20-byte buffer as an Address, rejecting any other
// length.
func NewAddress(b []byte) (Address, error) {
	if len(b) != 20 {
		return Address{}, fmt.Errorf("valuetype: address must be 20 bytes, got %d", len(b))
	}
	var a Address
	copy(a.bytes[:], b)
	return a, nil
}

// Bytes returns the 20-byte big-endian representation.
func (a Address) Bytes() []byte {
	out := make([]byte, 20)
	copy(out, a.bytes[:])
	return out
}

// String returns the canonical lowercase "0x"-prefixed form.
func (a Address) String() string {
	return hexutil.Encode(a.bytes[:])
}

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Equal compares addresses case-insensitively (both are already normalized
// to raw bytes, so this is just value equality).
func (a Address) Equal(b Address) bool {
	return a.bytes == b.bytes
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MustParseAddress is ParseAddress but panics on error; reserved for
// well-known constants (e.g. registry defaults) known to be valid.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}
