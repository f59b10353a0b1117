package valuetype

import (
	"encoding/json"
	"fmt"

	"github.com/latticeeth/evmkit/hexutil"
)

// Hash is a 32-byte identifier (block hash, tx hash, topic, storage slot).
type Hash struct {
	bytes [32]byte
}

// ParseHash accepts a hex string with or without "0x" prefix and validates
// it decodes to exactly 32 bytes.
func ParseHash(s string) (Hash, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Hash{}, fmt.Errorf("valuetype: invalid hash: %w", err)
	}
	return NewHash(b)
}

// NewHash wraps a 32-byte buffer as a Hash.
func NewHash(b []byte) (Hash, error) {
	if len(b) != 32 {
		return Hash{}, fmt.Errorf("valuetype: hash must be 32 bytes, got %d", len(b))
	}
	var h Hash
	copy(h.bytes[:], b)
	return h, nil
}

// MustParseHash panics on error; reserved for known-valid constants.
func MustParseHash(s string) Hash {
	h, err := ParseHash(s)
	if err != nil {
		panic(err)
	}
	return h
}

func (h Hash) Bytes() []byte {
	out := make([]byte, 32)
	copy(out, h.bytes[:])
	return out
}

func (h Hash) String() string {
	return hexutil.Encode(h.bytes[:])
}

func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) Equal(o Hash) bool {
	return h.bytes == o.bytes
}

// FirstVersionByte reports the leading byte of the hash, used by EIP-4844
// blob-versioned-hash validation (must be 0x01).
func (h Hash) FirstVersionByte() byte {
	return h.bytes[0]
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
