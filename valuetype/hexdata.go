package valuetype

import (
	"encoding/json"

	"github.com/latticeeth/evmkit/hexutil"
)

// HexData is a variable-length opaque byte sequence (contract calldata,
// revert payloads, raw transactions). The textual form is computed lazily
// and cached, since construction is idempotent and re-deriving it per call
// would needlessly re-hex-encode large payloads.
type HexData struct {
	raw  []byte
	text string // memoized; empty until first String() call (unless raw is empty too)
	have bool
}

// NewHexData copies b into a HexData.
func NewHexData(b []byte) HexData {
	cp := make([]byte, len(b))
	copy(cp, b)
	return HexData{raw: cp}
}

// ParseHexData decodes a hex string into a HexData.
func ParseHexData(s string) (HexData, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return HexData{}, err
	}
	return NewHexData(b), nil
}

// Bytes returns a defensive copy of the underlying bytes.
func (h HexData) Bytes() []byte {
	out := make([]byte, len(h.raw))
	copy(out, h.raw)
	return out
}

// Len returns the byte length.
func (h HexData) Len() int {
	return len(h.raw)
}

// String returns (and memoizes) the canonical "0x"-prefixed lowercase hex
// form. HexData is passed by value throughout the codebase, so the memo
// only survives on the specific value it was computed on; recomputation is
// cheap and idempotent, so this is a correctness-neutral optimization.
func (h *HexData) String() string {
	if !h.have {
		h.text = hexutil.Encode(h.raw)
		h.have = true
	}
	return h.text
}

func (h HexData) MarshalJSON() ([]byte, error) {
	return json.Marshal(hexutil.Encode(h.raw))
}

func (h *HexData) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHexData(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
