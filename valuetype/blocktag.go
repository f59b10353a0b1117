package valuetype

import (
	"encoding/json"
	"fmt"
)

// NamedTag is one of the well-known block tag names.
type NamedTag string

const (
	Latest    NamedTag = "latest"
	Pending   NamedTag = "pending"
	Earliest  NamedTag = "earliest"
	Safe      NamedTag = "safe"
	Finalized NamedTag = "finalized"
)

// BlockTag is a sealed variant: either a well-known named tag or a specific
// block number.
type BlockTag struct {
	named    NamedTag
	number   uint64
	isNumber bool
}

// TagLatest etc. are ready-made named tags.
var (
	TagLatest    = BlockTag{named: Latest}
	TagPending   = BlockTag{named: Pending}
	TagEarliest  = BlockTag{named: Earliest}
	TagSafe      = BlockTag{named: Safe}
	TagFinalized = BlockTag{named: Finalized}
)

// TagNumber constructs a numeric BlockTag.
func TagNumber(n uint64) BlockTag {
	return BlockTag{isNumber: true, number: n}
}

// IsNumber reports whether this tag is a specific block number.
func (t BlockTag) IsNumber() bool {
	return t.isNumber
}

// Number returns the numeric value; valid only if IsNumber() is true.
func (t BlockTag) Number() uint64 {
	return t.number
}

// String renders the wire form: "latest" etc., or "0x"+hex(number).
func (t BlockTag) String() string {
	if t.isNumber {
		return fmt.Sprintf("0x%x", t.number)
	}
	return string(t.named)
}

func (t BlockTag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *BlockTag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseBlockTag(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseBlockTag parses either a named tag or a "0x..." block number.
func ParseBlockTag(s string) (BlockTag, error) {
	switch NamedTag(s) {
	case Latest, Pending, Earliest, Safe, Finalized:
		return BlockTag{named: NamedTag(s)}, nil
	}
	var n uint64
	if _, err := fmt.Sscanf(s, "0x%x", &n); err != nil {
		return BlockTag{}, fmt.Errorf("valuetype: invalid block tag %q: %w", s, err)
	}
	return TagNumber(n), nil
}
