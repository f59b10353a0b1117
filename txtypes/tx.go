// Package txtypes implements the typed transaction envelopes spec.md §4.4
// describes: preimage assembly for signing, RLP envelope emission, and the
// invariants that bind a transaction's fields together.
//
// Grounded on other_examples' internal-wallet-evm_tx.go (legacy/1559
// encode/sign flow) and internal-eip7702-eip7702.go (authorization-list
// supplement), rebuilt over this module's own rlp and cryptocore packages
// instead of go-ethereum's core/types.
package txtypes

import (
	"fmt"

	"github.com/latticeeth/evmkit/cryptocore"
	"github.com/latticeeth/evmkit/hexutil"
	"github.com/latticeeth/evmkit/rlp"
	"github.com/latticeeth/evmkit/valuetype"
)

// Kind discriminates the envelope arm.
type Kind int

const (
	KindLegacy Kind = iota
	KindAccessList
	KindEip1559
	KindEip4844
	KindEip7702
)

func (k Kind) String() string {
	switch k {
	case KindLegacy:
		return "legacy"
	case KindAccessList:
		return "access-list"
	case KindEip1559:
		return "eip1559"
	case KindEip4844:
		return "eip4844"
	case KindEip7702:
		return "eip7702"
	default:
		return "unknown"
	}
}

// Authorization is an EIP-7702 set-code authorization tuple, signed
// independently of (and included inside) the sponsoring transaction.
type Authorization struct {
	ChainID uint64
	Address valuetype.Address
	Nonce   uint64
	Sig     cryptocore.Signature // RecoveryID used as y_parity (0/1)
}

func (a Authorization) rlpItem() rlp.Item {
	return rlp.ListOf(
		rlp.Uint64(a.ChainID),
		rlp.String(a.Address.Bytes()),
		rlp.Uint64(a.Nonce),
		rlp.Uint64(uint64(a.Sig.TypedParity())),
		rlp.String(hexutil.TrimLeadingZeros(a.Sig.R[:])),
		rlp.String(hexutil.TrimLeadingZeros(a.Sig.S[:])),
	)
}

// Transaction is the sealed union of the five envelope arms. Which fields
// are meaningful is determined by Kind; Validate enforces spec.md §4.4's
// invariants for the arm in use.
type Transaction struct {
	Kind Kind

	Nonce    uint64
	To       *valuetype.Address // nil for contract creation; Eip4844/Eip7702 require it
	Value    valuetype.Wei
	Data     valuetype.HexData
	GasLimit uint64
	ChainID  uint64 // used by every arm; Legacy always signs the EIP-155 form, so chain id 0 yields v = 35/36, not 27/28

	// Legacy / AccessList
	GasPrice valuetype.Wei

	// Eip1559 / Eip4844 / Eip7702
	MaxPriorityFee valuetype.Wei
	MaxFee         valuetype.Wei

	// AccessList / Eip1559 / Eip4844 / Eip7702
	AccessList valuetype.AccessList

	// Eip4844
	MaxFeePerBlobGas    valuetype.Wei
	BlobVersionedHashes []valuetype.Hash

	// Eip7702
	AuthorizationList []Authorization
}

// Validate enforces spec.md §4.4's cross-field invariants for tx.Kind.
func (tx Transaction) Validate() error {
	switch tx.Kind {
	case KindEip1559, KindEip4844, KindEip7702:
		if tx.MaxPriorityFee.Cmp(tx.MaxFee) > 0 {
			return fmt.Errorf("txtypes: max_priority_fee %s exceeds max_fee %s", tx.MaxPriorityFee, tx.MaxFee)
		}
	}
	switch tx.Kind {
	case KindEip4844, KindEip7702:
		if tx.To == nil {
			return fmt.Errorf("txtypes: %v requires a non-nil to", tx.Kind)
		}
	}
	if tx.Kind == KindEip4844 {
		if len(tx.BlobVersionedHashes) == 0 {
			return fmt.Errorf("txtypes: eip4844 requires at least one blob versioned hash")
		}
		for i, h := range tx.BlobVersionedHashes {
			if h.FirstVersionByte() != 0x01 {
				return fmt.Errorf("txtypes: blob hash %d has version byte %#x, want 0x01", i, h.FirstVersionByte())
			}
		}
	}
	if tx.To != nil && tx.Data.Len() == 0 && tx.GasLimit < 21000 {
		return fmt.Errorf("txtypes: gas_limit %d below the 21000 floor for a value transfer", tx.GasLimit)
	}
	return nil
}

func addressRLP(to *valuetype.Address) rlp.Item {
	if to == nil {
		return rlp.String(nil)
	}
	return rlp.String(to.Bytes())
}

func accessListRLP(list valuetype.AccessList) rlp.Item {
	items := make([]rlp.Item, len(list))
	for i, entry := range list {
		keys := make([]rlp.Item, len(entry.StorageKeys))
		for j, k := range entry.StorageKeys {
			keys[j] = rlp.String(k.Bytes())
		}
		items[i] = rlp.ListOf(rlp.String(entry.Address.Bytes()), rlp.ListOf(keys...))
	}
	return rlp.ListOf(items...)
}

func weiRLP(w valuetype.Wei) rlp.Item {
	return rlp.BigInt(w.BigInt())
}

// EncodeForSigning assembles the exact preimage that gets hashed before
// signing, per spec.md §4.4's per-arm layouts.
func (tx Transaction) EncodeForSigning() ([]byte, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	switch tx.Kind {
	case KindLegacy:
		item := rlp.ListOf(
			rlp.Uint64(tx.Nonce),
			weiRLP(tx.GasPrice),
			rlp.Uint64(tx.GasLimit),
			addressRLP(tx.To),
			weiRLP(tx.Value),
			rlp.String(tx.Data.Bytes()),
			rlp.Uint64(tx.ChainID),
			rlp.Uint64(0),
			rlp.Uint64(0),
		)
		return rlp.Encode(item), nil

	case KindAccessList:
		item := rlp.ListOf(
			rlp.Uint64(tx.ChainID),
			rlp.Uint64(tx.Nonce),
			weiRLP(tx.GasPrice),
			rlp.Uint64(tx.GasLimit),
			addressRLP(tx.To),
			weiRLP(tx.Value),
			rlp.String(tx.Data.Bytes()),
			accessListRLP(tx.AccessList),
		)
		return prependType(0x01, rlp.Encode(item)), nil

	case KindEip1559:
		item := rlp.ListOf(
			rlp.Uint64(tx.ChainID),
			rlp.Uint64(tx.Nonce),
			weiRLP(tx.MaxPriorityFee),
			weiRLP(tx.MaxFee),
			rlp.Uint64(tx.GasLimit),
			addressRLP(tx.To),
			weiRLP(tx.Value),
			rlp.String(tx.Data.Bytes()),
			accessListRLP(tx.AccessList),
		)
		return prependType(0x02, rlp.Encode(item)), nil

	case KindEip4844:
		hashes := make([]rlp.Item, len(tx.BlobVersionedHashes))
		for i, h := range tx.BlobVersionedHashes {
			hashes[i] = rlp.String(h.Bytes())
		}
		item := rlp.ListOf(
			rlp.Uint64(tx.ChainID),
			rlp.Uint64(tx.Nonce),
			weiRLP(tx.MaxPriorityFee),
			weiRLP(tx.MaxFee),
			rlp.Uint64(tx.GasLimit),
			addressRLP(tx.To),
			weiRLP(tx.Value),
			rlp.String(tx.Data.Bytes()),
			accessListRLP(tx.AccessList),
			weiRLP(tx.MaxFeePerBlobGas),
			rlp.ListOf(hashes...),
		)
		return prependType(0x03, rlp.Encode(item)), nil

	case KindEip7702:
		auths := make([]rlp.Item, len(tx.AuthorizationList))
		for i, a := range tx.AuthorizationList {
			auths[i] = a.rlpItem()
		}
		item := rlp.ListOf(
			rlp.Uint64(tx.ChainID),
			rlp.Uint64(tx.Nonce),
			weiRLP(tx.MaxPriorityFee),
			weiRLP(tx.MaxFee),
			rlp.Uint64(tx.GasLimit),
			addressRLP(tx.To),
			weiRLP(tx.Value),
			rlp.String(tx.Data.Bytes()),
			accessListRLP(tx.AccessList),
			rlp.ListOf(auths...),
		)
		return prependType(0x04, rlp.Encode(item)), nil

	default:
		return nil, fmt.Errorf("txtypes: unknown transaction kind %d", tx.Kind)
	}
}

func prependType(typeByte byte, body []byte) []byte {
	out := make([]byte, 0, 1+len(body))
	out = append(out, typeByte)
	return append(out, body...)
}

// Sign computes the signing digest, signs it, and returns the final signed
// envelope along with the signature used.
func (tx Transaction) Sign(key *cryptocore.PrivateKey) ([]byte, cryptocore.Signature, error) {
	preimage, err := tx.EncodeForSigning()
	if err != nil {
		return nil, cryptocore.Signature{}, err
	}
	digest := hexutil.Keccak256(preimage)
	sig, err := key.Sign(digest)
	if err != nil {
		return nil, cryptocore.Signature{}, fmt.Errorf("txtypes: signing failed: %w", err)
	}
	envelope, err := tx.EncodeAsEnvelope(sig)
	if err != nil {
		return nil, cryptocore.Signature{}, err
	}
	return envelope, sig, nil
}

// EncodeAsEnvelope assembles the final signed envelope, appending v/r/s per
// spec.md §4.4: legacy uses EIP-155 v, every typed arm uses the 0/1 parity.
func (tx Transaction) EncodeAsEnvelope(sig cryptocore.Signature) ([]byte, error) {
	r := rlp.String(hexutil.TrimLeadingZeros(sig.R[:]))
	s := rlp.String(hexutil.TrimLeadingZeros(sig.S[:]))

	switch tx.Kind {
	case KindLegacy:
		v, err := sig.EIP155V(tx.ChainID)
		if err != nil {
			return nil, err
		}
		item := rlp.ListOf(
			rlp.Uint64(tx.Nonce),
			weiRLP(tx.GasPrice),
			rlp.Uint64(tx.GasLimit),
			addressRLP(tx.To),
			weiRLP(tx.Value),
			rlp.String(tx.Data.Bytes()),
			rlp.Uint64(v),
			r, s,
		)
		return rlp.Encode(item), nil

	case KindAccessList:
		item := rlp.ListOf(
			rlp.Uint64(tx.ChainID),
			rlp.Uint64(tx.Nonce),
			weiRLP(tx.GasPrice),
			rlp.Uint64(tx.GasLimit),
			addressRLP(tx.To),
			weiRLP(tx.Value),
			rlp.String(tx.Data.Bytes()),
			accessListRLP(tx.AccessList),
			rlp.Uint64(uint64(sig.TypedParity())),
			r, s,
		)
		return prependType(0x01, rlp.Encode(item)), nil

	case KindEip1559:
		item := rlp.ListOf(
			rlp.Uint64(tx.ChainID),
			rlp.Uint64(tx.Nonce),
			weiRLP(tx.MaxPriorityFee),
			weiRLP(tx.MaxFee),
			rlp.Uint64(tx.GasLimit),
			addressRLP(tx.To),
			weiRLP(tx.Value),
			rlp.String(tx.Data.Bytes()),
			accessListRLP(tx.AccessList),
			rlp.Uint64(uint64(sig.TypedParity())),
			r, s,
		)
		return prependType(0x02, rlp.Encode(item)), nil

	case KindEip4844:
		hashes := make([]rlp.Item, len(tx.BlobVersionedHashes))
		for i, h := range tx.BlobVersionedHashes {
			hashes[i] = rlp.String(h.Bytes())
		}
		item := rlp.ListOf(
			rlp.Uint64(tx.ChainID),
			rlp.Uint64(tx.Nonce),
			weiRLP(tx.MaxPriorityFee),
			weiRLP(tx.MaxFee),
			rlp.Uint64(tx.GasLimit),
			addressRLP(tx.To),
			weiRLP(tx.Value),
			rlp.String(tx.Data.Bytes()),
			accessListRLP(tx.AccessList),
			weiRLP(tx.MaxFeePerBlobGas),
			rlp.ListOf(hashes...),
			rlp.Uint64(uint64(sig.TypedParity())),
			r, s,
		)
		return prependType(0x03, rlp.Encode(item)), nil

	case KindEip7702:
		auths := make([]rlp.Item, len(tx.AuthorizationList))
		for i, a := range tx.AuthorizationList {
			auths[i] = a.rlpItem()
		}
		item := rlp.ListOf(
			rlp.Uint64(tx.ChainID),
			rlp.Uint64(tx.Nonce),
			weiRLP(tx.MaxPriorityFee),
			weiRLP(tx.MaxFee),
			rlp.Uint64(tx.GasLimit),
			addressRLP(tx.To),
			weiRLP(tx.Value),
			rlp.String(tx.Data.Bytes()),
			accessListRLP(tx.AccessList),
			rlp.ListOf(auths...),
			rlp.Uint64(uint64(sig.TypedParity())),
			r, s,
		)
		return prependType(0x04, rlp.Encode(item)), nil

	default:
		return nil, fmt.Errorf("txtypes: unknown transaction kind %d", tx.Kind)
	}
}

// Hash computes the transaction hash: keccak256 of the signed envelope.
func Hash(signedEnvelope []byte) valuetype.Hash {
	digest := hexutil.Keccak256(signedEnvelope)
	h, _ := valuetype.NewHash(digest[:])
	return h
}
