// Package cryptocore implements the secp256k1 signing core: deterministic
// ECDSA signatures (RFC 6979), low-S normalization, public-key-to-address
// derivation, and signature recovery.
//
// Grounded on other_examples' internal-wallet-evm_tx.go (compact-signature
// signing over the same curve) and plugin-secp256k1-path_sign_evm.go
// (EIP-155 v construction); the underlying elliptic-curve math is delegated
// to github.com/decred/dcrd/dcrec/secp256k1/v4, already an indirect
// dependency of the teacher's own go.mod (pulled in transitively via
// go-ethereum) and promoted here to a direct one.
package cryptocore

import (
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/latticeeth/evmkit/evmerr"
	"github.com/latticeeth/evmkit/hexutil"
	"github.com/latticeeth/evmkit/valuetype"
)

// SecpN is the order of the secp256k1 base point — the well-known public
// curve parameter, not a secret.
var SecpN, _ = new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)

var secpHalfN = new(big.Int).Rsh(SecpN, 1)

// PrivateKey owns a secp256k1 scalar with an explicit destroy point. Once
// Destroy is called, every other method fails with ErrInvalidated.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// ErrInvalidated is returned by any PrivateKey method called after Destroy.
var ErrInvalidated error = &evmerr.InvalidatedError{}

// NewPrivateKeyFromHex parses a 32-byte hex-encoded scalar.
func NewPrivateKeyFromHex(s string) (*PrivateKey, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("cryptocore: invalid private key hex: %w", err)
	}
	return NewPrivateKeyFromBytes(b)
}

// NewPrivateKeyFromBytes constructs a PrivateKey from a 32-byte scalar. The
// caller's buffer is zeroed after copying, per spec.md §3's lifecycle
// contract for raw-bytes construction.
func NewPrivateKeyFromBytes(raw []byte) (*PrivateKey, error) {
	if len(raw) != 32 {
		return nil, fmt.Errorf("cryptocore: private key must be 32 bytes, got %d", len(raw))
	}
	cp := make([]byte, 32)
	copy(cp, raw)
	for i := range raw {
		raw[i] = 0
	}
	key := secp256k1.PrivKeyFromBytes(cp)
	for i := range cp {
		cp[i] = 0
	}
	return &PrivateKey{key: key}, nil
}

// Destroy overwrites the scalar's backing buffer. Idempotent.
func (p *PrivateKey) Destroy() {
	if p.key == nil {
		return
	}
	p.key.Zero()
	p.key = nil
}

func (p *PrivateKey) checkAlive() error {
	if p.key == nil {
		return ErrInvalidated
	}
	return nil
}

// Address derives the Ethereum address from the public key.
func (p *PrivateKey) Address() (valuetype.Address, error) {
	if err := p.checkAlive(); err != nil {
		return valuetype.Address{}, err
	}
	return PublicKeyToAddress(p.key.PubKey()), nil
}

// Sign produces a low-S signature over a 32-byte digest using deterministic
// k (RFC 6979). The returned RecoveryID is the 0/1 parity; callers render v
// with Signature.LegacyV, EIP155V or TypedParity as the envelope requires.
func (p *PrivateKey) Sign(digest [32]byte) (Signature, error) {
	if err := p.checkAlive(); err != nil {
		return Signature{}, err
	}
	return signDigest(p.key, digest)
}

func signDigest(key *secp256k1.PrivateKey, digest [32]byte) (Signature, error) {
	compact := ecdsa.SignCompact(key, digest[:], false)
	if len(compact) != 65 {
		return Signature{}, fmt.Errorf("cryptocore: unexpected compact signature length %d", len(compact))
	}
	// SignCompact's leading byte is 27+recoveryID(+4 if compressed); we
	// always pass compressed=false so it is exactly 27 or 28.
	recID := compact[0] - 27
	var r, s [32]byte
	copy(r[:], compact[1:33])
	copy(s[:], compact[33:65])

	sig := Signature{R: r, S: s, RecoveryID: recID}
	sig.normalizeLowS()
	return sig, nil
}

// PubKeyFromSecret is exposed for tests that need to derive a public key
// without going through the PrivateKey lifecycle wrapper.
func PubKeyFromSecret(raw []byte) (*secp256k1.PublicKey, error) {
	if len(raw) != 32 {
		return nil, fmt.Errorf("cryptocore: secret must be 32 bytes")
	}
	return secp256k1.PrivKeyFromBytes(raw).PubKey(), nil
}
