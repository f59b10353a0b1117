package cryptocore

import (
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/latticeeth/evmkit/valuetype"
)

// Signature is (r, s, recovery id). RecoveryID is always stored in {0,1};
// callers render it as 27/28 (pre-155) or as the parity bit (typed
// envelopes) or as 35+2*chainId+parity (EIP-155) at the point of use.
type Signature struct {
	R          [32]byte
	S          [32]byte
	RecoveryID byte
}

// normalizeLowS enforces s <= N/2, flipping s to N-s and the recovery
// parity bit when it isn't already. secp256k1.Sign/SignCompact already
// produce canonical low-S signatures, so this is normally a no-op; it is
// kept explicit and unconditional so the invariant holds regardless of the
// underlying library's behavior (spec.md §4.4, §8 property 5).
func (s *Signature) normalizeLowS() {
	sInt := new(big.Int).SetBytes(s.S[:])
	if sInt.Cmp(secpHalfN) > 0 {
		sInt.Sub(SecpN, sInt)
		var out [32]byte
		sInt.FillBytes(out[:])
		s.S = out
		s.RecoveryID ^= 1
	}
}

// IsLowS reports whether s.S <= N/2.
func (s Signature) IsLowS() bool {
	return new(big.Int).SetBytes(s.S[:]).Cmp(secpHalfN) <= 0
}

// LegacyV renders the pre-EIP-155 recovery byte: 27 or 28.
func (s Signature) LegacyV() byte {
	return 27 + s.RecoveryID
}

// EIP155V computes v = 35 + 2*chainId + parity using 64-bit intermediate
// arithmetic, rejecting chain ids large enough to overflow that computation
// (spec.md §4.4, §8 property 11).
func (s Signature) EIP155V(chainID uint64) (uint64, error) {
	// 35 + 2*chainId + parity must not overflow uint64. With parity up to
	// 1, chainId up to (2^64-1-36)/2 is safe; anything larger is rejected
	// rather than silently wrapping.
	const maxChainID = (^uint64(0) - 36) / 2
	if chainID > maxChainID {
		return 0, fmt.Errorf("cryptocore: chain id %d too large for EIP-155 v computation", chainID)
	}
	return 35 + 2*chainID + uint64(s.RecoveryID), nil
}

// TypedParity renders the recovery parity used by typed envelopes (type
// 1/2/3/4): 0 or 1.
func (s Signature) TypedParity() byte {
	return s.RecoveryID
}

// Bytes65 renders the 65-byte r||s||v(27/28) layout used by EOA signature
// verification call sites (e.g. personal_sign-style flows).
func (s Signature) Bytes65() [65]byte {
	var out [65]byte
	copy(out[0:32], s.R[:])
	copy(out[32:64], s.S[:])
	out[64] = s.LegacyV()
	return out
}

// Recover recovers the address that produced sig over digest. recoveryID
// must be 0 or 1 (the typed-envelope parity convention); callers holding a
// legacy v in {27,28} or an EIP-155 v should reduce it first.
func Recover(digest [32]byte, sig Signature) (valuetype.Address, error) {
	compact := make([]byte, 65)
	compact[0] = 27 + sig.RecoveryID
	copy(compact[1:33], sig.R[:])
	copy(compact[33:65], sig.S[:])

	pub, _, err := ecdsa.RecoverCompact(compact, digest[:])
	if err != nil {
		return valuetype.Address{}, fmt.Errorf("cryptocore: signature recovery failed: %w", err)
	}
	return PublicKeyToAddress(pub), nil
}

// PublicKeyToAddress derives the Ethereum address from an uncompressed
// public key: the last 20 bytes of keccak(pubkey.X || pubkey.Y), excluding
// the 0x04 uncompressed-point prefix.
func PublicKeyToAddress(pub *secp256k1.PublicKey) valuetype.Address {
	uncompressed := pub.SerializeUncompressed() // 65 bytes: 0x04 || X(32) || Y(32)
	h := keccak256(uncompressed[1:])
	addr, _ := valuetype.NewAddress(h[12:])
	return addr
}

// RecoveryIDFromLegacyV reduces a pre-155 v (27/28) to a 0/1 parity.
func RecoveryIDFromLegacyV(v byte) (byte, error) {
	switch v {
	case 27:
		return 0, nil
	case 28:
		return 1, nil
	default:
		return 0, fmt.Errorf("cryptocore: invalid legacy v %d", v)
	}
}

// RecoveryIDFromEIP155V reduces an EIP-155 v to a 0/1 parity given chainID.
func RecoveryIDFromEIP155V(v uint64, chainID uint64) (byte, error) {
	base := 35 + 2*chainID
	if v < base || v > base+1 {
		return 0, fmt.Errorf("cryptocore: v %d does not match EIP-155 chain id %d", v, chainID)
	}
	return byte(v - base), nil
}
