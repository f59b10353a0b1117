// Package networks carries per-chain addresses that are otherwise static
// facts about a deployed network, the same shape as mechanisms/evm's
// NetworkConfigs map, mirrored here for Multicall3's deterministic address
// and extended with a CAS-updatable registry rather than a fixed map
// literal, since callers may need to point at a custom deployment on a
// private or newly-added chain.
package networks

import (
	"sync/atomic"

	"github.com/latticeeth/evmkit/valuetype"
)

// DefaultMulticall3Address is the canonical CREATE2 deployment address that
// answers on essentially every EVM chain.
var DefaultMulticall3Address = valuetype.MustParseAddress("0xcA11bde05977b3631167028862bE2a173976CA11")

// multicall3Registry is a read-mostly chain-id -> address map, swapped
// wholesale under CAS so readers never observe a half-updated map.
var multicall3Registry atomic.Pointer[map[uint64]valuetype.Address]

func init() {
	m := make(map[uint64]valuetype.Address)
	multicall3Registry.Store(&m)
}

// Multicall3Address returns the registered address for chainID, falling
// back to DefaultMulticall3Address when the chain has no override.
func Multicall3Address(chainID uint64) valuetype.Address {
	m := multicall3Registry.Load()
	if m != nil {
		if addr, ok := (*m)[chainID]; ok {
			return addr
		}
	}
	return DefaultMulticall3Address
}

// RegisterMulticall3Address overrides the Multicall3 address used for
// chainID, for chains that deployed it at a non-deterministic address or
// not at all (requiring a caller-supplied stand-in).
func RegisterMulticall3Address(chainID uint64, addr valuetype.Address) {
	for {
		old := multicall3Registry.Load()
		next := make(map[uint64]valuetype.Address, len(*old)+1)
		for k, v := range *old {
			next[k] = v
		}
		next[chainID] = addr
		if multicall3Registry.CompareAndSwap(old, &next) {
			return
		}
	}
}
