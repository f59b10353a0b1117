package hexutil

import (
	"sync"

	"golang.org/x/crypto/sha3"
)

// Keccak256 hashes b with Ethereum's Keccak-256 (legacy padding, distinct
// from NIST SHA-3). It allocates a fresh sponge state per call; use Pool for
// call sites that hash many preimages in a tight loop and want to reuse
// scratch state across calls within one execution context.
func Keccak256(b ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, chunk := range b {
		h.Write(chunk)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}

// Pool is a per-execution-context reusable Keccak-256 state. Reuse is a
// permitted optimization, not a requirement: callers that never call
// Cleanup simply leak no more than one sponge allocation per Pool value.
// A Pool must not be shared between goroutines that may run concurrently;
// each worker should own its own Pool and call Cleanup on teardown.
type Pool struct {
	mu   sync.Mutex
	hash interface {
		Reset()
		Write(p []byte) (int, error)
		Sum(b []byte) []byte
	}
}

// NewPool creates a Pool with a freshly allocated sponge state.
func NewPool() *Pool {
	return &Pool{hash: sha3.NewLegacyKeccak256()}
}

// Hash resets and reuses the pooled sponge to hash b.
func (p *Pool) Hash(b ...[]byte) [32]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hash.Reset()
	for _, chunk := range b {
		p.hash.Write(chunk)
	}
	var out [32]byte
	p.hash.Sum(out[:0])
	return out
}

// Cleanup discards the pooled state. The Pool must not be used afterward.
func (p *Pool) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hash = nil
}
