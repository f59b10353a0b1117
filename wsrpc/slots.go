package wsrpc

import (
	"encoding/json"
	"sync/atomic"

	"github.com/latticeeth/evmkit/evmerr"
)

// defaultCapacity is the slot table size when the caller does not override
// it. Must stay a power of two: slot indexing is id & (capacity-1).
const defaultCapacity = 65536

// pendingCall is the completion handle stored in one slot while a request
// is in flight. completed guards single-set delivery: the reactor, a
// timeout, a close, or a reconnect may all race to finish the same call,
// and only the first write may stick.
type pendingCall struct {
	id        uint64
	done      chan struct{}
	completed atomic.Bool
	result    json.RawMessage
	err       error
}

func newPendingCall(id uint64) *pendingCall {
	return &pendingCall{id: id, done: make(chan struct{})}
}

// complete delivers (result, err) exactly once. Subsequent calls are no-ops:
// unlike a Multicall3 Handle, where a second completion is a defect and
// panics, several paths may legitimately race to finish a pending call.
func (p *pendingCall) complete(result json.RawMessage, err error) {
	if !p.completed.CompareAndSwap(false, true) {
		return
	}
	p.result = result
	p.err = err
	close(p.done)
}

// slotTable is the fixed-capacity, power-of-two-sized pending-request table
// spec.md §4.5 describes. Slot acquisition is a CAS against a nil witness;
// an occupied slot rejects the caller with Backpressure rather than queuing.
type slotTable struct {
	capacity uint64
	mask     uint64
	slots    []atomic.Pointer[pendingCall]
}

func newSlotTable(capacity uint64) *slotTable {
	if capacity == 0 {
		capacity = defaultCapacity
	}
	capacity = nextPowerOfTwo(capacity)
	return &slotTable{
		capacity: capacity,
		mask:     capacity - 1,
		slots:    make([]atomic.Pointer[pendingCall], capacity),
	}
}

func nextPowerOfTwo(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

func (t *slotTable) index(id uint64) uint64 {
	return id & t.mask
}

// acquire reserves the slot for id's pending call, or returns Backpressure
// if another not-yet-completed call currently occupies it.
func (t *slotTable) acquire(id uint64) (*pendingCall, error) {
	idx := t.index(id)
	call := newPendingCall(id)
	if !t.slots[idx].CompareAndSwap(nil, call) {
		occupant := t.slots[idx].Load()
		if occupant != nil && !occupant.completed.Load() {
			return nil, &evmerr.BackpressureError{SlotIndex: int(idx), Occupancy: 1}
		}
		// The previous occupant finished but never cleared its slot (can
		// happen after a timeout raced the reactor); reclaim it.
		t.slots[idx].CompareAndSwap(occupant, call)
	}
	return call, nil
}

// release clears a slot after its call has completed, freeing it for reuse
// on id wraparound.
func (t *slotTable) release(id uint64) {
	idx := t.index(id)
	t.slots[idx].Store(nil)
}

// deliver routes an inbound response by id, verifying the full id matches
// the slot occupant to guard against wraparound collisions. Returns false
// (an orphan) when the ids don't match or the slot is empty.
func (t *slotTable) deliver(id uint64, result json.RawMessage, rpcErr error) bool {
	idx := t.index(id)
	call := t.slots[idx].Load()
	if call == nil || call.id != id {
		return false
	}
	call.complete(result, rpcErr)
	return true
}

// failAll completes every occupied slot with cause and clears the table,
// used on reconnect (spec.md §4.5's "all outstanding handles are failed
// with ConnectionLost; the slot table is cleared").
func (t *slotTable) failAll(cause error) {
	for i := range t.slots {
		call := t.slots[i].Load()
		if call != nil {
			call.complete(nil, cause)
			t.slots[i].Store(nil)
		}
	}
}
