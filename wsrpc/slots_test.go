package wsrpc

import (
	"testing"

	"github.com/latticeeth/evmkit/evmerr"
)

func TestSlotTableAcquireRejectsOccupiedSlot(t *testing.T) {
	table := newSlotTable(8)
	first, err := table.acquire(3)
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}
	_, err = table.acquire(3 + 8) // same slot index (3 mod 8 == 11 mod 8)
	if err == nil {
		t.Fatal("expected Backpressure on occupied slot")
	}
	var backpressure *evmerr.BackpressureError
	if !isBackpressure(err, &backpressure) {
		t.Fatalf("expected *evmerr.BackpressureError, got %T", err)
	}

	first.complete(nil, nil)
	table.release(3)

	if _, err := table.acquire(3 + 8); err != nil {
		t.Fatalf("expected slot reusable after release: %v", err)
	}
}

func isBackpressure(err error, target **evmerr.BackpressureError) bool {
	if bp, ok := err.(*evmerr.BackpressureError); ok {
		*target = bp
		return true
	}
	return false
}

func TestSlotTableDeliverRejectsMismatchedID(t *testing.T) {
	table := newSlotTable(8)
	call, err := table.acquire(5)
	if err != nil {
		t.Fatal(err)
	}
	if table.deliver(5+8, nil, nil) {
		t.Fatal("expected deliver to reject a wrapped-around id mismatch")
	}
	if !table.deliver(5, []byte(`"ok"`), nil) {
		t.Fatal("expected deliver to match the true occupant")
	}
	<-call.done
	if string(call.result) != `"ok"` {
		t.Fatalf("result = %s", call.result)
	}
}

func TestPendingCallCompletesOnce(t *testing.T) {
	call := newPendingCall(1)
	call.complete([]byte(`"first"`), nil)
	call.complete([]byte(`"second"`), nil)
	if string(call.result) != `"first"` {
		t.Fatalf("result = %s, want first completion to win", call.result)
	}
}

func TestSlotTableFailAllClearsTable(t *testing.T) {
	table := newSlotTable(4)
	call, err := table.acquire(1)
	if err != nil {
		t.Fatal(err)
	}
	table.failAll(&evmerr.ConnectionLostError{})
	select {
	case <-call.done:
	default:
		t.Fatal("expected failAll to complete the pending call")
	}
	if _, err := table.acquire(1); err != nil {
		t.Fatalf("expected slot free after failAll: %v", err)
	}
}
