package contract

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/latticeeth/evmkit/abi"
	"github.com/latticeeth/evmkit/client"
	"github.com/latticeeth/evmkit/evmerr"
	"github.com/latticeeth/evmkit/networks"
	"github.com/latticeeth/evmkit/valuetype"
)

// aggregate3Call holds Multicall3's one argument schema,
// ((address,bool,bytes)[]), and its return schema, ((bool,bytes)[]).
var aggregate3Call = struct {
	inputs  []abi.Type
	outputs []abi.Type
}{
	inputs: []abi.Type{abi.DynamicArray(abi.NamedTuple(
		[]string{"target", "allowFailure", "callData"},
		abi.AddressT, abi.BoolT, abi.DynamicBytesT,
	))},
	outputs: []abi.Type{abi.DynamicArray(abi.NamedTuple(
		[]string{"success", "returnData"},
		abi.BoolT, abi.DynamicBytesT,
	))},
}

// DefaultChunkSize is K from spec.md §4.7: the maximum number of calls
// aggregated into a single aggregate3 transport round-trip.
const DefaultChunkSize = 500

// Handle is a single pending (or completed) entry in a Batch. Its Result
// can only be read meaningfully after the owning Batch's Execute returns;
// reading it earlier yields a zero value and a nil error.
type Handle struct {
	completed atomic.Bool
	values    []abi.Value
	err       error
}

// complete sets the handle's outcome exactly once; a second call is a
// caller defect (a chunk can never revisit an entry it already decoded).
func (h *Handle) complete(values []abi.Value, err error) {
	if !h.completed.CompareAndSwap(false, true) {
		panic("contract: handle completed twice")
	}
	h.values = values
	h.err = err
}

// Result returns the decoded return values, or the per-call failure
// (typically *evmerr.RevertError) once Execute has completed.
func (h *Handle) Result() ([]abi.Value, error) {
	return h.values, h.err
}

// pendingCall is one recorded (target, calldata, schema, allowFailure)
// entry awaiting a chunked aggregate3 dispatch.
type pendingCall struct {
	target       valuetype.Address
	calldata     []byte
	outputs      []abi.Type
	allowFailure bool
	handle       *Handle
}

// Batch is a recording-mode proxy over a reader: Record never sends
// anything, it only appends to a pending list and returns a Handle.
// Execute then partitions the pending list into chunks of at most
// ChunkSize, each dispatched as one aggregate3 call.
//
// Grounded on client.Reader's single provider-backed call path; the
// recorder/handle split itself has no direct teacher analogue (the
// closest pack shape is signers/evm/client.go's ReadContract, generalized
// here from "one call, one result" to "N calls, N single-set results").
type Batch struct {
	reader    *client.Reader
	multicall valuetype.Address
	chunkSize int
	pending   []*pendingCall
}

// NewBatch creates a batch against multicall's deployment for the given
// reader. Pass 0 for chunkSize to use DefaultChunkSize.
func NewBatch(reader *client.Reader, multicall valuetype.Address, chunkSize int) *Batch {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Batch{reader: reader, multicall: multicall, chunkSize: chunkSize}
}

// NewBatchForChain creates a batch using the registered Multicall3 address
// for chainID (networks.Multicall3Address), the common case.
func NewBatchForChain(reader *client.Reader, chainID uint64) *Batch {
	return NewBatch(reader, networks.Multicall3Address(chainID), DefaultChunkSize)
}

// Record encodes name's calldata against c and appends a pending entry.
// allowFailure mirrors Multicall3's per-call flag: when false, Execute
// reverts the whole chunk on this entry's failure instead of completing
// its Handle with an error.
func (b *Batch) Record(c *Contract, name string, allowFailure bool, args ...abi.Value) (*Handle, error) {
	m, err := c.method(name)
	if err != nil {
		return nil, err
	}
	data, err := c.encodeCall(m, args)
	if err != nil {
		return nil, err
	}
	h := &Handle{}
	b.pending = append(b.pending, &pendingCall{
		target:       c.address,
		calldata:     data,
		outputs:      m.Outputs,
		allowFailure: allowFailure,
		handle:       h,
	})
	return h, nil
}

// Execute partitions the pending list into chunks of at most b.chunkSize,
// encodes and dispatches each as one aggregate3 eth_call, and completes
// every handle exactly once. A chunk-level transport failure (connection
// lost, timeout) fails every handle in that chunk with the same cause; any
// chunks after the failing one are never dispatched, but their handles are
// still completed (with a "not attempted" wrapping of the first failure)
// rather than left orphaned, per spec.md §8 property 7 — "after execute()
// returns (or fails), every registered handle is in a completed state".
func (b *Batch) Execute(ctx context.Context) error {
	var firstErr error
	for start := 0; start < len(b.pending); start += b.chunkSize {
		end := start + b.chunkSize
		if end > len(b.pending) {
			end = len(b.pending)
		}
		chunk := b.pending[start:end]
		if firstErr != nil {
			for _, entry := range chunk {
				entry.handle.complete(nil, fmt.Errorf("contract: batch aborted, chunk not attempted: %w", firstErr))
			}
			continue
		}
		if err := b.executeChunk(ctx, chunk); err != nil {
			firstErr = err
			for _, entry := range chunk {
				entry.handle.complete(nil, err)
			}
		}
	}
	return firstErr
}

func (b *Batch) executeChunk(ctx context.Context, chunk []*pendingCall) error {
	calls := make([]abi.Value, len(chunk))
	for i, entry := range chunk {
		calls[i] = []abi.Value{entry.target, entry.allowFailure, []byte(entry.calldata)}
	}
	calldata, err := abi.Calldata("aggregate3", aggregate3Call.inputs, []abi.Value{calls})
	if err != nil {
		return fmt.Errorf("contract: encode aggregate3: %w", err)
	}

	to := b.multicall
	req := valuetype.TransactionRequest{To: &to, Data: valuetype.NewHexData(calldata)}
	raw, err := b.reader.Call(ctx, req, valuetype.TagLatest)
	if err != nil {
		return err
	}

	decoded, err := abi.Decode(raw.Bytes(), aggregate3Call.outputs)
	if err != nil {
		return fmt.Errorf("contract: decode aggregate3 result: %w", err)
	}
	results, ok := decoded[0].([]abi.Value)
	if !ok || len(results) != len(chunk) {
		return fmt.Errorf("contract: aggregate3 returned %d result(s) for %d call(s)", len(results), len(chunk))
	}

	for i, entry := range chunk {
		pair, ok := results[i].([]abi.Value)
		if !ok || len(pair) != 2 {
			entry.handle.complete(nil, fmt.Errorf("contract: malformed aggregate3 entry %d", i))
			continue
		}
		success, _ := pair[0].(bool)
		returnData, _ := pair[1].([]byte)
		if success {
			values, err := abi.Decode(returnData, entry.outputs)
			entry.handle.complete(values, err)
			continue
		}
		entry.handle.complete(nil, evmerr.NewRevert(returnData))
	}
	return nil
}
