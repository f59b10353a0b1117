package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/latticeeth/evmkit/evmerr"
	"github.com/latticeeth/evmkit/jsonrpc"
	"github.com/latticeeth/evmkit/valuetype"
)

// Reader is the read-only facade over a jsonrpc.Provider: chain
// introspection, balance/call/log queries, and the chain-id cache every
// write path consults. Safe for concurrent use by many callers (spec.md
// §5's "user-facing calls are parallel-threads-safe").
type Reader struct {
	provider jsonrpc.Provider

	chainID atomic.Pointer[uint64]
}

// NewReader wraps provider. provider is not owned; callers Close it
// themselves once every Reader/Signer built on it is done.
func NewReader(provider jsonrpc.Provider) *Reader {
	return &Reader{provider: provider}
}

// ChainID fetches and caches the node's chain id on first call; later
// calls read the cache without I/O. The cache is a single CAS, never a
// racey get-then-set (spec.md §9's enumerated race to eliminate).
func (r *Reader) ChainID(ctx context.Context) (uint64, error) {
	if cached := r.chainID.Load(); cached != nil {
		return *cached, nil
	}
	var raw hexUint64
	if err := r.provider.Call(ctx, "eth_chainId", []any{}, &raw); err != nil {
		return 0, err
	}
	id := uint64(raw)
	// Only the first successful fetch is stored; a concurrent caller that
	// loses the CAS returns the stored value instead of its own.
	r.chainID.CompareAndSwap(nil, &id)
	return *r.chainID.Load(), nil
}

// checkChainID fails with ChainMismatch if the caller supplied a chain id
// that disagrees with the cached one, without sending anything.
func (r *Reader) checkChainID(ctx context.Context, want *uint64) error {
	if want == nil {
		return nil
	}
	cached, err := r.ChainID(ctx)
	if err != nil {
		return err
	}
	if *want != cached {
		return &evmerr.ChainMismatchError{Expected: cached, Got: *want}
	}
	return nil
}

// LatestBlock fetches the current head block.
func (r *Reader) LatestBlock(ctx context.Context) (valuetype.Block, error) {
	return r.BlockByNumber(ctx, valuetype.TagLatest)
}

// BlockByNumber fetches the block at tag, without its full transaction list.
func (r *Reader) BlockByNumber(ctx context.Context, tag valuetype.BlockTag) (valuetype.Block, error) {
	var raw rpcBlock
	if err := r.provider.Call(ctx, "eth_getBlockByNumber", []any{tag.String(), false}, &raw); err != nil {
		return valuetype.Block{}, err
	}
	return raw.toValue(), nil
}

// BalanceOf reads an account's balance at tag.
func (r *Reader) BalanceOf(ctx context.Context, addr valuetype.Address, tag valuetype.BlockTag) (valuetype.Wei, error) {
	var raw hexBig
	if err := r.provider.Call(ctx, "eth_getBalance", []any{addr, tag.String()}, &raw); err != nil {
		return valuetype.ZERO, err
	}
	return weiFromHexBig(&raw), nil
}

// Call executes req as an eth_call against tag, returning raw return data.
// A revert surfaces as *evmerr.RevertError (decoded per spec.md §4.3), not
// a bare *evmerr.RpcError.
func (r *Reader) Call(ctx context.Context, req valuetype.TransactionRequest, tag valuetype.BlockTag) (valuetype.HexData, error) {
	var raw string
	err := r.provider.Call(ctx, "eth_call", []any{toCallRequest(req), tag.String()}, &raw)
	if err != nil {
		return valuetype.HexData{}, wrapRevertIfPresent(err)
	}
	data, err := valuetype.ParseHexData(raw)
	if err != nil {
		return valuetype.HexData{}, fmt.Errorf("client: decode eth_call result: %w", err)
	}
	return data, nil
}

// EstimateGas asks the node for a gas estimate. A failure carrying revert
// data surfaces as *evmerr.RevertError; anything else surfaces as Rpc.
func (r *Reader) EstimateGas(ctx context.Context, req valuetype.TransactionRequest) (uint64, error) {
	var raw hexUint64
	if err := r.provider.Call(ctx, "eth_estimateGas", []any{toCallRequest(req)}, &raw); err != nil {
		return 0, wrapRevertIfPresent(err)
	}
	return uint64(raw), nil
}

// GetLogs runs filter and returns matching logs.
func (r *Reader) GetLogs(ctx context.Context, filter valuetype.Filter) ([]valuetype.Log, error) {
	var raw []rpcLog
	if err := r.provider.Call(ctx, "eth_getLogs", []any{toFilterParams(filter)}, &raw); err != nil {
		return nil, err
	}
	out := make([]valuetype.Log, len(raw))
	for i, l := range raw {
		out[i] = l.toValue()
	}
	return out, nil
}

// TxByHash fetches a transaction by hash. A nil *Transaction with a nil
// error means "not found" (spec.md's Option<Tx>).
func (r *Reader) TxByHash(ctx context.Context, hash valuetype.Hash) (*Transaction, error) {
	var raw *rpcTransaction
	if err := r.provider.Call(ctx, "eth_getTransactionByHash", []any{hash}, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	tx := raw.toValue()
	return &tx, nil
}

// Receipt fetches a transaction's receipt. A nil receipt with a nil error
// means not yet mined.
func (r *Reader) Receipt(ctx context.Context, hash valuetype.Hash) (*valuetype.TransactionReceipt, error) {
	var raw *rpcReceipt
	if err := r.provider.Call(ctx, "eth_getTransactionReceipt", []any{hash}, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	receipt := raw.toValue()
	return &receipt, nil
}

// CreateAccessList asks the node to compute the access list and the
// resulting gas cost for req.
func (r *Reader) CreateAccessList(ctx context.Context, req valuetype.TransactionRequest) (valuetype.AccessList, uint64, error) {
	var raw accessListResult
	if err := r.provider.Call(ctx, "eth_createAccessList", []any{toCallRequest(req)}, &raw); err != nil {
		return nil, 0, wrapRevertIfPresent(err)
	}
	return raw.AccessList, uint64(raw.GasUsed), nil
}

// wrapRevertIfPresent promotes an *evmerr.RpcError carrying revert data
// into a decoded *evmerr.RevertError, matching spec.md §4.6's estimate_gas
// and eth_call contracts ("if the error contains revert data, fail with
// Revert(decoded)").
func wrapRevertIfPresent(err error) error {
	rpcErr, ok := err.(*evmerr.RpcError)
	if !ok || len(rpcErr.Data) == 0 {
		return err
	}
	var payload string
	if unmarshalErr := json.Unmarshal(rpcErr.Data, &payload); unmarshalErr != nil {
		return err
	}
	raw, decodeErr := valuetype.ParseHexData(payload)
	if decodeErr != nil {
		return err
	}
	return evmerr.NewRevert(raw.Bytes())
}
