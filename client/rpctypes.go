// Package client implements the Reader/Signer facade: typed eth_* calls
// over a jsonrpc.Provider, the chain-id cache, the EIP-1559 gas strategy,
// receipt polling with revert replay, and the RpcRetry policy.
//
// Grounded on signers/evm/client.go's ClientSigner (Connect/ReadContract/
// WriteContract/WaitForTransactionReceipt), generalized from a single
// go-ethereum-backed struct into a Reader/Signer split driven by this
// module's own jsonrpc.Provider instead of ethclient.Client.
package client

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/latticeeth/evmkit/valuetype"
)

// hexUint64 is the "0x"-prefixed, no-leading-zero quantity encoding
// JSON-RPC uses for numeric fields, mirrored from go-ethereum's
// hexutil.Uint64 wire shape (see other_examples' rpctypes-types.go.go).
type hexUint64 uint64

func (h hexUint64) MarshalJSON() ([]byte, error) {
	return json.Marshal(fmt.Sprintf("0x%x", uint64(h)))
}

func (h *hexUint64) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	var n uint64
	if _, err := fmt.Sscanf(s, "0x%x", &n); err != nil {
		return fmt.Errorf("client: invalid hex quantity %q: %w", s, err)
	}
	*h = hexUint64(n)
	return nil
}

// hexBig is the same quantity encoding for values wider than 64 bits
// (balances, gas prices, values).
type hexBig struct{ v *big.Int }

func (h hexBig) MarshalJSON() ([]byte, error) {
	if h.v == nil {
		return json.Marshal("0x0")
	}
	return json.Marshal("0x" + h.v.Text(16))
}

func (h *hexBig) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" || s == "0x" {
		h.v = big.NewInt(0)
		return nil
	}
	n := new(big.Int)
	if _, ok := n.SetString(s[2:], 16); !ok {
		return fmt.Errorf("client: invalid hex quantity %q", s)
	}
	h.v = n
	return nil
}

func weiFromHexBig(h *hexBig) valuetype.Wei {
	if h == nil || h.v == nil {
		return valuetype.ZERO
	}
	w, err := valuetype.FromBigInt(h.v)
	if err != nil {
		return valuetype.ZERO
	}
	return w
}

// rpcLog is the wire shape of one eth_getLogs / receipt log entry.
type rpcLog struct {
	Address     valuetype.Address `json:"address"`
	Topics      []valuetype.Hash  `json:"topics"`
	Data        valuetype.HexData `json:"data"`
	BlockNumber hexUint64         `json:"blockNumber"`
	TxHash      valuetype.Hash    `json:"transactionHash"`
	LogIndex    hexUint64         `json:"logIndex"`
}

func (l rpcLog) toValue() valuetype.Log {
	return valuetype.Log{
		Address:     l.Address,
		Topics:      l.Topics,
		Data:        l.Data,
		BlockNumber: uint64(l.BlockNumber),
		TxHash:      l.TxHash,
		LogIndex:    uint64(l.LogIndex),
	}
}

// rpcReceipt is the wire shape of eth_getTransactionReceipt's result.
type rpcReceipt struct {
	TransactionHash valuetype.Hash     `json:"transactionHash"`
	BlockHash       valuetype.Hash     `json:"blockHash"`
	BlockNumber     hexUint64          `json:"blockNumber"`
	From            valuetype.Address  `json:"from"`
	To              *valuetype.Address `json:"to"`
	Status          hexUint64          `json:"status"`
	GasUsed         hexUint64          `json:"gasUsed"`
	Logs            []rpcLog           `json:"logs"`
}

func (r rpcReceipt) toValue() valuetype.TransactionReceipt {
	logs := make([]valuetype.Log, len(r.Logs))
	for i, l := range r.Logs {
		logs[i] = l.toValue()
	}
	return valuetype.TransactionReceipt{
		TxHash:      r.TransactionHash,
		BlockHash:   r.BlockHash,
		BlockNumber: uint64(r.BlockNumber),
		From:        r.From,
		To:          r.To,
		Status:      r.Status == 1,
		GasUsed:     uint64(r.GasUsed),
		Logs:        logs,
	}
}

// rpcBlock is the subset of eth_getBlockByNumber's result fields the
// toolkit needs (header data, not the full transaction list).
type rpcBlock struct {
	Number        hexUint64         `json:"number"`
	Hash          valuetype.Hash    `json:"hash"`
	ParentHash    valuetype.Hash    `json:"parentHash"`
	Timestamp     hexUint64         `json:"timestamp"`
	BaseFeePerGas *hexBig           `json:"baseFeePerGas"`
	GasLimit      hexUint64         `json:"gasLimit"`
	GasUsed       hexUint64         `json:"gasUsed"`
	Miner         valuetype.Address `json:"miner"`
}

func (b rpcBlock) toValue() valuetype.Block {
	var baseFee *valuetype.Wei
	if b.BaseFeePerGas != nil {
		w := weiFromHexBig(b.BaseFeePerGas)
		baseFee = &w
	}
	return valuetype.Block{
		Number:        uint64(b.Number),
		Hash:          b.Hash,
		ParentHash:    b.ParentHash,
		Timestamp:     uint64(b.Timestamp),
		BaseFeePerGas: baseFee,
		GasLimit:      uint64(b.GasLimit),
		GasUsed:       uint64(b.GasUsed),
		Miner:         b.Miner,
	}
}

// rpcTransaction is the wire shape of eth_getTransactionByHash's result.
type rpcTransaction struct {
	Hash        valuetype.Hash     `json:"hash"`
	From        valuetype.Address  `json:"from"`
	To          *valuetype.Address `json:"to"`
	Value       hexBig             `json:"value"`
	Nonce       hexUint64          `json:"nonce"`
	Gas         hexUint64          `json:"gas"`
	Input       valuetype.HexData  `json:"input"`
	BlockNumber *hexUint64         `json:"blockNumber"`
}

// Transaction is the toolkit-facing view of tx_by_hash's result.
type Transaction struct {
	Hash        valuetype.Hash
	From        valuetype.Address
	To          *valuetype.Address
	Value       valuetype.Wei
	Nonce       uint64
	Gas         uint64
	Input       valuetype.HexData
	BlockNumber uint64 // 0 if still pending
}

func (t rpcTransaction) toValue() Transaction {
	var blockNumber uint64
	if t.BlockNumber != nil {
		blockNumber = uint64(*t.BlockNumber)
	}
	return Transaction{
		Hash:        t.Hash,
		From:        t.From,
		To:          t.To,
		Value:       weiFromHexBig(&t.Value),
		Nonce:       uint64(t.Nonce),
		Gas:         uint64(t.Gas),
		Input:       t.Input,
		BlockNumber: blockNumber,
	}
}

// callRequest is the wire shape eth_call/eth_estimateGas/eth_createAccessList
// expect as their first positional parameter.
type callRequest struct {
	From                 *valuetype.Address   `json:"from,omitempty"`
	To                   *valuetype.Address   `json:"to,omitempty"`
	Gas                  *hexUint64           `json:"gas,omitempty"`
	GasPrice             *hexBig              `json:"gasPrice,omitempty"`
	MaxFeePerGas         *hexBig              `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *hexBig              `json:"maxPriorityFeePerGas,omitempty"`
	Value                *hexBig              `json:"value,omitempty"`
	Data                 valuetype.HexData    `json:"data,omitempty"`
	AccessList           valuetype.AccessList `json:"accessList,omitempty"`
}

func toCallRequest(r valuetype.TransactionRequest) callRequest {
	out := callRequest{From: r.From, To: r.To, Data: r.Data, AccessList: r.AccessList}
	if r.Gas != nil {
		g := hexUint64(*r.Gas)
		out.Gas = &g
	}
	if r.GasPrice != nil {
		out.GasPrice = &hexBig{v: r.GasPrice.BigInt()}
	}
	if r.MaxFeePerGas != nil {
		out.MaxFeePerGas = &hexBig{v: r.MaxFeePerGas.BigInt()}
	}
	if r.MaxPriorityFeePerGas != nil {
		out.MaxPriorityFeePerGas = &hexBig{v: r.MaxPriorityFeePerGas.BigInt()}
	}
	if r.Value != nil {
		out.Value = &hexBig{v: r.Value.BigInt()}
	}
	return out
}

// filterParams is the wire shape of eth_getLogs' argument.
type filterParams struct {
	FromBlock string              `json:"fromBlock,omitempty"`
	ToBlock   string              `json:"toBlock,omitempty"`
	Address   []valuetype.Address `json:"address,omitempty"`
	Topics    [][]valuetype.Hash  `json:"topics,omitempty"`
	BlockHash *valuetype.Hash     `json:"blockHash,omitempty"`
}

func toFilterParams(f valuetype.Filter) filterParams {
	out := filterParams{Address: f.Addresses, Topics: f.Topics, BlockHash: f.BlockHash}
	if f.BlockHash == nil {
		out.FromBlock = f.FromBlock.String()
		out.ToBlock = f.ToBlock.String()
	}
	return out
}

// accessListResult is the wire shape of eth_createAccessList's result.
type accessListResult struct {
	AccessList valuetype.AccessList `json:"accessList"`
	GasUsed    hexUint64            `json:"gasUsed"`
}
