package client

import (
	"context"
	"fmt"
	"time"

	"github.com/latticeeth/evmkit/cryptocore"
	"github.com/latticeeth/evmkit/evmerr"
	"github.com/latticeeth/evmkit/hexutil"
	"github.com/latticeeth/evmkit/jsonrpc"
	"github.com/latticeeth/evmkit/txtypes"
	"github.com/latticeeth/evmkit/valuetype"
)

// Signer pairs a Reader with a private key: it builds, gas-prices, signs,
// broadcasts, and (optionally) waits for transactions. Grounded on
// signers/evm/client.go's ClientSigner, split here so read-only callers
// never need a key at all.
type Signer struct {
	*Reader
	key *cryptocore.PrivateKey
}

// NewSigner pairs provider with key under one Reader/Signer facade.
func NewSigner(provider jsonrpc.Provider, key *cryptocore.PrivateKey) *Signer {
	return &Signer{Reader: NewReader(provider), key: key}
}

// Address returns the signer's Ethereum address.
func (s *Signer) Address() (valuetype.Address, error) {
	return s.key.Address()
}

// SendTransaction builds, gas-prices (if unset), signs, and broadcasts req,
// returning the transaction hash. Does not wait for inclusion.
func (s *Signer) SendTransaction(ctx context.Context, req valuetype.TransactionRequest) (valuetype.Hash, error) {
	tx, err := s.buildTransaction(ctx, req)
	if err != nil {
		return valuetype.Hash{}, err
	}
	raw, _, err := tx.Sign(s.key)
	if err != nil {
		return valuetype.Hash{}, fmt.Errorf("client: sign transaction: %w", err)
	}
	var txHashHex string
	if err := s.provider.Call(ctx, "eth_sendRawTransaction", []any{hexutil.Encode(raw)}, &txHashHex); err != nil {
		return valuetype.Hash{}, err
	}
	hash, err := valuetype.ParseHash(txHashHex)
	if err != nil {
		return valuetype.Hash{}, fmt.Errorf("client: decode tx hash: %w", err)
	}
	return hash, nil
}

// SendAndWaitOptions configures send_transaction_and_wait's polling loop.
type SendAndWaitOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

func (o SendAndWaitOptions) withDefaults() SendAndWaitOptions {
	if o.Timeout <= 0 {
		o.Timeout = 2 * time.Minute
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 2 * time.Second
	}
	return o
}

// SendTransactionAndWait broadcasts req and polls until it is mined,
// replaying a failed transaction as a historical eth_call to recover the
// revert reason. Grounded on signers/evm/client.go's
// WaitForTransactionReceipt ticker loop, extended with the replay step
// spec.md §4.6 requires.
func (s *Signer) SendTransactionAndWait(ctx context.Context, req valuetype.TransactionRequest, opts SendAndWaitOptions) (valuetype.TransactionReceipt, error) {
	opts = opts.withDefaults()
	hash, err := s.SendTransaction(ctx, req)
	if err != nil {
		return valuetype.TransactionReceipt{}, err
	}

	deadline := time.Now().Add(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return valuetype.TransactionReceipt{}, &evmerr.CancelledError{}
		case <-ticker.C:
			if time.Now().After(deadline) {
				return valuetype.TransactionReceipt{}, &evmerr.TimeoutError{}
			}
			receipt, err := s.Receipt(ctx, hash)
			if err != nil {
				return valuetype.TransactionReceipt{}, err
			}
			if receipt == nil {
				continue
			}
			if receipt.Status {
				return *receipt, nil
			}
			return valuetype.TransactionReceipt{}, s.replayFailure(ctx, req, *receipt)
		}
	}
}

// replayFailure re-executes the original request as a historical eth_call
// at the receipt's block to recover the revert payload.
func (s *Signer) replayFailure(ctx context.Context, req valuetype.TransactionRequest, receipt valuetype.TransactionReceipt) error {
	_, err := s.Call(ctx, req, valuetype.TagNumber(receipt.BlockNumber))
	if err != nil {
		return err // already a *evmerr.RevertError via wrapRevertIfPresent, or an Rpc error
	}
	return evmerr.NewRevert(nil) // replay unexpectedly succeeded; Decoded.Kind is RevertUnknown
}

// buildTransaction fills in chain id, nonce, gas limit, and EIP-1559 fees
// per the gas strategy, producing a ready-to-sign txtypes.Transaction.
func (s *Signer) buildTransaction(ctx context.Context, req valuetype.TransactionRequest) (*txtypes.Transaction, error) {
	if err := s.checkChainID(ctx, req.ChainID); err != nil {
		return nil, err
	}
	chainID, err := s.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	from, err := s.key.Address()
	if err != nil {
		return nil, fmt.Errorf("client: signer address: %w", err)
	}
	if req.From != nil && !req.From.Equal(from) {
		return nil, &evmerr.InvalidSenderError{Expected: *req.From, Got: from}
	}

	nonce := req.Nonce
	if nonce == nil {
		n, err := s.pendingNonce(ctx, from)
		if err != nil {
			return nil, err
		}
		nonce = &n
	}

	value := valuetype.ZERO
	if req.Value != nil {
		value = *req.Value
	}

	plan, err := s.priceGas(ctx, req)
	if err != nil {
		return nil, err
	}

	tx := &txtypes.Transaction{
		Nonce:      *nonce,
		To:         req.To,
		Value:      value,
		Data:       req.Data,
		GasLimit:   plan.GasLimit,
		ChainID:    chainID,
		AccessList: req.AccessList,
	}
	if plan.Legacy {
		tx.Kind = txtypes.KindLegacy
		tx.GasPrice = plan.GasPrice
	} else {
		tx.Kind = txtypes.KindEip1559
		tx.MaxPriorityFee = plan.MaxPriority
		tx.MaxFee = plan.MaxFee
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *Signer) pendingNonce(ctx context.Context, addr valuetype.Address) (uint64, error) {
	var raw hexUint64
	if err := s.provider.Call(ctx, "eth_getTransactionCount", []any{addr, "pending"}, &raw); err != nil {
		return 0, err
	}
	return uint64(raw), nil
}
