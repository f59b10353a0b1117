package client

import (
	"context"
	"fmt"

	"github.com/latticeeth/evmkit/valuetype"
)

// GasBuffer is the multiplier applied to an eth_estimateGas result per
// spec.md §4.6 ("multiply the estimate by a configurable buffer, default
// 1.2x"), mirroring signers/evm/client.go's
// `gasLimit = uint64(float64(gasLimit) * 1.2)`.
const GasBuffer = 1.2

// gasPlan is priceGas's result: either a priced EIP-1559 fee pair or a
// legacy gas price, chosen by whether the node reports a base fee.
type gasPlan struct {
	GasLimit    uint64
	Legacy      bool
	GasPrice    valuetype.Wei // set when Legacy
	MaxFee      valuetype.Wei // set when !Legacy
	MaxPriority valuetype.Wei // set when !Legacy
}

// priceGas implements the EIP-1559 gas strategy: estimate (if unset),
// buffer, then derive max_fee/max_priority_fee from the latest base fee.
// If the node reports no base fee (pre-London or field absent), falls back
// to a legacy gas price instead of failing, per spec.md §4.6.
func (s *Signer) priceGas(ctx context.Context, req valuetype.TransactionRequest) (gasPlan, error) {
	var plan gasPlan

	if req.Gas != nil {
		plan.GasLimit = *req.Gas
	} else {
		estimate, err := s.EstimateGas(ctx, req)
		if err != nil {
			return gasPlan{}, err
		}
		plan.GasLimit = uint64(float64(estimate) * GasBuffer)
	}

	if req.MaxFeePerGas != nil && req.MaxPriorityFeePerGas != nil {
		plan.MaxFee = *req.MaxFeePerGas
		plan.MaxPriority = *req.MaxPriorityFeePerGas
		return plan, nil
	}

	block, err := s.LatestBlock(ctx)
	if err != nil {
		return gasPlan{}, err
	}
	if block.BaseFeePerGas == nil {
		gasPrice, err := s.LegacyGasPrice(ctx)
		if err != nil {
			return gasPlan{}, err
		}
		plan.Legacy = true
		plan.GasPrice = gasPrice
		if req.GasPrice != nil {
			plan.GasPrice = *req.GasPrice
		}
		return plan, nil
	}

	priority := req.MaxPriorityFeePerGas
	if priority == nil {
		defaultTip := valuetype.OneGwei
		priority = &defaultTip
	}
	plan.MaxPriority = *priority
	plan.MaxFee = block.BaseFeePerGas.Mul64(2).Add(plan.MaxPriority)
	if req.MaxFeePerGas != nil {
		plan.MaxFee = *req.MaxFeePerGas
	}
	return plan, nil
}

// LegacyGasPrice reads eth_gasPrice, used by the legacy-transaction
// fallback path when a node has no EIP-1559 base fee.
func (r *Reader) LegacyGasPrice(ctx context.Context) (valuetype.Wei, error) {
	var raw hexBig
	if err := r.provider.Call(ctx, "eth_gasPrice", []any{}, &raw); err != nil {
		return valuetype.ZERO, fmt.Errorf("client: eth_gasPrice: %w", err)
	}
	return weiFromHexBig(&raw), nil
}
