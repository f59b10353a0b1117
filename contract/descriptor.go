// Package contract implements the typed method-descriptor binding and the
// Multicall3 batch recorder described by spec.md §4.7. It is the topmost
// facade: it knows nothing about transport, only how to turn a descriptor
// plus arguments into calldata (via abi) and how to route the result
// through a client.Reader or client.Signer.
//
// Grounded on signers/evm/client.go's ReadContract/WriteContract pair,
// generalized from two hardcoded methods into a caller-supplied descriptor
// table validated once at bind time.
package contract

import (
	"fmt"

	"github.com/latticeeth/evmkit/abi"
)

// Mutability discriminates how a method dispatches.
type Mutability int

const (
	View Mutability = iota
	NonView
	Payable
)

func (m Mutability) String() string {
	switch m {
	case View:
		return "view"
	case NonView:
		return "nonview"
	case Payable:
		return "payable"
	default:
		return "unknown"
	}
}

// Method describes one callable contract function: its ABI shape and how
// calling it should be dispatched.
type Method struct {
	Name       string
	Inputs     []abi.Type
	Outputs    []abi.Type
	Mutability Mutability
}

// selector computes the method's 4-byte function selector.
func (m Method) selector() abi.Selector {
	return abi.FunctionSelector(m.Name, m.Inputs)
}

// validate checks the descriptor's bind-time constraint: every input and
// output schema node must be well-formed. Mutability is not checked here;
// View and Payable are distinct values of one field, so no descriptor is
// both.
func (m Method) validate() error {
	for i, in := range m.Inputs {
		if err := in.Validate(); err != nil {
			return fmt.Errorf("contract: method %q input %d: %w", m.Name, i, err)
		}
	}
	for i, out := range m.Outputs {
		if err := out.Validate(); err != nil {
			return fmt.Errorf("contract: method %q output %d: %w", m.Name, i, err)
		}
	}
	return nil
}
