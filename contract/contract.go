package contract

import (
	"context"
	"fmt"

	"github.com/latticeeth/evmkit/abi"
	"github.com/latticeeth/evmkit/client"
	"github.com/latticeeth/evmkit/valuetype"
)

// Contract binds a deployed address and a table of method descriptors to a
// Reader (always required) and an optional Signer (required only for
// nonview/payable dispatch). Safe for concurrent use: Bind validates once
// and a Contract's fields never change afterward.
type Contract struct {
	address valuetype.Address
	reader  *client.Reader
	signer  *client.Signer
	methods map[string]Method
}

// Bind validates methods against spec.md §4.7's bind-time rules (every
// name unique, every schema well-formed) and returns a ready-to-call
// Contract. signer may be nil for a read-only binding; calling a
// nonview/payable method on such a binding fails at invocation time, not
// at bind time, since a caller may legitimately want a read-only view of
// a contract it never intends to write to.
func Bind(address valuetype.Address, reader *client.Reader, signer *client.Signer, methods []Method) (*Contract, error) {
	if reader == nil {
		return nil, fmt.Errorf("contract: Bind requires a non-nil reader")
	}
	table := make(map[string]Method, len(methods))
	for _, m := range methods {
		if err := m.validate(); err != nil {
			return nil, err
		}
		if _, exists := table[m.Name]; exists {
			return nil, fmt.Errorf("contract: duplicate method name %q", m.Name)
		}
		table[m.Name] = m
	}
	return &Contract{address: address, reader: reader, signer: signer, methods: table}, nil
}

// Address returns the bound contract address.
func (c *Contract) Address() valuetype.Address { return c.address }

func (c *Contract) method(name string) (Method, error) {
	m, ok := c.methods[name]
	if !ok {
		return Method{}, fmt.Errorf("contract: no method named %q bound", name)
	}
	return m, nil
}

func (c *Contract) encodeCall(m Method, args []abi.Value) ([]byte, error) {
	if len(args) != len(m.Inputs) {
		return nil, fmt.Errorf("contract: method %q expects %d argument(s), got %d", m.Name, len(m.Inputs), len(args))
	}
	return abi.Calldata(m.Name, m.Inputs, args)
}

// Call invokes a view method: encode calldata, reader.Call against LATEST,
// decode the result against the method's declared outputs.
func (c *Contract) Call(ctx context.Context, name string, args ...abi.Value) ([]abi.Value, error) {
	m, err := c.method(name)
	if err != nil {
		return nil, err
	}
	if m.Mutability != View {
		return nil, fmt.Errorf("contract: method %q is %s, not view", name, m.Mutability)
	}
	return c.call(ctx, m, args, valuetype.TagLatest)
}

// call dispatches against an arbitrary block tag, letting callers (Call
// itself, or a future historical-read helper) request something other
// than LATEST without re-validating mutability.
func (c *Contract) call(ctx context.Context, m Method, args []abi.Value, tag valuetype.BlockTag) ([]abi.Value, error) {
	data, err := c.encodeCall(m, args)
	if err != nil {
		return nil, err
	}
	to := c.address
	req := valuetype.TransactionRequest{To: &to, Data: valuetype.NewHexData(data)}
	result, err := c.reader.Call(ctx, req, tag)
	if err != nil {
		return nil, err
	}
	return abi.Decode(result.Bytes(), m.Outputs)
}

// SendOptions carries the pieces of a Send invocation that are not part of
// a method's declared shape: an optional value (only meaningful on
// Payable methods) and the polling options for the receipt wait.
type SendOptions struct {
	Value *valuetype.Wei
	Wait  client.SendAndWaitOptions
}

// Send invokes a nonview or payable method: encode calldata, build an
// EIP-1559 request via the bound Signer, broadcast and wait for the
// receipt. Fails immediately if the Contract has no Signer, or if the
// method is declared View.
func (c *Contract) Send(ctx context.Context, name string, opts SendOptions, args ...abi.Value) (valuetype.TransactionReceipt, error) {
	m, err := c.method(name)
	if err != nil {
		return valuetype.TransactionReceipt{}, err
	}
	if m.Mutability == View {
		return valuetype.TransactionReceipt{}, fmt.Errorf("contract: method %q is view, cannot Send", name)
	}
	if c.signer == nil {
		return valuetype.TransactionReceipt{}, fmt.Errorf("contract: method %q requires a Signer, but this Contract was bound read-only", name)
	}
	if opts.Value != nil && m.Mutability != Payable {
		return valuetype.TransactionReceipt{}, fmt.Errorf("contract: method %q is %s, cannot carry value", name, m.Mutability)
	}
	data, err := c.encodeCall(m, args)
	if err != nil {
		return valuetype.TransactionReceipt{}, err
	}
	to := c.address
	req := valuetype.TransactionRequest{To: &to, Data: valuetype.NewHexData(data), Value: opts.Value}
	return c.signer.SendTransactionAndWait(ctx, req, opts.Wait)
}
