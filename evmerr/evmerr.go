// Package evmerr implements the toolkit's sealed error taxonomy: one
// concrete type per failure kind spec.md §7 names, each matchable with
// errors.As and carrying whatever payload its kind needs (an RPC code, a
// decoded revert, a chain id mismatch, the ordered causes behind a retry
// exhaustion).
//
// Grounded on signers/evm/client.go's fmt.Errorf("...: %w", err) wrapping
// idiom; generalized from ad-hoc wrapped strings into named types so
// callers can branch on failure kind instead of parsing messages.
package evmerr

import (
	"fmt"
	"strings"

	"github.com/latticeeth/evmkit/abi"
	"github.com/latticeeth/evmkit/valuetype"
)

// AbiEncodingError reports that caller-supplied values could not be laid
// out under a schema (type mismatch, width overflow, negative in unsigned,
// wrong tuple arity).
type AbiEncodingError struct {
	Reason string
	Cause  error
}

func (e *AbiEncodingError) Error() string {
	return fmt.Sprintf("evmkit: abi encoding: %s", e.Reason)
}
func (e *AbiEncodingError) Unwrap() error { return e.Cause }

// NewAbiEncoding wraps cause as an AbiEncodingError.
func NewAbiEncoding(cause error) *AbiEncodingError {
	return &AbiEncodingError{Reason: cause.Error(), Cause: cause}
}

// AbiDecodingError reports that a node response could not be parsed under
// the declared schema (offset out of bounds, unpadded tail, wrong
// selector).
type AbiDecodingError struct {
	Reason string
	Cause  error
}

func (e *AbiDecodingError) Error() string {
	return fmt.Sprintf("evmkit: abi decoding: %s", e.Reason)
}
func (e *AbiDecodingError) Unwrap() error { return e.Cause }

// NewAbiDecoding wraps cause as an AbiDecodingError.
func NewAbiDecoding(cause error) *AbiDecodingError {
	return &AbiDecodingError{Reason: cause.Error(), Cause: cause}
}

// RpcError is a JSON-RPC error frame: (code, message, data?).
type RpcError struct {
	Code    int
	Message string
	Data    []byte // raw JSON, nil if absent
}

func (e *RpcError) Error() string {
	if len(e.Data) == 0 {
		return fmt.Sprintf("evmkit: rpc error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("evmkit: rpc error %d: %s (data: %s)", e.Code, e.Message, e.Data)
}

// retryableCodes are the JSON-RPC error codes the retry policy treats as
// I/O-class rather than semantic (spec.md §6's RpcRetry policy). -32016, a
// timeout-class code some nodes emit without revert data, is added on top
// of the original -32000/-32005/-32603 set as a deliberate
// Open Question resolution (see SPEC_FULL.md §9).
var retryableCodes = map[int]bool{
	-32000: true,
	-32005: true,
	-32603: true,
	-32016: true,
}

// Retryable reports whether this RPC error is retryable per the retry
// policy: no revert data present, and the code is in the retryable set.
func (e *RpcError) Retryable() bool {
	if len(e.Data) > 0 {
		return false
	}
	return retryableCodes[e.Code]
}

// RevertError wraps a decoded EVM revert: kind in
// {ERROR, PANIC, CUSTOM, UNKNOWN}, an optional human reason, and the raw
// payload.
type RevertError struct {
	Decoded abi.Revert
}

func (e *RevertError) Error() string {
	switch e.Decoded.Kind {
	case abi.RevertError:
		return fmt.Sprintf("evmkit: reverted: %s", e.Decoded.Reason)
	case abi.RevertPanic:
		return fmt.Sprintf("evmkit: reverted: panic %#x (%s)", e.Decoded.PanicCode, e.Decoded.PanicReason)
	case abi.RevertCustom:
		return fmt.Sprintf("evmkit: reverted: custom error, %d byte payload", len(e.Decoded.Raw))
	default:
		return "evmkit: reverted: no revert data"
	}
}

// NewRevert decodes payload and wraps it.
func NewRevert(payload []byte) *RevertError {
	return &RevertError{Decoded: abi.DecodeRevert(payload)}
}

// TransactionError is the non-sealed catch-all for transaction
// construction failures: missing from, missing to/data, gas too low.
type TransactionError struct {
	Reason string
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("evmkit: transaction: %s", e.Reason)
}

// ChainMismatchError reports a user-supplied chain id disagreeing with the
// cached or node-reported one.
type ChainMismatchError struct {
	Expected uint64
	Got      uint64
}

func (e *ChainMismatchError) Error() string {
	return fmt.Sprintf("evmkit: chain id mismatch: expected %d, got %d", e.Expected, e.Got)
}

// InvalidSenderError reports that the signer's address differs from the
// request's `from` field after nonce commitment.
type InvalidSenderError struct {
	Expected valuetype.Address
	Got      valuetype.Address
}

func (e *InvalidSenderError) Error() string {
	return fmt.Sprintf("evmkit: invalid sender: expected %s, signer is %s", e.Expected, e.Got)
}

// TimeoutError reports that a per-request timeout elapsed before a
// response arrived.
type TimeoutError struct{}

func (e *TimeoutError) Error() string { return "evmkit: request timed out" }

// CancelledError reports that the caller's context was cancelled before
// completion.
type CancelledError struct{}

func (e *CancelledError) Error() string { return "evmkit: request cancelled" }

// BackpressureError reports that the slot a new request's id maps to is
// still held by an in-flight request.
type BackpressureError struct {
	SlotIndex int
	Occupancy int
}

func (e *BackpressureError) Error() string {
	return fmt.Sprintf("evmkit: backpressure: slot %d occupied (occupancy %d)", e.SlotIndex, e.Occupancy)
}

// ConnectionLostError reports that the transport's underlying connection
// failed while requests were outstanding.
type ConnectionLostError struct {
	Cause error
}

func (e *ConnectionLostError) Error() string {
	if e.Cause == nil {
		return "evmkit: connection lost"
	}
	return fmt.Sprintf("evmkit: connection lost: %s", e.Cause)
}
func (e *ConnectionLostError) Unwrap() error { return e.Cause }

// ClosedError reports that the transport was closed while a request was
// outstanding (or a request arrived after close).
type ClosedError struct{}

func (e *ClosedError) Error() string { return "evmkit: transport closed" }

// InvalidatedError reports use of a resource (typically a PrivateKey)
// after it was explicitly destroyed.
type InvalidatedError struct{}

func (e *InvalidatedError) Error() string { return "evmkit: resource invalidated" }

// RetryExhaustedError reports that a retry policy ran out of attempts; it
// carries the ordered list of causes, one per attempt.
type RetryExhaustedError struct {
	Attempts []error
}

func (e *RetryExhaustedError) Error() string {
	reasons := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		reasons[i] = a.Error()
	}
	return fmt.Sprintf("evmkit: retries exhausted after %d attempts: %s", len(e.Attempts), strings.Join(reasons, "; "))
}

// Unwrap exposes the final attempt's cause, so errors.Is/As can still see
// through to e.g. an underlying *RevertError.
func (e *RetryExhaustedError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1]
}
