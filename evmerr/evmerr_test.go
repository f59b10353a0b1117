package evmerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestRpcErrorRetryable(t *testing.T) {
	cases := []struct {
		code      int
		hasData   bool
		retryable bool
	}{
		{-32000, false, true},
		{-32005, false, true},
		{-32603, false, true},
		{-32016, false, true},
		{-32602, false, false}, // invalid params: not retryable
		{-32000, true, false},  // revert data present short-circuits retry
	}
	for _, c := range cases {
		e := &RpcError{Code: c.code}
		if c.hasData {
			e.Data = []byte(`"0x"`)
		}
		if got := e.Retryable(); got != c.retryable {
			t.Errorf("code=%d hasData=%v: Retryable() = %v, want %v", c.code, c.hasData, got, c.retryable)
		}
	}
}

func TestRevertErrorAsMatchable(t *testing.T) {
	var err error = NewRevert(nil)
	var revertErr *RevertError
	if !errors.As(err, &revertErr) {
		t.Fatal("expected errors.As to match *RevertError")
	}
}

func TestRetryExhaustedCarriesAttempts(t *testing.T) {
	attempts := []error{
		fmt.Errorf("attempt 1: connection refused"),
		fmt.Errorf("attempt 2: timeout"),
	}
	err := &RetryExhaustedError{Attempts: attempts}
	var retryErr *RetryExhaustedError
	if !errors.As(err, &retryErr) {
		t.Fatal("expected errors.As to match *RetryExhaustedError")
	}
	if len(retryErr.Attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(retryErr.Attempts))
	}
}

func TestChainMismatchIsMatchable(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &ChainMismatchError{Expected: 1, Got: 5})
	var mismatch *ChainMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatal("expected errors.As to match *ChainMismatchError through wrapping")
	}
	if mismatch.Expected != 1 || mismatch.Got != 5 {
		t.Fatalf("mismatch = %+v", mismatch)
	}
}
