package jsonrpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/latticeeth/evmkit/evmerr"
)

func TestSniffResponseVsNotification(t *testing.T) {
	kind, err := Sniff([]byte(`{"jsonrpc":"2.0","result":"0x1","id":1}`))
	if err != nil || kind != FrameResponse {
		t.Fatalf("kind=%v err=%v, want FrameResponse", kind, err)
	}
	kind, err = Sniff([]byte(`{"jsonrpc":"2.0","method":"eth_subscription","params":{"subscription":"0xabc","result":{}}}`))
	if err != nil || kind != FrameNotification {
		t.Fatalf("kind=%v err=%v, want FrameNotification", kind, err)
	}
}

func TestHTTPProviderCallSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Method != "eth_chainId" {
			t.Fatalf("method = %s", req.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		resp := Response{JSONRPC: "2.0", Result: json.RawMessage(`"0x7a69"`), ID: &req.ID}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, nil)
	defer p.Close()

	var result string
	if err := p.Call(context.Background(), "eth_chainId", []any{}, &result); err != nil {
		t.Fatal(err)
	}
	if result != "0x7a69" {
		t.Fatalf("result = %s", result)
	}
}

func TestHTTPProviderCallPropagatesRpcError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		_ = json.NewDecoder(r.Body).Decode(&req)
		resp := Response{
			JSONRPC: "2.0",
			Error:   &ErrorObject{Code: -32602, Message: "invalid params"},
			ID:      &req.ID,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, nil)
	defer p.Close()

	err := p.Call(context.Background(), "eth_call", []any{}, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	rpcErr, ok := err.(*evmerr.RpcError)
	if !ok {
		t.Fatalf("expected *evmerr.RpcError, got %T", err)
	}
	if rpcErr.Code != -32602 || rpcErr.Retryable() {
		t.Fatalf("rpcErr = %+v, want non-retryable -32602", rpcErr)
	}
}

func TestHTTPProviderSubscribeUnsupported(t *testing.T) {
	p := NewHTTPProvider("http://example.invalid", nil)
	defer p.Close()
	if _, _, err := p.Subscribe(context.Background(), "eth_subscribe", []any{"newHeads"}); err == nil {
		t.Fatal("expected HTTPProvider.Subscribe to error")
	}
}
