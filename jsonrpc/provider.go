package jsonrpc

import (
	"context"
	"encoding/json"
)

// Provider is the transport-agnostic contract both the HTTP and WebSocket
// implementations satisfy: a blocking call/response cycle plus
// subscription management. wsrpc's reactor and jsonrpc's HTTP client are
// the two concrete implementations (spec.md §4.5/§4.5-supplement).
type Provider interface {
	// Call sends method/params and blocks for the matching response,
	// unmarshaling its result into out (nil to discard it).
	Call(ctx context.Context, method string, params any, out any) error

	// Subscribe opens an eth_subscribe stream and returns a channel of raw
	// notification results plus an unsubscribe func. HTTP providers that
	// cannot subscribe return an error immediately.
	Subscribe(ctx context.Context, method string, params any) (<-chan json.RawMessage, func() error, error)

	// Close releases transport resources. Idempotent.
	Close() error
}
