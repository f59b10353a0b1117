package wsrpc

import (
	"context"
	"encoding/json"
)

// WSProvider adapts a Reactor to jsonrpc.Provider, letting callers treat
// the WebSocket transport interchangeably with jsonrpc.HTTPProvider.
type WSProvider struct {
	reactor *Reactor
}

// NewWSProvider dials url and returns a ready-to-use Provider.
func NewWSProvider(ctx context.Context, opts Options) (*WSProvider, error) {
	r, err := Dial(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &WSProvider{reactor: r}, nil
}

func (p *WSProvider) Call(ctx context.Context, method string, params any, out any) error {
	return p.reactor.Call(ctx, method, params, out)
}

func (p *WSProvider) Subscribe(ctx context.Context, method string, params any) (<-chan json.RawMessage, func() error, error) {
	return p.reactor.Subscribe(ctx, method, params)
}

func (p *WSProvider) Close() error {
	return p.reactor.Close()
}
