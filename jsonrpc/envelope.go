// Package jsonrpc implements the JSON-RPC 2.0 wire shapes spec.md §6
// describes and a Provider interface both the HTTP and WebSocket
// transports satisfy.
//
// Grounded on other_examples' rpctypes-types.go (hexutil.Bytes/Uint64 wire
// conventions) and the generic rpc.Client / typed ethclient.Client split in
// ethereum-go-ethereum__ethclient-ethclient.go.go.
package jsonrpc

import "encoding/json"

// Request is one JSON-RPC 2.0 call: {"jsonrpc":"2.0","method":"<m>","params":[...],"id":<n>}.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      uint64          `json:"id"`
}

// NewRequest marshals params into a Request ready to serialize.
func NewRequest(id uint64, method string, params any) (Request, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return Request{}, err
	}
	return Request{JSONRPC: "2.0", Method: method, Params: raw, ID: id}, nil
}

// ErrorObject is the JSON-RPC 2.0 error object: (code, message, data?).
type ErrorObject struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Response is a JSON-RPC 2.0 reply, carrying either Result or Error.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
	ID      *uint64         `json:"id"`
}

// Notification is a subscription push:
// {"jsonrpc":"2.0","method":"eth_subscription","params":{"subscription":"<id>","result":<...>}}.
// It carries no "id", distinguishing it from a Response at decode time.
type Notification struct {
	JSONRPC string             `json:"jsonrpc"`
	Method  string             `json:"method"`
	Params  NotificationParams `json:"params"`
}

// NotificationParams is the inner {"subscription":"<id>","result":<...>} shape.
type NotificationParams struct {
	Subscription string          `json:"subscription"`
	Result       json.RawMessage `json:"result"`
}

// frameProbe is used to sniff an inbound frame's shape before committing to
// full Response or Notification decoding: spec.md §4.5 routes on the
// presence of "id" vs "method"+"params".
type frameProbe struct {
	ID     *uint64 `json:"id"`
	Method string  `json:"method"`
}

// FrameKind discriminates an inbound WebSocket/HTTP frame.
type FrameKind int

const (
	FrameUnknown FrameKind = iota
	FrameResponse
	FrameNotification
)

// Sniff inspects raw for "id" (response) vs "method" without "id"
// (notification), without fully decoding either shape.
func Sniff(raw []byte) (FrameKind, error) {
	var p frameProbe
	if err := json.Unmarshal(raw, &p); err != nil {
		return FrameUnknown, err
	}
	if p.ID != nil {
		return FrameResponse, nil
	}
	if p.Method != "" {
		return FrameNotification, nil
	}
	return FrameUnknown, nil
}
