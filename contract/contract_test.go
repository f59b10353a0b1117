package contract

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticeeth/evmkit/abi"
	"github.com/latticeeth/evmkit/client"
	"github.com/latticeeth/evmkit/evmerr"
	"github.com/latticeeth/evmkit/hexutil"
	"github.com/latticeeth/evmkit/jsonrpc"
	"github.com/latticeeth/evmkit/valuetype"
)

var (
	balanceOfMethod = Method{Name: "balanceOf", Inputs: []abi.Type{abi.AddressT}, Outputs: []abi.Type{abi.Uint(256)}, Mutability: View}
	nameMethod      = Method{Name: "name", Outputs: []abi.Type{abi.StringT}, Mutability: View}
	transferMethod  = Method{Name: "transfer", Inputs: []abi.Type{abi.AddressT, abi.Uint(256)}, Outputs: []abi.Type{abi.BoolT}, Mutability: NonView}
)

func encodeUint256(t *testing.T, n int64) []byte {
	t.Helper()
	v, err := abi.Encode([]abi.Value{big.NewInt(n)}, []abi.Type{abi.Uint(256)})
	require.NoError(t, err)
	return v
}

func TestBindRejectsDuplicateMethodNames(t *testing.T) {
	reader := client.NewReader(jsonrpc.NewHTTPProvider("http://unused.invalid", nil))
	_, err := Bind(valuetype.Address{}, reader, nil, []Method{balanceOfMethod, balanceOfMethod})
	require.Error(t, err)
}

func TestCallRejectsNonViewMethod(t *testing.T) {
	reader := client.NewReader(jsonrpc.NewHTTPProvider("http://unused.invalid", nil))
	c, err := Bind(valuetype.Address{}, reader, nil, []Method{transferMethod})
	require.NoError(t, err)
	_, err = c.Call(context.Background(), "transfer", valuetype.Address{}, big.NewInt(1))
	require.Error(t, err)
}

func TestSendRejectsMissingSigner(t *testing.T) {
	reader := client.NewReader(jsonrpc.NewHTTPProvider("http://unused.invalid", nil))
	c, err := Bind(valuetype.Address{}, reader, nil, []Method{transferMethod})
	require.NoError(t, err)
	_, err = c.Send(context.Background(), "transfer", SendOptions{}, valuetype.Address{}, big.NewInt(1))
	require.Error(t, err)
}

// fakeRPC answers every call with resultHex; sufficient to exercise the
// decode path without caring about which method was actually invoked.
func fakeRPC(t *testing.T, resultHex string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req jsonrpc.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		raw, _ := json.Marshal(resultHex)
		resp := jsonrpc.Response{JSONRPC: "2.0", ID: &req.ID, Result: raw}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestCallDecodesViewResult(t *testing.T) {
	srv := fakeRPC(t, hexutil.Encode(encodeUint256(t, 42)))
	defer srv.Close()

	reader := client.NewReader(jsonrpc.NewHTTPProvider(srv.URL, nil))
	c, err := Bind(valuetype.Address{}, reader, nil, []Method{balanceOfMethod})
	require.NoError(t, err)
	values, err := c.Call(context.Background(), "balanceOf", valuetype.Address{})
	require.NoError(t, err)
	got, ok := values[0].(*big.Int)
	require.True(t, ok)
	require.Equal(t, int64(42), got.Int64())
}

// aggregate3Response builds the raw ((bool,bytes)[]) encoding aggregate3
// returns, given one (success, returnData) pair per recorded call.
func aggregate3Response(t *testing.T, pairs [][2]any) []byte {
	t.Helper()
	elems := make([]abi.Value, len(pairs))
	for i, p := range pairs {
		elems[i] = []abi.Value{p[0], p[1]}
	}
	raw, err := abi.Encode([]abi.Value{elems}, aggregate3Call.outputs)
	require.NoError(t, err)
	return raw
}

func TestBatchExecuteCompletesHandlesInOrder(t *testing.T) {
	balanceData := encodeUint256(t, 7)
	nameData, err := abi.Encode([]abi.Value{"evmkit"}, []abi.Type{abi.StringT})
	require.NoError(t, err)
	revertData := []byte{0xde, 0xad, 0xbe, 0xef}

	resp := aggregate3Response(t, [][2]any{
		{true, balanceData},
		{true, nameData},
		{false, revertData},
	})
	srv := fakeRPC(t, hexutil.Encode(resp))
	defer srv.Close()

	reader := client.NewReader(jsonrpc.NewHTTPProvider(srv.URL, nil))
	c, err := Bind(valuetype.Address{}, reader, nil, []Method{balanceOfMethod, nameMethod, transferMethod})
	require.NoError(t, err)

	batch := NewBatch(reader, valuetype.Address{}, 0)
	balanceHandle, err := batch.Record(c, "balanceOf", true, valuetype.Address{})
	require.NoError(t, err)
	nameHandle, err := batch.Record(c, "name", true)
	require.NoError(t, err)
	// transfer() is nonview, but a multicall batch's recorder never sends;
	// it only needs the method's input/output schema to encode/decode.
	failHandle, err := batch.Record(c, "transfer", true, valuetype.Address{}, big.NewInt(1))
	require.NoError(t, err)

	require.NoError(t, batch.Execute(context.Background()))

	balanceValues, err := balanceHandle.Result()
	require.NoError(t, err)
	require.Equal(t, int64(7), balanceValues[0].(*big.Int).Int64())

	nameValues, err := nameHandle.Result()
	require.NoError(t, err)
	require.Equal(t, "evmkit", nameValues[0].(string))

	_, failErr := failHandle.Result()
	var revertErr *evmerr.RevertError
	require.ErrorAs(t, failErr, &revertErr)
}

func TestHandleCompleteTwicePanics(t *testing.T) {
	h := &Handle{}
	h.complete(nil, nil)
	require.Panics(t, func() { h.complete(nil, nil) })
}
