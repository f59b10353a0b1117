package valuetype

// TransactionRequest is the unsigned call/write request shape shared by
// eth_call, eth_estimateGas, eth_createAccessList, and the write path.
// Pointer fields are optional; nil means "let the node/gas strategy decide."
type TransactionRequest struct {
	From                 *Address
	To                   *Address // nil for contract creation
	Gas                  *uint64
	GasPrice             *Wei
	MaxFeePerGas         *Wei
	MaxPriorityFeePerGas *Wei
	Value                *Wei
	Data                 HexData
	AccessList           AccessList
	Nonce                *uint64
	ChainID              *uint64
}

// Clone returns a defensive deep copy.
func (r TransactionRequest) Clone() TransactionRequest {
	clone := r
	clone.Data = NewHexData(r.Data.Bytes())
	if r.From != nil {
		v := *r.From
		clone.From = &v
	}
	if r.To != nil {
		v := *r.To
		clone.To = &v
	}
	if r.Gas != nil {
		v := *r.Gas
		clone.Gas = &v
	}
	if r.GasPrice != nil {
		v := *r.GasPrice
		clone.GasPrice = &v
	}
	if r.MaxFeePerGas != nil {
		v := *r.MaxFeePerGas
		clone.MaxFeePerGas = &v
	}
	if r.MaxPriorityFeePerGas != nil {
		v := *r.MaxPriorityFeePerGas
		clone.MaxPriorityFeePerGas = &v
	}
	if r.Value != nil {
		v := *r.Value
		clone.Value = &v
	}
	if r.Nonce != nil {
		v := *r.Nonce
		clone.Nonce = &v
	}
	if r.ChainID != nil {
		v := *r.ChainID
		clone.ChainID = &v
	}
	if r.AccessList != nil {
		al := make(AccessList, len(r.AccessList))
		for i, e := range r.AccessList {
			al[i] = AccessListEntry{Address: e.Address, StorageKeys: append([]Hash(nil), e.StorageKeys...)}
		}
		clone.AccessList = al
	}
	return clone
}
