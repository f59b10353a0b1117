package valuetype

// Log is an EVM event log entry; Clone returns a defensive copy.
type Log struct {
	Address     Address
	Topics      []Hash // up to 4 entries
	Data        HexData
	BlockNumber uint64
	TxHash      Hash
	LogIndex    uint64
}

// Clone returns a defensive deep copy (slices are re-sliced fresh).
func (l Log) Clone() Log {
	topics := make([]Hash, len(l.Topics))
	copy(topics, l.Topics)
	l.Topics = topics
	l.Data = NewHexData(l.Data.Bytes())
	return l
}

// TransactionReceipt is the result of a mined transaction.
type TransactionReceipt struct {
	TxHash      Hash
	BlockHash   Hash
	BlockNumber uint64
	From        Address
	To          *Address // nil for contract-creation transactions
	Status      bool
	GasUsed     uint64
	Logs        []Log
}

// Clone returns a defensive deep copy.
func (r TransactionReceipt) Clone() TransactionReceipt {
	logs := make([]Log, len(r.Logs))
	for i, l := range r.Logs {
		logs[i] = l.Clone()
	}
	r.Logs = logs
	if r.To != nil {
		to := *r.To
		r.To = &to
	}
	return r
}
