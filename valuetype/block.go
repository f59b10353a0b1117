package valuetype

// Block is the subset of block header fields the toolkit needs: enough to
// drive the EIP-1559 gas strategy's base-fee read and basic chain
// introspection. Supplemental to spec.md's hard core per SPEC_FULL.md §3.
type Block struct {
	Number        uint64
	Hash          Hash
	ParentHash    Hash
	Timestamp     uint64
	BaseFeePerGas *Wei // nil on pre-London chains
	GasLimit      uint64
	GasUsed       uint64
	Miner         Address
}

// FeeHistory is the shape of an eth_feeHistory result. No code in the module
// fetches or reads it; the gas strategy does not consult fee history.
type FeeHistory struct {
	OldestBlock   uint64
	BaseFeePerGas []Wei
	GasUsedRatio  []float64
	Reward        [][]Wei
}

// Filter describes an eth_getLogs query.
type Filter struct {
	FromBlock BlockTag
	ToBlock   BlockTag
	Addresses []Address   // empty means "any address"
	Topics    [][]Hash    // each slot is an OR-set; nil slot means "any"
	BlockHash *Hash       // mutually exclusive with From/ToBlock, node-enforced
}
