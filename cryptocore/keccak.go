package cryptocore

import "github.com/latticeeth/evmkit/hexutil"

func keccak256(b []byte) [32]byte {
	return hexutil.Keccak256(b)
}
