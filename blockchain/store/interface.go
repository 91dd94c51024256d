package store

import (
	"goncoin/blockchain"
)

// ChainStore holds the canonical chain. Implementations behave as a
// monitor: at most one mutation in flight, and readers never observe a
// partially updated chain.
type ChainStore interface {

	// Mutations
	AppendBlock(block blockchain.Block) error
	ReplaceChain(candidate blockchain.Chain) error

	// Getters
	Tip() blockchain.Block
	Chain() blockchain.Chain
	Height() uint64
}
