package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/sasha-s/go-deadlock"

	"goncoin/blockchain"
)

var (
	// ErrStaleTip is returned by AppendBlock when the block no longer
	// extends the current tip, typically because a peer block arrived
	// while a local mining attempt was running.
	ErrStaleTip = errors.New("block does not extend the current tip")

	// ErrChainNotLonger is returned by ReplaceChain for candidates that
	// are not strictly longer than the current chain, valid or not.
	ErrChainNotLonger = errors.New("candidate chain is not longer than the current chain")
)

// MemoryChainStore keeps the canonical chain in process memory. The
// ledger is volatile by design; restart loses it.
type MemoryChainStore struct {
	chain blockchain.Chain
	mu    deadlock.RWMutex
}

func NewMemoryChainStore() *MemoryChainStore {
	return &MemoryChainStore{
		chain: blockchain.NewChain(),
	}
}

// AppendBlock validates the block against the chain as it currently
// stands and appends it. Mining runs against a tip snapshot, so a block
// mined on a tip that has since moved comes back as ErrStaleTip and the
// caller restarts against the new tip.
func (m *MemoryChainStore) AppendBlock(block blockchain.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tip := m.chain.Tip()
	if block.Index != tip.Index+1 || block.PreviousHash != tip.Hash {
		return fmt.Errorf("%w: block %d on %s, tip is %d", ErrStaleTip, block.Index, block.PreviousHash, tip.Index)
	}
	if err := blockchain.ValidateNextBlock(m.chain, block, time.Now().Unix()); err != nil {
		return err
	}

	m.chain = append(m.chain, block)
	return nil
}

// ReplaceChain adopts the candidate as the canonical chain iff it passes
// whole-chain validation and is strictly longer than the current chain.
// Equal length is a tie and ties are never adopted. The current chain is
// untouched on any failure.
func (m *MemoryChainStore) ReplaceChain(candidate blockchain.Chain) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(candidate) <= len(m.chain) {
		return fmt.Errorf("%w: candidate %d, current %d", ErrChainNotLonger, len(candidate), len(m.chain))
	}
	if err := blockchain.ValidateChain(candidate, time.Now().Unix()); err != nil {
		return err
	}

	m.chain = candidate.Copy()
	return nil
}

func (m *MemoryChainStore) Tip() blockchain.Block {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.chain.Tip()
}

// Chain returns a copy so callers never alias the guarded slice.
func (m *MemoryChainStore) Chain() blockchain.Chain {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.chain.Copy()
}

func (m *MemoryChainStore) Height() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.chain))
}
