package blockchain

import "time"

// FindNonce runs the proof-of-work search for a candidate block whose
// nonce and hash are not yet set. It increments the nonce from zero until
// the content hash satisfies the block's declared difficulty. The search
// is unbounded CPU work and takes no locks; callers mine against a
// snapshot of the tip and reconcile at append time.
func FindNonce(b Block) (uint64, Hash32) {
	b.Nonce = 0
	for {
		hash := HashBlock(&b)
		if HashMeetsDifficulty(hash, b.Difficulty) {
			return b.Nonce, hash
		}
		b.Nonce++
	}
}

// NextBlock builds and mines a block extending the given chain's tip with
// the supplied payload. A zero timestamp means "now". The returned block
// is sealed: nonce found, hash computed, difficulty set to what the
// adjustment policy requires for this chain.
func NextBlock(chain Chain, data string, timestamp int64) Block {
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}

	tip := chain.Tip()
	b := Block{
		Index:        tip.Index + 1,
		PreviousHash: tip.Hash,
		Timestamp:    timestamp,
		Data:         data,
		Difficulty:   RequiredDifficulty(chain),
	}
	b.Nonce, b.Hash = FindNonce(b)
	return b
}
