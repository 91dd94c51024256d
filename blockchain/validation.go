package blockchain

import (
	"errors"
	"fmt"
)

// TimestampTolerance bounds acceptable clock skew, in seconds: a block may
// not be earlier than its predecessor by more than this, nor later than
// the validator's current time by more than this.
const TimestampTolerance = 60

// The distinguishable reasons a candidate block or chain can be rejected.
var (
	ErrInvalidIndex         = errors.New("block index is not sequential")
	ErrPreviousHashMismatch = errors.New("previous hash does not match predecessor")
	ErrHashMismatch         = errors.New("stored hash does not match block contents")
	ErrInsufficientWork     = errors.New("hash does not satisfy declared difficulty")
	ErrWrongDifficulty      = errors.New("difficulty does not match adjustment policy")
	ErrTimestampOutOfRange  = errors.New("timestamp outside tolerated bounds")
	ErrNotGenesis           = errors.New("chain does not start at the genesis block")
	ErrEmptyChain           = errors.New("chain has no blocks")
)

// ValidateNextBlock checks candidate against the chain it claims to
// extend. now is the validator's current unix time. The checks mutate
// nothing; the first failing one is returned.
func ValidateNextBlock(chain Chain, candidate Block, now int64) error {
	prev := chain.Tip()

	if candidate.Index != prev.Index+1 {
		return fmt.Errorf("%w: got %d after %d", ErrInvalidIndex, candidate.Index, prev.Index)
	}
	if candidate.PreviousHash != prev.Hash {
		return fmt.Errorf("%w: got %s, tip is %s", ErrPreviousHashMismatch, candidate.PreviousHash, prev.Hash)
	}
	if HashBlock(&candidate) != candidate.Hash {
		return fmt.Errorf("%w: block %d", ErrHashMismatch, candidate.Index)
	}
	if !HashMeetsDifficulty(candidate.Hash, candidate.Difficulty) {
		return fmt.Errorf("%w: difficulty %d, hash %s", ErrInsufficientWork, candidate.Difficulty, candidate.Hash)
	}
	if required := RequiredDifficulty(chain); candidate.Difficulty != required {
		return fmt.Errorf("%w: declared %d, required %d", ErrWrongDifficulty, candidate.Difficulty, required)
	}
	if candidate.Timestamp < prev.Timestamp-TimestampTolerance || candidate.Timestamp > now+TimestampTolerance {
		return fmt.Errorf("%w: block %d at %d, previous %d, now %d",
			ErrTimestampOutOfRange, candidate.Index, candidate.Timestamp, prev.Timestamp, now)
	}
	return nil
}

// ValidateChain checks a whole candidate chain: the first block must equal
// the canonical genesis block exactly, and every later block must pass
// ValidateNextBlock against its prefix. A chain failing any step is
// rejected wholesale.
func ValidateChain(chain Chain, now int64) error {
	if len(chain) == 0 {
		return ErrEmptyChain
	}
	if chain[0] != genesisBlock {
		return ErrNotGenesis
	}
	for i := 1; i < len(chain); i++ {
		if err := ValidateNextBlock(chain[:i], chain[i], now); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}
	return nil
}
