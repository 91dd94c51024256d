package blockchain

const (
	// BlockGenerationInterval is the target time between blocks, in seconds.
	BlockGenerationInterval = 10

	// DifficultyAdjustmentInterval is the number of blocks between
	// difficulty recalculations.
	DifficultyAdjustmentInterval = 10
)

// HashMeetsDifficulty reports whether the first difficulty bits of the
// hash, most significant first, are all zero. Difficulty 0 is always met.
func HashMeetsDifficulty(hash Hash32, difficulty uint64) bool {
	leadingZeros := uint64(0)
	for _, b := range hash {
		if b == 0 {
			leadingZeros += 8
			continue
		}
		for i := 7; i >= 0; i-- {
			if (b >> i) == 0 {
				leadingZeros++
			} else {
				break
			}
		}
		break
	}
	return leadingZeros >= difficulty
}

// RequiredDifficulty returns the difficulty the next block extending the
// chain must carry. It depends only on the existing chain so every node
// computes the same value, and it is what validation checks against rather
// than trusting the difficulty declared by a mined block.
func RequiredDifficulty(chain Chain) uint64 {
	tip := chain.Tip()
	if tip.Index%DifficultyAdjustmentInterval == 0 && tip.Index != 0 {
		return adjustedDifficulty(chain)
	}
	return tip.Difficulty
}

// adjustedDifficulty compares the time the last adjustment window actually
// took against the expected window and nudges difficulty by one step.
func adjustedDifficulty(chain Chain) uint64 {
	tip := chain.Tip()
	prevAdjustment := chain[len(chain)-DifficultyAdjustmentInterval]

	expected := int64(BlockGenerationInterval * DifficultyAdjustmentInterval)
	taken := tip.Timestamp - prevAdjustment.Timestamp

	switch {
	case taken < expected/2:
		return tip.Difficulty + 1
	case taken > expected*2:
		if tip.Difficulty == 0 {
			return 0
		}
		return tip.Difficulty - 1
	default:
		return tip.Difficulty
	}
}
