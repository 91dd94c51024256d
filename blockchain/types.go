package blockchain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash32 is a SHA-256 digest. It marshals to and from lowercase hex so the
// wire and API representations stay readable.
type Hash32 [32]byte

func (h Hash32) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash32) IsZero() bool {
	return h == Hash32{}
}

func (h Hash32) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hash32) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	// Some producers encode an absent previous hash as the empty string
	// rather than 64 zeros. Accept it; we always emit the hex form.
	if s == "" {
		*h = Hash32{}
		return nil
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hash encoding: %w", err)
	}
	if len(raw) != len(h) {
		return fmt.Errorf("invalid hash length: %d", len(raw))
	}
	copy(h[:], raw)
	return nil
}

// Block is one immutable ledger entry. Hash commits to every other field;
// blocks are never edited after being sealed by mining.
type Block struct {
	Index        uint64 `json:"index"`
	PreviousHash Hash32 `json:"previousHash"`
	Timestamp    int64  `json:"timestamp"`
	Data         string `json:"data"`
	Difficulty   uint64 `json:"difficulty"`
	Nonce        uint64 `json:"nonce"`
	Hash         Hash32 `json:"hash"`
}

// Chain is an ordered sequence of blocks from genesis to tip.
type Chain []Block

// Tip returns the last block of the chain. The chain must be non-empty,
// which holds everywhere a Chain is built through this package.
func (c Chain) Tip() Block {
	return c[len(c)-1]
}

// Copy returns a chain that shares no backing storage with c.
func (c Chain) Copy() Chain {
	out := make(Chain, len(c))
	copy(out, c)
	return out
}
