package blockchain

import (
	"crypto/sha256"
	"encoding/binary"
)

func uint64ToBytes(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// HashBlock computes the deterministic content hash of a block: SHA-256
// over the big-endian encoding of index, the raw previous hash, the
// big-endian timestamp, the UTF-8 data, and the big-endian difficulty and
// nonce. The stored Hash field is not part of the input.
func HashBlock(b *Block) Hash32 {
	h := sha256.New()
	h.Write(uint64ToBytes(b.Index))
	h.Write(b.PreviousHash[:])
	h.Write(uint64ToBytes(uint64(b.Timestamp)))
	h.Write([]byte(b.Data))
	h.Write(uint64ToBytes(b.Difficulty))
	h.Write(uint64ToBytes(b.Nonce))
	var hash Hash32
	copy(hash[:], h.Sum(nil))
	return hash
}
