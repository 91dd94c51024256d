package blockchain

const (
	genesisTimestamp = 1528359030
	genesisData      = "The story begins here!"
)

// genesisBlock is the hard-coded first block shared by every node. Its
// hash is computed once at startup; difficulty 0 needs no mining.
var genesisBlock Block

func init() {
	b := Block{
		Index:        0,
		PreviousHash: Hash32{},
		Timestamp:    genesisTimestamp,
		Data:         genesisData,
		Difficulty:   0,
		Nonce:        0,
	}
	b.Hash = HashBlock(&b)
	genesisBlock = b
}

// GenesisBlock returns the canonical genesis block.
func GenesisBlock() Block {
	return genesisBlock
}

// NewChain returns a fresh genesis-only chain.
func NewChain() Chain {
	return Chain{genesisBlock}
}
