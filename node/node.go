package node

import (
	"errors"
	"fmt"
	"strconv"

	"goncoin/api"
	"goncoin/blockchain"
	"goncoin/blockchain/store"
	"goncoin/config"
	"goncoin/logging"
	"goncoin/p2p"
)

// FullNode wires the ledger, the sync protocol, and the HTTP control
// surface into one process.
type FullNode struct {
	config *config.Config

	store     store.ChainStore
	p2pServer *p2p.Server
	apiServer *api.Server
}

// New creates a node around a fresh genesis-only ledger.
func New(cfg *config.Config) *FullNode {
	n := &FullNode{
		config: cfg,
		store:  store.NewMemoryChainStore(),
	}

	n.p2pServer = p2p.NewServer(p2p.Config{
		Port:   strconv.Itoa(cfg.P2P.Port),
		NodeID: cfg.Node.ID,
		Store:  n.store,
	})
	n.apiServer = api.NewServer(n, cfg.API.Host, cfg.API.Port)

	return n
}

// Start brings up the p2p listener, dials the seed peers, and starts the
// HTTP server in the background. Seed peers that cannot be reached are
// logged and skipped; the node runs without them.
func (n *FullNode) Start() error {
	if err := n.p2pServer.Start(); err != nil {
		return fmt.Errorf("failed to start p2p server: %w", err)
	}

	for _, seed := range n.config.P2P.SeedPeers {
		if err := n.p2pServer.Connect(seed); err != nil {
			logging.Warnf("%s: seed peer unavailable: %v", n.config.Node.ID, err)
		}
	}

	go func() {
		if err := n.apiServer.Start(); err != nil {
			logging.Errorf("%s: api server stopped: %v", n.config.Node.ID, err)
		}
	}()

	logging.Infof("%s: node started, chain height %d", n.config.Node.ID, n.store.Height())
	return nil
}

// Stop shuts down the p2p server and every peer connection.
func (n *FullNode) Stop() error {
	return n.p2pServer.Stop()
}

// MineBlock mines a block carrying data on top of the current tip and
// appends it. The nonce search runs against a snapshot without holding
// the ledger lock; if a peer block moves the tip underneath the search,
// the stale result is discarded and mining restarts on the new tip. The
// adopted block is broadcast to all peers.
func (n *FullNode) MineBlock(data string) (blockchain.Block, error) {
	for {
		snapshot := n.store.Chain()
		block := blockchain.NextBlock(snapshot, data, 0)

		err := n.store.AppendBlock(block)
		if errors.Is(err, store.ErrStaleTip) {
			logging.Infof("%s: tip advanced during mining, restarting at height %d",
				n.config.Node.ID, n.store.Tip().Index)
			continue
		}
		if err != nil {
			return blockchain.Block{}, err
		}

		logging.Infof("%s: mined block %d (difficulty %d, nonce %d)",
			n.config.Node.ID, block.Index, block.Difficulty, block.Nonce)
		n.p2pServer.BroadcastLatest()
		return block, nil
	}
}

// Chain returns a copy of the canonical chain.
func (n *FullNode) Chain() blockchain.Chain {
	return n.store.Chain()
}

// Tip returns the last block of the canonical chain.
func (n *FullNode) Tip() blockchain.Block {
	return n.store.Tip()
}

// Peers returns the addresses of the currently connected peers.
func (n *FullNode) Peers() []string {
	return n.p2pServer.Peers()
}

// AddPeer connects to a peer and performs the sync handshake. Adding an
// already connected address is a no-op.
func (n *FullNode) AddPeer(address string) error {
	return n.p2pServer.Connect(address)
}

// P2PServer exposes the sync server, used by tests to reach the listener
// address when the configured port was 0.
func (n *FullNode) P2PServer() *p2p.Server {
	return n.p2pServer
}
