package p2p

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sasha-s/go-deadlock"

	"goncoin/logging"
)

// Peer is one live connection. The registry owns the handle; the protocol
// borrows it to send and receive. There is no identity beyond the
// connection itself.
type Peer struct {
	Address string

	conn   net.Conn
	enc    *json.Encoder
	sendMu deadlock.Mutex

	seenMu   deadlock.Mutex
	lastSeen time.Time
}

func newPeer(address string, conn net.Conn) *Peer {
	return &Peer{
		Address:  address,
		conn:     conn,
		enc:      json.NewEncoder(conn),
		lastSeen: time.Now(),
	}
}

// touch records message arrival; the receive loop calls it, the registry
// and diagnostics read it through LastSeen.
func (p *Peer) touch() {
	p.seenMu.Lock()
	p.lastSeen = time.Now()
	p.seenMu.Unlock()
}

// LastSeen returns when the peer last delivered a message, or when the
// connection was established if it never has.
func (p *Peer) LastSeen() time.Time {
	p.seenMu.Lock()
	defer p.seenMu.Unlock()
	return p.lastSeen
}

// Send writes one message to the peer. Writes are serialized per peer so
// concurrent broadcasts cannot interleave JSON documents.
func (p *Peer) Send(msg *Message) error {
	p.sendMu.Lock()
	defer p.sendMu.Unlock()
	return p.enc.Encode(msg)
}

func (p *Peer) Close() {
	p.conn.Close()
}

// NormalizeAddress accepts scheme://host:port or bare host:port and
// returns the host:port registry key.
func NormalizeAddress(address string) (string, error) {
	addr := address
	if i := strings.Index(addr, "://"); i >= 0 {
		addr = addr[i+3:]
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", fmt.Errorf("invalid peer address %q: %w", address, err)
	}
	return addr, nil
}

// PeerManager tracks the set of live peer connections keyed by address.
type PeerManager struct {
	mu    deadlock.RWMutex
	peers map[string]*Peer
}

func NewPeerManager() *PeerManager {
	return &PeerManager{
		peers: make(map[string]*Peer),
	}
}

// Register adds a peer. Returns false when the address is already
// connected, which makes repeated addPeer calls a no-op.
func (pm *PeerManager) Register(peer *Peer) bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if _, ok := pm.peers[peer.Address]; ok {
		return false
	}
	pm.peers[peer.Address] = peer
	return true
}

func (pm *PeerManager) Remove(address string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.peers, address)
}

func (pm *PeerManager) get(address string) *Peer {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.peers[address]
}

func (pm *PeerManager) Has(address string) bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	_, ok := pm.peers[address]
	return ok
}

// Addresses returns the current peer address set.
func (pm *PeerManager) Addresses() []string {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	addrs := make([]string, 0, len(pm.peers))
	for addr := range pm.peers {
		addrs = append(addrs, addr)
	}
	return addrs
}

func (pm *PeerManager) Count() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// Broadcast sends a message to every live peer, best effort. A failed
// send is logged and does not affect delivery to the remaining peers or
// any local state.
func (pm *PeerManager) Broadcast(msg *Message) {
	pm.mu.RLock()
	peers := make([]*Peer, 0, len(pm.peers))
	for _, p := range pm.peers {
		peers = append(peers, p)
	}
	pm.mu.RUnlock()

	for _, peer := range peers {
		go func(p *Peer) {
			if err := p.Send(msg); err != nil {
				logging.Warnf("Failed to send %s to peer %s: %v", msg.Type, p.Address, err)
			}
		}(peer)
	}
}
