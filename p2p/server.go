package p2p

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"goncoin/blockchain"
	"goncoin/blockchain/store"
	"goncoin/logging"
)

const dialTimeout = 5 * time.Second

// Config holds P2P server configuration.
type Config struct {
	Port   string
	NodeID string
	Store  store.ChainStore
}

// Server owns the sync protocol: it listens for inbound peers, dials
// outbound ones, and runs one serialized message loop per connection.
// All cross-connection state lives behind the chain store's monitor.
type Server struct {
	config   Config
	listener net.Listener
	peers    *PeerManager
}

// NewServer creates a new P2P server.
func NewServer(config Config) *Server {
	return &Server{
		config: config,
		peers:  NewPeerManager(),
	}
}

// Start begins listening for peer connections.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", ":"+s.config.Port)
	if err != nil {
		return err
	}

	s.listener = listener
	logging.Infof("%s: p2p server listening on %s", s.config.NodeID, listener.Addr())

	go s.acceptConnections()

	return nil
}

// Stop closes the listener and every peer connection.
func (s *Server) Stop() error {
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	for _, addr := range s.peers.Addresses() {
		if p := s.peers.get(addr); p != nil {
			p.Close()
		}
	}
	return err
}

// Addr returns the listener address, useful when Port was "0".
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Peers returns the registry's current address set.
func (s *Server) Peers() []string {
	return s.peers.Addresses()
}

// Connect establishes an outbound connection to a peer address, registers
// it, and performs the sync handshake. Re-connecting an already connected
// address is a no-op. A failed dial is surfaced to the caller and is not
// retried.
func (s *Server) Connect(address string) error {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return err
	}
	if s.peers.Has(addr) {
		return nil
	}

	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to peer %s: %w", addr, err)
	}

	peer := newPeer(addr, conn)
	if !s.peers.Register(peer) {
		// Lost the race against another add of the same address.
		conn.Close()
		return nil
	}

	logging.Infof("%s: connected to peer %s", s.config.NodeID, addr)
	go s.servePeer(peer)
	return nil
}

// BroadcastLatest announces the current tip to every peer.
func (s *Server) BroadcastLatest() {
	msg, err := ResponseBlockchainMessage(blockchain.Chain{s.config.Store.Tip()})
	if err != nil {
		logging.Errorf("%s: failed to build tip broadcast: %v", s.config.NodeID, err)
		return
	}
	s.peers.Broadcast(msg)
}

// acceptConnections handles incoming peer connections.
func (s *Server) acceptConnections() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logging.Warnf("%s: failed to accept connection: %v", s.config.NodeID, err)
			continue
		}

		peer := newPeer(conn.RemoteAddr().String(), conn)
		if !s.peers.Register(peer) {
			conn.Close()
			continue
		}
		logging.Infof("%s: peer connected from %s", s.config.NodeID, peer.Address)
		go s.servePeer(peer)
	}
}

// servePeer runs the connection lifecycle: handshake, then the serialized
// receive loop. Messages from one peer are processed in arrival order;
// different peers proceed concurrently.
func (s *Server) servePeer(peer *Peer) {
	defer func() {
		peer.Close()
		s.peers.Remove(peer.Address)
		logging.Infof("%s: peer %s removed", s.config.NodeID, peer.Address)
	}()

	// Both sides of a fresh connection ask for the other's tip.
	if err := peer.Send(QueryLatestMessage()); err != nil {
		logging.Warnf("%s: handshake with %s failed: %v", s.config.NodeID, peer.Address, err)
		return
	}

	dec := json.NewDecoder(peer.conn)
	for {
		var msg Message
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				logging.Infof("%s: peer %s disconnected (idle %s)",
					s.config.NodeID, peer.Address, time.Since(peer.LastSeen()).Round(time.Millisecond))
			} else {
				logging.Warnf("%s: error decoding message from %s: %v", s.config.NodeID, peer.Address, err)
			}
			return
		}
		peer.touch()
		s.handleMessage(peer, &msg)
	}
}
