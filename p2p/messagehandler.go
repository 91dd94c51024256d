package p2p

import (
	"goncoin/blockchain"
	"goncoin/logging"
)

// handleMessage dispatches one inbound message per the sync protocol.
func (s *Server) handleMessage(peer *Peer, msg *Message) {
	switch msg.Type {
	case MessageTypeQueryLatest:
		s.reply(peer, blockchain.Chain{s.config.Store.Tip()})

	case MessageTypeQueryAll:
		s.reply(peer, s.config.Store.Chain())

	case MessageTypeResponseBlockchain:
		var blocks blockchain.Chain
		if err := msg.ParsePayload(&blocks); err != nil {
			logging.Warnf("%s: invalid blocks received from %s: %v", s.config.NodeID, peer.Address, err)
			return
		}
		s.handleBlockchainResponse(peer, blocks)

	default:
		logging.Warnf("%s: unknown message type %q from %s", s.config.NodeID, msg.Type, peer.Address)
	}
}

func (s *Server) reply(peer *Peer, blocks blockchain.Chain) {
	msg, err := ResponseBlockchainMessage(blocks)
	if err != nil {
		logging.Errorf("%s: failed to build response: %v", s.config.NodeID, err)
		return
	}
	if err := peer.Send(msg); err != nil {
		logging.Warnf("%s: failed to reply to %s: %v", s.config.NodeID, peer.Address, err)
	}
}

// handleBlockchainResponse reconciles a received chain fragment against
// the local chain. A single block is the common tip notification; a
// longer fragment is a full chain offered for replacement.
func (s *Server) handleBlockchainResponse(peer *Peer, blocks blockchain.Chain) {
	if len(blocks) == 0 {
		logging.Warnf("%s: received blockchain of size 0 from %s", s.config.NodeID, peer.Address)
		return
	}

	latestReceived := blocks.Tip()
	latestHeld := s.config.Store.Tip()

	if latestReceived.Index <= latestHeld.Index {
		logging.Debugf("%s: received chain is not ahead of ours (have %d, got %d), nothing to do",
			s.config.NodeID, latestHeld.Index, latestReceived.Index)
		return
	}

	if len(blocks) == 1 {
		block := blocks[0]
		if block.PreviousHash != latestHeld.Hash {
			// The peer is further ahead than one block; ask for
			// everything it has.
			logging.Infof("%s: behind peer %s (have %d, peer at %d), querying full chain",
				s.config.NodeID, peer.Address, latestHeld.Index, block.Index)
			if err := peer.Send(QueryAllMessage()); err != nil {
				logging.Warnf("%s: failed to query chain from %s: %v", s.config.NodeID, peer.Address, err)
			}
			return
		}

		if err := s.config.Store.AppendBlock(block); err != nil {
			logging.Warnf("%s: rejected block %d from %s: %v", s.config.NodeID, block.Index, peer.Address, err)
			return
		}
		logging.Infof("%s: appended block %d from %s", s.config.NodeID, block.Index, peer.Address)
		s.BroadcastLatest()
		return
	}

	if err := s.config.Store.ReplaceChain(blocks); err != nil {
		logging.Infof("%s: received chain from %s not adopted: %v", s.config.NodeID, peer.Address, err)
		return
	}
	logging.Infof("%s: adopted chain of length %d from %s", s.config.NodeID, len(blocks), peer.Address)
	s.BroadcastLatest()
}
