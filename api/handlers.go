package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MineBlockRequest is the body of POST /mineBlock.
type MineBlockRequest struct {
	Data string `json:"data"`
}

// AddPeerRequest is the body of POST /addPeer.
type AddPeerRequest struct {
	Peer string `json:"peer" binding:"required"`
}

// handleBlocks returns the full chain, genesis first.
// GET /blocks
func (s *Server) handleBlocks(c *gin.Context) {
	c.JSON(http.StatusOK, s.node.Chain())
}

// handleLatestBlock returns the tip block.
// GET /blocks/latest
func (s *Server) handleLatestBlock(c *gin.Context) {
	c.JSON(http.StatusOK, s.node.Tip())
}

// handleMineBlock mines a block with the supplied payload and returns it.
// Mining blocks the request until the nonce search completes.
// POST /mineBlock
func (s *Server) handleMineBlock(c *gin.Context) {
	var req MineBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	block, err := s.node.MineBlock(req.Data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, block)
}

// handlePeers returns the registered peer addresses.
// GET /peers
func (s *Server) handlePeers(c *gin.Context) {
	c.JSON(http.StatusOK, s.node.Peers())
}

// handleAddPeer registers a peer by address and performs the sync
// handshake. A connection failure is the caller's problem to hear about;
// existing peers and the ledger are unaffected.
// POST /addPeer
func (s *Server) handleAddPeer(c *gin.Context) {
	var req AddPeerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.node.AddPeer(req.Peer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"peer": req.Peer})
}
