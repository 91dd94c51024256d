package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"goncoin/blockchain"
	"goncoin/logging"
)

// Node is the control surface the HTTP layer drives. It is implemented by
// node.FullNode; the interface keeps this package free of the node import.
type Node interface {
	MineBlock(data string) (blockchain.Block, error)
	Chain() blockchain.Chain
	Tip() blockchain.Block
	Peers() []string
	AddPeer(address string) error
}

// Server is the HTTP control surface used by an operator to inspect the
// chain, request mining, and register peers.
type Server struct {
	node   Node
	addr   string
	engine *gin.Engine
}

// The gin mode is package global and read by every running engine, so it
// must be set exactly once, before the first engine is built.
func init() {
	gin.SetMode(gin.ReleaseMode)
}

// NewServer creates the API server and wires its routes.
func NewServer(node Node, host string, port int) *Server {
	s := &Server{
		node:   node,
		addr:   fmt.Sprintf("%s:%d", host, port),
		engine: gin.New(),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(requestLogger())
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	s.engine.GET("/blocks", s.handleBlocks)
	s.engine.GET("/blocks/latest", s.handleLatestBlock)
	s.engine.POST("/mineBlock", s.handleMineBlock)
	s.engine.GET("/peers", s.handlePeers)
	s.engine.POST("/addPeer", s.handleAddPeer)
}

// Engine returns the underlying gin engine, used by tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start serves HTTP requests, blocking until the server exits.
func (s *Server) Start() error {
	logging.Infof("api server listening on %s", s.addr)
	return s.engine.Run(s.addr)
}

// requestLogger logs each request through the shared leveled logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Debugf("%s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
