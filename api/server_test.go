package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"goncoin/blockchain"
)

// stubNode implements Node on top of a plain in-memory chain, keeping the
// HTTP tests independent of the p2p stack.
type stubNode struct {
	chain    blockchain.Chain
	peers    []string
	addErr   error
	mineErr  error
	lastData string
}

func newStubNode() *stubNode {
	return &stubNode{chain: blockchain.NewChain()}
}

func (s *stubNode) MineBlock(data string) (blockchain.Block, error) {
	if s.mineErr != nil {
		return blockchain.Block{}, s.mineErr
	}
	s.lastData = data
	b := blockchain.NextBlock(s.chain, data, 0)
	s.chain = append(s.chain, b)
	return b, nil
}

func (s *stubNode) Chain() blockchain.Chain { return s.chain }
func (s *stubNode) Tip() blockchain.Block   { return s.chain.Tip() }
func (s *stubNode) Peers() []string         { return s.peers }

func (s *stubNode) AddPeer(address string) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.peers = append(s.peers, address)
	return nil
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestGetBlocks(t *testing.T) {
	n := newStubNode()
	if _, err := n.MineBlock("payload"); err != nil {
		t.Fatal(err)
	}
	srv := NewServer(n, "127.0.0.1", 0)

	w := doRequest(t, srv, http.MethodGet, "/blocks", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var chain blockchain.Chain
	if err := json.Unmarshal(w.Body.Bytes(), &chain); err != nil {
		t.Fatalf("invalid chain response: %v", err)
	}
	if len(chain) != 2 {
		t.Errorf("chain length = %d, want 2", len(chain))
	}
	if chain[0] != blockchain.GenesisBlock() {
		t.Error("first block is not genesis")
	}
}

func TestGetLatestBlock(t *testing.T) {
	n := newStubNode()
	mined, err := n.MineBlock("tip payload")
	if err != nil {
		t.Fatal(err)
	}
	srv := NewServer(n, "127.0.0.1", 0)

	w := doRequest(t, srv, http.MethodGet, "/blocks/latest", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var got blockchain.Block
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid block response: %v", err)
	}
	if got != mined {
		t.Errorf("latest block = %+v, want the mined tip", got)
	}
}

func TestMineBlock(t *testing.T) {
	n := newStubNode()
	srv := NewServer(n, "127.0.0.1", 0)

	w := doRequest(t, srv, http.MethodPost, "/mineBlock", `{"data":"hello chain"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}

	var got blockchain.Block
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid block response: %v", err)
	}
	if got.Data != "hello chain" {
		t.Errorf("mined data = %q, want %q", got.Data, "hello chain")
	}
	if n.lastData != "hello chain" {
		t.Errorf("node received data %q", n.lastData)
	}
}

func TestMineBlockRejectsBadBody(t *testing.T) {
	srv := NewServer(newStubNode(), "127.0.0.1", 0)

	w := doRequest(t, srv, http.MethodPost, "/mineBlock", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGetPeers(t *testing.T) {
	n := newStubNode()
	n.peers = []string{"127.0.0.1:6002", "127.0.0.1:6003"}
	srv := NewServer(n, "127.0.0.1", 0)

	w := doRequest(t, srv, http.MethodGet, "/peers", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var peers []string
	if err := json.Unmarshal(w.Body.Bytes(), &peers); err != nil {
		t.Fatalf("invalid peers response: %v", err)
	}
	if len(peers) != 2 {
		t.Errorf("peers = %v, want 2 entries", peers)
	}
}

func TestAddPeer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		n := newStubNode()
		srv := NewServer(n, "127.0.0.1", 0)

		w := doRequest(t, srv, http.MethodPost, "/addPeer", `{"peer":"127.0.0.1:6002"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
		}
		if len(n.peers) != 1 || n.peers[0] != "127.0.0.1:6002" {
			t.Errorf("node peers = %v", n.peers)
		}
	})

	t.Run("connection failure surfaces as 400", func(t *testing.T) {
		n := newStubNode()
		n.addErr = errors.New("connection refused")
		srv := NewServer(n, "127.0.0.1", 0)

		w := doRequest(t, srv, http.MethodPost, "/addPeer", `{"peer":"127.0.0.1:6002"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("missing peer field rejected", func(t *testing.T) {
		srv := NewServer(newStubNode(), "127.0.0.1", 0)

		w := doRequest(t, srv, http.MethodPost, "/addPeer", `{}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

// The gin mode is process-global state read by every serving engine, so
// building additional servers must not write it. Meaningful under the
// race detector.
func TestConcurrentServerConstruction(t *testing.T) {
	srv := NewServer(newStubNode(), "127.0.0.1", 0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			NewServer(newStubNode(), "127.0.0.1", 0)
		}
	}()

	for i := 0; i < 50; i++ {
		w := doRequest(t, srv, http.MethodGet, "/health", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	}
	<-done
}

func TestHealth(t *testing.T) {
	srv := NewServer(newStubNode(), "127.0.0.1", 0)

	w := doRequest(t, srv, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
