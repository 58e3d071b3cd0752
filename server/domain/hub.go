package domain

import (
	"sort"
	"sync"
)

// Hub tracks every logged in session and keeps usernames unique.
type Hub struct {
	mu     sync.RWMutex
	peers  map[string]Peer
	byName map[string]string
}

func NewHub() *Hub {
	return &Hub{
		peers:  make(map[string]Peer),
		byName: make(map[string]string),
	}
}

func (h *Hub) Register(p Peer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.byName[p.Username()]; ok {
		return ErrUsernameTaken
	}
	h.peers[p.ID()] = p
	h.byName[p.Username()] = p.ID()
	return nil
}

func (h *Hub) Unregister(p Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.peers[p.ID()]; !ok {
		return
	}
	delete(h.peers, p.ID())
	if h.byName[p.Username()] == p.ID() {
		delete(h.byName, p.Username())
	}
}

func (h *Hub) Lookup(username string) (Peer, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	id, ok := h.byName[username]
	if !ok {
		return nil, ErrNotConnected
	}
	return h.peers[id], nil
}

func (h *Hub) IsConnected(username string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.byName[username]
	return ok
}

// BroadcastToAll delivers f to every session that finished the ready
// handshake and returns how many accepted it.
func (h *Hub) BroadcastToAll(f Frame) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, p := range h.peers {
		if p.Ready() && p.Deliver(f) {
			n++
		}
	}
	return n
}

func (h *Hub) Usernames() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.peers))
	for _, p := range h.peers {
		if p.Ready() {
			names = append(names, p.Username())
		}
	}
	sort.Strings(names)
	return names
}

func (h *Hub) Sessions() []SessionInfo {
	h.mu.RLock()
	peers := h.snapshot()
	h.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(peers))
	for _, p := range peers {
		infos = append(infos, p.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Username < infos[j].Username })
	return infos
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

func (h *Hub) DisconnectAll(reason string) {
	h.mu.RLock()
	peers := h.snapshot()
	h.mu.RUnlock()

	for _, p := range peers {
		p.Disconnect(reason)
	}
}

func (h *Hub) snapshot() []Peer {
	peers := make([]Peer, 0, len(h.peers))
	for _, p := range h.peers {
		peers = append(peers, p)
	}
	return peers
}
