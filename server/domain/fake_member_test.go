package domain

import (
	"sync"
)

type fakeMember struct {
	id    string
	name  string
	ready bool

	mu     sync.Mutex
	frames []Frame
	fail   bool
	reason string
	closed bool
}

func newFakeMember(name string) *fakeMember {
	return &fakeMember{id: "id-" + name, name: name, ready: true}
}

func (m *fakeMember) ID() string       { return m.id }
func (m *fakeMember) Username() string { return m.name }
func (m *fakeMember) Ready() bool      { return m.ready }

func (m *fakeMember) Deliver(f Frame) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return false
	}
	m.frames = append(m.frames, f)
	return true
}

func (m *fakeMember) Disconnect(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reason = reason
	m.closed = true
}

func (m *fakeMember) Info() SessionInfo {
	return SessionInfo{ID: m.id, Username: m.name, State: StateActive}
}

func (m *fakeMember) texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.frames))
	for _, f := range m.frames {
		out = append(out, f.Text)
	}
	return out
}

func (m *fakeMember) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = nil
}

type recordingNamespace struct {
	mu          sync.Mutex
	provisioned []string
	purged      []string
}

func (n *recordingNamespace) Provision(room string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.provisioned = append(n.provisioned, room)
	return nil
}

func (n *recordingNamespace) Purge(room string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.purged = append(n.purged, room)
	return nil
}

type recordingObserver struct {
	mu      sync.Mutex
	created []string
	deleted []string
}

func (o *recordingObserver) RoomCreated(name, _ string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created = append(o.created, name)
}

func (o *recordingObserver) RoomDeleted(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deleted = append(o.deleted, name)
}
