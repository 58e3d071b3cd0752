package domain

import "time"

// Member is anything a Room can deliver frames to. Deliver must not block;
// it reports false when the frame could not be queued.
type Member interface {
	ID() string
	Username() string
	Deliver(f Frame) bool
}

// Peer is a live session as seen by the Hub.
type Peer interface {
	Member
	Ready() bool
	Disconnect(reason string)
	Info() SessionInfo
}

// Namespace owns the per-room storage area.
type Namespace interface {
	Provision(room string) error
	Purge(room string) error
}

type RoomObserver interface {
	RoomCreated(name, creator string)
	RoomDeleted(name string)
}

type SessionInfo struct {
	ID          string
	Username    string
	Remote      string
	State       SessionState
	CurrentRoom string
	ConnectedAt time.Time
}

func (s SessionInfo) String() string {
	room := s.CurrentRoom
	if room == "" {
		room = "-"
	}
	return s.Username + "@" + room + "(" + s.State.String() + ")"
}

type RoomInfo struct {
	Name      string
	Creator   string
	CreatedAt time.Time
	Members   []string
	History   int
}
