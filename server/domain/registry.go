package domain

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

type nopNamespace struct{}

func (nopNamespace) Provision(string) error { return nil }
func (nopNamespace) Purge(string) error     { return nil }

type nopObserver struct{}

func (nopObserver) RoomCreated(string, string) {}
func (nopObserver) RoomDeleted(string)         {}

// Registry owns the room namespace. The default room is created up front
// and is never removed; any other room is removed in the same call that
// leaves it without members.
type Registry struct {
	mu          sync.RWMutex
	rooms       map[string]*Room
	defaultRoom string
	historySize int
	ns          Namespace
	observer    RoomObserver
}

func NewRegistry(defaultRoom string, historySize int, ns Namespace, observer RoomObserver) (*Registry, error) {
	if err := ValidateRoomName(defaultRoom); err != nil {
		return nil, fmt.Errorf("default room %q: %w", defaultRoom, err)
	}
	if ns == nil {
		ns = nopNamespace{}
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if err := ns.Provision(defaultRoom); err != nil {
		return nil, fmt.Errorf("failed to provision default room: %w", err)
	}
	return &Registry{
		rooms:       map[string]*Room{defaultRoom: NewRoom(defaultRoom, "", historySize)},
		defaultRoom: defaultRoom,
		historySize: historySize,
		ns:          ns,
		observer:    observer,
	}, nil
}

func (r *Registry) DefaultRoom() string {
	return r.defaultRoom
}

// CreateRoom creates name with creator as its first member. The preamble
// frames reach the creator before anyone else can join.
func (r *Registry) CreateRoom(name string, creator Member, preamble ...Frame) (*Room, error) {
	if err := ValidateRoomName(name); err != nil {
		return nil, err
	}
	r.mu.Lock()
	if _, ok := r.rooms[name]; ok {
		r.mu.Unlock()
		return nil, ErrRoomExists
	}
	names := make([]string, 0, len(r.rooms)+1)
	for n := range r.rooms {
		names = append(names, n)
	}
	if !ListFits(ReplyRoomList, append(names, name)) {
		r.mu.Unlock()
		return nil, ErrTooManyRooms
	}
	if err := r.ns.Provision(name); err != nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("failed to provision room %s: %w", name, err)
	}
	room := NewRoom(name, creator.Username(), r.historySize)
	room.Join(creator, preamble...)
	r.rooms[name] = room
	r.mu.Unlock()

	r.observer.RoomCreated(name, creator.Username())
	return room, nil
}

// DeleteRoom removes an empty, non-default room.
func (r *Registry) DeleteRoom(name string) error {
	r.mu.Lock()
	if name == r.defaultRoom {
		r.mu.Unlock()
		return ErrDefaultRoom
	}
	room, ok := r.rooms[name]
	if !ok {
		r.mu.Unlock()
		return ErrRoomNotFound
	}
	if room.Len() > 0 {
		r.mu.Unlock()
		return ErrRoomNotEmpty
	}
	r.remove(name)
	r.mu.Unlock()

	r.observer.RoomDeleted(name)
	return nil
}

func (r *Registry) JoinRoom(name string, m Member, preamble ...Frame) (*Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[name]
	if !ok {
		return nil, ErrRoomNotFound
	}
	room.Join(m, preamble...)
	return room, nil
}

// LeaveRoom removes m from name. The emptiness check runs even when m was
// no longer a member, so a room emptied by a failed fan-out is still reaped.
func (r *Registry) LeaveRoom(name string, m Member) (*Room, bool, error) {
	r.mu.Lock()
	room, ok := r.rooms[name]
	if !ok {
		r.mu.Unlock()
		return nil, false, ErrRoomNotFound
	}
	room.Remove(m)
	deleted := r.reapLocked(room)
	r.mu.Unlock()

	if deleted {
		r.observer.RoomDeleted(name)
	}
	return room, deleted, nil
}

// RemoveFromAllRooms drops m from every room, sends notice to the remaining
// members of each room it left and reaps rooms that end up empty.
func (r *Registry) RemoveFromAllRooms(m Member, notice string) ([]*Room, []string) {
	var affected []*Room
	var deleted []string
	r.mu.Lock()
	for _, room := range r.rooms {
		removed := room.Remove(m)
		if r.reapLocked(room) {
			deleted = append(deleted, room.Name())
			continue
		}
		if removed {
			if notice != "" {
				room.Broadcast(notice, nil)
			}
			affected = append(affected, room)
		}
	}
	r.mu.Unlock()

	sort.Strings(deleted)
	for _, name := range deleted {
		r.observer.RoomDeleted(name)
	}
	return affected, deleted
}

func (r *Registry) reapLocked(room *Room) bool {
	if room.Name() == r.defaultRoom || room.Len() > 0 {
		return false
	}
	r.remove(room.Name())
	return true
}

func (r *Registry) remove(name string) {
	delete(r.rooms, name)
	if err := r.ns.Purge(name); err != nil {
		slog.Warn("failed to purge room namespace", "room", name, "error", err)
	}
}

func (r *Registry) Room(name string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[name]
	return room, ok
}

func (r *Registry) RoomNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.rooms))
	for name := range r.rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Rooms() []RoomInfo {
	r.mu.RLock()
	rooms := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	r.mu.RUnlock()

	infos := make([]RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		infos = append(infos, room.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
