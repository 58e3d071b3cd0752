package domain

import (
	"sort"
	"sync"
	"time"
)

// Room is a named member set with a bounded chat history. Every method holds
// the room mutex for its whole duration, so frames fanned out by one call
// reach each member before frames of the next call.
type Room struct {
	mu          sync.Mutex
	name        string
	creator     string
	createdAt   time.Time
	members     map[string]Member
	history     []string
	historySize int
}

func NewRoom(name, creator string, historySize int) *Room {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	return &Room{
		name:        name,
		creator:     creator,
		createdAt:   time.Now(),
		members:     make(map[string]Member),
		history:     make([]string, 0, historySize),
		historySize: historySize,
	}
}

func (r *Room) Name() string {
	return r.name
}

func (r *Room) Creator() string {
	return r.creator
}

func (r *Room) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Room) Add(m Member) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(m)
}

func (r *Room) add(m Member) bool {
	if _, ok := r.members[m.ID()]; ok {
		return false
	}
	r.members[m.ID()] = m
	return true
}

func (r *Room) Remove(m Member) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[m.ID()]; !ok {
		return false
	}
	delete(r.members, m.ID())
	return true
}

func (r *Room) Has(m Member) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[m.ID()]
	return ok
}

func (r *Room) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// Join adds m and hands it the preamble frames followed by the history
// replay before any other broadcast can interleave. It reports false, and
// sends nothing, when m is already a member.
func (r *Room) Join(m Member, preamble ...Frame) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.add(m) {
		return false
	}
	for _, f := range preamble {
		m.Deliver(f)
	}
	if len(r.history) > 0 {
		m.Deliver(NewTextFrame(HistoryStart))
		for _, line := range r.history {
			m.Deliver(NewTextFrame(line))
		}
		m.Deliver(NewTextFrame(HistoryEnd))
	}
	return true
}

// Broadcast delivers line to every member except exclude. Chat lines are
// recorded in history. Members whose delivery failed are dropped.
func (r *Room) Broadcast(line string, exclude Member) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if IsChatLine(line) {
		r.record(line)
	}
	return r.fanout(NewTextFrame(line), exclude)
}

// BroadcastToAll delivers f to every member and never touches history.
func (r *Room) BroadcastToAll(f Frame) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fanout(f, nil)
}

// BroadcastUserList sends the current member list to every member.
func (r *Room) BroadcastUserList() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fanout(ListReply(ReplyUserList, r.usernames()), nil)
}

func (r *Room) fanout(f Frame, exclude Member) int {
	var failed []string
	delivered := 0
	for id, m := range r.members {
		if exclude != nil && id == exclude.ID() {
			continue
		}
		if !m.Deliver(f) {
			failed = append(failed, id)
			continue
		}
		delivered++
	}
	for _, id := range failed {
		delete(r.members, id)
	}
	return delivered
}

func (r *Room) record(line string) {
	if len(r.history) == r.historySize {
		copy(r.history, r.history[1:])
		r.history = r.history[:len(r.history)-1]
	}
	r.history = append(r.history, line)
}

func (r *Room) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

func (r *Room) Usernames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usernames()
}

func (r *Room) usernames() []string {
	names := make([]string, 0, len(r.members))
	for _, m := range r.members {
		names = append(names, m.Username())
	}
	sort.Strings(names)
	return names
}

func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomInfo{
		Name:      r.name,
		Creator:   r.creator,
		CreatedAt: r.createdAt,
		Members:   r.usernames(),
		History:   len(r.history),
	}
}
