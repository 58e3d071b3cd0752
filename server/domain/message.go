package domain

import "time"

type EventKind string

const (
	EventChat        EventKind = "chat"
	EventJoin        EventKind = "join"
	EventLeave       EventKind = "leave"
	EventRoomCreated EventKind = "room_created"
	EventRoomDeleted EventKind = "room_deleted"
	EventUpload      EventKind = "upload"
	EventAdmin       EventKind = "admin"
)

// Message is one audit log entry.
type Message struct {
	ID        int
	Room      string
	Sender    string
	Kind      EventKind
	Content   string
	CreatedAt time.Time
}

func NewMessage(id int, room, sender string, kind EventKind, content string, createdAt time.Time) Message {
	return Message{
		ID:        id,
		Room:      room,
		Sender:    sender,
		Kind:      kind,
		Content:   content,
		CreatedAt: createdAt,
	}
}
