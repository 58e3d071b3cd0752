package usecase

import "github.com/ponyo877/roomchat/server/domain"

type Repository interface {
	// User
	CreateUser(username, passwordHash string) error
	GetUser(username string) (domain.User, error)
	UpdateBanned(username string, banned bool) error

	// Event
	CreateEvent(room, sender string, kind domain.EventKind, content string) error
	ListEvents(room string, kind domain.EventKind, limit int) ([]domain.Message, error)
	ListEventsByQuery(room, pattern string) ([]domain.Message, error)
}

// FileStore keeps uploaded files under one namespace per room.
type FileStore interface {
	domain.Namespace
	Save(room, name string, data []byte) error
	Load(room, name string) ([]byte, error)
	List(room string) ([]domain.File, error)
}
