package adaptor

import (
	"context"

	"github.com/ponyo877/roomchat/server/domain"
)

type Usecase interface {
	ServeConn(ctx context.Context, conn *FrameConn)
	Shutdown(reason string)

	Kick(username, reason string) error
	Ban(username, reason string) error
	Unban(username string) error
	Warn(username, text string) error
	Announce(text string) int
	DeleteRoom(name string) error
	ListRooms() []domain.RoomInfo
	ListSessions() []domain.SessionInfo
	RoomHistory(name string) ([]string, error)
	SearchLog(room, pattern string) ([]domain.Message, error)
}
