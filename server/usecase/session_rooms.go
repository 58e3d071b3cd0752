package usecase

import (
	"github.com/ponyo877/roomchat/server/domain"
)

// enterRoom joins an existing room: the joiner gets ROOM_JOINED and the
// history replay, the others the join notice, everyone the new user list.
func (s *Session) enterRoom(name string) error {
	room, err := s.uc.registry.JoinRoom(name, s, domain.NewReply(domain.ReplyRoomJoined, name))
	if err != nil {
		return err
	}
	s.setRoom(name)
	user := s.Username()
	room.Broadcast(domain.JoinNotice(user), s)
	room.BroadcastUserList()
	s.uc.record(name, user, domain.EventJoin, "")
	return nil
}

// exitRoom removes the session from name and reports whether the room was
// deleted as a result.
func (s *Session) exitRoom(name string) bool {
	room, deleted, err := s.uc.registry.LeaveRoom(name, s)
	if err != nil {
		s.logger.Warn("leave of unknown room", "room", name, "error", err)
		return false
	}
	user := s.Username()
	if !deleted {
		room.Broadcast(domain.LeaveNotice(user), nil)
		room.BroadcastUserList()
	}
	s.uc.record(name, user, domain.EventLeave, "")
	return deleted
}

func (s *Session) createRoom(name string) {
	room, err := s.uc.registry.CreateRoom(name, s,
		domain.NewReply(domain.ReplyRoomCreated, name),
		domain.NewReply(domain.ReplyRoomJoined, name),
	)
	if err != nil {
		s.reply(domain.ReplyError, errorText(err))
		return
	}
	prev := s.currentRoom()
	s.setRoom(name)
	if prev != "" {
		s.exitRoom(prev)
	}
	room.BroadcastUserList()
	s.uc.broadcastRoomList()
}

func (s *Session) joinRoom(name string) {
	if name == "" {
		s.reply(domain.ReplyError, domain.ErrEmptyRoomName.Error())
		return
	}
	prev := s.currentRoom()
	if name == prev {
		s.reply(domain.ReplyError, "already in room "+name)
		return
	}
	// The new room is entered before the old one is vacated, so a room
	// reaped in the meantime leaves the session where it was.
	if err := s.enterRoom(name); err != nil {
		s.reply(domain.ReplyError, errorText(err))
		return
	}
	if prev != "" && s.exitRoom(prev) {
		s.uc.broadcastRoomList()
	}
}

// leaveRoom leaves the current room without joining another one.
func (s *Session) leaveRoom() {
	name := s.currentRoom()
	if name == "" {
		s.reply(domain.ReplyError, "you are not in a room")
		return
	}
	deleted := s.exitRoom(name)
	s.setRoom("")
	s.reply(domain.ReplyRoomLeft, name)
	if deleted {
		s.reply(domain.ReplyRoomDeleted, name)
	}
	s.uc.broadcastRoomList()
}

func (s *Session) getUsers() {
	if room, ok := s.uc.registry.Room(s.currentRoom()); ok {
		s.Reply(domain.ListReply(domain.ReplyUserList, room.Usernames()))
		return
	}
	s.Reply(domain.ListReply(domain.ReplyUserList, s.uc.hub.Usernames()))
}
