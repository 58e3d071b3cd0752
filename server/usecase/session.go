package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/ponyo877/roomchat/server/adaptor"
	"github.com/ponyo877/roomchat/server/domain"
)

// errSessionDone ends the read loop without counting as a failure.
var errSessionDone = errors.New("session done")

// Session drives one client connection through authentication, the ready
// handshake and the command loop. Reads happen on the goroutine calling
// run; outbound frames go through a bounded queue drained by a writer
// goroutine.
type Session struct {
	id          string
	uc          *Usecase
	conn        *adaptor.FrameConn
	logger      *slog.Logger
	connectedAt time.Time

	state   atomic.Int32
	ready   atomic.Bool
	closing atomic.Bool

	mu       sync.Mutex
	username string
	room     string

	outMu  sync.RWMutex
	out    chan domain.Frame
	closed bool

	closeOnce  sync.Once
	forceClose *time.Timer
	writerDone chan struct{}
}

var (
	_ domain.Member = (*Session)(nil)
	_ domain.Peer   = (*Session)(nil)
)

func newSession(uc *Usecase, conn *adaptor.FrameConn) *Session {
	id := ulid.Make().String()
	return &Session{
		id:          id,
		uc:          uc,
		conn:        conn,
		logger:      uc.logger.With("session", id, "remote", conn.RemoteAddr()),
		connectedAt: time.Now(),
		out:         make(chan domain.Frame, uc.cfg.SendQueueSize),
		writerDone:  make(chan struct{}),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

func (s *Session) currentRoom() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

func (s *Session) setRoom(name string) {
	s.mu.Lock()
	s.room = name
	s.mu.Unlock()
}

func (s *Session) State() domain.SessionState {
	return domain.SessionState(s.state.Load())
}

func (s *Session) transition(next domain.SessionState) bool {
	for {
		cur := s.State()
		if !cur.CanTransition(next) {
			return false
		}
		if s.state.CompareAndSwap(int32(cur), int32(next)) {
			return true
		}
	}
}

func (s *Session) Ready() bool {
	return s.ready.Load()
}

func (s *Session) Info() domain.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.SessionInfo{
		ID:          s.id,
		Username:    s.username,
		Remote:      s.conn.RemoteAddr(),
		State:       s.State(),
		CurrentRoom: s.room,
		ConnectedAt: s.connectedAt,
	}
}

// Deliver queues a pushed frame. Sessions that have not finished the ready
// handshake silently skip pushes.
func (s *Session) Deliver(f domain.Frame) bool {
	if !s.ready.Load() {
		return true
	}
	return s.enqueue(f)
}

// Reply queues a direct answer to the client.
func (s *Session) Reply(f domain.Frame) bool {
	return s.enqueue(f)
}

func (s *Session) reply(kind, message string) {
	s.Reply(domain.NewReply(kind, message))
}

func (s *Session) enqueue(f domain.Frame) bool {
	s.outMu.RLock()
	defer s.outMu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.out <- f:
		return true
	default:
		s.logger.Warn("send queue full, dropping session")
		go s.RequestClose("")
		return false
	}
}

func (s *Session) Disconnect(reason string) {
	s.RequestClose(reason)
}

// RequestClose asks the session to terminate. A non-empty reason reaches
// the client as DISCONNECT before the connection is closed.
func (s *Session) RequestClose(reason string) {
	s.shutdown(reason)
}

func (s *Session) shutdown(reason string) {
	s.closeOnce.Do(func() {
		s.closing.Store(true)
		s.outMu.Lock()
		if reason != "" {
			select {
			case s.out <- domain.NewReply(domain.ReplyDisconnect, reason):
			default:
			}
		}
		s.closed = true
		close(s.out)
		s.outMu.Unlock()
		s.forceClose = time.AfterFunc(s.uc.cfg.CloseGrace, func() {
			s.conn.Close()
		})
	})
}

func (s *Session) writeLoop() {
	defer close(s.writerDone)
	defer s.conn.Close()
	failed := false
	for f := range s.out {
		if failed {
			continue
		}
		if err := s.conn.WriteFrame(f); err != nil {
			if errors.Is(err, domain.ErrFrameTooLarge) {
				s.logger.Warn("dropping oversize frame", "size", len(f.Text), "error", err)
				continue
			}
			failed = true
			s.logger.Debug("write failed", "error", err)
			s.conn.Close()
			go s.RequestClose("")
		}
	}
}

func (s *Session) run(ctx context.Context) {
	s.logger.Info("connection accepted")
	go s.writeLoop()
	stop := context.AfterFunc(ctx, func() {
		s.RequestClose(shutdownReason)
	})
	defer stop()
	defer s.teardown()

	if err := s.serve(); err != nil {
		s.logger.Info("session terminated", "error", err)
	}
}

func (s *Session) serve() error {
	for {
		line, err := s.conn.ReadText()
		if err != nil {
			return s.readError(err)
		}
		switch s.State() {
		case domain.StateAuthenticating:
			err = s.handleAuth(line)
		case domain.StateAwaitingReady:
			err = s.handleReady(line)
		case domain.StateActive:
			err = s.handleCommand(domain.ParseCommand(line))
		default:
			return nil
		}
		if errors.Is(err, errSessionDone) {
			return nil
		}
		if err != nil {
			return s.readError(err)
		}
	}
}

func (s *Session) readError(err error) error {
	if s.closing.Load() {
		return nil
	}
	if adaptor.IsClosedConn(err) {
		s.logger.Debug("peer disconnected")
		return nil
	}
	return err
}

func (s *Session) handleAuth(line string) error {
	cmd, ok := domain.ParseAuthCommand(line)
	if !ok {
		s.reply(domain.ReplyError, "please REGISTER or LOGIN first")
		return nil
	}
	switch cmd.Type {
	case domain.CommandRegister:
		if err := s.uc.Register(cmd.Arg, cmd.Password); err != nil {
			s.reply(domain.ReplyError, errorText(err))
			return nil
		}
		s.logger.Info("user registered", "user", cmd.Arg)
		s.reply(domain.ReplySuccess, "registration successful")
	case domain.CommandLogin:
		if err := s.uc.Authenticate(cmd.Arg, cmd.Password); err != nil {
			s.logger.Info("login rejected", "user", cmd.Arg, "error", err)
			s.reply(domain.ReplyError, errorText(err))
			return nil
		}
		s.mu.Lock()
		s.username = cmd.Arg
		s.mu.Unlock()
		if err := s.uc.hub.Register(s); err != nil {
			s.mu.Lock()
			s.username = ""
			s.mu.Unlock()
			s.reply(domain.ReplyError, errorText(err))
			return nil
		}
		s.transition(domain.StateAwaitingReady)
		s.logger.Info("user logged in", "user", cmd.Arg)
		s.reply(domain.ReplySuccess, "welcome "+cmd.Arg)
	}
	return nil
}

func (s *Session) handleReady(line string) error {
	if strings.TrimSpace(line) != "READY" {
		s.reply(domain.ReplyError, "expected READY")
		return errSessionDone
	}
	s.ready.Store(true)
	s.transition(domain.StateActive)
	if err := s.enterRoom(s.uc.registry.DefaultRoom()); err != nil {
		s.logger.Error("failed to join default room", "error", err)
		s.reply(domain.ReplyError, errorText(err))
	}
	s.Reply(domain.ListReply(domain.ReplyRoomList, s.uc.registry.RoomNames()))
	return nil
}

func (s *Session) handleCommand(cmd domain.Command) error {
	switch cmd.Type {
	case domain.CommandCreateRoom:
		s.createRoom(cmd.Arg)
	case domain.CommandJoinRoom:
		s.joinRoom(cmd.Arg)
	case domain.CommandLeaveRoom:
		s.leaveRoom()
	case domain.CommandGetRooms:
		s.Reply(domain.ListReply(domain.ReplyRoomList, s.uc.registry.RoomNames()))
	case domain.CommandGetUsers:
		s.getUsers()
	case domain.CommandUploadFile:
		return s.uploadFile(cmd.Arg)
	case domain.CommandListFiles:
		s.listFiles()
	case domain.CommandDownloadFile:
		s.downloadFile(cmd.Arg)
	case domain.CommandQuit:
		s.logger.Info("client quit")
		return errSessionDone
	default:
		s.chat(cmd.Arg)
	}
	return nil
}

func (s *Session) chat(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	name := s.currentRoom()
	room, ok := s.uc.registry.Room(name)
	if name == "" || !ok {
		s.reply(domain.ReplyError, "you are not in a room")
		return
	}
	line := domain.ChatLine(s.Username(), text)
	if len(line) > domain.MaxTextSize {
		s.reply(domain.ReplyError, "message too long")
		return
	}
	room.Broadcast(line, s)
	s.uc.record(name, s.Username(), domain.EventChat, text)
}

// teardown runs once when the read loop ends, whatever the cause.
func (s *Session) teardown() {
	s.shutdown("")
	s.state.Store(int32(domain.StateClosed))

	if user := s.Username(); user != "" {
		prev := s.currentRoom()
		affected, deleted := s.uc.registry.RemoveFromAllRooms(s, domain.LeaveNotice(user))
		for _, room := range affected {
			room.BroadcastUserList()
		}
		if len(deleted) > 0 {
			s.uc.broadcastRoomList()
		}
		if prev != "" {
			s.uc.record(prev, user, domain.EventLeave, "")
		}
		s.uc.hub.Unregister(s)
	}
	s.setRoom("")

	<-s.writerDone
	if s.forceClose != nil {
		s.forceClose.Stop()
	}
	s.logger.Info("connection closed", "user", s.Username())
}

func errorText(err error) string {
	for _, known := range []error{
		domain.ErrInvalidUsername, domain.ErrInvalidPassword, domain.ErrUserExists,
		domain.ErrUserNotFound, domain.ErrBanned, domain.ErrBadCredentials, domain.ErrUsernameTaken,
		domain.ErrEmptyRoomName, domain.ErrInvalidRoomName, domain.ErrRoomExists, domain.ErrRoomNotFound,
		domain.ErrTooManyRooms, domain.ErrInvalidFileName, domain.ErrExtension, domain.ErrFileTooLarge,
		domain.ErrFileNotFound, domain.ErrTooManyFiles,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "internal server error"
}
