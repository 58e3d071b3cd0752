package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/ponyo877/roomchat/server/adaptor"
	"github.com/ponyo877/roomchat/server/domain"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultKickReason = "kicked by administrator"
	defaultBanReason  = "banned by administrator"
	shutdownReason    = "server shutting down"
)

type Usecase struct {
	cfg        domain.Config
	repo       Repository
	files      FileStore
	registry   *domain.Registry
	hub        *domain.Hub
	logger     *slog.Logger
	bcryptCost int
}

func NewUsecase(cfg domain.Config, repo Repository, files FileStore, logger *slog.Logger) (adaptor.Usecase, error) {
	return newUsecase(cfg, repo, files, logger)
}

func newUsecase(cfg domain.Config, repo Repository, files FileStore, logger *slog.Logger) (*Usecase, error) {
	if logger == nil {
		logger = slog.Default()
	}
	u := &Usecase{
		cfg:        cfg,
		repo:       repo,
		files:      files,
		hub:        domain.NewHub(),
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
	}
	registry, err := domain.NewRegistry(cfg.DefaultRoom, cfg.HistorySize, files, auditObserver{u})
	if err != nil {
		return nil, fmt.Errorf("error creating room registry: %w", err)
	}
	u.registry = registry
	return u, nil
}

// auditObserver writes room lifecycle changes to the event log.
type auditObserver struct {
	u *Usecase
}

func (o auditObserver) RoomCreated(name, creator string) {
	o.u.logger.Info("room created", "room", name, "creator", creator)
	o.u.record(name, creator, domain.EventRoomCreated, "")
}

func (o auditObserver) RoomDeleted(name string) {
	o.u.logger.Info("room deleted", "room", name)
	o.u.record(name, "", domain.EventRoomDeleted, "")
}

func (u *Usecase) record(room, sender string, kind domain.EventKind, content string) {
	if err := u.repo.CreateEvent(room, sender, kind, content); err != nil {
		u.logger.Error("failed to write audit event", "room", room, "kind", kind, "error", err)
	}
}

func (u *Usecase) ServeConn(ctx context.Context, conn *adaptor.FrameConn) {
	newSession(u, conn).run(ctx)
}

func (u *Usecase) Shutdown(reason string) {
	if reason == "" {
		reason = shutdownReason
	}
	u.hub.DisconnectAll(reason)
}

func (u *Usecase) Register(username, password string) error {
	if err := domain.ValidateUsername(username); err != nil {
		return err
	}
	if password == "" {
		return domain.ErrInvalidPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.bcryptCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := u.repo.CreateUser(username, string(hash)); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

// Authenticate checks credentials in a fixed order: unknown user, ban,
// password, then whether the user is already online.
func (u *Usecase) Authenticate(username, password string) error {
	user, err := u.repo.GetUser(username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("error getting user: %w", err)
	}
	if user.Banned {
		return domain.ErrBanned
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.ErrBadCredentials
	}
	if u.hub.IsConnected(username) {
		return domain.ErrUsernameTaken
	}
	return nil
}

func (u *Usecase) Kick(username, reason string) error {
	p, err := u.hub.Lookup(username)
	if err != nil {
		return err
	}
	if reason == "" {
		reason = defaultKickReason
	}
	p.Disconnect(reason)
	u.logger.Info("user kicked", "user", username, "reason", reason)
	u.record("", username, domain.EventAdmin, "kick: "+reason)
	return nil
}

// Ban persists the flag first, so a kicked user cannot log straight back in.
func (u *Usecase) Ban(username, reason string) error {
	if err := u.repo.UpdateBanned(username, true); err != nil {
		return fmt.Errorf("error banning %s: %w", username, err)
	}
	if reason == "" {
		reason = defaultBanReason
	}
	u.record("", username, domain.EventAdmin, "ban: "+reason)
	if p, err := u.hub.Lookup(username); err == nil {
		p.Disconnect(reason)
	}
	u.logger.Info("user banned", "user", username, "reason", reason)
	return nil
}

func (u *Usecase) Unban(username string) error {
	if err := u.repo.UpdateBanned(username, false); err != nil {
		return fmt.Errorf("error unbanning %s: %w", username, err)
	}
	u.record("", username, domain.EventAdmin, "unban")
	return nil
}

func (u *Usecase) Warn(username, text string) error {
	p, err := u.hub.Lookup(username)
	if err != nil {
		return err
	}
	p.Deliver(domain.NewReply(domain.ReplyWarning, text))
	u.record("", username, domain.EventAdmin, "warn: "+text)
	return nil
}

func (u *Usecase) Announce(text string) int {
	n := u.hub.BroadcastToAll(domain.NewReply(domain.ReplyServer, text))
	u.record("", "", domain.EventAdmin, "announce: "+text)
	return n
}

func (u *Usecase) DeleteRoom(name string) error {
	if err := u.registry.DeleteRoom(name); err != nil {
		return err
	}
	u.broadcastRoomList()
	return nil
}

func (u *Usecase) ListRooms() []domain.RoomInfo {
	return u.registry.Rooms()
}

func (u *Usecase) ListSessions() []domain.SessionInfo {
	return u.hub.Sessions()
}

// RoomHistory returns the replay buffer of a live room. A room that is gone
// gets its last chat lines rebuilt from the audit log; one that left no chat
// behind is reported as not found.
func (u *Usecase) RoomHistory(name string) ([]string, error) {
	if room, ok := u.registry.Room(name); ok {
		return room.History(), nil
	}
	events, err := u.repo.ListEvents(name, domain.EventChat, u.cfg.HistorySize)
	if err != nil {
		return nil, fmt.Errorf("error reading history of %s: %w", name, err)
	}
	if len(events) == 0 {
		return nil, domain.ErrRoomNotFound
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, domain.ChatLine(e.Sender, e.Content))
	}
	return lines, nil
}

func (u *Usecase) SearchLog(room, pattern string) ([]domain.Message, error) {
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPattern, err)
	}
	messages, err := u.repo.ListEventsByQuery(room, pattern)
	if err != nil {
		return nil, fmt.Errorf("error searching events: %w", err)
	}
	return messages, nil
}

func (u *Usecase) broadcastRoomList() {
	u.hub.BroadcastToAll(domain.ListReply(domain.ReplyRoomList, u.registry.RoomNames()))
}
