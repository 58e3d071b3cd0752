package adaptor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ponyo877/roomchat/server/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Adaptor exposes the admin usecases over gRPC.
type Adaptor struct {
	uc     Usecase
	logger *slog.Logger
}

func NewAdaptor(uc Usecase, logger *slog.Logger) *Adaptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adaptor{uc: uc, logger: logger}
}

var _ AdminServer = (*Adaptor)(nil)

func field(in *structpb.Struct, key string) string {
	return in.GetFields()[key].GetStringValue()
}

func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotConnected),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRoomNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrRoomExists),
		errors.Is(err, domain.ErrUserExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrRoomNotEmpty),
		errors.Is(err, domain.ErrDefaultRoom):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrInvalidRoomName),
		errors.Is(err, domain.ErrEmptyRoomName),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrInvalidPattern):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func requireArg(name, value string) error {
	if value == "" {
		return status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	return nil
}

func (a *Adaptor) Kick(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	user := field(in, "user")
	if err := requireArg("user", user); err != nil {
		return nil, err
	}
	if err := a.uc.Kick(user, field(in, "reason")); err != nil {
		a.logger.Info("kick failed", "user", user, "error", err)
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (a *Adaptor) Ban(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	user := field(in, "user")
	if err := requireArg("user", user); err != nil {
		return nil, err
	}
	if err := a.uc.Ban(user, field(in, "reason")); err != nil {
		a.logger.Info("ban failed", "user", user, "error", err)
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (a *Adaptor) Unban(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if err := requireArg("user", in.GetValue()); err != nil {
		return nil, err
	}
	if err := a.uc.Unban(in.GetValue()); err != nil {
		a.logger.Info("unban failed", "user", in.GetValue(), "error", err)
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (a *Adaptor) Warn(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	user, text := field(in, "user"), field(in, "text")
	if err := requireArg("user", user); err != nil {
		return nil, err
	}
	if err := requireArg("text", text); err != nil {
		return nil, err
	}
	if err := a.uc.Warn(user, text); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (a *Adaptor) Announce(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.Int32Value, error) {
	if err := requireArg("text", in.GetValue()); err != nil {
		return nil, err
	}
	return wrapperspb.Int32(int32(a.uc.Announce(in.GetValue()))), nil
}

func (a *Adaptor) DeleteRoom(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	if err := a.uc.DeleteRoom(in.GetValue()); err != nil {
		a.logger.Info("delete room failed", "room", in.GetValue(), "error", err)
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (a *Adaptor) ListRooms(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	rooms := a.uc.ListRooms()
	items := make([]any, len(rooms))
	for i, room := range rooms {
		items[i] = map[string]any{
			"name":       room.Name,
			"creator":    room.Creator,
			"created_at": room.CreatedAt.Format(time.RFC3339),
			"members":    stringsToAny(room.Members),
			"history":    room.History,
		}
	}
	return toList(items)
}

func (a *Adaptor) ListSessions(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	sessions := a.uc.ListSessions()
	items := make([]any, len(sessions))
	for i, s := range sessions {
		items[i] = map[string]any{
			"id":           s.ID,
			"user":         s.Username,
			"remote":       s.Remote,
			"state":        s.State.String(),
			"room":         s.CurrentRoom,
			"connected_at": s.ConnectedAt.Format(time.RFC3339),
		}
	}
	return toList(items)
}

func (a *Adaptor) RoomHistory(ctx context.Context, in *wrapperspb.StringValue) (*structpb.ListValue, error) {
	lines, err := a.uc.RoomHistory(in.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	return toList(stringsToAny(lines))
}

func (a *Adaptor) SearchLog(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error) {
	messages, err := a.uc.SearchLog(field(in, "room"), field(in, "pattern"))
	if err != nil {
		a.logger.Error("search log failed", "error", err)
		return nil, toStatus(err)
	}
	items := make([]any, len(messages))
	for i, m := range messages {
		items[i] = map[string]any{
			"room":       m.Room,
			"sender":     m.Sender,
			"kind":       string(m.Kind),
			"content":    m.Content,
			"created_at": m.CreatedAt.Format(time.RFC3339),
		}
	}
	return toList(items)
}

func stringsToAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func toList(items []any) (*structpb.ListValue, error) {
	list, err := structpb.NewList(items)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return list, nil
}
