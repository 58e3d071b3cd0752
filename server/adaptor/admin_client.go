package adaptor

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type AdminClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminClient(cc grpc.ClientConnInterface) *AdminClient {
	return &AdminClient{cc: cc}
}

func (c *AdminClient) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, "/"+AdminServiceName+"/"+method, in, out, opts...)
}

func newStruct(kv map[string]any) (*structpb.Struct, error) {
	return structpb.NewStruct(kv)
}

func (c *AdminClient) Kick(ctx context.Context, user, reason string) error {
	in, err := newStruct(map[string]any{"user": user, "reason": reason})
	if err != nil {
		return err
	}
	return c.invoke(ctx, "Kick", in, &emptypb.Empty{})
}

func (c *AdminClient) Ban(ctx context.Context, user, reason string) error {
	in, err := newStruct(map[string]any{"user": user, "reason": reason})
	if err != nil {
		return err
	}
	return c.invoke(ctx, "Ban", in, &emptypb.Empty{})
}

func (c *AdminClient) Unban(ctx context.Context, user string) error {
	return c.invoke(ctx, "Unban", wrapperspb.String(user), &emptypb.Empty{})
}

func (c *AdminClient) Warn(ctx context.Context, user, text string) error {
	in, err := newStruct(map[string]any{"user": user, "text": text})
	if err != nil {
		return err
	}
	return c.invoke(ctx, "Warn", in, &emptypb.Empty{})
}

func (c *AdminClient) Announce(ctx context.Context, text string) (int, error) {
	out := &wrapperspb.Int32Value{}
	if err := c.invoke(ctx, "Announce", wrapperspb.String(text), out); err != nil {
		return 0, err
	}
	return int(out.GetValue()), nil
}

func (c *AdminClient) DeleteRoom(ctx context.Context, name string) error {
	return c.invoke(ctx, "DeleteRoom", wrapperspb.String(name), &emptypb.Empty{})
}

func (c *AdminClient) ListRooms(ctx context.Context) ([]map[string]any, error) {
	out := &structpb.ListValue{}
	if err := c.invoke(ctx, "ListRooms", &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return structs(out), nil
}

func (c *AdminClient) ListSessions(ctx context.Context) ([]map[string]any, error) {
	out := &structpb.ListValue{}
	if err := c.invoke(ctx, "ListSessions", &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return structs(out), nil
}

func (c *AdminClient) RoomHistory(ctx context.Context, room string) ([]string, error) {
	out := &structpb.ListValue{}
	if err := c.invoke(ctx, "RoomHistory", wrapperspb.String(room), out); err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		lines = append(lines, v.GetStringValue())
	}
	return lines, nil
}

func (c *AdminClient) SearchLog(ctx context.Context, room, pattern string) ([]map[string]any, error) {
	in, err := newStruct(map[string]any{"room": room, "pattern": pattern})
	if err != nil {
		return nil, err
	}
	out := &structpb.ListValue{}
	if err := c.invoke(ctx, "SearchLog", in, out); err != nil {
		return nil, err
	}
	return structs(out), nil
}

func structs(list *structpb.ListValue) []map[string]any {
	out := make([]map[string]any, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		out = append(out, v.GetStructValue().AsMap())
	}
	return out
}
