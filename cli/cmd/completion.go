package cmd

import (
	"context"
	"strings"

	"github.com/ponyo877/roomchat/server/adaptor"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// RoomCompletionFunc completes the first argument with room names known to
// the server. PersistentPreRunE does not run during completion, so it dials
// on its own.
func RoomCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	conn, err := grpc.NewClient(adminTarget, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	rooms, err := adaptor.NewAdminClient(conn).ListRooms(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var names []string
	for _, room := range rooms {
		name, _ := room["name"].(string)
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// UserCompletionFunc completes the first argument with connected usernames.
func UserCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	conn, err := grpc.NewClient(adminTarget, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	sessions, err := adaptor.NewAdminClient(conn).ListSessions(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var names []string
	for _, s := range sessions {
		name, _ := s["user"].(string)
		if name != "" && strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
