package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		typ  CommandType
		arg  string
	}{
		{"CREATE_ROOM:dev", CommandCreateRoom, "dev"},
		{"JOIN_ROOM:dev", CommandJoinRoom, "dev"},
		{"JOIN:dev", CommandJoinRoom, "dev"},
		{"LEAVE_ROOM", CommandLeaveRoom, ""},
		{"LEAVE", CommandLeaveRoom, ""},
		{"GET_ROOMS", CommandGetRooms, ""},
		{"GET_USERS", CommandGetUsers, ""},
		{"UPLOAD_FILE:notes.txt", CommandUploadFile, "notes.txt"},
		{"LIST_FILES", CommandListFiles, ""},
		{"DOWNLOAD_FILE:notes.txt", CommandDownloadFile, "notes.txt"},
		{"QUIT", CommandQuit, ""},
		{"hello world", CommandChat, "hello world"},
		{"LEAVE now", CommandChat, "LEAVE now"},
		{"GET_ROOMS please", CommandChat, "GET_ROOMS please"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd := ParseCommand(tt.line)
			assert.Equal(t, tt.typ, cmd.Type)
			assert.Equal(t, tt.arg, cmd.Arg)
		})
	}
}

func TestParseAuthCommand(t *testing.T) {
	cmd, ok := ParseAuthCommand("LOGIN:alice:pw:with:colons")
	assert.True(t, ok)
	assert.Equal(t, CommandLogin, cmd.Type)
	assert.Equal(t, "alice", cmd.Arg)
	assert.Equal(t, "pw:with:colons", cmd.Password)
	assert.Equal(t, "login: alice", cmd.String())

	cmd, ok = ParseAuthCommand("REGISTER:bob:pw")
	assert.True(t, ok)
	assert.Equal(t, CommandRegister, cmd.Type)

	_, ok = ParseAuthCommand("LOGIN:alice")
	assert.False(t, ok)
	_, ok = ParseAuthCommand("HELLO:a:b")
	assert.False(t, ok)
}

func TestSessionState_CanTransition(t *testing.T) {
	assert.True(t, StateAuthenticating.CanTransition(StateAwaitingReady))
	assert.True(t, StateAwaitingReady.CanTransition(StateActive))
	assert.False(t, StateAuthenticating.CanTransition(StateActive))
	assert.True(t, StateActive.CanTransition(StateClosed))
	assert.False(t, StateClosed.CanTransition(StateClosed))
}
