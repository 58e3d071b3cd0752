package domain

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*Registry, *recordingNamespace, *recordingObserver) {
	t.Helper()
	ns := &recordingNamespace{}
	obs := &recordingObserver{}
	reg, err := NewRegistry("Lobby", 50, ns, obs)
	require.NoError(t, err)
	return reg, ns, obs
}

func TestRegistry_DefaultRoomAlwaysExists(t *testing.T) {
	reg, ns, _ := newTestRegistry(t)
	alice := newFakeMember("alice")

	assert.Equal(t, []string{"Lobby"}, reg.RoomNames())
	assert.Equal(t, []string{"Lobby"}, ns.provisioned)

	_, err := reg.JoinRoom("Lobby", alice)
	require.NoError(t, err)
	_, deleted, err := reg.LeaveRoom("Lobby", alice)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, []string{"Lobby"}, reg.RoomNames())

	assert.ErrorIs(t, reg.DeleteRoom("Lobby"), ErrDefaultRoom)
}

func TestRegistry_CreateRoom(t *testing.T) {
	reg, ns, obs := newTestRegistry(t)
	alice := newFakeMember("alice")

	room, err := reg.CreateRoom("dev", alice, NewReply(ReplyRoomCreated, "dev"), NewReply(ReplyRoomJoined, "dev"))
	require.NoError(t, err)
	assert.True(t, room.Has(alice))
	assert.Equal(t, "alice", room.Creator())
	assert.Equal(t, []string{"ROOM_CREATED:dev", "ROOM_JOINED:dev"}, alice.texts())
	assert.Equal(t, []string{"Lobby", "dev"}, ns.provisioned)
	assert.Equal(t, []string{"dev"}, obs.created)
	assert.Equal(t, []string{"Lobby", "dev"}, reg.RoomNames())

	_, err = reg.CreateRoom("dev", newFakeMember("bob"))
	assert.ErrorIs(t, err, ErrRoomExists)
	_, err = reg.CreateRoom("  ", alice)
	assert.ErrorIs(t, err, ErrEmptyRoomName)
	_, err = reg.CreateRoom("a/b", alice)
	assert.ErrorIs(t, err, ErrInvalidRoomName)
	_, err = reg.CreateRoom("a,b", alice)
	assert.ErrorIs(t, err, ErrInvalidRoomName)
}

func TestRegistry_LastLeaveDeletesRoom(t *testing.T) {
	reg, ns, obs := newTestRegistry(t)
	alice := newFakeMember("alice")
	bob := newFakeMember("bob")

	_, err := reg.CreateRoom("dev", alice)
	require.NoError(t, err)
	_, err = reg.JoinRoom("dev", bob)
	require.NoError(t, err)

	_, deleted, err := reg.LeaveRoom("dev", alice)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, deleted, err = reg.LeaveRoom("dev", bob)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{"Lobby"}, reg.RoomNames())
	assert.Equal(t, []string{"dev"}, ns.purged)
	assert.Equal(t, []string{"dev"}, obs.deleted)

	_, _, err = reg.LeaveRoom("dev", bob)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	_, err = reg.JoinRoom("dev", bob)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRegistry_RemoveFromAllRooms(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	alice := newFakeMember("alice")
	bob := newFakeMember("bob")

	_, err := reg.JoinRoom("Lobby", alice)
	require.NoError(t, err)
	_, err = reg.JoinRoom("Lobby", bob)
	require.NoError(t, err)
	_, err = reg.CreateRoom("solo", alice)
	require.NoError(t, err)
	bob.reset()

	affected, deleted := reg.RemoveFromAllRooms(alice, LeaveNotice("alice"))
	require.Len(t, affected, 1)
	assert.Equal(t, "Lobby", affected[0].Name())
	assert.Equal(t, []string{"solo"}, deleted)
	assert.Equal(t, []string{"<<< alice left the room"}, bob.texts())
	assert.Equal(t, []string{"Lobby"}, reg.RoomNames())
}

func TestRegistry_ReapsRoomEmptiedByFailedDelivery(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	alice := newFakeMember("alice")
	_, err := reg.CreateRoom("dev", alice)
	require.NoError(t, err)

	alice.fail = true
	room, ok := reg.Room("dev")
	require.True(t, ok)
	room.Broadcast(ChatLine("alice", "hi"), nil)
	assert.Equal(t, 0, room.Len())

	_, deleted, err := reg.LeaveRoom("dev", alice)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestRegistry_DeleteRoom(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	alice := newFakeMember("alice")
	_, err := reg.CreateRoom("dev", alice)
	require.NoError(t, err)

	assert.ErrorIs(t, reg.DeleteRoom("dev"), ErrRoomNotEmpty)
	assert.ErrorIs(t, reg.DeleteRoom("nope"), ErrRoomNotFound)

	room, _ := reg.Room("dev")
	room.Remove(alice)
	require.NoError(t, reg.DeleteRoom("dev"))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_Rooms(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	_, err := reg.CreateRoom("dev", newFakeMember("alice"))
	require.NoError(t, err)

	infos := reg.Rooms()
	require.Len(t, infos, 2)
	assert.Equal(t, "Lobby", infos[0].Name)
	assert.Equal(t, "dev", infos[1].Name)
	assert.Equal(t, []string{"alice"}, infos[1].Members)
	assert.Equal(t, "alice", infos[1].Creator)
}

func TestNewRegistry_RejectsInvalidDefaultRoom(t *testing.T) {
	_, err := NewRegistry("a/b", 50, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidRoomName)
}

func TestRegistry_CreateRoomKeepsListingWritable(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	alice := newFakeMember("alice")

	prefix := strings.Repeat("𝒜", 60)
	var err error
	for i := 0; i < 1000 && err == nil; i++ {
		_, err = reg.CreateRoom(fmt.Sprintf("%s%04d", prefix, i), alice)
	}
	require.ErrorIs(t, err, ErrTooManyRooms)

	names := reg.RoomNames()
	assert.True(t, ListFits(ReplyRoomList, names))
	assert.Equal(t, "ROOM_LIST:"+strings.Join(names, ","), ListReply(ReplyRoomList, names).Text)
}
