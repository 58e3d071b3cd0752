package repository

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ponyo877/roomchat/server/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "roomchat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db).(*Repository)
}

func TestRepository_Users(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.CreateUser("alice", "hash"))
	err := repo.CreateUser("alice", "other")
	assert.ErrorIs(t, err, domain.ErrUserExists)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	user, err := repo.GetUser("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.False(t, user.Banned)
	assert.False(t, user.CreatedAt.IsZero())

	_, err = repo.GetUser("bob")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRepository_UpdateBanned(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.CreateUser("alice", "hash"))

	require.NoError(t, repo.UpdateBanned("alice", true))
	user, err := repo.GetUser("alice")
	require.NoError(t, err)
	assert.True(t, user.Banned)

	require.NoError(t, repo.UpdateBanned("alice", false))
	user, err = repo.GetUser("alice")
	require.NoError(t, err)
	assert.False(t, user.Banned)

	assert.ErrorIs(t, repo.UpdateBanned("ghost", true), domain.ErrUserNotFound)
}

func TestRepository_Events(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.CreateEvent("dev", "alice", domain.EventChat, "hello world"))
	require.NoError(t, repo.CreateEvent("dev", "bob", domain.EventChat, "deploy at 5"))
	require.NoError(t, repo.CreateEvent("ops", "carol", domain.EventChat, "hello ops"))
	require.NoError(t, repo.CreateEvent("dev", "", domain.EventRoomDeleted, ""))
	require.NoError(t, repo.CreateEvent("dev", "alice", domain.EventChat, "bye"))

	events, err := repo.ListEvents("dev", domain.EventChat, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "deploy at 5", events[0].Content)
	assert.Equal(t, "bye", events[1].Content)

	events, err = repo.ListEvents("dev", domain.EventRoomDeleted, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Empty(t, events[0].Sender)

	matches, err := repo.ListEventsByQuery("dev", "^hel+o")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "alice", matches[0].Sender)
	assert.Equal(t, "dev", matches[0].Room)

	matches, err = repo.ListEventsByQuery("", "hello")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, err = repo.ListEventsByQuery("dev", "[0-9]")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "bob", matches[0].Sender)
}
