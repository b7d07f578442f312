package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kobuai/kobu-ai-be/internal/models"
)

func TestListByRoomOldestFirst(t *testing.T) {
	db := openTestDB(t)
	domain := seedDomain(t, db)
	room := seedRoom(t, db, domain.ID)
	repo := NewChatMessageRepo(db)

	latency := int64(420)
	_, err := repo.Create(context.Background(), room.ID, models.RoleUser, "first", nil)
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), room.ID, models.RoleAssistant, "second", &latency)
	require.NoError(t, err)

	transcript, err := repo.ListByRoom(context.Background(), room.ID)
	require.NoError(t, err)
	require.Len(t, transcript, 2)
	require.Equal(t, "first", transcript[0].Text)
	require.Equal(t, "second", transcript[1].Text)
	require.Nil(t, transcript[0].LatencyMS)
	require.Equal(t, int64(420), *transcript[1].LatencyMS)
}

func TestListByRoomEmptyRoom(t *testing.T) {
	db := openTestDB(t)
	domain := seedDomain(t, db)
	room := seedRoom(t, db, domain.ID)
	repo := NewChatMessageRepo(db)

	transcript, err := repo.ListByRoom(context.Background(), room.ID)
	require.NoError(t, err)
	require.Empty(t, transcript)
}

func TestLastMessage(t *testing.T) {
	db := openTestDB(t)
	domain := seedDomain(t, db)
	room := seedRoom(t, db, domain.ID)
	repo := NewChatMessageRepo(db)

	_, err := repo.LastMessage(context.Background(), room.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Create(context.Background(), room.ID, models.RoleUser, "older", nil)
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), room.ID, models.RoleAssistant, "newest", nil)
	require.NoError(t, err)

	last, err := repo.LastMessage(context.Background(), room.ID)
	require.NoError(t, err)
	require.Equal(t, "newest", last.Text)
}

func TestMarkSeenIdempotent(t *testing.T) {
	db := openTestDB(t)
	domain := seedDomain(t, db)
	room := seedRoom(t, db, domain.ID)
	otherRoom := seedRoom(t, db, domain.ID)
	repo := NewChatMessageRepo(db)

	_, err := repo.Create(context.Background(), room.ID, models.RoleUser, "unread", nil)
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), otherRoom.ID, models.RoleUser, "other room", nil)
	require.NoError(t, err)

	count, err := repo.CountUnseen(context.Background(), room.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	require.NoError(t, repo.MarkSeen(context.Background(), room.ID))
	require.NoError(t, repo.MarkSeen(context.Background(), room.ID))

	count, err = repo.CountUnseen(context.Background(), room.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	// the other room's messages are untouched
	count, err = repo.CountUnseen(context.Background(), otherRoom.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestMarkSeenUnknownRoomIsNoop(t *testing.T) {
	db := openTestDB(t)
	repo := NewChatMessageRepo(db)

	require.NoError(t, repo.MarkSeen(context.Background(), uuid.New()))
}
