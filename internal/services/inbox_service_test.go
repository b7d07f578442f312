package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kobuai/kobu-ai-be/internal/core/realtime"
	"github.com/kobuai/kobu-ai-be/internal/models"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
)

func newInboxFixture(t *testing.T, db *gorm.DB, relay realtime.Relay) (*InboxService, *models.Domain, *SessionResponse, *ChatService) {
	t.Helper()

	domain := seedDomain(t, db)
	chat := newChatService(db, &stubResponder{reply: "bot says hi"}, &recordingRelay{})
	sess, err := chat.StartSession(context.Background(), domain.Hostname, "visitor@example.com")
	require.NoError(t, err)

	inbox := NewInboxService(
		repositories.NewChatRoomRepo(db),
		repositories.NewChatMessageRepo(db),
		relay,
	)
	return inbox, domain, sess, chat
}

func TestToggleLiveRoundTrip(t *testing.T) {
	db := openTestDB(t)
	relay := &recordingRelay{}
	inbox, _, sess, _ := newInboxFixture(t, db, relay)

	live, err := inbox.ToggleLive(context.Background(), sess.RoomID)
	require.NoError(t, err)
	require.True(t, live)

	live, err = inbox.ToggleLive(context.Background(), sess.RoomID)
	require.NoError(t, err)
	require.False(t, live)

	// each toggle notifies open widgets
	events := relay.forRoom(sess.RoomID.String())
	require.Len(t, events, 2)
	require.Equal(t, realtime.EventLiveMode, events[0].event)
	require.True(t, events[0].payload.(LiveModePayload).Live)
	require.False(t, events[1].payload.(LiveModePayload).Live)
}

func TestMarkSeenIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	inbox, _, sess, chat := newInboxFixture(t, db, &recordingRelay{})

	_, err := chat.SendVisitorMessage(context.Background(), sess.Token, "anyone there?")
	require.NoError(t, err)

	require.NoError(t, inbox.MarkSeen(context.Background(), sess.RoomID))
	require.NoError(t, inbox.MarkSeen(context.Background(), sess.RoomID))

	transcript, err := inbox.Transcript(context.Background(), sess.RoomID)
	require.NoError(t, err)
	require.NotEmpty(t, transcript)
	for _, msg := range transcript {
		require.True(t, msg.Seen)
	}
}

func TestSendOperatorMessagePersistsAssistantTurn(t *testing.T) {
	db := openTestDB(t)
	relay := &recordingRelay{}
	inbox, _, sess, _ := newInboxFixture(t, db, relay)

	msg, err := inbox.SendOperatorMessage(context.Background(), sess.RoomID, "Hi, Maria here, how can I help?")
	require.NoError(t, err)
	require.Equal(t, models.RoleAssistant, msg.Role)
	require.Nil(t, msg.LatencyMS)

	events := relay.forRoom(sess.RoomID.String())
	require.Len(t, events, 1)
	require.Equal(t, realtime.EventMessage, events[0].event)
}

func TestSendOperatorMessageUnknownRoom(t *testing.T) {
	db := openTestDB(t)
	inbox, _, _, _ := newInboxFixture(t, db, &recordingRelay{})

	_, err := inbox.SendOperatorMessage(context.Background(), uuid.New(), "hello?")
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestListRoomsPreview(t *testing.T) {
	db := openTestDB(t)
	inbox, domain, sess, chat := newInboxFixture(t, db, &recordingRelay{})

	_, err := chat.SendVisitorMessage(context.Background(), sess.Token, "first question")
	require.NoError(t, err)

	previews, err := inbox.ListRooms(context.Background(), domain.ID)
	require.NoError(t, err)
	require.Len(t, previews, 1)
	require.Equal(t, sess.RoomID, previews[0].Room.ID)
	require.Equal(t, "visitor@example.com", previews[0].CustomerEmail)
	require.NotNil(t, previews[0].LastMessage)
	// visitor turn plus bot turn, neither seen yet
	require.Equal(t, int64(2), previews[0].UnseenCount)
}

func TestSetFavorite(t *testing.T) {
	db := openTestDB(t)
	inbox, domain, sess, _ := newInboxFixture(t, db, &recordingRelay{})

	require.NoError(t, inbox.SetFavorite(context.Background(), sess.RoomID, true))

	previews, err := inbox.ListRooms(context.Background(), domain.ID)
	require.NoError(t, err)
	require.Len(t, previews, 1)
	require.True(t, previews[0].Room.Favorite)
}
