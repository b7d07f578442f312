package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kobuai/kobu-ai-be/internal/core/realtime"
	"github.com/kobuai/kobu-ai-be/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Domain{},
		&models.Customer{},
		&models.ChatRoom{},
		&models.ChatMessage{},
		&models.Booking{},
		&models.AvailabilitySchedule{},
		&models.Product{},
		&models.HelpDeskQuestion{},
		&models.FilterQuestion{},
	))
	return db
}

func seedDomain(t *testing.T, db *gorm.DB) *models.Domain {
	t.Helper()

	user := &models.User{Email: uuid.NewString() + "@example.com", FullName: "Owner"}
	require.NoError(t, db.Create(user).Error)

	domain := &models.Domain{
		UserID:         user.ID,
		Name:           "Acme Dental",
		Hostname:       uuid.NewString() + ".example.com",
		WelcomeMessage: "Hey there, have a question?",
	}
	require.NoError(t, db.Create(domain).Error)
	return domain
}

// stubResponder returns a fixed reply or error
type stubResponder struct {
	reply string
	err   error
	calls int
}

func (s *stubResponder) GenerateReply(_ context.Context, _, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// recordingRelay captures publishes so tests can assert fan-out counts
type recordingRelay struct {
	mu        sync.Mutex
	published []publishedEvent
	err       error
}

type publishedEvent struct {
	roomID  string
	event   string
	payload interface{}
}

func (r *recordingRelay) Publish(_ context.Context, roomID, event string, payload interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.published = append(r.published, publishedEvent{roomID: roomID, event: event, payload: payload})
	return nil
}

func (r *recordingRelay) Subscribe(_ context.Context, _ string) (realtime.Subscription, error) {
	return nil, errors.New("recordingRelay does not subscribe")
}

func (r *recordingRelay) forRoom(roomID string) []publishedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []publishedEvent
	for _, p := range r.published {
		if p.roomID == roomID {
			out = append(out, p)
		}
	}
	return out
}
