package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kobuai/kobu-ai-be/internal/core/realtime"
	"github.com/kobuai/kobu-ai-be/internal/models"
	"github.com/kobuai/kobu-ai-be/internal/repositories"
	"github.com/kobuai/kobu-ai-be/internal/services"
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

type noopRelay struct{}

func (noopRelay) Publish(context.Context, string, string, interface{}) error { return nil }

func (noopRelay) Subscribe(context.Context, string) (realtime.Subscription, error) {
	return nil, errors.New("noopRelay does not subscribe")
}

type inboxFixture struct {
	app    *fiber.App
	db     *gorm.DB
	owner  *models.User
	room   *models.ChatRoom
	domain *models.Domain
}

// newInboxFixture wires the conversation routes behind a stand-in for the
// auth middleware: the acting user comes from the X-User-ID header.
func newInboxFixture(t *testing.T) *inboxFixture {
	t.Helper()

	db := openTestDB(t)

	owner := &models.User{Email: uuid.NewString() + "@example.com", FullName: "Owner"}
	require.NoError(t, db.Create(owner).Error)

	domain := &models.Domain{
		UserID:   owner.ID,
		Name:     "Acme Dental",
		Hostname: uuid.NewString() + ".example.com",
	}
	require.NoError(t, db.Create(domain).Error)

	customerRepo := repositories.NewCustomerRepo(db)
	roomRepo := repositories.NewChatRoomRepo(db)
	messageRepo := repositories.NewChatMessageRepo(db)

	customer, err := customerRepo.GetOrCreate(context.Background(), domain.ID, "visitor@example.com")
	require.NoError(t, err)
	room, err := roomRepo.GetOrCreateByCustomer(context.Background(), customer.ID)
	require.NoError(t, err)
	_, err = messageRepo.Create(context.Background(), room.ID, models.RoleUser, "hello", nil)
	require.NoError(t, err)

	inbox := services.NewInboxService(roomRepo, messageRepo, noopRelay{})
	handler := NewConversationHandler(inbox, repositories.NewDomainRepo(db), roomRepo)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", c.Get("X-User-ID"))
		return c.Next()
	})
	app.Get("/conversations/:domainID", handler.ListRooms)
	app.Get("/conversations/rooms/:roomID/messages", handler.Transcript)
	app.Post("/conversations/rooms/:roomID/messages", handler.SendMessage)
	app.Post("/conversations/rooms/:roomID/toggle-live", handler.ToggleLive)
	app.Post("/conversations/rooms/:roomID/seen", handler.MarkSeen)
	app.Post("/conversations/rooms/:roomID/favorite", handler.SetFavorite)

	return &inboxFixture{app: app, db: db, owner: owner, room: room, domain: domain}
}

func (f *inboxFixture) request(t *testing.T, method, path, body string, userID uuid.UUID) *http.Response {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-User-ID", userID.String())
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestRoomEndpointsRejectOtherTenants(t *testing.T) {
	f := newInboxFixture(t)

	attacker := &models.User{Email: uuid.NewString() + "@example.com", FullName: "Attacker"}
	require.NoError(t, f.db.Create(attacker).Error)

	roomPath := "/conversations/rooms/" + f.room.ID.String()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"transcript", http.MethodGet, roomPath + "/messages", ""},
		{"operator reply", http.MethodPost, roomPath + "/messages", `{"text":"leaked"}`},
		{"toggle live", http.MethodPost, roomPath + "/toggle-live", ""},
		{"mark seen", http.MethodPost, roomPath + "/seen", ""},
		{"set favorite", http.MethodPost, roomPath + "/favorite", `{"favorite":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.request(t, tt.method, tt.path, tt.body, attacker.ID)
			require.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	}

	// nothing the attacker touched actually changed
	room, err := repositories.NewChatRoomRepo(f.db).GetByID(context.Background(), f.room.ID)
	require.NoError(t, err)
	require.False(t, room.Live)
	require.False(t, room.Favorite)

	messages, err := repositories.NewChatMessageRepo(f.db).ListByRoom(context.Background(), f.room.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.False(t, messages[0].Seen)
}

func TestRoomEndpointsAllowTheOwner(t *testing.T) {
	f := newInboxFixture(t)
	roomPath := "/conversations/rooms/" + f.room.ID.String()

	resp := f.request(t, http.MethodGet, roomPath+"/messages", "", f.owner.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.request(t, http.MethodPost, roomPath+"/toggle-live", "", f.owner.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	room, err := repositories.NewChatRoomRepo(f.db).GetByID(context.Background(), f.room.ID)
	require.NoError(t, err)
	require.True(t, room.Live)

	resp = f.request(t, http.MethodPost, roomPath+"/seen", "", f.owner.ID)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}
