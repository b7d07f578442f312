package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

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
		UserID:   user.ID,
		Name:     "Acme Dental",
		Hostname: uuid.NewString() + ".example.com",
	}
	require.NoError(t, db.Create(domain).Error)
	return domain
}

func seedRoom(t *testing.T, db *gorm.DB, domainID uuid.UUID) *models.ChatRoom {
	t.Helper()

	customer, err := NewCustomerRepo(db).GetOrCreate(context.Background(), domainID, uuid.NewString()+"@example.com")
	require.NoError(t, err)

	room, err := NewChatRoomRepo(db).GetOrCreateByCustomer(context.Background(), customer.ID)
	require.NoError(t, err)
	return room
}
