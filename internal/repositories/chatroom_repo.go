package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kobuai/kobu-ai-be/internal/models"
)

type ChatRoomRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.ChatRoom, error)
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.ChatRoom, error)
	GetOrCreateByCustomer(ctx context.Context, customerID uuid.UUID) (*models.ChatRoom, error)
	ToggleLive(ctx context.Context, id uuid.UUID) (bool, error)
	SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) error
	TouchActivity(ctx context.Context, id uuid.UUID) error
	ListByDomain(ctx context.Context, domainID uuid.UUID) ([]models.RoomPreview, error)
	ExpireIdle(ctx context.Context, cutoff time.Time) (int64, error)
}

type chatRoomRepo struct {
	db *gorm.DB
}

func NewChatRoomRepo(db *gorm.DB) ChatRoomRepo {
	return &chatRoomRepo{db: db}
}

func (r *chatRoomRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

// GetOwned resolves a room only when its customer's domain belongs to
// the given dashboard user. Rooms outside the user's tenants look like
// ErrNotFound, never like a permission hint.
func (r *chatRoomRepo) GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.WithContext(ctx).
		Joins("JOIN customers ON customers.id = chat_rooms.customer_id").
		Joins("JOIN domains ON domains.id = customers.domain_id").
		Where("chat_rooms.id = ? AND domains.user_id = ?", id, userID).
		First(&room).Error
	if err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (r *chatRoomRepo) GetOrCreateByCustomer(ctx context.Context, customerID uuid.UUID) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&room).Error
	if err == nil {
		return &room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate(err)
	}

	room = models.ChatRoom{CustomerID: customerID, State: models.RoomActive}
	if err := r.db.WithContext(ctx).Create(&room).Error; err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

// ToggleLive flips the live flag in a single UPDATE and returns the new value.
// Concurrent toggles are last-writer-wins.
func (r *chatRoomRepo) ToggleLive(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.ChatRoom{}).
		Where("id = ?", id).
		UpdateColumn("live", gorm.Expr("NOT live"))
	if res.Error != nil {
		return false, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, ErrNotFound
	}

	room, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return room.Live, nil
}

func (r *chatRoomRepo) SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) error {
	res := r.db.WithContext(ctx).Model(&models.ChatRoom{}).
		Where("id = ?", id).
		UpdateColumn("favorite", favorite)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchActivity bumps the activity timestamp and reactivates an expired room
func (r *chatRoomRepo) TouchActivity(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.ChatRoom{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"last_activity_at": time.Now(),
			"state":            models.RoomActive,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *chatRoomRepo) ListByDomain(ctx context.Context, domainID uuid.UUID) ([]models.RoomPreview, error) {
	type roomRow struct {
		models.ChatRoom
		CustomerEmail string
	}

	var rows []roomRow
	err := r.db.WithContext(ctx).Model(&models.ChatRoom{}).
		Select("chat_rooms.*, customers.email AS customer_email").
		Joins("JOIN customers ON customers.id = chat_rooms.customer_id").
		Where("customers.domain_id = ?", domainID).
		Order("chat_rooms.last_activity_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", translate(err))
	}

	if len(rows) == 0 {
		return []models.RoomPreview{}, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ChatRoom.ID
	}

	// Newest message per room in one query instead of one per room
	newest := r.db.Model(&models.ChatMessage{}).
		Select("chat_room_id, MAX(created_at)").
		Where("chat_room_id IN ?", ids).
		Group("chat_room_id")
	var lasts []models.ChatMessage
	err = r.db.WithContext(ctx).
		Where("(chat_room_id, created_at) IN (?)", newest).
		Find(&lasts).Error
	if err != nil {
		return nil, fmt.Errorf("list last messages: %w", translate(err))
	}
	lastByRoom := make(map[uuid.UUID]models.ChatMessage, len(lasts))
	for _, message := range lasts {
		lastByRoom[message.ChatRoomID] = message
	}

	type unseenRow struct {
		ChatRoomID uuid.UUID
		Total      int64
	}
	var unseens []unseenRow
	err = r.db.WithContext(ctx).Model(&models.ChatMessage{}).
		Select("chat_room_id, COUNT(*) AS total").
		Where("chat_room_id IN ? AND seen = ?", ids, false).
		Group("chat_room_id").
		Scan(&unseens).Error
	if err != nil {
		return nil, fmt.Errorf("count unseen: %w", translate(err))
	}
	unseenByRoom := make(map[uuid.UUID]int64, len(unseens))
	for _, row := range unseens {
		unseenByRoom[row.ChatRoomID] = row.Total
	}

	previews := make([]models.RoomPreview, 0, len(rows))
	for _, row := range rows {
		preview := models.RoomPreview{
			Room:          row.ChatRoom,
			CustomerEmail: row.CustomerEmail,
			UnseenCount:   unseenByRoom[row.ChatRoom.ID],
		}
		if last, ok := lastByRoom[row.ChatRoom.ID]; ok {
			message := last
			preview.LastMessage = &message
		}
		previews = append(previews, preview)
	}
	return previews, nil
}

// ExpireIdle marks active rooms with no visitor activity since cutoff as expired
func (r *chatRoomRepo) ExpireIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.ChatRoom{}).
		Where("state = ? AND last_activity_at < ?", models.RoomActive, cutoff).
		UpdateColumn("state", models.RoomExpired)
	return res.RowsAffected, translate(res.Error)
}
