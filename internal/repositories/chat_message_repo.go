package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kobuai/kobu-ai-be/internal/models"
)

type ChatMessageRepo interface {
	Create(ctx context.Context, roomID uuid.UUID, role models.MessageRole, text string, latencyMS *int64) (*models.ChatMessage, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.ChatMessage, error)
	LastMessage(ctx context.Context, roomID uuid.UUID) (*models.ChatMessage, error)
	MarkSeen(ctx context.Context, roomID uuid.UUID) error
	CountUnseen(ctx context.Context, roomID uuid.UUID) (int64, error)
}

type chatMessageRepo struct {
	db *gorm.DB
}

func NewChatMessageRepo(db *gorm.DB) ChatMessageRepo {
	return &chatMessageRepo{db: db}
}

func (r *chatMessageRepo) Create(ctx context.Context, roomID uuid.UUID, role models.MessageRole, text string, latencyMS *int64) (*models.ChatMessage, error) {
	message := models.ChatMessage{
		ChatRoomID: roomID,
		Role:       role,
		Text:       text,
		LatencyMS:  latencyMS,
	}
	if err := r.db.WithContext(ctx).Create(&message).Error; err != nil {
		return nil, translate(err)
	}
	return &message, nil
}

// ListByRoom returns the full transcript in ascending creation order
func (r *chatMessageRepo) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]models.ChatMessage, error) {
	messages := []models.ChatMessage{}
	err := r.db.WithContext(ctx).
		Where("chat_room_id = ?", roomID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, translate(err)
}

// LastMessage returns the newest message, or ErrNotFound for an empty room
func (r *chatMessageRepo) LastMessage(ctx context.Context, roomID uuid.UUID) (*models.ChatMessage, error) {
	var message models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("chat_room_id = ?", roomID).
		Order("created_at DESC").
		Limit(1).
		First(&message).Error
	if err != nil {
		return nil, translate(err)
	}
	return &message, nil
}

// MarkSeen flags every unseen message in the room. Idempotent: a second
// call matches zero rows and succeeds.
func (r *chatMessageRepo) MarkSeen(ctx context.Context, roomID uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Model(&models.ChatMessage{}).
		Where("chat_room_id = ? AND seen = ?", roomID, false).
		UpdateColumn("seen", true).Error)
}

func (r *chatMessageRepo) CountUnseen(ctx context.Context, roomID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ChatMessage{}).
		Where("chat_room_id = ? AND seen = ?", roomID, false).
		Count(&count).Error
	return count, translate(err)
}
