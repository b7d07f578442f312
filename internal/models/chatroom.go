package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomState enumerates the lifecycle of a chat room
type RoomState string

const (
	RoomActive  RoomState = "ACTIVE"
	RoomExpired RoomState = "EXPIRED"
)

// ChatRoom represents one visitor↔business conversation.
// Live=true means a human operator has taken over and the bot stays quiet.
type ChatRoom struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"customer_id"`

	Live     bool      `gorm:"type:boolean;default:false" json:"live"`
	Favorite bool      `gorm:"type:boolean;default:false" json:"favorite"`
	State    RoomState `gorm:"type:text;default:'ACTIVE'" json:"state"`

	LastActivityAt time.Time `gorm:"not null" json:"last_activity_at"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Messages []ChatMessage `gorm:"foreignKey:ChatRoomID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// TableName specifies the table name
func (ChatRoom) TableName() string {
	return "chat_rooms"
}

// BeforeCreate sets UUID and activity timestamp before creating
func (r *ChatRoom) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.LastActivityAt.IsZero() {
		r.LastActivityAt = time.Now()
	}
	return nil
}

// RoomPreview is the inbox list entry: room plus last message and unseen count
type RoomPreview struct {
	Room          ChatRoom     `json:"room"`
	CustomerEmail string       `json:"customer_email"`
	LastMessage   *ChatMessage `json:"last_message,omitempty"`
	UnseenCount   int64        `json:"unseen_count"`
}
