package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRole enumerates who produced a chat turn
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is one turn in a chat room. Ordered by creation time;
// only the Seen flag is ever mutated after insert.
type ChatMessage struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	ChatRoomID uuid.UUID   `gorm:"type:uuid;not null;index" json:"chat_room_id"`
	Role       MessageRole `gorm:"type:text;not null" json:"role"`
	Text       string      `gorm:"type:text;not null" json:"text"`
	Seen       bool        `gorm:"type:boolean;default:false" json:"seen"`

	// Bot response latency, only set on assistant turns
	LatencyMS *int64 `gorm:"type:bigint" json:"latency_ms,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (ChatMessage) TableName() string {
	return "chat_messages"
}

// BeforeCreate sets UUID before creating
func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
