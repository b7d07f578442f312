package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HelpDeskQuestion is a curated Q&A pair shown in the widget help tab
// and fed into the bot's system prompt.
type HelpDeskQuestion struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DomainID uuid.UUID `gorm:"type:uuid;not null;index" json:"domain_id"`
	Question string    `gorm:"type:text;not null" json:"question"`
	Answer   string    `gorm:"type:text;not null" json:"answer"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (HelpDeskQuestion) TableName() string {
	return "help_desk_questions"
}

// BeforeCreate sets UUID before creating
func (q *HelpDeskQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// FilterQuestion is a qualification question the bot works into the
// conversation (e.g. budget, timeline).
type FilterQuestion struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DomainID uuid.UUID `gorm:"type:uuid;not null;index" json:"domain_id"`
	Question string    `gorm:"type:text;not null" json:"question"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (FilterQuestion) TableName() string {
	return "filter_questions"
}

// BeforeCreate sets UUID before creating
func (q *FilterQuestion) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// QuestionRequest covers creation of both question kinds
type QuestionRequest struct {
	Question string `json:"question" validate:"required,min=1,max=500"`
	Answer   string `json:"answer,omitempty" validate:"max=2000"`
}
