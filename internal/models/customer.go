package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents an identified website visitor under a domain
type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DomainID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_customers_domain_email" json:"domain_id"`
	Email    string    `gorm:"type:text;not null;uniqueIndex:idx_customers_domain_email" json:"email"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	ChatRoom *ChatRoom `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"chat_room,omitempty"`
	Bookings []Booking `gorm:"foreignKey:CustomerID" json:"-"`
}

// TableName specifies the table name
func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate sets UUID before creating
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
