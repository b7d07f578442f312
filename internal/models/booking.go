package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Booking is an appointment taken through the widget.
// (domain_id, date, slot) is unique so a slot cannot be double-booked.
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DomainID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bookings_domain_date_slot" json:"domain_id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`

	Date time.Time `gorm:"type:date;not null;uniqueIndex:idx_bookings_domain_date_slot" json:"date"`
	Slot string    `gorm:"type:text;not null;uniqueIndex:idx_bookings_domain_date_slot" json:"slot"`

	// Answers to the domain's filter questions, keyed by question
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}

// BeforeCreate sets UUID before creating
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// AvailabilitySchedule holds a domain's bookable slots for one weekday
type AvailabilitySchedule struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	DomainID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_schedules_domain_day" json:"domain_id"`
	DayOfWeek int            `gorm:"type:integer;not null;uniqueIndex:idx_schedules_domain_day" json:"day_of_week"` // 0 = Sunday
	Slots     datatypes.JSON `gorm:"type:jsonb;not null" json:"slots"`                                              // ["3:30pm", "4:00pm", ...]
	Active    bool           `gorm:"type:boolean;default:true" json:"active"`
}

// TableName specifies the table name
func (AvailabilitySchedule) TableName() string {
	return "availability_schedules"
}

// BeforeCreate sets UUID before creating
func (s *AvailabilitySchedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// CreateBookingRequest represents the widget booking payload
type CreateBookingRequest struct {
	Slot    string            `json:"slot" validate:"required"`
	Date    string            `json:"date" validate:"required,datetime=2006-01-02"`
	Answers map[string]string `json:"answers,omitempty"`
}
