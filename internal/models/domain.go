package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Domain represents one business's configured chatbot tenant.
// The Hostname is the website the widget is embedded on and is how the
// widget bootstrap resolves its tenant.
type Domain struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Name           string `gorm:"type:text;not null" json:"name"`
	Hostname       string `gorm:"type:text;unique;not null" json:"hostname"`
	IconURL        string `gorm:"type:text" json:"icon_url,omitempty"`
	WelcomeMessage string `gorm:"type:text;default:'Hey there, have a question? Text us here.'" json:"welcome_message"`

	// Widget appearance (background/text color, etc), stored as-is for the client
	Theme datatypes.JSON `gorm:"type:jsonb" json:"theme,omitempty"`

	HelpdeskEnabled bool `gorm:"type:boolean;default:false" json:"helpdesk_enabled"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Customers         []Customer             `gorm:"foreignKey:DomainID;constraint:OnDelete:CASCADE" json:"-"`
	Products          []Product              `gorm:"foreignKey:DomainID;constraint:OnDelete:CASCADE" json:"-"`
	HelpDeskQuestions []HelpDeskQuestion     `gorm:"foreignKey:DomainID;constraint:OnDelete:CASCADE" json:"-"`
	FilterQuestions   []FilterQuestion       `gorm:"foreignKey:DomainID;constraint:OnDelete:CASCADE" json:"-"`
	Schedules         []AvailabilitySchedule `gorm:"foreignKey:DomainID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name
func (Domain) TableName() string {
	return "domains"
}

// BeforeCreate sets UUID before creating
func (d *Domain) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// CreateDomainRequest represents domain creation payload
type CreateDomainRequest struct {
	Name           string `json:"name" validate:"required,min=1,max=100"`
	Hostname       string `json:"hostname" validate:"required,hostname"`
	IconURL        string `json:"icon_url,omitempty" validate:"omitempty,url"`
	WelcomeMessage string `json:"welcome_message,omitempty" validate:"max=500"`
}

// UpdateDomainRequest represents domain update payload
type UpdateDomainRequest struct {
	Name            *string         `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Hostname        *string         `json:"hostname,omitempty" validate:"omitempty,hostname"`
	IconURL         *string         `json:"icon_url,omitempty" validate:"omitempty,url"`
	WelcomeMessage  *string         `json:"welcome_message,omitempty" validate:"omitempty,max=500"`
	Theme           *datatypes.JSON `json:"theme,omitempty"`
	HelpdeskEnabled *bool           `json:"helpdesk_enabled,omitempty"`
}

// WidgetConfig is the public chatbot configuration handed to the embedded widget
type WidgetConfig struct {
	DomainID        uuid.UUID        `json:"domain_id"`
	Name            string           `json:"name"`
	IconURL         string           `json:"icon_url,omitempty"`
	WelcomeMessage  string           `json:"welcome_message"`
	Theme           datatypes.JSON   `json:"theme,omitempty"`
	HelpdeskEnabled bool             `json:"helpdesk_enabled"`
	HelpDesk        []HelpDeskEntry  `json:"help_desk,omitempty"`
	FilterQuestions []FilterQuestion `json:"filter_questions,omitempty"`
}

// HelpDeskEntry is a question/answer pair shown in the widget help tab
type HelpDeskEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
