package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a product in a domain's catalog
type Product struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	DomainID uuid.UUID `gorm:"type:uuid;not null;index" json:"domain_id"`

	Name        string  `gorm:"type:text;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description,omitempty"`
	Price       float64 `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	ImageURL    string  `gorm:"type:text" json:"image_url,omitempty"`
	IsActive    bool    `gorm:"type:boolean;default:true" json:"is_active"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// BeforeCreate sets UUID before creating
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CreateProductRequest represents product creation request
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description,omitempty" validate:"max=1000"`
	Price       float64 `json:"price" validate:"required,gte=0"`
	ImageURL    string  `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// UpdateProductRequest represents product update request
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// ProductFilter represents product listing options
type ProductFilter struct {
	DomainID   uuid.UUID
	IsActive   *bool
	SearchTerm string
	Page       int
	PageSize   int
}

// ProductListResponse represents paginated product list response
type ProductListResponse struct {
	Products   []Product `json:"products"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}
