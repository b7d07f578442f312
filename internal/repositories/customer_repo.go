package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kobuai/kobu-ai-be/internal/models"
)

type CustomerRepo interface {
	GetOrCreate(ctx context.Context, domainID uuid.UUID, email string) (*models.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListByDomain(ctx context.Context, domainID uuid.UUID) ([]models.Customer, error)
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepo {
	return &customerRepo{db: db}
}

func (r *customerRepo) GetOrCreate(ctx context.Context, domainID uuid.UUID, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("domain_id = ? AND email = ?", domainID, email).
		First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate(err)
	}

	customer = models.Customer{DomainID: domainID, Email: email}
	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return r.recoverExisting(ctx, domainID, email, translate(err))
	}
	return &customer, nil
}

// recoverExisting resolves the losing side of two concurrent first
// messages: when Create hits the (domain_id, email) unique index, the
// row the winner inserted is the customer we wanted.
func (r *customerRepo) recoverExisting(ctx context.Context, domainID uuid.UUID, email string, createErr error) (*models.Customer, error) {
	if !errors.Is(createErr, ErrDuplicate) {
		return nil, createErr
	}
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("domain_id = ? AND email = ?", domainID, email).
		First(&customer).Error
	if err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

func (r *customerRepo) ListByDomain(ctx context.Context, domainID uuid.UUID) ([]models.Customer, error) {
	customers := []models.Customer{}
	err := r.db.WithContext(ctx).
		Where("domain_id = ?", domainID).
		Order("created_at DESC").
		Find(&customers).Error
	return customers, translate(err)
}
