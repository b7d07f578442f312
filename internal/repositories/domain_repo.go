package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kobuai/kobu-ai-be/internal/models"
)

type DomainRepo interface {
	Create(ctx context.Context, domain *models.Domain) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Domain, error)
	GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.Domain, error)
	GetByHostname(ctx context.Context, hostname string) (*models.Domain, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Domain, error)
	Update(ctx context.Context, domain *models.Domain) error
	Delete(ctx context.Context, id uuid.UUID) error
	HelpDesk(ctx context.Context, domainID uuid.UUID) ([]models.HelpDeskQuestion, error)
	FilterQuestions(ctx context.Context, domainID uuid.UUID) ([]models.FilterQuestion, error)
}

type domainRepo struct {
	db *gorm.DB
}

func NewDomainRepo(db *gorm.DB) DomainRepo {
	return &domainRepo{db: db}
}

func (r *domainRepo) Create(ctx context.Context, domain *models.Domain) error {
	if err := r.db.WithContext(ctx).Create(domain).Error; err != nil {
		return fmt.Errorf("create domain: %w", translate(err))
	}
	return nil
}

func (r *domainRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Domain, error) {
	var domain models.Domain
	err := r.db.WithContext(ctx).First(&domain, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &domain, nil
}

func (r *domainRepo) GetOwned(ctx context.Context, id, userID uuid.UUID) (*models.Domain, error) {
	var domain models.Domain
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&domain).Error
	if err != nil {
		return nil, translate(err)
	}
	return &domain, nil
}

func (r *domainRepo) GetByHostname(ctx context.Context, hostname string) (*models.Domain, error) {
	var domain models.Domain
	err := r.db.WithContext(ctx).Where("hostname = ?", hostname).First(&domain).Error
	if err != nil {
		return nil, translate(err)
	}
	return &domain, nil
}

func (r *domainRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Domain, error) {
	domains := []models.Domain{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&domains).Error
	return domains, translate(err)
}

func (r *domainRepo) Update(ctx context.Context, domain *models.Domain) error {
	return translate(r.db.WithContext(ctx).Save(domain).Error)
}

func (r *domainRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return translate(r.db.WithContext(ctx).Delete(&models.Domain{}, "id = ?", id).Error)
}

func (r *domainRepo) HelpDesk(ctx context.Context, domainID uuid.UUID) ([]models.HelpDeskQuestion, error) {
	questions := []models.HelpDeskQuestion{}
	err := r.db.WithContext(ctx).
		Where("domain_id = ?", domainID).
		Order("created_at ASC").
		Find(&questions).Error
	return questions, translate(err)
}

func (r *domainRepo) FilterQuestions(ctx context.Context, domainID uuid.UUID) ([]models.FilterQuestion, error) {
	questions := []models.FilterQuestion{}
	err := r.db.WithContext(ctx).
		Where("domain_id = ?", domainID).
		Order("created_at ASC").
		Find(&questions).Error
	return questions, translate(err)
}
