package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kobuai/kobu-ai-be/internal/models"
)

type HelpDeskRepo interface {
	CreateQuestion(ctx context.Context, question *models.HelpDeskQuestion) error
	DeleteQuestion(ctx context.Context, id uuid.UUID) error
	CreateFilterQuestion(ctx context.Context, question *models.FilterQuestion) error
	DeleteFilterQuestion(ctx context.Context, id uuid.UUID) error
}

type helpDeskRepo struct {
	db *gorm.DB
}

func NewHelpDeskRepo(db *gorm.DB) HelpDeskRepo {
	return &helpDeskRepo{db: db}
}

func (r *helpDeskRepo) CreateQuestion(ctx context.Context, question *models.HelpDeskQuestion) error {
	return translate(r.db.WithContext(ctx).Create(question).Error)
}

func (r *helpDeskRepo) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.HelpDeskQuestion{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *helpDeskRepo) CreateFilterQuestion(ctx context.Context, question *models.FilterQuestion) error {
	return translate(r.db.WithContext(ctx).Create(question).Error)
}

func (r *helpDeskRepo) DeleteFilterQuestion(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.FilterQuestion{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
