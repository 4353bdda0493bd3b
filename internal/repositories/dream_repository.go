package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dreamsaver/internal/models/db_models"
)

type DreamRepository interface {
	Create(ctx context.Context, dream *db_models.Dream) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Dream, error)
	// FindByIDAndUser returns nil, nil when the dream is absent or owned by someone else.
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*db_models.Dream, error)
	MarkHasInsight(ctx context.Context, id uuid.UUID) error
}

type dreamRepository struct {
	db *gorm.DB
}

func NewDreamRepository(db *gorm.DB) DreamRepository {
	return &dreamRepository{db: db}
}

func (r *dreamRepository) Create(ctx context.Context, dream *db_models.Dream) error {
	return r.db.WithContext(ctx).Create(dream).Error
}

func (r *dreamRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Dream, error) {
	var dreams []db_models.Dream
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&dreams).Error
	if err != nil {
		return nil, err
	}
	return dreams, nil
}

func (r *dreamRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*db_models.Dream, error) {
	var dream db_models.Dream
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&dream).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dream, nil
}

func (r *dreamRepository) MarkHasInsight(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&db_models.Dream{}).
		Where("id = ?", id).
		UpdateColumn("has_insight", true).Error
}
